// Command seed fills the database with fake users, collections, and
// payments for local development. Payments go through the engine, so
// running totals, participant counts, and close transitions come out
// consistent.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"collect/internal/adapter/repo"
	"collect/internal/domain"
	"collect/internal/infra"
	"collect/internal/service"
)

var (
	purposes = []domain.Purpose{
		domain.PurposeBirthday,
		domain.PurposeWedding,
		domain.PurposeCharity,
		domain.PurposeOther,
	}

	titleWords = []string{
		"garden", "winter", "school", "river", "concert", "library",
		"journey", "harvest", "bridge", "festival", "workshop", "shelter",
	}
)

func main() {
	var (
		usersFlag       int
		collectionsFlag int
		paymentsFlag    int
		clearFlag       bool
	)

	flag.IntVar(&usersFlag, "users", 10, "number of users to create")
	flag.IntVar(&collectionsFlag, "collections", 50, "number of collections to create")
	flag.IntVar(&paymentsFlag, "payments", 100, "number of payments to create")
	flag.BoolVar(&clearFlag, "clear", false, "clear existing data before populating")
	flag.Parse()

	_ = godotenv.Load()

	dbURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if dbURL == "" {
		exitWithError(errors.New("DATABASE_URL is required"))
	}

	ctx := context.Background()
	logger := infra.NewLogger("cli").With().Str("cmd", "seed").Logger()

	cfg := &infra.Config{DatabaseURL: dbURL}
	pool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		exitWithError(fmt.Errorf("failed to connect database: %w", err))
	}
	defer pool.Close()

	if err := infra.Migrate(ctx, dbURL); err != nil {
		exitWithError(fmt.Errorf("failed to migrate database: %w", err))
	}

	if clearFlag {
		logger.Info().Msg("clearing existing data")
		for _, table := range []string{"payments", "collections", "users"} {
			if _, err := pool.Exec(ctx, "DELETE FROM "+table); err != nil {
				exitWithError(fmt.Errorf("failed to clear %s: %w", table, err))
			}
		}
	}

	ledger := repo.NewLedgerStore(pool, 3*time.Second, 10*time.Second)
	userStore := repo.NewUserStore(pool)
	collections := service.NewCollections(ledger, nopEvents{}, logger)
	engine := service.NewEngine(ledger, nopEvents{}, logger)

	// All seeded accounts share one password for local logins.
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		exitWithError(err)
	}

	seededUsers := make([]*domain.User, 0, usersFlag)
	for i := 0; i < usersFlag; i++ {
		name := fmt.Sprintf("%s%d", titleWords[rand.Intn(len(titleWords))], rand.Intn(900)+100)
		u, err := userStore.CreateUser(ctx, &domain.User{
			ID:           uuid.New(),
			Username:     name,
			Email:        name + "@example.com",
			PasswordHash: string(hash),
		})
		if err != nil {
			exitWithError(fmt.Errorf("failed to create user: %w", err))
		}
		seededUsers = append(seededUsers, u)
	}
	logger.Info().Int("count", len(seededUsers)).Msg("created users")

	seeded := make([]*domain.Collection, 0, collectionsFlag)
	for i := 0; i < collectionsFlag; i++ {
		author := seededUsers[rand.Intn(len(seededUsers))]
		in := service.CreateCollectionInput{
			Title:       fmt.Sprintf("The %s %s fund", titleWords[rand.Intn(len(titleWords))], titleWords[rand.Intn(len(titleWords))]),
			Purpose:     purposes[rand.Intn(len(purposes))],
			Description: "Seeded collection for local development.",
		}
		// A share of collections has no target and never auto-closes.
		if rand.Float64() >= 0.3 {
			target := decimal.NewFromInt(int64(rand.Intn(95000) + 5000))
			in.TargetAmount = &target
		}
		c, err := collections.Create(ctx, author.ID, in)
		if err != nil {
			exitWithError(fmt.Errorf("failed to create collection: %w", err))
		}
		seeded = append(seeded, c)
	}
	logger.Info().Int("count", len(seeded)).Msg("created collections")

	paid := 0
	for i := 0; i < paymentsFlag; i++ {
		c := seeded[rand.Intn(len(seeded))]
		payer := seededUsers[rand.Intn(len(seededUsers))]
		if payer.ID == c.AuthorID {
			continue
		}
		amount := decimal.NewFromInt(int64(rand.Intn(4900) + 100))
		if _, err := engine.ApplyPayment(ctx, c.ID, payer.ID, amount); err != nil {
			exitWithError(fmt.Errorf("failed to apply payment: %w", err))
		}
		paid++
	}
	logger.Info().Int("count", paid).Msg("created payments")

	fmt.Printf("Database populated: %d users, %d collections, %d payments\n",
		len(seededUsers), len(seeded), paid)
}

// nopEvents discards mutation events; the seeder has no cache to keep
// coherent.
type nopEvents struct{}

func (nopEvents) OnCollectionListChanged(context.Context)                {}
func (nopEvents) OnCollectionChanged(context.Context, uuid.UUID)         {}
func (nopEvents) OnCollectionPaymentsChanged(context.Context, uuid.UUID) {}

func exitWithError(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
