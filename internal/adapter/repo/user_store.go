package repo

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"collect/internal/domain"
)

// UserStorePG implements domain.UserStore backed by PostgreSQL.
type UserStorePG struct {
	pool *pgxpool.Pool
}

// NewUserStore creates a new UserStorePG.
func NewUserStore(pool *pgxpool.Pool) *UserStorePG {
	return &UserStorePG{pool: pool}
}

const userColumns = `id, username, email, password_hash, created_at`

// CreateUser inserts a new identity.
func (r *UserStorePG) CreateUser(ctx context.Context, u *domain.User) (*domain.User, error) {
	row := r.pool.QueryRow(ctx, `
INSERT INTO users (id, username, email, password_hash)
VALUES ($1, $2, $3, $4)
RETURNING `+userColumns+`;
`, u.ID, u.Username, u.Email, u.PasswordHash)
	return scanUser(row)
}

// GetUserByID fetches a user by id.
func (r *UserStorePG) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1;`, id)
	return scanUser(row)
}

// GetUserByUsername fetches a user by username.
func (r *UserStorePG) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1;`, username)
	return scanUser(row)
}

// AnonymizeUserPayments detaches the payer from every payment they
// made. Amounts and participant counts are aggregates of committed
// payments, not of payer references, so they are untouched.
func (r *UserStorePG) AnonymizeUserPayments(ctx context.Context, payerID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `UPDATE payments SET payer_id = NULL WHERE payer_id = $1;`, payerID)
	return mapPgError(err)
}

// DeleteUser removes the identity. Owned collections cascade away via
// their foreign key; the payments foreign key's ON DELETE SET NULL
// backstops any payment not already anonymized.
func (r *UserStorePG) DeleteUser(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1;`, id)
	if err != nil {
		return mapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt); err != nil {
		return nil, mapPgError(err)
	}
	return &u, nil
}
