package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"collect/internal/domain"
)

// Users manages payer/author identities.
type Users struct {
	store domain.UserStore
	log   zerolog.Logger
}

// NewUsers creates the identity service.
func NewUsers(store domain.UserStore, log zerolog.Logger) *Users {
	return &Users{store: store, log: log}
}

// Register creates a new identity with a bcrypt-hashed password.
func (s *Users) Register(ctx context.Context, username, email, password string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", domain.ErrInvalidInput)
	}
	if len(password) < 8 {
		return nil, fmt.Errorf("%w: password must be at least 8 characters", domain.ErrInvalidInput)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	return s.store.CreateUser(ctx, &domain.User{
		ID:           uuid.New(),
		Username:     username,
		Email:        strings.TrimSpace(email),
		PasswordHash: string(hash),
	})
}

// Authenticate verifies username/password and returns the identity.
func (s *Users) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	u, err := s.store.GetUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrUnauthorized
	}
	return u, nil
}

// Get returns one identity.
func (s *Users) Get(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.store.GetUserByID(ctx, id)
}

// Delete removes the identity. The user's payments are anonymized
// first, so they survive with the payer reference nulled and all
// collection aggregates untouched; collections the user authored then
// cascade away with the identity row.
func (s *Users) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.store.AnonymizeUserPayments(ctx, id); err != nil {
		return err
	}
	return s.store.DeleteUser(ctx, id)
}
