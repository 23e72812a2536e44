package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/bondfi/bondfi/internal/domain"
	"github.com/bondfi/bondfi/internal/store"
)

// Register creates a user and its wallet seeded with the starting balance,
// then issues a session token. Returns store.ErrEmailTaken for duplicate
// registrations; the existing records are left untouched.
func (s *Service) Register(ctx context.Context, req domain.RegisterRequest) (*domain.AuthResponse, error) {
	name := strings.TrimSpace(req.Name)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if name == "" || email == "" || req.Password == "" || !strings.Contains(email, "@") {
		return nil, ErrMissingFields
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := domain.User{
		Name:      name,
		Email:     email,
		Password:  string(hash),
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	wallet := domain.Wallet{
		Email:       email,
		USDCBalance: s.startingBalance,
	}

	if err := s.repo.CreateUserWithWallet(ctx, user, wallet); err != nil {
		return nil, err
	}

	tok, err := s.tokens.Issue(email)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &domain.AuthResponse{Token: tok, User: user}, nil
}

// Login checks credentials and issues a fresh token. Unknown email and
// wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, req domain.LoginRequest) (*domain.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.repo.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		return nil, ErrInvalidCredentials
	}

	tok, err := s.tokens.Issue(user.Email)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &domain.AuthResponse{Token: tok, User: *user}, nil
}

// ResolveIdentity verifies a bearer token and confirms the subject is still
// a registered user. Every failure mode collapses to ErrUnauthorized.
func (s *Service) ResolveIdentity(ctx context.Context, tokenString string) (string, error) {
	email, err := s.tokens.Subject(tokenString)
	if err != nil {
		return "", ErrUnauthorized
	}
	if _, err := s.repo.FindUserByEmail(ctx, email); err != nil {
		return "", ErrUnauthorized
	}
	return email, nil
}
