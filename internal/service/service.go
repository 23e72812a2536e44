// Package service implements the business rules of the bond marketplace:
// registration and login, wallet top-ups, bond purchases, and portfolio
// aggregation. All persistence goes through the store.Repository interface
// so the rules stay testable without environment coupling.
package service

import (
	"errors"

	"github.com/bondfi/bondfi/internal/store"
	"github.com/bondfi/bondfi/internal/token"
)

var (
	ErrBondNotFound       = errors.New("bond not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidAmount      = errors.New("amount must be positive")
	ErrBelowMinimumEntry  = errors.New("amount below minimum entry")
	ErrMissingFields      = errors.New("name, email and password are required")
)

type Service struct {
	repo            store.Repository
	tokens          *token.Manager
	startingBalance float64
}

// New wires the service to its storage and token dependencies.
// startingBalance is the USDC amount every new wallet is seeded with.
func New(repo store.Repository, tokens *token.Manager, startingBalance float64) *Service {
	return &Service{repo: repo, tokens: tokens, startingBalance: startingBalance}
}
