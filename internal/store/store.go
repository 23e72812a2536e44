package store

import (
	"context"
	"errors"

	"github.com/bondfi/bondfi/internal/domain"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrEmailTaken        = errors.New("email already registered")
	ErrWalletNotFound    = errors.New("wallet not found")
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// Repository is the persistence contract consumed by the service layer.
// Implementations must serialize mutations: ExecDeposit and ExecPurchase
// are balance-update-plus-transaction-append pairs that take effect
// atomically or not at all.
type Repository interface {
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)

	// CreateUserWithWallet creates the user record and its wallet as one
	// unit. Returns ErrEmailTaken if the email is already registered, in
	// which case nothing is written.
	CreateUserWithWallet(ctx context.Context, u domain.User, w domain.Wallet) error

	GetWallet(ctx context.Context, email string) (*domain.Wallet, error)

	// ExecDeposit credits txn.Amount to the wallet for txn.Email, appends
	// txn, and returns the new balance.
	ExecDeposit(ctx context.Context, txn domain.Transaction) (float64, error)

	// ExecPurchase debits txn.Amount from the wallet for txn.Email, appends
	// txn, and returns the new balance. Returns ErrInsufficientFunds
	// without mutating anything if the wallet cannot cover the amount.
	ExecPurchase(ctx context.Context, txn domain.Transaction) (float64, error)

	// ListTransactions returns all transactions for the email, most recent
	// first.
	ListTransactions(ctx context.Context, email string) ([]domain.Transaction, error)
}
