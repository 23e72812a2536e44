package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/bondfi/bondfi/internal/bonds"
	"github.com/bondfi/bondfi/internal/domain"
)

// ListBonds returns the full static catalog.
func (s *Service) ListBonds() []domain.Bond {
	return bonds.All()
}

// GetBond returns one catalog entry or ErrBondNotFound.
func (s *Service) GetBond(id string) (domain.Bond, error) {
	b, ok := bonds.Find(id)
	if !ok {
		return domain.Bond{}, ErrBondNotFound
	}
	return b, nil
}

// GetWallet returns the wallet for the given identity.
func (s *Service) GetWallet(ctx context.Context, email string) (*domain.Wallet, error) {
	return s.repo.GetWallet(ctx, email)
}

// TopUp credits the wallet and appends a deposit transaction so the
// history stays complete for deposits as well as buys.
func (s *Service) TopUp(ctx context.Context, email string, amount float64) (float64, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}

	txn := domain.Transaction{
		ID:              newTransactionID(),
		Email:           email,
		BondID:          "topup",
		BondCountry:     "Deposit",
		Amount:          amount,
		TokensReceived:  amount,
		Timestamp:       time.Now().UTC().Format(time.RFC3339),
		TransactionType: domain.TransactionTypeDeposit,
	}
	return s.repo.ExecDeposit(ctx, txn)
}

// Buy purchases bond tokens at the fixed 1:1 USDC rate. The bond must
// exist and the amount must clear the bond's minimum entry before the
// wallet is touched; an insufficient balance leaves both collections
// unchanged.
func (s *Service) Buy(ctx context.Context, email, bondID string, amount float64) (*domain.Transaction, error) {
	bond, ok := bonds.Find(bondID)
	if !ok {
		return nil, ErrBondNotFound
	}
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if amount < bond.MinimumEntry {
		return nil, ErrBelowMinimumEntry
	}

	txn := domain.Transaction{
		ID:              newTransactionID(),
		Email:           email,
		BondID:          bond.ID,
		BondCountry:     bond.Country,
		Amount:          amount,
		TokensReceived:  amount,
		Timestamp:       time.Now().UTC().Format(time.RFC3339),
		TransactionType: domain.TransactionTypeBuy,
	}

	if _, err := s.repo.ExecPurchase(ctx, txn); err != nil {
		return nil, err
	}
	return &txn, nil
}

// ListTransactions returns the identity's full history, newest first.
func (s *Service) ListTransactions(ctx context.Context, email string) ([]domain.Transaction, error) {
	return s.repo.ListTransactions(ctx, email)
}

func newTransactionID() string {
	return "txn_" + uuid.NewString()
}
