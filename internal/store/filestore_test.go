package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bondfi/bondfi/internal/domain"
)

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	return s
}

func seedUser(t *testing.T, s *FileStore, email string, balance float64) {
	t.Helper()
	err := s.CreateUserWithWallet(context.Background(),
		domain.User{Name: "Test", Email: email, Password: "hash", CreatedAt: "2026-01-01T00:00:00Z"},
		domain.Wallet{Email: email, USDCBalance: balance},
	)
	require.NoError(t, err)
}

func TestCreateUserWithWallet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seedUser(t, s, "alice@example.com", 100)

	u, err := s.FindUserByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", u.Email)

	w, err := s.GetWallet(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, 100.0, w.USDCBalance)
}

func TestCreateUserWithWalletDuplicateEmail(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seedUser(t, s, "alice@example.com", 100)

	err := s.CreateUserWithWallet(ctx,
		domain.User{Name: "Impostor", Email: "alice@example.com", Password: "other"},
		domain.Wallet{Email: "alice@example.com", USDCBalance: 100},
	)
	assert.ErrorIs(t, err, ErrEmailTaken)

	// First record untouched.
	u, err := s.FindUserByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Test", u.Name)
}

func TestFindUserByEmailMissing(t *testing.T) {
	s := newTestStore(t)

	_, err := s.FindUserByEmail(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestGetWalletMissing(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetWallet(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, ErrWalletNotFound)
}

func TestExecPurchase(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedUser(t, s, "alice@example.com", 100)

	balance, err := s.ExecPurchase(ctx, domain.Transaction{
		ID: "txn_1", Email: "alice@example.com", BondID: "bond_us_1",
		BondCountry: "United States", Amount: 40, TokensReceived: 40,
		Timestamp: "2026-01-02T00:00:00Z", TransactionType: domain.TransactionTypeBuy,
	})
	require.NoError(t, err)
	assert.Equal(t, 60.0, balance)

	txns, err := s.ListTransactions(ctx, "alice@example.com")
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, "txn_1", txns[0].ID)
}

func TestExecPurchaseInsufficientFunds(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedUser(t, s, "alice@example.com", 30)

	_, err := s.ExecPurchase(ctx, domain.Transaction{
		ID: "txn_1", Email: "alice@example.com", Amount: 40,
	})
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	// Neither collection mutated.
	w, err := s.GetWallet(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, 30.0, w.USDCBalance)

	txns, err := s.ListTransactions(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Empty(t, txns)
}

func TestExecDeposit(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedUser(t, s, "alice@example.com", 100)

	balance, err := s.ExecDeposit(ctx, domain.Transaction{
		ID: "txn_1", Email: "alice@example.com", BondID: "topup",
		BondCountry: "Deposit", Amount: 50, TokensReceived: 50,
		Timestamp: "2026-01-02T00:00:00Z", TransactionType: domain.TransactionTypeDeposit,
	})
	require.NoError(t, err)
	assert.Equal(t, 150.0, balance)
}

func TestExecDepositMissingWallet(t *testing.T) {
	s := newTestStore(t)

	_, err := s.ExecDeposit(context.Background(), domain.Transaction{
		Email: "nobody@example.com", Amount: 50,
	})
	assert.ErrorIs(t, err, ErrWalletNotFound)
}

func TestListTransactionsSortedDescending(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedUser(t, s, "alice@example.com", 1000)
	seedUser(t, s, "bob@example.com", 1000)

	stamps := []string{
		"2026-01-01T10:00:00Z",
		"2026-01-03T10:00:00Z",
		"2026-01-02T10:00:00Z",
	}
	for i, ts := range stamps {
		_, err := s.ExecPurchase(ctx, domain.Transaction{
			ID: "txn_" + ts, Email: "alice@example.com", BondID: "bond_us_1",
			Amount: float64(i + 1), TokensReceived: float64(i + 1),
			Timestamp: ts, TransactionType: domain.TransactionTypeBuy,
		})
		require.NoError(t, err)
	}
	_, err := s.ExecPurchase(ctx, domain.Transaction{
		ID: "txn_bob", Email: "bob@example.com", BondID: "bond_us_1",
		Amount: 5, Timestamp: "2026-01-04T10:00:00Z", TransactionType: domain.TransactionTypeBuy,
	})
	require.NoError(t, err)

	txns, err := s.ListTransactions(ctx, "alice@example.com")
	require.NoError(t, err)
	require.Len(t, txns, 3)
	assert.Equal(t, "2026-01-03T10:00:00Z", txns[0].Timestamp)
	assert.Equal(t, "2026-01-02T10:00:00Z", txns[1].Timestamp)
	assert.Equal(t, "2026-01-01T10:00:00Z", txns[2].Timestamp)
}

func TestReadCollectionToleratesCorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "users.json"), []byte("{not json"), 0o600))

	s, err := NewFileStore(dir)
	require.NoError(t, err)

	_, err = s.FindUserByEmail(context.Background(), "alice@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)

	// The store stays writable after encountering garbage.
	seedUser(t, s, "alice@example.com", 100)
}
