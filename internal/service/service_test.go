package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bondfi/bondfi/internal/domain"
	"github.com/bondfi/bondfi/internal/store"
	"github.com/bondfi/bondfi/internal/token"
)

const startingBalance = 100.0

func newTestService(t *testing.T) *Service {
	t.Helper()
	st, err := store.NewFileStore(t.TempDir())
	require.NoError(t, err)
	return New(st, token.NewManager("test-secret", time.Hour), startingBalance)
}

func register(t *testing.T, svc *Service, email string) *domain.AuthResponse {
	t.Helper()
	resp, err := svc.Register(context.Background(), domain.RegisterRequest{
		Name: "Alice", Email: email, Password: "s3cret",
	})
	require.NoError(t, err)
	return resp
}

func TestRegisterSeedsWalletAndEmptyPortfolio(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	resp := register(t, svc, "alice@example.com")
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "alice@example.com", resp.User.Email)

	w, err := svc.GetWallet(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, startingBalance, w.USDCBalance)

	p, err := svc.GetPortfolio(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Zero(t, p.TotalValue)
	assert.Zero(t, p.TotalTokens)
	assert.Empty(t, p.Holdings)
	assert.Len(t, p.EarningsHistory, 30)
	for _, point := range p.EarningsHistory {
		assert.Zero(t, point.Value)
	}
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	register(t, svc, "alice@example.com")

	_, err := svc.Register(ctx, domain.RegisterRequest{
		Name: "Impostor", Email: "alice@example.com", Password: "other",
	})
	assert.ErrorIs(t, err, store.ErrEmailTaken)

	// Original credentials still valid.
	_, err = svc.Login(ctx, domain.LoginRequest{Email: "alice@example.com", Password: "s3cret"})
	assert.NoError(t, err)
}

func TestRegisterRejectsIncompletePayload(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  domain.RegisterRequest
	}{
		{name: "missing name", req: domain.RegisterRequest{Email: "a@b.com", Password: "x"}},
		{name: "missing email", req: domain.RegisterRequest{Name: "A", Password: "x"}},
		{name: "missing password", req: domain.RegisterRequest{Name: "A", Email: "a@b.com"}},
		{name: "malformed email", req: domain.RegisterRequest{Name: "A", Email: "nope", Password: "x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.req)
			assert.ErrorIs(t, err, ErrMissingFields)
		})
	}
}

func TestLogin(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	register(t, svc, "alice@example.com")

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, domain.LoginRequest{Email: "alice@example.com", Password: "wrong"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Login(ctx, domain.LoginRequest{Email: "bob@example.com", Password: "s3cret"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("token subject equals registered email", func(t *testing.T) {
		resp, err := svc.Login(ctx, domain.LoginRequest{Email: "alice@example.com", Password: "s3cret"})
		require.NoError(t, err)

		email, err := svc.ResolveIdentity(ctx, resp.Token)
		require.NoError(t, err)
		assert.Equal(t, "alice@example.com", email)
	})
}

func TestResolveIdentityRejectsBadTokens(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.ResolveIdentity(ctx, "garbage")
	assert.ErrorIs(t, err, ErrUnauthorized)

	// Valid signature but no matching user.
	orphan, err := token.NewManager("test-secret", time.Hour).Issue("ghost@example.com")
	require.NoError(t, err)
	_, err = svc.ResolveIdentity(ctx, orphan)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestBuyHappyPath(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	register(t, svc, "alice@example.com")

	txn, err := svc.Buy(ctx, "alice@example.com", "bond_us_1", 40)
	require.NoError(t, err)
	assert.Equal(t, 40.0, txn.Amount)
	assert.Equal(t, 40.0, txn.TokensReceived)
	assert.Equal(t, "United States", txn.BondCountry)
	assert.Equal(t, domain.TransactionTypeBuy, txn.TransactionType)

	w, err := svc.GetWallet(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, 60.0, w.USDCBalance)

	txns, err := svc.ListTransactions(ctx, "alice@example.com")
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, txn.ID, txns[0].ID)
}

func TestBuyInsufficientFundsLeavesStateUnchanged(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	register(t, svc, "alice@example.com")

	_, err := svc.Buy(ctx, "alice@example.com", "bond_us_1", startingBalance+1)
	assert.ErrorIs(t, err, store.ErrInsufficientFunds)

	w, err := svc.GetWallet(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, startingBalance, w.USDCBalance)

	txns, err := svc.ListTransactions(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Empty(t, txns)
}

func TestBuyValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	register(t, svc, "alice@example.com")

	_, err := svc.Buy(ctx, "alice@example.com", "bond_nope", 10)
	assert.ErrorIs(t, err, ErrBondNotFound)

	_, err = svc.Buy(ctx, "alice@example.com", "bond_us_1", 0)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	// Catalog minimum entry is 1.0.
	_, err = svc.Buy(ctx, "alice@example.com", "bond_us_1", 0.5)
	assert.ErrorIs(t, err, ErrBelowMinimumEntry)

	_, err = svc.Buy(ctx, "ghost@example.com", "bond_us_1", 10)
	assert.ErrorIs(t, err, store.ErrWalletNotFound)
}

func TestTopUp(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	register(t, svc, "alice@example.com")

	t.Run("non-positive amount rejected without mutation", func(t *testing.T) {
		for _, amount := range []float64{0, -5} {
			_, err := svc.TopUp(ctx, "alice@example.com", amount)
			assert.ErrorIs(t, err, ErrInvalidAmount)
		}
		w, err := svc.GetWallet(ctx, "alice@example.com")
		require.NoError(t, err)
		assert.Equal(t, startingBalance, w.USDCBalance)
	})

	t.Run("credits exactly the amount and records a deposit", func(t *testing.T) {
		balance, err := svc.TopUp(ctx, "alice@example.com", 50)
		require.NoError(t, err)
		assert.Equal(t, startingBalance+50, balance)

		txns, err := svc.ListTransactions(ctx, "alice@example.com")
		require.NoError(t, err)
		require.Len(t, txns, 1)
		assert.Equal(t, domain.TransactionTypeDeposit, txns[0].TransactionType)
		assert.Equal(t, "topup", txns[0].BondID)
		assert.Equal(t, 50.0, txns[0].Amount)
	})

	t.Run("missing wallet", func(t *testing.T) {
		_, err := svc.TopUp(ctx, "ghost@example.com", 50)
		assert.ErrorIs(t, err, store.ErrWalletNotFound)
	})
}

func TestBondCatalog(t *testing.T) {
	svc := newTestService(t)

	all := svc.ListBonds()
	assert.Len(t, all, 8)

	b, err := svc.GetBond("bond_us_1")
	require.NoError(t, err)
	assert.Equal(t, 4.2, b.YieldPercentage)

	_, err = svc.GetBond("bond_nope")
	assert.ErrorIs(t, err, ErrBondNotFound)
}

// The worked end-to-end scenario: register at 100.00, buy bond_us_1 for
// 40.00, end with balance 60.00 and a portfolio worth 40 * 1.021 = 40.84.
func TestRegisterBuyPortfolioScenario(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	register(t, svc, "alice@example.com")

	_, err := svc.Buy(ctx, "alice@example.com", "bond_us_1", 40)
	require.NoError(t, err)

	w, err := svc.GetWallet(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, 60.0, w.USDCBalance)

	p, err := svc.GetPortfolio(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, 40.0, p.TotalTokens)
	assert.InDelta(t, 40.84, p.TotalValue, 0.001)
	require.Len(t, p.Holdings, 1)
	assert.Equal(t, "bond_us_1", p.Holdings[0].BondID)
	assert.Equal(t, 40.0, p.Holdings[0].Invested)
	assert.InDelta(t, 40.84, p.Holdings[0].CurrentValue, 0.001)
}
