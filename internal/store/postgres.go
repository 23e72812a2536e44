package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bondfi/bondfi/internal/domain"
)

// PostgresStore is the Repository implementation for deployments with a
// real database. Balance mutations run inside a transaction holding a row
// lock on the wallet, so concurrent purchases cannot overdraw.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore connects, pings, and ensures the schema exists.
func NewPostgresStore(ctx context.Context, connString string) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database config: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	s := &PostgresStore{db: pool}
	if err := s.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

func (s *PostgresStore) Close() {
	s.db.Close()
}

func (s *PostgresStore) ensureSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS users (
            email TEXT PRIMARY KEY,
            name TEXT NOT NULL,
            password TEXT NOT NULL,
            created_at TEXT NOT NULL
        );
        CREATE TABLE IF NOT EXISTS wallets (
            email TEXT PRIMARY KEY REFERENCES users(email),
            usdc_balance DOUBLE PRECISION NOT NULL CHECK (usdc_balance >= 0)
        );
        CREATE TABLE IF NOT EXISTS transactions (
            id TEXT PRIMARY KEY,
            email TEXT NOT NULL REFERENCES users(email),
            bond_id TEXT NOT NULL,
            bond_country TEXT NOT NULL,
            amount DOUBLE PRECISION NOT NULL,
            tokens_received DOUBLE PRECISION NOT NULL,
            timestamp TEXT NOT NULL,
            transaction_type TEXT NOT NULL
        );
        CREATE INDEX IF NOT EXISTS idx_transactions_email ON transactions(email);
    `)
	if err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	err := s.db.QueryRow(ctx,
		"SELECT email, name, password, created_at FROM users WHERE email = $1",
		email).Scan(&u.Email, &u.Name, &u.Password, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (s *PostgresStore) CreateUserWithWallet(ctx context.Context, u domain.User, w domain.Wallet) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("tx begin failed: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		"INSERT INTO users (email, name, password, created_at) VALUES ($1, $2, $3, $4)",
		u.Email, u.Name, u.Password, u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrEmailTaken
		}
		return fmt.Errorf("user insert failed: %w", err)
	}

	_, err = tx.Exec(ctx,
		"INSERT INTO wallets (email, usdc_balance) VALUES ($1, $2)",
		w.Email, w.USDCBalance)
	if err != nil {
		return fmt.Errorf("wallet insert failed: %w", err)
	}

	return tx.Commit(ctx)
}

func (s *PostgresStore) GetWallet(ctx context.Context, email string) (*domain.Wallet, error) {
	var w domain.Wallet
	err := s.db.QueryRow(ctx,
		"SELECT email, usdc_balance FROM wallets WHERE email = $1",
		email).Scan(&w.Email, &w.USDCBalance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrWalletNotFound
		}
		return nil, err
	}
	return &w, nil
}

func (s *PostgresStore) ExecDeposit(ctx context.Context, txn domain.Transaction) (float64, error) {
	return s.applyBalanceChange(ctx, txn, txn.Amount)
}

func (s *PostgresStore) ExecPurchase(ctx context.Context, txn domain.Transaction) (float64, error) {
	return s.applyBalanceChange(ctx, txn, -txn.Amount)
}

func (s *PostgresStore) applyBalanceChange(ctx context.Context, txn domain.Transaction, delta float64) (float64, error) {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead})
	if err != nil {
		return 0, fmt.Errorf("tx begin failed: %w", err)
	}
	defer tx.Rollback(ctx)

	var balance float64
	err = tx.QueryRow(ctx,
		"SELECT usdc_balance FROM wallets WHERE email = $1 FOR UPDATE",
		txn.Email).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrWalletNotFound
		}
		return 0, fmt.Errorf("lock acquisition failed: %w", err)
	}

	newBalance := balance + delta
	if newBalance < 0 {
		return 0, ErrInsufficientFunds
	}

	_, err = tx.Exec(ctx,
		"UPDATE wallets SET usdc_balance = $1 WHERE email = $2",
		newBalance, txn.Email)
	if err != nil {
		return 0, fmt.Errorf("balance update failed: %w", err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO transactions (id, email, bond_id, bond_country, amount, tokens_received, timestamp, transaction_type)
         VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		txn.ID, txn.Email, txn.BondID, txn.BondCountry, txn.Amount,
		txn.TokensReceived, txn.Timestamp, txn.TransactionType)
	if err != nil {
		return 0, fmt.Errorf("transaction insert failed: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("tx commit failed: %w", err)
	}
	return newBalance, nil
}

func (s *PostgresStore) ListTransactions(ctx context.Context, email string) ([]domain.Transaction, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, email, bond_id, bond_country, amount, tokens_received, timestamp, transaction_type
         FROM transactions WHERE email = $1 ORDER BY timestamp DESC`,
		email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	txns := make([]domain.Transaction, 0)
	for rows.Next() {
		var t domain.Transaction
		if err := rows.Scan(&t.ID, &t.Email, &t.BondID, &t.BondCountry,
			&t.Amount, &t.TokensReceived, &t.Timestamp, &t.TransactionType); err != nil {
			return nil, err
		}
		txns = append(txns, t)
	}
	return txns, rows.Err()
}
