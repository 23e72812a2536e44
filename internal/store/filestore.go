package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/bondfi/bondfi/internal/domain"
)

// Collection keys. Each collection is one JSON array file under the data
// directory.
const (
	collectionUsers        = "users"
	collectionWallets      = "wallets"
	collectionTransactions = "transactions"
)

// FileStore persists each collection as a whole JSON array under a fixed
// key. Every mutation is a full-collection read-modify-write, which is only
// sound because a single mutex serializes all operations; the individual
// file writes carry no transactional guarantee across collections.
type FileStore struct {
	dir string
	mu  sync.Mutex
}

// NewFileStore opens (creating if needed) a file store rooted at dir.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// readCollection loads a collection into out (a pointer to a slice). A
// missing or malformed file yields an empty collection, never an error.
func (s *FileStore) readCollection(key string, out interface{}) {
	data, err := os.ReadFile(filepath.Join(s.dir, key+".json"))
	if err != nil {
		return
	}
	if err := json.Unmarshal(data, out); err != nil {
		// Treat corrupt data as absent rather than failing every call.
		return
	}
}

// writeCollection replaces the whole collection on disk.
func (s *FileStore) writeCollection(key string, records interface{}) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	path := filepath.Join(s.dir, key+".json")
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return os.Rename(tmp, path)
}

func (s *FileStore) FindUserByEmail(_ context.Context, email string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var users []domain.User
	s.readCollection(collectionUsers, &users)
	for i := range users {
		if users[i].Email == email {
			u := users[i]
			return &u, nil
		}
	}
	return nil, ErrUserNotFound
}

func (s *FileStore) CreateUserWithWallet(_ context.Context, u domain.User, w domain.Wallet) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var users []domain.User
	s.readCollection(collectionUsers, &users)
	for i := range users {
		if users[i].Email == u.Email {
			return ErrEmailTaken
		}
	}

	users = append(users, u)
	if err := s.writeCollection(collectionUsers, users); err != nil {
		return err
	}

	var wallets []domain.Wallet
	s.readCollection(collectionWallets, &wallets)
	wallets = append(wallets, w)
	return s.writeCollection(collectionWallets, wallets)
}

func (s *FileStore) GetWallet(_ context.Context, email string) (*domain.Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var wallets []domain.Wallet
	s.readCollection(collectionWallets, &wallets)
	for i := range wallets {
		if wallets[i].Email == email {
			w := wallets[i]
			return &w, nil
		}
	}
	return nil, ErrWalletNotFound
}

func (s *FileStore) ExecDeposit(_ context.Context, txn domain.Transaction) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applyBalanceChange(txn, txn.Amount)
}

func (s *FileStore) ExecPurchase(_ context.Context, txn domain.Transaction) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applyBalanceChange(txn, -txn.Amount)
}

// applyBalanceChange mutates the wallet by delta and appends txn. Callers
// hold the mutex. The wallet write lands before the transaction append, so
// a crash between the two can lose a history record but never a balance
// update.
func (s *FileStore) applyBalanceChange(txn domain.Transaction, delta float64) (float64, error) {
	var wallets []domain.Wallet
	s.readCollection(collectionWallets, &wallets)

	idx := -1
	for i := range wallets {
		if wallets[i].Email == txn.Email {
			idx = i
			break
		}
	}
	if idx == -1 {
		return 0, ErrWalletNotFound
	}

	newBalance := wallets[idx].USDCBalance + delta
	if newBalance < 0 {
		return 0, ErrInsufficientFunds
	}

	wallets[idx].USDCBalance = newBalance
	if err := s.writeCollection(collectionWallets, wallets); err != nil {
		return 0, err
	}

	var txns []domain.Transaction
	s.readCollection(collectionTransactions, &txns)
	txns = append(txns, txn)
	if err := s.writeCollection(collectionTransactions, txns); err != nil {
		return 0, err
	}

	return newBalance, nil
}

func (s *FileStore) ListTransactions(_ context.Context, email string) ([]domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var txns []domain.Transaction
	s.readCollection(collectionTransactions, &txns)

	out := make([]domain.Transaction, 0, len(txns))
	for _, t := range txns {
		if t.Email == email {
			out = append(out, t)
		}
	}
	// RFC3339 timestamps in UTC sort lexicographically.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp > out[j].Timestamp
	})
	return out, nil
}
