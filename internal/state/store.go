package state

import (
	"errors"
	"fmt"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	"go.uber.org/zap"

	"healthsync/internal/remote"
)

// Store persists the agent's small named values between runs: the bearer
// credential, the last successful sync timestamp, and whether access to the
// local health store has been granted. Each value has plain get/set/clear
// semantics.
type Store struct {
	db     *badger.DB
	logger *zap.Logger
}

// Ensure Store can back an AuthSession
var _ remote.TokenStore = (*Store)(nil)

var (
	keyToken      = []byte("auth_token")
	keyLastSync   = []byte("last_sync")
	keyAuthorized = []byte("authorization_granted")
)

// Open opens or creates the state database in dir
func Open(dir string, logger *zap.Logger) (*Store, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open state store: %w", err)
	}

	return &Store{db: db, logger: logger}, nil
}

// Close releases the underlying database
func (s *Store) Close() error {
	return s.db.Close()
}

// Token returns the persisted bearer credential, empty when none is held
func (s *Store) Token() (string, error) {
	value, err := s.get(keyToken)
	if err != nil {
		return "", err
	}
	return string(value), nil
}

// SetToken persists the bearer credential, replacing any prior one
func (s *Store) SetToken(token string) error {
	return s.set(keyToken, []byte(token))
}

// ClearToken removes the persisted credential. Idempotent.
func (s *Store) ClearToken() error {
	return s.clear(keyToken)
}

// LastSync returns the timestamp of the last successful sync, zero when no
// sync has completed yet
func (s *Store) LastSync() (time.Time, error) {
	value, err := s.get(keyLastSync)
	if err != nil {
		return time.Time{}, err
	}
	if len(value) == 0 {
		return time.Time{}, nil
	}

	t, err := time.Parse(time.RFC3339Nano, string(value))
	if err != nil {
		return time.Time{}, fmt.Errorf("corrupt last_sync value: %w", err)
	}
	return t, nil
}

// SetLastSync records the timestamp of a successful sync
func (s *Store) SetLastSync(t time.Time) error {
	return s.set(keyLastSync, []byte(t.Format(time.RFC3339Nano)))
}

// AuthorizationGranted reports whether the user has granted access to the
// local health store
func (s *Store) AuthorizationGranted() (bool, error) {
	value, err := s.get(keyAuthorized)
	if err != nil {
		return false, err
	}
	return string(value) == "true", nil
}

// SetAuthorizationGranted records the health-store authorization flag
func (s *Store) SetAuthorizationGranted(granted bool) error {
	if granted {
		return s.set(keyAuthorized, []byte("true"))
	}
	return s.set(keyAuthorized, []byte("false"))
}

// get reads one value; a missing key yields nil without error
func (s *Store) get(key []byte) ([]byte, error) {
	var value []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return value, nil
}

func (s *Store) set(key, value []byte) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, value)
	})
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

func (s *Store) clear(key []byte) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key)
	})
	if err != nil {
		return fmt.Errorf("failed to clear %s: %w", key, err)
	}
	return nil
}
