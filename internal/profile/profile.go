// ABOUTME: Per-user profile store backed by BadgerDB.
// ABOUTME: Holds threshold overrides that are layered over configured ranges.
package profile

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/dgraph-io/badger/v3"
	"github.com/harperreed/phr/internal/storage"
	"github.com/harperreed/phr/internal/vitals"
	"go.uber.org/zap"
)

const thresholdPrefix = "thresholds:"

// Store keeps per-user settings in a badger database.
type Store struct {
	db     *badger.DB
	logger *zap.Logger
}

// Open opens (or creates) the profile database in dir.
func Open(dir string, logger *zap.Logger) (*Store, error) {
	return open(badger.DefaultOptions(dir), logger)
}

// OpenInMemory opens a profile store that is never written to disk.
func OpenInMemory(logger *zap.Logger) (*Store, error) {
	return open(badger.DefaultOptions("").WithInMemory(true), logger)
}

func open(opts badger.Options, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	opts = opts.
		WithLogger(nil).
		WithNumVersionsToKeep(1).
		WithCompactL0OnClose(true)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open profile store: %w", err)
	}
	return &Store{db: db, logger: logger}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Thresholds returns the overrides saved for user.
// A user without overrides gets an empty set.
func (s *Store) Thresholds(user string) (vitals.Thresholds, error) {
	if err := storage.ValidateUser(user); err != nil {
		return nil, err
	}

	out := vitals.Thresholds{}
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(thresholdPrefix + user))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(v []byte) error {
			return json.Unmarshal(v, &out)
		})
	})
	if err != nil {
		return nil, fmt.Errorf("read thresholds for %s: %w", user, err)
	}
	return out, nil
}

// Resolve layers user's overrides over base.
func (s *Store) Resolve(user string, base vitals.Thresholds) (vitals.Thresholds, error) {
	over, err := s.Thresholds(user)
	if err != nil {
		return nil, err
	}
	return base.Merge(over), nil
}

// SetRange overrides one metric's healthy range for user.
func (s *Store) SetRange(user string, metric vitals.Metric, r vitals.Range) error {
	if !vitals.IsValidMetric(string(metric)) {
		return fmt.Errorf("unknown metric: %q", metric)
	}
	if r.Low < 0 || r.High < 0 || r.Low > r.High {
		return fmt.Errorf("invalid range for %s: %.1f-%.1f", metric, r.Low, r.High)
	}

	current, err := s.Thresholds(user)
	if err != nil {
		return err
	}
	current[metric] = r

	data, err := json.Marshal(current)
	if err != nil {
		return fmt.Errorf("marshal thresholds: %w", err)
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(thresholdPrefix+user), data)
	})
	if err != nil {
		return fmt.Errorf("save thresholds for %s: %w", user, err)
	}
	s.logger.Debug("threshold override saved",
		zap.String("user", user),
		zap.String("metric", string(metric)),
		zap.Float64("low", r.Low),
		zap.Float64("high", r.High))
	return nil
}

// Reset removes every override for user.
func (s *Store) Reset(user string) error {
	if err := storage.ValidateUser(user); err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(thresholdPrefix + user))
	})
}

// Users lists users that have overrides saved.
func (s *Store) Users() ([]string, error) {
	var users []string
	prefix := []byte(thresholdPrefix)
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			users = append(users, strings.TrimPrefix(string(it.Item().Key()), thresholdPrefix))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	sort.Strings(users)
	return users, nil
}
