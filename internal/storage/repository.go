// ABOUTME: Repository and Store interfaces for per-user health record storage.
// ABOUTME: Defines the append-only contract shared by the CSV and SQLite backends.
package storage

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/harperreed/phr/internal/models"
)

// ErrInvalidUser is returned for user names that cannot name a data directory.
var ErrInvalidUser = errors.New("invalid user name")

// Store is one user's append-only record collection.
type Store interface {
	// Load returns every valid record sorted by timestamp ascending.
	Load() ([]*models.HealthRecord, error)
	// Append adds a record; existing rows are never modified.
	Append(r *models.HealthRecord) error
}

// Repository hands out per-user stores.
// This interface allows swapping implementations (e.g., for testing).
type Repository interface {
	Store(user string) (Store, error)
	Users() ([]string, error)
	Close() error
}

var userPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]{0,63}$`)

// ValidateUser checks that user is safe to use as a directory name.
func ValidateUser(user string) error {
	if !userPattern.MatchString(user) || user == "." || user == ".." {
		return fmt.Errorf("%w: %q", ErrInvalidUser, user)
	}
	return nil
}
