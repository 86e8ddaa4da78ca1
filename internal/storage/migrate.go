// ABOUTME: Data migration between record storage backends.
// ABOUTME: Copies every user's records from source to destination without duplicates.

package storage

import (
	"fmt"

	"github.com/harperreed/phr/internal/models"
)

// MigrateSummary holds counts of migrated records.
type MigrateSummary struct {
	Users   int
	Records int
	Skipped int
}

// MigrateData copies all users' records from src to dst.
// Records already present in dst are skipped, so re-running is safe.
// With dryRun set nothing is written; Records counts what would be copied.
func MigrateData(src, dst Repository, dryRun bool) (*MigrateSummary, error) {
	summary := &MigrateSummary{}

	users, err := src.Users()
	if err != nil {
		return nil, fmt.Errorf("list source users: %w", err)
	}

	// Opening a missing CSV store creates it, so dry runs only read users dst already has.
	existingUsers := map[string]bool{}
	if dryRun {
		dstUsers, err := dst.Users()
		if err != nil {
			return nil, fmt.Errorf("list destination users: %w", err)
		}
		for _, u := range dstUsers {
			existingUsers[u] = true
		}
	}

	for _, user := range users {
		from, err := src.Store(user)
		if err != nil {
			return nil, fmt.Errorf("open source store %s: %w", user, err)
		}
		records, err := from.Load()
		if err != nil {
			return nil, fmt.Errorf("load records for %s: %w", user, err)
		}

		var added int
		if dryRun {
			var existing []*models.HealthRecord
			if existingUsers[user] {
				if existing, err = loadUser(dst, user); err != nil {
					return nil, err
				}
			}
			added = countMissing(existing, records)
		} else {
			to, err := dst.Store(user)
			if err != nil {
				return nil, fmt.Errorf("open destination store %s: %w", user, err)
			}
			if added, err = MergeRecords(to, records); err != nil {
				return nil, fmt.Errorf("migrate records for %s: %w", user, err)
			}
		}

		summary.Users++
		summary.Records += added
		summary.Skipped += len(records) - added
	}

	return summary, nil
}

func loadUser(repo Repository, user string) ([]*models.HealthRecord, error) {
	store, err := repo.Store(user)
	if err != nil {
		return nil, fmt.Errorf("open destination store %s: %w", user, err)
	}
	return store.Load()
}

// countMissing counts records absent from existing, ignoring repeats.
func countMissing(existing, records []*models.HealthRecord) int {
	seen := make(map[string]bool, len(existing))
	for _, r := range existing {
		seen[r.Key()] = true
	}
	n := 0
	for _, r := range records {
		if !seen[r.Key()] {
			seen[r.Key()] = true
			n++
		}
	}
	return n
}
