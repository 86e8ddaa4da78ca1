// ABOUTME: Record operations for the SQLite backend.
// ABOUTME: Implements Store per user over the shared records table.
package storage

import (
	"database/sql"
	"fmt"
	"sort"

	"github.com/harperreed/phr/internal/models"
	"go.uber.org/zap"
)

// Store returns the store for user.
func (r *SQLiteRepository) Store(user string) (Store, error) {
	if err := ValidateUser(user); err != nil {
		return nil, err
	}
	return &sqlStore{repo: r, user: user}, nil
}

// Users lists users with at least one record.
func (r *SQLiteRepository) Users() ([]string, error) {
	rows, err := r.db.Query(`SELECT DISTINCT username FROM records ORDER BY username`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []string
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

type sqlStore struct {
	repo *SQLiteRepository
	user string
}

// Append stores a new record for the user.
func (s *sqlStore) Append(r *models.HealthRecord) error {
	query := `
		INSERT INTO records (username, date, blood_pressure, sugar_level, pulse_rate, notes)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err := s.repo.db.Exec(query,
		s.user,
		FormatTimestamp(r.Timestamp),
		r.BloodPressure,
		r.SugarLevel,
		r.PulseRate,
		r.Notes,
	)
	if err != nil {
		return fmt.Errorf("append record: %w", err)
	}
	return nil
}

// Load returns the user's records sorted by timestamp ascending.
// Rows run through the same validation as CSV rows.
func (s *sqlStore) Load() ([]*models.HealthRecord, error) {
	query := `
		SELECT date, blood_pressure, sugar_level, pulse_rate, notes
		FROM records
		WHERE username = ?
		ORDER BY seq
	`
	rows, err := s.repo.db.Query(query, s.user)
	if err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}
	defer rows.Close()

	var records []*models.HealthRecord
	line := 0
	for rows.Next() {
		line++
		var date, bp, notes string
		var sugar, pulse sql.NullFloat64
		if err := rows.Scan(&date, &bp, &sugar, &pulse, &notes); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}

		res := ValidateRow(line, []string{date, bp, nullString(sugar), nullString(pulse), notes})
		if res.Dropped {
			s.repo.logger.Debug("dropping row", zap.String("user", s.user), zap.Int("row", line), zap.Errors("reasons", res.Warnings))
			continue
		}
		records = append(records, res.Record)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Timestamp.Before(records[j].Timestamp)
	})
	return records, nil
}

func nullString(v sql.NullFloat64) string {
	if !v.Valid {
		return ""
	}
	return formatNumber(&v.Float64)
}
