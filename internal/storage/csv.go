// ABOUTME: Flat-file CSV backend storing one health_records.csv per user.
// ABOUTME: Appends rewrite the whole file atomically with the new row at the end.
package storage

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/harperreed/phr/internal/models"
	"github.com/harperreed/phr/internal/vitals"
	"go.uber.org/zap"
)

// RecordsFile is the per-user record file name.
const RecordsFile = "health_records.csv"

// CSVRepository keeps each user's records under dataDir/<user>/health_records.csv.
type CSVRepository struct {
	dataDir string
	logger  *zap.Logger
}

// Compile-time check that CSVRepository implements Repository.
var _ Repository = (*CSVRepository)(nil)

// NewCSVRepository creates a CSV-backed repository rooted at dataDir.
func NewCSVRepository(dataDir string, logger *zap.Logger) (*CSVRepository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.MkdirAll(dataDir, 0750); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return &CSVRepository{dataDir: dataDir, logger: logger}, nil
}

// Store returns the store for user.
func (c *CSVRepository) Store(user string) (Store, error) {
	if err := ValidateUser(user); err != nil {
		return nil, err
	}
	return &CSVStore{
		path:   filepath.Join(c.dataDir, user, RecordsFile),
		logger: c.logger.With(zap.String("user", user)),
	}, nil
}

// Users lists users that have a record file.
func (c *CSVRepository) Users() ([]string, error) {
	entries, err := os.ReadDir(c.dataDir)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	var users []string
	for _, e := range entries {
		if !e.IsDir() || ValidateUser(e.Name()) != nil {
			continue
		}
		if _, err := os.Stat(filepath.Join(c.dataDir, e.Name(), RecordsFile)); err == nil {
			users = append(users, e.Name())
		}
	}
	sort.Strings(users)
	return users, nil
}

// Close releases resources. For CSVRepository this is a no-op.
func (c *CSVRepository) Close() error {
	return nil
}

// CSVStore is a single user's record file.
type CSVStore struct {
	path   string
	logger *zap.Logger
}

// Path returns the location of the record file.
func (s *CSVStore) Path() string {
	return s.path
}

// Load reads and validates every row, dropping rows with unusable dates.
// A missing file is created with only the header.
func (s *CSVStore) Load() ([]*models.HealthRecord, error) {
	rows, err := s.readRows()
	if errors.Is(err, os.ErrNotExist) {
		if err := s.writeRows(nil); err != nil {
			return nil, err
		}
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var records []*models.HealthRecord
	dropped := 0
	for i, fields := range rows {
		res := ValidateRow(i+2, fields)
		if res.Dropped {
			dropped++
			s.logger.Debug("dropping row", zap.Int("line", res.Line), zap.Errors("reasons", res.Warnings))
			continue
		}
		for _, w := range res.Warnings {
			if !errors.Is(w, vitals.ErrMissingMetric) {
				s.logger.Debug("row warning", zap.Int("line", res.Line), zap.Error(w))
			}
		}
		records = append(records, res.Record)
	}
	if dropped > 0 {
		s.logger.Info("dropped unreadable rows", zap.Int("count", dropped), zap.String("path", s.path))
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Timestamp.Before(records[j].Timestamp)
	})
	return records, nil
}

// Append rewrites the file with r added after the existing rows.
// Existing rows, including ones Load would drop, are preserved verbatim.
func (s *CSVStore) Append(r *models.HealthRecord) error {
	rows, err := s.readRows()
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	rows = append(rows, EncodeRow(r))
	if err := s.writeRows(rows); err != nil {
		return err
	}
	s.logger.Debug("appended record", zap.Time("date", r.Timestamp))
	return nil
}

// readRows returns the data rows without the header.
func (s *CSVStore) readRows() ([][]string, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header of %s: %w", s.path, err)
	}
	if len(header) != len(Columns) {
		s.logger.Warn("unexpected header", zap.Strings("header", header))
	}

	var rows [][]string
	for {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", s.path, err)
		}
		rows = append(rows, fields)
	}
	return rows, nil
}

// writeRows writes header and rows to a temp file, then renames it into place.
func (s *CSVStore) writeRows(rows [][]string) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("create user directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".health_records-*.csv")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.Write(Columns); err != nil {
		tmp.Close()
		return fmt.Errorf("write header: %w", err)
	}
	if err := w.WriteAll(rows); err != nil {
		tmp.Close()
		return fmt.Errorf("write rows: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0600); err != nil {
		return fmt.Errorf("set file permissions: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace %s: %w", s.path, err)
	}
	return nil
}
