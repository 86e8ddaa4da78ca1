// ABOUTME: Export and import functionality for health records.
// ABOUTME: Supports JSON and YAML snapshots plus duplicate-free merging into a store.
package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/phr/internal/models"
	"gopkg.in/yaml.v3"
)

// ExportVersion is the snapshot format version.
const ExportVersion = "1.0"

// ExportData represents the full export format for one user's records.
type ExportData struct {
	Version    string                 `json:"version" yaml:"version"`
	ID         uuid.UUID              `json:"id" yaml:"id"`
	ExportedAt time.Time              `json:"exported_at" yaml:"exported_at"`
	Tool       string                 `json:"tool" yaml:"tool"`
	User       string                 `json:"user" yaml:"user"`
	Records    []*models.HealthRecord `json:"records" yaml:"records"`
}

// GetAllData loads every record of user into a snapshot.
func GetAllData(repo Repository, user string) (*ExportData, error) {
	store, err := repo.Store(user)
	if err != nil {
		return nil, err
	}
	records, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}
	return NewExportData(user, records), nil
}

// NewExportData wraps records in a snapshot with a fresh ID.
func NewExportData(user string, records []*models.HealthRecord) *ExportData {
	if records == nil {
		records = []*models.HealthRecord{}
	}
	return &ExportData{
		Version:    ExportVersion,
		ID:         uuid.New(),
		ExportedAt: time.Now(),
		Tool:       "phr",
		User:       user,
		Records:    records,
	}
}

// JSON renders the snapshot as indented JSON.
func (e *ExportData) JSON() ([]byte, error) {
	return json.MarshalIndent(e, "", "  ")
}

// YAML renders the snapshot with timestamps in the persisted layout.
func (e *ExportData) YAML() ([]byte, error) {
	yamlData := struct {
		Version    string       `yaml:"version"`
		ID         string       `yaml:"id"`
		ExportedAt string       `yaml:"exported_at"`
		Tool       string       `yaml:"tool"`
		User       string       `yaml:"user"`
		Records    []yamlRecord `yaml:"records"`
	}{
		Version:    e.Version,
		ID:         e.ID.String(),
		ExportedAt: e.ExportedAt.Format(time.RFC3339),
		Tool:       e.Tool,
		User:       e.User,
		Records:    make([]yamlRecord, 0, len(e.Records)),
	}

	for _, r := range e.Records {
		yamlData.Records = append(yamlData.Records, yamlRecord{
			Date:          FormatTimestamp(r.Timestamp),
			BloodPressure: r.BloodPressure,
			SugarLevel:    r.SugarLevel,
			PulseRate:     r.PulseRate,
			Notes:         r.Notes,
		})
	}

	return yaml.Marshal(yamlData)
}

type yamlRecord struct {
	Date          string   `yaml:"date"`
	BloodPressure string   `yaml:"blood_pressure,omitempty"`
	SugarLevel    *float64 `yaml:"sugar_level,omitempty"`
	PulseRate     *float64 `yaml:"pulse_rate,omitempty"`
	Notes         string   `yaml:"notes,omitempty"`
}

// ParseJSON reads a JSON snapshot.
func ParseJSON(data []byte) (*ExportData, error) {
	var exportData ExportData
	if err := json.Unmarshal(data, &exportData); err != nil {
		return nil, fmt.Errorf("unmarshal JSON: %w", err)
	}
	return &exportData, nil
}

// MergeRecords appends every incoming record not already present in store.
// It returns how many records were appended.
func MergeRecords(store Store, incoming []*models.HealthRecord) (int, error) {
	existing, err := store.Load()
	if err != nil {
		return 0, fmt.Errorf("load records: %w", err)
	}
	seen := make(map[string]bool, len(existing))
	for _, r := range existing {
		seen[r.Key()] = true
	}

	added := 0
	for _, r := range incoming {
		if r == nil || r.Timestamp.IsZero() || seen[r.Key()] {
			continue
		}
		if err := store.Append(r); err != nil {
			return added, fmt.Errorf("import record: %w", err)
		}
		seen[r.Key()] = true
		added++
	}
	return added, nil
}
