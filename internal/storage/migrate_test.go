// ABOUTME: Tests for data migration between storage backends.
// ABOUTME: Covers csv-to-sqlite, sqlite-to-csv, dry runs and re-runs.
package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/harperreed/phr/internal/models"
)

func populate(t *testing.T, repo Repository) {
	t.Helper()
	alice, err := repo.Store("alice")
	if err != nil {
		t.Fatalf("Store(alice) failed: %v", err)
	}
	bob, err := repo.Store("bob")
	if err != nil {
		t.Fatalf("Store(bob) failed: %v", err)
	}
	alice.Append(models.NewRecord(at(1, 8)).WithBloodPressure(120, 80).WithNotes("morning"))
	alice.Append(models.NewRecord(at(2, 8)).WithSugar(101.5))
	bob.Append(models.NewRecord(at(3, 9)).WithPulse(66))
}

func TestMigrateDataCSVToSQLite(t *testing.T) {
	src, err := NewCSVRepository(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("NewCSVRepository failed: %v", err)
	}
	populate(t, src)

	dst, err := Open(filepath.Join(t.TempDir(), "phr.db"), nil)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer dst.Close()

	summary, err := MigrateData(src, dst, false)
	if err != nil {
		t.Fatalf("MigrateData failed: %v", err)
	}
	if summary.Users != 2 || summary.Records != 3 || summary.Skipped != 0 {
		t.Errorf("Unexpected summary: %+v", summary)
	}

	store, _ := dst.Store("alice")
	records, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("Expected 2 records for alice, got %d", len(records))
	}
	if records[0].Notes != "morning" || records[0].BloodPressure != "120/80" {
		t.Errorf("Record not copied faithfully: %+v", records[0])
	}

	// A second run copies nothing.
	summary, err = MigrateData(src, dst, false)
	if err != nil {
		t.Fatalf("second MigrateData failed: %v", err)
	}
	if summary.Records != 0 || summary.Skipped != 3 {
		t.Errorf("Expected all records skipped on re-run, got %+v", summary)
	}
}

func TestMigrateDataSQLiteToCSV(t *testing.T) {
	src, err := Open(filepath.Join(t.TempDir(), "phr.db"), nil)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer src.Close()
	populate(t, src)

	dstDir := t.TempDir()
	dst, err := NewCSVRepository(dstDir, nil)
	if err != nil {
		t.Fatalf("NewCSVRepository failed: %v", err)
	}

	if _, err := MigrateData(src, dst, false); err != nil {
		t.Fatalf("MigrateData failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dstDir, "bob", RecordsFile)); err != nil {
		t.Errorf("Expected bob's CSV file: %v", err)
	}
}

func TestMigrateDataDryRun(t *testing.T) {
	src, _ := NewCSVRepository(t.TempDir(), nil)
	populate(t, src)
	dst, _ := NewCSVRepository(t.TempDir(), nil)

	summary, err := MigrateData(src, dst, true)
	if err != nil {
		t.Fatalf("MigrateData failed: %v", err)
	}
	if summary.Records != 3 {
		t.Errorf("Expected 3 records counted, got %d", summary.Records)
	}

	users, _ := dst.Users()
	if len(users) != 0 {
		t.Errorf("Dry run wrote data for %v", users)
	}
}
