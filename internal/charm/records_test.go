// ABOUTME: Unit tests for Charm record backup.
// ABOUTME: Uses an in-memory KV in place of Charm Cloud.
package charm

import (
	"errors"
	"testing"
	"time"

	"github.com/harperreed/phr/internal/models"
	"github.com/harperreed/phr/internal/storage"
)

type memKV struct {
	data     map[string][]byte
	readOnly bool
	syncs    int
}

func newMemKV() *memKV {
	return &memKV{data: map[string][]byte{}}
}

func (m *memKV) Set(key, value []byte) error {
	m.data[string(key)] = append([]byte(nil), value...)
	return nil
}

func (m *memKV) Get(key []byte) ([]byte, error) {
	v, ok := m.data[string(key)]
	if !ok {
		return nil, errors.New("missing key")
	}
	return v, nil
}

func (m *memKV) Delete(key []byte) error {
	delete(m.data, string(key))
	return nil
}

func (m *memKV) Keys() ([][]byte, error) {
	var keys [][]byte
	for k := range m.data {
		keys = append(keys, []byte(k))
	}
	return keys, nil
}

func (m *memKV) Sync() error      { m.syncs++; return nil }
func (m *memKV) IsReadOnly() bool { return m.readOnly }
func (m *memKV) Close() error     { return nil }

func sampleRecords() []*models.HealthRecord {
	ts := time.Date(2025, 2, 1, 8, 0, 0, 0, time.Local)
	return []*models.HealthRecord{
		models.NewRecord(ts).WithBloodPressure(120, 80).WithSugar(95),
		models.NewRecord(ts.Add(24 * time.Hour)).WithPulse(70).WithNotes("walk"),
	}
}

func TestRecordsKeyFormat(t *testing.T) {
	if got := recordsKey("alice"); got != "records:alice" {
		t.Errorf("Expected records:alice, got %q", got)
	}
}

func TestPushPullRecords(t *testing.T) {
	store := newMemKV()
	c := newClient(store)

	if err := c.PushRecords("alice", sampleRecords()); err != nil {
		t.Fatalf("PushRecords failed: %v", err)
	}
	if store.syncs != 1 {
		t.Errorf("Expected one sync after write, got %d", store.syncs)
	}

	got, err := c.PullRecords("alice")
	if err != nil {
		t.Fatalf("PullRecords failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(got))
	}
	if got[1].Notes != "walk" {
		t.Errorf("Expected notes 'walk', got %q", got[1].Notes)
	}
}

func TestPullRecordsMissingUser(t *testing.T) {
	c := newClient(newMemKV())
	c.PushRecords("alice2", sampleRecords())

	got, err := c.PullRecords("alice")
	if err != nil {
		t.Fatalf("PullRecords failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Expected no records, got %d", len(got))
	}
}

func TestUsersAndDelete(t *testing.T) {
	c := newClient(newMemKV())
	c.SetAutoSync(false)
	for _, u := range []string{"bob", "alice"} {
		if err := c.PushRecords(u, sampleRecords()); err != nil {
			t.Fatalf("PushRecords(%s) failed: %v", u, err)
		}
	}

	users, err := c.Users()
	if err != nil {
		t.Fatalf("Users failed: %v", err)
	}
	if len(users) != 2 || users[0] != "alice" || users[1] != "bob" {
		t.Errorf("Expected [alice bob], got %v", users)
	}

	if err := c.DeleteRecords("bob"); err != nil {
		t.Fatalf("DeleteRecords failed: %v", err)
	}
	users, _ = c.Users()
	if len(users) != 1 {
		t.Errorf("Expected 1 user after delete, got %v", users)
	}
}

func TestReadOnlyRejectsWrites(t *testing.T) {
	store := newMemKV()
	store.readOnly = true
	c := newClient(store)

	err := c.PushRecords("alice", sampleRecords())
	if !errors.Is(err, ErrReadOnly) {
		t.Errorf("Expected ErrReadOnly, got %v", err)
	}
	if err := c.Sync(); err != nil {
		t.Errorf("Sync in read-only mode should be a no-op, got %v", err)
	}
}

func TestInvalidUserRejected(t *testing.T) {
	c := newClient(newMemKV())
	if err := c.PushRecords("../x", nil); !errors.Is(err, storage.ErrInvalidUser) {
		t.Errorf("Expected ErrInvalidUser, got %v", err)
	}
	if _, err := c.PullRecords(""); !errors.Is(err, storage.ErrInvalidUser) {
		t.Errorf("Expected ErrInvalidUser, got %v", err)
	}
}
