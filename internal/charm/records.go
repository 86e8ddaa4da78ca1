// ABOUTME: Record backup operations on Charm KV.
// ABOUTME: Each user's records are one JSON snapshot under records:<user>.
package charm

import (
	"fmt"
	"sort"
	"strings"

	"github.com/harperreed/phr/internal/models"
	"github.com/harperreed/phr/internal/storage"
)

// RecordsPrefix prefixes the key of each user's snapshot.
const RecordsPrefix = "records:"

func recordsKey(user string) string {
	return RecordsPrefix + user
}

// PushRecords replaces the remote snapshot for user with records.
func (c *Client) PushRecords(user string, records []*models.HealthRecord) error {
	if err := storage.ValidateUser(user); err != nil {
		return err
	}
	data, err := storage.NewExportData(user, records).JSON()
	if err != nil {
		return fmt.Errorf("marshal records: %w", err)
	}
	if err := c.set(recordsKey(user), data); err != nil {
		return fmt.Errorf("push records: %w", err)
	}
	return nil
}

// PullRecords returns the remote snapshot for user.
// A user with no snapshot yields no records.
func (c *Client) PullRecords(user string) ([]*models.HealthRecord, error) {
	if err := storage.ValidateUser(user); err != nil {
		return nil, err
	}
	keys, err := c.keysWithPrefix(recordsKey(user))
	if err != nil {
		return nil, fmt.Errorf("list keys: %w", err)
	}
	found := false
	for _, k := range keys {
		if k == recordsKey(user) {
			found = true
			break
		}
	}
	if !found {
		return nil, nil
	}

	data, err := c.get(recordsKey(user))
	if err != nil {
		return nil, fmt.Errorf("pull records: %w", err)
	}
	snapshot, err := storage.ParseJSON(data)
	if err != nil {
		return nil, fmt.Errorf("unmarshal records: %w", err)
	}
	return snapshot.Records, nil
}

// DeleteRecords removes the remote snapshot for user.
func (c *Client) DeleteRecords(user string) error {
	if err := storage.ValidateUser(user); err != nil {
		return err
	}
	return c.delete(recordsKey(user))
}

// Users lists users with a remote snapshot, sorted.
func (c *Client) Users() ([]string, error) {
	keys, err := c.keysWithPrefix(RecordsPrefix)
	if err != nil {
		return nil, fmt.Errorf("list keys: %w", err)
	}
	users := make([]string, 0, len(keys))
	for _, k := range keys {
		users = append(users, strings.TrimPrefix(k, RecordsPrefix))
	}
	sort.Strings(users)
	return users, nil
}
