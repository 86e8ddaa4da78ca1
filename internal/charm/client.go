// ABOUTME: Charm KV client wrapper for cloud backup of health records.
// ABOUTME: Wraps the KV store behind a small interface so records can be pushed and pulled.
package charm

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/charmbracelet/charm/client"
	"github.com/charmbracelet/charm/kv"
)

const (
	// DefaultDBName is the Charm KV database holding backups.
	DefaultDBName = "phr"
	// DefaultHost is used when CHARM_HOST is not already set.
	DefaultHost = "charm.2389.dev"
)

// ErrReadOnly is returned for writes while another process holds the KV lock.
var ErrReadOnly = errors.New("cannot write: database is locked by another process")

// kvStore is the subset of the Charm KV API the client uses.
type kvStore interface {
	Set(key, value []byte) error
	Get(key []byte) ([]byte, error)
	Delete(key []byte) error
	Keys() ([][]byte, error)
	Sync() error
	IsReadOnly() bool
	Close() error
}

// Client is a Charm KV connection.
type Client struct {
	kv       kvStore
	host     string
	autoSync bool
	mu       sync.RWMutex
}

// Open connects to the named Charm KV database.
// An empty host keeps CHARM_HOST, falling back to DefaultHost.
func Open(host, dbName string) (*Client, error) {
	if host == "" {
		host = os.Getenv("CHARM_HOST")
	}
	if host == "" {
		host = DefaultHost
	}
	if err := os.Setenv("CHARM_HOST", host); err != nil {
		return nil, err
	}
	if dbName == "" {
		dbName = DefaultDBName
	}

	db, err := kv.OpenWithDefaultsFallback(dbName)
	if err != nil {
		return nil, fmt.Errorf("open charm kv: %w", err)
	}

	c := newClient(db)
	c.host = host

	// Pull remote data on startup (skip in read-only mode)
	if !db.IsReadOnly() {
		_ = db.Sync()
	}
	return c, nil
}

func newClient(store kvStore) *Client {
	return &Client{kv: store, autoSync: true}
}

// Host returns the Charm server the client talks to.
func (c *Client) Host() string {
	return c.host
}

// Close closes the KV database connection.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.kv != nil {
		return c.kv.Close()
	}
	return nil
}

// IsReadOnly returns true if the database is open in read-only mode.
func (c *Client) IsReadOnly() bool {
	return c.kv.IsReadOnly()
}

// Sync synchronizes local state with Charm Cloud.
func (c *Client) Sync() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.kv.IsReadOnly() {
		return nil
	}
	return c.kv.Sync()
}

func (c *Client) syncIfEnabled() {
	if c.autoSync && !c.kv.IsReadOnly() {
		_ = c.kv.Sync()
	}
}

// SetAutoSync enables or disables automatic sync after writes.
func (c *Client) SetAutoSync(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.autoSync = enabled
}

// ID returns the Charm user ID for the current account.
func (c *Client) ID() (string, error) {
	cc, err := client.NewClientWithDefaults()
	if err != nil {
		return "", fmt.Errorf("create charm client: %w", err)
	}
	return cc.ID()
}

func (c *Client) set(key string, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.kv.IsReadOnly() {
		return ErrReadOnly
	}
	if err := c.kv.Set([]byte(key), data); err != nil {
		return err
	}
	c.syncIfEnabled()
	return nil
}

func (c *Client) get(key string) ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.kv.Get([]byte(key))
}

func (c *Client) delete(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.kv.IsReadOnly() {
		return ErrReadOnly
	}
	if err := c.kv.Delete([]byte(key)); err != nil {
		return err
	}
	c.syncIfEnabled()
	return nil
}

// keysWithPrefix returns every key starting with prefix.
func (c *Client) keysWithPrefix(prefix string) ([]string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	keys, err := c.kv.Keys()
	if err != nil {
		return nil, err
	}
	var out []string
	for _, key := range keys {
		if bytes.HasPrefix(key, []byte(prefix)) {
			out = append(out, string(key))
		}
	}
	return out, nil
}
