// ABOUTME: Charm KV database shared by every machine on one Charm account
// ABOUTME: Holds the rotation history when CERTPOST_ROTATION_BACKEND=charm
package charm

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/charmbracelet/charm/client"
	"github.com/charmbracelet/charm/kv"
)

// ErrClosed is returned by operations on a closed client
var ErrClosed = errors.New("charm database is closed")

// Config selects the Charm server and database
type Config struct {
	Host     string
	DBName   string
	AutoSync bool
}

// Status describes the connection for `certpost sync status`
type Status struct {
	Host      string
	DBName    string
	AutoSync  bool
	UserID    string
	Connected bool
}

// Client is an open Charm KV database. Safe for use from several goroutines.
type Client struct {
	mu  sync.Mutex
	db  *kv.KV
	cfg Config
}

// NewClient opens cfg.DBName, pulling remote changes first when AutoSync is on
func NewClient(cfg *Config) (*Client, error) {
	if cfg.DBName == "" {
		return nil, fmt.Errorf("charm database name is required")
	}
	if cfg.Host != "" {
		// kv.OpenWithDefaults only reads the host from the environment
		os.Setenv("CHARM_HOST", cfg.Host)
	}

	db, err := kv.OpenWithDefaults(cfg.DBName)
	if err != nil {
		return nil, fmt.Errorf("failed to open charm database %s: %w", cfg.DBName, err)
	}

	c := &Client{db: db, cfg: *cfg}
	if cfg.AutoSync {
		_ = db.Sync()
	}
	return c, nil
}

// Config returns the configuration the client was opened with
func (c *Client) Config() Config {
	return c.cfg
}

// Status reports the account the database syncs to. A failed identity
// lookup is reported as disconnected rather than as an error.
func (c *Client) Status() Status {
	st := Status{Host: c.cfg.Host, DBName: c.cfg.DBName, AutoSync: c.cfg.AutoSync}
	if id, err := c.ID(); err == nil {
		st.UserID = id
		st.Connected = true
	}
	return st
}

// ID returns the Charm user ID for the local SSH key
func (c *Client) ID() (string, error) {
	cc, err := client.NewClientWithDefaults()
	if err != nil {
		return "", fmt.Errorf("failed to create charm client: %w", err)
	}
	return cc.ID()
}

// Get returns the value for key; a missing key returns badger.ErrKeyNotFound
func (c *Client) Get(key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.db == nil {
		return nil, ErrClosed
	}
	return c.db.Get([]byte(key))
}

// Set stores value under key and pushes it when AutoSync is on
func (c *Client) Set(key string, value []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.db == nil {
		return ErrClosed
	}
	if err := c.db.Set([]byte(key), value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	if c.cfg.AutoSync {
		_ = c.db.Sync()
	}
	return nil
}

// Sync pulls and pushes changes now
func (c *Client) Sync() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.db == nil {
		return ErrClosed
	}
	return c.db.Sync()
}

// Reset deletes the local copy of the database; the remote copy is untouched
func (c *Client) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.db == nil {
		return ErrClosed
	}
	return c.db.Reset()
}

// Close closes the database. Closing twice is a no-op.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.db == nil {
		return nil
	}
	err := c.db.Close()
	c.db = nil
	return err
}
