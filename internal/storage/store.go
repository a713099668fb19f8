// Package storage provides the opaque key/value blob store the tracker
// persists to, plus the weight snapshot codec.
//
// Every write replaces a whole blob. Backends must make that replace atomic so
// readers never observe a torn value.
package storage

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrNotFound is returned by GetBytes when no blob exists for the key.
var ErrNotFound = errors.New("blob not found")

// BlobStore is a get/put store of named byte blobs.
type BlobStore interface {
	GetBytes(ctx context.Context, key string) ([]byte, error)
	SetBytes(ctx context.Context, key string, value []byte) error
}

// Store is a BlobStore that holds resources.
type Store interface {
	BlobStore
	Close() error
}

// Drivers accepted by Open.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Options selects and configures a backend.
type Options struct {
	Driver         string
	Path           string // sqlite file
	DSN            string // postgres connection string
	MigrationsPath string // postgres migrations directory
}

// Open creates the backend selected by opts.Driver.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Driver {
	case DriverMemory:
		return NewMemory(), nil
	case DriverSQLite, "":
		s, err := OpenSQLite(opts.Path)
		if err != nil {
			return nil, err
		}
		return s, nil
	case DriverPostgres:
		if err := RunMigrations(opts.DSN, opts.MigrationsPath); err != nil {
			return nil, err
		}
		db, err := New(ctx, opts.DSN)
		if err != nil {
			return nil, err
		}
		return db, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", opts.Driver)
	}
}

// Memory is an in-process Store. Contents are lost on exit.
type Memory struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// NewMemory returns an empty Memory store.
func NewMemory() *Memory {
	return &Memory{blobs: make(map[string][]byte)}
}

// GetBytes returns a copy of the blob under key.
func (m *Memory) GetBytes(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.blobs[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

// SetBytes stores a copy of value under key.
func (m *Memory) SetBytes(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blobs[key] = append([]byte(nil), value...)
	return nil
}

// Close is a no-op.
func (m *Memory) Close() error { return nil }
