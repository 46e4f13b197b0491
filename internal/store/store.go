// Package store persists scenario state in a key-value backend (memory, SQLite or Redis).
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned by KV.Get for a missing key.
var ErrNotFound = errors.New("store: key not found")

// DefaultStateKey is where the scenario state lives.
const DefaultStateKey = "propertyFinancing.scenarios.v3"

// KV is the minimal key-value contract every backend implements.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Open picks a backend from a DSN:
//
//	memory://                  in-process map
//	sqlite:///path/to/file.db  SQLite file (sqlite://:memory: for a throwaway db)
//	redis://host:6379/0        Redis
func Open(ctx context.Context, dsn string) (KV, error) {
	switch {
	case dsn == "" || strings.HasPrefix(dsn, "memory://"):
		return NewMemory(), nil
	case strings.HasPrefix(dsn, "sqlite://"):
		return OpenSQLite(ctx, strings.TrimPrefix(dsn, "sqlite://"))
	case strings.HasPrefix(dsn, "redis://"), strings.HasPrefix(dsn, "rediss://"):
		return OpenRedis(ctx, dsn)
	default:
		return nil, fmt.Errorf("store: unsupported dsn %q", dsn)
	}
}
