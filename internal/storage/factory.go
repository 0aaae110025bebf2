package storage

import (
	"context"
	"fmt"

	"github.com/Veraticus/emoji-ledger/internal/common"
)

// Backend names accepted by Open.
const (
	BackendSQLite   = "sqlite"
	BackendJSONFile = "jsonfile"
	BackendMemory   = "memory"
)

// Backends lists every supported backend.
var Backends = []string{BackendSQLite, BackendJSONFile, BackendMemory}

// Options selects and locates a backend.
type Options struct {
	Backend string
	// Path is the database file for sqlite.
	Path string
	// Dir holds one file per key for jsonfile.
	Dir string
}

// Open creates the configured KV backend.
func Open(ctx context.Context, opts Options) (KV, error) {
	switch opts.Backend {
	case BackendSQLite, "":
		return NewSQLiteKV(ctx, opts.Path)
	case BackendJSONFile:
		return NewJSONFileKV(opts.Dir)
	case BackendMemory:
		return NewMemoryKV(), nil
	default:
		return nil, fmt.Errorf("%w: unknown storage backend %q (want one of %v)", common.ErrInvalidConfig, opts.Backend, Backends)
	}
}
