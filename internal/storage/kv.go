// Package storage provides the durable key-value providers that hold the
// persisted ledger snapshot.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/emoji-ledger/internal/common"
)

// KV is a durable key-value store. Get wraps common.ErrNotFound when the
// key has never been set.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}

// Validation errors.
var (
	ErrNilContext = errors.New("context cannot be nil")
	ErrEmptyKey   = errors.New("key cannot be empty")
	ErrClosed     = errors.New("storage is closed")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return ctx.Err()
}

// validateKey ensures a key is usable.
func validateKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return ErrEmptyKey
	}
	return nil
}

func notFound(key string) error {
	return fmt.Errorf("key %q: %w", key, common.ErrNotFound)
}
