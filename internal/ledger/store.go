// Package ledger owns the authoritative ledger snapshot. Commands replace
// the snapshot wholesale and schedule a debounced write to durable storage;
// Close flushes anything still pending.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Veraticus/emoji-ledger/internal/codec"
	"github.com/Veraticus/emoji-ledger/internal/common"
	"github.com/Veraticus/emoji-ledger/internal/model"
	"github.com/Veraticus/emoji-ledger/internal/storage"
)

// ErrStoreClosed is returned by commands issued after Close.
var ErrStoreClosed = errors.New("ledger store is closed")

// Store holds the current snapshot. It is safe for concurrent use; readers
// always see a complete snapshot.
type Store struct {
	kv       storage.KV
	debounce *debouncer
	logger   *slog.Logger
	cfg      config
	data     model.FinanceData
	// version counts committed changes; persisted is the version last
	// written to kv.
	version   uint64
	persisted uint64
	mu        sync.RWMutex
	// flushMu serializes writes so an older snapshot never lands after a
	// newer one.
	flushMu sync.Mutex
	closed  bool
}

// Open loads the persisted snapshot from kv. A missing, unreadable, or
// corrupt snapshot is replaced by the default data rather than failing.
func Open(ctx context.Context, kv storage.KV, opts ...Option) (*Store, error) {
	if ctx == nil {
		return nil, storage.ErrNilContext
	}
	if kv == nil {
		return nil, fmt.Errorf("%w: ledger store requires a storage provider", common.ErrMissingConfig)
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	s := &Store{
		kv:     kv,
		cfg:    cfg,
		logger: cfg.logger.With("key", cfg.key),
	}
	s.debounce = newDebouncer(cfg.clock, cfg.debounce, s.flushScheduled)
	s.data = s.load(ctx)
	return s, nil
}

func (s *Store) load(ctx context.Context) model.FinanceData {
	raw, err := s.kv.Get(ctx, s.cfg.key)
	if errors.Is(err, common.ErrNotFound) {
		s.logger.Debug("No saved ledger, starting fresh")
		return model.DefaultData()
	}
	if err != nil {
		common.LogWarn(s.logger, "Failed to read saved ledger, using defaults", common.Fields{"error": err})
		return model.DefaultData()
	}

	data, err := codec.Unmarshal(raw)
	if err != nil {
		common.LogWarn(s.logger, "Saved ledger is unreadable, using defaults", common.Fields{
			"error": err,
			"bytes": len(raw),
		})
		return model.DefaultData()
	}

	s.logger.Debug("Loaded ledger",
		"categories", len(data.Categories),
		"cards", len(data.Cards),
		"transactions", len(data.Transactions))
	return data
}

// update applies fn to the current snapshot. fn must not modify its
// argument; it returns the next snapshot and whether anything changed.
func (s *Store) update(fn func(model.FinanceData) (model.FinanceData, bool, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	next, changed, err := fn(s.data)
	if err != nil || !changed {
		return err
	}

	s.data = next
	s.version++
	s.debounce.Schedule()
	return nil
}

// Dirty reports whether there are changes not yet written.
func (s *Store) Dirty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version != s.persisted
}

// Key returns the storage key.
func (s *Store) Key() string {
	return s.cfg.key
}

func (s *Store) flushScheduled() {
	if err := s.Flush(context.Background()); err != nil {
		// Already logged by Flush; the snapshot stays dirty for Close.
		return
	}
	common.LogDebug(s.logger, "Debounced write complete", common.Fields{"key": s.cfg.key})
}

// Flush writes the current snapshot now if it has unwritten changes. Any
// pending debounced write is cancelled.
func (s *Store) Flush(ctx context.Context) error {
	if ctx == nil {
		return storage.ErrNilContext
	}
	s.debounce.Stop()

	s.flushMu.Lock()
	defer s.flushMu.Unlock()

	s.mu.RLock()
	data, version, persisted := s.data, s.version, s.persisted
	s.mu.RUnlock()

	if version == persisted {
		return nil
	}

	raw, err := codec.Marshal(data)
	if err != nil {
		return &common.PersistenceError{Op: "encode", Key: s.cfg.key, Err: err}
	}

	err = common.WithRetry(ctx, func() error {
		return s.kv.Set(ctx, s.cfg.key, raw)
	}, s.cfg.retry)
	if err != nil {
		common.LogError(s.logger, err, "Failed to save ledger", common.Fields{"bytes": len(raw)})
		return &common.PersistenceError{Op: "write", Key: s.cfg.key, Err: err}
	}

	s.mu.Lock()
	if version > s.persisted {
		s.persisted = version
	}
	s.mu.Unlock()

	s.logger.Debug("Saved ledger", "bytes", len(raw))
	return nil
}

// Close cancels the pending debounced write and flushes synchronously.
// Commands issued afterwards fail with ErrStoreClosed. Close does not close
// the storage provider.
func (s *Store) Close(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	return s.Flush(ctx)
}
