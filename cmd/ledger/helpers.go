package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Veraticus/emoji-ledger/internal/ledger"
	"github.com/Veraticus/emoji-ledger/internal/storage"
)

// session pairs a ledger store with the backend it persists to.
type session struct {
	kv    storage.KV
	store *ledger.Store
}

// openSession opens the configured backend and loads the ledger from it.
func openSession(ctx context.Context) (*session, error) {
	kv, err := storage.Open(ctx, cfg.StorageOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	store, err := ledger.Open(ctx, kv,
		ledger.WithKey(cfg.Storage.Key),
		ledger.WithDebounce(cfg.Persist.Debounce),
		ledger.WithRetry(cfg.RetryOptions()),
		ledger.WithLogger(slog.Default()),
	)
	if err != nil {
		if closeErr := kv.Close(); closeErr != nil {
			slog.Error("failed to close storage", "error", closeErr)
		}
		return nil, err
	}

	return &session{kv: kv, store: store}, nil
}

// close flushes pending changes and releases the backend. It runs even when
// ctx was canceled by an interrupt so the last change is not lost.
func (s *session) close(ctx context.Context) error {
	ctx = context.WithoutCancel(ctx)
	flushErr := s.store.Close(ctx)
	if flushErr != nil {
		slog.Error("failed to save ledger", "error", flushErr)
	}
	closeErr := s.kv.Close()
	if closeErr != nil {
		slog.Error("failed to close storage", "error", closeErr)
	}
	return errors.Join(flushErr, closeErr)
}

// withSession runs fn against an open session and always closes it.
func withSession(ctx context.Context, fn func(*session) error) (err error) {
	sess, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, sess.close(ctx))
	}()
	return fn(sess)
}
