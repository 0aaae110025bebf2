package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// syncBuffer provides thread-safe access to a bytes.Buffer.
type syncBuffer struct {
	buf bytes.Buffer
	mu  sync.Mutex
}

func (s *syncBuffer) Write(p []byte) (n int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Write(p)
}

func (s *syncBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.String()
}

// fakeSignals replaces signal.Notify so tests can deliver signals directly.
type fakeSignals struct {
	ch      chan<- os.Signal
	stopped chan struct{}
	mu      sync.Mutex
}

func newFakeSignals() *fakeSignals {
	return &fakeSignals{stopped: make(chan struct{})}
}

func (f *fakeSignals) install(h *InterruptHandler) {
	h.notify = func(c chan<- os.Signal, _ ...os.Signal) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.ch = c
	}
	h.stop = func(chan<- os.Signal) { close(f.stopped) }
}

func (f *fakeSignals) send(sig os.Signal) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ch <- sig
}

func TestNewInterruptHandler(t *testing.T) {
	tests := []struct {
		writer io.Writer
		name   string
	}{
		{name: "with custom writer", writer: &bytes.Buffer{}},
		{name: "with nil writer", writer: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewInterruptHandler(tt.writer)
			assert.NotNil(t, handler)
			assert.NotNil(t, handler.writer)
			assert.False(t, handler.WasInterrupted())
		})
	}
}

func TestHandleInterrupts(t *testing.T) {
	output := &syncBuffer{}
	handler := NewInterruptHandler(output)
	handler.SetHint("Re-run to import the rest; duplicates are skipped.")
	signals := newFakeSignals()
	signals.install(handler)

	ctx := handler.HandleInterrupts(context.Background())

	select {
	case <-ctx.Done():
		t.Fatal("Context should not be canceled initially")
	default:
	}

	signals.send(os.Interrupt)

	select {
	case <-ctx.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("Context was not canceled by the signal")
	}
	<-signals.stopped

	assert.True(t, handler.WasInterrupted())
	out := output.String()
	assert.Contains(t, out, "Interrupted! Saving pending changes...")
	assert.Contains(t, out, "duplicates are skipped")
	assert.Equal(t, 1, strings.Count(out, "Interrupted!"))
}

func TestHandleInterruptsStopsWithParent(t *testing.T) {
	output := &syncBuffer{}
	handler := NewInterruptHandler(output)
	signals := newFakeSignals()
	signals.install(handler)

	parent, cancel := context.WithCancel(context.Background())
	ctx := handler.HandleInterrupts(parent)
	cancel()

	select {
	case <-signals.stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("signal handling did not stop")
	}
	require.Error(t, ctx.Err())
	assert.False(t, handler.WasInterrupted())
	assert.Empty(t, output.String())
}

func TestShowInterruptMessage(t *testing.T) {
	var output bytes.Buffer
	handler := &InterruptHandler{writer: &output}

	handler.showInterruptMessage()

	assert.Contains(t, output.String(), "Interrupted!")
	assert.NotContains(t, output.String(), InfoIcon, "no hint line without a hint")
}
