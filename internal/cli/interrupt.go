package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// InterruptHandler manages graceful shutdown with friendly messages.
type InterruptHandler struct {
	writer io.Writer
	notify func(chan<- os.Signal, ...os.Signal)
	stop   func(chan<- os.Signal)
	// hint is printed after the interrupt notice, if set.
	hint        string
	interrupted bool
	mu          sync.Mutex
}

// NewInterruptHandler creates a new interrupt handler.
func NewInterruptHandler(writer io.Writer) *InterruptHandler {
	if writer == nil {
		writer = os.Stderr
	}
	return &InterruptHandler{
		writer: writer,
		notify: signal.Notify,
		stop:   signal.Stop,
	}
}

// SetHint sets an extra line shown when the user interrupts.
func (h *InterruptHandler) SetHint(hint string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.hint = hint
}

// HandleInterrupts returns a context that is canceled on SIGINT or SIGTERM.
// Signal handling ends when ctx is done.
func (h *InterruptHandler) HandleInterrupts(ctx context.Context) context.Context {
	ctx, cancel := context.WithCancel(ctx)

	sigChan := make(chan os.Signal, 1)
	h.notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		defer h.stop(sigChan)
		select {
		case <-sigChan:
			h.mu.Lock()
			if !h.interrupted {
				h.interrupted = true
				h.showInterruptMessage()
			}
			h.mu.Unlock()
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx
}

// showInterruptMessage displays a friendly interrupt message. Callers hold mu.
func (h *InterruptHandler) showInterruptMessage() {
	msg := "\n" + FormatWarning("Interrupted! Saving pending changes...")
	if h.hint != "" {
		msg += "\n" + FormatInfo(h.hint)
	}
	msg += "\n"

	if _, err := fmt.Fprint(h.writer, msg); err != nil {
		// Best effort - we're shutting down anyway
		fmt.Fprintf(os.Stderr, "Failed to write interrupt message: %v\n", err)
	}
}

// WasInterrupted returns true if the process was interrupted.
func (h *InterruptHandler) WasInterrupted() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.interrupted
}
