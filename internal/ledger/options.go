package ledger

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Veraticus/emoji-ledger/internal/common"
)

// DefaultKey is the storage key holding the ledger snapshot.
const DefaultKey = "emoji-finance-data"

// DefaultDebounce is the quiet interval before a change is written.
const DefaultDebounce = time.Second

// IDGenerator returns a fresh collision-resistant id.
type IDGenerator func() string

type config struct {
	clock    Clock
	newID    IDGenerator
	logger   *slog.Logger
	key      string
	retry    common.RetryOptions
	debounce time.Duration
}

func defaultConfig() config {
	return config{
		clock:    realClock{},
		newID:    uuid.NewString,
		logger:   slog.Default(),
		key:      DefaultKey,
		retry:    common.DefaultRetryOptions(),
		debounce: DefaultDebounce,
	}
}

// Option is a functional option for configuring the store.
type Option func(*config)

// WithKey sets the storage key.
func WithKey(key string) Option {
	return func(c *config) {
		if key != "" {
			c.key = key
		}
	}
}

// WithDebounce sets the quiet interval before writes. Zero or negative
// values keep the default.
func WithDebounce(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.debounce = d
		}
	}
}

// WithClock replaces the wall clock.
func WithClock(clock Clock) Option {
	return func(c *config) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithIDGenerator replaces the uuid generator.
func WithIDGenerator(gen IDGenerator) Option {
	return func(c *config) {
		if gen != nil {
			c.newID = gen
		}
	}
}

// WithRetry sets the write retry policy.
func WithRetry(opts common.RetryOptions) Option {
	return func(c *config) {
		c.retry = opts
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}
