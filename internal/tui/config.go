package tui

import (
	"time"

	"github.com/Veraticus/emoji-ledger/internal/tui/themes"
)

// Config holds TUI configuration.
type Config struct {
	Theme    themes.Theme
	Location *time.Location
	Width    int
	Height   int
}

// Option is a functional option for configuring the TUI.
type Option func(*Config)

func defaultConfig() Config {
	return Config{
		Theme:    themes.Default,
		Location: time.Local,
		Width:    100,
		Height:   24,
	}
}

// WithTheme sets the TUI theme.
func WithTheme(theme themes.Theme) Option {
	return func(c *Config) {
		c.Theme = theme
	}
}

// WithSize sets the initial terminal size.
func WithSize(width, height int) Option {
	return func(c *Config) {
		if width > 0 {
			c.Width = width
		}
		if height > 0 {
			c.Height = height
		}
	}
}

// WithLocation sets the time zone dates are shown in.
func WithLocation(loc *time.Location) Option {
	return func(c *Config) {
		if loc != nil {
			c.Location = loc
		}
	}
}
