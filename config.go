package phonsearch

import (
	"log/slog"

	"github.com/coregx/phonsearch/inventory"
)

// Config controls how patterns are compiled and which tables they are
// evaluated against.
//
// Example:
//
//	config := phonsearch.DefaultConfig()
//	config.IgnoreUndefined = true
//	engine, err := phonsearch.Compile(&query, config)
type Config struct {
	// Inventory supplies phone and feature tables.
	// Default: nil (the shared inventory.Default table)
	Inventory *inventory.Inventory

	// Segmenter splits pattern literals and raw search text into phones.
	// Default: nil (the inventory's own segmenter)
	Segmenter inventory.Segmenter

	// IgnoreUndefined makes phones the inventory does not define
	// transparent to the matcher.
	// Default: false
	IgnoreUndefined bool

	// MaxWordLength bounds the number of phones a searched word may have.
	// Longer words never match. Zero selects the default.
	// Default: 4096
	MaxWordLength int

	// Logger receives debug records for compilation and parse failures.
	// Default: nil (discard)
	Logger *slog.Logger
}

// DefaultConfig returns a configuration using the default inventory.
func DefaultConfig() Config {
	return Config{
		MaxWordLength: 4096,
	}
}

// Validate checks if the configuration is valid.
//
// Valid ranges:
//   - MaxWordLength: 0 to 1,000,000
func (c Config) Validate() error {
	if c.MaxWordLength < 0 || c.MaxWordLength > 1_000_000 {
		return &ConfigError{
			Field:   "MaxWordLength",
			Message: "must be between 0 and 1,000,000",
		}
	}
	return nil
}

// inventoryOrDefault returns the configured inventory or the shared default.
func (c Config) inventoryOrDefault() *inventory.Inventory {
	if c.Inventory != nil {
		return c.Inventory
	}
	return inventory.Default()
}

func (c Config) segmenter(inv *inventory.Inventory) inventory.Segmenter {
	if c.Segmenter != nil {
		return c.Segmenter
	}
	return inv.Segmenter()
}

func (c Config) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.New(slog.DiscardHandler)
}

// ConfigError represents an invalid configuration parameter.
type ConfigError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return "phonsearch: invalid config: " + e.Field + ": " + e.Message
}
