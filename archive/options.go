package archive

import (
	"errors"
	"log/slog"

	"github.com/arloliu/ogawa/internal/options"
)

// Config holds the decode settings applied by Open.
type Config struct {
	logger     *slog.Logger
	strictUTF8 bool
}

// Option configures Open.
type Option = options.Option[*Config]

func newConfig(opts ...Option) (*Config, error) {
	cfg := &Config{
		logger:     slog.New(slog.DiscardHandler),
		strictUTF8: true,
	}

	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return cfg, nil
}

// WithLogger sets the logger receiving debug records for decoded objects and
// properties. By default nothing is logged.
func WithLogger(logger *slog.Logger) Option {
	return options.New(func(c *Config) error {
		if logger == nil {
			return errors.New("archive: nil logger")
		}
		c.logger = logger

		return nil
	})
}

// WithStrictUTF8 controls validation of object names, property names and
// metadata text. When enabled (the default) malformed UTF-8 fails the decode
// with ErrInvalidName or ErrInvalidMetadata; when disabled the raw bytes are
// kept as Go strings.
func WithStrictUTF8(strict bool) Option {
	return options.NoError(func(c *Config) {
		c.strictUTF8 = strict
	})
}
