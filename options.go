package ogawa

import (
	"errors"
	"log/slog"

	"github.com/arloliu/ogawa/archive"
	"github.com/arloliu/ogawa/format"
	"github.com/arloliu/ogawa/internal/options"
)

// compressionAuto selects the envelope from the leading bytes of the input.
const compressionAuto format.CompressionType = 0

// Config holds the settings applied by Open, OpenReader, OpenFile and Decode.
type Config struct {
	compression format.CompressionType
	logger      *slog.Logger
	archiveOpts []archive.Option
}

// Option configures Open.
type Option = options.Option[*Config]

func newConfig(opts ...Option) (*Config, error) {
	cfg := &Config{
		compression: compressionAuto,
		logger:      slog.New(slog.DiscardHandler),
	}

	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return cfg, nil
}

// WithCompression fixes the envelope instead of detecting it.
func WithCompression(compression format.CompressionType) Option {
	return options.NoError(func(c *Config) {
		c.compression = compression
	})
}

// WithLogger sets the logger for the envelope and archive decoders.
func WithLogger(logger *slog.Logger) Option {
	return options.New(func(c *Config) error {
		if logger == nil {
			return errors.New("ogawa: nil logger")
		}
		c.logger = logger
		c.archiveOpts = append(c.archiveOpts, archive.WithLogger(logger))

		return nil
	})
}

// WithStrictUTF8 controls UTF-8 validation of names and metadata, see
// archive.WithStrictUTF8.
func WithStrictUTF8(strict bool) Option {
	return options.NoError(func(c *Config) {
		c.archiveOpts = append(c.archiveOpts, archive.WithStrictUTF8(strict))
	})
}
