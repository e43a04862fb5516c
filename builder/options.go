package builder

import (
	"errors"
	"maps"
	"slices"

	"github.com/arloliu/ogawa/internal/options"
	"github.com/arloliu/ogawa/section"
)

// DefaultFileVersion is the file-format version written to slot 1 unless
// WithFileVersion overrides it. It encodes library version 1.8.8.
const DefaultFileVersion = 10808

// Config holds the archive-level settings applied by New.
type Config struct {
	archiveVersion uint32
	fileVersion    uint32
	metadata       map[string]string
	timeSamplings  []section.TimeSampling
}

// Option configures New.
type Option = options.Option[*Config]

func newConfig(opts ...Option) (*Config, error) {
	cfg := &Config{
		fileVersion: DefaultFileVersion,
		metadata:    map[string]string{},
		// identity sampling: one sample per unit of time starting at 0
		timeSamplings: []section.TimeSampling{{MaxSample: 0, TimePerCycle: 1.0, Times: []float64{0}}},
	}

	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return cfg, nil
}

// WithArchiveVersion sets the archive format version written to slot 0.
func WithArchiveVersion(version uint32) Option {
	return options.NoError(func(c *Config) {
		c.archiveVersion = version
	})
}

// WithFileVersion sets the file-format version written to slot 1.
func WithFileVersion(version uint32) Option {
	return options.NoError(func(c *Config) {
		c.fileVersion = version
	})
}

// WithArchiveMetadata sets the archive-level metadata written to slot 3. It
// is also the metadata of the root object.
func WithArchiveMetadata(metadata map[string]string) Option {
	return options.NoError(func(c *Config) {
		c.metadata = maps.Clone(metadata)
		if c.metadata == nil {
			c.metadata = map[string]string{}
		}
	})
}

// WithTimeSampling replaces the time-sampling table written to slot 4.
func WithTimeSampling(samplings ...section.TimeSampling) Option {
	return options.New(func(c *Config) error {
		if len(samplings) == 0 {
			return errors.New("builder: at least one time sampling is required")
		}
		c.timeSamplings = slices.Clone(samplings)

		return nil
	})
}
