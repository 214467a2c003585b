package affine

import (
	"fmt"
	"math"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Config holds the settings a Space is built from.
type Config struct {
	// Policy is compensated, enclosed or sparse.
	Policy string `yaml:"policy"`
	// Mode is chebyshev or minrange.
	Mode string `yaml:"mode"`

	// Dimension is the number of symbols Fresh hands out in dense spaces.
	Dimension int `yaml:"dimension"`

	Compaction CompactionConfig `yaml:"compaction"`
	Sparse     SparseConfig     `yaml:"sparse"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// CompactionConfig configures Compact calls made by programs and tools.
type CompactionConfig struct {
	// Tolerance is the magnitude below which terms are folded; 0 disables compaction.
	Tolerance float64 `yaml:"tolerance"`
	MaxTerms  int     `yaml:"max_terms"`
}

type SparseConfig struct {
	GarbageCap float64 `yaml:"garbage_cap"`
}

type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// DefaultConfig returns the compensated, Chebyshev configuration.
func DefaultConfig() *Config {
	return &Config{
		Policy:    Compensated.String(),
		Mode:      Chebyshev.String(),
		Dimension: 16,
		Compaction: CompactionConfig{
			Tolerance: 0,
			MaxTerms:  DefaultMaxTerms,
		},
		Sparse:  SparseConfig{GarbageCap: DefaultGarbageCap},
		Logging: LoggingConfig{Level: "info"},
	}
}

// LoadConfig reads a YAML file over the defaults. A missing file gives the defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes YAML over the defaults and validates the result.
func ParseConfig(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every field.
func (c *Config) Validate() error {
	if _, err := ParsePolicy(c.Policy); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if _, err := ParseMode(c.Mode); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.Dimension < 0 {
		return fmt.Errorf("%w: dimension %d is negative", ErrInvalidConfig, c.Dimension)
	}
	if c.Compaction.MaxTerms < 0 {
		return fmt.Errorf("%w: compaction.max_terms %d is negative", ErrInvalidConfig, c.Compaction.MaxTerms)
	}
	if t := c.Compaction.Tolerance; t < 0 || math.IsNaN(t) || math.IsInf(t, 0) {
		return fmt.Errorf("%w: compaction.tolerance %g", ErrInvalidConfig, t)
	}
	if g := c.Sparse.GarbageCap; g < 0 || math.IsNaN(g) || math.IsInf(g, 0) {
		return fmt.Errorf("%w: sparse.garbage_cap %g", ErrInvalidConfig, g)
	}
	if _, err := zapcore.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("%w: logging.level: %w", ErrInvalidConfig, err)
	}
	return nil
}

// NewSpaceFromConfig builds a Space from cfg. Later options override the config.
func NewSpaceFromConfig(cfg *Config, opts ...Option) (*Space, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	policy, _ := ParsePolicy(cfg.Policy)
	mode, _ := ParseMode(cfg.Mode)
	base := []Option{
		WithPolicy(policy),
		WithMode(mode),
		WithDimension(cfg.Dimension),
		WithMaxTerms(cfg.Compaction.MaxTerms),
		WithGarbageCap(cfg.Sparse.GarbageCap),
	}
	return NewSpace(append(base, opts...)...), nil
}

// NewLogger builds a production zap logger at the configured level.
func (c *Config) NewLogger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("%w: logging.level: %w", ErrInvalidConfig, err)
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(level)
	return zcfg.Build()
}
