package engine

import (
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/wippyai/ascabi/errors"
	"github.com/wippyai/ascabi/guest"
	"github.com/wippyai/ascabi/internal/validate"
	"github.com/wippyai/ascabi/memory"
)

// Config holds configuration for engine creation
type Config struct {
	// MemoryLimitPages sets the maximum memory per instance in pages (64KB each).
	// 0 means default (65536 pages = 4GB).
	// 256 = 16MB, 1024 = 64MB, 4096 = 256MB
	MemoryLimitPages uint32 `toml:"memory_limit_pages" validate:"lte=65536"`

	// HeapBase is the first heap offset of in-process guests.
	HeapBase uint32 `toml:"heap_base" validate:"omitempty,gte=8"`

	// MaxHeapPages caps the memory of in-process guests. 0 means no cap
	// beyond MemoryLimitPages.
	MaxHeapPages uint32 `toml:"max_heap_pages" validate:"lte=65536"`

	// LogLevel enables a production zap logger at this level. Empty keeps
	// logging off.
	LogLevel string `toml:"log_level" validate:"omitempty,oneof=debug info warn error"`
}

// DefaultConfig returns the configuration used when none is given.
func DefaultConfig() Config {
	return Config{
		HeapBase: memory.DefaultHeapBase,
	}
}

// ParseConfig decodes TOML over DefaultConfig and validates the result.
// Unknown keys are rejected.
func ParseConfig(data string) (Config, error) {
	cfg := DefaultConfig()
	md, err := toml.Decode(data, &cfg)
	if err != nil {
		return Config{}, errors.Wrap(errors.PhaseConfig, errors.KindInvalidData, err, "decode config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, errors.New(errors.PhaseConfig, errors.KindInvalidInput).
			Path(keys...).
			Detail("unknown config keys: %s", strings.Join(keys, ", ")).
			Build()
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig reads a TOML file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(errors.PhaseConfig, errors.KindNotFound, err, "read "+path)
	}
	return ParseConfig(string(data))
}

// Validate checks the field constraints.
func (c Config) Validate() error {
	if err := validate.Struct(errors.PhaseConfig, c); err != nil {
		return err
	}
	if c.MemoryLimitPages > 0 && c.MaxHeapPages > c.MemoryLimitPages {
		return errors.New(errors.PhaseConfig, errors.KindInvalidInput).
			Path("MaxHeapPages").
			Detail("max_heap_pages %d exceeds memory_limit_pages %d", c.MaxHeapPages, c.MemoryLimitPages).
			Build()
	}
	return nil
}

// GuestOptions returns the in-process guest limits this config describes.
func (c Config) GuestOptions() guest.Options {
	opts := guest.DefaultOptions()
	if c.HeapBase != 0 {
		opts.HeapBase = c.HeapBase
	}
	switch {
	case c.MaxHeapPages != 0:
		opts.MaxPages = c.MaxHeapPages
	case c.MemoryLimitPages != 0:
		opts.MaxPages = c.MemoryLimitPages
	}
	return opts
}

// NewLogger builds the logger LogLevel asks for.
func (c Config) NewLogger() (*zap.Logger, error) {
	if c.LogLevel == "" {
		return zap.NewNop(), nil
	}
	level, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "log level")
	}
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}
