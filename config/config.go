// Package config loads the settings shared by the commands from a TOML
// file.
//
//	[index]
//	library_prefixes = ["java/", "javax/", "kotlin/"]
//	parallelism = 4
//	exclude = ["com/example/generated/**"]
//
//	[rename]
//	accept_warnings = true
//
//	[retrace]
//	verbose = false
//	all_class_names = true
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/bmatcuk/doublestar/v4"

	"github.com/swind/go-jdeobf/index"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Index   IndexConfig   `toml:"index"`
	Rename  RenameConfig  `toml:"rename"`
	Retrace RetraceConfig `toml:"retrace"`
}

type IndexConfig struct {
	// LibraryPrefixes name the packages that are never indexed.
	LibraryPrefixes []string `toml:"library_prefixes"`
	// Parallelism bounds the goroutines reading classes; 0 uses GOMAXPROCS.
	Parallelism int `toml:"parallelism"`
	// Exclude holds doublestar patterns over internal class names.
	Exclude []string `toml:"exclude"`
}

type RenameConfig struct {
	AcceptWarnings bool `toml:"accept_warnings"`
}

type RetraceConfig struct {
	Verbose       bool `toml:"verbose"`
	AllClassNames bool `toml:"all_class_names"`
	// Expressions replace the built-in frame expressions when set.
	Expressions []string `toml:"expressions"`
}

func Default() Config {
	return Config{
		Index: IndexConfig{
			LibraryPrefixes: append([]string(nil), index.DefaultLibraryPrefixes...),
		},
	}
}

// Load reads path over the defaults. Keys the file sets replace the
// defaults; unknown keys are an error.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	cfg, err := Parse(string(data))
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse is Load for configuration held in memory.
func Parse(data string) (Config, error) {
	cfg := Default()
	md, err := toml.Decode(data, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%w: unknown keys %s", ErrInvalidConfig, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Index.Parallelism < 0 {
		return fmt.Errorf("%w: parallelism must not be negative", ErrInvalidConfig)
	}
	for _, prefix := range c.Index.LibraryPrefixes {
		if strings.Contains(prefix, ".") {
			return fmt.Errorf("%w: library prefix %q must use internal names", ErrInvalidConfig, prefix)
		}
	}
	for _, pattern := range c.Index.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("%w: bad exclude pattern %q", ErrInvalidConfig, pattern)
		}
	}
	return nil
}

// IndexOptions turns the index settings into JarIndex options.
func (c Config) IndexOptions() []index.Option {
	opts := []index.Option{index.WithParallelism(c.Index.Parallelism)}
	if c.Index.LibraryPrefixes != nil {
		opts = append(opts, index.WithLibraryPrefixes(c.Index.LibraryPrefixes...))
	}
	return opts
}
