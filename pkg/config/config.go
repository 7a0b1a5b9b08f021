// Package config loads and validates auspex configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds all configuration options for auspex.
type Config struct {
	// Analysis settings
	Analysis AnalysisConfig `koanf:"analysis" toml:"analysis"`

	// File exclusion patterns
	Exclude ExcludeConfig `koanf:"exclude" toml:"exclude"`

	// Cache settings
	Cache CacheConfig `koanf:"cache" toml:"cache"`

	// Output settings
	Output OutputConfig `koanf:"output" toml:"output"`
}

// AnalysisConfig controls graph extraction behavior.
type AnalysisConfig struct {
	// EntryPointTypeSuffixes marks types with these name suffixes as
	// entry points.
	EntryPointTypeSuffixes []string `koanf:"entry_point_type_suffixes" toml:"entry_point_type_suffixes"`

	// EntryPointFiles marks types declared in files with these base
	// names as entry points.
	EntryPointFiles []string `koanf:"entry_point_files" toml:"entry_point_files"`

	// EntryPointMethods marks methods with these names as entry points.
	EntryPointMethods []string `koanf:"entry_point_methods" toml:"entry_point_methods"`

	// ExternalPrefixes classifies ids under these namespace roots as
	// external libraries.
	ExternalPrefixes []string `koanf:"external_prefixes" toml:"external_prefixes"`

	// MaxFileSize skips files larger than this many bytes (0 = no limit).
	MaxFileSize int64 `koanf:"max_file_size" toml:"max_file_size"`
}

// ExcludeConfig defines file exclusion patterns.
type ExcludeConfig struct {
	Patterns  []string `koanf:"patterns" toml:"patterns"`
	Dirs      []string `koanf:"dirs" toml:"dirs"`
	Gitignore bool     `koanf:"gitignore" toml:"gitignore"`
}

// CacheConfig controls caching behavior.
type CacheConfig struct {
	Enabled bool   `koanf:"enabled" toml:"enabled"`
	Dir     string `koanf:"dir" toml:"dir"`
	TTL     int    `koanf:"ttl" toml:"ttl"` // TTL in hours
}

// OutputConfig controls output formatting.
type OutputConfig struct {
	Format  string `koanf:"format" toml:"format"` // text, json, markdown, toon
	Color   bool   `koanf:"color" toml:"color"`
	Verbose bool   `koanf:"verbose" toml:"verbose"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Analysis: AnalysisConfig{
			EntryPointTypeSuffixes: []string{"Program", "Application", "Startup", "App"},
			EntryPointFiles:        []string{"Program.cs", "Startup.cs"},
			EntryPointMethods:      []string{"Main"},
			ExternalPrefixes: []string{
				"System",
				"Microsoft",
				"Newtonsoft",
				"Azure",
				"Google",
				"Amazon",
				"NUnit",
				"Xunit",
				"Moq",
			},
			MaxFileSize: 0,
		},
		Exclude: ExcludeConfig{
			Patterns: []string{
				"*.Designer.cs",
				"*.g.cs",
				"*.generated.cs",
				"*AssemblyInfo.cs",
			},
			Dirs: []string{
				"bin",
				"obj",
				"packages",
				".git",
				".auspex",
				"node_modules",
			},
			Gitignore: true,
		},
		Cache: CacheConfig{
			Enabled: true,
			Dir:     ".auspex/cache",
			TTL:     24,
		},
		Output: OutputConfig{
			Format:  "text",
			Color:   true,
			Verbose: false,
		},
	}
}

// Load loads configuration from a file and validates it.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	// Determine parser based on extension
	var parser koanf.Parser
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".toml":
		parser = toml.Parser()
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		parser = toml.Parser()
	}

	// Load the config file
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}

	// Validate the raw document before unmarshaling so schema errors
	// name the offending key instead of surfacing as a type mismatch.
	if err := validateRaw(k.Raw()); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	// Unmarshal into config struct
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadOrDefault tries to load config from standard locations or returns defaults.
func LoadOrDefault() *Config {
	// Standard config file names to search for
	configNames := []string{
		"auspex.toml",
		"auspex.yaml",
		"auspex.yml",
		"auspex.json",
		".auspex.toml",
		".auspex.yaml",
		".auspex.yml",
		".auspex.json",
	}

	// Search in current directory and .auspex directory
	searchDirs := []string{".", ".auspex"}

	for _, dir := range searchDirs {
		for _, name := range configNames {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				cfg, err := Load(path)
				if err == nil {
					return cfg
				}
			}
		}
	}

	return DefaultConfig()
}

// ShouldExclude checks if a path should be excluded from analysis.
func (c *Config) ShouldExclude(path string) bool {
	// Check directory exclusions
	for _, dir := range c.Exclude.Dirs {
		if strings.Contains(path, string(filepath.Separator)+dir+string(filepath.Separator)) ||
			strings.HasPrefix(path, dir+string(filepath.Separator)) {
			return true
		}
	}

	// Check pattern exclusions
	base := filepath.Base(path)
	for _, pattern := range c.Exclude.Patterns {
		if matched, _ := filepath.Match(pattern, base); matched {
			return true
		}
	}

	return false
}
