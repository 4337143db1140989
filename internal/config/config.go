// Package config loads the layered contentgraph configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Aman-CERP/contentgraph/internal/errors"
	"github.com/Aman-CERP/contentgraph/internal/glob"
	"github.com/Aman-CERP/contentgraph/internal/logging"
	"github.com/Aman-CERP/contentgraph/internal/sourcepath"
)

// CurrentVersion is the configuration schema version.
const CurrentVersion = 1

// FileNames are the project configuration file names, in lookup order.
var FileNames = []string{".contentgraph.yaml", ".contentgraph.yml"}

// Config represents the complete contentgraph configuration.
type Config struct {
	Version int `yaml:"version" json:"version"`

	// Sources are the content sources indexed by the CLI.
	Sources []SourceConfig `yaml:"sources" json:"sources"`

	// Manifest is the package manifest restricting source modules. Empty
	// means the nearest package.json above the project root, if any.
	Manifest string `yaml:"manifest,omitempty" json:"manifest,omitempty"`

	Links    LinksConfig  `yaml:"links" json:"links"`
	LogLevel string       `yaml:"log_level" json:"log_level"`
	Watch    WatchConfig  `yaml:"watch" json:"watch"`
	Export   ExportConfig `yaml:"export" json:"export"`

	// CacheSize bounds the number of parsed source files kept in memory.
	CacheSize int `yaml:"cache_size" json:"cache_size"`
}

// SourceConfig configures one content source.
type SourceConfig struct {
	Name          string `yaml:"name" json:"name"`
	Pattern       string `yaml:"pattern" json:"pattern"`
	BaseDirectory string `yaml:"base_directory,omitempty" json:"base_directory,omitempty"`
	BasePath      string `yaml:"base_path,omitempty" json:"base_path,omitempty"`

	// Content is an extra pattern for prose and example modules that the
	// source pattern does not cover, such as component docs next to
	// .tsx files.
	Content string `yaml:"content,omitempty" json:"content,omitempty"`

	// SortBy names the field entries are sorted by: "title", "pathname"
	// or a front matter key. Empty keeps the order-key ordering.
	SortBy string `yaml:"sort_by,omitempty" json:"sort_by,omitempty"`

	// SortOrder is "asc" (default) or "desc".
	SortOrder string `yaml:"sort_order,omitempty" json:"sort_order,omitempty"`
}

// Descending reports whether the source sorts in descending order.
func (s SourceConfig) Descending() bool {
	return strings.EqualFold(s.SortOrder, "desc")
}

// LinksConfig configures source links.
type LinksConfig struct {
	// Mode is "development" (editor links) or "production" (permalinks).
	Mode      string `yaml:"mode" json:"mode"`
	Editor    string `yaml:"editor" json:"editor"`
	GitSource string `yaml:"git_source,omitempty" json:"git_source,omitempty"`
	GitBranch string `yaml:"git_branch" json:"git_branch"`
}

// WatchConfig configures watch mode.
type WatchConfig struct {
	// Debounce is how long to wait for more changes before re-indexing.
	Debounce string `yaml:"debounce" json:"debounce"`
}

// DebounceDuration returns the parsed debounce interval.
func (w WatchConfig) DebounceDuration() time.Duration {
	d, err := time.ParseDuration(w.Debounce)
	if err != nil || d <= 0 {
		return 200 * time.Millisecond
	}
	return d
}

// ExportConfig configures the SQLite export.
type ExportConfig struct {
	Path string `yaml:"path" json:"path"`
}

// NewConfig returns the default configuration.
func NewConfig() *Config {
	return &Config{
		Version: CurrentVersion,
		Sources: []SourceConfig{{
			Name:          "docs",
			Pattern:       "docs/**/*.{md,mdx}",
			BaseDirectory: "docs",
		}},
		Links: LinksConfig{
			Mode:      string(sourcepath.ModeDevelopment),
			Editor:    sourcepath.DefaultEditor,
			GitBranch: sourcepath.DefaultBranch,
		},
		LogLevel:  "info",
		Watch:     WatchConfig{Debounce: "200ms"},
		Export:    ExportConfig{Path: filepath.Join(".contentgraph", "index.db")},
		CacheSize: 512,
	}
}

// GetUserConfigPath returns the path to the user configuration file.
// It follows the XDG Base Directory specification:
//   - $XDG_CONFIG_HOME/contentgraph/config.yaml (if XDG_CONFIG_HOME is set)
//   - ~/.config/contentgraph/config.yaml (default)
func GetUserConfigPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "contentgraph", "config.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".config", "contentgraph", "config.yaml")
	}
	return filepath.Join(home, ".config", "contentgraph", "config.yaml")
}

// loadUserConfig loads the user configuration file if it exists.
// Returns nil config and nil error if the file doesn't exist.
func loadUserConfig() (*Config, error) {
	configPath := GetUserConfigPath()
	if !fileExists(configPath) {
		return nil, nil
	}
	var cfg Config
	if err := readYAML(configPath, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Load loads configuration for the project rooted at dir.
// It applies configuration in order of increasing precedence:
//  1. Hardcoded defaults
//  2. User config (~/.config/contentgraph/config.yaml)
//  3. Project config (.contentgraph.yaml in dir)
//  4. Environment variables (CONTENTGRAPH_*)
func Load(dir string) (*Config, error) {
	cfg := NewConfig()

	userCfg, err := loadUserConfig()
	if err != nil {
		return nil, err
	}
	if userCfg != nil {
		cfg.mergeWith(userCfg)
	}

	if err := cfg.loadFromDir(dir); err != nil {
		return nil, err
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile loads defaults, the file at path and environment overrides.
// A missing file is an error.
func LoadFile(path string) (*Config, error) {
	if !fileExists(path) {
		return nil, errors.Newf(errors.ErrCodeConfigNotFound, "config file %s not found", path)
	}
	cfg := NewConfig()
	var parsed Config
	if err := readYAML(path, &parsed); err != nil {
		return nil, err
	}
	cfg.mergeWith(&parsed)
	cfg.applyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFromDir merges the first project configuration file found in dir.
func (c *Config) loadFromDir(dir string) error {
	for _, name := range FileNames {
		p := filepath.Join(dir, name)
		if !fileExists(p) {
			continue
		}
		var parsed Config
		if err := readYAML(p, &parsed); err != nil {
			return err
		}
		c.mergeWith(&parsed)
		return nil
	}
	return nil
}

func readYAML(path string, out *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.IOError(fmt.Sprintf("failed to read config file %s", path), err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return errors.ConfigError(fmt.Sprintf("failed to parse config file %s", path), err)
	}
	return nil
}

// mergeWith merges non-zero values from other into c. Sources replace
// rather than append.
func (c *Config) mergeWith(other *Config) {
	if other.Version != 0 {
		c.Version = other.Version
	}
	if len(other.Sources) > 0 {
		c.Sources = other.Sources
	}
	if other.Manifest != "" {
		c.Manifest = other.Manifest
	}

	if other.Links.Mode != "" {
		c.Links.Mode = other.Links.Mode
	}
	if other.Links.Editor != "" {
		c.Links.Editor = other.Links.Editor
	}
	if other.Links.GitSource != "" {
		c.Links.GitSource = other.Links.GitSource
	}
	if other.Links.GitBranch != "" {
		c.Links.GitBranch = other.Links.GitBranch
	}

	if other.LogLevel != "" {
		c.LogLevel = other.LogLevel
	}
	if other.Watch.Debounce != "" {
		c.Watch.Debounce = other.Watch.Debounce
	}
	if other.Export.Path != "" {
		c.Export.Path = other.Export.Path
	}
	if other.CacheSize != 0 {
		c.CacheSize = other.CacheSize
	}
}

// applyEnvOverrides applies CONTENTGRAPH_* environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("CONTENTGRAPH_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("CONTENTGRAPH_MANIFEST"); v != "" {
		c.Manifest = v
	}
	if v := os.Getenv("CONTENTGRAPH_LINKS_MODE"); v != "" {
		c.Links.Mode = v
	}
	if v := os.Getenv("CONTENTGRAPH_EDITOR"); v != "" {
		c.Links.Editor = v
	}
	if v := os.Getenv("CONTENTGRAPH_GIT_SOURCE"); v != "" {
		c.Links.GitSource = v
	}
	if v := os.Getenv("CONTENTGRAPH_GIT_BRANCH"); v != "" {
		c.Links.GitBranch = v
	}
	if v := os.Getenv("CONTENTGRAPH_WATCH_DEBOUNCE"); v != "" {
		c.Watch.Debounce = v
	}
	if v := os.Getenv("CONTENTGRAPH_EXPORT_PATH"); v != "" {
		c.Export.Path = v
	}
	if v := os.Getenv("CONTENTGRAPH_CACHE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.CacheSize = n
		}
	}
}

// Validate validates the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	if c.Version != CurrentVersion {
		return invalid("version", "unsupported config version %d", c.Version)
	}
	if len(c.Sources) == 0 {
		return invalid("sources", "at least one source is required")
	}

	seen := make(map[string]bool, len(c.Sources))
	for i, s := range c.Sources {
		field := fmt.Sprintf("sources[%d]", i)
		if s.Name == "" {
			return invalid(field+".name", "source name is required")
		}
		if seen[s.Name] {
			return invalid(field+".name", "duplicate source name %q", s.Name)
		}
		seen[s.Name] = true
		if s.Pattern == "" {
			return invalid(field+".pattern", "source %q has no pattern", s.Name)
		}
		if !glob.Validate(s.Pattern) {
			return invalid(field+".pattern", "source %q has invalid pattern %q", s.Name, s.Pattern)
		}
		if s.Content != "" && !glob.Validate(s.Content) {
			return invalid(field+".content", "source %q has invalid content pattern %q", s.Name, s.Content)
		}
		switch strings.ToLower(s.SortOrder) {
		case "", "asc", "desc":
		default:
			return invalid(field+".sort_order", "sort_order must be 'asc' or 'desc', got %s", s.SortOrder)
		}
	}

	switch sourcepath.Mode(c.Links.Mode) {
	case sourcepath.ModeDevelopment, sourcepath.ModeProduction:
	default:
		return invalid("links.mode", "links.mode must be 'development' or 'production', got %s", c.Links.Mode)
	}

	if !logging.ValidLevel(c.LogLevel) {
		return invalid("log_level", "log_level must be 'debug', 'info', 'warn', or 'error', got %s", c.LogLevel)
	}

	if d, err := time.ParseDuration(c.Watch.Debounce); err != nil || d <= 0 {
		return invalid("watch.debounce", "watch.debounce must be a positive duration, got %s", c.Watch.Debounce)
	}

	if c.CacheSize < 0 {
		return invalid("cache_size", "cache_size must be non-negative, got %d", c.CacheSize)
	}
	return nil
}

func invalid(field, format string, args ...any) error {
	return errors.Newf(errors.ErrCodeConfigInvalid, format, args...).WithDetail("field", field)
}

// Source returns the source named name, or the first source when name is
// empty.
func (c *Config) Source(name string) (SourceConfig, error) {
	if name == "" && len(c.Sources) > 0 {
		return c.Sources[0], nil
	}
	names := make([]string, 0, len(c.Sources))
	for _, s := range c.Sources {
		if s.Name == name {
			return s, nil
		}
		names = append(names, s.Name)
	}
	return SourceConfig{}, errors.Newf(errors.ErrCodeInvalidInput, "unknown source %q", name).
		WithSuggestion("configured sources: " + strings.Join(names, ", "))
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.InternalError("failed to marshal config", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.IOError("failed to write config file", err)
	}
	return nil
}

// FindProjectRoot finds the project root directory by walking up from
// startDir to the first directory holding .git or a configuration file.
// It returns startDir itself when neither is found.
func FindProjectRoot(startDir string) (string, error) {
	absDir, err := filepath.Abs(startDir)
	if err != nil {
		return "", errors.IOError("failed to get absolute path", err)
	}

	currentDir := absDir
	for {
		if dirExists(filepath.Join(currentDir, ".git")) {
			return currentDir, nil
		}
		for _, name := range FileNames {
			if fileExists(filepath.Join(currentDir, name)) {
				return currentDir, nil
			}
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return absDir, nil
		}
		currentDir = parentDir
	}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
