// Package config loads compliment's configuration: embedded defaults
// overlaid with an optional YAML, TOML or JSON file.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"github.com/timsgardner/compliment/internal/completion"
	"github.com/timsgardner/compliment/internal/derrors"
	"github.com/timsgardner/compliment/internal/matcher"
	"github.com/timsgardner/compliment/internal/pathindex"
)

//go:embed defaults.yml
var defaultsYAML []byte

// EnvConfigPath names a config file when no --config flag is given.
const EnvConfigPath = "COMPLIMENT_CONFIG"

// SupportedConfigNames are the file names looked up in the config
// directory, in order of preference.
var SupportedConfigNames = []string{
	"config.yml",
	"config.yaml",
	"config.toml",
	"config.json",
}

// Config is the complete configuration.
type Config struct {
	SearchPath    []string         `koanf:"search_path" json:"search_path,omitempty" jsonschema:"description=Roots scanned for modules and types: directories or archives or dir/* globs"`
	SearchPathEnv string           `koanf:"search_path_env" json:"search_path_env,omitempty" jsonschema:"description=Environment variable holding extra roots (OS path list)"`
	ScopesFiles   []string         `koanf:"scopes_files" json:"scopes_files,omitempty" jsonschema:"description=YAML or JSON files describing scopes and their symbols"`
	Fuzziness     string           `koanf:"fuzziness" json:"fuzziness,omitempty" jsonschema:"enum=skip,enum=boundary,description=Matching policy"`
	ScanArchives  bool             `koanf:"scan_archives" json:"scan_archives,omitempty" jsonschema:"description=List archive contents when indexing"`
	ExtraMetadata []string         `koanf:"extra_metadata" json:"extra_metadata,omitempty" jsonschema:"description=Metadata returned with candidates: doc and arity and type"`
	MaxResults    int              `koanf:"max_results" json:"max_results,omitempty" jsonschema:"minimum=0,description=Maximum number of candidates (0 for no limit)"`
	Timeout       string           `koanf:"timeout" json:"timeout,omitempty" jsonschema:"description=Completion deadline as a Go duration (0s for none)"`
	LogLevel      string           `koanf:"log_level" json:"log_level,omitempty" jsonschema:"enum=debug,enum=info,enum=warn,enum=error"`
	Watch         bool             `koanf:"watch" json:"watch,omitempty" jsonschema:"description=Flush caches when files under the search path change"`
	WatchDebounce string           `koanf:"watch_debounce" json:"watch_debounce,omitempty" jsonschema:"description=Quiet period before a change flushes caches"`
	ContextCache  int              `koanf:"context_cache" json:"context_cache,omitempty" jsonschema:"minimum=1,description=Number of parsed context snippets kept"`
	Layout        pathindex.Layout `koanf:"layout" json:"layout,omitempty"`

	// Path is the file the configuration was read from, if any.
	Path string `koanf:"-" json:"-"`
}

// Policy returns the configured matching policy.
func (c *Config) Policy() (matcher.Policy, error) {
	return matcher.ParsePolicy(c.Fuzziness)
}

// Extras returns the configured metadata flags.
func (c *Config) Extras() (completion.Extra, error) {
	return completion.ParseExtras(c.ExtraMetadata)
}

// TimeoutDuration parses Timeout; empty means no timeout.
func (c *Config) TimeoutDuration() (time.Duration, error) {
	return parseDuration(c.Timeout)
}

// DebounceDuration parses WatchDebounce.
func (c *Config) DebounceDuration() (time.Duration, error) {
	return parseDuration(c.WatchDebounce)
}

func parseDuration(s string) (time.Duration, error) {
	if strings.TrimSpace(s) == "" {
		return 0, nil
	}
	return time.ParseDuration(s)
}

// Options converts the configuration into completion options.
func (c *Config) Options() (completion.Options, error) {
	policy, err := c.Policy()
	if err != nil {
		return completion.Options{}, derrors.NewValidationError("fuzziness", err.Error(), err)
	}
	extra, err := c.Extras()
	if err != nil {
		return completion.Options{}, derrors.NewValidationError("extra_metadata", err.Error(), err)
	}
	return completion.Options{
		Policy:       policy,
		ScanArchives: c.ScanArchives,
		Extra:        extra,
		MaxResults:   c.MaxResults,
	}, nil
}

// cachedConfig stores a parsed config with the file state it came from
type cachedConfig struct {
	config  *Config
	modTime time.Time
	size    int64
}

// Loader loads configuration files, reusing results for unchanged files.
type Loader struct {
	mu          sync.Mutex
	parsedCache map[string]*cachedConfig
}

// New creates a new config loader
func New() *Loader {
	return &Loader{parsedCache: make(map[string]*cachedConfig)}
}

// Defaults returns the built-in configuration.
func Defaults() (*Config, error) {
	k := koanf.New(".")
	if err := k.Load(rawbytes.Provider(defaultsYAML), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}
	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal defaults: %w", err)
	}
	return cfg, nil
}

// ParserFor returns the koanf parser for path's extension.
func ParserFor(path string) (koanf.Parser, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yml", ".yaml":
		return yaml.Parser(), nil
	case ".toml":
		return toml.Parser(), nil
	case ".json":
		return json.Parser(), nil
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
func (l *Loader) Load(path string) (*Config, error) {
	if path == "" {
		return Defaults()
	}

	fileInfo, statErr := os.Stat(path)
	if statErr != nil {
		return nil, derrors.NewConfigurationError(path, "config file not found", statErr)
	}

	l.mu.Lock()
	cached, ok := l.parsedCache[path]
	l.mu.Unlock()
	if ok && !fileInfo.ModTime().After(cached.modTime) && fileInfo.Size() == cached.size {
		return cached.config, nil
	}

	parser, err := ParserFor(path)
	if err != nil {
		return nil, derrors.NewConfigurationError(path, "failed to load config", err)
	}

	k := koanf.New(".")
	if err := k.Load(rawbytes.Provider(defaultsYAML), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, derrors.NewConfigurationError(path, "failed to load config", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, derrors.NewConfigurationError(path, "failed to unmarshal config", err)
	}
	cfg.Path = path
	cfg.SearchPath = expandAll(cfg.SearchPath, filepath.Dir(path))
	cfg.ScopesFiles = expandAll(cfg.ScopesFiles, filepath.Dir(path))

	l.mu.Lock()
	l.parsedCache[path] = &cachedConfig{config: cfg, modTime: fileInfo.ModTime(), size: fileInfo.Size()}
	l.mu.Unlock()
	return cfg, nil
}

// expandAll expands environment variables and "~" and makes relative
// paths relative to base. Glob roots keep their "/*" suffix.
func expandAll(paths []string, base string) []string {
	home, _ := os.UserHomeDir()
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		p = os.ExpandEnv(strings.TrimSpace(p))
		if p == "" {
			continue
		}
		if home != "" && (p == "~" || strings.HasPrefix(p, "~/")) {
			p = filepath.Join(home, p[1:])
		}
		if !filepath.IsAbs(p) && !strings.Contains(p, ":/") {
			p = filepath.Join(base, p)
			if strings.HasSuffix(p, string(filepath.Separator)+"*") {
				p = filepath.ToSlash(p)
			}
		}
		out = append(out, p)
	}
	return out
}

// Dir returns the directory searched for config files.
func Dir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "compliment"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "compliment"), nil
}

// Find returns the config file to use: explicit wins, then
// $COMPLIMENT_CONFIG, then the first supported name in Dir. It returns ""
// when there is no file.
func Find(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if env := os.Getenv(EnvConfigPath); env != "" {
		return env
	}
	dir, err := Dir()
	if err != nil {
		return ""
	}
	for _, name := range SupportedConfigNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
