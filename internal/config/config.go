// Package config loads the modlaunch configuration file.
//
// The file is TOML, read from --config or from
// $XDG_CONFIG_HOME/modlaunch/config.toml (~/.config/modlaunch/config.toml
// when XDG_CONFIG_HOME is unset). A missing default file is not an error;
// the built-in defaults apply.
//
//	latest_version = false
//	strict_versions = false
//
//	[[roots]]
//	path = "/usr/share/modlaunch/plugins"
//
//	[[roots]]
//	path = "/usr/share/modlaunch/libs"
//	flat = true
//
//	[cache]
//	backend = "file"   # file | none | redis | mongo
//	url = ""
//	ttl = "24h"
//	dir = ""           # default $XDG_CACHE_HOME/modlaunch
//	namespace = ""
//
//	[server]
//	addr = "127.0.0.1:8473"
//
//	[[commands]]
//	name = "gc"
//	modules = ["vm.gc@1.0.0", "vm.common"]
//
// Environment variables override the file: MODLAUNCH_ROOTS is an OS path
// list that replaces the roots, and MODLAUNCH_CACHE is either a backend name
// or a redis:// or mongodb:// URL.
package config

import (
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/modlaunch/pkg/cache"
	"github.com/matzehuels/modlaunch/pkg/catalog"
	"github.com/matzehuels/modlaunch/pkg/errors"
)

const appName = "modlaunch"

// Environment variables read by [Config.ApplyEnv].
const (
	EnvRoots = "MODLAUNCH_ROOTS"
	EnvCache = "MODLAUNCH_CACHE"
)

// DefaultAddr is the listen address of "modlaunch serve".
const DefaultAddr = "127.0.0.1:8473"

// Config is the decoded configuration file.
type Config struct {
	LatestVersion  bool           `toml:"latest_version"`
	StrictVersions bool           `toml:"strict_versions"`
	Roots          []catalog.Root `toml:"roots"`
	Cache          Cache          `toml:"cache"`
	Server         Server         `toml:"server"`
	Commands       []Command      `toml:"commands"`
}

// Cache configures the manifest cache.
type Cache struct {
	Backend string   `toml:"backend"`
	URL     string   `toml:"url"`
	Dir     string   `toml:"dir"`
	TTL     Duration `toml:"ttl"`
	// Namespace prefixes every key, for several hosts sharing one backend.
	Namespace string `toml:"namespace"`
}

// Server configures "modlaunch serve".
type Server struct {
	Addr string `toml:"addr"`
}

// Command names a set of modules to launch together.
type Command struct {
	Name    string   `toml:"name"`
	Modules []string `toml:"modules"`
}

// Identities parses the command's module list.
func (c Command) Identities() ([]catalog.Identity, error) {
	return catalog.ParseIdentities(c.Modules)
}

// Duration is a time.Duration decoded from strings like "24h" or "90m".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Cache:  Cache{Backend: cache.BackendFile, TTL: Duration{catalog.DefaultManifestTTL}},
		Server: Server{Addr: DefaultAddr},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/modlaunch/config.toml.
func DefaultPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

func configDir() (string, error) {
	if home := os.Getenv("XDG_CONFIG_HOME"); home != "" {
		return filepath.Join(home, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// CacheDir returns the file cache directory using XDG (~/.cache/modlaunch/).
func CacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// Load reads the configuration at path, or at [DefaultPath] when path is
// empty. Only an explicitly named file has to exist. Unknown keys are
// rejected. The result is not yet validated; see [Config.Validate].
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return Default(), nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && stderrors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	return Parse(string(data))
}

// Parse decodes TOML configuration text on top of [Default].
func Parse(data string) (*Config, error) {
	cfg := Default()
	md, err := toml.Decode(data, cfg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown config keys: %s", strings.Join(keys, ", "))
	}
	return cfg, nil
}

// ApplyEnv applies environment overrides read through getenv.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv(EnvRoots); v != "" {
		var roots []catalog.Root
		for _, p := range filepath.SplitList(v) {
			if p = strings.TrimSpace(p); p != "" {
				roots = append(roots, catalog.Root{Path: p})
			}
		}
		c.Roots = roots
	}
	if v := strings.TrimSpace(getenv(EnvCache)); v != "" {
		switch {
		case strings.HasPrefix(v, "redis://"), strings.HasPrefix(v, "rediss://"):
			c.Cache.Backend, c.Cache.URL = cache.BackendRedis, v
		case strings.HasPrefix(v, "mongodb://"), strings.HasPrefix(v, "mongodb+srv://"):
			c.Cache.Backend, c.Cache.URL = cache.BackendMongo, v
		default:
			c.Cache.Backend = v
		}
	}
}

// SetRoots replaces the configured roots with plain recursive roots.
func (c *Config) SetRoots(paths []string) {
	c.Roots = make([]catalog.Root, len(paths))
	for i, p := range paths {
		c.Roots[i] = catalog.Root{Path: p}
	}
}

// Validate checks the configuration for values that cannot work.
func (c *Config) Validate() error {
	for _, r := range c.Roots {
		if err := errors.ValidateRootPath(r.Path); err != nil {
			return err
		}
	}

	switch c.Cache.Backend {
	case "", cache.BackendFile, cache.BackendNone:
	case cache.BackendRedis:
		if err := errors.ValidateURL(c.Cache.URL, "redis", "rediss"); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "cache.url")
		}
	case cache.BackendMongo:
		if err := errors.ValidateURL(c.Cache.URL, "mongodb", "mongodb+srv"); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "cache.url")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q", c.Cache.Backend)
	}
	if c.Cache.TTL.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.ttl must not be negative")
	}

	seen := make(map[string]bool, len(c.Commands))
	for _, cmd := range c.Commands {
		if err := errors.ValidateCommandName(cmd.Name); err != nil {
			return err
		}
		if seen[cmd.Name] {
			return errors.New(errors.ErrCodeInvalidConfig, "command %q defined twice", cmd.Name)
		}
		seen[cmd.Name] = true
		if len(cmd.Modules) == 0 {
			return errors.New(errors.ErrCodeInvalidConfig, "command %q has no modules", cmd.Name)
		}
		if _, err := cmd.Identities(); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "command %q", cmd.Name)
		}
	}
	return nil
}

// Command returns the command called name.
func (c *Config) Command(name string) (Command, error) {
	i := slices.IndexFunc(c.Commands, func(cmd Command) bool { return cmd.Name == name })
	if i < 0 {
		err := errors.New(errors.ErrCodeCommandNotFound, "no command named %q", name)
		if len(c.Commands) > 0 {
			return Command{}, err.WithHint("configured commands: %s", strings.Join(c.CommandNames(), ", "))
		}
		return Command{}, err.WithHint("define one under [[commands]] in the config file")
	}
	return c.Commands[i], nil
}

// CommandNames lists the configured command names in file order.
func (c *Config) CommandNames() []string {
	names := make([]string, len(c.Commands))
	for i, cmd := range c.Commands {
		names[i] = cmd.Name
	}
	return names
}

// CacheOptions returns the options for [cache.Open]. An empty Dir falls back
// to [CacheDir].
func (c *Config) CacheOptions() (cache.Options, error) {
	opts := cache.Options{Backend: c.Cache.Backend, Dir: c.Cache.Dir, URL: c.Cache.URL}
	if (opts.Backend == "" || opts.Backend == cache.BackendFile) && opts.Dir == "" {
		dir, err := CacheDir()
		if err != nil {
			return opts, errors.Wrap(errors.ErrCodeCache, err, "locate cache directory")
		}
		opts.Dir = dir
	}
	return opts, nil
}

// Keyer returns the manifest cache keyer, scoped by the configured namespace.
func (c *Config) Keyer() cache.Keyer {
	k := cache.NewDefaultKeyer()
	if c.Cache.Namespace != "" {
		return cache.NewScopedKeyer(k, c.Cache.Namespace+":")
	}
	return k
}
