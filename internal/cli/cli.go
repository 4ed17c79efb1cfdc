package cli

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/modlaunch/internal/config"
	"github.com/matzehuels/modlaunch/pkg/buildinfo"
	"github.com/matzehuels/modlaunch/pkg/cache"
	"github.com/matzehuels/modlaunch/pkg/catalog"
	"github.com/matzehuels/modlaunch/pkg/dag"
	"github.com/matzehuels/modlaunch/pkg/launcher"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
	LogWarn  = log.WarnLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Persistent flags.
	configPath string
	roots      []string
	noCache    bool
	latest     bool
	strict     bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "modlaunch",
		Short: "modlaunch resolves and activates module archives",
		Long: `modlaunch scans directories for module archives, reads their manifests,
and works out which modules a command needs and in which order to activate them.`,
		Version:       buildinfo.Get().Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	pf := root.PersistentFlags()
	pf.StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/modlaunch/config.toml)")
	pf.StringSliceVarP(&c.roots, "root", "r", nil, "module root directory, repeatable (overrides config and "+config.EnvRoots+")")
	pf.BoolVar(&c.noCache, "no-cache", false, "do not read or write the manifest cache")
	pf.BoolVar(&c.latest, "latest", false, "select the highest version of each requested module")
	pf.BoolVar(&c.strict, "strict-versions", false, "only link imports to exporters within the requested version range")

	root.AddCommand(c.scanCommand())
	root.AddCommand(c.depsCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.runCommand())
	root.AddCommand(c.doctorCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the config file and applies environment and flag overrides.
func (c *CLI) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv(os.Getenv)
	if len(c.roots) > 0 {
		cfg.SetRoots(c.roots)
	}
	if c.noCache {
		cfg.Cache.Backend = cache.BackendNone
	}
	if c.latest {
		cfg.LatestVersion = true
	}
	if c.strict {
		cfg.StrictVersions = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// snapshot is one scan of the configured roots and the graph built from it.
type snapshot struct {
	cfg   *config.Config
	cat   *catalog.Catalog
	graph *dag.Graph
}

// scan loads the configuration, scans the roots and builds the graph.
func (c *CLI) scan(ctx context.Context) (*snapshot, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	logger := loggerFromContext(ctx)
	if len(cfg.Roots) == 0 {
		logger.Warn("no module roots configured; use --root or " + config.EnvRoots)
	}

	mc := openCache(ctx, cfg)
	defer mc.Close()

	prog := newProgress(logger)
	sc := &catalog.Scanner{
		Logger: logger,
		Cache:  mc,
		Keyer:  cfg.Keyer(),
		TTL:    cfg.Cache.TTL.Duration,
	}
	var cat *catalog.Catalog
	err = trackScan(ctx, func() error {
		var err error
		cat, err = sc.Scan(ctx, cfg.Roots)
		return err
	})
	if err != nil {
		return nil, err
	}
	g := dag.Build(cat, dag.BuildOptions{StrictVersions: cfg.StrictVersions, Logger: logger})
	prog.done("Scanned "+plural(cat.Len(), "module"), "roots", len(cfg.Roots), "conflicts", len(cat.Conflicts()))
	return &snapshot{cfg: cfg, cat: cat, graph: g}, nil
}

// openCache opens the configured manifest cache. A backend that cannot be
// reached degrades to no caching.
func openCache(ctx context.Context, cfg *config.Config) cache.Cache {
	opts, err := cfg.CacheOptions()
	if err != nil {
		loggerFromContext(ctx).Warn("manifest cache disabled", "err", err)
		return cache.Disabled()
	}
	mc, err := cache.Open(ctx, opts)
	if err != nil {
		loggerFromContext(ctx).Warn("manifest cache disabled", "backend", opts.Backend, "err", err)
		return cache.Disabled()
	}
	return mc
}

// driver returns an activation driver that records instead of loading.
func (s *snapshot) driver(logger *log.Logger) *launcher.Driver {
	return &launcher.Driver{
		Catalog:       s.cat,
		Framework:     launcher.NewRecorder(s.cat),
		Logger:        logger,
		LatestVersion: s.cfg.LatestVersion,
	}
}
