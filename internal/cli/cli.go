// Package cli implements the gtreader command-line interface.
//
// This package provides commands for inspecting graph-tool gt files,
// querying their structure and properties, exporting them to other formats
// and serving them over HTTP. The CLI is built using cobra and logs through
// charmbracelet/log.
//
// # Commands
//
// The main commands are:
//   - inspect: Print the header, counts and property table of a graph
//   - edges, neighbors, props: Query the decoded graph
//   - export: Write JSON, DOT, SVG or PNG
//   - browse: Interactive property browser
//   - serve: HTTP query API with Prometheus metrics
//   - cache: Manage the download cache
//
// Every command that takes a <source> accepts a file path, an http(s) URL,
// "-" for stdin, or a Netzschleuder reference such as ns:karate/77.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging.
package cli

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/gtreader/pkg/buildinfo"
	"github.com/matzehuels/gtreader/pkg/cache"
	"github.com/matzehuels/gtreader/pkg/catalog"
	"github.com/matzehuels/gtreader/pkg/config"
	"github.com/matzehuels/gtreader/pkg/httputil"
	"github.com/matzehuels/gtreader/pkg/pipeline"
	"github.com/matzehuels/gtreader/pkg/source"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "gtreader"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger     *log.Logger
	Config     config.Config
	configPath string
	stdin      io.Reader
}

// New creates a new CLI instance with a default logger and configuration.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
		stdin:  os.Stdin,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// LoadConfig reads the configuration file named by --config, or the
// default location when the flag is empty.
func (c *CLI) LoadConfig() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.Config = cfg
	return nil
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "gtreader decodes graph-tool gt files",
		Long:         `gtreader reads graphs stored in graph-tool's binary gt format, plain or zstd-compressed, from disk, URLs or the Netzschleuder repository, and lets you query, export and serve them.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.LoadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/gtreader/config.toml)")

	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.edgesCommand())
	root.AddCommand(c.neighborsCommand())
	root.AddCommand(c.propsCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// runner bundles a pipeline runner with the resources it opened.
type runner struct {
	*pipeline.Runner
	closers []io.Closer
}

func (r *runner) Close() {
	for _, c := range r.closers {
		_ = c.Close()
	}
}

// newRunner creates a pipeline runner for CLI use from the loaded config.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*runner, error) {
	store, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	cfg := c.Config
	policy := httputil.DefaultPolicy
	policy.Attempts = max(cfg.Fetch.Retries, 1)

	r := &runner{
		Runner: pipeline.NewRunner(store, nil, c.Logger,
			source.WithCache(store, nil, cfg.Cache.TTL),
			source.WithMaxBytes(cfg.Fetch.MaxBytes),
			source.WithRetryPolicy(policy),
		),
		closers: []io.Closer{store},
	}
	if cfg.Fetch.Timeout > 0 {
		r.Fetcher = r.Fetcher.With(source.WithHTTPClient(httputil.NewClient(cfg.Fetch.Timeout)))
	}

	cat, err := c.newCatalog(ctx)
	if err != nil {
		r.Close()
		return nil, err
	}
	if cat != nil {
		r.Catalog = cat
		r.closers = append(r.closers, cat)
	}
	return r, nil
}

func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	cfg := c.Config.Cache
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch cfg.Backend {
	case config.CacheNone:
		return cache.NewNullCache(), nil
	case config.CacheRedis:
		return cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
	}
	dir, err := c.cacheDir()
	if err != nil {
		c.Logger.Warn("cache disabled", "err", err)
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

func (c *CLI) newCatalog(ctx context.Context) (catalog.Store, error) {
	cfg := c.Config.Catalog
	switch cfg.Backend {
	case config.CatalogMongo:
		return catalog.NewMongoStore(ctx, catalog.MongoConfig{
			URI:        cfg.MongoURI,
			Database:   cfg.Database,
			Collection: cfg.Collection,
		})
	case config.CatalogMemory:
		return catalog.NewMemoryStore(), nil
	}
	return nil, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the configured cache directory, defaulting to the XDG
// cache location (~/.cache/gtreader/).
func (c *CLI) cacheDir() (string, error) {
	if c.Config.Cache.Dir != "" {
		return c.Config.Cache.Dir, nil
	}
	return cache.DefaultDir()
}

// =============================================================================
// Options Helpers
// =============================================================================

// loadOptions builds pipeline options for a <source> argument. "-" reads
// the whole of stdin.
func (c *CLI) loadOptions(ref string, refresh bool) (pipeline.Options, error) {
	opts := pipeline.Options{
		Source:          ref,
		Strict:          c.Config.Decode.Strict,
		MaxDecompressed: c.Config.Decode.MaxDecompressedBytes,
		Refresh:         refresh,
	}
	if ref == "-" {
		data, err := httputil.ReadLimited(c.stdin, c.Config.Fetch.MaxBytes)
		if err != nil {
			return opts, err
		}
		opts.Source = pipeline.StdinSource
		opts.Data = data
	}
	return opts, nil
}
