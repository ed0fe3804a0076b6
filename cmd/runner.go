package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/playlist-creator/internal/repositories"
	"github.com/desertthunder/playlist-creator/internal/services"
	"github.com/desertthunder/playlist-creator/internal/shared"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

const defaultConfigPath = "config.toml"

// Runner holds all dependencies for CLI commands and provides methods for each command action.
//
// Services that are not injected are built from the configuration the first time a command needs them.
type Runner struct {
	config     *shared.Config
	configPath string
	fetcher    services.PlaylistFetcher
	resolver   services.LinkResolver
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Fetcher    services.PlaylistFetcher
	Resolver   services.LinkResolver
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		fetcher:    opts.Fetcher,
		resolver:   opts.Resolver,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

// SetLogger replaces the logger used by commands and services built afterwards.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

// before runs ahead of every command: it applies --verbose and loads the config file named by --config when it exists.
func (r *Runner) before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if cmd.Bool("verbose") {
		shared.SetLogLevel(r.logger, log.DebugLevel)
	}

	path := cmd.String("config")
	if path == "" {
		path = defaultConfigPath
	}
	r.configPath = path

	if _, err := os.Stat(path); err == nil {
		config, err := shared.LoadConfig(path)
		if err != nil {
			return ctx, err
		}
		r.config = config
		r.logger.Debug("loaded config", "path", path)
	}

	r.config.ApplyEnv()
	return ctx, nil
}

// playlistFetcher returns the injected fetcher or builds a Spotify client from the configured credentials.
func (r *Runner) playlistFetcher() (services.PlaylistFetcher, error) {
	if r.fetcher != nil {
		return r.fetcher, nil
	}

	creds := r.config.Credentials.Spotify
	if err := creds.Validate(); err != nil {
		r.writePlain("%s\n", shared.SetupInstructions())
		return nil, err
	}

	svc, err := services.NewSpotifyService(creds.Map(), shared.WithLogger(r.logger, "service", "spotify"))
	if err != nil {
		return nil, err
	}

	r.fetcher = svc
	return svc, nil
}

// linkResolver returns the injected resolver or builds a YouTube resolver, backed by the link cache when it is enabled
// and useCache is set. The returned close function releases the cache database.
func (r *Runner) linkResolver(useCache bool) (services.LinkResolver, func()) {
	if r.resolver != nil {
		return r.resolver, func() {}
	}

	opts := services.YouTubeOptions{
		APIKey:    r.config.Credentials.YouTube.APIKey,
		UserAgent: r.config.Search.UserAgent,
		RateLimit: r.config.Search.RateLimit,
		Timeout:   r.config.Search.Timeout(),
	}

	closeFn := func() {}
	if useCache && r.config.Cache.Enabled {
		db, err := shared.OpenCache(r.config.Cache.Path)
		if err != nil {
			r.logger.Warn("link cache unavailable, searching without it", "path", r.config.Cache.Path, "error", err)
		} else {
			opts.Cache = repositories.NewLinkRepository(db)
			closeFn = func() { db.Close() }
		}
	}

	resolver := services.NewYouTubeResolver(opts, shared.WithLogger(r.logger, "service", "youtube"))
	r.logger.Debug("link resolver ready", "mode", resolver.Mode(), "cache", opts.Cache != nil)
	return resolver, closeFn
}

// openCache opens the configured link cache database, applying migrations.
func (r *Runner) openCache() (*sql.DB, *repositories.LinkRepository, error) {
	db, err := shared.OpenCache(r.config.Cache.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open link cache: %w", err)
	}
	return db, repositories.NewLinkRepository(db), nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writeYAML(data any) error {
	output, err := yaml.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
