// Package app provides the application context and dependency management
// for the assetmap CLI: configuration, logging and the lazily created
// reconciliation session shared by every command.
package app

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/agentstation/assetmap"
	"github.com/agentstation/assetmap/internal/appcontext"
	"github.com/agentstation/assetmap/internal/narrative"
	"github.com/agentstation/assetmap/pkg/assets"
	"github.com/agentstation/assetmap/pkg/errors"
	"github.com/agentstation/assetmap/pkg/logging"
	"github.com/agentstation/assetmap/pkg/stats"
)

// App represents the assetmap application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	config *Config
	logger *zerolog.Logger

	// Lazily created, then shared.
	mu       sync.RWMutex
	assetmap assetmap.Assetmap
	narrator narrative.Generator
}

var _ appcontext.Interface = (*App)(nil)

// New creates a new App instance with the given version information.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	config, err := LoadConfig("")
	if err != nil {
		return nil, errors.NewConfigError("app", "loading configuration", err)
	}
	app.config = config

	app.setLogger(NewLogger(config))

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// OutputFormat returns the configured output format.
func (a *App) OutputFormat() string {
	return a.config.Format
}

// Assetmap returns the session instance, creating it on first use.
func (a *App) Assetmap() (assetmap.Assetmap, error) {
	a.mu.RLock()
	if a.assetmap != nil {
		am := a.assetmap
		a.mu.RUnlock()
		return am, nil
	}
	a.mu.RUnlock()

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.assetmap != nil {
		return a.assetmap, nil
	}

	opts, err := a.buildOptions()
	if err != nil {
		return nil, err
	}
	am, err := assetmap.New(opts...)
	if err != nil {
		return nil, err
	}

	a.logger.Debug().
		Str("policy", am.Policy().Name).
		Int("concurrency", a.config.Concurrency).
		Msg("Assetmap session created")

	a.assetmap = am
	return am, nil
}

// Narrator returns the Gemini narrative generator, creating it on first use.
func (a *App) Narrator(ctx context.Context) (narrative.Generator, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.narrator != nil {
		return a.narrator, nil
	}

	g, err := narrative.NewGemini(ctx, narrative.Config{
		APIKey:   a.config.GeminiAPIKey,
		Model:    a.config.GeminiModel,
		Language: a.config.NarrativeLanguage,
	})
	if err != nil {
		return nil, err
	}
	a.narrator = g
	return g, nil
}

// Shutdown releases application resources.
func (a *App) Shutdown(_ context.Context) error {
	a.mu.RLock()
	am := a.assetmap
	a.mu.RUnlock()

	if am != nil {
		a.logger.Debug().Int("snapshots", am.Snapshots().Len()).Msg("Discarding session snapshots")
	}
	return nil
}

// buildOptions constructs assetmap options from the app configuration.
func (a *App) buildOptions() ([]assetmap.Option, error) {
	var opts []assetmap.Option

	policy, err := stats.Resolve(a.config.Policy, a.config.PolicyFile)
	if err != nil {
		return nil, err
	}
	opts = append(opts, assetmap.WithPolicy(policy))

	if a.config.AssetsConfig != "" {
		cfg, err := assets.LoadConfig(a.config.AssetsConfig)
		if err != nil {
			return nil, err
		}
		opts = append(opts, assetmap.WithAssetsConfig(cfg))
	}

	if a.config.Concurrency > 0 {
		opts = append(opts, assetmap.WithConcurrency(a.config.Concurrency))
	}

	return opts, nil
}

// setLogger installs logger as the app and package default logger.
func (a *App) setLogger(logger zerolog.Logger) {
	a.logger = &logger
	logging.SetDefault(logger)
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithAssetmap sets a custom session instance (useful for testing).
func WithAssetmap(am assetmap.Assetmap) Option {
	return func(a *App) error {
		a.assetmap = am
		return nil
	}
}

// WithNarrator sets a custom narrative generator (useful for testing).
func WithNarrator(g narrative.Generator) Option {
	return func(a *App) error {
		a.narrator = g
		return nil
	}
}
