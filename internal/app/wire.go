package app

import (
	"io"
	"os"

	"github.com/google/uuid"

	"maxbitcoins/internal/budget"
	"maxbitcoins/internal/content"
	"maxbitcoins/internal/crypto"
	"maxbitcoins/internal/domain"
	"maxbitcoins/internal/relay"
	"maxbitcoins/internal/services/identity"
	"maxbitcoins/internal/services/publish"
	"maxbitcoins/internal/store"
)

// Options carries process-level dependencies. Zero values mean the real
// process environment.
type Options struct {
	Stderr io.Writer
	Getenv func(string) string
	Clock  domain.Clock
	IDs    domain.IDGenerator
	// Publisher replaces the websocket publisher, e.g. in tests.
	Publisher domain.Publisher
}

// App bundles the stores, clients and services a command needs.
type App struct {
	Config    *Config
	RunID     string
	Log       domain.Logger
	Store     *store.StateFileStore
	Budget    *budget.Budget
	Publisher domain.Publisher
	Publish   *publish.Service
	Identity  *identity.Service
	Secrets   domain.SecretProvider

	logFile *os.File
}

// New constructs the dependency graph from cfg.
func New(cfg *Config, opts Options) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if opts.Getenv == nil {
		opts.Getenv = os.Getenv
	}
	if opts.Clock == nil {
		opts.Clock = domain.RealClock{}
	}
	if opts.IDs == nil {
		opts.IDs = UUIDGenerator{}
	}

	runID := uuid.NewString()
	sl, logFile, err := newLogger(cfg.LogDir, cfg.LogLevel, runID, opts.Stderr)
	if err != nil {
		return nil, err
	}
	log := &slogAdapter{l: sl}

	policies, err := cfg.Policies()
	if err != nil {
		if logFile != nil {
			_ = logFile.Close()
		}
		return nil, err
	}

	// File-based state store
	stateStore := store.NewStateFileStore(cfg.StateDir)
	b := budget.New(stateStore, policies, opts.Clock)

	pub := opts.Publisher
	if pub == nil {
		pub = relay.NewPublisher(cfg.Nostr.PerRelayTimeout.Duration, cfg.Nostr.OverallTimeout.Duration, log)
	}

	secrets := EnvSecret{Name: EnvSecretKey, Getenv: opts.Getenv}

	return &App{
		Config:    cfg,
		RunID:     runID,
		Log:       log,
		Store:     stateStore,
		Budget:    b,
		Publisher: pub,
		Publish:   publish.New(b, crypto.Schnorr{}, pub, secrets, cfg.Nostr.Relays, opts.Clock, opts.IDs, log),
		Identity:  identity.New(nil),
		Secrets:   secrets,
		logFile:   logFile,
	}, nil
}

// Generator returns the Ollama content source described by the config.
func (a *App) Generator() *content.Ollama {
	return content.NewOllama(a.Config.Ollama.Host, a.Config.Ollama.Model)
}

// Close releases the log file.
func (a *App) Close() error {
	if a.logFile == nil {
		return nil
	}
	return a.logFile.Close()
}
