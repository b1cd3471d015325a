package commands

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"maxbitcoins/internal/app"
)

// skipApp marks commands that run without config, logs or state.
const skipApp = "skip-app"

// cli holds flag values and the wired app shared by subcommands.
type cli struct {
	home       string
	configPath string
	logLevel   string
	relays     []string

	getenv func(string) string
	opts   app.Options
	app    *app.App
}

// Execute runs the maxbitcoins CLI with os.Args.
func Execute() error {
	return newRootCmd(app.Options{}).Execute()
}

func newRootCmd(opts app.Options) *cobra.Command {
	c := &cli{opts: opts, getenv: opts.Getenv}
	if c.getenv == nil {
		c.getenv = os.Getenv
	}

	root := &cobra.Command{
		Use:           "maxbitcoins",
		Short:         "Publish signed Nostr notes under a posting budget",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Annotations[skipApp] == "true" {
				return nil
			}
			return c.build()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if c.app == nil {
				return nil
			}
			return c.app.Close()
		},
	}

	root.PersistentFlags().StringVar(&c.home, "home", "", "data dir (default ~/.maxbitcoins)")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default <home>/config.toml)")
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "override log_level (debug, info, warn, error)")
	root.PersistentFlags().StringSliceVar(&c.relays, "relay", nil, "relay URL to publish to (repeatable; replaces configured relays)")

	root.AddCommand(publishCmd(c), budgetCmd(c), keyCmd(c), verifyCmd(c))
	return root
}

func (c *cli) build() error {
	if c.home == "" {
		dir, err := app.DefaultHome()
		if err != nil {
			return err
		}
		c.home = dir
	}
	if err := os.MkdirAll(c.home, 0o700); err != nil {
		return err
	}

	path, optional := c.configPath, false
	if path == "" {
		path, optional = filepath.Join(c.home, "config.toml"), true
	}
	cfg, err := app.Load(path, c.home, optional)
	if err != nil {
		return err
	}
	cfg.ApplyEnv(c.getenv)
	if c.logLevel != "" {
		cfg.LogLevel = c.logLevel
	}
	if len(c.relays) > 0 {
		cfg.Nostr.Relays = c.relays
	}

	opts := c.opts
	opts.Getenv = c.getenv
	a, err := app.New(cfg, opts)
	if err != nil {
		return err
	}
	c.app = a
	return nil
}
