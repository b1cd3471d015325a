package app

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/BurntSushi/toml"

	"maxbitcoins/internal/budget"
	"maxbitcoins/internal/content"
	"maxbitcoins/internal/relay"
)

// Environment variables read at startup.
const (
	EnvSecretKey   = "NOSTR_PRIVATE_KEY"
	EnvOllamaHost  = "OLLAMA_HOST"
	EnvOllamaModel = "OLLAMA_MODEL"
)

// DefaultRelays are used when the config names none.
var DefaultRelays = []string{
	"wss://relay.damus.io",
	"wss://nos.lol",
	"wss://relay.primal.net",
}

const (
	defaultMaxTokens = 200
	defaultPrompt    = "Write a short, helpful Lightning Network tip for Bitcoin users. " +
		"Keep it under 280 characters. Be informative and friendly."
)

// Config holds runtime options. Every field is optional in the file.
type Config struct {
	StateDir string                  `toml:"state_dir"`
	LogDir   string                  `toml:"log_dir"`
	LogLevel string                  `toml:"log_level"` // debug, info, warn, error
	Nostr    NostrConfig             `toml:"nostr"`
	Actions  map[string]ActionConfig `toml:"actions"`
	Ollama   OllamaConfig            `toml:"ollama"`
}

// NostrConfig selects relays and bounds how long a publish may take.
type NostrConfig struct {
	Relays          []string `toml:"relays"`
	PerRelayTimeout Duration `toml:"per_relay_timeout"`
	OverallTimeout  Duration `toml:"overall_timeout"`
}

// ActionConfig overrides the built-in policy of one action type. Unset
// fields keep the built-in value; unknown action names add a new type.
type ActionConfig struct {
	Enabled          *bool  `toml:"enabled"`
	Quota            *int   `toml:"quota"`
	Period           string `toml:"period"`
	FailureThreshold *int   `toml:"failure_threshold"`
}

// OllamaConfig points the generator at a local Ollama server.
type OllamaConfig struct {
	Host      string `toml:"host"`
	Model     string `toml:"model"`
	MaxTokens int    `toml:"max_tokens"`
	Prompt    string `toml:"prompt"`
}

// Duration is a time.Duration read from strings like "10s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// DefaultHome returns ~/.maxbitcoins.
func DefaultHome() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locating home directory: %w", err)
	}
	return filepath.Join(home, ".maxbitcoins"), nil
}

// NewConfig returns the defaults rooted at home.
func NewConfig(home string) *Config {
	return &Config{
		StateDir: filepath.Join(home, "state"),
		LogDir:   filepath.Join(home, "log"),
		LogLevel: "info",
		Nostr: NostrConfig{
			Relays:          append([]string(nil), DefaultRelays...),
			PerRelayTimeout: Duration{relay.DefaultPerRelayTimeout},
			OverallTimeout:  Duration{relay.DefaultOverallTimeout},
		},
		Ollama: OllamaConfig{
			Host:      content.DefaultOllamaHost,
			Model:     content.DefaultOllamaModel,
			MaxTokens: defaultMaxTokens,
			Prompt:    defaultPrompt,
		},
	}
}

// Read decodes r over a copy of base. Keys absent from r keep base's value.
func Read(r io.Reader, base *Config) (*Config, error) {
	cfg := *base
	cfg.Nostr.Relays = append([]string(nil), base.Nostr.Relays...)
	md, err := toml.NewDecoder(r).Decode(&cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return &cfg, nil
}

// Load reads the config file at path over the defaults for home. A missing
// file yields the defaults when optional is true.
func Load(path, home string, optional bool) (*Config, error) {
	base := NewConfig(home)
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) && optional {
		return base, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	cfg, err := Read(f, base)
	if err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv overrides Ollama settings from the environment.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv(EnvOllamaHost); v != "" {
		c.Ollama.Host = v
	}
	if v := getenv(EnvOllamaModel); v != "" {
		c.Ollama.Model = v
	}
}

// Validate reports the first inconsistent setting.
func (c *Config) Validate() error {
	if c.StateDir == "" {
		return errors.New("state_dir must be set")
	}
	if len(relay.Dedupe(c.Nostr.Relays)) == 0 {
		return errors.New("nostr.relays must name at least one relay")
	}
	if c.Nostr.PerRelayTimeout.Duration <= 0 || c.Nostr.OverallTimeout.Duration <= 0 {
		return errors.New("nostr timeouts must be positive")
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	_, err := c.Policies()
	return err
}

// Policies merges the [actions] tables into the built-in policies.
func (c *Config) Policies() (map[string]budget.Policy, error) {
	policies := budget.DefaultPolicies()

	names := make([]string, 0, len(c.Actions))
	for name := range c.Actions {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		ac := c.Actions[name]
		p, ok := policies[name]
		if !ok {
			p = budget.Policy{Enabled: true, Period: budget.Day, FailureThreshold: budget.DefaultFailureThreshold}
		}
		if ac.Enabled != nil {
			p.Enabled = *ac.Enabled
		}
		if ac.Quota != nil {
			if *ac.Quota < 0 {
				return nil, fmt.Errorf("actions.%s.quota must not be negative", name)
			}
			p.Quota = *ac.Quota
		}
		if ac.Period != "" {
			period, err := budget.ParsePeriod(ac.Period)
			if err != nil {
				return nil, fmt.Errorf("actions.%s.period: %w", name, err)
			}
			p.Period = period
		}
		if ac.FailureThreshold != nil {
			p.FailureThreshold = *ac.FailureThreshold
		}
		policies[name] = p
	}
	return policies, nil
}
