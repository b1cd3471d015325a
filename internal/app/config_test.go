package app

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"maxbitcoins/internal/budget"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg := NewConfig("/data/mb")

	if cfg.StateDir != "/data/mb/state" {
		t.Errorf("StateDir = %q, want %q", cfg.StateDir, "/data/mb/state")
	}
	if cfg.LogDir != "/data/mb/log" {
		t.Errorf("LogDir = %q, want %q", cfg.LogDir, "/data/mb/log")
	}
	if len(cfg.Nostr.Relays) != 3 || cfg.Nostr.Relays[0] != "wss://relay.damus.io" {
		t.Errorf("Relays = %v, want the three default relays", cfg.Nostr.Relays)
	}
	if cfg.Nostr.PerRelayTimeout.Duration != 10*time.Second {
		t.Errorf("PerRelayTimeout = %v, want 10s", cfg.Nostr.PerRelayTimeout)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults must validate: %v", err)
	}
}

func TestRead_OverridesOnlyGivenKeys(t *testing.T) {
	const doc = `
state_dir = "/srv/state"

[nostr]
relays = ["wss://relay.example"]
overall_timeout = "20s"

[actions.nostr_post]
quota = 5

[actions.blog_post]
enabled = false

[actions.zap_reply]
quota = 1
period = "week"
`
	cfg, err := Read(strings.NewReader(doc), NewConfig("/home/u/.maxbitcoins"))
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	if cfg.StateDir != "/srv/state" {
		t.Errorf("StateDir = %q", cfg.StateDir)
	}
	if cfg.LogDir != "/home/u/.maxbitcoins/log" {
		t.Errorf("LogDir = %q, want default", cfg.LogDir)
	}
	if len(cfg.Nostr.Relays) != 1 || cfg.Nostr.Relays[0] != "wss://relay.example" {
		t.Errorf("Relays = %v", cfg.Nostr.Relays)
	}
	if cfg.Nostr.OverallTimeout.Duration != 20*time.Second {
		t.Errorf("OverallTimeout = %v, want 20s", cfg.Nostr.OverallTimeout)
	}
	if cfg.Nostr.PerRelayTimeout.Duration != 10*time.Second {
		t.Errorf("PerRelayTimeout = %v, want default 10s", cfg.Nostr.PerRelayTimeout)
	}

	policies, err := cfg.Policies()
	if err != nil {
		t.Fatalf("Policies() error = %v", err)
	}
	if p := policies[budget.ActionNostrPost]; p.Quota != 5 || !p.Enabled || p.Period != budget.Day {
		t.Errorf("nostr_post policy = %+v", p)
	}
	if p := policies[budget.ActionBlogPost]; p.Enabled || p.Quota != 2 {
		t.Errorf("blog_post policy = %+v", p)
	}
	if p := policies["zap_reply"]; p.Quota != 1 || p.Period != budget.Week || p.FailureThreshold != 2 {
		t.Errorf("zap_reply policy = %+v", p)
	}
	if _, ok := policies[budget.ActionEmailOutreach]; !ok {
		t.Error("email_outreach default policy missing")
	}
}

func TestRead_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"syntax", `state_dir = `},
		{"unknown key", `stat_dir = "/x"`},
		{"bad duration", "[nostr]\nper_relay_timeout = \"soon\""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Read(strings.NewReader(tt.doc), NewConfig("/h")); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestValidate_Errors(t *testing.T) {
	neg := -1
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no relays", func(c *Config) { c.Nostr.Relays = []string{" "} }},
		{"zero timeout", func(c *Config) { c.Nostr.OverallTimeout.Duration = 0 }},
		{"no state dir", func(c *Config) { c.StateDir = "" }},
		{"bad level", func(c *Config) { c.LogLevel = "loud" }},
		{"bad period", func(c *Config) { c.Actions = map[string]ActionConfig{"x": {Period: "month"}} }},
		{"negative quota", func(c *Config) { c.Actions = map[string]ActionConfig{"x": {Quota: &neg}} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig("/h")
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	t.Run("missing optional file gives defaults", func(t *testing.T) {
		cfg, err := Load(path, dir, true)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.StateDir != filepath.Join(dir, "state") {
			t.Errorf("StateDir = %q", cfg.StateDir)
		}
	})

	t.Run("missing required file fails", func(t *testing.T) {
		if _, err := Load(path, dir, false); err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("reads file", func(t *testing.T) {
		if err := os.WriteFile(path, []byte("log_level = \"debug\"\n"), 0o600); err != nil {
			t.Fatal(err)
		}
		cfg, err := Load(path, dir, false)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.LogLevel != "debug" {
			t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
		}
	})
}

func TestApplyEnv(t *testing.T) {
	cfg := NewConfig("/h")
	env := map[string]string{EnvOllamaHost: "http://gpu:11434"}
	cfg.ApplyEnv(func(k string) string { return env[k] })

	if cfg.Ollama.Host != "http://gpu:11434" {
		t.Errorf("Ollama.Host = %q", cfg.Ollama.Host)
	}
	if cfg.Ollama.Model == "" {
		t.Error("Ollama.Model must keep its default")
	}
}
