package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/derekprior/nflsched/internal/league"
	"github.com/derekprior/nflsched/internal/schedule"
	"github.com/derekprior/nflsched/internal/strategy"
)

const testConfigYAML = `
season:
  year: 2025
  rule_change_year: 2021

seed: 42
strategy: division_balanced

server:
  addr: "127.0.0.1:9000"
  log_level: debug
`

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadFromBytes([]byte(testConfigYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	t.Run("season", func(t *testing.T) {
		if cfg.Season.Year != 2025 {
			t.Errorf("year = %d, want 2025", cfg.Season.Year)
		}
		if cfg.Season.RuleChangeYear != 2021 {
			t.Errorf("rule change year = %d, want 2021", cfg.Season.RuleChangeYear)
		}
	})

	t.Run("seed and strategy", func(t *testing.T) {
		if cfg.Seed != 42 {
			t.Errorf("seed = %d, want 42", cfg.Seed)
		}
		if cfg.Strategy != strategy.DivisionBalancedName {
			t.Errorf("strategy = %q, want %q", cfg.Strategy, strategy.DivisionBalancedName)
		}
	})

	t.Run("server", func(t *testing.T) {
		if cfg.Server.Addr != "127.0.0.1:9000" {
			t.Errorf("addr = %q", cfg.Server.Addr)
		}
		if cfg.Server.LogLevel != "debug" {
			t.Errorf("log level = %q", cfg.Server.LogLevel)
		}
	})

	t.Run("built-in league", func(t *testing.T) {
		lg, err := cfg.BuildLeague()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(lg.Teams()) != 32 {
			t.Errorf("teams = %d, want 32", len(lg.Teams()))
		}
	})
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadFromBytes([]byte("season:\n  year: 2030\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Season.RuleChangeYear != schedule.DefaultRuleChangeYear {
		t.Errorf("rule change year = %d, want %d", cfg.Season.RuleChangeYear, schedule.DefaultRuleChangeYear)
	}
	if cfg.Strategy != strategy.ConferenceHostsName {
		t.Errorf("strategy = %q, want %q", cfg.Strategy, strategy.ConferenceHostsName)
	}
	if cfg.Seed != 0 {
		t.Errorf("seed = %d, want 0", cfg.Seed)
	}
	if cfg.Server.Addr != ":8080" || cfg.Server.LogLevel != "info" {
		t.Errorf("unexpected server defaults %+v", cfg.Server)
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Season.Year != time.Now().Year() {
		t.Errorf("year = %d, want current year", cfg.Season.Year)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
		is      error
	}{
		{
			name:    "year before rule change",
			yaml:    "season:\n  year: 2019\n",
			wantErr: "17th game was added in 2021",
			is:      schedule.ErrInvalidYear,
		},
		{
			name: "custom rule change year",
			yaml: "season:\n  year: 2019\n  rule_change_year: 2019\n",
		},
		{
			name:    "unknown strategy",
			yaml:    "season:\n  year: 2025\nstrategy: random\n",
			wantErr: "unknown strategy",
			is:      strategy.ErrUnknownStrategy,
		},
		{
			name: "league with one conference",
			yaml: `
season:
  year: 2025
league:
  conferences:
    - name: Solo
      divisions: []
`,
			wantErr: "league",
			is:      league.ErrInvalidLeague,
		},
		{
			name:    "malformed yaml",
			yaml:    "season: [",
			wantErr: "parsing config",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromBytes([]byte(tt.yaml))
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error containing %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.wantErr)
			}
			if tt.is != nil && !errors.Is(err, tt.is) {
				t.Errorf("error %v is not %v", err, tt.is)
			}
		})
	}
}

func TestLeagueRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.SetLeague(league.Default())
	data, err := cfg.Marshal()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	loaded, err := LoadFromBytes(data)
	if err != nil {
		t.Fatalf("reloading marshalled config: %v", err)
	}
	lg, err := loaded.BuildLeague()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	team, ok := lg.Team("gb")
	if !ok {
		t.Fatal("expected GB in reloaded league")
	}
	if team.Name != "Green Bay Packers" || team.Conference != "NFC" || team.Division != "North" {
		t.Errorf("unexpected team %+v", team)
	}
}

func TestLoadServerEnv(t *testing.T) {
	t.Setenv("NFLSCHED_ADDR", ":9999")

	cfg := Default()
	if err := cfg.LoadServerEnv(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Addr != ":9999" {
		t.Errorf("addr = %q, want :9999", cfg.Server.Addr)
	}
}

func TestLoadServerEnvFromDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("NFLSCHED_LOG_LEVEL=warn\n"), 0644); err != nil {
		t.Fatal(err)
	}
	// godotenv never overrides variables that are already set.
	t.Setenv("NFLSCHED_LOG_LEVEL", "")
	os.Unsetenv("NFLSCHED_LOG_LEVEL")

	cfg := Default()
	if err := cfg.LoadServerEnv(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.LogLevel != "warn" {
		t.Errorf("log level = %q, want warn", cfg.Server.LogLevel)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(testConfigYAML), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Seed != 42 {
		t.Errorf("seed = %d, want 42", cfg.Seed)
	}

	if _, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
