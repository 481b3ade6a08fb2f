package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/derekprior/nflsched/internal/league"
	"github.com/derekprior/nflsched/internal/schedule"
	"github.com/derekprior/nflsched/internal/strategy"
)

// EnvPrefix is prepended to every environment override, e.g. NFLSCHED_ADDR.
const EnvPrefix = "NFLSCHED"

type Season struct {
	Year           int `yaml:"year"`
	RuleChangeYear int `yaml:"rule_change_year"`
}

type Team struct {
	Code string `yaml:"code"`
	Name string `yaml:"name"`
}

type Division struct {
	Name  string `yaml:"name"`
	Teams []Team `yaml:"teams"`
}

type Conference struct {
	Name      string     `yaml:"name"`
	Divisions []Division `yaml:"divisions"`
}

// League overrides the built-in NFL catalog when it lists any conferences.
type League struct {
	Conferences []Conference `yaml:"conferences"`
}

type Server struct {
	Addr     string `yaml:"addr" envconfig:"ADDR"`
	LogLevel string `yaml:"log_level" envconfig:"LOG_LEVEL"`
}

type Config struct {
	Season   Season `yaml:"season"`
	Seed     int64  `yaml:"seed"`
	Strategy string `yaml:"strategy"`
	League   League `yaml:"league"`
	Server   Server `yaml:"server"`
}

// Default returns the configuration used when no file is given: the current
// year, a time-based seed and the built-in catalog.
func Default() *Config {
	return &Config{
		Season: Season{
			Year:           time.Now().Year(),
			RuleChangeYear: schedule.DefaultRuleChangeYear,
		},
		Strategy: strategy.ConferenceHostsName,
		Server: Server{
			Addr:     ":8080",
			LogLevel: "info",
		},
	}
}

// LoadFromBytes parses YAML bytes over the defaults and validates the result.
func LoadFromBytes(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromFile reads and parses a YAML config file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return LoadFromBytes(data)
}

// LoadServerEnv applies a .env file, if present, and then NFLSCHED_*
// variables over the server settings.
func (c *Config) LoadServerEnv(files ...string) error {
	_ = godotenv.Load(files...)
	if err := envconfig.Process(EnvPrefix, &c.Server); err != nil {
		return fmt.Errorf("processing environment: %w", err)
	}
	return nil
}

// Validate checks the year, strategy and league catalog.
func (c *Config) Validate() error {
	if c.Season.RuleChangeYear == 0 {
		c.Season.RuleChangeYear = schedule.DefaultRuleChangeYear
	}
	if err := schedule.ValidateYear(c.Season.Year, c.Season.RuleChangeYear); err != nil {
		return err
	}
	if _, err := strategy.Get(c.Strategy); err != nil {
		return err
	}
	if _, err := c.BuildLeague(); err != nil {
		return err
	}
	return nil
}

// BuildLeague returns the configured league, or the built-in NFL catalog if
// the config does not list one.
func (c *Config) BuildLeague() (*league.League, error) {
	if len(c.League.Conferences) == 0 {
		return league.Default(), nil
	}

	specs := make([]league.ConferenceSpec, len(c.League.Conferences))
	for i, conf := range c.League.Conferences {
		cs := league.ConferenceSpec{Name: conf.Name}
		for _, div := range conf.Divisions {
			ds := league.DivisionSpec{Name: div.Name}
			for _, t := range div.Teams {
				ds.Teams = append(ds.Teams, league.TeamSpec{Code: t.Code, Name: t.Name})
			}
			cs.Divisions = append(cs.Divisions, ds)
		}
		specs[i] = cs
	}

	lg, err := league.New(specs)
	if err != nil {
		return nil, fmt.Errorf("league: %w", err)
	}
	return lg, nil
}

// SetLeague writes lg's catalog into the config, e.g. for a starter file.
func (c *Config) SetLeague(lg *league.League) {
	c.League.Conferences = nil
	for _, cs := range lg.Specs() {
		conf := Conference{Name: cs.Name}
		for _, ds := range cs.Divisions {
			div := Division{Name: ds.Name}
			for _, t := range ds.Teams {
				div.Teams = append(div.Teams, Team{Code: t.Code, Name: t.Name})
			}
			conf.Divisions = append(conf.Divisions, div)
		}
		c.League.Conferences = append(c.League.Conferences, conf)
	}
}

// Marshal renders the config as YAML.
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}
	return data, nil
}
