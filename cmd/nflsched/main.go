package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/derekprior/nflsched/internal/config"
	"github.com/derekprior/nflsched/internal/excel"
	"github.com/derekprior/nflsched/internal/league"
	"github.com/derekprior/nflsched/internal/schedule"
	"github.com/derekprior/nflsched/internal/server"
	"github.com/derekprior/nflsched/internal/validator"
)

const defaultConfigFile = "config.yaml"

// resolveConfigPath returns "" when no config file is in use.
func resolveConfigPath(configFlag string) string {
	if configFlag != "" {
		return configFlag
	}
	if _, err := os.Stat(defaultConfigFile); err == nil {
		return defaultConfigFile
	}
	return ""
}

func loadConfig(configFlag string) (*config.Config, error) {
	path := resolveConfigPath(configFlag)
	if path == "" {
		return config.Default(), nil
	}
	cfg, err := config.LoadFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	log.Debug().Str("path", path).Msg("config loaded")
	return cfg, nil
}

func setupLogger(level string) error {
	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	})
	parsed, err := zerolog.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	zerolog.SetGlobalLevel(parsed)
	return nil
}

// seasonFlags are shared by every command that generates a season.
type seasonFlags struct {
	config   string
	year     int
	seed     int64
	strategy string
}

func (f *seasonFlags) register(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&f.config, "config", "", "Path to config file (default: config.yaml in current directory, if present)")
	cmd.PersistentFlags().IntVar(&f.year, "year", 0, "Season year (default: from config, else the current year)")
	cmd.PersistentFlags().Int64Var(&f.seed, "seed", 0, "Random seed (default: from config, else time-based)")
	cmd.PersistentFlags().StringVar(&f.strategy, "strategy", "", "Inter-rank hosting strategy: conference_hosts or division_balanced")
}

// options merges the config file with any flags that were set.
func (f *seasonFlags) options(cmd *cobra.Command) (*config.Config, *league.League, schedule.Options, error) {
	cfg, err := loadConfig(f.config)
	if err != nil {
		return nil, nil, schedule.Options{}, err
	}
	if cmd.Flags().Changed("year") {
		cfg.Season.Year = f.year
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = f.seed
	}
	if cmd.Flags().Changed("strategy") {
		cfg.Strategy = f.strategy
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, schedule.Options{}, err
	}
	lg, err := cfg.BuildLeague()
	if err != nil {
		return nil, nil, schedule.Options{}, err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return cfg, lg, schedule.Options{
		Year:           cfg.Season.Year,
		RuleChangeYear: cfg.Season.RuleChangeYear,
		Seed:           seed,
		Strategy:       cfg.Strategy,
		Logger:         log.Logger,
	}, nil
}

func main() {
	var logLevel string
	rootCmd := &cobra.Command{
		Use:   "nflsched",
		Short: "NFL-style season opponent and home/away generator",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogger(logLevel)
		},
	}
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Diagnostic log level (debug, info, warn, error)")

	var initOutputPath string
	var initWithLeague bool
	initCmd := &cobra.Command{
		Use:          "init",
		Short:        "Create a starter config.yaml in the current directory",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(initOutputPath, initWithLeague)
		},
	}
	initCmd.Flags().StringVarP(&initOutputPath, "output", "o", defaultConfigFile, "Output path for the config file")
	initCmd.Flags().BoolVar(&initWithLeague, "with-league", false, "Include the full team catalog so it can be edited")

	scheduleCmd := &cobra.Command{
		Use:   "schedule",
		Short: "Generate, show and validate season schedules",
	}
	var season seasonFlags
	season.register(scheduleCmd)

	var outputFile string
	generateCmd := &cobra.Command{
		Use:          "generate",
		Short:        "Generate a season and save it as a workbook",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, lg, opts, err := season.options(cmd)
			if err != nil {
				return err
			}
			return runGenerate(lg, opts, outputFile)
		},
	}
	generateCmd.Flags().StringVarP(&outputFile, "output", "o", "schedule.xlsx", "Output Excel file path")

	showCmd := &cobra.Command{
		Use:          "show <team>...",
		Short:        "Generate a season and print the schedule of one or more teams",
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, lg, opts, err := season.options(cmd)
			if err != nil {
				return err
			}
			return runShow(lg, opts, args)
		},
	}

	validateCmd := &cobra.Command{
		Use:          "validate <schedule.xlsx>",
		Short:        "Validate a schedule workbook against the league rules",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(season.config)
			if err != nil {
				return err
			}
			return runValidate(cfg, args[0])
		},
	}

	var addr string
	serveCmd := &cobra.Command{
		Use:          "serve",
		Short:        "Serve schedule queries over HTTP",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, lg, opts, err := season.options(cmd)
			if err != nil {
				return err
			}
			if err := cfg.LoadServerEnv(); err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}
			if !cmd.Flags().Changed("log-level") {
				if err := setupLogger(cfg.Server.LogLevel); err != nil {
					return err
				}
				opts.Logger = log.Logger
			}
			return runServe(cmd.Context(), lg, opts, cfg.Server.Addr)
		},
	}
	season.register(serveCmd)
	serveCmd.Flags().StringVar(&addr, "addr", "", "Listen address (default: from config or NFLSCHED_ADDR, else :8080)")

	scheduleCmd.AddCommand(generateCmd, showCmd, validateCmd)
	rootCmd.AddCommand(initCmd, scheduleCmd, serveCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runInit(outputPath string, withLeague bool) error {
	if _, err := os.Stat(outputPath); err == nil {
		return fmt.Errorf("%s already exists; remove it first or use -o to write elsewhere", outputPath)
	}

	content := []byte(configTemplate)
	if withLeague {
		cfg := config.Default()
		cfg.SetLeague(league.Default())
		data, err := cfg.Marshal()
		if err != nil {
			return err
		}
		content = append([]byte(leagueTemplateHeader), data...)
	}

	if err := os.WriteFile(outputPath, content, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	fmt.Printf("✓ Created %s\n", outputPath)
	return nil
}

const configTemplate = `# NFL Schedule Configuration
# ==========================
# This file defines the parameters for generating a season's opponents and
# home/away designations.

# Season to generate. Inter-conference rank games are hosted by the first
# conference (AFC) in odd years and by the second (NFC) in even years.
# Seasons before rule_change_year are rejected: the 17th game was added in 2021.
season:
  year: 2025
  rule_change_year: 2021

# Random seed for standings, pairings and free home/away choices.
# The same seed always produces the same season. 0 picks a time-based seed,
# which is printed so the season can be reproduced.
seed: 0

# Strategy decides home and away for the inter-conference rank game.
# "conference_hosts" puts all 16 games at the host conference's teams.
# "division_balanced" gives every division exactly 2 home games of its 4.
strategy: conference_hosts

# Settings for "nflsched serve". NFLSCHED_ADDR and NFLSCHED_LOG_LEVEL
# (also read from a .env file) override them.
server:
  addr: ":8080"
  log_level: info
`

const leagueTemplateHeader = `# NFL Schedule Configuration
# ==========================
# See "nflsched init" without --with-league for a description of each setting.
#
# league lists 2 conferences of 4 divisions of 4 teams. The first conference
# hosts inter-conference rank games in odd years. Team codes must be unique;
# lookups ignore case.

`

func generate(lg *league.League, opts schedule.Options) (*schedule.Session, error) {
	sess, err := schedule.Generate(lg, opts)
	if err != nil {
		return nil, fmt.Errorf("generating season: %w", err)
	}
	return sess, nil
}

func runGenerate(lg *league.League, opts schedule.Options, outputPath string) error {
	sess, err := generate(lg, opts)
	if err != nil {
		return err
	}

	fmt.Printf("Season %d (seed %d, strategy %s): %s hosts inter-conference rank games\n",
		sess.Year, sess.Seed, sess.Strategy, sess.Host)
	printStandings(os.Stdout, sess.League, sess.Standings)
	printPairings(os.Stdout, "Intra-Conference", sess.Intra)
	printPairings(os.Stdout, "Inter-Conference", sess.Inter)
	if err := printRankPairings(os.Stdout, sess); err != nil {
		return err
	}

	fmt.Printf("\n✓ All %d games assigned; every team plays %d (%d teams)\n",
		len(sess.Games()), schedule.GamesPerTeam(), len(sess.League.Teams()))

	f, err := excel.Generate(sess)
	if err != nil {
		return fmt.Errorf("generating Excel: %w", err)
	}
	if err := f.SaveAs(outputPath); err != nil {
		return fmt.Errorf("saving file: %w", err)
	}

	fmt.Printf("✓ Schedule saved to %s\n", outputPath)
	return nil
}

func runShow(lg *league.League, opts schedule.Options, codes []string) error {
	sess, err := generate(lg, opts)
	if err != nil {
		return err
	}
	fmt.Printf("Season %d (seed %d): %s hosts inter-conference rank games\n", sess.Year, sess.Seed, sess.Host)

	var missing []string
	for _, code := range codes {
		ts, err := sess.Schedule(code)
		if errors.Is(err, schedule.ErrTeamNotFound) {
			fmt.Printf("⚠ Team %s not found\n", code)
			missing = append(missing, code)
			continue
		}
		if err != nil {
			return err
		}
		printTeamSchedule(os.Stdout, ts)
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %v", schedule.ErrTeamNotFound, missing)
	}
	return nil
}

func runValidate(cfg *config.Config, schedulePath string) error {
	lg, err := cfg.BuildLeague()
	if err != nil {
		return err
	}

	violations, err := validator.Validate(cfg, schedulePath)
	if err != nil {
		return fmt.Errorf("validating: %w", err)
	}

	errors := 0
	warnings := 0
	for _, v := range violations {
		where := ""
		if v.Sheet != "" && v.Row > 0 {
			where = fmt.Sprintf(" (%s row %d)", v.Sheet, v.Row)
		}
		switch v.Type {
		case "error":
			errors++
			fmt.Printf("✗ Rule violation: %s%s\n", v.Message, where)
		case "warning":
			warnings++
			fmt.Printf("⚠ Warning: %s%s\n", v.Message, where)
		}
	}

	fmt.Printf("\nValidation complete: %d rule violations, %d warnings\n", errors, warnings)

	// Regenerate team sheets from the Matchups sheet
	if err := excel.UpdateTeamSheets(schedulePath, lg); err != nil {
		return fmt.Errorf("updating team sheets: %w", err)
	}
	fmt.Printf("✓ Team sheets updated in %s\n", schedulePath)

	if errors > 0 {
		return fmt.Errorf("%d rule violations found", errors)
	}
	return nil
}

func runServe(ctx context.Context, lg *league.League, opts schedule.Options, addr string) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, err := server.New(lg, opts, log.Logger)
	if err != nil {
		return fmt.Errorf("generating season: %w", err)
	}
	fmt.Printf("✓ Serving season %d (seed %d) on %s\n", srv.Current().Year, srv.Current().Seed, addr)
	return srv.ListenAndServe(ctx, addr)
}
