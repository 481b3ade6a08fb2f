// Package schedule builds one season's opponents and home/away designations
// and answers per-team schedule queries against the result.
package schedule

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/derekprior/nflsched/internal/balance"
	"github.com/derekprior/nflsched/internal/league"
	"github.com/derekprior/nflsched/internal/strategy"
)

// DefaultRuleChangeYear is the first season with a 17th game.
const DefaultRuleChangeYear = 2021

var (
	ErrInvalidYear  = errors.New("invalid year")
	ErrTeamNotFound = errors.New("team not found")
)

// Options controls a generation run.
type Options struct {
	Year           int
	RuleChangeYear int // defaults to DefaultRuleChangeYear
	Seed           int64
	Strategy       string // defaults to strategy.ConferenceHostsName

	// Coin overrides the seeded coin used for free home/away choices.
	Coin balance.Coin
	// Logger receives stage diagnostics at debug level. The zero value discards them.
	Logger zerolog.Logger
}

// Session is one generated season. It is never modified after Generate
// returns, so it can be shared between goroutines.
type Session struct {
	ID        uuid.UUID
	Year      int
	Seed      int64
	Host      string
	Strategy  string
	CreatedAt time.Time

	League    *league.League
	Standings Standings
	Intra     Pairings
	Inter     Pairings

	plan  balance.Plan
	games []Game
	table Table
}

// ValidateYear rejects seasons before the rule change.
func ValidateYear(year, ruleChangeYear int) error {
	if year < ruleChangeYear {
		return fmt.Errorf("%w: %d: the 17th game was added in %d", ErrInvalidYear, year, ruleChangeYear)
	}
	return nil
}

// HostConference returns the conference that hosts the inter-rank game:
// the first conference in odd years, the second in even years.
func HostConference(lg *league.League, year int) string {
	confs := lg.Conferences()
	if year%2 != 0 {
		return confs[0].Name
	}
	return confs[1].Name
}

// Generate runs the whole pipeline for one season: standings, pairings,
// opponent selection and home/away assignment. The result is checked
// against every scheduling rule before it is returned; any failure is
// reported as balance.ErrInfeasible.
func Generate(lg *league.League, opts Options) (*Session, error) {
	if opts.RuleChangeYear == 0 {
		opts.RuleChangeYear = DefaultRuleChangeYear
	}
	if err := ValidateYear(opts.Year, opts.RuleChangeYear); err != nil {
		return nil, err
	}
	if opts.Strategy == "" {
		opts.Strategy = strategy.ConferenceHostsName
	}
	strat, err := strategy.Get(opts.Strategy)
	if err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	coin := opts.Coin
	if coin == nil {
		coin = balance.NewRandCoin(rng)
	}
	host := HostConference(lg, opts.Year)
	log := opts.Logger.With().Int("year", opts.Year).Int64("seed", opts.Seed).Logger()

	standings := ComputeStandings(lg, rng)
	intra := ComputeIntraPairings(lg, rng)
	inter := ComputeInterPairings(lg, rng)
	log.Debug().
		Stringer("intra", intra).
		Stringer("inter", inter).
		Str("host", host).
		Str("strategy", strat.Name()).
		Msg("pairings drawn")

	e := &engine{
		lg:        lg,
		standings: standings,
		intra:     intra,
		inter:     inter,
		strat:     strat,
		host:      host,
		coin:      coin,
		log:       log,
	}
	games, err := e.run()
	if err != nil {
		return nil, fmt.Errorf("generating %d season: %w", opts.Year, err)
	}

	table := BuildTable(lg, games)
	plan := strat.Plan(lg, host)
	if problems := Check(lg, table, plan, standings); len(problems) > 0 {
		return nil, fmt.Errorf("%w: %d season check failures: %s",
			balance.ErrInfeasible, len(problems), strings.Join(problems, "; "))
	}
	log.Debug().Int("games", len(games)).Msg("season generated")

	return &Session{
		ID:        uuid.New(),
		Year:      opts.Year,
		Seed:      opts.Seed,
		Host:      host,
		Strategy:  strat.Name(),
		CreatedAt: time.Now(),
		League:    lg,
		Standings: standings,
		Intra:     intra,
		Inter:     inter,
		plan:      plan,
		games:     games,
		table:     table,
	}, nil
}

// Games returns every game of the season in generation order.
func (s *Session) Games() []Game {
	out := make([]Game, len(s.games))
	copy(out, s.games)
	return out
}

// Plan is the inter-rank hosting plan the session was generated with.
func (s *Session) Plan() balance.Plan {
	return s.plan
}

// TeamSchedule is one team's full season.
type TeamSchedule struct {
	Team *league.Team
	Rank int

	IntraDivision      league.DivisionKey
	InterDivision      league.DivisionKey
	IntraRankDivisions []league.DivisionKey
	InterRankDivision  league.DivisionKey

	Entries []Entry
}

// Schedule looks up a team by code, case-insensitively.
func (s *Session) Schedule(code string) (*TeamSchedule, error) {
	t, ok := s.League.Team(code)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrTeamNotFound, code)
	}

	intraDiv, err := s.Intra.Partner(t.Key())
	if err != nil {
		return nil, err
	}
	interDiv, err := s.Inter.Partner(t.Key())
	if err != nil {
		return nil, err
	}
	rankDivs, err := IntraRankOpponents(s.League, t.Key(), s.Intra)
	if err != nil {
		return nil, err
	}
	interRankDiv, err := InterRankOpponent(t.Key(), s.Inter)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, len(s.table[t.Code]))
	copy(entries, s.table[t.Code])
	return &TeamSchedule{
		Team:               t,
		Rank:               s.Standings.Rank(t),
		IntraDivision:      intraDiv,
		InterDivision:      interDiv,
		IntraRankDivisions: rankDivs,
		InterRankDivision:  interRankDiv,
		Entries:            entries,
	}, nil
}

// ByCategory returns the entries of one category, in schedule order.
func (ts *TeamSchedule) ByCategory(cat Category) []Entry {
	var out []Entry
	for _, e := range ts.Entries {
		if e.Category == cat {
			out = append(out, e)
		}
	}
	return out
}

// Totals counts home and away games across the season.
func (ts *TeamSchedule) Totals() (home, away int) {
	home = countSide(ts.Entries, balance.Home)
	return home, len(ts.Entries) - home
}
