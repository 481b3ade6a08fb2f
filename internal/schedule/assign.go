package schedule

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/derekprior/nflsched/internal/balance"
	"github.com/derekprior/nflsched/internal/league"
	"github.com/derekprior/nflsched/internal/strategy"
)

// Category is the rule that puts an opponent on a team's schedule.
type Category int

const (
	Division Category = iota
	IntraConference
	InterConference
	IntraRank
	InterRank
)

var categoryNames = map[Category]string{
	Division:        "Division",
	IntraConference: "Intra-Conference",
	InterConference: "Inter-Conference",
	IntraRank:       "Intra-Rank",
	InterRank:       "Inter-Rank",
}

// Categories lists every category in schedule order.
func Categories() []Category {
	return []Category{Division, IntraConference, InterConference, IntraRank, InterRank}
}

func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Category(%d)", int(c))
}

// ParseCategory is the inverse of String.
func ParseCategory(s string) (Category, bool) {
	for c, name := range categoryNames {
		if name == s {
			return c, true
		}
	}
	return 0, false
}

// PerTeam is the number of games each team plays in the category.
func (c Category) PerTeam() int {
	switch c {
	case Division:
		return 6
	case IntraConference, InterConference:
		return 4
	case IntraRank:
		return 2
	case InterRank:
		return 1
	}
	return 0
}

// HomePerTeam is the number of home games every team gets in the category.
// ok is false for InterRank, where the hosting strategy decides.
func (c Category) HomePerTeam() (n int, ok bool) {
	if c == InterRank {
		return 0, false
	}
	return c.PerTeam() / 2, true
}

// GamesPerTeam is the length of a full season.
func GamesPerTeam() int {
	n := 0
	for _, c := range Categories() {
		n += c.PerTeam()
	}
	return n
}

// Game is one oriented game in the season.
type Game struct {
	balance.Matchup
	Category Category
}

type engine struct {
	lg        *league.League
	standings Standings
	intra     Pairings
	inter     Pairings
	strat     strategy.Strategy
	host      string
	coin      balance.Coin
	log       zerolog.Logger
}

func (e *engine) run() ([]Game, error) {
	games := e.divisionGames()

	intra, err := e.crossGames(e.intra, IntraConference)
	if err != nil {
		return nil, fmt.Errorf("intra-conference games: %w", err)
	}
	games = append(games, intra...)

	inter, err := e.crossGames(e.inter, InterConference)
	if err != nil {
		return nil, fmt.Errorf("inter-conference games: %w", err)
	}
	games = append(games, inter...)

	intraRank, err := e.intraRankGames()
	if err != nil {
		return nil, fmt.Errorf("intra-rank games: %w", err)
	}
	games = append(games, intraRank...)

	interRank, err := e.interRankGames()
	if err != nil {
		return nil, fmt.Errorf("inter-rank games: %w", err)
	}
	return append(games, interRank...), nil
}

// divisionGames plays every division pair twice, once at each team's home.
func (e *engine) divisionGames() []Game {
	var games []Game
	for _, d := range e.lg.Divisions() {
		for i := 0; i < len(d.Teams); i++ {
			for j := i + 1; j < len(d.Teams); j++ {
				games = append(games,
					Game{Matchup: balance.Matchup{Home: d.Teams[i], Away: d.Teams[j]}, Category: Division},
					Game{Matchup: balance.Matchup{Home: d.Teams[j], Away: d.Teams[i]}, Category: Division},
				)
			}
		}
	}
	return games
}

// crossGames plays every team of each paired division once, by roster parity.
func (e *engine) crossGames(ps Pairings, cat Category) ([]Game, error) {
	var games []Game
	for _, p := range ps {
		d1, ok := e.lg.Division(p.A)
		if !ok {
			return nil, fmt.Errorf("%w: division %s", ErrLookup, p.A)
		}
		d2, ok := e.lg.Division(p.B)
		if !ok {
			return nil, fmt.Errorf("%w: division %s", ErrLookup, p.B)
		}
		for _, m := range balance.Parity(d1.Teams, d2.Teams) {
			games = append(games, Game{Matchup: m, Category: cat})
		}
	}
	return games, nil
}

// intraRankGames pairs each team with the same-rank team of the two
// divisions it does not already play, one home and one away.
func (e *engine) intraRankGames() ([]Game, error) {
	type pairKey struct{ a, b string }
	seen := make(map[pairKey]bool)
	quotas := make(map[string]balance.Quota)
	var edges []balance.Edge

	for _, d := range e.lg.Divisions() {
		opps, err := IntraRankOpponents(e.lg, d.Key(), e.intra)
		if err != nil {
			return nil, err
		}
		for rank, t := range e.standings[d.Key()] {
			quotas[t.Code] = balance.Quota{Home: 1, Away: 1}
			for _, oppDiv := range opps {
				opp, found := e.standings.AtRank(oppDiv, rank+1)
				if !found {
					return nil, fmt.Errorf("%w: no rank %d team in %s", ErrLookup, rank+1, oppDiv)
				}
				k := pairKey{t.Code, opp.Code}
				if k.b < k.a {
					k.a, k.b = k.b, k.a
				}
				if seen[k] {
					continue
				}
				seen[k] = true
				edges = append(edges, balance.Edge{A: t, B: opp})
			}
		}
	}

	return e.orient(edges, balance.Plan{UnitOf: balance.ByTeam, Quotas: quotas}, IntraRank)
}

// interRankGames pairs same-rank teams of inter-conference partner divisions
// and lets the hosting strategy place them.
func (e *engine) interRankGames() ([]Game, error) {
	var edges []balance.Edge
	for _, p := range e.inter {
		first, second := e.standings[p.A], e.standings[p.B]
		if len(first) != len(second) {
			return nil, fmt.Errorf("%w: %s and %s have different standings sizes", ErrLookup, p.A, p.B)
		}
		for i := range first {
			edges = append(edges, balance.Edge{A: first[i], B: second[i]})
		}
	}
	return e.orient(edges, e.strat.Plan(e.lg, e.host), InterRank)
}

func (e *engine) orient(edges []balance.Edge, plan balance.Plan, cat Category) ([]Game, error) {
	matchups, stats, err := balance.Orient(edges, plan, e.coin)
	if err != nil {
		return nil, err
	}
	e.log.Debug().
		Str("category", cat.String()).
		Int("games", len(matchups)).
		Int("forced", stats.Forced).
		Int("free", stats.Free).
		Msg("home/away assigned")

	games := make([]Game, len(matchups))
	for i, m := range matchups {
		games[i] = Game{Matchup: m, Category: cat}
	}
	return games, nil
}
