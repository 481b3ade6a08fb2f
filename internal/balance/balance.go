// Package balance orients opponent edges into home/away matchups so that
// every unit (a team, a division or a conference) ends with an exact number
// of home and away games.
package balance

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"

	"github.com/derekprior/nflsched/internal/league"
)

// ErrInfeasible means the quotas cannot be met. It always points at a bug in
// the caller's edge set or quotas, never at bad user input.
var ErrInfeasible = errors.New("assignment infeasible")

type Side int

const (
	Home Side = iota
	Away
)

func (s Side) String() string {
	if s == Home {
		return "HOME"
	}
	return "AWAY"
}

func (s Side) Opposite() Side {
	if s == Home {
		return Away
	}
	return Home
}

// Matchup is one oriented game.
type Matchup struct {
	Home *league.Team
	Away *league.Team
}

// SideOf reports which side the team plays on. ok is false if the team is not in the matchup.
func (m Matchup) SideOf(t *league.Team) (side Side, opponent *league.Team, ok bool) {
	switch t {
	case m.Home:
		return Home, m.Away, true
	case m.Away:
		return Away, m.Home, true
	}
	return Home, nil, false
}

// Edge is an unoriented game between two teams.
type Edge struct {
	A, B *league.Team
}

// Quota is the number of home and away games a unit must end with.
type Quota struct {
	Home int
	Away int
}

// Plan groups teams into units and gives each unit its quota.
type Plan struct {
	UnitOf func(*league.Team) string
	Quotas map[string]Quota
}

// ByTeam is a unit function that treats every team as its own unit.
func ByTeam(t *league.Team) string { return t.Code }

// ByDivision groups teams by division.
func ByDivision(t *league.Team) string { return t.Key().String() }

// ByConference groups teams by conference.
func ByConference(t *league.Team) string { return t.Conference }

// Coin makes the genuinely free choices. Flip returning true puts the first
// team of the edge (in code order) at home.
type Coin interface {
	Flip() bool
}

// CoinFunc adapts a function to the Coin interface.
type CoinFunc func() bool

func (f CoinFunc) Flip() bool { return f() }

// NewRandCoin returns a fair coin backed by rng.
func NewRandCoin(rng *rand.Rand) Coin {
	return CoinFunc(func() bool { return rng.Intn(2) == 0 })
}

// Stats counts how each edge was decided.
type Stats struct {
	Forced int
	Free   int
}

type orienter struct {
	plan      Plan
	coin      Coin
	edges     []Edge
	decided   []bool
	result    []Matchup
	remaining map[string]Quota
	left      int
	stats     Stats
}

// Orient assigns a home and away team to every edge.
//
// Edges are processed in code order. Any edge where only one orientation
// keeps both units within quota is forced, repeatedly, until nothing more is
// forced. Only then is one remaining edge decided by the coin, and forcing
// resumes. The returned matchups follow the sorted edge order.
func Orient(edges []Edge, plan Plan, coin Coin) ([]Matchup, Stats, error) {
	o := &orienter{
		plan:      plan,
		coin:      coin,
		edges:     sortedEdges(edges),
		decided:   make([]bool, len(edges)),
		result:    make([]Matchup, len(edges)),
		remaining: make(map[string]Quota, len(plan.Quotas)),
		left:      len(edges),
	}
	for u, q := range plan.Quotas {
		o.remaining[u] = q
	}

	if err := o.checkTotals(); err != nil {
		return nil, o.stats, err
	}

	for o.left > 0 {
		if err := o.force(); err != nil {
			return nil, o.stats, err
		}
		for i := range o.edges {
			if !o.decided[i] {
				o.assign(i, o.coin.Flip())
				o.stats.Free++
				break
			}
		}
	}

	for u, q := range o.remaining {
		if q.Home != 0 || q.Away != 0 {
			return nil, o.stats, fmt.Errorf("%w: %s left with %d home and %d away unfilled", ErrInfeasible, u, q.Home, q.Away)
		}
	}
	return o.result, o.stats, nil
}

// checkTotals makes sure each unit's quota adds up to the games it plays.
func (o *orienter) checkTotals() error {
	pending := make(map[string]int)
	for _, e := range o.edges {
		pending[o.plan.UnitOf(e.A)]++
		pending[o.plan.UnitOf(e.B)]++
	}
	for u, n := range pending {
		q, ok := o.remaining[u]
		if !ok {
			return fmt.Errorf("%w: no quota for %s", ErrInfeasible, u)
		}
		if q.Home+q.Away != n {
			return fmt.Errorf("%w: %s plays %d games but its quota is %d home + %d away", ErrInfeasible, u, n, q.Home, q.Away)
		}
	}
	for u, q := range o.remaining {
		if pending[u] == 0 && (q.Home != 0 || q.Away != 0) {
			return fmt.Errorf("%w: %s has a quota but no games", ErrInfeasible, u)
		}
	}
	return nil
}

// force decides every edge with a single valid orientation until a fixed point.
func (o *orienter) force() error {
	for changed := true; changed; {
		changed = false
		for i, e := range o.edges {
			if o.decided[i] {
				continue
			}
			aHome, bHome := o.options(e)
			switch {
			case !aHome && !bHome:
				return fmt.Errorf("%w: no valid home team for %s vs %s", ErrInfeasible, e.A.Code, e.B.Code)
			case aHome && !bHome:
				o.assign(i, true)
			case bHome && !aHome:
				o.assign(i, false)
			default:
				continue
			}
			o.stats.Forced++
			changed = true
		}
	}
	return nil
}

func (o *orienter) options(e Edge) (aHome, bHome bool) {
	ua, ub := o.plan.UnitOf(e.A), o.plan.UnitOf(e.B)
	qa, qb := o.remaining[ua], o.remaining[ub]
	if ua == ub {
		ok := qa.Home > 0 && qa.Away > 0
		return ok, ok
	}
	return qa.Home > 0 && qb.Away > 0, qb.Home > 0 && qa.Away > 0
}

func (o *orienter) assign(i int, aHome bool) {
	e := o.edges[i]
	m := Matchup{Home: e.A, Away: e.B}
	if !aHome {
		m = Matchup{Home: e.B, Away: e.A}
	}

	hu, au := o.plan.UnitOf(m.Home), o.plan.UnitOf(m.Away)
	hq := o.remaining[hu]
	hq.Home--
	o.remaining[hu] = hq
	aq := o.remaining[au]
	aq.Away--
	o.remaining[au] = aq

	o.result[i] = m
	o.decided[i] = true
	o.left--
}

func sortedEdges(edges []Edge) []Edge {
	sorted := make([]Edge, len(edges))
	for i, e := range edges {
		if e.B.Code < e.A.Code {
			e.A, e.B = e.B, e.A
		}
		sorted[i] = e
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].A.Code != sorted[j].A.Code {
			return sorted[i].A.Code < sorted[j].A.Code
		}
		return sorted[i].B.Code < sorted[j].B.Code
	})
	return sorted
}

// Tally counts home and away games per unit.
func Tally(matchups []Matchup, unitOf func(*league.Team) string) map[string]Quota {
	counts := make(map[string]Quota)
	for _, m := range matchups {
		h := counts[unitOf(m.Home)]
		h.Home++
		counts[unitOf(m.Home)] = h
		a := counts[unitOf(m.Away)]
		a.Away++
		counts[unitOf(m.Away)] = a
	}
	return counts
}
