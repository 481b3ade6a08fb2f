package schedule

import (
	"fmt"
	"sort"

	"github.com/derekprior/nflsched/internal/balance"
	"github.com/derekprior/nflsched/internal/league"
)

// Check verifies a season table against every scheduling rule and returns
// one message per problem. With nil standings the rank-based games are not
// checked for equal rank. With a zero plan the inter-rank hosting is not
// checked.
func Check(lg *league.League, table Table, plan balance.Plan, standings Standings) []string {
	c := &checker{lg: lg, table: table, standings: standings}
	for _, t := range lg.Teams() {
		c.checkTeam(t)
	}
	c.checkConsistency()
	c.checkPartners(IntraConference)
	c.checkPartners(InterConference)
	c.checkPlan(plan)
	return c.problems
}

type checker struct {
	lg        *league.League
	table     Table
	standings Standings
	problems  []string
}

func (c *checker) addf(format string, args ...any) {
	c.problems = append(c.problems, fmt.Sprintf(format, args...))
}

func (c *checker) checkTeam(t *league.Team) {
	if n := len(c.table[t.Code]); n != GamesPerTeam() {
		c.addf("%s plays %d games, want %d", t.Code, n, GamesPerTeam())
	}

	for _, cat := range Categories() {
		entries := c.table.Filter(t.Code, cat)
		if len(entries) != cat.PerTeam() {
			c.addf("%s has %d %s games, want %d", t.Code, len(entries), cat, cat.PerTeam())
			continue
		}
		if home, ok := cat.HomePerTeam(); ok {
			if n := countSide(entries, balance.Home); n != home {
				c.addf("%s has %d home %s games, want %d", t.Code, n, cat, home)
			}
		}
	}

	c.checkDivision(t)
	c.checkCross(t, IntraConference)
	c.checkCross(t, InterConference)
	c.checkIntraRank(t)
	c.checkInterRank(t)
}

// checkDivision wants each division rival once at home and once away.
func (c *checker) checkDivision(t *league.Team) {
	type split struct{ home, away int }
	splits := make(map[*league.Team]*split)
	for _, e := range c.table.Filter(t.Code, Division) {
		if e.Opponent == t || e.Opponent.Key() != t.Key() {
			c.addf("%s has %s as a division opponent", t.Code, e.Opponent.Code)
			continue
		}
		s, ok := splits[e.Opponent]
		if !ok {
			s = &split{}
			splits[e.Opponent] = s
		}
		if e.Side == balance.Home {
			s.home++
		} else {
			s.away++
		}
	}

	div, _ := c.lg.Division(t.Key())
	for _, rival := range div.Teams {
		if rival == t {
			continue
		}
		s := splits[rival]
		if s == nil {
			s = &split{}
		}
		if s.home != 1 || s.away != 1 {
			c.addf("%s plays %s %d home and %d away, want 1 and 1", t.Code, rival.Code, s.home, s.away)
		}
	}
}

// checkCross wants four distinct opponents from one other division.
func (c *checker) checkCross(t *league.Team, cat Category) {
	entries := c.table.Filter(t.Code, cat)
	if len(entries) == 0 {
		return
	}
	partner := entries[0].Opponent.Key()
	seen := make(map[*league.Team]bool)
	for _, e := range entries {
		opp := e.Opponent
		sameConf := opp.Conference == t.Conference
		switch {
		case cat == IntraConference && !sameConf:
			c.addf("%s has %s from another conference as a %s opponent", t.Code, opp.Code, cat)
		case cat == InterConference && sameConf:
			c.addf("%s has %s from its own conference as a %s opponent", t.Code, opp.Code, cat)
		case opp.Key() == t.Key():
			c.addf("%s has division rival %s as a %s opponent", t.Code, opp.Code, cat)
		case opp.Key() != partner:
			c.addf("%s %s opponents span %s and %s", t.Code, cat, partner, opp.Key())
		}
		if seen[opp] {
			c.addf("%s plays %s twice as a %s opponent", t.Code, opp.Code, cat)
		}
		seen[opp] = true
	}
}

// checkIntraRank wants two same-rank opponents from the two conference
// divisions the team does not play in full.
func (c *checker) checkIntraRank(t *league.Team) {
	entries := c.table.Filter(t.Code, IntraRank)
	intra := c.table.Filter(t.Code, IntraConference)

	divs := make(map[league.DivisionKey]bool)
	for _, e := range entries {
		opp := e.Opponent
		switch {
		case opp.Conference != t.Conference:
			c.addf("%s has %s from another conference as an %s opponent", t.Code, opp.Code, IntraRank)
		case opp.Key() == t.Key():
			c.addf("%s has division rival %s as an %s opponent", t.Code, opp.Code, IntraRank)
		case len(intra) > 0 && opp.Key() == intra[0].Opponent.Key():
			c.addf("%s has %s from its intra-conference partner as an %s opponent", t.Code, opp.Code, IntraRank)
		}
		if divs[opp.Key()] {
			c.addf("%s has two %s opponents from %s", t.Code, IntraRank, opp.Key())
		}
		divs[opp.Key()] = true
		c.checkSameRank(t, opp, IntraRank)
	}
}

// checkInterRank wants the same-rank team of the inter-conference partner.
func (c *checker) checkInterRank(t *league.Team) {
	entries := c.table.Filter(t.Code, InterRank)
	inter := c.table.Filter(t.Code, InterConference)
	for _, e := range entries {
		opp := e.Opponent
		if opp.Conference == t.Conference {
			c.addf("%s has %s from its own conference as an %s opponent", t.Code, opp.Code, InterRank)
		}
		if len(inter) > 0 && opp.Key() != inter[0].Opponent.Key() {
			c.addf("%s %s opponent %s is not from its inter-conference partner %s",
				t.Code, InterRank, opp.Code, inter[0].Opponent.Key())
		}
		c.checkSameRank(t, opp, InterRank)
	}
}

func (c *checker) checkSameRank(t, opp *league.Team, cat Category) {
	if c.standings == nil {
		return
	}
	if r1, r2 := c.standings.Rank(t), c.standings.Rank(opp); r1 != r2 {
		c.addf("%s (%s) and %s (%s) are %s opponents with different ranks",
			t.Code, Ordinal(r1), opp.Code, Ordinal(r2), cat)
	}
}

// checkConsistency wants every line mirrored by the opponent's line.
func (c *checker) checkConsistency() {
	type lineKey struct {
		team, opp string
		cat       Category
		side      balance.Side
	}
	counts := make(map[lineKey]int)
	for code, entries := range c.table {
		for _, e := range entries {
			counts[lineKey{code, e.Opponent.Code, e.Category, e.Side}]++
		}
	}

	var problems []string
	for k, n := range counts {
		mirror := lineKey{k.opp, k.team, k.cat, k.side.Opposite()}
		m, ok := counts[mirror]
		if n == m || (ok && k.team > k.opp) {
			continue
		}
		problems = append(problems, fmt.Sprintf("%s lists %s %s %s %d time(s) but %s lists it %d time(s)",
			k.team, k.cat, k.side, k.opp, n, k.opp, m))
	}
	sort.Strings(problems)
	c.problems = append(c.problems, problems...)
}

// checkPartners wants every team of a division to share one partner, and the
// partner's partner to be the division itself.
func (c *checker) checkPartners(cat Category) {
	partners := make(map[league.DivisionKey]league.DivisionKey)
	for _, d := range c.lg.Divisions() {
		var partner league.DivisionKey
		found := false
		for _, t := range d.Teams {
			entries := c.table.Filter(t.Code, cat)
			if len(entries) == 0 {
				continue
			}
			p := entries[0].Opponent.Key()
			if found && p != partner {
				c.addf("%s teams disagree on their %s partner: %s and %s", d.Key(), cat, partner, p)
				return
			}
			partner, found = p, true
		}
		if found {
			partners[d.Key()] = partner
		}
	}

	for d, p := range partners {
		if back, ok := partners[p]; ok && back != d {
			c.addf("%s pairing is not symmetric: %s pairs with %s but %s pairs with %s", cat, d, p, p, back)
		}
	}
}

// checkPlan wants the inter-rank home and away totals to match the hosting plan.
func (c *checker) checkPlan(plan balance.Plan) {
	if plan.UnitOf == nil {
		return
	}
	got := make(map[string]balance.Quota)
	for _, t := range c.lg.Teams() {
		unit := plan.UnitOf(t)
		q := got[unit]
		for _, e := range c.table.Filter(t.Code, InterRank) {
			if e.Side == balance.Home {
				q.Home++
			} else {
				q.Away++
			}
		}
		got[unit] = q
	}

	units := make([]string, 0, len(got))
	for u := range got {
		units = append(units, u)
	}
	sort.Strings(units)
	for _, u := range units {
		want, ok := plan.Quotas[u]
		if !ok {
			c.addf("%s has no %s hosting quota", u, InterRank)
			continue
		}
		if got[u] != want {
			c.addf("%s has %d home and %d away %s games, want %d and %d",
				u, got[u].Home, got[u].Away, InterRank, want.Home, want.Away)
		}
	}
}
