package schedule

import (
	"math/rand"
	"strconv"

	"github.com/derekprior/nflsched/internal/league"
)

// Standings maps each division to its teams in finishing order, rank 1 first.
type Standings map[league.DivisionKey][]*league.Team

// ComputeStandings shuffles every division independently.
func ComputeStandings(lg *league.League, rng *rand.Rand) Standings {
	s := make(Standings)
	for _, d := range lg.Divisions() {
		teams := make([]*league.Team, len(d.Teams))
		copy(teams, d.Teams)
		rng.Shuffle(len(teams), func(i, j int) {
			teams[i], teams[j] = teams[j], teams[i]
		})
		s[d.Key()] = teams
	}
	return s
}

// Rank returns the team's 1-based finishing position, or 0 if it is not listed.
func (s Standings) Rank(t *league.Team) int {
	for i, team := range s[t.Key()] {
		if team == t {
			return i + 1
		}
	}
	return 0
}

// AtRank returns the team that finished at rank in the division.
func (s Standings) AtRank(key league.DivisionKey, rank int) (*league.Team, bool) {
	teams := s[key]
	if rank < 1 || rank > len(teams) {
		return nil, false
	}
	return teams[rank-1], true
}

// Ordinal formats a rank as 1st, 2nd, 3rd, 4th...
func Ordinal(rank int) string {
	suffix := "th"
	switch rank % 100 {
	case 11, 12, 13:
	default:
		switch rank % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return strconv.Itoa(rank) + suffix
}
