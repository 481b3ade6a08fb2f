package balance

import "github.com/derekprior/nflsched/internal/league"

// Parity pairs every team in first with every team in second. The team at
// index i in first hosts the team at index j in second when i+j is even, so
// with four teams a side everyone gets two home and two away games.
func Parity(first, second []*league.Team) []Matchup {
	var games []Matchup
	for i, t1 := range first {
		for j, t2 := range second {
			home, away := t1, t2
			if (i+j)%2 == 1 {
				home, away = t2, t1
			}
			games = append(games, Matchup{Home: home, Away: away})
		}
	}
	return games
}
