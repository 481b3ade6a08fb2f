package schedule

import (
	"sort"

	"github.com/derekprior/nflsched/internal/balance"
	"github.com/derekprior/nflsched/internal/league"
)

// Entry is one line of a team's schedule.
type Entry struct {
	Opponent *league.Team
	Category Category
	Side     balance.Side
}

// Table holds every team's schedule lines, keyed by team code.
type Table map[string][]Entry

// BuildTable splits every game into a home line and an away line. Lines are
// ordered by category, then opponent catalog order, home before away.
func BuildTable(lg *league.League, games []Game) Table {
	table := make(Table)
	for _, g := range games {
		table[g.Home.Code] = append(table[g.Home.Code], Entry{Opponent: g.Away, Category: g.Category, Side: balance.Home})
		table[g.Away.Code] = append(table[g.Away.Code], Entry{Opponent: g.Home, Category: g.Category, Side: balance.Away})
	}
	table.Sort(lg)
	return table
}

// Sort orders every team's lines the way BuildTable does.
func (t Table) Sort(lg *league.League) {
	order := make(map[string]int)
	for i, team := range lg.Teams() {
		order[team.Code] = i
	}
	for _, entries := range t {
		sort.SliceStable(entries, func(i, j int) bool {
			a, b := entries[i], entries[j]
			if a.Category != b.Category {
				return a.Category < b.Category
			}
			if a.Opponent.Code != b.Opponent.Code {
				return order[a.Opponent.Code] < order[b.Opponent.Code]
			}
			return a.Side < b.Side
		})
	}
}

// Filter returns the team's lines in one category.
func (t Table) Filter(code string, cat Category) []Entry {
	var out []Entry
	for _, e := range t[code] {
		if e.Category == cat {
			out = append(out, e)
		}
	}
	return out
}

func countSide(entries []Entry, side balance.Side) int {
	n := 0
	for _, e := range entries {
		if e.Side == side {
			n++
		}
	}
	return n
}
