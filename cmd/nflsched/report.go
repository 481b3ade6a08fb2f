package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/derekprior/nflsched/internal/balance"
	"github.com/derekprior/nflsched/internal/league"
	"github.com/derekprior/nflsched/internal/schedule"
)

const divisionColumn = 20

func center(s string, width int) string {
	pad := width - len(s)
	if pad <= 0 {
		return s
	}
	left := pad / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", pad-left)
}

// printStandings lays each conference's divisions out side by side.
func printStandings(w io.Writer, lg *league.League, st schedule.Standings) {
	for _, c := range lg.Conferences() {
		columns := make([][]string, len(c.Divisions))
		for i, d := range c.Divisions {
			col := []string{center(d.Name, divisionColumn), strings.Repeat("-", divisionColumn)}
			for rank, t := range st[d.Key()] {
				col = append(col, fmt.Sprintf("%d. %s", rank+1, center(t.Code, divisionColumn-3)))
			}
			columns[i] = col
		}

		width := len(columns)*(divisionColumn+3) - 3
		fmt.Fprintf(w, "\n%s\n", c.Name)
		fmt.Fprintln(w, strings.Repeat("=", width))
		for row := range columns[0] {
			cells := make([]string, len(columns))
			for i, col := range columns {
				cells[i] = col[row]
			}
			fmt.Fprintln(w, strings.TrimRight(strings.Join(cells, " | "), " "))
		}
		fmt.Fprintln(w, strings.Repeat("=", width))
	}
}

func printPairings(w io.Writer, title string, ps schedule.Pairings) {
	fmt.Fprintf(w, "\n%s Pairings:\n", title)
	fmt.Fprintln(w, strings.Repeat("=", 30))
	for _, p := range ps {
		fmt.Fprintln(w, p)
	}
}

// printRankPairings lists, per division, where its same-rank opponents come from.
func printRankPairings(w io.Writer, sess *schedule.Session) error {
	fmt.Fprintln(w, "\nRank-Based Pairings:")
	fmt.Fprintln(w, strings.Repeat("=", 30))
	for _, d := range sess.League.Divisions() {
		intra, err := schedule.IntraRankOpponents(sess.League, d.Key(), sess.Intra)
		if err != nil {
			return err
		}
		inter, err := schedule.InterRankOpponent(d.Key(), sess.Inter)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s: %s and %s; %s\n", d.Key(), intra[0], intra[1], inter)
	}
	return nil
}

// printTeamSchedule writes one team's season grouped by category, naming
// the division each group is drawn from.
func printTeamSchedule(w io.Writer, ts *schedule.TeamSchedule) {
	t := ts.Team
	rank := schedule.Ordinal(ts.Rank)
	fmt.Fprintf(w, "\nSchedule for %s (%s, %s, ranked %s):\n", t.Name, t.Code, t.Key(), rank)

	fmt.Fprintf(w, "\nDivision Matchups (%s):\n", t.Key())
	type split struct{ home, away int }
	var order []*league.Team
	splits := make(map[*league.Team]*split)
	for _, e := range ts.ByCategory(schedule.Division) {
		s, ok := splits[e.Opponent]
		if !ok {
			s = &split{}
			splits[e.Opponent] = s
			order = append(order, e.Opponent)
		}
		if e.Side == balance.Home {
			s.home++
		} else {
			s.away++
		}
	}
	for _, opp := range order {
		fmt.Fprintf(w, "%s (%d HOME, %d AWAY)\n", opp.Name, splits[opp].home, splits[opp].away)
	}

	printGroup(w, fmt.Sprintf("Intra-Conference Matchups (%s)", ts.IntraDivision), ts.ByCategory(schedule.IntraConference))
	printGroup(w, fmt.Sprintf("Inter-Conference Matchups (%s)", ts.InterDivision), ts.ByCategory(schedule.InterConference))

	var rankDivs []string
	for _, d := range ts.IntraRankDivisions {
		rankDivs = append(rankDivs, rank+" "+d.String())
	}
	printGroup(w, fmt.Sprintf("Intra-Rank Matchups (%s)", strings.Join(rankDivs, " and ")), ts.ByCategory(schedule.IntraRank))
	printGroup(w, fmt.Sprintf("Inter-Rank Matchup (%s %s)", rank, ts.InterRankDivision), ts.ByCategory(schedule.InterRank))

	home, away := ts.Totals()
	fmt.Fprintf(w, "\nTotal Games: %d (%d HOME, %d AWAY)\n", home+away, home, away)
	fmt.Fprintln(w, strings.Repeat("=", 30))
}

func printGroup(w io.Writer, heading string, entries []schedule.Entry) {
	fmt.Fprintf(w, "\n%s:\n", heading)
	for _, e := range entries {
		fmt.Fprintf(w, "%s (%s)\n", e.Opponent.Name, e.Side)
	}
}
