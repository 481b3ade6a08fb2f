package excel

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/derekprior/nflsched/internal/balance"
	"github.com/derekprior/nflsched/internal/league"
	"github.com/derekprior/nflsched/internal/schedule"
)

// Problem is a cell that could not be understood while reading a workbook.
type Problem struct {
	Sheet   string
	Row     int
	Message string
}

func (p Problem) String() string {
	return fmt.Sprintf("%s row %d: %s", p.Sheet, p.Row, p.Message)
}

// SheetGame is a game read from the Matchups sheet.
type SheetGame struct {
	Row int
	schedule.Game
}

// TeamLine is one row of a team sheet.
type TeamLine struct {
	Category string
	Code     string
	Side     string
}

// Workbook is the content of an exported schedule.
type Workbook struct {
	Year     int
	Seed     int64
	Host     string
	Strategy string

	// Standings is nil when the Standings sheet is incomplete.
	Standings schedule.Standings
	Matchups  []SheetGame
	// TeamLines holds each team sheet's rows, keyed by team code.
	TeamLines map[string][]TeamLine

	Problems []Problem
}

// Games returns the parsed games without their row numbers.
func (w *Workbook) Games() []schedule.Game {
	games := make([]schedule.Game, len(w.Matchups))
	for i, g := range w.Matchups {
		games[i] = g.Game
	}
	return games
}

func (w *Workbook) problemf(sheet string, row int, format string, args ...any) {
	w.Problems = append(w.Problems, Problem{Sheet: sheet, Row: row, Message: fmt.Sprintf(format, args...)})
}

// Read parses every sheet Generate writes. Unreadable cells are collected as
// problems; only a missing sheet is an error.
func Read(f *excelize.File, lg *league.League) (*Workbook, error) {
	w := &Workbook{TeamLines: make(map[string][]TeamLine)}

	summary, err := f.GetRows(SummarySheet)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", SummarySheet, err)
	}
	w.readSummary(summary)

	standings, err := f.GetRows(StandingsSheet)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", StandingsSheet, err)
	}
	w.readStandings(standings, lg)

	matchups, err := f.GetRows(MatchupsSheet)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", MatchupsSheet, err)
	}
	if len(matchups) == 0 {
		return nil, fmt.Errorf("%s is empty", MatchupsSheet)
	}
	w.readMatchups(matchups, lg)

	for _, t := range lg.Teams() {
		if idx, _ := f.GetSheetIndex(t.Code); idx < 0 {
			continue
		}
		rows, err := f.GetRows(t.Code)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", t.Code, err)
		}
		for i, row := range rows {
			if i == 0 || len(row) < len(teamHeaders) {
				continue
			}
			w.TeamLines[t.Code] = append(w.TeamLines[t.Code], TeamLine{Category: row[0], Code: row[2], Side: row[3]})
		}
	}
	return w, nil
}

func (w *Workbook) readSummary(rows [][]string) {
	for i, row := range rows {
		if i == 0 || len(row) < 2 {
			continue
		}
		value := strings.TrimSpace(row[1])
		switch row[0] {
		case labelYear:
			year, err := strconv.Atoi(value)
			if err != nil {
				w.problemf(SummarySheet, i+1, "invalid year %q", value)
			}
			w.Year = year
		case labelSeed:
			seed, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				w.problemf(SummarySheet, i+1, "invalid seed %q", value)
			}
			w.Seed = seed
		case labelHost:
			w.Host = value
		case labelStrategy:
			w.Strategy = value
		}
	}
}

func (w *Workbook) readStandings(rows [][]string, lg *league.League) {
	standings := make(schedule.Standings)
	for _, d := range lg.Divisions() {
		standings[d.Key()] = make([]*league.Team, len(d.Teams))
	}

	complete := true
	for i, row := range rows {
		if i == 0 || len(row) == 0 {
			continue
		}
		if len(row) < 4 {
			w.problemf(StandingsSheet, i+1, "expected conference, division, rank and team")
			complete = false
			continue
		}
		t, ok := lg.Team(row[3])
		if !ok {
			w.problemf(StandingsSheet, i+1, "unknown team %q", row[3])
			complete = false
			continue
		}
		key := league.DivisionKey{Conference: row[0], Division: row[1]}
		if key != t.Key() {
			w.problemf(StandingsSheet, i+1, "%s is listed in %s but plays in %s", t.Code, key, t.Key())
			complete = false
			continue
		}
		rank, err := strconv.Atoi(row[2])
		if err != nil || rank < 1 || rank > len(standings[key]) {
			w.problemf(StandingsSheet, i+1, "invalid rank %q", row[2])
			complete = false
			continue
		}
		if standings[key][rank-1] != nil {
			w.problemf(StandingsSheet, i+1, "%s has two teams ranked %s", key, schedule.Ordinal(rank))
			complete = false
			continue
		}
		standings[key][rank-1] = t
	}

	for key, teams := range standings {
		for rank, t := range teams {
			if t == nil {
				w.problemf(StandingsSheet, 0, "%s has no team ranked %s", key, schedule.Ordinal(rank+1))
				complete = false
			}
		}
	}
	if complete {
		w.Standings = standings
	}
}

func (w *Workbook) readMatchups(rows [][]string, lg *league.League) {
	for i, row := range rows {
		if i == 0 || len(row) == 0 {
			continue
		}
		if len(row) < 3 {
			w.problemf(MatchupsSheet, i+1, "expected number, category and game")
			continue
		}
		cat, ok := schedule.ParseCategory(row[1])
		if !ok {
			w.problemf(MatchupsSheet, i+1, "unknown category %q", row[1])
			continue
		}
		awayCode, homeCode, ok := parseGameCell(row[2])
		if !ok {
			w.problemf(MatchupsSheet, i+1, "game %q is not in \"Away @ Home\" form", row[2])
			continue
		}
		away, ok := lg.Team(awayCode)
		if !ok {
			w.problemf(MatchupsSheet, i+1, "unknown team %q", awayCode)
			continue
		}
		home, ok := lg.Team(homeCode)
		if !ok {
			w.problemf(MatchupsSheet, i+1, "unknown team %q", homeCode)
			continue
		}
		if home == away {
			w.problemf(MatchupsSheet, i+1, "%s cannot play itself", home.Code)
			continue
		}
		w.Matchups = append(w.Matchups, SheetGame{
			Row:  i + 1,
			Game: schedule.Game{Matchup: balance.Matchup{Home: home, Away: away}, Category: cat},
		})
	}
}

// parseGameCell parses "Away @ Home" and returns (away, home, true).
// Returns ("", "", false) if the cell doesn't match the game format.
func parseGameCell(cell string) (away, home string, ok bool) {
	away, home, ok = strings.Cut(cell, " @ ")
	if !ok || away == "" || home == "" {
		return "", "", false
	}
	return strings.TrimSpace(away), strings.TrimSpace(home), true
}
