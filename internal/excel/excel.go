package excel

import (
	"fmt"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/derekprior/nflsched/internal/balance"
	"github.com/derekprior/nflsched/internal/league"
	"github.com/derekprior/nflsched/internal/schedule"
)

const (
	SummarySheet   = "Summary"
	StandingsSheet = "Standings"
	MatchupsSheet  = "Matchups"
)

// Summary row labels.
const (
	labelSession  = "Session"
	labelYear     = "Year"
	labelSeed     = "Seed"
	labelHost     = "Host Conference"
	labelStrategy = "Strategy"
	labelCreated  = "Generated"
)

var (
	summaryHeaders   = []string{"Field", "Value"}
	standingsHeaders = []string{"Conference", "Division", "Rank", "Team", "Name"}
	matchupHeaders   = []string{"#", "Category", "Game"}
	teamHeaders      = []string{"Category", "Opponent", "Code", "Home/Away"}
)

// Generate creates a workbook with the season summary, the standings, every
// game of the season and one sheet per team.
func Generate(s *schedule.Session) (*excelize.File, error) {
	f := excelize.NewFile()

	// Set default font for the workbook
	f.SetDefaultFont("Arial")
	st := newStyles(f)

	if err := writeSummary(f, s, st); err != nil {
		return nil, fmt.Errorf("writing summary sheet: %w", err)
	}
	if err := writeStandings(f, s.League, s.Standings, st); err != nil {
		return nil, fmt.Errorf("writing standings sheet: %w", err)
	}
	games := s.Games()
	if err := writeMatchups(f, games, st); err != nil {
		return nil, fmt.Errorf("writing matchups sheet: %w", err)
	}
	if err := writeTeamSheets(f, s.League, schedule.BuildTable(s.League, games), st); err != nil {
		return nil, fmt.Errorf("writing team sheets: %w", err)
	}

	f.DeleteSheet("Sheet1")
	return f, nil
}

// UpdateTeamSheets rewrites every team sheet from the Matchups sheet, so hand
// edits to Matchups carry through to the team views.
func UpdateTeamSheets(path string, lg *league.League) error {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	wb, err := Read(f, lg)
	if err != nil {
		return err
	}
	for _, t := range lg.Teams() {
		if idx, _ := f.GetSheetIndex(t.Code); idx >= 0 {
			f.DeleteSheet(t.Code)
		}
	}
	table := schedule.BuildTable(lg, wb.Games())
	if err := writeTeamSheets(f, lg, table, newStyles(f)); err != nil {
		return fmt.Errorf("writing team sheets: %w", err)
	}
	return f.Save()
}

type styles struct {
	header int
	cell   int
	center int
}

func newStyles(f *excelize.File) styles {
	header, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 14, Family: "Arial"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#4472C4"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	cell, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Size: 14, Family: "Arial"},
	})
	center, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Size: 14, Family: "Arial"},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	return styles{header: header, cell: cell, center: center}
}

func writeHeader(f *excelize.File, sheet string, headers []string, st styles) {
	for i, h := range headers {
		f.SetCellValue(sheet, cellRef(i+1, 1), h)
	}
	if st.header != 0 {
		f.SetCellStyle(sheet, cellRef(1, 1), cellRef(len(headers), 1), st.header)
	}
}

func writeRow(f *excelize.File, sheet string, row int, values []any, style int) {
	for i, v := range values {
		f.SetCellValue(sheet, cellRef(i+1, row), v)
	}
	if style != 0 {
		f.SetCellStyle(sheet, cellRef(1, row), cellRef(len(values), row), style)
	}
}

func writeSummary(f *excelize.File, s *schedule.Session, st styles) error {
	sheet := SummarySheet
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	writeHeader(f, sheet, summaryHeaders, st)

	rows := [][]any{
		{labelSession, s.ID.String()},
		{labelYear, s.Year},
		{labelSeed, strconv.FormatInt(s.Seed, 10)},
		{labelHost, s.Host},
		{labelStrategy, s.Strategy},
		{labelCreated, s.CreatedAt.UTC().Format(time.RFC3339)},
	}
	for i, r := range rows {
		writeRow(f, sheet, i+2, r, st.cell)
	}
	f.SetColWidth(sheet, "A", "A", 22)
	f.SetColWidth(sheet, "B", "B", 44)
	return nil
}

func writeStandings(f *excelize.File, lg *league.League, standings schedule.Standings, st styles) error {
	sheet := StandingsSheet
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	writeHeader(f, sheet, standingsHeaders, st)

	row := 2
	for _, d := range lg.Divisions() {
		for i, t := range standings[d.Key()] {
			writeRow(f, sheet, row, []any{d.Conference, d.Name, i + 1, t.Code, t.Name}, st.cell)
			row++
		}
	}

	widths := map[string]float64{"A": 14, "B": 12, "C": 8, "D": 8, "E": 28}
	for col, w := range widths {
		f.SetColWidth(sheet, col, col, w)
	}
	return nil
}

func writeMatchups(f *excelize.File, games []schedule.Game, st styles) error {
	sheet := MatchupsSheet
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	writeHeader(f, sheet, matchupHeaders, st)

	for i, g := range games {
		writeRow(f, sheet, i+2, []any{i + 1, g.Category.String(), gameCell(g.Matchup)}, st.center)
	}

	f.SetColWidth(sheet, "A", "A", 8)
	f.SetColWidth(sheet, "B", "B", 22)
	f.SetColWidth(sheet, "C", "C", 16)
	return nil
}

func writeTeamSheets(f *excelize.File, lg *league.League, table schedule.Table, st styles) error {
	for _, t := range lg.Teams() {
		sheet := t.Code
		if _, err := f.NewSheet(sheet); err != nil {
			return err
		}
		writeHeader(f, sheet, teamHeaders, st)

		for i, e := range table[t.Code] {
			writeRow(f, sheet, i+2, []any{e.Category.String(), e.Opponent.Name, e.Opponent.Code, sideLabel(e.Side)}, st.cell)
		}

		widths := map[string]float64{"A": 22, "B": 28, "C": 8, "D": 14}
		for col, w := range widths {
			f.SetColWidth(sheet, col, col, w)
		}
	}
	return nil
}

func gameCell(m balance.Matchup) string {
	return fmt.Sprintf("%s @ %s", m.Away.Code, m.Home.Code)
}

func sideLabel(s balance.Side) string {
	if s == balance.Home {
		return "Home"
	}
	return "Away"
}

func cellRef(col, row int) string {
	return fmt.Sprintf("%s%d", colLetter(col), row)
}

func colLetter(col int) string {
	result := ""
	for col > 0 {
		col--
		result = string(rune('A'+col%26)) + result
		col /= 26
	}
	return result
}
