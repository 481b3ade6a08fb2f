package validator

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/derekprior/nflsched/internal/balance"
	"github.com/derekprior/nflsched/internal/config"
	"github.com/derekprior/nflsched/internal/excel"
	"github.com/derekprior/nflsched/internal/league"
	"github.com/derekprior/nflsched/internal/schedule"
	"github.com/derekprior/nflsched/internal/strategy"
)

// Violation represents a problem found during validation.
type Violation struct {
	Sheet   string
	Row     int
	Type    string // "error" or "warning"
	Message string
}

// Validate reads an exported schedule and checks it against every
// scheduling rule for the configured league.
func Validate(cfg *config.Config, path string) ([]Violation, error) {
	lg, err := cfg.BuildLeague()
	if err != nil {
		return nil, err
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	wb, err := excel.Read(f, lg)
	if err != nil {
		return nil, fmt.Errorf("reading workbook: %w", err)
	}

	var violations []Violation
	for _, p := range wb.Problems {
		violations = append(violations, Violation{Sheet: p.Sheet, Row: p.Row, Type: "error", Message: p.Message})
	}

	violations = append(violations, checkSummary(cfg, lg, wb)...)

	table := schedule.BuildTable(lg, wb.Games())
	plan := hostingPlan(lg, wb)
	for _, msg := range schedule.Check(lg, table, plan, wb.Standings) {
		violations = append(violations, Violation{Type: "error", Message: msg})
	}

	violations = append(violations, checkTeamSheets(lg, table, wb)...)
	return violations, nil
}

// checkSummary verifies the season metadata the rule checks depend on.
func checkSummary(cfg *config.Config, lg *league.League, wb *excel.Workbook) []Violation {
	var violations []Violation
	add := func(format string, args ...any) {
		violations = append(violations, Violation{Sheet: excel.SummarySheet, Type: "error", Message: fmt.Sprintf(format, args...)})
	}

	if err := schedule.ValidateYear(wb.Year, cfg.Season.RuleChangeYear); err != nil {
		add("%v", err)
	}
	if _, err := strategy.Get(wb.Strategy); err != nil {
		add("%v", err)
	}
	if _, ok := lg.Conference(wb.Host); !ok {
		add("unknown host conference %q", wb.Host)
	} else if wb.Strategy == strategy.ConferenceHostsName {
		if want := schedule.HostConference(lg, wb.Year); wb.Host != want {
			add("%s hosts in %d, not %s", want, wb.Year, wb.Host)
		}
	}
	return violations
}

// hostingPlan returns the zero plan, which skips the hosting check, when the
// summary names no known strategy.
func hostingPlan(lg *league.League, wb *excel.Workbook) balance.Plan {
	strat, err := strategy.Get(wb.Strategy)
	if err != nil {
		return balance.Plan{}
	}
	return strat.Plan(lg, wb.Host)
}

// checkTeamSheets warns when a team sheet no longer matches the Matchups
// sheet, e.g. after a hand edit.
func checkTeamSheets(lg *league.League, table schedule.Table, wb *excel.Workbook) []Violation {
	var violations []Violation
	for _, t := range lg.Teams() {
		want := table[t.Code]
		got, ok := wb.TeamLines[t.Code]
		if !ok {
			violations = append(violations, Violation{Sheet: t.Code, Type: "warning", Message: fmt.Sprintf("team sheet %s is missing", t.Code)})
			continue
		}
		if !linesMatch(got, want) {
			violations = append(violations, Violation{
				Sheet:   t.Code,
				Type:    "warning",
				Message: fmt.Sprintf("team sheet %s does not match %s", t.Code, excel.MatchupsSheet),
			})
		}
	}
	return violations
}

func linesMatch(got []excel.TeamLine, want []schedule.Entry) bool {
	if len(got) != len(want) {
		return false
	}
	for i, e := range want {
		side := "Away"
		if e.Side == balance.Home {
			side = "Home"
		}
		if got[i].Category != e.Category.String() || got[i].Code != e.Opponent.Code || got[i].Side != side {
			return false
		}
	}
	return true
}
