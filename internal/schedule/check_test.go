package schedule

import (
	"strings"
	"testing"

	"github.com/derekprior/nflsched/internal/balance"
	"github.com/derekprior/nflsched/internal/strategy"
)

func cloneTable(t Table) Table {
	out := make(Table, len(t))
	for code, entries := range t {
		out[code] = append([]Entry(nil), entries...)
	}
	return out
}

func findEntry(t *testing.T, table Table, code string, cat Category) int {
	t.Helper()
	for i, e := range table[code] {
		if e.Category == cat {
			return i
		}
	}
	t.Fatalf("%s has no %s entry", code, cat)
	return -1
}

func hasProblem(problems []string, substr string) bool {
	for _, p := range problems {
		if strings.Contains(p, substr) {
			return true
		}
	}
	return false
}

func TestCheckPassesGeneratedSeason(t *testing.T) {
	s := generate(t, Options{Seed: 9})
	if problems := Check(s.League, s.table, s.Plan(), s.Standings); len(problems) != 0 {
		t.Errorf("expected no problems, got %v", problems)
	}
	if problems := Check(s.League, s.table, balance.Plan{}, nil); len(problems) != 0 {
		t.Errorf("expected no problems without plan or standings, got %v", problems)
	}
}

func TestCheckFindsProblems(t *testing.T) {
	s := generate(t, Options{Seed: 9})

	t.Run("one-sided flip", func(t *testing.T) {
		table := cloneTable(s.table)
		i := findEntry(t, table, "KC", IntraRank)
		table["KC"][i].Side = table["KC"][i].Side.Opposite()

		problems := Check(s.League, table, s.Plan(), s.Standings)
		if !hasProblem(problems, "KC has 0 home Intra-Rank games") && !hasProblem(problems, "KC has 2 home Intra-Rank games") {
			t.Errorf("expected a home count problem for KC, got %v", problems)
		}
		if !hasProblem(problems, "lists it") {
			t.Errorf("expected a consistency problem, got %v", problems)
		}
	})

	t.Run("missing game", func(t *testing.T) {
		table := cloneTable(s.table)
		table["BUF"] = table["BUF"][1:]

		problems := Check(s.League, table, s.Plan(), s.Standings)
		if !hasProblem(problems, "BUF plays 16 games, want 17") {
			t.Errorf("expected a game count problem, got %v", problems)
		}
	})

	t.Run("wrong rank", func(t *testing.T) {
		table := cloneTable(s.table)
		i := findEntry(t, table, "SF", InterRank)
		opp := table["SF"][i].Opponent
		for _, team := range s.Standings[opp.Key()] {
			if team != opp {
				table["SF"][i].Opponent = team
				break
			}
		}

		problems := Check(s.League, table, s.Plan(), s.Standings)
		if !hasProblem(problems, "different ranks") {
			t.Errorf("expected a rank problem, got %v", problems)
		}
	})

	t.Run("wrong host", func(t *testing.T) {
		other := "NFC"
		if s.Host == "NFC" {
			other = "AFC"
		}
		plan := (&strategy.ConferenceHosts{}).Plan(s.League, other)

		problems := Check(s.League, s.table, plan, s.Standings)
		if !hasProblem(problems, "home and 16 away Inter-Rank games, want 16 and 0") {
			t.Errorf("expected a hosting problem, got %v", problems)
		}
	})

	t.Run("division opponent in wrong division", func(t *testing.T) {
		table := cloneTable(s.table)
		i := findEntry(t, table, "DAL", Division)
		stranger, _ := s.League.Team("KC")
		table["DAL"][i].Opponent = stranger

		problems := Check(s.League, table, s.Plan(), s.Standings)
		if !hasProblem(problems, "DAL has KC as a division opponent") {
			t.Errorf("expected a division problem, got %v", problems)
		}
	})
}
