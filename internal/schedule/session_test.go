package schedule

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/derekprior/nflsched/internal/balance"
	"github.com/derekprior/nflsched/internal/league"
	"github.com/derekprior/nflsched/internal/strategy"
)

func generate(t *testing.T, opts Options) *Session {
	t.Helper()
	if opts.Year == 0 {
		opts.Year = 2023
	}
	s, err := Generate(league.Default(), opts)
	if err != nil {
		t.Fatalf("Generate(%+v): %v", opts, err)
	}
	return s
}

func TestGenerateSatisfiesEveryRule(t *testing.T) {
	for _, name := range []string{strategy.ConferenceHostsName, strategy.DivisionBalancedName} {
		t.Run(name, func(t *testing.T) {
			for seed := int64(0); seed < 200; seed++ {
				s := generate(t, Options{Year: 2021 + int(seed%4), Seed: seed, Strategy: name})
				if problems := Check(s.League, s.table, s.Plan(), s.Standings); len(problems) > 0 {
					t.Fatalf("seed %d: %s", seed, strings.Join(problems, "\n"))
				}
				if len(s.Games()) != 32*17/2 {
					t.Fatalf("seed %d: expected %d games, got %d", seed, 32*17/2, len(s.Games()))
				}
			}
		})
	}
}

func TestGenerateWithFixedCoins(t *testing.T) {
	for _, heads := range []bool{true, false} {
		s := generate(t, Options{Seed: 5, Coin: balance.CoinFunc(func() bool { return heads })})
		if problems := Check(s.League, s.table, s.Plan(), s.Standings); len(problems) > 0 {
			t.Errorf("heads=%v: %s", heads, strings.Join(problems, "\n"))
		}
	}
}

func TestConferenceHostsInterRankHosting(t *testing.T) {
	tests := []struct {
		year int
		host string
	}{
		{2021, "AFC"},
		{2022, "NFC"},
		{2023, "AFC"},
		{2024, "NFC"},
	}
	for _, tt := range tests {
		s := generate(t, Options{Year: tt.year, Seed: int64(tt.year)})
		if s.Host != tt.host {
			t.Errorf("%d: expected %s to host, got %s", tt.year, tt.host, s.Host)
		}
		home := make(map[string]int)
		away := make(map[string]int)
		for _, g := range s.Games() {
			if g.Category != InterRank {
				continue
			}
			home[g.Home.Conference]++
			away[g.Away.Conference]++
		}
		if home[tt.host] != 16 || away[tt.host] != 0 {
			t.Errorf("%d: host %s has %d home and %d away inter-rank games, want 16 and 0",
				tt.year, tt.host, home[tt.host], away[tt.host])
		}
	}
}

func TestDivisionBalancedInterRankHosting(t *testing.T) {
	for seed := int64(0); seed < 50; seed++ {
		s := generate(t, Options{Seed: seed, Strategy: strategy.DivisionBalancedName})
		home := make(map[league.DivisionKey]int)
		for _, g := range s.Games() {
			if g.Category == InterRank {
				home[g.Home.Key()]++
			}
		}
		for _, d := range s.League.Divisions() {
			if home[d.Key()] != 2 {
				t.Errorf("seed %d: %s hosts %d inter-rank games, want 2", seed, d.Key(), home[d.Key()])
			}
		}
	}
}

func TestGenerateIsDeterministicPerSeed(t *testing.T) {
	lg := league.Default()
	a, err := Generate(lg, Options{Year: 2025, Seed: 42})
	if err != nil {
		t.Fatal(err)
	}
	b, err := Generate(lg, Options{Year: 2025, Seed: 42})
	if err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(a.Standings, b.Standings) {
		t.Error("standings differ for the same seed")
	}
	if !reflect.DeepEqual(a.Intra, b.Intra) || !reflect.DeepEqual(a.Inter, b.Inter) {
		t.Error("pairings differ for the same seed")
	}
	if !reflect.DeepEqual(a.Games(), b.Games()) {
		t.Error("games differ for the same seed")
	}
	if a.ID == b.ID {
		t.Error("expected distinct session IDs")
	}
}

func TestGenerateVariesAcrossSeeds(t *testing.T) {
	intra := make(map[string]bool)
	inter := make(map[string]bool)
	rankHomes := make(map[string]bool)
	for seed := int64(0); seed < 30; seed++ {
		s := generate(t, Options{Seed: seed})
		intra[matchingKey(s.Intra)] = true
		inter[matchingKey(s.Inter)] = true

		var homes []string
		for _, g := range s.Games() {
			if g.Category == IntraRank {
				homes = append(homes, g.Home.Code)
			}
		}
		rankHomes[strings.Join(homes, ",")] = true
	}
	if len(intra) < 2 || len(inter) < 2 || len(rankHomes) < 2 {
		t.Errorf("expected variation across seeds: %d intra, %d inter, %d intra-rank home sets",
			len(intra), len(inter), len(rankHomes))
	}
}

func TestGenerateRejectsEarlyYears(t *testing.T) {
	_, err := Generate(league.Default(), Options{Year: 2020})
	if !errors.Is(err, ErrInvalidYear) {
		t.Fatalf("expected ErrInvalidYear, got %v", err)
	}
	if !strings.Contains(err.Error(), "17th game was added in 2021") {
		t.Errorf("unexpected message %q", err)
	}

	if _, err := Generate(league.Default(), Options{Year: 2020, RuleChangeYear: 2019}); err != nil {
		t.Errorf("expected 2020 to be valid with a 2019 rule change, got %v", err)
	}
}

func TestGenerateRejectsUnknownStrategy(t *testing.T) {
	_, err := Generate(league.Default(), Options{Year: 2023, Strategy: "coin_toss"})
	if !errors.Is(err, strategy.ErrUnknownStrategy) {
		t.Errorf("expected ErrUnknownStrategy, got %v", err)
	}
}

func TestScheduleQuery(t *testing.T) {
	s := generate(t, Options{Seed: 11})

	for _, team := range s.League.Teams() {
		ts, err := s.Schedule(strings.ToLower(team.Code))
		if err != nil {
			t.Fatalf("%s: %v", team.Code, err)
		}
		if ts.Team != team {
			t.Fatalf("looked up %s, got %s", team.Code, ts.Team.Code)
		}
		if len(ts.Entries) != 17 {
			t.Errorf("%s: expected 17 entries, got %d", team.Code, len(ts.Entries))
		}
		for _, cat := range Categories() {
			if n := len(ts.ByCategory(cat)); n != cat.PerTeam() {
				t.Errorf("%s: expected %d %s entries, got %d", team.Code, cat.PerTeam(), cat, n)
			}
		}
		if home, away := ts.Totals(); home+away != 17 || home < 8 || home > 9 {
			t.Errorf("%s: unexpected totals %d home %d away", team.Code, home, away)
		}
		if ts.Rank < 1 || ts.Rank > 4 {
			t.Errorf("%s: rank %d out of range", team.Code, ts.Rank)
		}
		if ts.InterRankDivision != ts.InterDivision {
			t.Errorf("%s: inter-rank division %s differs from inter partner %s",
				team.Code, ts.InterRankDivision, ts.InterDivision)
		}
		for _, d := range ts.IntraRankDivisions {
			if d == team.Key() || d == ts.IntraDivision {
				t.Errorf("%s: intra-rank division %s overlaps own or partner division", team.Code, d)
			}
		}
		for _, e := range ts.ByCategory(IntraConference) {
			if e.Opponent.Key() != ts.IntraDivision {
				t.Errorf("%s: intra opponent %s not in %s", team.Code, e.Opponent.Code, ts.IntraDivision)
			}
		}
		for _, cat := range []Category{IntraRank, InterRank} {
			for _, e := range ts.ByCategory(cat) {
				if s.Standings.Rank(e.Opponent) != ts.Rank {
					t.Errorf("%s: %s opponent %s has a different rank", team.Code, cat, e.Opponent.Code)
				}
			}
		}
	}
}

func TestScheduleEntriesAreCopies(t *testing.T) {
	s := generate(t, Options{Seed: 2})
	ts, err := s.Schedule("KC")
	if err != nil {
		t.Fatal(err)
	}
	ts.Entries[0].Side = ts.Entries[0].Side.Opposite()

	again, _ := s.Schedule("KC")
	if again.Entries[0].Side == ts.Entries[0].Side {
		t.Error("mutating a returned schedule changed the session")
	}
}

func TestScheduleUnknownTeam(t *testing.T) {
	s := generate(t, Options{Seed: 1})
	_, err := s.Schedule("XXX")
	if !errors.Is(err, ErrTeamNotFound) {
		t.Errorf("expected ErrTeamNotFound, got %v", err)
	}
}

func TestHostConference(t *testing.T) {
	lg := league.Default()
	if got := HostConference(lg, 2021); got != "AFC" {
		t.Errorf("2021: expected AFC, got %s", got)
	}
	if got := HostConference(lg, 2022); got != "NFC" {
		t.Errorf("2022: expected NFC, got %s", got)
	}
}

func TestCategories(t *testing.T) {
	if got := GamesPerTeam(); got != 17 {
		t.Errorf("expected 17 games per team, got %d", got)
	}
	for _, c := range Categories() {
		parsed, ok := ParseCategory(c.String())
		if !ok || parsed != c {
			t.Errorf("ParseCategory(%q) = %v, %v", c.String(), parsed, ok)
		}
	}
	if _, ok := ParseCategory("Preseason"); ok {
		t.Error("expected Preseason to be unknown")
	}
	if _, ok := InterRank.HomePerTeam(); ok {
		t.Error("inter-rank home count is decided by strategy")
	}
	if n, _ := Division.HomePerTeam(); n != 3 {
		t.Errorf("expected 3 division home games, got %d", n)
	}
}
