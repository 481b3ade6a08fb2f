package schedule

import (
	"errors"
	"math/rand"
	"sort"
	"strings"
	"testing"

	"github.com/derekprior/nflsched/internal/league"
)

func permutations(keys []league.DivisionKey) [][]league.DivisionKey {
	if len(keys) <= 1 {
		return [][]league.DivisionKey{append([]league.DivisionKey(nil), keys...)}
	}
	var out [][]league.DivisionKey
	for i := range keys {
		rest := make([]league.DivisionKey, 0, len(keys)-1)
		rest = append(rest, keys[:i]...)
		rest = append(rest, keys[i+1:]...)
		for _, p := range permutations(rest) {
			out = append(out, append([]league.DivisionKey{keys[i]}, p...))
		}
	}
	return out
}

// matchingKey names a set of pairings independent of pair and member order.
func matchingKey(ps Pairings) string {
	parts := make([]string, len(ps))
	for i, p := range ps {
		a, b := p.A.String(), p.B.String()
		if b < a {
			a, b = b, a
		}
		parts[i] = a + "/" + b
	}
	sort.Strings(parts)
	return strings.Join(parts, " ")
}

func TestPairConsecutiveIsUniformOverMatchings(t *testing.T) {
	lg := league.Default()
	for _, c := range lg.Conferences() {
		t.Run(c.Name, func(t *testing.T) {
			perms := permutations(divisionKeys(c))
			if len(perms) != 24 {
				t.Fatalf("expected 24 permutations, got %d", len(perms))
			}

			counts := make(map[string]int)
			for _, p := range perms {
				counts[matchingKey(pairConsecutive(p))]++
			}
			if len(counts) != 3 {
				t.Fatalf("expected all 3 perfect matchings, got %d: %v", len(counts), counts)
			}
			for m, n := range counts {
				if n != 8 {
					t.Errorf("matching %s reached by %d permutations, want 8", m, n)
				}
			}
		})
	}
}

// TestSameRankGraphIsOneFourCycle walks every intra matching and checks that
// the same-rank opponents of a conference form a single cycle through all
// four divisions.
func TestSameRankGraphIsOneFourCycle(t *testing.T) {
	lg := league.Default()
	for _, c := range lg.Conferences() {
		seen := make(map[string]bool)
		for _, perm := range permutations(divisionKeys(c)) {
			intra := pairConsecutive(perm)
			key := matchingKey(intra)
			if seen[key] {
				continue
			}
			seen[key] = true

			adj := make(map[league.DivisionKey][]league.DivisionKey)
			edges := make(map[string]bool)
			for _, d := range c.Divisions {
				opps, err := IntraRankOpponents(lg, d.Key(), intra)
				if err != nil {
					t.Fatalf("%s: %v", key, err)
				}
				adj[d.Key()] = opps
				for _, o := range opps {
					edges[matchingKey(Pairings{{A: d.Key(), B: o}})] = true
				}
			}

			if len(edges) != 4 {
				t.Errorf("%s: expected 4 distinct edges, got %d", key, len(edges))
			}
			for d, opps := range adj {
				if len(opps) != 2 {
					t.Errorf("%s: %s has degree %d", key, d, len(opps))
				}
			}

			// Walk the cycle from the first division without backtracking.
			start := c.Divisions[0].Key()
			prev, cur := start, adj[start][0]
			steps := 1
			for cur != start && steps <= 4 {
				next := adj[cur][0]
				if next == prev {
					next = adj[cur][1]
				}
				prev, cur = cur, next
				steps++
			}
			if cur != start || steps != 4 {
				t.Errorf("%s: same-rank graph is not a single 4-cycle (walk of %d steps)", key, steps)
			}
		}
		if len(seen) != 3 {
			t.Errorf("%s: visited %d matchings, want 3", c.Name, len(seen))
		}
	}
}

func TestComputePairingsCoverEveryDivision(t *testing.T) {
	lg := league.Default()
	for seed := int64(0); seed < 100; seed++ {
		rng := rand.New(rand.NewSource(seed))
		intra := ComputeIntraPairings(lg, rng)
		inter := ComputeInterPairings(lg, rng)

		if len(intra) != 4 || len(inter) != 4 {
			t.Fatalf("seed %d: got %d intra and %d inter pairings, want 4 each", seed, len(intra), len(inter))
		}
		for _, p := range intra {
			if p.Inter() {
				t.Errorf("seed %d: intra pairing %s crosses conferences", seed, p)
			}
		}
		for _, p := range inter {
			if !p.Inter() {
				t.Errorf("seed %d: inter pairing %s stays in one conference", seed, p)
			}
			if p.A.Conference != "AFC" {
				t.Errorf("seed %d: inter pairing %s should list the AFC division first", seed, p)
			}
		}

		for _, d := range lg.Divisions() {
			for name, ps := range map[string]Pairings{"intra": intra, "inter": inter} {
				n := 0
				for _, p := range ps {
					if _, ok := p.Other(d.Key()); ok {
						n++
					}
				}
				if n != 1 {
					t.Errorf("seed %d: %s appears in %d %s pairings, want 1", seed, d.Key(), n, name)
				}
				partner, err := ps.Partner(d.Key())
				if err != nil {
					t.Fatalf("seed %d: %v", seed, err)
				}
				back, _ := ps.Partner(partner)
				if back != d.Key() {
					t.Errorf("seed %d: %s pairs with %s but %s pairs with %s", seed, d.Key(), partner, partner, back)
				}
			}
		}
	}
}

func TestIntraRankOpponents(t *testing.T) {
	lg := league.Default()
	north := league.DivisionKey{Conference: "AFC", Division: "North"}
	south := league.DivisionKey{Conference: "AFC", Division: "South"}
	east := league.DivisionKey{Conference: "AFC", Division: "East"}
	west := league.DivisionKey{Conference: "AFC", Division: "West"}
	intra := Pairings{{A: north, B: east}, {A: south, B: west}}

	opps, err := IntraRankOpponents(lg, north, intra)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(opps) != 2 || opps[0] != south || opps[1] != west {
		t.Errorf("expected [AFC South AFC West], got %v", opps)
	}

	t.Run("missing pairing", func(t *testing.T) {
		_, err := IntraRankOpponents(lg, north, Pairings{{A: south, B: west}})
		if !errors.Is(err, ErrLookup) {
			t.Errorf("expected ErrLookup, got %v", err)
		}
	})

	t.Run("unknown conference", func(t *testing.T) {
		_, err := IntraRankOpponents(lg, league.DivisionKey{Conference: "XFL", Division: "North"}, intra)
		if !errors.Is(err, ErrLookup) {
			t.Errorf("expected ErrLookup, got %v", err)
		}
	})
}

func TestInterRankOpponentReusesInterPairing(t *testing.T) {
	afcNorth := league.DivisionKey{Conference: "AFC", Division: "North"}
	nfcWest := league.DivisionKey{Conference: "NFC", Division: "West"}
	inter := Pairings{{A: afcNorth, B: nfcWest}}

	got, err := InterRankOpponent(nfcWest, inter)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != afcNorth {
		t.Errorf("expected AFC North, got %s", got)
	}
	if got := inter.String(); got != "AFC North vs NFC West" {
		t.Errorf("unexpected pairings string %q", got)
	}
}
