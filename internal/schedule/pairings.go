package schedule

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"github.com/derekprior/nflsched/internal/league"
)

// ErrLookup means a division or pairing that must exist is missing.
var ErrLookup = errors.New("lookup failed")

// Pairing is an unordered edge between two divisions.
type Pairing struct {
	A league.DivisionKey
	B league.DivisionKey
}

// Inter reports whether the divisions are in different conferences.
func (p Pairing) Inter() bool {
	return p.A.Conference != p.B.Conference
}

// Other returns the division paired with k.
func (p Pairing) Other(k league.DivisionKey) (league.DivisionKey, bool) {
	switch k {
	case p.A:
		return p.B, true
	case p.B:
		return p.A, true
	}
	return league.DivisionKey{}, false
}

func (p Pairing) String() string {
	return fmt.Sprintf("%s vs %s", p.A, p.B)
}

// Pairings is a session's pairing table for one kind of play.
type Pairings []Pairing

// Partner returns the division paired with k.
func (ps Pairings) Partner(k league.DivisionKey) (league.DivisionKey, error) {
	for _, p := range ps {
		if other, ok := p.Other(k); ok {
			return other, nil
		}
	}
	return league.DivisionKey{}, fmt.Errorf("%w: %s has no pairing", ErrLookup, k)
}

// String lists the pairings as "A vs B, C vs D".
func (ps Pairings) String() string {
	parts := make([]string, len(ps))
	for i, p := range ps {
		parts[i] = p.String()
	}
	return strings.Join(parts, ", ")
}

// ComputeIntraPairings shuffles each conference's divisions and pairs
// positions (0,1) and (2,3).
func ComputeIntraPairings(lg *league.League, rng *rand.Rand) Pairings {
	var ps Pairings
	for _, c := range lg.Conferences() {
		keys := divisionKeys(c)
		rng.Shuffle(len(keys), func(i, j int) {
			keys[i], keys[j] = keys[j], keys[i]
		})
		ps = append(ps, pairConsecutive(keys)...)
	}
	return ps
}

// ComputeInterPairings shuffles both conferences' divisions and zips them.
func ComputeInterPairings(lg *league.League, rng *rand.Rand) Pairings {
	confs := lg.Conferences()
	first, second := divisionKeys(confs[0]), divisionKeys(confs[1])
	rng.Shuffle(len(first), func(i, j int) {
		first[i], first[j] = first[j], first[i]
	})
	rng.Shuffle(len(second), func(i, j int) {
		second[i], second[j] = second[j], second[i]
	})

	ps := make(Pairings, len(first))
	for i := range first {
		ps[i] = Pairing{A: first[i], B: second[i]}
	}
	return ps
}

func pairConsecutive(keys []league.DivisionKey) Pairings {
	var ps Pairings
	for i := 0; i+1 < len(keys); i += 2 {
		ps = append(ps, Pairing{A: keys[i], B: keys[i+1]})
	}
	return ps
}

func divisionKeys(c *league.Conference) []league.DivisionKey {
	keys := make([]league.DivisionKey, len(c.Divisions))
	for i, d := range c.Divisions {
		keys[i] = d.Key()
	}
	return keys
}

// IntraRankOpponents returns the two divisions in key's conference that are
// neither key itself nor its intra-conference partner.
func IntraRankOpponents(lg *league.League, key league.DivisionKey, intra Pairings) ([]league.DivisionKey, error) {
	conf, ok := lg.Conference(key.Conference)
	if !ok {
		return nil, fmt.Errorf("%w: conference %q", ErrLookup, key.Conference)
	}
	partner, err := intra.Partner(key)
	if err != nil {
		return nil, err
	}

	var opps []league.DivisionKey
	for _, d := range conf.Divisions {
		if k := d.Key(); k != key && k != partner {
			opps = append(opps, k)
		}
	}
	if len(opps) != 2 {
		return nil, fmt.Errorf("%w: %s has %d rank opponents, want 2", ErrLookup, key, len(opps))
	}
	return opps, nil
}

// InterRankOpponent returns the division whose same-rank team key's teams
// play across conferences. It is the inter-conference partner.
func InterRankOpponent(key league.DivisionKey, inter Pairings) (league.DivisionKey, error) {
	return inter.Partner(key)
}
