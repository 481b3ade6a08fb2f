package strategy

import (
	"errors"
	"fmt"

	"github.com/derekprior/nflsched/internal/balance"
	"github.com/derekprior/nflsched/internal/league"
)

const (
	ConferenceHostsName  = "conference_hosts"
	DivisionBalancedName = "division_balanced"
)

var ErrUnknownStrategy = errors.New("unknown strategy")

// Strategy decides home and away for the inter-conference rank game.
type Strategy interface {
	Name() string
	// Plan returns the balance plan for the session's inter-rank games.
	// host is the conference that hosts this year.
	Plan(lg *league.League, host string) balance.Plan
}

// Get returns a Strategy by name.
func Get(name string) (Strategy, error) {
	switch name {
	case ConferenceHostsName:
		return &ConferenceHosts{}, nil
	case DivisionBalancedName:
		return &DivisionBalanced{}, nil
	default:
		return nil, fmt.Errorf("%w: %q (want %s or %s)", ErrUnknownStrategy, name, ConferenceHostsName, DivisionBalancedName)
	}
}

// ConferenceHosts puts every team of the host conference at home and every
// team of the other conference on the road.
type ConferenceHosts struct{}

func (s *ConferenceHosts) Name() string { return ConferenceHostsName }

func (s *ConferenceHosts) Plan(lg *league.League, host string) balance.Plan {
	quotas := make(map[string]balance.Quota)
	for _, c := range lg.Conferences() {
		n := 0
		for _, d := range c.Divisions {
			n += len(d.Teams)
		}
		if c.Name == host {
			quotas[c.Name] = balance.Quota{Home: n}
		} else {
			quotas[c.Name] = balance.Quota{Away: n}
		}
	}
	return balance.Plan{UnitOf: balance.ByConference, Quotas: quotas}
}

// DivisionBalanced gives every division exactly half of its inter-rank games
// at home. The host conference plays no part.
type DivisionBalanced struct{}

func (s *DivisionBalanced) Name() string { return DivisionBalancedName }

func (s *DivisionBalanced) Plan(lg *league.League, _ string) balance.Plan {
	quotas := make(map[string]balance.Quota)
	for _, d := range lg.Divisions() {
		half := len(d.Teams) / 2
		quotas[d.Key().String()] = balance.Quota{Home: half, Away: len(d.Teams) - half}
	}
	return balance.Plan{UnitOf: balance.ByDivision, Quotas: quotas}
}
