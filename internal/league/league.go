package league

import (
	"errors"
	"fmt"
	"strings"
)

// Shape of a league this scheduler supports.
const (
	ConferenceCount        = 2
	DivisionsPerConference = 4
	TeamsPerDivision       = 4
)

// ErrInvalidLeague is returned when a catalog does not have the supported shape.
var ErrInvalidLeague = errors.New("invalid league")

// Team is an immutable entry in the reference catalog.
type Team struct {
	Code       string
	Name       string
	Conference string
	Division   string
}

// Key returns the key of the division that owns the team.
func (t *Team) Key() DivisionKey {
	return DivisionKey{Conference: t.Conference, Division: t.Division}
}

// DivisionKey identifies a division across the league, e.g. "AFC North".
type DivisionKey struct {
	Conference string
	Division   string
}

func (k DivisionKey) String() string {
	return k.Conference + " " + k.Division
}

// Division holds its teams in roster order.
type Division struct {
	Conference string
	Name       string
	Teams      []*Team
}

func (d *Division) Key() DivisionKey {
	return DivisionKey{Conference: d.Conference, Division: d.Name}
}

type Conference struct {
	Name      string
	Divisions []*Division
}

// League is the read-only reference catalog. Build it with New or Default.
type League struct {
	conferences []*Conference
	byCode      map[string]*Team
	byKey       map[DivisionKey]*Division
}

// TeamSpec, DivisionSpec and ConferenceSpec describe a catalog before validation.
type TeamSpec struct {
	Code string
	Name string
}

type DivisionSpec struct {
	Name  string
	Teams []TeamSpec
}

type ConferenceSpec struct {
	Name      string
	Divisions []DivisionSpec
}

// New validates the specs and builds a League. Team codes are stored upper-case.
func New(specs []ConferenceSpec) (*League, error) {
	if len(specs) != ConferenceCount {
		return nil, fmt.Errorf("%w: %d conferences, want %d", ErrInvalidLeague, len(specs), ConferenceCount)
	}

	l := &League{
		byCode: make(map[string]*Team),
		byKey:  make(map[DivisionKey]*Division),
	}
	confNames := make(map[string]bool)
	for _, cs := range specs {
		if cs.Name == "" {
			return nil, fmt.Errorf("%w: conference name is required", ErrInvalidLeague)
		}
		if confNames[cs.Name] {
			return nil, fmt.Errorf("%w: duplicate conference %q", ErrInvalidLeague, cs.Name)
		}
		confNames[cs.Name] = true

		if len(cs.Divisions) != DivisionsPerConference {
			return nil, fmt.Errorf("%w: conference %q has %d divisions, want %d",
				ErrInvalidLeague, cs.Name, len(cs.Divisions), DivisionsPerConference)
		}

		conf := &Conference{Name: cs.Name}
		for _, ds := range cs.Divisions {
			key := DivisionKey{Conference: cs.Name, Division: ds.Name}
			if ds.Name == "" {
				return nil, fmt.Errorf("%w: conference %q has a division without a name", ErrInvalidLeague, cs.Name)
			}
			if _, ok := l.byKey[key]; ok {
				return nil, fmt.Errorf("%w: duplicate division %q", ErrInvalidLeague, key)
			}
			if len(ds.Teams) != TeamsPerDivision {
				return nil, fmt.Errorf("%w: division %q has %d teams, want %d",
					ErrInvalidLeague, key, len(ds.Teams), TeamsPerDivision)
			}

			div := &Division{Conference: cs.Name, Name: ds.Name}
			for _, ts := range ds.Teams {
				code := strings.ToUpper(strings.TrimSpace(ts.Code))
				if code == "" {
					return nil, fmt.Errorf("%w: division %q has a team without a code", ErrInvalidLeague, key)
				}
				if prev, ok := l.byCode[code]; ok {
					return nil, fmt.Errorf("%w: team %q appears in both %q and %q",
						ErrInvalidLeague, code, prev.Key(), key)
				}
				name := ts.Name
				if name == "" {
					name = code
				}
				t := &Team{Code: code, Name: name, Conference: cs.Name, Division: ds.Name}
				l.byCode[code] = t
				div.Teams = append(div.Teams, t)
			}
			l.byKey[key] = div
			conf.Divisions = append(conf.Divisions, div)
		}
		l.conferences = append(l.conferences, conf)
	}
	return l, nil
}

// Conferences returns the conferences in catalog order. The first one hosts
// inter-conference rank games in odd years.
func (l *League) Conferences() []*Conference {
	return l.conferences
}

// Conference returns the named conference.
func (l *League) Conference(name string) (*Conference, bool) {
	for _, c := range l.conferences {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// Divisions returns every division, conference by conference.
func (l *League) Divisions() []*Division {
	var divs []*Division
	for _, c := range l.conferences {
		divs = append(divs, c.Divisions...)
	}
	return divs
}

func (l *League) Division(key DivisionKey) (*Division, bool) {
	d, ok := l.byKey[key]
	return d, ok
}

// Teams returns every team in catalog order.
func (l *League) Teams() []*Team {
	var teams []*Team
	for _, d := range l.Divisions() {
		teams = append(teams, d.Teams...)
	}
	return teams
}

// Team looks a team up by code, ignoring case and surrounding space.
func (l *League) Team(code string) (*Team, bool) {
	t, ok := l.byCode[strings.ToUpper(strings.TrimSpace(code))]
	return t, ok
}

// Specs returns the catalog in its unvalidated form, e.g. for writing a config file.
func (l *League) Specs() []ConferenceSpec {
	var specs []ConferenceSpec
	for _, c := range l.conferences {
		cs := ConferenceSpec{Name: c.Name}
		for _, d := range c.Divisions {
			ds := DivisionSpec{Name: d.Name}
			for _, t := range d.Teams {
				ds.Teams = append(ds.Teams, TeamSpec{Code: t.Code, Name: t.Name})
			}
			cs.Divisions = append(cs.Divisions, ds)
		}
		specs = append(specs, cs)
	}
	return specs
}
