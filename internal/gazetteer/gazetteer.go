// Package gazetteer is the read-only city/state reference table used to
// resolve delivery destinations.
package gazetteer

import (
	"log/slog"
	"sort"
	"strings"
)

// City is one municipality of a state, with its locality (IBGE) code.
type City struct {
	Name string
	Code string
}

// Row is one raw line of the gazetteer source.
type Row struct {
	City  string
	State string
	Code  string
}

// Gazetteer maps a state code to its cities. It is never mutated after construction.
type Gazetteer struct {
	byState map[string][]City
	states  []string
	size    int
}

// FromRows builds a Gazetteer, skipping rows with a missing city, state or code.
// Cities are ordered by name inside each state.
func FromRows(rows []Row, logger *slog.Logger) *Gazetteer {
	if logger == nil {
		logger = slog.Default()
	}
	g := &Gazetteer{byState: map[string][]City{}}
	skipped := 0
	for i, r := range rows {
		city := strings.TrimSpace(r.City)
		state := strings.ToUpper(strings.TrimSpace(r.State))
		code := strings.TrimSpace(r.Code)
		if city == "" || state == "" || code == "" {
			logger.Warn("gazetteer row incomplete, skipped", "row", i+1, "city", city, "state", state, "code", code)
			skipped++
			continue
		}
		g.byState[state] = append(g.byState[state], City{Name: city, Code: code})
		g.size++
	}
	for state, cities := range g.byState {
		sort.SliceStable(cities, func(i, j int) bool {
			if cities[i].Name != cities[j].Name {
				return cities[i].Name < cities[j].Name
			}
			return cities[i].Code < cities[j].Code
		})
		g.states = append(g.states, state)
	}
	sort.Strings(g.states)
	logger.Debug("gazetteer built", "cities", g.size, "states", len(g.states), "skipped", skipped)
	return g
}

// States returns the state codes in ascending order.
func (g *Gazetteer) States() []string {
	return append([]string(nil), g.states...)
}

// Cities returns a copy of the cities of state, ordered by name.
func (g *Gazetteer) Cities(state string) []City {
	return append([]City(nil), g.byState[strings.ToUpper(state)]...)
}

// Len is the number of cities across all states.
func (g *Gazetteer) Len() int {
	return g.size
}

// Each calls fn for every (state, city) pair in state then name order.
func (g *Gazetteer) Each(fn func(state string, c City)) {
	for _, s := range g.states {
		for _, c := range g.byState[s] {
			fn(s, c)
		}
	}
}
