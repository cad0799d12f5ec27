// Package citylocator resolves the delivery city of a loading order from its
// free text using the gazetteer, asking a Chooser when several cities fit.
package citylocator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/atlanticofertlog/cargo-docs/internal/gazetteer"
	"github.com/atlanticofertlog/cargo-docs/internal/metrics"
	"github.com/atlanticofertlog/cargo-docs/internal/rules"
	"github.com/atlanticofertlog/cargo-docs/internal/textnorm"
)

// Plan names the strategy that produced a candidate.
type Plan string

const (
	PlanA Plan = "A" // city followed by its state code
	PlanB Plan = "B" // destination split around the sender's letterhead
	PlanC Plan = "C" // city label followed by a city name
)

var (
	ErrNoChooser     = errors.New("citylocator: several candidate cities and no chooser configured")
	ErrInvalidChoice = errors.New("citylocator: chooser returned a city that was not offered")
)

// Candidate is a possible destination. Offset is the byte position of the
// match in the normalized search window.
type Candidate struct {
	Name   string `json:"name"`
	State  string `json:"state"`
	Offset int    `json:"offset"`
	Plan   Plan   `json:"plan"`
}

// Label renders the candidate the way it is stored on orders: "Title Case-UF".
func (c Candidate) Label() string {
	return textnorm.TitleCase(c.Name) + "-" + c.State
}

type entry struct {
	norm  string
	state string
	name  string
	planA *regexp.Regexp
	planC *regexp.Regexp
}

// Locator is safe for concurrent use. Everything it holds is built in New and never changed.
type Locator struct {
	entries []entry
	marker  string
	denied  []string
	planB   *regexp.Regexp
	chooser Chooser
	logger  *slog.Logger
}

// New flattens the gazetteer longest name first and compiles every entry's patterns.
// chooser may be nil; Locate then fails with ErrNoChooser on ambiguous documents.
func New(g *gazetteer.Gazetteer, r rules.LocatorRules, chooser Chooser, logger *slog.Logger) *Locator {
	if logger == nil {
		logger = slog.Default()
	}
	l := &Locator{
		marker:  textnorm.Normalize(r.CustomerMarker),
		chooser: chooser,
		logger:  logger,
	}
	for _, d := range r.DeniedCities {
		if n := textnorm.Normalize(d); n != "" {
			l.denied = append(l.denied, n)
		}
	}

	label := regexp.QuoteMeta(textnorm.Normalize(r.CityLabel))
	g.Each(func(state string, c gazetteer.City) {
		norm := textnorm.Normalize(c.Name)
		if norm == "" {
			return
		}
		name := regexp.QuoteMeta(norm)
		l.entries = append(l.entries, entry{
			norm:  norm,
			state: state,
			name:  c.Name,
			planA: regexp.MustCompile(`\b` + name + `[\s/-]+` + regexp.QuoteMeta(state) + `\b`),
			planC: regexp.MustCompile(label + `\s+` + name + `\b`),
		})
	})
	sort.SliceStable(l.entries, func(i, j int) bool {
		li, lj := utf8.RuneCountInString(l.entries[i].norm), utf8.RuneCountInString(l.entries[j].norm)
		if li != lj {
			return li > lj
		}
		if l.entries[i].norm != l.entries[j].norm {
			return l.entries[i].norm < l.entries[j].norm
		}
		return l.entries[i].state < l.entries[j].state
	})

	if frag := textnorm.Normalize(r.LetterheadFragment); frag != "" {
		stop := `(?:,|$`
		if s := textnorm.Normalize(r.FragmentStop); s != "" {
			stop += `|\s` + regexp.QuoteMeta(s)
		}
		stop += `)`
		l.planB = regexp.MustCompile(label + `\s+(.*?)\s*` + regexp.QuoteMeta(frag) + `\s*(.*?)` + stop)
	}
	return l
}

// SearchWindow returns the normalized text the plans run on: from the customer
// marker onward when present, newlines flattened.
func (l *Locator) SearchWindow(text string) string {
	norm := textnorm.Normalize(strings.ReplaceAll(text, "\n", " "))
	if l.marker != "" {
		if idx := strings.Index(norm, l.marker); idx >= 0 {
			norm = norm[idx:]
		}
	}
	return norm
}

// Candidates runs plan A, then B, then C, stopping at the first plan with results.
func (l *Locator) Candidates(text string) []Candidate {
	window := l.SearchWindow(text)

	if cs := l.planAMatches(window); len(cs) > 0 {
		l.logger.Debug("city candidates found", "plan", PlanA, "candidates", len(cs))
		return cs
	}
	if cs := l.planBMatches(window); len(cs) > 0 {
		l.logger.Debug("city candidates found", "plan", PlanB, "candidates", len(cs))
		return cs
	}
	cs := l.planCMatches(window)
	if len(cs) > 0 {
		l.logger.Debug("city candidates found", "plan", PlanC, "candidates", len(cs))
	} else {
		l.logger.Debug("no city candidates", "window_bytes", len(window))
	}
	return cs
}

func (l *Locator) planAMatches(window string) []Candidate {
	return l.withoutDenied(l.scan(window, PlanA, func(e entry) *regexp.Regexp { return e.planA }))
}

func (l *Locator) planCMatches(window string) []Candidate {
	return l.withoutDenied(l.scan(window, PlanC, func(e entry) *regexp.Regexp { return e.planC }))
}

func (l *Locator) planBMatches(window string) []Candidate {
	if l.planB == nil {
		return nil
	}
	m := l.planB.FindStringSubmatchIndex(window)
	if m == nil {
		return nil
	}
	rebuilt := strings.TrimSpace(strings.TrimSpace(window[m[2]:m[3]]) + " " + strings.TrimSpace(window[m[4]:m[5]]))
	for _, e := range l.entries {
		if strings.Contains(rebuilt, e.norm) && strings.Contains(rebuilt, e.state) {
			return []Candidate{{Name: e.name, State: e.state, Offset: m[0], Plan: PlanB}}
		}
	}
	return nil
}

type span struct {
	start, end int
	norm       string
}

// scan collects the first usable match of every entry. Entries are visited
// longest name first, so a shorter name inside a span already claimed by a
// longer, different name is skipped for that occurrence.
func (l *Locator) scan(window string, plan Plan, pattern func(entry) *regexp.Regexp) []Candidate {
	var claimed []span
	var out []Candidate
	for _, e := range l.entries {
		if !strings.Contains(window, e.norm) {
			continue
		}
		for _, loc := range pattern(e).FindAllStringIndex(window, -1) {
			if overlapsOther(claimed, loc[0], loc[1], e.norm) {
				continue
			}
			claimed = append(claimed, span{start: loc[0], end: loc[1], norm: e.norm})
			out = append(out, Candidate{Name: e.name, State: e.state, Offset: loc[0], Plan: plan})
			break
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Offset < out[j].Offset })
	return out
}

func overlapsOther(claimed []span, start, end int, norm string) bool {
	for _, s := range claimed {
		if s.norm != norm && start < s.end && s.start < end {
			return true
		}
	}
	return false
}

func (l *Locator) withoutDenied(cs []Candidate) []Candidate {
	if len(l.denied) == 0 || len(cs) == 0 {
		return cs
	}
	out := cs[:0:0]
	for _, c := range cs {
		if !l.isDenied(c.Name) {
			out = append(out, c)
		}
	}
	return out
}

func (l *Locator) isDenied(name string) bool {
	norm := textnorm.Normalize(name)
	for _, d := range l.denied {
		if strings.Contains(norm, d) {
			return true
		}
	}
	return false
}

// Locate returns the destination as "City-UF", or "" when no city is found.
// With several candidates the Chooser decides; the calling goroutine blocks
// until it answers or ctx is cancelled.
func (l *Locator) Locate(ctx context.Context, text string) (string, error) {
	cs := l.Candidates(text)
	switch len(cs) {
	case 0:
		metrics.CityResolutions.WithLabelValues("", "none").Inc()
		return "", nil
	case 1:
		metrics.CityResolutions.WithLabelValues(string(cs[0].Plan), "single").Inc()
		return cs[0].Label(), nil
	}

	plan := string(cs[0].Plan)
	if l.chooser == nil {
		metrics.CityResolutions.WithLabelValues(plan, "failed").Inc()
		return "", fmt.Errorf("%w: %d candidates", ErrNoChooser, len(cs))
	}

	offered := append([]Candidate(nil), cs...)
	chosen, err := l.chooser.Choose(ctx, offered)
	if err != nil {
		metrics.CityResolutions.WithLabelValues(plan, "failed").Inc()
		return "", fmt.Errorf("choose city: %w", err)
	}
	if !contains(cs, chosen) {
		metrics.CityResolutions.WithLabelValues(plan, "failed").Inc()
		return "", fmt.Errorf("%w: %s-%s", ErrInvalidChoice, chosen.Name, chosen.State)
	}
	metrics.CityResolutions.WithLabelValues(plan, "chosen").Inc()
	l.logger.Info("city chosen", "plan", plan, "candidates", len(cs), "city", chosen.Name, "state", chosen.State)
	return chosen.Label(), nil
}

func contains(cs []Candidate, c Candidate) bool {
	for _, x := range cs {
		if x.Name == c.Name && x.State == c.State {
			return true
		}
	}
	return false
}
