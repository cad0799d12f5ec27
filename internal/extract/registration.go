package extract

import (
	"log/slog"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/atlanticofertlog/cargo-docs/internal/entity"
	"github.com/atlanticofertlog/cargo-docs/internal/rules"
	"github.com/atlanticofertlog/cargo-docs/internal/textnorm"
)

var (
	platePattern    = regexp.MustCompile(`[A-Z]{3}\d[A-Z0-9]\d{2}`)
	cityStateAtEnd  = regexp.MustCompile(`([\p{Lu}\s]+)\s+([A-Z]{2})$`)
	bodyTypeWordSep = regexp.MustCompile(`[/ ]`)
)

// FormatPlate inserts the hyphen after the letters of a 7-character plate.
// Anything else is returned unchanged.
func FormatPlate(raw string) string {
	r := []rune(raw)
	if len(r) != 7 {
		return raw
	}
	return string(r[:3]) + "-" + string(r[3:])
}

type bodyType struct {
	name     string
	keywords []string
}

type vehicleCategory struct {
	keywords []string
	category string
}

// RegistrationExtractor reads vehicle registration (CRLV) fields from OCR text.
type RegistrationExtractor struct {
	renavam    []Rule[string]
	axles      []Rule[string]
	brandLabel *regexp.Regexp
	localLabel string
	species    *regexp.Regexp
	brands     []string
	categories []vehicleCategory
	bodyTypes  []bodyType
	brandWin   int
	localWin   int
	speciesWin int
	logger     *slog.Logger
}

func NewRegistrationExtractor(r rules.RegistrationRules, logger *slog.Logger) *RegistrationExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	renavam := labelPattern(r.RenavamLabel)
	axles := labelPattern(r.AxleLabel)
	e := &RegistrationExtractor{
		renavam: []Rule[string]{
			submatchRule("own_line", regexp.MustCompile(renavam+`\s*\n\s*(\d{9,11})`)),
			flatRule("same_line", regexp.MustCompile(renavam+`\s.*?(\d{11})`)),
		},
		axles: []Rule[string]{
			submatchRule("own_line", regexp.MustCompile(axles+`\s*\n\s*(\d+)`)),
			flatRule("same_line", regexp.MustCompile(axles+`\s+.*?\s(\d)\s`)),
		},
		brandLabel: regexp.MustCompile(labelPattern(r.BrandModelLabel)),
		localLabel: textnorm.Normalize(r.LocationLabel),
		species:    regexp.MustCompile(labelPattern(r.SpeciesLabel)),
		brandWin:   r.BrandWindow,
		localWin:   r.LocationWindow,
		speciesWin: r.SpeciesWindow,
		logger:     logger,
	}

	for _, b := range r.Brands {
		if b = strings.ToUpper(strings.TrimSpace(b)); b != "" {
			e.brands = append(e.brands, b)
		}
	}
	sort.SliceStable(e.brands, func(i, j int) bool {
		li, lj := utf8.RuneCountInString(e.brands[i]), utf8.RuneCountInString(e.brands[j])
		if li != lj {
			return li > lj
		}
		return e.brands[i] < e.brands[j]
	})

	for _, c := range r.VehicleCategories {
		vc := vehicleCategory{category: c.Category}
		for _, k := range c.Keywords {
			vc.keywords = append(vc.keywords, textnorm.Normalize(k))
		}
		e.categories = append(e.categories, vc)
	}

	for _, bt := range r.BodyTypes {
		t := bodyType{name: bt.Name}
		for _, w := range bodyTypeWordSep.Split(textnorm.Normalize(bt.Name), -1) {
			if utf8.RuneCountInString(w) > 2 {
				t.keywords = append(t.keywords, w)
			}
		}
		e.bodyTypes = append(e.bodyTypes, t)
	}
	return e
}

// flatRule matches against the text with newlines turned into spaces.
func flatRule(name string, re *regexp.Regexp) Rule[string] {
	inner := submatchRule(name, re)
	return Rule[string]{
		Name: name,
		Match: func(text string) (string, bool) {
			return inner.Match(strings.ReplaceAll(text, "\n", " "))
		},
	}
}

// Extract never fails: fields it cannot read are left at entity.NotFound.
func (e *RegistrationExtractor) Extract(text string) entity.RegistrationRecord {
	rec := entity.NewRegistrationRecord()
	if strings.TrimSpace(text) == "" {
		return rec
	}
	lines := splitLines(text)
	upper := strings.Join(lines, "\n")

	if p := platePattern.FindString(upper); p != "" {
		rec.Plate = FormatPlate(p)
	}
	if v, _, ok := FirstMatch(upper, e.renavam); ok {
		rec.Renavam = v
	}
	if v, _, ok := FirstMatch(upper, e.axles); ok {
		rec.AxleCount = v
	}

	if i := lineIndex(lines, e.brandLabel); i >= 0 {
		e.brandModel(window(lines, i, e.brandWin), &rec)
	}
	if i := e.locationIndex(lines); i >= 0 {
		e.location(window(lines, i, e.localWin), &rec)
	}
	if i := lineIndex(lines, e.species); i >= 0 {
		if c := e.vehicleCategory(window(lines, i, e.speciesWin)); c != "" {
			rec.VehicleCategory = c
		}
	}
	if b := e.bodyType(textnorm.Normalize(upper)); b != "" {
		rec.BodyType = b
	}
	e.logger.Debug("registration parsed", "missing", len(rec.Missing()))
	return rec
}

func (e *RegistrationExtractor) brandModel(lines []string, rec *entity.RegistrationRecord) {
	for _, line := range lines {
		for _, brand := range e.brands {
			idx := strings.Index(line, brand)
			if idx < 0 {
				continue
			}
			rec.Brand = brand
			rec.Model = orNotFound(strings.Trim(strings.TrimSpace(line[idx+len(brand):]), "/ "), entity.NotFound)
			return
		}
	}
}

func (e *RegistrationExtractor) locationIndex(lines []string) int {
	if e.localLabel == "" {
		return -1
	}
	for i, l := range lines {
		if strings.Contains(textnorm.Normalize(l), e.localLabel) {
			return i
		}
	}
	return -1
}

func (e *RegistrationExtractor) location(lines []string, rec *entity.RegistrationRecord) {
	for _, line := range lines {
		m := cityStateAtEnd.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		city := strings.TrimSpace(m[1])
		if utf8.RuneCountInString(city) <= 3 {
			continue
		}
		rec.City = textnorm.TitleCase(city)
		rec.State = m[2]
		return
	}
}

func (e *RegistrationExtractor) vehicleCategory(lines []string) string {
	for _, line := range lines {
		norm := textnorm.Normalize(line)
		for _, c := range e.categories {
			for _, k := range c.keywords {
				if strings.Contains(norm, k) {
					return c.category
				}
			}
		}
	}
	return ""
}

func (e *RegistrationExtractor) bodyType(flat string) string {
	for _, bt := range e.bodyTypes {
		for _, k := range bt.keywords {
			if strings.Contains(flat, k) {
				return bt.name
			}
		}
	}
	return ""
}
