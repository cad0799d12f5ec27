package extract

import (
	"log/slog"
	"regexp"
	"slices"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/atlanticofertlog/cargo-docs/internal/entity"
	"github.com/atlanticofertlog/cargo-docs/internal/rules"
)

const licenseDateLayout = "02/01/2006"

var (
	cpfPattern      = regexp.MustCompile(`(\d{3}\.?\d{3}\.?\d{3}-?\d{2})`)
	datePattern     = regexp.MustCompile(`\d{1,2}/\d{1,2}/\d{4}`)
	nonDigit        = regexp.MustCompile(`\D`)
	mrzName         = regexp.MustCompile(`(?:^|[^\p{L}\p{N}_])([A-Z]+(?:\s*<+\s*[A-Z]+)+)[<\s]*$`)
	mrzSeparator    = regexp.MustCompile(`\s*<+\s*`)
	nameLineCapture = `[ \t]*\r?\n[ \t]*([\p{Lu} ,.]+)`
)

// LicenseExtractor reads driver's license (CNH) fields from OCR text.
type LicenseExtractor struct {
	name     []Rule[string]
	category []Rule[string]
	protocol *regexp.Regexp
	logger   *slog.Logger
}

func NewLicenseExtractor(r rules.LicenseRules, logger *slog.Logger) *LicenseExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	e := &LicenseExtractor{
		name: []Rule[string]{
			nameAfterLabel("name_label", regexp.MustCompile(`-?\s*`+labelPattern(r.NameLabel)+nameLineCapture)),
			nameAfterLabel("first_license_label", regexp.MustCompile(labelPattern(r.AltNameLabel)+nameLineCapture)),
			{Name: "mrz", Match: matchMRZName},
		},
		category: []Rule[string]{
			categoryAfterLabel(regexp.MustCompile(labelPattern(r.CategoryLabel) + `\s*([A-Z]{1,2})` + notWordOrEnd)),
		},
		protocol: regexp.MustCompile(labelPattern(r.ValidityLabel) + `.*?\n?(\d{10})`),
		logger:   logger,
	}
	for _, c := range r.ValidCategories {
		c := strings.ToUpper(strings.TrimSpace(c))
		e.category = append(e.category, Rule[string]{
			Name:  "category_" + c,
			Match: func(text string) (string, bool) { return c, slices.Contains(words(text), c) },
		})
	}
	return e
}

// nameAfterLabel accepts a captured line only when it looks like a full name.
func nameAfterLabel(name string, re *regexp.Regexp) Rule[string] {
	return Rule[string]{
		Name: name,
		Match: func(text string) (string, bool) {
			m := re.FindStringSubmatch(text)
			if m == nil {
				return "", false
			}
			raw := strings.TrimSpace(m[1])
			if !strings.Contains(raw, " ") || utf8.RuneCountInString(raw) <= 5 {
				return "", false
			}
			return strings.Join(strings.Fields(raw), " "), true
		},
	}
}

func matchMRZName(text string) (string, bool) {
	m := mrzName.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(mrzSeparator.ReplaceAllString(m[1], " ")), true
}

func categoryAfterLabel(re *regexp.Regexp) Rule[string] {
	return Rule[string]{
		Name: "category_label",
		Match: func(text string) (string, bool) {
			m := re.FindStringSubmatch(text)
			if m == nil {
				return "", false
			}
			return m[1], true
		},
	}
}

// Extract never fails: fields it cannot read are left at entity.NotFound.
func (e *LicenseExtractor) Extract(text string) entity.LicenseRecord {
	rec := entity.NewLicenseRecord()
	if strings.TrimSpace(text) == "" {
		return rec
	}
	upper := strings.ToUpper(text)

	if v, rule, ok := FirstMatch(upper, e.name); ok {
		rec.Name = v
		e.logger.Debug("license name found", "rule", rule)
	}
	if v, rule, ok := FirstMatch(upper, e.category); ok {
		rec.Category = v
		e.logger.Debug("license category found", "rule", rule)
	}
	if m := cpfPattern.FindStringSubmatch(upper); m != nil {
		rec.CPF = m[1]
	}

	if dates := uniqueDates(upper); len(dates) > 0 {
		last := len(dates) - 1
		rec.BirthDate = dates[0].Format(licenseDateLayout)
		rec.FirstIssueDate = dates[min(1, last)].Format(licenseDateLayout)
		rec.IssueDate = dates[min(2, last)].Format(licenseDateLayout)
		rec.ExpiryDate = dates[last].Format(licenseDateLayout)
	}

	cpfDigits := ""
	if rec.CPF != entity.NotFound {
		cpfDigits = nonDigit.ReplaceAllString(rec.CPF, "")
	}
	var numbers []string
	seen := map[string]bool{}
	for _, n := range words(upper) {
		if len(n) != 11 || !isASCIIDigits(n) || n == cpfDigits || seen[n] {
			continue
		}
		seen[n] = true
		numbers = append(numbers, n)
	}
	if len(numbers) > 0 {
		rec.LicenseNumber = numbers[0]
	}
	if len(numbers) > 1 {
		rec.InsuranceNumber = numbers[1]
	}

	if m := e.protocol.FindStringSubmatch(upper); m != nil {
		rec.Protocol = m[1]
	}
	return rec
}

// uniqueDates parses every dd/mm/yyyy token, skipping invalid ones, and
// returns the distinct dates in ascending order.
func uniqueDates(text string) []time.Time {
	seen := map[time.Time]bool{}
	var out []time.Time
	for _, tok := range datePattern.FindAllString(text, -1) {
		d, err := time.Parse("2/1/2006", tok)
		if err != nil {
			continue
		}
		if !seen[d] {
			seen[d] = true
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}
