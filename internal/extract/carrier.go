package extract

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/atlanticofertlog/cargo-docs/internal/entity"
	"github.com/atlanticofertlog/cargo-docs/internal/rules"
)

// CarrierExtractor reads the RNTRC number from a carrier registry extract.
type CarrierExtractor struct {
	label  string
	number *regexp.Regexp
}

func NewCarrierExtractor(r rules.CarrierRules) *CarrierExtractor {
	minDigits := r.MinDigits
	if minDigits <= 0 {
		minDigits = 8
	}
	minDigits = min(minDigits, rules.MaxCarrierDigits)
	return &CarrierExtractor{
		label:  strings.ToUpper(r.Label),
		number: regexp.MustCompile(fmt.Sprintf(`\d{%d,}`, minDigits)),
	}
}

// Extract returns the first long digit run once the label itself is removed.
func (e *CarrierExtractor) Extract(text string) entity.CarrierRecord {
	upper := strings.ToUpper(text)
	if e.label != "" {
		upper = strings.ReplaceAll(upper, e.label, "")
	}
	return entity.CarrierRecord{RNTRC: e.number.FindString(upper)}
}
