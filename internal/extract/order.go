package extract

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/atlanticofertlog/cargo-docs/constants"
	"github.com/atlanticofertlog/cargo-docs/internal/entity"
	"github.com/atlanticofertlog/cargo-docs/internal/rules"
	"github.com/atlanticofertlog/cargo-docs/internal/textnorm"
)

// CityLocator resolves the destination city of an order document.
type CityLocator interface {
	Locate(ctx context.Context, text string) (string, error)
}

// OrderExtractor reads loading orders of the generic supplier layout.
type OrderExtractor struct {
	customer    *regexp.Regexp
	orderNumber []Rule[string]
	oldLine     *regexp.Regexp
	nameLine    *regexp.Regexp
	product     *regexp.Regexp
	keywords    []string
	precedence  []rules.PackageKeyword
	locator     CityLocator
	logger      *slog.Logger
}

// NewOrderExtractor compiles the order rules. locator may be nil, in which
// case every item gets an empty city.
func NewOrderExtractor(r rules.OrderRules, locator CityLocator, logger *slog.Logger) *OrderExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	e := &OrderExtractor{
		customer:   regexp.MustCompile(regexp.QuoteMeta(r.CustomerLabel) + `\s*(.+)`),
		oldLine:    regexp.MustCompile(`^\d{3,}\s*:?`),
		nameLine:   regexp.MustCompile(`^\d{3,}\s*:\s*(.+)`),
		precedence: append([]rules.PackageKeyword(nil), r.PackagePrecedence...),
		locator:    locator,
		logger:     logger,
	}
	for _, label := range r.OrderNumberLabels {
		re := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(label) + `\s+(\d+)`)
		e.orderNumber = append(e.orderNumber, submatchRule(label, re))
	}
	alts := make([]string, 0, len(r.PackageKeywords))
	for _, k := range r.PackageKeywords {
		kw := textnorm.Normalize(k.Keyword)
		e.keywords = append(e.keywords, kw)
		alts = append(alts, regexp.QuoteMeta(kw))
	}
	e.product = regexp.MustCompile(`(?i):\s*(.+?)\s+(?:` + strings.Join(alts, "|") + `)`)
	return e
}

// Extract returns one item per product line. Customer, order number and city
// are read once and shared by every item. A failed city choice aborts the
// whole document.
func (e *OrderExtractor) Extract(ctx context.Context, text string) ([]entity.OrderLineItem, error) {
	customer := ""
	if m := e.customer.FindStringSubmatch(text); m != nil {
		customer = strings.TrimSpace(m[1])
	}
	orderNumber, rule, _ := FirstMatch(text, e.orderNumber)

	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	items := e.oldFormat(lines)
	format := "old"
	if len(items) == 0 {
		items = e.splitFormat(lines)
		format = "split"
	}
	e.logger.Debug("order lines parsed", "format", format, "items", len(items), "order_rule", rule)
	if len(items) == 0 {
		return nil, nil
	}

	city := ""
	if e.locator != nil {
		var err error
		city, err = e.locator.Locate(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("locate city for order %q: %w", orderNumber, err)
		}
	}

	for i := range items {
		items[i].Customer = customer
		items[i].OrderNumber = orderNumber
		items[i].City = city
	}
	return items, nil
}

// oldFormat handles layouts where code, product and quantity share a line.
func (e *OrderExtractor) oldFormat(lines []string) []entity.OrderLineItem {
	var items []entity.OrderLineItem
	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if !e.oldLine.MatchString(line) || !hasBRDecimal.MatchString(line) {
			continue
		}
		name := line
		if m := e.product.FindStringSubmatch(line); m != nil {
			name = strings.TrimSpace(m[1])
		}
		weight := 0.0
		if q := brDecimal.FindString(line); q != "" {
			weight, _ = parseBRDecimal(q)
		}
		pt := e.classify(line)
		items = append(items, entity.OrderLineItem{
			ProductName:  name,
			WeightTons:   weight,
			PackageType:  pt,
			PackageLabel: pt.Label(),
		})
	}
	return items
}

// splitFormat pairs numbered name lines with detail lines by position.
func (e *OrderExtractor) splitFormat(lines []string) []entity.OrderLineItem {
	var names []string
	var details []entity.OrderLineItem
	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if m := e.nameLine.FindStringSubmatch(line); m != nil {
			names = append(names, strings.TrimSpace(m[1]))
		}
		if !e.hasKeyword(line) || !hasBRDecimal.MatchString(line) {
			continue
		}
		weight := 0.0
		if q := brDecimal.FindString(line); q != "" {
			weight, _ = parseBRDecimal(q)
		}
		pt := e.classify(line)
		details = append(details, entity.OrderLineItem{WeightTons: weight, PackageType: pt, PackageLabel: pt.Label()})
	}

	n := min(len(names), len(details))
	items := make([]entity.OrderLineItem, 0, n)
	for i := 0; i < n; i++ {
		item := details[i]
		item.ProductName = names[i]
		items = append(items, item)
	}
	return items
}

func (e *OrderExtractor) hasKeyword(line string) bool {
	norm := textnorm.Normalize(line)
	for _, k := range e.keywords {
		if strings.Contains(norm, k) {
			return true
		}
	}
	return false
}

func (e *OrderExtractor) classify(line string) constants.PackageType {
	norm := textnorm.Normalize(line)
	for _, p := range e.precedence {
		if strings.Contains(norm, textnorm.Normalize(p.Keyword)) {
			return p.Type
		}
	}
	return constants.PackageUnknown
}
