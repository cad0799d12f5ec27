package extract

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/atlanticofertlog/cargo-docs/constants"
	"github.com/atlanticofertlog/cargo-docs/internal/entity"
	"github.com/atlanticofertlog/cargo-docs/internal/rules"
)

// SupplierHeringer tags items read by HeringerExtractor.
const SupplierHeringer = "HERINGER"

// HeringerExtractor reads the two order layouts issued by the Heringer mills.
type HeringerExtractor struct {
	table        *regexp.Regexp
	customer     []Rule[string]
	product      *regexp.Regexp
	packageLabel *regexp.Regexp
	order        *regexp.Regexp
	quantity     *regexp.Regexp
	loading      *regexp.Regexp
	defaultLabel string
	logger       *slog.Logger
}

func NewHeringerExtractor(r rules.HeringerRules, logger *slog.Logger) *HeringerExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	prefix := regexp.QuoteMeta(r.ProductPrefix)
	singleLine := `\s+([\p{Lu}\d][\p{Lu}\d ]*)`
	return &HeringerExtractor{
		table: regexp.MustCompile(`(\d{7})\s+(?:(\d{9})\s+)?(` + prefix + `.+?)\s+([A-Z\s]+ ` +
			regexp.QuoteMeta(r.CustomerSuffix) + `)\s+(\d+,\d{2})`),
		customer: []Rule[string]{
			submatchRule("delivery", regexp.MustCompile(labelPattern(r.DeliveryCustomerLabel)+singleLine)),
			submatchRule("billing", regexp.MustCompile(labelPattern(r.BillingCustomerLabel)+singleLine)),
		},
		product:      regexp.MustCompile(prefix + `[^\n]+`),
		packageLabel: regexp.MustCompile(`BAG\s+\d+\s+KG`),
		order:        regexp.MustCompile(labelPattern(r.OrderLabel) + `\s+(\d+)`),
		quantity:     regexp.MustCompile(labelPattern(r.QuantityLabel) + `\s+(\d+(?:,\d+)?)`),
		loading:      regexp.MustCompile(labelPattern(r.LoadingLabel) + `\s+([\p{Lu}][\p{Lu} ]*)`),
		defaultLabel: r.DefaultPackageLabel,
		logger:       logger,
	}
}

// Extract tries the tabular layout first and falls back to the single-order form.
func (e *HeringerExtractor) Extract(text string) []entity.OrderLineItem {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	if items := e.tabular(text); len(items) > 0 {
		e.logger.Debug("heringer order parsed", "layout", "table", "items", len(items))
		return items
	}
	items := e.form(strings.ToUpper(text))
	e.logger.Debug("heringer order parsed", "layout", "form", "items", len(items))
	return items
}

func (e *HeringerExtractor) tabular(text string) []entity.OrderLineItem {
	var items []entity.OrderLineItem
	for _, m := range e.table.FindAllStringSubmatch(text, -1) {
		order := m[1]
		if m[2] != "" {
			order = m[2]
		}
		weight, ok := parseBRDecimal(m[5])
		if !ok {
			continue
		}
		items = append(items, entity.OrderLineItem{
			Customer:     strings.TrimSpace(m[4]),
			OrderNumber:  order,
			ProductName:  strings.TrimSpace(m[3]),
			WeightTons:   weight,
			PackageType:  constants.PackageBigBag,
			PackageLabel: constants.PackageBigBag.Label(),
			Supplier:     SupplierHeringer,
		})
	}
	return items
}

func (e *HeringerExtractor) form(upper string) []entity.OrderLineItem {
	product := strings.TrimSpace(e.product.FindString(upper))
	om := e.order.FindStringSubmatch(upper)
	qm := e.quantity.FindStringSubmatch(upper)
	if product == "" || om == nil || qm == nil {
		return nil
	}
	weight, ok := parseBRDecimal(qm[1])
	if !ok {
		return nil
	}

	customer, _, _ := FirstMatch(upper, e.customer)
	label := strings.Join(strings.Fields(e.packageLabel.FindString(upper)), " ")
	if label == "" {
		label = e.defaultLabel
	}
	pkg, ok := constants.CanonicalPackageType(label)
	if !ok {
		pkg = constants.PackageBigBag
	}
	loading := ""
	if m := e.loading.FindStringSubmatch(upper); m != nil {
		loading = strings.TrimSpace(m[1])
	}
	return []entity.OrderLineItem{{
		Customer:        customer,
		OrderNumber:     om[1],
		ProductName:     product,
		WeightTons:      weight,
		PackageType:     pkg,
		PackageLabel:    label,
		LoadingLocation: loading,
		Supplier:        SupplierHeringer,
	}}
}
