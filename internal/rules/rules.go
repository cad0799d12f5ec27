// Package rules holds the business literals the extractors match against:
// field labels, brand and category tables, the sender's letterhead and the
// cities that must never be taken as a destination. Rules are loaded once and
// handed to the extractors, which keep their own copies.
package rules

import (
	"fmt"
	"strings"

	"github.com/atlanticofertlog/cargo-docs/constants"
)

type Rules struct {
	Locator      LocatorRules      `mapstructure:"locator" json:"locator"`
	Order        OrderRules        `mapstructure:"order" json:"order"`
	Heringer     HeringerRules     `mapstructure:"heringer" json:"heringer"`
	License      LicenseRules      `mapstructure:"license" json:"license"`
	Registration RegistrationRules `mapstructure:"registration" json:"registration"`
	Carrier      CarrierRules      `mapstructure:"carrier" json:"carrier"`
}

type LocatorRules struct {
	// CustomerMarker starts the search window; the destination follows the customer block.
	CustomerMarker string `mapstructure:"customer_marker" json:"customer_marker"`
	CityLabel      string `mapstructure:"city_label" json:"city_label"`
	// DeniedCities are normalized fragments of the sender's own return-address city.
	DeniedCities []string `mapstructure:"denied_cities" json:"denied_cities"`
	// LetterheadFragment is the address boilerplate that line wrapping splits destinations around.
	LetterheadFragment string `mapstructure:"letterhead_fragment" json:"letterhead_fragment"`
	FragmentStop       string `mapstructure:"fragment_stop" json:"fragment_stop"`
}

type PackageKeyword struct {
	Keyword string                `mapstructure:"keyword" json:"keyword"`
	Type    constants.PackageType `mapstructure:"type" json:"type"`
}

type OrderRules struct {
	CustomerLabel string `mapstructure:"customer_label" json:"customer_label"`
	// OrderNumberLabels are tried in order; the first label followed by digits wins.
	OrderNumberLabels []string `mapstructure:"order_number_labels" json:"order_number_labels"`
	// PackageKeywords ends the product name at the first keyword found on the line.
	PackageKeywords []PackageKeyword `mapstructure:"package_keywords" json:"package_keywords"`
	// PackagePrecedence classifies a line that mentions several keywords.
	PackagePrecedence []PackageKeyword `mapstructure:"package_precedence" json:"package_precedence"`
}

type HeringerRules struct {
	ProductPrefix         string `mapstructure:"product_prefix" json:"product_prefix"`
	CustomerSuffix        string `mapstructure:"customer_suffix" json:"customer_suffix"`
	DefaultPackageLabel   string `mapstructure:"default_package_label" json:"default_package_label"`
	DeliveryCustomerLabel string `mapstructure:"delivery_customer_label" json:"delivery_customer_label"`
	BillingCustomerLabel  string `mapstructure:"billing_customer_label" json:"billing_customer_label"`
	OrderLabel            string `mapstructure:"order_label" json:"order_label"`
	QuantityLabel         string `mapstructure:"quantity_label" json:"quantity_label"`
	LoadingLabel          string `mapstructure:"loading_label" json:"loading_label"`
}

type LicenseRules struct {
	NameLabel       string   `mapstructure:"name_label" json:"name_label"`
	AltNameLabel    string   `mapstructure:"alt_name_label" json:"alt_name_label"`
	CategoryLabel   string   `mapstructure:"category_label" json:"category_label"`
	ValidCategories []string `mapstructure:"valid_categories" json:"valid_categories"`
	ValidityLabel   string   `mapstructure:"validity_label" json:"validity_label"`
}

type CategoryRule struct {
	Keywords []string `mapstructure:"keywords" json:"keywords"`
	Category string   `mapstructure:"category" json:"category"`
}

type BodyType struct {
	Code string `mapstructure:"code" json:"code"`
	Name string `mapstructure:"name" json:"name"`
}

type RegistrationRules struct {
	RenavamLabel      string         `mapstructure:"renavam_label" json:"renavam_label"`
	AxleLabel         string         `mapstructure:"axle_label" json:"axle_label"`
	BrandModelLabel   string         `mapstructure:"brand_model_label" json:"brand_model_label"`
	LocationLabel     string         `mapstructure:"location_label" json:"location_label"`
	SpeciesLabel      string         `mapstructure:"species_label" json:"species_label"`
	Brands            []string       `mapstructure:"brands" json:"brands"`
	VehicleCategories []CategoryRule `mapstructure:"vehicle_categories" json:"vehicle_categories"`
	BodyTypes         []BodyType     `mapstructure:"body_types" json:"body_types"`
	BrandWindow       int            `mapstructure:"brand_window" json:"brand_window"`
	LocationWindow    int            `mapstructure:"location_window" json:"location_window"`
	SpeciesWindow     int            `mapstructure:"species_window" json:"species_window"`
}

type CarrierRules struct {
	Label     string `mapstructure:"label" json:"label"`
	MinDigits int    `mapstructure:"min_digits" json:"min_digits"`
}

// Clone returns a deep copy so callers can't share slices with the source.
func (r Rules) Clone() Rules {
	out := r
	out.Locator.DeniedCities = append([]string(nil), r.Locator.DeniedCities...)
	out.Order.OrderNumberLabels = append([]string(nil), r.Order.OrderNumberLabels...)
	out.Order.PackageKeywords = append([]PackageKeyword(nil), r.Order.PackageKeywords...)
	out.Order.PackagePrecedence = append([]PackageKeyword(nil), r.Order.PackagePrecedence...)
	out.License.ValidCategories = append([]string(nil), r.License.ValidCategories...)
	out.Registration.Brands = append([]string(nil), r.Registration.Brands...)
	out.Registration.BodyTypes = append([]BodyType(nil), r.Registration.BodyTypes...)
	out.Registration.VehicleCategories = make([]CategoryRule, len(r.Registration.VehicleCategories))
	for i, c := range r.Registration.VehicleCategories {
		out.Registration.VehicleCategories[i] = CategoryRule{
			Keywords: append([]string(nil), c.Keywords...),
			Category: c.Category,
		}
	}
	return out
}

// MaxCarrierDigits is the largest repeat count regexp accepts in a {n,} quantifier.
const MaxCarrierDigits = 1000

// Validate reports rule sets the extractors cannot work with.
func (r Rules) Validate() error {
	var problems []string
	if strings.TrimSpace(r.Locator.CityLabel) == "" {
		problems = append(problems, "locator.city_label is empty")
	}
	if len(r.Order.OrderNumberLabels) == 0 {
		problems = append(problems, "order.order_number_labels is empty")
	}
	if len(r.Order.PackageKeywords) == 0 {
		problems = append(problems, "order.package_keywords is empty")
	}
	if r.Registration.BrandWindow <= 0 || r.Registration.LocationWindow <= 0 || r.Registration.SpeciesWindow <= 0 {
		problems = append(problems, "registration windows must be positive")
	}
	if r.Carrier.MinDigits <= 0 || r.Carrier.MinDigits > MaxCarrierDigits {
		problems = append(problems, fmt.Sprintf("carrier.min_digits must be between 1 and %d", MaxCarrierDigits))
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid rules: %s", strings.Join(problems, "; "))
	}
	return nil
}
