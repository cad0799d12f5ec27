package constants

import "strings"

// PackageType is the physical packaging (embalagem) of a shipped product.
type PackageType string

const (
	PackageBigBag  PackageType = "BIG_BAG"
	PackageBulk    PackageType = "BULK"
	PackageBagged  PackageType = "BAGGED"
	PackageUnknown PackageType = "UNKNOWN"
)

// Label is the wording used on loading orders and spreadsheets.
func (p PackageType) Label() string {
	switch p {
	case PackageBigBag:
		return "BIG BAG"
	case PackageBulk:
		return "GRANEL"
	case PackageBagged:
		return "SACARIA"
	default:
		return "DESCONHECIDA"
	}
}

// CanonicalPackageType maps a label or keyword found in a document to a PackageType.
func CanonicalPackageType(input string) (PackageType, bool) {
	normalized := strings.ToUpper(strings.TrimSpace(input))
	if normalized == "" {
		return PackageUnknown, false
	}

	synonyms := map[string]PackageType{
		"BIG BAG": PackageBigBag,
		"BIG_BAG": PackageBigBag,
		"BAG":     PackageBigBag,
		"GRANEL":  PackageBulk,
		"BULK":    PackageBulk,
		"SACO":    PackageBagged,
		"SACARIA": PackageBagged,
		"BAGGED":  PackageBagged,
	}
	if p, ok := synonyms[normalized]; ok {
		return p, true
	}
	return PackageUnknown, false
}

// Vehicle categories assigned from the registration's species/type block.
const (
	VehicleTractor     = "CAVALO"
	VehicleTruck       = "TRUCK"
	VehicleSemiTrailer = "SEMI-REBOQUE 1"
)
