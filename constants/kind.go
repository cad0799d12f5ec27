package constants

import "strings"

// DocumentKind selects the field extractor for a document.
type DocumentKind string

const (
	KindOrder         DocumentKind = "ORDER"
	KindHeringerOrder DocumentKind = "HERINGER_ORDER"
	KindLicense       DocumentKind = "LICENSE"
	KindRegistration  DocumentKind = "REGISTRATION"
	KindCarrier       DocumentKind = "CARRIER"
)

var allKinds = []DocumentKind{
	KindOrder,
	KindHeringerOrder,
	KindLicense,
	KindRegistration,
	KindCarrier,
}

// Kinds returns every supported document kind as strings.
func Kinds() []string {
	out := make([]string, len(allKinds))
	for i, k := range allKinds {
		out[i] = string(k)
	}
	return out
}

// ParseDocumentKind accepts canonical names and the usual Brazilian document names.
func ParseDocumentKind(input string) (DocumentKind, bool) {
	normalized := strings.ToLower(strings.TrimSpace(input))
	if normalized == "" {
		return "", false
	}

	synonyms := map[string]DocumentKind{
		"pedido":   KindOrder,
		"heringer": KindHeringerOrder,
		"cnh":      KindLicense,
		"crlv":     KindRegistration,
		"rntrc":    KindCarrier,
	}
	if k, ok := synonyms[normalized]; ok {
		return k, true
	}

	for _, k := range allKinds {
		if normalized == strings.ToLower(string(k)) {
			return k, true
		}
	}
	return "", false
}
