package shipping

import "strings"

// Destination is a normalized shipping address used for zone matching.
// Empty StateProvinceCode or PostalCode means the attribute is absent.
type Destination struct {
	CountryCode       string
	StateProvinceCode string
	PostalCode        string
}

// NewDestination trims all parts and upper-cases country and state codes
func NewDestination(countryCode, stateProvinceCode, postalCode string) Destination {
	return Destination{
		CountryCode:       strings.ToUpper(strings.TrimSpace(countryCode)),
		StateProvinceCode: strings.ToUpper(strings.TrimSpace(stateProvinceCode)),
		PostalCode:        strings.TrimSpace(postalCode),
	}
}

// HasState reports whether the destination carries a state or province code
func (d Destination) HasState() bool {
	return d.StateProvinceCode != ""
}

// HasPostalCode reports whether the destination carries a postal code
func (d Destination) HasPostalCode() bool {
	return d.PostalCode != ""
}
