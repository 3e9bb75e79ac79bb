package shipping

import (
	"strings"

	"github.com/google/uuid"
)

// ZoneLocation is one coverage rule of a zone. A zone covers the union of its locations.
type ZoneLocation struct {
	ID                uuid.UUID
	ZoneID            uuid.UUID
	ZoneName          string
	CountryCode       string
	StateProvinceCode LocationConstraint
	PostalCodePattern LocationConstraint
}

// Specificity ranks how narrowly the location targets an address:
// 2 for a state constraint plus 1 for a postal constraint.
func (l ZoneLocation) Specificity() int {
	s := 0
	if !l.StateProvinceCode.IsAny() {
		s += 2
	}
	if !l.PostalCodePattern.IsAny() {
		s++
	}
	return s
}

// Matches reports whether the location covers dest.
// A malformed postal pattern is returned as an error and never matches.
func (l ZoneLocation) Matches(dest Destination) (bool, error) {
	if !strings.EqualFold(strings.TrimSpace(l.CountryCode), dest.CountryCode) {
		return false, nil
	}

	if state, ok := l.StateProvinceCode.Value(); ok {
		if !dest.HasState() || !strings.EqualFold(strings.TrimSpace(state), dest.StateProvinceCode) {
			return false, nil
		}
	}

	raw, ok := l.PostalCodePattern.Value()
	if !ok {
		return true, nil
	}
	pattern, err := CompilePostalPattern(raw)
	if err != nil {
		return false, err
	}
	if !dest.HasPostalCode() {
		return false, nil
	}
	return pattern.Matches(dest.PostalCode), nil
}
