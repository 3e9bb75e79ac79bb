package shipping

import (
	"encoding/json"
	"strings"
)

// LocationConstraint is an optional location attribute: either Any value or Exactly one value.
// The zero value is Any.
type LocationConstraint struct {
	value string
	set   bool
}

// Any returns a constraint that accepts every value, including an absent one
func Any() LocationConstraint {
	return LocationConstraint{}
}

// Exactly returns a constraint bound to value
func Exactly(value string) LocationConstraint {
	return LocationConstraint{value: value, set: true}
}

// ConstraintFromPtr maps a nullable column onto a constraint.
// NULL and blank values both mean Any; an empty bound value could never match.
func ConstraintFromPtr(value *string) LocationConstraint {
	if value == nil || strings.TrimSpace(*value) == "" {
		return Any()
	}
	return Exactly(*value)
}

// IsAny reports whether the constraint accepts every value
func (c LocationConstraint) IsAny() bool {
	return !c.set
}

// Value returns the bound value and whether one is set
func (c LocationConstraint) Value() (string, bool) {
	return c.value, c.set
}

// Ptr returns the bound value as a nullable pointer
func (c LocationConstraint) Ptr() *string {
	if !c.set {
		return nil
	}
	v := c.value
	return &v
}

// MarshalJSON encodes Any as null and Exactly as the bound string
func (c LocationConstraint) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Ptr())
}

// UnmarshalJSON decodes null as Any and a string as Exactly
func (c *LocationConstraint) UnmarshalJSON(data []byte) error {
	var v *string
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*c = ConstraintFromPtr(v)
	return nil
}
