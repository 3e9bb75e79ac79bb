package shipping

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDestination(t *testing.T) {
	d := NewDestination(" us ", " ca", " 90210 ")
	assert.Equal(t, "US", d.CountryCode)
	assert.Equal(t, "CA", d.StateProvinceCode)
	assert.Equal(t, "90210", d.PostalCode)
	assert.True(t, d.HasState())
	assert.True(t, d.HasPostalCode())

	blank := NewDestination("US", "   ", "")
	assert.False(t, blank.HasState())
	assert.False(t, blank.HasPostalCode())
}

func TestLocationConstraint(t *testing.T) {
	assert.True(t, Any().IsAny())
	assert.True(t, LocationConstraint{}.IsAny())
	assert.Nil(t, Any().Ptr())

	v, ok := Exactly("CA").Value()
	assert.True(t, ok)
	assert.Equal(t, "CA", v)

	s := "NY"
	c := ConstraintFromPtr(&s)
	assert.False(t, c.IsAny())
	assert.Equal(t, "NY", *c.Ptr())
	assert.True(t, ConstraintFromPtr(nil).IsAny())

	for _, blank := range []string{"", "   ", "\t"} {
		assert.True(t, ConstraintFromPtr(&blank).IsAny(), "%q", blank)
	}
}

func TestLocationConstraint_JSON(t *testing.T) {
	type wrapper struct {
		State  LocationConstraint `json:"state"`
		Postal LocationConstraint `json:"postal"`
	}

	data, err := json.Marshal(wrapper{State: Exactly("CA"), Postal: Any()})
	require.NoError(t, err)
	assert.JSONEq(t, `{"state":"CA","postal":null}`, string(data))

	var decoded wrapper
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, Exactly("CA"), decoded.State)
	assert.True(t, decoded.Postal.IsAny())

	// an explicit empty string stays bound
	require.NoError(t, json.Unmarshal([]byte(`{"state":"","postal":null}`), &decoded))
	assert.False(t, decoded.State.IsAny())
}
