package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type point struct {
	Latitude    *float64 `json:"latitude" validate:"required,latitude"`
	Longitude   *float64 `json:"longitude" validate:"required,longitude"`
	VehicleType string   `json:"vehicleType" validate:"omitempty,oneof=car suv"`
}

func ptr(f float64) *float64 { return &f }

func TestStruct_ReportsJSONFieldNames(t *testing.T) {
	v := New()
	v.Struct(point{Latitude: ptr(91), VehicleType: "tank"})

	assert.False(t, v.Valid())
	assert.Equal(t, "must be between -90 and 90", v.Errors["latitude"])
	assert.Equal(t, "must be provided", v.Errors["longitude"])
	assert.Equal(t, "must be one of: car, suv", v.Errors["vehicleType"])
}

func TestStruct_ZeroCoordinatesAreValid(t *testing.T) {
	v := New()
	v.Struct(point{Latitude: ptr(0), Longitude: ptr(0)})

	assert.True(t, v.Valid(), v.Errors)
}

func TestCheck_KeepsFirstMessage(t *testing.T) {
	v := New()
	v.Check(false, "content", "first")
	v.Check(false, "content", "second")

	assert.Equal(t, "first", v.Errors["content"])
}

func TestPermittedValue(t *testing.T) {
	assert.True(t, PermittedValue("mud", "sand", "mud"))
	assert.False(t, PermittedValue("lava", "sand", "mud"))
}
