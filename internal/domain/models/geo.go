package models

import (
	"math"

	"github.com/Temutjin2k/rescue-coordination/internal/domain/types"
)

const EarthRadiusKm = 6371.0

// Bounds is a WGS84 bounding box. MinLng > MaxLng means the box crosses the antimeridian.
type Bounds struct {
	MinLat float64 `json:"minLat"`
	MaxLat float64 `json:"maxLat"`
	MinLng float64 `json:"minLng"`
	MaxLng float64 `json:"maxLng"`
}

// World covers every valid coordinate.
var World = Bounds{MinLat: -90, MaxLat: 90, MinLng: -180, MaxLng: 180}

func (b Bounds) Contains(lat, lng float64) bool {
	if lat < b.MinLat || lat > b.MaxLat {
		return false
	}
	if b.CrossesAntimeridian() {
		return lng >= b.MinLng || lng <= b.MaxLng
	}
	return lng >= b.MinLng && lng <= b.MaxLng
}

func (b Bounds) CrossesAntimeridian() bool {
	return b.MinLng > b.MaxLng
}

func (b Bounds) Validate() error {
	if err := ValidateCoordinates(b.MinLat, b.MinLng); err != nil {
		return err
	}
	if err := ValidateCoordinates(b.MaxLat, b.MaxLng); err != nil {
		return err
	}
	if b.MinLat > b.MaxLat {
		return types.NewValidationError("minLat", b.MinLat, "must not be greater than maxLat")
	}
	return nil
}

// ValidateCoordinates checks that a point lies within WGS84 ranges.
func ValidateCoordinates(lat, lng float64) error {
	if math.IsNaN(lat) || math.IsInf(lat, 0) || lat < -90 || lat > 90 {
		return types.NewValidationError("latitude", lat, "must be between -90 and 90")
	}
	if math.IsNaN(lng) || math.IsInf(lng, 0) || lng < -180 || lng > 180 {
		return types.NewValidationError("longitude", lng, "must be between -180 and 180")
	}
	return nil
}

// Haversine returns great-circle distance between two points in kilometers.
func Haversine(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLng := toRadians(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*
			math.Sin(dLng/2)*math.Sin(dLng/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusKm * c
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

// Hotspot is the densest bucket of rescues within a viewport.
type Hotspot struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Count     int     `json:"count"`
}
