package dto

import (
	"net/url"
	"strconv"
	"time"

	"github.com/Temutjin2k/rescue-coordination/internal/domain/models"
	"github.com/Temutjin2k/rescue-coordination/internal/domain/types"
	"github.com/Temutjin2k/rescue-coordination/pkg/validator"
)

var boundKeys = []string{"minLat", "maxLat", "minLng", "maxLng"}

// ParseFilter reads the rescue filter from query parameters. Without any bound the whole
// world is selected; a partial box is a validation error. Enum values are checked by
// RescueFilter.Validate.
func ParseFilter(q url.Values, v *validator.Validator) models.RescueFilter {
	f := models.RescueFilter{
		Bounds:            models.World,
		VehicleType:       types.VehicleType(q.Get("vehicleType")),
		Drivetrain:        types.Drivetrain(q.Get("drivetrain")),
		TerrainType:       types.TerrainType(q.Get("terrainType")),
		ProblemType:       types.ProblemType(q.Get("problemType")),
		AssistanceStatus:  types.AssistanceStatus(q.Get("assistanceStatus")),
		AssistanceChannel: types.AssistanceChannel(q.Get("assistanceChannel")),
		Status:            types.RescueStatus(q.Get("status")),
	}

	given := 0
	for _, k := range boundKeys {
		if q.Has(k) {
			given++
		}
	}
	if given > 0 {
		v.Check(given == len(boundKeys), "bounds", "minLat, maxLat, minLng and maxLng must be provided together")
		f.Bounds.MinLat = parseFloat(q, "minLat", v)
		f.Bounds.MaxLat = parseFloat(q, "maxLat", v)
		f.Bounds.MinLng = parseFloat(q, "minLng", v)
		f.Bounds.MaxLng = parseFloat(q, "maxLng", v)
	}

	if s := q.Get("from"); s != "" {
		from, err := parseTime(s)
		v.Check(err == nil, "from", "must be an RFC 3339 timestamp or unix milliseconds")
		if err == nil {
			f.From = &from
		}
	}

	f.Limit = ParseLimit(q, v)
	return f
}

// ParseLimit reads an optional non-negative ?limit=.
func ParseLimit(q url.Values, v *validator.Validator) int {
	s := q.Get("limit")
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	v.Check(err == nil && n >= 0, "limit", "must be a non-negative integer")
	return n
}

func parseFloat(q url.Values, key string, v *validator.Validator) float64 {
	s := q.Get(key)
	if s == "" {
		return 0
	}
	n, err := strconv.ParseFloat(s, 64)
	v.Check(err == nil, key, "must be a number")
	return n
}

func parseTime(s string) (time.Time, error) {
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.UnixMilli(ms).UTC(), nil
	}
	return time.Parse(time.RFC3339, s)
}
