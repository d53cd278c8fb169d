package geoindex

import "math"

// Bucket is a group of points snapped to the same rounded coordinate.
type Bucket struct {
	Lat, Lng float64
	Count    int
}

// Hotspot snaps points to a grid of precision degrees and returns the densest bucket.
// Ties go to the bucket seen first. ok is false when points is empty.
func Hotspot(points []Point, precision float64) (best Bucket, ok bool) {
	if len(points) == 0 {
		return Bucket{}, false
	}
	if precision <= 0 {
		precision = 0.01
	}

	type key struct{ lat, lng int64 }
	counts := make(map[key]*Bucket, len(points))
	order := make([]key, 0, len(points))

	for _, p := range points {
		k := key{
			lat: int64(math.Round(p.Lat / precision)),
			lng: int64(math.Round(p.Lng / precision)),
		}
		b, seen := counts[k]
		if !seen {
			b = &Bucket{Lat: float64(k.lat) * precision, Lng: float64(k.lng) * precision}
			counts[k] = b
			order = append(order, k)
		}
		b.Count++
	}

	for _, k := range order {
		if b := counts[k]; b.Count > best.Count {
			best = *b
		}
	}
	return best, true
}
