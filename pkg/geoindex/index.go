// Package geoindex keeps points in a uniform lat/lng grid so that bounding box
// lookups only visit the cells overlapping the box.
package geoindex

import (
	"math"
	"sync"
)

const DefaultCellSize = 0.5

// Box is a WGS84 bounding box. MinLng > MaxLng means the box crosses the antimeridian.
type Box struct {
	MinLat, MaxLat float64
	MinLng, MaxLng float64
}

func (b Box) contains(p Point) bool {
	if p.Lat < b.MinLat || p.Lat > b.MaxLat {
		return false
	}
	if b.MinLng > b.MaxLng {
		return p.Lng >= b.MinLng || p.Lng <= b.MaxLng
	}
	return p.Lng >= b.MinLng && p.Lng <= b.MaxLng
}

// split returns one or two boxes that do not cross the antimeridian.
func (b Box) split() []Box {
	if b.MinLng <= b.MaxLng {
		return []Box{b}
	}
	return []Box{
		{MinLat: b.MinLat, MaxLat: b.MaxLat, MinLng: b.MinLng, MaxLng: 180},
		{MinLat: b.MinLat, MaxLat: b.MaxLat, MinLng: -180, MaxLng: b.MaxLng},
	}
}

type Point struct {
	Lat, Lng float64
}

type cell struct {
	row, col int
}

// Index is a concurrent grid index of points keyed by K.
type Index[K comparable] struct {
	mu       sync.RWMutex
	cellSize float64
	cells    map[cell]map[K]Point
	points   map[K]cell
}

// New creates an index with cells of cellSize degrees. Non-positive sizes fall back to DefaultCellSize.
func New[K comparable](cellSize float64) *Index[K] {
	if cellSize <= 0 {
		cellSize = DefaultCellSize
	}
	return &Index[K]{
		cellSize: cellSize,
		cells:    make(map[cell]map[K]Point),
		points:   make(map[K]cell),
	}
}

// Insert adds or moves a point.
func (x *Index[K]) Insert(id K, lat, lng float64) {
	x.mu.Lock()
	defer x.mu.Unlock()

	x.removeLocked(id)

	c := x.cellOf(lat, lng)
	bucket, ok := x.cells[c]
	if !ok {
		bucket = make(map[K]Point)
		x.cells[c] = bucket
	}
	bucket[id] = Point{Lat: lat, Lng: lng}
	x.points[id] = c
}

// Remove deletes a point. Unknown ids are ignored.
func (x *Index[K]) Remove(id K) {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.removeLocked(id)
}

func (x *Index[K]) removeLocked(id K) {
	c, ok := x.points[id]
	if !ok {
		return
	}
	delete(x.cells[c], id)
	if len(x.cells[c]) == 0 {
		delete(x.cells, c)
	}
	delete(x.points, id)
}

// Query returns ids of all points inside b, in no particular order.
func (x *Index[K]) Query(b Box) []K {
	x.mu.RLock()
	defer x.mu.RUnlock()

	var out []K
	for _, part := range b.split() {
		lo := x.cellOf(part.MinLat, part.MinLng)
		hi := x.cellOf(part.MaxLat, part.MaxLng)

		// A sparse index is cheaper to scan by cell than by grid range.
		if (hi.row-lo.row+1)*(hi.col-lo.col+1) > len(x.cells) {
			for c, bucket := range x.cells {
				if c.row < lo.row || c.row > hi.row || c.col < lo.col || c.col > hi.col {
					continue
				}
				out = appendInside(out, bucket, part)
			}
			continue
		}

		for row := lo.row; row <= hi.row; row++ {
			for col := lo.col; col <= hi.col; col++ {
				if bucket, ok := x.cells[cell{row: row, col: col}]; ok {
					out = appendInside(out, bucket, part)
				}
			}
		}
	}
	return out
}

// Len returns the number of indexed points.
func (x *Index[K]) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.points)
}

func appendInside[K comparable](out []K, bucket map[K]Point, b Box) []K {
	for id, p := range bucket {
		if b.contains(p) {
			out = append(out, id)
		}
	}
	return out
}

func (x *Index[K]) cellOf(lat, lng float64) cell {
	return cell{
		row: int(math.Floor(lat / x.cellSize)),
		col: int(math.Floor(lng / x.cellSize)),
	}
}
