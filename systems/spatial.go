package systems

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Neighbor is an item found by a radius query.
type Neighbor struct {
	Index  int     // as passed to Insert
	DistSq float64 // squared distance from the query origin
}

type cellKey struct{ x, y, z int32 }

type gridItem struct {
	index int
	pos   r3.Vec
}

// SpatialGrid is a sparse 3D hash of cubic cells for neighbor lookups in an
// unbounded sea. It stores indices into a caller-owned slice.
type SpatialGrid struct {
	cellSize float64
	cells    map[cellKey][]gridItem
}

// NewSpatialGrid creates a grid with the given cell edge length in m.
func NewSpatialGrid(cellSize float64) *SpatialGrid {
	return &SpatialGrid{
		cellSize: cellSize,
		cells:    make(map[cellKey][]gridItem),
	}
}

// Clear removes all items from the grid.
func (g *SpatialGrid) Clear() {
	clear(g.cells)
}

// Insert adds item index at pos.
func (g *SpatialGrid) Insert(index int, pos r3.Vec) {
	k := g.key(pos)
	g.cells[k] = append(g.cells[k], gridItem{index: index, pos: pos})
}

// QueryRadiusInto appends every item within radius of pos (inclusive) to
// dst and returns it. Reuse dst across calls to avoid allocations.
func (g *SpatialGrid) QueryRadiusInto(dst []Neighbor, pos r3.Vec, radius float64) []Neighbor {
	lo := g.key(r3.Sub(pos, r3.Vec{X: radius, Y: radius, Z: radius}))
	hi := g.key(r3.Add(pos, r3.Vec{X: radius, Y: radius, Z: radius}))
	radiusSq := radius * radius

	for x := lo.x; x <= hi.x; x++ {
		for y := lo.y; y <= hi.y; y++ {
			for z := lo.z; z <= hi.z; z++ {
				for _, it := range g.cells[cellKey{x, y, z}] {
					d := r3.Norm2(r3.Sub(it.pos, pos))
					if d <= radiusSq {
						dst = append(dst, Neighbor{Index: it.index, DistSq: d})
					}
				}
			}
		}
	}
	return dst
}

func (g *SpatialGrid) key(pos r3.Vec) cellKey {
	return cellKey{
		x: int32(math.Floor(pos.X / g.cellSize)),
		y: int32(math.Floor(pos.Y / g.cellSize)),
		z: int32(math.Floor(pos.Z / g.cellSize)),
	}
}
