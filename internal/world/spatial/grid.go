// Package spatial provides the cell-keyed spatial hash used for broad-phase
// candidate queries against mostly-static room geometry.
//
// The grid stores integer ids only, never geometry. Entries may span several
// cells; per-id cell membership is tracked so removal and repositioning never
// leave stale ids behind.
package spatial

import (
	"fmt"
	"math"
)

// BBox is an axis-aligned bounding box on the XZ ground plane.
// For rotated boxes the caller must supply the AABB of the rotated corners,
// not the unrotated extents.
type BBox struct {
	MinX, MinZ float64
	MaxX, MaxZ float64
}

// CellKey identifies a grid cell: (floor(x/cellSize), floor(z/cellSize)).
type CellKey struct {
	X, Z int
}

// Grid is a uniform spatial hash over an unbounded ground plane.
// Insert/Remove/Update are O(cells overlapped); queries are O(candidates).
//
// Cell size should approximate twice the typical object extent so most
// entries land in one to four cells. It is fixed at construction.
//
// Grid is not safe for concurrent use; the owning world holds the lock.
type Grid struct {
	cellSize    float64
	invCellSize float64 // 1/cellSize for faster division

	cells   map[CellKey][]uint32
	entries map[uint32][]CellKey // id -> occupied cells, for remove/update

	scratch []uint32            // reusable query buffer
	seen    map[uint32]struct{} // dedupes multi-cell entries per query
}

// NewGrid creates a grid with the given cell size.
// A zero or negative cell size is a configuration error, not something that
// can be defaulted safely, so construction fails fast.
func NewGrid(cellSize float64) (*Grid, error) {
	if cellSize <= 0 {
		return nil, fmt.Errorf("spatial: cell size must be positive, got %v", cellSize)
	}
	return &Grid{
		cellSize:    cellSize,
		invCellSize: 1.0 / cellSize,
		cells:       make(map[CellKey][]uint32),
		entries:     make(map[uint32][]CellKey),
		scratch:     make([]uint32, 0, 64),
		seen:        make(map[uint32]struct{}, 64),
	}, nil
}

// cellCoord maps a world coordinate to a cell coordinate.
func (g *Grid) cellCoord(v float64) int {
	return int(math.Floor(v * g.invCellSize))
}

// cellsForBBox computes every cell overlapped by the bounding box.
func (g *Grid) cellsForBBox(bbox BBox) []CellKey {
	minX := g.cellCoord(bbox.MinX)
	maxX := g.cellCoord(bbox.MaxX)
	minZ := g.cellCoord(bbox.MinZ)
	maxZ := g.cellCoord(bbox.MaxZ)

	cells := make([]CellKey, 0, (maxX-minX+1)*(maxZ-minZ+1))
	for cz := minZ; cz <= maxZ; cz++ {
		for cx := minX; cx <= maxX; cx++ {
			cells = append(cells, CellKey{X: cx, Z: cz})
		}
	}
	return cells
}

// Insert adds an id covering the given bounding box.
// Re-inserting an existing id replaces its membership (same as Update).
func (g *Grid) Insert(id uint32, bbox BBox) {
	if _, ok := g.entries[id]; ok {
		g.Update(id, bbox)
		return
	}
	cells := g.cellsForBBox(bbox)
	g.entries[id] = cells
	for _, key := range cells {
		g.cells[key] = append(g.cells[key], id)
	}
}

// Remove deletes an id from every cell it occupies.
// Returns false if the id is unknown.
func (g *Grid) Remove(id uint32) bool {
	cells, ok := g.entries[id]
	if !ok {
		return false
	}
	g.removeFromCells(id, cells)
	delete(g.entries, id)
	return true
}

// Update atomically moves an id to the cells of a new bounding box.
// Returns false if the id is unknown.
func (g *Grid) Update(id uint32, bbox BBox) bool {
	old, ok := g.entries[id]
	if !ok {
		return false
	}
	g.removeFromCells(id, old)

	cells := g.cellsForBBox(bbox)
	g.entries[id] = cells
	for _, key := range cells {
		g.cells[key] = append(g.cells[key], id)
	}
	return true
}

func (g *Grid) removeFromCells(id uint32, cells []CellKey) {
	for _, key := range cells {
		bucket := g.cells[key]
		for i := range bucket {
			if bucket[i] != id {
				continue
			}
			// Swap-remove; bucket order is not meaningful.
			bucket[i] = bucket[len(bucket)-1]
			bucket = bucket[:len(bucket)-1]
			break
		}
		if len(bucket) == 0 {
			delete(g.cells, key)
		} else {
			g.cells[key] = bucket
		}
	}
}

// Clear removes every entry. The grid keeps its cell size.
func (g *Grid) Clear() {
	g.cells = make(map[CellKey][]uint32)
	g.entries = make(map[uint32][]CellKey)
}

// QueryNeighborhood returns candidate ids in the 3x3 block of cells centered
// on the cell containing (x, z). The result is a superset: the caller must
// narrow-phase filter it.
//
// IMPORTANT: The returned slice is reused on subsequent calls.
// Copy the results if you need to persist them.
func (g *Grid) QueryNeighborhood(x, z float64) []uint32 {
	return g.queryCellRange(g.cellCoord(x), g.cellCoord(z), 1)
}

// QueryRadius returns candidate ids within ceil(radius/cellSize) cells of the
// cell containing (x, z). Same superset/reuse caveats as QueryNeighborhood.
func (g *Grid) QueryRadius(x, z, radius float64) []uint32 {
	cellRadius := int(math.Ceil(radius * g.invCellSize))
	return g.queryCellRange(g.cellCoord(x), g.cellCoord(z), cellRadius)
}

// queryCellRange collects deduplicated ids from the (2r+1)x(2r+1) cell block.
func (g *Grid) queryCellRange(cx, cz, r int) []uint32 {
	g.scratch = g.scratch[:0]
	clear(g.seen)

	for dz := -r; dz <= r; dz++ {
		for dx := -r; dx <= r; dx++ {
			bucket, ok := g.cells[CellKey{X: cx + dx, Z: cz + dz}]
			if !ok {
				continue
			}
			for _, id := range bucket {
				if _, dup := g.seen[id]; dup {
					continue // entry spans multiple cells in range
				}
				g.seen[id] = struct{}{}
				g.scratch = append(g.scratch, id)
			}
		}
	}
	return g.scratch
}

// Len returns the number of tracked entries.
func (g *Grid) Len() int {
	return len(g.entries)
}

// CellSize returns the fixed cell size.
func (g *Grid) CellSize() float64 {
	return g.cellSize
}

// Stats returns grid occupancy statistics for debugging/profiling.
func (g *Grid) Stats() GridStats {
	var totalIDs, maxInCell int
	for _, bucket := range g.cells {
		count := len(bucket)
		totalIDs += count
		if count > maxInCell {
			maxInCell = count
		}
	}

	avgPerCell := 0.0
	if len(g.cells) > 0 {
		avgPerCell = float64(totalIDs) / float64(len(g.cells))
	}

	return GridStats{
		Entries:        len(g.entries),
		NonEmptyCells:  len(g.cells),
		TotalCellIDs:   totalIDs,
		MaxInCell:      maxInCell,
		AvgPerNonEmpty: avgPerCell,
	}
}

// GridStats contains grid occupancy statistics.
type GridStats struct {
	Entries        int
	NonEmptyCells  int
	TotalCellIDs   int
	MaxInCell      int
	AvgPerNonEmpty float64
}
