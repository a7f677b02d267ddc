package spatial

import (
	"testing"
)

// TestNewGrid verifies construction fails fast on bad cell sizes
func TestNewGrid(t *testing.T) {
	tests := []struct {
		name     string
		cellSize float64
		wantErr  bool
	}{
		{"standard cell size", 4.0, false},
		{"small cell size", 0.5, false},
		{"zero cell size", 0, true},
		{"negative cell size", -2, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := NewGrid(tt.cellSize)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("NewGrid(%v) expected error, got nil", tt.cellSize)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewGrid(%v) unexpected error: %v", tt.cellSize, err)
			}
			if g.CellSize() != tt.cellSize {
				t.Errorf("CellSize() = %v, want %v", g.CellSize(), tt.cellSize)
			}
		})
	}
}

func contains(ids []uint32, id uint32) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// TestInsertQuery verifies an inserted id is returned by neighborhood queries
func TestInsertQuery(t *testing.T) {
	g, _ := NewGrid(4.0)
	g.Insert(1, BBox{MinX: 9, MinZ: 9, MaxX: 11, MaxZ: 11})

	if ids := g.QueryNeighborhood(10, 10); !contains(ids, 1) {
		t.Error("expected id 1 in neighborhood of (10,10)")
	}
	// One cell over is still within the 3x3 block.
	if ids := g.QueryNeighborhood(14, 10); !contains(ids, 1) {
		t.Error("expected id 1 in neighborhood of (14,10)")
	}
	// Far away should miss.
	if ids := g.QueryNeighborhood(100, 100); contains(ids, 1) {
		t.Error("did not expect id 1 in neighborhood of (100,100)")
	}
}

// TestQueryDeduplicates verifies an entry spanning several cells appears once
func TestQueryDeduplicates(t *testing.T) {
	g, _ := NewGrid(2.0)
	// Box spanning a 4x4 block of 2-unit cells.
	g.Insert(7, BBox{MinX: 0, MinZ: 0, MaxX: 7, MaxZ: 7})

	ids := g.QueryRadius(4, 4, 6)
	count := 0
	for _, id := range ids {
		if id == 7 {
			count++
		}
	}
	if count != 1 {
		t.Errorf("expected id 7 exactly once, got %d occurrences", count)
	}
}

// TestRemove verifies removal empties every occupied cell
func TestRemove(t *testing.T) {
	g, _ := NewGrid(4.0)
	g.Insert(3, BBox{MinX: -2, MinZ: -2, MaxX: 10, MaxZ: 10})

	if !g.Remove(3) {
		t.Fatal("Remove(3) = false, want true")
	}
	if g.Remove(3) {
		t.Error("second Remove(3) = true, want false")
	}

	// No cell may still return the id.
	for x := -8.0; x <= 16; x += 4 {
		for z := -8.0; z <= 16; z += 4 {
			if contains(g.QueryNeighborhood(x, z), 3) {
				t.Fatalf("stale id 3 at (%v,%v) after remove", x, z)
			}
		}
	}
	if g.Len() != 0 {
		t.Errorf("Len() = %d after remove, want 0", g.Len())
	}
}

// TestUpdate verifies membership moves atomically to the new bbox
func TestUpdate(t *testing.T) {
	g, _ := NewGrid(4.0)
	g.Insert(5, BBox{MinX: 0, MinZ: 0, MaxX: 2, MaxZ: 2})

	if !g.Update(5, BBox{MinX: 40, MinZ: 40, MaxX: 42, MaxZ: 42}) {
		t.Fatal("Update(5) = false, want true")
	}
	if contains(g.QueryNeighborhood(1, 1), 5) {
		t.Error("stale id 5 at old position after update")
	}
	if !contains(g.QueryNeighborhood(41, 41), 5) {
		t.Error("id 5 missing at new position after update")
	}

	if g.Update(99, BBox{}) {
		t.Error("Update(99) on unknown id = true, want false")
	}
}

// TestClear verifies bulk teardown empties the grid
func TestClear(t *testing.T) {
	g, _ := NewGrid(4.0)
	for id := uint32(1); id <= 10; id++ {
		f := float64(id) * 3
		g.Insert(id, BBox{MinX: f, MinZ: f, MaxX: f + 1, MaxZ: f + 1})
	}

	g.Clear()
	if g.Len() != 0 {
		t.Errorf("Len() = %d after clear, want 0", g.Len())
	}
	stats := g.Stats()
	if stats.NonEmptyCells != 0 || stats.TotalCellIDs != 0 {
		t.Errorf("Stats() = %+v after clear, want empty", stats)
	}
}

// TestQueryRadius verifies the computed cell radius covers the query circle
func TestQueryRadius(t *testing.T) {
	g, _ := NewGrid(4.0)
	g.Insert(1, BBox{MinX: 19, MinZ: 0, MaxX: 21, MaxZ: 2}) // ~20 units away

	if ids := g.QueryRadius(0, 0, 22); !contains(ids, 1) {
		t.Error("expected id 1 within radius 22")
	}
	if ids := g.QueryRadius(0, 0, 4); contains(ids, 1) {
		t.Error("did not expect id 1 within radius 4")
	}
}

// BenchmarkQueryNeighborhood measures the broad-phase hot path
func BenchmarkQueryNeighborhood(b *testing.B) {
	g, _ := NewGrid(4.0)
	for id := uint32(0); id < 1000; id++ {
		f := float64(id%100) * 2
		z := float64(id/100) * 2
		g.Insert(id, BBox{MinX: f, MinZ: z, MaxX: f + 1, MaxZ: z + 1})
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		g.QueryNeighborhood(float64(i%100), float64(i%20))
	}
}
