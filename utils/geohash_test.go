package utils

import (
	"strings"
	"testing"
)

func TestEncodeCell_KnownVectors(t *testing.T) {
	tests := []struct {
		lat, lon  float64
		precision int
		want      string
	}{
		{57.64911, 10.40744, 6, "u4pruy"},
		{57.64911, 10.40744, 11, "u4pruydqqvj"},
		{48.8566, 2.3522, 6, "u09tvw"},
		{0, 0, 6, "s00000"},
		{-33.8688, 151.2093, 6, "r3gx2f"},
	}
	for _, tt := range tests {
		if got := EncodeCell(tt.lat, tt.lon, tt.precision); got != tt.want {
			t.Errorf("EncodeCell(%v, %v, %d) = %q, want %q", tt.lat, tt.lon, tt.precision, got, tt.want)
		}
	}
}

func TestEncodeCell_Deterministic(t *testing.T) {
	first := EncodeCell(51.5074, -0.1278, CellPrecision)
	for i := 0; i < 50; i++ {
		if got := EncodeCell(51.5074, -0.1278, CellPrecision); got != first {
			t.Fatalf("iteration %d: %q != %q", i, got, first)
		}
	}
}

func TestNormalizeCell(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"u4pruy", "u4pruy"},
		{"u4pruydqqvj", "u4pruy"}, // truncated to canonical precision
		{"U4PRUY", "u4pruy"},      // case folded
		{"  u4pruy ", "u4pruy"},
		{"u4pr", ""},    // too short
		{"", ""},        // empty
		{"u4pruA", ""},  // 'a' is not in the geohash alphabet
		{"!!!!!!", ""},  // garbage
		{"u4pril", ""},  // 'i' and 'l' excluded too
	}
	for _, tt := range tests {
		if got := NormalizeCell(tt.in); got != tt.want {
			t.Errorf("NormalizeCell(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCellCenter_RoundTrip(t *testing.T) {
	coords := [][2]float64{
		{57.64911, 10.40744},
		{48.8566, 2.3522},
		{-33.8688, 151.2093},
		{35.6762, 139.6503},
	}
	for _, c := range coords {
		cell := EncodeCell(c[0], c[1], CellPrecision)
		lat, lon, ok := CellCenter(cell)
		if !ok {
			t.Fatalf("CellCenter(%q) failed", cell)
		}
		if got := EncodeCell(lat, lon, CellPrecision); got != cell {
			t.Errorf("re-encoding center of %q gave %q", cell, got)
		}
	}
}

func TestCellsWithinRadius(t *testing.T) {
	cell := EncodeCell(48.8566, 2.3522, CellPrecision)

	ring := CellsWithinRadius(cell, 1)
	if len(ring) == 0 {
		t.Fatal("empty ring")
	}
	found := false
	for _, c := range ring {
		if c == cell {
			found = true
		}
		if len(c) != CellPrecision {
			t.Errorf("ring cell %q has wrong precision", c)
		}
	}
	if !found {
		t.Error("ring must contain the center cell")
	}
	if len(ring) < 9 {
		t.Errorf("1km ring has %d cells, want at least the 3x3 block", len(ring))
	}
}

func TestCellsWithinRadius_MonotonicInRadius(t *testing.T) {
	cell := EncodeCell(48.8566, 2.3522, CellPrecision)
	prev := 0
	for _, r := range []float64{0, 1, 2, 5, 10, 25, 50} {
		ring := CellsWithinRadius(cell, r)
		if len(ring) < prev {
			t.Fatalf("radius %v shrank the ring: %d < %d", r, len(ring), prev)
		}
		prev = len(ring)
	}
}

func TestCellsWithinRadius_InvalidCell(t *testing.T) {
	if got := CellsWithinRadius("not a cell", 5); got != nil {
		t.Errorf("invalid cell should yield nil, got %v", got)
	}
}

func TestCellsWithinRadius_CoversNeighborPoints(t *testing.T) {
	// A point ~2km east of the center must land in some ring cell when
	// the radius covers it.
	center := EncodeCell(48.8566, 2.3522, CellPrecision)
	neighbor := EncodeCell(48.8566, 2.3795, CellPrecision) // ≈2km east

	ring := CellsWithinRadius(center, 3)
	if !contains(ring, neighbor) {
		t.Errorf("3km ring %v should cover cell %q", ring, neighbor)
	}
}

func contains(cells []string, want string) bool {
	for _, c := range cells {
		if strings.EqualFold(c, want) {
			return true
		}
	}
	return false
}
