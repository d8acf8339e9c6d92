package service

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestBarycentricPointVertices(t *testing.T) {
	tests := []struct {
		name                      string
		employee, manager, leader float64
		wantX, wantY              float64
	}{
		{"all employee", 5, 0, 0, 0, 0},
		{"all manager", 0, 5, 0, 1, 0},
		{"all leader", 0, 0, 5, 0.5, math.Sqrt(3) / 2},
		{"equal weights hit centroid", 3, 3, 3, 0.5, math.Sqrt(3) / 6},
		{"zero weights default to centroid", 0, 0, 0, 0.5, math.Sqrt(3) / 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := BarycentricPoint(tt.employee, tt.manager, tt.leader)
			if !almostEqual(x, tt.wantX) || !almostEqual(y, tt.wantY) {
				t.Fatalf("BarycentricPoint() = (%v, %v), want (%v, %v)", x, y, tt.wantX, tt.wantY)
			}
		})
	}
}

func TestBarycentricPointStaysInsideTriangle(t *testing.T) {
	weights := []struct{ e, m, l float64 }{
		{1, 2, 3},
		{4.3, 1.1, 2.8},
		{0.1, 0.1, 4.9},
		{5, 5, 0.01},
	}

	for _, w := range weights {
		x, y := BarycentricPoint(w.e, w.m, w.l)
		if x < 0 || x > 1 {
			t.Fatalf("x = %v out of range for %+v", x, w)
		}
		if y < 0 || y > math.Sqrt(3)/2 {
			t.Fatalf("y = %v out of range for %+v", y, w)
		}
	}
}

func TestBarycentricPointSkewsTowardDominantRole(t *testing.T) {
	// A manager-heavy department should sit closer to the manager vertex
	// than a balanced one.
	bx, _ := BarycentricPoint(3, 3, 3)
	mx, _ := BarycentricPoint(1, 5, 1)
	if mx <= bx {
		t.Fatalf("manager-heavy x %v not right of balanced x %v", mx, bx)
	}
}
