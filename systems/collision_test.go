package systems

import (
	"math"
	"testing"
)

// TestCircleIntersectsCircle verifies contact detection with the tolerance band.
func TestCircleIntersectsCircle(t *testing.T) {
	tests := []struct {
		name string
		a, b Circle
		want bool
	}{
		{"overlapping", Circle{0, 0, 10}, Circle{5, 0, 10}, true},
		{"concentric", Circle{50, 50, 3}, Circle{50, 50, 20}, true},
		{"exactly touching", Circle{0, 0, 10}, Circle{20, 0, 10}, true},
		{"gap inside tolerance", Circle{0, 0, 10}, Circle{20.5, 0, 10}, true},
		{"gap equal to tolerance", Circle{0, 0, 10}, Circle{21, 0, 10}, false},
		{"far apart", Circle{0, 0, 10}, Circle{100, 100, 10}, false},
		{"diagonal contact", Circle{0, 0, 5}, Circle{6, 8, 5}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := CircleIntersectsCircle(tc.a, tc.b, 1)
			if got != tc.want {
				t.Errorf("CircleIntersectsCircle(%v, %v) = %v, want %v", tc.a, tc.b, got, tc.want)
			}
		})
	}
}

// TestCircleIntersectsCircleSymmetric checks collides(A,B) == collides(B,A) over a sweep of pairs.
func TestCircleIntersectsCircleSymmetric(t *testing.T) {
	for i := 0; i < 40; i++ {
		for j := 0; j < 40; j++ {
			a := Circle{X: float32(i * 7 % 53), Y: float32(i * 13 % 47), R: float32(1 + i%9)}
			b := Circle{X: float32(j * 11 % 59), Y: float32(j * 5 % 41), R: float32(1 + j%7)}
			if CircleIntersectsCircle(a, b, 1) != CircleIntersectsCircle(b, a, 1) {
				t.Fatalf("asymmetric result for %v and %v", a, b)
			}
		}
	}
}

// TestRectIntersectsCircle covers the edge, inside and corner regions.
func TestRectIntersectsCircle(t *testing.T) {
	r := Rect{X: 100, Y: 100, W: 10, H: 5}

	tests := []struct {
		name string
		c    Circle
		want bool
	}{
		{"center inside", Circle{105, 102, 1}, true},
		{"left edge overlap", Circle{95, 102, 6}, true},
		{"left edge miss", Circle{90, 102, 6}, false},
		{"above overlap", Circle{105, 95, 6}, true},
		{"below miss", Circle{105, 115, 5}, false},
		{"corner overlap", Circle{113, 108, 5}, true},
		{"corner miss", Circle{114, 109, 5}, false},
		{"huge circle engulfs rect", Circle{105, 102, 100}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := RectIntersectsCircle(r, tc.c)
			if got != tc.want {
				t.Errorf("RectIntersectsCircle(%v, %v) = %v, want %v", r, tc.c, got, tc.want)
			}
		})
	}
}

// TestOutsideBounds checks that only a fully exited rectangle counts as outside.
func TestOutsideBounds(t *testing.T) {
	const w, h = 200, 100

	tests := []struct {
		name string
		r    Rect
		want bool
	}{
		{"inside", Rect{50, 50, 10, 5}, false},
		{"straddling left", Rect{-5, 50, 10, 5}, false},
		{"touching left", Rect{-10, 50, 10, 5}, false},
		{"past left", Rect{-10.5, 50, 10, 5}, true},
		{"straddling right", Rect{195, 50, 10, 5}, false},
		{"past right", Rect{200.5, 50, 10, 5}, true},
		{"past top", Rect{50, -5.5, 10, 5}, true},
		{"past bottom", Rect{50, 100.5, 10, 5}, true},
		{"straddling bottom", Rect{50, 98, 10, 5}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.r.OutsideBounds(w, h); got != tc.want {
				t.Errorf("OutsideBounds(%v) = %v, want %v", tc.r, got, tc.want)
			}
		})
	}
}

func TestBounce(t *testing.T) {
	tests := []struct {
		name           string
		c              Circle
		vx, vy         float32
		wantVX, wantVY float32
	}{
		{"free flight", Circle{50, 50, 10}, 2, -1, 2, -1},
		{"right wall", Circle{195, 50, 10}, 2, 1, -2, 1},
		{"left wall", Circle{5, 50, 10}, -2, 1, 2, 1},
		{"bottom wall", Circle{50, 95, 10}, 2, 1, 2, -1},
		{"corner reflects both", Circle{5, 5, 10}, -1, -1, 1, 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			vx, vy := Bounce(tc.c, tc.vx, tc.vy, 200, 100)
			if vx != tc.wantVX || vy != tc.wantVY {
				t.Errorf("Bounce = (%v, %v), want (%v, %v)", vx, vy, tc.wantVX, tc.wantVY)
			}
		})
	}
}

func TestContainDisk(t *testing.T) {
	tests := []struct {
		name         string
		x, y, r      float32
		wantX, wantY float32
	}{
		{"already inside", 50, 50, 10, 50, 50},
		{"past right", 195, 50, 10, 190, 50},
		{"past left", 3, 50, 10, 10, 50},
		{"past bottom", 50, 98, 10, 50, 90},
		{"taller than arena", 50, 50, 60, 60, 50},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			x, y := ContainDisk(tc.x, tc.y, tc.r, 200, 100)
			if x != tc.wantX || y != tc.wantY {
				t.Errorf("ContainDisk = (%v, %v), want (%v, %v)", x, y, tc.wantX, tc.wantY)
			}
		})
	}
}

// TestShotDirection verifies zero velocity components default to the positive direction.
func TestShotDirection(t *testing.T) {
	tests := []struct {
		name           string
		vx, vy         float32
		wantDX, wantDY float32
	}{
		{"stationary", 0, 0, 5, 5},
		{"moving left", -2, 0, -5, 5},
		{"moving up right", 0.3, -1.7, 5, -5},
		{"negative zero", float32(math.Copysign(0, -1)), 0, 5, 5},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			dx, dy := ShotDirection(tc.vx, tc.vy, 5)
			if math.IsNaN(float64(dx)) || math.IsNaN(float64(dy)) {
				t.Fatalf("ShotDirection produced NaN")
			}
			if dx != tc.wantDX || dy != tc.wantDY {
				t.Errorf("ShotDirection(%v, %v) = (%v, %v), want (%v, %v)", tc.vx, tc.vy, dx, dy, tc.wantDX, tc.wantDY)
			}
		})
	}
}
