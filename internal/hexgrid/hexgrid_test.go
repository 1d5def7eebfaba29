package hexgrid

import (
	"testing"
)

func TestOffsetAxialRoundtrip(t *testing.T) {
	for x := -2; x < 12; x++ {
		for y := -2; y < 12; y++ {
			c := Coord{X: x, Y: y}
			back := c.Axial().Offset()
			if back != c {
				t.Fatalf("roundtrip mismatch for %v: got %v", c, back)
			}
		}
	}
}

func TestNeighborsEvenColumn(t *testing.T) {
	c := Coord{X: 2, Y: 3}
	want := map[Direction]Coord{
		DirN:  {X: 2, Y: 2},
		DirNE: {X: 3, Y: 2},
		DirSE: {X: 3, Y: 3},
		DirS:  {X: 2, Y: 4},
		DirSW: {X: 1, Y: 3},
		DirNW: {X: 1, Y: 2},
	}
	for d, expected := range want {
		if got := c.Neighbor(d); got != expected {
			t.Fatalf("neighbor %s of %v: expected %v, got %v", d, c, expected, got)
		}
	}
}

func TestNeighborsOddColumn(t *testing.T) {
	// Odd columns are shifted down, so the diagonal rows differ from the
	// even-column case.
	c := Coord{X: 3, Y: 3}
	want := map[Direction]Coord{
		DirN:  {X: 3, Y: 2},
		DirNE: {X: 4, Y: 3},
		DirSE: {X: 4, Y: 4},
		DirS:  {X: 3, Y: 4},
		DirSW: {X: 2, Y: 4},
		DirNW: {X: 2, Y: 3},
	}
	for d, expected := range want {
		if got := c.Neighbor(d); got != expected {
			t.Fatalf("neighbor %s of %v: expected %v, got %v", d, c, expected, got)
		}
	}
}

func TestNeighborsAreAdjacent(t *testing.T) {
	origins := []Coord{{0, 0}, {1, 0}, {4, 5}, {9, 9}}
	for _, c := range origins {
		for _, n := range c.Neighbors() {
			if d := Distance(c, n); d != 1 {
				t.Fatalf("neighbor %v of %v has distance %d", n, c, d)
			}
		}
	}
}

func TestNeighborSymmetry(t *testing.T) {
	c := Coord{X: 5, Y: 4}
	for _, d := range Directions {
		n := c.Neighbor(d)
		found := false
		for _, back := range n.Neighbors() {
			if back == c {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("%v is not a neighbor of its own %s neighbor %v", c, d, n)
		}
	}
}

func TestDistance(t *testing.T) {
	cases := []struct {
		a, b Coord
		want int
	}{
		{Coord{0, 0}, Coord{0, 0}, 0},
		{Coord{0, 0}, Coord{1, 0}, 1},
		{Coord{0, 0}, Coord{0, 5}, 5},
		{Coord{0, 0}, Coord{9, 9}, 14},
		{Coord{3, 3}, Coord{2, 3}, 1},
	}
	for _, tc := range cases {
		if got := Distance(tc.a, tc.b); got != tc.want {
			t.Fatalf("distance %v -> %v: expected %d, got %d", tc.a, tc.b, tc.want, got)
		}
		if got := Distance(tc.b, tc.a); got != tc.want {
			t.Fatalf("distance should be symmetric for %v and %v", tc.a, tc.b)
		}
	}
}

func TestDirectionNames(t *testing.T) {
	want := []string{"n", "ne", "se", "s", "sw", "nw"}
	for i, d := range Directions {
		if d.String() != want[i] {
			t.Fatalf("direction %d: expected %q, got %q", i, want[i], d.String())
		}
	}
}
