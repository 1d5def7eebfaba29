// Package hexgrid provides coordinate math for a flat-top hex grid laid out
// in staggered offset columns (odd columns shifted down half a tile).
// Axial coordinates (q, r) are used for adjacency and distance; the third
// cube coordinate is derived: s = -q - r.
package hexgrid

// Coord is a position on the staggered grid. X is the column, Y the row.
type Coord struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Axial is the same position in axial coordinates.
type Axial struct {
	Q int
	R int
}

// S returns the implicit third cube coordinate.
func (a Axial) S() int {
	return -a.Q - a.R
}

// Direction indexes the six neighbors of a flat-top hex, clockwise from
// north. The order is fixed; iteration over it must stay deterministic.
type Direction int

const (
	DirN Direction = iota
	DirNE
	DirSE
	DirS
	DirSW
	DirNW
)

var directionNames = [6]string{"n", "ne", "se", "s", "sw", "nw"}

func (d Direction) String() string {
	if d < 0 || int(d) >= len(directionNames) {
		return "invalid"
	}
	return directionNames[d]
}

// Directions lists all six directions in their canonical clockwise order.
var Directions = [6]Direction{DirN, DirNE, DirSE, DirS, DirSW, DirNW}

// directionVectors holds the axial offset per Direction, same order.
var directionVectors = [6]Axial{
	{Q: 0, R: -1},
	{Q: 1, R: -1},
	{Q: 1, R: 0},
	{Q: 0, R: 1},
	{Q: -1, R: 1},
	{Q: -1, R: 0},
}

// Axial converts a staggered offset coordinate to axial (odd-q layout).
func (c Coord) Axial() Axial {
	return Axial{Q: c.X, R: c.Y - (c.X-(c.X&1))/2}
}

// Offset converts an axial coordinate back to the staggered offset pair.
func (a Axial) Offset() Coord {
	return Coord{X: a.Q, Y: a.R + (a.Q-(a.Q&1))/2}
}

// Neighbor returns the adjacent coordinate in the given direction.
func (c Coord) Neighbor(d Direction) Coord {
	a := c.Axial()
	v := directionVectors[d]
	return Axial{Q: a.Q + v.Q, R: a.R + v.R}.Offset()
}

// Neighbors returns the six adjacent coordinates in canonical order.
func (c Coord) Neighbors() [6]Coord {
	var out [6]Coord
	for i, d := range Directions {
		out[i] = c.Neighbor(d)
	}
	return out
}

// Distance returns the hex distance between two coordinates, the maximum of
// the three absolute cube-coordinate differences.
func Distance(a, b Coord) int {
	aa, ba := a.Axial(), b.Axial()
	dq := abs(aa.Q - ba.Q)
	dr := abs(aa.R - ba.R)
	ds := abs(aa.S() - ba.S())
	max := dq
	if dr > max {
		max = dr
	}
	if ds > max {
		max = ds
	}
	return max
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
