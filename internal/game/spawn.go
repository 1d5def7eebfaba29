package game

import (
	"github.com/fieldline/hexarena/internal/hexgrid"
)

// placeSpawn returns the preferred tile when it is free, otherwise the
// nearest free tile found by breadth-first search over hex adjacency.
// The search expands ring by ring through blocked tiles (placement distance,
// not walkability) and visits neighbors in canonical direction order, so
// placement is deterministic for a given board state. Returns ErrNoFreeTile
// when the whole board is saturated.
func placeSpawn(a *Arena, preferred hexgrid.Coord, occupied map[hexgrid.Coord]bool) (hexgrid.Coord, error) {
	free := func(c hexgrid.Coord) bool {
		return a.InBounds(c) && !a.Blocked(c) && !occupied[c]
	}
	if free(preferred) {
		return preferred, nil
	}

	visited := map[hexgrid.Coord]bool{preferred: true}
	queue := []hexgrid.Coord{preferred}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, n := range cur.Neighbors() {
			if visited[n] || !a.InBounds(n) {
				continue
			}
			visited[n] = true
			if free(n) {
				return n, nil
			}
			queue = append(queue, n)
		}
	}
	return hexgrid.Coord{}, ErrNoFreeTile
}
