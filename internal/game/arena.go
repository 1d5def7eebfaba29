package game

import (
	"hash/fnv"
	"math/rand"

	"github.com/fieldline/hexarena/internal/hexgrid"
)

const (
	arenaWidth  = 10
	arenaHeight = 10

	clumpCountMin = 3
	clumpCountMax = 5
	clumpSizeMin  = 2
	clumpSizeMax  = 5
)

const (
	ObstacleTree = "tree"
	ObstacleRock = "rock"
)

// Arena is the static board of a session: fixed dimensions plus the
// obstacle layout grown for the owning channel.
type Arena struct {
	Width     int
	Height    int
	Obstacles map[hexgrid.Coord]string
}

// arenaSeed derives the generation seed from the channel id, so the same
// channel always produces the same layout within a process and across
// restarts.
func arenaSeed(channelID string) int64 {
	h := fnv.New64a()
	h.Write([]byte(channelID))
	return int64(h.Sum64())
}

// generateArena grows obstacle clumps on a 10x10 staggered grid seeded from
// the channel id. Reserved tiles (the default spawn corners) are never
// covered, and the clump budget caps obstacles at 25 of 100 tiles, keeping
// at least 70% of the board free by construction.
func generateArena(channelID string, reserved []hexgrid.Coord) *Arena {
	rng := rand.New(rand.NewSource(arenaSeed(channelID)))
	a := &Arena{
		Width:     arenaWidth,
		Height:    arenaHeight,
		Obstacles: make(map[hexgrid.Coord]string),
	}

	reservedSet := make(map[hexgrid.Coord]bool, len(reserved))
	for _, c := range reserved {
		reservedSet[c] = true
	}

	clumps := clumpCountMin + rng.Intn(clumpCountMax-clumpCountMin+1)
	placed := 0
	attempts := 0
	maxAttempts := clumps * 10
	for placed < clumps && attempts < maxAttempts {
		attempts++
		if a.growClump(rng, reservedSet) {
			placed++
		}
	}
	return a
}

// growClump seeds one clump of a uniform kind on a free tile and expands it
// via random free neighbors. Tiles touching another clump count as
// collisions, so distinct clumps never merge. The clump is committed only
// when it reaches the minimum size; growth that stalls earlier is rolled
// back and reported as failure.
func (a *Arena) growClump(rng *rand.Rand, reserved map[hexgrid.Coord]bool) bool {
	kind := ObstacleTree
	if rng.Intn(2) == 1 {
		kind = ObstacleRock
	}
	size := clumpSizeMin + rng.Intn(clumpSizeMax-clumpSizeMin+1)

	var seed hexgrid.Coord
	attempts := 0
	maxAttempts := a.Width * a.Height
	for {
		attempts++
		if attempts > maxAttempts {
			return false
		}
		seed = hexgrid.Coord{X: rng.Intn(a.Width), Y: rng.Intn(a.Height)}
		if !a.Blocked(seed) && !reserved[seed] && !a.touchesObstacle(seed, nil) {
			break
		}
	}

	clumpSet := map[hexgrid.Coord]bool{seed: true}
	clump := []hexgrid.Coord{seed}
	for len(clump) < size {
		candidates := a.clumpCandidates(clump, clumpSet, reserved)
		if len(candidates) == 0 {
			break
		}
		next := candidates[rng.Intn(len(candidates))]
		clumpSet[next] = true
		clump = append(clump, next)
	}
	if len(clump) < clumpSizeMin {
		return false
	}
	for _, c := range clump {
		a.Obstacles[c] = kind
	}
	return true
}

// clumpCandidates lists the growth candidates of the clump in a
// deterministic order, each coordinate at most once: free in-bounds tiles
// adjacent to the clump that touch no previously committed clump.
func (a *Arena) clumpCandidates(clump []hexgrid.Coord, clumpSet, reserved map[hexgrid.Coord]bool) []hexgrid.Coord {
	seen := make(map[hexgrid.Coord]bool, len(clump)*6)
	var out []hexgrid.Coord
	for _, tile := range clump {
		for _, n := range tile.Neighbors() {
			if seen[n] || clumpSet[n] {
				continue
			}
			seen[n] = true
			if !a.InBounds(n) || a.Blocked(n) || reserved[n] || a.touchesObstacle(n, clumpSet) {
				continue
			}
			out = append(out, n)
		}
	}
	return out
}

// touchesObstacle reports whether any neighbor of c belongs to a committed
// clump. Tiles of the clump being grown are not committed yet and are
// passed in via own.
func (a *Arena) touchesObstacle(c hexgrid.Coord, own map[hexgrid.Coord]bool) bool {
	for _, n := range c.Neighbors() {
		if a.Blocked(n) && !own[n] {
			return true
		}
	}
	return false
}

// InBounds reports whether the coordinate lies on the board.
func (a *Arena) InBounds(c hexgrid.Coord) bool {
	return c.X >= 0 && c.X < a.Width && c.Y >= 0 && c.Y < a.Height
}

// Blocked reports whether an obstacle occupies the coordinate.
func (a *Arena) Blocked(c hexgrid.Coord) bool {
	_, ok := a.Obstacles[c]
	return ok
}

// FreeTileCount returns the number of tiles without an obstacle.
func (a *Arena) FreeTileCount() int {
	return a.Width*a.Height - len(a.Obstacles)
}
