package game

import (
	"github.com/fieldline/hexarena/internal/hexgrid"
)

// Policy decides one command for an NPC-role participant whose turn has
// come. It runs inside the session's critical section and sees consistent
// state. Implementations should prefer commands that succeed; the executor
// falls back to a self-heal if the decision is rejected, so an NPC turn
// always completes.
type Policy interface {
	Decide(s *Session, actor *Participant) Command
}

// defaultPolicy drives every synthetic and auto-NPC participant.
var defaultPolicy Policy = meleePolicy{}

// meleePolicy is the stock behavior: strike an adjacent human, otherwise
// step toward the nearest active human, otherwise patch up.
type meleePolicy struct{}

func (meleePolicy) Decide(s *Session, actor *Participant) Command {
	target := s.nearestActiveHuman(actor)
	if target == nil {
		return Command{Action: ActionHeal}
	}
	if hexgrid.Distance(actor.Pos, target.Pos) == 1 {
		return Command{Action: ActionAttack, TargetID: target.ID}
	}

	occupied := s.occupiedTiles()
	best := Command{Action: ActionHeal}
	bestDist := -1
	for _, d := range hexgrid.Directions {
		n := actor.Pos.Neighbor(d)
		if !s.arena.InBounds(n) || s.arena.Blocked(n) || occupied[n] {
			continue
		}
		// Canonical direction order breaks distance ties.
		if dist := hexgrid.Distance(n, target.Pos); bestDist == -1 || dist < bestDist {
			bestDist = dist
			best = Command{Action: actionMovePrefix + d.String()}
		}
	}
	return best
}
