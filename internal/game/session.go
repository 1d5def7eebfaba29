package game

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fieldline/hexarena/internal/hexgrid"
)

const baselineNPCCount = 2

// Default spawn tiles. They are reserved during arena generation, so the
// baseline seeding normally lands exactly here; late joiners start from the
// board center and spill outward by BFS.
var (
	humanSpawn  = hexgrid.Coord{X: 0, Y: 0}
	npcSpawns   = [baselineNPCCount]hexgrid.Coord{{X: 9, Y: 9}, {X: 0, Y: 9}}
	centerSpawn = hexgrid.Coord{X: 4, Y: 4}
)

func reservedSpawns() []hexgrid.Coord {
	return []hexgrid.Coord{humanSpawn, npcSpawns[0], npcSpawns[1]}
}

// Session is the per-channel game aggregate: one arena, the participant set
// with its turn order, and the mutex serializing every mutation. All state
// lives in process memory for the lifetime of the process.
type Session struct {
	ChannelID string
	CreatedAt time.Time

	arena        *Arena
	participants map[string]*Participant
	turns        turnState

	events     Broadcaster
	transcript *Transcript

	mu sync.Mutex
}

func newSession(channelID, firstUserID string, events Broadcaster, transcript *Transcript) (*Session, error) {
	if events == nil {
		events = nopBroadcaster{}
	}
	s := &Session{
		ChannelID:    channelID,
		CreatedAt:    time.Now().UTC(),
		arena:        generateArena(channelID, reservedSpawns()),
		participants: make(map[string]*Participant),
		events:       events,
		transcript:   transcript,
	}
	if err := s.ensureBaseline(firstUserID); err != nil {
		return nil, err
	}
	return s, nil
}

// ensureBaseline seeds the first joiner as the human plus two synthetic
// NPCs. Runs exactly once, before the session is published to the registry.
func (s *Session) ensureBaseline(firstUserID string) error {
	if _, err := s.spawnParticipant(firstUserID, RoleHuman, humanSpawn); err != nil {
		return err
	}
	for i := 0; i < baselineNPCCount; i++ {
		id := "npc-" + uuid.NewString()
		if _, err := s.spawnParticipant(id, RoleNPC, npcSpawns[i]); err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) spawnParticipant(id string, role Role, preferred hexgrid.Coord) (*Participant, error) {
	pos, err := placeSpawn(s.arena, preferred, s.occupiedTiles())
	if err != nil {
		return nil, fmt.Errorf("spawn %s: %w", id, err)
	}
	p := newParticipant(id, role, pos)
	s.participants[id] = p
	s.turns.add(id)
	return p, nil
}

// Join applies the join policy for a user and returns the snapshot for the
// joining connection. Channel members other than the joiner receive a state
// update; the joiner's own bootstrap is the returned snapshot.
func (s *Session) Join(userID string) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.participants[userID]
	switch {
	case p == nil:
		role := RoleNPC
		preferred := centerSpawn
		if s.humanLocked() == nil {
			role = RoleHuman
			preferred = humanSpawn
		}
		var err error
		if p, err = s.spawnParticipant(userID, role, preferred); err != nil {
			return Snapshot{}, err
		}
		s.transcript.Event(s.ChannelID, "join", fmt.Sprintf("%s entered as %s", userID, p.Role))
	default:
		// Returning participant. Defeated ones stay down; everyone else is
		// reactivated, and the human slot is claimed when vacant.
		if !p.Active && p.Health > 0 {
			p.Active = true
		}
		if p.IsNPC() && p.Active && s.humanLocked() == nil {
			p.promote()
			s.transcript.Event(s.ChannelID, "promote", fmt.Sprintf("%s took the human slot", userID))
		}
	}

	s.broadcastLocked(userID)
	// The pointer may have been parked on an NPC while no human was
	// around; with a human present again the NPC turns play out now.
	s.runNPCTurnsLocked()
	return s.snapshotLocked(), nil
}

// Leave marks a departing user's participant inactive. A departing human
// vacates the human slot for the next joiner. If the leaver held the turn,
// the pointer moves on so the session cannot stall.
func (s *Session) Leave(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.participants[userID]
	if p == nil {
		return
	}
	heldTurn := p.Active && s.turns.active == p.ID
	p.Active = false
	if p.Role == RoleHuman {
		p.demote()
		s.transcript.Event(s.ChannelID, "leave", fmt.Sprintf("%s left, human slot vacant", userID))
	}
	if heldTurn {
		s.turns.advance(s.isActive)
	}
	s.broadcastLocked()
	if heldTurn {
		s.runNPCTurnsLocked()
	}
}

// Apply validates and executes one command on behalf of a user, returning
// the result for that user's connection. Successful actions broadcast a
// state update and, unless forced, advance the turn; NPC turns then play
// out synchronously inside the same critical section.
func (s *Session) Apply(userID string, cmd Command) ActionResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.participants[userID]
	if p == nil || !p.Active {
		return failureResult(userID, cmd, s.turns.active, ErrOutOfTurn)
	}
	holdsTurn := s.turns.active == p.ID
	if !holdsTurn && !cmd.Force {
		return failureResult(userID, cmd, s.turns.active, ErrOutOfTurn)
	}
	// A force flag from the turn holder is ignored: force exists as an
	// out-of-turn escape hatch, not a way to keep the turn.
	forced := cmd.Force && !holdsTurn

	msg, targetID, err := s.executeLocked(p, cmd)
	if err != nil {
		return failureResult(userID, cmd, s.turns.active, err)
	}
	if !forced {
		s.turns.advance(s.isActive)
	}
	s.broadcastLocked()

	result := ActionResult{
		Success:    true,
		ActionType: cmd.Action,
		ExecutorID: p.ID,
		TargetID:   targetID,
		Message:    msg,
	}
	s.runNPCTurnsLocked()
	result.ActiveTurnUserID = s.turns.active
	return result
}

// runNPCTurnsLocked plays NPC turns until the pointer lands on a human or
// no active human remains. Each NPC action broadcasts its own update, so
// observers see the same sequence a human-driven session would produce.
func (s *Session) runNPCTurnsLocked() {
	for {
		actor := s.participants[s.turns.active]
		if actor == nil || !actor.Active || !actor.IsNPC() {
			return
		}
		if s.nearestActiveHuman(actor) == nil {
			return
		}
		policy := actor.policy
		if policy == nil {
			policy = defaultPolicy
		}
		cmd := policy.Decide(s, actor)
		if _, _, err := s.executeLocked(actor, cmd); err != nil {
			// The policy promised a valid command; a self-heal always
			// succeeds and still ends the turn.
			_, _, _ = s.executeLocked(actor, Command{Action: ActionHeal})
		}
		s.turns.advance(s.isActive)
		s.broadcastLocked()
	}
}

func (s *Session) executeLocked(p *Participant, cmd Command) (message, targetID string, err error) {
	if d, ok := moveDirection(cmd.Action); ok {
		return s.executeMove(p, d)
	}
	switch cmd.Action {
	case ActionAttack:
		return s.executeAttack(p, cmd.TargetID)
	case ActionHeal:
		return s.executeHeal(p, cmd.TargetID)
	default:
		return "", "", ErrInvalidCommand
	}
}

func (s *Session) executeMove(p *Participant, d hexgrid.Direction) (string, string, error) {
	dest := p.Pos.Neighbor(d)
	if !s.arena.InBounds(dest) || s.arena.Blocked(dest) || s.participantAt(dest) != nil {
		return "", "", ErrBlocked
	}
	p.Pos = dest
	return "moved " + d.String(), "", nil
}

func (s *Session) executeAttack(p *Participant, targetID string) (string, string, error) {
	if targetID == "" || targetID == p.ID {
		return "", "", ErrUnknownTarget
	}
	t := s.participants[targetID]
	if t == nil || !t.Active {
		return "", "", ErrUnknownTarget
	}
	if hexgrid.Distance(p.Pos, t.Pos) != 1 {
		return "", "", ErrOutOfRange
	}
	t.takeDamage(AttackDamage)
	if !t.Active {
		s.transcript.Event(s.ChannelID, "defeat", fmt.Sprintf("%s defeated %s", p.ID, t.ID))
		return fmt.Sprintf("defeated %s", t.ID), t.ID, nil
	}
	return fmt.Sprintf("hit %s for %d", t.ID, AttackDamage), t.ID, nil
}

func (s *Session) executeHeal(p *Participant, targetID string) (string, string, error) {
	if targetID == "" {
		targetID = p.ID
	}
	t := s.participants[targetID]
	if t == nil || !t.Active || (t.ID != p.ID && t.Role != p.Role) {
		return "", "", ErrUnknownTarget
	}
	t.restore(HealAmount)
	if t.ID == p.ID {
		return fmt.Sprintf("healed for %d", HealAmount), t.ID, nil
	}
	return fmt.Sprintf("healed %s for %d", t.ID, HealAmount), t.ID, nil
}

func failureResult(userID string, cmd Command, activeID string, err error) ActionResult {
	return ActionResult{
		Success:          false,
		ActionType:       cmd.Action,
		ExecutorID:       userID,
		ActiveTurnUserID: activeID,
		TargetID:         cmd.TargetID,
		Message:          err.Error(),
		Error:            ErrorCode(err),
	}
}

func (s *Session) broadcastLocked(except ...string) {
	s.events.BroadcastState(s.ChannelID, s.stateUpdateLocked(), except...)
}

func (s *Session) snapshotLocked() Snapshot {
	return Snapshot{
		Map:              MapView{Width: s.arena.Width, Height: s.arena.Height},
		Players:          s.playerViewsLocked(),
		Obstacles:        obstacleViews(s.arena),
		ActiveTurnUserID: s.turns.active,
	}
}

func (s *Session) stateUpdateLocked() StateUpdate {
	return StateUpdate{
		ActiveTurnUserID: s.turns.active,
		Players:          s.playerViewsLocked(),
	}
}

// playerViewsLocked lists participants in turn order, which is stable and
// append-only, keeping wire output deterministic.
func (s *Session) playerViewsLocked() []ParticipantView {
	out := make([]ParticipantView, 0, len(s.turns.order))
	for _, id := range s.turns.order {
		if p := s.participants[id]; p != nil {
			out = append(out, participantView(p))
		}
	}
	return out
}

func (s *Session) isActive(id string) bool {
	p := s.participants[id]
	return p != nil && p.Active
}

// humanLocked returns the participant holding the human slot, active or
// not. Leavers are demoted on departure, so a non-nil result means the slot
// is taken.
func (s *Session) humanLocked() *Participant {
	for _, p := range s.participants {
		if p.Role == RoleHuman {
			return p
		}
	}
	return nil
}

// participantAt reports the active participant occupying a tile, if any.
// Inactive participants do not block tiles.
func (s *Session) participantAt(c hexgrid.Coord) *Participant {
	for _, p := range s.participants {
		if p.Active && p.Pos == c {
			return p
		}
	}
	return nil
}

func (s *Session) occupiedTiles() map[hexgrid.Coord]bool {
	out := make(map[hexgrid.Coord]bool, len(s.participants))
	for _, p := range s.participants {
		if p.Active {
			out[p.Pos] = true
		}
	}
	return out
}

// nearestActiveHuman scans in turn order so distance ties resolve the same
// way every run.
func (s *Session) nearestActiveHuman(from *Participant) *Participant {
	var best *Participant
	bestDist := 0
	for _, id := range s.turns.order {
		p := s.participants[id]
		if p == nil || !p.Active || p.IsNPC() || p.ID == from.ID {
			continue
		}
		if d := hexgrid.Distance(from.Pos, p.Pos); best == nil || d < bestDist {
			best = p
			bestDist = d
		}
	}
	return best
}

// Snapshot returns the current full state, used by reconnecting clients and
// tests. The join path returns the same shape.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// ParticipantCount returns the number of registered participants, active or
// not.
func (s *Session) ParticipantCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.participants)
}
