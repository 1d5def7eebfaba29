package game

import (
	"sort"
	"strings"

	"github.com/fieldline/hexarena/internal/hexgrid"
)

// Action names accepted in game_command frames. Movement commands encode
// their direction as a suffix matching hexgrid's direction names.
const (
	ActionAttack = "attack"
	ActionHeal   = "heal"

	actionMovePrefix = "move_"
)

// Command is the game_command payload issued by a client (or by an NPC
// policy, which goes through the same execution path).
type Command struct {
	Action    string `json:"command"`
	TargetID  string `json:"target_id,omitempty"`
	Force     bool   `json:"force,omitempty"`
	Timestamp int64  `json:"timestamp,omitempty"`
}

// moveDirection parses a move_* action name into its direction.
func moveDirection(action string) (hexgrid.Direction, bool) {
	suffix, ok := strings.CutPrefix(action, actionMovePrefix)
	if !ok {
		return 0, false
	}
	for _, d := range hexgrid.Directions {
		if d.String() == suffix {
			return d, true
		}
	}
	return 0, false
}

// ParticipantView is the participant shape shared by snapshots and state
// updates. Every payload carries is_npc so clients can render computer
// actors without consulting the channel roster.
type ParticipantView struct {
	ID        string        `json:"id"`
	IsNPC     bool          `json:"is_npc"`
	Position  hexgrid.Coord `json:"position"`
	Health    int           `json:"health"`
	MaxHealth int           `json:"max_health"`
	IsActive  bool          `json:"is_active"`
}

// ObstacleView is one blocked tile in a snapshot.
type ObstacleView struct {
	Position hexgrid.Coord `json:"position"`
	Kind     string        `json:"kind"`
}

// MapView carries the arena dimensions.
type MapView struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Snapshot is the full game_snapshot payload delivered once to a joining
// connection. Obstacles appear here and nowhere else; they never change.
type Snapshot struct {
	Map              MapView           `json:"map"`
	Players          []ParticipantView `json:"players"`
	Obstacles        []ObstacleView    `json:"obstacles"`
	ActiveTurnUserID string            `json:"active_turn_user_id"`
}

// StateUpdate is the incremental game_state_update payload broadcast to
// channel members after every successful action.
type StateUpdate struct {
	ActiveTurnUserID string            `json:"active_turn_user_id"`
	Players          []ParticipantView `json:"players"`
}

// ActionResult reports one command's outcome to its issuer only.
type ActionResult struct {
	Success          bool   `json:"success"`
	ActionType       string `json:"action_type"`
	ExecutorID       string `json:"executor_id"`
	ActiveTurnUserID string `json:"active_turn_user_id"`
	TargetID         string `json:"target_id,omitempty"`
	Message          string `json:"message"`
	Error            string `json:"error,omitempty"`
}

// Broadcaster fans engine events out to the connections of a channel's
// current members. The transport implements it; the engine never holds
// individual connections. Excluded user ids are skipped, which lets a join
// deliver its snapshot to the joiner and the membership update to everyone
// else without double-sending.
type Broadcaster interface {
	BroadcastState(channelID string, update StateUpdate, exceptUserIDs ...string)
}

// nopBroadcaster keeps sessions usable without a transport, mainly in tests.
type nopBroadcaster struct{}

func (nopBroadcaster) BroadcastState(string, StateUpdate, ...string) {}

func participantView(p *Participant) ParticipantView {
	return ParticipantView{
		ID:        p.ID,
		IsNPC:     p.IsNPC(),
		Position:  p.Pos,
		Health:    p.Health,
		MaxHealth: p.MaxHealth,
		IsActive:  p.Active,
	}
}

func obstacleViews(a *Arena) []ObstacleView {
	out := make([]ObstacleView, 0, len(a.Obstacles))
	for pos, kind := range a.Obstacles {
		out = append(out, ObstacleView{Position: pos, Kind: kind})
	}
	// Map iteration order is random; keep the wire output stable.
	sort.Slice(out, func(i, j int) bool {
		if out[i].Position.Y != out[j].Position.Y {
			return out[i].Position.Y < out[j].Position.Y
		}
		return out[i].Position.X < out[j].Position.X
	})
	return out
}
