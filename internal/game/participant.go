package game

import (
	"github.com/fieldline/hexarena/internal/hexgrid"
)

// Role distinguishes the channel's human player from computer-driven
// participants. A session holds at most one human at any time; everyone
// else acts through an NPC policy.
type Role string

const (
	RoleHuman Role = "human"
	RoleNPC   Role = "npc"
)

// Combat tuning, shared by humans and NPCs.
const (
	MaxHealth    = 100
	AttackDamage = 20
	HealAmount   = 15
)

// Participant is a single actor on the arena.
type Participant struct {
	ID        string
	Role      Role
	Pos       hexgrid.Coord
	Health    int
	MaxHealth int
	Active    bool

	// policy drives NPC-role participants; nil for the human.
	policy Policy
}

func newParticipant(id string, role Role, pos hexgrid.Coord) *Participant {
	p := &Participant{
		ID:        id,
		Role:      role,
		Pos:       pos,
		Health:    MaxHealth,
		MaxHealth: MaxHealth,
		Active:    true,
	}
	if role == RoleNPC {
		p.policy = defaultPolicy
	}
	return p
}

func (p *Participant) IsNPC() bool {
	return p.Role == RoleNPC
}

// promote reassigns the participant to the human role in place.
func (p *Participant) promote() {
	p.Role = RoleHuman
	p.policy = nil
}

// demote turns the participant into an auto-NPC driven by the default
// policy. Used when a joiner arrives while the human slot is taken.
func (p *Participant) demote() {
	p.Role = RoleNPC
	p.policy = defaultPolicy
}

// takeDamage subtracts health, clamping at zero. A participant reaching
// zero health is deactivated and stops being scheduled for turns.
func (p *Participant) takeDamage(amount int) {
	p.Health -= amount
	if p.Health <= 0 {
		p.Health = 0
		p.Active = false
	}
}

// restore adds health up to the participant's maximum.
func (p *Participant) restore(amount int) {
	p.Health += amount
	if p.Health > p.MaxHealth {
		p.Health = p.MaxHealth
	}
}
