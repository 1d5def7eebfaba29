package game

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Registry owns every game session of the process, keyed by channel id.
// Sessions are created lazily by the first successful join and live until
// the process exits. The registry is constructed in main and handed to the
// transport explicitly; there is no package-global instance.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	events     Broadcaster
	transcript *Transcript
}

func NewRegistry(events Broadcaster, transcript *Transcript) *Registry {
	return &Registry{
		sessions:   make(map[string]*Session),
		events:     events,
		transcript: transcript,
	}
}

// Join is the handshake entry point. The first join for a channel
// bootstraps the session synchronously (arena generation plus baseline
// participants) before anything is published; later joins go through the
// session's join policy. Exactly one session ever exists per channel.
func (r *Registry) Join(channelID, userID string) (Snapshot, error) {
	r.mu.RLock()
	s := r.sessions[channelID]
	r.mu.RUnlock()

	if s == nil {
		r.mu.Lock()
		// Another join may have won the race while we upgraded the lock.
		if s = r.sessions[channelID]; s == nil {
			created, err := newSession(channelID, userID, r.events, r.transcript)
			if err != nil {
				r.mu.Unlock()
				if errors.Is(err, ErrNoFreeTile) {
					log.Warn().Str("channel", channelID).Err(err).Msg("bootstrap failed, board saturated")
				}
				return Snapshot{}, err
			}
			r.sessions[channelID] = created
			s = created
			log.Info().
				Str("channel", channelID).
				Str("user", userID).
				Int("obstacles", len(created.arena.Obstacles)).
				Msg("session bootstrapped")
			r.transcript.Event(channelID, "bootstrap", "session created by "+userID)
		}
		r.mu.Unlock()
	}

	snap, err := s.Join(userID)
	if err != nil {
		if errors.Is(err, ErrNoFreeTile) {
			log.Warn().Str("channel", channelID).Str("user", userID).Err(err).Msg("spawn placement exhausted the board")
		}
		return Snapshot{}, err
	}
	return snap, nil
}

// Command routes a game command to the channel's session. Before a
// successful join has bootstrapped the session, every command fails with
// ErrNotInitialized; the returned result is still well-formed so the
// transport can report it to the issuer.
func (r *Registry) Command(channelID, userID string, cmd Command) (ActionResult, error) {
	r.mu.RLock()
	s := r.sessions[channelID]
	r.mu.RUnlock()
	if s == nil {
		return failureResult(userID, cmd, "", ErrNotInitialized), ErrNotInitialized
	}
	return s.Apply(userID, cmd), nil
}

// Leave forwards a channel-membership leave to the session, if one exists.
func (r *Registry) Leave(channelID, userID string) {
	r.mu.RLock()
	s := r.sessions[channelID]
	r.mu.RUnlock()
	if s != nil {
		s.Leave(userID)
	}
}

// Get returns the session for a channel.
func (r *Registry) Get(channelID string) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s := r.sessions[channelID]
	if s == nil {
		return nil, ErrNotInitialized
	}
	return s, nil
}

// ChannelStatus is the operator view served over HTTP. It carries counts
// only; game state itself stays membership-scoped.
type ChannelStatus struct {
	ChannelID    string    `json:"channel_id"`
	Participants int       `json:"participants"`
	CreatedAt    time.Time `json:"created_at"`
}

// Status lists all live sessions in stable order.
func (r *Registry) Status() []ChannelStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]ChannelStatus, 0, len(r.sessions))
	for id, s := range r.sessions {
		out = append(out, ChannelStatus{
			ChannelID:    id,
			Participants: s.ParticipantCount(),
			CreatedAt:    s.CreatedAt,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ChannelID < out[j].ChannelID })
	return out
}
