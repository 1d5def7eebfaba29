// Package chat tracks which users are present in which channel. The full
// chat application manages channels, messages, and accounts elsewhere; the
// game server only needs presence, membership checks for scoped broadcasts,
// and leave notifications.
package chat

import (
	"sort"
	"sync"
)

// LeaveFunc is notified after a user's last connection to a channel is
// gone. It runs outside the roster's lock.
type LeaveFunc func(channelID, userID string)

// Roster counts connections per user per channel. A user with both a web
// client and a game client open counts once for membership and departs only
// when the last connection closes.
type Roster struct {
	mu       sync.RWMutex
	channels map[string]map[string]int
	onLeave  []LeaveFunc
}

func NewRoster() *Roster {
	return &Roster{channels: make(map[string]map[string]int)}
}

// OnLeave registers a departure listener. Register before serving traffic;
// registration is not synchronized with in-flight leaves.
func (r *Roster) OnLeave(fn LeaveFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onLeave = append(r.onLeave, fn)
}

// Join records one connection of a user in a channel and reports whether
// this made the user present (first connection).
func (r *Roster) Join(channelID, userID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	users := r.channels[channelID]
	if users == nil {
		users = make(map[string]int)
		r.channels[channelID] = users
	}
	users[userID]++
	return users[userID] == 1
}

// Leave records one connection closing. When it was the user's last
// connection to the channel, the user departs and leave listeners fire.
func (r *Roster) Leave(channelID, userID string) {
	r.mu.Lock()
	users := r.channels[channelID]
	departed := false
	if users != nil {
		switch n := users[userID]; {
		case n > 1:
			users[userID] = n - 1
		case n == 1:
			delete(users, userID)
			departed = true
			if len(users) == 0 {
				delete(r.channels, channelID)
			}
		}
	}
	listeners := r.onLeave
	r.mu.Unlock()

	if departed {
		for _, fn := range listeners {
			fn(channelID, userID)
		}
	}
}

// IsMember reports whether the user currently has a connection in the
// channel.
func (r *Roster) IsMember(channelID, userID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.channels[channelID][userID] > 0
}

// Members lists the channel's current users in stable order.
func (r *Roster) Members(channelID string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	users := r.channels[channelID]
	out := make([]string, 0, len(users))
	for id := range users {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
