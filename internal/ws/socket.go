package ws

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/fieldline/hexarena/internal/chat"
	"github.com/fieldline/hexarena/internal/config"
	"github.com/fieldline/hexarena/internal/game"
)

// Outbound envelope types.
const (
	eventSnapshot     = "game_snapshot"
	eventStateUpdate  = "game_state_update"
	eventActionResult = "action_result"
	eventError        = "error"
)

// Inbound frame types.
const (
	frameJoin    = "game_join"
	frameCommand = "game_command"
)

const (
	// Time allowed to push one frame to a peer.
	writeWait = 10 * time.Second
	// A peer that stays silent past pongWait trips the read deadline and is
	// reaped as a disconnect. The server pings well inside that window.
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	// Inbound frames are small command payloads.
	maxFrameBytes = 1024
	// Outbound queue per connection; a full queue marks a dead consumer.
	sendBuffer = 32
)

// clientFrame is one decoded inbound message. game_join carries the channel
// id (checked against the connection's binding), game_command the rest.
type clientFrame struct {
	Type      string `json:"type"`
	ChannelID string `json:"channel_id,omitempty"`
	Command   string `json:"command,omitempty"`
	TargetID  string `json:"target_id,omitempty"`
	Force     bool   `json:"force,omitempty"`
	Timestamp int64  `json:"timestamp,omitempty"`
}

type serverEnvelope struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// client is one upgraded connection, bound to a channel and user for its
// whole lifetime. All socket writes happen on the writePump goroutine; the
// rest of the server only enqueues marshaled frames, so no engine mutex is
// ever held across network I/O.
type client struct {
	id        string
	channelID string
	userID    string
	sock      *websocket.Conn
	send      chan []byte
}

// enqueue hands a frame to the write pump without blocking.
func (cl *client) enqueue(data []byte) bool {
	select {
	case cl.send <- data:
		return true
	default:
		return false
	}
}

func (cl *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		cl.sock.Close()
	}()
	for {
		select {
		case data, ok := <-cl.send:
			cl.sock.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				cl.sock.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := cl.sock.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			cl.sock.SetWriteDeadline(time.Now().Add(writeWait))
			if err := cl.sock.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Server is the WebSocket transport. It owns the connection hub and
// implements game.Broadcaster so the engine can fan events out to a
// channel's current members without holding connections itself.
type Server struct {
	registry *game.Registry
	roster   *chat.Roster
	upgrader websocket.Upgrader

	mu      sync.Mutex
	members map[string]map[string]*client // channelID -> connID -> client
}

func New(roster *chat.Roster, cfg config.Config) *Server {
	return &Server{
		roster:  roster,
		members: make(map[string]map[string]*client),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(cfg),
		},
	}
}

// SetRegistry wires the session registry after construction; the registry
// needs the server as its Broadcaster, so neither can be built first.
func (srv *Server) SetRegistry(r *game.Registry) { srv.registry = r }

// Mount attaches the WebSocket upgrade route to the given Gin engine.
func (srv *Server) Mount(r *gin.Engine) {
	r.GET("/ws", srv.handleSocket)
}

func (srv *Server) handleSocket(c *gin.Context) {
	channelID := c.Query("channel_id")
	userID := c.Query("user_id")
	if channelID == "" || userID == "" {
		c.String(http.StatusBadRequest, "channel_id and user_id are required")
		return
	}

	conn, err := srv.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("channel", channelID).Msg("websocket upgrade failed")
		return
	}

	cl := &client{
		id:        uuid.NewString(),
		channelID: channelID,
		userID:    userID,
		sock:      conn,
		send:      make(chan []byte, sendBuffer),
	}
	srv.addMember(cl)
	srv.roster.Join(channelID, userID)
	log.Info().Str("sid", cl.id).Str("channel", channelID).Str("user", userID).Msg("socket connected")

	go cl.writePump()
	srv.readLoop(cl)

	// Drop the connection from the hub before the roster fires leave
	// listeners, so the departing socket never sees its own leave update.
	srv.removeMember(cl)
	close(cl.send)
	srv.roster.Leave(channelID, userID)
	log.Info().Str("sid", cl.id).Str("channel", channelID).Str("user", userID).Msg("socket disconnected")
}

func (srv *Server) readLoop(cl *client) {
	cl.sock.SetReadLimit(maxFrameBytes)
	cl.sock.SetReadDeadline(time.Now().Add(pongWait))
	cl.sock.SetPongHandler(func(string) error {
		return cl.sock.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		_, data, err := cl.sock.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Warn().Str("sid", cl.id).Err(err).Msg("socket read failed")
			}
			return
		}
		var frame clientFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			log.Warn().Str("sid", cl.id).Err(err).Msg("discarding malformed frame")
			srv.err(cl, "bad_frame", "frames must be JSON objects with a type field")
			continue
		}
		switch frame.Type {
		case frameJoin:
			srv.handleJoin(cl, frame)
		case frameCommand:
			srv.handleCommand(cl, frame)
		default:
			log.Warn().Str("sid", cl.id).Str("type", frame.Type).Msg("unknown frame type")
			srv.err(cl, "unknown_type", fmt.Sprintf("unsupported frame type %q", frame.Type))
		}
	}
}

// game_join
func (srv *Server) handleJoin(cl *client, frame clientFrame) {
	if frame.ChannelID != "" && frame.ChannelID != cl.channelID {
		srv.err(cl, "channel_mismatch", "connection is bound to channel "+cl.channelID)
		return
	}
	snap, err := srv.registry.Join(cl.channelID, cl.userID)
	if err != nil {
		srv.err(cl, game.ErrorCode(err), err.Error())
		return
	}
	log.Info().Str("sid", cl.id).Str("channel", cl.channelID).Str("user", cl.userID).Msg("game_join")
	srv.sendTo(cl, eventSnapshot, snap)
}

// game_command
func (srv *Server) handleCommand(cl *client, frame clientFrame) {
	cmd := game.Command{
		Action:    frame.Command,
		TargetID:  frame.TargetID,
		Force:     frame.Force,
		Timestamp: frame.Timestamp,
	}
	res, err := srv.registry.Command(cl.channelID, cl.userID, cmd)
	if err != nil {
		log.Warn().Str("channel", cl.channelID).Str("user", cl.userID).Err(err).Msg("game_command rejected")
	} else {
		log.Info().
			Str("channel", cl.channelID).
			Str("user", cl.userID).
			Str("command", cmd.Action).
			Bool("success", res.Success).
			Msg("game_command")
	}
	// The result is well-formed even on rejection; the issuer always hears back.
	srv.sendTo(cl, eventActionResult, res)
}

// BroadcastState implements game.Broadcaster. Frames reach only connections
// whose user is currently a member of the channel; excluded users (typically
// a joiner, who receives a snapshot instead) are skipped.
func (srv *Server) BroadcastState(channelID string, update game.StateUpdate, exceptUserIDs ...string) {
	data, err := json.Marshal(serverEnvelope{Type: eventStateUpdate, Payload: update})
	if err != nil {
		log.Error().Str("channel", channelID).Err(err).Msg("state update marshal failed")
		return
	}

	srv.mu.Lock()
	defer srv.mu.Unlock()
	for _, cl := range srv.members[channelID] {
		if excludedUser(cl.userID, exceptUserIDs) || !srv.roster.IsMember(channelID, cl.userID) {
			continue
		}
		if !cl.enqueue(data) {
			log.Warn().Str("sid", cl.id).Str("channel", channelID).Msg("send queue full, dropping connection")
			cl.sock.Close()
		}
	}
}

// sendTo delivers one envelope to a single connection. Only called from the
// connection's own read loop, so it cannot race the shutdown path.
func (srv *Server) sendTo(cl *client, event string, payload any) {
	data, err := json.Marshal(serverEnvelope{Type: event, Payload: payload})
	if err != nil {
		log.Error().Str("sid", cl.id).Str("event", event).Err(err).Msg("payload marshal failed")
		return
	}
	if !cl.enqueue(data) {
		log.Warn().Str("sid", cl.id).Str("event", event).Msg("send queue full, dropping connection")
		cl.sock.Close()
	}
}

func (srv *Server) err(cl *client, code, message string) {
	srv.sendTo(cl, eventError, map[string]any{"code": code, "message": message})
}

func (srv *Server) addMember(cl *client) {
	srv.mu.Lock()
	defer srv.mu.Unlock()
	if srv.members[cl.channelID] == nil {
		srv.members[cl.channelID] = make(map[string]*client)
	}
	srv.members[cl.channelID][cl.id] = cl
}

func (srv *Server) removeMember(cl *client) {
	srv.mu.Lock()
	defer srv.mu.Unlock()
	if m := srv.members[cl.channelID]; m != nil {
		delete(m, cl.id)
		if len(m) == 0 {
			delete(srv.members, cl.channelID)
		}
	}
}

func excludedUser(userID string, except []string) bool {
	for _, id := range except {
		if id == userID {
			return true
		}
	}
	return false
}

func originChecker(cfg config.Config) func(*http.Request) bool {
	if cfg.AllowAnyOrigin() {
		return func(*http.Request) bool { return true }
	}
	allowed := make(map[string]bool, len(cfg.AllowedOrigins))
	for _, o := range cfg.AllowedOrigins {
		allowed[o] = true
	}
	return func(r *http.Request) bool {
		// Non-browser clients send no Origin header.
		origin := r.Header.Get("Origin")
		return origin == "" || allowed[origin]
	}
}
