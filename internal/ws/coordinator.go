package ws

import (
	"sync/atomic"

	"github.com/rs/zerolog/log"

	"github.com/hanmaru/kkeutmal/internal/game"
)

// conn is the slice of socketio.Conn the coordinator needs. Tests substitute
// their own implementation.
type conn interface {
	ID() string
	Emit(event string, args ...interface{})
}

type cmdKind int

const (
	cmdAttach cmdKind = iota
	cmdDetach
	cmdRegister
	cmdSubmitWord
	cmdPlayerCount
	cmdReturningProbe
	cmdFullState
)

// command is one unit of work for the coordinator loop. done is closed once
// the state transition and all resulting emits have completed, so a blocked
// sender observes strict FIFO semantics.
type command struct {
	kind     cmdKind
	conn     conn
	identity string
	name     string
	word     string
	done     chan struct{}
}

// Stats are the coordinator's operational counters, read by the HTTP stats
// endpoint while the loop is running.
type Stats struct {
	Connections         int64 `json:"connections"`
	RegisteredPlayers   int64 `json:"registeredPlayers"`
	PlayerCountRequests int64 `json:"playerCountRequests"`
}

// Coordinator owns the single authoritative room state of the process. All
// mutating socket events flow through one command channel consumed by one
// goroutine: concurrent arrivals apply one at a time in arrival order, so
// two near-simultaneous joins can never claim the same seat.
type Coordinator struct {
	room  *game.Room
	cmds  chan command
	conns map[string]conn // socket id -> live connection, owned by the loop

	connections         atomic.Int64
	registeredPlayers   atomic.Int64
	playerCountRequests atomic.Int64
}

// NewCoordinator wraps the injected room and starts the command loop.
func NewCoordinator(room *game.Room) *Coordinator {
	c := &Coordinator{
		room:  room,
		cmds:  make(chan command, 64),
		conns: make(map[string]conn),
	}
	go c.run()
	return c
}

// Close stops the command loop. Pending commands are processed first.
func (c *Coordinator) Close() {
	close(c.cmds)
}

// Stats returns a snapshot of the operational counters.
func (c *Coordinator) Stats() Stats {
	return Stats{
		Connections:         c.connections.Load(),
		RegisteredPlayers:   c.registeredPlayers.Load(),
		PlayerCountRequests: c.playerCountRequests.Load(),
	}
}

// do submits a command and blocks until the loop has fully processed it.
func (c *Coordinator) do(cmd command) {
	cmd.done = make(chan struct{})
	c.cmds <- cmd
	<-cmd.done
}

func (c *Coordinator) run() {
	for cmd := range c.cmds {
		c.apply(cmd)
		close(cmd.done)
	}
}

// apply dispatches one command. The kinds are a closed set; an unknown kind
// is a programming error and halts loudly rather than corrupting state.
func (c *Coordinator) apply(cmd command) {
	switch cmd.kind {
	case cmdAttach:
		c.conns[cmd.conn.ID()] = cmd.conn
		c.connections.Add(1)
	case cmdDetach:
		delete(c.conns, cmd.conn.ID())
		c.handleLeave(cmd.identity)
	case cmdRegister:
		c.handleRegister(cmd.conn, cmd.identity, cmd.name)
	case cmdSubmitWord:
		c.handleSubmitWord(cmd.identity, cmd.word)
	case cmdPlayerCount:
		c.playerCountRequests.Add(1)
		cmd.conn.Emit(EventPlayerCount, CountPayload{Count: c.room.PlayerCount()})
	case cmdReturningProbe:
		c.handleReturningProbe(cmd.conn, cmd.identity)
	case cmdFullState:
		cmd.conn.Emit(EventGameStateUpdate, c.room.Snapshot().Public())
	default:
		panic("ws: unknown command kind")
	}
}

func (c *Coordinator) handleRegister(to conn, identity, name string) {
	st, player, resumed, err := c.room.Register(identity, name)
	if err != nil {
		log.Info().Str("sid", to.ID()).Str("name", name).Msg("registration rejected, room is full")
		to.Emit(EventPlayerNotRegistered, RejectionPayload{Reason: "room is full"})
		return
	}

	// The registering connection alone learns which seat is its own.
	reply := st.Public()
	own := player
	reply.ThisPlayer = &own
	to.Emit(EventPlayerRegistered, reply)

	if resumed {
		// Idempotent re-registration of a held seat: no broadcast.
		log.Info().Str("sid", to.ID()).Int("seat", player.Seat).Msg("player resumed")
		return
	}

	c.registeredPlayers.Add(1)
	log.Info().Str("sid", to.ID()).Int("seat", player.Seat).Str("name", player.Name).Msg("player registered")

	public := player
	public.Identity = ""
	c.broadcastExcept(to.ID(), EventPlayerJoin, public)
	c.broadcastExcept(to.ID(), EventGameStateUpdate, st.Public())
}

func (c *Coordinator) handleLeave(identity string) {
	if identity == "" {
		return
	}
	st, player, held := c.room.Disconnect(identity)
	if !held {
		return
	}
	log.Info().Int("seat", player.Seat).Str("name", player.Name).Msg("player left")

	public := player
	public.Identity = ""
	c.broadcastExcept("", EventPlayerLeave, public)
	c.broadcastExcept("", EventGameStateUpdate, st.Public())
}

func (c *Coordinator) handleSubmitWord(identity, word string) {
	st, err := c.room.Submit(identity, word)
	if err != nil {
		// Authoritative rejection: the client should not have sent this.
		// No state change, no broadcast.
		log.Debug().Str("word", word).Err(err).Msg("submission ignored")
		return
	}
	log.Info().Str("word", word).Str("nextTarget", st.Match.Target).Msg("word accepted")
	c.broadcastExcept("", EventGameStateUpdate, st.Public())
}

func (c *Coordinator) handleReturningProbe(to conn, identity string) {
	if player, ok := c.room.Returning(identity); ok {
		to.Emit(EventReturningPlayer, ReturningPayload{Found: true, Name: player.Name, Seat: player.Seat})
		return
	}
	to.Emit(EventReturningPlayer, ReturningPayload{Found: false, Seat: -1})
}

// broadcastExcept emits to every tracked connection except the given socket
// id. An empty id broadcasts to everyone.
func (c *Coordinator) broadcastExcept(exceptID, event string, payload interface{}) {
	for id, cn := range c.conns {
		if id == exceptID {
			continue
		}
		cn.Emit(event, payload)
	}
}

// Attach starts tracking a live connection.
func (c *Coordinator) Attach(cn conn) {
	c.do(command{kind: cmdAttach, conn: cn})
}

// Detach drops the connection and runs the leave transition for the
// identity it registered under, if any.
func (c *Coordinator) Detach(cn conn, identity string) {
	c.do(command{kind: cmdDetach, conn: cn, identity: identity})
}

// Register seats (or re-seats) the identity and emits the outcome.
func (c *Coordinator) Register(cn conn, identity, name string) {
	c.do(command{kind: cmdRegister, conn: cn, identity: identity, name: name})
}

// SubmitWord applies a word submission for the identity.
func (c *Coordinator) SubmitWord(identity, word string) {
	c.do(command{kind: cmdSubmitWord, identity: identity, word: word})
}

// PlayerCount replies to the requester with the current connected count.
func (c *Coordinator) PlayerCount(cn conn) {
	c.do(command{kind: cmdPlayerCount, conn: cn})
}

// ReturningProbe replies whether the identity still holds a seat.
func (c *Coordinator) ReturningProbe(cn conn, identity string) {
	c.do(command{kind: cmdReturningProbe, conn: cn, identity: identity})
}

// RequestFullState re-emits the authoritative state to the requester only.
func (c *Coordinator) RequestFullState(cn conn) {
	c.do(command{kind: cmdFullState, conn: cn})
}
