// Package client keeps a connected player's local mirror of the room in
// sync with server broadcasts and threads the input composition tracker
// through turn changes. A Session is owned by the single goroutine running
// the transport callbacks; it does no locking of its own.
package client

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/hanmaru/kkeutmal/internal/dict"
	"github.com/hanmaru/kkeutmal/internal/game"
	"github.com/hanmaru/kkeutmal/internal/input"
)

// WordChecker is the advisory dictionary lookup the session consults before
// a submit. It is never authoritative; the server decides.
type WordChecker interface {
	Valid(ctx context.Context, word string) bool
}

// Session mirrors the authoritative room state for one player.
type Session struct {
	Identity string
	Name     string
	Tracker  *input.Tracker

	state  game.State
	synced bool
	dict   WordChecker
}

// NewSession builds a session for a player identity. checker may be nil, in
// which case submits skip the dictionary and rely on the server alone.
func NewSession(identity, name string, checker WordChecker) *Session {
	st := game.Initial()
	return &Session{
		Identity: identity,
		Name:     name,
		Tracker:  input.NewTracker(st.Match),
		state:    st,
		dict:     checker,
	}
}

// State returns the current local mirror.
func (s *Session) State() game.State {
	return s.state
}

// Synced reports whether a full state has arrived this session. Lightweight
// notifications are ignored until it has; the full state always follows.
func (s *Session) Synced() bool {
	return s.synced
}

// MySeat returns the session's seat, or -1 before registration.
func (s *Session) MySeat() int {
	if s.state.ThisPlayer == nil {
		return -1
	}
	return s.state.ThisPlayer.Seat
}

// MyTurn reports whether it is this player's turn.
func (s *Session) MyTurn() bool {
	seat := s.MySeat()
	return seat >= 0 && seat == s.state.TurnSeat
}

// ApplyRegistered handles the private registration reply. It carries the
// full state plus the seat annotation, so it counts as the first sync.
func (s *Session) ApplyRegistered(server game.State) {
	s.state = server
	s.synced = true
	s.Tracker.Reset(s.state.Match)
	log.Debug().Int("seat", s.MySeat()).Msg("registered")
}

// ApplyFullState wholesale-replaces the local mirror with a broadcast. The
// composition tracker is reset when the match letter changed, or when the
// turn moved to a seat other than ours, no matter what composition is in
// flight. Turn changes take precedence.
func (s *Session) ApplyFullState(server game.State) {
	prev := s.state
	s.state = game.Replace(s.state, server)
	s.synced = true

	targetChanged := s.state.Match.Target != prev.Match.Target
	turnMovedAway := s.state.TurnSeat != prev.TurnSeat && s.state.TurnSeat != s.MySeat()
	if targetChanged || turnMovedAway {
		s.Tracker.Reset(s.state.Match)
	}
}

// ApplyJoin handles a lightweight join notification. Ignored before the
// first full state.
func (s *Session) ApplyJoin(p game.Player) {
	if !s.synced {
		return
	}
	s.state = game.Seat(s.state, p)
}

// ApplyLeave handles a lightweight leave notification. Ignored before the
// first full state.
func (s *Session) ApplyLeave(seat int) {
	if !s.synced {
		return
	}
	if seat < 0 || seat >= game.MaxSeats {
		return
	}
	s.state = game.Unseat(s.state, seat)
}

// ApplyPlayerCount handles a playerCount reply.
func (s *Session) ApplyPlayerCount(n int) {
	s.state.Connected = n
}

// Feed runs one input event through the composition tracker.
func (s *Session) Feed(text, letter string, composing bool) input.Action {
	return s.Tracker.Feed(text, letter, composing)
}

// Ghost returns the current ghost preview for the input field.
func (s *Session) Ghost() string {
	return s.Tracker.Ghost
}

// WordAllowed is the advisory pre-submit check: our turn, the word starts
// with the current target, and the dictionary knows it. A lookup failure
// counts as invalid. The server re-validates regardless of the answer here.
func (s *Session) WordAllowed(ctx context.Context, word string) bool {
	word = strings.TrimSpace(word)
	if word == "" || !s.MyTurn() {
		return false
	}
	if !strings.HasPrefix(word, s.state.Match.Target) {
		return false
	}
	if s.dict == nil {
		return true
	}
	if !s.dict.Valid(ctx, word) {
		log.Debug().Str("word", word).Msg("dictionary rejected word")
		return false
	}
	return true
}

var _ WordChecker = (*dict.Client)(nil)
