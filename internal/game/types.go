package game

import (
	"github.com/hanmaru/kkeutmal/internal/hangul"
)

// MaxSeats is the fixed number of seats in the room.
const MaxSeats = 5

// initialTarget seeds the match letter of a freshly created room.
const initialTarget = '다'

type Status string

const (
	StatusWaiting  Status = "waiting"
	StatusPlaying  Status = "playing"
	StatusFinished Status = "finished"
)

// MatchLetter is the syllable the next submitted word must start with,
// together with the IME build steps toward it. It is replaced wholesale on
// every turn advance, never mutated.
type MatchLetter struct {
	Target  string   `json:"target"`
	Steps   []string `json:"steps"`
	Display string   `json:"display"`
}

func NewMatchLetter(target rune) MatchLetter {
	return MatchLetter{
		Target:  string(target),
		Steps:   hangul.BuildSteps(target),
		Display: string(target),
	}
}

// TargetRune returns the target as a rune. The target is always a single
// character.
func (m MatchLetter) TargetRune() rune {
	for _, r := range m.Target {
		return r
	}
	return 0
}

// Player occupies a seat. Identity is the stable per-browser token used to
// recognize a reconnecting player; it is stripped from public broadcasts.
type Player struct {
	Identity string `json:"identity,omitempty"`
	Name     string `json:"name"`
	Seat     int    `json:"seat"`
	LastWord string `json:"lastWord"`
}

// State is the authoritative room state. Transitions produce a new State and
// never mutate the receiver or its seats in place.
type State struct {
	Match     MatchLetter       `json:"matchLetter"`
	Seats     [MaxSeats]*Player `json:"players"`
	Connected int               `json:"connectedPlayers"`
	TurnSeat  int               `json:"turnSeat"`
	Status    Status            `json:"status"`

	// ThisPlayer is the client-local "which seat is mine" annotation. The
	// server includes it only in the registration reply, never in broadcasts.
	ThisPlayer *Player `json:"thisPlayer,omitempty"`
}

// Initial returns the state of an empty room.
func Initial() State {
	return State{
		Match:  NewMatchLetter(initialTarget),
		Status: StatusWaiting,
	}
}

func cloneSeats(seats [MaxSeats]*Player) [MaxSeats]*Player {
	var out [MaxSeats]*Player
	for i, p := range seats {
		if p != nil {
			cp := *p
			out[i] = &cp
		}
	}
	return out
}

// Public returns a copy safe to broadcast to every client: stable identity
// tokens and the private seat annotation are stripped.
func (s State) Public() State {
	out := s
	out.Seats = cloneSeats(s.Seats)
	for _, p := range out.Seats {
		if p != nil {
			p.Identity = ""
		}
	}
	out.ThisPlayer = nil
	return out
}

// recount refreshes the fields derived from seat occupancy. A word-chain
// game needs at least two players, so status flips between waiting and
// playing on that boundary.
func recount(s State) State {
	n := 0
	for _, p := range s.Seats {
		if p != nil {
			n++
		}
	}
	s.Connected = n
	if n >= 2 {
		s.Status = StatusPlaying
	} else {
		s.Status = StatusWaiting
	}
	return s
}
