package game

import (
	"errors"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	ErrRoomFull      = errors.New("room is full")
	ErrNotYourTurn   = errors.New("not this player's turn")
	ErrWordMismatch  = errors.New("word does not start with the match letter")
	ErrUnknownPlayer = errors.New("player is not seated")
)

// Join places the player at the lowest-index empty seat and returns the new
// state plus the assigned seat. The player's Seat and LastWord fields are
// overwritten by the transition.
func Join(s State, p Player) (State, int, error) {
	seat := -1
	for i, occupant := range s.Seats {
		if occupant == nil {
			seat = i
			break
		}
	}
	if seat < 0 {
		return s, -1, ErrRoomFull
	}

	seats := cloneSeats(s.Seats)
	np := p
	np.Seat = seat
	np.LastWord = ""
	seats[seat] = &np
	s.Seats = seats
	return recount(s), seat, nil
}

// Leave clears the seat held by the identity. If the leaving seat holds the
// turn, the turn moves to the next occupied seat; when the room empties the
// turn pointer resets to 0. Leaving with an unknown identity is a no-op, the
// transport can report a disconnect twice.
func Leave(s State, identity string) State {
	seat := seatOf(s, identity)
	if seat < 0 {
		return s
	}

	seats := cloneSeats(s.Seats)
	seats[seat] = nil
	s.Seats = seats

	if s.TurnSeat == seat {
		if next, ok := findNextOccupied(s.Seats, seat); ok {
			s.TurnSeat = next
		} else {
			s.TurnSeat = 0
		}
	}
	return recount(s)
}

// SubmitWord validates and applies a word submission by the identity's seat.
// The word must come from the seat holding the turn and must start with the
// current match letter; the server re-checks both no matter what the client
// validated. On success the submitting seat's last word updates, the match
// letter is rebuilt from the word's final syllable and the turn advances to
// the next occupied seat.
func SubmitWord(s State, identity string, word string) (State, error) {
	seat := seatOf(s, identity)
	if seat < 0 {
		return s, ErrUnknownPlayer
	}
	if seat != s.TurnSeat {
		return s, ErrNotYourTurn
	}

	// IME input can arrive in decomposed form; normalize before comparing.
	word = norm.NFC.String(strings.TrimSpace(word))
	if word == "" || !strings.HasPrefix(word, s.Match.Target) {
		return s, ErrWordMismatch
	}

	seats := cloneSeats(s.Seats)
	seats[seat].LastWord = word
	s.Seats = seats

	runes := []rune(word)
	s.Match = NewMatchLetter(runes[len(runes)-1])
	s.TurnSeat = NextTurnSeat(s.Seats, seat)
	return s, nil
}

// Replace wholesale-replaces a client's local state with a server broadcast,
// re-attaching the locally known seat annotation the broadcast omits.
func Replace(local State, server State) State {
	out := server
	if tp := local.ThisPlayer; tp != nil {
		cp := *tp
		if seated := server.Seats[cp.Seat]; seated != nil {
			cp.LastWord = seated.LastWord
			cp.Name = seated.Name
		}
		out.ThisPlayer = &cp
	}
	return out
}

// Seat places an already seat-assigned player record into the seats array.
// Clients apply this for lightweight join notifications; the server assigns
// seats through Join only.
func Seat(s State, p Player) State {
	seats := cloneSeats(s.Seats)
	np := p
	seats[np.Seat] = &np
	s.Seats = seats
	return recount(s)
}

// Unseat clears a seat. The client-side counterpart of a lightweight leave
// notification.
func Unseat(s State, seat int) State {
	seats := cloneSeats(s.Seats)
	seats[seat] = nil
	s.Seats = seats
	return recount(s)
}

// NextTurnSeat returns the next occupied seat in circular order after from.
// With a single occupied seat the turn stays on it. Calling this with no
// occupied seat is a broken reducer invariant and panics.
func NextTurnSeat(seats [MaxSeats]*Player, from int) int {
	if next, ok := findNextOccupied(seats, from); ok {
		return next
	}
	panic("game: no occupied seat to advance the turn to")
}

// findNextOccupied scans seats circularly starting after from, ending on
// from itself, and reports whether any occupied seat exists.
func findNextOccupied(seats [MaxSeats]*Player, from int) (int, bool) {
	for i := 1; i <= MaxSeats; i++ {
		idx := (from + i) % MaxSeats
		if seats[idx] != nil {
			return idx, true
		}
	}
	return 0, false
}

func seatOf(s State, identity string) int {
	for i, p := range s.Seats {
		if p != nil && p.Identity == identity {
			return i
		}
	}
	return -1
}
