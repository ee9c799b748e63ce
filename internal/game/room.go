package game

// Room is the state container the coordinator owns: the current authoritative
// State plus the registry of stable identities to seated players. Room does
// no locking of its own; every call must come from the coordinator's
// serialized command loop.
type Room struct {
	state      State
	registered map[string]Player // identity -> seated player record
}

func NewRoom(initial State) *Room {
	return &Room{
		state:      initial,
		registered: make(map[string]Player),
	}
}

// Snapshot returns the current authoritative state.
func (r *Room) Snapshot() State {
	return r.state
}

// PlayerCount returns the number of occupied seats.
func (r *Room) PlayerCount() int {
	return r.state.Connected
}

// Register seats a player under the stable identity. Registering an identity
// that already holds a seat is a reconnection: the existing record comes
// back with resumed=true and the state is untouched.
func (r *Room) Register(identity, name string) (State, Player, bool, error) {
	if p, ok := r.Returning(identity); ok {
		return r.state, p, true, nil
	}

	next, seat, err := Join(r.state, Player{Identity: identity, Name: name})
	if err != nil {
		return r.state, Player{}, false, err
	}
	seated := *next.Seats[seat]
	r.state = next
	r.registered[identity] = seated
	return next, seated, false, nil
}

// Disconnect runs the leave transition for the identity and reports whether
// it held a seat.
func (r *Room) Disconnect(identity string) (State, Player, bool) {
	p, ok := r.registered[identity]
	if !ok {
		return r.state, Player{}, false
	}
	delete(r.registered, identity)
	r.state = Leave(r.state, identity)
	return r.state, p, true
}

// Submit applies a word submission keyed by the stable identity.
func (r *Room) Submit(identity, word string) (State, error) {
	next, err := SubmitWord(r.state, identity, word)
	if err != nil {
		return r.state, err
	}
	r.state = next
	return next, nil
}

// Returning looks up the identity and reports whether it still holds a seat.
func (r *Room) Returning(identity string) (Player, bool) {
	p, ok := r.registered[identity]
	if !ok {
		return Player{}, false
	}
	seated := r.state.Seats[p.Seat]
	if seated == nil || seated.Identity != identity {
		return Player{}, false
	}
	return *seated, true
}
