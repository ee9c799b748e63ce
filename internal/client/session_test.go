package client

import (
	"context"
	"testing"

	"github.com/hanmaru/kkeutmal/internal/game"
	"github.com/hanmaru/kkeutmal/internal/input"
)

type fakeChecker struct {
	known map[string]bool
	calls int
}

func (f *fakeChecker) Valid(_ context.Context, word string) bool {
	f.calls++
	return f.known[word]
}

// registeredState builds the private registration reply the server sends:
// full state plus the seat annotation.
func registeredState(t *testing.T, names ...string) game.State {
	t.Helper()
	st := game.Initial()
	for _, name := range names {
		var err error
		st, _, err = game.Join(st, game.Player{Identity: name, Name: name})
		if err != nil {
			t.Fatalf("Join %s: %v", name, err)
		}
	}
	reply := st.Public()
	me := *st.Seats[0]
	me.Identity = ""
	reply.ThisPlayer = &me
	return reply
}

func TestNotificationsIgnoredBeforeFirstFullState(t *testing.T) {
	s := NewSession("id-1", "혜진", nil)

	s.ApplyJoin(game.Player{Name: "민준", Seat: 2})
	s.ApplyLeave(0)

	if s.Synced() {
		t.Fatal("session must not count as synced before a full state")
	}
	if s.State().Seats[2] != nil {
		t.Error("join notification applied before first full state")
	}
}

func TestRegisteredReplySyncsAndAnnotatesSeat(t *testing.T) {
	s := NewSession("id-1", "혜진", nil)
	s.ApplyRegistered(registeredState(t, "혜진", "민준"))

	if !s.Synced() {
		t.Fatal("registration reply must count as the first sync")
	}
	if s.MySeat() != 0 {
		t.Errorf("MySeat = %d, want 0", s.MySeat())
	}
	if got := s.State().Connected; got != 2 {
		t.Errorf("Connected = %d, want 2", got)
	}

	// Now lightweight notifications land.
	s.ApplyJoin(game.Player{Name: "서연", Seat: 2})
	if s.State().Seats[2] == nil {
		t.Error("join notification ignored after sync")
	}
	s.ApplyLeave(2)
	if s.State().Seats[2] != nil {
		t.Error("leave notification ignored after sync")
	}
}

func TestTurnChangeAwayResetsComposition(t *testing.T) {
	s := NewSession("id-1", "혜진", nil)
	s.ApplyRegistered(registeredState(t, "혜진", "민준"))

	if a := s.Feed("ㄷ", "ㄷ", true); a.Kind != input.Continue {
		t.Fatalf("Feed(ㄷ) = %v, want Continue", a.Kind)
	}
	if s.Tracker.Prev != "ㄷ" {
		t.Fatalf("Prev = %q after feed", s.Tracker.Prev)
	}

	// Same target, turn moves to the other seat mid-composition.
	next := s.State().Public()
	next.TurnSeat = 1
	s.ApplyFullState(next)

	if s.Tracker.Prev != "" {
		t.Errorf("composition not reset on turn change, Prev = %q", s.Tracker.Prev)
	}
	if s.Ghost() != "ㄷ" {
		t.Errorf("ghost not rebuilt from target, got %q", s.Ghost())
	}
}

func TestFullStateWithoutTurnChangeKeepsComposition(t *testing.T) {
	s := NewSession("id-1", "혜진", nil)
	s.ApplyRegistered(registeredState(t, "혜진", "민준"))
	s.Feed("ㄷ", "ㄷ", true)

	// Resync with an identical turn and target.
	s.ApplyFullState(s.State().Public())

	if s.Tracker.Prev != "ㄷ" {
		t.Errorf("composition lost on no-op resync, Prev = %q", s.Tracker.Prev)
	}
}

func TestTargetChangeResetsCompositionEvenOnOwnTurn(t *testing.T) {
	s := NewSession("id-1", "혜진", nil)
	s.ApplyRegistered(registeredState(t, "혜진", "민준"))
	s.Feed("ㄷ", "ㄷ", true)

	next := s.State().Public()
	next.Match = game.NewMatchLetter('리')
	s.ApplyFullState(next)

	if s.Tracker.Prev != "" {
		t.Errorf("Prev = %q after target change", s.Tracker.Prev)
	}
	if s.Tracker.Match.Target != "리" {
		t.Errorf("tracker target = %q, want 리", s.Tracker.Match.Target)
	}
}

func TestWordAllowed(t *testing.T) {
	checker := &fakeChecker{known: map[string]bool{"다리": true}}
	s := NewSession("id-1", "혜진", checker)
	s.ApplyRegistered(registeredState(t, "혜진", "민준"))

	if !s.MyTurn() {
		t.Fatal("seat 0 should have the opening turn")
	}
	ctx := context.Background()

	if !s.WordAllowed(ctx, "다리") {
		t.Error("known word with matching prefix on own turn should pass")
	}
	if s.WordAllowed(ctx, "리본") {
		t.Error("word not starting with the target must fail locally")
	}
	if s.WordAllowed(ctx, "다슬기") {
		t.Error("word unknown to the dictionary must fail")
	}
	if s.WordAllowed(ctx, "") {
		t.Error("empty word must fail")
	}

	// Not our turn.
	next := s.State().Public()
	next.TurnSeat = 1
	s.ApplyFullState(next)
	calls := checker.calls
	if s.WordAllowed(ctx, "다리") {
		t.Error("submit off-turn must fail")
	}
	if checker.calls != calls {
		t.Error("off-turn check must not reach the dictionary")
	}
}

func TestWordAllowedWithoutChecker(t *testing.T) {
	s := NewSession("id-1", "혜진", nil)
	s.ApplyRegistered(registeredState(t, "혜진", "민준"))

	if !s.WordAllowed(context.Background(), "다리") {
		t.Error("nil checker should defer entirely to the server")
	}
}

func TestPlayerCountReply(t *testing.T) {
	s := NewSession("id-1", "혜진", nil)
	s.ApplyPlayerCount(3)
	if s.State().Connected != 3 {
		t.Errorf("Connected = %d, want 3", s.State().Connected)
	}
}
