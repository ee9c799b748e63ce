package ws

import (
	"fmt"
	"sync"
	"testing"

	"github.com/hanmaru/kkeutmal/internal/game"
)

type emitted struct {
	event   string
	payload interface{}
}

type fakeConn struct {
	id string

	mu     sync.Mutex
	events []emitted
}

func (f *fakeConn) ID() string { return f.id }

func (f *fakeConn) Emit(event string, args ...interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var payload interface{}
	if len(args) > 0 {
		payload = args[0]
	}
	f.events = append(f.events, emitted{event: event, payload: payload})
}

func (f *fakeConn) received(event string) []emitted {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []emitted
	for _, e := range f.events {
		if e.event == event {
			out = append(out, e)
		}
	}
	return out
}

func newTestCoordinator(t *testing.T) *Coordinator {
	t.Helper()
	c := NewCoordinator(game.NewRoom(game.Initial()))
	t.Cleanup(c.Close)
	return c
}

func attach(c *Coordinator, id string) *fakeConn {
	cn := &fakeConn{id: id}
	c.Attach(cn)
	return cn
}

func TestRegisterEmitsPrivateStateToRegistrant(t *testing.T) {
	c := newTestCoordinator(t)
	cn := attach(c, "s1")

	c.Register(cn, "id-1", "Alice")

	got := cn.received(EventPlayerRegistered)
	if len(got) != 1 {
		t.Fatalf("expected one playerRegistered, got %d", len(got))
	}
	st, ok := got[0].payload.(game.State)
	if !ok {
		t.Fatalf("unexpected payload type %T", got[0].payload)
	}
	if st.ThisPlayer == nil || st.ThisPlayer.Seat != 0 {
		t.Fatalf("registrant must receive its own seat annotation, got %+v", st.ThisPlayer)
	}
	if st.ThisPlayer.Identity != "id-1" {
		t.Fatalf("registrant keeps its identity, got %q", st.ThisPlayer.Identity)
	}
	if st.Seats[0].Identity != "" {
		t.Fatal("seat records in the reply must not leak identity tokens")
	}
}

func TestRegisterNotifiesOtherConnections(t *testing.T) {
	c := newTestCoordinator(t)
	c1 := attach(c, "s1")
	c2 := attach(c, "s2")

	c.Register(c1, "id-1", "Alice")
	c.Register(c2, "id-2", "Bob")

	joins := c1.received(EventPlayerJoin)
	if len(joins) != 1 {
		t.Fatalf("expected one join notification at the first player, got %d", len(joins))
	}
	p, ok := joins[0].payload.(game.Player)
	if !ok {
		t.Fatalf("unexpected payload type %T", joins[0].payload)
	}
	if p.Name != "Bob" || p.Seat != 1 {
		t.Fatalf("unexpected join notification %+v", p)
	}
	if p.Identity != "" {
		t.Fatal("join notifications must not carry identity tokens")
	}

	// The full state wins on receipt: a resync follows the notification.
	updates := c1.received(EventGameStateUpdate)
	if len(updates) != 1 {
		t.Fatalf("expected one state update at the first player, got %d", len(updates))
	}
	st := updates[0].payload.(game.State)
	if st.Connected != 2 || st.Status != game.StatusPlaying {
		t.Fatalf("expected a playing room of 2, got %d %s", st.Connected, st.Status)
	}
	if st.ThisPlayer != nil {
		t.Fatal("broadcast state must not carry a seat annotation")
	}

	// The registrant does not get its own join notification.
	if n := len(c2.received(EventPlayerJoin)); n != 0 {
		t.Fatalf("registrant should not see its own join, got %d", n)
	}
}

func TestRegisterRejectsWhenRoomFull(t *testing.T) {
	c := newTestCoordinator(t)
	for i := 0; i < game.MaxSeats; i++ {
		cn := attach(c, fmt.Sprintf("s%d", i))
		c.Register(cn, fmt.Sprintf("id-%d", i), "P")
	}
	late := attach(c, "late")

	c.Register(late, "id-late", "Late")

	rejections := late.received(EventPlayerNotRegistered)
	if len(rejections) != 1 {
		t.Fatalf("expected one rejection, got %d", len(rejections))
	}
	r := rejections[0].payload.(RejectionPayload)
	if r.Reason != "room is full" {
		t.Fatalf("unexpected reason %q", r.Reason)
	}
	if len(late.received(EventPlayerRegistered)) != 0 {
		t.Fatal("a rejected registration must not also succeed")
	}
}

func TestRegisterIsIdempotentForHeldSeat(t *testing.T) {
	c := newTestCoordinator(t)
	c1 := attach(c, "s1")
	c2 := attach(c, "s2")

	c.Register(c1, "id-1", "Alice")
	c.Register(c2, "id-2", "Bob")
	joinsBefore := len(c2.received(EventPlayerJoin)) + len(c2.received(EventGameStateUpdate))

	// Same identity registers again while the seat is held.
	c.Register(c1, "id-1", "Alice")

	regs := c1.received(EventPlayerRegistered)
	if len(regs) != 2 {
		t.Fatalf("expected a reply to both registrations, got %d", len(regs))
	}
	first := regs[0].payload.(game.State)
	second := regs[1].payload.(game.State)
	if first.ThisPlayer.Seat != second.ThisPlayer.Seat {
		t.Fatalf("resumption must return the same seat, got %d and %d",
			first.ThisPlayer.Seat, second.ThisPlayer.Seat)
	}

	joinsAfter := len(c2.received(EventPlayerJoin)) + len(c2.received(EventGameStateUpdate))
	if joinsAfter != joinsBefore {
		t.Fatal("resumption must not broadcast to other connections")
	}
}

func TestSubmitWordBroadcastsFullState(t *testing.T) {
	c := newTestCoordinator(t)
	c1 := attach(c, "s1")
	c2 := attach(c, "s2")
	c.Register(c1, "id-1", "Alice")
	c.Register(c2, "id-2", "Bob")

	c.SubmitWord("id-1", "다리")

	for _, cn := range []*fakeConn{c1, c2} {
		updates := cn.received(EventGameStateUpdate)
		if len(updates) == 0 {
			t.Fatalf("%s expected a state update after the submission", cn.id)
		}
		st := updates[len(updates)-1].payload.(game.State)
		if st.Match.Target != "리" {
			t.Fatalf("%s expected target 리, got %s", cn.id, st.Match.Target)
		}
		if st.TurnSeat != 1 {
			t.Fatalf("%s expected turn at seat 1, got %d", cn.id, st.TurnSeat)
		}
	}
}

func TestInvalidSubmissionIsSilentlyIgnored(t *testing.T) {
	c := newTestCoordinator(t)
	c1 := attach(c, "s1")
	c2 := attach(c, "s2")
	c.Register(c1, "id-1", "Alice")
	c.Register(c2, "id-2", "Bob")
	before := len(c1.received(EventGameStateUpdate))

	c.SubmitWord("id-2", "다리") // not Bob's turn
	c.SubmitWord("id-1", "바다") // wrong initial syllable

	if after := len(c1.received(EventGameStateUpdate)); after != before {
		t.Fatalf("rejected submissions must not broadcast, got %d new updates", after-before)
	}
}

func TestDetachRunsLeaveAndNotifies(t *testing.T) {
	c := newTestCoordinator(t)
	c1 := attach(c, "s1")
	c2 := attach(c, "s2")
	c.Register(c1, "id-1", "Alice")
	c.Register(c2, "id-2", "Bob")

	c.Detach(c2, "id-2")

	leaves := c1.received(EventPlayerLeave)
	if len(leaves) != 1 {
		t.Fatalf("expected one leave notification, got %d", len(leaves))
	}
	p := leaves[0].payload.(game.Player)
	if p.Seat != 1 || p.Name != "Bob" {
		t.Fatalf("unexpected leave notification %+v", p)
	}

	updates := c1.received(EventGameStateUpdate)
	st := updates[len(updates)-1].payload.(game.State)
	if st.Connected != 1 || st.Status != game.StatusWaiting {
		t.Fatalf("expected a waiting room of 1, got %d %s", st.Connected, st.Status)
	}

	// The detached connection no longer receives broadcasts.
	countBefore := len(c2.received(EventGameStateUpdate))
	cn3 := attach(c, "s3")
	c.Register(cn3, "id-3", "Carol")
	if len(c2.received(EventGameStateUpdate)) != countBefore {
		t.Fatal("detached connection should not receive further broadcasts")
	}
}

func TestPlayerCountRepliesToRequesterOnly(t *testing.T) {
	c := newTestCoordinator(t)
	c1 := attach(c, "s1")
	c2 := attach(c, "s2")
	c.Register(c1, "id-1", "Alice")

	c.PlayerCount(c2)

	counts := c2.received(EventPlayerCount)
	if len(counts) != 1 {
		t.Fatalf("expected one count reply, got %d", len(counts))
	}
	if got := counts[0].payload.(CountPayload); got.Count != 1 {
		t.Fatalf("expected count 1, got %d", got.Count)
	}
	if len(c1.received(EventPlayerCount)) != 0 {
		t.Fatal("count replies must not broadcast")
	}
}

func TestReturningProbe(t *testing.T) {
	c := newTestCoordinator(t)
	c1 := attach(c, "s1")
	c.Register(c1, "id-1", "Alice")

	c.ReturningProbe(c1, "id-1")
	c.ReturningProbe(c1, "nobody")

	replies := c1.received(EventReturningPlayer)
	if len(replies) != 2 {
		t.Fatalf("expected two probe replies, got %d", len(replies))
	}
	found := replies[0].payload.(ReturningPayload)
	if !found.Found || found.Name != "Alice" || found.Seat != 0 {
		t.Fatalf("unexpected probe reply %+v", found)
	}
	missing := replies[1].payload.(ReturningPayload)
	if missing.Found {
		t.Fatalf("unknown identity must not be found, got %+v", missing)
	}
}

func TestConcurrentRegistrationsNeverShareASeat(t *testing.T) {
	c := newTestCoordinator(t)

	const n = 16
	conns := make([]*fakeConn, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		conns[i] = attach(c, fmt.Sprintf("s%d", i))
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c.Register(conns[i], fmt.Sprintf("id-%d", i), "P")
		}(i)
	}
	wg.Wait()

	seats := make(map[int]bool)
	accepted := 0
	for _, cn := range conns {
		for _, e := range cn.received(EventPlayerRegistered) {
			st := e.payload.(game.State)
			if seats[st.ThisPlayer.Seat] {
				t.Fatalf("seat %d assigned twice", st.ThisPlayer.Seat)
			}
			seats[st.ThisPlayer.Seat] = true
			accepted++
		}
	}
	if accepted != game.MaxSeats {
		t.Fatalf("expected exactly %d accepted registrations, got %d", game.MaxSeats, accepted)
	}
}
