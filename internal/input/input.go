// Package input decides, keystroke by keystroke, what happens to an input
// field whose first syllable must be composed toward the current match
// letter. Korean IME composition delivers a stream of intermediate buffer
// snapshots, some of which are dead ends; the decision procedure accepts,
// reverts, or clears the visible buffer and keeps a ghost preview of the
// next build step.
package input

import (
	"strings"
	"unicode/utf8"

	"github.com/hanmaru/kkeutmal/internal/game"
	"github.com/hanmaru/kkeutmal/internal/hangul"
)

type Kind int

const (
	// Clear resets the field to empty.
	Clear Kind = iota
	// Block reverts the visible buffer to the previously accepted value.
	Block
	// Continue accepts the buffer as the new previous-accepted value.
	Continue
)

func (k Kind) String() string {
	switch k {
	case Clear:
		return "clear"
	case Block:
		return "block"
	case Continue:
		return "continue"
	}
	return "unknown"
}

// Action is the decision for one input event. Value carries the accepted
// buffer when Kind is Continue.
type Action struct {
	Kind  Kind
	Value string
}

// Validate runs the decision procedure for a single input event.
//
//	input     the current raw buffer
//	prev      the last accepted buffer
//	letter    the last-typed unit (empty for deletions)
//	composing whether the IME has not yet committed the character
//
// The procedure is pure; applying the decision is the caller's concern.
func Validate(input, prev, letter string, composing bool, ml game.MatchLetter) Action {
	if input == "" {
		return Action{Kind: Clear}
	}

	// Once composition has committed, only the target prefix matters; any
	// text after it is free.
	if !composing {
		if !strings.HasPrefix(input, ml.Target) {
			return Action{Kind: Clear}
		}
		return Action{Kind: Continue, Value: input}
	}

	// Mid-way through building the first character.
	if prev == "" || stepIndex(ml, prev) >= 0 {
		if strings.HasPrefix(input, ml.Target) {
			return Action{Kind: Continue, Value: input}
		}
		if stepIndex(ml, input) >= 0 {
			return Action{Kind: Continue, Value: input}
		}
		if overshootsByOneJamo(input, ml) {
			return Action{Kind: Continue, Value: input}
		}
		// The composition went down a path that cannot reach the target.
		// This can also revert a valid longer composition in rare transient
		// states (e.g. 값 typed over target 가); kept as is pending product
		// clarification.
		return Action{Kind: Block}
	}

	// First character already committed, now composing a later one.
	if strings.HasPrefix(input, ml.Target) {
		return Action{Kind: Continue, Value: input}
	}
	if overshootsByOneJamo(input, ml) {
		return Action{Kind: Continue, Value: input}
	}
	if letter != "" && strings.HasPrefix(input, letter) {
		return Action{Kind: Clear}
	}
	return Action{Kind: Clear}
}

// overshootsByOneJamo reports whether the buffer is a single syllable with
// exactly one jamo more than the target: the transient state of composing a
// longer word whose first character still extends the target.
func overshootsByOneJamo(input string, ml game.MatchLetter) bool {
	if utf8.RuneCountInString(input) != 1 {
		return false
	}
	r, _ := utf8.DecodeRuneInString(input)
	return len(hangul.Decompose(r)) == len(hangul.Decompose(ml.TargetRune()))+1
}

// Preview computes the ghost overlay: the buffer extended with the build
// step that follows the buffer's first character. An empty buffer previews
// the first step; a first character that is no build step previews nothing.
func Preview(input string, ml game.MatchLetter) string {
	if input == "" {
		if len(ml.Steps) > 0 {
			return ml.Steps[0]
		}
		return ""
	}
	first, _ := utf8.DecodeRuneInString(input)
	idx := stepIndex(ml, string(first))
	if idx < 0 {
		return ""
	}
	if idx+1 < len(ml.Steps) {
		return input + ml.Steps[idx+1]
	}
	return input
}

func stepIndex(ml game.MatchLetter, s string) int {
	for i, step := range ml.Steps {
		if step == s {
			return i
		}
	}
	return -1
}

// Tracker threads the per-field composition state explicitly: the match
// letter in effect, the last accepted buffer, and the current ghost preview.
// Nothing survives a match letter change; a turn change resets the tracker
// no matter what composition is in flight.
type Tracker struct {
	Match game.MatchLetter
	Prev  string
	Ghost string
}

func NewTracker(ml game.MatchLetter) *Tracker {
	t := &Tracker{}
	t.Reset(ml)
	return t
}

// Reset rebinds the tracker to a new match letter and rebuilds the preview
// from its first step.
func (t *Tracker) Reset(ml game.MatchLetter) {
	t.Match = ml
	t.Prev = ""
	t.Ghost = Preview("", ml)
}

// Feed decides on one input event and applies the decision to the tracked
// state. The returned action tells the UI boundary what to do with the
// visible field: on Block it rewrites the field to t.Prev, on Clear it
// empties it.
func (t *Tracker) Feed(input, letter string, composing bool) Action {
	a := Validate(input, t.Prev, letter, composing, t.Match)
	switch a.Kind {
	case Clear:
		t.Prev = ""
		t.Ghost = Preview("", t.Match)
	case Block:
		// Visible buffer reverts to t.Prev; the tracked state is unchanged.
	case Continue:
		t.Prev = a.Value
		t.Ghost = Preview(a.Value, t.Match)
	}
	return a
}
