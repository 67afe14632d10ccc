// Package input tracks the movement intents held by the player.
// Raw key-down and key-up edges are folded into a State, which is
// sampled once per tick as an immutable Snapshot.
package input

// Intent represents a direction the player wants to move in.
type Intent = uint8

const (
	// Left moves the player sprite one pixel left per tick.
	Left Intent = iota
	// Right moves the player sprite one pixel right per tick.
	Right
	// Up moves the player sprite one pixel up per tick.
	Up
	// Down moves the player sprite one pixel down per tick.
	Down

	numIntents
)

// Name returns a human readable name for the intent.
func Name(i Intent) string {
	switch i {
	case Left:
		return "left"
	case Right:
		return "right"
	case Up:
		return "up"
	case Down:
		return "down"
	default:
		return "unknown"
	}
}

// State represents the held intents. Each bit of the
// mask corresponds to an Intent; a 1 indicates that the
// intent is held.
//
//	Bit 3 - Down
//	Bit 2 - Up
//	Bit 1 - Right
//	Bit 0 - Left
type State struct {
	held uint8
}

// New returns an empty input state.
func New() *State {
	return &State{}
}

// Press marks an intent as held. Unknown intents are ignored.
func (s *State) Press(i Intent) {
	if i >= numIntents {
		return
	}
	s.held |= 1 << i
}

// Release marks an intent as no longer held.
func (s *State) Release(i Intent) {
	if i >= numIntents {
		return
	}
	s.held &^= 1 << i
}

// Clear releases every intent.
func (s *State) Clear() {
	s.held = 0
}

// Snapshot returns the intents held at the time of the call.
func (s *State) Snapshot() Snapshot {
	return Snapshot(s.held)
}

// Snapshot is the set of intents held at the start of a tick.
type Snapshot uint8

// SnapshotOf builds a Snapshot from the given intents.
func SnapshotOf(intents ...Intent) Snapshot {
	s := New()
	for _, i := range intents {
		s.Press(i)
	}
	return s.Snapshot()
}

// Has reports whether the intent is held.
func (s Snapshot) Has(i Intent) bool {
	return s&(1<<i) != 0
}

// Empty reports whether no intent is held.
func (s Snapshot) Empty() bool {
	return s == 0
}

// Delta returns the movement requested by the snapshot. Opposing
// intents cancel each other out.
func (s Snapshot) Delta() (dx, dy int) {
	if s.Has(Left) {
		dx--
	}
	if s.Has(Right) {
		dx++
	}
	if s.Has(Up) {
		dy--
	}
	if s.Has(Down) {
		dy++
	}
	return dx, dy
}
