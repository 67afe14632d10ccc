package control

// Status represents the status of the game loop. It
// can be one of the following:
//
//   - Running
//   - Paused
//   - Stopped
type Status int

const (
	// Running represents the status of the game loop
	// while it is producing frames.
	Running Status = iota
	// Paused represents the status of the game loop
	// while it is waiting to be resumed.
	Paused
	// Stopped represents the status of the game loop
	// before it has started, or after it has been closed.
	Stopped
)

func (s Status) String() string {
	switch s {
	case Running:
		return "Running"
	case Paused:
		return "Paused"
	case Stopped:
		return "Stopped"
	default:
		return "Unknown"
	}
}

func (s Status) IsRunning() bool {
	return s == Running
}

func (s Status) IsPaused() bool {
	return s == Paused
}

func (s Status) IsStopped() bool {
	return s == Stopped
}
