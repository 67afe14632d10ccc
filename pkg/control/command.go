// Package control defines the packets a display.Driver uses to
// control a running game, and the status it reports back.
package control

import (
	"encoding/binary"
	"errors"
	"math"
)

// ErrUnknownCommand is returned in a ResponsePacket when the
// command isn't recognised.
var ErrUnknownCommand = errors.New("unknown command")

// CommandPacket is a command packet that is sent to the
// game to control it.
type CommandPacket struct {
	Command Command
	Data    []byte
}

// Command is a command that is sent to the game to
// control it.
type Command int

// ResponsePacket is a response packet that is sent
// from the game to the client.
type ResponsePacket struct {
	Command Command
	Data    []byte
	Error   error
}

const (
	// CommandPause pauses the game loop. Frames stop being
	// produced until CommandResume is received.
	CommandPause Command = iota
	// CommandResume resumes the game loop.
	CommandResume
	// CommandClose stops the game loop.
	CommandClose
	// CommandReset restores the initial sprite layout.
	CommandReset
	// CommandSetSpeed sets the speed multiplier of the game
	// loop. Data holds a little endian float64.
	CommandSetSpeed
	// CommandTogglePause pauses a running game, or resumes a
	// paused one.
	CommandTogglePause
	// CommandScreenshot writes the most recent frame to disk.
	// The response Data holds the path of the file written.
	CommandScreenshot
)

func (c Command) String() string {
	switch c {
	case CommandPause:
		return "Pause"
	case CommandResume:
		return "Resume"
	case CommandClose:
		return "Close"
	case CommandReset:
		return "Reset"
	case CommandSetSpeed:
		return "SetSpeed"
	case CommandTogglePause:
		return "TogglePause"
	case CommandScreenshot:
		return "Screenshot"
	default:
		return "Unknown"
	}
}

// SetSpeed builds a CommandSetSpeed packet.
func SetSpeed(speed float64) CommandPacket {
	data := make([]byte, 8)
	binary.LittleEndian.PutUint64(data, math.Float64bits(speed))
	return CommandPacket{Command: CommandSetSpeed, Data: data}
}

// Speed decodes the speed carried by a CommandSetSpeed packet.
func (p CommandPacket) Speed() (float64, bool) {
	if p.Command != CommandSetSpeed || len(p.Data) != 8 {
		return 0, false
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(p.Data)), true
}
