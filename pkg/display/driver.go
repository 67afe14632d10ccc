package display

import (
	"flag"
	"fmt"
	"sort"
	"strconv"

	"github.com/thelolagemann/alien8/internal/input"
	"github.com/thelolagemann/alien8/pkg/control"
	"github.com/thelolagemann/alien8/pkg/display/event"
)

// Driver is the interface that wraps the basic methods for a
// display driver.
type Driver interface {
	// Initialize initializes the display driver by attaching it to
	// the game that is using it.
	Initialize(game Game)
	// Start the display driver. Start blocks until the window is
	// closed or the game stops, presenting each frame received on
	// fb and reporting key edges on pressed and released.
	Start(fb <-chan []byte, events <-chan event.Event, pressed, released chan<- input.Intent) error
	// Stop the display driver.
	Stop() error
}

// Game is the interface that wraps the basic methods for a
// game to implement in order for the driver to be able to
// interact with it. The game is passed to the driver
// during initialization.
type Game interface {
	// SendCommand sends a command packet to the game.
	SendCommand(command control.CommandPacket) control.ResponsePacket
	// Speed returns the speed of the game loop.
	Speed() float64
	// Status returns the status of the game loop.
	Status() control.Status
	// Size returns the dimensions of each frame.
	Size() (width, height int)
	// Title returns the title of the game.
	Title() string
}

var (
	Pause       = control.CommandPacket{Command: control.CommandPause}
	Resume      = control.CommandPacket{Command: control.CommandResume}
	TogglePause = control.CommandPacket{Command: control.CommandTogglePause}
	Reset       = control.CommandPacket{Command: control.CommandReset}
	Close       = control.CommandPacket{Command: control.CommandClose}
	Screenshot  = control.CommandPacket{Command: control.CommandScreenshot}
)

// DriverOption is a display driver option. This is used to
// configure a display driver.
type DriverOption struct {
	Name        string // name of the option
	Default     any    // default value of the option
	Value       any    // pointer to the value of the option
	Description string // description of the option
	Type        string // "int", "bool", "string", "float"
}

// InstalledDriver is a driver that has been installed. This is
// used to allow drivers to register their name.
type InstalledDriver struct {
	Name    string
	Options []DriverOption
	Driver
}

// InstalledDrivers is a list of all the installed drivers. This
// variable is exported so that it can be used by the main
// program to determine which drivers can be used. Drivers should
// call display.Install in their init() function.
var InstalledDrivers []*InstalledDriver

// GetDriver returns the driver with the given name, or nil if
// no driver with that name is installed.
func GetDriver(name string) Driver {
	if name == "auto" {
		if len(InstalledDrivers) == 0 {
			return nil
		}
		return InstalledDrivers[0].Driver
	}
	for _, driver := range InstalledDrivers {
		if driver.Name == name {
			return driver.Driver
		}
	}

	return nil
}

// Install registers a display driver with the given name.
func Install(name string, driver Driver, options []DriverOption) {
	InstalledDrivers = append(InstalledDrivers, &InstalledDriver{
		Name:    name,
		Options: options,
		Driver:  driver,
	})
}

// RegisterFlags iterates through all the display driver
// options and registers them with fs. Options unique to a
// driver are prefixed with the driver name (glfw-scale), options
// shared by several drivers are registered once and set every
// driver's value.
func RegisterFlags(fs *flag.FlagSet) {
	opts := make(map[string][]DriverOption)
	owners := make(map[string]string)
	var names []string

	for _, driver := range InstalledDrivers {
		for _, opt := range driver.Options {
			if _, ok := opts[opt.Name]; !ok {
				names = append(names, opt.Name)
				owners[opt.Name] = driver.Name
			}
			opts[opt.Name] = append(opts[opt.Name], opt)
		}
	}
	sort.Strings(names)

	for _, name := range names {
		shared := opts[name]
		flagName := name
		if len(shared) == 1 {
			flagName = fmt.Sprintf("%s-%s", owners[name], name)
		}

		// every driver starts from its default
		for _, opt := range shared {
			setDefault(opt)
		}

		fs.Var(&multiValue{options: shared}, flagName, shared[0].Description)
	}
}

func setDefault(opt DriverOption) {
	switch ptr := opt.Value.(type) {
	case *string:
		*ptr = opt.Default.(string)
	case *bool:
		*ptr = opt.Default.(bool)
	case *float64:
		*ptr = opt.Default.(float64)
	case *int:
		*ptr = opt.Default.(int)
	}
}

// multiValue is a flag.Value that writes to the values of
// one or more driver options.
type multiValue struct {
	options []DriverOption
}

func (m *multiValue) String() string {
	if m == nil || len(m.options) == 0 {
		return ""
	}
	return fmt.Sprint(m.options[0].Default)
}

func (m *multiValue) Set(value string) error {
	for _, opt := range m.options {
		switch ptr := opt.Value.(type) {
		case *string:
			*ptr = value
		case *bool:
			b, err := strconv.ParseBool(value)
			if err != nil {
				return err
			}
			*ptr = b
		case *float64:
			f, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return err
			}
			*ptr = f
		case *int:
			i, err := strconv.Atoi(value)
			if err != nil {
				return err
			}
			*ptr = i
		default:
			return fmt.Errorf("unknown type: %T", ptr) // should never happen, but just in case...
		}
	}

	return nil
}

func (m *multiValue) IsBoolFlag() bool {
	if len(m.options) == 0 {
		return false
	}
	_, isBool := m.options[0].Default.(bool)
	return isBool
}
