package contracts

// MIDICommand represents the types of MIDI commands for event filtering.
type MIDICommand byte

const (
	// NoteOff is the MIDI command for a Note Off event (0x80).
	NoteOff MIDICommand = 0x80
	// NoteOn is the MIDI command for a Note On event (0x90).
	NoteOn MIDICommand = 0x90
	// ControlChange is the MIDI command for a Control Change event (0xB0).
	ControlChange MIDICommand = 0xB0
	// ProgramChange is the MIDI command for a Program Change event (0xC0).
	ProgramChange MIDICommand = 0xC0
	// SysEx is the status byte that opens a System Exclusive message (0xF0).
	SysEx MIDICommand = 0xF0
)

// MIDIEventFilter allows users to specify which MIDI commands are relayed to
// Observer.MessageReceived. It never affects chord tracking.
type MIDIEventFilter struct {
	Commands []MIDICommand // List of MIDI commands to relay.
}

// Allows reports whether the filter lets the command through.
func (f *MIDIEventFilter) Allows(command MIDICommand) bool {
	if f == nil {
		return true
	}
	for _, allowed := range f.Commands {
		if command == allowed {
			return true
		}
	}
	return false
}

// CoreMIDIConfig holds configuration for CoreMIDI.
type CoreMIDIConfig struct {
	ClientName string // Name of the MIDI client.
}

// ClientOptions defines the configuration options for the MIDI client.
type ClientOptions struct {
	Logger          Logger           // Logger for logging events and errors.
	LogLevel        LogLevel         // Level of logging to use.
	LogFilePath     string           // File path for logging if file logging is enabled.
	MIDIEventFilter *MIDIEventFilter // Optional filter for relayed MIDI messages.
	CoreMIDIConfig  *CoreMIDIConfig  // Configuration specific to CoreMIDI.
	Driver          Driver           // Platform driver; chosen from runtime.GOOS when nil.
	Observer        Observer         // Receives chord, device and message notifications.
	FrameBuffer     int              // Frames queued between the driver and the receive loop.
}

// Option is a function that modifies ClientOptions.
type Option func(*ClientOptions)

// WithLogger sets the logger for the MIDI client.
func WithLogger(l Logger) Option {
	return func(opts *ClientOptions) {
		opts.Logger = l
	}
}

// WithLogLevel sets the logging level for the MIDI client.
func WithLogLevel(level LogLevel) Option {
	return func(opts *ClientOptions) {
		opts.LogLevel = level
	}
}

// WithLogFile directs log output to the file at path.
func WithLogFile(path string) Option {
	return func(opts *ClientOptions) {
		opts.LogFilePath = path
	}
}

// WithMIDIEventFilter sets the MIDI event filter for the MIDI client.
func WithMIDIEventFilter(filter MIDIEventFilter) Option {
	return func(opts *ClientOptions) {
		opts.MIDIEventFilter = &filter
	}
}

// WithCoreMIDIConfig sets the CoreMIDI configuration for the MIDI client.
func WithCoreMIDIConfig(config CoreMIDIConfig) Option {
	return func(opts *ClientOptions) {
		opts.CoreMIDIConfig = &config
	}
}

// WithDriver replaces the platform driver.
func WithDriver(d Driver) Option {
	return func(opts *ClientOptions) {
		opts.Driver = d
	}
}

// WithObserver registers the receiver of the client's notifications.
func WithObserver(o Observer) Option {
	return func(opts *ClientOptions) {
		opts.Observer = o
	}
}

// WithFrameBuffer sets how many raw frames may wait for the receive loop.
func WithFrameBuffer(n int) Option {
	return func(opts *ClientOptions) {
		opts.FrameBuffer = n
	}
}
