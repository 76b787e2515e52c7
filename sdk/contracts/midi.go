package contracts

import (
	"context"
	"time"
)

// EventKind tags the variant carried by an Event.
type EventKind uint8

const (
	// OtherEvent is any message not decoded into a note event. Raw carries it unchanged.
	OtherEvent EventKind = iota
	// NoteOnEvent is a key press with a non-zero velocity.
	NoteOnEvent
	// NoteOffEvent is a key release, including a Note On with velocity zero.
	NoteOffEvent
)

// String returns a short name for the kind.
func (k EventKind) String() string {
	switch k {
	case NoteOnEvent:
		return "NoteOn"
	case NoteOffEvent:
		return "NoteOff"
	default:
		return "Other"
	}
}

// Event is a decoded MIDI message.
type Event struct {
	Timestamp uint64    // Receive time in Unix nanoseconds, set by the connection session.
	Kind      EventKind // Variant tag.
	Channel   uint8     // 0-15, note events only.
	Note      uint8     // 0-127, note events only.
	Velocity  uint8     // 0-127, note events only.
	Raw       []byte    // The message bytes exactly as received.
}

// Command returns the command family of the raw message: the high nibble of a
// channel message status, or the full status byte of a system message.
func (e Event) Command() MIDICommand {
	if len(e.Raw) == 0 {
		return 0
	}
	status := e.Raw[0]
	if status >= 0xF0 {
		return MIDICommand(status)
	}
	return MIDICommand(status & 0xF0)
}

// InputPort is an open input handle returned by a Driver.
type InputPort interface {
	Close() error // Stops delivery and releases the handle.
}

// OutputPort is an open output handle returned by a Driver.
type OutputPort interface {
	Send(data []byte) error // Writes raw bytes to the device.
	Close() error           // Releases the handle.
}

// Driver is the platform MIDI layer.
//
// OpenInput must call onFrame once per framed MIDI message, in arrival order,
// and onErr when the device stops delivering (for example after it was unplugged).
// OpenOutput opens the output endpoint with the given name and returns
// ErrNoOutputPort when no such endpoint exists.
type Driver interface {
	Inputs() ([]MidiDevice, error)
	OpenInput(index int, onFrame func(frame []byte), onErr func(err error)) (InputPort, error)
	OpenOutput(name string) (OutputPort, error)
	Close() error
}

// Observer receives the notifications the engine produces.
// Calls are made synchronously from engine goroutines; an Observer must not
// call back into the client from within a notification.
type Observer interface {
	ChordChanged(notes []uint8)             // New snapshot of the held notes.
	DeviceConnected(device *MidiDevice)     // Resolved device after Connect, nil after the device was lost.
	DeviceListChanged(devices []MidiDevice) // Result of a refresh that the caller may want to persist or display.
	MessageReceived(event Event)            // Every decoded message that passes the event filter.
}

// ObserverFuncs adapts plain functions to Observer. Nil fields are skipped.
type ObserverFuncs struct {
	OnChordChanged      func(notes []uint8)
	OnDeviceConnected   func(device *MidiDevice)
	OnDeviceListChanged func(devices []MidiDevice)
	OnMessageReceived   func(event Event)
}

func (o ObserverFuncs) ChordChanged(notes []uint8) {
	if o.OnChordChanged != nil {
		o.OnChordChanged(notes)
	}
}

func (o ObserverFuncs) DeviceConnected(device *MidiDevice) {
	if o.OnDeviceConnected != nil {
		o.OnDeviceConnected(device)
	}
}

func (o ObserverFuncs) DeviceListChanged(devices []MidiDevice) {
	if o.OnDeviceListChanged != nil {
		o.OnDeviceListChanged(devices)
	}
}

func (o ObserverFuncs) MessageReceived(event Event) {
	if o.OnMessageReceived != nil {
		o.OnMessageReceived(event)
	}
}

// ClientMIDI is the surface an application uses to drive MIDI input.
type ClientMIDI interface {
	RefreshDevices() []MidiDevice                      // Enumerates inputs without touching the connection.
	Connect(preferredIndex int) (MidiDevice, error)    // Opens the preferred device, or the first one.
	Disconnect() error                                 // Closes the connection and clears the chord stack.
	CurrentChord() []uint8                             // Snapshot of the held notes.
	SendSysEx(data []byte) error                       // Raw write to the connected device's output.
	Watch(ctx context.Context, interval time.Duration) // Polls for device list changes until ctx is done.
	Stop() error                                       // Disconnects and releases the driver.
}
