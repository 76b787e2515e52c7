package midi

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/delugian/midi/internal/midi/mididarwin"
	"github.com/delugian/midi/internal/midi/midigomidi"
	"github.com/delugian/midi/internal/midi/midiwindows"
	"github.com/delugian/midi/sdk/contracts"
)

// ErrUnsupportedOS is returned when the operating system is not supported by the MIDI client.
var ErrUnsupportedOS = errors.New("unsupported operating system")

// driverInitializers maps OS names to the platform driver. Other systems use rtmidi through gomidi.
var driverInitializers = map[string]func(*contracts.ClientOptions) (contracts.Driver, error){
	"darwin":  mididarwin.NewDriver,  // macOS (Darwin) CoreMIDI driver.
	"windows": midiwindows.NewDriver, // Windows winmm driver.
	"linux":   midigomidi.NewDriver,  // ALSA through rtmidi.
	"freebsd": midigomidi.NewDriver,
}

// NewDriver initializes the MIDI driver for the current operating system.
func NewDriver(opts *contracts.ClientOptions) (contracts.Driver, error) {
	if initializer, exists := driverInitializers[runtime.GOOS]; exists {
		return initializer(opts)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedOS, runtime.GOOS)
}

// unavailableDriver stands in when no platform driver could be initialized.
// It lists no inputs, so the client behaves as if nothing were plugged in.
type unavailableDriver struct {
	cause error
}

func (d unavailableDriver) Inputs() ([]contracts.MidiDevice, error) {
	return nil, d.cause
}

func (d unavailableDriver) OpenInput(index int, _ func([]byte), _ func(error)) (contracts.InputPort, error) {
	return nil, fmt.Errorf("%w: input %d: %w", contracts.ErrDeviceUnavailable, index, d.cause)
}

func (d unavailableDriver) OpenOutput(name string) (contracts.OutputPort, error) {
	return nil, fmt.Errorf("%w: %q: %w", contracts.ErrNoOutputPort, name, d.cause)
}

func (d unavailableDriver) Close() error {
	return nil
}
