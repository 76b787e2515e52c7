package midi

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/delugian/midi/internal/chord"
	"github.com/delugian/midi/internal/message"
	"github.com/delugian/midi/internal/registry"
	"github.com/delugian/midi/internal/session"
	"github.com/delugian/midi/sdk/contracts"
	"go.uber.org/multierr"
)

// DefaultWatchInterval is used by Watch when the interval is not positive.
const DefaultWatchInterval = time.Second

// Client coordinates device discovery, the connection session and the chord stack.
// It is the implementation of contracts.ClientMIDI.
type Client struct {
	logger   contracts.Logger
	driver   contracts.Driver
	registry *registry.Registry
	session  *session.Session
	stack    chord.Stack
	observer contracts.Observer
	filter   *contracts.MIDIEventFilter

	// mu serializes connect, disconnect and device loss.
	mu       sync.Mutex
	lastList []contracts.MidiDevice
	stopOnce sync.Once
}

// NewCoordinator builds a Client on an already initialized driver.
func NewCoordinator(options *contracts.ClientOptions) *Client {
	observer := options.Observer
	if observer == nil {
		observer = contracts.ObserverFuncs{}
	}

	c := &Client{
		logger:   options.Logger,
		driver:   options.Driver,
		registry: registry.New(options.Driver, options.Logger),
		session:  session.New(options.Driver, options.Logger, options.FrameBuffer),
		observer: observer,
		filter:   options.MIDIEventFilter,
	}
	c.session.OnLost(c.handleLost)
	return c
}

// RefreshDevices enumerates the inputs and publishes the list. The connection is not affected.
func (c *Client) RefreshDevices() []contracts.MidiDevice {
	devices := c.registry.Enumerate()

	c.mu.Lock()
	c.lastList = devices
	c.mu.Unlock()

	c.observer.DeviceListChanged(slices.Clone(devices))
	return devices
}

// Connect opens the input at preferredIndex, or the first input when the
// preference is out of range, and returns the device that was opened.
//
// When no input exists the result is a placeholder with Index 0 and no name,
// and the client stays disconnected. A failed open returns an error wrapping
// contracts.ErrDeviceUnavailable, with the client disconnected and the chord stack empty.
func (c *Client) Connect(preferredIndex int) (contracts.MidiDevice, error) {
	devices := c.registry.Enumerate()
	resolved := registry.Resolve(preferredIndex, devices)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.lastList = devices
	if preferredIndex != resolved {
		c.logger.Info("Preferred MIDI device not found; falling back",
			c.logger.Field().Int("preferred", preferredIndex),
			c.logger.Field().Int("resolved", resolved))
	}

	if err := c.closeLocked(); err != nil {
		c.logger.Warn("Error while closing MIDI input", c.logger.Field().Error("error", err))
	}

	if len(devices) == 0 {
		c.logger.Warn("No MIDI input devices to connect to")
		return contracts.MidiDevice{Index: 0}, nil
	}

	device := devices[resolved]
	c.session.SetListener(c.apply)
	if _, err := c.session.Open(device); err != nil {
		c.session.SetListener(nil)
		return contracts.MidiDevice{}, err
	}

	connected := device
	c.observer.DeviceConnected(&connected)
	return device, nil
}

// Disconnect closes the connection and clears the chord stack. It is a no-op when disconnected.
func (c *Client) Disconnect() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closeLocked()
}

// CurrentChord returns the held notes in press order.
func (c *Client) CurrentChord() []uint8 {
	return c.stack.Snapshot()
}

// SendSysEx writes data to the connected device's output port.
func (c *Client) SendSysEx(data []byte) error {
	return c.session.SendSysEx(data)
}

// Watch polls the inputs every interval until ctx is done. A changed list is
// published through DeviceListChanged; when the connected device is no longer
// listed it is treated as unplugged.
func (c *Client) Watch(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultWatchInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.scan()
		}
	}
}

// Stop disconnects and releases the driver. Later calls do nothing.
func (c *Client) Stop() error {
	var err error
	c.stopOnce.Do(func() {
		c.logger.Info("Stopping MIDI client")
		err = multierr.Append(c.Disconnect(), c.driver.Close())
	})
	return err
}

func (c *Client) scan() {
	devices, err := c.registry.List()
	if err != nil {
		// A failed query says nothing about the connected device.
		c.logger.Warn("Failed to list MIDI inputs; skipping device check", c.logger.Field().Error("error", err))
		return
	}

	c.mu.Lock()
	changed := !slices.Equal(c.lastList, devices)
	c.lastList = devices
	state, current := c.session.State()
	id := c.session.ID()
	c.mu.Unlock()

	if changed {
		c.logger.Info("MIDI device list changed", c.logger.Field().Int("count", len(devices)))
		c.observer.DeviceListChanged(slices.Clone(devices))
	}

	if state != session.Open {
		return
	}
	// Matching is by name: with two same-named inputs, losing one goes
	// unnoticed here and is only seen if the driver reports it.
	if _, ok := registry.FindByName(current.Name, devices); !ok {
		c.handleLost(id, contracts.ErrDeviceLost)
	}
}

// apply is the session listener: events reach the stack in arrival order.
func (c *Client) apply(ev contracts.Event) {
	if ev.Kind == contracts.OtherEvent {
		c.logger.Debug("MIDI message",
			c.logger.Field().String("message", message.Describe(ev.Raw)),
			c.logger.Field().Binary("raw", ev.Raw))
	}
	if c.filter.Allows(ev.Command()) {
		c.observer.MessageReceived(ev)
	}

	notes, changed := c.stack.Apply(ev)
	if changed {
		c.observer.ChordChanged(notes)
	}
}

func (c *Client) handleLost(id string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if id == "" || c.session.ID() != id {
		return
	}
	c.logger.Warn("MIDI device lost", c.logger.Field().String("session", id), c.logger.Field().Error("error", err))
	if closeErr := c.closeLocked(); closeErr != nil {
		c.logger.Warn("Error while closing lost MIDI input", c.logger.Field().Error("error", closeErr))
	}
	c.observer.DeviceConnected(nil)
}

func (c *Client) closeLocked() error {
	err := c.session.Close()
	c.session.SetListener(nil)
	if c.stack.Clear() {
		c.observer.ChordChanged([]uint8{})
	}
	return err
}
