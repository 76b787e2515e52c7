//go:build darwin
// +build darwin

package mididarwin

import (
	"errors"
	"fmt"
	"sync"

	"github.com/delugian/midi/internal/message"
	"github.com/delugian/midi/sdk/contracts"
	"github.com/youpy/go-coremidi"
)

// Error definitions for MIDI connection and handling issues.
var (
	ErrInvalidMIDIDevice   = errors.New("invalid MIDI device")
	ErrMIDIConnectionError = errors.New("error connecting to MIDI device")
	ErrCreateInputPort     = errors.New("error creating input port")
	ErrCreateOutputPort    = errors.New("error creating output port")
)

// internalPortConnection is an interface for handling disconnection from a MIDI port.
type internalPortConnection interface {
	Disconnect()
}

// Driver implements contracts.Driver on CoreMIDI.
// CoreMIDI delivers packets that may hold several messages, so each input
// keeps its own message.Framer.
type Driver struct {
	logger contracts.Logger
	client coremidi.Client
	config *contracts.CoreMIDIConfig

	mu      sync.Mutex
	outPort *coremidi.OutputPort
}

// NewDriver creates the CoreMIDI client named by options.CoreMIDIConfig.
func NewDriver(options *contracts.ClientOptions) (contracts.Driver, error) {
	client, err := coremidi.NewClient(options.CoreMIDIConfig.ClientName)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", contracts.ErrDriverUnavailable, err)
	}
	options.Logger.Info("MIDI client successfully created",
		options.Logger.Field().String("clientName", options.CoreMIDIConfig.ClientName))

	return &Driver{
		logger: options.Logger,
		client: client,
		config: options.CoreMIDIConfig,
	}, nil
}

// Inputs lists CoreMIDI sources.
func (d *Driver) Inputs() ([]contracts.MidiDevice, error) {
	sources, err := coremidi.AllSources()
	if err != nil {
		return nil, fmt.Errorf("error listing MIDI sources: %w", err)
	}

	devices := make([]contracts.MidiDevice, len(sources))
	for i, source := range sources {
		sourceEntity := source.Entity()
		devices[i] = contracts.MidiDevice{
			Index:        i,
			Name:         source.Name(),
			EntityName:   sourceEntity.Name(),
			Manufacturer: sourceEntity.Manufacturer(),
		}
	}
	return devices, nil
}

// OpenInput connects a new input port to the source at index.
// onErr is never called: removal of a source is only seen by re-enumerating.
func (d *Driver) OpenInput(index int, onFrame func([]byte), onErr func(error)) (contracts.InputPort, error) {
	sources, err := coremidi.AllSources()
	if err != nil {
		return nil, fmt.Errorf("error retrieving MIDI sources: %w", err)
	}
	if index < 0 || index >= len(sources) {
		return nil, fmt.Errorf("%w: %w %d", contracts.ErrDeviceUnavailable, ErrInvalidMIDIDevice, index)
	}

	source := sources[index]
	port := &inputPort{framer: &message.Framer{}}

	inputPort, err := coremidi.NewInputPort(d.client, "Input Port", func(_ coremidi.Source, packet coremidi.Packet) {
		port.mu.RLock()
		defer port.mu.RUnlock()
		if port.closed {
			return
		}
		for _, frame := range port.framer.Frames(packet.Data) {
			onFrame(frame)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCreateInputPort, err)
	}

	conn, err := inputPort.Connect(source)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMIDIConnectionError, err)
	}
	port.conn = conn

	d.logger.Info("CoreMIDI source connected",
		d.logger.Field().Int("deviceID", index),
		d.logger.Field().String("deviceName", source.Name()))
	return port, nil
}

// OpenOutput finds the destination called name and sends through a shared output port.
func (d *Driver) OpenOutput(name string) (contracts.OutputPort, error) {
	destinations, err := coremidi.AllDestinations()
	if err != nil {
		return nil, fmt.Errorf("error listing MIDI destinations: %w", err)
	}

	for _, destination := range destinations {
		if destination.Name() != name {
			continue
		}
		out, err := d.sharedOutputPort()
		if err != nil {
			return nil, err
		}
		return &outputPort{port: out, destination: destination}, nil
	}
	return nil, fmt.Errorf("%w: %q", contracts.ErrNoOutputPort, name)
}

func (d *Driver) sharedOutputPort() (*coremidi.OutputPort, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.outPort != nil {
		return d.outPort, nil
	}
	out, err := coremidi.NewOutputPort(d.client, "Output Port")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCreateOutputPort, err)
	}
	d.outPort = &out
	return d.outPort, nil
}

// Close is a no-op: CoreMIDI releases the client with the process.
func (d *Driver) Close() error {
	return nil
}

// inputPort holds mu for reading while a packet is delivered, so Close
// returns only after in-flight packets are done.
type inputPort struct {
	mu     sync.RWMutex
	conn   internalPortConnection
	framer *message.Framer
	closed bool
}

// Close disconnects the source and waits for packets being processed.
func (p *inputPort) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	p.framer.Reset() // Drop a SysEx cut off by the close.
	conn := p.conn
	p.conn = nil
	p.mu.Unlock()

	if conn != nil {
		conn.Disconnect()
	}
	return nil
}

type outputPort struct {
	port        *coremidi.OutputPort
	destination coremidi.Destination
}

func (o *outputPort) Send(data []byte) error {
	packet := coremidi.NewPacket(data, 0)
	return packet.Send(o.port, &o.destination)
}

func (o *outputPort) Close() error {
	return nil
}
