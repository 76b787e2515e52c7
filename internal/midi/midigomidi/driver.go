// Package midigomidi adapts a gomidi driver (rtmidi by default) to contracts.Driver.
package midigomidi

import (
	"errors"
	"fmt"
	"sync"

	"github.com/delugian/midi/sdk/contracts"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

// sysExBufferSize bounds a single inbound SysEx message.
const sysExBufferSize = 4096

// Driver exposes the inputs and outputs of a gomidi driver.
type Driver struct {
	drv    drivers.Driver
	logger contracts.Logger
}

// New wraps drv.
func New(drv drivers.Driver, logger contracts.Logger) *Driver {
	return &Driver{drv: drv, logger: logger}
}

// Inputs lists the driver's input ports in driver order.
func (d *Driver) Inputs() ([]contracts.MidiDevice, error) {
	ins, err := d.drv.Ins()
	if err != nil {
		return nil, fmt.Errorf("error listing MIDI inputs: %w", err)
	}
	devices := make([]contracts.MidiDevice, len(ins))
	for i, in := range ins {
		devices[i] = contracts.MidiDevice{Index: i, Name: in.String()}
	}
	return devices, nil
}

// OpenInput opens the input at index and forwards every message, SysEx included.
func (d *Driver) OpenInput(index int, onFrame func([]byte), onErr func(error)) (contracts.InputPort, error) {
	ins, err := d.drv.Ins()
	if err != nil {
		return nil, fmt.Errorf("error listing MIDI inputs: %w", err)
	}
	if index < 0 || index >= len(ins) {
		return nil, fmt.Errorf("%w: no input %d", contracts.ErrDeviceUnavailable, index)
	}

	in := ins[index]
	if err := in.Open(); err != nil {
		return nil, fmt.Errorf("open %q: %w", in.String(), err)
	}

	stop, err := gomidi.ListenTo(in, func(msg gomidi.Message, _ int32) {
		onFrame(msg.Bytes())
	},
		gomidi.UseSysEx(),
		gomidi.SysExBufferSize(sysExBufferSize),
		gomidi.HandleError(func(listenErr error) {
			if onErr != nil {
				onErr(errors.Join(contracts.ErrDeviceLost, listenErr))
			}
		}),
	)
	if err != nil {
		_ = in.Close()
		return nil, fmt.Errorf("listen %q: %w", in.String(), err)
	}

	d.logger.Debug("rtmidi input opened", d.logger.Field().String("port", in.String()))
	return &inputPort{in: in, stop: stop}, nil
}

// OpenOutput opens the output port called name.
func (d *Driver) OpenOutput(name string) (contracts.OutputPort, error) {
	outs, err := d.drv.Outs()
	if err != nil {
		return nil, fmt.Errorf("error listing MIDI outputs: %w", err)
	}
	for _, out := range outs {
		if out.String() != name {
			continue
		}
		if err := out.Open(); err != nil {
			return nil, fmt.Errorf("open %q: %w", name, err)
		}
		return &outputPort{out: out}, nil
	}
	return nil, fmt.Errorf("%w: %q", contracts.ErrNoOutputPort, name)
}

// Close releases the underlying driver.
func (d *Driver) Close() error {
	return d.drv.Close()
}

type inputPort struct {
	in   drivers.In
	stop func()
	once sync.Once
}

func (p *inputPort) Close() error {
	var err error
	p.once.Do(func() {
		p.stop()
		err = p.in.Close()
	})
	return err
}

type outputPort struct {
	mu  sync.Mutex
	out drivers.Out
}

func (p *outputPort) Send(data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.out.IsOpen() {
		if err := p.out.Open(); err != nil {
			return err
		}
	}
	return p.out.Send(data)
}

func (p *outputPort) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.out.Close()
}
