// Package miditest provides an in-memory contracts.Driver for tests.
package miditest

import (
	"fmt"
	"sync"

	"github.com/delugian/midi/sdk/contracts"
)

// Driver is a scripted MIDI driver. Devices can be replaced at any time, frames
// are injected with Deliver, and unplugging is simulated with Unplug.
type Driver struct {
	mu        sync.Mutex
	devices   []contracts.MidiDevice
	outputs   map[string]bool
	inputs    map[int]*InputPort
	refuse    map[int]error
	listErr   error
	sent      map[string][][]byte
	openCount int
	closed    bool
}

// NewDriver returns a driver exposing one input, and one output of the same name, per name.
func NewDriver(names ...string) *Driver {
	d := &Driver{
		inputs: make(map[int]*InputPort),
		refuse: make(map[int]error),
		sent:   make(map[string][][]byte),
	}
	d.SetDevices(names...)
	return d
}

// SetDevices replaces the enumerated inputs and outputs.
func (d *Driver) SetDevices(names ...string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.devices = make([]contracts.MidiDevice, len(names))
	d.outputs = make(map[string]bool, len(names))
	for i, name := range names {
		d.devices[i] = contracts.MidiDevice{Index: i, Name: name}
		d.outputs[name] = true
	}
}

// RemoveOutput drops the output endpoint called name.
func (d *Driver) RemoveOutput(name string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.outputs, name)
}

// FailList makes Inputs return err until called again with nil.
func (d *Driver) FailList(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.listErr = err
}

// Refuse makes opening input index fail with err until called again with nil.
func (d *Driver) Refuse(index int, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err == nil {
		delete(d.refuse, index)
		return
	}
	d.refuse[index] = err
}

func (d *Driver) Inputs() ([]contracts.MidiDevice, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.listErr != nil {
		return nil, d.listErr
	}
	out := make([]contracts.MidiDevice, len(d.devices))
	copy(out, d.devices)
	return out, nil
}

func (d *Driver) OpenInput(index int, onFrame func([]byte), onErr func(error)) (contracts.InputPort, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if index < 0 || index >= len(d.devices) {
		return nil, fmt.Errorf("%w: no input %d", contracts.ErrDeviceUnavailable, index)
	}
	if err := d.refuse[index]; err != nil {
		return nil, err
	}
	if p, ok := d.inputs[index]; ok && p.isOpen() {
		return nil, fmt.Errorf("input %d already open", index)
	}
	p := &InputPort{driver: d, index: index, onFrame: onFrame, onErr: onErr, open: true}
	d.inputs[index] = p
	d.openCount++
	return p, nil
}

func (d *Driver) OpenOutput(name string) (contracts.OutputPort, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.outputs[name] {
		return nil, fmt.Errorf("%w: %q", contracts.ErrNoOutputPort, name)
	}
	return &OutputPort{driver: d, name: name}, nil
}

func (d *Driver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	return nil
}

// Closed reports whether Close was called.
func (d *Driver) Closed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closed
}

// OpenInputs returns how many inputs are open right now.
func (d *Driver) OpenInputs() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := 0
	for _, p := range d.inputs {
		if p.isOpen() {
			n++
		}
	}
	return n
}

// OpenCount returns how many times an input was opened.
func (d *Driver) OpenCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.openCount
}

// Deliver passes frame to the open input at index, like a driver callback
// thread would. It reports false when the input is not open.
func (d *Driver) Deliver(index int, frame ...byte) bool {
	d.mu.Lock()
	p := d.inputs[index]
	d.mu.Unlock()
	if p == nil || !p.isOpen() {
		return false
	}
	p.onFrame(frame)
	return true
}

// Unplug removes the device at index from the enumeration and reports
// contracts.ErrDeviceLost to its open input, if any.
func (d *Driver) Unplug(index int) {
	d.mu.Lock()
	p := d.inputs[index]
	if index >= 0 && index < len(d.devices) {
		delete(d.outputs, d.devices[index].Name)
		d.devices = append(d.devices[:index:index], d.devices[index+1:]...)
		for i := range d.devices {
			d.devices[i].Index = i
		}
	}
	d.mu.Unlock()

	if p != nil && p.isOpen() && p.onErr != nil {
		p.onErr(contracts.ErrDeviceLost)
	}
}

// Sent returns the payloads written to the output called name.
func (d *Driver) Sent(name string) [][]byte {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([][]byte, len(d.sent[name]))
	copy(out, d.sent[name])
	return out
}

// InputPort is an open input of Driver.
type InputPort struct {
	driver  *Driver
	index   int
	onFrame func([]byte)
	onErr   func(error)

	mu   sync.Mutex
	open bool
}

func (p *InputPort) isOpen() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.open
}

func (p *InputPort) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.open = false
	return nil
}

// OutputPort is an open output of Driver.
type OutputPort struct {
	driver *Driver
	name   string
}

func (o *OutputPort) Send(data []byte) error {
	o.driver.mu.Lock()
	defer o.driver.mu.Unlock()
	cp := make([]byte, len(data))
	copy(cp, data)
	o.driver.sent[o.name] = append(o.driver.sent[o.name], cp)
	return nil
}

func (o *OutputPort) Close() error {
	return nil
}
