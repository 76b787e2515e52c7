// Package registry enumerates MIDI inputs and resolves a preferred selection.
package registry

import (
	"github.com/delugian/midi/sdk/contracts"
)

// Registry lists the inputs a driver exposes. It never opens a device.
type Registry struct {
	driver contracts.Driver
	logger contracts.Logger
}

// New returns a Registry backed by driver.
func New(driver contracts.Driver, logger contracts.Logger) *Registry {
	return &Registry{driver: driver, logger: logger}
}

// Enumerate queries the driver once and numbers the inputs in driver order.
// A driver failure is logged and yields an empty list.
func (r *Registry) Enumerate() []contracts.MidiDevice {
	devices, err := r.List()
	if err != nil {
		r.logger.Warn("Failed to list MIDI inputs", r.logger.Field().Error("error", err))
		return []contracts.MidiDevice{}
	}
	return devices
}

// List is Enumerate with the driver failure returned instead of hidden, for
// callers that must tell "no inputs" from "could not ask".
func (r *Registry) List() ([]contracts.MidiDevice, error) {
	inputs, err := r.driver.Inputs()
	if err != nil {
		return nil, err
	}

	devices := make([]contracts.MidiDevice, len(inputs))
	for i, in := range inputs {
		in.Index = i
		devices[i] = in
	}
	r.logger.Debug("MIDI inputs enumerated", r.logger.Field().Int("count", len(devices)))
	return devices, nil
}

// Resolve returns preferred when it indexes devices, otherwise 0.
func Resolve(preferred int, devices []contracts.MidiDevice) int {
	if preferred >= 0 && preferred < len(devices) {
		return preferred
	}
	return 0
}

// FindByName returns the index of the first device called name.
func FindByName(name string, devices []contracts.MidiDevice) (int, bool) {
	for i, d := range devices {
		if d.Name == name {
			return i, true
		}
	}
	return -1, false
}
