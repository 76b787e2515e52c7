package midi

import (
	"errors"
	"fmt"

	"github.com/delugian/midi/sdk/contracts"
)

// NewMIDIClient creates a new MIDI client with the specified options.
// It applies default options, initializes the platform driver unless one was
// supplied with contracts.WithDriver, and returns a disconnected client.
// When the platform driver cannot be initialized the client still works and
// simply lists no inputs.
//
// opts ...contracts.Option: A variadic list of option functions to customize the client configuration.
//
// Returns:
//   - contracts.ClientMIDI: An instance of the MIDI client.
//   - error: An error, if any occurred during the creation of the client.
func NewMIDIClient(opts ...contracts.Option) (contracts.ClientMIDI, error) {
	options, err := applyDefaultOptions(opts...)
	if err != nil {
		return nil, err
	}

	if options.Driver == nil {
		driver, err := NewDriver(&options)
		if err != nil {
			options.Logger.Warn("MIDI driver unavailable; no inputs will be listed",
				options.Logger.Field().Error("error", err))
			if !errors.Is(err, contracts.ErrDriverUnavailable) {
				err = fmt.Errorf("%w: %w", contracts.ErrDriverUnavailable, err)
			}
			driver = unavailableDriver{cause: err}
		}
		options.Driver = driver
	}

	return NewCoordinator(&options), nil
}
