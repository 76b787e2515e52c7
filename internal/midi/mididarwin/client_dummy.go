//go:build !darwin
// +build !darwin

package mididarwin

import (
	"fmt"

	"github.com/delugian/midi/sdk/contracts"
)

// NewDriver reports that CoreMIDI exists only on macOS.
func NewDriver(options *contracts.ClientOptions) (contracts.Driver, error) {
	options.Logger.Warn("CoreMIDI driver requested on a non-macOS system")
	return nil, fmt.Errorf("%w: CoreMIDI is only available on macOS", contracts.ErrDriverUnavailable)
}
