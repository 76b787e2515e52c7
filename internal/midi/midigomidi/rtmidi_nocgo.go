//go:build !cgo

package midigomidi

import (
	"fmt"

	"github.com/delugian/midi/sdk/contracts"
)

// NewDriver reports that rtmidi needs cgo.
func NewDriver(options *contracts.ClientOptions) (contracts.Driver, error) {
	options.Logger.Warn("rtmidi requires cgo; MIDI input is not available in this build")
	return nil, fmt.Errorf("%w: built without cgo", contracts.ErrDriverUnavailable)
}
