//go:build !windows
// +build !windows

package midiwindows

import (
	"fmt"

	"github.com/delugian/midi/sdk/contracts"
)

// NewDriver reports that winmm exists only on Windows.
func NewDriver(options *contracts.ClientOptions) (contracts.Driver, error) {
	options.Logger.Warn("winmm driver requested on a non-Windows system")
	return nil, fmt.Errorf("%w: winmm is only available on Windows", contracts.ErrDriverUnavailable)
}
