//go:build cgo

package midigomidi

import (
	"fmt"

	"github.com/delugian/midi/sdk/contracts"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
)

// NewDriver initializes rtmidi and wraps it.
func NewDriver(options *contracts.ClientOptions) (contracts.Driver, error) {
	drv, err := rtmididrv.New()
	if err != nil {
		return nil, fmt.Errorf("%w: rtmididrv: %v", contracts.ErrDriverUnavailable, err)
	}
	options.Logger.Info("MIDI client created", options.Logger.Field().String("driver", drv.String()))
	return New(drv, options.Logger), nil
}
