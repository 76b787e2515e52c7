package midi

import (
	"fmt"
	"runtime"
	"testing"

	"github.com/delugian/midi/internal/logger"
	"github.com/delugian/midi/sdk/contracts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// withPlatformDriver swaps the initializer for the running OS for one test.
func withPlatformDriver(t *testing.T, init func(*contracts.ClientOptions) (contracts.Driver, error)) {
	t.Helper()
	previous, had := driverInitializers[runtime.GOOS]
	driverInitializers[runtime.GOOS] = init
	t.Cleanup(func() {
		if had {
			driverInitializers[runtime.GOOS] = previous
		} else {
			delete(driverInitializers, runtime.GOOS)
		}
	})
}

func TestClientWithoutDriverListsNothing(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"driver unavailable", fmt.Errorf("%w: built without cgo", contracts.ErrDriverUnavailable)},
		{"unsupported os", fmt.Errorf("%w: plan9", ErrUnsupportedOS)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withPlatformDriver(t, func(*contracts.ClientOptions) (contracts.Driver, error) {
				return nil, tt.err
			})
			n := &notifications{}

			client, err := NewMIDIClient(
				contracts.WithLogger(logger.NewNopLogger()),
				contracts.WithObserver(n.observer()),
			)
			require.NoError(t, err)
			require.NotNil(t, client)

			devices := client.RefreshDevices()
			assert.NotNil(t, devices)
			assert.Empty(t, devices)

			device, err := client.Connect(0)
			require.NoError(t, err)
			assert.Equal(t, contracts.MidiDevice{Index: 0}, device)
			assert.Empty(t, n.connectedHistory())
			assert.ErrorIs(t, client.SendSysEx([]byte{0xF0, 0xF7}), contracts.ErrNotConnected)
			assert.NoError(t, client.Stop())
		})
	}
}

func TestUnavailableDriverRefusesPorts(t *testing.T) {
	drv := unavailableDriver{cause: contracts.ErrDriverUnavailable}

	_, err := drv.Inputs()
	assert.ErrorIs(t, err, contracts.ErrDriverUnavailable)

	_, err = drv.OpenInput(0, func([]byte) {}, nil)
	assert.ErrorIs(t, err, contracts.ErrDeviceUnavailable)

	_, err = drv.OpenOutput("Keyboard")
	assert.ErrorIs(t, err, contracts.ErrNoOutputPort)

	assert.NoError(t, drv.Close())
}
