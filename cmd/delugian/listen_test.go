package main

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/delugian/midi/internal/logger"
	"github.com/delugian/midi/internal/midi/miditest"
	"github.com/delugian/midi/internal/prefs"
	"github.com/delugian/midi/sdk/contracts"
	"github.com/delugian/midi/sdk/midi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreferredIndex(t *testing.T) {
	devices := []contracts.MidiDevice{
		{Index: 0, Name: "Keyboard"},
		{Index: 1, Name: "Pads"},
	}

	tests := []struct {
		name       string
		remembered prefs.Device
		index      int
		deviceName string
		want       int
	}{
		{"remembered id", prefs.Device{ID: 1}, -1, "", 1},
		{"remembered name moved", prefs.Device{ID: 0, Name: "Pads"}, -1, "", 1},
		{"remembered name gone", prefs.Device{ID: 5, Name: "Gone"}, -1, "", 5},
		{"explicit index wins", prefs.Device{ID: 1, Name: "Pads"}, 0, "", 0},
		{"name wins", prefs.Device{ID: 0}, 0, "Pads", 1},
		{"unknown name falls through", prefs.Device{ID: 1}, -1, "Missing", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := prefs.Default()
			p.MidiDevice = tt.remembered
			assert.Equal(t, tt.want, preferredIndex(p, devices, tt.index, tt.deviceName))
		})
	}
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestChordPrinterSettles(t *testing.T) {
	var out syncBuffer
	printer := newChordPrinter(&out, 20*time.Millisecond)

	printer.update([]uint8{60})
	printer.update([]uint8{60, 64})
	printer.update([]uint8{60, 64, 67})

	assert.Eventually(t, func() bool {
		return strings.Contains(out.String(), "chord [60 64 67]")
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, 1, strings.Count(out.String(), "chord "))
}

func newTestClient(t *testing.T, drv *miditest.Driver) contracts.ClientMIDI {
	t.Helper()
	client, err := midi.NewMIDIClient(contracts.WithDriver(drv), contracts.WithLogger(logger.NewNopLogger()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Stop() })
	return client
}

func TestConnectPreferredAcceptsUnnamedDevice(t *testing.T) {
	drv := miditest.NewDriver("")
	client := newTestClient(t, drv)

	device, err := connectPreferred(client, prefs.Default(), -1, "")
	require.NoError(t, err)
	assert.Equal(t, contracts.MidiDevice{Index: 0}, device)
	assert.Equal(t, 1, drv.OpenInputs())
}

func TestConnectPreferredWithoutInputs(t *testing.T) {
	drv := miditest.NewDriver()
	client := newTestClient(t, drv)

	_, err := connectPreferred(client, prefs.Default(), -1, "")
	assert.ErrorIs(t, err, errNoInputs)
	assert.Equal(t, 0, drv.OpenInputs())
}

func TestConnectPreferredByName(t *testing.T) {
	drv := miditest.NewDriver("Keyboard", "Pads")
	client := newTestClient(t, drv)

	device, err := connectPreferred(client, prefs.Default(), 0, "Pads")
	require.NoError(t, err)
	assert.Equal(t, "Pads", device.Name)
}

func TestMessagesSettingIsRemembered(t *testing.T) {
	p := prefs.Default()
	assert.False(t, messagesSetting(p, false, false))

	assert.True(t, messagesSetting(p, true, true))
	assert.True(t, messagesSetting(p, false, false), "kept without the flag")

	assert.False(t, messagesSetting(p, true, false))
	assert.False(t, p.Flag(showMessagesFlag))
}
