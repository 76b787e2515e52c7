package message

import (
	"testing"

	"github.com/delugian/midi/sdk/contracts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomidi "gitlab.com/gomidi/midi/v2"
)

func TestDecodeNoteOnWithVelocity(t *testing.T) {
	for channel := uint8(0); channel < 16; channel++ {
		for note := uint8(0); note < 128; note += 7 {
			for _, velocity := range []uint8{1, 64, 127} {
				raw := []byte{0x90 | channel, note, velocity}
				ev := Decode(raw)
				require.Equal(t, contracts.NoteOnEvent, ev.Kind, "% X", raw)
				assert.Equal(t, channel, ev.Channel)
				assert.Equal(t, note, ev.Note)
				assert.Equal(t, velocity, ev.Velocity)
			}
		}
	}
}

func TestDecodeNoteOnZeroVelocityIsNoteOff(t *testing.T) {
	for channel := uint8(0); channel < 16; channel++ {
		for note := uint8(0); note < 128; note++ {
			ev := Decode([]byte{0x90 | channel, note, 0})
			require.Equal(t, contracts.NoteOffEvent, ev.Kind)
			assert.Equal(t, note, ev.Note)
			assert.Equal(t, uint8(0), ev.Velocity)
		}
	}
}

func TestDecodeNoteOff(t *testing.T) {
	ev := Decode(gomidi.NoteOffVelocity(3, 60, 40))
	assert.Equal(t, contracts.NoteOffEvent, ev.Kind)
	assert.Equal(t, uint8(3), ev.Channel)
	assert.Equal(t, uint8(60), ev.Note)
	assert.Equal(t, uint8(40), ev.Velocity)

	ev = Decode(gomidi.NoteOn(0, 64, 100))
	assert.Equal(t, contracts.NoteOnEvent, ev.Kind)
	assert.Equal(t, uint8(64), ev.Note)
}

func TestDecodeOtherPreservesBytes(t *testing.T) {
	tests := []struct {
		name string
		raw  []byte
	}{
		{"empty", []byte{}},
		{"nil", nil},
		{"control change", []byte{0xB0, 0x40, 0x7F}},
		{"program change", []byte{0xC2, 0x05}},
		{"pitch bend", []byte{0xE0, 0x00, 0x40}},
		{"sysex", []byte{0xF0, 0x7E, 0x7F, 0x06, 0x01, 0xF7}},
		{"clock", []byte{0xF8}},
		{"truncated note on", []byte{0x90, 0x40}},
		{"status only", []byte{0x80}},
		{"too long", []byte{0x90, 0x40, 0x64, 0x00}},
		{"data byte with high bit", []byte{0x90, 0xC0, 0x64}},
		{"velocity with high bit", []byte{0x80, 0x40, 0x80}},
		{"stray data", []byte{0x40, 0x64, 0x00}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := Decode(tt.raw)
			assert.Equal(t, contracts.OtherEvent, ev.Kind)
			assert.Equal(t, tt.raw, ev.Raw)
		})
	}
}

func TestEventCommand(t *testing.T) {
	assert.Equal(t, contracts.NoteOn, Decode([]byte{0x95, 1, 1}).Command())
	assert.Equal(t, contracts.ControlChange, Decode([]byte{0xB3, 1, 1}).Command())
	assert.Equal(t, contracts.SysEx, Decode([]byte{0xF0, 1, 0xF7}).Command())
	assert.Equal(t, contracts.MIDICommand(0), Decode(nil).Command())
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "raw 9040", Describe([]byte{0x90, 0x40}))
	assert.Equal(t, "raw ", Describe(nil))
	assert.Equal(t, "raw f00102", Describe([]byte{0xF0, 0x01, 0x02}))
	assert.NotEmpty(t, Describe([]byte{0xB0, 0x40, 0x7F}))
	assert.NotContains(t, Describe([]byte{0x90, 0x40, 0x64}), "raw ")
}

func TestParseHex(t *testing.T) {
	b, err := ParseHex("F0 7E 7F 06 01 F7")
	require.NoError(t, err)
	assert.Equal(t, []byte{0xF0, 0x7E, 0x7F, 0x06, 0x01, 0xF7}, b)

	b, err = ParseHex("f07e\t7f")
	require.NoError(t, err)
	assert.Equal(t, []byte{0xF0, 0x7E, 0x7F}, b)

	for _, bad := range []string{"", "  ", "F", "ZZ"} {
		_, err := ParseHex(bad)
		assert.Error(t, err, bad)
	}
}
