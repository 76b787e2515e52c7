package message

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLength(t *testing.T) {
	tests := []struct {
		status byte
		want   int
	}{
		{0x40, 0},
		{0x80, 3},
		{0x9F, 3},
		{0xB0, 3},
		{0xC4, 2},
		{0xD0, 2},
		{0xE0, 3},
		{0xF0, 0},
		{0xF1, 2},
		{0xF2, 3},
		{0xF3, 2},
		{0xF6, 1},
		{0xF8, 1},
		{0xFE, 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Length(tt.status), "status %X", tt.status)
	}
}

func TestFramerSplitsPacket(t *testing.T) {
	var f Framer
	frames := f.Frames([]byte{0x90, 0x40, 0x64, 0x80, 0x40, 0x00, 0xC0, 0x05})
	assert.Equal(t, [][]byte{
		{0x90, 0x40, 0x64},
		{0x80, 0x40, 0x00},
		{0xC0, 0x05},
	}, frames)
}

func TestFramerExpandsRunningStatus(t *testing.T) {
	var f Framer
	frames := f.Frames([]byte{0x90, 0x3C, 0x64, 0x40, 0x64, 0x3C, 0x00})
	assert.Equal(t, [][]byte{
		{0x90, 0x3C, 0x64},
		{0x90, 0x40, 0x64},
		{0x90, 0x3C, 0x00},
	}, frames)

	// Running status survives across packets.
	frames = f.Frames([]byte{0x40, 0x00})
	assert.Equal(t, [][]byte{{0x90, 0x40, 0x00}}, frames)
}

func TestFramerRealtimeInsideMessage(t *testing.T) {
	var f Framer
	frames := f.Frames([]byte{0x90, 0x40, 0xF8, 0x64})
	assert.Equal(t, [][]byte{{0xF8}, {0x90, 0x40, 0x64}}, frames)
}

func TestFramerSysExAcrossPackets(t *testing.T) {
	var f Framer
	assert.Empty(t, f.Frames([]byte{0xF0, 0x7E, 0x7F}))
	frames := f.Frames([]byte{0x06, 0x01, 0xF7, 0x90, 0x40, 0x64})
	assert.Equal(t, [][]byte{
		{0xF0, 0x7E, 0x7F, 0x06, 0x01, 0xF7},
		{0x90, 0x40, 0x64},
	}, frames)
}

func TestFramerSystemMessagesCancelRunningStatus(t *testing.T) {
	var f Framer
	frames := f.Frames([]byte{0x90, 0x40, 0x64, 0xF3, 0x01, 0x40, 0x00})
	assert.Equal(t, [][]byte{
		{0x90, 0x40, 0x64},
		{0xF3, 0x01},
	}, frames)
}

func TestFramerUnterminatedSysExEndsAtStatus(t *testing.T) {
	var f Framer
	frames := f.Frames([]byte{0xF0, 0x01, 0x02, 0x80, 0x40, 0x00})
	assert.Equal(t, [][]byte{
		{0xF0, 0x01, 0x02},
		{0x80, 0x40, 0x00},
	}, frames)
}

func TestFramerTruncatedTailAndReset(t *testing.T) {
	var f Framer
	assert.Equal(t, [][]byte{{0x90, 0x40}}, f.Frames([]byte{0x90, 0x40}))

	f.Reset()
	assert.Empty(t, f.Frames([]byte{0x40, 0x00}))
}
