package message

// Length returns the size in bytes of a message starting with status, or 0 when
// the length is not fixed (SysEx) or status is not a status byte.
func Length(status byte) int {
	switch {
	case status < 0x80:
		return 0
	case status < 0xF0:
		switch status & 0xF0 {
		case 0xC0, 0xD0:
			return 2
		default:
			return 3
		}
	}

	switch status {
	case 0xF0:
		return 0
	case 0xF1, 0xF3:
		return 2
	case 0xF2:
		return 3
	default:
		return 1
	}
}

// Framer splits driver packets into single MIDI messages.
//
// It expands running status, emits realtime bytes as they appear (even inside
// another message), and reassembles SysEx that spans several packets.
// A Framer is not safe for concurrent use; keep one per input port.
type Framer struct {
	running byte
	pending []byte
	sysex   bool
}

// Frames returns the complete messages found in data. Incomplete channel or
// system common messages at the end of a packet are emitted as they are.
func (f *Framer) Frames(data []byte) [][]byte {
	var frames [][]byte
	flush := func() {
		if len(f.pending) > 0 {
			frames = append(frames, f.pending)
			f.pending = nil
		}
	}

	for _, b := range data {
		if b >= 0xF8 {
			frames = append(frames, []byte{b})
			continue
		}

		if f.sysex {
			if b&0x80 == 0 {
				f.pending = append(f.pending, b)
				continue
			}
			f.sysex = false
			if b == 0xF7 {
				f.pending = append(f.pending, b)
				flush()
				continue
			}
			// Unterminated SysEx: the new status byte ends it.
			flush()
		}

		if b&0x80 != 0 {
			flush()
			switch {
			case b == 0xF0:
				f.running = 0
				f.sysex = true
				f.pending = []byte{b}
			case b >= 0xF0:
				f.running = 0
				f.pending = []byte{b}
			default:
				f.running = b
				f.pending = []byte{b}
			}
		} else {
			if len(f.pending) == 0 {
				if f.running == 0 {
					continue
				}
				f.pending = []byte{f.running}
			}
			f.pending = append(f.pending, b)
		}

		if n := Length(f.pending[0]); n > 0 && len(f.pending) >= n {
			flush()
		}
	}

	if !f.sysex {
		flush()
	}
	return frames
}

// Reset drops running status and any partial SysEx.
func (f *Framer) Reset() {
	f.running = 0
	f.pending = nil
	f.sysex = false
}
