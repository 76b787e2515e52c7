// Package message turns raw MIDI bytes into typed events.
package message

import "github.com/delugian/midi/sdk/contracts"

// Decode classifies a single framed MIDI message.
//
// Note On (0x9n) and Note Off (0x8n) messages of exactly three bytes with valid
// data bytes become note events; a Note On with velocity 0 is a NoteOffEvent.
// Anything else, including truncated or malformed input, becomes an OtherEvent.
// Raw always references the input slice unchanged.
func Decode(b []byte) contracts.Event {
	ev := contracts.Event{Kind: contracts.OtherEvent, Raw: b}
	if len(b) != 3 || b[1]&0x80 != 0 || b[2]&0x80 != 0 {
		return ev
	}

	switch contracts.MIDICommand(b[0] & 0xF0) {
	case contracts.NoteOn:
		ev.Kind = contracts.NoteOnEvent
		if b[2] == 0 {
			ev.Kind = contracts.NoteOffEvent
		}
	case contracts.NoteOff:
		ev.Kind = contracts.NoteOffEvent
	default:
		return ev
	}

	ev.Channel = b[0] & 0x0F
	ev.Note = b[1]
	ev.Velocity = b[2]
	return ev
}
