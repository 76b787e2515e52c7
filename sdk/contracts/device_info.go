package contracts

// MidiDevice describes one MIDI input endpoint as seen by the most recent enumeration.
// A MidiDevice is never updated: the next enumeration produces new values.
type MidiDevice struct {
	Index        int    `json:"index"`                  // Position in the enumeration that produced it.
	Name         string `json:"name,omitempty"`         // Driver-reported name, may be empty.
	Manufacturer string `json:"manufacturer,omitempty"` // Device manufacturer, when the driver reports one.
	EntityName   string `json:"entityName,omitempty"`   // Name of the entity to which the device belongs.
}
