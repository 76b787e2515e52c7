// Package prefs persists the host application's selection record.
package prefs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/delugian/midi/sdk/contracts"
)

// DefaultLanguage is used when the file does not name one.
const DefaultLanguage = "en"

// Device is the remembered MIDI input.
type Device struct {
	ID   int    `json:"id"`
	Name string `json:"name,omitempty"`
}

// Preferences is the key-value record owned by the host application.
type Preferences struct {
	MidiDevice Device          `json:"midiDevice"`
	Language   string          `json:"language,omitempty"`
	Flags      map[string]bool `json:"flags,omitempty"`
}

// Default returns an empty selection in the default language.
func Default() *Preferences {
	return &Preferences{
		Language: DefaultLanguage,
		Flags:    map[string]bool{},
	}
}

// DefaultPath returns ~/.config/delugian/settings.json.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "delugian", "settings.json"), nil
}

// Load reads path, or returns defaults if the file does not exist.
func Load(path string) (*Preferences, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}

	p := Default()
	if err := json.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if p.Language == "" {
		p.Language = DefaultLanguage
	}
	if p.Flags == nil {
		p.Flags = map[string]bool{}
	}
	return p, nil
}

// Save writes p to path, creating the directory if needed.
func (p *Preferences) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// SetMidiDevice remembers dev as the preferred input.
func (p *Preferences) SetMidiDevice(dev contracts.MidiDevice) {
	p.MidiDevice = Device{ID: dev.Index, Name: dev.Name}
}

// Flag reports the value of a boolean setting; unknown flags are false.
func (p *Preferences) Flag(name string) bool {
	return p.Flags[name]
}

// SetFlag stores a boolean setting.
func (p *Preferences) SetFlag(name string, value bool) {
	if p.Flags == nil {
		p.Flags = map[string]bool{}
	}
	p.Flags[name] = value
}
