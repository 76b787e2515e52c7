package prefs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/delugian/midi/sdk/contracts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	p, err := Load(filepath.Join(t.TempDir(), "settings.json"))
	require.NoError(t, err)

	assert.Equal(t, 0, p.MidiDevice.ID)
	assert.Equal(t, DefaultLanguage, p.Language)
	assert.False(t, p.Flag("showNoteNames"))
}

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "settings.json")

	p := Default()
	p.SetMidiDevice(contracts.MidiDevice{Index: 2, Name: "Keyboard"})
	p.Language = "pt"
	p.SetFlag("showNoteNames", true)
	require.NoError(t, p.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Device{ID: 2, Name: "Keyboard"}, loaded.MidiDevice)
	assert.Equal(t, "pt", loaded.Language)
	assert.True(t, loaded.Flag("showNoteNames"))
}

func TestLoadFillsMissingFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"midiDevice":{"id":1}}`), 0644))

	p, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1, p.MidiDevice.ID)
	assert.Equal(t, DefaultLanguage, p.Language)
	assert.NotNil(t, p.Flags)
}

func TestLoadRejectsInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}
