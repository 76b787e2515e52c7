package chord

import (
	"sync"
	"testing"

	"github.com/delugian/midi/sdk/contracts"
	"github.com/stretchr/testify/assert"
)

func on(note uint8) contracts.Event {
	return contracts.Event{Kind: contracts.NoteOnEvent, Note: note, Velocity: 100}
}

func off(note uint8) contracts.Event {
	return contracts.Event{Kind: contracts.NoteOffEvent, Note: note}
}

func TestApplyKeepsPressOrder(t *testing.T) {
	var s Stack
	s.Apply(on(60))
	s.Apply(on(64))
	notes, changed := s.Apply(on(67))
	assert.True(t, changed)
	assert.Equal(t, []uint8{60, 64, 67}, notes)

	notes, changed = s.Apply(off(64))
	assert.True(t, changed)
	assert.Equal(t, []uint8{60, 67}, notes)
}

func TestDuplicateNoteRemovesFirstOccurrenceOnly(t *testing.T) {
	var s Stack
	s.Apply(on(60))
	s.Apply(on(62))
	s.Apply(on(60))
	s.Apply(off(60))
	assert.Equal(t, []uint8{62, 60}, s.Snapshot())

	s.Apply(off(60))
	assert.Equal(t, []uint8{62}, s.Snapshot())
}

func TestOffWithoutOnIsNoop(t *testing.T) {
	var s Stack
	notes, changed := s.Apply(off(60))
	assert.False(t, changed)
	assert.Empty(t, notes)
	assert.Empty(t, s.Snapshot())
}

func TestOtherEventsIgnored(t *testing.T) {
	var s Stack
	s.Apply(on(48))
	_, changed := s.Apply(contracts.Event{Kind: contracts.OtherEvent, Raw: []byte{0xB0, 0x40, 0x7F}})
	assert.False(t, changed)
	assert.Equal(t, []uint8{48}, s.Snapshot())
}

func TestSnapshotIsACopy(t *testing.T) {
	var s Stack
	s.Apply(on(60))
	snap := s.Snapshot()
	snap[0] = 1
	assert.Equal(t, []uint8{60}, s.Snapshot())
}

func TestClear(t *testing.T) {
	var s Stack
	assert.False(t, s.Clear())
	s.Apply(on(60))
	s.Apply(on(64))
	assert.True(t, s.Clear())
	assert.Empty(t, s.Snapshot())
}

func TestConcurrentSnapshots(t *testing.T) {
	var s Stack
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			s.Apply(on(60))
			s.Apply(on(64))
			s.Apply(off(60))
			s.Apply(off(64))
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			snap := s.Snapshot()
			assert.LessOrEqual(t, len(snap), 2)
		}
	}()
	wg.Wait()
	assert.Empty(t, s.Snapshot())
}
