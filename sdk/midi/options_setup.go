package midi

import (
	"github.com/delugian/midi/internal/logger"
	"github.com/delugian/midi/internal/session"
	"github.com/delugian/midi/sdk/contracts"
)

// DefaultClientName is the name the client registers with the platform MIDI layer.
const DefaultClientName = "Delugian MIDI Client"

// applyDefaultOptions sets default values for ClientOptions if not explicitly provided.
// The driver is left nil here; NewMIDIClient picks the platform one.
func applyDefaultOptions(opts ...contracts.Option) (contracts.ClientOptions, error) {
	options := &contracts.ClientOptions{}
	for _, opt := range opts {
		opt(options)
	}

	if options.Logger == nil {
		options.Logger = logger.NewZapLogger()
	}
	if options.LogLevel == 0 {
		options.LogLevel = contracts.InfoLevel
	}
	if options.CoreMIDIConfig == nil {
		options.CoreMIDIConfig = &contracts.CoreMIDIConfig{ClientName: DefaultClientName}
	}
	if options.FrameBuffer <= 0 {
		options.FrameBuffer = session.DefaultBuffer
	}

	options.Logger.SetLevel(options.LogLevel)
	if options.LogFilePath != "" {
		options.Logger.SetDestination(contracts.FileLog, options.LogFilePath)
	}
	return *options, nil
}
