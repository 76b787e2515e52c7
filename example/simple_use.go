package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/delugian/midi/internal/logger"
	"github.com/delugian/midi/sdk/contracts"
	"github.com/delugian/midi/sdk/midi"
)

func main() {
	log := logger.NewZapLogger()

	client, err := midi.NewMIDIClient(
		contracts.WithLogger(log),
		contracts.WithLogLevel(contracts.InfoLevel),
		contracts.WithMIDIEventFilter(contracts.MIDIEventFilter{
			Commands: []contracts.MIDICommand{contracts.NoteOn, contracts.NoteOff},
		}),
		contracts.WithObserver(contracts.ObserverFuncs{
			OnChordChanged: func(notes []uint8) {
				fmt.Println("Chord:", notes)
			},
			OnMessageReceived: func(event contracts.Event) {
				log.Info("MIDI Event",
					log.Field().Uint64("Timestamp", event.Timestamp),
					log.Field().String("Kind", event.Kind.String()),
					log.Field().Uint8("Channel", event.Channel),
					log.Field().Uint8("Note", event.Note),
					log.Field().Uint8("Velocity", event.Velocity),
				)
			},
		}),
	)
	if err != nil {
		log.Error("Failed to initialize MIDI client", log.Field().Error("error", err))
		return
	}
	defer client.Stop()

	devices := client.RefreshDevices()
	if len(devices) == 0 {
		log.Error("No MIDI devices found")
		return
	}
	fmt.Println("Available MIDI devices:", devices)

	device, err := client.Connect(0)
	if err != nil {
		log.Error("Failed to connect MIDI device", log.Field().Error("error", err))
		return
	}
	fmt.Printf("Capturing MIDI events from %s... Press Ctrl+C to exit.\n", device.Name)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	client.Watch(ctx, time.Second)
}
