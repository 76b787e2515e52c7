package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/bep/debounce"
	"github.com/delugian/midi/internal/message"
	"github.com/delugian/midi/internal/prefs"
	"github.com/delugian/midi/internal/registry"
	"github.com/delugian/midi/sdk/contracts"
	"github.com/spf13/cobra"
)

var (
	listenDevice     int
	listenDeviceName string
	listenSettle     time.Duration
	listenPoll       time.Duration
	listenMessages   bool
)

// showMessagesFlag is the preference behind --messages.
const showMessagesFlag = "showMessages"

// errNoInputs is returned when there is nothing to connect to.
var errNoInputs = errors.New("no MIDI inputs found")

func init() {
	listenCmd.Flags().IntVar(&listenDevice, "device", -1, "input index (default: the remembered device)")
	listenCmd.Flags().StringVar(&listenDeviceName, "device-name", "", "input name, takes precedence over --device")
	listenCmd.Flags().DurationVar(&listenSettle, "settle", 30*time.Millisecond, "print a chord once it has been stable this long")
	listenCmd.Flags().DurationVar(&listenPoll, "poll", time.Second, "interval for detecting added or removed inputs")
	listenCmd.Flags().BoolVar(&listenMessages, "messages", false, "also print every received message (remembered)")
	rootCmd.AddCommand(listenCmd)
}

var listenCmd = &cobra.Command{
	Use:   "listen",
	Short: "Prints the held chord until interrupted",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, path, err := loadPreferences()
		if err != nil {
			return err
		}
		showMessages := messagesSetting(p, cmd.Flags().Changed("messages"), listenMessages)

		printer := newChordPrinter(cmd.OutOrStdout(), listenSettle)
		observer := contracts.ObserverFuncs{
			OnChordChanged: printer.update,
			OnDeviceConnected: func(device *contracts.MidiDevice) {
				if device == nil {
					fmt.Fprintln(cmd.OutOrStdout(), "device disconnected")
					return
				}
				p.SetMidiDevice(*device)
				if err := p.Save(path); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "saving preferences: %v\n", err)
				}
			},
			OnDeviceListChanged: func(devices []contracts.MidiDevice) {
				fmt.Fprintf(cmd.OutOrStdout(), "%d MIDI input(s) available\n", len(devices))
			},
			OnMessageReceived: func(event contracts.Event) {
				if showMessages {
					fmt.Fprintln(cmd.OutOrStdout(), message.Describe(event.Raw))
				}
			},
		}

		client, log, err := newClient(observer)
		if err != nil {
			return err
		}
		defer client.Stop()

		device, err := connectPreferred(client, p, listenDevice, listenDeviceName)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "listening on %d: %s\n", device.Index, device.Name)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go client.Watch(ctx, listenPoll)
		<-ctx.Done()

		log.Info("Shutting down")
		return nil
	},
}

// messagesSetting returns whether to print every message. An explicit
// --messages is stored in p so later runs remember it.
func messagesSetting(p *prefs.Preferences, changed, value bool) bool {
	if changed {
		p.SetFlag(showMessagesFlag, value)
	}
	return p.Flag(showMessagesFlag)
}

// connectPreferred enumerates the inputs and connects to the one chosen by
// preferredIndex. An empty enumeration is an error here, unlike in Connect.
func connectPreferred(client contracts.ClientMIDI, p *prefs.Preferences, index int, name string) (contracts.MidiDevice, error) {
	devices := client.RefreshDevices()
	if len(devices) == 0 {
		return contracts.MidiDevice{}, errNoInputs
	}
	return client.Connect(preferredIndex(p, devices, index, name))
}

// preferredIndex picks the input to open: a name match first, then an
// explicit index, then the remembered device, matched by name when it moved.
func preferredIndex(p *prefs.Preferences, devices []contracts.MidiDevice, index int, name string) int {
	if name != "" {
		if i, ok := registry.FindByName(name, devices); ok {
			return i
		}
	}
	if index >= 0 {
		return index
	}
	if p.MidiDevice.Name != "" {
		if i, ok := registry.FindByName(p.MidiDevice.Name, devices); ok {
			return i
		}
	}
	return p.MidiDevice.ID
}

// chordPrinter writes the chord once it stops changing for the settle period,
// so a rolled chord prints once instead of once per note.
type chordPrinter struct {
	w        io.Writer
	debounce func(func())

	mu     sync.Mutex
	latest []uint8
}

func newChordPrinter(w io.Writer, settle time.Duration) *chordPrinter {
	return &chordPrinter{w: w, debounce: debounce.New(settle)}
}

func (c *chordPrinter) update(notes []uint8) {
	c.mu.Lock()
	c.latest = notes
	c.mu.Unlock()
	c.debounce(c.flush)
}

func (c *chordPrinter) flush() {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.w, "chord %v\n", c.latest)
}
