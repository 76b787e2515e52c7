package main

import (
	"fmt"

	"github.com/delugian/midi/internal/logger"
	"github.com/delugian/midi/internal/prefs"
	"github.com/delugian/midi/sdk/contracts"
	"github.com/delugian/midi/sdk/midi"
	"github.com/spf13/cobra"
)

var (
	logLevel  string
	logFile   string
	prefsPath string
)

var rootCmd = &cobra.Command{
	Use:           "delugian",
	Short:         "MIDI input session engine",
	Long:          `Connects to a MIDI input and tracks the notes currently held down.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write logs to this file instead of stderr")
	rootCmd.PersistentFlags().StringVar(&prefsPath, "prefs", "", "preferences file (default ~/.config/delugian/settings.json)")
}

// Execute runs the root command.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

// newClient builds a MIDI client from the persistent flags.
func newClient(observer contracts.Observer) (contracts.ClientMIDI, contracts.Logger, error) {
	level, ok := contracts.ParseLogLevel(logLevel)
	if !ok {
		return nil, nil, fmt.Errorf("unknown log level %q", logLevel)
	}

	log := logger.NewZapLogger()
	opts := []contracts.Option{
		contracts.WithLogger(log),
		contracts.WithLogLevel(level),
	}
	if logFile != "" {
		opts = append(opts, contracts.WithLogFile(logFile))
	}
	if observer != nil {
		opts = append(opts, contracts.WithObserver(observer))
	}

	client, err := midi.NewMIDIClient(opts...)
	if err != nil {
		return nil, nil, err
	}
	return client, log, nil
}

func preferencesPath() (string, error) {
	if prefsPath != "" {
		return prefsPath, nil
	}
	return prefs.DefaultPath()
}

func loadPreferences() (*prefs.Preferences, string, error) {
	path, err := preferencesPath()
	if err != nil {
		return nil, "", err
	}
	p, err := prefs.Load(path)
	if err != nil {
		return nil, "", err
	}
	return p, path, nil
}
