package main

import (
	"strings"

	"github.com/delugian/midi/internal/message"
	"github.com/spf13/cobra"
)

var sysexDevice int

func init() {
	sysexCmd.Flags().IntVar(&sysexDevice, "device", -1, "input index whose output receives the message (default: the remembered device)")
	rootCmd.AddCommand(sysexCmd)
}

var sysexCmd = &cobra.Command{
	Use:     "sysex <hex bytes>",
	Short:   "Sends raw bytes to the connected device's output",
	Example: `  delugian sysex F0 7E 7F 06 01 F7`,
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := message.ParseHex(strings.Join(args, " "))
		if err != nil {
			return err
		}

		p, _, err := loadPreferences()
		if err != nil {
			return err
		}

		client, _, err := newClient(nil)
		if err != nil {
			return err
		}
		defer client.Stop()

		if _, err := connectPreferred(client, p, sysexDevice, ""); err != nil {
			return err
		}
		return client.SendSysEx(data)
	},
}
