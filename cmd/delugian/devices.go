package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(devicesCmd)
}

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "Lists MIDI inputs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := newClient(nil)
		if err != nil {
			return err
		}
		defer client.Stop()

		devices := client.RefreshDevices()
		if len(devices) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no MIDI inputs found")
			return nil
		}
		for _, d := range devices {
			fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\n", d.Index, d.Name, d.Manufacturer)
		}
		return nil
	},
}
