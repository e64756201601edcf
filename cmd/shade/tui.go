package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/shade/internal/dbus"
	"github.com/jmylchreest/shade/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal slider",
	Long: `Launch a terminal brightness slider for a running shaded.

Changes made with the hotkeys or the popup slider show up live.

Key bindings:
  ←/h/-       Dimmer by one step
  →/l/+       Brighter by one step
  1-9, 0      Jump to 10%-90%, 100%
  ?           Show help
  q, esc      Quit`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	client, err := dbus.NewClient()
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	updates := make(chan float64, 8)
	monitor := dbus.NewMonitor(client.Connection(), logger)
	monitor.SetHandler(func(brightness float64) {
		select {
		case updates <- brightness:
		default:
			// The model is behind; it will catch up on the next value.
		}
	})
	go func() {
		if err := monitor.Run(ctx); err != nil {
			logger.Warn("live updates unavailable", "error", err)
		}
	}()

	return tui.Run(tui.RunOptions{
		Client:  client,
		Updates: updates,
	})
}
