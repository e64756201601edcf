package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/shade/internal/dbus"
)

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Raise brightness by one step",
	Long:  `Raise brightness by the configured step, exactly like the increase hotkey.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return stepBrightness((*dbus.Client).Increase)
	},
}

var downCmd = &cobra.Command{
	Use:   "down",
	Short: "Lower brightness by one step",
	Long:  `Lower brightness by the configured step, exactly like the decrease hotkey.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return stepBrightness((*dbus.Client).Decrease)
	},
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the slider popup",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(func(ctx context.Context, c *dbus.Client) error {
			return c.ShowSlider(ctx)
		})
	},
}

var quitCmd = &cobra.Command{
	Use:   "quit",
	Short: "Stop shaded",
	Long:  `Stop shaded, removing the overlay. Same as "Exit" in the tray menu.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(func(ctx context.Context, c *dbus.Client) error {
			return c.Quit(ctx)
		})
	},
}

func init() {
	rootCmd.AddCommand(upCmd)
	rootCmd.AddCommand(downCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(quitCmd)
}

func stepBrightness(step func(*dbus.Client, context.Context) (float64, error)) error {
	return withClient(func(ctx context.Context, c *dbus.Client) error {
		b, err := step(c, ctx)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(os.Stdout, "%g\n", b)
		return err
	})
}
