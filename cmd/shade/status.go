package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/shade/internal/dbus"
	"github.com/jmylchreest/shade/internal/dimmer"
)

// WaybarStatus represents the Waybar custom module JSON format.
type WaybarStatus struct {
	Text       string `json:"text"`
	Alt        string `json:"alt,omitempty"`
	Tooltip    string `json:"tooltip,omitempty"`
	Class      string `json:"class,omitempty"`
	Percentage int    `json:"percentage,omitempty"`
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Output Waybar-compatible JSON status",
	Long: `Output the dimmer state in Waybar's custom module JSON format.

This is designed to be used with Waybar's custom module:

  "custom/shade": {
    "exec": "shade status",
    "interval": 2,
    "return-type": "json",
    "on-click": "shade show",
    "on-scroll-up": "shade up",
    "on-scroll-down": "shade down"
  }

The output includes:
  - text: Brightness percentage
  - alt/class: Dimming level (none, light, medium, heavy, stopped)
  - tooltip: Brightness, overlay alpha and daemon uptime
  - percentage: Brightness for Waybar format-icons`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	err := withClient(func(ctx context.Context, c *dbus.Client) error {
		b, err := c.Brightness(ctx)
		if err != nil {
			return err
		}
		info, err := c.ServerInformation(ctx)
		if err != nil {
			logger.Debug("failed to get server information", "error", err)
		}
		return outputStatus(os.Stdout, generateStatus(b, info, time.Now()))
	})
	if err != nil {
		// Keep the Waybar module rendering while shaded is down.
		logger.Debug("shaded unavailable", "error", err)
		return outputStatus(os.Stdout, stoppedStatus())
	}
	return nil
}

// dimmingClass names how strongly the screen is dimmed.
func dimmingClass(b float64) string {
	switch {
	case b >= dimmer.MaxBrightness:
		return "none"
	case b >= 70:
		return "light"
	case b >= 40:
		return "medium"
	default:
		return "heavy"
	}
}

// generateStatus builds the Waybar status for brightness b.
func generateStatus(b float64, info dbus.ServerInfo, now time.Time) WaybarStatus {
	class := dimmingClass(b)

	tooltip := fmt.Sprintf("Brightness: %.0f%%\nOverlay alpha: %.2f", b, dimmer.Alpha(b))
	if !info.StartedAt.IsZero() {
		tooltip += fmt.Sprintf("\n%s %s, started %s",
			info.Name, info.Version, humanize.RelTime(info.StartedAt, now, "ago", "from now"))
	}

	return WaybarStatus{
		Text:       fmt.Sprintf("%.0f%%", b),
		Alt:        class,
		Tooltip:    tooltip,
		Class:      class,
		Percentage: int(b + 0.5),
	}
}

// stoppedStatus is shown when shaded is not reachable.
func stoppedStatus() WaybarStatus {
	return WaybarStatus{
		Text:    "",
		Alt:     "stopped",
		Tooltip: "shaded is not running",
		Class:   "stopped",
	}
}

// outputStatus writes the status as JSON.
func outputStatus(w io.Writer, status WaybarStatus) error {
	encoder := json.NewEncoder(w)
	return encoder.Encode(status)
}
