package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/shade/internal/dbus"
	"github.com/jmylchreest/shade/internal/dimmer"
)

var setCmd = &cobra.Command{
	Use:   "set <value|+n|-n>",
	Short: "Set the brightness",
	Long: `Set the brightness to an absolute percentage or move it by a relative
amount. Values are clamped to 10-100. The slider popup is shown as if a
hotkey had been pressed.

Examples:
  # Absolute
  shade set 60

  # Relative
  shade set +10
  shade set -15`,
	// Flag parsing is off so "-15" is read as a value, not a flag.
	DisableFlagParsing: true,
	RunE:               runSet,
}

func init() {
	rootCmd.AddCommand(setCmd)
}

// setRequest is a parsed set argument.
type setRequest struct {
	value    float64
	relative bool
}

// target resolves the request against the current brightness.
func (r setRequest) target(current float64) float64 {
	if r.relative {
		return dimmer.Clamp(current + r.value)
	}
	return dimmer.Clamp(r.value)
}

// parseSetArg parses "60", "+10" or "-15".
func parseSetArg(arg string) (setRequest, error) {
	arg = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(arg), "%"))
	if arg == "" {
		return setRequest{}, fmt.Errorf("missing brightness value")
	}

	relative := arg[0] == '+' || arg[0] == '-'
	v, err := strconv.ParseFloat(arg, 64)
	if err != nil {
		return setRequest{}, fmt.Errorf("invalid brightness %q: expected a number, +n or -n", arg)
	}
	return setRequest{value: v, relative: relative}, nil
}

func runSet(cmd *cobra.Command, args []string) error {
	if len(args) == 1 && (args[0] == "-h" || args[0] == "--help") {
		return cmd.Help()
	}
	if len(args) != 1 {
		return fmt.Errorf("set takes exactly one value, got %d", len(args))
	}

	req, err := parseSetArg(args[0])
	if err != nil {
		return err
	}

	return withClient(func(ctx context.Context, c *dbus.Client) error {
		current := 0.0
		if req.relative {
			current, err = c.Brightness(ctx)
			if err != nil {
				return err
			}
		}
		applied, err := c.SetBrightness(ctx, req.target(current))
		if err != nil {
			return err
		}
		logger.Debug("brightness set", "requested", args[0], "applied", applied)
		_, err = fmt.Fprintf(os.Stdout, "%g\n", applied)
		return err
	})
}
