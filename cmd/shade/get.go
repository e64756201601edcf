package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/shade/internal/dbus"
	"github.com/jmylchreest/shade/internal/dimmer"
)

var getOpts struct {
	format string
}

var getCmd = &cobra.Command{
	Use:   "get",
	Short: "Print the current brightness",
	Long: `Print the current brightness percentage.

Examples:
  # Plain number, for scripts
  shade get

  # With the overlay alpha, as JSON or YAML
  shade get -o json
  shade get -o yaml`,
	Args: cobra.NoArgs,
	RunE: runGet,
}

func init() {
	rootCmd.AddCommand(getCmd)

	getCmd.Flags().StringVarP(&getOpts.format, "output", "o", "plain",
		"Output format (plain, json, yaml)")
}

// brightnessReport is the structured form of get's output.
type brightnessReport struct {
	Brightness float64 `json:"brightness" yaml:"brightness"`
	Alpha      float64 `json:"alpha" yaml:"alpha"`
}

func runGet(cmd *cobra.Command, args []string) error {
	return withClient(func(ctx context.Context, c *dbus.Client) error {
		b, err := c.Brightness(ctx)
		if err != nil {
			return err
		}
		return writeBrightness(os.Stdout, getOpts.format, b)
	})
}

// writeBrightness renders b in the requested format.
func writeBrightness(w io.Writer, format string, b float64) error {
	report := brightnessReport{
		Brightness: b,
		Alpha:      dimmer.Alpha(b),
	}

	switch format {
	case "", "plain":
		_, err := fmt.Fprintf(w, "%g\n", b)
		return err
	case "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(report)
	case "yaml":
		encoder := yaml.NewEncoder(w)
		defer func() { _ = encoder.Close() }()
		return encoder.Encode(report)
	default:
		return fmt.Errorf("unknown output format %q (use plain, json or yaml)", format)
	}
}
