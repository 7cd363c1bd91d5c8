package cmd

import (
	"fmt"

	"github.com/okapiscan/okapi/internal/config"
	"github.com/spf13/cobra"
)

// addScannerFlags defines the decoder flags shared by the scanning
// commands.
func addScannerFlags(cmd *cobra.Command) {
	cmd.Flags().StringSliceP("symbology", "s", nil, "symbology to enable, repeatable (default: all)")
	cmd.Flags().StringSliceP("set", "S", nil, "decoder setting [symbology.]option[=value], repeatable")
	cmd.Flags().Bool("cache", false, "suppress duplicate decodes across consecutive scans")
	cmd.Flags().Bool("test-inverted", false, "also try an inverted copy of each image")
	cmd.Flags().Bool("position", true, "report symbol locations")
	cmd.Flags().Int("x-density", 1, "scan every Nth column (0 disables column passes)")
	cmd.Flags().Int("y-density", 1, "scan every Nth row (0 disables row passes)")
	cmd.Flags().Int("min-length", 0, "minimum decoded length for linear symbologies (0 = no limit)")
	cmd.Flags().Int("max-length", 0, "maximum decoded length for linear symbologies (0 = no limit)")
}

// bindScannerFlags binds the shared decoder flags to their configuration
// keys. Binding happens per command run, so the keys always resolve
// against the executing command's flag set.
func bindScannerFlags(cmd *cobra.Command) {
	bindings := []struct {
		key  string
		flag string
	}{
		{"scanner.symbologies", "symbology"},
		{"scanner.settings", "set"},
		{"scanner.cache", "cache"},
		{"scanner.test_inverted", "test-inverted"},
		{"scanner.position", "position"},
		{"scanner.x_density", "x-density"},
		{"scanner.y_density", "y-density"},
		{"scanner.min_length", "min-length"},
		{"scanner.max_length", "max-length"},
	}

	for _, b := range bindings {
		mustBindFlag(b.key, cmd.Flags().Lookup(b.flag))
	}
}

// addOutputFlags defines the result formatting flags shared by the
// scanning commands.
func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("format", "f", config.FormatText, "output format (text, json, xml, csv)")
	cmd.Flags().StringP("output", "o", "", "output file (default: stdout)")
}

func bindOutputFlags(cmd *cobra.Command) {
	mustBindFlag("output.format", cmd.Flags().Lookup("format"))
	mustBindFlag("output.file", cmd.Flags().Lookup("output"))
}

func validateFormat(format string) error {
	switch format {
	case config.FormatText, config.FormatJSON, config.FormatXML, config.FormatCSV:
		return nil
	default:
		return fmt.Errorf("invalid output format: %s (must be one of: text, json, xml, csv)", format)
	}
}
