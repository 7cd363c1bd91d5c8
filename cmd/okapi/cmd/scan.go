package cmd

import (
	"fmt"

	"github.com/okapiscan/okapi/internal/batch"
	"github.com/okapiscan/okapi/internal/report"
	"github.com/spf13/cobra"
)

// scanCmd represents the scan command.
var scanCmd = &cobra.Command{
	Use:   "scan [file|directory...]",
	Short: "Scan image files for barcodes",
	Long: `Scan one or more image files or directories for barcodes.

Directories are searched for supported image files (PNG, JPEG, GIF, BMP,
TIFF); files named explicitly are always scanned. Results print to
stdout in the chosen format.

Examples:
  okapi scan label.png
  okapi scan labels/ --recursive --workers 8
  okapi scan a.png b.png --symbology qrcode --symbology ean13
  okapi scan shelf.jpg -S code39.add-check
  okapi scan inbox/ --format csv --output decoded.csv`,
	Args:         cobra.MinimumNArgs(1),
	SilenceUsage: true,
	RunE:         runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)

	addScannerFlags(scanCmd)
	addOutputFlags(scanCmd)

	scanCmd.Flags().IntP("workers", "j", 4, "parallel scan workers")
	scanCmd.Flags().BoolP("recursive", "r", false, "recurse into subdirectories")
	scanCmd.Flags().StringSlice("include", nil, "only scan files matching these glob patterns")
	scanCmd.Flags().StringSlice("exclude", nil, "skip files matching these glob patterns")
	scanCmd.Flags().Bool("continue-on-error", true, "record failed files instead of aborting")
	scanCmd.Flags().BoolP("quiet", "q", false, "suppress notes and statistics")
	scanCmd.Flags().Bool("stats", false, "print processing statistics")
}

func runScan(cmd *cobra.Command, args []string) error {
	bindScannerFlags(cmd)
	bindOutputFlags(cmd)
	mustBindFlag("batch.workers", cmd.Flags().Lookup("workers"))
	mustBindFlag("batch.recursive", cmd.Flags().Lookup("recursive"))
	mustBindFlag("batch.continue_on_error", cmd.Flags().Lookup("continue-on-error"))

	cfg := GetConfig()
	if err := validateFormat(cfg.Output.Format); err != nil {
		return err
	}

	builder, err := cfg.ToScannerBuilder()
	if err != nil {
		return fmt.Errorf("invalid scanner configuration: %w", err)
	}

	include, _ := cmd.Flags().GetStringSlice("include")
	exclude, _ := cmd.Flags().GetStringSlice("exclude")
	quiet, _ := cmd.Flags().GetBool("quiet")
	showStats, _ := cmd.Flags().GetBool("stats")

	result, err := batch.ProcessBatch(args, &batch.Config{
		Scanner:         builder,
		Format:          cfg.Output.Format,
		OutputFile:      cfg.Output.File,
		Workers:         cfg.Batch.Workers,
		Recursive:       cfg.Batch.Recursive,
		IncludePatterns: include,
		ExcludePatterns: exclude,
		ContinueOnError: cfg.Batch.ContinueOnError,
		Quiet:           quiet,
	})
	if err != nil {
		return err
	}

	if err := result.SaveResults(cfg.Output.Format, cfg.Output.File, quiet); err != nil {
		return err
	}
	if !quiet && report.TotalSymbols(result.Files) == 0 {
		_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "no barcodes detected")
	}
	if showStats {
		result.PrintStats(quiet)
	}
	return nil
}
