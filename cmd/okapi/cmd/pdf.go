package cmd

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/okapiscan/okapi/internal/batch"
	"github.com/okapiscan/okapi/internal/pdf"
	"github.com/okapiscan/okapi/internal/report"
	"github.com/spf13/cobra"
)

// pdfCmd represents the pdf command.
var pdfCmd = &cobra.Command{
	Use:   "pdf [file...]",
	Short: "Scan the images embedded in PDF documents",
	Long: `Extract the raster images embedded in PDF documents and scan them
for barcodes. Works best with scanned documents and generated labels.

Examples:
  okapi pdf invoices.pdf
  okapi pdf scan.pdf --pages 1-5 --format json
  okapi pdf locked.pdf --password hunter2`,
	Args:         cobra.MinimumNArgs(1),
	SilenceUsage: true,
	RunE:         runPDF,
}

func init() {
	rootCmd.AddCommand(pdfCmd)

	addScannerFlags(pdfCmd)
	addOutputFlags(pdfCmd)

	pdfCmd.Flags().String("pages", "", "page range to scan (e.g. '1-5', '1,3,7')")
	pdfCmd.Flags().StringP("password", "p", "", "user password for encrypted documents")
	pdfCmd.Flags().String("owner-password", "", "owner password for encrypted documents")
	pdfCmd.Flags().Int("pdf-workers", 0, "page scan workers per document (0 = number of CPUs)")
	pdfCmd.Flags().BoolP("quiet", "q", false, "suppress per-document notes")
}

func runPDF(cmd *cobra.Command, args []string) error {
	bindScannerFlags(cmd)
	bindOutputFlags(cmd)

	cfg := GetConfig()
	if err := validateFormat(cfg.Output.Format); err != nil {
		return err
	}

	builder, err := cfg.ToScannerBuilder()
	if err != nil {
		return fmt.Errorf("invalid scanner configuration: %w", err)
	}

	pages, _ := cmd.Flags().GetString("pages")
	password, _ := cmd.Flags().GetString("password")
	ownerPassword, _ := cmd.Flags().GetString("owner-password")
	workers, _ := cmd.Flags().GetInt("pdf-workers")
	quiet, _ := cmd.Flags().GetBool("quiet")

	proc := pdf.NewProcessorWithConfig(builder, &pdf.ProcessorConfig{MaxWorkers: workers})
	defer func() { _ = proc.Close() }()
	if password != "" || ownerPassword != "" {
		proc.SetPasswordCredentials(&pdf.Credentials{
			UserPassword:  password,
			OwnerPassword: ownerPassword,
		})
	}

	var files []report.File
	for _, path := range args {
		doc, err := proc.ProcessFile(path, pages)
		if err != nil {
			if pdf.IsPasswordError(err) && password == "" && ownerPassword == "" {
				return errors.New(pdf.PasswordPrompt(path))
			}
			return fmt.Errorf("failed to process %s: %w", path, err)
		}
		files = append(files, doc.Files()...)
		if !quiet {
			slog.Info("document scanned",
				"file", path,
				"pages", len(doc.Pages),
				"symbols", doc.TotalSymbols(),
				"duration_ms", doc.Processing.TotalTimeMs)
		}
	}

	res := &batch.Result{Files: files}
	return res.SaveResults(cfg.Output.Format, cfg.Output.File, quiet)
}
