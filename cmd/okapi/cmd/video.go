package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/okapiscan/okapi"
	"github.com/spf13/cobra"
)

// videoCmd represents the video command.
var videoCmd = &cobra.Command{
	Use:   "video",
	Short: "Decode barcodes from a live video device",
	Long: `Stream frames from a video device and print every decoded barcode.

Each decode prints one TYPE:data line. The command runs until
interrupted, or until the first decoded frame with --oneshot.

Examples:
  okapi video
  okapi video --device /dev/video2 --width 1280 --height 720
  okapi video --oneshot --timeout 30s
  okapi video --symbology qrcode --xml`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         runVideo,
}

func init() {
	rootCmd.AddCommand(videoCmd)

	addScannerFlags(videoCmd)

	videoCmd.Flags().StringP("device", "d", "/dev/video0", "video device to open")
	videoCmd.Flags().Int("width", 640, "requested capture width")
	videoCmd.Flags().Int("height", 480, "requested capture height")
	videoCmd.Flags().Bool("display", false, "open a display window")
	videoCmd.Flags().Bool("oneshot", false, "exit after the first decoded frame")
	videoCmd.Flags().Duration("timeout", 0, "give up when no decode arrives in time (0 = wait forever)")
	videoCmd.Flags().Bool("xml", false, "print symbols as XML fragments")
}

func runVideo(cmd *cobra.Command, args []string) error {
	bindScannerFlags(cmd)
	mustBindFlag("video.device", cmd.Flags().Lookup("device"))
	mustBindFlag("video.width", cmd.Flags().Lookup("width"))
	mustBindFlag("video.height", cmd.Flags().Lookup("height"))
	mustBindFlag("video.display", cmd.Flags().Lookup("display"))

	cfg := GetConfig()
	builder, err := cfg.ToProcessorBuilder()
	if err != nil {
		return fmt.Errorf("invalid scanner configuration: %w", err)
	}
	proc, err := builder.Build()
	if err != nil {
		return fmt.Errorf("failed to create processor: %w", err)
	}
	defer func() { _ = proc.Close() }()

	if err := proc.Init(cfg.Video.Device, cfg.Video.Display); err != nil {
		return fmt.Errorf("failed to open %s: %w", cfg.Video.Device, err)
	}
	if _, err := proc.SetActive(true); err != nil {
		return fmt.Errorf("failed to start streaming: %w", err)
	}

	oneshot, _ := cmd.Flags().GetBool("oneshot")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	asXML, _ := cmd.Flags().GetBool("xml")

	// An interrupt closes the processor, which wakes the blocked
	// ProcessOne below.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		<-sigCh
		_ = proc.Close()
	}()

	wait := timeout
	if wait == 0 {
		wait = -1
	}

	out := cmd.OutOrStdout()
	for {
		set, err := proc.ProcessOne(wait)
		if err != nil {
			if okapi.IsCode(err, okapi.ErrClosed) {
				return nil
			}
			return fmt.Errorf("capture failed: %w", err)
		}
		if set == nil {
			// Timed out without a decode.
			return nil
		}

		it := set.Iter()
		for sym := it.Next(); sym != nil; sym = it.Next() {
			if asXML {
				_, _ = fmt.Fprintln(out, sym.XML())
			} else {
				_, _ = fmt.Fprintf(out, "%s:%s\n", sym.Type(), sym.Data())
			}
			_ = sym.Close()
		}
		_ = set.Close()

		if oneshot {
			return nil
		}
	}
}
