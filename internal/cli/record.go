package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/recap-flow/internal/capture"
	"github.com/nguyentantai21042004/recap-flow/internal/media"
)

// checkScreenEncoder fails when the screen recording could not be stream-copied into the
// container the mux picks on this host. Unknown encoders and hosts without an audio
// encoder pass; the detail names the pairing that was checked.
func checkScreenEncoder(ctx context.Context, deps *Dependencies) (string, error) {
	encoder := capture.VideoEncoder(deps.Config.Capture.Screen)
	codec := media.VideoEncoderCodec(encoder)
	if codec == "" {
		return "screen encoder not recognised, container fit unchecked", nil
	}

	encoders, err := media.ListEncoders(ctx, deps.App.Executor, deps.Config.FFmpeg.BinaryPath)
	if err != nil {
		return "", nil
	}
	_, container, err := media.SelectCodec(encoders)
	if err != nil {
		return "", nil
	}

	if !container.AcceptsVideo(codec) {
		return "", fmt.Errorf("capture.screen encodes %s with %s, which cannot be stream-copied into final.%s; use libvpx-vp9", codec, encoder, container)
	}
	return fmt.Sprintf("%s → final.%s", encoder, container), nil
}

func NewRecordCmd(deps *Dependencies) *cobra.Command {
	var name string
	var noProcess bool

	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record screen and audio until Ctrl+C, then process the recording",
		Long:  "Record every slot configured under capture into paths.inbox until Ctrl+C, then run the pipeline on the result.",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := deps.App
			base := cmd.Context()
			if base == nil {
				base = context.Background()
			}

			if name == "" {
				name = "recording-" + time.Now().Format("20060102-150405")
			}

			if !noProcess {
				if _, err := checkScreenEncoder(base, deps); err != nil {
					return err
				}
			}

			ctx, stop := signalContext(base)
			defer stop()

			h, err := a.Capturer.Start(ctx, deps.Config.Paths.Inbox, name)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Recording %q. Press Ctrl+C to stop.\n", name)
			<-ctx.Done()
			stop()

			files, err := h.Stop(base)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Captured %s\n", files.Screen)

			if noProcess {
				return nil
			}

			// The signal that ended the recording must not cancel processing.
			procCtx, procStop := signalContext(base)
			defer procStop()
			return a.Inbox.Handle(procCtx, files.Screen)
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Recording name (file stem in the inbox)")
	cmd.Flags().BoolVar(&noProcess, "no-process", false, "Only record; leave the files in the inbox")

	return cmd
}
