package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/recap-flow/internal/media"
)

func check(w io.Writer, name string, ok bool, detail string) {
	mark := "✓"
	if !ok {
		mark = "✗"
	}
	fmt.Fprintf(w, "%s %-20s %s\n", mark, name, detail)
}

func NewDoctorCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check prerequisites",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			w := cmd.OutOrStdout()
			cfg := deps.Config
			ok := true

			for _, bin := range []string{cfg.FFmpeg.BinaryPath, cfg.FFmpeg.ProbePath} {
				if path, err := exec.LookPath(bin); err != nil {
					check(w, bin, false, "not found")
					ok = false
				} else {
					check(w, bin, true, path)
				}
			}

			encoders, err := media.ListEncoders(ctx, deps.App.Executor, cfg.FFmpeg.BinaryPath)
			if err != nil {
				check(w, "Audio encoders", false, err.Error())
				ok = false
			} else if codec, container, err := media.SelectCodec(encoders); err != nil {
				check(w, "Audio encoders", false, err.Error())
				ok = false
			} else {
				check(w, "Audio encoders", true, fmt.Sprintf("%s → final.%s", codec, container))
			}

			if cfg.Whisper.Enabled {
				_, binErr := exec.LookPath(cfg.Whisper.BinaryPath)
				_, modelErr := os.Stat(cfg.Whisper.ModelPath)
				switch {
				case binErr != nil:
					check(w, "Whisper", false, "binary not found: "+cfg.Whisper.BinaryPath)
					ok = false
				case modelErr != nil:
					check(w, "Whisper", false, "model not found: "+cfg.Whisper.ModelPath)
					ok = false
				default:
					check(w, "Whisper", true, cfg.Whisper.ModelPath)
				}
			} else {
				check(w, "Whisper", true, "disabled, notes fall back to a stub")
			}

			if len(cfg.Gemini.APIKeys) > 0 {
				check(w, "Gemini API keys", true, fmt.Sprintf("%d configured (%s)", len(cfg.Gemini.APIKeys), cfg.Gemini.Model))
			} else {
				check(w, "Gemini API keys", !cfg.Whisper.Enabled, "not set. Set RECAP_GEMINI_API_KEYS or gemini.api_keys")
				if cfg.Whisper.Enabled {
					ok = false
				}
			}

			check(w, "Sessions directory", true, cfg.Paths.Sessions)
			if len(cfg.Capture.Screen) > 0 {
				if detail, err := checkScreenEncoder(ctx, deps); err != nil {
					check(w, "Capture", false, err.Error())
					ok = false
				} else if detail != "" {
					check(w, "Capture", true, "screen recording configured, "+detail)
				} else {
					check(w, "Capture", true, "screen recording configured")
				}
			} else {
				check(w, "Capture", false, "capture.screen not set, record is unavailable")
			}

			if ok {
				fmt.Fprintln(w, "\nAll prerequisites met.")
			} else {
				fmt.Fprintln(w, "\nSome prerequisites are missing.")
			}
			return nil
		},
	}
}
