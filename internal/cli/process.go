package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/recap-flow/internal/processor"
)

func NewProcessCmd(deps *Dependencies) *cobra.Command {
	var screen, system, mic string

	cmd := &cobra.Command{
		Use:   "process",
		Short: "Run the pipeline once on local files",
		Long:  "Run the pipeline once on local files and print the result as JSON.\nOnly --screen is required; missing or invalid audio files degrade the result instead of failing it.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signalContext(cmd.Context())
			defer stop()

			var (
				uploads processor.Uploads
				files   []*os.File
			)
			defer func() {
				for _, f := range files {
					f.Close()
				}
			}()

			for _, in := range []struct {
				path string
				dst  **processor.Upload
			}{
				{screen, &uploads.Screen},
				{system, &uploads.System},
				{mic, &uploads.Mic},
			} {
				if in.path == "" {
					continue
				}
				f, err := os.Open(in.path)
				if err != nil {
					return fmt.Errorf("open input: %w", err)
				}
				files = append(files, f)
				*in.dst = &processor.Upload{Filename: filepath.Base(in.path), Body: f}
			}

			res, err := deps.App.Processor.Process(ctx, uploads)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(map[string]interface{}{
				"session":    res.SessionID,
				"video_path": res.VideoPath,
				"notes":      res.Notes,
				"codec":      res.Codec,
				"mix_policy": res.MixPolicy,
				"degraded":   res.Degraded,
			})
		},
	}

	cmd.Flags().StringVar(&screen, "screen", "", "Screen recording (required)")
	cmd.Flags().StringVar(&system, "system", "", "System audio recording")
	cmd.Flags().StringVar(&mic, "mic", "", "Microphone recording")
	_ = cmd.MarkFlagRequired("screen")

	return cmd
}
