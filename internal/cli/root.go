package cli

import (
	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/recap-flow/internal/app"
	"github.com/nguyentantai21042004/recap-flow/internal/config"
)

type Dependencies struct {
	App    *app.App
	Config *config.Config
}

func NewRootCmd(deps *Dependencies) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "recap",
		Short:         "Reconcile screen and audio recordings into one file with meeting notes",
		Long:          "Validates, normalizes, mixes and muxes screen, system-audio and mic recordings into a single playable file, then optionally transcribes and summarizes it.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(NewServeCmd(deps))
	rootCmd.AddCommand(NewProcessCmd(deps))
	rootCmd.AddCommand(NewWatchCmd(deps))
	rootCmd.AddCommand(NewRecordCmd(deps))
	rootCmd.AddCommand(NewDoctorCmd(deps))

	return rootCmd
}
