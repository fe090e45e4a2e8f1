package cmd

import (
	"github.com/spf13/cobra"
)

const AppName = "blkprobe"

func Execute() error {
	rootCmd := &cobra.Command{
		Use:   AppName,
		Short: AppName + " - block device signature prober",
	}

	rootCmd.AddCommand(DefineProbeCommand())
	rootCmd.AddCommand(DefineListFormatsCommand())

	return rootCmd.Execute()
}
