package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/seqedit/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize seqedit configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to choose a diagram renderer, port and data directory, and writes a .seqedit.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard(cfgFile)
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
