package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "sablec",
	Short: "Sable template compiler",
	Long:  "Sable template compiler\n\nParses .sable template files, validates them and resolves delegate calls.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}
