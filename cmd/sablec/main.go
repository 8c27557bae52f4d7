package main

import (
	"fmt"
	"os"
)

var (
	flagConfig  string
	flagNoColor bool
)

func main() {
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(astCmd)

	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "",
		"project configuration file (default: sable.yaml if present)")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false,
		"disable colored diagnostic output")

	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err.Error())
		os.Exit(1)
	}
}
