package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sable-lang/sable/internal/diag"
)

var checkCmd = &cobra.Command{
	Use:   "check <file>...",
	Short: "Parse and validate template files",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		formatter := diag.NewFormatter(os.Stderr, !flagNoColor)
		u, err := compile(args, cfg, formatter)
		if err != nil {
			return err
		}

		formatter.FormatAll(u.sink.Errors())
		if u.sink.HasErrors() {
			return fmt.Errorf("%d problem(s) found", u.sink.Count())
		}
		fmt.Printf("ok: %d file(s) checked\n", len(args))
		return nil
	},
}
