package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sable-lang/sable/internal/ast"
	"github.com/sable-lang/sable/internal/diag"
)

var astCmd = &cobra.Command{
	Use:   "ast <file>...",
	Short: "Dump the parsed tree of template files",
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

		// The tree is best-effort and still worth showing when diagnostics
		// were reported.
		for _, file := range u.files {
			ast.Dump(os.Stdout, file)
		}

		formatter.FormatAll(u.sink.Errors())
		if u.sink.HasErrors() {
			return fmt.Errorf("%d problem(s) found", u.sink.Count())
		}
		return nil
	},
}
