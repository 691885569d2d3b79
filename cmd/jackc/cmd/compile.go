package cmd

import (
	"fmt"
	"os"

	"github.com/libklein/jack2vm/internal/compiler"
	"github.com/spf13/cobra"
)

var compileCmd = &cobra.Command{
	Use:   "compile <path>",
	Short: "Compile a .jack file or a directory of .jack files",
	Long: `Compile translates one .jack file, or every immediate .jack child of a
directory, into target VM instruction text.

Examples:
  jackc compile Main.jack
  jackc compile ./Project`,
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runCompile,
}

func init() {
	rootCmd.AddCommand(compileCmd)
}

func runCompile(_ *cobra.Command, args []string) error {
	path := args[0]

	results, err := compiler.CompileAll(path)
	if err != nil {
		return err
	}

	var failures int
	for _, result := range results {
		if result.Err != nil {
			failures++
			fmt.Fprintf(os.Stderr, "jackc: %s: %v\n", result.InputPath, result.Err)
			continue
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "compiled %s -> %s\n", result.InputPath, result.OutputPath)
		}
	}

	if failures > 0 {
		return fmt.Errorf("%d of %d file(s) failed to compile", failures, len(results))
	}
	return nil
}
