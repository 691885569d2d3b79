// Package cmd wires the cobra command surface for jackc, following the
// cmd/<binary>/cmd layout (one file per subcommand, a shared root with
// persistent flags) used elsewhere in this tradition.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Version information, overridable by linker flags at build time.
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "jackc [path]",
	Short: "Translate source-language class files into target VM text",
	Long: `jackc compiles .jack source files into Hack VM instruction text.

Given a single .jack file, it writes a sibling .vm file with the same base
name. Given a directory, it compiles every immediate .jack child
(non-recursive) and writes each one's .vm translation next to it.

Invoking jackc with a bare path is shorthand for "jackc compile <path>".`,
	Version:       Version,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(c *cobra.Command, args []string) error {
		if len(args) == 0 {
			return c.Usage()
		}
		return runCompile(c, args)
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "report each file compiled and its output path")
}
