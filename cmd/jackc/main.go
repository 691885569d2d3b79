// Command jackc translates source-language class files into target VM
// text, one .vm file per .jack input.
package main

import (
	"fmt"
	"os"

	"github.com/libklein/jack2vm/cmd/jackc/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
