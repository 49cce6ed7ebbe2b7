// Command colin inspects process binaries: their imports and exports and
// whether they follow the process ABI.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"
)

var fQuiet = pflag.BoolP("quiet", "q", false, "only report ABI failures")

func main() {
	pflag.Parse()

	if pflag.NArg() == 0 {
		fmt.Fprintf(os.Stderr, "usage: colin [-q] program.wasm...\n")
		os.Exit(2)
	}

	ctx := context.Background()

	var out io.Writer = os.Stdout
	if *fQuiet {
		out = io.Discard
	}

	failed := false

	for _, path := range pflag.Args() {
		if err := dump(ctx, out, path); err != nil {
			fmt.Fprintf(os.Stderr, "%s: %s\n", path, err)
			failed = true
		}
	}

	if failed {
		os.Exit(1)
	}
}
