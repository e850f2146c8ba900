package main

import (
	"fmt"
	"os"

	"github.com/babarot/dlsort/internal/cli"
)

// set by -ldflags at build time
var (
	Version   = "unset"
	Revision  = "unset"
	BuildDate = "unset"
)

func main() {
	if err := cli.Run(cli.Version{
		AppName:   "dlsort",
		Version:   Version,
		Revision:  Revision,
		BuildDate: BuildDate,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "dlsort: %v\n", err)
		os.Exit(1)
	}
}
