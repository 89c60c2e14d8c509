// Command archive uploads a JSON snapshot of the board to MinIO. It is the
// same as "board archive", packaged for cron jobs.
package main

import (
	"fmt"
	"os"

	"github.com/anonforum/forum/internal/cli"
)

func main() {
	if err := cli.NewArchiveCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
