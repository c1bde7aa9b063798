// Command mirrorctl inspects and edits the remote documents mirrored by the
// groundops service.
package main

import (
	"os"

	"groundops-service/cmd/mirrorctl/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
