// kubesplit splits, validates and normalizes kubeconfig files.
package main

import (
	"os"

	"github.com/hupe1980/kubesplit/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
