package main

import (
	"os"

	"github.com/arthur-debert/macsetup/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
