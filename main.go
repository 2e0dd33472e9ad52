package main

import (
	"os"

	"github.com/mrlokans/marcdemo/internal/cli"
)

// Version information - set at build time via ldflags
var Version = "dev"

func main() {
	os.Exit(cli.Execute(Version))
}
