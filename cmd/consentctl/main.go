package main

import (
	"os"

	"github.com/rpggio/consentdesk/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
