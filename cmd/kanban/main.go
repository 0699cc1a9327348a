package main

import (
	"os"

	"github.com/FirstPrinciplesDevelopment/kanban/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
