package main

import (
	"os"

	"TrueArk/cmd/astroctl/commands"
)

func main() {
	os.Exit(commands.Execute())
}
