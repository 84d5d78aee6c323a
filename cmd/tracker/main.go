package main

import (
	"os"

	"assignmenttracker/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
