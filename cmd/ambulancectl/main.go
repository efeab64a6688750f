package main

import (
	"os"

	"ambulance/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
