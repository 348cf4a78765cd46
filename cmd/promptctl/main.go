package main

import (
	"os"

	"promptctl/internal/cli"
)

func main() { os.Exit(cli.Main()) }
