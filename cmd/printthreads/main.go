package main

import (
	"os"

	"github.com/printthreads/printthreads/internal/cmd"
)

func main() {
	os.Exit(cmd.Main(os.Args))
}
