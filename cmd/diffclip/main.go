package main

import (
	"os"

	"github.com/sprite-ai/diffclip/internal/cli"
)

func main() {
	os.Exit(cli.Run())
}
