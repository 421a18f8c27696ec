package main

import (
	"github.com/joho/godotenv"

	"github.com/docsage-labs/docsage/internal/adapters/driving/cli"
)

func main() {
	// Load .env if present; a missing file is fine.
	_ = godotenv.Load()

	cli.Execute()
}
