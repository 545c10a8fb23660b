package main

import (
	"fmt"
	"os"

	"base-swap/cmd"
	"github.com/joho/godotenv"
)

func main() {
	// .env is optional; environment variables and the yaml config file
	// cover the same keys
	_ = godotenv.Load()

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
