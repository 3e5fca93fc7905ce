// Package main provides the entry point for the Skillcast bot.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "skillcast",
	Short: "Skillcast community resource bot",
	Long:  "Skillcast watches a community chat for shared links and documents, classifies them against the members' registered skills, and notifies the members the resource is relevant to.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
