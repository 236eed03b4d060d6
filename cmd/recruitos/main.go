// Package main is the entry point for the RecruitOS candidate ranking service.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "recruitos",
	Short: "RecruitOS candidate ranking service",
	Long:  "RecruitOS scores uploaded resumes against calibrated job requisitions and serves ranked candidate lists via REST API.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
