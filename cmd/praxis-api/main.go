package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "praxis-api",
	Short: "Praxis API - Multi-tenant legal practice authorization service",
	Long:  `A production-ready Go API serving tenant-isolated document, matter, and client access with JWT auth, rate limiting, and observability.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
