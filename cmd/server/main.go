// Package main is the entry point for the character sheet server
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/agency-api/cmd/server/client"
)

var rootCmd = &cobra.Command{
	Use:   "agency-api",
	Short: "Triangle Agency character sheet server",
	Long:  `Agency API stores Triangle Agency character sheets and serves them over gRPC and HTTP.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serverCmd)
	rootCmd.AddCommand(client.ClientCmd)
}
