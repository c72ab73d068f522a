package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/benvon/gh-auth-gateway/cmd/configure/commands"
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "gh-auth-configure",
		Short: "Configuration tool for the GitHub auth gateway",
		Long:  "CLI tool for inspecting gateway configuration and testing its external dependencies",
	}

	rootCmd.AddCommand(commands.NewListCmd())
	rootCmd.AddCommand(commands.NewTestCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
