package main

import (
	"os"

	"github.com/spf13/cobra"

	"sequor/internal/interfaces/cli/migrate"
	"sequor/internal/interfaces/cli/server"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "sequor",
		Short: "Sequor - entity code generation service",
		Long:  `Sequor issues sequential, collision-free business codes for ERP entities, with an admin API for managing code generation rules.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
