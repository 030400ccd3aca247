package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"cubeforge/internal/version"
)

var flagConfig string

var rootCmd = &cobra.Command{
	Use:   "cubeforge",
	Short: "Synthesize a cube from community-curated cube lists",
	Long: `cubeforge aggregates community-curated cube lists from CubeCobra and
synthesizes a single cube of a configured size and category, weighting
each card by how many sources run it and how recently those sources
were updated.`,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("cubeforge %s\n", version.Version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", defaultConfigPath(), "path to config file")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(migrateCmd)
}

func defaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return homeDir + "/.cubeforge/config.toml"
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
