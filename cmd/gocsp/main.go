// gocsp is a command-line front end for the CSP engine: it solves
// Sudoku boards (bundled or from a file) and runs the map-coloring
// demo instance.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// Config carries solver defaults that can be set once in a YAML file
// instead of repeating flags. All fields are optional.
type Config struct {
	Seed     int64  `yaml:"seed"`
	Strategy string `yaml:"strategy"`
	Workers  int    `yaml:"workers"`
}

var (
	config     Config
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "gocsp",
	Short: "Solve binary constraint satisfaction problems",
	Long: `gocsp solves binary constraint satisfaction problems with AC-3
propagation and backtracking search. The solve command handles 9x9
Sudoku boards; mapcolor runs the classic Australia map-coloring
instance.`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "gocsp.yaml", "optional YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

		data, err := os.ReadFile(configPath)
		if err != nil {
			if os.IsNotExist(err) {
				// The config file is optional; flags still apply.
				return nil
			}
			return fmt.Errorf("reading config %s: %w", configPath, err)
		}
		if err := yaml.Unmarshal(data, &config); err != nil {
			return fmt.Errorf("parsing config %s: %w", configPath, err)
		}
		slog.Debug("loaded config", "path", configPath, "seed", config.Seed,
			"strategy", config.Strategy, "workers", config.Workers)
		return nil
	}
}
