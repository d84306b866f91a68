/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/mradosav-amd/cache/pkg/config"
	"github.com/mradosav-amd/cache/pkg/di"
)

var container *di.Container

// SetContainer injects the dependency container built in main. Tests can
// call it with a container whose factories were overridden.
func SetContainer(c *di.Container) {
	container = c
}

var rootCmd = &cobra.Command{
	Use:   "tracecached",
	Short: "Trace-cache engine CLI",
	Long: `tracecached drives an in-process trace-cache engine: record
synthetic samples into a ring-buffered arena, replay a flushed file back
through a processor, or serve engine metrics over HTTP.`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to a YAML config file (defaults to built-in defaults if unset)")
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" || !config.ConfigExists(path) {
		return config.DefaultConfig(), nil
	}
	return config.LoadConfig(path)
}
