package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "sparrow",
	Short: "Sparrow turns chat prompts into small static websites",
	Long: `Sparrow sends a prompt to an LLM, turns the code blocks in its reply into
project files and assembles them into a single previewable HTML page.

Configuration comes from the environment (or a .env file), the same way the
API server reads it.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(serveCmd)
}
