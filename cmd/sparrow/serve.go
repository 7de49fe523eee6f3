package main

import (
	"github.com/spf13/cobra"
	"sparrow-backend/internal/config"
	"sparrow-backend/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		return server.Run(cmd.Context(), cfg)
	},
}
