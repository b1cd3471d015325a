package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	var addr string
	cmd := &cobra.Command{
		Use:   "relay",
		Short: "In-memory Nostr relay for local development",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := slog.New(slog.NewTextHandler(os.Stderr, nil))
			log.Info("relay listening", "addr", addr)
			return http.ListenAndServe(addr, newServer(log))
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":7777", "listen address")
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
