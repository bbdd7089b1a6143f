package cmd

import (
	"context"
	"fmt"
	"os"

	"convive/application"
	"convive/logging"
	"convive/server"
	"convive/storage"
)

// ServeCmd starts the HTTP data API server
type ServeCmd struct {
	Addr string `help:"Address to listen on" default:"localhost:8080"`
}

// Run executes the serve command
func (s *ServeCmd) Run(cli *CLI) error {
	addr := s.Addr
	if addr == "localhost:8080" && cli.settings != nil && cli.settings.ListenAddr != "" {
		if _, hasEnv := os.LookupEnv("CONVIVE_LISTEN_ADDR"); !hasEnv {
			addr = cli.settings.ListenAddr
		}
	}

	logging.Logger.Info("Starting convive server",
		"addr", addr,
		"db_path", cli.DBPath)

	store, err := storage.NewStore(expandPath(cli.DBPath))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer store.Close()

	// Seed the group catalog from settings so configured groups are
	// available for data entry before any session references them
	if cli.settings != nil {
		for _, name := range cli.settings.Groups {
			if err := store.AddGroup(context.Background(), name); err != nil {
				logging.Logger.Warn("Failed to seed group", "group", name, "error", err)
			}
		}
	}

	sessions := application.NewSessionService(store)
	reports := application.NewReportService(store, cli.qualityConfig())
	transfer := application.NewTransferService(store)

	srv := server.NewServer(addr, store, sessions, reports, transfer)

	// Start server (blocks until shutdown)
	return srv.Start()
}
