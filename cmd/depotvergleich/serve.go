package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vorsorge/depotvergleich/internal/server"
	"github.com/vorsorge/depotvergleich/internal/store"
	"github.com/vorsorge/depotvergleich/internal/store/postgres"
)

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
				a.settings.Server.Addr = addr
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return a.runServe(ctx)
		},
	}
	cmd.Flags().String("addr", "", "listen address (overrides server.addr)")
	return cmd
}

func (a *app) runServe(ctx context.Context) error {
	var st store.Store
	if url := a.settings.Database.URL; url != "" {
		db, err := postgres.Open(ctx, url)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := postgres.Migrate(ctx, db); err != nil {
			return err
		}
		st = postgres.NewStore(db)
		a.logger.Infow("using postgres store")
	} else {
		st = store.NewMemoryStore()
		a.logger.Warnw("database.url not set, customer records are kept in memory")
	}

	opts := []server.Option{server.WithLogger(a.logger)}
	if a.settings.Auth.JWTSecret != "" {
		opts = append(opts, server.WithJWTSecret(a.settings.Auth.JWTSecret))
	}
	srv := server.New(a.engine(false), a.catalog, st, opts...)

	if err := srv.ListenAndServe(ctx, a.settings.Server.Addr); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}
