package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/ZaguanLabs/lingoq/htmltext"
	"github.com/ZaguanLabs/lingoq/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCmd(configPath *string) *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the translation HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath, false)
			if err != nil {
				return err
			}
			if listen != "" {
				cfg.Listen = listen
			}

			a, err := newApp(cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			localizer := htmltext.NewLocalizer(a.coord, htmltext.WithSourceLang(a.coord.SourceLang()))
			srv := server.New(cfg.Listen, a.coord, localizer, a.store, a.logger)

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a.logger.Info("Starting lingoq", zap.String("config", *configPath))
			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "listen address (overrides config)")
	return cmd
}
