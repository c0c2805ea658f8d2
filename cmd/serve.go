package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/campusbot/whereis/internal/reload"
	"github.com/campusbot/whereis/internal/resolve"
	"github.com/campusbot/whereis/internal/server"
	"github.com/campusbot/whereis/internal/source"
)

var (
	servePort  int
	serveWatch bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if servePort > 0 {
			cfg.Server.Port = servePort
		}
		if cmd.Flags().Changed("watch") {
			cfg.Catalog.Watch = serveWatch
		}
		if err := cfg.Validate("serve"); err != nil {
			return err
		}
		if cfg.Catalog.Watch && !source.IsLocalFile(cfg.Catalog.Source) {
			return eris.Errorf("catalog.watch needs a local file catalog, got %s", source.Redact(cfg.Catalog.Source))
		}

		metrics := server.NewMetrics()
		holder, err := reload.New(ctx, func(ctx context.Context) (*resolve.Resolver, error) {
			return buildResolver(ctx, cfg)
		}, reload.WithOnSwap(metrics.SetCatalog))
		if err != nil {
			describeLoadError(cmd.ErrOrStderr(), err)
			return err
		}

		srv := server.New(holder, server.Config{
			Port:         cfg.Server.Port,
			RateLimit:    cfg.Server.RateLimit,
			Burst:        cfg.Server.Burst,
			CORSOrigins:  cfg.Server.CORSOrigins,
			ImageBaseURL: cfg.Assets.ImageBaseURL,
			ImageExt:     cfg.Assets.ImageExt,
			Suggestions:  cfg.Resolver.Suggestions,
			Prefix:       cfg.Command.Prefix,
		}, metrics)

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error { return srv.Run(gctx) })

		if cfg.Catalog.Watch {
			g.Go(func() error { return holder.Watch(gctx, cfg.Catalog.Source) })
		}

		zap.L().Info("serve: started",
			zap.Int("port", cfg.Server.Port),
			zap.Int("buildings", holder.Resolver().Catalog().Len()),
			zap.Bool("watch", cfg.Catalog.Watch),
		)
		return g.Wait()
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "HTTP port (overrides server.port)")
	serveCmd.Flags().BoolVar(&serveWatch, "watch", false, "reload a file catalog when it changes")
	rootCmd.AddCommand(serveCmd)
}
