package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/vvakame/foodexpress/internal/config"
	"github.com/vvakame/foodexpress/internal/events"
	"github.com/vvakame/foodexpress/internal/log"
	"github.com/vvakame/foodexpress/internal/order"
	"github.com/vvakame/foodexpress/internal/server"
	"github.com/vvakame/foodexpress/internal/snapshot"
	"github.com/vvakame/foodexpress/internal/store"
	"golang.org/x/sync/errgroup"
)

func newServeCommand(v *viper.Viper, loadConfig func() (*config.Config, error)) *cobra.Command {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the GraphQL API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}

	serveCmd.Flags().String("addr", ":4000", "listen address")
	serveCmd.Flags().Bool("playground", true, "serve the GraphQL playground on /")
	serveCmd.Flags().String("snapshot-backend", "file", "snapshot backend: file, redis, postgres, s3 or none")
	_ = v.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))
	_ = v.BindPFlag("server.playground", serveCmd.Flags().Lookup("playground"))
	_ = v.BindPFlag("snapshot.backend", serveCmd.Flags().Lookup("snapshot-backend"))

	return serveCmd
}

func serve(ctx context.Context, cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := log.New(cfg.Logging, os.Stderr)
	ctx = log.WithLogger(ctx, logger)

	backend, err := snapshot.Open(ctx, cfg.Snapshot)
	if err != nil {
		logger.Error(err, "failed to open snapshot backend", "backend", cfg.Snapshot.Backend)
		return err
	}
	defer backend.Close()

	snap, err := loadState(ctx, backend, cfg.Fixtures)
	if err != nil {
		return err
	}
	s, err := store.New(snap)
	if err != nil {
		return fmt.Errorf("failed to build store: %w", err)
	}

	publisher, err := newPublisher(cfg.Events)
	if err != nil {
		logger.Error(err, "failed to create event publisher")
		return err
	}
	defer publisher.Close()

	orders := order.NewEngine(s, order.WithPublisher(publisher))

	httpServer := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           server.New(logger, cfg.Server, s, orders),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(net.Listener) context.Context {
			return context.WithoutCancel(ctx)
		},
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		logger.Info("listening server", "addr", cfg.Server.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to serve: %w", err)
		}
		return nil
	})
	eg.Go(func() error {
		<-egCtx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.ShutdownTimeout)
		defer cancel()

		logger.Info("shutting down server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error(err, "failed to shutdown server")
		}

		if err := backend.Save(shutdownCtx, s.Snapshot()); err != nil {
			return fmt.Errorf("failed to save snapshot: %w", err)
		}
		logger.Info("snapshot saved", "backend", cfg.Snapshot.Backend)
		return nil
	})

	return eg.Wait()
}

func newPublisher(cfg config.Events) (events.Publisher, error) {
	if !cfg.Kafka.Enabled {
		return events.Nop{}, nil
	}
	return events.NewKafka(cfg.Kafka.Brokers, cfg.Kafka.Topic)
}
