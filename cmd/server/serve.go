package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/reflection"

	"github.com/simaogato/taskconnect-backend/internal/adapter/cache"
	"github.com/simaogato/taskconnect-backend/internal/adapter/events"
	grpcadapter "github.com/simaogato/taskconnect-backend/internal/adapter/grpc"
	httpadapter "github.com/simaogato/taskconnect-backend/internal/adapter/http"
	"github.com/simaogato/taskconnect-backend/internal/app"
	"github.com/simaogato/taskconnect-backend/internal/domain"
	"github.com/simaogato/taskconnect-backend/internal/idgen"
	"github.com/simaogato/taskconnect-backend/internal/resilience"
	"github.com/simaogato/taskconnect-backend/internal/usecase/seeder"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the gRPC and REST servers",
	RunE:  serve,
}

func serve(cmd *cobra.Command, _ []string) error {
	rt, err := newRuntime()
	if err != nil {
		return err
	}
	defer rt.Close()

	ctx := cmd.Context()
	cfg := rt.cfg

	// 1. Storage
	repos, err := rt.repositories(ctx)
	if err != nil {
		return err
	}

	created, err := seeder.NewSystemSeeder(repos.Categories).Seed(ctx)
	if err != nil {
		return fmt.Errorf("failed to seed categories: %w", err)
	}
	rt.log.Info("categories seeded", "created", created)

	// 2. Capabilities
	ids, err := idgen.NewFlakeGenerator(cfg.IDGen.MachineID)
	if err != nil {
		return err
	}

	directory, err := cache.NewUserDirectory(repos.Users, cfg.Cache.MaxCostBytes, cfg.Cache.TTL)
	if err != nil {
		return err
	}
	rt.onClose(func() error { directory.Close(); return nil })

	var publisher domain.EventPublisher = events.LogPublisher{Logger: rt.log}
	if cfg.NATS.URL != "" {
		nats, err := events.Connect(ctx, cfg.NATS.URL, cfg.NATS.Stream)
		if err != nil {
			return err
		}
		rt.onClose(nats.Close)
		publisher = nats
		rt.log.Info("publishing status changes", "url", cfg.NATS.URL, "stream", cfg.NATS.Stream)
	}

	// 3. Services
	services := app.NewServices(repos, app.Deps{
		Directory: directory,
		Publisher: publisher,
		IDs:       ids,
		Clock:     domain.SystemClock{},
		Logger:    rt.log,
		Retry: resilience.ConflictPolicy{
			MaxRetries: cfg.Retry.MaxRetries,
			BaseDelay:  cfg.Retry.BaseDelay,
		},
	})

	// 4. gRPC server
	grpcServer := grpclib.NewServer(
		grpclib.ChainUnaryInterceptor(
			grpcadapter.LoggingInterceptor(rt.log),
			grpcadapter.AuthInterceptor(cfg.Server.APIToken),
		),
	)
	grpcadapter.RegisterTaskConnectServer(grpcServer, grpcadapter.NewServer(services))
	reflection.Register(grpcServer)

	lis, err := net.Listen("tcp", cfg.Server.GRPCAddr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", cfg.Server.GRPCAddr, err)
	}

	errCh := make(chan error, 2)
	go func() {
		rt.log.Info("gRPC server listening", "addr", cfg.Server.GRPCAddr)
		if err := grpcServer.Serve(lis); err != nil {
			errCh <- fmt.Errorf("failed to serve gRPC: %w", err)
		}
	}()

	// 5. REST server
	var httpServer *http.Server
	if cfg.Server.HTTPAddr != "" {
		handlers := httpadapter.NewHandlers(services, rt.log)
		httpServer = &http.Server{
			Addr:              cfg.Server.HTTPAddr,
			Handler:           httpadapter.NewRouter(handlers, cfg.Server.APIToken, rt.log),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			rt.log.Info("HTTP server listening", "addr", cfg.Server.HTTPAddr)
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- fmt.Errorf("failed to serve HTTP: %w", err)
			}
		}()
	}

	// Graceful shutdown
	select {
	case <-ctx.Done():
		rt.log.Info("shutting down gracefully")
	case err = <-errCh:
		rt.log.Error("server failed", "error", err)
	}

	if httpServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			rt.log.Warn("HTTP shutdown incomplete", "error", err)
		}
		cancel()
	}
	grpcServer.GracefulStop()
	rt.log.Info("servers stopped")
	return err
}
