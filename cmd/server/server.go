package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	grpc_logging "github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/logging"
	grpc_recovery "github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"

	"github.com/KirkDiggler/agency-api/internal/catalog"
	"github.com/KirkDiggler/agency-api/internal/config"
	"github.com/KirkDiggler/agency-api/internal/handlers/agency/v1alpha1"
	"github.com/KirkDiggler/agency-api/internal/handlers/web"
	"github.com/KirkDiggler/agency-api/internal/orchestrators/character"
	"github.com/KirkDiggler/agency-api/internal/pkg/clock"
	"github.com/KirkDiggler/agency-api/internal/pkg/idgen"
	"github.com/KirkDiggler/agency-api/internal/redis"
	characterrepo "github.com/KirkDiggler/agency-api/internal/repositories/character"
	"github.com/KirkDiggler/agency-api/internal/services/conversion"
	"github.com/KirkDiggler/agency-api/internal/sharelink"
)

var (
	grpcPort int
	httpPort int
	store    string
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the gRPC and HTTP servers",
	Long:  `Start the character service. Settings come from AGENCY_* environment variables; flags override them.`,
	RunE:  runServer,
}

func init() {
	serverCmd.Flags().IntVar(&grpcPort, "port", 0, "gRPC server port (overrides AGENCY_GRPC_PORT)")
	serverCmd.Flags().IntVar(&httpPort, "http-port", 0, "HTTP server port (overrides AGENCY_HTTP_PORT)")
	serverCmd.Flags().StringVar(&store, "store", "", "storage backend: redis, sqlite or memory (overrides AGENCY_STORE)")
}

func runServer(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cmd.Flags().Changed("port") {
		cfg.GRPCPort = grpcPort
	}
	if cmd.Flags().Changed("http-port") {
		cfg.HTTPPort = httpPort
	}
	if cmd.Flags().Changed("store") {
		cfg.Store = store
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	clk := clock.New()
	converter, err := conversion.NewConverter(&conversion.ConverterConfig{
		Clock:       clk,
		IDGenerator: idgen.NewUUID(""),
	})
	if err != nil {
		return fmt.Errorf("failed to create converter: %w", err)
	}

	repo, closeRepo, err := openRepository(ctx, cfg, clk, converter)
	if err != nil {
		return err
	}
	defer closeRepo()

	scheduler, err := characterrepo.NewSaveScheduler(&characterrepo.SaveSchedulerConfig{
		Repository: repo,
		Interval:   cfg.SaveInterval,
	})
	if err != nil {
		return fmt.Errorf("failed to create save scheduler: %w", err)
	}

	codec, err := sharelink.New(&sharelink.Config{
		BaseURL:        cfg.ShareBaseURL,
		MaxDecodedSize: cfg.ShareMaxDecodedSize,
	})
	if err != nil {
		return fmt.Errorf("failed to create share codec: %w", err)
	}
	defer codec.Close()

	cat, err := catalog.Load()
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	characterService, err := character.New(&character.Config{
		CharacterRepo: repo,
		SaveScheduler: scheduler,
		Converter:     converter,
		Catalog:       cat,
		ShareCodec:    codec,
		Clock:         clk,
		IDGenerator:   idgen.NewUUID(""),
	})
	if err != nil {
		return fmt.Errorf("failed to create character service: %w", err)
	}

	characterHandler, err := v1alpha1.NewHandler(&v1alpha1.HandlerConfig{
		CharacterService: characterService,
	})
	if err != nil {
		return fmt.Errorf("failed to create character handler: %w", err)
	}

	router, err := web.NewRouter(&web.Config{
		CharacterService: characterService,
		AllowedOrigins:   cfg.CORSOrigins,
		MaxUploadSize:    cfg.MaxUploadSize,
	})
	if err != nil {
		return fmt.Errorf("failed to create http router: %w", err)
	}

	logFunc := grpc_logging.LoggerFunc(func(ctx context.Context, level grpc_logging.Level, msg string, fields ...any) {
		logger.Log(ctx, slog.Level(level), msg, fields...)
	})
	srv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			grpc_logging.UnaryServerInterceptor(logFunc),
			grpc_recovery.UnaryServerInterceptor(),
		),
		grpc.ChainStreamInterceptor(
			grpc_logging.StreamServerInterceptor(logFunc),
			grpc_recovery.StreamServerInterceptor(),
		),
	)

	v1alpha1.RegisterCharacterServiceServer(srv, characterHandler)

	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(srv, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(v1alpha1.ServiceName, grpc_health_v1.HealthCheckResponse_SERVING)

	reflection.Register(srv)

	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.GRPCPort))
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 2)
	go func() {
		slog.Info("gRPC server starting", "port", cfg.GRPCPort, "store", cfg.Store)
		if err := srv.Serve(lis); err != nil {
			errChan <- fmt.Errorf("failed to serve grpc: %w", err)
		}
	}()
	go func() {
		slog.Info("HTTP server starting", "port", cfg.HTTPPort)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("failed to serve http: %w", err)
		}
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		slog.Info("received shutdown signal, gracefully stopping")
	case serveErr = <-errChan:
		slog.Error("server failed, shutting down", "error", serveErr.Error())
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	healthServer.Shutdown()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Warn("http shutdown incomplete", "error", err.Error())
	}

	stopped := make(chan struct{})
	go func() {
		srv.GracefulStop()
		close(stopped)
	}()
	select {
	case <-shutdownCtx.Done():
		slog.Warn("graceful shutdown timeout exceeded, forcing stop")
		srv.Stop()
	case <-stopped:
		slog.Info("gRPC server stopped gracefully")
	}

	if err := scheduler.Close(shutdownCtx); err != nil {
		slog.Error("failed to flush pending save", "error", err.Error())
	}

	return serveErr
}

func newLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

// openRepository builds the configured storage backend and its cleanup
func openRepository(ctx context.Context, cfg *config.Config, clk clock.Clock, converter conversion.Converter) (characterrepo.Repository, func(), error) {
	switch cfg.Store {
	case config.StoreRedis:
		client, err := redis.NewClient(cfg.RedisAddr, &redis.Options{
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			UseTLS:   cfg.RedisTLS,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create redis client: %w", err)
		}
		if err := redis.Ping(ctx, client, 5*time.Second); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("failed to reach redis at %s: %w", cfg.RedisAddr, err)
		}
		repo, err := characterrepo.NewRedis(&characterrepo.RedisConfig{
			Client:    client,
			Clock:     clk,
			Converter: converter,
		})
		if err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("failed to create redis repository: %w", err)
		}
		return repo, func() { _ = client.Close() }, nil

	case config.StoreSQLite:
		repo, err := characterrepo.NewSQLite(ctx, &characterrepo.SQLiteConfig{
			Path:      cfg.SQLitePath,
			Clock:     clk,
			Converter: converter,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open sqlite store: %w", err)
		}
		return repo, func() { _ = repo.Close() }, nil

	default:
		repo, err := characterrepo.NewInMemory(converter)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create memory store: %w", err)
		}
		slog.Warn("using in-memory store, records are lost on exit")
		return repo, func() {}, nil
	}
}
