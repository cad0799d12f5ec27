package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/atlanticofertlog/cargo-docs/internal/bootstrap"
	"github.com/atlanticofertlog/cargo-docs/internal/citylocator"
	"github.com/atlanticofertlog/cargo-docs/internal/common"
	"github.com/atlanticofertlog/cargo-docs/internal/ingest"
	"github.com/atlanticofertlog/cargo-docs/internal/pipeline"
	"github.com/atlanticofertlog/cargo-docs/internal/repository"
	"github.com/atlanticofertlog/cargo-docs/internal/server"
)

func main() {
	// Logger
	logger, _ := zap.NewProduction()
	defer func() { _ = logger.Sync() }()
	log := logger.Sugar()
	// the gRPC layer logs through zap, the engine and store through slog
	slogger := bootstrap.NewLogger(os.Stdout)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	// Context with signal
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := bootstrap.OpenStore(ctx, cfg.Store, slogger)
	if err != nil {
		log.Fatalf("opening store: %v", err)
	}
	defer repository.Close(db, slogger)
	if err := repository.HealthCheck(ctx, db, 3*time.Second, slogger); err != nil {
		log.Fatalf("DB health failed: %v", err)
	}
	log.Infow("DB health OK", "dialect", db.Dialect)

	// no terminal here: ambiguous cities take the first mention
	engine, err := bootstrap.NewEngine(cfg, citylocator.FirstChooser{}, slogger)
	if err != nil {
		log.Fatalf("building engine: %v", err)
	}
	jobs := repository.NewExtractJobRepository(db, slogger)
	proc := pipeline.NewProcessor(slogger,
		pipeline.NewTextStage(jobs, bootstrap.NewTextSource(cfg.OCR, slogger), slogger),
		pipeline.NewExtractStage(jobs, engine, slogger))

	if dir := os.Getenv("WATCH_DIR"); dir != "" {
		if err := watchInbox(ctx, dir, proc, cfg.Queue, slogger); err != nil {
			log.Fatalf("watch %s: %v", dir, err)
		}
		log.Infow("watching inbox", "dir", dir)
	}

	// gRPC server
	grpcServer := grpc.NewServer(grpc.UnaryInterceptor(server.UnaryLogging(logger)))
	// Health service
	hs := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, hs)
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	// Reflection for grpcurl
	reflection.Register(grpcServer)
	server.RegisterExtractionServer(grpcServer, server.NewExtractionService(engine, proc, jobs, logger))

	lis, err := net.Listen("tcp", cfg.Server.GRPCAddr)
	if err != nil {
		log.Fatalf("listen: %v", err)
	}
	log.Infof("gRPC serving on %s", cfg.Server.GRPCAddr)
	go func() {
		if err := grpcServer.Serve(lis); err != nil {
			log.Fatalf("grpc serve: %v", err)
		}
	}()

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	metricsServer := &http.Server{Addr: cfg.Server.MetricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorf("metrics serve: %v", err)
		}
	}()
	log.Infof("metrics on %s/metrics", cfg.Server.MetricsAddr)

	<-ctx.Done()
	log.Info("shutting down...")
	hs.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = metricsServer.Shutdown(shutdownCtx)
	grpcServer.GracefulStop()
	log.Info("stopped.")
}

// watchInbox feeds new files dropped under dir/<KIND>/ to a worker queue.
func watchInbox(ctx context.Context, dir string, proc *pipeline.Processor, qc common.QueueConfig, logger *slog.Logger) error {
	events, errs, err := ingest.StartWatcher(ctx, ingest.WatchConfig{
		Roots:       []string{dir},
		InitialScan: true,
		Debounce:    2 * time.Second,
	}, logger)
	if err != nil {
		return err
	}
	q := pipeline.NewQueue(proc, logger,
		pipeline.WithWorkers(qc.Workers),
		pipeline.WithQueueSize(qc.Size),
		pipeline.WithProcessTimeout(qc.JobTimeout),
		pipeline.WithBaseContext(ctx),
	)
	go func() {
		defer q.Shutdown(context.Background())
		for {
			select {
			case path, ok := <-events:
				if !ok {
					return
				}
				kind, ok := inboxKind(dir, path)
				if !ok {
					logger.Warn("file outside a kind folder ignored", "path", path)
					continue
				}
				if err := q.Enqueue(ctx, pipeline.Document{Path: path, Kind: kind}); err != nil {
					logger.Warn("enqueue failed", "path", path, "error", err)
				}
			case err, ok := <-errs:
				if !ok {
					errs = nil
					continue
				}
				logger.Warn("inbox watcher error", "error", err)
			}
		}
	}()
	return nil
}
