package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/crimson-sun/triage/internal/config"
	"github.com/crimson-sun/triage/internal/engine"
	"github.com/crimson-sun/triage/internal/engine/classifier"
	"github.com/crimson-sun/triage/internal/engine/loader"
	"github.com/crimson-sun/triage/internal/logging"
	"github.com/crimson-sun/triage/internal/server"
)

func main() {
	// A missing .env is fine; the environment and triage.yaml still apply.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config:\n%v", err)
	}

	logger := logging.Init(cfg.Log.JSON, logging.ParseLevel(cfg.Log.Level))

	// Set up graceful shutdown.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		fmt.Fprintf(os.Stderr, "\nreceived %v, shutting down...\n", sig)
		cancel()
	}()

	// Load the model. Failure leaves the loader Failed and the server up,
	// answering every classify request with "Model not loaded".
	ld := loader.New(newFactory(cfg.Engine),
		loader.WithAccelerated(cfg.Engine.Accelerated),
		loader.WithLogger(logger),
	)
	if err := ld.Load(ctx, cfg.Engine.ModelDir); err != nil {
		logger.Error("serving without a model", "err", err)
	}
	defer ld.Close()

	eng := engine.New(ld, logger)
	srv := server.New(eng,
		server.WithStatus(ld),
		server.WithLogger(logger),
		server.WithMaxBodyBytes(cfg.Server.MaxBodyBytes),
		server.WithAllowOrigin(cfg.Server.AllowOrigin),
	)

	logger.Info("triage: starting",
		"model_dir", cfg.Engine.ModelDir,
		"state", ld.State().String(),
	)
	if err := srv.ListenAndServe(ctx, cfg.Server.Addr, cfg.Server.ShutdownTimeout); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func newFactory(cfg config.EngineConfig) classifier.Factory {
	opts := []classifier.Option{
		classifier.WithDeviceID(cfg.DeviceID),
		classifier.WithMaxLength(cfg.MaxLength),
		classifier.WithThreads(cfg.Threads),
	}
	if cfg.OrtLib != "" {
		opts = append(opts, classifier.WithLibraryPath(cfg.OrtLib))
	}
	f := classifier.NewFactory(cfg.ModelDir, opts...)
	if cfg.Serialize {
		f = classifier.SerializedFactory(f)
	}
	return f
}
