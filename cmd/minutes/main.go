package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/nguyentantai21042004/minutes-flow/internal/api"
	"github.com/nguyentantai21042004/minutes-flow/internal/artifact"
	"github.com/nguyentantai21042004/minutes-flow/internal/config"
	"github.com/nguyentantai21042004/minutes-flow/internal/logger"
	"github.com/nguyentantai21042004/minutes-flow/internal/processor"
	"github.com/nguyentantai21042004/minutes-flow/internal/prompt"
	"github.com/nguyentantai21042004/minutes-flow/internal/provider"
	"github.com/nguyentantai21042004/minutes-flow/internal/summarizer"
	"github.com/nguyentantai21042004/minutes-flow/internal/transcriber"
	"github.com/nguyentantai21042004/minutes-flow/internal/watcher"
	"github.com/nguyentantai21042004/minutes-flow/pkg/executor"
)

const shutdownTimeout = 30 * time.Second

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	envPath := flag.String("env", ".env", "optional dotenv file with API keys")
	flag.Parse()

	if err := run(*configPath, *envPath); err != nil {
		fmt.Fprintf(os.Stderr, "minutes: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, envPath string) error {
	cfg, err := config.Load(configPath, envPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log := logger.NewWithWriter(cfg.Logging.Level, cfg.Logging.Format, os.Stdout)
	log.Info(ctx, "Meeting minutes service starting (%s/%s, %d CPUs)", runtime.GOOS, runtime.GOARCH, runtime.NumCPU())

	store, err := artifact.New(cfg.Paths.Uploads, cfg.Paths.Transcripts, log)
	if err != nil {
		return err
	}

	tmpl, err := prompt.Load(cfg.Summarization.TemplateFile)
	if err != nil {
		return err
	}

	registry, err := provider.Build(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("build providers: %w", err)
	}
	log.Info(ctx, "Providers: %v", registry.Names())

	tr, err := transcriber.New(ctx, cfg, executor.New(), log)
	if err != nil {
		return err
	}

	sum := summarizer.New(registry, tmpl, store, cfg.Summarization.Timeout, log)
	proc := processor.New(cfg, store, tr, sum, log)

	srv := api.NewServer(cfg.Server, api.Deps{
		Store:       store,
		Transcriber: proc,
		Summarizer:  sum,
		Catalog:     registry,
		Prompt:      tmpl,
	}, log)

	errChan := make(chan error, 2)
	go func() {
		if err := srv.Start(ctx); err != nil {
			errChan <- fmt.Errorf("http server: %w", err)
		}
	}()

	watchDone := make(chan struct{})
	if cfg.Watcher.Enabled {
		w, err := watcher.New(cfg.Paths.Uploads, proc.Process, log, cfg.Performance.MaxConcurrent)
		if err != nil {
			return err
		}
		defer w.Stop()

		go func() {
			defer close(watchDone)
			if err := w.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				errChan <- fmt.Errorf("watcher: %w", err)
			}
		}()
		log.Info(ctx, "Watching %s (auto summarize: %t)", cfg.Paths.Uploads, cfg.Watcher.AutoSummarize)
	} else {
		close(watchDone)
	}

	log.Info(ctx, "Transcription engine: %s, max concurrent: %d", tr.Engine(), cfg.Performance.MaxConcurrent)

	var runErr error
	select {
	case <-ctx.Done():
		log.Info(context.Background(), "Shutdown signal received")
	case runErr = <-errChan:
		log.Error(context.Background(), "%v", runErr)
		cancel()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn(shutdownCtx, "HTTP shutdown: %v", err)
	}

	select {
	case <-watchDone:
	case <-shutdownCtx.Done():
		log.Warn(shutdownCtx, "Gave up waiting for running jobs")
	}

	log.Info(shutdownCtx, "Meeting minutes service stopped")
	return runErr
}
