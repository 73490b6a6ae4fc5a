// cmd/task-query/serve.go
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"task-query-workers/internal/common/camunda"
	"task-query-workers/internal/common/config"
	"task-query-workers/internal/common/logger"
	"task-query-workers/internal/mcptools"
	processtaskquery "task-query-workers/internal/workers/ai-conversation/process-task-query"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the Zeebe worker, the MCP stdio server and the health endpoints",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			return serve(cfg)
		},
	}
}

// zeebeClientConfig gives the client the whole connection retry budget;
// serve does not retry on top of it.
func zeebeClientConfig(cfg *config.Config) *camunda.ClientConfig {
	return &camunda.ClientConfig{
		GatewayAddress:         cfg.Camunda.BrokerAddress,
		UsePlaintextConnection: true,
		RequestTimeout:         config.GetDuration(cfg.Camunda.RequestTimeout),
		RetryConfig: &camunda.RetryConfig{
			MaxRetries: 5,
			BaseDelay:  2 * time.Second,
			MaxDelay:   30 * time.Second,
		},
	}
}

func serve(cfg *config.Config) error {
	opts := logger.Options{Level: cfg.Logging.Level, Format: cfg.Logging.Format, Output: cfg.Logging.Output}
	if cfg.MCP.Enabled && opts.Output == "stdout" {
		opts.Output = "stderr"
	}
	log := logger.New(opts)
	defer log.Sync()

	log.Info("Starting task-query",
		zap.String("version", Version),
		zap.String("environment", cfg.App.Environment),
		zap.String("directoryBackend", cfg.Directory.Backend),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, err := newApp(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()

	var zeebe *camunda.Client
	var jobWorker *camunda.CamundaWorker
	if cfg.Camunda.Enabled {
		zeebe, err = camunda.NewClientWithConfig(ctx, zeebeClientConfig(cfg))
		if err != nil {
			return err
		}
		defer zeebe.Close()
		log.Info("Zeebe client connected", zap.String("gateway", cfg.Camunda.BrokerAddress))

		if config.IsWorkerEnabled(cfg, processtaskquery.TaskType) {
			workerCfg := config.GetWorkerConfig(cfg, processtaskquery.TaskType)
			handler := processtaskquery.NewHandler(processtaskquery.LoadConfig(cfg), a.processor, a.log)
			jobWorker = camunda.NewWorker(zeebe.GetClient(), processtaskquery.TaskType, workerCfg.MaxJobsActive, handler, a.log)
		} else {
			log.Info("Worker disabled", zap.String("taskType", processtaskquery.TaskType))
		}
	}

	mcpDone := make(chan error, 1)
	if cfg.MCP.Enabled {
		tool := mcptools.NewQueryTool(a.processor, cfg.Query.MinPromptLength, cfg.Query.MaxPromptLength, a.log)
		s := mcptools.NewServer(cfg.MCP.ServerName, Version, tool)
		go func() {
			log.Info("MCP stdio server started", zap.String("tool", mcptools.QueryToolName))
			mcpDone <- server.ServeStdio(s)
		}()
	}

	httpServer := newHTTPServer(cfg.HTTP.Address, a)
	go func() {
		log.Info("HTTP server started", zap.String("address", cfg.HTTP.Address))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server error", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		log.Info("Received shutdown signal", zap.String("signal", sig.String()))
	case err := <-mcpDone:
		// stdin closed; the MCP client went away.
		if err != nil {
			log.Warn("MCP server stopped", zap.Error(err))
		} else {
			log.Info("MCP client disconnected")
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if jobWorker != nil {
		jobWorker.Stop(shutdownCtx)
	}
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", zap.Error(err))
	}

	log.Info("task-query stopped")
	return nil
}

func newHTTPServer(addr string, a *app) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, "healthy", "")
	})

	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := a.ready(ctx); err != nil {
			writeStatus(w, http.StatusServiceUnavailable, "not ready", err.Error())
			return
		}
		writeStatus(w, http.StatusOK, "ready", "")
	})

	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

func writeStatus(w http.ResponseWriter, code int, status, detail string) {
	body := map[string]string{
		"status": status,
		"time":   time.Now().UTC().Format(time.RFC3339),
	}
	if detail != "" {
		body["error"] = detail
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
