package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/consentdesk/internal/app"
	"github.com/rpggio/consentdesk/internal/config"
	"github.com/rpggio/consentdesk/internal/logging"
	"github.com/rpggio/consentdesk/internal/mcp"
	"github.com/rpggio/consentdesk/internal/query"
	"github.com/rpggio/consentdesk/internal/transport"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	// Use stderr for logs in stdio mode to keep stdout clean for JSON-RPC.
	logWriter := io.Writer(os.Stdout)
	if cfg.Transport.Mode == "stdio" {
		logWriter = os.Stderr
	}
	if cfg.Log.Path != "" {
		file, err := logging.OpenFile(cfg.Log.Path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "log file error: %v\n", err)
		} else {
			defer file.Close()
			logWriter = file
		}
	}
	logger := logging.New(logWriter, cfg.Log.Level)

	a, err := app.Open(cfg.DB.Path, logger,
		query.WithWeekStart(cfg.Query.Weekday()),
		query.WithPageSize(cfg.Query.PageSize),
	)
	if err != nil {
		logger.Error("failed to open database", "path", cfg.DB.Path, "error", err)
		os.Exit(1)
	}
	defer a.Close()

	mcpServer := mcp.NewServer(mcp.Config{
		Services:      a.MCPServices(),
		Resolver:      a.Keys,
		AuthEnabled:   cfg.Auth.Enabled,
		DefaultTenant: cfg.Auth.DefaultTenant,
		TransportMode: cfg.Transport.Mode,
		Logger:        logger,
	})

	if cfg.Transport.Mode == "stdio" {
		runStdioMode(logger, mcpServer)
		return
	}

	tenancy := transport.StaticTenant(cfg.Auth.DefaultTenant)
	if cfg.Auth.Enabled {
		tenancy = transport.AuthMiddleware(a.Keys)
	}
	router := transport.NewServer(mcp.NewHandler(a.MCPServices(), logger), tenancy, logger)
	if err := runHTTPMode(logger, mcpServer, router, cfg); err != nil {
		logger.Error("server error", "error", err)
		_ = a.Close()
		os.Exit(1)
	}
}

func runStdioMode(logger *slog.Logger, mcpServer *sdkmcp.Server) {
	logger.Info("starting stdio transport", "auth", "disabled")

	// Create stdio transport
	stdio := &sdkmcp.StdioTransport{}

	// Setup signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-stop
		logger.Info("shutting down")
		cancel()
	}()

	// Run blocks until stdin closes or context is canceled
	if err := mcpServer.Run(ctx, stdio); err != nil {
		logger.Error("stdio server error", "error", err)
		os.Exit(1)
	}
}

func runHTTPMode(logger *slog.Logger, mcpServer *sdkmcp.Server, router http.Handler, cfg config.Config) error {
	mcpHandler := sdkmcp.NewStreamableHTTPHandler(
		func(r *http.Request) *sdkmcp.Server { return mcpServer },
		&sdkmcp.StreamableHTTPOptions{
			Stateless:      false,
			SessionTimeout: 30 * time.Minute,
		},
	)

	// MCP authenticates in its own middleware; /rpc and /health go through chi.
	mux := http.NewServeMux()
	mux.Handle("/mcp", mcpHandler)
	mux.Handle("/mcp/", mcpHandler)
	mux.Handle("/", router)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	logger.Info("server listening", "addr", addr, "auth", cfg.Auth.Enabled)
	return serve(logger, httpServer, stop)
}

// serve runs server until it fails or a value arrives on stop, then shuts
// it down gracefully. A listen failure is returned.
func serve(logger *slog.Logger, server *http.Server, stop <-chan os.Signal) error {
	failed := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			failed <- err
		}
	}()

	select {
	case err := <-failed:
		return fmt.Errorf("listening on %s: %w", server.Addr, err)
	case <-stop:
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger.Info("shutting down")
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
	return nil
}
