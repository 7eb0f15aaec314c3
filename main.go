package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/foomo/buildin-mcp/buildin"
	"github.com/foomo/buildin-mcp/config"
	"github.com/foomo/buildin-mcp/mcp"
	"github.com/foomo/buildin-mcp/service"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := viper.New()
	config.SetDefaults(v)

	cmd := &cobra.Command{
		Use:   "buildin-mcp",
		Short: "MCP server for the Buildin.ai knowledge base",
		Long: `Serves Buildin.ai pages as markdown resources and exposes a search tool
over the Model Context Protocol.

The integration token is read from BUILDIN_API_KEY. Every flag can also be set
through its BUILDIN_* environment variable, e.g. BUILDIN_LOG_LEVEL=debug.

Runs on stdio unless --http is given.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(v)
			if err != nil {
				return err
			}
			logger, err := newLogger(cfg.LogLevel)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()
			return run(cmd.Context(), logger, cfg)
		},
	}

	flags := cmd.Flags()
	flags.String(config.KeyHTTP, "", "HTTP server address (e.g., ':8080'), stdio when empty")
	flags.String(config.KeyEndpoint, v.GetString(config.KeyEndpoint), "MCP endpoint path for the HTTP transport")
	flags.Bool(config.KeySSE, false, "Mount the SSE endpoints next to the MCP endpoint")
	flags.String(config.KeyBaseURL, v.GetString(config.KeyBaseURL), "Buildin API base url")
	flags.Duration(config.KeyTimeout, v.GetDuration(config.KeyTimeout), "Timeout of a single API call")
	flags.Int(config.KeyPageSize, v.GetInt(config.KeyPageSize), "Page size when listing block children (1-100)")
	flags.Int(config.KeyConcurrency, v.GetInt(config.KeyConcurrency), "Maximum number of block children requests in flight per page fetch")
	flags.String(config.KeyLogLevel, v.GetString(config.KeyLogLevel), "Log level (debug, info, warn, error)")
	_ = v.BindPFlags(flags)

	return cmd
}

// newLogger builds a production logger writing to stderr, stdout belongs to
// the stdio transport
func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	zapConfig := zap.NewProductionConfig()
	zapConfig.Level = zap.NewAtomicLevelAt(lvl)
	zapConfig.OutputPaths = []string{"stderr"}
	zapConfig.ErrorOutputPaths = []string{"stderr"}
	return zapConfig.Build()
}

func run(ctx context.Context, logger *zap.Logger, cfg *config.Config) error {
	client := buildin.New(cfg.BaseURL, cfg.APIKey,
		buildin.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
		buildin.WithLogger(logger.Named("buildin")),
		buildin.WithPageSize(cfg.PageSize),
	)
	serviceInstance := service.NewService(client, logger.Named("service"), service.WithConcurrency(cfg.Concurrency))
	s := mcp.NewServer(logger.Named("mcp"), serviceInstance)

	if cfg.HTTPAddr == "" {
		logger.Info("starting MCP server in stdio mode")
		return server.ServeStdio(s)
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	var handler http.Handler
	if cfg.SSE {
		sseServer := mcp.NewMcpHTTPSSEServer(logger.Named("sse"), s, serviceInstance, cfg.Endpoint, nil)
		defer sseServer.Close()
		handler = sseServer
	} else {
		handler = mcp.NewMcpHTTPServer(s, cfg.Endpoint)
	}

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting MCP server", zap.String("addr", cfg.HTTPAddr), zap.String("endpoint", cfg.Endpoint), zap.Bool("sse", cfg.SSE))
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	}
}
