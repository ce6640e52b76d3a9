package container

import (
	"context"
	"fmt"
	"io"
	"os"

	"gostat/adapters/api"
	"gostat/app"
	"gostat/app/executors"
	"gostat/internal"
	"gostat/internal/batch"
	"gostat/internal/config"

	"github.com/gin-gonic/gin"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	Dispatcher *app.ExecutorDispatcher
	Runner     *batch.Runner
	Server     *api.Server
}

// New creates a container logging to stderr
func New(cfg *config.Config) (*Container, error) {
	return NewWithWriter(cfg, os.Stderr)
}

// NewWithWriter creates a container whose logger writes to w
func NewWithWriter(cfg *config.Config, w io.Writer) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	level, err := internal.ParseLogLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	c := &Container{
		Config: cfg,
		Logger: internal.NewLoggerTo(w, level),
	}

	if err := c.initDispatcher(); err != nil {
		return nil, err
	}
	c.Runner = batch.NewRunner(c.Dispatcher, cfg.Batch.Concurrency, c.Logger)

	gin.SetMode(cfg.Server.GinMode)
	c.Server = api.NewServer(c.Dispatcher, c.Runner, cfg.Analysis.MaxRows, c.Logger)

	c.Logger.Debug("container initialized: %d methods, batch concurrency %d", len(c.Dispatcher.Methods("")), cfg.Batch.Concurrency)
	return c, nil
}

func (c *Container) initDispatcher() error {
	defaults := app.DispatcherDefaults{
		Alpha:  c.Config.Analysis.DefaultAlpha,
		Locale: c.Config.Analysis.DefaultLocale,
	}
	dispatcher, err := app.NewExecutorDispatcher(defaults, c.Logger, executors.All(c.Logger)...)
	if err != nil {
		return fmt.Errorf("failed to register executors: %w", err)
	}
	c.Dispatcher = dispatcher
	return nil
}

// Serve runs the HTTP server on the configured port until ctx is cancelled
func (c *Container) Serve(ctx context.Context) error {
	return c.Server.Run(ctx, ":"+c.Config.Server.Port)
}
