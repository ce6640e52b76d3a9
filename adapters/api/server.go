// Package api exposes the method dispatcher over HTTP.
package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"gostat/adapters/bridge"
	"gostat/domain/core"
	"gostat/internal"
	"gostat/internal/batch"
	apperrors "gostat/internal/errors"
	"gostat/ports"

	"github.com/gin-gonic/gin"
)

// Server represents the HTTP server for method execution
type Server struct {
	router     *gin.Engine
	dispatcher ports.Dispatcher
	runner     *batch.Runner
	maxRows    int
	logger     *internal.Logger
}

// NewServer creates a new server and registers its routes
func NewServer(dispatcher ports.Dispatcher, runner *batch.Runner, maxRows int, logger *internal.Logger) *Server {
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())

	s := &Server{
		router:     router,
		dispatcher: dispatcher,
		runner:     runner,
		maxRows:    maxRows,
		logger:     logger,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/healthz", s.handleHealth)

	v1 := s.router.Group("/api/v1")
	v1.GET("/methods", s.handleMethods)
	v1.POST("/methods/:method/execute", s.handleExecute)
	v1.POST("/batch", s.handleBatch)
}

// Handler returns the router for embedding or tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleMethods(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"methods": s.dispatcher.Methods(c.Query("locale"))})
}

func (s *Server) handleExecute(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		s.writeError(c, apperrors.InvalidInput("could not read request body"))
		return
	}
	req, err := bridge.DecodeRequest(raw, s.maxRows)
	if err != nil {
		s.writeError(c, err)
		return
	}

	method := c.Param("method")
	if body := strings.TrimSpace(req.Method); body != "" && body != method {
		s.writeError(c, &core.FieldError{Kind: core.ErrInvalidPayload, Field: "method", Detail: "body method " + body + " does not match path " + method})
		return
	}
	req.Method = method

	env, err := s.dispatcher.ExecuteMethod(c.Request.Context(), req)
	if err != nil {
		s.writeError(c, err)
		return
	}
	out, err := bridge.EncodeEnvelope(env)
	if err != nil {
		s.writeError(c, apperrors.Wrap(err, "encoding result"))
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", out)
}

// batchResult is one entry of a batch response
type batchResult struct {
	Index    int            `json:"index"`
	Method   string         `json:"method"`
	Envelope any            `json:"envelope,omitempty"`
	Error    *errorResponse `json:"error,omitempty"`
}

func (s *Server) handleBatch(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		s.writeError(c, apperrors.InvalidInput("could not read request body"))
		return
	}
	reqs, err := bridge.DecodeBatch(raw, s.maxRows)
	if err != nil {
		s.writeError(c, err)
		return
	}

	outcomes, err := s.runner.Run(c.Request.Context(), reqs)
	if err != nil {
		s.writeError(c, err)
		return
	}

	results := make([]batchResult, len(outcomes))
	failed := 0
	for i, o := range outcomes {
		results[i] = batchResult{Index: o.Index, Method: o.Method}
		if o.Err != nil {
			failed++
			results[i].Error = toErrorResponse(o.Err)
			continue
		}
		results[i].Envelope = o.Envelope
	}
	c.JSON(http.StatusOK, gin.H{"results": results, "failed": failed})
}

// errorResponse is the error body shape of every endpoint
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

func toErrorResponse(err error) *errorResponse {
	appErr := apperrors.FromDomain(err)
	return &errorResponse{Code: appErr.Code, Message: err.Error(), Field: appErr.Field}
}

func (s *Server) writeError(c *gin.Context, err error) {
	body := toErrorResponse(err)
	status := apperrors.HTTPStatus(body.Code)
	if status >= http.StatusInternalServerError {
		s.logger.Error("%s %s: %v", c.Request.Method, c.FullPath(), err)
	} else {
		s.logger.Debug("%s %s rejected: %v", c.Request.Method, c.FullPath(), err)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": body})
}
