// Package api - Thin HTTP layer over the solver
// The API is ONLY responsible for: input decoding, solver orchestration,
// history bookkeeping and JSON output. It never computes hydraulics itself.
package api

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"steam-toolbox/adapters/input"
	"steam-toolbox/adapters/storage"
	"steam-toolbox/core/batch"
	"steam-toolbox/core/catalog"
	"steam-toolbox/core/solver"
	"steam-toolbox/core/units"
)

// Server tuning knobs
const (
	maxHeaderBytes    = 1 << 20
	readHeaderTimeout = 10 * time.Second
	idleTimeout       = 60 * time.Second

	defaultReadTimeout  = 10 * time.Second
	defaultWriteTimeout = 30 * time.Second

	// DefaultMaxBatchCases bounds POST /api/v1/batch when Options leave it unset
	DefaultMaxBatchCases = 500
)

// Options configure a Server. Zero values get working defaults; a nil
// Store disables the history endpoints.
type Options struct {
	Version string

	Store     storage.Store
	Builder   *input.Builder
	Solver    *solver.Solver
	Materials *catalog.Catalog
	Logger    *zap.Logger

	// Workers is the batch concurrency
	Workers int

	// MaxBatchCases limits the size of one batch request
	MaxBatchCases int

	// PressureMode interprets bare pressures in steam lookups
	PressureMode units.PressureMode

	// Mode is the gin mode (debug, release, test)
	Mode string

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Server is the API server
type Server struct {
	router *gin.Engine

	mu         sync.Mutex
	httpServer *http.Server
	closed     bool

	version       string
	store         storage.Store
	builder       *input.Builder
	solver        *solver.Solver
	runner        *batch.Runner
	materials     *catalog.Catalog
	logger        *zap.Logger
	maxBatchCases int
	pressureMode  units.PressureMode
	readTimeout   time.Duration
	writeTimeout  time.Duration
}

// NewServer creates a new API server
func NewServer(opts Options) *Server {
	if opts.Mode != "" {
		gin.SetMode(opts.Mode)
	}

	s := &Server{
		version:       opts.Version,
		store:         opts.Store,
		builder:       opts.Builder,
		solver:        opts.Solver,
		materials:     opts.Materials,
		logger:        opts.Logger,
		maxBatchCases: opts.MaxBatchCases,
		pressureMode:  opts.PressureMode,
		readTimeout:   opts.ReadTimeout,
		writeTimeout:  opts.WriteTimeout,
	}
	if s.builder == nil {
		s.builder = input.NewBuilder(input.Defaults{})
	}
	if s.solver == nil {
		s.solver = solver.New()
	}
	if s.materials == nil {
		s.materials = catalog.Global
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.maxBatchCases <= 0 {
		s.maxBatchCases = DefaultMaxBatchCases
	}
	if s.pressureMode == "" {
		s.pressureMode = units.Absolute
	}
	if s.readTimeout <= 0 {
		s.readTimeout = defaultReadTimeout
	}
	if s.writeTimeout <= 0 {
		s.writeTimeout = defaultWriteTimeout
	}
	s.runner = batch.NewRunner(opts.Workers, s.solver.Solve)

	s.router = s.routes()
	return s
}

// routes builds the gin router with all routes registered
func (s *Server) routes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestIDMiddleware, s.accessLog)

	router.GET("/health", s.handleHealth)

	v1 := router.Group("/api/v1")
	{
		v1.POST("/solve", s.handleSolve)
		v1.POST("/batch", s.handleBatch)

		v1.GET("/convert", s.handleConvert)
		v1.GET("/steam", s.handleSteam)
		v1.GET("/fittings", s.handleFittings)
		v1.GET("/materials", s.handleMaterials)
	}

	history := v1.Group("/history", s.requireHistory)
	{
		history.GET("", s.handleListHistory)
		history.GET("/:id", s.handleGetHistory)
		history.DELETE("/:id", s.handleDeleteHistory)
	}
	v1.GET("/compare", s.requireHistory, s.handleCompare)

	return router
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Run starts the HTTP server on addr and blocks until it stops
func (s *Server) Run(addr string) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return http.ErrServerClosed
	}
	hs := &http.Server{
		Addr:              addr,
		Handler:           s,
		MaxHeaderBytes:    maxHeaderBytes,
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       s.readTimeout,
		WriteTimeout:      s.writeTimeout,
		IdleTimeout:       idleTimeout,
	}
	s.httpServer = hs
	s.mu.Unlock()

	s.logger.Info("server listening", zap.String("addr", addr), zap.Bool("history", s.store != nil))
	return hs.ListenAndServe()
}

// Shutdown gracefully stops the server, allowing in-flight requests to complete
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	hs := s.httpServer
	s.mu.Unlock()

	if hs == nil {
		return nil
	}
	return hs.Shutdown(ctx)
}

func (s *Server) metadata(c *gin.Context, body interface{}, start time.Time) *ResponseMetadata {
	return &ResponseMetadata{
		RequestID:     requestID(c),
		InputHash:     computeInputHash(body),
		EngineVersion: s.version,
		DurationMs:    time.Since(start).Milliseconds(),
	}
}

func computeInputHash(body interface{}) string {
	data, _ := json.Marshal(body)
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
