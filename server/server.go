package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/existflow/taskboard/internal/auth"
	"github.com/existflow/taskboard/internal/board"
	"github.com/existflow/taskboard/internal/cache"
	"github.com/existflow/taskboard/internal/config"
	"github.com/existflow/taskboard/internal/logger"
	"github.com/existflow/taskboard/internal/store"
)

// Server is the task board API server
type Server struct {
	db     *store.DB
	redis  *redis.Client
	boards *board.Service
	issuer *auth.Issuer
	echo   *echo.Echo
}

// Open connects to the database and, when configured, Redis, and builds a
// server from cfg
func Open(cfg *config.Config) (*Server, error) {
	db, err := store.Open(cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	var (
		client *redis.Client
		lists  board.Lists
	)
	if cfg.RedisURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		client, err = cache.Connect(ctx, cfg.RedisURL)
		cancel()
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		lists = cache.New(db, client, cfg.CacheTTL)
		logger.Info("Board list cache enabled", logger.F("ttl", cfg.CacheTTL.String()))
	}

	s := New(db, board.NewService(db, lists), auth.NewIssuer(cfg.TokenSecret, cfg.TokenTTL))
	s.redis = client
	return s, nil
}

// New creates a server over an open store
func New(db *store.DB, boards *board.Service, issuer *auth.Issuer) *Server {
	s := &Server{
		db:     db,
		boards: boards,
		issuer: issuer,
	}
	s.setupEcho()
	return s
}

func (s *Server) setupEcho() {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.JSONSerializer = sonicSerializer{}
	e.HTTPErrorHandler = s.handleError

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(requestLogger)
	e.Use(middleware.CORS())

	// Health check
	e.GET("/health", s.handleHealth)

	// API v1
	api := e.Group("/api/v1")

	// Auth endpoints (public)
	api.POST("/auth/signup", s.handleSignup)
	api.POST("/auth/login", s.handleLogin)

	// Protected endpoints
	protected := api.Group("")
	protected.Use(s.authMiddleware)
	protected.POST("/auth/verify-token", s.handleVerifyToken)
	protected.POST("/auth/logout", s.handleLogout)

	protected.POST("/boards", s.handleCreateBoard)
	protected.GET("/boards", s.handleListBoards)
	protected.PUT("/boards", s.handleReorderBoards)
	protected.GET("/boards/bookmarks", s.handleListBookmarks)
	protected.PUT("/boards/bookmarks", s.handleReorderBookmarks)
	protected.GET("/boards/:boardId", s.handleGetBoard)
	protected.PUT("/boards/:boardId", s.handleUpdateBoard)
	protected.DELETE("/boards/:boardId", s.handleDeleteBoard)

	protected.POST("/boards/:boardId/sections", s.handleCreateSection)
	protected.PUT("/boards/:boardId/sections/:sectionId", s.handleUpdateSection)
	protected.DELETE("/boards/:boardId/sections/:sectionId", s.handleDeleteSection)

	protected.POST("/boards/:boardId/tasks", s.handleCreateTask)
	protected.PUT("/boards/:boardId/tasks/update-position", s.handleMoveTask)
	protected.PUT("/boards/:boardId/tasks/:taskId", s.handleUpdateTask)
	protected.DELETE("/boards/:boardId/tasks/:taskId", s.handleDeleteTask)

	s.echo = e
}

// requestLogger logs one line per request through the structured logger
func requestLogger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		req := c.Request()

		err := next(c)
		if err != nil {
			// let the error handler write the status before logging it
			c.Error(err)
		}

		res := c.Response()
		logger.Info("HTTP Request",
			logger.F("request_id", res.Header().Get(echo.HeaderXRequestID)),
			logger.F("method", req.Method),
			logger.F("uri", req.RequestURI),
			logger.F("status", res.Status),
			logger.F("size", res.Size),
			logger.F("duration", time.Since(start).String()))

		return nil
	}
}

// Close closes the database and Redis connections
func (s *Server) Close() error {
	if s.redis != nil {
		_ = s.redis.Close()
	}
	return s.db.Close()
}

// Router returns the HTTP handler
func (s *Server) Router() http.Handler {
	return s.echo
}

// Start starts the server
func (s *Server) Start(addr string) error {
	logger.Info("Server starting", logger.F("addr", addr))
	return s.echo.Start(addr)
}

// Shutdown stops accepting requests and waits for in-flight ones
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
