// Package server exposes the policy-gradient simulator over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dvorn/feynman-tools/sim"
)

const DefaultMaxEpisodes = 100000

type Config struct {
	Addr       string
	Vocabulary []string

	// RewardToken is the index of the vocabulary entry that earns reward.
	RewardToken int

	// MaxEpisodes caps the episode count of a single request so a client
	// cannot tie up the server with an unbounded loop.
	MaxEpisodes int
}

type Server struct {
	cfg Config
	sim *sim.Simulator
}

func New(cfg Config) (*Server, error) {
	simulator, err := sim.NewSimulator(cfg.Vocabulary)
	if err != nil {
		return nil, err
	}
	if cfg.RewardToken < 0 || cfg.RewardToken >= len(cfg.Vocabulary) {
		return nil, fmt.Errorf("reward token index %d out of range for vocabulary of size %d",
			cfg.RewardToken, len(cfg.Vocabulary))
	}
	if cfg.MaxEpisodes <= 0 {
		cfg.MaxEpisodes = DefaultMaxEpisodes
	}
	return &Server{cfg: cfg, sim: simulator}, nil
}

// Router builds the gin engine with all routes attached.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), cors())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "rl-simulator"})
	})
	router.POST("/api/rl/simulate", s.handleSimulate)

	return router
}

// ListenAndServe runs the HTTP server until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.cfg.Addr,
		Handler: s.Router(),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	slog.Info("simulator server listening", "addr", s.cfg.Addr, "vocab", s.cfg.Vocabulary)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		err := <-errCh
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case err := <-errCh:
		return err
	}
}

// cors allows any origin, matching the browser-facing setup of the
// simulation frontend.
func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
