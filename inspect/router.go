// Package inspect serves a read-only JSON view of a chain over HTTP.
package inspect

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/VinceNguyen000/blockchain-assignment1/ledger"
)

// Router wraps the Gin engine with the chain handlers
type Router struct {
	engine *gin.Engine
	logger *slog.Logger
}

// NewRouter creates a Router exposing chain. Nothing in the API mutates the chain.
func NewRouter[T any](chain *ledger.Chain[T], logger *slog.Logger) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Router{
		engine: gin.New(),
		logger: logger,
	}
	r.setupMiddleware()
	r.setupRoutes(&chainHandler[T]{chain: chain})
	return r
}

func (r *Router) setupMiddleware() {
	r.engine.Use(Recovery(r.logger))
	r.engine.Use(Logger(r.logger))
}

func (r *Router) setupRoutes(h routes) {
	r.engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.engine.Group("/api/v1/chain")
	{
		v1.GET("", h.GetChain)
		v1.GET("/latest", h.GetLatest)
		v1.GET("/validity", h.GetValidity)
		v1.GET("/blocks/:index", h.GetBlock)
	}
}

// Engine returns the underlying Gin engine
func (r *Router) Engine() *gin.Engine {
	return r.engine
}

// Handler returns the router as an http.Handler
func (r *Router) Handler() http.Handler {
	return r.engine
}
