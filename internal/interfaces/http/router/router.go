package router

import (
	"github.com/gin-gonic/gin"
)

// RouteRegistrar is implemented by handlers that mount their own routes
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Router builds the gin engine and mounts all versioned routes
type Router struct {
	engine      *gin.Engine
	middlewares []gin.HandlerFunc
	registrars  []RouteRegistrar
}

// Option configures the Router
type Option func(*Router)

// WithMiddleware appends a middleware applied to every route
func WithMiddleware(mw ...gin.HandlerFunc) Option {
	return func(r *Router) {
		r.middlewares = append(r.middlewares, mw...)
	}
}

// WithRegistrar adds handlers whose routes are mounted under /api/v1
func WithRegistrar(registrars ...RouteRegistrar) Option {
	return func(r *Router) {
		r.registrars = append(r.registrars, registrars...)
	}
}

// New builds a Router from the given options
func New(opts ...Option) *Router {
	r := &Router{
		engine: gin.New(),
	}
	for _, opt := range opts {
		opt(r)
	}

	r.engine.Use(r.middlewares...)

	api := r.engine.Group("/api/v1")
	for _, registrar := range r.registrars {
		registrar.RegisterRoutes(api)
	}

	return r
}

// Engine exposes the underlying gin engine for serving
func (r *Router) Engine() *gin.Engine {
	return r.engine
}
