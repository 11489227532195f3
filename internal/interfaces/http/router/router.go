package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// APIPrefix is the versioned root every route group is mounted under.
const APIPrefix = "/api/v1"

// RouteRegistrar mounts its routes on a gin group
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

type mount struct {
	registrar RouteRegistrar
	alias     bool
}

// Router collects route groups and mounts them on an engine
type Router struct {
	engine *gin.Engine
	mounts []mount
}

// NewRouter creates a Router for engine
func NewRouter(engine *gin.Engine) *Router {
	return &Router{engine: engine}
}

// Register mounts registrar under APIPrefix
func (r *Router) Register(registrar RouteRegistrar) *Router {
	r.mounts = append(r.mounts, mount{registrar: registrar})
	return r
}

// RegisterWithAlias mounts registrar under APIPrefix and again at the engine
// root, for clients that call /purchase-orders without a version.
func (r *Router) RegisterWithAlias(registrar RouteRegistrar) *Router {
	r.mounts = append(r.mounts, mount{registrar: registrar, alias: true})
	return r
}

// Setup registers every collected group with the engine
func (r *Router) Setup() {
	api := r.engine.Group(APIPrefix)
	root := r.engine.Group("")
	for _, m := range r.mounts {
		m.registrar.RegisterRoutes(api)
		if m.alias {
			m.registrar.RegisterRoutes(root)
		}
	}
}

type route struct {
	method   string
	path     string
	handlers []gin.HandlerFunc
}

// RouteGroup is a set of routes sharing a path prefix and middleware
type RouteGroup struct {
	prefix     string
	middleware []gin.HandlerFunc
	routes     []route
}

// NewRouteGroup creates an empty group mounted at prefix
func NewRouteGroup(prefix string) *RouteGroup {
	return &RouteGroup{prefix: prefix}
}

// Use adds middleware that runs before every route of the group
func (g *RouteGroup) Use(middleware ...gin.HandlerFunc) *RouteGroup {
	g.middleware = append(g.middleware, middleware...)
	return g
}

// Handle adds a route for method and path
func (g *RouteGroup) Handle(method, path string, handlers ...gin.HandlerFunc) *RouteGroup {
	g.routes = append(g.routes, route{method: method, path: path, handlers: handlers})
	return g
}

func (g *RouteGroup) GET(path string, handlers ...gin.HandlerFunc) *RouteGroup {
	return g.Handle(http.MethodGet, path, handlers...)
}

func (g *RouteGroup) POST(path string, handlers ...gin.HandlerFunc) *RouteGroup {
	return g.Handle(http.MethodPost, path, handlers...)
}

func (g *RouteGroup) PUT(path string, handlers ...gin.HandlerFunc) *RouteGroup {
	return g.Handle(http.MethodPut, path, handlers...)
}

func (g *RouteGroup) DELETE(path string, handlers ...gin.HandlerFunc) *RouteGroup {
	return g.Handle(http.MethodDelete, path, handlers...)
}

// RegisterRoutes implements RouteRegistrar
func (g *RouteGroup) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group(g.prefix, g.middleware...)
	for _, rt := range g.routes {
		group.Handle(rt.method, rt.path, rt.handlers...)
	}
}
