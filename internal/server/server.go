// Package server exposes the catalog and explorer sessions over HTTP and
// websockets.
package server

import (
	"net/http"
	"time"

	"github.com/danmuck/blestack/internal/catalog"
	"github.com/danmuck/blestack/internal/config"
	"github.com/danmuck/blestack/internal/node"
	"github.com/danmuck/blestack/internal/observability"
	"github.com/danmuck/blestack/internal/sessions"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

const (
	Version = "0.1.0"

	// wsReadLimit bounds one inbound websocket event message.
	wsReadLimit = 4096
)

type Server struct {
	ID       string           `json:"id"`
	Addr     string           `json:"addr"`
	Appeared time.Time        `json:"appeared"`
	Catalog  *catalog.Catalog `json:"-"`
	Sessions *sessions.Store  `json:"-"`

	origins  []string
	router   *gin.Engine
	upgrader websocket.Upgrader
}

var _ node.Node = (*Server)(nil)

// Appear builds a server for cfg serving cat. Routes are registered by
// RegisterRoutes or Serve.
func Appear(cfg config.ServerConfig, cat *catalog.Catalog) *Server {
	observability.RegisterMetrics()
	origins := normalizeOrigins(cfg.CorsOrigins)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(observability.RequestLogger(log.Logger))
	r.Use(observability.RequestMetricsMiddleware(cfg.Name))
	r.Use(cors.New(corsConfig(origins)))
	_ = r.SetTrustedProxies([]string{"127.0.0.1", "::1"})

	s := &Server{
		ID:       cfg.Name,
		Addr:     cfg.Addr,
		Appeared: time.Now(),
		Catalog:  cat,
		Sessions: sessions.NewStore(cat, cfg.SessionCapacity),
		origins:  origins,
		router:   r,
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin:     s.checkOrigin,
	}
	return s
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods: []string{"GET", "POST"},
		AllowHeaders: []string{"Origin", "Content-Type"},
		MaxAge:       12 * time.Hour,
	}
	if len(origins) == 1 && origins[0] == "*" {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

func (s *Server) NodeID() string {
	return s.ID
}

func (s *Server) Kind() string {
	return "blestackd"
}

func (s *Server) HTTPRouter() *gin.Engine {
	return s.router
}

func (s *Server) RegisterRoutes() {
	r := s.router
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"uptime":  time.Since(s.Appeared).String(),
			"service": s.ID,
			"version": Version,
		})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"ready":    s.Catalog != nil,
			"uptime":   time.Since(s.Appeared).String(),
			"service":  s.ID,
			"version":  Version,
			"layers":   s.Catalog.Len(),
			"sessions": s.Sessions.Len(),
		})
	})

	api := r.Group("/api")
	api.GET("/layers", s.listLayers)
	api.GET("/layers/:id", s.getLayer)
	api.GET("/graph", s.getGraph)
	api.POST("/sessions", s.createSession)
	api.GET("/sessions/:id", s.getSession)
	api.POST("/sessions/:id/events", s.postEvent)
	api.GET("/sessions/:id/ws", s.sessionSocket)
}

func (s *Server) Serve() error {
	s.RegisterRoutes()
	log.Info().
		Str("id", s.ID).
		Str("addr", s.Addr).
		Int("layers", s.Catalog.Len()).
		Str("root", s.Catalog.Root().String()).
		Msg("blestackd serving")
	return s.router.Run(s.Addr)
}

func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, allowed := range s.origins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}

func normalizeOrigins(origins []string) []string {
	if len(origins) == 0 {
		return []string{"http://localhost:3000"}
	}
	return origins
}
