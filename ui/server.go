package ui

import (
	"embed"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/semaphore"

	"healthdash/app"
	"healthdash/internal"
	"healthdash/internal/config"
	"healthdash/ports"
)

//go:embed templates/*
var embeddedFiles embed.FS

// Server is the dashboard web server: the embedded single-page UI plus the
// JSON API it talks to.
type Server struct {
	router   *gin.Engine
	explorer *app.Explorer
	catalog  ports.LoadCatalog
	logger   *internal.Logger

	exportSem      *semaphore.Weighted
	exportRowLimit int
}

// NewServer creates the dashboard server. A nil catalog disables the load
// history endpoint.
func NewServer(explorer *app.Explorer, catalog ports.LoadCatalog, cfg config.Config) *Server {
	gin.SetMode(cfg.Server.GinMode)

	s := &Server{
		router:         gin.New(),
		explorer:       explorer,
		catalog:        catalog,
		logger:         internal.NewDefaultLogger().Tagged("Server"),
		exportSem:      semaphore.NewWeighted(cfg.Export.Concurrency),
		exportRowLimit: cfg.Export.RowLimit,
	}

	s.setupMiddleware(cfg.Server.CORSOrigins)
	s.setupRoutes()

	return s
}

// setupMiddleware configures Gin middleware
func (s *Server) setupMiddleware(corsOrigins []string) {
	s.router.Use(gin.Logger())
	s.router.Use(gin.Recovery())
	s.router.Use(cors.New(cors.Config{
		AllowOrigins:     corsOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))
}

// setupRoutes configures the application routes
func (s *Server) setupRoutes() {
	s.router.GET("/", s.handleIndex)

	api := s.router.Group("/api")
	{
		api.GET("/dataset", s.handleDataset)
		api.GET("/filters/options", s.handleFilterOptions)
		api.POST("/explore", s.handleExplore)
		api.POST("/records", s.handleRecords)
		api.POST("/export", s.handleExport)
		api.GET("/dictionary", s.handleDictionary)
		api.GET("/catalog/loads", s.handleCatalogLoads)
	}
}

// Handler exposes the router for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the web server
func (s *Server) Start(addr string) error {
	s.logger.Info("Starting dashboard on http://%s", addr)
	return s.router.Run(addr)
}

// handleIndex serves the embedded dashboard page.
func (s *Server) handleIndex(c *gin.Context) {
	content, err := embeddedFiles.ReadFile("templates/index.html")
	if err != nil {
		s.logger.Error("Dashboard template not found: %v", err)
		c.String(http.StatusInternalServerError, "Template not found")
		return
	}
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.String(http.StatusOK, string(content))
}
