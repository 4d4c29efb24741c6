// Package server exposes the entity registry and compiled mapping
// documents over HTTP. Definitions come from a single YAML file that can
// be reloaded without restarting.
package server

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"mapforge/internal/config"
	"mapforge/internal/diagnostic"
	"mapforge/internal/mapping"
	"mapforge/internal/metrics"
	"mapforge/internal/resource"
	"mapforge/internal/schema"
)

const contentTypeJSON = "application/json; charset=utf-8"

// Server serves entity descriptors and compiled mappings from a
// reloadable definition file. Compile results are cached per entity;
// the cache is dropped whenever the definitions are reloaded.
type Server struct {
	cfg     *config.Config
	logger  zerolog.Logger
	metrics *metrics.Metrics

	mu       sync.RWMutex
	registry *schema.Registry
	compiler *mapping.Compiler
	cache    map[string][]byte
}

// New loads the definition file named by cfg and builds a server around
// it. Entities that fail validation are reported and left out; a file
// that cannot be read or parsed at all is a startup error.
func New(cfg *config.Config, logger zerolog.Logger, m *metrics.Metrics) (*Server, error) {
	s := &Server{
		cfg:     cfg,
		logger:  logger,
		metrics: m,
	}

	registry, diags, err := schema.LoadRegistry(cfg.Schema.FilePath)
	if err != nil {
		return nil, err
	}

	s.logDiagnostics(diags)
	s.swap(registry)

	logger.Info().
		Int("entities", registry.Len()).
		Str("file", cfg.Schema.FilePath).
		Msg("entity definitions loaded")

	return s, nil
}

// Router builds the gin engine with all routes and middleware attached.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(RequestLogger(s.logger, s.metrics))
	router.Use(Recovery())

	api := router.Group("/api/v1")
	{
		api.GET("/entities", s.handleEntities)
		api.GET("/entities/:name", s.handleEntity)
		api.GET("/mappings/:name", s.handleMapping)
		api.POST("/reload", s.handleReload)
	}

	router.GET("/healthz", s.handleHealthz)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}

// Run starts the HTTP server on the configured address and blocks.
func (s *Server) Run() error {
	return s.Router().Run(s.cfg.Server.Addr)
}

// swap installs a freshly loaded registry with a compiler bound to it
// and resets the compile cache.
func (s *Server) swap(registry *schema.Registry) {
	compiler := mapping.New(registry,
		mapping.WithResources(resource.Dir(s.cfg.Schema.ResourceDir)),
		mapping.WithLogger(s.logger),
	)

	s.mu.Lock()
	s.registry = registry
	s.compiler = compiler
	s.cache = make(map[string][]byte)
	s.mu.Unlock()
}

func (s *Server) handleEntities(c *gin.Context) {
	s.mu.RLock()
	registry := s.registry
	s.mu.RUnlock()

	names := registry.Names()

	Success(c, gin.H{"entities": names, "total": len(names)})
}

func (s *Server) handleEntity(c *gin.Context) {
	name := c.Param("name")

	s.mu.RLock()
	registry := s.registry
	s.mu.RUnlock()

	entity, err := registry.Entity(name)
	if err != nil {
		Error(c, http.StatusNotFound, err.Error())

		return
	}

	Success(c, entity)
}

func (s *Server) handleMapping(c *gin.Context) {
	name := c.Param("name")

	s.mu.RLock()
	cached, ok := s.cache[name]
	compiler := s.compiler
	s.mu.RUnlock()

	if ok {
		c.Data(http.StatusOK, contentTypeJSON, cached)

		return
	}

	start := time.Now()

	res, err := compiler.Compile(name)
	if err != nil {
		s.metrics.RecordCompilation(name, "error", time.Since(start))

		if errors.Is(err, schema.ErrEntityNotFound) {
			Error(c, http.StatusNotFound, err.Error())

			return
		}

		s.logger.Error().Err(err).Str("entity", name).Msg("compilation failed")
		Error(c, http.StatusInternalServerError, err.Error())

		return
	}

	s.metrics.RecordCompilation(name, "success", time.Since(start))
	s.metrics.AddPropertiesSkipped(countSkipped(&res.Diagnostics))

	// Cache only against the compiler the result came from; a reload
	// racing this request must not inherit a stale document.
	s.mu.Lock()
	if s.compiler == compiler {
		s.cache[name] = res.Mapping
	}
	s.mu.Unlock()

	c.Data(http.StatusOK, contentTypeJSON, res.Mapping)
}

func (s *Server) handleReload(c *gin.Context) {
	registry, diags, err := schema.LoadRegistry(s.cfg.Schema.FilePath)
	if err != nil {
		s.logger.Error().Err(err).Msg("reload failed")
		Error(c, http.StatusInternalServerError, err.Error())

		return
	}

	s.logDiagnostics(diags)
	s.swap(registry)

	s.logger.Info().Int("entities", registry.Len()).Msg("entity definitions reloaded")

	SuccessWithIssues(c, gin.H{"entities": registry.Len()}, diags)
}

func (s *Server) handleHealthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) logDiagnostics(diags *diagnostic.Diagnostics) {
	if diags == nil {
		return
	}

	for _, d := range diags.All() {
		var event *zerolog.Event

		switch d.Severity {
		case diagnostic.SeverityError:
			event = s.logger.Error()
		case diagnostic.SeverityWarning:
			event = s.logger.Warn()
		default:
			event = s.logger.Info()
		}

		event.
			Str("code", d.Code).
			Str("entity", d.Entity).
			Str("property", d.Property).
			Msg(d.Message)
	}
}

func countSkipped(diags *diagnostic.Diagnostics) int {
	n := 0

	for _, d := range diags.Warnings {
		if d.Code == "property_skipped" {
			n++
		}
	}

	return n
}
