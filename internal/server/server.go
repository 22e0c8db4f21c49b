// Package server exposes the extractor and rewriter over a small JSON API.
package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/petasbytes/persona-engine/internal/apperr"
	"github.com/petasbytes/persona-engine/internal/persona"
	"github.com/petasbytes/persona-engine/internal/runner"
	"github.com/petasbytes/persona-engine/internal/session"
	"github.com/petasbytes/persona-engine/memory"
)

// APIKeyHeader carries a per-request credential that wins over the server default.
const APIKeyHeader = "X-API-Key"

type ExtractRequest struct {
	Transcript string `json:"transcript"`
}

type RewriteRequest struct {
	Text    string          `json:"text"`
	Persona string          `json:"persona"`
	Profile json.RawMessage `json:"profile,omitempty"`
}

type RewriteResponse struct {
	Persona   string `json:"persona"`
	Original  string `json:"original"`
	Rewritten string `json:"rewritten"`
}

type Server struct {
	echo       *echo.Echo
	logger     *log.Logger
	defaultKey string
	opts       []runner.Option

	mu       sync.RWMutex
	sessions map[string]*session.Session
}

func NewServer(defaultKey string, logger *log.Logger, opts ...runner.Option) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		echo:       e,
		logger:     logger,
		defaultKey: defaultKey,
		opts:       opts,
		sessions:   make(map[string]*session.Session),
	}

	e.Use(middleware.Recover(), middleware.CORS())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logger.Info("request", "method", v.Method, "uri", v.URI, "status", v.Status, "latency", v.Latency)
			return nil
		},
	}))

	s.setupRoutes()
	return s
}

func (s *Server) Start(addr string) error {
	s.logger.Info("listening", "addr", addr)
	return s.echo.Start(addr)
}

// ServeHTTP lets the server be mounted or tested without a listener.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	api := s.echo.Group("/api")
	api.GET("/personas", s.listPersonas)
	api.POST("/sessions", s.createSession)
	api.DELETE("/sessions/:sessionId", s.deleteSession)
	api.GET("/sessions/:sessionId/profile", s.getProfile)
	api.POST("/sessions/:sessionId/extract", s.extract)
	api.POST("/sessions/:sessionId/rewrite", s.rewrite)
}

func (s *Server) listPersonas(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{"personas": persona.Presets()})
}

func (s *Server) createSession(c echo.Context) error {
	sess := session.New(s.logger, s.opts...)
	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	return c.JSON(http.StatusCreated, map[string]string{"session_id": sess.ID})
}

// deleteSession ends a session; its profile goes with it.
func (s *Server) deleteSession(c echo.Context) error {
	id := c.Param("sessionId")
	s.mu.Lock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, fmt.Sprintf("session %q not found", id))
	}
	s.logger.Info("session ended", "session_id", id)
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) getProfile(c echo.Context) error {
	sess, err := s.lookup(c)
	if err != nil {
		return err
	}
	p, ok := sess.Profile()
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "no profile extracted yet")
	}
	return c.JSON(http.StatusOK, p)
}

func (s *Server) extract(c echo.Context) error {
	sess, err := s.lookup(c)
	if err != nil {
		return err
	}
	req := new(ExtractRequest)
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	p, err := sess.Analyze(c.Request().Context(), s.credential(c), req.Transcript)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, p)
}

func (s *Server) rewrite(c echo.Context) error {
	sess, err := s.lookup(c)
	if err != nil {
		return err
	}
	req := new(RewriteRequest)
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	label, err := persona.Resolve(req.Persona)
	if err != nil {
		return httpError(err)
	}

	ctx := c.Request().Context()
	var out string
	if hasProfile(req.Profile) {
		override, err := memory.DecodeProfile(req.Profile)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		out, err = sess.TransformWith(ctx, s.credential(c), req.Text, label, override)
		if err != nil {
			return httpError(err)
		}
	} else {
		out, err = sess.Transform(ctx, s.credential(c), req.Text, label)
		if err != nil {
			return httpError(err)
		}
	}

	return c.JSON(http.StatusOK, RewriteResponse{
		Persona:   label,
		Original:  req.Text,
		Rewritten: out,
	})
}

func (s *Server) lookup(c echo.Context) (*session.Session, error) {
	id := c.Param("sessionId")
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, echo.NewHTTPError(http.StatusNotFound, fmt.Sprintf("session %q not found", id))
	}
	return sess, nil
}

func (s *Server) credential(c echo.Context) string {
	if v := strings.TrimSpace(c.Request().Header.Get(APIKeyHeader)); v != "" {
		return v
	}
	return s.defaultKey
}

func hasProfile(raw json.RawMessage) bool {
	t := strings.TrimSpace(string(raw))
	return t != "" && t != "null"
}

// httpError maps engine error kinds onto status codes.
func httpError(err error) error {
	code := http.StatusInternalServerError
	switch apperr.KindOf(err) {
	case apperr.Validation:
		code = http.StatusBadRequest
	case apperr.Initialization:
		code = http.StatusUnauthorized
	case apperr.Extraction, apperr.Rewrite:
		code = http.StatusBadGateway
	}
	return echo.NewHTTPError(code, err.Error())
}
