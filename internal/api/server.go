package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v5"

	"github.com/samcharles93/codeprep/internal/logger"
	"github.com/samcharles93/codeprep/internal/prep"
	"github.com/samcharles93/codeprep/internal/render"
	"github.com/samcharles93/codeprep/internal/version"
)

// MaxSourceBytes bounds the source accepted by one request.
const MaxSourceBytes = 8 << 20

type Server struct {
	store    *ResultStore
	provider PreprocessorProvider
	log      logger.Logger
	clock    func() time.Time
}

func NewServer(store *ResultStore, provider PreprocessorProvider, log logger.Logger) *Server {
	if store == nil {
		store, _ = NewResultStore(0)
	}
	return &Server{
		store:    store,
		provider: provider,
		log:      logger.OrDiscard(log),
		clock:    time.Now,
	}
}

func (s *Server) Register(e *echo.Echo) {
	e.POST("/v1/preprocess", s.handlePreprocess)
	e.GET("/v1/preprocess/:id", s.handleGetResult)
	e.DELETE("/v1/preprocess/:id", s.handleDeleteResult)
	e.GET("/v1/config/:key", s.handleConfig)
	e.GET("/healthz", s.handleHealth)
}

func (s *Server) handlePreprocess(c *echo.Context) error {
	if s.provider == nil {
		return writeError(c, http.StatusInternalServerError, "server_error", "preprocessor not configured", "", "")
	}
	req, err := decodeJSON[PreprocessRequest](http.MaxBytesReader(c.Response(), c.Request().Body, MaxSourceBytes))
	if err != nil {
		return writeBadRequest(c, err.Error(), "")
	}

	lines := strings.Split(req.Source, "\n")
	var resp PreprocessResponse
	err = s.provider.WithPreprocessor(c.Request().Context(), req.Config, func(p *prep.Preprocessor) error {
		symbols, err := p.Preprocess(lines)
		if err != nil {
			return err
		}
		resp = PreprocessResponse{
			ID:        newResultID(),
			Object:    "preprocess",
			CreatedAt: s.clock().Unix(),
			Config:    p.Config().String(),
			Symbols:   symbols,
			Text:      render.Join(symbols),
			Usage: Usage{
				Lines:   len(lines),
				Symbols: len(symbols),
			},
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrInvalidRequest) {
			return writeBadRequest(c, err.Error(), "config")
		}
		s.log.Warn("preprocess failed", "error", err)
		return writeError(c, http.StatusUnprocessableEntity, "preprocess_error", err.Error(), "source", "")
	}

	if req.Store == nil || *req.Store {
		s.store.Put(resp)
	}
	s.log.Debug("preprocessed request", "id", resp.ID, "config", resp.Config, "symbols", resp.Usage.Symbols)
	return writeJSON(c, http.StatusOK, resp)
}

func (s *Server) handleGetResult(c *echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return writeNotFound(c, "result not found")
	}
	resp, ok := s.store.Get(id)
	if !ok {
		return writeNotFound(c, "result not found")
	}
	return writeJSON(c, http.StatusOK, resp)
}

func (s *Server) handleDeleteResult(c *echo.Context) error {
	id := c.Param("id")
	if id == "" || !s.store.Delete(id) {
		return writeNotFound(c, "result not found")
	}
	return writeJSON(c, http.StatusOK, DeleteResponse{
		ID:      id,
		Object:  "preprocess",
		Deleted: true,
	})
}

// handleConfig explains a config key without loading any resources.
func (s *Server) handleConfig(c *echo.Context) error {
	cfg, err := prep.ParseConfig(c.Param("key"))
	if err != nil {
		var cerr *prep.ConfigError
		param := "key"
		if errors.As(err, &cerr) && cerr.Axis != "" {
			param = cerr.Axis
		}
		return writeBadRequest(c, err.Error(), param)
	}
	passes := cfg.PassNames()
	if passes == nil {
		passes = []string{}
	}
	return writeJSON(c, http.StatusOK, ConfigResponse{
		Object:   "config",
		Key:      cfg.String(),
		Settings: cfg.Describe(),
		Passes:   passes,
	})
}

func (s *Server) handleHealth(c *echo.Context) error {
	return writeJSON(c, http.StatusOK, map[string]any{"status": "ok", "stored": s.store.Len(), "version": version.Resolve()})
}
