package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/TermDeck/backend/internal/domain/terminal"
	"github.com/GriffinCanCode/TermDeck/backend/internal/infrastructure/logging"
	"github.com/GriffinCanCode/TermDeck/backend/internal/shared/id"
)

// Handlers contains all HTTP handlers.
type Handlers struct {
	registry *terminal.Registry
	logger   *logging.Logger
}

// NewHandlers creates a new handler set.
func NewHandlers(registry *terminal.Registry, logger *logging.Logger) *Handlers {
	return &Handlers{
		registry: registry,
		logger:   logger,
	}
}

// Root handles basic service identification.
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "TermDeck Backend",
		"version": "0.3.0",
	})
}

// Health handles detailed health check.
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"sessions": h.registry.Count(),
	})
}

type spawnRequest struct {
	SessionID string            `json:"session_id"`
	Cwd       string            `json:"cwd"`
	Env       map[string]string `json:"env"`
}

// SpawnSession creates a new terminal session. The session identifier
// is supplied by the UI; one is generated when omitted.
func (h *Handlers) SpawnSession(c *gin.Context) {
	var req spawnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = id.NewSessionID().String()
	}

	if err := h.registry.Spawn(sessionID, req.Cwd, req.Env); err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"session_id": sessionID})
}

type inputRequest struct {
	Data string `json:"data"`
}

// WriteSession sends input bytes to a session.
func (h *Handlers) WriteSession(c *gin.Context) {
	sessionID := c.Param("id")

	var req inputRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.registry.Write(sessionID, []byte(req.Data)); err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"session_id": sessionID})
}

type resizeRequest struct {
	Cols uint16 `json:"cols" binding:"required"`
	Rows uint16 `json:"rows" binding:"required"`
}

// ResizeSession changes a session's character-cell geometry.
func (h *Handlers) ResizeSession(c *gin.Context) {
	sessionID := c.Param("id")

	var req resizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.registry.Resize(sessionID, req.Cols, req.Rows); err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"session_id": sessionID})
}

// CloseSession closes a session and removes it from the registry.
func (h *Handlers) CloseSession(c *gin.Context) {
	sessionID := c.Param("id")

	if err := h.registry.Close(sessionID); err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"session_id": sessionID})
}

// ListSessions returns all live session identifiers.
func (h *Handlers) ListSessions(c *gin.Context) {
	ids := h.registry.List()
	c.JSON(http.StatusOK, gin.H{
		"sessions": ids,
		"count":    len(ids),
	})
}

// GetSession reports whether a session exists.
func (h *Handlers) GetSession(c *gin.Context) {
	sessionID := c.Param("id")
	c.JSON(http.StatusOK, gin.H{
		"session_id": sessionID,
		"exists":     h.registry.Has(sessionID),
	})
}

// statusFor maps registry errors to HTTP statuses. Everything crossing
// this boundary is flattened to a string; no structured codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, terminal.ErrDuplicateSession):
		return http.StatusConflict
	case errors.Is(err, terminal.ErrSessionNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
