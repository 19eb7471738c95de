package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lifelens/lifelens-insights/internal/models"
)

// Analyzer is the slice of the analysis service the handlers depend on.
type Analyzer interface {
	Perform(ctx context.Context, req models.AnalysisRequest) models.AnalysisResponse
}

// Handlers binds the analysis service to the HTTP routes.
type Handlers struct {
	logger  *slog.Logger
	service Analyzer
}

// NewHandlers constructs the handler set.
func NewHandlers(logger *slog.Logger, service Analyzer) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{logger: logger, service: service}
}

// Register attaches all routes to the gin engine.
func (h *Handlers) Register(router *gin.Engine) {
	router.GET("/healthz", h.health)
	v1 := router.Group("/api/v1")
	v1.POST("/analyze", h.analyze)
}

func (h *Handlers) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handlers) analyze(c *gin.Context) {
	var req models.AnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.UserID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
		return
	}
	if req.Message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message is required"})
		return
	}
	if req.Type != "" && !models.ValidAnalysisType(req.Type) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown analysis_type"})
		return
	}
	if req.Range != "" && !models.ValidDateRange(req.Range) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown date_range"})
		return
	}

	resp := h.service.Perform(c.Request.Context(), req)
	c.JSON(http.StatusOK, resp)
}
