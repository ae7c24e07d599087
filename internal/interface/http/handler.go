package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/skyplan/internal/domain/catalog"
	"github.com/yanqian/skyplan/internal/domain/observer"
	"github.com/yanqian/skyplan/internal/domain/planner"
	"github.com/yanqian/skyplan/internal/domain/recommend"
)

// Handler wires the HTTP transport to domain services.
type Handler struct {
	plannerSvc   planner.Service
	recommendSvc recommend.Service
	catalogSvc   catalog.Service
	observerSvc  observer.Service
	logger       *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(plannerSvc planner.Service, recommendSvc recommend.Service, catalogSvc catalog.Service, observerSvc observer.Service, logger *slog.Logger) *Handler {
	return &Handler{
		plannerSvc:   plannerSvc,
		recommendSvc: recommendSvc,
		catalogSvc:   catalogSvc,
		observerSvc:  observerSvc,
		logger:       logger.With("component", "http.handler"),
	}
}

// Position returns a target's altitude and azimuth at an instant.
func (h *Handler) Position(c *gin.Context) {
	var req planner.PositionRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.plannerSvc.Position(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, fromServiceError(err))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Window returns tonight's visibility window for a target.
func (h *Handler) Window(c *gin.Context) {
	var req planner.WindowRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.plannerSvc.Window(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, fromServiceError(err))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Series returns the altitude chart samples across tonight.
func (h *Handler) Series(c *gin.Context) {
	var req planner.SeriesRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.plannerSvc.Series(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, fromServiceError(err))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Moon returns the Moon's phase, illumination and position.
func (h *Handler) Moon(c *gin.Context) {
	var req planner.SkyRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.plannerSvc.Moon(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, fromServiceError(err))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Sun returns sunset, sunrise and twilight times for the night.
func (h *Handler) Sun(c *gin.Context) {
	var req planner.SkyRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.plannerSvc.Sun(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, fromServiceError(err))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Recommend ranks catalog targets for an observer tonight.
func (h *Handler) Recommend(c *gin.Context) {
	var req recommend.Request
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.recommendSvc.Recommend(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, fromServiceError(err))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Recommenders lists the registered recommendation strategies.
func (h *Handler) Recommenders(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"recommenders": h.recommendSvc.Recommenders()})
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return false
	}
	return true
}
