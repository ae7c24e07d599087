package http

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/skyplan/internal/domain/astro"
	"github.com/yanqian/skyplan/internal/domain/catalog"
	"github.com/yanqian/skyplan/internal/domain/observer"
)

const maxImportBytes = 8 << 20

type listTargetsQuery struct {
	Types        []string `form:"type"`
	MinMagnitude *float64 `form:"minMagnitude"`
	MaxMagnitude *float64 `form:"maxMagnitude"`
	Limit        int      `form:"limit"`
}

type nearTargetsQuery struct {
	RA     string  `form:"ra" binding:"required"`
	Dec    string  `form:"dec" binding:"required"`
	Radius float64 `form:"radius"`
	Limit  int     `form:"limit"`
}

// ListTargets returns catalog entries matching the query filters.
func (h *Handler) ListTargets(c *gin.Context) {
	var q listTargetsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	filter := catalog.Filter{
		Types:        splitValues(q.Types),
		MinMagnitude: q.MinMagnitude,
		MaxMagnitude: q.MaxMagnitude,
		Limit:        q.Limit,
	}
	targets, err := h.catalogSvc.List(c.Request.Context(), filter)
	if err != nil {
		abortWithError(c, fromServiceError(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": targets})
}

// NearTargets runs a cone search around a sky position.
func (h *Handler) NearTargets(c *gin.Context) {
	var q nearTargetsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "ra and dec are required", err))
		return
	}
	ra, ok := astro.ParseRA(q.RA)
	if !ok {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "ra must be decimal hours or sexagesimal", nil))
		return
	}
	dec, ok := astro.ParseDec(q.Dec)
	if !ok {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "dec must be decimal degrees or sexagesimal", nil))
		return
	}
	radius := q.Radius
	if radius == 0 {
		radius = 5
	}
	matches, err := h.catalogSvc.Near(c.Request.Context(), ra, dec, radius, q.Limit)
	if err != nil {
		abortWithError(c, fromServiceError(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": matches})
}

// GetTarget returns a single catalog entry.
func (h *Handler) GetTarget(c *gin.Context) {
	target, err := h.catalogSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, fromServiceError(err))
		return
	}
	c.JSON(http.StatusOK, target)
}

// ImportTargets ingests a catalog document sent as a multipart "file" field
// or as the raw request body. Documents over maxImportBytes are rejected whole.
func (h *Handler) ImportTargets(c *gin.Context) {
	body, closeBody, err := importBody(c)
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "catalog document is required", err))
		return
	}
	defer closeBody()
	doc, err := io.ReadAll(io.LimitReader(body, maxImportBytes+1))
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "failed to read catalog document", err))
		return
	}
	if len(doc) > maxImportBytes {
		abortWithError(c, NewHTTPError(http.StatusRequestEntityTooLarge, "payload_too_large",
			fmt.Sprintf("catalog document exceeds %d bytes", maxImportBytes), nil))
		return
	}
	result, err := h.catalogSvc.Import(c.Request.Context(), bytes.NewReader(doc))
	if err != nil {
		abortWithError(c, fromServiceError(err))
		return
	}
	c.JSON(http.StatusOK, result)
}

func importBody(c *gin.Context) (io.Reader, func(), error) {
	mediaType, _, _ := mime.ParseMediaType(c.GetHeader("Content-Type"))
	if mediaType != "multipart/form-data" {
		return c.Request.Body, func() {}, nil
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return nil, nil, err
	}
	file, err := fileHeader.Open()
	if err != nil {
		return nil, nil, err
	}
	return file, func() { _ = file.Close() }, nil
}

// ListObservers returns the saved observing sites.
func (h *Handler) ListObservers(c *gin.Context) {
	locs, err := h.observerSvc.List(c.Request.Context())
	if err != nil {
		abortWithError(c, fromServiceError(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": locs})
}

// SaveObserver creates or replaces a saved observing site.
func (h *Handler) SaveObserver(c *gin.Context) {
	var loc observer.Location
	if !bindJSON(c, &loc) {
		return
	}
	saved, err := h.observerSvc.Save(c.Request.Context(), loc)
	if err != nil {
		abortWithError(c, fromServiceError(err))
		return
	}
	c.JSON(http.StatusOK, saved)
}

// splitValues accepts both repeated and comma separated query values.
func splitValues(raw []string) []string {
	var out []string
	for _, v := range raw {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
