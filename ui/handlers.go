package ui

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"healthdash/domain/survey"
	apperrors "healthdash/internal/errors"
)

// respondError maps an application error to its HTTP status and the standard
// error body the UI expects.
func (s *Server) respondError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		s.logger.Error("Unhandled error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "internal error",
			"code":  apperrors.CodeInternalError,
		})
		return
	}

	status := http.StatusInternalServerError
	switch appErr.Code {
	case apperrors.CodeInvalidInput, apperrors.CodeValidationError, apperrors.CodeParseError:
		status = http.StatusBadRequest
	case apperrors.CodeNotFound:
		status = http.StatusNotFound
	case apperrors.CodeCatalogDisabled, apperrors.CodeExportBusy:
		status = http.StatusServiceUnavailable
	}

	if status == http.StatusInternalServerError {
		s.logger.Error("Request failed: %v", appErr)
	}

	c.JSON(status, gin.H{
		"error": appErr.Message,
		"code":  appErr.Code,
	})
}

// handleDataset returns the load metadata and shape of the active dataset.
func (s *Server) handleDataset(c *gin.Context) {
	ds := s.explorer.Dataset()
	c.JSON(http.StatusOK, gin.H{
		"info":         s.explorer.Info(),
		"columns":      ds.Columns,
		"recordCount":  ds.Len(),
		"hasRawBMI":    ds.HasRawBMI,
		"nullFAFCount": ds.NullFAFCount(),
	})
}

// handleFilterOptions returns the value sets the filter controls offer.
func (s *Server) handleFilterOptions(c *gin.Context) {
	c.JSON(http.StatusOK, s.explorer.Options())
}

// handleExplore is the core interaction: a selection request in, the filtered
// subset's aggregates out.
func (s *Server) handleExplore(c *gin.Context) {
	var req survey.SelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, apperrors.InvalidInput("malformed selection request: "+err.Error()))
		return
	}

	result := s.explorer.Explore(c.Request.Context(), req)
	s.logger.Debug("Explore: %d of %d records in %dms",
		result.RecordCount, s.explorer.Dataset().Len(), result.RuntimeMs)

	c.JSON(http.StatusOK, result)
}

// handleRecords returns one page of the records matching a selection request.
func (s *Server) handleRecords(c *gin.Context) {
	var req survey.SelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, apperrors.InvalidInput("malformed selection request: "+err.Error()))
		return
	}

	limit := queryInt(c, "limit", 0)
	offset := queryInt(c, "offset", 0)

	page := s.explorer.Records(c.Request.Context(), req, limit, offset)
	c.JSON(http.StatusOK, page)
}

// handleCatalogLoads returns the recent dataset load history.
func (s *Server) handleCatalogLoads(c *gin.Context) {
	if s.catalog == nil {
		s.respondError(c, apperrors.CatalogDisabled())
		return
	}

	limit := queryInt(c, "limit", 20)
	loads, err := s.catalog.ListRecent(c.Request.Context(), limit)
	if err != nil {
		s.respondError(c, apperrors.WithCode(apperrors.CodeDatabaseError, err))
		return
	}
	if loads == nil {
		loads = []survey.LoadInfo{}
	}

	c.JSON(http.StatusOK, gin.H{
		"loads": loads,
		"count": len(loads),
	})
}

func queryInt(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
