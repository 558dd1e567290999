package ui

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"healthdash/domain/survey"
	apperrors "healthdash/internal/errors"
)

const exportSheet = "Sheet1"

// handleExport streams the current subset as a downloadable file. Concurrent
// exports are bounded; callers over the bound get EXPORT_BUSY instead of
// queueing.
func (s *Server) handleExport(c *gin.Context) {
	format := c.DefaultQuery("format", "xlsx")
	if format != "xlsx" && format != "csv" {
		s.respondError(c, apperrors.InvalidInput(fmt.Sprintf("unsupported export format %q", format)))
		return
	}

	var req survey.SelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		s.respondError(c, apperrors.InvalidInput("malformed selection request: "+err.Error()))
		return
	}

	if !s.exportSem.TryAcquire(1) {
		s.respondError(c, apperrors.ExportBusy())
		return
	}
	defer s.exportSem.Release(1)

	startTime := time.Now()
	_, records := s.explorer.SubsetRecords(req)

	if len(records) > s.exportRowLimit {
		s.respondError(c, apperrors.ValidationError(fmt.Sprintf(
			"subset has %d records, export limit is %d", len(records), s.exportRowLimit)))
		return
	}

	columns := s.explorer.Dataset().Columns
	filename := "survey_subset_" + time.Now().Format("20060102_150405") + "." + format

	var err error
	switch format {
	case "csv":
		c.Header("Content-Type", "text/csv; charset=utf-8")
		c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
		c.Status(http.StatusOK)
		err = writeCSV(c.Writer, columns, records)
	case "xlsx":
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
		c.Status(http.StatusOK)
		err = writeXLSX(c.Writer, columns, records)
	}
	if err != nil {
		s.logger.Error("Export failed after headers sent: %v", err)
		return
	}

	s.logger.Info("Exported %d records as %s in %dms",
		len(records), format, time.Since(startTime).Milliseconds())
}

func writeCSV(w io.Writer, columns []string, records []survey.Record) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(columns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	row := make([]string, len(columns))
	for i := range records {
		for j, col := range columns {
			row[j] = recordValue(&records[i], col)
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func writeXLSX(w io.Writer, columns []string, records []survey.Record) error {
	f := excelize.NewFile()
	defer f.Close()

	header := make([]interface{}, len(columns))
	for i, col := range columns {
		header[i] = col
	}
	if err := f.SetSheetRow(exportSheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i := range records {
		row := make([]interface{}, len(columns))
		for j, col := range columns {
			row[j] = recordValue(&records[i], col)
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// recordValue renders one cell for export: typed fields by their column name,
// everything else from the passthrough map. Null numerics render empty.
func recordValue(r *survey.Record, col string) string {
	switch col {
	case survey.ColGender:
		return r.Gender
	case survey.ColAge:
		return formatFloat(r.Age)
	case survey.ColHeight:
		return formatFloat(r.Height)
	case survey.ColWeight:
		return formatFloat(r.Weight)
	case survey.ColFAVC:
		return r.FAVC
	case survey.ColCALC:
		return r.CALC
	case survey.ColFamilyHistory:
		return r.FamilyHistory
	case survey.ColFAF:
		return r.FAFRaw
	case survey.ColNObeyesdad:
		return r.NObeyesdad
	case survey.ColBMI:
		return formatFloat(r.BMI)
	case survey.ColAgeBand:
		return r.AgeBand
	case survey.ColObesityGroup:
		return r.ObesityGroup
	case survey.ColFAFNumeric:
		return formatFloat(r.FAFNumeric)
	default:
		return r.Extra[col]
	}
}

func formatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
