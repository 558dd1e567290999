// Package tabular reads the survey source file (CSV or XLSX) into the raw
// table form the Deriver consumes.
package tabular

import (
	"encoding/csv"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"healthdash/domain/core"
	"healthdash/domain/survey"
	"healthdash/internal/errors"
)

// Reader handles reading CSV and XLSX survey files.
type Reader struct {
	filePath string
	fileType string // "xlsx" or "csv"
}

// NewReader creates a reader for the given path, picking the format from the
// file extension. Anything that is not .csv is treated as a workbook.
func NewReader(filePath string) *Reader {
	ext := strings.ToLower(filepath.Ext(filePath))
	fileType := "xlsx"
	if ext == ".csv" {
		fileType = "csv"
	}
	return &Reader{filePath: filePath, fileType: fileType}
}

// Read loads the file into a validated raw table. Header names and cells are
// whitespace-trimmed; a file missing required columns fails here, once, with
// the columns named. A file with a header row but no data rows is fine.
func (r *Reader) Read() (*survey.Table, error) {
	log.Printf("[Loader] Reading %s file: %s", r.fileType, r.filePath)

	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, errors.Newf(errors.CodeNotFound, "data file not found: %s", r.filePath)
	}

	var (
		rows [][]string
		err  error
	)
	switch r.fileType {
	case "csv":
		rows, err = r.readCSVRows()
	default:
		rows, err = r.readWorkbookRows()
	}
	if err != nil {
		return nil, err
	}

	if len(rows) == 0 {
		return nil, errors.ValidationError("data file has no header row")
	}

	table := processRows(rows)
	if err := table.ValidateColumns(); err != nil {
		return nil, err
	}

	log.Printf("[Loader] %s file processed (%d columns, %d rows)",
		strings.ToUpper(r.fileType), len(table.Headers), len(table.Rows))
	return table, nil
}

func (r *Reader) readCSVRows() ([][]string, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, errors.ParseError("failed to open CSV file", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // ragged rows tolerated; cells map by header
	readStart := time.Now()
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.ParseError("failed to read CSV file", err)
	}
	log.Printf("[Loader] CSV file read in %.2fms (%d rows)",
		float64(time.Since(readStart).Nanoseconds())/1e6, len(rows))
	return rows, nil
}

func (r *Reader) readWorkbookRows() ([][]string, error) {
	openStart := time.Now()
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, errors.ParseError("failed to open workbook", err)
	}
	defer f.Close()
	log.Printf("[Loader] Workbook opened in %.2fms",
		float64(time.Since(openStart).Nanoseconds())/1e6)

	// First sheet, whatever it is named.
	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, errors.ValidationError("workbook has no sheets")
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.ParseError("failed to read sheet "+sheet, err)
	}
	return rows, nil
}

// processRows converts raw string rows into the table form, trimming headers
// and cells the same way.
func processRows(rows [][]string) *survey.Table {
	headerRow := rows[0]
	headers := make([]string, len(headerRow))
	for i, header := range headerRow {
		headers[i] = strings.TrimSpace(header)
	}

	table := &survey.Table{Headers: headers}
	for i := 1; i < len(rows); i++ {
		rowData := make(survey.Row, len(headers))
		for j, cell := range rows[i] {
			if j < len(headers) {
				rowData[headers[j]] = strings.TrimSpace(cell)
			}
		}
		table.Rows = append(table.Rows, rowData)
	}
	return table
}

// FileChecksum returns the SHA-256 of the source file, recorded with each
// catalog load so re-loads of identical data are recognizable.
func FileChecksum(path string) (core.Hash, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", errors.ParseError("failed to open file for checksum", err)
	}
	defer file.Close()

	sum, err := core.HashReader(file)
	if err != nil {
		return "", errors.ParseError("failed to checksum file", err)
	}
	return sum, nil
}
