package excel

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"pricecharts/domain/core"
	"pricecharts/domain/dataset"
	"pricecharts/internal"
	"pricecharts/internal/errors"
)

// DataReader handles reading Excel and CSV files
type DataReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
	logger   *internal.Logger
}

// NewDataReader creates a data reader; the file type follows the extension and
// anything that is not .xlsx/.xlsm is read as CSV.
func NewDataReader(filePath string, logger *internal.Logger) *DataReader {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	fileType := "csv"
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".xlsx", ".xlsm":
		fileType = "xlsx"
	}
	return &DataReader{filePath: filePath, fileType: fileType, logger: logger}
}

// ReadData reads the file into a header row and data rows
func (r *DataReader) ReadData() (*RawTable, error) {
	r.logger.Debug("[DataReader] Starting to read %s file: %s", r.fileType, r.filePath)

	info, err := os.Stat(r.filePath)
	if os.IsNotExist(err) {
		return nil, errors.WithCode(errors.CodeNotFound, fmt.Errorf("%w: %s", core.ErrInputNotFound, r.filePath))
	}
	if err != nil {
		return nil, errors.WithCode(errors.CodeInvalidInput, fmt.Errorf("cannot stat %s: %w", r.filePath, err))
	}
	if info.IsDir() {
		return nil, errors.InvalidInput(fmt.Sprintf("%s is a directory", r.filePath))
	}

	switch r.fileType {
	case "xlsx":
		return r.readExcelData()
	default:
		return r.readCSVData()
	}
}

// Load reads the file and builds a string-typed dataset from it
func (r *DataReader) Load() (*dataset.Dataset, error) {
	table, err := r.ReadData()
	if err != nil {
		return nil, err
	}
	ds, err := dataset.New(r.filePath, table.Headers, table.Rows)
	if err != nil {
		return nil, errors.WithCode(errors.CodeInvalidInput, err)
	}
	return ds, nil
}

// readExcelData reads the first sheet of a workbook
func (r *DataReader) readExcelData() (*RawTable, error) {
	startTime := time.Now()
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, errors.WithCode(errors.CodeInvalidInput, fmt.Errorf("failed to open Excel file: %w", err))
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.InvalidInput(fmt.Sprintf("%s has no sheets", r.filePath))
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, errors.WithCode(errors.CodeInvalidInput, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err))
	}
	r.logger.Debug("[DataReader] Sheet %s read in %.2fms (%d rows)",
		sheets[0], float64(time.Since(startTime).Nanoseconds())/1e6, len(rows))

	return r.processRows(rows)
}

// readCSVData reads CSV data; rows may have differing lengths
func (r *DataReader) readCSVData() (*RawTable, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, errors.WithCode(errors.CodeInvalidInput, fmt.Errorf("failed to open CSV file: %w", err))
	}
	defer file.Close()

	readStart := time.Now()
	rows, err := ReadCSV(file)
	if err != nil {
		return nil, errors.WithCode(errors.CodeInvalidInput, fmt.Errorf("failed to read CSV file %s: %w", r.filePath, err))
	}
	r.logger.Debug("[DataReader] CSV file read in %.2fms (%d rows)",
		float64(time.Since(readStart).Nanoseconds())/1e6, len(rows))

	return r.processRows(rows)
}

// ReadCSV reads every record from a CSV stream, tolerating ragged rows and stray quotes
func ReadCSV(in io.Reader) ([][]string, error) {
	reader := csv.NewReader(in)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	return reader.ReadAll()
}

// processRows splits the header row from the data rows
func (r *DataReader) processRows(rows [][]string) (*RawTable, error) {
	if len(rows) == 0 {
		return nil, errors.InvalidInput(fmt.Sprintf("%s is empty: a header row is required", r.filePath))
	}

	headers := make([]string, len(rows[0]))
	for i, header := range rows[0] {
		headers[i] = strings.TrimSpace(header)
	}

	dataRows := make([][]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		// Only rows with no cells at all are skipped; ",," is a row of missing values
		if len(row) == 0 {
			continue
		}
		dataRows = append(dataRows, row)
	}

	r.logger.Debug("[DataReader] %s file processed (%d columns, %d rows)",
		strings.ToUpper(r.fileType), len(headers), len(dataRows))

	return &RawTable{
		Headers: headers,
		Rows:    dataRows,
	}, nil
}
