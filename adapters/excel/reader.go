package excel

import (
	"context"
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"github.com/xuri/excelize/v2"

	"tally/domain/core"
	"tally/internal"
	"tally/internal/errors"
)

// timestampLayouts are tried in order; layouts without an offset are read in the configured location
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// DataReader reads counter events from CSV, Excel or JSON files
type DataReader struct {
	config   SourceConfig
	fileType string // "xlsx", "csv" or "json"
	logger   *internal.Logger
}

// NewDataReader creates a reader for config.FilePath; the file type follows the extension
func NewDataReader(config SourceConfig, logger *internal.Logger) *DataReader {
	if config.Location == nil {
		config.Location = time.Local
	}
	if config.SheetName == "" {
		config.SheetName = "Sheet1"
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}

	fileType := "xlsx"
	switch strings.ToLower(filepath.Ext(config.FilePath)) {
	case ".csv":
		fileType = "csv"
	case ".json":
		fileType = "json"
	}
	return &DataReader{config: config, fileType: fileType, logger: logger}
}

// ListEvents implements ports.EventSource. Rows whose counter column does not
// match counterID are skipped; a file without a counter column matches every counter.
func (r *DataReader) ListEvents(ctx context.Context, counterID core.CounterID) ([]core.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	table, err := r.ReadData()
	if err != nil {
		return nil, err
	}

	filter := !counterID.IsEmpty() && r.config.CounterColumn != "" && table.hasHeader(r.config.CounterColumn)

	events := make([]core.Event, 0, len(table.Rows))
	for i, row := range table.Rows {
		if filter && !strings.EqualFold(row[r.config.CounterColumn], counterID.String()) {
			continue
		}
		// row numbers are 1-based and skip the header
		event, err := r.parseRow(row, i+2)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}

	r.logger.Debug("[DataReader] %d events loaded from %s (counter=%q)", len(events), r.config.FilePath, counterID)
	return events, nil
}

// ReadData reads the file into raw rows
func (r *DataReader) ReadData() (*EventTable, error) {
	r.logger.Debug("[DataReader] Starting to read %s file: %s", r.fileType, r.config.FilePath)

	if _, err := os.Stat(r.config.FilePath); os.IsNotExist(err) {
		return nil, errors.NotFound(fmt.Sprintf("%s file %s", strings.ToUpper(r.fileType), r.config.FilePath))
	}

	switch r.fileType {
	case "csv":
		return r.readCSVData()
	case "json":
		return r.readJSONData()
	case "xlsx":
		return r.readExcelData()
	default:
		return nil, errors.InvalidInput(fmt.Sprintf("unsupported file type: %s", r.fileType))
	}
}

// readExcelData reads the configured sheet
func (r *DataReader) readExcelData() (*EventTable, error) {
	startTime := time.Now()
	f, err := excelize.OpenFile(r.config.FilePath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open Excel file")
	}
	defer f.Close()

	rows, err := f.GetRows(r.config.SheetName)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read sheet %s", r.config.SheetName)
	}
	r.logger.Debug("[DataReader] %s read in %.2fms (%d rows)",
		r.config.SheetName, float64(time.Since(startTime).Nanoseconds())/1e6, len(rows))

	return r.processRows(rows)
}

// readCSVData reads CSV data into raw rows
func (r *DataReader) readCSVData() (*EventTable, error) {
	file, err := os.Open(r.config.FilePath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open CSV file")
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	readStart := time.Now()
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.WithCode(errors.CodeValidationError, errors.Wrap(err, "failed to read CSV file"))
	}
	r.logger.Debug("[DataReader] CSV file read in %.2fms (%d rows)",
		float64(time.Since(readStart).Nanoseconds())/1e6, len(rows))

	return r.processRows(rows)
}

// readJSONData reads an array of event objects, optionally nested under DataPath
func (r *DataReader) readJSONData() (*EventTable, error) {
	raw, err := os.ReadFile(r.config.FilePath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read JSON file")
	}
	if !gjson.ValidBytes(raw) {
		return nil, errors.ValidationError(fmt.Sprintf("%s is not valid JSON", r.config.FilePath))
	}

	root := gjson.ParseBytes(raw)
	if r.config.DataPath != "" {
		root = root.Get(r.config.DataPath)
	}
	if !root.IsArray() {
		return nil, errors.ValidationError(fmt.Sprintf("expected an array of events in %s", r.config.FilePath))
	}

	fields := []string{r.config.TimestampColumn, r.config.ValueColumn}
	if r.config.CounterColumn != "" {
		fields = append(fields, r.config.CounterColumn)
	}

	table := &EventTable{Headers: fields}
	root.ForEach(func(_, item gjson.Result) bool {
		row := make(RawRowData, len(fields))
		for _, field := range fields {
			if value := item.Get(field); value.Exists() {
				row[field] = strings.TrimSpace(jsonScalar(value).String())
			}
		}
		table.Rows = append(table.Rows, row)
		return true
	})

	r.logger.Debug("[DataReader] JSON file processed (%d events)", len(table.Rows))
	return table, nil
}

// jsonScalar unwraps extended-JSON wrappers such as {"$oid": ...} and {"$date": ...}
func jsonScalar(value gjson.Result) gjson.Result {
	if !value.IsObject() {
		return value
	}
	fields := value.Map()
	for _, wrapper := range []string{"$oid", "$date", "$numberLong", "$numberInt"} {
		if inner, ok := fields[wrapper]; ok {
			return jsonScalar(inner)
		}
	}
	return value
}

// processRows converts raw string rows into an EventTable. A file with only a
// header, or nothing at all, is an empty table.
func (r *DataReader) processRows(rows [][]string) (*EventTable, error) {
	if len(rows) == 0 {
		return &EventTable{}, nil
	}

	headerRow := rows[0]
	headers := make([]string, len(headerRow))
	for i, header := range headerRow {
		headers[i] = strings.TrimSpace(header)
	}

	table := &EventTable{Headers: headers}
	for _, required := range []string{r.config.TimestampColumn, r.config.ValueColumn} {
		if !table.hasHeader(required) {
			return nil, errors.ValidationError(fmt.Sprintf("missing column %q in %s", required, r.config.FilePath))
		}
	}

	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if isBlank(row) {
			continue
		}
		rowData := make(RawRowData, len(headers))
		for j, cell := range row {
			if j < len(headers) {
				rowData[headers[j]] = strings.TrimSpace(cell)
			}
		}
		table.Rows = append(table.Rows, rowData)
	}

	r.logger.Debug("[DataReader] %s file processed (%d columns, %d rows)",
		strings.ToUpper(r.fileType), len(headers), len(table.Rows))
	return table, nil
}

func (r *DataReader) parseRow(row RawRowData, line int) (core.Event, error) {
	rawTime := row[r.config.TimestampColumn]
	occurredAt, err := ParseTimestamp(rawTime, r.config.Location)
	if err != nil {
		return core.Event{}, errors.Validationf(core.ErrInvalidTimestamp,
			"row %d: unparsable %s %q", line, r.config.TimestampColumn, rawTime)
	}

	value, err := parseValue(row[r.config.ValueColumn])
	if err != nil {
		return core.Event{}, errors.ValidationError(fmt.Sprintf("row %d: invalid %s %q",
			line, r.config.ValueColumn, row[r.config.ValueColumn]))
	}

	return core.Event{OccurredAt: occurredAt, Value: value}, nil
}

// ParseTimestamp accepts RFC3339 and a few common spreadsheet layouts
func ParseTimestamp(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// parseValue accepts integers and integral floats such as "3.0"
func parseValue(s string) (int64, error) {
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%q is not an integer", s)
	}
	if math.Abs(f) >= 1<<63 {
		return 0, fmt.Errorf("%q does not fit in 64 bits", s)
	}
	return int64(f), nil
}

func (t *EventTable) hasHeader(name string) bool {
	for _, h := range t.Headers {
		if h == name {
			return true
		}
	}
	return false
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
