package excel

import "time"

// SourceConfig describes where events live inside a file
type SourceConfig struct {
	FilePath        string         `json:"file_path"`
	SheetName       string         `json:"sheet_name"`       // xlsx only
	DataPath        string         `json:"data_path"`        // json only, gjson path to the event array; empty means the root
	TimestampColumn string         `json:"timestamp_column"` // column or field holding the event time
	ValueColumn     string         `json:"value_column"`     // column or field holding the signed delta
	CounterColumn   string         `json:"counter_column"`   // optional, used to filter by counter
	Location        *time.Location `json:"-"`                // zone for timestamps without an offset
}

// DefaultSourceConfig matches the export layout of the counter app:
// createdAt, number and counterRef.
func DefaultSourceConfig(filePath string) SourceConfig {
	return SourceConfig{
		FilePath:        filePath,
		SheetName:       "Sheet1",
		TimestampColumn: "createdAt",
		ValueColumn:     "number",
		CounterColumn:   "counterRef",
		Location:        time.Local,
	}
}
