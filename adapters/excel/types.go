package excel

// RawRowData is one source row keyed by header name
type RawRowData map[string]string

// EventTable holds the raw rows of an event file before parsing
type EventTable struct {
	Headers []string
	Rows    []RawRowData
}
