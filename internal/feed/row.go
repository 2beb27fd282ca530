package feed

import "strings"

// Row is one catalog line keyed by header name. Columns keeps the header
// order so callers that scan several columns (images) see them in feed order.
type Row struct {
	Line    int
	Columns []string
	values  map[string]string
}

// NewRow builds a row from a header and the matching record. Missing trailing
// fields become empty strings.
func NewRow(line int, header, record []string) Row {
	values := make(map[string]string, len(header))
	for i, h := range header {
		if i < len(record) {
			values[h] = record[i]
		} else {
			values[h] = ""
		}
	}
	cols := make([]string, len(header))
	copy(cols, header)
	return Row{Line: line, Columns: cols, values: values}
}

// Value returns the raw value of a column or "".
func (r Row) Value(column string) string {
	return r.values[column]
}

// First returns the first non-blank value among the given columns.
func (r Row) First(columns ...string) string {
	for _, c := range columns {
		if v := r.values[c]; strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
