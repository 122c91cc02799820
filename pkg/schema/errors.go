package schema

import (
	"fmt"
	"strings"
)

// EmptyInputError reports a spreadsheet with no header row or no data rows.
type EmptyInputError struct {
	Reason string
}

func (e *EmptyInputError) Error() string {
	if e.Reason == "" {
		return "empty input"
	}
	return "empty input: " + e.Reason
}

// MissingColumnsError reports expected columns that no header mapped onto.
type MissingColumnsError struct {
	Missing []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("missing required columns: %s", strings.Join(e.Missing, ", "))
}

// WarningKind names the category of a non-fatal issue.
type WarningKind string

const (
	WarningDateParse            WarningKind = "date_parse"
	WarningAggregationIntegrity WarningKind = "aggregation_integrity"
	WarningRowShape             WarningKind = "row_shape"
	WarningNoPending            WarningKind = "no_pending"
)

// Warning is a recovered problem. Rows are 1-indexed with the header on row 1.
type Warning struct {
	Kind    WarningKind `json:"kind"`
	Row     int         `json:"row,omitempty"`
	Field   string      `json:"field,omitempty"`
	Value   string      `json:"value,omitempty"`
	Message string      `json:"message"`
}

func (w Warning) String() string {
	if w.Row > 0 {
		return fmt.Sprintf("row %d: %s", w.Row, w.Message)
	}
	return w.Message
}
