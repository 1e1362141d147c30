// Package viz chooses a chart archetype for a tabular result set. The
// selector inspects only column count and lightweight name/type signals,
// never individual values beyond numeric classification, so selection is
// cheap and deterministic.
package viz

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sqlcanvas/sqlcanvas/pkg/errors"
)

// ChartType is the chosen chart archetype.
type ChartType string

const (
	ChartTable   ChartType = "table"
	ChartBar     ChartType = "bar"
	ChartLine    ChartType = "line"
	ChartPie     ChartType = "pie"
	ChartScatter ChartType = "scatter"
)

// Spec is a renderable chart description: the chart kind, the columns bound
// to each visual role, and a one-line caption. Only the table fallback
// carries the full row payload.
type Spec struct {
	Type        ChartType `json:"type"`
	Description string    `json:"description"`

	XColumn      string `json:"x_column,omitempty"`
	YColumn      string `json:"y_column,omitempty"`
	LabelsColumn string `json:"labels_column,omitempty"`
	ValuesColumn string `json:"values_column,omitempty"`

	Columns []string                 `json:"columns,omitempty"`
	Rows    []map[string]interface{} `json:"rows,omitempty"`
}

// Select picks the chart archetype for a result set. The heuristic is
// evaluated in a fixed priority order and the first match wins; given the
// same column names, inferred types and row count it always returns the
// same spec. Empty input is an error, never a crash.
func Select(columns []string, rows []map[string]interface{}, queryType string) (*Spec, error) {
	if len(columns) == 0 {
		return nil, errors.New(ErrNotTabular, "result set has no columns", nil)
	}
	if len(rows) == 0 {
		return nil, errors.New(ErrEmptyDataset, "empty dataset", nil)
	}

	numeric, categorical := classifyColumns(columns, rows)

	if len(columns) == 2 && len(numeric) == 1 && len(categorical) == 1 {
		return &Spec{
			Type:        ChartBar,
			XColumn:     categorical[0],
			YColumn:     numeric[0],
			Description: fmt.Sprintf("Bar chart showing %s distribution across %s", numeric[0], categorical[0]),
		}, nil
	}

	if len(columns) == 2 && len(numeric) == 2 {
		return &Spec{
			Type:        ChartScatter,
			XColumn:     numeric[0],
			YColumn:     numeric[1],
			Description: fmt.Sprintf("Scatter plot showing relationship between %s and %s", numeric[0], numeric[1]),
		}, nil
	}

	if len(categorical) == 1 {
		if values := firstMatching(columns, "count"); values != "" {
			return &Spec{
				Type:         ChartPie,
				LabelsColumn: categorical[0],
				ValuesColumn: values,
				Description:  fmt.Sprintf("Pie chart showing distribution of %s across %s", values, categorical[0]),
			}, nil
		}
	}

	if len(numeric) >= 1 {
		if x := firstMatching(columns, "date", "time"); x != "" {
			return &Spec{
				Type:        ChartLine,
				XColumn:     x,
				YColumn:     numeric[0],
				Description: fmt.Sprintf("Line chart showing %s trend over %s", numeric[0], x),
			}, nil
		}
	}

	return &Spec{
		Type:        ChartTable,
		Columns:     columns,
		Rows:        rows,
		Description: fmt.Sprintf("Table view of %d rows and %d columns", len(rows), len(columns)),
	}, nil
}

// classifyColumns splits columns into numeric and categorical, preserving
// input order. A column is numeric when every non-null value parses as a
// number; a column with no non-null values counts as categorical.
func classifyColumns(columns []string, rows []map[string]interface{}) (numeric, categorical []string) {
	for _, col := range columns {
		if isNumericColumn(col, rows) {
			numeric = append(numeric, col)
		} else {
			categorical = append(categorical, col)
		}
	}
	return numeric, categorical
}

func isNumericColumn(col string, rows []map[string]interface{}) bool {
	seen := false
	for _, row := range rows {
		value, ok := row[col]
		if !ok || value == nil {
			continue
		}
		seen = true
		if !isNumericValue(value) {
			return false
		}
	}
	return seen
}

func isNumericValue(value interface{}) bool {
	switch v := value.(type) {
	case int, int32, int64, uint, uint32, uint64, float32, float64:
		return true
	case string:
		_, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return err == nil
	case []byte:
		_, err := strconv.ParseFloat(strings.TrimSpace(string(v)), 64)
		return err == nil
	default:
		return false
	}
}

// firstMatching returns the first column whose name contains any of the
// given substrings, case-insensitive.
func firstMatching(columns []string, substrings ...string) string {
	for _, col := range columns {
		lower := strings.ToLower(col)
		for _, sub := range substrings {
			if strings.Contains(lower, sub) {
				return col
			}
		}
	}
	return ""
}
