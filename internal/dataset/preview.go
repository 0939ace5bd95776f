package dataset

import (
	"math"
	"strconv"
)

// PreviewResult is the head of a table with typed cells
type PreviewResult struct {
	Columns []string                 `json:"columns"`
	Rows    []map[string]interface{} `json:"rows"`
}

type columnKind int

const (
	kindInt columnKind = iota
	kindFloat
	kindBool
	kindString
	kindEmpty
)

// Preview returns the first head rows. A negative head returns all rows but
// the last -head.
func Preview(table *Table, head int) *PreviewResult {
	n := head
	if head < 0 {
		n = table.Len() + head
	}
	if n < 0 {
		n = 0
	}
	if n > table.Len() {
		n = table.Len()
	}

	kinds := make([]columnKind, len(table.Columns))
	for i := range table.Columns {
		kinds[i] = inferKind(table, i)
	}

	res := &PreviewResult{
		Columns: table.Columns,
		Rows:    make([]map[string]interface{}, 0, n),
	}
	for _, row := range table.Rows[:n] {
		record := make(map[string]interface{}, len(table.Columns))
		for i, col := range table.Columns {
			record[col] = typedValue(row[i], kinds[i])
		}
		res.Rows = append(res.Rows, record)
	}
	return res
}

// inferKind types a column from every value in it, not only the previewed head
func inferKind(table *Table, col int) columnKind {
	kind := kindEmpty
	for _, row := range table.Rows {
		v := row[col]
		if v == "" {
			continue
		}
		k := valueKind(v)
		switch {
		case kind == kindEmpty:
			kind = k
		case kind == k:
		case (kind == kindInt && k == kindFloat) || (kind == kindFloat && k == kindInt):
			kind = kindFloat
		default:
			return kindString
		}
	}
	return kind
}

func valueKind(v string) columnKind {
	if _, err := strconv.ParseInt(v, 10, 64); err == nil {
		return kindInt
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
		return kindFloat
	}
	if v == "True" || v == "False" || v == "true" || v == "false" {
		return kindBool
	}
	return kindString
}

func typedValue(v string, kind columnKind) interface{} {
	if v == "" {
		return nil
	}
	switch kind {
	case kindInt:
		n, _ := strconv.ParseInt(v, 10, 64)
		return n
	case kindFloat:
		f, _ := strconv.ParseFloat(v, 64)
		return f
	case kindBool:
		return v == "True" || v == "true"
	}
	return v
}
