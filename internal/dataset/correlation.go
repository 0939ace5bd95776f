package dataset

import (
	"math"
	"strconv"
)

// CorrelationResult is a symmetric Pearson matrix over numeric columns.
// Undefined coefficients are nil.
type CorrelationResult struct {
	Cols   []string     `json:"cols"`
	Matrix [][]*float64 `json:"matrix"`
}

// NumericColumns returns the indexes of columns whose non-missing values are
// all numbers
func NumericColumns(table *Table) []int {
	var idx []int
	for i := range table.Columns {
		if k := inferKind(table, i); k == kindInt || k == kindFloat {
			idx = append(idx, i)
		}
	}
	return idx
}

// Correlate computes pairwise-complete Pearson correlations between the
// numeric columns of table
func Correlate(table *Table) *CorrelationResult {
	numeric := NumericColumns(table)
	res := &CorrelationResult{Cols: []string{}, Matrix: [][]*float64{}}
	if len(numeric) == 0 {
		return res
	}

	values := make([][]float64, len(numeric))
	for j, col := range numeric {
		res.Cols = append(res.Cols, table.Columns[col])
		values[j] = make([]float64, table.Len())
		for i, row := range table.Rows {
			values[j][i] = math.NaN()
			if row[col] == "" {
				continue
			}
			if f, err := strconv.ParseFloat(row[col], 64); err == nil {
				values[j][i] = f
			}
		}
	}

	res.Matrix = make([][]*float64, len(numeric))
	for a := range numeric {
		res.Matrix[a] = make([]*float64, len(numeric))
	}
	for a := range numeric {
		for b := a; b < len(numeric); b++ {
			r := pearson(values[a], values[b])
			res.Matrix[a][b] = r
			res.Matrix[b][a] = r
		}
	}
	return res
}

// pearson skips positions where either side is NaN
func pearson(x, y []float64) *float64 {
	var n, sx, sy, sxx, syy, sxy float64
	for i := range x {
		if math.IsNaN(x[i]) || math.IsNaN(y[i]) {
			continue
		}
		n++
		sx += x[i]
		sy += y[i]
	}
	if n < 2 {
		return nil
	}
	mx, my := sx/n, sy/n
	for i := range x {
		if math.IsNaN(x[i]) || math.IsNaN(y[i]) {
			continue
		}
		dx, dy := x[i]-mx, y[i]-my
		sxx += dx * dx
		syy += dy * dy
		sxy += dx * dy
	}
	if sxx == 0 || syy == 0 {
		return nil
	}
	r := sxy / math.Sqrt(sxx*syy)
	r = math.Max(-1, math.Min(1, r))
	return &r
}
