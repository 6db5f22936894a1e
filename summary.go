/*
Copyright © 2026 the nctable authors.
This file is part of nctable.

nctable is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

nctable is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with nctable.  If not, see <http://www.gnu.org/licenses/>.
*/

package nctable

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"text/tabwriter"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary holds descriptive statistics of the numeric columns of a table.
type Summary struct {
	Name    string
	Rows    int
	Columns []ColumnSummary
}

// ColumnSummary holds descriptive statistics of one column. Count is the
// number of non-null values; the other fields are NaN when Count is zero.
type ColumnSummary struct {
	Name  string
	Count int
	Mean  float64
	Std   float64
	Min   float64
	Q25   float64
	Q50   float64
	Q75   float64
	Max   float64
}

// Summarize computes statistics for every numeric column of t.
// Standard deviations are sample standard deviations and quantiles are
// linearly interpolated.
func Summarize(t *Table) *Summary {
	s := &Summary{Name: t.Name, Rows: len(t.Rows)}
	x := make([]float64, 0, len(t.Rows))
	for j, c := range t.Columns {
		if !c.Type.Numeric() {
			continue
		}
		x = x[:0]
		for _, row := range t.Rows {
			if v := row[j]; !v.Null && !math.IsNaN(v.Num) {
				x = append(x, v.Num)
			}
		}
		s.Columns = append(s.Columns, summarizeColumn(c.Name, x))
	}
	return s
}

func summarizeColumn(name string, x []float64) ColumnSummary {
	nan := math.NaN()
	cs := ColumnSummary{Name: name, Count: len(x)}
	if len(x) == 0 {
		cs.Mean, cs.Std, cs.Min, cs.Q25, cs.Q50, cs.Q75, cs.Max = nan, nan, nan, nan, nan, nan, nan
		return cs
	}
	sort.Float64s(x)
	cs.Mean, cs.Std = stat.MeanStdDev(x, nil)
	if len(x) < 2 {
		cs.Std = nan
	}
	cs.Min = floats.Min(x)
	cs.Max = floats.Max(x)
	cs.Q25 = quantile(0.25, x)
	cs.Q50 = quantile(0.5, x)
	cs.Q75 = quantile(0.75, x)
	return cs
}

// quantile returns the p quantile of the sorted values x, interpolating
// linearly between the closest ranks (x[0] is quantile 0 and x[n-1]
// quantile 1).
func quantile(p float64, x []float64) float64 {
	h := float64(len(x)-1) * p
	lo := math.Floor(h)
	i := int(lo)
	if i+1 >= len(x) {
		return x[len(x)-1]
	}
	return x[i] + (h-lo)*(x[i+1]-x[i])
}

// String formats the summary as a table with one row per statistic.
func (s *Summary) String() string {
	b := new(strings.Builder)
	w := tabwriter.NewWriter(b, 0, 8, 2, ' ', tabwriter.AlignRight)
	fmt.Fprint(w, "\t")
	for _, c := range s.Columns {
		fmt.Fprintf(w, "%s\t", c.Name)
	}
	fmt.Fprintln(w)
	stats := []struct {
		name string
		get  func(ColumnSummary) float64
	}{
		{"count", func(c ColumnSummary) float64 { return float64(c.Count) }},
		{"mean", func(c ColumnSummary) float64 { return c.Mean }},
		{"std", func(c ColumnSummary) float64 { return c.Std }},
		{"min", func(c ColumnSummary) float64 { return c.Min }},
		{"25%", func(c ColumnSummary) float64 { return c.Q25 }},
		{"50%", func(c ColumnSummary) float64 { return c.Q50 }},
		{"75%", func(c ColumnSummary) float64 { return c.Q75 }},
		{"max", func(c ColumnSummary) float64 { return c.Max }},
	}
	for _, st := range stats {
		fmt.Fprintf(w, "%s\t", st.name)
		for _, c := range s.Columns {
			fmt.Fprintf(w, "%.6g\t", st.get(c))
		}
		fmt.Fprintln(w)
	}
	w.Flush()
	return b.String()
}
