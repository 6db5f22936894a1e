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
	"strconv"
	"strings"
)

// ColumnSeparator joins the column-axis values that name a pivoted column.
const ColumnSeparator = "_"

// Partition splits the axes of a variable into those that identify rows
// and those whose values become columns.
type Partition struct {
	Rows    []string
	Columns []string
}

// NewPartition resolves a user selection of row and column axes against
// axes, the axes of the variable in order. Axes named in neither list
// become row axes, after the listed ones and in variable order.
func NewPartition(axes, rows, cols []string) (Partition, error) {
	known := make(map[string]bool, len(axes))
	for _, a := range axes {
		known[a] = true
	}
	seen := make(map[string]bool, len(axes))
	check := func(list []string) error {
		for _, a := range list {
			if !known[a] {
				return &PartitionError{Axis: a, Reason: fmt.Sprintf("is not one of the axes (%s)", strings.Join(axes, ", "))}
			}
			if seen[a] {
				return &PartitionError{Axis: a, Reason: "is selected more than once"}
			}
			seen[a] = true
		}
		return nil
	}
	if err := check(rows); err != nil {
		return Partition{}, err
	}
	if err := check(cols); err != nil {
		return Partition{}, err
	}
	p := Partition{
		Rows:    append([]string{}, rows...),
		Columns: append([]string{}, cols...),
	}
	for _, a := range axes {
		if !seen[a] {
			p.Rows = append(p.Rows, a)
		}
	}
	return p, nil
}

// Pivot reshapes a flattened table so that the values of the cols axes
// become columns. Rows are grouped by their rows-axis values in order of
// first appearance, and there is one value column for each combination
// of cols-axis values, also in order of first appearance. A value column
// is named by its cols-axis values joined with ColumnSeparator. Cells
// with no source row are Missing.
//
// rows and cols must partition t.Axes. When cols is empty t is returned
// unchanged.
func Pivot(t *Table, rows, cols []string) (*Table, error) {
	valueCol := len(t.Axes)
	if len(t.Columns) != valueCol+1 {
		return nil, fmt.Errorf("%w: %d value columns", ErrNotFlat, len(t.Columns)-valueCol)
	}
	rowPos, colPos, err := axisPositions(t, rows, cols)
	if err != nil {
		return nil, err
	}
	if len(cols) == 0 {
		return t, nil
	}

	var (
		groupIndex = make(map[string]int)
		groupRows  [][]Value // first source row of each group
		comboIndex = make(map[string]int)
		comboVals  [][]string
		names      = make(map[string]int)
		groupOf    = make([]int, len(t.Rows))
		comboOf    = make([]int, len(t.Rows))
		key        []byte
	)
	for r, row := range t.Rows {
		key = appendKey(key[:0], row, rowPos, t.Columns)
		g, ok := groupIndex[string(key)]
		if !ok {
			g = len(groupRows)
			groupIndex[string(key)] = g
			groupRows = append(groupRows, row)
		}
		groupOf[r] = g

		key = appendKey(key[:0], row, colPos, t.Columns)
		c, ok := comboIndex[string(key)]
		if !ok {
			c = len(comboVals)
			comboIndex[string(key)] = c
			vals := formatValues(row, colPos, t.Columns)
			name := strings.Join(vals, ColumnSeparator)
			if prev, ok := names[name]; ok {
				return nil, &ColumnNameCollisionError{Name: name, Values: [][]string{comboVals[prev], vals}}
			}
			names[name] = c
			comboVals = append(comboVals, vals)
		}
		comboOf[r] = c
	}
	for _, a := range rows {
		if c, ok := names[a]; ok {
			return nil, &ColumnNameCollisionError{Name: a, Values: [][]string{nil, comboVals[c]}}
		}
	}

	valueType := t.Columns[valueCol].Type
	columns := make([]Column, 0, len(rows)+len(comboVals))
	for _, p := range rowPos {
		columns = append(columns, t.Columns[p])
	}
	for _, vals := range comboVals {
		columns = append(columns, Column{Name: strings.Join(vals, ColumnSeparator), Type: valueType})
	}

	width := len(columns)
	cells := make([]Value, len(groupRows)*width)
	out := make([][]Value, len(groupRows))
	for g, src := range groupRows {
		row := cells[g*width : (g+1)*width : (g+1)*width]
		for i, p := range rowPos {
			row[i] = src[p]
		}
		for i := len(rowPos); i < width; i++ {
			row[i] = Missing
		}
		out[g] = row
	}
	filled := make([]bool, len(groupRows)*len(comboVals))
	for r, row := range t.Rows {
		g, c := groupOf[r], comboOf[r]
		if filled[g*len(comboVals)+c] {
			return nil, &DuplicateEntryError{
				Row:    formatValues(row, rowPos, t.Columns),
				Column: columns[len(rowPos)+c].Name,
			}
		}
		filled[g*len(comboVals)+c] = true
		out[g][len(rowPos)+c] = row[valueCol]
	}

	return &Table{
		Name:    t.Name,
		Axes:    append([]string{}, rows...),
		Columns: columns,
		Rows:    out,
	}, nil
}

// axisPositions returns the column positions of rows and cols in t,
// checking that together they name every axis of t exactly once.
func axisPositions(t *Table, rows, cols []string) (rowPos, colPos []int, err error) {
	pos := make(map[string]int, len(t.Axes))
	for i, a := range t.Axes {
		pos[a] = i
	}
	used := make(map[string]bool, len(t.Axes))
	lookup := func(list []string) ([]int, error) {
		o := make([]int, len(list))
		for i, a := range list {
			p, ok := pos[a]
			if !ok {
				return nil, &PartitionError{Axis: a, Reason: fmt.Sprintf("is not one of the axes (%s)", strings.Join(t.Axes, ", "))}
			}
			if used[a] {
				return nil, &PartitionError{Axis: a, Reason: "is selected more than once"}
			}
			used[a] = true
			o[i] = p
		}
		return o, nil
	}
	if rowPos, err = lookup(rows); err != nil {
		return nil, nil, err
	}
	if colPos, err = lookup(cols); err != nil {
		return nil, nil, err
	}
	for _, a := range t.Axes {
		if !used[a] {
			return nil, nil, &PartitionError{Axis: a, Reason: "is neither a row nor a column axis"}
		}
	}
	return rowPos, colPos, nil
}

// appendKey appends an unambiguous encoding of the values of row at pos.
func appendKey(b []byte, row []Value, pos []int, cols []Column) []byte {
	for _, p := range pos {
		v := row[p]
		if v.Null {
			b = append(b, 'n')
			continue
		}
		s := v.Format(cols[p].Type)
		b = append(b, 'v')
		b = strconv.AppendInt(b, int64(len(s)), 10)
		b = append(b, ':')
		b = append(b, s...)
	}
	return b
}

func formatValues(row []Value, pos []int, cols []Column) []string {
	o := make([]string, len(pos))
	for i, p := range pos {
		o[i] = row[p].Format(cols[p].Type)
	}
	return o
}
