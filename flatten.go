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

import "fmt"

// Flatten converts v into a table with one row per combination of
// coordinate values. The columns are the axes of v in order followed by
// a value column named after v. Rows are in row-major order: the first
// axis varies slowest. A scalar variable gives a single row holding only
// the value column.
func Flatten(v *Variable) (*Table, error) {
	n, err := checkShape(v)
	if err != nil {
		return nil, err
	}

	nAxes := len(v.Dims)
	width := nAxes + 1
	cols := make([]Column, 0, width)
	for i, dim := range v.Dims {
		cols = append(cols, Column{Name: dim, Type: v.Coords[i].Type})
	}
	cols = append(cols, Column{Name: v.Name, Type: v.Column})

	// All cells share one backing array.
	cells := make([]Value, n*width)
	rows := make([][]Value, n)
	idx := make([]int, nAxes)
	for r := 0; r < n; r++ {
		row := cells[r*width : (r+1)*width : (r+1)*width]
		for a, i := range idx {
			row[a] = v.Coords[a].Values[i]
		}
		row[nAxes] = v.value(r)
		rows[r] = row

		for a := nAxes - 1; a >= 0; a-- {
			idx[a]++
			if idx[a] < v.Shape[a] {
				break
			}
			idx[a] = 0
		}
	}
	return &Table{
		Name:    v.Name,
		Axes:    append([]string{}, v.Dims...),
		Columns: cols,
		Rows:    rows,
	}, nil
}

// checkShape makes sure the array and coordinates of v agree with its
// declared axes and returns the number of values.
func checkShape(v *Variable) (int, error) {
	if len(v.Shape) != len(v.Dims) {
		return 0, &ShapeMismatchError{Variable: v.Name,
			Reason: fmt.Sprintf("%d axes but %d axis lengths", len(v.Dims), len(v.Shape))}
	}
	if len(v.Coords) != len(v.Dims) {
		return 0, &ShapeMismatchError{Variable: v.Name,
			Reason: fmt.Sprintf("%d axes but %d coordinates", len(v.Dims), len(v.Coords))}
	}
	n := 1
	for i, l := range v.Shape {
		if l < 0 {
			return 0, &ShapeMismatchError{Variable: v.Name,
				Reason: fmt.Sprintf("axis %q has negative length %d", v.Dims[i], l)}
		}
		if c := v.Coords[i]; c.Len() != l {
			return 0, &ShapeMismatchError{Variable: v.Name,
				Reason: fmt.Sprintf("axis %q has length %d but %d coordinate values", v.Dims[i], l, c.Len())}
		}
		n *= l
	}
	if size := v.Size(); size != n {
		return 0, &ShapeMismatchError{Variable: v.Name,
			Reason: fmt.Sprintf("array holds %d values but axes %v require %d", size, v.Shape, n)}
	}
	if v.Mask != nil && len(v.Mask) != n {
		return 0, &ShapeMismatchError{Variable: v.Name,
			Reason: fmt.Sprintf("null mask holds %d values but axes %v require %d", len(v.Mask), v.Shape, n)}
	}
	return n, nil
}
