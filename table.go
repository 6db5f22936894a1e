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
	"strconv"
)

// ColumnType is the type of the values in a table column.
type ColumnType int

// These are the column types.
const (
	IntColumn ColumnType = iota
	FloatColumn
	TextColumn
)

func (c ColumnType) String() string {
	switch c {
	case IntColumn:
		return "int"
	case FloatColumn:
		return "float"
	case TextColumn:
		return "text"
	}
	return fmt.Sprintf("ColumnType(%d)", int(c))
}

// Numeric returns whether the column holds numbers.
func (c ColumnType) Numeric() bool { return c == IntColumn || c == FloatColumn }

// Value is one table cell. Numbers are kept in Num and text in Str;
// the column type says which one applies.
type Value struct {
	Num  float64
	Str  string
	Null bool
}

// Missing is the null cell.
var Missing = Value{Null: true}

// Format renders the value as text for a column of type t.
func (v Value) Format(t ColumnType) string {
	if v.Null {
		return "NaN"
	}
	switch t {
	case TextColumn:
		return v.Str
	case IntColumn:
		if !math.IsNaN(v.Num) && !math.IsInf(v.Num, 0) {
			return strconv.FormatInt(int64(v.Num), 10)
		}
	}
	return strconv.FormatFloat(v.Num, 'g', -1, 64)
}

// Column describes one table column.
type Column struct {
	Name string
	Type ColumnType
}

// Table is a two-dimensional view of a variable. The first len(Axes)
// columns hold coordinate values and identify each row; the remaining
// columns hold the variable's values. Tables are shared between callers
// and must not be modified once built.
type Table struct {
	// Name is the name of the originating variable.
	Name string

	// Axes names the key columns.
	Axes []string

	Columns []Column
	Rows    [][]Value
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.Rows) }

// ValueColumns returns the columns that follow the key columns.
func (t *Table) ValueColumns() []Column { return t.Columns[len(t.Axes):] }

// ColumnIndex returns the position of the named column, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// ColumnNames returns the names of all columns in order.
func (t *Table) ColumnNames() []string {
	o := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		o[i] = c.Name
	}
	return o
}
