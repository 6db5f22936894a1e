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

// Package nctable turns the variables of self-describing multi-dimensional
// data files into flat tables that can be previewed, pivoted and exported
// to spreadsheets.
package nctable

import (
	"fmt"

	"github.com/ctessum/sparse"
)

// Version gives the version number.
const Version = "0.3.0"

// DataType is the storage type of a variable in the source file.
type DataType int

// These are the storage types of the NetCDF classic data model.
const (
	Byte DataType = iota + 1
	Char
	Short
	Int
	Float
	Double
)

var dataTypeNames = [...]string{"", "byte", "char", "short", "int", "float", "double"}

func (d DataType) String() string {
	if d >= Byte && d <= Double {
		return dataTypeNames[d]
	}
	return fmt.Sprintf("DataType(%d)", int(d))
}

// ColumnType returns the type of table column that holds values
// of type d before any attribute-driven conversion.
func (d DataType) ColumnType() ColumnType {
	switch d {
	case Byte, Short, Int:
		return IntColumn
	case Float, Double:
		return FloatColumn
	default:
		return TextColumn
	}
}

// Dimension is a named axis of a Dataset.
type Dimension struct {
	Name   string
	Length int

	// Unlimited is true for the record dimension.
	Unlimited bool
}

// Attribute is a named piece of metadata. Value holds one of
// []int8, []uint8, string, []int16, []int32, []float32 or []float64.
type Attribute struct {
	Name  string
	Value interface{}
}

func (a Attribute) String() string {
	switch v := a.Value.(type) {
	case string:
		return v
	case []int8:
		if len(v) == 1 {
			return fmt.Sprint(v[0])
		}
	case []uint8:
		if len(v) == 1 {
			return fmt.Sprint(v[0])
		}
	case []int16:
		if len(v) == 1 {
			return fmt.Sprint(v[0])
		}
	case []int32:
		if len(v) == 1 {
			return fmt.Sprint(v[0])
		}
	case []float32:
		if len(v) == 1 {
			return fmt.Sprint(v[0])
		}
	case []float64:
		if len(v) == 1 {
			return fmt.Sprint(v[0])
		}
	}
	return fmt.Sprint(a.Value)
}

// findAttribute returns the attribute with the given name, or nil.
func findAttribute(attrs []Attribute, name string) *Attribute {
	for i := range attrs {
		if attrs[i].Name == name {
			return &attrs[i]
		}
	}
	return nil
}

// Coordinate holds the labels along one dimension.
type Coordinate struct {
	Dim        string
	Type       ColumnType
	Values     []Value
	Attributes []Attribute

	// Positional is true when the file has no coordinate variable
	// for Dim and the labels are the indices 0..n-1.
	Positional bool
}

// Len returns the number of coordinate values.
func (c *Coordinate) Len() int { return len(c.Values) }

// positionalCoordinate returns a coordinate labelling the n positions
// along dim with their index.
func positionalCoordinate(dim string, n int) *Coordinate {
	c := &Coordinate{Dim: dim, Type: IntColumn, Values: make([]Value, n), Positional: true}
	for i := range c.Values {
		c.Values[i] = Value{Num: float64(i)}
	}
	return c
}

// Variable is one named array of a Dataset.
type Variable struct {
	Name string

	// Dims are the names of the axes, slowest varying first.
	Dims []string

	// Shape is the length of each axis.
	Shape []int

	// Type is the storage type in the source file.
	Type DataType

	// Column is the type of the decoded values.
	Column ColumnType

	Attributes []Attribute

	// Coords holds the coordinate of each axis. It is filled in
	// by NewDataset.
	Coords []*Coordinate

	// Data holds numeric values in row-major order. Null cells are
	// marked in Mask.
	Data *sparse.DenseArray

	// Mask marks null positions of Data. It is nil when there are none.
	Mask []bool

	// Text holds the values of text variables in row-major order.
	Text []string
}

// Size returns the number of values the variable holds.
func (v *Variable) Size() int {
	if v.Column == TextColumn {
		return len(v.Text)
	}
	if v.Data == nil {
		return 0
	}
	return len(v.Data.Elements)
}

// value returns the i-th value in row-major order.
func (v *Variable) value(i int) Value {
	if v.Mask != nil && v.Mask[i] {
		return Missing
	}
	if v.Column == TextColumn {
		return Value{Str: v.Text[i]}
	}
	return Value{Num: v.Data.Elements[i]}
}

// Attribute returns the value of the named attribute, or nil.
func (v *Variable) Attribute(name string) interface{} {
	if a := findAttribute(v.Attributes, name); a != nil {
		return a.Value
	}
	return nil
}
