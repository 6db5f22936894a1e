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
	"bytes"
	"fmt"
	"strings"
)

// Dataset is a decoded file: dimensions, coordinates, data variables and
// global attributes. A Dataset is read-only once created.
type Dataset struct {
	id         string
	dims       []Dimension
	coords     map[string]*Coordinate
	vars       []*Variable
	varIndex   map[string]*Variable
	attributes []Attribute
}

// NewDataset assembles a Dataset. id identifies the payload the dataset
// was decoded from. Coordinates are matched to dimensions by name;
// dimensions without one get positional coordinates. The Coords field of
// each variable is filled in from the dataset's coordinates.
func NewDataset(id string, dims []Dimension, coords []*Coordinate, vars []*Variable, attrs []Attribute) (*Dataset, error) {
	d := &Dataset{
		id:         id,
		dims:       dims,
		coords:     make(map[string]*Coordinate),
		varIndex:   make(map[string]*Variable),
		attributes: attrs,
	}
	lengths := make(map[string]int)
	for _, dim := range dims {
		if _, ok := lengths[dim.Name]; ok {
			return nil, &DecodeError{Err: fmt.Errorf("repeated dimension %q", dim.Name)}
		}
		lengths[dim.Name] = dim.Length
	}
	for _, c := range coords {
		if _, ok := lengths[c.Dim]; !ok {
			return nil, &DecodeError{Err: fmt.Errorf("coordinate for unknown dimension %q", c.Dim)}
		}
		d.coords[c.Dim] = c
	}
	for _, dim := range dims {
		if _, ok := d.coords[dim.Name]; !ok {
			d.coords[dim.Name] = positionalCoordinate(dim.Name, dim.Length)
		}
	}
	for _, v := range vars {
		if _, ok := d.varIndex[v.Name]; ok {
			return nil, &DecodeError{Err: fmt.Errorf("repeated variable %q", v.Name)}
		}
		v.Coords = make([]*Coordinate, len(v.Dims))
		for i, dim := range v.Dims {
			c, ok := d.coords[dim]
			if !ok {
				return nil, &DecodeError{Err: fmt.Errorf("variable %q uses unknown dimension %q", v.Name, dim)}
			}
			v.Coords[i] = c
		}
		d.vars = append(d.vars, v)
		d.varIndex[v.Name] = v
	}
	return d, nil
}

// ID identifies the payload the dataset was decoded from.
func (d *Dataset) ID() string { return d.id }

// Dimensions returns the dataset's dimensions in file order.
func (d *Dataset) Dimensions() []Dimension {
	return append([]Dimension(nil), d.dims...)
}

// Coordinate returns the coordinate of the named dimension.
func (d *Dataset) Coordinate(dim string) (*Coordinate, bool) {
	c, ok := d.coords[dim]
	return c, ok
}

// Variables returns the names of the data variables in file order.
func (d *Dataset) Variables() []string {
	o := make([]string, len(d.vars))
	for i, v := range d.vars {
		o[i] = v.Name
	}
	return o
}

// Variable returns the named data variable.
func (d *Dataset) Variable(name string) (*Variable, error) {
	v, ok := d.varIndex[name]
	if !ok {
		return nil, &UnknownVariableError{Variable: name, Available: d.Variables()}
	}
	return v, nil
}

// Attributes returns the global attributes.
func (d *Dataset) Attributes() []Attribute {
	return append([]Attribute(nil), d.attributes...)
}

// maxPreviewValues is the number of coordinate values shown per line
// by String.
const maxPreviewValues = 4

// String describes the structure of the dataset.
func (d *Dataset) String() string {
	b := new(bytes.Buffer)
	fmt.Fprintln(b, "<nctable.Dataset>")

	dims := make([]string, len(d.dims))
	for i, dim := range d.dims {
		dims[i] = fmt.Sprintf("%s: %d", dim.Name, dim.Length)
		if dim.Unlimited {
			dims[i] += " (unlimited)"
		}
	}
	fmt.Fprintf(b, "Dimensions:  (%s)\n", strings.Join(dims, ", "))

	width := 0
	for _, dim := range d.dims {
		if len(dim.Name) > width {
			width = len(dim.Name)
		}
	}
	for _, v := range d.vars {
		if len(v.Name) > width {
			width = len(v.Name)
		}
	}

	fmt.Fprintln(b, "Coordinates:")
	for _, dim := range d.dims {
		c := d.coords[dim.Name]
		if c.Positional {
			continue
		}
		fmt.Fprintf(b, "  * %-*s (%s) %s %s\n", width, dim.Name, dim.Name, c.Type, previewValues(c))
	}

	fmt.Fprintln(b, "Data variables:")
	for _, v := range d.vars {
		fmt.Fprintf(b, "    %-*s (%s) %s\n", width, v.Name, strings.Join(v.Dims, ", "), v.Type)
	}

	if len(d.attributes) > 0 {
		fmt.Fprintln(b, "Attributes:")
		for _, a := range d.attributes {
			fmt.Fprintf(b, "    %s: %s\n", a.Name, a.String())
		}
	}
	return b.String()
}

func previewValues(c *Coordinate) string {
	n := len(c.Values)
	if n > maxPreviewValues {
		n = maxPreviewValues
	}
	s := make([]string, n)
	for i := 0; i < n; i++ {
		s[i] = c.Values[i].Format(c.Type)
	}
	o := strings.Join(s, " ")
	if n < len(c.Values) {
		o += " ..."
	}
	return o
}
