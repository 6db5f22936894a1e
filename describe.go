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

// Description is the structure of a dataset in a form suitable for
// encoding.
type Description struct {
	ID          string                  `json:"id" toml:"id"`
	Dimensions  []DimensionDescription  `json:"dimensions" toml:"dimensions"`
	Coordinates []CoordinateDescription `json:"coordinates" toml:"coordinates"`
	Variables   []VariableDescription   `json:"variables" toml:"variables"`
	Attributes  []AttributeDescription  `json:"attributes,omitempty" toml:"attributes,omitempty"`
}

type DimensionDescription struct {
	Name      string `json:"name" toml:"name"`
	Length    int    `json:"length" toml:"length"`
	Unlimited bool   `json:"unlimited,omitempty" toml:"unlimited,omitempty"`
}

type CoordinateDescription struct {
	Dimension string   `json:"dimension" toml:"dimension"`
	Type      string   `json:"type" toml:"type"`
	Values    []string `json:"values" toml:"values"`
}

type VariableDescription struct {
	Name       string                 `json:"name" toml:"name"`
	Dimensions []string               `json:"dimensions" toml:"dimensions"`
	Shape      []int                  `json:"shape" toml:"shape"`
	Type       string                 `json:"type" toml:"type"`
	Column     string                 `json:"column" toml:"column"`
	Attributes []AttributeDescription `json:"attributes,omitempty" toml:"attributes,omitempty"`
}

type AttributeDescription struct {
	Name  string `json:"name" toml:"name"`
	Value string `json:"value" toml:"value"`
}

// Describe returns the structure of d. Coordinates list at most
// maxValues values each; maxValues < 0 lists all of them.
func (d *Dataset) Describe(maxValues int) *Description {
	o := &Description{
		ID:          d.id,
		Dimensions:  make([]DimensionDescription, len(d.dims)),
		Coordinates: []CoordinateDescription{},
		Variables:   make([]VariableDescription, len(d.vars)),
		Attributes:  describeAttributes(d.attributes),
	}
	for i, dim := range d.dims {
		o.Dimensions[i] = DimensionDescription{Name: dim.Name, Length: dim.Length, Unlimited: dim.Unlimited}
		c := d.coords[dim.Name]
		if c.Positional {
			continue
		}
		n := len(c.Values)
		if maxValues >= 0 && maxValues < n {
			n = maxValues
		}
		cd := CoordinateDescription{Dimension: dim.Name, Type: c.Type.String(), Values: make([]string, n)}
		for j := range cd.Values {
			cd.Values[j] = c.Values[j].Format(c.Type)
		}
		o.Coordinates = append(o.Coordinates, cd)
	}
	for i, v := range d.vars {
		o.Variables[i] = VariableDescription{
			Name:       v.Name,
			Dimensions: append([]string{}, v.Dims...),
			Shape:      append([]int{}, v.Shape...),
			Type:       v.Type.String(),
			Column:     v.Column.String(),
			Attributes: describeAttributes(v.Attributes),
		}
	}
	return o
}

func describeAttributes(attrs []Attribute) []AttributeDescription {
	if len(attrs) == 0 {
		return nil
	}
	o := make([]AttributeDescription, len(attrs))
	for i, a := range attrs {
		o[i] = AttributeDescription{Name: a.Name, Value: a.String()}
	}
	return o
}
