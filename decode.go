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
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/ctessum/cdf"
	"github.com/ctessum/sparse"
	"github.com/spatialmodel/nctable/internal/hash"
)

// A Decoder turns the bytes of an uploaded file into a Dataset.
type Decoder interface {
	Decode(payload []byte) (*Dataset, error)
}

// DecoderFunc adapts a function to the Decoder interface.
type DecoderFunc func(payload []byte) (*Dataset, error)

// Decode calls f(payload).
func (f DecoderFunc) Decode(payload []byte) (*Dataset, error) { return f(payload) }

// NetCDF decodes NetCDF classic and 64-bit offset files.
var NetCDF Decoder = DecoderFunc(DecodeNetCDF)

// TimeFormat is the layout of decoded time values.
const TimeFormat = "2006-01-02 15:04:05"

// readOnly lets an in-memory payload stand in for cdf file storage.
type readOnly struct {
	*bytes.Reader
}

func (readOnly) WriteAt([]byte, int64) (int, error) {
	return 0, errors.New("nctable: payload is read-only")
}

// DecodeNetCDF reads every variable of a NetCDF file into memory.
// Fill values become nulls, packed values are unpacked and values with
// "<unit> since <date>" units are converted to text timestamps.
// Character arrays lose their string length axis and become text.
func DecodeNetCDF(payload []byte) (ds *Dataset, err error) {
	defer func() {
		if r := recover(); r != nil {
			ds = nil
			err = &DecodeError{Err: fmt.Errorf("%v", r)}
		}
	}()
	f, err := cdf.Open(readOnly{bytes.NewReader(payload)})
	if err != nil {
		return nil, &DecodeError{Err: err}
	}
	if errs := f.Header.Check(); len(errs) > 0 {
		return nil, &DecodeError{Err: errs[0]}
	}

	nrec := numRecs(f.Header, payload)
	names := f.Header.Dimensions("")
	lengths := f.Header.Lengths("")
	dims := make([]Dimension, len(names))
	dimLen := make(map[string]int, len(names))
	for i, name := range names {
		dims[i] = Dimension{Name: name, Length: lengths[i]}
		if lengths[i] == 0 {
			dims[i].Length = nrec
			dims[i].Unlimited = true
		}
		dimLen[name] = dims[i].Length
	}

	var (
		coords []*Coordinate
		vars   []*Variable
	)
	for _, name := range f.Header.Variables() {
		v, err := readVariable(f, name, dimLen)
		if err != nil {
			return nil, &DecodeError{Err: fmt.Errorf("variable %s: %v", name, err)}
		}
		if len(v.Dims) == 1 && v.Dims[0] == v.Name {
			coords = append(coords, coordinateOf(v))
			continue
		}
		vars = append(vars, v)
	}
	return NewDataset(hash.Payload(payload), dims, coords, vars, readAttributes(f.Header, ""))
}

// numRecs returns the number of records in the file. The count stored in
// the header is used unless it is marked as indeterminate, in which case
// it is worked out from the payload size.
func numRecs(h *cdf.Header, payload []byte) int {
	if len(payload) >= 8 {
		if n := int32(binary.BigEndian.Uint32(payload[4:8])); n >= 0 {
			return int(n)
		}
	}
	return int(h.NumRecs(int64(len(payload))))
}

// readVariable reads and decodes the named variable.
func readVariable(f *cdf.File, name string, dimLen map[string]int) (*Variable, error) {
	v := &Variable{
		Name:       name,
		Dims:       f.Header.Dimensions(name),
		Attributes: readAttributes(f.Header, name),
	}
	v.Shape = make([]int, len(v.Dims))
	n := 1
	for i, d := range v.Dims {
		v.Shape[i] = dimLen[d]
		n *= v.Shape[i]
	}

	zero := f.Header.ZeroValue(name, n)
	switch zero.(type) {
	case []uint8:
		v.Type = Byte
	case string:
		v.Type = Char
		zero = make([]uint8, n)
	case []int16:
		v.Type = Short
	case []int32:
		v.Type = Int
	case []float32:
		v.Type = Float
	case []float64:
		v.Type = Double
	default:
		return nil, fmt.Errorf("unsupported data type %T", zero)
	}
	v.Column = v.Type.ColumnType()

	if n > 0 {
		var end []int
		if f.Header.IsRecordVariable(name) {
			end = make([]int, len(v.Shape))
			for i, l := range v.Shape {
				end[i] = l - 1
			}
		}
		r := f.Reader(name, nil, end)
		if _, err := r.Read(zero); err != nil {
			return nil, err
		}
	}

	if v.Type == Char {
		decodeChars(v, zero.([]uint8))
		return v, nil
	}

	raw := toFloats(zero, isUnsigned(v))
	v.Mask = fillMask(v, raw)

	scale, hasScale := scalarAttribute(v, "scale_factor")
	offset, hasOffset := scalarAttribute(v, "add_offset")
	if hasScale || hasOffset {
		if !hasScale {
			scale = 1
		}
		for i, x := range raw {
			raw[i] = x*scale + offset
		}
		v.Column = FloatColumn
	}

	v.Data = sparse.ZerosDense(append([]int{}, v.Shape...)...)
	copy(v.Data.Elements, raw)

	decodeTime(v)
	return v, nil
}

// decodeChars turns a character array into text values, dropping the
// last axis.
func decodeChars(v *Variable, b []uint8) {
	strlen := 1
	if k := len(v.Dims); k > 0 {
		strlen = v.Shape[k-1]
		v.Dims = v.Dims[:k-1]
		v.Shape = v.Shape[:k-1]
	}
	n := 1
	for _, l := range v.Shape {
		n *= l
	}
	v.Text = make([]string, n)
	for i := range v.Text {
		if strlen == 0 {
			continue
		}
		v.Text[i] = strings.TrimRight(string(b[i*strlen:(i+1)*strlen]), "\x00 ")
	}
	v.Column = TextColumn
}

func isUnsigned(v *Variable) bool {
	s, ok := v.Attribute("_Unsigned").(string)
	return ok && strings.EqualFold(strings.TrimSpace(s), "true")
}

// toFloats converts the values read from a file. Bytes are signed unless
// unsigned is true.
func toFloats(data interface{}, unsigned bool) []float64 {
	switch d := data.(type) {
	case []uint8:
		o := make([]float64, len(d))
		for i, x := range d {
			if unsigned {
				o[i] = float64(x)
			} else {
				o[i] = float64(int8(x))
			}
		}
		return o
	case []int8:
		o := make([]float64, len(d))
		for i, x := range d {
			o[i] = float64(x)
		}
		return o
	case []int16:
		o := make([]float64, len(d))
		for i, x := range d {
			o[i] = float64(x)
		}
		return o
	case []int32:
		o := make([]float64, len(d))
		for i, x := range d {
			o[i] = float64(x)
		}
		return o
	case []float32:
		o := make([]float64, len(d))
		for i, x := range d {
			o[i] = float64(x)
		}
		return o
	case []float64:
		return append([]float64{}, d...)
	}
	return nil
}

// fillMask marks the values equal to the variable's _FillValue or
// missing_value attributes. It returns nil when nothing is masked.
func fillMask(v *Variable, raw []float64) []bool {
	var fills []float64
	for _, name := range []string{"_FillValue", "missing_value"} {
		fills = append(fills, toFloats(v.Attribute(name), isUnsigned(v))...)
	}
	if len(fills) == 0 {
		return nil
	}
	var mask []bool
	for i, x := range raw {
		for _, fv := range fills {
			if x == fv || (math.IsNaN(fv) && math.IsNaN(x)) {
				if mask == nil {
					mask = make([]bool, len(raw))
				}
				mask[i] = true
				break
			}
		}
	}
	return mask
}

func scalarAttribute(v *Variable, name string) (float64, bool) {
	x := toFloats(v.Attribute(name), false)
	if len(x) == 0 {
		return 0, false
	}
	return x[0], true
}

var timeUnits = regexp.MustCompile(`^\s*(\w+)\s+since\s+(.+?)\s*$`)

var timeUnitDurations = map[string]time.Duration{
	"second": time.Second, "seconds": time.Second, "sec": time.Second, "secs": time.Second, "s": time.Second,
	"minute": time.Minute, "minutes": time.Minute, "min": time.Minute, "mins": time.Minute,
	"hour": time.Hour, "hours": time.Hour, "hr": time.Hour, "hrs": time.Hour, "h": time.Hour,
	"day": 24 * time.Hour, "days": 24 * time.Hour, "d": 24 * time.Hour,
}

var referenceLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05 -07:00",
	"2006-01-02 15:04",
	"2006-01-02 15",
	"2006-01-02",
	"2006-1-2 15:4:5",
	"2006-1-2",
}

// decodeTime converts numeric values with "<unit> since <date>" units
// to text timestamps. Variables on a non-standard calendar are left
// alone.
func decodeTime(v *Variable) {
	units, ok := v.Attribute("units").(string)
	if !ok {
		return
	}
	if cal, ok := v.Attribute("calendar").(string); ok {
		switch strings.ToLower(strings.TrimSpace(cal)) {
		case "standard", "gregorian", "proleptic_gregorian":
		default:
			return
		}
	}
	ref, step, ok := parseTimeUnits(units)
	if !ok {
		return
	}
	text := make([]string, len(v.Data.Elements))
	for i, x := range v.Data.Elements {
		if (v.Mask != nil && v.Mask[i]) || math.IsNaN(x) || math.IsInf(x, 0) {
			continue
		}
		t, ok := offsetTime(ref, x, step)
		if !ok {
			// Out of range; keep the variable numeric.
			return
		}
		text[i] = t.Format(TimeFormat)
	}
	v.Text = text
	v.Data = nil
	v.Column = TextColumn
}

// maxOffsetSeconds bounds the time offsets that are converted to
// timestamps, about 300,000 years.
const maxOffsetSeconds = 1e13

// offsetTime returns the time x steps after ref. Whole days are added
// separately from the rest so that offsets too long for a
// time.Duration still convert exactly.
func offsetTime(ref time.Time, x float64, step time.Duration) (time.Time, bool) {
	sec := x * step.Seconds()
	if math.Abs(sec) > maxOffsetSeconds {
		return time.Time{}, false
	}
	days := math.Floor(sec / 86400)
	rem := sec - days*86400
	return ref.AddDate(0, 0, int(days)).Add(time.Duration(math.Round(rem * 1e9))), true
}

func parseTimeUnits(units string) (time.Time, time.Duration, bool) {
	m := timeUnits.FindStringSubmatch(units)
	if m == nil {
		return time.Time{}, 0, false
	}
	step, ok := timeUnitDurations[strings.ToLower(m[1])]
	if !ok {
		return time.Time{}, 0, false
	}
	date := strings.TrimSuffix(m[2], " UTC")
	for _, layout := range referenceLayouts {
		if t, err := time.Parse(layout, date); err == nil {
			return t.UTC(), step, true
		}
	}
	return time.Time{}, 0, false
}

// coordinateOf returns v as the coordinate of its only axis.
func coordinateOf(v *Variable) *Coordinate {
	c := &Coordinate{
		Dim:        v.Name,
		Type:       v.Column,
		Values:     make([]Value, v.Size()),
		Attributes: v.Attributes,
	}
	for i := range c.Values {
		c.Values[i] = v.value(i)
	}
	return c
}

// readAttributes returns the attributes of variable v, or the global
// attributes if v is empty.
func readAttributes(h *cdf.Header, v string) []Attribute {
	names := h.Attributes(v)
	if len(names) == 0 {
		return nil
	}
	o := make([]Attribute, len(names))
	for i, name := range names {
		o[i] = Attribute{Name: name, Value: h.GetAttribute(v, name)}
	}
	return o
}
