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

// Package sample writes a small NetCDF dataset for demonstrations and
// tests.
//
// The dataset has three daily records at two stations:
//
//	dimensions:
//		time = UNLIMITED ; // (3 currently)
//		station = 2 ;
//		name_strlen = 4 ;
//	variables:
//		double time(time) ;      // days since 2000-01-01
//		char station(station, name_strlen) ;
//		float temperature(time, station) ;  // _FillValue = -999
//		short pressure(time, station) ;     // packed
//		int elevation(station) ;
//		int version ;
package sample

import (
	"fmt"
	"io"
	"os"

	"github.com/ctessum/cdf"
)

// Temperature holds the temperature values, with the fill value
// in the second record at the first station.
var Temperature = []float32{280.5, 281.25, FillValue, 282, 283, 284.5}

// FillValue marks missing temperatures.
const FillValue = -999

// Pressure holds the packed pressure values. Unpacked values are
// Pressure*PressureScale + PressureOffset.
var Pressure = []int16{100, 110, 120, 130, 140, 150}

// Packing parameters of the pressure variable.
const (
	PressureScale  = 0.5
	PressureOffset = 900
)

// Stations are the names of the stations.
var Stations = []string{"A", "B"}

// Elevation is the elevation of each station.
var Elevation = []int32{12, 340}

// Write writes the sample dataset to f.
func Write(f *os.File) error {
	const strlen = 4
	h := cdf.NewHeader(
		[]string{"time", "station", "name_strlen"},
		[]int{0, len(Stations), strlen})
	h.AddAttribute("", "title", "nctable sample dataset")
	h.AddAttribute("", "history", "created by nctable sample")

	h.AddVariable("time", []string{"time"}, []float64{0})
	h.AddAttribute("time", "units", "days since 2000-01-01")
	h.AddAttribute("time", "calendar", "standard")

	h.AddVariable("station", []string{"station", "name_strlen"}, "")
	h.AddAttribute("station", "long_name", "station name")

	h.AddVariable("temperature", []string{"time", "station"}, []float32{0})
	h.AddAttribute("temperature", "units", "K")
	h.AddAttribute("temperature", "_FillValue", []float32{FillValue})

	h.AddVariable("pressure", []string{"time", "station"}, []int16{0})
	h.AddAttribute("pressure", "units", "hPa")
	h.AddAttribute("pressure", "scale_factor", []float32{PressureScale})
	h.AddAttribute("pressure", "add_offset", []float32{PressureOffset})

	h.AddVariable("elevation", []string{"station"}, []int32{0})
	h.AddAttribute("elevation", "units", "m")

	h.AddVariable("version", []string{}, []int32{0})
	h.Define()

	nc, err := cdf.Create(f, h)
	if err != nil {
		return err
	}

	names := make([]uint8, len(Stations)*strlen)
	for i, s := range Stations {
		copy(names[i*strlen:(i+1)*strlen], s)
	}
	data := []struct {
		name   string
		values interface{}
	}{
		{"time", []float64{0, 1, 2}},
		{"station", names},
		{"temperature", Temperature},
		{"pressure", Pressure},
		{"elevation", Elevation},
		{"version", []int32{3}},
	}
	for _, d := range data {
		// The writer reports io.EOF once it reaches the end of a
		// fixed-size variable.
		if _, err := nc.Writer(d.name, nil, nil).Write(d.values); err != nil && err != io.EOF {
			return fmt.Errorf("sample: writing %s: %v", d.name, err)
		}
	}
	return cdf.UpdateNumRecs(f)
}
