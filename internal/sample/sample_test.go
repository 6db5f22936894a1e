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

package sample

import (
	"encoding/binary"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/ctessum/cdf"
)

func TestWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.nc")
	w, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := Write(w); err != nil {
		w.Close()
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	r, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	f, err := cdf.Open(r)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"time", "station", "temperature", "pressure", "elevation", "version"}
	if got := f.Header.Variables(); !reflect.DeepEqual(got, want) {
		t.Errorf("variables: want %v, got %v", want, got)
	}

	var numrecs [4]byte
	if _, err := r.ReadAt(numrecs[:], 4); err != nil {
		t.Fatal(err)
	}
	if n := binary.BigEndian.Uint32(numrecs[:]); n != 3 {
		t.Errorf("want 3 records, got %d", n)
	}

	elevation := make([]int32, len(Stations))
	if _, err := f.Reader("elevation", nil, nil).Read(elevation); err != nil && err != io.EOF {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(elevation, Elevation) {
		t.Errorf("elevation: want %v, got %v", Elevation, elevation)
	}
}
