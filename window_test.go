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
	"reflect"
	"testing"
)

func TestParseLimit(t *testing.T) {
	for s, want := range map[string]LimitSpec{
		"All":   AllRows,
		"all":   AllRows,
		" ALL ": AllRows,
		"5":     Top(5),
		" 12 ":  Top(12),
		"0":     Top(DefaultLimit),
		"-3":    Top(DefaultLimit),
		"3.5":   Top(DefaultLimit),
		"ten":   Top(DefaultLimit),
		"":      Top(DefaultLimit),
	} {
		if got := ParseLimit(s); got != want {
			t.Errorf("ParseLimit(%q): want %v, got %v", s, want, got)
		}
	}
}

func TestLimitSpec_zero(t *testing.T) {
	var l LimitSpec
	if l.String() != "100" || l.Suffix() != "Top100" {
		t.Errorf("zero limit: %s %s", l, l.Suffix())
	}
}

func TestWindow(t *testing.T) {
	flat := flatTemp(t)
	rows := append([][]Value{}, flat.Rows...)

	w := Window(flat, Top(2))
	if w.Len() != 2 {
		t.Errorf("top 2: got %d rows", w.Len())
	}
	if !reflect.DeepEqual(w.Rows, flat.Rows[:2]) {
		t.Errorf("top 2 should be the leading rows, got %v", w.Rows)
	}
	if !reflect.DeepEqual(w.Columns, flat.Columns) {
		t.Errorf("columns changed: %v", w.Columns)
	}
	if !reflect.DeepEqual(Window(w, Top(2)), w) {
		t.Error("windowing twice with the same limit should not change the result")
	}

	if n := Window(flat, Top(50)).Len(); n != flat.Len() {
		t.Errorf("limit above row count gave %d rows", n)
	}
	if n := Window(flat, AllRows).Len(); n != flat.Len() {
		t.Errorf("all gave %d rows", n)
	}
	if !reflect.DeepEqual(flat.Rows, rows) || flat.Len() != 6 {
		t.Error("windowing modified its input")
	}
}

func TestExportFileName(t *testing.T) {
	for _, test := range []struct {
		l    LimitSpec
		want string
	}{
		{AllRows, "temperature_ALL.xlsx"},
		{Top(10), "temperature_Top10.xlsx"},
		{ParseLimit("x"), "temperature_Top100.xlsx"},
	} {
		if got := ExportFileName("temperature", test.l); got != test.want {
			t.Errorf("want %s, got %s", test.want, got)
		}
	}
}
