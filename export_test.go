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
	"testing"

	"github.com/tealeg/xlsx"
)

// cellValue returns the text of a cell, or "" if the row is too short.
func cellValue(r *xlsx.Row, j int) string {
	if j >= len(r.Cells) {
		return ""
	}
	return r.Cells[j].Value
}

func TestExport(t *testing.T) {
	a, err := Export(flatTemp(t), Top(3), "temp")
	if err != nil {
		t.Fatal(err)
	}
	if a.FileName != "temp_Top3.xlsx" {
		t.Errorf("file name: %s", a.FileName)
	}
	if a.MIME != SpreadsheetMIME {
		t.Errorf("mime: %s", a.MIME)
	}

	f, err := xlsx.OpenBinary(a.Data)
	if err != nil {
		t.Fatal(err)
	}
	if len(f.Sheets) != 1 {
		t.Fatalf("%d sheets", len(f.Sheets))
	}
	s := f.Sheets[0]
	if s.Name != "temp" {
		t.Errorf("sheet name: %q", s.Name)
	}
	if len(s.Rows) != 4 {
		t.Fatalf("want a header and 3 rows, got %d rows", len(s.Rows))
	}
	want := [][]string{
		{"time", "station", "temp"},
		{"t0", "10", "1"},
		{"t0", "20", "2"},
		{"t1", "10", ""},
	}
	for i, row := range want {
		for j, v := range row {
			if got := cellValue(s.Rows[i], j); got != v {
				t.Errorf("row %d column %d: want %q, got %q", i, j, v, got)
			}
		}
	}
}

func TestExport_all(t *testing.T) {
	a, err := Export(flatTemp(t), ParseLimit("all"), "temp")
	if err != nil {
		t.Fatal(err)
	}
	if a.FileName != "temp_ALL.xlsx" {
		t.Errorf("file name: %s", a.FileName)
	}
	f, err := xlsx.OpenBinary(a.Data)
	if err != nil {
		t.Fatal(err)
	}
	if n := len(f.Sheets[0].Rows); n != 7 {
		t.Errorf("want 7 rows, got %d", n)
	}
}

func TestExport_pivoted(t *testing.T) {
	p, err := Pivot(flatTemp(t), []string{"time"}, []string{"station"})
	if err != nil {
		t.Fatal(err)
	}
	a, err := Export(p, AllRows, "temp")
	if err != nil {
		t.Fatal(err)
	}
	f, err := xlsx.OpenBinary(a.Data)
	if err != nil {
		t.Fatal(err)
	}
	s := f.Sheets[0]
	for j, v := range []string{"time", "10", "20"} {
		if got := cellValue(s.Rows[0], j); got != v {
			t.Errorf("header %d: want %q, got %q", j, v, got)
		}
	}
	if got := cellValue(s.Rows[2], 2); got != "4" {
		t.Errorf("t1 at station 20: %q", got)
	}
}

func TestSheetName(t *testing.T) {
	for in, want := range map[string]string{
		"temp":                              "temp",
		"a/b:c":                             "a_b_c",
		"[x]*?\\":                           "_x____",
		"":                                  "Sheet1",
		"a_very_long_variable_name_indeed_1": "a_very_long_variable_name_inde",
	} {
		if got := SheetName(in); got != want {
			t.Errorf("SheetName(%q): want %q, got %q", in, want, got)
		}
	}
}
