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

package nctableutil

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/spatialmodel/nctable"
	"github.com/tealeg/xlsx"
)

// execute runs the command line args and returns what it printed.
func execute(t *testing.T, args ...string) (string, error) {
	buf := new(bytes.Buffer)
	Root.SetOutput(buf)
	defer Root.SetOutput(nil)
	Root.SetArgs(args)
	err := Root.Execute()
	return buf.String(), err
}

// sampleFile writes the sample dataset using the sample command.
func sampleFile(t *testing.T) string {
	path := filepath.Join(t.TempDir(), "sample.nc")
	if _, err := execute(t, "sample", path); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestInspect(t *testing.T) {
	path := sampleFile(t)

	Cfg.Set("format", "json")
	out, err := execute(t, "inspect", path)
	if err != nil {
		t.Fatal(err)
	}
	var d nctable.Description
	if err := json.Unmarshal([]byte(out), &d); err != nil {
		t.Fatalf("%v: %s", err, out)
	}
	var names []string
	for _, v := range d.Variables {
		names = append(names, v.Name)
	}
	if want := []string{"temperature", "pressure", "elevation", "version"}; !reflect.DeepEqual(names, want) {
		t.Errorf("variables: want %v, got %v", want, names)
	}
	if len(d.Coordinates) != 2 || len(d.Coordinates[0].Values) != 3 {
		t.Errorf("coordinates: %+v", d.Coordinates)
	}

	Cfg.Set("format", "toml")
	out, err = execute(t, "inspect", path)
	if err != nil {
		t.Fatal(err)
	}
	var td nctable.Description
	if _, err := toml.Decode(out, &td); err != nil {
		t.Fatalf("%v: %s", err, out)
	}
	if td.ID != d.ID || len(td.Variables) != 4 {
		t.Errorf("toml description: %+v", td)
	}

	Cfg.Set("format", "text")
	out, err = execute(t, "inspect", path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "<nctable.Dataset>") || !strings.Contains(out, "temperature") {
		t.Errorf("text structure:\n%s", out)
	}

	Cfg.Set("format", "yaml")
	if _, err := execute(t, "inspect", path); err == nil {
		t.Error("want an error for an unsupported format")
	}
	Cfg.Set("format", "text")
}

func TestPreview(t *testing.T) {
	path := sampleFile(t)
	Cfg.Set("variable", "temperature")
	Cfg.Set("rows", nil)
	Cfg.Set("columns", "station")
	Cfg.Set("PreviewLimit", "2")
	out, err := execute(t, "preview", path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 5 {
		t.Fatalf("want a header, 2 rows, and a footer, got:\n%s", out)
	}
	if f := strings.Fields(lines[0]); !reflect.DeepEqual(f, []string{"time", "A", "B"}) {
		t.Errorf("header: %v", f)
	}
	if f := strings.Fields(lines[2]); !reflect.DeepEqual(f, []string{"2000-01-02", "00:00:00", "NaN", "282"}) {
		t.Errorf("second row: %v", f)
	}
	if lines[4] != "[3 rows x 3 columns]" {
		t.Errorf("footer: %s", lines[4])
	}
}

func TestExport(t *testing.T) {
	path := sampleFile(t)
	dir := t.TempDir()
	Cfg.Set("variable", "temperature")
	Cfg.Set("rows", nil)
	Cfg.Set("columns", []string{"station"})
	Cfg.Set("ExportLimit", "all")
	Cfg.Set("OutputDir", dir)
	out, err := execute(t, "export", path)
	if err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(dir, "temperature_ALL.xlsx")
	if strings.TrimSpace(out) != want {
		t.Errorf("want %s, got %s", want, out)
	}
	f, err := xlsx.OpenFile(want)
	if err != nil {
		t.Fatal(err)
	}
	sh := f.Sheets[0]
	if sh.Name != "temperature" || len(sh.Rows) != 4 {
		t.Fatalf("sheet %s with %d rows", sh.Name, len(sh.Rows))
	}
	var header []string
	for _, c := range sh.Rows[0].Cells {
		header = append(header, c.Value)
	}
	if !reflect.DeepEqual(header, []string{"time", "A", "B"}) {
		t.Errorf("header: %v", header)
	}

	Cfg.Set("ExportLimit", "0")
	Cfg.Set("columns", nil)
	out, err = execute(t, "export", path)
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(dir, "temperature_Top100.xlsx"); strings.TrimSpace(out) != want {
		t.Errorf("want %s, got %s", want, out)
	}

	Cfg.Set("OutputDir", filepath.Join(dir, "missing"))
	if _, err := execute(t, "export", path); err == nil {
		t.Error("want an error for a missing output directory")
	}
}

func TestSummary(t *testing.T) {
	path := sampleFile(t)
	Cfg.Set("variable", "pressure")
	out, err := execute(t, "summary", path)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"pressure", "count", "975"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}

	Cfg.Set("variable", "salinity")
	if _, err := execute(t, "summary", path); err == nil || !strings.Contains(err.Error(), "salinity") {
		t.Errorf("want an unknown variable error, got %v", err)
	}
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatal(err)
	}
	if out != "nctable v"+nctable.Version+"\n" {
		t.Errorf("version: %q", out)
	}
}

func TestServe(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := Serve(ctx, "127.0.0.1:0", nctable.NewServer(1, 1, 1<<20)); err != nil {
		t.Error(err)
	}
}
