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
	"io"
	"math"
	"strings"

	"github.com/tealeg/xlsx"
)

// SpreadsheetMIME is the media type of exported files.
const SpreadsheetMIME = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// maxSheetName is the longest sheet name that is written.
const maxSheetName = 30

// Artifact is an exported file.
type Artifact struct {
	FileName string
	MIME     string
	Data     []byte
}

// Export writes the rows of t allowed by l to a spreadsheet named after
// variable.
func Export(t *Table, l LimitSpec, variable string) (*Artifact, error) {
	w := Window(t, l)
	b := new(bytes.Buffer)
	if err := WriteSpreadsheet(b, w, SheetName(variable)); err != nil {
		return nil, fmt.Errorf("nctable: exporting %s: %v", variable, err)
	}
	return &Artifact{
		FileName: ExportFileName(variable, l),
		MIME:     SpreadsheetMIME,
		Data:     b.Bytes(),
	}, nil
}

// WriteSpreadsheet writes t to w as a workbook with a single sheet. The
// first row holds the column names. Null and NaN cells are left empty.
func WriteSpreadsheet(w io.Writer, t *Table, sheet string) error {
	f := xlsx.NewFile()
	s, err := f.AddSheet(sheet)
	if err != nil {
		return err
	}
	header := s.AddRow()
	for _, c := range t.Columns {
		header.AddCell().SetString(c.Name)
	}
	for _, row := range t.Rows {
		r := s.AddRow()
		for j, v := range row {
			cell := r.AddCell()
			if v.Null {
				continue
			}
			switch t.Columns[j].Type {
			case TextColumn:
				cell.SetString(v.Str)
			case IntColumn:
				if !math.IsNaN(v.Num) {
					cell.SetInt(int(v.Num))
				}
			default:
				if !math.IsNaN(v.Num) && !math.IsInf(v.Num, 0) {
					cell.SetFloat(v.Num)
				}
			}
		}
	}
	return f.Write(w)
}

// SheetName makes name usable as a worksheet name.
func SheetName(name string) string {
	name = strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return '_'
		}
		return r
	}, name)
	if r := []rune(name); len(r) > maxSheetName {
		name = string(r[:maxSheetName])
	}
	if name == "" {
		return "Sheet1"
	}
	return name
}
