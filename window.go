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
	"fmt"
	"strconv"
	"strings"
)

// DefaultLimit is the number of rows kept when a row limit cannot be
// understood.
const DefaultLimit = 100

// LimitSpec is a row cap: either all rows or the first N.
// The zero LimitSpec keeps DefaultLimit rows.
type LimitSpec struct {
	All bool
	N   int
}

// AllRows keeps every row.
var AllRows = LimitSpec{All: true}

// Top keeps the first n rows. Non-positive n gives DefaultLimit rows.
func Top(n int) LimitSpec {
	if n <= 0 {
		n = DefaultLimit
	}
	return LimitSpec{N: n}
}

// ParseLimit interprets s as a row limit. "all" in any case means all
// rows and a positive integer means that many rows. Anything else falls
// back to DefaultLimit.
func ParseLimit(s string) LimitSpec {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "all") {
		return AllRows
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return Top(DefaultLimit)
	}
	return Top(n)
}

// normalize returns l with a usable row count.
func (l LimitSpec) normalize() LimitSpec {
	if l.All {
		return AllRows
	}
	return Top(l.N)
}

func (l LimitSpec) String() string {
	l = l.normalize()
	if l.All {
		return "All"
	}
	return strconv.Itoa(l.N)
}

// Suffix returns the file name suffix for l: "ALL" or "Top{N}".
func (l LimitSpec) Suffix() string {
	l = l.normalize()
	if l.All {
		return "ALL"
	}
	return fmt.Sprintf("Top%d", l.N)
}

// Window returns the table holding the first rows of t allowed by l.
// t is not modified; the result shares its rows.
func Window(t *Table, l LimitSpec) *Table {
	l = l.normalize()
	n := len(t.Rows)
	if !l.All && l.N < n {
		n = l.N
	}
	return &Table{
		Name:    t.Name,
		Axes:    append([]string{}, t.Axes...),
		Columns: append([]Column{}, t.Columns...),
		Rows:    append([][]Value{}, t.Rows[:n]...),
	}
}

// ExportFileName returns the name of the spreadsheet exported for
// variable with row limit l.
func ExportFileName(variable string, l LimitSpec) string {
	return fmt.Sprintf("%s_%s.xlsx", variable, l.Suffix())
}
