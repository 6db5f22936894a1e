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
	"errors"
	"fmt"
	"strings"
)

// These errors classify failures. Use errors.Is to test for them; details
// are carried by the typed errors below.
var (
	ErrDecode              = errors.New("nctable: invalid dataset")
	ErrShapeMismatch       = errors.New("nctable: shape mismatch")
	ErrUnknownVariable     = errors.New("nctable: unknown variable")
	ErrInvalidPartition    = errors.New("nctable: invalid axis partition")
	ErrColumnNameCollision = errors.New("nctable: column name collision")
	ErrDuplicateEntry      = errors.New("nctable: duplicate entry")
	ErrNotFlat             = errors.New("nctable: table is not flat")
	ErrNoDataset           = errors.New("nctable: no dataset has been loaded")
	ErrSuperseded          = errors.New("nctable: request superseded by a new upload")
)

// DecodeError is returned when a payload is not a valid dataset.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("nctable: decoding dataset: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Is reports whether target is ErrDecode.
func (e *DecodeError) Is(target error) bool { return target == ErrDecode }

// ShapeMismatchError is returned when a variable's array does not match
// its declared axes.
type ShapeMismatchError struct {
	Variable string
	Reason   string
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("nctable: variable %q: %s", e.Variable, e.Reason)
}

// Is reports whether target is ErrShapeMismatch.
func (e *ShapeMismatchError) Is(target error) bool { return target == ErrShapeMismatch }

// UnknownVariableError is returned when a requested variable is not one
// of the dataset's data variables.
type UnknownVariableError struct {
	Variable  string
	Available []string
}

func (e *UnknownVariableError) Error() string {
	return fmt.Sprintf("nctable: unknown variable %q; available variables are [%s]",
		e.Variable, strings.Join(e.Available, ", "))
}

// Is reports whether target is ErrUnknownVariable.
func (e *UnknownVariableError) Is(target error) bool { return target == ErrUnknownVariable }

// PartitionError is returned when a row/column axis selection does not
// partition a variable's axes.
type PartitionError struct {
	Axis   string
	Reason string
}

func (e *PartitionError) Error() string {
	if e.Axis == "" {
		return fmt.Sprintf("nctable: invalid axis partition: %s", e.Reason)
	}
	return fmt.Sprintf("nctable: invalid axis partition: axis %q %s", e.Axis, e.Reason)
}

// Is reports whether target is ErrInvalidPartition.
func (e *PartitionError) Is(target error) bool { return target == ErrInvalidPartition }

// ColumnNameCollisionError is returned when pivoting would give two
// different columns the same name.
type ColumnNameCollisionError struct {
	// Name is the contested column name.
	Name string

	// Values holds the column-axis values of each claimant. A nil
	// entry stands for a row key column.
	Values [][]string
}

func (e *ColumnNameCollisionError) Error() string {
	parts := make([]string, len(e.Values))
	for i, v := range e.Values {
		if v == nil {
			parts[i] = "row key column"
			continue
		}
		parts[i] = "(" + strings.Join(v, ", ") + ")"
	}
	return fmt.Sprintf("nctable: pivoted column name %q is claimed by %s; choose a different partition",
		e.Name, strings.Join(parts, " and "))
}

// Is reports whether target is ErrColumnNameCollision.
func (e *ColumnNameCollisionError) Is(target error) bool { return target == ErrColumnNameCollision }

// DuplicateEntryError is returned when two rows of a table share the
// same cell of a pivoted table.
type DuplicateEntryError struct {
	Row    []string
	Column string
}

func (e *DuplicateEntryError) Error() string {
	return fmt.Sprintf("nctable: more than one value for row (%s) in column %q",
		strings.Join(e.Row, ", "), e.Column)
}

// Is reports whether target is ErrDuplicateEntry.
func (e *DuplicateEntryError) Is(target error) bool { return target == ErrDuplicateEntry }
