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

// Package hash computes the keys used by the nctable result caches.
package hash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash/fnv"

	"github.com/davecgh/go-spew/spew"
)

// printer renders objects deterministically: map keys are sorted and
// pointer addresses and capacities are left out, so equal values always
// print identically.
var printer = spew.ConfigState{
	Indent:                  " ",
	SortKeys:                true,
	DisableMethods:          true,
	SpewKeys:                true,
	DisablePointerAddresses: true,
	DisableCapacities:       true,
}

// Payload returns the hex-encoded SHA-256 digest of b. It identifies an
// uploaded file by content.
func Payload(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// Fingerprint returns a stable hash key for the given parts. Parts are
// hashed in order, so Fingerprint("a", "b") != Fingerprint("b", "a").
func Fingerprint(parts ...interface{}) string {
	h := fnv.New128a()
	for i, p := range parts {
		printer.Fprintf(h, "%d:%#v;", i, p)
	}
	bKey := h.Sum([]byte{})
	return fmt.Sprintf("%x", bKey[0:h.Size()])
}
