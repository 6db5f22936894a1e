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

package hash

import "testing"

func TestPayload(t *testing.T) {
	const want = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	if got := Payload(nil); got != want {
		t.Errorf("empty payload: %s != %s", got, want)
	}
	if Payload([]byte("a")) == Payload([]byte("b")) {
		t.Error("different payloads share a hash")
	}
}

func TestFingerprint(t *testing.T) {
	a := Fingerprint("dataset", "temperature", []string{"time"}, []string{"station"})
	b := Fingerprint("dataset", "temperature", []string{"time"}, []string{"station"})
	if a != b {
		t.Errorf("fingerprint is not stable: %s != %s", a, b)
	}
	tests := []struct {
		name  string
		parts []interface{}
	}{
		{"swapped", []interface{}{"temperature", "dataset", []string{"time"}, []string{"station"}}},
		{"moved axis", []interface{}{"dataset", "temperature", []string{}, []string{"time", "station"}}},
		{"other dataset", []interface{}{"dataset2", "temperature", []string{"time"}, []string{"station"}}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if c := Fingerprint(test.parts...); c == a {
				t.Errorf("collision with %v", test.parts)
			}
		})
	}
	if len(a) != 32 {
		t.Errorf("fingerprint length %d", len(a))
	}
}
