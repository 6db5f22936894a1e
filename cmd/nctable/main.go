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

// Command nctable is a command-line interface for tabulating the
// variables of NetCDF files.
package main

import (
	"fmt"
	"os"

	"github.com/spatialmodel/nctable/nctableutil"
)

func main() {
	if len(os.Args) == 1 { // With no command, start the web server.
		os.Args = append(os.Args, "serve")
	}
	if err := nctableutil.Root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
