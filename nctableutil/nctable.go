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

// Package nctableutil contains the command-line interface for nctable.
package nctableutil

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/nctable"
	"github.com/spatialmodel/nctable/internal/sample"
)

// Load reads the NetCDF file at path into s.
func Load(ctx context.Context, s *nctable.Session, path string) (*nctable.Dataset, error) {
	path = os.ExpandEnv(path)
	b, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("nctable: reading input file: %v", err)
	}
	ds, err := s.Load(ctx, b)
	if err != nil {
		return nil, fmt.Errorf("nctable: loading %s: %w", path, err)
	}
	return ds, nil
}

// Inspect writes the structure of ds to w in the given format.
func Inspect(w io.Writer, ds *nctable.Dataset, format string) error {
	switch format {
	case formatJSON:
		e := json.NewEncoder(w)
		e.SetIndent("", "  ")
		return e.Encode(ds.Describe(-1))
	case formatTOML:
		return toml.NewEncoder(w).Encode(ds.Describe(-1))
	default:
		_, err := fmt.Fprintln(w, ds)
		return err
	}
}

// Preview writes the first rows of the table selected by rc to w.
func Preview(ctx context.Context, w io.Writer, s *nctable.Session, rc nctable.RequestContext) error {
	full, err := s.Table(ctx, rc)
	if err != nil {
		return err
	}
	t := nctable.Window(full, nctable.ParseLimit(rc.Preview))
	if err := writeTable(w, t); err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "\n[%d rows x %d columns]\n", full.Len(), len(full.Columns))
	return err
}

// writeTable writes t to w as aligned text. Missing values are shown
// as NaN.
func writeTable(w io.Writer, t *nctable.Table) error {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(t.ColumnNames(), "\t"))
	cells := make([]string, len(t.Columns))
	for _, row := range t.Rows {
		for j, v := range row {
			cells[j] = v.Format(t.Columns[j].Type)
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	return tw.Flush()
}

// Export writes the table selected by rc to a spreadsheet in outDir
// and returns the path of the file.
func Export(ctx context.Context, s *nctable.Session, rc nctable.RequestContext, outDir string) (string, error) {
	a, err := s.Export(ctx, rc)
	if err != nil {
		return "", err
	}
	path := filepath.Join(outDir, a.FileName)
	if err := ioutil.WriteFile(path, a.Data, 0644); err != nil {
		return "", fmt.Errorf("nctable: writing export file: %v", err)
	}
	return path, nil
}

// Serve serves srv at address until ctx is done.
func Serve(ctx context.Context, address string, srv *nctable.Server) error {
	hs := &http.Server{
		Addr:              address,
		Handler:           srv,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}
	errc := make(chan error, 1)
	go func() {
		logrus.WithField("address", address).Info("web server listening")
		errc <- hs.ListenAndServe()
	}()
	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	logrus.Info("shutting down web server")
	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return hs.Shutdown(sctx)
}

// Sample writes the sample dataset to path.
func Sample(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("nctable: creating sample file: %v", err)
	}
	if err := sample.Write(f); err != nil {
		f.Close()
		return fmt.Errorf("nctable: writing sample file: %v", err)
	}
	return f.Close()
}
