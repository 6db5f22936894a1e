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
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/nctable"
	"github.com/spf13/cast"
)

// setLogger sets the level of the standard logger and formats its
// output with full timestamps.
func setLogger(level string) error {
	l, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		return fmt.Errorf("nctable: invalid LogLevel: %v", err)
	}
	logrus.SetLevel(l)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
	return nil
}

// Structure output formats.
const (
	formatText = "text"
	formatJSON = "json"
	formatTOML = "toml"
)

// checkFormat makes sure the structure output format is one that
// is supported.
func checkFormat(f string) (string, error) {
	f = strings.ToLower(strings.TrimSpace(f))
	switch f {
	case formatText, formatJSON, formatTOML:
		return f, nil
	}
	return f, fmt.Errorf("the format option needs to be set to either text, json, or toml, "+
		"but is currently set to `%s`", f)
}

// checkOutputDir expands any environment variables in the output
// directory and makes sure it exists.
func checkOutputDir(dir string) (string, error) {
	if dir == "" {
		return "", fmt.Errorf(`you need to specify an output directory (for example: OutputDir=".")`)
	}
	dir = os.ExpandEnv(dir)
	fi, err := os.Stat(dir)
	if err != nil {
		return dir, fmt.Errorf("nctable: the OutputDir directory doesn't exist: %v", err)
	}
	if !fi.IsDir() {
		return dir, fmt.Errorf("nctable: OutputDir `%s` is not a directory", dir)
	}
	return dir, nil
}

// checkMaxUpload converts the upload limit in megabytes to bytes.
func checkMaxUpload(mb int) (int64, error) {
	if mb <= 0 {
		return 0, fmt.Errorf("MaxUploadMB needs to be positive, but is currently set to %d", mb)
	}
	return int64(mb) << 20, nil
}

// requestContext reads the table selections from cfg.
func requestContext(cfg *viper.Viper) (nctable.RequestContext, error) {
	rc := nctable.RequestContext{
		Variable: strings.TrimSpace(cfg.GetString("variable")),
		Preview:  cfg.GetString("PreviewLimit"),
		Export:   cfg.GetString("ExportLimit"),
	}
	if rc.Variable == "" {
		return rc, fmt.Errorf("you need to specify a variable (for example: --variable=temperature)")
	}
	var err error
	if rc.Rows, err = toStringSliceE(cfg.Get("rows")); err != nil {
		return rc, fmt.Errorf("nctable: invalid rows: %v", err)
	}
	if rc.Columns, err = toStringSliceE(cfg.Get("columns")); err != nil {
		return rc, fmt.Errorf("nctable: invalid columns: %v", err)
	}
	return rc, nil
}

// toStringSliceE converts a list of dimension names from the command line,
// an environment variable, or a configuration file to a slice.
// Comma-separated strings, optionally in brackets, are split and empty
// names are dropped.
func toStringSliceE(s interface{}) ([]string, error) {
	var ss []string
	switch v := s.(type) {
	case nil:
		return nil, nil
	case string:
		v = strings.TrimSuffix(strings.TrimPrefix(strings.TrimSpace(v), "["), "]")
		ss = strings.Split(v, ",")
	default:
		var err error
		if ss, err = cast.ToStringSliceE(v); err != nil {
			return nil, err
		}
	}
	var o []string
	for _, x := range ss {
		if x = strings.TrimSpace(x); x != "" {
			o = append(o, x)
		}
	}
	return o, nil
}
