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
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/lnashier/viper"
	"github.com/spatialmodel/nctable"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	// Options are the configuration options available to nctable.
	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "LogLevel",
			usage: `
              LogLevel is the minimum level of the messages that are logged:
              one of debug, info, warning, or error.`,
			defaultVal: "info",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "variable",
			usage: `
              variable is the name of the data variable to tabulate.`,
			shorthand:  "v",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{previewCmd.Flags(), exportCmd.Flags(), summaryCmd.Flags()},
		},
		{
			name: "rows",
			usage: `
              rows lists the dimensions that index the table rows.
              Dimensions of the variable that are in neither rows nor
              columns are added to the rows.`,
			shorthand:  "r",
			defaultVal: []string{},
			flagsets:   []*pflag.FlagSet{previewCmd.Flags(), exportCmd.Flags()},
		},
		{
			name: "columns",
			usage: `
              columns lists the dimensions whose values are spread across
              the table columns. If it is empty, the table is the flattened
              variable with one row per element.`,
			shorthand:  "c",
			defaultVal: []string{},
			flagsets:   []*pflag.FlagSet{previewCmd.Flags(), exportCmd.Flags()},
		},
		{
			name: "PreviewLimit",
			usage: `
              PreviewLimit is the number of rows to print. It can be a
              number or "All".`,
			shorthand:  "n",
			defaultVal: "5",
			flagsets:   []*pflag.FlagSet{previewCmd.Flags()},
		},
		{
			name: "ExportLimit",
			usage: `
              ExportLimit is the number of rows written to the spreadsheet.
              It can be a number or "All". Invalid or non-positive numbers
              are replaced with 100.`,
			defaultVal: "All",
			flagsets:   []*pflag.FlagSet{exportCmd.Flags()},
		},
		{
			name: "format",
			usage: `
              format is the output format of the dataset structure: text,
              json, or toml.`,
			shorthand:  "f",
			defaultVal: "text",
			flagsets:   []*pflag.FlagSet{inspectCmd.Flags()},
		},
		{
			name: "OutputDir",
			usage: `
              OutputDir is the directory where exported spreadsheets are written.
              It can include environment variables.`,
			shorthand:  "o",
			defaultVal: ".",
			flagsets:   []*pflag.FlagSet{exportCmd.Flags()},
		},
		{
			name: "Address",
			usage: `
              Address is the network address the web server listens on.`,
			defaultVal: ":7171",
			flagsets:   []*pflag.FlagSet{serveCmd.Flags()},
		},
		{
			name: "MaxUploadMB",
			usage: `
              MaxUploadMB is the size limit of uploaded files, in megabytes.`,
			defaultVal: 256,
			flagsets:   []*pflag.FlagSet{serveCmd.Flags()},
		},
		{
			name: "MaxSessions",
			usage: `
              MaxSessions is the number of user sessions the web server keeps
              in memory. The least recently used session is discarded
              when the limit is reached.`,
			defaultVal: 64,
			flagsets:   []*pflag.FlagSet{serveCmd.Flags()},
		},
		{
			name: "CacheEntries",
			usage: `
              CacheEntries is the number of decoded datasets, flattened
              tables, and pivoted tables each session keeps.`,
			defaultVal: nctable.DefaultCacheEntries,
			flagsets:   []*pflag.FlagSet{serveCmd.Flags(), previewCmd.Flags(), exportCmd.Flags(), summaryCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("NCTABLE")
	Cfg.AutomaticEnv()

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch v := option.defaultVal.(type) {
			case string:
				set.StringP(option.name, option.shorthand, v, option.usage)
			case []string:
				set.StringSliceP(option.name, option.shorthand, v, option.usage)
			case bool:
				set.BoolP(option.name, option.shorthand, v, option.usage)
			case int:
				set.IntP(option.name, option.shorthand, v, option.usage)
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(inspectCmd)
	Root.AddCommand(previewCmd)
	Root.AddCommand(exportCmd)
	Root.AddCommand(summaryCmd)
	Root.AddCommand(serveCmd)
	Root.AddCommand(sampleCmd)
}

// setConfig finds and reads in the configuration file, if there is one,
// and configures logging.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(os.ExpandEnv(cfgpath))
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("nctable: problem reading configuration file: %v", err)
		}
	}
	return setLogger(Cfg.GetString("LogLevel"))
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "nctable",
	Short: "Tabulate the variables of NetCDF files.",
	Long: `nctable turns the variables of NetCDF files into tables. A variable can be
flattened into one row per element or pivoted so that the values of some of
its dimensions become columns. Tables can be previewed, summarized, and
exported to spreadsheets, either from the command line or through the web
server started by the 'serve' subcommand.

Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'NCTABLE_var' where 'var' is the
name of the variable to be set.
Refer to https://github.com/spf13/viper for additional configuration information.`,
	DisableAutoGenTag: true,
	SilenceUsage:      true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of nctable.",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "nctable v%s\n", nctable.Version)
	},
	DisableAutoGenTag: true,
}

var inspectCmd = &cobra.Command{
	Use:   "inspect FILE",
	Short: "Print the structure of a NetCDF file",
	Long: `inspect prints the dimensions, coordinates, variables, and attributes
of a NetCDF file. With --format=json or --format=toml the structure is
printed in a machine-readable form and all coordinate values are listed.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := checkFormat(Cfg.GetString("format"))
		if err != nil {
			return err
		}
		ds, err := Load(context.Background(), nctable.NewSession(1), args[0])
		if err != nil {
			return err
		}
		return Inspect(cmd.OutOrStdout(), ds, format)
	},
	DisableAutoGenTag: true,
}

var previewCmd = &cobra.Command{
	Use:   "preview FILE",
	Short: "Print the first rows of a variable's table",
	Long: `preview prints the first rows of the table of the selected variable,
arranged according to the --rows and --columns options.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rc, err := requestContext(Cfg)
		if err != nil {
			return err
		}
		s := nctable.NewSession(Cfg.GetInt("CacheEntries"))
		if _, err := Load(context.Background(), s, args[0]); err != nil {
			return err
		}
		return Preview(context.Background(), cmd.OutOrStdout(), s, rc)
	},
	DisableAutoGenTag: true,
}

var exportCmd = &cobra.Command{
	Use:   "export FILE",
	Short: "Write a variable's table to a spreadsheet",
	Long: `export writes the table of the selected variable to an .xlsx
spreadsheet named after the variable and the row limit, for example
temperature_Top100.xlsx or temperature_ALL.xlsx, in OutputDir.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rc, err := requestContext(Cfg)
		if err != nil {
			return err
		}
		outDir, err := checkOutputDir(Cfg.GetString("OutputDir"))
		if err != nil {
			return err
		}
		s := nctable.NewSession(Cfg.GetInt("CacheEntries"))
		if _, err := Load(context.Background(), s, args[0]); err != nil {
			return err
		}
		path, err := Export(context.Background(), s, rc, outDir)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
	DisableAutoGenTag: true,
}

var summaryCmd = &cobra.Command{
	Use:   "summary FILE",
	Short: "Print descriptive statistics of a variable",
	Long: `summary prints the count, mean, standard deviation, minimum, quartiles,
and maximum of each numeric column of the flattened table of the selected
variable. Missing values are not counted.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rc, err := requestContext(Cfg)
		if err != nil {
			return err
		}
		s := nctable.NewSession(Cfg.GetInt("CacheEntries"))
		if _, err := Load(context.Background(), s, args[0]); err != nil {
			return err
		}
		sum, err := s.Summary(context.Background(), rc)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), sum)
		return nil
	},
	DisableAutoGenTag: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web server",
	Long: `serve starts an HTTP server where NetCDF files can be uploaded,
and their variables previewed, summarized, and exported. Each client
gets its own session. The server stops on interrupt.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		maxUpload, err := checkMaxUpload(Cfg.GetInt("MaxUploadMB"))
		if err != nil {
			return err
		}
		srv := nctable.NewServer(Cfg.GetInt("MaxSessions"), Cfg.GetInt("CacheEntries"), maxUpload)
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		return Serve(ctx, Cfg.GetString("Address"), srv)
	},
	DisableAutoGenTag: true,
}

var sampleCmd = &cobra.Command{
	Use:   "sample FILE",
	Short: "Write a sample NetCDF file",
	Long: `sample writes a small NetCDF file with temperature, pressure, and
station variables that can be used to try out the other commands.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return Sample(os.ExpandEnv(args[0]))
	},
	DisableAutoGenTag: true,
}
