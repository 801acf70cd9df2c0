// Package cmd is the top-level driver package for the record compiler: it
// parses command-line arguments, merges them with the project file, and runs
// the parser and the selected backend.
package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"tblgen/backend"
	"tblgen/common"
	"tblgen/config"
	"tblgen/records"
	"tblgen/report"
	"tblgen/syntax"
)

// Options configures a single run of the compiler.  Empty fields fall back to
// the project file and then to the defaults.
type Options struct {
	// The path to the root source file.  The source file extension is added
	// if the path has no extension.
	InputPath string

	// The path to write output to.  Output goes to stdout if no output path is
	// given here or in the project file.
	OutputPath string

	// The name of the backend to run.
	BackendName string

	// The backend properties.  These take precedence over the properties of
	// the project file.
	Properties map[string]string

	// Include directories searched before those of the project file.
	IncludeDirs []string

	// The path to the project file.  If empty, the project file is looked for
	// in the directory of the input file.
	ConfigPath string

	// The name of the log level.  If empty, the level of the project file is
	// used, or verbose if the project file sets none.
	LogLevel string
}

// settings is the result of merging the options with the project file.
type settings struct {
	inputPath   string
	outputPath  string
	backendName string
	props       map[string]string
	includeDirs []string
	logLevel    int
}

// Run runs the compiler.  Errors are displayed through the reporter as well as
// returned.  Generated output is written to stdout if no output path is set.
// No output file is left behind if generation fails.
func Run(opts *Options, stdout io.Writer) error {
	s, err := resolveSettings(opts)
	report.InitReporter(s.logLevel)
	if err != nil {
		report.ReportStdError("Config Error", err)
		report.ReportFinished(s.outputPath)
		return err
	}

	err = run(s, stdout)
	report.ReportFinished(s.outputPath)
	return err
}

// run parses the input and runs the backend.
func run(s *settings, stdout io.Writer) error {
	b, ok := backend.Lookup(s.backendName)
	if !ok {
		err := fmt.Errorf("unknown backend `%s`", s.backendName)
		report.ReportStdError("Usage Error", err)
		return err
	}

	report.ReportCompileHeader(s.backendName)
	report.ReportInfo("Parsing", s.inputPath)

	table, err := syntax.ParseFile(s.inputPath, s.includeDirs)
	if err != nil {
		report.ReportError("File Error", err)
		return err
	}

	report.ReportInfo("Generating", fmt.Sprintf("%d defs", len(table.Defines)))

	if s.outputPath == "" {
		err = b.Generate(table, s.props, stdout)
	} else {
		err = generateFile(b, table, s.props, s.outputPath)
	}

	if err != nil {
		report.ReportStdError("Backend Error", err)
		return err
	}

	return nil
}

// generateFile runs a backend into the file at path.  The file is removed if
// generation fails.
func generateFile(b backend.Backend, table *records.Table, props map[string]string, path string) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}

	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}

		if err != nil {
			os.Remove(path)
		}
	}()

	return b.Generate(table, props, f)
}

// -----------------------------------------------------------------------------

// resolveSettings merges the options with the project file.  The returned
// settings are filled in as far as possible even if an error occurs so that
// the error can be reported at the right log level.
func resolveSettings(opts *Options) (*settings, error) {
	s := &settings{
		inputPath:   opts.InputPath,
		outputPath:  opts.OutputPath,
		backendName: opts.BackendName,
		props:       make(map[string]string),
		includeDirs: append([]string(nil), opts.IncludeDirs...),
		logLevel:    report.LogLevelVerbose,
	}

	if filepath.Ext(s.inputPath) == "" {
		s.inputPath += common.SourceFileExt
	}

	conf, confErr := loadConfig(opts.ConfigPath, filepath.Dir(s.inputPath))
	if conf != nil {
		if s.outputPath == "" {
			s.outputPath = conf.Output
		}

		if s.backendName == "" {
			s.backendName = conf.Backend
		}

		seen := make(map[string]bool, len(s.includeDirs))
		for _, dir := range s.includeDirs {
			seen[dir] = true
		}

		for _, dir := range conf.IncludeDirs {
			if !seen[dir] {
				s.includeDirs = append(s.includeDirs, dir)
				seen[dir] = true
			}
		}

		for name, value := range conf.Properties {
			s.props[name] = value
		}

		if conf.LogLevelName != "" {
			s.logLevel = conf.LogLevel
		}
	}

	for name, value := range opts.Properties {
		s.props[name] = value
	}

	if s.backendName == "" {
		s.backendName = backend.DefaultName
	}

	var err error
	if opts.LogLevel != "" {
		if level, ok := report.ParseLogLevel(opts.LogLevel); ok {
			s.logLevel = level
		} else {
			err = fmt.Errorf("unknown log level `%s`", opts.LogLevel)
		}
	}

	// progress messages would be mixed into the generated output
	if s.outputPath == "" && s.logLevel > report.LogLevelWarn {
		s.logLevel = report.LogLevelWarn
	}

	if confErr != nil {
		return s, confErr
	}

	return s, err
}

// loadConfig loads the project file at path, or the one in dir if no path is
// given.  It returns nil and no error if there is no project file to load.
func loadConfig(path, dir string) (*config.Config, error) {
	if path == "" {
		var ok bool
		if path, ok = config.Find(dir); !ok {
			return nil, nil
		}
	}

	return config.Load(path)
}

// parseProperties parses a comma-separated list of `NAME=VALUE` properties.
func parseProperties(list string) (map[string]string, error) {
	props := make(map[string]string)

	for _, entry := range splitList(list) {
		parts := strings.Split(entry, "=")
		if len(parts) != 2 || parts[0] == "" {
			return nil, fmt.Errorf("malformed property `%s`: expected NAME=VALUE", entry)
		}

		props[parts[0]] = parts[1]
	}

	return props, nil
}

// splitList splits a comma-separated command-line list, dropping empty items.
func splitList(list string) []string {
	var items []string
	for _, item := range strings.Split(list, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}

	return items
}
