// Package config loads the optional TOML project file that supplies default
// driver settings.
package config

import (
	"errors"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml"

	"tblgen/common"
	"tblgen/report"
)

// tomlConfigFile represents the project file as it is encoded in TOML.
type tomlConfigFile struct {
	TableGen   *tomlTableGen     `toml:"tablegen"`
	Properties map[string]string `toml:"properties,omitempty"`
}

// tomlTableGen represents the `[tablegen]` table as it is encoded in TOML.
type tomlTableGen struct {
	Backend     string   `toml:"backend,omitempty"`
	Output      string   `toml:"output,omitempty"`
	IncludeDirs []string `toml:"include-dirs,omitempty"`
	LogLevel    string   `toml:"loglevel,omitempty"`
}

// Config is a loaded project file.  Empty fields were not set in the file.
type Config struct {
	// The path of the project file.
	Path string

	// The name of the backend to run.
	Backend string

	// The output path.  Relative paths in the file are resolved against the
	// directory of the project file.
	Output string

	// The include directories, resolved like Output.
	IncludeDirs []string

	// The log level name and its value.  LogLevel is only meaningful if
	// LogLevelName is not empty.
	LogLevelName string
	LogLevel     int

	// The backend properties.
	Properties map[string]string
}

// Find looks for a project file in dir.  It returns the path to the file and
// whether it exists.
func Find(dir string) (string, bool) {
	path := filepath.Join(dir, common.ConfigFileName)

	finfo, err := os.Stat(path)
	if err != nil || finfo.IsDir() {
		return "", false
	}

	return path, true
}

// Load loads and validates the project file at path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buff, err := ioutil.ReadAll(f)
	if err != nil {
		return nil, err
	}

	tcf := &tomlConfigFile{}
	if err := toml.Unmarshal(buff, tcf); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	conf := &Config{
		Path:       path,
		Properties: tcf.Properties,
	}

	if conf.Properties == nil {
		conf.Properties = make(map[string]string)
	}

	// the `[tablegen]` table may be omitted entirely
	if tcf.TableGen == nil {
		return conf, nil
	}

	if err := validateConfig(tcf.TableGen); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	root := filepath.Dir(path)

	conf.Backend = tcf.TableGen.Backend
	conf.Output = resolvePath(root, tcf.TableGen.Output)
	for _, dir := range tcf.TableGen.IncludeDirs {
		conf.IncludeDirs = append(conf.IncludeDirs, resolvePath(root, dir))
	}

	if tcf.TableGen.LogLevel != "" {
		conf.LogLevelName = tcf.TableGen.LogLevel
		conf.LogLevel, _ = report.ParseLogLevel(tcf.TableGen.LogLevel)
	}

	return conf, nil
}

// validateConfig checks that the values of the `[tablegen]` table are valid.
func validateConfig(ttg *tomlTableGen) error {
	if ttg.LogLevel != "" {
		if _, ok := report.ParseLogLevel(ttg.LogLevel); !ok {
			return fmt.Errorf("unknown log level `%s`", ttg.LogLevel)
		}
	}

	for _, dir := range ttg.IncludeDirs {
		if dir == "" {
			return errors.New("include directories must not be empty")
		}
	}

	return nil
}

// resolvePath resolves a path from the project file against its directory.
func resolvePath(root, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}

	return filepath.Join(root, path)
}
