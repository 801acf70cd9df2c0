package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kr/pretty"

	"tblgen/common"
	"tblgen/report"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()

	path := filepath.Join(dir, common.ConfigFileName)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	return path
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	absInc := filepath.Join(t.TempDir(), "shared")

	path := writeConfig(t, dir, `
[tablegen]
backend = "llvm"
output = "out/records.ll"
include-dirs = ["include", "`+filepath.ToSlash(absInc)+`"]
loglevel = "warn"

[properties]
prefix = "isa"
class = "Inst"
`)

	conf, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	want := &Config{
		Path:         path,
		Backend:      "llvm",
		Output:       filepath.Join(dir, "out", "records.ll"),
		IncludeDirs:  []string{filepath.Join(dir, "include"), filepath.Clean(absInc)},
		LogLevelName: "warn",
		LogLevel:     report.LogLevelWarn,
		Properties:   map[string]string{"prefix": "isa", "class": "Inst"},
	}

	if diff := pretty.Diff(conf, want); len(diff) > 0 {
		t.Errorf("config differs: %v", diff)
	}
}

func TestLoadPropertiesOnly(t *testing.T) {
	conf, err := Load(writeConfig(t, t.TempDir(), "[properties]\nARCH = \"amd64\"\n"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if conf.Backend != "" || conf.Output != "" || conf.LogLevelName != "" {
		t.Errorf("unset fields were filled: %# v", pretty.Formatter(conf))
	}

	if conf.Properties["ARCH"] != "amd64" {
		t.Errorf("ARCH = %q", conf.Properties["ARCH"])
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		msg     string
	}{
		{"bad log level", "[tablegen]\nloglevel = \"loud\"\n", "unknown log level"},
		{"empty include dir", "[tablegen]\ninclude-dirs = [\"\"]\n", "must not be empty"},
		{"malformed toml", "[tablegen\nbackend = 1\n", ""},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, t.TempDir(), test.content))
			if err == nil {
				t.Fatal("Load succeeded")
			}

			if !strings.Contains(err.Error(), test.msg) {
				t.Errorf("error %q does not contain %q", err, test.msg)
			}
		})
	}

	if _, err := Load(filepath.Join(t.TempDir(), common.ConfigFileName)); !os.IsNotExist(err) {
		t.Errorf("missing file: got %v", err)
	}
}

func TestFind(t *testing.T) {
	dir := t.TempDir()

	if _, ok := Find(dir); ok {
		t.Error("found a project file in an empty directory")
	}

	path := writeConfig(t, dir, "")
	if got, ok := Find(dir); !ok || got != path {
		t.Errorf("Find = %q, %v; want %q", got, ok, path)
	}
}
