package cmd

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kr/pretty"

	"tblgen/backend"
	"tblgen/common"
	"tblgen/records"
	"tblgen/report"
)

// failingBackend writes partial output and then fails.
type failingBackend struct{}

var errBackendFailed = errors.New("backend failed")

func (failingBackend) Generate(table *records.Table, props map[string]string, w io.Writer) error {
	io.WriteString(w, "partial output\n")
	return errBackendFailed
}

func init() {
	backend.Register("test-fail", "always fails", failingBackend{})
}

const driverSource = `
class Op<string m, int c = 0> { string mnemonic = m; int num = c; }
def NOP : Op<"nop">;
def ADD : Op<"add", 1>;
`

func writeFile(t *testing.T, path, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()

	buff, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	return string(buff)
}

func TestRunToFile(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "ops.td")
	output := filepath.Join(dir, "out", "ops.txt")
	writeFile(t, input, driverSource)

	err := Run(&Options{InputPath: input, OutputPath: output, LogLevel: "silent"}, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	got := readFile(t, output)
	if !strings.HasPrefix(got, "------------- Defs -----------------\ndef NOP {") {
		t.Errorf("unexpected output:\n%s", got)
	}
}

func TestRunToStdout(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "ops.td"), driverSource)

	var stdout bytes.Buffer
	err := Run(&Options{
		InputPath:   filepath.Join(dir, "ops"),
		BackendName: "llvm",
		Properties:  map[string]string{"prefix": "isa"},
		LogLevel:    "silent",
	}, &stdout)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if !strings.Contains(stdout.String(), "@isa.count = constant i64 2") {
		t.Errorf("unexpected output:\n%s", stdout.String())
	}
}

func TestRunUsesProjectFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "inc", "ops_base.td"), "class Op<string m, int c = 0> { string mnemonic = m; int num = c; }\n")
	writeFile(t, filepath.Join(dir, "src", "ops.td"), "include \"ops_base.td\"\ndef NOP : Op<\"nop\">;\n")
	writeFile(t, filepath.Join(dir, "src", common.ConfigFileName), `
[tablegen]
backend = "llvm"
output = "../build/ops.ll"
include-dirs = ["../inc"]

[properties]
prefix = "cfg"
class = "Op"
`)

	err := Run(&Options{InputPath: filepath.Join(dir, "src", "ops.td"), LogLevel: "silent"}, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if got := readFile(t, filepath.Join(dir, "build", "ops.ll")); !strings.Contains(got, "@cfg.NOP") {
		t.Errorf("unexpected output:\n%s", got)
	}

	// Options take precedence over the project file.
	output := filepath.Join(dir, "cli.txt")
	err = Run(&Options{
		InputPath:   filepath.Join(dir, "src", "ops.td"),
		OutputPath:  output,
		BackendName: "print-records",
		LogLevel:    "silent",
	}, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if got := readFile(t, output); !strings.Contains(got, "def NOP {") {
		t.Errorf("unexpected output:\n%s", got)
	}
}

func TestRunExplicitProjectFile(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "ops.td")
	writeFile(t, input, driverSource)

	confPath := filepath.Join(dir, "conf", "custom.toml")
	writeFile(t, confPath, "[properties]\nclass = \"Nothing\"\n")

	var stdout bytes.Buffer
	err := Run(&Options{InputPath: input, ConfigPath: confPath, LogLevel: "silent"}, &stdout)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if stdout.String() != "------------- Defs -----------------\n" {
		t.Errorf("class filter from the project file was not applied:\n%s", stdout.String())
	}

	err = Run(&Options{InputPath: input, ConfigPath: filepath.Join(dir, "missing.toml"), LogLevel: "silent"}, &stdout)
	if !os.IsNotExist(err) {
		t.Errorf("missing project file: got %v", err)
	}
}

func TestRunRemovesOutputOnFailure(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "ops.td")
	output := filepath.Join(dir, "ops.out")
	writeFile(t, input, driverSource)

	err := Run(&Options{InputPath: input, OutputPath: output, BackendName: "test-fail", LogLevel: "silent"}, &bytes.Buffer{})
	if !errors.Is(err, errBackendFailed) {
		t.Errorf("got %v, want the backend error", err)
	}

	if _, err := os.Stat(output); !os.IsNotExist(err) {
		t.Errorf("output file was left behind: %v", err)
	}
}

func TestRunCompileError(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "bad.td")
	output := filepath.Join(dir, "bad.out")
	writeFile(t, input, "def D : Missing;\n")

	err := Run(&Options{InputPath: input, OutputPath: output, LogLevel: "silent"}, &bytes.Buffer{})

	var cerr *report.CompileError
	if !errors.As(err, &cerr) || cerr.Kind != report.KindNaming {
		t.Errorf("got %v, want a name error", err)
	}

	if _, err := os.Stat(output); !os.IsNotExist(err) {
		t.Errorf("output file was created: %v", err)
	}
}

func TestRunUsageErrors(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "ops.td")
	writeFile(t, input, driverSource)

	if err := Run(&Options{InputPath: input, BackendName: "nope", LogLevel: "silent"}, &bytes.Buffer{}); err == nil {
		t.Error("unknown backend was accepted")
	}

	if err := Run(&Options{InputPath: input, LogLevel: "loud"}, &bytes.Buffer{}); err == nil {
		t.Error("unknown log level was accepted")
	}
}

func TestResolveSettingsLogLevel(t *testing.T) {
	s, err := resolveSettings(&Options{InputPath: "x.td", OutputPath: "x.out"})
	if err != nil || s.logLevel != report.LogLevelVerbose {
		t.Errorf("default log level = %d, %v", s.logLevel, err)
	}

	s, err = resolveSettings(&Options{InputPath: "x.td"})
	if err != nil || s.logLevel != report.LogLevelWarn {
		t.Errorf("log level with stdout output = %d, %v", s.logLevel, err)
	}

	s, err = resolveSettings(&Options{InputPath: "x.td", LogLevel: "error"})
	if err != nil || s.logLevel != report.LogLevelError {
		t.Errorf("explicit log level = %d, %v", s.logLevel, err)
	}

	if s.backendName != backend.DefaultName {
		t.Errorf("backend = %s, want %s", s.backendName, backend.DefaultName)
	}
}

func TestParseProperties(t *testing.T) {
	props, err := parseProperties("ARCH=amd64, prefix=isa,EMPTY=")
	if err != nil {
		t.Fatalf("parseProperties: %v", err)
	}

	want := map[string]string{"ARCH": "amd64", "prefix": "isa", "EMPTY": ""}
	if diff := pretty.Diff(props, want); len(diff) > 0 {
		t.Errorf("properties differ: %v", diff)
	}

	for _, bad := range []string{"ARCH", "A=B=C", "=x"} {
		if _, err := parseProperties(bad); err == nil {
			t.Errorf("parseProperties(%q) succeeded", bad)
		}
	}
}

func TestResolveSettingsMergesIncludeDirs(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, common.ConfigFileName), "[tablegen]\ninclude-dirs = [\"inc\", \"shared\"]\n")

	cliInc := filepath.Join(dir, "shared")
	s, err := resolveSettings(&Options{
		InputPath:   filepath.Join(dir, "ops.td"),
		IncludeDirs: []string{cliInc, "extra"},
	})
	if err != nil {
		t.Fatalf("resolveSettings: %v", err)
	}

	want := []string{cliInc, "extra", filepath.Join(dir, "inc")}
	if diff := pretty.Diff(s.includeDirs, want); len(diff) > 0 {
		t.Errorf("include dirs differ: %v", diff)
	}
}
