// Package backend holds the generators that turn a table of records into
// output artifacts.  Backends are registered by name and selected by the
// driver.
package backend

import (
	"fmt"
	"io"
	"sort"

	"tblgen/records"
)

// Backend generates an artifact from a table of records.  Generation must be
// deterministic: the same table and properties always produce the same
// output.
type Backend interface {
	// Generate writes the artifact for table to w.  props holds the
	// `NAME=VALUE` properties given to the driver; backends ignore the
	// properties they do not recognize.
	Generate(table *records.Table, props map[string]string, w io.Writer) error
}

// DefaultName is the name of the backend used when none is selected.
const DefaultName = "print-records"

type registration struct {
	help    string
	backend Backend
}

var registry = make(map[string]*registration)

// Register adds a backend to the registry.  It panics if the name is already
// taken.
func Register(name, help string, b Backend) {
	if _, ok := registry[name]; ok {
		panic(fmt.Sprintf("backend: `%s` registered twice", name))
	}

	registry[name] = &registration{help: help, backend: b}
}

// Lookup returns the backend registered with the given name.
func Lookup(name string) (Backend, bool) {
	if reg, ok := registry[name]; ok {
		return reg.backend, true
	}

	return nil, false
}

// Help returns the help text of the named backend.
func Help(name string) string {
	if reg, ok := registry[name]; ok {
		return reg.help
	}

	return ""
}

// Names returns the names of all registered backends in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}

	sort.Strings(names)
	return names
}

func init() {
	Register(DefaultName, "print every def in source form", printBackend{})
	Register("llvm", "emit the defs as constant LLVM IR globals", llvmBackend{})
}

// -----------------------------------------------------------------------------

// selectDefines returns the defs a backend should emit: every def in the
// table, or only the instances of the class named by the `class` property.
func selectDefines(table *records.Table, props map[string]string) []*records.Define {
	if className := props["class"]; className != "" {
		return table.InstancesOf(className)
	}

	return table.Defines
}
