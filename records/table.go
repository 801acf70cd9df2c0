package records

// Table is the output of compilation: every def in declaration order plus an
// index by name.  Tables are read-only once built.
type Table struct {
	// Filename is the path of the root source file the table was built from.
	Filename string

	// Defines lists the defs in the order they were declared.  Backends that
	// assign sequential codes rely on this order.
	Defines []*Define

	byName map[string]*Define
}

// NewTable creates a new table over the given defines.  Def names are assumed
// to be unique: the parser enforces that when they are declared.
func NewTable(filename string, defines []*Define) *Table {
	t := &Table{
		Filename: filename,
		Defines:  defines,
		byName:   make(map[string]*Define, len(defines)),
	}

	for _, d := range defines {
		t.byName[d.Name] = d
	}

	return t
}

// Lookup returns the def with the given name.
func (t *Table) Lookup(name string) (*Define, bool) {
	d, ok := t.byName[name]
	return d, ok
}

// InstancesOf returns the defs that are instances of the named class in table
// order.
func (t *Table) InstancesOf(className string) []*Define {
	var defs []*Define
	for _, d := range t.Defines {
		if d.InstanceOf(className) {
			defs = append(defs, d)
		}
	}

	return defs
}
