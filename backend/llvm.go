package backend

import (
	"fmt"
	"io"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"

	"tblgen/records"
)

// defaultPrefix is the symbol prefix used when the `prefix` property is unset.
const defaultPrefix = "tblgen"

// llvmBackend emits the defs of a table as constant globals of an LLVM IR
// module.
type llvmBackend struct{}

func (llvmBackend) Generate(table *records.Table, props map[string]string, w io.Writer) error {
	prefix, ok := props["prefix"]
	if !ok {
		prefix = defaultPrefix
	} else if prefix == "" {
		return fmt.Errorf("llvm backend: property `prefix` must not be empty")
	}

	g := &llvmGenerator{
		prefix:  prefix + ".",
		mod:     ir.NewModule(),
		globals: make(map[*records.Define]*ir.Global),
		strs:    make(map[string]constant.Constant),
	}

	if table.Filename != "" {
		g.mod.SourceFilename = table.Filename
	}

	if err := g.generate(selectDefines(table, props)); err != nil {
		return err
	}

	_, err := io.WriteString(w, g.mod.String())
	return err
}

// llvmGenerator converts defs into LLVM globals.
type llvmGenerator struct {
	// prefix is prepended to the name of every public global.
	prefix string

	// mod is the module being generated.
	mod *ir.Module

	// globals maps each emitted def to its global.
	globals map[*records.Define]*ir.Global

	// strs interns string literals as pointers to their character data.
	strs map[string]constant.Constant

	// globalCounter is used to name anonymous globals.
	globalCounter int
}

// generate emits one global per def followed by the def table and count.
// Defs only reference earlier defs, so every reference target has already
// been emitted unless it was filtered out.
func (g *llvmGenerator) generate(defines []*records.Define) error {
	defPtrs := make([]constant.Constant, len(defines))

	for i, d := range defines {
		glob, err := g.genDefine(d)
		if err != nil {
			return err
		}

		defPtrs[i] = constant.NewBitCast(glob, types.I8Ptr)
	}

	defsType := types.NewArray(uint64(len(defines)), types.I8Ptr)
	defsGlob := g.mod.NewGlobalDef(g.prefix+"defs", constant.NewArray(defsType, defPtrs...))
	defsGlob.Immutable = true

	countGlob := g.mod.NewGlobalDef(g.prefix+"count", constant.NewInt(types.I64, int64(len(defines))))
	countGlob.Immutable = true

	return nil
}

// genDefine generates the global holding the members of a def.
func (g *llvmGenerator) genDefine(d *records.Define) (*ir.Global, error) {
	fieldTypes := make([]types.Type, len(d.Members))
	fields := make([]constant.Constant, len(d.Members))

	for i, m := range d.Members {
		field, err := g.genValue(m.Value)
		if err != nil {
			return nil, fmt.Errorf("llvm backend: member `%s` of def `%s`: %w", m.Name, d.Name, err)
		}

		fieldTypes[i] = field.Type()
		fields[i] = field
	}

	glob := g.mod.NewGlobalDef(g.prefix+d.Name, constant.NewStruct(types.NewStruct(fieldTypes...), fields...))
	glob.Immutable = true

	g.globals[d] = glob
	return glob, nil
}

// genValue converts a resolved member value into a constant.
func (g *llvmGenerator) genValue(v records.Value) (constant.Constant, error) {
	switch v := v.(type) {
	case *records.IntLit:
		return constant.NewInt(types.I64, v.Val), nil
	case *records.StringLit:
		return g.genString(v.Val), nil
	case *records.DefRef:
		if glob, ok := g.globals[v.Def]; ok {
			return constant.NewBitCast(glob, types.I8Ptr), nil
		}

		// the referenced def was filtered out
		return constant.NewNull(types.I8Ptr), nil
	}

	return nil, fmt.Errorf("cannot emit %s value `%s`", v.Kind(), v)
}

// genString returns an `i8*` to the NUL-terminated data of a string literal.
func (g *llvmGenerator) genString(s string) constant.Constant {
	if ptr, ok := g.strs[s]; ok {
		return ptr
	}

	data := constant.NewCharArrayFromString(s + "\x00")
	glob := g.mod.NewGlobalDef(fmt.Sprintf("__strlit.%d", g.globalCounter), data)
	glob.Immutable = true
	glob.Linkage = enum.LinkagePrivate
	g.globalCounter++

	zero := constant.NewInt(types.I64, 0)
	ptr := constant.NewGetElementPtr(data.Typ, glob, zero, zero)

	g.strs[s] = ptr
	return ptr
}
