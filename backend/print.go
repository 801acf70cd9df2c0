package backend

import (
	"bufio"
	"fmt"
	"io"

	"tblgen/records"
)

// printBackend dumps the defs of a table in source form.
type printBackend struct{}

func (printBackend) Generate(table *records.Table, props map[string]string, w io.Writer) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, "------------- Defs -----------------")
	for _, d := range selectDefines(table, props) {
		fmt.Fprintln(bw, d)
	}

	return bw.Flush()
}
