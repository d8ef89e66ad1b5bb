// Package dump implements the registered "dump" pass: a debug-print
// checkpoint rather than a rewrite, the generic "print the current tree
// between stages" pattern any AST-pipeline tool eventually grows. It
// performs no mutation.
package dump

import (
	"encoding/json"
	"io"

	"github.com/wasmglue/jspostproc/internal/ast"
)

// Dump marshals program to indented JSON and writes it to w, letting a pass
// list like `JSDCE dump minifyLocals` inspect the tree between stages.
func Dump(program *ast.Node, w io.Writer) error {
	data, err := json.MarshalIndent(program, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}
