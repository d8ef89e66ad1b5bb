package importexport

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wasmglue/jspostproc/internal/ast"
	"github.com/wasmglue/jspostproc/internal/extrainfo"
	"github.com/wasmglue/jspostproc/internal/js_parser"
	"github.com/wasmglue/jspostproc/internal/js_printer"
)

func parse(t *testing.T, src string) *ast.Node {
	t.Helper()
	prog, err := js_parser.Parse(src, js_parser.Options{})
	require.NoError(t, err)
	return prog
}

func print(prog *ast.Node) string {
	return js_printer.Print(prog, js_printer.Options{})
}

func TestApplyRenamesImportValueAndExportDeclaratorID(t *testing.T) {
	prog := parse(t, `var wasmImports = { env_log: _log };
var _malloc = wasmExports['malloc'];
function _log() { _malloc(); }`)
	info := &extrainfo.Info{Mapping: map[string]string{"_log": "a", "_malloc": "b"}}
	require.NoError(t, Apply(prog, info))

	out := print(prog)
	assert.Contains(t, out, "env_log: a")
	assert.Contains(t, out, "var b = wasmExports[\"malloc\"];")
	assert.Contains(t, out, "function a()")
	assert.Contains(t, out, "b();")
}

func TestApplyLeavesWasmSideStringLiteralsAlone(t *testing.T) {
	prog := parse(t, `var _malloc = wasmExports['malloc'];`)
	info := &extrainfo.Info{Mapping: map[string]string{"_malloc": "a", "malloc": "ignored-not-an-identifier"}}
	require.NoError(t, Apply(prog, info))

	out := print(prog)
	assert.Contains(t, out, "wasmExports[\"malloc\"]")
}

func TestApplyIsNoopWithoutMapping(t *testing.T) {
	prog := parse(t, `var _malloc = wasmExports['malloc'];`)
	require.NoError(t, Apply(prog, nil))
	assert.Contains(t, print(prog), "wasmExports[\"malloc\"]")
}
