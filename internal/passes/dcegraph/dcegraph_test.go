package dcegraph

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wasmglue/jspostproc/internal/ast"
	"github.com/wasmglue/jspostproc/internal/js_parser"
)

func parse(t *testing.T, src string) *ast.Node {
	t.Helper()
	prog, err := js_parser.Parse(src, js_parser.Options{})
	require.NoError(t, err)
	return prog
}

func graphNodesByName(t *testing.T, raw []byte) map[string]Node {
	t.Helper()
	var nodes []Node
	require.NoError(t, json.Unmarshal(raw, &nodes))
	out := map[string]Node{}
	for _, n := range nodes {
		out[n.Name] = n
	}
	return out
}

func TestEmitDCEGraphScenarioC(t *testing.T) {
	src := `
var wasmImports = { env_log: _log };
var _malloc = wasmExports['malloc'];
function _log() { _malloc(); }
`
	prog := parse(t, src)
	raw, err := EmitDCEGraph(prog, nil, nil)
	require.NoError(t, err)
	byName := graphNodesByName(t, raw)

	imp, ok := byName["emcc$import$_log"]
	require.True(t, ok, "expected an import node for _log")
	assert.Equal(t, []string{"env", "env_log"}, imp.Import)
	assert.Contains(t, imp.Reaches, "emcc$defun$_log")

	exp, ok := byName["emcc$export$_malloc"]
	require.True(t, ok)
	assert.Equal(t, "malloc", exp.Export)

	defun, ok := byName["emcc$defun$_log"]
	require.True(t, ok)
	assert.Contains(t, defun.Reaches, "emcc$export$_malloc")
}

func TestEmitDCEGraphModuleExportAndDynCall(t *testing.T) {
	src := `
var _main = Module['_main'] = wasmExports['main'];
var dynCall_vi = Module['dynCall_vi'] = wasmExports['dynCall_vi'];
function invoke_vi(index) { dynCall('vi', index); }
`
	prog := parse(t, src)
	raw, err := EmitDCEGraph(prog, nil, nil)
	require.NoError(t, err)
	byName := graphNodesByName(t, raw)

	require.Contains(t, byName, "emcc$export$_main")
	require.Contains(t, byName, "emcc$export$dynCall_vi")

	defun, ok := byName["emcc$defun$invoke_vi"]
	require.True(t, ok)
	assert.Contains(t, defun.Reaches, "emcc$export$dynCall_vi")
}

func TestEmitDCEGraphRootViaModuleAccess(t *testing.T) {
	src := `
var _main = Module['_main'] = wasmExports['main'];
Module['_main']();
`
	prog := parse(t, src)
	raw, err := EmitDCEGraph(prog, nil, nil)
	require.NoError(t, err)
	byName := graphNodesByName(t, raw)
	assert.True(t, byName["emcc$export$_main"].Root)
}

func TestApplyDCEGraphRemovalsFiltersImportsAndExports(t *testing.T) {
	emitSrc := `
var wasmImports = { env_log: _log, env_abort: _abort };
var _malloc = wasmExports['malloc'];
var _free = wasmExports['free'];
function _log() {}
function _abort() {}
`
	prog := parse(t, emitSrc)
	graphJSON, err := EmitDCEGraph(prog, nil, nil)
	require.NoError(t, err)

	applySrc := `
var wasmImports = { env_log: _log, env_abort: _abort };
var _malloc = wasmExports['malloc'];
var _free = wasmExports['free'];
`
	applyProg := parse(t, applySrc)
	err = ApplyDCEGraphRemovals(applyProg, graphJSON, []string{"env_abort"}, []string{"free"})
	require.NoError(t, err)

	var declNames []string
	for _, stmt := range applyProg.List("body") {
		if stmt.IsEmpty() {
			declNames = append(declNames, "<erased>")
			continue
		}
		declNames = append(declNames, stmt.Type)
	}
	// wasmImports declaration survives (just trimmed), _malloc declarator
	// survives, _free declarator is erased.
	assert.Equal(t, []string{"VariableDeclaration", "VariableDeclaration", "<erased>"}, declNames)

	wasmImportsDecl := applyProg.List("body")[0]
	props := singleDeclarator(wasmImportsDecl).Node("init").List("properties")
	require.Len(t, props, 1)
	assert.Equal(t, "env_log", propertyKeyName(props[0].Node("key")))
}

func TestApplyDCEGraphRemovalsRejectsUnknownName(t *testing.T) {
	prog := parse(t, `var _malloc = wasmExports['malloc'];`)
	graphJSON, err := EmitDCEGraph(prog, nil, nil)
	require.NoError(t, err)

	err = ApplyDCEGraphRemovals(prog, graphJSON, nil, []string{"nonexistent"})
	require.Error(t, err)
	var inconsistent *ErrInconsistentGraph
	assert.ErrorAs(t, err, &inconsistent)
}
