package pipeline

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wasmglue/jspostproc/internal/config"
	"github.com/wasmglue/jspostproc/internal/logger"
)

func writeTemp(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "glue.js")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestRunAppliesJSDCEAndPrints(t *testing.T) {
	path := writeTemp(t, `function f(){} var x=1; var y=2; use(y);`)
	var out bytes.Buffer
	opts := config.Options{InFile: path, Passes: []string{"JSDCE"}}
	require.NoError(t, Run(opts, logger.New(false), &out))

	printed := out.String()
	assert.NotContains(t, printed, "function f")
	assert.NotContains(t, printed, "var x = 1;")
	assert.Contains(t, printed, "var y = 2;")
	assert.Contains(t, printed, "use(y);")
}

func TestRunRejectsUnknownPassName(t *testing.T) {
	path := writeTemp(t, `var x = 1;`)
	var out bytes.Buffer
	opts := config.Options{InFile: path, Passes: []string{"notAPass"}}
	err := Run(opts, logger.New(false), &out)
	require.Error(t, err)
	var unknown *ErrUnknownPass
	assert.ErrorAs(t, err, &unknown)
}

func TestRunAppendsMinifyGlobalsSuffix(t *testing.T) {
	path := writeTemp(t, `function instantiate(env) { var _log = env.log; return _log; }`)
	var out bytes.Buffer
	opts := config.Options{InFile: path, Passes: []string{"minifyGlobals"}}
	require.NoError(t, Run(opts, logger.New(false), &out))
	assert.Contains(t, out.String(), extraInfoMarker)
}

func TestRunHonorsNoPrint(t *testing.T) {
	path := writeTemp(t, `var x = 1;`)
	var out bytes.Buffer
	opts := config.Options{InFile: path, Passes: []string{"JSDCE"}, NoPrint: true}
	require.NoError(t, Run(opts, logger.New(false), &out))
	assert.Empty(t, out.String())
}

func TestRunWritesToOutFile(t *testing.T) {
	path := writeTemp(t, `var x = 1; use(x);`)
	outPath := filepath.Join(t.TempDir(), "out.js")
	var stdout bytes.Buffer
	opts := config.Options{InFile: path, Passes: []string{"JSDCE"}, OutFile: outPath}
	require.NoError(t, Run(opts, logger.New(false), &stdout))
	assert.Empty(t, stdout.String())
	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "use(x);")
}

func TestRunEmitDCEGraphWritesJSONToStdoutAndApplyConsumesIt(t *testing.T) {
	src := `var wasmImports = { env_log: _log };
var _malloc = wasmExports['malloc'];
function _log() { _malloc(); }
// EXTRA_INFO:{"unusedImports":["env_log"],"unusedExports":["malloc"]}`
	path := writeTemp(t, src)
	var out bytes.Buffer
	opts := config.Options{InFile: path, Passes: []string{"emitDCEGraph", "applyDCEGraphRemovals"}, NoPrint: true}
	require.NoError(t, Run(opts, logger.New(false), &out))
	assert.Contains(t, out.String(), "emcc$import$_log")
}

func TestRunEmitDCEGraphThenApplyPrunesTheReparsedTree(t *testing.T) {
	src := `var wasmImports = { env_log: _log };
var _malloc = wasmExports['malloc'];
var _free = wasmExports['free'];
function _log() { _malloc(); }
// EXTRA_INFO:{"unusedImports":["env_log"],"unusedExports":["malloc"]}`
	path := writeTemp(t, src)
	var out bytes.Buffer
	opts := config.Options{InFile: path, Passes: []string{"emitDCEGraph", "applyDCEGraphRemovals"}}
	require.NoError(t, Run(opts, logger.New(false), &out))

	printed := out.String()
	assert.NotContains(t, printed, "env_log")
	assert.NotContains(t, printed, "_malloc = wasmExports")
	assert.Contains(t, printed, "_free = wasmExports")
}

func TestRunApplyDCEGraphRemovalsRejectsMismatchedGraph(t *testing.T) {
	src := `var _malloc = wasmExports['malloc'];
// EXTRA_INFO:{"unusedExports":["nonexistent"]}`
	path := writeTemp(t, src)
	var out bytes.Buffer
	opts := config.Options{InFile: path, Passes: []string{"emitDCEGraph", "applyDCEGraphRemovals"}, NoPrint: true}
	err := Run(opts, logger.New(false), &out)
	require.Error(t, err)
}

func TestRunReportsParseErrorWithCaret(t *testing.T) {
	path := writeTemp(t, `var x = ;`)
	var out bytes.Buffer
	opts := config.Options{InFile: path, Passes: []string{"JSDCE"}}
	err := Run(opts, logger.New(false), &out)
	require.Error(t, err)
}
