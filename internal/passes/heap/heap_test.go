package heap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wasmglue/jspostproc/internal/ast"
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

func TestLittleEndianHeapScenarioE(t *testing.T) {
	prog := parse(t, `HEAP32[p] = v; x = HEAP32[q];`)
	LittleEndianHeap(prog)
	out := print(prog)
	assert.Contains(t, out, "LE_HEAP_STORE_I32(p * 4, v)")
	assert.Contains(t, out, "LE_HEAP_LOAD_I32(q * 4)")
}

func TestLittleEndianHeapLeavesByteWideAlone(t *testing.T) {
	prog := parse(t, `HEAP8[p] = v;`)
	LittleEndianHeap(prog)
	out := print(prog)
	assert.Contains(t, out, "HEAP8[p] = v")
}

func TestLittleEndianHeapDoesNotDescendIntoHelpers(t *testing.T) {
	prog := parse(t, `function LE_HEAP_UPDATE() { HEAP32[p] = v; }`)
	LittleEndianHeap(prog)
	out := print(prog)
	assert.Contains(t, out, "HEAP32[p] = v")
	assert.NotContains(t, out, "LE_HEAP_STORE_I32")
}

func TestLittleEndianHeapRewritesAtomics(t *testing.T) {
	prog := parse(t, `x = Atomics.add(HEAP32, p, 1);`)
	LittleEndianHeap(prog)
	out := print(prog)
	assert.Contains(t, out, "LE_ATOMICS_ADD(HEAP32, p, 1)")
}

func TestUnsignPointersScenarioF(t *testing.T) {
	prog := parse(t, `x = HEAP32[n>>2];`)
	UnsignPointers(prog)
	out := print(prog)
	assert.Contains(t, out, "HEAP32[n >>> 2]")
}

func TestUnsignPointersWrapsBareIndex(t *testing.T) {
	prog := parse(t, `x = HEAP32[n];`)
	UnsignPointers(prog)
	out := print(prog)
	assert.Contains(t, out, "HEAP32[n >>> 0]")
}

func TestUnsignPointersHandlesSetSubarrayCopyWithin(t *testing.T) {
	prog := parse(t, `
HEAP8.set(src, p);
HEAP8.subarray(a, b);
HEAP8.copyWithin(a, b, c);
`)
	UnsignPointers(prog)
	out := print(prog)
	assert.Contains(t, out, "HEAP8.set(src, p >>> 0)")
	assert.Contains(t, out, "HEAP8.subarray(a >>> 0, b >>> 0)")
	assert.Contains(t, out, "HEAP8.copyWithin(a >>> 0, b >>> 0, c >>> 0)")
}

func TestUnsignRoundtrip(t *testing.T) {
	// Property 6: unsign(unsign(p)) has the shape (p >>> 0) >>> 0, and if p
	// was already a `>>` shift, the first application already turns it into
	// `>>>` so the second only adds the outer wrap.
	bare := ast.New("Identifier")
	bare.SetString("name", "n")
	once := unsign(bare)
	twice := unsign(once)
	assert.Equal(t, "BinaryExpression", twice.Type)
	assert.Equal(t, ">>>", twice.String("operator"))
	assert.Same(t, once, twice.Node("left"))

	shift := ast.New("BinaryExpression")
	shift.SetString("operator", ">>")
	shift.SetNode("left", bare)
	shift.SetNode("right", numberLiteral(2))
	onceShift := unsign(shift)
	assert.Equal(t, ">>>", onceShift.String("operator"))
	twiceShift := unsign(onceShift)
	assert.Equal(t, ">>>", twiceShift.String("operator"))
	assert.Same(t, onceShift, twiceShift.Node("left"))
}

func TestGrowableHeapWrapsReadsNotAssignmentTargets(t *testing.T) {
	prog := parse(t, `
HEAP32 = new Int32Array(buf);
x = HEAP32[p];
`)
	GrowableHeap(prog)
	out := print(prog)
	assert.Contains(t, out, "HEAP32 = new Int32Array(buf)")
	assert.Contains(t, out, "(growMemViews(), HEAP32)[p]")
}

func TestGrowableHeapSkipsExportsAndHelperBodies(t *testing.T) {
	prog := parse(t, `
export { HEAP32 };
function growMemViews() { x = HEAP32; }
`)
	GrowableHeap(prog)
	out := print(prog)
	assert.Contains(t, out, "x = HEAP32;")
	assert.NotContains(t, out, "growMemViews(), HEAP32")
}

func TestAsanifyRewritesStoresAndLoads(t *testing.T) {
	prog := parse(t, `HEAP8[p] = v; x = HEAP8[p];`)
	Asanify(prog)
	out := print(prog)
	assert.Contains(t, out, "_asan_js_store(HEAP8, p, v)")
	assert.Contains(t, out, "_asan_js_load(HEAP8, p)")
}

func TestSafeHeapSkipsItsOwnHelpers(t *testing.T) {
	prog := parse(t, `function SAFE_HEAP_STORE(o,p,v){ HEAP8[p]=v; }`)
	SafeHeap(prog)
	out := print(prog)
	assert.Contains(t, out, "HEAP8[p] = v")
	assert.NotContains(t, out, "SAFE_HEAP_STORE(HEAP8")
}
