package dump

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wasmglue/jspostproc/internal/js_parser"
)

func TestDumpWritesOrderedFieldsAndPerformsNoMutation(t *testing.T) {
	prog, err := js_parser.Parse(`var x = 1;`, js_parser.Options{})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Dump(prog, &buf))

	var generic map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &generic))
	assert.Equal(t, "Program", generic["type"])

	body := prog.List("body")
	require.Len(t, body, 1)
	assert.Equal(t, "VariableDeclaration", body[0].Type)
}
