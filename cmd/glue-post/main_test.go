package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "glue.js")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestRunRequiresAtLeastOnePositionalArg(t *testing.T) {
	err := run([]string{})
	require.Error(t, err)
}

func TestRunWithNoPassesStillPrintsTheParsedProgram(t *testing.T) {
	path := writeTemp(t, `var x = 1; use(x);`)
	err := run([]string{path})
	require.NoError(t, err)
}

func TestRunRejectsUnknownPassName(t *testing.T) {
	path := writeTemp(t, `var x = 1;`)
	err := run([]string{path, "notAPass"})
	require.Error(t, err)
}

func TestRunWritesToOutFileFlag(t *testing.T) {
	path := writeTemp(t, `function f(){} var x = 1; use(x);`)
	outPath := filepath.Join(t.TempDir(), "out.js")
	err := run([]string{path, "JSDCE", "-o", outPath})
	require.NoError(t, err)

	data, readErr := os.ReadFile(outPath)
	require.NoError(t, readErr)
	assert.Contains(t, string(data), "use(x);")
	assert.NotContains(t, string(data), "function f")
}

func TestRunHonorsNoPrintFlag(t *testing.T) {
	path := writeTemp(t, `var x = 1;`)
	err := run([]string{path, "JSDCE", "--no-print"})
	require.NoError(t, err)
}

func TestRunRejectsNonexistentInFile(t *testing.T) {
	err := run([]string{filepath.Join(t.TempDir(), "missing.js")})
	require.Error(t, err)
}
