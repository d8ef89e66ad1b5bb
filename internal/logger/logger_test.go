package logger_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wasmglue/jspostproc/internal/logger"
)

func TestParseErrRendersCaretAtTheErrorColumn(t *testing.T) {
	src := &logger.Source{Contents: "var x = ;", PrettyPath: "glue.js"}
	err := logger.ParseErr(src, logger.Loc{Start: 8}, "Unexpected \";\"")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "glue.js")
	assert.Contains(t, err.Error(), "Unexpected")
	assert.Contains(t, err.Error(), "var x = ;")
}

func TestDiagnosticsErrorMarksHasErrors(t *testing.T) {
	d := logger.New(false)
	assert.False(t, d.HasErrors())
	src := &logger.Source{Contents: "var x = ;", PrettyPath: "glue.js"}
	d.Error(src, logger.Loc{Start: 8}, "bad token")
	assert.True(t, d.HasErrors())
}

func TestDiagnosticsVerboseNoOpsWhenDisabled(t *testing.T) {
	quiet := logger.New(false)
	assert.NotPanics(t, func() { quiet.Verbose("should not appear") })

	loud := logger.New(true)
	assert.NotPanics(t, func() { loud.Verbose("trace line: %d", 42) })
}

func TestNewDeferLogCollectsMessagesInStableOrder(t *testing.T) {
	log := logger.NewDeferLog()
	src := &logger.Source{Contents: "abc", PrettyPath: "a.js"}
	log.AddWarning(src, logger.Loc{Start: 0}, "first")
	log.AddError(src, logger.Loc{Start: 1}, "second")

	assert.True(t, log.HasErrors())
	msgs := log.Done()
	require.Len(t, msgs, 2)
	assert.Equal(t, logger.Warning, msgs[0].Kind)
	assert.Equal(t, logger.Error, msgs[1].Kind)
}
