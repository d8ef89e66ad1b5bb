package logger

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

// Diagnostics is the pipeline driver's single point of contact with the
// logging machinery below: fatal errors go through the existing
// Log/Msg/Source caret renderer (computeLineAndColumn, detailStruct, and
// friends, all unmodified), while --verbose traces use fatih/color
// directly, since those are narrator lines rather than clang-style
// diagnostics and don't need the source-range caret machinery at all.
type Diagnostics struct {
	log     Log
	verbose bool
	trace   *color.Color
}

// New returns a Diagnostics that writes fatal errors and, if verbose,
// trace lines to stderr.
func New(verbose bool) *Diagnostics {
	return &Diagnostics{
		log:     NewStderrLog(StderrOptions{LogLevel: LevelInfo}),
		verbose: verbose,
		trace:   color.New(color.FgYellow),
	}
}

// Verbose prints a non-fatal trace line (metadce missing-declaration
// notices) when --verbose is set, and is a no-op otherwise. The parser
// discards comments, so no comment-reattachment traces come through here.
func (d *Diagnostics) Verbose(format string, args ...interface{}) {
	if !d.verbose {
		return
	}
	d.trace.Fprintf(os.Stderr, "[trace] %s\n", fmt.Sprintf(format, args...))
}

// Error reports a fatal error against source through the shared Log, so it
// gets the same caret rendering and stderr summary line as everything else
// printed during a run.
func (d *Diagnostics) Error(source *Source, loc Loc, text string) {
	d.log.AddError(source, loc, text)
}

// HasErrors reports whether Error has been called at least once.
func (d *Diagnostics) HasErrors() bool {
	return d.log.HasErrors()
}

// ParseErr renders a clang-style captioned error (line, column, offending
// source line, and caret) from a parse failure using the same
// locationOrNil/Msg.String machinery Log.AddError uses, and returns it as a
// plain Go error so callers can propagate and exit non-zero on it without
// going through a Log at all.
func ParseErr(source *Source, loc Loc, text string) error {
	msg := Msg{Kind: Error, Text: text, Location: locationOrNil(source, Range{Loc: loc})}
	rendered := msg.String(StderrOptions{LogLevel: LevelInfo, IncludeSource: true}, TerminalInfo{})
	return fmt.Errorf("%s", rendered)
}
