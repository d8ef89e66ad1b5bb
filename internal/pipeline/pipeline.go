// Package pipeline implements the driver: read the input, detect and parse
// the trailing `// EXTRA_INFO:` sidecar, parse the remainder, dispatch the
// requested passes in order against a registry of the thirteen registered
// names, and re-emit.
//
// Same overall shape as esbuild's cmd/esbuild/main.go plus pkg/cli (parse
// flags into an Options value, run a pipeline, print or exit non-zero) but
// scaled to this tool's much smaller surface: one file in, a named list of
// passes, one file or stdout out.
package pipeline

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/wasmglue/jspostproc/internal/ast"
	"github.com/wasmglue/jspostproc/internal/config"
	"github.com/wasmglue/jspostproc/internal/extrainfo"
	"github.com/wasmglue/jspostproc/internal/js_parser"
	"github.com/wasmglue/jspostproc/internal/js_printer"
	"github.com/wasmglue/jspostproc/internal/logger"
	"github.com/wasmglue/jspostproc/internal/passes/dcegraph"
	"github.com/wasmglue/jspostproc/internal/passes/dump"
	"github.com/wasmglue/jspostproc/internal/passes/heap"
	"github.com/wasmglue/jspostproc/internal/passes/importexport"
	"github.com/wasmglue/jspostproc/internal/passes/jsdce"
	"github.com/wasmglue/jspostproc/internal/passes/minify"
)

// extraInfoMarker is the literal comment text that introduces the trailing
// JSON sidecar. Only its last occurrence counts.
const extraInfoMarker = "// EXTRA_INFO:"

// ErrUnknownPass reports a pass name not present in the registry.
type ErrUnknownPass struct {
	Name string
}

func (e *ErrUnknownPass) Error() string { return "unknown pass: " + e.Name }

// Driver carries the state one invocation threads across its requested
// passes: the shared AST, the parsed sidecar, a name generator scoped to
// this invocation rather than package-level state (see DESIGN.md), the
// original source text (kept so a later applyDCEGraphRemovals in the same
// pass list can reparse a clean tree rather than walk one emitDCEGraph
// already mutated), the most recently emitted reachability graph, and the
// suffix minifyGlobals produces for re-emission.
type Driver struct {
	Options config.Options
	Diag    *logger.Diagnostics

	program   *ast.Node
	source    string
	info      *extrainfo.Info
	nameGen   *minify.NameGenerator
	lastGraph []byte
	suffix    []byte
}

// Run executes one full invocation: read opts.InFile, parse, dispatch
// opts.Passes in order, then emit to opts.OutFile (or stdout) unless
// opts.NoPrint. stdout is where the dump/emitDCEGraph passes write their
// JSON, independent of where the final printed program goes.
func Run(opts config.Options, diag *logger.Diagnostics, stdout io.Writer) error {
	raw, err := os.ReadFile(opts.InFile)
	if err != nil {
		return fmt.Errorf("pipeline: reading %s: %w", opts.InFile, err)
	}
	source, info, err := splitExtraInfo(string(raw))
	if err != nil {
		return fmt.Errorf("pipeline: parsing EXTRA_INFO sidecar: %w", err)
	}

	program, err := js_parser.Parse(source, js_parser.Options{ModuleMode: opts.ExportES6})
	if err != nil {
		if parseErr, ok := err.(*js_parser.ParseError); ok {
			loc := logger.Loc{Start: parseErr.Pos}
			src := &logger.Source{Contents: source, PrettyPath: opts.InFile}
			return logger.ParseErr(src, loc, parseErr.Text)
		}
		return err
	}

	d := &Driver{
		Options: opts,
		Diag:    diag,
		program: program,
		source:  source,
		info:    info,
		nameGen: minify.NewNameGenerator(),
	}

	for _, name := range opts.Passes {
		run, ok := registry[name]
		if !ok {
			return &ErrUnknownPass{Name: name}
		}
		if err := run(d, stdout); err != nil {
			return fmt.Errorf("pipeline: pass %s: %w", name, err)
		}
	}

	if opts.NoPrint {
		return nil
	}
	return d.emit(stdout)
}

func (d *Driver) emit(stdout io.Writer) error {
	out := js_printer.Print(d.program, js_printer.Options{
		ClosureFriendly:  d.Options.ClosureFriendly,
		MinifyWhitespace: d.Options.MinifyWhitespace,
	})
	var buf bytes.Buffer
	buf.WriteString(out)
	if d.suffix != nil {
		buf.WriteString(extraInfoMarker)
		buf.Write(d.suffix)
		buf.WriteByte('\n')
	}
	if d.Options.OutFile == "" {
		_, err := stdout.Write(buf.Bytes())
		return err
	}
	return os.WriteFile(d.Options.OutFile, buf.Bytes(), 0o644)
}

// splitExtraInfo slices off everything after the last "// EXTRA_INFO:" and
// JSON-parses it as the sidecar. Absence of the marker is not an error; it
// just means info is nil.
func splitExtraInfo(text string) (source string, info *extrainfo.Info, err error) {
	idx := strings.LastIndex(text, extraInfoMarker)
	if idx < 0 {
		return text, nil, nil
	}
	source = text[:idx]
	jsonText := strings.TrimSpace(text[idx+len(extraInfoMarker):])
	if jsonText == "" {
		return source, nil, nil
	}
	info, err = extrainfo.Parse(jsonText)
	if err != nil {
		return "", nil, err
	}
	return source, info, nil
}

// registry maps each of the thirteen recognized pass names to the driver
// action that performs it.
var registry = map[string]func(d *Driver, stdout io.Writer) error{
	"JSDCE": func(d *Driver, _ io.Writer) error {
		jsdce.JSDCE(d.program)
		return nil
	},
	"AJSDCE": func(d *Driver, _ io.Writer) error {
		jsdce.AJSDCE(d.program)
		return nil
	},
	"applyImportAndExportNameChanges": func(d *Driver, _ io.Writer) error {
		return importexport.Apply(d.program, d.info)
	},
	"emitDCEGraph": func(d *Driver, stdout io.Writer) error {
		warn := func(format string, args ...any) {
			d.Diag.Verbose(format, args...)
		}
		graphJSON, err := dcegraph.EmitDCEGraph(d.program, d.info, warn)
		if err != nil {
			return err
		}
		d.lastGraph = graphJSON
		if _, err := stdout.Write(graphJSON); err != nil {
			return err
		}
		_, err = stdout.Write([]byte("\n"))
		return err
	},
	"applyDCEGraphRemovals": func(d *Driver, _ io.Writer) error {
		if d.lastGraph == nil {
			return fmt.Errorf("applyDCEGraphRemovals: no graph emitted earlier in this pass list")
		}
		var unusedImports, unusedExports []string
		if d.info != nil {
			unusedImports = d.info.UnusedImports
			unusedExports = d.info.UnusedExports
		}
		// emitDCEGraph already erased every recognized import/export form
		// from d.program (whether or not it turned out unused), so nothing
		// in it can match the graph anymore. Reparse the original source
		// into a clean tree and apply removals there instead, mirroring the
		// two-invocation workflow this in-process pass list stands in for:
		// one run emits the graph an external tool decides liveness from,
		// a second run applies that decision to a fresh parse.
		fresh, err := js_parser.Parse(d.source, js_parser.Options{ModuleMode: d.Options.ExportES6})
		if err != nil {
			return fmt.Errorf("applyDCEGraphRemovals: reparsing source: %w", err)
		}
		if err := dcegraph.ApplyDCEGraphRemovals(fresh, d.lastGraph, unusedImports, unusedExports); err != nil {
			return err
		}
		d.program = fresh
		return nil
	},
	"dump": func(d *Driver, stdout io.Writer) error {
		return dump.Dump(d.program, stdout)
	},
	"littleEndianHeap": func(d *Driver, _ io.Writer) error {
		heap.LittleEndianHeap(d.program)
		return nil
	},
	"growableHeap": func(d *Driver, _ io.Writer) error {
		heap.GrowableHeap(d.program)
		return nil
	},
	"unsignPointers": func(d *Driver, _ io.Writer) error {
		heap.UnsignPointers(d.program)
		return nil
	},
	"asanify": func(d *Driver, _ io.Writer) error {
		heap.Asanify(d.program)
		return nil
	},
	"safeHeap": func(d *Driver, _ io.Writer) error {
		heap.SafeHeap(d.program)
		return nil
	},
	"minifyLocals": func(d *Driver, _ io.Writer) error {
		return minify.MinifyLocals(d.program, d.info, d.nameGen)
	},
	"minifyGlobals": func(d *Driver, _ io.Writer) error {
		suffix, err := minify.MinifyGlobals(d.program, d.info, d.nameGen)
		if err != nil {
			return err
		}
		d.suffix = suffix
		return nil
	},
}
