// Package config holds the parsed CLI surface for glue-post. esbuild
// centralizes every bundler flag into one Options struct threaded through
// the pipeline by value; this does the same for the much smaller flag set
// this tool actually exposes.
package config

// Options is built once by cmd/glue-post from cobra flags and threaded by
// value through pipeline.Run to every pass and to the parser/printer.
type Options struct {
	// InFile is the positional input path.
	InFile string
	// Passes are the positional pass names to run, in order.
	Passes []string

	// ClosureFriendly is forwarded to js_printer.Options.ClosureFriendly.
	ClosureFriendly bool
	// ExportES6 parses the input as a module instead of a script
	// (js_parser.Options.ModuleMode).
	ExportES6 bool
	// Verbose enables non-fatal traces (metadce missing-declaration
	// notices) to stderr. The parser discards comments, so there are no
	// comment-reattachment traces.
	Verbose bool
	// NoPrint skips re-emission, used when a pass's real output is stdout
	// JSON (emitDCEGraph, dump) and the rewritten source itself is unwanted.
	NoPrint bool
	// MinifyWhitespace is forwarded to js_printer.Options.MinifyWhitespace.
	MinifyWhitespace bool
	// OutFile is the destination path for printed output; empty means
	// stdout.
	OutFile string
}
