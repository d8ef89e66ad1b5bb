// Command glue-post is the CLI entry point: parse one input file, run a
// named pipeline of AST rewrite passes over it, and re-emit. Built on
// cobra.Command rather than a manual os.Args loop, since this CLI's
// argument shape (one path, then a variable-length list of pass names,
// plus a closed set of flags) is exactly what cobra.Command.Args and
// Flags() model directly.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wasmglue/jspostproc/internal/config"
	"github.com/wasmglue/jspostproc/internal/exitcode"
	"github.com/wasmglue/jspostproc/internal/logger"
	"github.com/wasmglue/jspostproc/internal/pipeline"
)

func main() {
	err := run(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, strings.TrimRight(err.Error(), "\n"))
	}
	exitcode.Exit(err)
}

func run(args []string) error {
	var opts config.Options

	cmd := &cobra.Command{
		Use:           "glue-post <infile> <pass>...",
		Short:         "Run AST rewrite passes over emscripten-shaped JS glue code",
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.InFile = args[0]
			opts.Passes = args[1:]
			diag := logger.New(opts.Verbose)
			return pipeline.Run(opts, diag, cmd.OutOrStdout())
		},
	}

	flags := cmd.Flags()
	flags.BoolVar(&opts.ClosureFriendly, "closure-friendly", false, "accepted for compatibility; has no effect, the printer keeps neither source parens nor comments")
	flags.BoolVar(&opts.ExportES6, "export-es6", false, "parse the input as an ES module instead of a script")
	flags.BoolVar(&opts.Verbose, "verbose", false, "trace non-fatal pass notices to stderr")
	flags.BoolVar(&opts.NoPrint, "no-print", false, "skip re-emission (for passes whose real output is stdout JSON)")
	flags.BoolVar(&opts.MinifyWhitespace, "minify-whitespace", false, "omit indentation and collapse statement separators")
	flags.StringVarP(&opts.OutFile, "outfile", "o", "", "write the printed program here instead of stdout")

	cmd.SetArgs(args)
	return cmd.Execute()
}
