// Package maincmd wires together the CLI layer: flag parsing and validation,
// source/input stream selection, the XML loader, and the execution engine,
// and maps whatever fault.Code aborted the run (if any) to the process exit
// code described by spec.md §7.
package maincmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/mna/ippvm/lang/fault"
	"github.com/mna/ippvm/lang/machine"
	"github.com/mna/ippvm/lang/xmlload"
	"github.com/mna/mainer"
)

const binName = "ippvm"

var (
	shortUsage = fmt.Sprintf(`
usage: %s [--source=<file>] [--input=<file>]
Run '%[1]s --help' for details.
`, binName)

	longUsage = fmt.Sprintf(`usage: %s [--source=<file>] [--input=<file>]
       %[1]s -h|--help

Interpreter for IPPcode23 XML programs.

At least one of --source and --input must be given; the one that is
omitted is read from standard input instead.

Valid flag options are:
       --source=<file>           Read the XML program representation from
                                  <file> (default: standard input).
       --input=<file>            Read input for the program's READ
                                  instructions from <file> (default:
                                  standard input).
       -h --help                 Show this help and exit.
`, binName)
)

// Cmd holds the parsed command-line flags, in the shape github.com/mna/mainer
// expects: exported fields tagged with their flag names, plus SetArgs,
// SetFlags, Validate and Main.
type Cmd struct {
	BuildVersion string
	BuildDate    string

	Help   bool   `flag:"h,help"`
	Source string `flag:"source"`
	Input  string `flag:"input"`

	args  []string
	flags map[string]bool
}

func (c *Cmd) SetArgs(args []string)          { c.args = args }
func (c *Cmd) SetFlags(flags map[string]bool) { c.flags = flags }

// Validate enforces spec.md §6.1's argument rules: --help must be the only
// flag given, and otherwise at least one of --source/--input is required.
func (c *Cmd) Validate() error {
	if c.Help {
		if c.flags["source"] || c.flags["input"] {
			return fmt.Errorf("--help must not be combined with other flags")
		}
		return nil
	}
	if !c.flags["source"] && !c.flags["input"] {
		return fmt.Errorf("at least one of --source or --input must be given")
	}
	if len(c.args) != 0 {
		return fmt.Errorf("unexpected argument: %s", c.args[0])
	}
	return nil
}

// Main is the github.com/mna/mainer entry point: parse flags, run the
// program, and translate the outcome to a process exit code.
func (c *Cmd) Main(args []string, stdio mainer.Stdio) mainer.ExitCode {
	p := mainer.Parser{
		EnvVars:   false,
		EnvPrefix: binName + "_",
	}
	if err := p.Parse(args, c); err != nil {
		fmt.Fprintf(stdio.Stderr, "invalid arguments: %s\n%s", err, shortUsage)
		return mainer.ExitCode(fault.CodeInvalidArgs)
	}

	if c.Help {
		fmt.Fprint(stdio.Stdout, longUsage)
		return mainer.Success
	}

	ctx := mainer.CancelOnSignal(context.Background(), os.Interrupt)
	code, err := Run(ctx, stdio, c.Source, c.Input)
	if err != nil {
		fmt.Fprintf(stdio.Stderr, "%s\n", err)
	}
	return mainer.ExitCode(code)
}

// Run loads and executes the program named by sourcePath (or stdio.Stdin if
// sourcePath is empty), drawing READ input from inputPath (or stdio.Stdin if
// inputPath is empty — the two may not both default to stdin, which
// Validate already rejects). It returns the process exit code and, for any
// non-zero code, the error that produced it. A panic raised while loading or
// running the program is reported as fault.CodeInternal (99).
func Run(ctx context.Context, stdio mainer.Stdio, sourcePath, inputPath string) (code int, err error) {
	defer func() {
		if r := recover(); r != nil {
			code, err = int(fault.CodeInternal), fault.New(fault.CodeInternal, "internal error: %v", r)
		}
	}()

	src, closeSrc, err := openOrStdin(sourcePath, stdio.Stdin)
	if err != nil {
		return int(fault.CodeInputOpen), fault.Wrap(fault.CodeInputOpen, err, "opening source")
	}
	defer closeSrc()

	prog, err := xmlload.Load(src)
	if err != nil {
		return exitCodeFor(err), err
	}

	in, closeIn, err := openOrStdin(inputPath, stdio.Stdin)
	if err != nil {
		return int(fault.CodeInputOpen), fault.Wrap(fault.CodeInputOpen, err, "opening input")
	}
	defer closeIn()

	reader := machine.NewLineReader(bufio.NewScanner(in))
	eng := machine.New(prog, stdio.Stdout, stdio.Stderr, reader)

	code, err = eng.Run(ctx)
	if err != nil {
		return exitCodeFor(err), err
	}
	return code, nil
}

// openOrStdin opens path, or returns stdin verbatim (with a no-op closer) if
// path is empty.
func openOrStdin(path string, stdin io.Reader) (io.Reader, func(), error) {
	if path == "" {
		return stdin, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { f.Close() }, nil
}

// exitCodeFor extracts the fault.Code from err, defaulting to the internal
// error code (99) if err is not a *fault.Fault.
func exitCodeFor(err error) int {
	if f, ok := fault.As(err); ok {
		return int(f.Code)
	}
	return int(fault.CodeInternal)
}
