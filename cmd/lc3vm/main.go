// Command lc3vm runs LC-3 object files.
//
// Usage: lc3vm [--trace] <image-file> [<image-file>...]
//
// Exit codes, per SPEC_FULL.md §6: 2 if no image argument was supplied, 1
// if an image file failed to load or execution aborted fatally, a signed
// interrupt value if the user hit Ctrl-C after raw mode was engaged, 0 on
// normal HALT.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"lc3vm/internal/disasm"
	"lc3vm/internal/host"
	"lc3vm/internal/vm"
)

// errUsage distinguishes "no image argument" (exit 2) from every other
// failure (exit 1); see newRootCmd's Args validator.
var errUsage = errors.New("lc3vm: usage")

// errLoad wraps an image-load failure so main can name the offending path
// without re-parsing an error string.
type errLoad struct {
	path string
	err  error
}

func (e *errLoad) Error() string {
	return fmt.Sprintf("failed to load image: %s", e.path)
}

func (e *errLoad) Unwrap() error { return e.err }

func main() {
	os.Exit(run())
}

func run() int {
	trace := false
	cmd := newRootCmd(&trace)
	return exitCodeForError(cmd.Execute())
}

// exitCodeForError maps a cmd.Execute() result to the exit codes documented
// in SPEC_FULL.md §6: 2 for errUsage (no image argument), 1 for any other
// error (image load failure or a fatal VM error such as
// vm.ErrIllegalOpcode), 0 for nil. Kept separate from run so the mapping is
// testable without going through cobra's own argv/os.Exit plumbing.
func exitCodeForError(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errUsage):
		return 2
	default:
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
}

func newRootCmd(trace *bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "lc3vm <image-file> [<image-file>...]",
		Short:         "LC-3 instruction-set emulator",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 1 {
				fmt.Println("usage: lc3vm [--trace] <image-file> [<image-file>...]")
				return errUsage
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImages(args, *trace)
		},
	}
	cmd.Flags().BoolVar(trace, "trace", false, "print a disassembly trace of every executed instruction")
	return cmd
}

// runImages loads every path in order into one VM instance and runs it to
// completion against a real terminal host shim.
func runImages(paths []string, trace bool) error {
	machine := vm.New(nil)
	for _, path := range paths {
		if err := loadPath(machine, path); err != nil {
			return err
		}
	}

	term, err := host.Acquire(os.Stdin)
	if err != nil {
		return err
	}
	defer term.Close()
	machine.Host = term

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	installSignalHandler(ctx, cancel, term)

	if trace {
		return runTraced(ctx, machine)
	}
	if err := machine.Run(ctx); err != nil && !errors.Is(err, vm.ErrHalted) {
		return err
	}
	return nil
}

// runTraced runs machine one instruction at a time, printing a disasm
// line per instruction to stderr so stdout stays exactly what the LC-3
// program itself writes.
func runTraced(ctx context.Context, machine *vm.VM) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		pc := machine.PC
		ci, err := machine.Fetch()
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "%#04x: %#04x  %s\n", pc, ci, disasm.Decode(ci))
		if err := machine.Execute(ci); err != nil {
			if errors.Is(err, vm.ErrHalted) {
				return nil
			}
			return err
		}
	}
}

func loadPath(machine *vm.VM, path string) error {
	fp, err := os.Open(path)
	if err != nil {
		return &errLoad{path: path, err: err}
	}
	defer fp.Close()
	if err := vm.LoadImage(machine, fp); err != nil {
		return &errLoad{path: path, err: err}
	}
	return nil
}

// interruptExitCode implements the documented "interrupted by the user
// after raw mode was engaged" exit status.
const interruptExitCode = 254 // -2 as an unsigned exit byte

// installSignalHandler arranges for a delivered SIGINT to restore the
// terminal before the process exits, per SPEC_FULL.md §5's "guaranteed
// release on every exit path including ... host-delivered interrupt".
func installSignalHandler(ctx context.Context, cancel context.CancelFunc, term *host.Terminal) {
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt)
	go func() {
		select {
		case <-sigc:
			term.Close()
			cancel()
			fmt.Println()
			os.Exit(interruptExitCode)
		case <-ctx.Done():
		}
	}()
}
