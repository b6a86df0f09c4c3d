package vm

// HostIO is the narrow interface the core consumes from its host
// environment for interactive I/O. It is the Go realization of the host
// I/O shim contract in SPEC_FULL.md §6: a blocking character input
// primitive, a non-blocking key-available probe, and a character output
// primitive with explicit flush. Filesystem and terminal concepts are
// deliberately absent: the core only ever sees this interface, never an
// *os.File or a terminal mode.
//
// Implementations: internal/host.Terminal (a real controlling terminal,
// via golang.org/x/term) and internal/host/fakehost.Host (a deterministic
// in-memory double used by tests).
type HostIO interface {
	// KeyAvailable reports whether an input character is ready without
	// consuming it. It must never block.
	KeyAvailable() bool

	// GetChar blocks until one input character is available and returns
	// it. Called both by the KBSR device-read path and directly by
	// TRAP GETC/IN.
	GetChar() (byte, error)

	// PutChar writes one output character. Output is not guaranteed
	// visible to the user until Flush is called.
	PutChar(b byte) error

	// Flush makes all previously written characters visible.
	Flush() error
}
