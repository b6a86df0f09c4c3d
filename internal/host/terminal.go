// Package host is the LC-3 core's host I/O shim: the external collaborator
// SPEC_FULL.md §1 says the core never imports directly. Terminal is the
// production implementation, backed by the real controlling terminal;
// internal/host/fakehost provides a deterministic double for tests.
package host

import (
	"bufio"
	"errors"
	"io"
	"os"
	"sync"

	"golang.org/x/term"

	"lc3vm/internal/vm"
)

// ErrDetached is returned by GetChar/PutChar once Close has run, instead of
// waiting on the key channel or writing to the released terminal.
var ErrDetached = errors.New("host: terminal detached")

// Terminal is a vm.HostIO backed by stdin/stdout, put into raw,
// non-echoing mode for the lifetime of the acquisition. It is grounded on
// the teacher's SerialTTY (pkg/vm/tty.go in bassosimone-risc32): a small
// struct, created by a dedicated constructor, implementing a narrow
// core-defined interface, torn down by a single Close the owner defers.
type Terminal struct {
	in    *os.File
	state *term.State // nil if stdin was already not a terminal

	out *bufio.Writer

	// keys is fed by the background reader goroutine below; it has
	// capacity 1 so KeyAvailable is a non-blocking length peek rather
	// than a syscall-level select() the way the reference C
	// implementation's check_key() works. Modeled on KTStephano-GVM's
	// nonBlockingChan (vm/devices.go), narrowed from a general hardware
	// device bus down to the one device LC-3 actually has.
	keys chan byte

	mu     sync.Mutex // guards closed
	closed bool
	once   sync.Once
}

// Acquire puts stdin into raw mode and starts the background reader. The
// caller must call Close at least once, typically via defer, on every exit
// path (normal HALT, fatal abort, or a delivered SIGINT) — see
// SPEC_FULL.md §5's "guaranteed release on every exit path".
func Acquire(stdin *os.File) (*Terminal, error) {
	t := &Terminal{
		in:   stdin,
		out:  bufio.NewWriter(os.Stdout),
		keys: make(chan byte, 1),
	}
	if term.IsTerminal(int(stdin.Fd())) {
		state, err := term.MakeRaw(int(stdin.Fd()))
		if err != nil {
			return nil, err
		}
		t.state = state
	}
	go t.readLoop()
	return t, nil
}

// readLoop is the single goroutine that may block on the real stdin; it
// feeds single bytes into t.keys so that KeyAvailable never has to.
// Consistent with SPEC_FULL.md §5, the loop is allowed to leak past Close:
// the closed-aware guard below simply drops the next byte it reads instead
// of sending it, mirroring the reference C implementation's own lack of
// synchronization on this path. When the loop ends (stdin read error or
// EOF, or Close) it closes t.keys, so a pending GetChar returns io.EOF.
func (t *Terminal) readLoop() {
	defer close(t.keys)
	var b [1]byte
	for {
		n, err := t.in.Read(b[:])
		if n == 0 && err != nil {
			return
		}
		if n == 0 {
			continue
		}
		t.mu.Lock()
		closed := t.closed
		t.mu.Unlock()
		if closed {
			return
		}
		t.keys <- b[0]
	}
}

// KeyAvailable implements vm.HostIO. It never consumes the pending
// character; GetChar does that.
func (t *Terminal) KeyAvailable() bool {
	return len(t.keys) > 0
}

// GetChar implements vm.HostIO, blocking until a character is available.
func (t *Terminal) GetChar() (byte, error) {
	t.mu.Lock()
	closed := t.closed
	t.mu.Unlock()
	if closed {
		return 0, ErrDetached
	}
	b, ok := <-t.keys
	if !ok {
		return 0, io.EOF
	}
	return b, nil
}

// PutChar implements vm.HostIO.
func (t *Terminal) PutChar(b byte) error {
	t.mu.Lock()
	closed := t.closed
	t.mu.Unlock()
	if closed {
		return ErrDetached
	}
	return t.out.WriteByte(b)
}

// Flush implements vm.HostIO.
func (t *Terminal) Flush() error {
	return t.out.Flush()
}

// Close restores the terminal's prior mode. It is idempotent: calling it
// twice (e.g. once from a SIGINT handler and once from normal shutdown)
// neither panics nor double-restores terminal state.
func (t *Terminal) Close() error {
	var err error
	t.once.Do(func() {
		t.mu.Lock()
		t.closed = true
		t.mu.Unlock()
		_ = t.out.Flush()
		if t.state != nil {
			err = term.Restore(int(t.in.Fd()), t.state)
		}
	})
	return err
}

var _ vm.HostIO = &Terminal{}
