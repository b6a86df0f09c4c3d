// Package vm contains the LC-3 instruction interpreter.
//
// The architecture is the 16-bit LC-3 educational ISA: a flat 65,536-word
// address space, eight general purpose registers, a program counter, and a
// three-valued condition register. Instructions are 16 bits wide and are
// decoded into one of sixteen opcodes (bits 15-12).
//
// The interpreter never touches the filesystem, the terminal, or any OS
// concept directly. Image loading happens against an io.Reader (loader.go)
// and interactive I/O happens against the HostIO interface (io.go); both are
// supplied by the caller, which keeps the core testable without a real
// terminal and reusable against more than one host shim.
package vm

import (
	"context"
	"errors"
	"fmt"
)

// Opcodes, in the order the LC-3 ISA assigns them to the top nibble of the
// instruction word.
const (
	OpBR = uint16(iota)
	OpADD
	OpLD
	OpST
	OpJSR
	OpAND
	OpLDR
	OpSTR
	OpRTI
	OpNOT
	OpLDI
	OpSTI
	OpJMP
	OpRES
	OpLEA
	OpTRAP
)

// Condition flags. Exactly one is set in Cond at any time.
const (
	FlPOS = uint16(1) << 0
	FlZRO = uint16(1) << 1
	FlNEG = uint16(1) << 2
)

// Memory-mapped device addresses.
const (
	MRKBSR = uint16(0xFE00) // keyboard status register
	MRKBDR = uint16(0xFE02) // keyboard data register
)

// PCStart is the address execution begins at after an image is loaded.
const PCStart = uint16(0x3000)

// The following errors may be returned by Execute/Run.
var (
	// ErrHalted indicates that a TRAP HALT was serviced. Run returns this
	// error to its caller on a clean shutdown; callers should treat it as
	// success, not failure.
	ErrHalted = errors.New("vm: halted")

	// ErrIllegalOpcode indicates execution reached RTI or RES, both of
	// which the LC-3 spec reserves and which this interpreter does not
	// implement (see SPEC_FULL.md §1 Non-goals).
	ErrIllegalOpcode = errors.New("vm: illegal opcode")
)

// VM is an LC-3 interpreter instance. It owns its memory and registers and
// talks to the outside world only through Host. A VM is not safe for
// concurrent use; the fetch-decode-execute loop is strictly single
// threaded, and only Host.GetChar may block the calling goroutine.
type VM struct {
	Mem  [1 << 16]uint16 // memory, addressed 0x0000-0xFFFF
	Reg  [8]uint16       // general purpose registers R0-R7
	PC   uint16          // program counter
	Cond uint16          // condition flags, exactly one of Fl{POS,ZRO,NEG}

	// Host services interactive I/O (keyboard, display). It must be set
	// before Run is called; New stores the host it is given, which may be
	// nil when the caller attaches a shim (a real terminal, or a test
	// double) later.
	Host HostIO
}

// New returns a VM with PC and Cond set to their documented boot values.
// Memory is left zeroed; callers load one or more images with LoadImage
// before calling Run.
func New(host HostIO) *VM {
	return &VM{PC: PCStart, Cond: FlZRO, Host: host}
}

// SignExtend sign-extends the low bitWidth bits of x to a full 16 bits by
// replicating the top bit of the field into every higher position. It is
// the single source of truth for every opcode that consumes an immediate
// or a PC-relative offset.
func SignExtend(x uint16, bitWidth int) uint16 {
	if (x>>(bitWidth-1))&1 != 0 {
		x |= ^uint16(0) << bitWidth
	}
	return x
}

// updateFlags sets Cond from the signed interpretation of Reg[r].
func (m *VM) updateFlags(r uint16) {
	switch {
	case m.Reg[r] == 0:
		m.Cond = FlZRO
	case m.Reg[r]>>15 != 0:
		m.Cond = FlNEG
	default:
		m.Cond = FlPOS
	}
}

// read loads a word from memory, applying the KBSR/KBDR device semantics
// when the effective address is the keyboard status register. This is the
// only place device addresses are special-cased. Fetch and every
// effective-address read (LD, LDI, LDR, and the pointer fetch of LDI and
// STI) go through it; TRAP PUTS and PUTSP read Mem directly.
func (m *VM) read(addr uint16) (uint16, error) {
	if addr == MRKBSR {
		available := m.Host.KeyAvailable()
		if available {
			c, err := m.Host.GetChar()
			if err != nil {
				return 0, err
			}
			m.Mem[MRKBSR] = 1 << 15
			m.Mem[MRKBDR] = uint16(c)
		} else {
			m.Mem[MRKBSR] = 0
		}
	}
	return m.Mem[addr], nil
}

// write stores a word to memory. Writes to device addresses are plain
// stores, per SPEC_FULL.md §3 ("no device write effects are specified").
func (m *VM) write(addr, val uint16) {
	m.Mem[addr] = val
}

// Fetch returns the instruction word at PC and increments PC, matching the
// LC-3 convention that PC-relative offsets are relative to the address of
// the next sequential instruction.
func (m *VM) Fetch() (uint16, error) {
	ci, err := m.read(m.PC)
	if err != nil {
		return 0, err
	}
	m.PC++
	return ci, nil
}

// Execute decodes and executes the single instruction word ci. It returns
// ErrHalted once a TRAP HALT has been serviced, ErrIllegalOpcode on RTI/RES,
// or any error surfaced by the host shim during a TRAP or a KBSR-triggering
// memory access.
func (m *VM) Execute(ci uint16) error {
	op := ci >> 12
	switch op {
	case OpBR:
		return m.execBR(ci)
	case OpADD:
		return m.execADD(ci)
	case OpLD:
		return m.execLD(ci)
	case OpST:
		return m.execST(ci)
	case OpJSR:
		return m.execJSR(ci)
	case OpAND:
		return m.execAND(ci)
	case OpLDR:
		return m.execLDR(ci)
	case OpSTR:
		return m.execSTR(ci)
	case OpNOT:
		return m.execNOT(ci)
	case OpLDI:
		return m.execLDI(ci)
	case OpSTI:
		return m.execSTI(ci)
	case OpJMP:
		return m.execJMP(ci)
	case OpLEA:
		return m.execLEA(ci)
	case OpTRAP:
		return m.execTRAP(ci)
	case OpRTI, OpRES:
		return fmt.Errorf("%w: %#x", ErrIllegalOpcode, op)
	default:
		// unreachable: op is 4 bits and every value 0-15 is handled above
		return fmt.Errorf("%w: %#x", ErrIllegalOpcode, op)
	}
}

// Run drives the fetch-decode-execute loop until TRAP HALT, an illegal
// opcode, a host I/O failure, or ctx cancellation. The core has no internal
// suspension points of its own (SPEC_FULL.md §5); the ctx check is a
// cooperative cancellation point taken once per instruction, not a sign
// that the interpreter itself blocks on anything but the host shim.
func (m *VM) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		ci, err := m.Fetch()
		if err != nil {
			return err
		}
		if err := m.Execute(ci); err != nil {
			return err
		}
	}
}
