// Package fakehost provides a deterministic, in-memory vm.HostIO for
// tests, so every scenario in SPEC_FULL.md §8 is reproducible without a
// real terminal. Input is a fixed queue of bytes consumed in order; output
// is captured into a buffer the test can inspect after Run returns.
package fakehost

import (
	"bytes"
	"io"
)

// Host is a queue-backed vm.HostIO. The zero value has no input and an
// empty output buffer; use New to preload input.
type Host struct {
	input  []byte
	pos    int
	Output bytes.Buffer
}

// New returns a Host whose GetChar calls will return the bytes of input in
// order, then io.EOF once exhausted.
func New(input string) *Host {
	return &Host{input: []byte(input)}
}

// KeyAvailable implements vm.HostIO.
func (h *Host) KeyAvailable() bool {
	return h.pos < len(h.input)
}

// GetChar implements vm.HostIO.
func (h *Host) GetChar() (byte, error) {
	if h.pos >= len(h.input) {
		return 0, io.EOF
	}
	b := h.input[h.pos]
	h.pos++
	return b, nil
}

// PutChar implements vm.HostIO.
func (h *Host) PutChar(b byte) error {
	return h.Output.WriteByte(b)
}

// Flush implements vm.HostIO. Output is a plain buffer, so nothing to do;
// the method exists to satisfy vm.HostIO and to mark the points in a test
// where output is documented to become visible.
func (h *Host) Flush() error {
	return nil
}

// The vm.HostIO conformance check for Host lives in internal/vm's tests:
// those tests import this package, so importing vm here would be a cycle.
