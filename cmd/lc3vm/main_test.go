package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"lc3vm/internal/vm"
)

// TestExitCodeForError covers SPEC_FULL.md §8 property 13's exit-code
// mapping directly: errUsage maps to 2, any other non-nil error (including
// a wrapped vm.ErrIllegalOpcode or an image-load failure) maps to 1, nil
// maps to 0.
func TestExitCodeForError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"usage", errUsage, 2},
		{"illegal opcode", &errLoad{path: "x", err: vm.ErrIllegalOpcode}, 1},
		{"load failure", &errLoad{path: "x", err: os.ErrNotExist}, 1},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := exitCodeForError(c.err); got != c.want {
				t.Errorf("exitCodeForError(%v) = %d, want %d", c.err, got, c.want)
			}
		})
	}
}

// TestCLIZeroArgs covers the "no image argument" case end to end through
// newRootCmd's Args validator, without relying on cobra's own default
// usage/exit-code behavior.
func TestCLIZeroArgs(t *testing.T) {
	trace := false
	cmd := newRootCmd(&trace)
	cmd.SetArgs([]string{})
	err := cmd.Execute()
	if !errors.Is(err, errUsage) {
		t.Fatalf("Execute() = %v, want errUsage", err)
	}
	if got := exitCodeForError(err); got != 2 {
		t.Errorf("exitCodeForError(%v) = %d, want 2", err, got)
	}
}

// TestCLIBadPath covers an image path that cannot be opened. loadPath fails
// before any terminal is acquired, so this never touches stdin.
func TestCLIBadPath(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "does-not-exist.obj")
	trace := false
	cmd := newRootCmd(&trace)
	cmd.SetArgs([]string{missing})
	err := cmd.Execute()
	if err == nil {
		t.Fatal("Execute() = nil, want a load error")
	}
	if errors.Is(err, errUsage) {
		t.Fatalf("Execute() = %v, want a load error, not errUsage", err)
	}
	var le *errLoad
	if !errors.As(err, &le) {
		t.Fatalf("Execute() = %v (%T), want *errLoad", err, err)
	}
	if got := exitCodeForError(err); got != 1 {
		t.Errorf("exitCodeForError(%v) = %d, want 1", err, got)
	}
}

// TestCLIIllegalOpcode covers a loadable image whose very first instruction
// is the reserved RTI opcode, driven through the real CLI pipeline
// (runImages -> vm.Run -> vm.ErrIllegalOpcode). It exercises the same
// terminal-acquisition path production runs do; stdin in a test binary has
// no pending input, so the background reader goroutine blocks harmlessly
// and the illegal opcode is hit on the very first fetch-execute cycle.
func TestCLIIllegalOpcode(t *testing.T) {
	const opRTI = uint16(8)
	path := filepath.Join(t.TempDir(), "illegal.obj")
	image := vm.EncodeImage(vm.PCStart, []uint16{opRTI << 12})
	if err := os.WriteFile(path, image, 0o644); err != nil {
		t.Fatal(err)
	}

	trace := false
	cmd := newRootCmd(&trace)
	cmd.SetArgs([]string{path})
	err := cmd.Execute()
	if !errors.Is(err, vm.ErrIllegalOpcode) {
		t.Fatalf("Execute() = %v, want an error wrapping vm.ErrIllegalOpcode", err)
	}
	if got := exitCodeForError(err); got != 1 {
		t.Errorf("exitCodeForError(%v) = %d, want 1", err, got)
	}
}
