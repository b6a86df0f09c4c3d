package fakehost_test

import (
	"errors"
	"io"
	"testing"

	"lc3vm/internal/host/fakehost"
)

func TestHostConsumesInputInOrder(t *testing.T) {
	h := fakehost.New("ab")
	if !h.KeyAvailable() {
		t.Fatal("KeyAvailable() = false, want true")
	}
	c, err := h.GetChar()
	if err != nil || c != 'a' {
		t.Fatalf("GetChar() = %q, %v, want 'a', nil", c, err)
	}
	c, err = h.GetChar()
	if err != nil || c != 'b' {
		t.Fatalf("GetChar() = %q, %v, want 'b', nil", c, err)
	}
	if h.KeyAvailable() {
		t.Fatal("KeyAvailable() = true, want false after input exhausted")
	}
	if _, err := h.GetChar(); !errors.Is(err, io.EOF) {
		t.Fatalf("GetChar() after exhaustion = %v, want io.EOF", err)
	}
}

func TestHostCapturesOutput(t *testing.T) {
	h := fakehost.New("")
	for _, b := range []byte("hi") {
		if err := h.PutChar(b); err != nil {
			t.Fatal(err)
		}
	}
	if err := h.Flush(); err != nil {
		t.Fatal(err)
	}
	if got := h.Output.String(); got != "hi" {
		t.Errorf("Output = %q, want %q", got, "hi")
	}
}
