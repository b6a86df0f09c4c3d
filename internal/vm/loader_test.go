package vm

import (
	"bytes"
	"testing"
)

// TestLoadImageRoundTrip covers property 8/9: encoding a memory range as a
// big-endian image and loading it back yields identical memory.
func TestLoadImageRoundTrip(t *testing.T) {
	origin := uint16(0x3000)
	words := []uint16{0x1234, 0xFFFF, 0x0000, 0x0042}

	m := New(nil)
	if err := LoadImage(m, bytes.NewReader(EncodeImage(origin, words))); err != nil {
		t.Fatalf("LoadImage: %v", err)
	}
	for i, w := range words {
		if got := m.Mem[origin+uint16(i)]; got != w {
			t.Errorf("Mem[%#04x] = %#04x, want %#04x", origin+uint16(i), got, w)
		}
	}
}

// TestLoadImageEmptyBody covers "origin only, no words" being legal.
func TestLoadImageEmptyBody(t *testing.T) {
	m := New(nil)
	if err := LoadImage(m, bytes.NewReader(EncodeImage(0x3000, nil))); err != nil {
		t.Fatalf("LoadImage: %v", err)
	}
}

// TestLoadImageFailsOnShortOrigin covers the one documented failure mode:
// the origin word itself cannot be read.
func TestLoadImageFailsOnShortOrigin(t *testing.T) {
	m := New(nil)
	if err := LoadImage(m, bytes.NewReader([]byte{0x30})); err == nil {
		t.Fatal("LoadImage: want error on truncated origin, got nil")
	}
}

// TestLoadImageTruncatesOddTrailingByte covers the documented "partial
// trailing byte is discarded" edge case.
func TestLoadImageTruncatesOddTrailingByte(t *testing.T) {
	m := New(nil)
	data := append(EncodeImage(0x3000, []uint16{0x0011}), 0xAB)
	if err := LoadImage(m, bytes.NewReader(data)); err != nil {
		t.Fatalf("LoadImage: %v", err)
	}
	if m.Mem[0x3000] != 0x0011 {
		t.Errorf("Mem[0x3000] = %#04x, want 0x0011", m.Mem[0x3000])
	}
	if m.Mem[0x3001] != 0 {
		t.Errorf("Mem[0x3001] = %#04x, want 0 (trailing odd byte discarded)", m.Mem[0x3001])
	}
}

// TestLoadImageTruncatesAtTopOfMemory covers the Open Question resolution:
// a body exceeding 0x10000-origin words is silently truncated, not an
// error.
func TestLoadImageTruncatesAtTopOfMemory(t *testing.T) {
	origin := uint16(0xFFFE)
	words := []uint16{0x1111, 0x2222, 0x3333} // only 2 words fit before wraparound
	m := New(nil)
	if err := LoadImage(m, bytes.NewReader(EncodeImage(origin, words))); err != nil {
		t.Fatalf("LoadImage: %v", err)
	}
	if m.Mem[0xFFFE] != 0x1111 || m.Mem[0xFFFF] != 0x2222 {
		t.Fatalf("Mem[0xFFFE:] = %#04x %#04x, want 0x1111 0x2222", m.Mem[0xFFFE], m.Mem[0xFFFF])
	}
	if m.Mem[0x0000] != 0 {
		t.Errorf("Mem[0x0000] = %#04x, want 0 (third word must be discarded, not wrapped)", m.Mem[0x0000])
	}
}

// TestLoadImageSequentialOverlap covers "multiple images loaded
// sequentially may overlap, with later writes overwriting earlier ones".
func TestLoadImageSequentialOverlap(t *testing.T) {
	m := New(nil)
	if err := LoadImage(m, bytes.NewReader(EncodeImage(0x3000, []uint16{1, 2, 3}))); err != nil {
		t.Fatalf("LoadImage(first): %v", err)
	}
	if err := LoadImage(m, bytes.NewReader(EncodeImage(0x3001, []uint16{99}))); err != nil {
		t.Fatalf("LoadImage(second): %v", err)
	}
	if m.Mem[0x3000] != 1 || m.Mem[0x3001] != 99 || m.Mem[0x3002] != 3 {
		t.Fatalf("Mem[0x3000:0x3003] = %d %d %d, want 1 99 3",
			m.Mem[0x3000], m.Mem[0x3001], m.Mem[0x3002])
	}
}
