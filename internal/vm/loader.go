package vm

import (
	"encoding/binary"
	"fmt"
	"io"
)

// LoadImage reads a big-endian origin word followed by a sequence of
// big-endian 16-bit words from r and writes them contiguously into v.Mem
// starting at the origin, per SPEC_FULL.md §4.1. The word count is bounded
// by 0x10000-origin; any further words in r are silently discarded, and a
// trailing odd byte is discarded too (see DESIGN.md's Open Question
// resolution). LoadImage may be called more than once against the same VM
// to load several images that overlap; later writes win.
//
// An error is returned only if the two-byte origin cannot be read; an
// image whose body is empty (origin only) is legal.
func LoadImage(v *VM, r io.Reader) error {
	var originBuf [2]byte
	if _, err := io.ReadFull(r, originBuf[:]); err != nil {
		return fmt.Errorf("vm: failed to read image origin: %w", err)
	}
	origin := binary.BigEndian.Uint16(originBuf[:])

	maxWords := uint32(1<<16) - uint32(origin)
	addr := origin
	var wordBuf [2]byte
	for i := uint32(0); i < maxWords; i++ {
		n, err := io.ReadFull(r, wordBuf[:])
		if n == 0 {
			break
		}
		if err != nil {
			// a partial trailing word (odd total length) is discarded,
			// same as a clean EOF
			break
		}
		v.Mem[addr] = binary.BigEndian.Uint16(wordBuf[:])
		addr++
	}
	return nil
}

// EncodeImage serializes origin and words back into the big-endian image
// format LoadImage consumes. It exists to make the loader's round-trip
// property (SPEC_FULL.md §8, property 9) directly testable; production
// code never needs to re-serialize a loaded image.
func EncodeImage(origin uint16, words []uint16) []byte {
	buf := make([]byte, 2+2*len(words))
	binary.BigEndian.PutUint16(buf[0:2], origin)
	for i, w := range words {
		binary.BigEndian.PutUint16(buf[2+2*i:4+2*i], w)
	}
	return buf
}
