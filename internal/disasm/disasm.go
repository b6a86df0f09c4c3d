// Package disasm turns a single LC-3 instruction word into a human-readable
// mnemonic. It is a pure function with no state, consulted only by the
// CLI's --trace flag; it is never on the
// execution path (see internal/vm, whose Execute has its own independent
// field-extraction logic).
package disasm

import (
	"fmt"

	"lc3vm/internal/vm"
)

// Decode disassembles ci into LC-3 assembly syntax. It never panics: every
// one of the 65,536 possible instruction words maps to some opcode in
// 0-15, and every opcode has a case below, including the reserved ones.
func Decode(ci uint16) string {
	op := ci >> 12
	dr := (ci >> 9) & 0x7
	sr1 := (ci >> 6) & 0x7
	sr2 := ci & 0x7
	imm5 := int16(vm.SignExtend(ci&0x1F, 5))
	imm6 := int16(vm.SignExtend(ci&0x3F, 6))
	off9 := int16(vm.SignExtend(ci&0x1FF, 9))
	off11 := int16(vm.SignExtend(ci&0x7FF, 11))
	baseR := (ci >> 6) & 0x7

	switch op {
	case vm.OpBR:
		n, z, p := (ci>>11)&1, (ci>>10)&1, (ci>>9)&1
		return fmt.Sprintf("br%s%s%s %d", flag(n, "n"), flag(z, "z"), flag(p, "p"), off9)
	case vm.OpADD:
		if (ci>>5)&1 != 0 {
			return fmt.Sprintf("add r%d, r%d, #%d", dr, sr1, imm5)
		}
		return fmt.Sprintf("add r%d, r%d, r%d", dr, sr1, sr2)
	case vm.OpLD:
		return fmt.Sprintf("ld r%d, %d", dr, off9)
	case vm.OpST:
		return fmt.Sprintf("st r%d, %d", dr, off9)
	case vm.OpJSR:
		if (ci>>11)&1 != 0 {
			return fmt.Sprintf("jsr %d", off11)
		}
		return fmt.Sprintf("jsrr r%d", baseR)
	case vm.OpAND:
		if (ci>>5)&1 != 0 {
			return fmt.Sprintf("and r%d, r%d, #%d", dr, sr1, imm5)
		}
		return fmt.Sprintf("and r%d, r%d, r%d", dr, sr1, sr2)
	case vm.OpLDR:
		return fmt.Sprintf("ldr r%d, r%d, %d", dr, baseR, imm6)
	case vm.OpSTR:
		return fmt.Sprintf("str r%d, r%d, %d", dr, baseR, imm6)
	case vm.OpRTI:
		return "rti"
	case vm.OpNOT:
		return fmt.Sprintf("not r%d, r%d", dr, sr1)
	case vm.OpLDI:
		return fmt.Sprintf("ldi r%d, %d", dr, off9)
	case vm.OpSTI:
		return fmt.Sprintf("sti r%d, %d", dr, off9)
	case vm.OpJMP:
		if baseR == 7 {
			return "ret"
		}
		return fmt.Sprintf("jmp r%d", baseR)
	case vm.OpRES:
		return "<reserved>"
	case vm.OpLEA:
		return fmt.Sprintf("lea r%d, %d", dr, off9)
	case vm.OpTRAP:
		return trapMnemonic(ci & 0xFF)
	default:
		return fmt.Sprintf("<unknown opcode %#x>", op)
	}
}

func flag(bit uint16, letter string) string {
	if bit != 0 {
		return letter
	}
	return ""
}

func trapMnemonic(vec uint16) string {
	switch vec {
	case vm.TrapGETC:
		return "trap getc"
	case vm.TrapOUT:
		return "trap out"
	case vm.TrapPUTS:
		return "trap puts"
	case vm.TrapIN:
		return "trap in"
	case vm.TrapPUTSP:
		return "trap putsp"
	case vm.TrapHALT:
		return "trap halt"
	default:
		return fmt.Sprintf("trap %#02x", vec)
	}
}
