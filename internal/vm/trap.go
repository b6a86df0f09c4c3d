package vm

// TRAP vectors serviced by execTRAP.
const (
	TrapGETC  = uint16(0x20)
	TrapOUT   = uint16(0x21)
	TrapPUTS  = uint16(0x22)
	TrapIN    = uint16(0x23)
	TrapPUTSP = uint16(0x24)
	TrapHALT  = uint16(0x25)
)

// inPrompt is the literal prompt TRAP IN writes before reading a character.
// Observable on stdout; tests assert it verbatim.
const inPrompt = "Enter a character: "

// execTRAP implements the TRAP instruction. R7 is always written with the
// pre-trap PC, even for an unrecognized vector, so that a handler written
// in LC-3 could return via JMP R7.
func (m *VM) execTRAP(ci uint16) error {
	m.Reg[7] = m.PC
	switch ci & 0xFF {
	case TrapGETC:
		c, err := m.Host.GetChar()
		if err != nil {
			return err
		}
		m.Reg[0] = uint16(c)
		m.updateFlags(0)
	case TrapOUT:
		if err := m.Host.PutChar(byte(m.Reg[0])); err != nil {
			return err
		}
		return m.Host.Flush()
	case TrapPUTS:
		addr := m.Reg[0]
		for {
			w := m.Mem[addr]
			if w == 0 {
				break
			}
			if err := m.Host.PutChar(byte(w)); err != nil {
				return err
			}
			addr++
		}
		return m.Host.Flush()
	case TrapIN:
		for i := 0; i < len(inPrompt); i++ {
			if err := m.Host.PutChar(inPrompt[i]); err != nil {
				return err
			}
		}
		c, err := m.Host.GetChar()
		if err != nil {
			return err
		}
		if err := m.Host.PutChar(c); err != nil {
			return err
		}
		if err := m.Host.Flush(); err != nil {
			return err
		}
		m.Reg[0] = uint16(c)
		m.updateFlags(0)
	case TrapPUTSP:
		addr := m.Reg[0]
		for {
			w := m.Mem[addr]
			if w == 0 {
				break
			}
			lo := byte(w & 0xFF)
			if err := m.Host.PutChar(lo); err != nil {
				return err
			}
			if hi := byte(w >> 8); hi != 0 {
				if err := m.Host.PutChar(hi); err != nil {
					return err
				}
			}
			addr++
		}
		return m.Host.Flush()
	case TrapHALT:
		for _, c := range []byte("HALT\n") {
			if err := m.Host.PutChar(c); err != nil {
				return err
			}
		}
		if err := m.Host.Flush(); err != nil {
			return err
		}
		return ErrHalted
	default:
		// unrecognized vector: silent no-op, R7 has already been written
	}
	return nil
}
