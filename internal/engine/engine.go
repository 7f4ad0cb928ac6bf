// Package engine defines the boundary to the external instruction set
// engines that encode and decode machine code for the active architecture
// profile. The listing store itself never encodes or decodes.
package engine

import "errors"

// ErrUnsupportedArchitecture is returned when no engine implementation
// exists for the selected architecture profile.
var ErrUnsupportedArchitecture = errors.New("unsupported architecture")

// Instruction is one decoded machine instruction.
type Instruction struct {
	Address  uint64 // address the instruction was decoded at
	Bytes    []byte // raw encoding
	Mnemonic string // lower-case operation name
	Args     string // operand string, empty for instructions without operands
}

// Text returns the full instruction text, mnemonic plus operands.
func (i Instruction) Text() string {
	if i.Args == "" {
		return i.Mnemonic
	}
	return i.Mnemonic + " " + i.Args
}

// Decoder decodes one instruction at the start of a byte buffer.
type Decoder interface {
	// Decode returns the instruction at the start of buf, assumed to be
	// located at the given address, or an error if no valid instruction
	// starts there.
	Decode(buf []byte, address uint64) (Instruction, error)
}

// Encoder turns instruction text into machine code. Encode failures are
// surfaced by the caller as an erroneous, not in-use row.
type Encoder interface {
	Encode(mnemonic string, address uint64) ([]byte, error)
}
