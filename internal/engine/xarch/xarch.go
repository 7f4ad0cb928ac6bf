// Package xarch implements the decoder side of the engine boundary on top
// of the golang.org/x/arch disassembler packages.
package xarch

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/redteamcaliber/dash/internal/arch"
	"github.com/redteamcaliber/dash/internal/engine"
	"golang.org/x/arch/arm/armasm"
	"golang.org/x/arch/arm64/arm64asm"
	"golang.org/x/arch/x86/x86asm"
)

// ErrNoInstruction is returned when the buffer does not start with a valid
// instruction for the active profile.
var ErrNoInstruction = errors.New("no valid instruction at this position")

var errInvalidWordSize = errors.New("invalid word size")

var _ engine.Decoder = &Decoder{}

// Decoder decodes instructions for one architecture profile and word size.
type Decoder struct {
	profile  arch.Architecture
	wordSize int
}

// New creates a decoder for the given profile and word size. The mips
// profile has no x/arch disassembler and is reported as unsupported.
func New(profile arch.Architecture, wordSize int) (*Decoder, error) {
	if !profile.Valid() {
		return nil, fmt.Errorf("profile %q: %w", string(profile), arch.ErrInvalidArchitecture)
	}
	if profile == arch.MIPS {
		return nil, fmt.Errorf("profile %q: %w", string(profile), engine.ErrUnsupportedArchitecture)
	}
	if !arch.ValidWordSize(wordSize) {
		return nil, fmt.Errorf("%d bits: %w", wordSize, errInvalidWordSize)
	}

	return &Decoder{
		profile:  profile,
		wordSize: wordSize,
	}, nil
}

// Decode returns the instruction at the start of buf.
func (d *Decoder) Decode(buf []byte, address uint64) (engine.Instruction, error) {
	switch d.profile {
	case arch.X86, arch.X64:
		return d.decodeX86(buf, address)
	case arch.ARM:
		return d.decodeARM(buf, address)
	case arch.ARM64:
		return d.decodeARM64(buf, address)
	default:
		return engine.Instruction{}, fmt.Errorf("profile %q: %w", string(d.profile), engine.ErrUnsupportedArchitecture)
	}
}

func (d *Decoder) decodeX86(buf []byte, address uint64) (engine.Instruction, error) {
	mode := d.wordSize
	if d.profile == arch.X64 {
		mode = arch.WordSize64
	}

	inst, err := x86asm.Decode(buf, mode)
	if err != nil {
		return engine.Instruction{}, fmt.Errorf("%w: %w", ErrNoInstruction, err)
	}

	text := x86asm.IntelSyntax(inst, address, nil)
	return newInstruction(text, buf[:inst.Len], address), nil
}

func (d *Decoder) decodeARM(buf []byte, address uint64) (engine.Instruction, error) {
	inst, err := armasm.Decode(buf, armasm.ModeARM)
	if err != nil {
		return engine.Instruction{}, fmt.Errorf("%w: %w", ErrNoInstruction, err)
	}

	text := armasm.GNUSyntax(inst)
	return newInstruction(text, buf[:inst.Len], address), nil
}

func (d *Decoder) decodeARM64(buf []byte, address uint64) (engine.Instruction, error) {
	inst, err := arm64asm.Decode(buf)
	if err != nil {
		return engine.Instruction{}, fmt.Errorf("%w: %w", ErrNoInstruction, err)
	}

	// arm64 instructions are fixed width
	text := arm64asm.GNUSyntax(inst)
	return newInstruction(text, buf[:4], address), nil
}

func newInstruction(text string, raw []byte, address uint64) engine.Instruction {
	mnemonic, args, _ := strings.Cut(text, " ")
	return engine.Instruction{
		Address:  address,
		Bytes:    slices.Clone(raw),
		Mnemonic: strings.ToLower(mnemonic),
		Args:     strings.TrimSpace(args),
	}
}
