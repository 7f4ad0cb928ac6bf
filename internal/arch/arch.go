// Package arch contains the architecture profiles and word sizes supported
// by the listing store. It acts as a bridge between the store and the
// architecture specific encoder/decoder engines.
package arch

import "errors"

// ErrInvalidArchitecture is returned when an architecture token is not one
// of the supported profiles.
var ErrInvalidArchitecture = errors.New("invalid architecture")

// Architecture identifies an instruction set profile.
type Architecture string

// Supported architecture profiles.
const (
	X86   Architecture = "x86"
	X64   Architecture = "x64"
	ARM   Architecture = "arm"
	ARM64 Architecture = "arm64"
	MIPS  Architecture = "mips"
)

// Parse converts a token into an architecture profile.
func Parse(s string) (Architecture, error) {
	a := Architecture(s)
	if !a.Valid() {
		return "", ErrInvalidArchitecture
	}
	return a, nil
}

// Valid returns whether the architecture is a supported profile.
func (a Architecture) Valid() bool {
	switch a {
	case X86, X64, ARM, ARM64, MIPS:
		return true
	default:
		return false
	}
}

// Supported word sizes in bits, matching an assembler's BITS directive.
const (
	WordSize16 = 16
	WordSize32 = 32
	WordSize64 = 64
)

// ValidWordSize returns whether bits is a supported operating width.
func ValidWordSize(bits int) bool {
	switch bits {
	case WordSize16, WordSize32, WordSize64:
		return true
	default:
		return false
	}
}
