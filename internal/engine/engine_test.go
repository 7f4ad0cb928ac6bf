package engine

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestInstructionText(t *testing.T) {
	inst := Instruction{Mnemonic: "nop"}
	assert.Equal(t, "nop", inst.Text())

	inst = Instruction{Mnemonic: "mov", Args: "eax, 0x1"}
	assert.Equal(t, "mov eax, 0x1", inst.Text())
}
