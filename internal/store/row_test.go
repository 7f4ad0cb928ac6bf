package store

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestRowSetMnemonic(t *testing.T) {
	tests := []struct {
		name             string
		input            string
		expected         string
		inUse            bool
		isBranchOrCall   bool
		isDataDefinition bool
	}{
		{"normal instruction", "mov eax, 1", "MOV EAX, 1", true, false, false},
		{"jump", "jmp 0x1000", "JMP 0X1000", true, true, false},
		{"conditional jump", "JNE short_loop", "JNE SHORT_LOOP", true, true, false},
		{"call", "call 0x4000", "CALL 0X4000", true, true, false},
		{"data definition", "db 1,2,3", "DB1,2,3", true, false, true},
		{"data definition word", "dw 0xdead, 0xbeef", "DW0xdead,0xbeef", true, false, true},
		{"data definition keeps operand case", "dq deadBeef", "DQdeadBeef", true, false, true},
		{"empty clears in use", "", "", false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := NewRow(0)
			row.SetMnemonic(tt.input)

			assert.Equal(t, tt.inUse, row.InUse)
			assert.Equal(t, tt.isBranchOrCall, row.IsBranchOrCall)
			assert.Equal(t, tt.isDataDefinition, row.IsDataDefinition)
			if tt.input != "" {
				assert.Equal(t, tt.expected, row.Mnemonic)
			}
		})
	}
}

func TestRowSetOpcode(t *testing.T) {
	t.Run("valid hex with spaces", func(t *testing.T) {
		row := NewRow(0)
		row.SetOpcode("89 d8")

		assert.True(t, row.InUse)
		assert.False(t, row.Error)
		assert.Equal(t, []byte{0x89, 0xd8}, row.Opcode)
	})

	t.Run("malformed hex", func(t *testing.T) {
		row := NewRow(0)
		row.SetOpcode("zz")

		assert.False(t, row.InUse)
		assert.True(t, row.Error)
		assert.Equal(t, InvalidOpcodeMnemonic, row.Mnemonic)
		assert.Equal(t, []byte("zz"), row.Opcode)
	})

	t.Run("corrected content clears the error", func(t *testing.T) {
		row := NewRow(0)
		row.SetOpcode("zz")
		row.SetOpcode("90")

		assert.True(t, row.InUse)
		assert.False(t, row.Error)
		assert.Equal(t, []byte{0x90}, row.Opcode)
	})

	t.Run("odd length hex", func(t *testing.T) {
		row := NewRow(0)
		row.SetOpcode("90f")

		assert.False(t, row.InUse)
		assert.True(t, row.Error)
	})
}

func TestRowSetAddress(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected uint64
		ok       bool
	}{
		{"decimal", "4096", 4096, true},
		{"hex", "0x1000", 0x1000, true},
		{"invalid", "street 42", 0xffff, false},
		{"empty", "", 0xffff, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := NewRow(0)
			row.Address = 0xffff

			ok := row.SetAddress(tt.input)

			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, row.Address)
		})
	}
}

func TestRowDisplay(t *testing.T) {
	row := NewRow(0)
	row.Address = 0x1000
	row.SetOpcode("90ff3c")

	assert.Equal(t, "0x1000", row.DisplayAddress())
	assert.Equal(t, "90 ff 3c", row.DisplayOpcode())

	// display output parses back to the same bytes
	clone := NewRow(0)
	clone.SetOpcode(row.DisplayOpcode())
	assert.Equal(t, row.Opcode, clone.Opcode)
}

func TestRowSetLabel(t *testing.T) {
	row := NewRow(0)
	row.SetLabel("loop_start")

	assert.Equal(t, "LOOP_START", row.Label)
}

func TestRowClone(t *testing.T) {
	row := NewRow(3)
	row.SetLabel("start")
	row.SetOpcode("90")
	row.Targets = []uint64{0x2000}

	clone := row.Clone()
	clone.Opcode[0] = 0xcc
	clone.Targets[0] = 0
	clone.Label = "OTHER"

	assert.Equal(t, []byte{0x90}, row.Opcode)
	assert.Equal(t, []uint64{0x2000}, row.Targets)
	assert.Equal(t, "START", row.Label)
}

func TestRowToRecord(t *testing.T) {
	row := NewRow(2)
	row.Address = 0x1000
	row.SetOpcode("90")
	row.SetMnemonic("nop")
	row.SetComment("entry point")

	record := row.ToRecord()

	assert.Equal(t, "0x1000", record["address"])
	assert.Equal(t, "90", record["opcode"])
	assert.Equal(t, "NOP", record["mnemonic"])
	assert.Equal(t, "entry point", record["comment"])
	assert.Equal(t, 2, record["index"])
	assert.Equal(t, true, record["in_use"])
	assert.Equal(t, false, record["error"])
	assert.Equal(t, false, record["is_data_definition"])
	assert.Equal(t, false, record["is_branch_or_call"])

	keys := []string{
		"offset", "label", "address", "opcode", "mnemonic", "comment",
		"index", "error", "in_use", "targets", "is_data_definition",
		"is_branch_or_call",
	}
	assert.Equal(t, len(keys), len(record))
	for _, key := range keys {
		_, ok := record[key]
		assert.True(t, ok)
	}

	// mutating the record targets does not affect the row
	targets := record["targets"].([]uint64)
	targets[0] = 0xffff
	assert.Equal(t, []uint64{0}, row.Targets)
}
