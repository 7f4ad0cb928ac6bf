package store

import (
	"encoding/hex"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// InvalidOpcodeMnemonic replaces the mnemonic of a row whose opcode text
// could not be decoded as hex bytes.
const InvalidOpcodeMnemonic = "<INVALID OPCODE SUPPLIED>"

// data definition directives, nasm style.
var dataDirectives = map[string]struct{}{
	"db": {},
	"dw": {},
	"dd": {},
	"dq": {},
}

// Row represents one line of the assembly listing. Address and Offset are
// derived fields owned by the store, all other fields are set by the caller
// building or editing the row.
type Row struct {
	Label    string // optional symbolic name bound to the row address, uppercase
	Address  uint64 // absolute address, meaningful only while InUse
	Offset   uint64 // cumulative byte offset from the listing start
	Opcode   []byte // binary encoding, raw text bytes after a failed SetOpcode
	Mnemonic string
	Comment  string
	Index    int // current position in the listing

	InUse bool // row holds a successfully encoded instruction
	Error bool // last mutation could not be completed consistently

	IsBranchOrCall   bool // mnemonic starts with a jump or call instruction
	IsDataDefinition bool // mnemonic is a db/dw/dd/dq directive

	Targets []uint64 // addresses control flow can transfer to
}

// NewRow creates an empty placeholder row at the given listing position.
func NewRow(index int) *Row {
	return &Row{
		Index:   index,
		Targets: []uint64{0},
	}
}

// Record is a detached snapshot of a row with display-ready values,
// the contract consumed by UI and serialization layers.
type Record map[string]any

// SetComment sets the free text comment of the row.
func (r *Row) SetComment(comment string) {
	r.Comment = comment
}

// SetLabel sets the label of the row, normalized to upper case.
func (r *Row) SetLabel(label string) {
	r.Label = strings.ToUpper(label)
}

// SetAddress parses a decimal or 0x-prefixed hexadecimal address string.
// It returns false and leaves the address unchanged if the text does not
// parse, the row is usable either way.
func (r *Row) SetAddress(text string) bool {
	var (
		address uint64
		err     error
	)
	if strings.HasPrefix(text, "0x") {
		address, err = strconv.ParseUint(text[2:], 16, 64)
	} else {
		address, err = strconv.ParseUint(text, 10, 64)
	}
	if err != nil {
		return false
	}

	r.Address = address
	return true
}

// SetOpcode decodes a hex string into the raw opcode bytes of the row,
// spaces are allowed and stripped. On malformed input the row is marked as
// erroneous and keeps the raw text for display and debugging.
func (r *Row) SetOpcode(hexStr string) {
	b, err := hex.DecodeString(strings.ReplaceAll(hexStr, " ", ""))
	if err != nil {
		r.InUse = false
		r.Opcode = []byte(hexStr)
		r.Mnemonic = InvalidOpcodeMnemonic
		r.Error = true
		return
	}

	r.Opcode = b
	r.InUse = true
	r.Error = false
}

// SetMnemonic sets the instruction text of the row, reclassifies it and
// normalizes its casing. Normal instructions are fully upper-cased, data
// definitions keep the operands as given but upper-case the directive and
// join the operand tokens without a separator. Empty text marks the row as
// no longer in use.
func (r *Row) SetMnemonic(text string) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		r.InUse = false
		return
	}

	leading := strings.ToLower(fields[0])
	r.IsBranchOrCall = strings.HasPrefix(leading, "j") || leading == "call"
	_, r.IsDataDefinition = dataDirectives[leading]

	if r.IsDataDefinition {
		r.Mnemonic = strings.ToUpper(fields[0]) + strings.Join(fields[1:], "")
	} else {
		r.Mnemonic = strings.ToUpper(text)
	}
	r.InUse = true
}

// DisplayAddress formats the address as a lower-case hex string.
func (r *Row) DisplayAddress() string {
	return fmt.Sprintf("0x%x", r.Address)
}

// DisplayOpcode formats the opcode bytes as lower-case hex pairs separated
// by single spaces.
func (r *Row) DisplayOpcode() string {
	var sb strings.Builder
	for i, b := range r.Opcode {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%02x", b)
	}
	return sb.String()
}

// Clone returns a deep copy of the row that shares no state with it.
func (r *Row) Clone() *Row {
	clone := *r
	clone.Opcode = slices.Clone(r.Opcode)
	clone.Targets = slices.Clone(r.Targets)
	return &clone
}

// ToRecord returns a detached snapshot of the row. Address and opcode carry
// the display formats, mutating the record does not affect the row.
func (r *Row) ToRecord() Record {
	return Record{
		"offset":             r.Offset,
		"label":              r.Label,
		"address":            r.DisplayAddress(),
		"opcode":             r.DisplayOpcode(),
		"mnemonic":           r.Mnemonic,
		"comment":            r.Comment,
		"index":              r.Index,
		"error":              r.Error,
		"in_use":             r.InUse,
		"targets":            slices.Clone(r.Targets),
		"is_data_definition": r.IsDataDefinition,
		"is_branch_or_call":  r.IsBranchOrCall,
	}
}
