// Package store implements the editable assembly listing: an ordered row
// sequence with a label registry that keeps addresses and offsets
// consistent across every mutation.
package store

import (
	"errors"
	"fmt"
	"iter"
	"slices"
	"strings"

	"github.com/redteamcaliber/dash/internal/arch"
	"github.com/redteamcaliber/dash/internal/engine"
	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/retrogolib/set"
)

// ErrIndexOutOfRange is returned when a row index does not address a row
// of the listing.
var ErrIndexOutOfRange = errors.New("row index out of range")

// DefaultRows is the number of empty placeholder rows of a new session.
const DefaultRows = 20

// characters whose counts must match between a stored mnemonic and a fresh
// decode for a label replacement to be applied.
const shapeChars = "[]+-,"

// Store holds the state of one editing session: the ordered row sequence,
// the label registry and the active architecture profile. It is the sole
// owner of the offset and address layout of the listing.
type Store struct {
	logger *log.Logger

	architecture  arch.Architecture
	wordSize      int
	baseAddress   uint64
	displayLabels bool

	rows       []*Row
	labels     set.Set[string]
	labelNames []string // registration order, for substring scans
}

// New creates a store for a new editing session, pre-populated with empty
// placeholder rows and defaulting to the x86 profile in 32-bit mode.
func New(logger *log.Logger) *Store {
	s := &Store{
		logger:        logger,
		architecture:  arch.X86,
		wordSize:      arch.WordSize32,
		displayLabels: true,
		labels:        set.New[string](),
	}
	s.AppendEmptyRows(DefaultRows)
	return s
}

// Len returns the number of rows of the listing, including placeholders.
func (s *Store) Len() int {
	return len(s.rows)
}

// Architecture returns the active architecture profile.
func (s *Store) Architecture() arch.Architecture {
	return s.architecture
}

// WordSize returns the active operating width in bits.
func (s *Store) WordSize() int {
	return s.wordSize
}

// SetArchitecture selects the architecture profile used by the external
// instruction set engine. Existing rows are not invalidated.
func (s *Store) SetArchitecture(profile arch.Architecture) error {
	if !profile.Valid() {
		return fmt.Errorf("profile %q: %w", string(profile), arch.ErrInvalidArchitecture)
	}

	s.architecture = profile
	s.logger.Debug("Architecture changed", log.String("profile", string(profile)))
	return nil
}

// SetWordSize sets the operating width, analogous to an assembler BITS
// directive. It returns false for anything but 16, 32 or 64.
func (s *Store) SetWordSize(bits int) bool {
	if !arch.ValidWordSize(bits) {
		return false
	}
	s.wordSize = bits
	return true
}

// BaseAddress returns the address the listing starts at.
func (s *Store) BaseAddress() uint64 {
	return s.baseAddress
}

// SetBaseAddress rebases the listing to the given start address and
// recomputes the layout of all rows.
func (s *Store) SetBaseAddress(address uint64) {
	s.baseAddress = address
	s.recomputeLayout()
}

// DisplayLabels returns whether labels should be rendered.
func (s *Store) DisplayLabels() bool {
	return s.displayLabels
}

// ToggleDisplayLabels flips the label display flag of the session.
func (s *Store) ToggleDisplayLabels() {
	s.displayLabels = !s.displayLabels
}

// Reset drops all rows and labels, the architecture profile and word size
// of the session are kept.
func (s *Store) Reset() {
	s.rows = nil
	s.labels = set.New[string]()
	s.labelNames = nil
	s.logger.Debug("Store reset")
}

// AppendEmptyRows appends n placeholder rows at the end of the listing.
func (s *Store) AppendEmptyRows(n int) {
	index := len(s.rows)
	for range n {
		s.rows = append(s.rows, NewRow(index))
		index++
	}
}

// InsertRowAt inserts a row at the given position, shifts all following
// rows and recomputes the listing layout.
func (s *Store) InsertRowAt(index int, row *Row) error {
	if index < 0 || index > len(s.rows) {
		return fmt.Errorf("inserting row at index %d: %w", index, ErrIndexOutOfRange)
	}

	s.rows = slices.Insert(s.rows, index, row)
	for i := index; i < len(s.rows); i++ {
		s.rows[i].Index = i
	}

	s.recomputeLayout()
	return nil
}

// InsertDecoded builds an in-use row from an instruction decoded by the
// external engine and inserts it at the given position.
func (s *Store) InsertDecoded(index int, inst engine.Instruction) error {
	row := NewRow(index)
	row.Address = inst.Address
	row.SetMnemonic(inst.Text())
	row.Opcode = slices.Clone(inst.Bytes)

	return s.InsertRowAt(index, row)
}

// DeleteRow removes the row at the given position, renumbers the remaining
// rows and recomputes the listing layout.
func (s *Store) DeleteRow(index int) error {
	if index < 0 || index >= len(s.rows) {
		return fmt.Errorf("deleting row at index %d: %w", index, ErrIndexOutOfRange)
	}

	s.rows = slices.Delete(s.rows, index, index+1)
	for i, row := range s.rows {
		row.Index = i
	}

	s.recomputeLayout()
	return nil
}

// UpdateRow replaces the row at the given position. A not yet known label
// carried by the new row is registered.
func (s *Store) UpdateRow(index int, row *Row) error {
	if index < 0 || index >= len(s.rows) {
		return fmt.Errorf("updating row at index %d: %w", index, ErrIndexOutOfRange)
	}

	row.Index = index
	s.rows[index] = row
	s.registerLabel(row.Label)

	s.recomputeLayout()
	return nil
}

// GetRow returns a deep copy of the row at the given position.
func (s *Store) GetRow(index int) (*Row, error) {
	if index < 0 || index >= len(s.rows) {
		return nil, fmt.Errorf("getting row at index %d: %w", index, ErrIndexOutOfRange)
	}
	return s.rows[index].Clone(), nil
}

// Rows returns an iterator yielding a deep copy of every row in index
// order. Mutating a yielded row does not affect the store.
func (s *Store) Rows() iter.Seq[*Row] {
	return func(yield func(*Row) bool) {
		for _, row := range s.rows {
			if !yield(row.Clone()) {
				return
			}
		}
	}
}

// ContainsLabel returns whether any registered label appears as a
// substring of the given instruction text.
func (s *Store) ContainsLabel(text string) bool {
	for _, label := range s.labelNames {
		if strings.Contains(text, label) {
			return true
		}
	}
	return false
}

// ReplaceLabelReference validates that the stored mnemonic of a label
// bearing row and a freshly decoded instruction text still agree on the
// instruction and its operand shape. It returns the upper-cased mnemonic
// to substitute, or an empty string after flagging the row when the decode
// diverged and the replacement must not be applied.
func (s *Store) ReplaceLabelReference(row *Row, decoded string) string {
	rowOp := leadingToken(row.Mnemonic)
	decodedOp := leadingToken(decoded)
	if !strings.EqualFold(rowOp, decodedOp) {
		row.Error = true
		return ""
	}

	for _, c := range shapeChars {
		if strings.Count(row.Mnemonic, string(c)) != strings.Count(decoded, string(c)) {
			row.Error = true
			return ""
		}
	}

	return strings.ToUpper(row.Mnemonic)
}

// ClearErrors clears the error flag of every row.
func (s *Store) ClearErrors() {
	for _, row := range s.rows {
		row.Error = false
	}
}

// SetError sets the error flag of the row at the given position.
func (s *Store) SetError(index int) error {
	if index < 0 || index >= len(s.rows) {
		return fmt.Errorf("setting error at index %d: %w", index, ErrIndexOutOfRange)
	}
	s.rows[index].Error = true
	return nil
}

func (s *Store) registerLabel(label string) {
	if label == "" || s.labels.Contains(label) {
		return
	}
	s.labels.Add(label)
	s.labelNames = append(s.labelNames, label)
}

// recomputeLayout reassigns addresses and offsets across the listing. Row 0
// is the anchor: offset 0 and the base address of the session. Rows not in
// use contribute zero bytes and keep their stale values, in-use rows are
// packed gapless behind the nearest in-use predecessor.
func (s *Store) recomputeLayout() {
	if len(s.rows) == 0 {
		return
	}

	first := s.rows[0]
	first.Offset = 0
	nextAddress := s.baseAddress
	nextOffset := uint64(0)
	if first.InUse {
		first.Address = s.baseAddress
		size := uint64(len(first.Opcode))
		nextAddress += size
		nextOffset += size
	}

	for _, row := range s.rows[1:] {
		if !row.InUse {
			continue
		}

		row.Address = nextAddress
		row.Offset = nextOffset
		size := uint64(len(row.Opcode))
		nextAddress += size
		nextOffset += size
	}
}

func leadingToken(text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
