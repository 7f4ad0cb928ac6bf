// Package listing implements rendering of a listing store as text output.
package listing

import (
	"fmt"
	"io"

	"github.com/redteamcaliber/dash/internal/store"
)

// Writer renders the rows of a listing store.
type Writer struct {
	store   *store.Store
	writer  io.Writer
	options Options
}

// Options of the writer.
type Options struct {
	OffsetComments bool // prefix each line with the row byte offset
}

// New creates a new writer.
func New(st *store.Store, writer io.Writer, options Options) *Writer {
	return &Writer{
		store:   st,
		writer:  writer,
		options: options,
	}
}

// Write renders all in-use rows of the store, one line per row. Placeholder
// rows do not produce output.
func (w *Writer) Write() error {
	for row := range w.store.Rows() {
		if !row.InUse {
			continue
		}
		if err := w.writeRow(row); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) writeRow(row *store.Row) error {
	if row.Label != "" && w.store.DisplayLabels() {
		if _, err := fmt.Fprintf(w.writer, "%s:\n", row.Label); err != nil {
			return fmt.Errorf("writing label line: %w", err)
		}
	}

	if w.options.OffsetComments {
		if _, err := fmt.Fprintf(w.writer, "%06x  ", row.Offset); err != nil {
			return fmt.Errorf("writing offset: %w", err)
		}
	}

	line := fmt.Sprintf("%-10s  %-24s  %s", row.DisplayAddress(), row.DisplayOpcode(), row.Mnemonic)
	if row.Comment != "" {
		line += " ; " + row.Comment
	}

	if _, err := fmt.Fprintln(w.writer, line); err != nil {
		return fmt.Errorf("writing line: %w", err)
	}
	return nil
}
