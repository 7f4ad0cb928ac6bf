package listing

import (
	"bytes"
	"strings"
	"testing"

	"github.com/redteamcaliber/dash/internal/store"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

func testListingStore(t *testing.T) *store.Store {
	t.Helper()

	st := store.New(log.NewTestLogger(t))
	st.SetBaseAddress(0x1000)

	first := store.NewRow(0)
	first.SetLabel("start")
	first.SetOpcode("90")
	first.SetMnemonic("nop")
	first.SetComment("entry point")
	assert.NoError(t, st.UpdateRow(0, first))

	second := store.NewRow(1)
	second.SetOpcode("ff e3")
	second.SetMnemonic("jmp ebx")
	assert.NoError(t, st.UpdateRow(1, second))

	return st
}

func TestWrite(t *testing.T) {
	st := testListingStore(t)

	var buf bytes.Buffer
	writer := New(st, &buf, Options{})
	assert.NoError(t, writer.Write())

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Len(t, lines, 3)
	assert.Equal(t, "START:", lines[0])
	assert.Contains(t, lines[1], "0x1000")
	assert.Contains(t, lines[1], "90")
	assert.Contains(t, lines[1], "NOP ; entry point")
	assert.Contains(t, lines[2], "0x1001")
	assert.Contains(t, lines[2], "ff e3")
	assert.Contains(t, lines[2], "JMP EBX")
}

func TestWriteOffsetComments(t *testing.T) {
	st := testListingStore(t)

	var buf bytes.Buffer
	writer := New(st, &buf, Options{OffsetComments: true})
	assert.NoError(t, writer.Write())

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[1], "000000  "))
	assert.True(t, strings.HasPrefix(lines[2], "000001  "))
}

func TestWriteHiddenLabels(t *testing.T) {
	st := testListingStore(t)
	st.ToggleDisplayLabels()

	var buf bytes.Buffer
	writer := New(st, &buf, Options{})
	assert.NoError(t, writer.Write())

	assert.False(t, strings.Contains(buf.String(), "START:"))
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Len(t, lines, 2)
}
