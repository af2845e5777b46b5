package terminal

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLinesFor(t *testing.T) {
	assert.Equal(t, 1, LinesFor("", 80))
	assert.Equal(t, 1, LinesFor("short", 80))
	assert.Equal(t, 2, LinesFor(strings.Repeat("x", 81), 80))
	assert.Equal(t, 2, LinesFor(strings.Repeat("x", 100), 0))
}

func TestClearPreviousLines(t *testing.T) {
	var buf bytes.Buffer
	ClearPreviousLines(&buf, 2)
	assert.Equal(t, 3, strings.Count(buf.String(), "\x1b[2K"))
	assert.Equal(t, 2, strings.Count(buf.String(), "\x1b[1A"))
}

func TestNonTerminalFile(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "out")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	assert.False(t, IsInteractive(f))
	assert.Equal(t, defaultWidth, Width(f))
	assert.False(t, IsInteractive(nil))
}
