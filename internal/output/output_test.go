package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWriter_Status_PrintsIconAndMessage(t *testing.T) {
	// Given: a writer with a buffer
	buf := &bytes.Buffer{}
	w := New(buf, false)

	// When: printing a status message
	w.Status("🔍", "Indexing docs...")

	// Then: output contains icon and message
	assert.Equal(t, "🔍 Indexing docs...\n", buf.String())
}

func TestWriter_Status_NoIconIndents(t *testing.T) {
	buf := &bytes.Buffer{}
	w := New(buf, false)

	w.Status("", "details")

	assert.Equal(t, "   details\n", buf.String())
}

func TestWriter_SuccessWarningError(t *testing.T) {
	tests := []struct {
		name  string
		write func(w *Writer)
		icon  string
		msg   string
	}{
		{"success", func(w *Writer) { w.Successf("Indexed %d pages", 3) }, "✅", "Indexed 3 pages"},
		{"warning", func(w *Writer) { w.Warning("No aggregator") }, "⚠️", "No aggregator"},
		{"error", func(w *Writer) { w.Errorf("failed: %s", "boom") }, "❌", "failed: boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Given: a writer with a buffer
			buf := &bytes.Buffer{}
			w := New(buf, false)

			// When: writing the message
			tt.write(w)

			// Then: icon and message are present
			assert.Contains(t, buf.String(), tt.icon)
			assert.Contains(t, buf.String(), tt.msg)
		})
	}
}

func TestWriter_BufferIsNeverColored(t *testing.T) {
	// Given: a non-terminal writer with color enabled
	buf := &bytes.Buffer{}
	w := New(buf, false)

	// When: printing styled output
	w.Route("/button", "Button", "A clickable button.")

	// Then: no escape sequences are written
	assert.NotContains(t, buf.String(), "\x1b[")
	assert.Equal(t, "/button  Button\n   A clickable button.\n", buf.String())
}

func TestWriter_Field_SkipsEmpty(t *testing.T) {
	buf := &bytes.Buffer{}
	w := New(buf, true)

	w.Field("source", "")
	w.Field("source", "components/Button.tsx")

	assert.Equal(t, "   source: components/Button.tsx\n", buf.String())
}

func TestWriter_Code_IndentsLines(t *testing.T) {
	buf := &bytes.Buffer{}
	w := New(buf, true)

	w.Code("line1\nline2")

	lines := strings.Split(buf.String(), "\n")
	assert.Contains(t, lines, "  line1")
	assert.Contains(t, lines, "  line2")
}

func TestIsTTY_NonFile(t *testing.T) {
	assert.False(t, IsTTY(&bytes.Buffer{}))
	assert.False(t, IsTTY(nil))
}

func TestGetStyles_NoColorRendersPlain(t *testing.T) {
	s := GetStyles(true)

	assert.Equal(t, "text", s.Route.Render("text"))
}
