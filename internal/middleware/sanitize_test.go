package middleware

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "tarefas.csv", "tarefas.csv"},
		{"unix traversal", "../../etc/passwd", "passwd"},
		{"windows path", `C:\Users\ana\plano.xlsx`, "plano.xlsx"},
		{"null byte", "tare\x00fas.csv", "tarefas.csv"},
		{"control chars", "tare\tfas\n.jsonl", "tarefas.jsonl"},
		{"only dots", "..", "unnamed_file"},
		{"empty", "", "unnamed_file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeFilename(tt.input))
		})
	}
}

func TestSanitizeFilename_TruncatesKeepingExtension(t *testing.T) {
	got := SanitizeFilename(strings.Repeat("a", 400) + ".xlsx")
	assert.Len(t, got, maxFilenameLength)
	assert.True(t, strings.HasSuffix(got, ".xlsx"))
}
