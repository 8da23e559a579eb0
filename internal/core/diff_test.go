package core

import (
	"strings"
	"testing"
)

func TestLooksLikeText(t *testing.T) {
	tests := []struct {
		name    string
		content []byte
		want    bool
	}{
		{"plain ASCII text", []byte("Hello, World!\nThis is a test."), true},
		{"UTF-8 with special chars", []byte("Hello 世界! Ñoño café"), true},
		{"empty file", []byte(""), true},
		{"newlines and spaces", []byte("\n\n  \t  \n"), true},
		{"JSON content", []byte(`{"key": "value", "number": 123}`), true},
		{"content with null bytes", []byte("Hello\x00World"), false},
		{"non-UTF-8 sequences", []byte{0x80, 0x81, 0x82, 0x83, 0x84}, false},
		{"lots of non-printable", []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09, 0x0A}, false},
		{"one escape in long text", []byte("\x1b[1mbold text and more words here"), true},
		{"rune split at sample end", append([]byte(strings.Repeat("a", textSample-1)), "é"...), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LooksLikeText(tt.content); got != tt.want {
				t.Errorf("LooksLikeText() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUnifiedDiff(t *testing.T) {
	tests := []struct {
		name     string
		old, new string
		contains []string
		empty    bool
	}{
		{
			name:  "identical",
			old:   "line1\nline2\n",
			new:   "line1\nline2\n",
			empty: true,
		},
		{
			name:     "changed line",
			old:      "line1\nline2\nline3\n",
			new:      "line1\nCHANGED\nline3\n",
			contains: []string{"--- a/notes.txt", "+++ b/notes.txt", "-line2", "+CHANGED"},
		},
		{
			name:     "added line",
			old:      "line1\n",
			new:      "line1\nline2\n",
			contains: []string{"+line2"},
		},
		{
			name:     "binary",
			old:      "a\x00b",
			new:      "a\x00c",
			contains: []string{"Binary file notes.txt has changed"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := unifiedDiff("notes.txt", []byte(tt.old), []byte(tt.new))
			if tt.empty {
				if got != "" {
					t.Errorf("Expected empty diff, got:\n%s", got)
				}
				return
			}
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("Diff missing %q:\n%s", want, got)
				}
			}
		})
	}
}

func TestUnifiedDiffFormat(t *testing.T) {
	numbered := func(lines ...string) string {
		return strings.Join(lines, "\n") + "\n"
	}

	tests := []struct {
		name     string
		old, new string
		want     string
	}{
		{
			name: "whole lines with non-ASCII text",
			old:  "hello world\nsecond line\n",
			new:  "hello café\nsecond line\n",
			want: "--- a/n.txt\n+++ b/n.txt\n" +
				"@@ -1,2 +1,2 @@\n" +
				"-hello world\n" +
				"+hello café\n" +
				" second line\n",
		},
		{
			name: "distant changes get separate hunks",
			old:  numbered("l1", "l2", "l3", "l4", "l5", "l6", "l7", "l8", "l9", "l10"),
			new:  numbered("L1", "l2", "l3", "l4", "l5", "l6", "l7", "l8", "l9", "L10"),
			want: "--- a/n.txt\n+++ b/n.txt\n" +
				"@@ -1,4 +1,4 @@\n-l1\n+L1\n l2\n l3\n l4\n" +
				"@@ -7,4 +7,4 @@\n l7\n l8\n l9\n-l10\n+L10\n",
		},
		{
			name: "missing final newline",
			old:  "a\nb",
			new:  "a\nc",
			want: "--- a/n.txt\n+++ b/n.txt\n" +
				"@@ -1,2 +1,2 @@\n a\n" +
				"-b\n\\ No newline at end of file\n" +
				"+c\n\\ No newline at end of file\n",
		},
		{
			name: "from empty",
			old:  "",
			new:  "one\ntwo\n",
			want: "--- a/n.txt\n+++ b/n.txt\n" +
				"@@ -0,0 +1,2 @@\n+one\n+two\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := unifiedDiff("n.txt", []byte(tt.old), []byte(tt.new))
			if got != tt.want {
				t.Errorf("unifiedDiff() =\n%s\nwant:\n%s", got, tt.want)
			}
			for _, escaped := range []string{"%0A", "%C3"} {
				if strings.Contains(got, escaped) {
					t.Errorf("Diff contains escaped text %q:\n%s", escaped, got)
				}
			}
		})
	}
}
