package core

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// textSample bounds how much of a payload LooksLikeText inspects.
const textSample = 8 << 10

// LooksLikeText reports whether data reads as text: valid UTF-8 with no NUL
// and at most one control character in ten, ignoring tab, CR and LF.
func LooksLikeText(data []byte) bool {
	sample := data[:min(len(data), textSample)]
	if bytes.IndexByte(sample, 0) >= 0 {
		return false
	}

	var runes, control int
	for len(sample) > 0 {
		r, size := utf8.DecodeRune(sample)
		if r == utf8.RuneError && size == 1 {
			// A rune cut off by the sample limit is still text.
			if len(data) > textSample && !utf8.FullRune(sample) {
				break
			}
			return false
		}
		sample = sample[size:]
		runes++
		if unicode.IsControl(r) && r != '\t' && r != '\n' && r != '\r' {
			control++
		}
	}
	return control*10 <= runes
}

// Diff returns a unified diff from the stored, decrypted form of name to
// the form c would be saved in. It is empty when both are identical.
func (m *Manager) Diff(name string, area Area, c Content) (string, error) {
	if err := m.checkOpen(OpDiff, name); err != nil {
		return "", err
	}
	rel, err := m.validateFile(OpDiff, name, area)
	if err != nil {
		return "", err
	}

	stored, err := m.root(area).ReadFile(rel)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", newError(KindNotFound, OpDiff, name, err)
		}
		return "", newError(KindIO, OpDiff, name, err)
	}

	encrypted := bytes.HasPrefix(stored, EncryptedMarker)
	if encrypted {
		stored, err = m.cipher.Decrypt(stored[len(EncryptedMarker):])
		if err != nil {
			return "", newError(KindDecrypt, OpDiff, name, err)
		}
	}

	candidate, err := c.payload(rel, encrypted)
	if err != nil {
		return "", newError(KindSerialization, OpDiff, name, err)
	}

	return unifiedDiff(rel, stored, candidate), nil
}

// diffContext is the number of unchanged lines shown around each change.
const diffContext = 3

// diffLine is one rendered line of a unified diff. Text keeps its
// trailing newline when it had one.
type diffLine struct {
	mark byte // ' ', '-' or '+'
	text string
}

// unifiedDiff renders oldData against newData in unified format with
// git-style file headers and line-numbered hunks.
func unifiedDiff(name string, oldData, newData []byte) string {
	switch {
	case bytes.Equal(oldData, newData):
		return ""
	case !LooksLikeText(oldData) || !LooksLikeText(newData):
		return fmt.Sprintf("Binary file %s has changed\n", name)
	}

	lines := diffLines(string(oldData), string(newData))

	var b strings.Builder
	b.WriteString("--- a/" + name + "\n")
	b.WriteString("+++ b/" + name + "\n")
	for _, h := range hunks(lines) {
		writeHunk(&b, lines, h[0], h[1])
	}
	return b.String()
}

// diffLines diffs whole lines and flattens the result into one entry per
// line.
func diffLines(before, after string) []diffLine {
	dmp := diffmatchpatch.New()
	a, b, index := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), index)

	var out []diffLine
	for _, d := range diffs {
		mark := byte(' ')
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			mark = '-'
		case diffmatchpatch.DiffInsert:
			mark = '+'
		}
		for _, text := range strings.SplitAfter(d.Text, "\n") {
			if text != "" {
				out = append(out, diffLine{mark: mark, text: text})
			}
		}
	}
	return out
}

// hunks returns [start, end) ranges of lines covering every change plus
// diffContext lines around it. Changes separated by at most twice the
// context share a hunk.
func hunks(lines []diffLine) [][2]int {
	var out [][2]int
	i, prevEnd := 0, 0
	for {
		for i < len(lines) && lines[i].mark == ' ' {
			i++
		}
		if i == len(lines) {
			return out
		}

		start := max(i-diffContext, prevEnd)
		end := i
		for {
			for end < len(lines) && lines[end].mark != ' ' {
				end++
			}
			next := end
			for next < len(lines) && lines[next].mark == ' ' {
				next++
			}
			if next == len(lines) || next-end > 2*diffContext {
				end = min(end+diffContext, len(lines))
				break
			}
			end = next
		}

		out = append(out, [2]int{start, end})
		i, prevEnd = end, end
	}
}

func writeHunk(b *strings.Builder, lines []diffLine, start, end int) {
	// 1-based line numbers of lines[start] on each side
	oldLine, newLine := 1, 1
	for _, l := range lines[:start] {
		if l.mark != '+' {
			oldLine++
		}
		if l.mark != '-' {
			newLine++
		}
	}

	var oldCount, newCount int
	for _, l := range lines[start:end] {
		if l.mark != '+' {
			oldCount++
		}
		if l.mark != '-' {
			newCount++
		}
	}

	fmt.Fprintf(b, "@@ -%s +%s @@\n", hunkRange(oldLine, oldCount), hunkRange(newLine, newCount))
	for _, l := range lines[start:end] {
		b.WriteByte(l.mark)
		if text, ok := strings.CutSuffix(l.text, "\n"); ok {
			b.WriteString(text + "\n")
		} else {
			b.WriteString(text + "\n\\ No newline at end of file\n")
		}
	}
}

// hunkRange formats one side of a hunk header. An empty side names the
// line before it, as diff(1) does.
func hunkRange(line, count int) string {
	switch count {
	case 0:
		return fmt.Sprintf("%d,0", line-1)
	case 1:
		return fmt.Sprintf("%d", line)
	}
	return fmt.Sprintf("%d,%d", line, count)
}
