package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInfer(t *testing.T) {
	tests := []struct {
		name string
		file string
		v    any
		want ContentKind
	}{
		{"bytes", "a.txt", []byte("x"), KindBinary},
		{"bytes beat json name", "a.json", []byte("{}"), KindBinary},
		{"string", "a.txt", "x", KindText},
		{"string under json name", "a.JSON", "x", KindStructured},
		{"map", "a.txt", map[string]int{"a": 1}, KindStructured},
		{"slice", "a.txt", []string{"a"}, KindStructured},
		{"number", "a.txt", 42, KindText},
		{"nil", "a.txt", nil, KindText},
		{"content passes through", "a.json", Binary(nil), KindBinary},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Infer(tt.file, tt.v).Kind())
		})
	}

	assert.Equal(t, "42", Infer("a.txt", 42).String())
}

func TestZeroContentIsEmptyText(t *testing.T) {
	var c Content
	assert.Equal(t, KindText, c.Kind())
	assert.Equal(t, "", c.String())
}

func TestPayload(t *testing.T) {
	tests := []struct {
		name    string
		content Content
		file    string
		encrypt bool
		want    string
	}{
		{"text", Text("a\"b"), "a.txt", false, "a\"b"},
		{"text under json name", Text("a\"b"), "a.json", false, `"a\"b"`},
		{"encrypted text under json name", Text("a\"b"), "a.json", true, "a\"b"},
		{"structured", Structured(map[string]any{"k": "<v>"}), "a.txt", false, "{\n    \"k\": \"<v>\"\n}"},
		{"binary", Binary([]byte("raw")), "a.json", false, "raw"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.content.payload(tt.file, tt.encrypt)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}

	_, err := Structured(make(chan int)).payload("a.json", false)
	assert.Error(t, err)
}

func TestIsBinaryName(t *testing.T) {
	for _, name := range []string{"a.png", "A.JPG", "dir/song.flac", "data.csv", "x.bin"} {
		assert.True(t, isBinaryName(name), name)
	}
	for _, name := range []string{"a.txt", "a.json", "png", "a.png.txt"} {
		assert.False(t, isBinaryName(name), name)
	}
}

func TestErrorMessages(t *testing.T) {
	err := newError(KindIO, OpClear, "", assert.AnError)
	assert.Equal(t, "Error clearing storage: "+assert.AnError.Error(), err.Error())
	assert.ErrorIs(t, err, ErrIO)
	assert.ErrorIs(t, err, assert.AnError)
	assert.NotErrorIs(t, err, ErrNotFound)

	err = newError(KindDecrypt, OpRead, "x.txt", assert.AnError)
	assert.Equal(t, "Error reading file 'x.txt': "+assert.AnError.Error(), err.Error())
	assert.Equal(t, KindDecrypt, KindOf(err))
	assert.Equal(t, KindIO, KindOf(assert.AnError))
}
