package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path"
	"reflect"
	"strings"
)

// ContentKind tags the logical type of stored content.
type ContentKind uint8

const (
	KindText ContentKind = iota + 1
	KindStructured
	KindBinary
)

func (k ContentKind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindStructured:
		return "structured"
	case KindBinary:
		return "binary"
	}
	return "unknown"
}

const jsonSuffix = ".json"

// binaryExtensions are read in binary mode; everything else is text.
var binaryExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".bmp": true, ".gif": true,
	".mp3": true, ".wav": true, ".ogg": true, ".flac": true,
	".pdf": true, ".csv": true, ".zip": true, ".bin": true,
}

// Content is the value of a stored item: text, a JSON-encodable value, or
// raw bytes. The zero Content is empty text.
type Content struct {
	kind  ContentKind
	text  string
	value any
	data  []byte
}

// Text returns text content.
func Text(s string) Content {
	return Content{kind: KindText, text: s}
}

// Structured returns content serialized as JSON on save.
func Structured(v any) Content {
	return Content{kind: KindStructured, value: v}
}

// Binary returns raw byte content.
func Binary(b []byte) Content {
	return Content{kind: KindBinary, data: b}
}

// Infer picks the content kind for v. A byte slice is Binary; a JSON-suffixed
// name or a map, slice or array value is Structured; anything else is Text.
func Infer(name string, v any) Content {
	switch x := v.(type) {
	case Content:
		return x
	case []byte:
		return Binary(x)
	}
	if isJSONName(name) {
		return Structured(v)
	}
	if v != nil {
		switch reflect.TypeOf(v).Kind() {
		case reflect.Map, reflect.Slice, reflect.Array:
			return Structured(v)
		}
	}
	if s, ok := v.(string); ok {
		return Text(s)
	}
	if v == nil {
		return Text("")
	}
	return Text(fmt.Sprint(v))
}

// Kind returns the content kind.
func (c Content) Kind() ContentKind {
	if c.kind == 0 {
		return KindText
	}
	return c.kind
}

// String returns text content, the JSON form of structured content, or the
// bytes of binary content as a string.
func (c Content) String() string {
	switch c.Kind() {
	case KindStructured:
		b, err := marshalJSON(c.value)
		if err != nil {
			return fmt.Sprint(c.value)
		}
		return string(b)
	case KindBinary:
		return string(c.data)
	}
	return c.text
}

// Value returns the structured value, or nil for other kinds.
func (c Content) Value() any {
	return c.value
}

// Bytes returns binary content, or the UTF-8 bytes of text content.
func (c Content) Bytes() []byte {
	switch c.Kind() {
	case KindBinary:
		return c.data
	case KindText:
		return []byte(c.text)
	}
	return []byte(c.String())
}

// payload returns the bytes written to disk for name. Encrypted text is
// stored verbatim even under a JSON name.
func (c Content) payload(name string, encrypt bool) ([]byte, error) {
	switch c.Kind() {
	case KindBinary:
		return c.data, nil
	case KindStructured:
		return marshalJSON(c.value)
	}
	if isJSONName(name) && !encrypt {
		return marshalJSON(c.text)
	}
	return []byte(c.text), nil
}

// marshalJSON indents with four spaces and leaves HTML and non-ASCII
// characters unescaped. No trailing newline.
func marshalJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

func unmarshalJSON(data []byte) (any, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return v, nil
}

func isJSONName(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), jsonSuffix)
}

func isBinaryName(name string) bool {
	return binaryExtensions[strings.ToLower(path.Ext(name))]
}
