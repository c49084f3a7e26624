package textutil

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ErrNotUTF8 is returned for source files without a byte order mark whose
// content is not valid UTF-8.
var ErrNotUTF8 = errors.New("content is not valid UTF-8")

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// DecodeSource converts raw file bytes to text. A UTF-8 or UTF-16 byte order
// mark selects the encoding and is dropped; anything else must be UTF-8.
func DecodeSource(data []byte) (string, error) {
	switch {
	case bytes.HasPrefix(data, bomUTF16LE), bytes.HasPrefix(data, bomUTF16BE):
	case bytes.HasPrefix(data, bomUTF8):
		if !utf8.Valid(data[len(bomUTF8):]) {
			return "", ErrNotUTF8
		}
	default:
		if !utf8.Valid(data) {
			return "", ErrNotUTF8
		}
		return string(data), nil
	}

	dec := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	out, _, err := transform.Bytes(dec, data)
	if err != nil {
		return "", fmt.Errorf("decode source: %w", err)
	}
	return string(out), nil
}

// ReadSource reads and decodes a source file.
func ReadSource(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	content, err := DecodeSource(data)
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}
	return content, nil
}
