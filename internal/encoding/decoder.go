package encoding

import (
	"bytes"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// DecodeCommandOutput trims the output of macOS tools (defaults, osascript,
// query helpers) and returns it as valid UTF-8. Output that is not UTF-8 is
// assumed to be MacRoman, which is what osascript falls back to.
func DecodeCommandOutput(input []byte) (string, error) {
	trimmedInput := bytes.TrimSpace(input)

	if utf8.Valid(trimmedInput) {
		return string(trimmedInput), nil
	}

	reader := charmap.Macintosh.NewDecoder().Reader(bytes.NewReader(trimmedInput))
	output, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}

	return strings.ToValidUTF8(string(output), ""), nil
}
