package textenc

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"
	"golang.org/x/text/transform"
)

// Canonical names of the encodings that can be recognised from a byte-order mark
const (
	UTF8    = "utf-8"
	UTF16BE = "utf-16-be"
	UTF16LE = "utf-16-le"
	UTF32BE = "utf-32-be"
	UTF32LE = "utf-32-le"
)

// ErrUnknownEncoding is returned when an encoding name cannot be resolved
var ErrUnknownEncoding = errors.New("unknown encoding")

type bom struct {
	mark     []byte
	encoding string
}

// boms is checked in order. The UTF-32LE mark starts with the UTF-16LE mark,
// so the 32-bit variants have to be tried first.
var boms = []bom{
	{[]byte{0xEF, 0xBB, 0xBF}, UTF8},
	{[]byte{0x00, 0x00, 0xFE, 0xFF}, UTF32BE},
	{[]byte{0xFF, 0xFE, 0x00, 0x00}, UTF32LE},
	{[]byte{0xFE, 0xFF}, UTF16BE},
	{[]byte{0xFF, 0xFE}, UTF16LE},
}

var aliases = map[string]string{
	"utf8":     UTF8,
	"utf-16be": UTF16BE,
	"utf16be":  UTF16BE,
	"utf-16le": UTF16LE,
	"utf16le":  UTF16LE,
	"utf-32be": UTF32BE,
	"utf32be":  UTF32BE,
	"utf-32le": UTF32LE,
	"utf32le":  UTF32LE,
}

// Canonical normalises an encoding name so that "UTF_8", "utf8" and "utf-8"
// compare equal. Names outside the BOM family are only lower-cased.
func Canonical(name string) string {
	n := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "_", "-")
	if alias, ok := aliases[n]; ok {
		return alias
	}
	return n
}

// Lookup resolves an encoding name. The five BOM encodings are handled
// directly, everything else goes through the IANA and then the WHATWG index.
func Lookup(name string) (encoding.Encoding, error) {
	switch Canonical(name) {
	case UTF8:
		return unicode.UTF8, nil
	case UTF16BE:
		return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM), nil
	case UTF16LE:
		return unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM), nil
	case UTF32BE:
		return utf32.UTF32(utf32.BigEndian, utf32.IgnoreBOM), nil
	case UTF32LE:
		return utf32.UTF32(utf32.LittleEndian, utf32.IgnoreBOM), nil
	}

	if enc, err := ianaindex.IANA.Encoding(name); err == nil && enc != nil {
		return enc, nil
	}
	if enc, err := htmlindex.Get(name); err == nil {
		return enc, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownEncoding, name)
}

// Decision records the encoding the caller declared and the one announced by
// a byte-order mark, if any.
type Decision struct {
	Declared string
	Detected string
}

// Effective returns the encoding to use for everything after the BOM check
func (d Decision) Effective() string {
	if d.Detected != "" {
		return d.Detected
	}
	return d.Declared
}

// Overridden reports whether the BOM contradicts the declared encoding
func (d Decision) Overridden() bool {
	return d.Detected != "" && d.Detected != Canonical(d.Declared)
}

// DetectBOM looks for one of the known byte-order marks at the start of data.
// On a match it returns the encoding name and data without the mark, which is
// exactly one character once decoded. Otherwise it returns "" and data as is.
func DetectBOM(data []byte) (string, []byte) {
	for _, b := range boms {
		if bytes.HasPrefix(data, b.mark) {
			return b.encoding, data[len(b.mark):]
		}
	}
	return "", data
}

// Decode converts raw bytes in the named encoding to a string
func Decode(data []byte, name string) (string, error) {
	enc, err := Lookup(name)
	if err != nil {
		return "", err
	}
	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("failed to decode %s text: %w", name, err)
	}
	return string(out), nil
}

// Encode converts s to the named encoding. Characters the encoding cannot
// represent make it fail rather than being replaced.
func Encode(s, name string) ([]byte, error) {
	enc, err := Lookup(name)
	if err != nil {
		return nil, err
	}
	out, err := enc.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, fmt.Errorf("cannot encode %q as %s: %w", s, name, err)
	}
	return out, nil
}

// QueryEscape percent-encodes s after converting it to the named encoding
func QueryEscape(s, name string) (string, error) {
	raw, err := Encode(s, name)
	if err != nil {
		return "", err
	}
	return url.QueryEscape(string(raw)), nil
}

// NewWriter returns a writer that encodes everything written to it. Close
// must be called to flush the last bytes; it does not close w.
func NewWriter(w io.Writer, name string) (io.WriteCloser, error) {
	enc, err := Lookup(name)
	if err != nil {
		return nil, err
	}
	return transform.NewWriter(w, enc.NewEncoder()), nil
}
