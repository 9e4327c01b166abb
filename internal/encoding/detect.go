// Package encoding normalizes uploaded CSV bytes to UTF-8. NGO uploads
// come from whatever spreadsheet tool each organization uses, so the
// charset is detected rather than assumed.
package encoding

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// peekSize is enough bytes for BOM checks and charset heuristics.
const peekSize = 4096

// NewUTF8Reader returns a reader that decodes r's content to UTF-8.
// Detection order: BOM, valid-UTF-8 passthrough, chardet heuristics,
// Windows-1252 fallback.
func NewUTF8Reader(r io.Reader) (io.Reader, error) {
	br := bufio.NewReader(r)

	head, err := br.Peek(peekSize)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("peek: %w", err)
	}

	switch {
	case bytes.HasPrefix(head, []byte{0xEF, 0xBB, 0xBF}):
		// UTF-8 BOM: drop it so the first header name survives intact.
		_, _ = br.Discard(3)
		return br, nil
	case bytes.HasPrefix(head, []byte{0xFF, 0xFE}):
		return transform.NewReader(br, unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()), nil
	case bytes.HasPrefix(head, []byte{0xFE, 0xFF}):
		return transform.NewReader(br, unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder()), nil
	}

	if utf8.Valid(head) {
		return br, nil
	}

	if best, err := chardet.NewTextDetector().DetectBest(head); err == nil && best.Charset == "UTF-8" {
		return br, nil
	}

	// Everything non-UTF-8 we have seen in practice is a Latin-1
	// variant, and Windows-1252 decodes all of them.
	return transform.NewReader(br, charmap.Windows1252.NewDecoder()), nil
}
