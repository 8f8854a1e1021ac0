package docimport

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ChunkSize is how much raw input Encode reads per step.
const ChunkSize = 8 << 10

var ErrTooLarge = errors.New("document exceeds the size limit")

// Encode base64-encodes r in fixed-size chunks so large uploads never need a
// second full-size copy of the input in memory.
func Encode(r io.Reader) (string, error) {
	var out strings.Builder
	enc := base64.NewEncoder(base64.StdEncoding, &out)
	buf := make([]byte, ChunkSize)
	if _, err := io.CopyBuffer(enc, r, buf); err != nil {
		return "", fmt.Errorf("encode: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("encode: %w", err)
	}
	return out.String(), nil
}

// Decode reverses Encode. A data-URL prefix ("data:application/pdf;base64,")
// is accepted. limit <= 0 means no limit.
func Decode(s string, limit int64) ([]byte, error) {
	if i := strings.Index(s, ";base64,"); i >= 0 && strings.HasPrefix(s, "data:") {
		s = s[i+len(";base64,"):]
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, errors.New("empty document")
	}
	var r io.Reader = base64.NewDecoder(base64.StdEncoding, strings.NewReader(s))
	if limit > 0 {
		r = io.LimitReader(r, limit+1)
	}
	var out bytes.Buffer
	if _, err := io.Copy(&out, r); err != nil {
		return nil, fmt.Errorf("decode base64: %w", err)
	}
	if limit > 0 && int64(out.Len()) > limit {
		return nil, ErrTooLarge
	}
	return out.Bytes(), nil
}
