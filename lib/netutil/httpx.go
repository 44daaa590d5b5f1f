// Copyright 2026 Gage Technologies
// SPDX-License-Identifier: Apache-2.0

package netutil

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// MaxResponseSize bounds JSON API response reads: 16 MB. Control-plane
// responses are a few kilobytes; the limit only guards against a
// pathological server.
const MaxResponseSize int64 = 16 << 20

// MaxErrorBodySize bounds the portion of an error response that is kept
// for diagnostic messages.
const MaxErrorBodySize int64 = 4 << 10

// ReadResponse reads a JSON API response body up to MaxResponseSize
// bytes. Use instead of io.ReadAll when reading HTTP response bodies.
func ReadResponse(body io.Reader) ([]byte, error) {
	return io.ReadAll(io.LimitReader(body, MaxResponseSize))
}

// DecodeResponse reads a JSON API response body (up to MaxResponseSize
// bytes) and JSON-decodes it into v.
func DecodeResponse(body io.Reader, v any) error {
	data, err := ReadResponse(body)
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decoding response body: %w", err)
	}
	return nil
}

// ErrorBody reads up to MaxErrorBodySize bytes of an error response and
// returns them trimmed, for diagnostic error messages. Read errors are
// ignored: a partial body is still useful.
func ErrorBody(body io.Reader) string {
	data, _ := io.ReadAll(io.LimitReader(body, MaxErrorBodySize))
	return strings.TrimSpace(string(data))
}

// Drain discards the remainder of a response body so the underlying
// connection can be reused. Used for endpoints whose acknowledgement
// body is ignored.
func Drain(body io.Reader) {
	_, _ = io.Copy(io.Discard, io.LimitReader(body, MaxResponseSize))
}
