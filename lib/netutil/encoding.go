// Copyright 2026 Gage Technologies
// SPDX-License-Identifier: Apache-2.0

package netutil

import (
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// DecodeContent wraps body in a decompressor selected by the HTTP
// Content-Encoding value. An empty encoding or "identity" returns body
// unchanged. "zstd" and "lz4" are decoded as streams; any other
// encoding is an error, since writing still-compressed bytes to disk
// would produce a file that looks valid but is not.
//
// The returned closer releases decoder resources; it does not close
// body.
func DecodeContent(body io.Reader, encoding string) (io.Reader, func(), error) {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "", "identity":
		return body, func() {}, nil
	case "zstd":
		decoder, err := zstd.NewReader(body)
		if err != nil {
			return nil, nil, fmt.Errorf("creating zstd decoder: %w", err)
		}
		return decoder, decoder.Close, nil
	case "lz4":
		return lz4.NewReader(body), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unsupported content encoding %q", encoding)
	}
}
