// Copyright 2026 Gage Technologies
// SPDX-License-Identifier: Apache-2.0

package secret

import (
	"bytes"
	"testing"

	"golang.org/x/sys/unix"
)

func TestNewFromBytesZeroesSource(t *testing.T) {
	source := []byte("ghp_token_value")
	buffer, err := NewFromBytes(source)
	if err != nil {
		t.Fatalf("NewFromBytes: %v", err)
	}
	defer buffer.Close()

	if got := string(buffer.Bytes()); got != "ghp_token_value" {
		t.Errorf("Bytes() = %q, want %q", got, "ghp_token_value")
	}
	for index, value := range source {
		if value != 0 {
			t.Fatalf("source[%d] = %d, want 0", index, value)
		}
	}
}

func TestFromStringAndWriteTo(t *testing.T) {
	buffer, err := FromString("abc123")
	if err != nil {
		t.Fatalf("FromString: %v", err)
	}
	defer buffer.Close()

	var output bytes.Buffer
	written, err := buffer.WriteTo(&output)
	if err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	if written != 6 || output.String() != "abc123" {
		t.Errorf("WriteTo wrote %d bytes %q, want 6 bytes %q", written, output.String(), "abc123")
	}
}

func TestEmptySourceRejected(t *testing.T) {
	if _, err := FromString(""); err == nil {
		t.Fatal("expected error for empty secret")
	}
	if _, err := New(0); err == nil {
		t.Fatal("expected error for zero size")
	}
}

func TestCloseIsIdempotentAndPanicsOnRead(t *testing.T) {
	buffer, err := FromString("token")
	if err != nil {
		t.Fatalf("FromString: %v", err)
	}
	if err := buffer.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := buffer.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	if buffer.Len() != 0 {
		t.Errorf("Len() after Close = %d, want 0", buffer.Len())
	}

	defer func() {
		if recover() == nil {
			t.Error("expected panic reading closed buffer")
		}
	}()
	buffer.Bytes()
}

func TestNilBufferClose(t *testing.T) {
	var buffer *Buffer
	if err := buffer.Close(); err != nil {
		t.Errorf("nil Close() = %v, want nil", err)
	}
}

func TestMlockRefusalLeavesBufferUsable(t *testing.T) {
	original := mlock
	mlock = func([]byte) error { return unix.EPERM }
	t.Cleanup(func() { mlock = original })

	buffer, err := FromString("token")
	if err != nil {
		t.Fatalf("FromString with mlock refused: %v", err)
	}
	if buffer.Locked() {
		t.Error("Locked() = true after mlock was refused")
	}
	if got := string(buffer.Bytes()); got != "token" {
		t.Errorf("Bytes() = %q, want %q", got, "token")
	}
	if err := buffer.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}
