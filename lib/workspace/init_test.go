// Copyright 2026 Gage Technologies
// SPDX-License-Identifier: Apache-2.0

package workspace

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func decodeRaw(t *testing.T, text string) map[string]json.RawMessage {
	t.Helper()
	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		t.Fatalf("decoding fixture: %v", err)
	}
	return raw
}

func TestSplitInit(t *testing.T) {
	raw := decodeRaw(t, `{
		"workspace_id": 9,
		"workspace_id_string": "9",
		"secret": "abc",
		"repo": "http://git.gage.intranet/o/r.git",
		"commit": "c0ffee",
		"owner_id": 1234,
		"git_email": "dev@example.com",
		"git_token": "tok-xyz",
		"language": "go"
	}`)

	config, gitConfig, err := SplitInit(raw)
	if err != nil {
		t.Fatalf("SplitInit: %v", err)
	}
	defer gitConfig.Close()

	if gitConfig.Email != "dev@example.com" {
		t.Errorf("Email = %q", gitConfig.Email)
	}
	if gitConfig.Name != "1234" {
		t.Errorf("Name = %q, want %q", gitConfig.Name, "1234")
	}
	if string(gitConfig.Token.Bytes()) != "tok-xyz" {
		t.Errorf("Token = %q", gitConfig.Token.Bytes())
	}

	encoded, err := json.Marshal(config)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	for _, removed := range []string{"git_email", "git_token", "tok-xyz"} {
		if strings.Contains(string(encoded), removed) {
			t.Errorf("persisted config contains %q: %s", removed, encoded)
		}
	}
	for _, kept := range []string{`"owner_id":1234`, `"language":"go"`, `"secret":"abc"`} {
		if !strings.Contains(string(encoded), kept) {
			t.Errorf("persisted config lacks %s: %s", kept, encoded)
		}
	}

	if _, ok := raw["git_token"]; !ok {
		t.Error("SplitInit modified its input")
	}
}

func TestSplitInitStringOwner(t *testing.T) {
	raw := decodeRaw(t, `{"secret":"s","owner_id":"alice","git_email":"a@b","git_token":"t"}`)
	_, gitConfig, err := SplitInit(raw)
	if err != nil {
		t.Fatalf("SplitInit: %v", err)
	}
	defer gitConfig.Close()
	if gitConfig.Name != "alice" {
		t.Errorf("Name = %q, want alice", gitConfig.Name)
	}
}

func TestSplitInitErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "missing email", input: `{"secret":"s","owner_id":1,"git_token":"t"}`, want: "git_email"},
		{name: "missing token", input: `{"secret":"s","owner_id":1,"git_email":"e"}`, want: "git_token"},
		{name: "empty token", input: `{"secret":"s","owner_id":1,"git_email":"e","git_token":""}`, want: "git_token"},
		{name: "missing owner", input: `{"secret":"s","git_email":"e","git_token":"t"}`, want: "owner_id"},
		{name: "object owner", input: `{"secret":"s","owner_id":{},"git_email":"e","git_token":"t"}`, want: "owner_id"},
		{name: "fractional owner", input: `{"secret":"s","owner_id":1.5,"git_email":"e","git_token":"t"}`, want: "owner_id"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, _, err := SplitInit(decodeRaw(t, test.input))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), test.want) {
				t.Errorf("error = %v, want it to mention %q", err, test.want)
			}
		})
	}
}

func TestSecretOf(t *testing.T) {
	t.Parallel()

	if secretValue, err := SecretOf(decodeRaw(t, `{"secret":"abc"}`)); err != nil || secretValue != "abc" {
		t.Errorf("SecretOf = %q, %v; want abc, nil", secretValue, err)
	}
	for _, input := range []string{`{}`, `{"secret":""}`} {
		if _, err := SecretOf(decodeRaw(t, input)); !errors.Is(err, ErrMissingSecret) {
			t.Errorf("SecretOf(%s) error = %v, want ErrMissingSecret", input, err)
		}
	}
	if _, err := SecretOf(decodeRaw(t, `{"secret":1}`)); err == nil {
		t.Error("SecretOf with numeric secret: expected error")
	}
}

func TestSplitInitPersistsZeroValuedKeys(t *testing.T) {
	raw := decodeRaw(t, `{
		"workspace_id": 0,
		"workspace_id_string": "",
		"secret": "s",
		"repo": "r",
		"commit": "",
		"owner_id": 1,
		"git_email": "dev@example.com",
		"git_token": "tok",
		"extra": null
	}`)

	config, gitConfig, err := SplitInit(raw)
	if err != nil {
		t.Fatalf("SplitInit: %v", err)
	}
	defer gitConfig.Close()

	encoded, err := json.Marshal(config)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := `{"commit":"","extra":null,"owner_id":1,"repo":"r","secret":"s","workspace_id":0,"workspace_id_string":""}`
	if string(encoded) != want {
		t.Errorf("persisted = %s, want %s", encoded, want)
	}
}
