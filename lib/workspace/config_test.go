// Copyright 2026 Gage Technologies
// SPDX-License-Identifier: Apache-2.0

package workspace

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestConfigPreservesUnknownKeys(t *testing.T) {
	t.Parallel()

	input := `{
		"workspace_id": 42,
		"workspace_id_string": "42-abc",
		"secret": "s3cret",
		"repo": "http://git.gage.intranet/u/r.git",
		"commit": "deadbeef",
		"owner_id": 7,
		"expiration": 1700000000,
		"features": {"gpu": false, "tags": ["a", "b"]}
	}`

	var config Config
	if err := json.Unmarshal([]byte(input), &config); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if config.WorkspaceID != 42 || config.WorkspaceIDString != "42-abc" || config.Secret != "s3cret" {
		t.Errorf("named fields = %+v", config)
	}
	if string(config.OwnerID) != "7" {
		t.Errorf("OwnerID = %s, want 7", config.OwnerID)
	}
	if len(config.Extra) != 2 {
		t.Fatalf("Extra has %d keys, want 2: %v", len(config.Extra), config.Extra)
	}

	encoded, err := json.Marshal(config)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var original, roundTripped map[string]any
	if err := json.Unmarshal([]byte(input), &original); err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal(encoded, &roundTripped); err != nil {
		t.Fatalf("re-decoding %s: %v", encoded, err)
	}
	originalJSON, _ := json.Marshal(original)
	roundTrippedJSON, _ := json.Marshal(roundTripped)
	if string(originalJSON) != string(roundTrippedJSON) {
		t.Errorf("round trip changed the object:\n got %s\nwant %s", roundTrippedJSON, originalJSON)
	}
}

func TestConfigMarshalIsSortedAndStable(t *testing.T) {
	t.Parallel()

	config := Config{
		WorkspaceID: 1,
		Secret:      "s",
		Extra:       map[string]json.RawMessage{"zeta": json.RawMessage(`1`), "alpha": json.RawMessage(`{ "x" : 1 }`)},
	}
	encoded, err := json.Marshal(config)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := `{"alpha":{"x":1},"secret":"s","workspace_id":1,"zeta":1}`
	if string(encoded) != want {
		t.Errorf("Marshal = %s, want %s", encoded, want)
	}
}

func TestConfigUnmarshalRejectsWrongTypes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "not an object", input: `[1,2]`, want: "cannot unmarshal"},
		{name: "null", input: `null`, want: "must be a JSON object"},
		{name: "string workspace id", input: `{"workspace_id":"x"}`, want: "workspace_id"},
		{name: "numeric secret", input: `{"secret":5}`, want: "secret"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var config Config
			err := json.Unmarshal([]byte(test.input), &config)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), test.want) {
				t.Errorf("error = %v, want it to mention %q", err, test.want)
			}
		})
	}
}

func TestConfigRoundTripKeepsNamedKeysAsDecoded(t *testing.T) {
	t.Parallel()

	input := `{"commit":null,"repo":"","secret":"s","workspace_id":0,"workspace_id_string":""}`
	var config Config
	if err := json.Unmarshal([]byte(input), &config); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	encoded, err := json.Marshal(config)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(encoded) != input {
		t.Errorf("round trip = %s, want %s", encoded, input)
	}

	config.Commit = "abc123"
	config.WorkspaceID = 12
	encoded, err = json.Marshal(config)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := `{"commit":"abc123","repo":"","secret":"s","workspace_id":12,"workspace_id_string":""}`
	if string(encoded) != want {
		t.Errorf("after update = %s, want %s", encoded, want)
	}
}
