// Copyright 2026 Gage Technologies
// SPDX-License-Identifier: Apache-2.0

package workspace

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// Keys of the initialization response that Config maps to named fields.
const (
	keyWorkspaceID       = "workspace_id"
	keyWorkspaceIDString = "workspace_id_string"
	keySecret            = "secret"
	keyRepo              = "repo"
	keyCommit            = "commit"
	keyOwnerID           = "owner_id"
)

// Config is the per-workspace configuration created by the control
// plane. It is persisted as a flat JSON object.
type Config struct {
	WorkspaceID       int64
	WorkspaceIDString string

	// Secret authenticates every control-plane call after the initial
	// one.
	Secret string

	Repo   string
	Commit string

	// OwnerID is kept as raw JSON: the control plane has sent it both as
	// a number and as a string.
	OwnerID json.RawMessage

	// Extra holds every key of the initialization response not named
	// above, verbatim.
	Extra map[string]json.RawMessage

	// decoded holds the named keys present when the config was decoded,
	// in their original encoding.
	decoded map[string]json.RawMessage
}

// MarshalJSON writes the named fields and Extra as one flat object. A
// named key that was present when the config was decoded is written
// back in its original encoding unless its field has since changed.
// Named fields that were never decoded are omitted while unset.
func (c Config) MarshalJSON() ([]byte, error) {
	fields := make(map[string]json.RawMessage, len(c.Extra)+6)
	for key, value := range c.Extra {
		fields[key] = value
	}

	named := []struct {
		key   string
		value any
		unset bool
	}{
		{keyWorkspaceID, c.WorkspaceID, c.WorkspaceID == 0},
		{keyWorkspaceIDString, c.WorkspaceIDString, c.WorkspaceIDString == ""},
		{keySecret, c.Secret, c.Secret == ""},
		{keyRepo, c.Repo, c.Repo == ""},
		{keyCommit, c.Commit, c.Commit == ""},
	}
	for _, field := range named {
		original, present := c.decoded[field.key]
		switch {
		case present && decodesTo(original, field.value):
			fields[field.key] = original
		case !present && field.unset:
		default:
			data, err := json.Marshal(field.value)
			if err != nil {
				return nil, fmt.Errorf("encoding %s: %w", field.key, err)
			}
			fields[field.key] = data
		}
	}
	if len(c.OwnerID) > 0 {
		fields[keyOwnerID] = c.OwnerID
	}

	return encodeSorted(fields)
}

// decodesTo reports whether original still decodes to value.
func decodesTo(original json.RawMessage, value any) bool {
	switch value := value.(type) {
	case int64:
		var decoded int64
		return json.Unmarshal(original, &decoded) == nil && decoded == value
	case string:
		var decoded string
		return json.Unmarshal(original, &decoded) == nil && decoded == value
	}
	return false
}

// UnmarshalJSON reads a flat object, assigning known keys to the named
// fields and everything else to Extra.
func (c *Config) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	if fields == nil {
		return fmt.Errorf("workspace config must be a JSON object")
	}
	return c.fromFields(fields)
}

func (c *Config) fromFields(fields map[string]json.RawMessage) error {
	*c = Config{}
	for key, value := range fields {
		var err error
		switch key {
		case keyWorkspaceID:
			err = json.Unmarshal(value, &c.WorkspaceID)
		case keyWorkspaceIDString:
			err = json.Unmarshal(value, &c.WorkspaceIDString)
		case keySecret:
			err = json.Unmarshal(value, &c.Secret)
		case keyRepo:
			err = json.Unmarshal(value, &c.Repo)
		case keyCommit:
			err = json.Unmarshal(value, &c.Commit)
		case keyOwnerID:
			c.OwnerID = append(json.RawMessage(nil), value...)
			continue
		default:
			if c.Extra == nil {
				c.Extra = make(map[string]json.RawMessage)
			}
			c.Extra[key] = append(json.RawMessage(nil), value...)
			continue
		}
		if err != nil {
			return fmt.Errorf("decoding %s: %w", key, err)
		}
		if c.decoded == nil {
			c.decoded = make(map[string]json.RawMessage)
		}
		c.decoded[key] = append(json.RawMessage(nil), value...)
	}
	return nil
}

// encodeSorted writes fields as a JSON object with keys in sorted order
// so the persisted file is stable across runs.
func encodeSorted(fields map[string]json.RawMessage) ([]byte, error) {
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var buffer bytes.Buffer
	buffer.WriteByte('{')
	for index, key := range keys {
		if index > 0 {
			buffer.WriteByte(',')
		}
		name, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buffer.Write(name)
		buffer.WriteByte(':')
		if err := json.Compact(&buffer, fields[key]); err != nil {
			return nil, fmt.Errorf("encoding %s: %w", key, err)
		}
	}
	buffer.WriteByte('}')
	return buffer.Bytes(), nil
}
