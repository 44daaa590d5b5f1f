// Copyright 2026 Gage Technologies
// SPDX-License-Identifier: Apache-2.0

package workspace

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/gage-technologies/gigo-ws/lib/secret"
)

// Keys of the initialization response that never reach the persisted
// config.
const (
	keyGitEmail = "git_email"
	keyGitToken = "git_token"
)

// ErrMissingSecret is returned by SecretOf when the initialization
// response has no usable secret.
var ErrMissingSecret = errors.New("initialization response has no secret")

// GitConfig is the source-control identity written to the credential
// file. Token is released by Close once the file has been written.
type GitConfig struct {
	Email string
	Name  string
	Token *secret.Buffer
}

// Close releases the token buffer. Safe to call on a nil GitConfig.
func (g *GitConfig) Close() error {
	if g == nil {
		return nil
	}
	return g.Token.Close()
}

// SecretOf extracts the secret from a raw initialization response. It
// is separate from SplitInit so that the caller learns the secret, and
// can therefore report failures, even when the rest of the response is
// malformed.
func SecretOf(raw map[string]json.RawMessage) (string, error) {
	value, ok := raw[keySecret]
	if !ok {
		return "", ErrMissingSecret
	}
	var text string
	if err := json.Unmarshal(value, &text); err != nil {
		return "", fmt.Errorf("decoding secret: %w", err)
	}
	if text == "" {
		return "", ErrMissingSecret
	}
	return text, nil
}

// SplitInit separates a raw initialization response into the config to
// persist and the git identity to write. git_email and git_token are
// removed from the config; owner_id stays and also becomes the git
// display name. raw is not modified.
func SplitInit(raw map[string]json.RawMessage) (*Config, *GitConfig, error) {
	fields := make(map[string]json.RawMessage, len(raw))
	for key, value := range raw {
		fields[key] = value
	}

	var email, token string
	if err := takeString(fields, keyGitEmail, &email); err != nil {
		return nil, nil, err
	}
	if err := takeString(fields, keyGitToken, &token); err != nil {
		return nil, nil, err
	}
	if token == "" {
		return nil, nil, fmt.Errorf("initialization response has an empty %s", keyGitToken)
	}

	config := &Config{}
	if err := config.fromFields(fields); err != nil {
		return nil, nil, err
	}

	name, err := ownerName(config.OwnerID)
	if err != nil {
		return nil, nil, err
	}

	tokenBuffer, err := secret.FromString(token)
	if err != nil {
		return nil, nil, fmt.Errorf("protecting git token: %w", err)
	}
	return config, &GitConfig{Email: email, Name: name, Token: tokenBuffer}, nil
}

// takeString removes key from fields, decoding it as a required string.
func takeString(fields map[string]json.RawMessage, key string, target *string) error {
	value, ok := fields[key]
	if !ok {
		return fmt.Errorf("initialization response has no %s", key)
	}
	delete(fields, key)
	if err := json.Unmarshal(value, target); err != nil {
		return fmt.Errorf("decoding %s: %w", key, err)
	}
	return nil
}

// ownerName renders owner_id as text: strings as-is, numbers in their
// JSON form.
func ownerName(raw json.RawMessage) (string, error) {
	if len(raw) == 0 {
		return "", fmt.Errorf("initialization response has no %s", keyOwnerID)
	}
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return text, nil
	}
	var number json.Number
	if err := json.Unmarshal(raw, &number); err != nil {
		return "", fmt.Errorf("decoding %s: must be a string or number", keyOwnerID)
	}
	if _, err := strconv.ParseInt(number.String(), 10, 64); err != nil {
		return "", fmt.Errorf("decoding %s: %q is not an integer", keyOwnerID, number)
	}
	return number.String(), nil
}
