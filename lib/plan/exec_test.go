// Copyright 2026 Gage Technologies
// SPDX-License-Identifier: Apache-2.0

package plan

import (
	"strings"
	"testing"
)

func TestParseExecutionsEmpty(t *testing.T) {
	for _, text := range []string{"", "  \n", "[]"} {
		executions, err := (&Plan{Exec: text}).ParseExecutions()
		if err != nil {
			t.Errorf("ParseExecutions(%q): %v", text, err)
		}
		if len(executions) != 0 {
			t.Errorf("ParseExecutions(%q) = %v, want empty", text, executions)
		}
	}
}

func TestParseExecutionsErrors(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{name: "not json", text: "make build", want: "parsing shell executions"},
		{name: "object instead of list", text: `{"name":"a"}`, want: "parsing shell executions"},
		{name: "missing name", text: `[{"command":"true"}]`, want: "exec[0]: name is required"},
		{name: "missing command", text: `[{"name":"a","command":"true"},{"name":"b"}]`, want: `exec[1] "b": command is required`},
		{name: "wrong init type", text: `[{"name":"a","command":"true","init":"yes"}]`, want: "parsing shell executions"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := (&Plan{Exec: test.text}).ParseExecutions()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), test.want) {
				t.Errorf("error = %v, want it to contain %q", err, test.want)
			}
		})
	}
}
