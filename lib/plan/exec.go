// Copyright 2026 Gage Technologies
// SPDX-License-Identifier: Apache-2.0

package plan

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tidwall/jsonc"
)

// Execution is one user-defined setup command.
type Execution struct {
	// Name labels the command in failure reports.
	Name string `json:"name"`

	// Command is run with sh -c.
	Command string `json:"command"`

	// Init marks commands that run only on the first provisioning of a
	// workspace.
	Init bool `json:"init"`
}

// ParseExecutions parses the exec text as a JSONC array of executions.
// Comments and trailing commas are allowed. Blank text is an empty list.
// Every entry must have a name and a command.
func (p *Plan) ParseExecutions() ([]Execution, error) {
	if strings.TrimSpace(p.Exec) == "" {
		return nil, nil
	}

	var executions []Execution
	if err := json.Unmarshal(jsonc.ToJSON([]byte(p.Exec)), &executions); err != nil {
		return nil, fmt.Errorf("parsing shell executions: %w", err)
	}

	var issues []string
	for index, execution := range executions {
		if execution.Name == "" {
			issues = append(issues, fmt.Sprintf("exec[%d]: name is required", index))
		}
		if strings.TrimSpace(execution.Command) == "" {
			issues = append(issues, fmt.Sprintf("exec[%d] %q: command is required", index, execution.Name))
		}
	}
	if len(issues) > 0 {
		return nil, fmt.Errorf("invalid shell executions: %s", strings.Join(issues, "; "))
	}
	return executions, nil
}
