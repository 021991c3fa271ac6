// Copyright (c) 2025 ryichk
// Licensed under the MIT License.
// This is a Go implementation inspired by the Agent Development Kit (ADK) quickstart.

package agent

import (
	"github.com/ryichk/first-agent-go/guardrail"
)

// Clone makes a copy of the agent with the given options applied.
// The receiver is left untouched, e.g.
//
//	strict := root.Clone(agent.WithInstruction("Answer in one sentence."))
func (a *Agent) Clone(opts ...Option) *Agent {
	cloned := &Agent{
		Name:               a.Name,
		Model:              a.Model,
		Description:        a.Description,
		Instruction:        a.Instruction,
		ModelSettings:      a.ModelSettings,
		InputGuardrails:    make([]guardrail.InputGuardrail, len(a.InputGuardrails)),
		OutputGuardrails:   make([]guardrail.OutputGuardrail, len(a.OutputGuardrails)),
		Hooks:              a.Hooks,
		dynamicInstruction: a.dynamicInstruction,
	}

	copy(cloned.InputGuardrails, a.InputGuardrails)
	copy(cloned.OutputGuardrails, a.OutputGuardrails)

	if len(a.ModelSettings.StopSequences) > 0 {
		cloned.ModelSettings.StopSequences = append([]string(nil), a.ModelSettings.StopSequences...)
	}
	if a.ModelSettings.Custom != nil {
		cloned.ModelSettings.Custom = make(map[string]any, len(a.ModelSettings.Custom))
		for k, v := range a.ModelSettings.Custom {
			cloned.ModelSettings.Custom[k] = v
		}
	}

	for _, opt := range opts {
		opt(cloned)
	}

	return cloned
}
