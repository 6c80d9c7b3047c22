// Copyright 2026 © The Orquestrador Authors
// SPDX-License-Identifier: Apache-2.0

package telemetry

import (
	"go.opentelemetry.io/otel/attribute"
)

// Semantic conventions for role agent telemetry.
// These follow OpenTelemetry naming conventions where applicable.
const (
	// Agent attributes
	AttrAgentRole  = "roleagent.role"
	AttrAgentSlug  = "roleagent.role.slug"
	AttrAgentModel = "roleagent.model"

	// Task attributes
	AttrTaskID       = "roleagent.task.id"
	AttrTaskTitle    = "roleagent.task.title"
	AttrTaskPriority = "roleagent.task.priority"
	AttrTaskOutcome  = "roleagent.task.outcome"
	AttrTaskTokens   = "roleagent.task.tokens_used"

	// Prompt attributes
	AttrPromptWords     = "roleagent.prompt.words"
	AttrPromptOptionals = "roleagent.prompt.optional_sections"

	// LLM attributes (extending standard gen_ai conventions)
	AttrLLMProvider     = "gen_ai.system"
	AttrLLMModel        = "gen_ai.request.model"
	AttrLLMTokensInput  = "gen_ai.usage.input_tokens"
	AttrLLMTokensOutput = "gen_ai.usage.output_tokens"
	AttrLLMDurationMs   = "gen_ai.duration_ms"
)

// Task outcomes recorded on spans and metrics.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// AgentAttributes returns common attributes for agent spans.
func AgentAttributes(role, model string) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String(AttrAgentRole, role),
	}
	if model != "" {
		attrs = append(attrs, attribute.String(AttrAgentModel, model))
	}
	return attrs
}

// TaskAttributes returns attributes for task tracking.
func TaskAttributes(taskID, title, priority string) []attribute.KeyValue {
	attrs := []attribute.KeyValue{}
	if taskID != "" {
		attrs = append(attrs, attribute.String(AttrTaskID, taskID))
	}
	if title != "" {
		// Truncate long titles
		if len(title) > 200 {
			title = title[:200] + "..."
		}
		attrs = append(attrs, attribute.String(AttrTaskTitle, title))
	}
	if priority != "" {
		attrs = append(attrs, attribute.String(AttrTaskPriority, priority))
	}
	return attrs
}

// PromptAttributes describes a compiled prompt without recording its text.
func PromptAttributes(words, optionalSections int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Int(AttrPromptWords, words),
		attribute.Int(AttrPromptOptionals, optionalSections),
	}
}

// OutcomeAttributes returns attributes for the end of a task execution.
func OutcomeAttributes(outcome string, tokensUsed int) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String(AttrTaskOutcome, outcome),
	}
	if tokensUsed > 0 {
		attrs = append(attrs, attribute.Int(AttrTaskTokens, tokensUsed))
	}
	return attrs
}

// LLMAttributes returns attributes for a backend call.
func LLMAttributes(model string) []attribute.KeyValue {
	if model == "" {
		model = "default"
	}
	return []attribute.KeyValue{
		attribute.String(AttrLLMModel, model),
	}
}

// LLMUsageAttributes returns token usage attributes.
func LLMUsageAttributes(inputTokens, outputTokens int, durationMs float64) []attribute.KeyValue {
	attrs := []attribute.KeyValue{}
	if inputTokens > 0 {
		attrs = append(attrs, attribute.Int(AttrLLMTokensInput, inputTokens))
	}
	if outputTokens > 0 {
		attrs = append(attrs, attribute.Int(AttrLLMTokensOutput, outputTokens))
	}
	if durationMs > 0 {
		attrs = append(attrs, attribute.Float64(AttrLLMDurationMs, durationMs))
	}
	return attrs
}
