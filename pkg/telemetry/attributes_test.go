// Copyright 2026 © The Orquestrador Authors
// SPDX-License-Identifier: Apache-2.0

package telemetry

import (
	"strings"
	"testing"

	"go.opentelemetry.io/otel/attribute"
)

func TestAgentAttributes(t *testing.T) {
	attrs := AgentAttributes("Developer", "gemini-2.5-flash")

	expected := map[string]any{
		AttrAgentRole:  "Developer",
		AttrAgentModel: "gemini-2.5-flash",
	}

	assertAttributes(t, attrs, expected)
}

func TestAgentAttributes_NoModel(t *testing.T) {
	attrs := AgentAttributes("QA Engineer", "")
	if len(attrs) != 1 {
		t.Fatalf("expected only the role attribute, got %d", len(attrs))
	}
}

func TestTaskAttributes(t *testing.T) {
	attrs := TaskAttributes("T-1", "Build login form", "High")

	expected := map[string]any{
		AttrTaskID:       "T-1",
		AttrTaskTitle:    "Build login form",
		AttrTaskPriority: "High",
	}

	assertAttributes(t, attrs, expected)
}

func TestTaskAttributes_TitleTruncation(t *testing.T) {
	longTitle := strings.Repeat("x", 300)
	attrs := TaskAttributes("T-1", longTitle, "Low")

	for _, attr := range attrs {
		if string(attr.Key) == AttrTaskTitle {
			val := attr.Value.AsString()
			if len(val) > 203 { // 200 + "..."
				t.Errorf("title not truncated: len=%d", len(val))
			}
		}
	}
}

func TestPromptAttributes(t *testing.T) {
	attrs := PromptAttributes(42, 1)

	assertAttributes(t, attrs, map[string]any{
		AttrPromptWords:     42,
		AttrPromptOptionals: 1,
	})
}

func TestOutcomeAttributes(t *testing.T) {
	attrs := OutcomeAttributes(OutcomeSuccess, 17)
	assertAttributes(t, attrs, map[string]any{
		AttrTaskOutcome: OutcomeSuccess,
		AttrTaskTokens:  17,
	})

	attrs = OutcomeAttributes(OutcomeFailure, 0)
	if len(attrs) != 1 {
		t.Fatalf("failure outcome should omit tokens, got %d attrs", len(attrs))
	}
}

func TestLLMAttributes(t *testing.T) {
	assertAttributes(t, LLMAttributes("gemini-2.5-flash"), map[string]any{AttrLLMModel: "gemini-2.5-flash"})
	assertAttributes(t, LLMAttributes(""), map[string]any{AttrLLMModel: "default"})
}

func TestLLMUsageAttributes(t *testing.T) {
	attrs := LLMUsageAttributes(100, 50, 1500.5)

	expected := map[string]any{
		AttrLLMTokensInput:  100,
		AttrLLMTokensOutput: 50,
		AttrLLMDurationMs:   1500.5,
	}

	assertAttributes(t, attrs, expected)

	if got := LLMUsageAttributes(0, 0, 0); len(got) != 0 {
		t.Fatalf("expected no attributes for empty usage, got %d", len(got))
	}
}

// assertAttributes checks that expected key-value pairs exist in attrs
func assertAttributes(t *testing.T, attrs []attribute.KeyValue, expected map[string]any) {
	t.Helper()

	found := make(map[string]attribute.KeyValue)
	for _, attr := range attrs {
		found[string(attr.Key)] = attr
	}

	for key, expectedVal := range expected {
		attr, ok := found[key]
		if !ok {
			t.Errorf("missing attribute %s", key)
			continue
		}

		var actualVal any
		switch attr.Value.Type() {
		case attribute.STRING:
			actualVal = attr.Value.AsString()
		case attribute.INT64:
			actualVal = int(attr.Value.AsInt64())
		case attribute.FLOAT64:
			actualVal = attr.Value.AsFloat64()
		case attribute.BOOL:
			actualVal = attr.Value.AsBool()
		}

		if actualVal != expectedVal {
			t.Errorf("attribute %s: got %v, want %v", key, actualVal, expectedVal)
		}
	}
}
