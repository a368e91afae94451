package compat_test

import (
	"testing"

	"github.com/primetrain/primetrain/internal/domain"
	"github.com/primetrain/primetrain/internal/domain/compat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrecheck_Blocked(t *testing.T) {
	results, done := compat.Precheck("openai/gpt-oss-20b")
	require.True(t, done)
	require.Len(t, results, 1)
	assert.Equal(t, "blocked_model", results[0].Check)
	assert.Equal(t, domain.SeverityError, results[0].Severity)
	assert.Contains(t, results[0].Details, "default_weight_loader")
	assert.Contains(t, results[0].Fix, compat.VerifiedModel)
}

func TestPrecheck_VisionLanguage(t *testing.T) {
	results, done := compat.Precheck("Qwen/Qwen2-VL-7B-Instruct")
	require.True(t, done)
	require.Len(t, results, 1)
	assert.Equal(t, "vl_model", results[0].Check)
	assert.Equal(t, "Use text-only variant (e.g., Qwen/Qwen2-7B-Instruct)", results[0].Fix)
}

func TestPrecheck_TextModelPasses(t *testing.T) {
	results, done := compat.Precheck("Qwen/Qwen2.5-7B-Instruct")
	assert.False(t, done)
	assert.Empty(t, results)
}

func TestTextOnlyVariant(t *testing.T) {
	assert.Equal(t, "Qwen/Qwen2.5-7B-Instruct", compat.TextOnlyVariant("Qwen/Qwen2.5-VL-7B-Instruct"))
	assert.Equal(t, "org/model-7b", compat.TextOnlyVariant("org/model-vl-7b"))
	assert.Equal(t, "org/Model-3B", compat.TextOnlyVariant("org/Vision-Model-3B"))
	assert.Equal(t, compat.VerifiedModel, compat.TextOnlyVariant("llava-hf/llava-1.5-7b-hf"))
}

func TestFromLookup_FoundCausal(t *testing.T) {
	results := compat.FromLookup("Qwen/Qwen3-8B", domain.ModelInfo{
		Status: domain.ModelFound,
		Tags:   []string{"transformers", "text-generation"},
	})
	require.Len(t, results, 1)
	assert.Equal(t, "hf_availability", results[0].Check)
	assert.Equal(t, domain.SeveritySuccess, results[0].Severity)
	assert.Equal(t, "Model Qwen/Qwen3-8B exists on HuggingFace", results[0].Message)
}

func TestFromLookup_FoundNotCausal(t *testing.T) {
	results := compat.FromLookup("bert-base-uncased", domain.ModelInfo{
		Status: domain.ModelFound,
		Tags:   []string{"a", "b", "c", "d", "e", "f", "g"},
	})
	require.Len(t, results, 2)
	assert.Equal(t, "model_type", results[1].Check)
	assert.Equal(t, domain.SeverityWarning, results[1].Severity)
	assert.Equal(t, "Tags: a, b, c, d, e", results[1].Details)
}

func TestFromLookup_NotFound(t *testing.T) {
	results := compat.FromLookup("nobody/nothing", domain.ModelInfo{Status: domain.ModelNotFound, Reason: "404"})
	require.Len(t, results, 1)
	assert.Equal(t, domain.SeverityError, results[0].Severity)
	assert.Equal(t, "404", results[0].Details)
	assert.NotEmpty(t, results[0].Fix)
}

func TestFromLookup_UnavailableIsWarning(t *testing.T) {
	results := compat.FromLookup("Qwen/Qwen3-8B", domain.ModelInfo{Status: domain.ModelUnavailable, Reason: "offline mode"})
	require.Len(t, results, 1)
	assert.Equal(t, domain.SeverityWarning, results[0].Severity)
	assert.Equal(t, "Could not check HuggingFace availability (offline mode)", results[0].Message)
}
