package gotcha_test

import (
	"testing"

	"github.com/primetrain/primetrain/internal/domain"
	"github.com/primetrain/primetrain/internal/domain/gotcha"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// withCkpt keeps checkpointing-disabled out of the way.
func withCkpt(cfg domain.ConfigTree) domain.ConfigTree {
	cfg["ckpt"] = map[string]any{"keep_last": int64(3)}
	return cfg
}

func ids(results []domain.ValidationResult) []string {
	out := make([]string, 0, len(results))
	for _, r := range results {
		out = append(out, r.Check)
	}
	return out
}

func evaluate(cfg domain.ConfigTree) []domain.ValidationResult {
	return gotcha.NewEngine(gotcha.DefaultCatalogue()).Evaluate(cfg)
}

func TestDefaultCatalogue_Order(t *testing.T) {
	c := gotcha.DefaultCatalogue()
	require.Equal(t, 8, c.Len())

	want := []string{
		"fsdp-lora-conflict", "vl-model", "deprecated-lora-section", "seq-len-mismatch",
		"forbidden-params", "missing-lora-name", "prime-executor-latency", "checkpointing-disabled",
	}
	var got []string
	for _, g := range c.Entries() {
		got = append(got, g.ID)
		assert.NotEmpty(t, g.Name)
		assert.NotEmpty(t, g.Recommendation)
		assert.NotNil(t, g.Detect)
	}
	assert.Equal(t, want, got)
}

func TestFSDPLoRAConflict_Triggers(t *testing.T) {
	cfg := withCkpt(domain.ConfigTree{
		"trainer":      map[string]any{"model": map[string]any{"fsdp_cpu_offload": true, "lora": map[string]any{"rank": int64(16)}}},
		"orchestrator": map[string]any{"lora_name": "adapter"},
	})

	results := evaluate(cfg)
	require.Len(t, results, 1)
	assert.Equal(t, "fsdp-lora-conflict", results[0].Check)
	assert.Equal(t, domain.SeverityError, results[0].Severity)
	assert.Equal(t, "FSDP + LoRA Conflict", results[0].Message)
	assert.Contains(t, results[0].Fix, "activation checkpointing")
}

func TestFSDPLoRAConflict_OffloadDisabled(t *testing.T) {
	cfg := withCkpt(domain.ConfigTree{
		"trainer":      map[string]any{"model": map[string]any{"fsdp_cpu_offload": false, "lora": map[string]any{"rank": int64(16)}}},
		"orchestrator": map[string]any{"lora_name": "adapter"},
	})

	assert.Empty(t, evaluate(cfg))
}

func TestFSDPLoRAConflict_ExperimentalLoRA(t *testing.T) {
	cfg := domain.ConfigTree{
		"trainer": map[string]any{"model": map[string]any{
			"fsdp_cpu_offload": true,
			"experimental":     map[string]any{"lora": map[string]any{}},
		}},
	}
	assert.True(t, gotcha.FSDPLoRAConflict(cfg))
	assert.True(t, gotcha.DeprecatedLoRASection(cfg))
	assert.False(t, gotcha.MissingLoRAName(cfg))
}

func TestVisionLanguageModel(t *testing.T) {
	vl := domain.ConfigTree{"trainer": map[string]any{"model": map[string]any{"name_or_path": "Qwen/Qwen2-VL-7B-Instruct"}}}
	assert.True(t, gotcha.VisionLanguageModel(vl))

	llava := domain.ConfigTree{"inference": map[string]any{"model": "llava-hf/llava-1.5-7b-hf"}}
	assert.True(t, gotcha.VisionLanguageModel(llava))

	text := domain.ConfigTree{"trainer": map[string]any{"model": map[string]any{"name_or_path": "Qwen/Qwen2.5-7B-Instruct"}}}
	assert.False(t, gotcha.VisionLanguageModel(text))

	assert.False(t, gotcha.VisionLanguageModel(domain.ConfigTree{}))
}

func TestSeqLenMismatch(t *testing.T) {
	cfg := domain.ConfigTree{
		"trainer":      map[string]any{"model": map[string]any{"seq_len": int64(2048)}},
		"orchestrator": map[string]any{"seq_len": int64(4096)},
	}
	assert.True(t, gotcha.SeqLenMismatch(cfg))

	cfg["orchestrator"] = map[string]any{"seq_len": int64(2048)}
	assert.False(t, gotcha.SeqLenMismatch(cfg))

	assert.False(t, gotcha.SeqLenMismatch(domain.ConfigTree{
		"orchestrator": map[string]any{"seq_len": int64(4096)},
	}))
	assert.False(t, gotcha.SeqLenMismatch(domain.ConfigTree{
		"trainer":      map[string]any{"model": map[string]any{"seq_len": "long"}},
		"orchestrator": map[string]any{"seq_len": int64(4096)},
	}))
}

func TestForbiddenSamplingParams(t *testing.T) {
	for _, p := range []string{"top_p", "mask_truncated_completions", "zero_truncated_completions"} {
		cfg := domain.ConfigTree{"orchestrator": map[string]any{"sampling": map[string]any{p: 0.9}}}
		assert.True(t, gotcha.ForbiddenSamplingParams(cfg), p)
	}

	ok := domain.ConfigTree{"orchestrator": map[string]any{"sampling": map[string]any{"temperature": 1.0}}}
	assert.False(t, gotcha.ForbiddenSamplingParams(ok))
	assert.False(t, gotcha.ForbiddenSamplingParams(domain.ConfigTree{"orchestrator": map[string]any{"sampling": "greedy"}}))
}

func TestMissingLoRAName(t *testing.T) {
	cfg := withCkpt(domain.ConfigTree{
		"trainer":      map[string]any{"model": map[string]any{"lora": map[string]any{"rank": int64(8)}}},
		"orchestrator": map[string]any{"seq_len": int64(1024)},
	})
	assert.Equal(t, []string{"missing-lora-name"}, ids(evaluate(cfg)))

	cfg["orchestrator"] = map[string]any{"seq_len": int64(1024), "lora_name": "x"}
	assert.Empty(t, evaluate(cfg))
}

func TestPrimeExecutorLatency(t *testing.T) {
	cfg := domain.ConfigTree{
		"orchestrator": map[string]any{
			"env": map[string]any{"executor_backend": "Prime", "id": "tool-use-bench"},
		},
	}
	assert.True(t, gotcha.PrimeExecutorLatency(cfg))

	noTools := domain.ConfigTree{
		"orchestrator": map[string]any{"env": map[string]any{"executor_backend": "prime", "id": "math"}},
	}
	assert.False(t, gotcha.PrimeExecutorLatency(noTools))

	local := domain.ConfigTree{
		"orchestrator": map[string]any{"env": map[string]any{"executor_backend": "local", "id": "tool-use"}},
	}
	assert.False(t, gotcha.PrimeExecutorLatency(local))
}

func TestCheckpointingDisabled(t *testing.T) {
	results := evaluate(domain.ConfigTree{})
	require.Len(t, results, 1)
	assert.Equal(t, "checkpointing-disabled", results[0].Check)
	assert.Equal(t, domain.SeverityWarning, results[0].Severity)
}

func TestEngine_OrderFollowsCatalogue(t *testing.T) {
	cfg := domain.ConfigTree{
		"trainer": map[string]any{"model": map[string]any{
			"name_or_path":     "Qwen/Qwen2-VL-7B",
			"fsdp_cpu_offload": true,
			"lora":             map[string]any{},
		}},
	}
	assert.Equal(t,
		[]string{"fsdp-lora-conflict", "vl-model", "missing-lora-name", "checkpointing-disabled"},
		ids(evaluate(cfg)))
}

func TestEngine_PanickingDetectorIsMiss(t *testing.T) {
	boom := gotcha.Gotcha{ID: "boom", Name: "Boom", Detect: func(domain.ConfigTree) bool { panic("bad") }}
	always := gotcha.Gotcha{ID: "always", Name: "Always", Detect: func(domain.ConfigTree) bool { return true }}

	results := gotcha.NewEngine(gotcha.NewCatalogue(boom, always)).Evaluate(domain.ConfigTree{})
	require.Len(t, results, 1)
	assert.Equal(t, "always", results[0].Check)
	assert.Equal(t, domain.SeverityWarning, results[0].Severity, "zero severity defaults to warning")
}

func TestCatalogue_WithDoesNotMutate(t *testing.T) {
	base := gotcha.DefaultCatalogue()
	extra := gotcha.Gotcha{ID: "custom", Name: "Custom", Detect: func(domain.ConfigTree) bool { return true }}

	extended := base.With(extra)
	assert.Equal(t, 8, base.Len())
	assert.Equal(t, 9, extended.Len())

	_, ok := base.Lookup("custom")
	assert.False(t, ok)
	g, ok := extended.Lookup("custom")
	require.True(t, ok)
	assert.Equal(t, "Custom", g.Name)

	reduced := base.Without("checkpointing-disabled")
	assert.Equal(t, 7, reduced.Len())
	assert.Empty(t, gotcha.NewEngine(reduced).Evaluate(domain.ConfigTree{}))
}

func TestCatalogue_EntriesIsCopy(t *testing.T) {
	c := gotcha.DefaultCatalogue()
	entries := c.Entries()
	entries[0].Name = "changed"

	g, ok := c.Lookup("fsdp-lora-conflict")
	require.True(t, ok)
	assert.Equal(t, "FSDP + LoRA Conflict", g.Name)
}
