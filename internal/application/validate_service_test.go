package application_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/primetrain/primetrain/internal/adapters/outbound/config"
	"github.com/primetrain/primetrain/internal/application"
	"github.com/primetrain/primetrain/internal/domain"
	"github.com/primetrain/primetrain/internal/domain/gotcha"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixtures = "../../testdata/configs"

func newValidateService(reg domain.ModelRegistry, opts ...application.ValidateOption) *application.ValidateService {
	return application.NewValidateService(config.NewTreeLoader(), reg, opts...)
}

func checks(r *domain.Report, sev domain.Severity) []string {
	var out []string
	for _, res := range r.Results {
		if res.Severity == sev {
			out = append(out, res.Check)
		}
	}
	return out
}

func TestValidateFile_BasicConfigHasNoErrors(t *testing.T) {
	reg := found("text-generation")
	r := newValidateService(reg).ValidateFile(context.Background(), filepath.Join(fixtures, "basic-config.toml"))

	assert.False(t, r.HasErrors(), "unexpected errors: %v", checks(r, domain.SeverityError))
	assert.False(t, r.HasWarnings(), "unexpected warnings: %v", checks(r, domain.SeverityWarning))
	require.NotEmpty(t, r.Results)
	assert.Equal(t, domain.Success("toml_parse", "Config is valid TOML"), r.Results[0])
	assert.Equal(t, []string{"Qwen/Qwen2.5-7B-Instruct"}, reg.calls)
	assert.NotNil(t, r.Config)
}

func TestValidateFile_FSDPLoRAConflict(t *testing.T) {
	r := newValidateService(found("text-generation")).ValidateFile(context.Background(), filepath.Join(fixtures, "gotcha-fsdp-lora.toml"))
	assert.Equal(t, []string{"fsdp-lora-conflict"}, checks(r, domain.SeverityError))
}

func TestValidateFile_PrimeExecutorWarning(t *testing.T) {
	r := newValidateService(found("text-generation")).ValidateFile(context.Background(), filepath.Join(fixtures, "gotcha-prime-executor.toml"))
	assert.False(t, r.HasErrors())
	assert.Contains(t, checks(r, domain.SeverityWarning), "prime-executor-latency")
}

func TestValidateFile_MissingFileIsTerminal(t *testing.T) {
	reg := found()
	r := newValidateService(reg).ValidateFile(context.Background(), "/nonexistent/config.toml")

	require.Len(t, r.Results, 1)
	assert.Equal(t, "file_exists", r.Results[0].Check)
	assert.Equal(t, domain.SeverityError, r.Results[0].Severity)
	assert.Contains(t, r.Results[0].Message, "/nonexistent/config.toml")
	assert.Empty(t, reg.calls)
	assert.Nil(t, r.Config)
}

func TestValidateFile_InvalidTOMLIsTerminal(t *testing.T) {
	r := newValidateService(found()).ValidateFile(context.Background(), filepath.Join(fixtures, "invalid.toml"))

	require.Len(t, r.Results, 1)
	assert.Equal(t, "toml_parse", r.Results[0].Check)
	assert.Equal(t, "Invalid TOML syntax", r.Results[0].Message)
	assert.NotEmpty(t, r.Results[0].Details)
}

func TestValidateFile_YAMLConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rl.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
orchestrator:
  seq_len: 1024
trainer:
  model:
    name_or_path: Qwen/Qwen2.5-7B-Instruct
ckpt:
  keep_last: 1
`), 0644))

	r := newValidateService(found("text-generation")).ValidateFile(context.Background(), path)
	assert.Equal(t, domain.Success("yaml_parse", "Config is valid YAML"), r.Results[0])
	assert.False(t, r.HasErrors())
}

func TestValidateTree_MissingModelSkipsCompatibility(t *testing.T) {
	reg := found()
	cfg := domain.ConfigTree{
		"orchestrator": map[string]any{"seq_len": int64(512)},
		"trainer":      map[string]any{"model": map[string]any{"dtype": "bf16"}},
		"ckpt":         map[string]any{},
	}
	r := domain.NewReport("")
	newValidateService(reg, application.WithTopology(fakeTopology{
		topo: domain.Topology{Count: 1, MemoryGB: 80}, ok: true,
	})).ValidateTree(context.Background(), r, cfg)

	assert.Equal(t, []string{"model_name"}, checks(r, domain.SeverityWarning))
	assert.Empty(t, reg.calls)
	assert.Empty(t, r.Find("memory_fit"))
}

func TestValidateTree_VisionModelSkipsLookup(t *testing.T) {
	reg := found()
	cfg := domain.ConfigTree{
		"orchestrator": map[string]any{"seq_len": int64(512)},
		"trainer":      map[string]any{"model": map[string]any{"name_or_path": "Qwen/Qwen3-VL-4B-Instruct"}},
		"ckpt":         map[string]any{},
	}
	r := domain.NewReport("")
	newValidateService(reg).ValidateTree(context.Background(), r, cfg)

	assert.Empty(t, reg.calls)
	assert.Len(t, r.Find("vl_model"), 1)
	assert.Len(t, r.Find("vl-model"), 1)
	assert.Empty(t, r.Find("hf_availability"))
}

func TestValidateTree_RegistryUnavailableIsWarning(t *testing.T) {
	reg := &fakeRegistry{info: domain.ModelInfo{Status: domain.ModelUnavailable, Reason: "offline"}}
	cfg := domain.ConfigTree{
		"orchestrator": map[string]any{"seq_len": int64(512)},
		"trainer":      map[string]any{"model": map[string]any{"name_or_path": "Qwen/Qwen2.5-7B-Instruct"}},
		"ckpt":         map[string]any{},
	}
	r := domain.NewReport("")
	newValidateService(reg).ValidateTree(context.Background(), r, cfg)

	assert.False(t, r.HasErrors())
	require.Len(t, r.Find("hf_availability"), 1)
	assert.Equal(t, domain.SeverityWarning, r.Find("hf_availability")[0].Severity)
}

func TestValidateTree_MemoryFitWhenTopologyResolves(t *testing.T) {
	cfg := domain.ConfigTree{
		"orchestrator": map[string]any{"seq_len": int64(512)},
		"trainer":      map[string]any{"model": map[string]any{"name_or_path": "meta-llama/Llama-3-70B"}},
		"ckpt":         map[string]any{},
	}

	r := domain.NewReport("")
	newValidateService(found("text-generation"), application.WithTopology(fakeTopology{
		topo: domain.Topology{Count: 1, MemoryGB: 24}, ok: true,
	})).ValidateTree(context.Background(), r, cfg)
	require.Len(t, r.Find("memory_fit"), 1)
	assert.Equal(t, domain.SeverityError, r.Find("memory_fit")[0].Severity)

	r = domain.NewReport("")
	newValidateService(found("text-generation"), application.WithTopology(fakeTopology{ok: false})).
		ValidateTree(context.Background(), r, cfg)
	assert.Empty(t, r.Find("memory_fit"))
}

func TestValidateTree_OrderIsSchemaThenModelThenGotchas(t *testing.T) {
	cfg := domain.ConfigTree{
		"orchestrator": map[string]any{"seq_len": int64(512)},
		"trainer":      map[string]any{"model": map[string]any{"name_or_path": "Qwen/Qwen2.5-7B-Instruct"}},
	}
	r := domain.NewReport("")
	newValidateService(found("text-generation")).ValidateTree(context.Background(), r, cfg)

	var order []string
	for _, res := range r.Results {
		order = append(order, res.Check)
	}
	assert.Equal(t, []string{
		"required_section", "required_section",
		"hf_availability",
		"checkpointing-disabled",
	}, order)
}

func TestValidateTree_CustomCatalogue(t *testing.T) {
	always := gotcha.Gotcha{
		ID: "always", Name: "Always", Description: "d", Recommendation: "r",
		Severity: domain.SeverityInfo,
		Detect:   func(domain.ConfigTree) bool { return true },
	}
	cfg := domain.ConfigTree{
		"orchestrator": map[string]any{"seq_len": int64(512)},
		"trainer":      map[string]any{"model": map[string]any{"name_or_path": "Qwen/Qwen2.5-7B-Instruct"}},
	}
	r := domain.NewReport("")
	newValidateService(found("text-generation"),
		application.WithGotchaEngine(gotcha.NewEngine(gotcha.NewCatalogue(always))),
	).ValidateTree(context.Background(), r, cfg)

	last := r.Results[len(r.Results)-1]
	assert.Equal(t, "always", last.Check)
	assert.Empty(t, r.Find("checkpointing-disabled"))
}
