package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	appconfig "github.com/primetrain/primetrain/internal/adapters/outbound/config"
	"github.com/primetrain/primetrain/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestYAMLLoader_MissingFileReturnsDefaults(t *testing.T) {
	dir := t.TempDir()
	loader := appconfig.New()

	cfg, err := loader.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSettings(), cfg)
}

func TestYAMLLoader_ValidYAMLKeepsUnsetDefaults(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".prime-train.yaml", `
checkpoint_dir: /mnt/ckpt
strict: true
hub:
  timeout: 30s
gpu:
  preset: a100-40gb
`)
	loader := appconfig.New()

	cfg, err := loader.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "/mnt/ckpt", cfg.CheckpointDir)
	assert.True(t, cfg.Strict)
	assert.Equal(t, 30*time.Second, cfg.Hub.Timeout)
	assert.Equal(t, domain.DefaultHubEndpoint, cfg.Hub.Endpoint)
	assert.Equal(t, domain.DefaultSafetyBufferGB, cfg.SafetyBufferGB)
	assert.Equal(t, "a100-40gb", cfg.GPU.Preset)
	assert.True(t, cfg.History.Enabled)
}

func TestYAMLLoader_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".prime-train.yaml", `{{{invalid yaml`)
	loader := appconfig.New()

	_, err := loader.Load(dir)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "parsing .prime-train.yaml")
}

func TestYAMLLoader_InvalidValues(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".prime-train.yaml", "safety_buffer_gb: -5\n")
	loader := appconfig.New()

	_, err := loader.Load(dir)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid settings")
}

func TestYAMLLoader_TemplateIsValid(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".prime-train.yaml", appconfig.Template)

	cfg, err := appconfig.New().Load(dir)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSettings(), cfg)
}

func TestTreeLoader_TOML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "train.toml", `
[orchestrator]
seq_len = 2048

[trainer.model]
name_or_path = "Qwen/Qwen2.5-7B-Instruct"
dtype = "bf16"

[ckpt]
keep_last = 3
`)
	loader := appconfig.NewTreeLoader()
	assert.Equal(t, "toml", loader.Format(path))

	tree, err := loader.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Qwen/Qwen2.5-7B-Instruct", tree.String("trainer.model.name_or_path", ""))
	assert.Equal(t, 2048, tree.Int("orchestrator.seq_len", 0))
	assert.Equal(t, 3, tree.Int("ckpt.keep_last", 0))
}

func TestTreeLoader_YAML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "train.yml", `
orchestrator:
  seq_len: 1024
trainer:
  model:
    name_or_path: Qwen/Qwen3-8B
`)
	loader := appconfig.NewTreeLoader()
	assert.Equal(t, "yaml", loader.Format(path))

	tree, err := loader.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Qwen/Qwen3-8B", tree.ModelName())
	assert.Equal(t, 1024, tree.Int("orchestrator.seq_len", 0))
}

func TestTreeLoader_Missing(t *testing.T) {
	_, err := appconfig.NewTreeLoader().Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConfigNotFound))
}

func TestTreeLoader_InvalidTOML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "bad.toml", `title = "unterminated`)

	_, err := appconfig.NewTreeLoader().Load(path)
	require.Error(t, err)
	var perr *domain.ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "toml", perr.Format)
	assert.Contains(t, err.Error(), "line ")
}
