package cli_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type validateJSON struct {
	ConfigPath string `json:"config_path"`
	RunID      string `json:"run_id"`
	Passed     bool   `json:"passed"`
	Results    []struct {
		Check    string `json:"check"`
		Severity string `json:"severity"`
		Message  string `json:"message"`
	} `json:"results"`
	Budget *struct {
		RequestedCheckpoints int `json:"requested_checkpoints"`
	} `json:"budget"`
}

func TestValidateCmd_JSONPasses(t *testing.T) {
	path := fixture(t, "basic-config.toml")

	out, err := run(t, "validate", path, "--offline", "--no-history", "--json")
	require.NoError(t, err)

	var got validateJSON
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.True(t, got.Passed)
	assert.Equal(t, path, got.ConfigPath)
	assert.NotEmpty(t, got.RunID)
	require.NotEmpty(t, got.Results)
	assert.Equal(t, "toml_parse", got.Results[0].Check)
	assert.Equal(t, "success", got.Results[0].Severity)
	assert.Nil(t, got.Budget)
}

func TestValidateCmd_StrictFailsOnOfflineWarning(t *testing.T) {
	path := fixture(t, "basic-config.toml")

	_, err := run(t, "validate", path, "--offline", "--no-history", "--strict")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "strict")
}

func TestValidateCmd_GotchaFails(t *testing.T) {
	path := fixture(t, "gotcha-fsdp-lora.toml")

	out, err := run(t, "validate", path, "--offline", "--no-history")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 error(s)")
	assert.Contains(t, out, "Pre-flight validation")
}

func TestValidateCmd_MissingConfig(t *testing.T) {
	out, err := run(t, "validate", filepath.Join(t.TempDir(), "absent.toml"), "--offline", "--json")
	require.Error(t, err)

	var got validateJSON
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.False(t, got.Passed)
	require.Len(t, got.Results, 1)
	assert.Equal(t, "file_exists", got.Results[0].Check)
}

func TestValidateCmd_RecordsHistory(t *testing.T) {
	path := fixture(t, "basic-config.toml")

	_, err := run(t, "validate", path, "--offline")
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(filepath.Dir(path), ".prime-train", "history", "validations.json"))
	assert.NoError(t, err)
}

func TestValidateCmd_BudgetAppendsResults(t *testing.T) {
	path := fixture(t, "basic-config.toml")

	out, _ := run(t, "validate", path, "--offline", "--no-history", "--json",
		"--budget", "--checkpoint-dir", t.TempDir(), "--safety-buffer", "0")

	var got validateJSON
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.NotNil(t, got.Budget)
	assert.Equal(t, 3, got.Budget.RequestedCheckpoints)
}

func TestValidateCmd_MetricsFile(t *testing.T) {
	path := fixture(t, "basic-config.toml")
	metricsPath := filepath.Join(t.TempDir(), "prime_train.prom")

	_, err := run(t, "validate", path, "--offline", "--no-history", "--metrics-file", metricsPath)
	require.NoError(t, err)

	data, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "prime_train_validation_passed")
}

func TestValidateCmd_RejectsBadPreset(t *testing.T) {
	path := fixture(t, "basic-config.toml")

	_, err := run(t, "validate", path, "--offline", "--preset", "tpu-v5")
	assert.Error(t, err)
}

func TestValidateCmd_RequiresArg(t *testing.T) {
	_, err := run(t, "validate")
	assert.Error(t, err)
}
