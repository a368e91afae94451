package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/primetrain/primetrain/internal/domain"
	"gopkg.in/yaml.v3"
)

// YAMLLoader implements domain.SettingsLoader by reading .prime-train.yaml.
type YAMLLoader struct{}

// New creates a YAMLLoader.
func New() *YAMLLoader { return &YAMLLoader{} }

// Load reads .prime-train.yaml from dir. Keys absent from the file keep
// their defaults; a missing file yields DefaultSettings.
func (l *YAMLLoader) Load(dir string) (domain.Settings, error) {
	cfg := domain.DefaultSettings()

	data, err := os.ReadFile(filepath.Join(dir, domain.SettingsFileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return domain.Settings{}, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return domain.Settings{}, fmt.Errorf("parsing %s: %w", domain.SettingsFileName, err)
	}

	if err := cfg.Validate(); err != nil {
		return domain.Settings{}, fmt.Errorf("%s: %w", domain.SettingsFileName, err)
	}
	return cfg, nil
}

// Template is the commented settings file written by `prime-train init`.
const Template = `# prime-train settings
# Flags passed on the command line override these values.

# Where checkpoints are written during training.
checkpoint_dir: /opt/run/checkpoints/

# Disk space reserved for logs and temp files, in GB.
safety_buffer_gb: 10

# Treat warnings as failures.
strict: false

# Skip the HuggingFace model lookup.
offline: false

# Write Prometheus textfile metrics after each validation.
# metrics_file: /var/lib/node_exporter/textfile/prime_train.prom

hub:
  endpoint: https://huggingface.co
  timeout: 10s
  rate_per_second: 5
  # Reuse model lookups for this long; 0 disables the cache.
  cache_ttl: 24h

gpu:
  # Pin the topology for the memory-fit check, either explicitly...
  # count: 8
  # memory_gb: 80
  # ...or from a hardware preset (see prime-train presets).
  # preset: h100-80gb
  # Or query nvidia-smi.
  detect: false

history:
  enabled: true
`
