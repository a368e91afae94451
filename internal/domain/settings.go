package domain

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	DefaultCheckpointDir  = "/opt/run/checkpoints/"
	DefaultSafetyBufferGB = 10.0
	DefaultHubEndpoint    = "https://huggingface.co"
	DefaultHubTimeout     = 10 * time.Second
	DefaultHubRate        = 5.0
	DefaultHubCacheTTL    = 24 * time.Hour
	SettingsFileName      = ".prime-train.yaml"
)

var settingsValidate *validator.Validate

func init() {
	settingsValidate = validator.New()
	_ = settingsValidate.RegisterValidation("preset", func(fl validator.FieldLevel) bool {
		_, ok := LookupPreset(fl.Field().String())
		return ok
	})
}

// Settings holds tool configuration loaded from .prime-train.yaml.
// Command-line flags override these values.
type Settings struct {
	CheckpointDir  string          `yaml:"checkpoint_dir"   json:"checkpoint_dir"   validate:"required"`
	SafetyBufferGB float64         `yaml:"safety_buffer_gb" json:"safety_buffer_gb" validate:"gte=0"`
	Strict         bool            `yaml:"strict"           json:"strict"`
	Offline        bool            `yaml:"offline"          json:"offline"`
	MetricsFile    string          `yaml:"metrics_file"     json:"metrics_file,omitempty"`
	Hub            HubSettings     `yaml:"hub"              json:"hub"`
	GPU            GPUSettings     `yaml:"gpu"              json:"gpu"`
	History        HistorySettings `yaml:"history"          json:"history"`
}

// HubSettings configures the model registry client. CacheTTL bounds how
// long lookup answers are reused; zero disables the cache.
type HubSettings struct {
	Endpoint      string        `yaml:"endpoint"        json:"endpoint"        validate:"required,url"`
	Timeout       time.Duration `yaml:"timeout"         json:"timeout"         validate:"gte=0"`
	RatePerSecond float64       `yaml:"rate_per_second" json:"rate_per_second" validate:"gte=0"`
	CacheTTL      time.Duration `yaml:"cache_ttl"       json:"cache_ttl"       validate:"gte=0"`
}

// GPUSettings pins the GPU topology used for the memory-fit check.
// Count and MemoryGB must be set together unless a preset supplies the
// memory.
type GPUSettings struct {
	Count    int     `yaml:"count"     json:"count"               validate:"gte=0"`
	MemoryGB float64 `yaml:"memory_gb" json:"memory_gb"           validate:"gte=0"`
	Preset   string  `yaml:"preset"    json:"preset,omitempty"    validate:"omitempty,preset"`
	Detect   bool    `yaml:"detect"    json:"detect"`
}

type HistorySettings struct {
	Enabled bool `yaml:"enabled" json:"enabled"`
}

// DefaultSettings returns the settings used when no file is present.
func DefaultSettings() Settings {
	return Settings{
		CheckpointDir:  DefaultCheckpointDir,
		SafetyBufferGB: DefaultSafetyBufferGB,
		Hub: HubSettings{
			Endpoint:      DefaultHubEndpoint,
			Timeout:       DefaultHubTimeout,
			RatePerSecond: DefaultHubRate,
			CacheTTL:      DefaultHubCacheTTL,
		},
		History: HistorySettings{Enabled: true},
	}
}

// Validate checks the settings for invalid values and returns a descriptive error.
func (s Settings) Validate() error {
	if err := settingsValidate.Struct(s); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	if s.GPU.Preset == "" && (s.GPU.Count > 0) != (s.GPU.MemoryGB > 0) {
		return fmt.Errorf("invalid settings: gpu.count and gpu.memory_gb must be set together")
	}
	return nil
}
