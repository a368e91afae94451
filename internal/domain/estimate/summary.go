package estimate

import "github.com/primetrain/primetrain/internal/domain"

// Summary combines the checkpoint and runtime memory estimates for a model.
type Summary struct {
	Checkpoint           CheckpointEstimate `json:"checkpoint"`
	Mode                 TrainingMode       `json:"mode"`
	MemoryParamsBillions float64            `json:"memory_params_billions"`
	MemoryGB             float64            `json:"memory_gb"`

	// Measured size of checkpoints already on disk, when a directory was
	// given.
	CheckpointDir         string  `json:"checkpoint_dir,omitempty"`
	ExistingCheckpointsGB float64 `json:"existing_checkpoints_gb,omitempty"`
}

// Summarize estimates a config's model in the given mode. An empty mode is
// inferred from the config.
func Summarize(cfg domain.ConfigTree, mode TrainingMode) Summary {
	ckpt := EstimateCheckpoint(cfg)
	if mode == "" {
		mode = ModeFor(cfg)
	}
	return Summary{
		Checkpoint:           ckpt,
		Mode:                 mode,
		MemoryParamsBillions: MemoryParamsBillions(ckpt.Model),
		MemoryGB:             EstimateMemoryGB(ckpt.Model, ckpt.Dtype, mode),
	}
}

// ForModel builds the minimal config naming model and dtype, so ad-hoc
// estimates go through the same path as config files.
func ForModel(model, dtype string) domain.ConfigTree {
	m := map[string]any{"name_or_path": model}
	if dtype != "" {
		m["dtype"] = dtype
	}
	return domain.ConfigTree{"trainer": map[string]any{"model": m}}
}
