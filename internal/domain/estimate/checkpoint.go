package estimate

import "github.com/primetrain/primetrain/internal/domain"

// Optimizer state is modeled as AdamW momentum plus variance, always
// checkpointed in full.
const (
	optimizerFactor = 2.0
	overheadFactor  = 1.1
)

// CheckpointEstimate breaks down the estimated size of one checkpoint.
// Sizes are in decimal GB: params in billions times bytes per param.
type CheckpointEstimate struct {
	Model          string  `json:"model,omitempty"`
	ParamsBillions float64 `json:"params_billions"`
	ParamsAssumed  bool    `json:"params_assumed"`
	Dtype          string  `json:"dtype"`
	BytesPerParam  float64 `json:"bytes_per_param"`
	WeightsGB      float64 `json:"weights_gb"`
	OptimizerGB    float64 `json:"optimizer_gb"`
	TotalGB        float64 `json:"total_gb"`
}

// EstimateCheckpoint estimates the checkpoint footprint of the model a
// config trains.
func EstimateCheckpoint(cfg domain.ConfigTree) CheckpointEstimate {
	model := cfg.ModelName()
	params, ok := InferParamsBillions(model)
	if !ok {
		params = DefaultParamsBillions
	}
	dtype := cfg.String("trainer.model.dtype", DefaultDtype)
	bytes := BytesPerParam(dtype)

	weights := params * bytes
	optimizer := weights * optimizerFactor
	return CheckpointEstimate{
		Model:          model,
		ParamsBillions: params,
		ParamsAssumed:  !ok,
		Dtype:          dtype,
		BytesPerParam:  bytes,
		WeightsGB:      weights,
		OptimizerGB:    optimizer,
		TotalGB:        (weights + optimizer) * overheadFactor,
	}
}

// EstimateCheckpointGB returns only the total of EstimateCheckpoint.
func EstimateCheckpointGB(cfg domain.ConfigTree) float64 {
	return EstimateCheckpoint(cfg).TotalGB
}
