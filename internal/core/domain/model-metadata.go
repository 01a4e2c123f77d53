package domain

// PerformanceMetrics holds the held-out scores recorded at training time.
type PerformanceMetrics struct {
	TestRMSE  *float64 `json:"test_rmse,omitempty"`
	TestR2    *float64 `json:"test_r2,omitempty"`
	TestMAE   *float64 `json:"test_mae,omitempty"`
	CVR2Mean  *float64 `json:"cv_r2_mean,omitempty"`
	CVR2Std   *float64 `json:"cv_r2_std,omitempty"`
	TrainRMSE *float64 `json:"train_rmse,omitempty"`
}

// ModelMetadata is the descriptive document shipped next to the model.
// Older documents name the model under "model" and keep metrics at the top
// level; newer ones use "model_name" and a "performance_metrics" block. Both
// shapes decode into this struct and the accessors resolve the differences.
type ModelMetadata struct {
	ModelNameField     string              `json:"model_name,omitempty"`
	ModelAlias         string              `json:"model,omitempty"`
	ModelType          string              `json:"model_type,omitempty"`
	TrainingDate       string              `json:"training_date,omitempty"`
	Features           []string            `json:"features,omitempty"`
	TestRMSE           *float64            `json:"test_rmse,omitempty"`
	TestR2             *float64            `json:"test_r2,omitempty"`
	PerformanceMetrics *PerformanceMetrics `json:"performance_metrics,omitempty"`
}

const unknownModelName = "unknown"

// Name returns model_name, falling back to model, then "unknown".
func (m *ModelMetadata) Name() string {
	if m == nil {
		return unknownModelName
	}
	if m.ModelNameField != "" {
		return m.ModelNameField
	}
	if m.ModelAlias != "" {
		return m.ModelAlias
	}
	return unknownModelName
}

// FeatureList never returns nil so responses always carry a JSON array.
func (m *ModelMetadata) FeatureList() []string {
	if m == nil || m.Features == nil {
		return []string{}
	}
	return m.Features
}

// RMSE prefers performance_metrics.test_rmse over the top-level test_rmse.
func (m *ModelMetadata) RMSE() *float64 {
	if m == nil {
		return nil
	}
	if m.PerformanceMetrics != nil && m.PerformanceMetrics.TestRMSE != nil {
		return m.PerformanceMetrics.TestRMSE
	}
	return m.TestRMSE
}

// R2 prefers performance_metrics.test_r2 over the top-level test_r2.
func (m *ModelMetadata) R2() *float64 {
	if m == nil {
		return nil
	}
	if m.PerformanceMetrics != nil && m.PerformanceMetrics.TestR2 != nil {
		return m.PerformanceMetrics.TestR2
	}
	return m.TestR2
}

// ResponseBlock projects the metadata into the block echoed with each prediction.
func (m *ModelMetadata) ResponseBlock() ResponseMetadata {
	block := ResponseMetadata{
		ModelName: m.Name(),
		Features:  m.FeatureList(),
		TestRMSE:  m.RMSE(),
		TestR2:    m.R2(),
	}
	if m != nil {
		block.ModelType = m.ModelType
	}
	return block
}
