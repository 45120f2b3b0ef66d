package tuning

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Tuning struct {
	ProtocolVersion string `yaml:"protocol_version"`

	NodeBudget       int `yaml:"node_budget"`
	LocalSearchDepth int `yaml:"local_search_depth"`
	MaxBatchSteps    int `yaml:"max_batch_steps"`
	OffsetStride     int `yaml:"offset_stride"`
}

func Default() Tuning {
	return Tuning{
		ProtocolVersion:  "1.0",
		NodeBudget:       20000,
		LocalSearchDepth: 32,
		MaxBatchSteps:    64,
		OffsetStride:     1 << 16,
	}
}

func Load(path string) (Tuning, error) {
	t := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	return t, nil
}
