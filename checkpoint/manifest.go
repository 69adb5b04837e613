package checkpoint

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Manifest is the human-readable companion file written alongside every
// checkpoint's binary container, grounded on qubicDB's YAML-tagged config
// style. Unlike the binary container, this file is meant to be read by a
// human inspecting a run directory.
type Manifest struct {
	RunID       string            `yaml:"runId"`
	EpisodeIdx  uint64            `yaml:"episodeIndex"`
	Step        uint64            `yaml:"step"`
	CreatedAt   time.Time         `yaml:"createdAt"`
	NeuronCount int               `yaml:"neuronCount"`
	SynapseCount int              `yaml:"synapseCount"`
	RegionCount int               `yaml:"regionCount"`
	Config      map[string]string `yaml:"config"`
}

// ManifestPath returns the companion manifest path for a checkpoint file.
func ManifestPath(checkpointPath string) string {
	return checkpointPath + ".manifest.yaml"
}

// WriteManifest marshals m as YAML to path.
func WriteManifest(path string, m Manifest) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("checkpoint: marshal manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("checkpoint: write manifest %s: %w", path, err)
	}
	return nil
}

// ReadManifest loads and unmarshals a companion manifest file.
func ReadManifest(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, fmt.Errorf("checkpoint: read manifest %s: %w", path, err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("checkpoint: unmarshal manifest %s: %w", path, err)
	}
	return m, nil
}
