package classifier

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/crimson-sun/triage/internal/engine/taxonomy"
)

// modelConfig is the subset of a HuggingFace config.json we read.
type modelConfig struct {
	ID2Label map[string]string `json:"id2label"`
}

// loadLabels resolves class names for the model's outputs. Names come from
// the model's config.json when present; otherwise from the coarse label
// encoding. numLabels <= 0 means the output width is dynamic and is inferred
// from the same sources.
func loadLabels(configPath string, numLabels int) ([]string, error) {
	var cfg modelConfig
	data, err := os.ReadFile(configPath)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("labels: %w", err)
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("labels: parse %s: %w", configPath, err)
		}
	}

	if len(cfg.ID2Label) == 0 {
		enc := taxonomy.DefaultEncoding()
		if numLabels <= 0 {
			numLabels = enc.Len()
		}
		labels := make([]string, numLabels)
		for i := range labels {
			labels[i], _ = enc.Label(i)
		}
		return labels, nil
	}

	if numLabels <= 0 {
		numLabels = len(cfg.ID2Label)
	}
	labels := make([]string, numLabels)
	for k, v := range cfg.ID2Label {
		id, err := strconv.Atoi(k)
		if err != nil {
			return nil, fmt.Errorf("labels: non-numeric id %q in id2label", k)
		}
		if id < 0 || id >= numLabels {
			return nil, fmt.Errorf("labels: id %d out of range for %d outputs", id, numLabels)
		}
		labels[id] = v
	}
	return labels, nil
}

func defaultLabelName(i int) string {
	return "LABEL_" + strconv.Itoa(i)
}
