package model

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"

	"gosleuth/domain/core"
	"gosleuth/domain/sample"
	"gosleuth/internal/imaging"
	"gosleuth/ports"
)

// WeightFile is the on-disk format for one classifier: a standardized linear
// model over the fixed feature vector, with one logit row per label. Label
// vocabulary is model-specific; agent adapters normalize it downstream.
type WeightFile struct {
	ID            string      `json:"id"`
	Labels        []string    `json:"labels"`
	Bias          []float64   `json:"bias"`
	Weights       [][]float64 `json:"weights"`
	FeatureMeans  []float64   `json:"feature_means"`
	FeatureScales []float64   `json:"feature_scales"`
	InputSize     int         `json:"input_size"`
}

// LinearClassifier scores images with a loaded weight file. Instances are
// read-only after construction and safe for concurrent use.
type LinearClassifier struct {
	id        core.AgentID
	labels    []string
	bias      []float64
	weights   [][]float64
	means     []float64
	scales    []float64
	inputSize int
}

// LoadLinearClassifier reads and validates a weight file. Weight files may
// omit input_size; defaultInputSize then supplies the resize target (the
// registry passes the configured MODEL_INPUT_SIZE).
func LoadLinearClassifier(path string, defaultInputSize int) (*LinearClassifier, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", core.ErrModelUnavailable, path, err)
	}

	var wf WeightFile
	if err := json.Unmarshal(data, &wf); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", core.ErrModelUnavailable, path, err)
	}
	if err := wf.validate(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", core.ErrModelUnavailable, path, err)
	}

	size := wf.InputSize
	if size == 0 {
		size = defaultInputSize
	}
	if size == 0 {
		size = 224
	}

	return &LinearClassifier{
		id:        core.AgentID(wf.ID),
		labels:    wf.Labels,
		bias:      wf.Bias,
		weights:   wf.Weights,
		means:     wf.FeatureMeans,
		scales:    wf.FeatureScales,
		inputSize: size,
	}, nil
}

func (wf *WeightFile) validate() error {
	if wf.ID == "" {
		return fmt.Errorf("weight file missing id")
	}
	if len(wf.Labels) < 2 {
		return fmt.Errorf("weight file needs at least two labels, got %d", len(wf.Labels))
	}
	if len(wf.Bias) != len(wf.Labels) || len(wf.Weights) != len(wf.Labels) {
		return fmt.Errorf("bias/weight rows must match label count")
	}
	for i, row := range wf.Weights {
		if len(row) != FeatureCount {
			return fmt.Errorf("weight row %d has %d features, want %d", i, len(row), FeatureCount)
		}
	}
	if len(wf.FeatureMeans) != FeatureCount || len(wf.FeatureScales) != FeatureCount {
		return fmt.Errorf("feature normalization vectors must have %d entries", FeatureCount)
	}
	return nil
}

// ID returns the agent identifier baked into the weight file.
func (c *LinearClassifier) ID() core.AgentID { return c.id }

// Predict resizes the sample to the model input size, extracts features and
// returns softmax label scores shaped like the upstream pipelines' output.
func (c *LinearClassifier) Predict(ctx context.Context, img *sample.ImageSample) ([]ports.LabelScore, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	resized := imaging.ResizeTo(img.Pixels(), c.inputSize, c.inputSize)
	features := ExtractFeatures(resized)

	logits := make([]float64, len(c.labels))
	for li := range c.labels {
		z := c.bias[li]
		for fi := 0; fi < FeatureCount; fi++ {
			scale := c.scales[fi]
			if scale == 0 {
				scale = 1
			}
			z += c.weights[li][fi] * (features[fi] - c.means[fi]) / scale
		}
		logits[li] = z
	}

	probs := softmax(logits)
	scores := make([]ports.LabelScore, len(c.labels))
	for i, label := range c.labels {
		scores[i] = ports.LabelScore{Label: label, Score: probs[i]}
	}
	return scores, nil
}

func softmax(logits []float64) []float64 {
	max := math.Inf(-1)
	for _, z := range logits {
		if z > max {
			max = z
		}
	}
	var sum float64
	exps := make([]float64, len(logits))
	for i, z := range logits {
		exps[i] = math.Exp(z - max)
		sum += exps[i]
	}
	for i := range exps {
		exps[i] /= sum
	}
	return exps
}
