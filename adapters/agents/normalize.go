package agents

import (
	"strings"

	"gosleuth/ports"
)

// Label vocabularies seen across the wrapped models. Each underlying
// classifier names its classes differently; normalization collapses them all
// into one fake-probability.
var (
	fakeLabels = map[string]bool{
		"fake":       true,
		"deepfake":   true,
		"artificial": true,
		"label_1":    true,
	}
	realLabels = map[string]bool{
		"real":    true,
		"natural": true,
		"label_0": true,
	}
)

// fakeProbability extracts the manipulation probability from a heterogeneous
// prediction list. A fake-class score wins outright; otherwise a real-class
// score is inverted. Unknown vocabularies yield zero, which downstream reads
// as a clean signal rather than a failure.
func fakeProbability(preds []ports.LabelScore) float64 {
	var fakeScore float64
	for _, p := range preds {
		label := strings.ToLower(strings.TrimSpace(p.Label))
		switch {
		case fakeLabels[label]:
			fakeScore = p.Score
		case realLabels[label]:
			if fakeScore == 0 {
				fakeScore = 1.0 - p.Score
			}
		}
	}
	return clamp01(fakeScore)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
