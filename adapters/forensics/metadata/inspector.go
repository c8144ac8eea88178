package metadata

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/rwcarlsen/goexif/exif"

	"gosleuth/domain/core"
	"gosleuth/domain/sample"
	"gosleuth/domain/signal"
)

// ModuleID identifies the metadata inspector in bundles and logs.
const ModuleID core.ModuleID = "metadata"

// signature maps a lowercase tag substring to the tool name it reveals and
// the severity of finding it inside a submitted image.
type signature struct {
	tool     string
	severity signal.Severity
}

// Known editing and generation signatures. AI generators are CRITICAL;
// conventional raster editors are WARNING (editing is suspicious, not proof).
var editingSignatures = []struct {
	needle string
	sig    signature
}{
	{"midjourney", signature{"Midjourney", signal.SeverityCritical}},
	{"dall-e", signature{"DALL-E", signal.SeverityCritical}},
	{"dall·e", signature{"DALL-E", signal.SeverityCritical}},
	{"stable diffusion", signature{"Stable Diffusion", signal.SeverityCritical}},
	{"adobe firefly", signature{"Adobe Firefly", signal.SeverityCritical}},
	{"leonardo.ai", signature{"Leonardo.Ai", signal.SeverityCritical}},
	{"photoshop", signature{"Adobe Photoshop", signal.SeverityWarning}},
	{"lightroom", signature{"Adobe Lightroom", signal.SeverityWarning}},
	{"gimp", signature{"GIMP", signal.SeverityWarning}},
	{"affinity photo", signature{"Affinity Photo", signal.SeverityWarning}},
	{"paint.net", signature{"Paint.NET", signal.SeverityWarning}},
	{"pixelmator", signature{"Pixelmator", signal.SeverityWarning}},
	{"snapseed", signature{"Snapseed", signal.SeverityWarning}},
	{"facetune", signature{"Facetune", signal.SeverityWarning}},
}

// Inspector reads embedded image metadata without re-encoding. Absence of
// metadata is data, not an error: the inspector never fails a request.
type Inspector struct{}

// NewInspector creates a metadata inspector.
func NewInspector() *Inspector { return &Inspector{} }

// ID returns the module identifier.
func (i *Inspector) ID() core.ModuleID { return ModuleID }

// Category returns METADATA.
func (i *Inspector) Category() signal.Category { return signal.CategoryMetadata }

// Inspect parses EXIF from the original encoded bytes and classifies what it
// finds. Missing or corrupt metadata yields a single ambiguous INFO finding.
func (i *Inspector) Inspect(ctx context.Context, img *sample.ImageSample) ([]signal.ForensicFinding, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	x, err := exif.Decode(bytes.NewReader(img.Raw()))
	if err != nil {
		// Common after legitimate re-encoding; not inherently suspicious.
		return []signal.ForensicFinding{signal.NewFinding(
			ModuleID, signal.CategoryMetadata, signal.SeverityInfo,
			"No embedded metadata present (ambiguous: common after re-encoding, not inherently suspicious)",
		)}, nil
	}

	var findings []signal.ForensicFinding
	for _, field := range []exif.FieldName{exif.Software, exif.ImageDescription, exif.Make, exif.Model} {
		value, ok := stringTag(x, field)
		if !ok {
			continue
		}
		lowered := strings.ToLower(value)
		for _, entry := range editingSignatures {
			if strings.Contains(lowered, entry.needle) {
				findings = append(findings, signal.NewFinding(
					ModuleID, signal.CategoryMetadata, entry.sig.severity,
					fmt.Sprintf("Editing-software signature detected in %s tag: %s", field, entry.sig.tool),
				))
			}
		}
	}
	if len(findings) > 0 {
		return dedupe(findings), nil
	}

	// Clean metadata: report provenance when the camera tags carry it.
	make, hasMake := stringTag(x, exif.Make)
	model, hasModel := stringTag(x, exif.Model)
	switch {
	case hasMake && hasModel:
		findings = append(findings, signal.NewFinding(
			ModuleID, signal.CategoryMetadata, signal.SeverityInfo,
			fmt.Sprintf("Camera metadata intact (%s %s), no editing signatures", make, model),
		))
	default:
		findings = append(findings, signal.NewFinding(
			ModuleID, signal.CategoryMetadata, signal.SeverityInfo,
			"Metadata present with no editing signatures, no anomaly",
		))
	}
	return findings, nil
}

func stringTag(x *exif.Exif, field exif.FieldName) (string, bool) {
	tag, err := x.Get(field)
	if err != nil {
		return "", false
	}
	value, err := tag.StringVal()
	if err != nil || strings.TrimSpace(value) == "" {
		return "", false
	}
	return strings.TrimSpace(value), true
}

// dedupe drops repeated tool detections when the same signature appears in
// several tags, keeping the first (highest-priority field) occurrence.
func dedupe(findings []signal.ForensicFinding) []signal.ForensicFinding {
	seen := make(map[string]bool, len(findings))
	out := findings[:0]
	for _, f := range findings {
		if seen[f.Message] {
			continue
		}
		seen[f.Message] = true
		out = append(out, f)
	}
	return out
}
