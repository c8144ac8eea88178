package container

import (
	"fmt"
	"log"

	"gosleuth/adapters/agents"
	"gosleuth/adapters/forensics/ela"
	"gosleuth/adapters/forensics/geometry"
	"gosleuth/adapters/forensics/metadata"
	"gosleuth/adapters/model"
	"gosleuth/app"
	"gosleuth/domain/verdict"
	"gosleuth/internal/collector"
	"gosleuth/internal/config"
	"gosleuth/internal/fusion"
	"gosleuth/internal/report"
	"gosleuth/ports"
)

// Weight file names under MODEL_DIR, one per specialist agent.
const (
	swapModelName      = "vigilante-v2"
	synthesisModelName = "sentinel-x"
)

// Container holds all application dependencies and manages their lifecycle.
// Model handles are loaded here exactly once; the pipeline shares them
// read-only across every concurrent request.
type Container struct {
	Config *config.Config

	Models *model.Registry

	Agents  []ports.Agent
	Modules []ports.ForensicModule

	Collector  *collector.Collector
	Aggregator *fusion.Aggregator
	Renderer   *report.Renderer

	Analysis *app.AnalysisService

	modelsReady bool
}

// New wires the full detection pipeline from configuration.
func New(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	c := &Container{
		Config: cfg,
		Models: model.NewRegistry(cfg.Models),
	}

	c.initAgents()
	c.initForensics()
	c.initPipeline()

	return c, nil
}

// initAgents loads the two specialist model handles and wraps them behind the
// suspicion-score contract. A missing weight file degrades that agent to
// permanent FAILED results instead of refusing startup; the other detectors
// keep the service useful.
func (c *Container) initAgents() {
	opts := agents.Options{
		SuspicionThreshold: c.Config.Detection.AgentSuspicionThreshold,
		Timeout:            c.Config.Detection.AgentTimeout,
		MaxImageDim:        c.Config.Detection.MaxImageDim,
	}

	swap, swapErr := c.Models.Classifier(swapModelName)
	synth, synthErr := c.Models.Classifier(synthesisModelName)
	c.modelsReady = swapErr == nil && synthErr == nil

	// Fixed declaration order: swap specialist first, then synthesis.
	// This order is also the report order.
	c.Agents = []ports.Agent{
		agents.NewSwapSpecialist(swap, swapErr, opts),
		agents.NewSynthesisSpecialist(synth, synthErr, opts),
	}
}

// initForensics builds the three forensic modules in fixed order:
// metadata, compression, geometry.
func (c *Container) initForensics() {
	var landmarker ports.FaceLandmarker
	if pl, err := geometry.NewPigoLandmarker(c.Config.Models.CascadeDir); err != nil {
		log.Printf("[Container] face cascades unavailable, geometry module will skip: %v", err)
	} else {
		landmarker = pl
	}

	c.Modules = []ports.ForensicModule{
		metadata.NewInspector(),
		ela.NewScorer(c.Config.Detection.ELARequality, c.Config.Detection.ELACriticalThreshold),
		geometry.NewValidator(landmarker, geometry.DefaultBounds()),
	}
}

func (c *Container) initPipeline() {
	c.Collector = collector.New(c.Agents, c.Modules, collector.Options{
		ModuleTimeout:     c.Config.Detection.ModuleTimeout,
		OverallDeadline:   c.Config.Detection.OverallDeadline,
		MaxInferenceSlots: c.Config.Models.MaxInferenceSlots,
	})

	c.Aggregator = fusion.New(verdict.Thresholds{
		AgentSuspicion: c.Config.Detection.AgentSuspicionThreshold,
		ELACritical:    c.Config.Detection.ELACriticalThreshold,
	})

	moduleRefs := make([]report.ModuleRef, 0, len(c.Modules))
	for _, m := range c.Modules {
		moduleRefs = append(moduleRefs, report.ModuleRef{ID: m.ID(), Category: m.Category()})
	}
	c.Renderer = report.New(moduleRefs)

	c.Analysis = app.NewAnalysisService(c.Collector, c.Aggregator, c.Renderer)
}

// ModelsReady reports whether both classifier weight files loaded.
func (c *Container) ModelsReady() bool { return c.modelsReady }
