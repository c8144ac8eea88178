package collector

import (
	"context"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"gosleuth/domain/core"
	"gosleuth/domain/sample"
	"gosleuth/domain/signal"
	"gosleuth/internal/errors"
	"gosleuth/ports"
)

// Options configure the collection fan-out.
type Options struct {
	// ModuleTimeout bounds one forensic module run.
	ModuleTimeout time.Duration
	// OverallDeadline bounds the whole fan-out for one invocation.
	OverallDeadline time.Duration
	// MaxInferenceSlots caps concurrent classifier inference process-wide;
	// classifier inference is compute-bound and must not be oversubscribed.
	MaxInferenceSlots int64
}

// Collector fans one decoded image out to every configured agent and forensic
// module concurrently, isolates their failures from each other, and assembles
// the complete SignalBundle within the overall deadline. The bundle always
// contains one entry per configured component before it is frozen.
type Collector struct {
	agents  []ports.Agent
	modules []ports.ForensicModule
	slots   *semaphore.Weighted
	opts    Options
}

// New creates a collector over fixed agent and module declaration orders.
// Declaration order is the rendering order downstream.
func New(agents []ports.Agent, modules []ports.ForensicModule, opts Options) *Collector {
	if opts.ModuleTimeout == 0 {
		opts.ModuleTimeout = 5 * time.Second
	}
	if opts.OverallDeadline == 0 {
		opts.OverallDeadline = 30 * time.Second
	}
	if opts.MaxInferenceSlots == 0 {
		opts.MaxInferenceSlots = 4
	}
	return &Collector{
		agents:  agents,
		modules: modules,
		slots:   semaphore.NewWeighted(opts.MaxInferenceSlots),
		opts:    opts,
	}
}

// Collect runs the fan-out and returns the frozen bundle. Task completion
// order never affects the bundle: results land in fixed per-component slots
// and are appended in declaration order after the join barrier.
func (c *Collector) Collect(ctx context.Context, invocation core.InvocationID, img *sample.ImageSample) *signal.SignalBundle {
	ctx, cancel := context.WithTimeout(ctx, c.opts.OverallDeadline)
	defer cancel()

	agentSlots := make([]signal.AgentResult, len(c.agents))
	moduleSlots := make([]signal.ModuleOutcome, len(c.modules))

	var wg sync.WaitGroup

	for idx, agent := range c.agents {
		wg.Add(1)
		go func(i int, a ports.Agent) {
			defer wg.Done()
			agentSlots[i] = c.runAgent(ctx, a, img)
		}(idx, agent)
	}

	for idx, module := range c.modules {
		wg.Add(1)
		go func(i int, m ports.ForensicModule) {
			defer wg.Done()
			moduleSlots[i] = c.runModule(ctx, m, img)
		}(idx, module)
	}

	wg.Wait()

	bundle := signal.NewBundle(invocation)
	for _, r := range agentSlots {
		_ = bundle.AddAgentResult(r)
	}
	for _, o := range moduleSlots {
		_ = bundle.AddModuleOutcome(o)
	}
	bundle.Freeze()
	return bundle
}

// runAgent acquires an inference slot and evaluates. The agent's own timeout
// bounds the call; a slot starved past the deadline is a timeout failure.
func (c *Collector) runAgent(ctx context.Context, a ports.Agent, img *sample.ImageSample) signal.AgentResult {
	if err := c.slots.Acquire(ctx, 1); err != nil {
		log.Printf("[Collector] agent %s never got an inference slot: %v", a.ID(), err)
		return signal.AgentResult{
			AgentID:   a.ID(),
			AgentName: a.Name(),
			Specialty: a.Specialty(),
			Label:     signal.LabelFailed,
			ErrCode:   errors.CodeAgentTimeout,
		}
	}
	defer c.slots.Release(1)

	return a.Evaluate(ctx, img)
}

// runModule runs one forensic module under its timeout, recovering panics.
// A failed module contributes a skip marker, never an aborted bundle.
func (c *Collector) runModule(ctx context.Context, m ports.ForensicModule, img *sample.ImageSample) signal.ModuleOutcome {
	ctx, cancel := context.WithTimeout(ctx, c.opts.ModuleTimeout)
	defer cancel()

	type inspection struct {
		findings []signal.ForensicFinding
		err      error
	}
	done := make(chan inspection, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("[Collector] module %s panicked: %v", m.ID(), r)
				done <- inspection{err: core.ErrForensicFailed}
			}
		}()
		findings, err := m.Inspect(ctx, img)
		done <- inspection{findings: findings, err: err}
	}()

	select {
	case <-ctx.Done():
		log.Printf("[Collector] module %s timed out", m.ID())
		return signal.ModuleOutcome{ModuleID: m.ID(), Skipped: signal.SkipTimeout}
	case res := <-done:
		if res.err != nil {
			log.Printf("[Collector] module %s failed: %v", m.ID(), res.err)
			return signal.ModuleOutcome{ModuleID: m.ID(), Skipped: signal.SkipError}
		}
		return signal.ModuleOutcome{ModuleID: m.ID(), Findings: res.findings}
	}
}
