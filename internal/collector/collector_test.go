package collector

import (
	"context"
	"errors"
	"image/color"
	"testing"
	"time"

	"gosleuth/domain/core"
	"gosleuth/domain/sample"
	"gosleuth/domain/signal"
	"gosleuth/internal/testkit"
	"gosleuth/ports"
)

type stubAgent struct {
	id    core.AgentID
	delay time.Duration
	score float64
}

func (a *stubAgent) ID() core.AgentID  { return a.id }
func (a *stubAgent) Name() string      { return string(a.id) }
func (a *stubAgent) Specialty() string { return "stub" }

func (a *stubAgent) Evaluate(ctx context.Context, _ *sample.ImageSample) signal.AgentResult {
	if a.delay > 0 {
		select {
		case <-time.After(a.delay):
		case <-ctx.Done():
			return signal.AgentResult{AgentID: a.id, AgentName: string(a.id), Specialty: "stub", Label: signal.LabelFailed, ErrCode: "AGENT_TIMEOUT"}
		}
	}
	return signal.AgentResult{AgentID: a.id, AgentName: string(a.id), Specialty: "stub", SuspicionScore: a.score, Label: signal.LabelClean}
}

type stubModule struct {
	id       core.ModuleID
	delay    time.Duration
	err      error
	panics   bool
	findings []signal.ForensicFinding
}

func (m *stubModule) ID() core.ModuleID         { return m.id }
func (m *stubModule) Category() signal.Category { return signal.CategoryMetadata }

func (m *stubModule) Inspect(ctx context.Context, _ *sample.ImageSample) ([]signal.ForensicFinding, error) {
	if m.panics {
		panic("stub module exploded")
	}
	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return m.findings, m.err
}

func testSample(t *testing.T) *sample.ImageSample {
	t.Helper()
	img := testkit.FlatImage(16, 16, color.RGBA{R: 90, G: 90, B: 90, A: 255})
	return sample.New(img, testkit.PNGBytes(img), sample.FormatPNG)
}

// TestCollect_EntryPerComponent verifies every configured agent and module
// contributes exactly one bundle entry, in declaration order.
func TestCollect_EntryPerComponent(t *testing.T) {
	agents := []ports.Agent{
		&stubAgent{id: "vigilante-v2", score: 0.2},
		&stubAgent{id: "sentinel-x", score: 0.7},
	}
	modules := []ports.ForensicModule{
		&stubModule{id: "metadata", findings: []signal.ForensicFinding{
			signal.NewFinding("metadata", signal.CategoryMetadata, signal.SeverityInfo, "ok"),
		}},
		&stubModule{id: "ela"},
		&stubModule{id: "geometry"},
	}

	b := New(agents, modules, Options{}).Collect(context.Background(), core.NewInvocationID(), testSample(t))

	if !b.Frozen() {
		t.Error("Expected a frozen bundle")
	}
	results := b.AgentResults()
	if len(results) != 2 {
		t.Fatalf("Expected 2 agent results, got %d", len(results))
	}
	if results[0].AgentID != "vigilante-v2" || results[1].AgentID != "sentinel-x" {
		t.Errorf("Agent results out of declaration order: %v, %v", results[0].AgentID, results[1].AgentID)
	}
	outcomes := b.ModuleOutcomes()
	if len(outcomes) != 3 {
		t.Fatalf("Expected 3 module outcomes, got %d", len(outcomes))
	}
	for i, want := range []core.ModuleID{"metadata", "ela", "geometry"} {
		if outcomes[i].ModuleID != want {
			t.Errorf("Outcome %d: got module %s, want %s", i, outcomes[i].ModuleID, want)
		}
	}
}

// TestCollect_SlowModuleSkipped verifies a module exceeding its timeout is
// marked skipped without delaying the rest of the fan-out.
func TestCollect_SlowModuleSkipped(t *testing.T) {
	modules := []ports.ForensicModule{
		&stubModule{id: "metadata", delay: 500 * time.Millisecond},
		&stubModule{id: "ela", findings: []signal.ForensicFinding{
			signal.NewFinding("ela", signal.CategoryCompression, signal.SeverityInfo, "ok"),
		}},
	}
	opts := Options{ModuleTimeout: 30 * time.Millisecond, OverallDeadline: 2 * time.Second}

	b := New(nil, modules, opts).Collect(context.Background(), core.NewInvocationID(), testSample(t))

	outcomes := b.ModuleOutcomes()
	if outcomes[0].Skipped != signal.SkipTimeout {
		t.Errorf("Expected metadata skipped on timeout, got %+v", outcomes[0])
	}
	if outcomes[1].Skipped != "" || len(outcomes[1].Findings) != 1 {
		t.Errorf("Sibling module should be unaffected, got %+v", outcomes[1])
	}
}

// TestCollect_PanickingModuleIsolated verifies a panic inside one module is
// recovered and converted to a skip marker.
func TestCollect_PanickingModuleIsolated(t *testing.T) {
	modules := []ports.ForensicModule{
		&stubModule{id: "metadata", panics: true},
		&stubModule{id: "geometry", findings: []signal.ForensicFinding{
			signal.NewFinding("geometry", signal.CategoryGeometry, signal.SeverityInfo, "ok"),
		}},
	}

	b := New(nil, modules, Options{}).Collect(context.Background(), core.NewInvocationID(), testSample(t))

	outcomes := b.ModuleOutcomes()
	if outcomes[0].Skipped != signal.SkipError {
		t.Errorf("Expected panicking module skipped with error, got %+v", outcomes[0])
	}
	if len(outcomes[1].Findings) != 1 {
		t.Errorf("Sibling module should still report, got %+v", outcomes[1])
	}
}

// TestCollect_FailingModuleSkipped verifies Inspect errors become skip markers.
func TestCollect_FailingModuleSkipped(t *testing.T) {
	modules := []ports.ForensicModule{
		&stubModule{id: "ela", err: errors.New("re-encode failed")},
	}

	b := New(nil, modules, Options{}).Collect(context.Background(), core.NewInvocationID(), testSample(t))

	if got := b.ModuleOutcomes()[0].Skipped; got != signal.SkipError {
		t.Errorf("Expected skip reason %q, got %q", signal.SkipError, got)
	}
}

// TestCollect_OverallDeadlineBoundsAgents verifies a stalled agent fails as
// timeout instead of holding the whole invocation open.
func TestCollect_OverallDeadlineBoundsAgents(t *testing.T) {
	agents := []ports.Agent{&stubAgent{id: "vigilante-v2", delay: time.Second}}
	opts := Options{OverallDeadline: 40 * time.Millisecond}

	start := time.Now()
	b := New(agents, nil, opts).Collect(context.Background(), core.NewInvocationID(), testSample(t))

	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Errorf("Collect held past the deadline: %v", elapsed)
	}
	r := b.AgentResults()[0]
	if r.Label != signal.LabelFailed {
		t.Errorf("Expected FAILED agent on deadline, got %+v", r)
	}
}
