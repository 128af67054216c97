package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/roach88/gluepot/internal/glue"
	"github.com/roach88/gluepot/internal/registry"
	"github.com/roach88/gluepot/internal/testutil"
	"github.com/roach88/gluepot/internal/trace"
)

// Harness executes conformance scenarios against a GlueRegistry built from
// their glue declarations, acting as the reference execution engine.
//
// Deterministic helpers (logical clock, fixed ids) are the defaults so the
// same scenario always produces a byte-identical trace.
type Harness struct {
	logger *slog.Logger
	clock  trace.Sequencer
	ids    registry.IDGenerator
	store  *trace.Store
}

// Option configures a Harness.
type Option func(*Harness)

// WithLogger replaces the default discard logger.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Harness) {
		h.logger = logger
	}
}

// WithStore makes the harness persist the trace to a trace store in
// addition to the in-memory event list.
func WithStore(store *trace.Store) Option {
	return func(h *Harness) {
		h.store = store
	}
}

// WithSequencer replaces the deterministic clock.
func WithSequencer(clock trace.Sequencer) Option {
	return func(h *Harness) {
		h.clock = clock
	}
}

// WithIDGenerator replaces the fixed id generator.
func WithIDGenerator(ids registry.IDGenerator) Option {
	return func(h *Harness) {
		h.ids = ids
	}
}

// New creates a harness. Create one harness per scenario file so ids and
// sequence numbers start fresh.
func New(opts ...Option) *Harness {
	h := &Harness{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		clock:  testutil.NewDeterministicClock(),
		ids:    testutil.NewFixedIDGenerator("step"),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// TraceEvent is one in-memory trace entry. Field order is the golden-file
// serialization order.
type TraceEvent struct {
	Seq      int64  `json:"seq"`
	Type     string `json:"type"`
	Scenario string `json:"scenario,omitempty"`
	Phase    string `json:"phase,omitempty"`
	Hook     string `json:"hook,omitempty"`
	Step     string `json:"step,omitempty"`
	Outcome  string `json:"outcome,omitempty"`
	Detail   string `json:"detail,omitempty"`
}

// Result is the outcome of running one scenario file.
type Result struct {
	Name   string
	Pass   bool
	Errors []string
	Events []TraceEvent
}

// Run executes a scenario file: build the registry, seal it, play every run
// scenario, then evaluate assertions. Registration failures are scenario
// failures unless expect_error declares them.
func (h *Harness) Run(ctx context.Context, s *Scenario) (*Result, error) {
	result := &Result{Name: s.Name}
	rec := &recorder{harness: h}

	if h.store != nil {
		runID := h.ids.NewID()
		if err := h.store.CreateRun(ctx, runID, s.Name); err != nil {
			return nil, err
		}
		rec.runID = runID
	}

	reg, err := h.buildRegistry(s.Glue)
	switch {
	case s.ExpectError != "":
		if err == nil {
			result.Errors = append(result.Errors,
				fmt.Sprintf("expected configuration error containing %q, registration succeeded", s.ExpectError))
		} else if !glue.IsConfigurationError(err) {
			result.Errors = append(result.Errors,
				fmt.Sprintf("expected a configuration error, got: %v", err))
		} else if !strings.Contains(err.Error(), s.ExpectError) {
			result.Errors = append(result.Errors,
				fmt.Sprintf("configuration error %q does not contain %q", err.Error(), s.ExpectError))
		}
	case err != nil:
		result.Errors = append(result.Errors, fmt.Sprintf("registration failed: %v", err))
	default:
		reg.Seal()
		h.play(ctx, reg, s, rec)
	}

	for _, a := range s.Assertions {
		if err := evalAssertion(a, rec.events); err != nil {
			result.Errors = append(result.Errors, err.Error())
		}
	}

	result.Pass = len(result.Errors) == 0
	result.Events = rec.events
	return result, nil
}

// play drives the sealed registry through every run scenario.
func (h *Harness) play(ctx context.Context, reg *registry.GlueRegistry, s *Scenario, rec *recorder) {
	// after_configuration fires once, globally, with no tag context and
	// no world.
	for _, hook := range reg.ApplicableHooks(glue.AfterConfiguration, nil) {
		err := hook.Fn(ctx, nil)
		rec.hookEvent(ctx, "", hook, err)
	}

	for _, sc := range s.Run {
		h.playScenario(ctx, reg, sc, rec)
	}
}

// playScenario plays one scenario: build a fresh world, fire before hooks,
// run the around-wrapped step body, fire after hooks.
func (h *Harness) playScenario(ctx context.Context, reg *registry.GlueRegistry, sc RunScenario, rec *recorder) {
	w := reg.BuildWorld()
	rec.add(ctx, TraceEvent{
		Type:     string(trace.EventWorldBuild),
		Scenario: sc.Name,
		Detail:   worldSummary(w),
	})

	for _, hook := range reg.ApplicableHooks(glue.Before, sc.Tags) {
		err := hook.Fn(ctx, w)
		rec.hookEvent(ctx, sc.Name, hook, err)
	}

	body := func(ctx context.Context) error {
		for _, text := range sc.Steps {
			h.playStep(ctx, reg, sc, text, w, rec)
		}
		return nil
	}

	wrapped := body
	arounds := reg.ApplicableHooks(glue.Around, sc.Tags)
	for i := len(arounds) - 1; i >= 0; i-- {
		hook := arounds[i]
		inner := wrapped
		wrapped = func(ctx context.Context) error {
			g := glue.NewGuardedContinuation(hook.Name, inner)
			err := hook.AroundFn(ctx, w, g.Call)
			rec.hookEvent(ctx, sc.Name, hook, err)
			if v := g.Violation(); v != nil {
				rec.add(ctx, TraceEvent{
					Type:     string(trace.EventViolation),
					Scenario: sc.Name,
					Hook:     hook.Name,
					Detail:   v.Error(),
				})
			}
			return err
		}
	}
	if err := wrapped(ctx); err != nil {
		h.logger.Debug("scenario body returned an error", "scenario", sc.Name, "error", err)
	}

	for _, hook := range reg.ApplicableHooks(glue.After, sc.Tags) {
		err := hook.Fn(ctx, w)
		rec.hookEvent(ctx, sc.Name, hook, err)
	}
}

// playStep resolves one step text, invokes the handler on a unique match,
// and fires after_step hooks.
func (h *Harness) playStep(ctx context.Context, reg *registry.GlueRegistry, sc RunScenario, text string, w *glue.World, rec *recorder) {
	res := reg.ResolveStep(text, sc.Tags)
	rec.add(ctx, TraceEvent{
		Type:     string(trace.EventResolution),
		Scenario: sc.Name,
		Step:     text,
		Outcome:  res.Kind.String(),
		Detail:   resolutionDetail(res),
	})

	if res.Kind == glue.UniqueMatch {
		err := res.Definition.Handler.Invoke(ctx, w, res.Args)
		rec.add(ctx, TraceEvent{
			Type:     string(trace.EventStepResult),
			Scenario: sc.Name,
			Step:     text,
			Outcome:  stepOutcome(err),
			Detail:   errDetail(err),
		})
	}

	for _, hook := range reg.ApplicableHooks(glue.AfterStep, sc.Tags) {
		err := hook.Fn(ctx, w)
		rec.hookEvent(ctx, sc.Name, hook, err)
	}
}

// recorder assigns sequence numbers and mirrors events to the trace store
// when one is configured.
type recorder struct {
	harness *Harness
	runID   string
	events  []TraceEvent
}

// add stamps and appends an event.
func (r *recorder) add(ctx context.Context, e TraceEvent) {
	e.Seq = r.harness.clock.Next()
	r.events = append(r.events, e)
	if r.harness.store != nil {
		err := r.harness.store.WriteEvent(ctx, trace.Event{
			RunID:    r.runID,
			Seq:      e.Seq,
			Type:     trace.EventType(e.Type),
			Phase:    e.Phase,
			Hook:     e.Hook,
			StepText: e.Step,
			Outcome:  e.Outcome,
			Detail:   e.Detail,
		})
		if err != nil {
			r.harness.logger.Warn("failed to persist trace event", "seq", e.Seq, "error", err)
		}
	}
}

// hookEvent records a hook firing.
func (r *recorder) hookEvent(ctx context.Context, scenario string, hook *glue.Hook, err error) {
	outcome := "passed"
	if err != nil {
		outcome = "failed"
	}
	r.add(ctx, TraceEvent{
		Type:     string(trace.EventHook),
		Scenario: scenario,
		Phase:    hook.Phase.String(),
		Hook:     hook.Name,
		Outcome:  outcome,
		Detail:   errDetail(err),
	})
}

// renderArgs renders bound arguments as "type:value" pairs, "raw:" for the
// untyped fallback. Assertions compare against this form.
func renderArgs(args []glue.StepArg) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = renderArg(a)
	}
	return strings.Join(parts, ", ")
}

func renderArg(a glue.StepArg) string {
	if a.Type == "" {
		return "raw:" + a.Raw
	}
	return fmt.Sprintf("%s:%v", a.Type, a.Value)
}

// resolutionDetail renders a match result for the trace: bound args for a
// unique match, the candidate patterns for an ambiguous one.
func resolutionDetail(res glue.MatchResult) string {
	switch res.Kind {
	case glue.UniqueMatch:
		return renderArgs(res.Args)
	case glue.AmbiguousMatch:
		sources := make([]string, len(res.Candidates))
		for i, d := range res.Candidates {
			sources[i] = d.Source
		}
		return strings.Join(sources, " | ")
	default:
		return ""
	}
}

// stepOutcome maps a handler error to a trace outcome.
func stepOutcome(err error) string {
	switch {
	case err == nil:
		return "passed"
	case errors.Is(err, glue.ErrPending):
		return "pending"
	default:
		return "failed"
	}
}

// errDetail renders an error for the trace detail column.
func errDetail(err error) string {
	if err == nil || errors.Is(err, glue.ErrPending) {
		return ""
	}
	return err.Error()
}

// worldSummary renders a built world for the trace: constructor presence,
// flat capabilities, namespaces.
func worldSummary(w *glue.World) string {
	var parts []string
	if w.Value != nil {
		parts = append(parts, "constructed")
	}
	if caps := w.Capabilities(); len(caps) > 0 {
		parts = append(parts, "caps["+strings.Join(caps, " ")+"]")
	}
	if ns := w.Namespaces(); len(ns) > 0 {
		parts = append(parts, "ns["+strings.Join(ns, " ")+"]")
	}
	if len(parts) == 0 {
		return "empty"
	}
	return strings.Join(parts, " ")
}
