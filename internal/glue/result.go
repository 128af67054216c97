package glue

// MatchKind discriminates the outcomes of resolving a step text.
type MatchKind int

const (
	// NoMatch means zero definitions matched (undefined step).
	NoMatch MatchKind = iota

	// UniqueMatch means exactly one definition matched.
	UniqueMatch

	// AmbiguousMatch means more than one definition matched.
	AmbiguousMatch
)

// String returns the outcome name used in traces and scenario assertions.
func (k MatchKind) String() string {
	switch k {
	case UniqueMatch:
		return "unique"
	case AmbiguousMatch:
		return "ambiguous"
	default:
		return "undefined"
	}
}

// MatchResult is the outcome of resolving a step text against the step
// definition registry. Outcomes are returned as data so the engine decides
// scenario-level pass/fail/pending semantics; the registry never does.
type MatchResult struct {
	// Kind is the outcome variant.
	Kind MatchKind

	// Text is the step text that was resolved.
	Text string

	// Definition is the matching definition for UniqueMatch.
	Definition *StepDefinition

	// Args holds the bound, coerced arguments for UniqueMatch.
	Args []StepArg

	// Candidates lists every matching definition for AmbiguousMatch, in
	// registration order.
	Candidates []*StepDefinition
}

// Err converts non-unique outcomes into their error representation:
// *UndefinedStepError for NoMatch, *AmbiguousStepError for AmbiguousMatch,
// nil for UniqueMatch.
func (r MatchResult) Err() error {
	switch r.Kind {
	case NoMatch:
		return &UndefinedStepError{Text: r.Text}
	case AmbiguousMatch:
		return &AmbiguousStepError{Text: r.Text, Candidates: r.Candidates}
	default:
		return nil
	}
}
