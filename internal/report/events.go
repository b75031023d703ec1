// Package report turns analysis outcomes into structured events and logs
// them. Analysis code never prints; it hands outcomes to a Reporter and the
// Reporter decides how they surface.
package report

// OutcomeKind classifies a single reportable event.
type OutcomeKind string

const (
	// OutcomeKindUnknownIdentifier flags a requested function missing from the graph. Non-fatal.
	OutcomeKindUnknownIdentifier OutcomeKind = "unknown_identifier"
	// OutcomeKindEmptySelection marks a run that found no call paths. A successful no-op.
	OutcomeKindEmptySelection OutcomeKind = "empty_selection"
	// OutcomeKindRendered marks a run whose artifact was written.
	OutcomeKindRendered OutcomeKind = "rendered"
	// OutcomeKindDotEmitted marks a dry run whose DOT text was emitted instead of rendered.
	OutcomeKindDotEmitted OutcomeKind = "dot_emitted"
)

// Outcome is one structured event produced by an analysis run.
type Outcome struct {
	Kind       OutcomeKind
	FunctionID string
	OutputPath string
}

// UnknownIdentifier builds a warning outcome for a function absent from the graph.
func UnknownIdentifier(functionID string) Outcome {
	return Outcome{Kind: OutcomeKindUnknownIdentifier, FunctionID: functionID}
}

// EmptySelection builds the no-paths-found outcome.
func EmptySelection() Outcome {
	return Outcome{Kind: OutcomeKindEmptySelection}
}

// Rendered builds the success outcome carrying the artifact path.
func Rendered(outputPath string) Outcome {
	return Outcome{Kind: OutcomeKindRendered, OutputPath: outputPath}
}

// DotEmitted builds the dry-run outcome.
func DotEmitted() Outcome {
	return Outcome{Kind: OutcomeKindDotEmitted}
}
