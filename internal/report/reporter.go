package report

import "go.uber.org/zap"

const (
	unknownIdentifierMessage = "function not found in call graph"
	emptySelectionMessage    = "no call paths found"
	renderedMessage          = "call graph written"
	dotEmittedMessage        = "dot text emitted, rendering skipped"
	functionFieldName        = "function"
	outputPathFieldName      = "path"
)

// Reporter consumes outcome events and logs them through zap.
type Reporter struct {
	logger *zap.Logger
}

// NewReporter constructs a Reporter over the provided logger.
func NewReporter(logger *zap.Logger) *Reporter {
	return &Reporter{logger: logger}
}

// Report logs a single outcome. Unknown-identifier outcomes log at warning
// level and never interrupt processing; everything else logs at info level.
func (reporter *Reporter) Report(outcome Outcome) {
	switch outcome.Kind {
	case OutcomeKindUnknownIdentifier:
		reporter.logger.Warn(unknownIdentifierMessage, zap.String(functionFieldName, outcome.FunctionID))
	case OutcomeKindEmptySelection:
		reporter.logger.Info(emptySelectionMessage)
	case OutcomeKindRendered:
		reporter.logger.Info(renderedMessage, zap.String(outputPathFieldName, outcome.OutputPath))
	case OutcomeKindDotEmitted:
		reporter.logger.Info(dotEmittedMessage)
	}
}

// ReportAll logs each outcome in order.
func (reporter *Reporter) ReportAll(outcomes []Outcome) {
	for _, outcome := range outcomes {
		reporter.Report(outcome)
	}
}
