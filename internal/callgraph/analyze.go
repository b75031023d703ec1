package callgraph

import "github.com/mbern/callpath/internal/snapshot"

// Request carries the selection sets for one analysis run. Every set may be
// empty: an empty Start or End leaves that side of the search unconstrained
// and an empty Exclude excludes nothing.
type Request struct {
	Start   IDSet
	End     IDSet
	Exclude IDSet
}

// Result bundles the outcome of one analysis run. Selected holds every
// FunctionID on some path from Start to End net of Exclude, DotText holds the
// serialized subgraph and is empty when the selection is empty, and Unknown
// lists the requested identifiers absent from the unfiltered graph in
// lexicographic order.
type Result struct {
	Selected IDSet
	DotText  string
	Unknown  []FunctionID
}

// Analyze builds and trims the call graph from the snapshot listing, runs the
// bidirectional path search, and serializes the selected subgraph. It is a
// plain function over its inputs: no ambient state is read, nothing is
// printed, and the caller decides what to do with the result.
func Analyze(listing snapshot.Snapshot, request Request) Result {
	graph := Build(listing)

	requested := make(IDSet)
	for _, selection := range []IDSet{request.Start, request.End, request.Exclude} {
		for identifier := range selection {
			requested[identifier] = struct{}{}
		}
	}
	var unknown []FunctionID
	for _, identifier := range requested.Sorted() {
		if !graph.Contains(identifier) {
			unknown = append(unknown, identifier)
		}
	}

	finder := NewPathFinder(graph, request.Exclude)
	selected := finder.Find(request.Start, request.End)

	result := Result{Selected: selected, Unknown: unknown}
	if len(selected) > 0 {
		result.DotText = DotText(graph, selected, request.Start, request.End)
	}
	return result
}
