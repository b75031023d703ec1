package callgraph

import (
	"fmt"
	"strings"
)

const (
	dotGraphHeader              = "digraph callgraph {\n"
	dotGraphFooter              = "}\n"
	dotStartNodeDirectiveFormat = "  %q [fillcolor=blue style=filled];\n"
	dotEndNodeDirectiveFormat   = "  %q [fillcolor=green style=filled];\n"
	dotEdgeDirectiveFormat      = "  %q -> %q;\n"
)

// DotText serializes the selected subgraph as a Graphviz DOT description.
//
// The emission order is a documented contract: start-node style directives
// first, end-node style directives second, edge directives last. An
// identifier belonging to both the start and end sets receives its end
// directive after its start directive, so a renderer applying styles in
// order settles on the end style. Style directives are emitted in
// lexicographic order; edge directives follow graph insertion order and, per
// source node, the order its callee listing reported. Identifiers contain
// path separators and colons, so every occurrence is quoted.
func DotText(graph *Graph, selected IDSet, start IDSet, end IDSet) string {
	var builder strings.Builder
	builder.WriteString(dotGraphHeader)
	for _, identifier := range start.Sorted() {
		if selected.Contains(identifier) {
			fmt.Fprintf(&builder, dotStartNodeDirectiveFormat, string(identifier))
		}
	}
	for _, identifier := range end.Sorted() {
		if selected.Contains(identifier) {
			fmt.Fprintf(&builder, dotEndNodeDirectiveFormat, string(identifier))
		}
	}
	for _, identifier := range graph.FunctionIDs() {
		if !selected.Contains(identifier) {
			continue
		}
		node, _ := graph.Node(identifier)
		for _, callee := range node.Callees {
			if selected.Contains(callee) {
				fmt.Fprintf(&builder, dotEdgeDirectiveFormat, string(identifier), string(callee))
			}
		}
	}
	builder.WriteString(dotGraphFooter)
	return builder.String()
}
