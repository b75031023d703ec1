// Package callgraph implements the call-graph model, the bidirectional path
// search between start and end function sets, and the DOT serialization of the
// selected subgraph.
package callgraph

import (
	"sort"

	"github.com/mbern/callpath/internal/snapshot"
)

// FunctionID identifies a single compiled function as
// "<source-file>:<function-name>". It is opaque to the analysis: the core
// never splits it back into its parts.
type FunctionID string

// IDSet is an unordered collection of FunctionIDs.
type IDSet map[FunctionID]struct{}

// NewIDSet builds an IDSet from the provided identifiers.
func NewIDSet(identifiers ...string) IDSet {
	set := make(IDSet, len(identifiers))
	for _, identifier := range identifiers {
		set[FunctionID(identifier)] = struct{}{}
	}
	return set
}

// Contains reports whether the identifier is a member of the set.
func (set IDSet) Contains(identifier FunctionID) bool {
	_, member := set[identifier]
	return member
}

// Sorted returns the members in lexicographic order.
func (set IDSet) Sorted() []FunctionID {
	members := make([]FunctionID, 0, len(set))
	for identifier := range set {
		members = append(members, identifier)
	}
	sort.Slice(members, func(left, right int) bool { return members[left] < members[right] })
	return members
}

// Node holds the immediate neighbors of one function. The caller and callee
// listings keep the order the snapshot reported them in. A Node is mutated
// exactly once, by Graph.Trim, and never removed from its graph.
type Node struct {
	Callers []FunctionID
	Callees []FunctionID
}

func (node *Node) clone() *Node {
	duplicate := &Node{
		Callers: make([]FunctionID, len(node.Callers)),
		Callees: make([]FunctionID, len(node.Callees)),
	}
	copy(duplicate.Callers, node.Callers)
	copy(duplicate.Callees, node.Callees)
	return duplicate
}

// Graph maps every known FunctionID to its Node while remembering insertion
// order, which later fixes the order of edge directives in the DOT output.
type Graph struct {
	nodes map[FunctionID]*Node
	order []FunctionID
}

// Build constructs a Graph from a raw snapshot listing, creating one Node per
// function with its neighbors exactly as reported, then trims every reference
// to a FunctionID the snapshot has no entry for. Trimming runs only after all
// nodes are inserted; trimming earlier would drop valid internal edges.
func Build(listing snapshot.Snapshot) *Graph {
	graph := &Graph{nodes: make(map[FunctionID]*Node, len(listing))}
	for _, function := range listing {
		graph.insert(FunctionID(function.ID), toFunctionIDs(function.Callers), toFunctionIDs(function.Callees))
	}
	graph.Trim()
	return graph
}

func toFunctionIDs(identifiers []string) []FunctionID {
	converted := make([]FunctionID, len(identifiers))
	for index, identifier := range identifiers {
		converted[index] = FunctionID(identifier)
	}
	return converted
}

func (graph *Graph) insert(identifier FunctionID, callers []FunctionID, callees []FunctionID) {
	if _, exists := graph.nodes[identifier]; !exists {
		graph.order = append(graph.order, identifier)
	}
	graph.nodes[identifier] = &Node{Callers: callers, Callees: callees}
}

// Node returns the node stored for the identifier, if any.
func (graph *Graph) Node(identifier FunctionID) (*Node, bool) {
	node, exists := graph.nodes[identifier]
	return node, exists
}

// Contains reports whether the identifier is a key of the graph.
func (graph *Graph) Contains(identifier FunctionID) bool {
	_, exists := graph.nodes[identifier]
	return exists
}

// Len returns the number of functions in the graph.
func (graph *Graph) Len() int {
	return len(graph.nodes)
}

// FunctionIDs returns every key of the graph in insertion order.
func (graph *Graph) FunctionIDs() []FunctionID {
	identifiers := make([]FunctionID, len(graph.order))
	copy(identifiers, graph.order)
	return identifiers
}

// Trim removes from every node's caller and callee listings any FunctionID
// that is not itself a key of the graph, typically externs the snapshot
// references but has no body for. Trim never removes a node and is idempotent.
func (graph *Graph) Trim() {
	for _, node := range graph.nodes {
		node.Callers = graph.retainKnown(node.Callers)
		node.Callees = graph.retainKnown(node.Callees)
	}
}

func (graph *Graph) retainKnown(identifiers []FunctionID) []FunctionID {
	retained := identifiers[:0]
	for _, identifier := range identifiers {
		if graph.Contains(identifier) {
			retained = append(retained, identifier)
		}
	}
	return retained
}
