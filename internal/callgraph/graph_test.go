package callgraph

import (
	"reflect"
	"testing"

	"github.com/mbern/callpath/internal/snapshot"
)

func TestBuildPrunesDanglingReferences(t *testing.T) {
	listing := snapshot.Snapshot{
		{ID: "main.c:main", Callees: []string{"util.c:helper", "libc:printf"}},
		{ID: "util.c:helper", Callers: []string{"main.c:main", "libc:start"}},
	}

	graph := Build(listing)

	if graph.Len() != 2 {
		t.Fatalf("expected 2 nodes, got %d", graph.Len())
	}
	mainNode, exists := graph.Node("main.c:main")
	if !exists {
		t.Fatalf("main.c:main missing from graph")
	}
	if !reflect.DeepEqual(mainNode.Callees, []FunctionID{"util.c:helper"}) {
		t.Errorf("unexpected callees after trim: %v", mainNode.Callees)
	}
	helperNode, _ := graph.Node("util.c:helper")
	if !reflect.DeepEqual(helperNode.Callers, []FunctionID{"main.c:main"}) {
		t.Errorf("unexpected callers after trim: %v", helperNode.Callers)
	}
}

func TestTrimIsIdempotentAndKeepsNodes(t *testing.T) {
	listing := snapshot.Snapshot{
		{ID: "a.c:a", Callees: []string{"b.c:b", "missing.c:gone"}},
		{ID: "b.c:b", Callers: []string{"a.c:a"}},
	}

	graph := Build(listing)
	firstPass := map[FunctionID][]FunctionID{}
	for _, identifier := range graph.FunctionIDs() {
		node, _ := graph.Node(identifier)
		firstPass[identifier] = append([]FunctionID(nil), node.Callees...)
	}

	graph.Trim()

	if graph.Len() != 2 {
		t.Fatalf("trim must never remove nodes, got %d", graph.Len())
	}
	for _, identifier := range graph.FunctionIDs() {
		node, _ := graph.Node(identifier)
		if !reflect.DeepEqual(firstPass[identifier], node.Callees) {
			t.Errorf("second trim changed callees of %s: %v", identifier, node.Callees)
		}
	}
}

func TestFunctionIDsPreserveInsertionOrder(t *testing.T) {
	listing := snapshot.Snapshot{
		{ID: "z.c:last"},
		{ID: "a.c:first"},
		{ID: "m.c:middle"},
	}

	graph := Build(listing)

	expected := []FunctionID{"z.c:last", "a.c:first", "m.c:middle"}
	if !reflect.DeepEqual(graph.FunctionIDs(), expected) {
		t.Errorf("unexpected key order: %v", graph.FunctionIDs())
	}
}
