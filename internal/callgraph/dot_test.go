package callgraph

import (
	"strings"
	"testing"

	"github.com/mbern/callpath/internal/snapshot"
)

func TestDotTextMarksStartAndEndAndEmitsSingleEdge(t *testing.T) {
	listing := snapshot.Snapshot{
		{ID: "A", Callees: []string{"B"}},
		{ID: "B", Callers: []string{"A"}},
	}
	graph := Build(listing)

	dotText := DotText(graph, NewIDSet("A", "B"), NewIDSet("A"), NewIDSet("B"))

	expected := "digraph callgraph {\n" +
		"  \"A\" [fillcolor=blue style=filled];\n" +
		"  \"B\" [fillcolor=green style=filled];\n" +
		"  \"A\" -> \"B\";\n" +
		"}\n"
	if dotText != expected {
		t.Errorf("unexpected dot output:\n%s", dotText)
	}
}

func TestDotTextEmitsEndStyleAfterStartStyleForSharedIdentifier(t *testing.T) {
	listing := snapshot.Snapshot{
		{ID: "A", Callees: []string{"A"}, Callers: []string{"A"}},
	}
	graph := Build(listing)

	dotText := DotText(graph, NewIDSet("A"), NewIDSet("A"), NewIDSet("A"))

	startIndex := strings.Index(dotText, "fillcolor=blue")
	endIndex := strings.Index(dotText, "fillcolor=green")
	if startIndex == -1 || endIndex == -1 {
		t.Fatalf("missing style directives:\n%s", dotText)
	}
	if endIndex < startIndex {
		t.Errorf("end style must be emitted after start style:\n%s", dotText)
	}
}

func TestDotTextQuotesIdentifiersWithSeparators(t *testing.T) {
	listing := snapshot.Snapshot{
		{ID: "builtin/grep.c:cmd_grep", Callees: []string{"object.c:parse_object"}},
		{ID: "object.c:parse_object", Callers: []string{"builtin/grep.c:cmd_grep"}},
	}
	graph := Build(listing)

	dotText := DotText(graph, NewIDSet("builtin/grep.c:cmd_grep", "object.c:parse_object"), NewIDSet(), NewIDSet())

	if !strings.Contains(dotText, "\"builtin/grep.c:cmd_grep\" -> \"object.c:parse_object\";") {
		t.Errorf("identifiers must be quoted in edge directives:\n%s", dotText)
	}
}

func TestDotTextOmitsEdgesLeavingTheSelection(t *testing.T) {
	graph := Build(diamondListing())

	dotText := DotText(graph, NewIDSet("A", "B", "D", "E"), NewIDSet("A"), NewIDSet("E"))

	if strings.Contains(dotText, "\"C\"") {
		t.Errorf("unselected identifier leaked into output:\n%s", dotText)
	}
	expectedEdges := []string{
		"  \"A\" -> \"B\";\n",
		"  \"B\" -> \"D\";\n",
		"  \"D\" -> \"E\";\n",
	}
	for _, edge := range expectedEdges {
		if !strings.Contains(dotText, edge) {
			t.Errorf("missing edge directive %q in:\n%s", edge, dotText)
		}
	}
}

func TestDotTextFollowsGraphConstructionOrderForEdges(t *testing.T) {
	listing := snapshot.Snapshot{
		{ID: "Z", Callees: []string{"A"}},
		{ID: "A", Callers: []string{"Z"}, Callees: []string{"Z"}},
	}
	graph := Build(listing)

	dotText := DotText(graph, NewIDSet("Z", "A"), NewIDSet(), NewIDSet())

	firstEdge := strings.Index(dotText, "\"Z\" -> \"A\";")
	secondEdge := strings.Index(dotText, "\"A\" -> \"Z\";")
	if firstEdge == -1 || secondEdge == -1 {
		t.Fatalf("missing edges:\n%s", dotText)
	}
	if secondEdge < firstEdge {
		t.Errorf("edges must follow graph construction order:\n%s", dotText)
	}
}
