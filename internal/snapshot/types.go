// Package snapshot produces flat call-graph listings from different sources.
// Every provider normalizes its input to the same per-function adjacency
// listing so the analysis core never depends on where the graph came from.
package snapshot

// Function describes one function known to the snapshot together with its
// immediate neighbors. The ID takes the form "<source-file>:<function-name>"
// and is the sole identity used across the system. Callers and Callees may
// reference functions the snapshot has no entry for, such as unresolved
// externs; the graph model prunes those references later.
type Function struct {
	ID      string   `json:"id"`
	Callers []string `json:"callers,omitempty"`
	Callees []string `json:"callees,omitempty"`
}

// Snapshot is the complete listing handed to the analysis core. The slice
// order is preserved through graph construction and determines the order of
// edge directives in the rendered output.
type Snapshot []Function

// Merge combines several snapshots into one. Entries sharing a FunctionID are
// folded together by concatenating their caller and callee listings while
// dropping duplicates, so per-translation-unit listings of the same function
// collapse into a single entry at its first-seen position.
func Merge(snapshots ...Snapshot) Snapshot {
	var merged Snapshot
	entryIndexByID := map[string]int{}
	for _, listing := range snapshots {
		for _, function := range listing {
			existingIndex, seen := entryIndexByID[function.ID]
			if !seen {
				entryIndexByID[function.ID] = len(merged)
				merged = append(merged, Function{
					ID:      function.ID,
					Callers: appendMissing(nil, function.Callers),
					Callees: appendMissing(nil, function.Callees),
				})
				continue
			}
			merged[existingIndex].Callers = appendMissing(merged[existingIndex].Callers, function.Callers)
			merged[existingIndex].Callees = appendMissing(merged[existingIndex].Callees, function.Callees)
		}
	}
	return merged
}

func appendMissing(identifiers []string, additions []string) []string {
	known := make(map[string]struct{}, len(identifiers))
	for _, identifier := range identifiers {
		known[identifier] = struct{}{}
	}
	for _, addition := range additions {
		if _, exists := known[addition]; exists {
			continue
		}
		known[addition] = struct{}{}
		identifiers = append(identifiers, addition)
	}
	return identifiers
}
