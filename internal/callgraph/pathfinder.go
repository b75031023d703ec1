package callgraph

// traversalDirection selects which neighbor listing a reachability walk
// follows.
type traversalDirection int

const (
	directionForward traversalDirection = iota
	directionBackward
)

// PathFinder answers reachability queries over a Graph with an exclusion set
// applied. Construction copies the graph with the excluded keys removed; the
// retained nodes are deliberately not re-trimmed, so their neighbor listings
// may still mention excluded or otherwise absent keys. Traversal treats such
// references as non-existent neighbors and skips them.
type PathFinder struct {
	filtered map[FunctionID]*Node
}

// NewPathFinder builds a PathFinder over a private copy of graph whose key
// set equals the graph's keys minus exclude.
func NewPathFinder(graph *Graph, exclude IDSet) *PathFinder {
	finder := &PathFinder{filtered: make(map[FunctionID]*Node, graph.Len())}
	for _, identifier := range graph.FunctionIDs() {
		if exclude.Contains(identifier) {
			continue
		}
		node, _ := graph.Node(identifier)
		finder.filtered[identifier] = node.clone()
	}
	return finder
}

// Find returns the set of FunctionIDs lying on some call path from the start
// set to the end set. An empty start set means "any origin" and an empty end
// set means "any destination": with both empty every key of the filtered
// graph is returned, with one empty the closure from the other side is
// returned, and with both populated the result is the intersection of the
// forward closure of start and the backward closure of end. Seeds absent from
// the filtered graph are silently skipped; the reporting layer surfaces them.
func (finder *PathFinder) Find(start IDSet, end IDSet) IDSet {
	if len(start) == 0 && len(end) == 0 {
		all := make(IDSet, len(finder.filtered))
		for identifier := range finder.filtered {
			all[identifier] = struct{}{}
		}
		return all
	}
	if len(start) == 0 {
		return finder.reachable(end, directionBackward)
	}
	if len(end) == 0 {
		return finder.reachable(start, directionForward)
	}
	forward := finder.reachable(start, directionForward)
	backward := finder.reachable(end, directionBackward)
	intersection := make(IDSet)
	for identifier := range forward {
		if backward.Contains(identifier) {
			intersection[identifier] = struct{}{}
		}
	}
	return intersection
}

// reachable computes the transitive closure of the seed set following callee
// edges forward or caller edges backward. The visited-set check before
// expansion bounds every identifier to a single expansion, so self-loops and
// cycles terminate and each call costs O(V+E).
func (finder *PathFinder) reachable(seeds IDSet, direction traversalDirection) IDSet {
	visited := make(IDSet)
	var frontier []FunctionID
	for identifier := range seeds {
		if _, present := finder.filtered[identifier]; !present {
			continue
		}
		if visited.Contains(identifier) {
			continue
		}
		visited[identifier] = struct{}{}
		frontier = append(frontier, identifier)
	}
	for len(frontier) > 0 {
		current := frontier[len(frontier)-1]
		frontier = frontier[:len(frontier)-1]
		node := finder.filtered[current]
		neighbors := node.Callees
		if direction == directionBackward {
			neighbors = node.Callers
		}
		for _, neighbor := range neighbors {
			if visited.Contains(neighbor) {
				continue
			}
			if _, present := finder.filtered[neighbor]; !present {
				continue
			}
			visited[neighbor] = struct{}{}
			frontier = append(frontier, neighbor)
		}
	}
	return visited
}
