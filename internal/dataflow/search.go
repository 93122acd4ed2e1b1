package dataflow

// DefaultMaxDepth is the bounded-BFS depth cap (spec §4.7 "a bounded BFS
// from each source up to a configurable depth (default 20)").
const DefaultMaxDepth = 20

// frontierEntry is one in-flight path the search is extending.
type frontierEntry struct {
	node       NodeID
	taints     TaintSet
	depth      int
	lastStep   *Path
	specKey    string
	previous   *frontierEntry
	uniqueRoot NodeID
}

// TaintedPath describes one source->sink route found by FindTaintedData:
// the taint kind that reached the sink and the node chain that carried it,
// source first.
type TaintedPath struct {
	Kind  TaintKind
	Sink  NodeID
	Nodes []NodeID
}

// FindTaintedData performs the bounded BFS of spec §4.7: from every
// TaintSource, follow forward edges accumulating the taint set, and report
// a TaintedPath whenever a sink is reached whose declared Types intersect
// the accumulated set. Paths are deduplicated by (sink, kind, source node),
// mirroring "de-duplicating by unique_source_id".
func (g *Graph) FindTaintedData(maxDepth int) []TaintedPath {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	var results []TaintedPath
	seen := map[[3]NodeID]bool{}

	for srcID, src := range g.Sources {
		start := &frontierEntry{node: srcID, taints: src.Types, depth: 0, uniqueRoot: srcID}
		queue := []*frontierEntry{start}
		for i := 0; i < len(queue); i++ {
			cur := queue[i]
			if cur.depth >= maxDepth {
				continue
			}
			for toID, path := range g.forwardEdgesFrom(cur) {
				if shouldIgnoreFetch(path, cur.lastStep) {
					continue
				}
				if path.Kind == PathScalarTypeGuard && shouldSuppressScalarGuard(cur.lastStep) {
					continue
				}
				newTaints := cur.taints.Union(path.AddedTaints).Minus(path.RemovedTaints)
				last := cur.lastStep
				if path.Kind != PathDefault {
					p := path
					last = &p
				}
				next := &frontierEntry{
					node:       toID,
					taints:     newTaints,
					depth:      cur.depth + 1,
					lastStep:   last,
					previous:   cur,
					uniqueRoot: cur.uniqueRoot,
				}
				if sink, ok := g.Sinks[toID]; ok && newTaints.Intersects(sink.Types) {
					for kind := range newTaints {
						if !sink.Types[kind] {
							continue
						}
						key := [3]NodeID{toID, NodeID(kind), cur.uniqueRoot}
						if seen[key] {
							continue
						}
						seen[key] = true
						results = append(results, TaintedPath{
							Kind:  kind,
							Sink:  toID,
							Nodes: walkChain(next),
						})
					}
				}
				queue = append(queue, next)
			}
		}
	}
	return results
}

// FindConnections runs the same bounded BFS but reports a hit whenever the
// frontier reaches target, regardless of taint kind — spec §4.7's
// "arbitrary reachability" query used for non-taint dataflow questions
// (e.g. "does this value ever reach that sanitizer call").
func (g *Graph) FindConnections(target NodeID, maxDepth int) [][]NodeID {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	var results [][]NodeID
	for srcID := range g.Vertices {
		if srcID == target {
			continue
		}
		start := &frontierEntry{node: srcID, depth: 0}
		queue := []*frontierEntry{start}
		for i := 0; i < len(queue); i++ {
			cur := queue[i]
			if cur.depth >= maxDepth {
				continue
			}
			for toID, path := range g.forwardEdgesFrom(cur) {
				if shouldIgnoreFetch(path, cur.lastStep) {
					continue
				}
				last := cur.lastStep
				if path.Kind != PathDefault {
					p := path
					last = &p
				}
				next := &frontierEntry{node: toID, depth: cur.depth + 1, lastStep: last, previous: cur}
				if toID == target {
					results = append(results, walkChain(next))
					continue
				}
				queue = append(queue, next)
			}
		}
	}
	return results
}

// forwardEdgesFrom generates the specialized views of cur's node before
// falling back to the unspecialized edge set (spec §4.7 "the search first
// explores per-call-site views before falling back to the unspecialized
// one").
func (g *Graph) forwardEdgesFrom(cur *frontierEntry) map[NodeID]Path {
	if keys, ok := g.Specializations[cur.node]; ok {
		for key := range keys {
			if cur.specKey != "" && cur.specKey != key {
				continue
			}
			specialized := SpecializedID(cur.node, key)
			if edges, ok := g.ForwardEdges[specialized]; ok {
				return edges
			}
		}
	}
	return g.ForwardEdges[cur.node]
}

func walkChain(end *frontierEntry) []NodeID {
	var out []NodeID
	for e := end; e != nil; e = e.previous {
		out = append([]NodeID{e.node}, out...)
	}
	return out
}
