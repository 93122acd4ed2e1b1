package dataflow

// Graph is the per-function dataflow graph built during analysis, later
// merged into the whole-program graph (spec §4.7 "Graph").
type Graph struct {
	Vertices map[NodeID]Node
	Sources  map[NodeID]Node
	Sinks    map[NodeID]Node

	ForwardEdges map[NodeID]map[NodeID]Path

	// Specializations maps an unspecialized source/sink id to the set of
	// specialization keys recorded for it at different call sites (spec
	// §4.7 "Source/sink specialization").
	Specializations map[NodeID]map[string]bool
}

func NewGraph() *Graph {
	return &Graph{
		Vertices:        map[NodeID]Node{},
		Sources:         map[NodeID]Node{},
		Sinks:           map[NodeID]Node{},
		ForwardEdges:    map[NodeID]map[NodeID]Path{},
		Specializations: map[NodeID]map[string]bool{},
	}
}

// AddNode registers n, filing it under Sources/Sinks as well when its Kind
// calls for it.
func (g *Graph) AddNode(n Node) {
	g.Vertices[n.ID] = n
	switch n.Kind {
	case KindTaintSource:
		g.Sources[n.ID] = n
	case KindTaintSink:
		g.Sinks[n.ID] = n
	}
	if n.SpecializationKey != "" {
		set, ok := g.Specializations[n.UnspecializedID]
		if !ok {
			set = map[string]bool{}
			g.Specializations[n.UnspecializedID] = set
		}
		set[n.SpecializationKey] = true
	}
}

// AddEdge records a forward edge from -> to labeled path. A later call
// with the same (from, to) pair overwrites the earlier path, mirroring how
// re-analyzing a statement replaces its previously recorded edge.
func (g *Graph) AddEdge(from, to NodeID, path Path) {
	set, ok := g.ForwardEdges[from]
	if !ok {
		set = map[NodeID]Path{}
		g.ForwardEdges[from] = set
	}
	set[to] = path
}

// SpecializedID builds the NodeID a call-site-specific view of
// unspecialized is filed under, matching the convention
// forwardEdgesFrom looks for (spec §4.7 "the graph records an
// unspecialized id and a specialization_key").
func SpecializedID(unspecialized NodeID, key string) NodeID {
	return NodeID(string(unspecialized) + "#" + key)
}

// MergePrograms folds each of others into one whole-program graph (spec
// §4.7's final merge step: "the whole-program graph is merged into the
// analysis result at the end").
func MergePrograms(graphs ...*Graph) *Graph {
	out := NewGraph()
	for _, g := range graphs {
		if g == nil {
			continue
		}
		for id, n := range g.Vertices {
			out.Vertices[id] = n
		}
		for id, n := range g.Sources {
			out.Sources[id] = n
		}
		for id, n := range g.Sinks {
			out.Sinks[id] = n
		}
		for from, edges := range g.ForwardEdges {
			set, ok := out.ForwardEdges[from]
			if !ok {
				set = map[NodeID]Path{}
				out.ForwardEdges[from] = set
			}
			for to, p := range edges {
				set[to] = p
			}
		}
		for id, keys := range g.Specializations {
			set, ok := out.Specializations[id]
			if !ok {
				set = map[string]bool{}
				out.Specializations[id] = set
			}
			for k := range keys {
				set[k] = true
			}
		}
	}
	return out
}
