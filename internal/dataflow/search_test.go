package dataflow

import "testing"

func TestFindTaintedDataDirectEdge(t *testing.T) {
	g := NewGraph()
	g.AddNode(Node{ID: "src", Kind: KindTaintSource, Types: NewTaintSet(TaintSQL)})
	g.AddNode(Node{ID: "sink", Kind: KindTaintSink, Types: NewTaintSet(TaintSQL)})
	g.AddEdge("src", "sink", Path{Kind: PathDefault})

	found := g.FindTaintedData(0)
	if len(found) != 1 {
		t.Fatalf("expected one tainted path, got %d", len(found))
	}
	if found[0].Kind != TaintSQL {
		t.Errorf("expected TaintSQL, got %v", found[0].Kind)
	}
	if found[0].Sink != "sink" {
		t.Errorf("expected sink node, got %v", found[0].Sink)
	}
}

func TestFindTaintedDataMismatchedKindDoesNotFire(t *testing.T) {
	g := NewGraph()
	g.AddNode(Node{ID: "src", Kind: KindTaintSource, Types: NewTaintSet(TaintHTML)})
	g.AddNode(Node{ID: "sink", Kind: KindTaintSink, Types: NewTaintSet(TaintSQL)})
	g.AddEdge("src", "sink", Path{Kind: PathDefault})

	if found := g.FindTaintedData(0); len(found) != 0 {
		t.Fatalf("expected no tainted path for mismatched kinds, got %d", len(found))
	}
}

func TestFindTaintedDataRemovedTaintsBlockSink(t *testing.T) {
	g := NewGraph()
	g.AddNode(Node{ID: "src", Kind: KindTaintSource, Types: NewTaintSet(TaintURI)})
	g.AddNode(Node{ID: "mid", Kind: KindVertex})
	g.AddNode(Node{ID: "sink", Kind: KindTaintSink, Types: NewTaintSet(TaintURI)})
	g.AddEdge("src", "mid", Path{Kind: PathDefault, RemovedTaints: NewTaintSet(TaintURI)})
	g.AddEdge("mid", "sink", Path{Kind: PathDefault})

	if found := g.FindTaintedData(0); len(found) != 0 {
		t.Fatalf("expected removed taints to prevent the sink from firing, got %d", len(found))
	}
}

func TestFindConnectionsReachability(t *testing.T) {
	g := NewGraph()
	g.AddNode(Node{ID: "a", Kind: KindVertex})
	g.AddNode(Node{ID: "b", Kind: KindVertex})
	g.AddNode(Node{ID: "c", Kind: KindVertex})
	g.AddEdge("a", "b", Path{Kind: PathDefault})
	g.AddEdge("b", "c", Path{Kind: PathDefault})

	paths := g.FindConnections("c", 0)
	if len(paths) != 2 {
		t.Fatalf("expected both a->c and b->c, got %d", len(paths))
	}
}
