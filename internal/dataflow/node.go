// Package dataflow implements the taint/dataflow graph the flow analyzer
// builds while it type-checks a function body, and the whole-program
// reachability searches run over the merged graph afterward (spec §4.7
// "Dataflow engine").
package dataflow

import "github.com/hakanago/hakana/internal/types"

// NodeID is the dataflow graph's vertex identifier (spec §3 "Dataflow
// node"). Reusing types.DataFlowNodeID keeps a Union's ParentNodes set
// comparable to a graph's vertex ids without a package cycle.
type NodeID = types.DataFlowNodeID

// TaintKind is one flavor of tainted data a source can produce and a sink
// can be sensitive to (spec's GLOSSARY "TaintKind").
type TaintKind string

const (
	TaintHTML         TaintKind = "html"
	TaintSQL          TaintKind = "sql"
	TaintShell        TaintKind = "shell"
	TaintURI          TaintKind = "uri"
	TaintFile         TaintKind = "file"
	TaintSerializable TaintKind = "serializable"
	TaintUnserialize  TaintKind = "unserialize"
	TaintHeader       TaintKind = "header"
)

// TaintSet is an immutable-by-convention set of TaintKind, copied on every
// add/remove so a Path's added/removed sets can be shared across searches.
type TaintSet map[TaintKind]bool

func NewTaintSet(kinds ...TaintKind) TaintSet {
	s := make(TaintSet, len(kinds))
	for _, k := range kinds {
		s[k] = true
	}
	return s
}

func (s TaintSet) Union(other TaintSet) TaintSet {
	out := make(TaintSet, len(s)+len(other))
	for k := range s {
		out[k] = true
	}
	for k := range other {
		out[k] = true
	}
	return out
}

func (s TaintSet) Minus(remove TaintSet) TaintSet {
	out := make(TaintSet, len(s))
	for k := range s {
		if !remove[k] {
			out[k] = true
		}
	}
	return out
}

func (s TaintSet) Intersects(other TaintSet) bool {
	for k := range s {
		if other[k] {
			return true
		}
	}
	return false
}

// Pos mirrors ast.Pos without importing internal/ast, to keep dataflow
// free of a dependency the flow analyzer is the one that needs.
type Pos struct {
	Offset int
	Line   int
}

// NodeKind tags which of the DataFlowNode variants a node is (spec §3
// "Dataflow node. Tagged: TaintSource | TaintSink | Vertex | Assignment |
// Composition | VariableSink | DataSource | ArrayItem").
type NodeKind int

const (
	KindTaintSource NodeKind = iota
	KindTaintSink
	KindVertex
	KindAssignment
	KindComposition
	KindVariableSink
	KindDataSource
	KindArrayItem
)

// Node is one vertex of the dataflow graph. Two nodes are equal iff their
// IDs are equal (spec §3).
type Node struct {
	ID    NodeID
	Kind  NodeKind
	Label string
	Pos   Pos

	// Types is populated for TaintSource/TaintSink nodes: the taint kinds
	// this source can produce, or this sink is sensitive to.
	Types TaintSet

	// KeyName is set for ArrayItem nodes (spec §3 "ArrayItem{key_name,pos}").
	KeyName string

	// SpecializationKey, when non-empty, marks this node as one call
	// site's specialized view of an unspecialized node carrying the same
	// Label (spec §4.7 "Source/sink specialization").
	SpecializationKey string
	UnspecializedID   NodeID
}

func (n Node) Equal(other Node) bool { return n.ID == other.ID }
