package model

// Relation is a directed spatial relationship between two blocks
type Relation int

const (
	RelAbove Relation = iota
	RelBelow
	RelLeft
	RelRight
	RelContains
	RelContainedBy
	RelNear
)

// String returns a human-readable representation of the relation
func (r Relation) String() string {
	switch r {
	case RelAbove:
		return "above"
	case RelBelow:
		return "below"
	case RelLeft:
		return "left"
	case RelRight:
		return "right"
	case RelContains:
		return "contains"
	case RelContainedBy:
		return "contained_by"
	case RelNear:
		return "near"
	default:
		return "unknown"
	}
}

// Inverse returns the relation seen from the other block
func (r Relation) Inverse() Relation {
	switch r {
	case RelAbove:
		return RelBelow
	case RelBelow:
		return RelAbove
	case RelLeft:
		return RelRight
	case RelRight:
		return RelLeft
	case RelContains:
		return RelContainedBy
	case RelContainedBy:
		return RelContains
	default:
		return RelNear
	}
}

// Edge is one directed relation in the spatial graph. Weight is the
// distance underlying the relation; Confidence is in [0, 1].
type Edge struct {
	From       int
	To         int
	Relation   Relation
	Weight     float64
	Confidence float64
}

// SpatialGraph records the spatial relations between a page's blocks.
// Nodes are block indices. The graph is built once and read-only
// afterward; it is never persisted.
type SpatialGraph struct {
	nodeCount int
	edges     []Edge
	byFrom    [][]int
}

// NewSpatialGraph creates an empty graph over nodeCount block indices
func NewSpatialGraph(nodeCount int) *SpatialGraph {
	return &SpatialGraph{
		nodeCount: nodeCount,
		byFrom:    make([][]int, nodeCount),
	}
}

// NodeCount returns the number of block nodes. Safe to call on nil.
func (g *SpatialGraph) NodeCount() int {
	if g == nil {
		return 0
	}
	return g.nodeCount
}

// EdgeCount returns the number of edges. Safe to call on nil.
func (g *SpatialGraph) EdgeCount() int {
	if g == nil {
		return 0
	}
	return len(g.edges)
}

// AddEdge appends an edge. Out-of-range endpoints are ignored.
func (g *SpatialGraph) AddEdge(e Edge) {
	if e.From < 0 || e.From >= g.nodeCount || e.To < 0 || e.To >= g.nodeCount {
		return
	}
	idx := len(g.edges)
	g.edges = append(g.edges, e)
	g.byFrom[e.From] = append(g.byFrom[e.From], idx)
}

// Edges returns all edges in insertion order. The slice is shared; the
// caller must not modify it. Safe to call on nil.
func (g *SpatialGraph) Edges() []Edge {
	if g == nil {
		return nil
	}
	return g.edges
}

// EdgesFrom returns the edges leaving the given block. Safe to call on
// nil.
func (g *SpatialGraph) EdgesFrom(from int) []Edge {
	if g == nil || from < 0 || from >= g.nodeCount {
		return nil
	}
	out := make([]Edge, 0, len(g.byFrom[from]))
	for _, idx := range g.byFrom[from] {
		out = append(out, g.edges[idx])
	}
	return out
}

// Related returns the edge from one block to another with the given
// relation, and whether one exists. Safe to call on nil.
func (g *SpatialGraph) Related(from, to int, rel Relation) (Edge, bool) {
	if g == nil || from < 0 || from >= g.nodeCount {
		return Edge{}, false
	}
	for _, idx := range g.byFrom[from] {
		e := g.edges[idx]
		if e.To == to && e.Relation == rel {
			return e, true
		}
	}
	return Edge{}, false
}
