package model

import "fmt"

// NodeKind identifies a layout tree node's level
type NodeKind int

const (
	NodePage NodeKind = iota
	NodeBlock
	NodeLine
	NodeWord
)

// String returns a human-readable representation of the node kind
func (k NodeKind) String() string {
	switch k {
	case NodePage:
		return "page"
	case NodeBlock:
		return "block"
	case NodeLine:
		return "line"
	case NodeWord:
		return "word"
	default:
		return "unknown"
	}
}

// LayoutNode is one node of the Page→Block→Line→Word containment tree.
// Parent and Children are indices into the owning tree's arena, so nodes
// hold no pointers to each other and the structure cannot form ownership
// cycles. The root's Parent is -1.
type LayoutNode struct {
	Kind     NodeKind
	BBox     BBox
	Content  string
	Parent   int
	Children []int

	// Ref indexes the node's source in its containing collection: the
	// block index for Block nodes, the line index within the block for
	// Line nodes, the component index within the line for Word nodes.
	// -1 for the page root.
	Ref int

	// ReadingOrder is the node's position among its siblings in reading
	// sequence.
	ReadingOrder int
}

// ContainmentTolerance is the slack allowed when checking that a child
// bbox lies inside its parent bbox. Glyph boxes routinely poke a fraction
// of a unit past their line box.
const ContainmentTolerance = 2.0

// LayoutTree is an index-based arena holding one page's layout tree.
// The tree is built once, bottom-up, and read-only afterward.
type LayoutTree struct {
	nodes []LayoutNode
	root  int
}

// NewLayoutTree creates a tree containing only the page root covering
// the given box.
func NewLayoutTree(pageBBox BBox) *LayoutTree {
	return &LayoutTree{
		nodes: []LayoutNode{{
			Kind:   NodePage,
			BBox:   pageBBox,
			Parent: -1,
			Ref:    -1,
		}},
		root: 0,
	}
}

// Root returns the index of the page root
func (t *LayoutTree) Root() int {
	if t == nil {
		return -1
	}
	return t.root
}

// Len returns the number of nodes in the tree. Safe to call on nil.
func (t *LayoutTree) Len() int {
	if t == nil {
		return 0
	}
	return len(t.nodes)
}

// Node returns the node at index i, or nil when the index is out of
// range. The returned pointer stays valid for the tree's lifetime; the
// tree is not modified after construction.
func (t *LayoutTree) Node(i int) *LayoutNode {
	if t == nil || i < 0 || i >= len(t.nodes) {
		return nil
	}
	return &t.nodes[i]
}

// AddNode appends a node under the given parent and returns its index.
// The node's Parent field is set and it is appended to the parent's
// Children in insertion order.
func (t *LayoutTree) AddNode(parent int, node LayoutNode) (int, error) {
	if parent < 0 || parent >= len(t.nodes) {
		return -1, fmt.Errorf("parent index %d out of bounds", parent)
	}
	node.Parent = parent
	idx := len(t.nodes)
	t.nodes = append(t.nodes, node)
	t.nodes[parent].Children = append(t.nodes[parent].Children, idx)
	return idx, nil
}

// Walk visits nodes depth-first starting at the root, children in
// insertion order. The visit function returns false to stop the walk.
func (t *LayoutTree) Walk(visit func(index int, node *LayoutNode) bool) {
	if t == nil || len(t.nodes) == 0 {
		return
	}

	stack := []int{t.root}
	for len(stack) > 0 {
		idx := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		node := &t.nodes[idx]
		if !visit(idx, node) {
			return
		}
		// Push children reversed so they pop in insertion order.
		for i := len(node.Children) - 1; i >= 0; i-- {
			stack = append(stack, node.Children[i])
		}
	}
}

// Validate checks the tree invariants: exactly one root, parent/child
// indices consistent, and every child bbox contained in its parent bbox
// within ContainmentTolerance.
func (t *LayoutTree) Validate() error {
	if t == nil || len(t.nodes) == 0 {
		return fmt.Errorf("empty tree")
	}

	roots := 0
	for i := range t.nodes {
		node := &t.nodes[i]
		if node.Parent == -1 {
			roots++
			continue
		}
		if node.Parent < 0 || node.Parent >= len(t.nodes) {
			return fmt.Errorf("node %d: parent index %d out of bounds", i, node.Parent)
		}
		parent := &t.nodes[node.Parent]
		if !parent.BBox.Expand(ContainmentTolerance).ContainsBox(node.BBox) {
			return fmt.Errorf("node %d: bbox escapes parent %d", i, node.Parent)
		}
	}
	if roots != 1 {
		return fmt.Errorf("tree has %d roots, want 1", roots)
	}

	for i := range t.nodes {
		for _, child := range t.nodes[i].Children {
			if child < 0 || child >= len(t.nodes) {
				return fmt.Errorf("node %d: child index %d out of bounds", i, child)
			}
			if t.nodes[child].Parent != i {
				return fmt.Errorf("node %d: child %d points back to %d", i, child, t.nodes[child].Parent)
			}
		}
	}
	return nil
}
