package layout

import (
	"testing"

	"github.com/tsawler/strata/model"
)

// makeWordLineBlock creates a single-line block from word components
func makeWordLineBlock(comps ...model.TextComponent) *model.Block {
	line := model.Line{Components: comps}
	for i, c := range comps {
		if i == 0 {
			line.BBox = c.BBox
		} else {
			line.BBox = line.BBox.Union(c.BBox)
		}
		if i > 0 {
			line.Text += " "
		}
		line.Text += c.Text
	}
	line.Height = line.BBox.Height()
	return model.NewBlock([]model.Line{line})
}

func TestTreeBuilder_Build(t *testing.T) {
	builder := NewTreeBuilder()
	blocks := []*model.Block{
		makeWordLineBlock(
			makeComponent("alpha", 100, 100, 140, 112, 12),
			makeComponent("beta", 150, 100, 190, 112, 12),
		),
		makeWordLineBlock(
			makeComponent("gamma", 100, 130, 145, 142, 12),
		),
	}

	tree, err := builder.Build(blocks, []int{1, 0}, model.NewBBox(0, 0, 612, 792))
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	// Page root, 2 blocks, 2 lines, 3 words
	if tree.Len() != 8 {
		t.Fatalf("Expected 8 nodes, got %d", tree.Len())
	}

	root := tree.Node(tree.Root())
	if len(root.Children) != 2 {
		t.Fatalf("Expected 2 block children, got %d", len(root.Children))
	}

	first := tree.Node(root.Children[0])
	if first.Kind != model.NodeBlock || first.Ref != 1 {
		t.Errorf("First child should be block 1, got kind %s ref %d", first.Kind, first.Ref)
	}
	if first.ReadingOrder != 0 {
		t.Errorf("First child should hold reading position 0, got %d", first.ReadingOrder)
	}
	if first.Content != "gamma" {
		t.Errorf("Expected content 'gamma', got '%s'", first.Content)
	}

	second := tree.Node(root.Children[1])
	if second.Ref != 0 || second.ReadingOrder != 1 {
		t.Errorf("Second child should be block 0 at position 1, got ref %d position %d",
			second.Ref, second.ReadingOrder)
	}

	words := 0
	tree.Walk(func(_ int, node *model.LayoutNode) bool {
		if node.Kind == model.NodeWord {
			words++
		}
		return true
	})
	if words != 3 {
		t.Errorf("Expected 3 word nodes, got %d", words)
	}

	if err := tree.Validate(); err != nil {
		t.Errorf("Built tree should validate: %v", err)
	}
}

func TestTreeBuilder_MismatchedOrderFallsBack(t *testing.T) {
	builder := NewTreeBuilder()
	blocks := []*model.Block{
		makeWordLineBlock(makeComponent("one", 100, 100, 130, 112, 12)),
		makeWordLineBlock(makeComponent("two", 100, 130, 130, 142, 12)),
	}

	// An order of the wrong length is replaced with input order
	tree, err := builder.Build(blocks, []int{0}, model.NewBBox(0, 0, 612, 792))
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	root := tree.Node(tree.Root())
	if tree.Node(root.Children[0]).Ref != 0 || tree.Node(root.Children[1]).Ref != 1 {
		t.Error("Expected input order when the permutation length mismatches")
	}
}

func TestTreeBuilder_BadOrderIndex(t *testing.T) {
	builder := NewTreeBuilder()
	blocks := []*model.Block{
		makeWordLineBlock(makeComponent("one", 100, 100, 130, 112, 12)),
		makeWordLineBlock(makeComponent("two", 100, 130, 130, 142, 12)),
	}

	if _, err := builder.Build(blocks, []int{0, 5}, model.NewBBox(0, 0, 612, 792)); err == nil {
		t.Error("Expected an error for an out-of-range order index")
	}
}

func TestTreeBuilder_RootExpandsToCoverBlocks(t *testing.T) {
	builder := NewTreeBuilder()
	blocks := []*model.Block{
		makeWordLineBlock(makeComponent("margin", 700, 800, 750, 812, 12)),
	}

	tree, err := builder.Build(blocks, []int{0}, model.NewBBox(0, 0, 612, 792))
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	root := tree.Node(tree.Root())
	if root.BBox.X1 < 750 || root.BBox.Y1 < 812 {
		t.Errorf("Root should expand to cover out-of-page content, got %+v", root.BBox)
	}
}

func TestTreeBuilder_EmptyPage(t *testing.T) {
	builder := NewTreeBuilder()

	tree, err := builder.Build(nil, nil, model.NewBBox(0, 0, 612, 792))
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if tree.Len() != 1 {
		t.Errorf("Expected a lone page root, got %d nodes", tree.Len())
	}
}
