package layout

import (
	"fmt"

	"github.com/tsawler/strata/model"
)

// TreeBuilder assembles the Page/Block/Line/Word containment tree from
// clustered blocks and their resolved reading order.
type TreeBuilder struct{}

// NewTreeBuilder creates a new tree builder
func NewTreeBuilder() *TreeBuilder {
	return &TreeBuilder{}
}

// Build constructs the layout tree. Block nodes appear as children of the
// page root in reading order, carrying their block index in Ref; line
// nodes carry the line index within their block, word nodes the component
// index within their line. ReadingOrder on every node is its position
// among its siblings.
//
// The page root expands to cover any block extending beyond the page
// bounds, preserving the containment invariant.
func (b *TreeBuilder) Build(blocks []*model.Block, order []int, pageBBox model.BBox) (*model.LayoutTree, error) {
	rootBox := pageBBox
	for _, block := range blocks {
		rootBox = rootBox.Union(block.BBox)
	}
	tree := model.NewLayoutTree(rootBox)

	if len(order) != len(blocks) {
		order = make([]int, len(blocks))
		for i := range order {
			order[i] = i
		}
	}

	for position, blockIdx := range order {
		if blockIdx < 0 || blockIdx >= len(blocks) {
			return nil, fmt.Errorf("reading order index %d out of range", blockIdx)
		}
		block := blocks[blockIdx]

		blockNode, err := tree.AddNode(tree.Root(), model.LayoutNode{
			Kind:         model.NodeBlock,
			BBox:         block.BBox,
			Content:      block.Text(),
			Ref:          blockIdx,
			ReadingOrder: position,
		})
		if err != nil {
			return nil, fmt.Errorf("adding block node: %w", err)
		}

		for lineIdx, line := range block.Lines {
			lineNode, err := tree.AddNode(blockNode, model.LayoutNode{
				Kind:         model.NodeLine,
				BBox:         line.BBox,
				Content:      line.Text,
				Ref:          lineIdx,
				ReadingOrder: lineIdx,
			})
			if err != nil {
				return nil, fmt.Errorf("adding line node: %w", err)
			}

			for compIdx, comp := range line.Components {
				if _, err := tree.AddNode(lineNode, model.LayoutNode{
					Kind:         model.NodeWord,
					BBox:         comp.BBox,
					Content:      comp.Text,
					Ref:          compIdx,
					ReadingOrder: compIdx,
				}); err != nil {
					return nil, fmt.Errorf("adding word node: %w", err)
				}
			}
		}
	}

	if err := tree.Validate(); err != nil {
		return nil, fmt.Errorf("layout tree invalid: %w", err)
	}
	return tree, nil
}
