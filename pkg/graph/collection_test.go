package graph

import "testing"

func TestCollectionHierarchy(t *testing.T) {
	root := NewCollection(CollectionSublayout, "root")
	inner := NewCollection(CollectionSublayout, "inner")
	node := NewCollection(CollectionSubgraphNode, "box")
	root.AddChild(inner)
	inner.AddChild(node)

	if inner.Parent() != root {
		t.Error("Parent() != root after AddChild")
	}
	if got := root.ChildrenOfKind(CollectionSublayout); len(got) != 1 || got[0] != inner {
		t.Errorf("ChildrenOfKind(sublayout) = %v, want [inner]", got)
	}

	all := root.Descendants("")
	if len(all) != 2 {
		t.Errorf("Descendants(\"\") = %d collections, want 2", len(all))
	}
	boxes := root.Descendants(CollectionSubgraphNode)
	if len(boxes) != 1 || boxes[0] != node {
		t.Errorf("Descendants(subgraph node) = %v, want [box]", boxes)
	}
}

func TestCollectionContainsVertex(t *testing.T) {
	v := NewVertex("a")
	c := NewCollection(CollectionSameLayer, "")
	c.Vertices = append(c.Vertices, v)

	if !c.ContainsVertex(v) {
		t.Error("ContainsVertex() = false for member")
	}
	if c.ContainsVertex(NewVertex("b")) {
		t.Error("ContainsVertex() = true for non-member")
	}
}

func TestCollectionKindRegistry(t *testing.T) {
	info, ok := CollectionKind(CollectionSameLayer)
	if !ok {
		t.Fatal("CollectionKind(same layer) not registered")
	}
	if !info.Layered {
		t.Error("same layer kind should be marked layered")
	}
	if _, ok := CollectionKind("made up"); ok {
		t.Error("CollectionKind(unknown) reported ok")
	}
}
