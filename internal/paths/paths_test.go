package paths

import "testing"

func sampleTree() *Node {
	return &Node{
		ID: 1, Name: "workspace", Kind: KindRoot,
		Children: []*Node{
			{ID: 2, Name: "notes", Kind: KindFolder, Children: []*Node{
				{ID: 4, Name: "todo.md", Kind: KindDocument},
				{ID: 5, Name: "ideas.md", Kind: KindDocument},
			}},
			{ID: 3, Name: "readme.md", Kind: KindDocument},
		},
	}
}

func TestFindPresent(t *testing.T) {
	t.Parallel()
	ix := NewIndex()
	ix.Replace(sampleTree())

	for _, id := range []uint64{1, 2, 3, 4, 5} {
		n := ix.Find(id)
		if n == nil {
			t.Fatalf("Find(%d) = nil, want node", id)
		}
		if n.ID != id {
			t.Fatalf("Find(%d) returned node %d", id, n.ID)
		}
	}
}

func TestFindAbsent(t *testing.T) {
	t.Parallel()
	ix := NewIndex()
	ix.Replace(sampleTree())

	if n := ix.Find(99); n != nil {
		t.Fatalf("Find(99) = %+v, want nil", n)
	}
}

func TestFindEmptyIndex(t *testing.T) {
	t.Parallel()
	ix := NewIndex()
	if n := ix.Find(1); n != nil {
		t.Fatalf("Find on empty index = %+v, want nil", n)
	}
}

func TestFindPreOrderFirstMatch(t *testing.T) {
	t.Parallel()
	// Two nodes share an identifier (malformed input); the pre-order
	// first one wins deterministically.
	ix := NewIndex()
	ix.Replace(&Node{
		ID: 1, Kind: KindRoot,
		Children: []*Node{
			{ID: 7, Name: "first", Kind: KindFolder, Children: []*Node{
				{ID: 8, Name: "inner", Kind: KindDocument},
			}},
			{ID: 8, Name: "second", Kind: KindDocument},
		},
	})

	if got := ix.Find(8).Name; got != "inner" {
		t.Fatalf("Find(8).Name = %q, want %q", got, "inner")
	}
}

func TestReplaceSwapsSnapshot(t *testing.T) {
	t.Parallel()
	ix := NewIndex()
	ix.Replace(sampleTree())
	ix.Replace(&Node{ID: 10, Kind: KindRoot})

	if ix.Find(4) != nil {
		t.Fatal("node from previous snapshot still found after Replace")
	}
	if ix.Root() == nil || ix.Root().ID != 10 {
		t.Fatal("Root does not reflect the new snapshot")
	}
}

func TestDocumentsAreLeaves(t *testing.T) {
	t.Parallel()
	doc := &Node{ID: 3, Kind: KindDocument}
	if doc.IsFolder() {
		t.Fatal("document reported as folder")
	}
	if !(&Node{ID: 1, Kind: KindRoot}).IsFolder() {
		t.Fatal("root should accept children")
	}
}
