// Package paths holds the current folder/document tree snapshot received
// from the host process and supports lookup by identifier.
package paths

// Kind classifies a tree node. The root carries its own kind rather than
// being inferred from a missing attribute.
type Kind string

const (
	KindRoot     Kind = "root"
	KindFolder   Kind = "folder"
	KindDocument Kind = "document"
)

// Node is one entry in the tree snapshot. Identifiers are stable and
// unique within a snapshot. Only folders and the root carry children.
type Node struct {
	ID       uint64  `json:"id"`
	Name     string  `json:"name"`
	Kind     Kind    `json:"kind"`
	Children []*Node `json:"children,omitempty"`
}

// IsRoot reports whether the node is the tree root.
func (n *Node) IsRoot() bool { return n != nil && n.Kind == KindRoot }

// IsDocument reports whether the node is a document leaf.
func (n *Node) IsDocument() bool { return n != nil && n.Kind == KindDocument }

// IsFolder reports whether the node may hold children.
func (n *Node) IsFolder() bool {
	return n != nil && (n.Kind == KindFolder || n.Kind == KindRoot)
}

// Index owns the current snapshot. Read and replace only; nodes are never
// mutated through it. Replacing the snapshot invalidates every node
// previously returned, so holders must re-resolve by identifier.
type Index struct {
	root *Node
}

// NewIndex returns an empty index.
func NewIndex() *Index { return &Index{} }

// Replace installs a new snapshot wholesale.
func (ix *Index) Replace(root *Node) { ix.root = root }

// Root returns the current snapshot's root, or nil when empty.
func (ix *Index) Root() *Node { return ix.root }

// Find returns the first node with the given identifier in pre-order
// depth-first traversal, or nil when the identifier is absent or the
// index is empty.
func (ix *Index) Find(id uint64) *Node { return find(ix.root, id) }

func find(n *Node, id uint64) *Node {
	if n == nil {
		return nil
	}
	if n.ID == id {
		return n
	}
	for _, child := range n.Children {
		if hit := find(child, id); hit != nil {
			return hit
		}
	}
	return nil
}
