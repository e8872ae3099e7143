package mathtree

import "fmt"

// ============================================================
// Tree mutation primitives
// ============================================================

// InsertChildren attaches nodes, in order, starting at index. Every node
// must be a root and n must be an operator; on error nothing is changed.
func (n *Node) InsertChildren(index int, nodes ...*Node) error {
	if !n.IsOperator() {
		return fmt.Errorf("insert into %s node: %w", n.Kind(), ErrNotOperator)
	}
	if index < 0 || index > len(n.children) {
		return fmt.Errorf("insert at %d of %d: %w", index, len(n.children), ErrIndexOutOfRange)
	}
	root := n.Root()
	seen := make(map[*Node]bool, len(nodes))
	for _, c := range nodes {
		if c.parent != nil || seen[c] {
			return fmt.Errorf("insert %s node: %w", c.Kind(), ErrAlreadyParented)
		}
		if root == c {
			return fmt.Errorf("insert %s node: %w", c.Kind(), ErrCycle)
		}
		seen[c] = true
	}
	n.attach(index, nodes...)
	return nil
}

func (n *Node) AppendChildren(nodes ...*Node) error {
	return n.InsertChildren(len(n.children), nodes...)
}

// RemoveChild detaches c from n.
func (n *Node) RemoveChild(c *Node) error {
	i := n.indexOf(c)
	if i < 0 {
		return fmt.Errorf("remove %s node: %w", c.Kind(), ErrNotAChild)
	}
	n.detachAt(i)
	return nil
}

// RemoveAllChildren detaches every child of n. Each child stays valid as
// the root of its own subtree.
func (n *Node) RemoveAllChildren() {
	for _, c := range n.children {
		c.parent = nil
	}
	n.children = nil
}

// attach inserts detached nodes without validation.
func (n *Node) attach(index int, nodes ...*Node) {
	tail := append([]*Node(nil), n.children[index:]...)
	n.children = append(append(n.children[:index], nodes...), tail...)
	for _, c := range nodes {
		c.parent = n
	}
}

func (n *Node) detachAt(i int) *Node {
	c := n.children[i]
	n.children = append(n.children[:i], n.children[i+1:]...)
	c.parent = nil
	return c
}

// detachAll empties n and returns its former children, now roots.
func (n *Node) detachAll() []*Node {
	children := n.children
	n.RemoveAllChildren()
	return children
}

func (n *Node) indexOf(c *Node) int {
	for i, x := range n.children {
		if x == c {
			return i
		}
	}
	return -1
}

// ============================================================
// Navigation
// ============================================================

func (n *Node) Parent() *Node { return n.parent }
func (n *Node) Len() int      { return len(n.children) }

// Children returns a copy of the child list.
func (n *Node) Children() []*Node { return append([]*Node(nil), n.children...) }

// Child returns the i-th child, or nil when out of range.
func (n *Node) Child(i int) *Node {
	if i < 0 || i >= len(n.children) {
		return nil
	}
	return n.children[i]
}

// Index returns n's position among its siblings, or -1 for a root.
func (n *Node) Index() int {
	if n.parent == nil {
		return -1
	}
	return n.parent.indexOf(n)
}

func (n *Node) relativeSibling(offset int) *Node {
	if n.parent == nil {
		return nil
	}
	return n.parent.Child(n.Index() + offset)
}

func (n *Node) PreviousSibling() *Node { return n.relativeSibling(-1) }
func (n *Node) NextSibling() *Node     { return n.relativeSibling(1) }

// AdjacentLeaf returns the next (forward) or previous leaf in depth-first,
// left-to-right order, or nil when n is the last or first leaf of its tree.
func (n *Node) AdjacentLeaf(forward bool) *Node {
	step := -1
	if forward {
		step = 1
	}
	for cur := n; cur.parent != nil; cur = cur.parent {
		sibling := cur.relativeSibling(step)
		if sibling == nil {
			continue
		}
		for len(sibling.children) > 0 {
			if forward {
				sibling = sibling.children[0]
			} else {
				sibling = sibling.children[len(sibling.children)-1]
			}
		}
		return sibling
	}
	return nil
}

func (n *Node) PreviousLeaf() *Node { return n.AdjacentLeaf(false) }
func (n *Node) NextLeaf() *Node     { return n.AdjacentLeaf(true) }

func (n *Node) Root() *Node {
	root := n
	for root.parent != nil {
		root = root.parent
	}
	return root
}

// Ancestors returns n followed by each of its ancestors up to the root.
func (n *Node) Ancestors() []*Node {
	var out []*Node
	for cur := n; cur != nil; cur = cur.parent {
		out = append(out, cur)
	}
	return out
}

// Path returns the child indices leading from the root to n.
func (n *Node) Path() []int {
	path := []int{}
	for cur := n; cur.parent != nil; cur = cur.parent {
		path = append([]int{cur.Index()}, path...)
	}
	return path
}

// At follows path from n.
func (n *Node) At(path []int) (*Node, error) {
	cur := n
	for depth, i := range path {
		next := cur.Child(i)
		if next == nil {
			return nil, fmt.Errorf("%w: %v at depth %d", ErrBadPath, path, depth)
		}
		cur = next
	}
	return cur, nil
}

// Walk visits n and its descendants depth-first, parents before children.
// Returning false from f skips the node's children.
func (n *Node) Walk(f func(*Node) bool) {
	if !f(n) {
		return
	}
	for _, c := range n.children {
		c.Walk(f)
	}
}

// Leaves returns the leaves under n in document order.
func (n *Node) Leaves() []*Node {
	var out []*Node
	n.Walk(func(x *Node) bool {
		if len(x.children) == 0 {
			out = append(out, x)
		}
		return true
	})
	return out
}
