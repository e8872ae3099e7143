package mathtree

// ============================================================
// Operator collapse
// ============================================================

// RemoveOperation folds n's parent operator into a single leaf, the editing
// gesture for deleting the operator next to n. The parent keeps its place in
// the tree and loses all its children. It becomes Unset when every child was
// Unset, otherwise a Literal holding the sum of the children's integer
// values. RemoveOperation returns the folded node, or nil when n is an
// operator or has no parent.
func (n *Node) RemoveOperation() *Node {
	if n.IsOperator() || n.parent == nil {
		return nil
	}
	p := n.parent
	value, resolved := foldValues(p.children)
	p.RemoveAllChildren()
	if resolved {
		p.term = Literal{Value: value}
	} else {
		p.term = Unset{}
	}
	return p
}

// foldValues sums the integer value of every resolved node: a literal's
// value, a symbol's coefficient, and for an operator the fold of its own
// children.
func foldValues(nodes []*Node) (sum int64, resolved bool) {
	for _, c := range nodes {
		switch t := c.term.(type) {
		case Literal:
			sum += t.Value
			resolved = true
		case Symbol:
			sum += t.Coefficient
			resolved = true
		case Operator:
			v, _ := foldValues(c.children)
			sum += v
			resolved = true
		}
	}
	return sum, resolved
}
