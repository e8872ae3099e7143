package mathtree

// ============================================================
// Structural operator insertion
// ============================================================

// placement says where a newly typed operator lands relative to the
// operator that currently encloses its left operand.
type placement int

const (
	// placeFlatten: same associative operator, the new operand joins the
	// enclosing node.
	placeFlatten placement = iota
	// placeNest: the new operator binds tighter and takes its left
	// operand's slot inside the enclosing node.
	placeNest
	// placeSplit: the new operator binds the same or looser; the enclosing
	// node is split around it and the decision repeats one level up.
	placeSplit
)

func place(inner, outer *Operation) placement {
	switch {
	case inner == outer && inner.Associative:
		return placeFlatten
	case inner.Precedence > outer.Precedence:
		return placeNest
	}
	return placeSplit
}

// split regroups the detached children of an outer node around a new
// operator whose operands are left and right; before and after are the
// children on either side. Each side is rebuilt under a copy of outer, and a
// side of one operand is returned as is.
func split(outer *Operation, before []*Node, left, right *Node, after []*Node) (*Node, *Node) {
	lhs := append(append([]*Node(nil), before...), left)
	rhs := append([]*Node{right}, after...)
	return outer.group(lhs), outer.group(rhs)
}

func (o *Operation) group(nodes []*Node) *Node {
	if len(nodes) == 1 {
		return nodes[0]
	}
	g := o.node()
	g.attach(0, nodes...)
	return g
}

func (o *Operation) binary(left, right *Node) *Node {
	b := o.node()
	b.attach(0, left, right)
	return b
}

// PostOperation inserts op immediately after n, typically the leaf being
// typed into, and returns the resulting root together with the new empty
// operand that follows the operator.
//
// Tighter-binding operators nest below looser ones, a repeated associative
// operator extends its existing node rather than nesting, and the
// left-to-right order of every operand is preserved.
func (n *Node) PostOperation(op Op) (root, placeholder *Node, err error) {
	operation, err := Lookup(op)
	if err != nil {
		return nil, nil, err
	}
	placeholder = New()

	left, right := n, placeholder
	at, index := n.parent, n.Index()
	if at != nil {
		at.detachAt(index)
	}
	for at != nil {
		outer := at.Op()
		switch place(operation, outer) {
		case placeFlatten:
			at.attach(index, left, right)
			return at.Root(), placeholder, nil
		case placeNest:
			at.attach(index, operation.binary(left, right))
			return at.Root(), placeholder, nil
		}
		children := at.detachAll()
		left, right = split(outer, children[:index], left, right, children[index:])
		up := at.parent
		if up != nil {
			index = at.Index()
			up.detachAt(index)
		}
		at = up
	}
	return operation.binary(left, right), placeholder, nil
}
