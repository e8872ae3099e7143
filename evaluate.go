package mathtree

import "sort"

// ============================================================
// Evaluation
// ============================================================

// ConstantSignature keys the variable-free term of a Terms map.
const ConstantSignature = "1"

// Terms maps a variable signature (sorted, repetition-expanded letters) to
// its integer coefficient.
type Terms map[string]int64

// Signatures returns the keys of t in display order: higher degree first,
// then lexicographically, the constant term last.
func (t Terms) Signatures() []string {
	sigs := make([]string, 0, len(t))
	for sig := range t {
		sigs = append(sigs, sig)
	}
	sort.Slice(sigs, func(i, j int) bool {
		a, b := sigs[i], sigs[j]
		if (a == ConstantSignature) != (b == ConstantSignature) {
			return b == ConstantSignature
		}
		if len(a) != len(b) {
			return len(a) > len(b)
		}
		return a < b
	})
	return sigs
}

// Constant returns the value of t when it has no variable terms.
func (t Terms) Constant() (int64, bool) {
	switch len(t) {
	case 0:
		return 0, true
	case 1:
		v, ok := t[ConstantSignature]
		return v, ok
	}
	return 0, false
}

// Evaluate reduces the subtree at n to canonical terms. It reports false
// when any node below n is Unset or an operator cannot reduce its operands.
func (n *Node) Evaluate() (Terms, bool) {
	switch t := n.term.(type) {
	case Literal:
		return Terms{ConstantSignature: t.Value}, true
	case Symbol:
		return Terms{t.Variables: t.Coefficient}.dropZeros(), true
	case Operator:
		operands := make([]Terms, len(n.children))
		for i, c := range n.children {
			terms, ok := c.Evaluate()
			if !ok {
				return nil, false
			}
			operands[i] = terms
		}
		terms, ok := t.Op.Combine(operands)
		if !ok {
			return nil, false
		}
		return terms.dropZeros(), true
	}
	return nil, false
}

func (t Terms) dropZeros() Terms {
	for sig, coef := range t {
		if coef == 0 {
			delete(t, sig)
		}
	}
	return t
}

// Evaluation is the value of one operator node on an ancestor chain.
type Evaluation struct {
	Node  *Node
	Terms Terms
	OK    bool
}

// EvaluateChain evaluates every operator from n up to the root, nearest
// first: the values a view refreshes after n changes.
func EvaluateChain(n *Node) []Evaluation {
	var out []Evaluation
	for _, a := range n.Ancestors() {
		if !a.IsOperator() {
			continue
		}
		terms, ok := a.Evaluate()
		out = append(out, Evaluation{Node: a, Terms: terms, OK: ok})
	}
	return out
}
