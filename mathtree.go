// Package mathtree provides an incrementally edited algebraic expression tree.
//
// Design goals:
//   - Live, character-by-character editing of a mutable n-ary tree
//   - Precedence-correct operator insertion without a separate parse step
//   - Deterministic evaluation into canonical polynomial-like terms
//   - Plain-text and LaTeX rendering, JSON snapshots and tool-call APIs
//   - Embeddable in Go services, CLI tools, and agent backends
package mathtree

import (
	"sort"
	"strconv"
	"strings"
	"unicode"
)

// ============================================================
// Term: the tagged payload of a Node
// ============================================================

// Kind identifies which Term a node carries.
type Kind int

const (
	KindUnset Kind = iota
	KindLiteral
	KindSymbol
	KindOperator
)

func (k Kind) String() string {
	switch k {
	case KindUnset:
		return "unset"
	case KindLiteral:
		return "literal"
	case KindSymbol:
		return "symbol"
	case KindOperator:
		return "operator"
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Term is one of Unset, Literal, Symbol or Operator.
type Term interface {
	Kind() Kind
	isTerm()
}

// Unset is a field nothing valid has been typed into yet.
type Unset struct{}

func (Unset) Kind() Kind { return KindUnset }
func (Unset) isTerm()    {}

// Literal is a signed integer.
type Literal struct{ Value int64 }

func (Literal) Kind() Kind { return KindLiteral }
func (Literal) isTerm()    {}

// Symbol is a monomial: an integer coefficient and a multiset of
// single-letter variables. Variables holds the letters sorted ascending with
// each letter repeated once per unit of exponent.
type Symbol struct {
	Coefficient int64
	Variables   string
}

func (Symbol) Kind() Kind { return KindSymbol }
func (Symbol) isTerm()    {}

// Encoding returns the canonical form, e.g. "3xxy" for 3x²y.
func (s Symbol) Encoding() string {
	return strconv.FormatInt(s.Coefficient, 10) + s.Variables
}

// ParseSymbol reads text of the form [0-9]*[a-zA-Z]+. A missing coefficient
// is 1. Letters are sorted so that "2yx" and "2xy" produce the same Symbol.
func ParseSymbol(text string) (Symbol, bool) {
	i := 0
	for i < len(text) && text[i] >= '0' && text[i] <= '9' {
		i++
	}
	digits, letters := text[:i], text[i:]
	if letters == "" {
		return Symbol{}, false
	}
	for _, r := range letters {
		if r > unicode.MaxASCII || !unicode.IsLetter(r) {
			return Symbol{}, false
		}
	}
	coef := int64(1)
	if digits != "" {
		v, err := strconv.ParseInt(digits, 10, 64)
		if err != nil {
			return Symbol{}, false
		}
		coef = v
	}
	return Symbol{Coefficient: coef, Variables: sortLetters(letters)}, true
}

// ParseEncoding reads a canonical encoding as produced by Symbol.Encoding.
// Unlike ParseSymbol it accepts a negative coefficient and requires one.
func ParseEncoding(enc string) (Symbol, bool) {
	i := 0
	if i < len(enc) && enc[i] == '-' {
		i++
	}
	for i < len(enc) && enc[i] >= '0' && enc[i] <= '9' {
		i++
	}
	coef, err := strconv.ParseInt(enc[:i], 10, 64)
	if err != nil {
		return Symbol{}, false
	}
	s, ok := ParseSymbol(enc[i:])
	if !ok {
		return Symbol{}, false
	}
	s.Coefficient = coef
	return s, true
}

func sortLetters(s string) string {
	b := []byte(s)
	sort.Slice(b, func(i, j int) bool { return b[i] < b[j] })
	return string(b)
}

// Operator tags an interior node with a registered operation.
type Operator struct{ Op *Operation }

func (Operator) Kind() Kind { return KindOperator }
func (Operator) isTerm()    {}

// ============================================================
// Node: a tree vertex
// ============================================================

// Node is a vertex of an expression tree. Ownership runs from a node to its
// children; parent is a back-reference kept in lockstep with the child list.
type Node struct {
	term     Term
	parent   *Node
	children []*Node
}

// New returns an unset root.
func New() *Node { return &Node{term: Unset{}} }

func NewLiteral(v int64) *Node { return &Node{term: Literal{Value: v}} }

// NewSymbol returns a symbol leaf, or an unset leaf when text is not a
// valid symbol.
func NewSymbol(text string) *Node {
	n := New()
	n.ResolveSymbol(text)
	return n
}

// NewOperator returns an operator node owning children.
func NewOperator(op Op, children ...*Node) (*Node, error) {
	operation, err := Lookup(op)
	if err != nil {
		return nil, err
	}
	n := operation.node()
	if err := n.AppendChildren(children...); err != nil {
		return nil, err
	}
	return n, nil
}

func (n *Node) Term() Term       { return n.term }
func (n *Node) Kind() Kind       { return n.term.Kind() }
func (n *Node) IsOperator() bool { return n.term.Kind() == KindOperator }
func (n *Node) IsUnset() bool    { return n.term.Kind() == KindUnset }

// Op returns the node's operation, or nil for leaves.
func (n *Node) Op() *Operation {
	if o, ok := n.term.(Operator); ok {
		return o.Op
	}
	return nil
}

// Clone copies n and, when withChildren is set, its whole subtree. The copy
// is a root and shares no node with n.
func (n *Node) Clone(withChildren bool) *Node {
	c := &Node{term: n.term}
	if !withChildren {
		return c
	}
	c.children = make([]*Node, len(n.children))
	for i, child := range n.children {
		cc := child.Clone(true)
		cc.parent = c
		c.children[i] = cc
	}
	return c
}

// Unresolve clears the node back to Unset and detaches its children.
func (n *Node) Unresolve() {
	n.RemoveAllChildren()
	n.term = Unset{}
}

func (n *Node) ResolveLiteral(v int64) {
	n.RemoveAllChildren()
	n.term = Literal{Value: v}
}

// ResolveSymbol stores the canonical form of text. Text that is not a
// symbol leaves the node Unset and reports false.
func (n *Node) ResolveSymbol(text string) bool {
	s, ok := ParseSymbol(text)
	if !ok {
		n.Unresolve()
		return false
	}
	n.RemoveAllChildren()
	n.term = s
	return true
}

// Resolve picks the term for typed text: digits become a Literal,
// [0-9]*[a-zA-Z]+ a Symbol, anything else Unset.
func (n *Node) Resolve(text string) Kind {
	text = strings.TrimSpace(text)
	if text != "" && strings.Trim(text, "0123456789") == "" {
		if v, err := strconv.ParseInt(text, 10, 64); err == nil {
			n.ResolveLiteral(v)
			return KindLiteral
		}
	}
	if n.ResolveSymbol(text) {
		return KindSymbol
	}
	return KindUnset
}

// Text returns the editable text of a leaf: digits for a literal, the
// symbol with a coefficient of 1 omitted, "" otherwise.
func (n *Node) Text() string {
	switch t := n.term.(type) {
	case Literal:
		return strconv.FormatInt(t.Value, 10)
	case Symbol:
		if t.Coefficient == 1 {
			return t.Variables
		}
		return t.Encoding()
	}
	return ""
}
