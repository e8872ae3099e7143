package mathtree

import (
	"strconv"
	"strings"
)

// ============================================================
// Rendering
// ============================================================

// String renders the unevaluated tree as plain infix text, with "?" for
// unset fields: "a*? + b".
func (n *Node) String() string {
	var b strings.Builder
	n.writeText(&b)
	return b.String()
}

// LaTeX renders the unevaluated tree as a formula string, with "\_" for
// unset fields: "{a}\times\_+{b}".
func (n *Node) LaTeX() string {
	var b strings.Builder
	n.writeLaTeX(&b)
	return b.String()
}

var textJoin = map[Op]string{
	Plus:  " + ",
	Times: "*",
	Power: "^",
}

func (n *Node) writeText(b *strings.Builder) {
	switch t := n.term.(type) {
	case Unset:
		b.WriteString("?")
	case Literal:
		b.WriteString(strconv.FormatInt(t.Value, 10))
	case Symbol:
		b.WriteString(monomial(t.Coefficient, t.Variables, superscript))
	case Operator:
		for i, c := range n.children {
			if i > 0 {
				b.WriteString(textJoin[t.Op.Symbol])
			}
			if c.grouped(t.Op) {
				b.WriteString("(")
				c.writeText(b)
				b.WriteString(")")
			} else {
				c.writeText(b)
			}
		}
	}
}

func (n *Node) writeLaTeX(b *strings.Builder) {
	switch t := n.term.(type) {
	case Unset:
		b.WriteString(`\_`)
	case Literal:
		b.WriteString("{" + strconv.FormatInt(t.Value, 10) + "}")
	case Symbol:
		b.WriteString("{" + monomial(t.Coefficient, t.Variables, bracedSuperscript) + "}")
	case Operator:
		for i, c := range n.children {
			if i > 0 {
				b.WriteString(t.Op.Token)
			}
			if c.grouped(t.Op) {
				b.WriteString(`{\left(`)
				c.writeLaTeX(b)
				b.WriteString(`\right)}`)
			} else {
				c.writeLaTeX(b)
			}
		}
	}
}

// grouped reports whether n needs brackets as an operand of parent: it
// binds looser than parent, or equally under a non-associative parent. A
// compound symbol or negative literal under a power is bracketed as well.
func (n *Node) grouped(parent *Operation) bool {
	switch t := n.term.(type) {
	case Operator:
		return t.Op.Precedence < parent.Precedence ||
			(t.Op.Precedence == parent.Precedence && !parent.Associative)
	case Symbol:
		return parent.Symbol == Power && (t.Coefficient != 1 || len(t.Variables) > 1)
	case Literal:
		return parent.Symbol == Power && t.Value < 0
	}
	return false
}

// String renders evaluated terms: "2x^2 + y + 3", or "0" when empty.
func (t Terms) String() string { return t.render(superscript) }

// LaTeX renders evaluated terms with braced exponents: "2x^{2} + y + 3".
func (t Terms) LaTeX() string { return t.render(bracedSuperscript) }

func (t Terms) render(sup func(int) string) string {
	if len(t) == 0 {
		return "0"
	}
	parts := make([]string, 0, len(t))
	for _, sig := range t.Signatures() {
		if sig == ConstantSignature {
			parts = append(parts, strconv.FormatInt(t[sig], 10))
			continue
		}
		parts = append(parts, monomial(t[sig], sig, sup))
	}
	return strings.Join(parts, " + ")
}

func superscript(n int) string       { return "^" + strconv.Itoa(n) }
func bracedSuperscript(n int) string { return "^{" + strconv.Itoa(n) + "}" }

// monomial writes coef followed by letters, runs of a repeated letter
// compressed to letter^count. A coefficient of 1 is dropped.
func monomial(coef int64, letters string, sup func(int) string) string {
	var b strings.Builder
	if coef != 1 {
		b.WriteString(strconv.FormatInt(coef, 10))
	}
	for i := 0; i < len(letters); {
		j := i
		for j < len(letters) && letters[j] == letters[i] {
			j++
		}
		b.WriteByte(letters[i])
		if j-i > 1 {
			b.WriteString(sup(j - i))
		}
		i = j
	}
	return b.String()
}
