package mathtree

import (
	"fmt"
	"sort"
	"strings"
)

// ============================================================
// Operation registry
// ============================================================

// Op is an operator character as typed by the user.
type Op rune

const (
	Plus  Op = '+'
	Times Op = '*'
	Power Op = '^'
)

func (o Op) String() string { return string(o) }

// Operation describes a registered operator. Precedence is higher for
// tighter-binding operators. Combine folds the evaluated operands of an
// operator node, in child order, into a single term map; it reports false
// when the operands fall outside what the operator can reduce.
type Operation struct {
	Symbol      Op
	Name        string
	Associative bool
	Precedence  int
	Token       string
	Combine     func(operands []Terms) (Terms, bool)
}

var operations = map[Op]*Operation{
	Plus: {
		Symbol:      Plus,
		Name:        "plus",
		Associative: true,
		Token:       "+",
		Combine:     combineSum,
	},
	Times: {
		Symbol:      Times,
		Name:        "multiply",
		Associative: true,
		Token:       `\times`,
		Combine:     combineProduct,
	},
	Power: {
		Symbol:  Power,
		Name:    "power",
		Token:   "^",
		Combine: combinePower,
	},
}

// precedenceTable lists operators tightest first.
var precedenceTable = [][]Op{
	{Power},
	{Times},
	{Plus},
}

func init() {
	p := 0
	for i := len(precedenceTable) - 1; i >= 0; i-- {
		for _, op := range precedenceTable[i] {
			operations[op].Precedence = p
		}
		p++
	}
}

// Lookup returns the operation registered for op.
func Lookup(op Op) (*Operation, error) {
	if o, ok := operations[op]; ok {
		return o, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownOperator, string(op))
}

// IsOperator reports whether r is a registered operator character.
func IsOperator(r rune) bool {
	_, ok := operations[Op(r)]
	return ok
}

// Operations returns every registered operation, loosest first.
func Operations() []*Operation {
	out := make([]*Operation, 0, len(operations))
	for _, o := range operations {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Precedence != out[j].Precedence {
			return out[i].Precedence < out[j].Precedence
		}
		return out[i].Symbol < out[j].Symbol
	})
	return out
}

func (o *Operation) String() string { return o.Symbol.String() }

func (o *Operation) node() *Node { return &Node{term: Operator{Op: o}} }

// ============================================================
// Combination rules
// ============================================================

// Group collects the coefficients of every operand by signature, keeping
// operand order within each list.
func Group(operands []Terms) map[string][]int64 {
	groups := map[string][]int64{}
	for _, terms := range operands {
		for _, sig := range terms.Signatures() {
			groups[sig] = append(groups[sig], terms[sig])
		}
	}
	return groups
}

func combineSum(operands []Terms) (Terms, bool) {
	sum := Terms{}
	for sig, coefs := range Group(operands) {
		var total int64
		for _, c := range coefs {
			total += c
		}
		sum[sig] = total
	}
	return sum, true
}

// combineProduct multiplies every coefficient together and merges the
// letters of all non-constant signatures into one. It is exact for monomial
// operands only.
func combineProduct(operands []Terms) (Terms, bool) {
	for _, terms := range operands {
		if len(terms) == 0 {
			return Terms{}, true
		}
	}
	product := int64(1)
	var letters strings.Builder
	for sig, coefs := range Group(operands) {
		for _, c := range coefs {
			product *= c
		}
		if sig != ConstantSignature {
			if letters.Len()+len(sig)*len(coefs) > MaxDegree {
				return nil, false
			}
			letters.WriteString(strings.Repeat(sig, len(coefs)))
		}
	}
	sig := sortLetters(letters.String())
	if sig == "" {
		sig = ConstantSignature
	}
	return Terms{sig: product}, true
}

// MaxExponent bounds the exponents combinePower will expand.
const MaxExponent = 1 << 10

// MaxDegree bounds the number of letters in any signature built by
// combineProduct or combinePower.
const MaxDegree = 1 << 12

// combinePower raises the first operand to each following operand in turn.
// Exponents must be non-negative constants.
func combinePower(operands []Terms) (Terms, bool) {
	if len(operands) == 0 {
		return nil, false
	}
	base := operands[0]
	for _, exp := range operands[1:] {
		e, ok := exponent(exp)
		if !ok {
			return nil, false
		}
		next := Terms{}
		for sig, coef := range base {
			c := ipow(coef, e)
			if sig != ConstantSignature {
				if int64(len(sig))*e > MaxDegree {
					return nil, false
				}
				sig = strings.Repeat(sig, int(e))
			}
			if sig == "" {
				sig = ConstantSignature
			}
			next[sig] += c
		}
		base = next
	}
	return base, true
}

func exponent(t Terms) (int64, bool) {
	switch len(t) {
	case 0:
		return 0, true
	case 1:
		e, ok := t[ConstantSignature]
		if !ok || e < 0 || e > MaxExponent {
			return 0, false
		}
		return e, true
	}
	return 0, false
}

func ipow(b, e int64) int64 {
	r := int64(1)
	for ; e > 0; e-- {
		r *= b
	}
	return r
}
