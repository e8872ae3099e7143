package mathtree_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/njchilds90/mathtree"
)

// ============================================================
// Mutation tests
// ============================================================

func TestInsertChildren_Order(t *testing.T) {
	a, b, c, d := sym("a"), sym("b"), sym("c"), sym("d")
	p := op(t, mathtree.Plus, a, b)
	if err := p.InsertChildren(1, c, d); err != nil {
		t.Fatal(err)
	}
	if p.String() != "a + c + d + b" {
		t.Errorf("want a + c + d + b, got %s", p)
	}
	checkTree(t, p)
}

func TestInsertChildren_AlreadyParented(t *testing.T) {
	a, b := sym("a"), sym("b")
	p := op(t, mathtree.Plus, a, b)
	other := op(t, mathtree.Times, sym("c"), sym("d"))

	err := other.AppendChildren(sym("e"), a)
	if !errors.Is(err, mathtree.ErrAlreadyParented) {
		t.Fatalf("want ErrAlreadyParented, got %v", err)
	}
	if other.String() != "c*d" {
		t.Errorf("failed insert changed the target: %s", other)
	}
	if a.Parent() != p || p.String() != "a + b" {
		t.Errorf("failed insert changed the source: %s", p)
	}
}

func TestInsertChildren_SameNodeTwice(t *testing.T) {
	p := op(t, mathtree.Plus, sym("a"), sym("b"))
	x := sym("x")
	if err := p.AppendChildren(x, x); !errors.Is(err, mathtree.ErrAlreadyParented) {
		t.Errorf("want ErrAlreadyParented, got %v", err)
	}
	if p.Len() != 2 || x.Parent() != nil {
		t.Error("failed insert should leave both trees untouched")
	}
}

func TestInsertChildren_Rejections(t *testing.T) {
	if err := lit(1).AppendChildren(sym("x")); !errors.Is(err, mathtree.ErrNotOperator) {
		t.Errorf("want ErrNotOperator, got %v", err)
	}
	p := op(t, mathtree.Plus, sym("a"), sym("b"))
	if err := p.InsertChildren(3, sym("x")); !errors.Is(err, mathtree.ErrIndexOutOfRange) {
		t.Errorf("want ErrIndexOutOfRange, got %v", err)
	}
	if err := p.AppendChildren(p); !errors.Is(err, mathtree.ErrCycle) {
		t.Errorf("want ErrCycle, got %v", err)
	}
	inner := op(t, mathtree.Times, sym("c"), sym("d"))
	outer := op(t, mathtree.Plus, inner, sym("e"))
	if err := inner.AppendChildren(outer); !errors.Is(err, mathtree.ErrCycle) {
		t.Errorf("want ErrCycle, got %v", err)
	}
}

func TestRemoveChild(t *testing.T) {
	a, b, c := sym("a"), sym("b"), sym("c")
	p := op(t, mathtree.Plus, a, b, c)
	if err := p.RemoveChild(b); err != nil {
		t.Fatal(err)
	}
	if b.Parent() != nil || p.String() != "a + c" {
		t.Errorf("want a + c with b detached, got %s", p)
	}
	if err := p.RemoveChild(b); !errors.Is(err, mathtree.ErrNotAChild) {
		t.Errorf("want ErrNotAChild, got %v", err)
	}
}

func TestRemoveAllChildren(t *testing.T) {
	a, b := sym("a"), op(t, mathtree.Times, sym("b"), sym("c"))
	p := op(t, mathtree.Plus, a, b)
	p.RemoveAllChildren()
	if p.Len() != 0 || a.Parent() != nil || b.Parent() != nil {
		t.Error("every child should be detached")
	}
	if b.String() != "b*c" {
		t.Errorf("detached subtree should stay intact, got %s", b)
	}
}

// ============================================================
// Navigation tests
// ============================================================

func TestSiblings(t *testing.T) {
	a, b := sym("a"), sym("b")
	p := op(t, mathtree.Plus, a, b)
	if a.PreviousSibling() != nil || b.NextSibling() != nil {
		t.Error("no sibling past the ends of the list")
	}
	if a.NextSibling() != b || b.PreviousSibling() != a {
		t.Error("a and b should be adjacent")
	}
	if p.NextSibling() != nil || p.PreviousSibling() != nil {
		t.Error("the root has no siblings")
	}
}

func TestAdjacentLeaf(t *testing.T) {
	// a + b*c + d
	a, b, c, d := sym("a"), sym("b"), sym("c"), sym("d")
	op(t, mathtree.Plus, a, op(t, mathtree.Times, b, c), d)

	steps := []struct {
		from    *mathtree.Node
		forward bool
		want    *mathtree.Node
	}{
		{a, true, b},
		{b, true, c},
		{c, true, d},
		{d, false, c},
		{b, false, a},
	}
	for _, s := range steps {
		if got := s.from.AdjacentLeaf(s.forward); got != s.want {
			t.Errorf("%s forward=%v: want %s, got %v", s.from, s.forward, s.want, got)
		}
	}
}

func TestAdjacentLeaf_Boundary(t *testing.T) {
	a, b, c := sym("a"), sym("b"), sym("c")
	op(t, mathtree.Plus, op(t, mathtree.Times, a, b), c)
	if a.PreviousLeaf() != nil {
		t.Error("first leaf has no previous leaf")
	}
	if c.NextLeaf() != nil {
		t.Error("last leaf has no next leaf")
	}
	if lone := sym("x"); lone.NextLeaf() != nil || lone.PreviousLeaf() != nil {
		t.Error("a lone root has no neighbours")
	}
}

func TestAdjacentLeaf_AcrossSubtrees(t *testing.T) {
	// (a+b)*(c+d) built by hand: crossing from b to c climbs two levels.
	a, b, c, d := sym("a"), sym("b"), sym("c"), sym("d")
	op(t, mathtree.Times, op(t, mathtree.Plus, a, b), op(t, mathtree.Plus, c, d))
	if got := b.NextLeaf(); got != c {
		t.Errorf("want c, got %v", got)
	}
	if got := c.PreviousLeaf(); got != b {
		t.Errorf("want b, got %v", got)
	}
}

func TestRootPathAt(t *testing.T) {
	b := sym("b")
	inner := op(t, mathtree.Times, sym("a"), b)
	root := op(t, mathtree.Plus, sym("x"), inner)
	if b.Root() != root {
		t.Error("Root should climb to the top")
	}
	if diff := cmp.Diff([]int{1, 1}, b.Path()); diff != "" {
		t.Errorf("Path mismatch (-want +got):\n%s", diff)
	}
	got, err := root.At([]int{1, 1})
	if err != nil || got != b {
		t.Errorf("At([1 1]): want b, got %v (%v)", got, err)
	}
	if _, err := root.At([]int{2}); !errors.Is(err, mathtree.ErrBadPath) {
		t.Errorf("want ErrBadPath, got %v", err)
	}
	if len(root.Ancestors()) != 1 || len(b.Ancestors()) != 3 {
		t.Error("Ancestors should run from the node to the root")
	}
}

// ============================================================
// Clone tests
// ============================================================

func TestClone_Independent(t *testing.T) {
	a := sym("a")
	src := op(t, mathtree.Plus, a, op(t, mathtree.Times, sym("2x"), lit(3)))
	c := src.Clone(true)
	checkTree(t, c)
	if c.String() != src.String() {
		t.Errorf("want %s, got %s", src, c)
	}
	c.Child(0).ResolveLiteral(9)
	if a.Text() != "a" {
		t.Error("mutating the clone changed the source")
	}
	if c.Child(1).Child(0) == src.Child(1).Child(0) {
		t.Error("clone shares nodes with the source")
	}
}

func TestClone_WithoutChildren(t *testing.T) {
	src := op(t, mathtree.Plus, sym("a"), sym("b"))
	c := src.Child(0).Clone(false)
	if c.Parent() != nil || c.Text() != "a" {
		t.Error("a shallow clone is a detached copy")
	}
	if shallow := src.Clone(false); shallow.Len() != 0 || shallow.Op() != src.Op() {
		t.Error("shallow clone keeps the tag and drops the children")
	}
}
