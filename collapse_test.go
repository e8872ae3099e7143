package mathtree_test

import (
	"testing"

	"github.com/njchilds90/mathtree"
)

func TestRemoveOperation_SumsLiterals(t *testing.T) {
	for i := 0; i < 2; i++ {
		five, seven := lit(5), lit(7)
		sum := op(t, mathtree.Plus, five, seven)
		folded := []*mathtree.Node{five, seven}[i].RemoveOperation()
		if folded != sum {
			t.Fatal("the parent node should be folded in place")
		}
		v, ok := folded.Term().(mathtree.Literal)
		if !ok || v.Value != 12 {
			t.Errorf("want literal 12, got %s %s", folded.Kind(), folded)
		}
		if folded.Len() != 0 || five.Parent() != nil || seven.Parent() != nil {
			t.Error("all children should be detached")
		}
	}
}

func TestRemoveOperation_AllUnset(t *testing.T) {
	x := mathtree.New()
	op(t, mathtree.Plus, x, mathtree.New())
	if folded := x.RemoveOperation(); !folded.IsUnset() {
		t.Errorf("want unset, got %s", folded.Kind())
	}
}

func TestRemoveOperation_SkipsUnset(t *testing.T) {
	five := lit(5)
	op(t, mathtree.Times, five, mathtree.New())
	if folded := five.RemoveOperation(); folded.String() != "5" {
		t.Errorf("want 5, got %s", folded)
	}
}

func TestRemoveOperation_FoldsNested(t *testing.T) {
	// 1 + 2*3 folds to 1 + 2 + 3, not to the value of the expression.
	one := lit(1)
	op(t, mathtree.Plus, one, op(t, mathtree.Times, lit(2), lit(3)))
	if folded := one.RemoveOperation(); folded.String() != "6" {
		t.Errorf("want 6, got %s", folded)
	}
}

func TestRemoveOperation_SymbolCoefficients(t *testing.T) {
	x := sym("2x")
	op(t, mathtree.Plus, x, lit(3))
	if folded := x.RemoveOperation(); folded.String() != "5" {
		t.Errorf("want 5, got %s", folded)
	}
}

func TestRemoveOperation_KeepsPlace(t *testing.T) {
	five := lit(5)
	root := op(t, mathtree.Times, sym("x"), op(t, mathtree.Plus, five, lit(7)))
	five.RemoveOperation()
	checkTree(t, root)
	if root.String() != "x*12" {
		t.Errorf("want x*12, got %s", root)
	}
}

func TestRemoveOperation_NoOp(t *testing.T) {
	if sym("x").RemoveOperation() != nil {
		t.Error("a root leaf has no operator to remove")
	}
	inner := op(t, mathtree.Times, lit(1), lit(2))
	root := op(t, mathtree.Plus, inner, lit(3))
	if inner.RemoveOperation() != nil {
		t.Error("an operator node cannot be the target")
	}
	if root.String() != "1*2 + 3" {
		t.Errorf("no-op changed the tree: %s", root)
	}
}
