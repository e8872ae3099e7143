package mathtree

import "testing"

func TestPlace(t *testing.T) {
	plus, times, power := operations[Plus], operations[Times], operations[Power]
	cases := []struct {
		inner, outer *Operation
		want         placement
	}{
		{plus, plus, placeFlatten},
		{times, times, placeFlatten},
		{times, plus, placeNest},
		{power, times, placeNest},
		{plus, times, placeSplit},
		{times, power, placeSplit},
		{power, power, placeSplit},
	}
	for _, c := range cases {
		if got := place(c.inner, c.outer); got != c.want {
			t.Errorf("place(%s, %s): want %d, got %d", c.inner, c.outer, c.want, got)
		}
	}
}

func TestSplit(t *testing.T) {
	a, b, l, r := NewSymbol("a"), NewSymbol("b"), NewSymbol("l"), NewSymbol("r")
	lhs, rhs := split(operations[Times], []*Node{a}, l, r, []*Node{b})
	if lhs.String() != "a*l" || rhs.String() != "r*b" {
		t.Errorf("want a*l and r*b, got %s and %s", lhs, rhs)
	}

	lone, other := NewSymbol("x"), New()
	lhs, rhs = split(operations[Times], nil, lone, other, nil)
	if lhs != lone || rhs != other {
		t.Error("single operands should not be wrapped")
	}
}

func TestSplit_SharedBacking(t *testing.T) {
	// before and after are views of one detached child list.
	children := []*Node{NewSymbol("a"), NewSymbol("b"), NewSymbol("c")}
	l, r := NewSymbol("l"), NewSymbol("r")
	lhs, rhs := split(operations[Plus], children[:1], l, r, children[1:])
	if lhs.String() != "a + l" || rhs.String() != "r + b + c" {
		t.Errorf("want a + l and r + b + c, got %s and %s", lhs, rhs)
	}
}
