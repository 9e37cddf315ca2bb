// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package xdd

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// allAssignments enumerates every boolean vector of the given length.
func allAssignments(n int) [][]bool {
	if n == 0 {
		return [][]bool{{}}
	}
	rest := allAssignments(n - 1)
	out := make([][]bool, 0, 2*len(rest))
	for _, v := range rest {
		out = append(out, append(append([]bool{}, v...), false))
		out = append(out, append(append([]bool{}, v...), true))
	}
	return out
}

// TestPropertyCanonicity checks property 1: two expressions built by the
// same sequence of apply calls on equal operands return identical edges.
func TestPropertyCanonicity(t *testing.T) {
	r := require.New(t)
	m, err := New(KindBDD, 3)
	r.NoError(err)
	x0, x1, x2 := m.Ithvar(0), m.Ithvar(1), m.Ithvar(2)

	f1 := m.And(m.Or(x0, x1), x2)
	f2 := m.And(m.Or(x0, x1), x2)
	r.True(m.Equal(f1, f2), "two identically-built expressions must be the same edge")

	// Built through a different but semantically equal sequence: the
	// apply engine's own recursion, not the test, is responsible for
	// reaching the same canonical edge.
	f3 := m.And(x2, m.Or(x1, x0))
	r.True(m.Equal(f1, f3), "commuted/reordered but equal expression must canonicalize identically")
}

// TestPropertyReducedness checks property 2 for BDD: no live node has
// high == low.
func TestPropertyReducedness(t *testing.T) {
	r := require.New(t)
	m, err := New(KindBDD, 3)
	r.NoError(err)
	x0, x1, x2 := m.Ithvar(0), m.Ithvar(1), m.Ithvar(2)
	f := m.Ite(x0, m.And(x1, x2), m.Or(x1, x2))
	r.False(m.Errored(), m.Error())

	err = m.Allnodes(func(id, level, low, high int) error {
		if id > 1 && m.nodes[id].low == m.nodes[id].high {
			t.Errorf("node %d at level %d is unreduced: low == high == %d", id, level, low)
		}
		return nil
	}, f)
	r.NoError(err)
}

// TestPropertyEvalRoundTrip checks property 3: eval(f,a) matches symbolic
// substitution, computed independently via nested Restrict calls.
func TestPropertyEvalRoundTrip(t *testing.T) {
	r := require.New(t)
	m, err := New(KindBDD, 3)
	r.NoError(err)
	x0, x1, x2 := m.Ithvar(0), m.Ithvar(1), m.Ithvar(2)
	f := m.Xor(m.And(x0, m.Not(x1)), x2)

	for _, a := range allAssignments(3) {
		got, ok, err := m.Eval(f, a)
		r.NoError(err)
		r.True(ok)

		sub := f
		for v, b := range a {
			sub = m.Restrict(sub, v, b)
		}
		r.True(isFalseEdge(*sub) || isTrueEdge(*sub), "full substitution must reach a terminal")
		want := int64(0)
		if isTrueEdge(*sub) {
			want = 1
		}
		r.Equal(want, got, "Eval(%v)", a)
	}
}

// TestPropertyRestrictionAgreement checks property 4: eval(restrict(f,v,b),a)
// == eval(f,a[v:=b]) for every variable, value and assignment.
func TestPropertyRestrictionAgreement(t *testing.T) {
	r := require.New(t)
	m, err := New(KindBDD, 3)
	r.NoError(err)
	x0, x1, x2 := m.Ithvar(0), m.Ithvar(1), m.Ithvar(2)
	f := m.Or(m.And(x0, x1), m.Not(x2))

	for v := 0; v < 3; v++ {
		for _, b := range []bool{false, true} {
			restricted := m.Restrict(f, v, b)
			for _, a := range allAssignments(3) {
				a2 := append([]bool{}, a...)
				a2[v] = b
				want, _, err := m.Eval(f, a2)
				r.NoError(err)
				got, _, err := m.Eval(restricted, a)
				r.NoError(err)
				r.Equal(want, got, "restrict(f,%d,%v) at %v", v, b, a)
			}
		}
	}
}

// TestPropertyCompositionAgreement checks property 5: eval(compose(f,v,g),a)
// == eval(f, a[v := eval(g,a)]).
func TestPropertyCompositionAgreement(t *testing.T) {
	r := require.New(t)
	m, err := New(KindBDD, 3)
	r.NoError(err)
	x0, x1, x2 := m.Ithvar(0), m.Ithvar(1), m.Ithvar(2)
	f := m.Or(m.And(x0, x1), x2)
	g := m.Xor(x0, x2)
	composed := m.Compose(f, 1, g)
	r.False(m.Errored(), m.Error())

	for _, a := range allAssignments(3) {
		gval, _, err := m.Eval(g, a)
		r.NoError(err)
		a2 := append([]bool{}, a...)
		a2[1] = gval != 0
		want, _, err := m.Eval(f, a2)
		r.NoError(err)
		got, _, err := m.Eval(composed, a)
		r.NoError(err)
		r.Equal(want, got, "compose(f,1,g) at %v", a)
	}
}

// TestPropertyQuantification checks property 6: eval(exist(f,v),a) ==
// eval(f,a[v:=0]) || eval(f,a[v:=1]); similarly forall with &&.
func TestPropertyQuantification(t *testing.T) {
	r := require.New(t)
	m, err := New(KindBDD, 3)
	r.NoError(err)
	x0, x1, x2 := m.Ithvar(0), m.Ithvar(1), m.Ithvar(2)
	f := m.Or(m.And(x0, x1), x2)
	set := m.Makeset([]int{1})
	exist := m.Exist(f, set)
	forall := m.Forall(f, set)
	r.False(m.Errored(), m.Error())

	for _, a := range allAssignments(3) {
		a0, a1 := append([]bool{}, a...), append([]bool{}, a...)
		a0[1], a1[1] = false, true
		v0, _, _ := m.Eval(f, a0)
		v1, _, _ := m.Eval(f, a1)

		gotE, _, err := m.Eval(exist, a)
		r.NoError(err)
		r.Equal(boolToInt(v0 != 0 || v1 != 0), gotE, "exist at %v", a)

		gotA, _, err := m.Eval(forall, a)
		r.NoError(err)
		r.Equal(boolToInt(v0 != 0 && v1 != 0), gotA, "forall at %v", a)
	}
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

// TestPropertyComplementInvolution checks property 10: !!f == f, for both a
// variable and a compound expression.
func TestPropertyComplementInvolution(t *testing.T) {
	r := require.New(t)
	m, err := New(KindBDD, 3)
	r.NoError(err)
	x0, x1, x2 := m.Ithvar(0), m.Ithvar(1), m.Ithvar(2)
	for _, f := range []Node{x0, m.And(x0, x1), m.Ite(x0, x1, x2)} {
		r.True(m.Equal(m.Not(m.Not(f)), f))
	}
}

// TestPropertyArithmeticLaws checks property 9 (commutativity and
// associativity of + and *, distributivity of * over +) for PHDD.
func TestPropertyArithmeticLaws(t *testing.T) {
	r := require.New(t)
	m, err := New(KindPHDD, 3)
	r.NoError(err)
	x0, x1, x2 := m.Ithvar(0), m.Ithvar(1), m.Ithvar(2)

	r.True(m.Equal(m.Add(x0, x1), m.Add(x1, x0)), "+ commutes")
	r.True(m.Equal(m.Mul(x0, x1), m.Mul(x1, x0)), "* commutes")

	left := m.Add(m.Add(x0, x1), x2)
	right := m.Add(x0, m.Add(x1, x2))
	for _, a := range allAssignments(3) {
		lv, _, err := m.EvalWeight(left, a)
		r.NoError(err)
		rv, _, err := m.EvalWeight(right, a)
		r.NoError(err)
		r.Equal(lv, rv, "+ associates at %v", a)
	}

	distLeft := m.Mul(x0, m.Add(x1, x2))
	distRight := m.Add(m.Mul(x0, x1), m.Mul(x0, x2))
	for _, a := range allAssignments(3) {
		lv, _, err := m.EvalWeight(distLeft, a)
		r.NoError(err)
		rv, _, err := m.EvalWeight(distRight, a)
		r.NoError(err)
		r.Equal(lv, rv, "* distributes over + at %v", a)
	}
}
