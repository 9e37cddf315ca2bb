// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package xdd

import (
	"testing"
)

// TestScenarioS1 checks spec.md's S1: BDD with variables x0, x1; f = x0 AND x1.
func TestScenarioS1(t *testing.T) {
	m, err := New(KindBDD, 2)
	if err != nil {
		t.Fatalf("New: %s", err)
	}
	x0, x1 := m.Ithvar(0), m.Ithvar(1)
	f := m.And(x0, x1)
	cases := []struct {
		a        []bool
		expected int64
	}{
		{[]bool{false, false}, 0},
		{[]bool{false, true}, 0},
		{[]bool{true, false}, 0},
		{[]bool{true, true}, 1},
	}
	for _, c := range cases {
		v, ok, err := m.Eval(f, c.a)
		if err != nil || !ok {
			t.Fatalf("Eval(%v): err=%s ok=%v", c.a, err, ok)
		}
		if v != c.expected {
			t.Errorf("Eval(%v) = %d, want %d", c.a, v, c.expected)
		}
	}
}

// TestScenarioS2 checks spec.md's S2: BDD f = !(x0 or x1) and x2; g =
// compose(f, 1, x3 and x4). Variable 1 (x1) is composed away, so it must no
// longer be essential in g, while the variables that feed the substituted
// function (x3, x4) become essential.
func TestScenarioS2(t *testing.T) {
	m, err := New(KindBDD, 3)
	if err != nil {
		t.Fatalf("New: %s", err)
	}
	x0, x1, x2 := m.Ithvar(0), m.Ithvar(1), m.Ithvar(2)
	x3, err := m.Var("x3")
	if err != nil {
		t.Fatalf("Var(x3): %s", err)
	}
	x4, err := m.Var("x4")
	if err != nil {
		t.Fatalf("Var(x4): %s", err)
	}
	f := m.And(m.Not(m.Or(x0, x1)), x2)
	g := m.Compose(f, 1, m.And(x3, x4))
	if m.Errored() {
		t.Fatalf("build: %s", m.Error())
	}
	for id, want := range map[int]bool{1: false, 3: true, 4: true} {
		got, err := m.IsEssential(g, id)
		if err != nil {
			t.Fatalf("IsEssential(g, %d): %s", id, err)
		}
		if got != want {
			t.Errorf("IsEssential(g, %d) = %v, want %v", id, got, want)
		}
	}
}

// TestScenarioS5 checks spec.md's S5: KFDD with x0:Shannon, x1:pD, x2:nD;
// f = x0 and x1 and x2.
func TestScenarioS5(t *testing.T) {
	m, err := New(KindKFDD, 3)
	if err != nil {
		t.Fatalf("New: %s", err)
	}
	if err := m.SetDecomp(0, Shannon); err != nil {
		t.Fatalf("SetDecomp(0): %s", err)
	}
	if err := m.SetDecomp(1, PosDavio); err != nil {
		t.Fatalf("SetDecomp(1): %s", err)
	}
	if err := m.SetDecomp(2, NegDavio); err != nil {
		t.Fatalf("SetDecomp(2): %s", err)
	}
	x0, x1, x2 := m.Ithvar(0), m.Ithvar(1), m.Ithvar(2)
	f := m.And(m.And(x0, x1), x2)
	if m.Errored() {
		t.Fatalf("build: %s", m.Error())
	}
	r0 := m.Restrict(f, 0, false)
	if !m.Equal(r0, m.Zero()) {
		t.Errorf("restrict(f, 0, false) should be zero")
	}
	v, ok, err := m.Eval(f, []bool{true, true, true})
	if err != nil || !ok {
		t.Fatalf("Eval: err=%s ok=%v", err, ok)
	}
	if v != 1 {
		t.Errorf("Eval(f, [T,T,T]) = %d, want 1", v)
	}
}

// TestScenarioS6 checks spec.md's S6: ADD f = x0 + x1 + 4*x2.
func TestScenarioS6(t *testing.T) {
	m, err := New(KindADD, 3)
	if err != nil {
		t.Fatalf("New: %s", err)
	}
	x0, x1, x2 := m.Ithvar(0), m.Ithvar(1), m.Ithvar(2)
	four, err := m.Constant(4)
	if err != nil {
		t.Fatalf("Constant(4): %s", err)
	}
	f := m.Add(m.Add(x0, x1), m.Mul(four, x2))
	if m.Errored() {
		t.Fatalf("build: %s", m.Error())
	}
	pc, err := m.PathCount(f)
	if err != nil {
		t.Fatalf("PathCount: %s", err)
	}
	if pc != 8 {
		t.Errorf("PathCount(f) = %d, want 8", pc)
	}
	if _, err := m.Size(f); err != nil {
		t.Fatalf("Size: %s", err)
	}
	x3, err := m.Var("x3")
	if err != nil {
		t.Fatalf("Var(x3): %s", err)
	}
	_ = x3
	essential, err := m.IsEssential(f, 3)
	if err != nil {
		t.Fatalf("IsEssential(f, 3): %s", err)
	}
	if essential {
		t.Errorf("IsEssential(f, 3) = true, want false")
	}
}

// TestBooleanConnectives mirrors the teacher's TestOperations: builds every
// binary connective over a handful of BDD variables and cross-checks the
// identities that hold for every assignment via Allsat, rather than a fixed
// enumeration.
func TestBooleanConnectives(t *testing.T) {
	m, err := New(KindBDD, 4)
	if err != nil {
		t.Fatalf("New: %s", err)
	}
	x := make([]Node, 4)
	for i := range x {
		x[i] = m.Ithvar(i)
	}
	f := m.And(x[0], x[1])
	g := m.Or(x[2], x[3])

	ite := m.Ite(f, g, m.Not(g))
	alt := m.Or(m.And(f, g), m.And(m.Not(f), m.Not(g)))
	if !m.Equal(ite, alt) {
		t.Errorf("ite(f,g,!g) should equal (f and g) or (!f and !g)")
	}

	if !m.Equal(m.Not(m.Not(f)), f) {
		t.Errorf("!!f should equal f (complement involution)")
	}

	xorFG := m.Xor(f, g)
	direct := m.Or(m.And(f, m.Not(g)), m.And(m.Not(f), g))
	if !m.Equal(xorFG, direct) {
		t.Errorf("f xor g should equal (f and !g) or (!f and g)")
	}
}

// TestRestrictComposeAgreement checks properties 4 and 5 from spec.md §8:
// eval(restrict(f,v,b),a) = eval(f,a[v:=b]) and the composition analogue.
func TestRestrictComposeAgreement(t *testing.T) {
	m, err := New(KindBDD, 3)
	if err != nil {
		t.Fatalf("New: %s", err)
	}
	x0, x1, x2 := m.Ithvar(0), m.Ithvar(1), m.Ithvar(2)
	f := m.Or(m.And(x0, x1), m.Not(x2))

	for _, b := range []bool{false, true} {
		r := m.Restrict(f, 1, b)
		for _, a2 := range []bool{false, true} {
			want, _, err := m.Eval(f, []bool{true, b, a2})
			if err != nil {
				t.Fatalf("Eval: %s", err)
			}
			got, _, err := m.Eval(r, []bool{true, !b, a2})
			if err != nil {
				t.Fatalf("restricted Eval: %s", err)
			}
			if got != want {
				t.Errorf("restrict(f,1,%v) disagrees with f at a2=%v: got %d want %d", b, a2, got, want)
			}
		}
	}

	g := x2
	composed := m.Compose(f, 1, g)
	for _, a0 := range []bool{false, true} {
		for _, a2 := range []bool{false, true} {
			gval, _, _ := m.Eval(g, []bool{a0, false, a2})
			want, _, _ := m.Eval(f, []bool{a0, gval != 0, a2})
			got, _, err := m.Eval(composed, []bool{a0, false, a2})
			if err != nil {
				t.Fatalf("Eval(composed): %s", err)
			}
			if got != want {
				t.Errorf("compose(f,1,g) disagrees at a0=%v,a2=%v: got %d want %d", a0, a2, got, want)
			}
		}
	}
}

// TestQuantification checks property 6: eval(exist(f,v),a) = eval(f,a[v:=0])
// or eval(f,a[v:=1]); similarly forall.
func TestQuantification(t *testing.T) {
	m, err := New(KindBDD, 2)
	if err != nil {
		t.Fatalf("New: %s", err)
	}
	x0, x1 := m.Ithvar(0), m.Ithvar(1)
	f := m.And(x0, x1)
	set := m.Makeset([]int{0})

	exist := m.Exist(f, set)
	r0, r1 := m.Restrict(f, 0, false), m.Restrict(f, 0, true)
	want := m.Or(r0, r1)
	if !m.Equal(exist, want) {
		t.Errorf("exist(f,{x0}) should equal restrict(f,0,false) or restrict(f,0,true)")
	}

	forall := m.Forall(f, set)
	wantAll := m.And(r0, r1)
	if !m.Equal(forall, wantAll) {
		t.Errorf("forall(f,{x0}) should equal restrict(f,0,false) and restrict(f,0,true)")
	}
}

// TestHasConstAndAllsat checks HasConst and that Allsat enumerates exactly
// the satisfying assignments Satcount reports.
func TestHasConstAndAllsat(t *testing.T) {
	m, err := New(KindBDD, 2)
	if err != nil {
		t.Fatalf("New: %s", err)
	}
	x0, x1 := m.Ithvar(0), m.Ithvar(1)
	f := m.And(x0, x1)

	has1, err := m.HasConst(f, 1)
	if err != nil || !has1 {
		t.Errorf("HasConst(f,1) = %v, %s, want true", has1, err)
	}
	has0, err := m.HasConst(f, 0)
	if err != nil || !has0 {
		t.Errorf("HasConst(f,0) = %v, %s, want true", has0, err)
	}

	count := 0
	err = m.Allsat(f, func(prof []int) error {
		count++
		return nil
	})
	if err != nil {
		t.Fatalf("Allsat: %s", err)
	}
	if count != 1 {
		t.Errorf("Allsat found %d profiles for x0 and x1, want 1", count)
	}
	sc := m.Satcount(f)
	if sc.Int64() != 1 {
		t.Errorf("Satcount(f) = %s, want 1", sc)
	}
}
