// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package xdd

import "testing"

// TestBHDNoHeuristicIsExact checks that a BHD manager with no heuristic
// configured never spontaneously produces the exp terminal: every
// assignment resolves to an ordinary boolean value.
func TestBHDNoHeuristicIsExact(t *testing.T) {
	m, err := New(KindBHD, 2)
	if err != nil {
		t.Fatalf("New: %s", err)
	}
	x0, x1 := m.Ithvar(0), m.Ithvar(1)
	f := m.Ite(x0, x1, m.Not(x1))
	if m.Errored() {
		t.Fatalf("build: %s", m.Error())
	}
	for _, a := range [][]bool{{false, false}, {false, true}, {true, false}, {true, true}} {
		_, ok, err := m.Eval(f, a)
		if err != nil {
			t.Fatalf("Eval(%v): %s", a, err)
		}
		if !ok {
			t.Errorf("Eval(%v) = not ok, want a determined boolean (no heuristic configured)", a)
		}
	}
}

// TestBHDLevelHeuristicDeclines checks spec.md's BHD "don't know" mechanism
// (config.go's LevelHeuristic): once a subproblem's recursion depth reaches
// the configured bound, Ite substitutes the exp terminal instead of
// expanding further, and Eval reports that result as undetermined (ok ==
// false), as eval.go documents for a path that ends at exp.
func TestBHDLevelHeuristicDeclines(t *testing.T) {
	m, err := New(KindBHD, 2, LevelHeuristic(0))
	if err != nil {
		t.Fatalf("New: %s", err)
	}
	x0, x1 := m.Ithvar(0), m.Ithvar(1)
	f := m.Ite(x0, x1, m.Not(x1))
	if m.Errored() {
		t.Fatalf("build: %s", m.Error())
	}
	_, ok, err := m.Eval(f, []bool{true, true})
	if err != nil {
		t.Fatalf("Eval: %s", err)
	}
	if ok {
		t.Errorf("Eval with LevelHeuristic(0) should be undetermined (exp), got a definite value")
	}
}
