// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package xdd

import "testing"

// TestSetDecompPreservesFunction checks that flipping a variable's
// decomposition tag never changes the function represented by any live
// edge already built over that variable (spec: change_decomposition).
func TestSetDecompPreservesFunction(t *testing.T) {
	m, err := New(KindKFDD, 3)
	if err != nil {
		t.Fatalf("New: %s", err)
	}
	x0, x1, x2 := m.Ithvar(0), m.Ithvar(1), m.Ithvar(2)
	f := m.Or(m.And(x0, x1), m.Not(x2))
	if m.Errored() {
		t.Fatalf("build: %s", m.Error())
	}

	assignments := [][]bool{
		{false, false, false}, {false, false, true},
		{false, true, false}, {false, true, true},
		{true, false, false}, {true, false, true},
		{true, true, false}, {true, true, true},
	}
	before := make([]int64, len(assignments))
	for i, a := range assignments {
		v, ok, err := m.Eval(f, a)
		if err != nil || !ok {
			t.Fatalf("Eval(%v): err=%s ok=%v", a, err, ok)
		}
		before[i] = v
	}

	for id, d := range map[int]Decomp{0: PosDavio, 1: NegDavio, 2: Shannon} {
		if err := m.SetDecomp(id, d); err != nil {
			t.Fatalf("SetDecomp(%d,%v): %s", id, d, err)
		}
	}

	for i, a := range assignments {
		v, ok, err := m.Eval(f, a)
		if err != nil || !ok {
			t.Fatalf("Eval(%v) after SetDecomp: err=%s ok=%v", a, err, ok)
		}
		if v != before[i] {
			t.Errorf("Eval(%v) changed after SetDecomp: was %d, now %d", a, before[i], v)
		}
	}
}

// TestKFDDReducedness checks property 2 for KFDD: no live Davio node has its
// "difference" child equal to the zero edge (the reduction rule
// makeKFDDNode enforces on every node it builds).
func TestKFDDReducedness(t *testing.T) {
	m, err := New(KindKFDD, 3)
	if err != nil {
		t.Fatalf("New: %s", err)
	}
	if err := m.SetDecomp(1, PosDavio); err != nil {
		t.Fatalf("SetDecomp: %s", err)
	}
	if err := m.SetDecomp(2, NegDavio); err != nil {
		t.Fatalf("SetDecomp: %s", err)
	}
	x0, x1, x2 := m.Ithvar(0), m.Ithvar(1), m.Ithvar(2)
	f := m.Xor(m.And(x0, x1), x2)
	if m.Errored() {
		t.Fatalf("build: %s", m.Error())
	}
	err = m.Allnodes(func(id, level, low, high int) error {
		if id < 2 || level >= m.Varnum() {
			return nil
		}
		varid := m.leveltovar(int32(level))
		switch m.varDecomp(int(varid)) {
		case PosDavio:
			if high == idZero {
				t.Errorf("node %d: PosDavio node has zero high child", id)
			}
		case NegDavio:
			if low == idZero {
				t.Errorf("node %d: NegDavio node has zero low child", id)
			}
		}
		return nil
	}, f)
	if err != nil {
		t.Fatalf("Allnodes: %s", err)
	}
}
