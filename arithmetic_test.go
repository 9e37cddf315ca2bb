// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package xdd

import "testing"

// TestArithmeticCommutativity checks property 9 (commutativity of + and *)
// for ADD: canonicity (property 1) means a commutative operation applied in
// either order must hash-cons to the identical edge.
func TestArithmeticCommutativity(t *testing.T) {
	m, err := New(KindADD, 2)
	if err != nil {
		t.Fatalf("New: %s", err)
	}
	x0, x1 := m.Ithvar(0), m.Ithvar(1)
	if !m.Equal(m.Add(x0, x1), m.Add(x1, x0)) {
		t.Errorf("x0+x1 should equal x1+x0")
	}
	if !m.Equal(m.Mul(x0, x1), m.Mul(x1, x0)) {
		t.Errorf("x0*x1 should equal x1*x0")
	}
}

// TestArithmeticAssociativity checks property 9 (associativity of +) for
// BMD via EvalWeight over five of the eight boolean assignments.
func TestArithmeticAssociativity(t *testing.T) {
	m, err := New(KindBMD, 3)
	if err != nil {
		t.Fatalf("New: %s", err)
	}
	x0, x1, x2 := m.Ithvar(0), m.Ithvar(1), m.Ithvar(2)
	left := m.Add(m.Add(x0, x1), x2)
	right := m.Add(x0, m.Add(x1, x2))
	if m.Errored() {
		t.Fatalf("build: %s", m.Error())
	}
	for _, a := range [][]bool{
		{false, false, false}, {true, false, false}, {false, true, false},
		{false, false, true}, {true, true, true},
	} {
		lv, _, err := m.EvalWeight(left, a)
		if err != nil {
			t.Fatalf("EvalWeight(left): %s", err)
		}
		rv, _, err := m.EvalWeight(right, a)
		if err != nil {
			t.Fatalf("EvalWeight(right): %s", err)
		}
		if lv != rv {
			t.Errorf("(x0+x1)+x2 != x0+(x1+x2) at %v: %v vs %v", a, lv, rv)
		}
	}
}

// TestArithmeticDistributivity checks property 9's distributivity of * over
// + for BMD: x0*(x1+x2) == x0*x1 + x0*x2.
func TestArithmeticDistributivity(t *testing.T) {
	m, err := New(KindBMD, 3)
	if err != nil {
		t.Fatalf("New: %s", err)
	}
	x0, x1, x2 := m.Ithvar(0), m.Ithvar(1), m.Ithvar(2)
	left := m.Mul(x0, m.Add(x1, x2))
	right := m.Add(m.Mul(x0, x1), m.Mul(x0, x2))
	if m.Errored() {
		t.Fatalf("build: %s", m.Error())
	}
	for _, a := range [][]bool{
		{false, false, false}, {true, false, false}, {false, true, false},
		{true, true, false}, {true, true, true},
	} {
		lv, _, err := m.EvalWeight(left, a)
		if err != nil {
			t.Fatalf("EvalWeight(left): %s", err)
		}
		rv, _, err := m.EvalWeight(right, a)
		if err != nil {
			t.Fatalf("EvalWeight(right): %s", err)
		}
		if lv != rv {
			t.Errorf("x0*(x1+x2) != x0*x1+x0*x2 at %v: %v vs %v", a, lv, rv)
		}
	}
}

// TestNotIsOneMinusF checks property 9's !f = 1 - f identity on an ADD: for
// the 0/1-valued f = x0*x1, 1 - f evaluates to the boolean complement of f.
func TestNotIsOneMinusF(t *testing.T) {
	m, err := New(KindADD, 2)
	if err != nil {
		t.Fatalf("New: %s", err)
	}
	x0, x1 := m.Ithvar(0), m.Ithvar(1)
	one, err := m.Constant(1)
	if err != nil {
		t.Fatalf("Constant(1): %s", err)
	}
	f := m.Mul(x0, x1)
	notF := m.Sub(one, f)
	for _, a := range [][]bool{{false, false}, {false, true}, {true, false}, {true, true}} {
		fv, _, err := m.Eval(f, a)
		if err != nil {
			t.Fatalf("Eval(f): %s", err)
		}
		nv, _, err := m.Eval(notF, a)
		if err != nil {
			t.Fatalf("Eval(notF): %s", err)
		}
		if nv != 1-fv {
			t.Errorf("1-f at %v: got %d, want %d", a, nv, 1-fv)
		}
	}
}

// TestXorIsAddMinusTwiceMul checks property 9's f xor g = f+g-2*f*g identity
// between BDD xor and the corresponding ADD arithmetic expression.
func TestXorIsAddMinusTwiceMul(t *testing.T) {
	bm, err := New(KindBDD, 2)
	if err != nil {
		t.Fatalf("New(BDD): %s", err)
	}
	bx0, bx1 := bm.Ithvar(0), bm.Ithvar(1)
	xorBDD := bm.Xor(bx0, bx1)

	am, err := New(KindADD, 2)
	if err != nil {
		t.Fatalf("New(ADD): %s", err)
	}
	ax0, ax1 := am.Ithvar(0), am.Ithvar(1)
	two, err := am.Two()
	if err != nil {
		t.Fatalf("Two: %s", err)
	}
	xorADD := am.Sub(am.Add(ax0, ax1), am.Mul(two, am.Mul(ax0, ax1)))

	for _, a := range [][]bool{{false, false}, {false, true}, {true, false}, {true, true}} {
		wantBool, _, err := bm.Eval(xorBDD, a)
		if err != nil {
			t.Fatalf("Eval(xorBDD): %s", err)
		}
		gotNum, _, err := am.Eval(xorADD, a)
		if err != nil {
			t.Fatalf("Eval(xorADD): %s", err)
		}
		if gotNum != wantBool {
			t.Errorf("xor identity at %v: arithmetic gave %d, boolean gave %d", a, gotNum, wantBool)
		}
	}
}

// TestBMDMomentScenario checks spec.md's S3 setup (BMD f = c*x0 - 20*x1 +
// 2*x2 + 4*x1*x2 with c=8) evaluates correctly at every assignment, and
// that restricting x1 produces the two linear cofactors the arithmetic
// Davio decomposition is built from.
func TestBMDMomentScenario(t *testing.T) {
	m, err := New(KindBMD, 3)
	if err != nil {
		t.Fatalf("New: %s", err)
	}
	x0, x1, x2 := m.Ithvar(0), m.Ithvar(1), m.Ithvar(2)
	c8, err := m.Constant(8)
	if err != nil {
		t.Fatalf("Constant(8): %s", err)
	}
	c20, err := m.Constant(20)
	if err != nil {
		t.Fatalf("Constant(20): %s", err)
	}
	c2, err := m.Constant(2)
	if err != nil {
		t.Fatalf("Constant(2): %s", err)
	}
	c4, err := m.Constant(4)
	if err != nil {
		t.Fatalf("Constant(4): %s", err)
	}
	f := m.Add(m.Add(m.Sub(m.Mul(c8, x0), m.Mul(c20, x1)), m.Mul(c2, x2)), m.Mul(c4, m.Mul(x1, x2)))
	if m.Errored() {
		t.Fatalf("build: %s", m.Error())
	}
	for _, tt := range []struct {
		a    []bool
		want int64
	}{
		{[]bool{false, false, false}, 0},
		{[]bool{true, false, false}, 8},
		{[]bool{false, true, false}, -20},
		{[]bool{false, false, true}, 2},
		{[]bool{false, true, true}, -14}, // -20 + 2 + 4
		{[]bool{true, true, true}, -6},   // 8 - 20 + 2 + 4
	} {
		v, ok, err := m.EvalWeight(f, tt.a)
		if err != nil || !ok {
			t.Fatalf("EvalWeight(%v): err=%s ok=%v", tt.a, err, ok)
		}
		if v.den != 1 || v.num != tt.want {
			t.Errorf("f(%v) = %d/%d, want %d", tt.a, v.num, v.den, tt.want)
		}
	}

	r0 := m.Restrict(f, 1, false) // 8*x0 + 2*x2
	r1 := m.Restrict(f, 1, true)  // 8*x0 - 20 + 6*x2
	for _, tt := range []struct {
		x0, x2 bool
		want0  int64
		want1  int64
	}{
		{false, false, 0, -20},
		{true, false, 8, -12},
		{false, true, 2, -14},
		{true, true, 10, -6},
	} {
		// x1 is irrelevant to r0/r1 (restricted away), so any value works;
		// Eval/EvalWeight still require one full-length assignment.
		a := []bool{tt.x0, false, tt.x2}
		v0, _, err := m.EvalWeight(r0, a)
		if err != nil {
			t.Fatalf("EvalWeight(r0): %s", err)
		}
		if v0.num != tt.want0 || v0.den != 1 {
			t.Errorf("f[x1:=0](%v,%v) = %d/%d, want %d", tt.x0, tt.x2, v0.num, v0.den, tt.want0)
		}
		v1, _, err := m.EvalWeight(r1, a)
		if err != nil {
			t.Fatalf("EvalWeight(r1): %s", err)
		}
		if v1.num != tt.want1 || v1.den != 1 {
			t.Errorf("f[x1:=1](%v,%v) = %d/%d, want %d", tt.x0, tt.x2, v1.num, v1.den, tt.want1)
		}
	}
}
