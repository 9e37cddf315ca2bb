// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package xdd

import (
	"math"

	"golang.org/x/exp/constraints"
)

// normalizeRatio reduces num/den to lowest terms with a strictly positive
// denominator. Shared by BMD's integer weights and PHDD's rational weights
// (divideWeight, nodeops.go): weight canonicalization is the one piece of
// §9's "weight canonicization" rule that is genuinely generic across the
// two moment variants, so it is written once instead of duplicated per
// variant's own integer/rational representation.
func normalizeRatio[T constraints.Signed](num, den T) (T, T) {
	if den < 0 {
		num, den = -num, -den
	}
	if num == 0 {
		return 0, 1
	}
	if g := gcdT(absT(num), den); g > 1 {
		num, den = num/g, den/g
	}
	return num, den
}

func gcdT[T constraints.Integer](a, b T) T {
	for b != 0 {
		a, b = b, a%b
	}
	if a == 0 {
		return 1
	}
	return a
}

func absT[T constraints.Signed](x T) T {
	if x < 0 {
		return -x
	}
	return x
}

// Add returns the pointwise sum of left and right (ADD, MTBDD, BMD, PHDD
// only: arithmetic has no meaning for the purely boolean variants).
func (m *Manager) Add(left, right Node) Node {
	return m.arith(left, right, ARadd)
}

// Sub returns the pointwise difference left - right.
func (m *Manager) Sub(left, right Node) Node {
	return m.arith(left, right, ARsub)
}

// Mul returns the pointwise product of left and right.
func (m *Manager) Mul(left, right Node) Node {
	return m.arith(left, right, ARmul)
}

func (m *Manager) arith(left, right Node, op ArithOp) Node {
	if m.kind != KindADD && m.kind != KindMTBDD && m.kind != KindBMD && m.kind != KindPHDD {
		return m.setkind(errInvalidArg, "arithmetic is only meaningful for numeric managers")
	}
	if err := m.checkptr(left); err != nil {
		return nil
	}
	if err := m.checkptr(right); err != nil {
		return nil
	}
	m.arithcache.op = op
	m.initref()
	m.pushref(left.target)
	m.pushref(right.target)
	var res Edge
	var err error
	if m.kind == KindADD || m.kind == KindMTBDD {
		res, err = m.arithShannon(*left, *right, op)
	} else {
		res, err = m.arithMoment(*left, *right, op)
	}
	m.popref(2)
	if err != nil {
		m.setkind(errOverflow, "%s: %s", op, err)
		return nil
	}
	return m.retnode(res)
}

// *************************************************************************
// ADD / MTBDD: Shannon-decomposed decision diagrams over numeric terminals,
// combined through ordinary apply-style recursion.

func (m *Manager) arithShannon(left, right Edge, op ArithOp) (Edge, error) {
	if m.isTerminal(left) && m.isTerminal(right) {
		v, err := combineScalar(m.termOf(left), m.termOf(right), op)
		if err != nil {
			return Edge{}, err
		}
		return m.makeconst(v)
	}
	if res, ok := m.arithcache.matcharith(left, right); ok {
		return res, nil
	}
	level := m.topLevel(left, right)
	c0l, c1l := m.shannonChild(left, level)
	c0r, c1r := m.shannonChild(right, level)
	r0, err := m.arithShannon(c0l, c0r, op)
	if err != nil {
		return Edge{}, err
	}
	m.pushref(r0.target)
	r1, err := m.arithShannon(c1l, c1r, op)
	m.popref(1)
	if err != nil {
		return Edge{}, err
	}
	m.pushref(r0.target)
	m.pushref(r1.target)
	res, err := m.makenode(level, r0, r1)
	m.popref(2)
	if err != nil {
		return Edge{}, err
	}
	return m.arithcache.setarith(left, right, res), nil
}

// shannonChild returns e's (low,high) children at level, or (e,e) if e does
// not depend on the variable at that level.
func (m *Manager) shannonChild(e Edge, level int32) (Edge, Edge) {
	if m.isTerminal(e) || m.level(e.target) != level {
		return e, e
	}
	n := m.nodes[e.target]
	return n.low, n.high
}

func combineScalar(a, b weight, op ArithOp) (weight, error) {
	switch op {
	case ARadd:
		return addWeight(a, b)
	case ARsub:
		return addWeight(a, weight{num: -b.num, den: b.den})
	case ARmul:
		return mulWeight(a, b)
	}
	return weight{}, errInvalidArg
}

// *************************************************************************
// BMD / PHDD: edges already carry an arithmetic positive-Davio decomposition
// (f = low + x*high, scaled by the edge's own weight), so addition and
// multiplication recurse directly on (low,high) instead of going through a
// Shannon conversion: addition is linear in that decomposition (the sum of
// two moment forms is the componentwise sum of their low/high parts) and
// multiplication follows the standard BMD recursion f*g = f0*g0 +
// x*(f0*g1 + f1*g0 + f1*g1), which is valid because x is boolean-valued and
// so x*x = x.

func (m *Manager) arithMoment(left, right Edge, op ArithOp) (Edge, error) {
	switch op {
	case ARadd:
		return m.momentAdd(left, right)
	case ARsub:
		return m.momentAdd(left, m.negateWeight(right))
	case ARmul:
		return m.momentMul(left, right)
	}
	return Edge{}, errInvalidArg
}

func (m *Manager) negateWeight(e Edge) Edge {
	if e.target == idZero {
		return e
	}
	return e.withWeight(-e.w.num, e.w.den)
}

// momentChild returns the low/high Davio children of e at level, with e's
// own weight already factored in, or (e,idZero) if e does not depend on the
// variable at that level (a function that skips a variable has no moment
// term there).
func (m *Manager) momentChild(e Edge, level int32) (Edge, Edge) {
	if e.target == idZero {
		return plain(idZero), plain(idZero)
	}
	if m.level(e.target) != level {
		return e, plain(idZero)
	}
	n := m.nodes[e.target]
	return scaleWeight(n.low, e.w), scaleWeight(n.high, e.w)
}

func scaleWeight(e Edge, factor weight) Edge {
	if e.target == idZero {
		return e
	}
	return e.withWeight(e.w.num*factor.num, e.w.den*factor.den)
}

func (m *Manager) momentAdd(left, right Edge) (Edge, error) {
	if left.target == idZero {
		return right, nil
	}
	if right.target == idZero {
		return left, nil
	}
	if m.isTerminal(left) && m.isTerminal(right) {
		v, err := addWeight(m.termOf(left), m.termOf(right))
		if err != nil {
			return Edge{}, err
		}
		return m.weightedConst(v), nil
	}
	if res, ok := m.arithcache.lookup(left, right, momentAddTag); ok {
		return res, nil
	}
	level := m.topLevel(left, right)
	lo1, hi1 := m.momentChild(left, level)
	lo2, hi2 := m.momentChild(right, level)
	lo, err := m.momentAdd(lo1, lo2)
	if err != nil {
		return Edge{}, err
	}
	m.pushref(lo.target)
	hi, err := m.momentAdd(hi1, hi2)
	m.popref(1)
	if err != nil {
		return Edge{}, err
	}
	m.pushref(lo.target)
	m.pushref(hi.target)
	res, err := m.makeWeightedNode(level, lo, hi)
	m.popref(2)
	if err != nil {
		return Edge{}, err
	}
	return m.arithcache.store(left, right, momentAddTag, res), nil
}

// momentAddTag/momentMulTag tag the moment-variant internal add/multiply
// recursions in the shared arith cache, distinct from each other and from
// the (left,right,op) tags arithShannon uses for ADD/MTBDD, so a sub-add
// performed while computing a Mul can never be handed back as if it were a
// Mul result (or vice versa) for the same pair of operands.
const (
	momentAddTag = 1 << 20
	momentMulTag = (1 << 20) + 1
)

func (m *Manager) momentMul(left, right Edge) (Edge, error) {
	if left.target == idZero || right.target == idZero {
		return plain(idZero), nil
	}
	if m.isTerminal(left) && m.isTerminal(right) {
		v, err := mulWeight(m.termOf(left), m.termOf(right))
		if err != nil {
			return Edge{}, err
		}
		return m.weightedConst(v), nil
	}
	if res, ok := m.arithcache.lookup(left, right, momentMulTag); ok {
		return res, nil
	}
	level := m.topLevel(left, right)
	lo1, hi1 := m.momentChild(left, level)
	lo2, hi2 := m.momentChild(right, level)

	a, err := m.momentMul(lo1, lo2) // f0*g0
	if err != nil {
		return Edge{}, err
	}
	m.pushref(a.target)
	b, err := m.momentMul(lo1, hi2) // f0*g1
	m.popref(1)
	if err != nil {
		return Edge{}, err
	}
	m.pushref(a.target)
	m.pushref(b.target)
	c, err := m.momentMul(hi1, lo2) // f1*g0
	m.popref(2)
	if err != nil {
		return Edge{}, err
	}
	m.pushref(a.target)
	m.pushref(b.target)
	m.pushref(c.target)
	d, err := m.momentMul(hi1, hi2) // f1*g1
	m.popref(3)
	if err != nil {
		return Edge{}, err
	}
	m.pushref(a.target)
	bc, err := m.momentAdd(b, c)
	m.popref(1)
	if err != nil {
		return Edge{}, err
	}
	m.pushref(a.target)
	m.pushref(bc.target)
	hi, err := m.momentAdd(bc, d)
	m.popref(2)
	if err != nil {
		return Edge{}, err
	}
	m.pushref(a.target)
	m.pushref(hi.target)
	res, err := m.makeWeightedNode(level, a, hi)
	m.popref(2)
	if err != nil {
		return Edge{}, err
	}
	return m.arithcache.store(left, right, momentMulTag, res), nil
}

// weightedConst returns the edge denoting scalar v for a BMD/PHDD manager:
// idZero for the additive identity, idOne decorated with v otherwise.
func (m *Manager) weightedConst(v weight) Edge {
	if v.num == 0 {
		return plain(idZero)
	}
	return plain(idOne).withWeight(v.num, v.den)
}

func addWeight(a, b weight) (weight, error) {
	num, err := addOverflow(a.num*b.den, b.num*a.den)
	if err != nil {
		return weight{}, err
	}
	den, err := mulOverflow(a.den, b.den)
	if err != nil {
		return weight{}, err
	}
	return plain(idZero).withWeight(num, den).w, nil
}

func mulWeight(a, b weight) (weight, error) {
	num, err := mulOverflow(a.num, b.num)
	if err != nil {
		return weight{}, err
	}
	den, err := mulOverflow(a.den, b.den)
	if err != nil {
		return weight{}, err
	}
	return plain(idZero).withWeight(num, den).w, nil
}

func addOverflow(a, b int64) (int64, error) {
	r := a + b
	if (a > 0 && b > 0 && r < 0) || (a < 0 && b < 0 && r > 0) {
		return 0, errOverflow
	}
	return r, nil
}

func mulOverflow(a, b int64) (int64, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}
	r := a * b
	if r/b != a || (a == math.MinInt64 && b == -1) {
		return 0, errOverflow
	}
	return r, nil
}
