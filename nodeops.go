// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package xdd

// makenode is the variant-dispatching entry point for C2's "reduce, then
// normalize, then intern" recipe. Every recursive algorithm builds new nodes
// exclusively through this function (or through makeconst for algebraic
// leaves); nothing downstream of it ever calls intern directly, so the
// reduction and normalization rules below are the only place a variant's
// canonical form is defined.
func (m *Manager) makenode(level int32, lo, hi Edge) (Edge, error) {
	switch m.kind {
	case KindBDD:
		return m.makeComplementedNode(level, lo, hi, false)
	case KindBHD:
		return m.makeComplementedNode(level, lo, hi, true)
	case KindADD, KindMTBDD:
		return m.makePlainNode(level, lo, hi)
	case KindBMD, KindPHDD:
		return m.makeWeightedNode(level, lo, hi)
	case KindKFDD:
		return m.makeKFDDNode(level, lo, hi)
	}
	return Edge{}, m.setkindErr(errInvalidArg, "unknown manager kind")
}

// setkindErr is setkind's error-returning twin: makenode and friends return
// an Edge, not a Node, on the error path, so they cannot reuse setkind
// directly (it returns Node).
func (m *Manager) setkindErr(kind error, format string, a ...interface{}) error {
	m.setkind(kind, format, a...)
	return m.error
}

// makeComplementedNode implements reduction and normalization for the two
// complement-edge variants (BDD, BHD). Reduction: a node whose two children
// are the same edge (same target, same complement bit, same exp bit) is
// redundant and collapses to that edge. Normalization: at most one of a
// node's incoming representations is complemented, so we push the
// complement bit onto the low child up into the returned edge whenever the
// low child would otherwise be complemented; nodes with an exp child skip
// this step entirely; BHD's exp terminal has no complement of its own, so
// normalizing around it would not be meaningful.
func (m *Manager) makeComplementedNode(level int32, lo, hi Edge, allowExp bool) (Edge, error) {
	if lo == hi {
		return lo, nil
	}
	if allowExp && (lo.exp || hi.exp) {
		n, err := m.intern(level, lo, hi)
		if err != nil && err != errReset && err != errResize {
			return Edge{}, err
		}
		return plain(n), nil
	}
	flip := lo.comp
	lo2, hi2 := lo, hi
	if flip {
		lo2, hi2 = lo.negate(), hi.negate()
	}
	n, err := m.intern(level, lo2, hi2)
	if err != nil && err != errReset && err != errResize {
		return Edge{}, err
	}
	res := plain(n)
	if flip {
		res = res.negate()
	}
	return res, nil
}

// makePlainNode implements reduction for the undecorated algebraic variants
// (ADD, MTBDD): equal children collapse, otherwise intern as-is. There is no
// normalization step since these edges carry no decoration to canonicalize.
func (m *Manager) makePlainNode(level int32, lo, hi Edge) (Edge, error) {
	if lo == hi {
		return lo, nil
	}
	n, err := m.intern(level, lo, hi)
	if err != nil && err != errReset && err != errResize {
		return Edge{}, err
	}
	return plain(n), nil
}

// makeWeightedNode implements reduction and normalization for the two
// moment-weighted variants (BMD, PHDD). A weight-zero edge always denotes
// the additive identity, so it is first canonicalized to point at idZero
// (this keeps equality and hashing simple: there is only one representation
// of "contributes nothing"). Reduction then applies when the two children
// are identical edges. Otherwise we factor a normalizing weight out of the
// two children and it becomes the weight of the edge returned to the
// caller. For BMD with two non-zero children that weight is the GCD of the
// two integer child weights, carrying the low child's sign; in every other
// case it is the low child's weight if non-zero, the high child's
// otherwise, so that child ends up with weight 1 (a zero child stays zero).
func (m *Manager) makeWeightedNode(level int32, lo, hi Edge) (Edge, error) {
	lo = canonicalizeZeroWeight(lo)
	hi = canonicalizeZeroWeight(hi)
	if lo == hi {
		return lo, nil
	}
	pivot := lo.w
	pivotIsLow := true
	if lo.w.num == 0 {
		pivot = hi.w
		pivotIsLow = false
	}
	if pivot.num == 0 {
		// Both children are the zero edge but point at different targets;
		// since weight zero always means idZero after canonicalization,
		// lo == hi would already have caught this. Unreachable in
		// practice, kept as a defensive fallback returning idZero.
		return Edge{target: idZero}, nil
	}
	if m.kind == KindBMD && lo.w.num != 0 && hi.w.num != 0 {
		// Integer weights: factor out the GCD of the two child weights,
		// with the low child's sign, so both quotients are exact.
		g := gcdInt64(abs64(lo.w.num), abs64(hi.w.num))
		if lo.w.num < 0 {
			g = -g
		}
		pivot = weight{num: g, den: 1}
	}
	loNorm, hiNorm := lo, hi
	if pivotIsLow {
		loNorm.w = divideWeight(lo.w, pivot, m.kind)
		if hi.w.num != 0 {
			hiNorm.w = divideWeight(hi.w, pivot, m.kind)
		}
	} else {
		hiNorm = hi.withWeight(1, 1)
		if lo.w.num != 0 {
			loNorm.w = divideWeight(lo.w, pivot, m.kind)
		}
	}
	n, err := m.intern(level, loNorm, hiNorm)
	if err != nil && err != errReset && err != errResize {
		return Edge{}, err
	}
	return plain(n).withWeight(pivot.num, pivot.den), nil
}

func canonicalizeZeroWeight(e Edge) Edge {
	if e.w.num == 0 {
		return Edge{target: idZero}
	}
	return e
}

// divideWeight returns e.w, the weight of edge e, applied on top of a
// child that already carries weight pivot, i.e. it returns the remaining
// weight e/pivot so that factoring pivot back out reproduces e. BMD keeps
// den pinned to 1 (integer weights); PHDD allows a genuine rational.
func divideWeight(e, pivot weight, kind Kind) weight {
	num, den := normalizeRatio(e.num*pivot.den, e.den*pivot.num)
	if kind == KindBMD && den != 1 {
		// BMD weights are integers. makeWeightedNode divides by the GCD
		// of the two child weights, so this branch is not reached from
		// there; an inexact division is truncated toward zero.
		return weight{num: e.num / pivot.num, den: 1}
	}
	return weight{num: num, den: den}
}
