// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package xdd

// Eval computes the value of n under a complete variable assignment,
// indexed by variable id (assignment[id] gives the value of variable id).
// For boolean-valued managers the returned value is 0 or 1. For BHD, when
// the path the assignment selects ends at the "don't-know" exp terminal,
// ok is false and the returned value is 0; where exp can appear at all is
// decided when Apply builds the diagram (see expShortCircuit). BMD and PHDD
// are evaluated in moment form, as EvalWeight does.
func (m *Manager) Eval(n Node, assignment []bool) (int64, bool, error) {
	if err := m.checkptr(n); err != nil {
		return 0, false, err
	}
	if len(assignment) != len(m.vars) {
		return 0, false, m.setkindErr(errInvalidArg, "assignment has wrong length")
	}
	eval := m.eval
	if m.kind == KindBMD || m.kind == KindPHDD {
		eval = m.evalWeighted
	}
	e, err := eval(*n, assignment)
	if err != nil {
		return 0, false, err
	}
	if e.exp {
		return 0, false, nil
	}
	if boolKind(m.kind) {
		return int64(boolOf(e)), true, nil
	}
	v := m.termOf(e)
	if v.den == 1 {
		return v.num, true, nil
	}
	return 0, false, m.setkindErr(errInvalidArg, "non-integral terminal value %d/%d", v.num, v.den)
}

// EvalWeight is Eval's counterpart for the moment variants (BMD, PHDD),
// returning the exact rational value carried by the terminal edge reached.
func (m *Manager) EvalWeight(n Node, assignment []bool) (weight, bool, error) {
	if err := m.checkptr(n); err != nil {
		return weight{}, false, err
	}
	if m.kind != KindBMD && m.kind != KindPHDD {
		return weight{}, false, m.setkindErr(errInvalidArg, "EvalWeight is only meaningful for BMD/PHDD managers")
	}
	if len(assignment) != len(m.vars) {
		return weight{}, false, m.setkindErr(errInvalidArg, "assignment has wrong length")
	}
	e, err := m.evalWeighted(*n, assignment)
	if err != nil {
		return weight{}, false, err
	}
	return m.termOf(e), true, nil
}

func (m *Manager) eval(e Edge, assignment []bool) (Edge, error) {
	if e.exp || e.target < 2 || m.isTerminal(e) {
		return e, nil
	}
	level := m.level(e.target)
	c0, c1, err := m.cofactor(e, level)
	if err != nil {
		return Edge{}, err
	}
	if assignment[m.leveltovar(level)] {
		return m.eval(c1, assignment)
	}
	return m.eval(c0, assignment)
}

// evalWeighted is eval's counterpart for BMD/PHDD, where the edge weight
// accumulates multiplicatively along the path instead of being resolved by
// a Shannon cofactor (the arithmetic Davio children are already scaled by
// the edge they hang off, see momentChild in arithmetic.go).
func (m *Manager) evalWeighted(e Edge, assignment []bool) (Edge, error) {
	if e.target == idZero {
		return e, nil
	}
	if m.level(e.target) == int32(len(m.vars)) {
		return m.weightedConst(e.w), nil
	}
	level := m.level(e.target)
	lo, hi := m.momentChild(e, level)
	var next Edge
	var err error
	if assignment[m.leveltovar(level)] {
		next, err = m.momentAdd(lo, hi)
	} else {
		next = lo
	}
	if err != nil {
		return Edge{}, err
	}
	return m.evalWeighted(next, assignment)
}
