// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package xdd

// Restrict sets variable id to the constant value (false or true) in n and
// returns the resulting edge: the variable disappears from the support of
// the result. Uses the single-operand misc cache tagged tagRESTRICT, keyed
// on n alone — the (id,value) pair is folded into the tag via restrictid so
// a restriction of a different variable or polarity never collides with a
// cached one.
func (m *Manager) Restrict(n Node, id int, value bool) Node {
	if err := m.checkptr(n); err != nil {
		return nil
	}
	if id < 0 || id >= len(m.vars) {
		return m.setkind(errInvalidArg, "variable %d out of range", id)
	}
	m.initref()
	m.pushref(n.target)
	res, err := m.restrict(*n, m.vartolevel(int32(id)), value)
	m.popref(1)
	if err != nil {
		m.setkind(errMemory, "Restrict: %s", err)
		return nil
	}
	return m.retnode(res)
}

func (m *Manager) restrict(e Edge, level int32, value bool) (Edge, error) {
	if e.exp || e.target < 2 || m.level(e.target) > level {
		return e, nil
	}
	if m.level(e.target) < level {
		tag := restrictid(level, value)
		if res, ok := m.misccache.matchmisc(e, tag); ok {
			return res, nil
		}
		c0, c1, err := m.cofactor(e, m.level(e.target))
		if err != nil {
			return Edge{}, err
		}
		if m.kind == KindBMD || m.kind == KindPHDD {
			c0, c1 = m.momentChild(e, m.level(e.target))
		}
		r0, err := m.restrict(c0, level, value)
		if err != nil {
			return Edge{}, err
		}
		m.pushref(r0.target)
		r1, err := m.restrict(c1, level, value)
		m.popref(1)
		if err != nil {
			return Edge{}, err
		}
		m.pushref(r0.target)
		m.pushref(r1.target)
		res, err := m.combine(m.level(e.target), r0, r1)
		m.popref(2)
		if err != nil {
			return Edge{}, err
		}
		return m.misccache.setmisc(e, tag, res), nil
	}
	// m.level(e.target) == level: e is rooted at the variable we restrict.
	if m.kind == KindBMD || m.kind == KindPHDD {
		// Moment form f = low + x*high: x:=0 leaves low, x:=1 gives low+high.
		c0, c1 := m.momentChild(e, level)
		if value {
			return m.momentAdd(c0, c1)
		}
		return c0, nil
	}
	c0, c1, err := m.cofactor(e, level)
	if err != nil {
		return Edge{}, err
	}
	if value {
		return c1, nil
	}
	return c0, nil
}

// restrictid folds a (level,value) pair into a cachetag-range int so that
// restrictions of different variables or polarities never share an entry in
// the misc cache (see operator.go's cachetag enum).
func restrictid(level int32, value bool) cachetag {
	id := int(level) << 1
	if value {
		id |= 1
	}
	return cachetag(int(tagRESTRICT)<<24 | id)
}
