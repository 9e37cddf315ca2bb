// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package xdd

// Compose substitutes variable id with the function g inside n and returns
// the result: compose(f,v,g)(x) = f(x[v := g(x)]). The algorithm walks down
// to the level of v combining unaffected levels on the way, then at v's own
// level folds the substitution in with an Ite (the standard
// compose-via-ite identity: the result behaves like f's high branch
// wherever g is true, and like f's low branch wherever g is false).
func (m *Manager) Compose(n Node, id int, g Node) Node {
	if err := m.checkptr(n); err != nil {
		return nil
	}
	if err := m.checkptr(g); err != nil {
		return nil
	}
	if id < 0 || id >= len(m.vars) {
		return m.setkind(errInvalidArg, "variable %d out of range", id)
	}
	m.initref()
	m.pushref(n.target)
	m.pushref(g.target)
	res, err := m.compose(*n, m.vartolevel(int32(id)), *g)
	m.popref(2)
	if err != nil {
		m.setkind(errMemory, "Compose: %s", err)
		return nil
	}
	return m.retnode(res)
}

func (m *Manager) compose(f Edge, level int32, g Edge) (Edge, error) {
	if f.exp || f.target < 2 || m.level(f.target) > level {
		return f, nil
	}
	if res, ok := m.composecache.matchcompose(f, level, g); ok {
		return res, nil
	}
	flvl := m.level(f.target)
	c0, c1, err := m.cofactor(f, flvl)
	if err != nil {
		return Edge{}, err
	}
	var res Edge
	if flvl == level {
		res, err = m.ite(g, c1, c0)
	} else {
		r0, err2 := m.compose(c0, level, g)
		if err2 != nil {
			return Edge{}, err2
		}
		m.pushref(r0.target)
		r1, err2 := m.compose(c1, level, g)
		m.popref(1)
		if err2 != nil {
			return Edge{}, err2
		}
		m.pushref(r0.target)
		m.pushref(r1.target)
		res, err = m.combine(flvl, r0, r1)
		m.popref(2)
	}
	if err != nil {
		return Edge{}, err
	}
	return m.composecache.setcompose(f, level, g, res), nil
}
