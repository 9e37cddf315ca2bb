// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package xdd

// makeconst returns the edge for the algebraic terminal carrying value v,
// allocating and hash-consing a new terminal node the first time v is seen.
// Only ADD and MTBDD managers call this: BMD/PHDD represent every numeric
// value as a weight decoration on top of the single idOne terminal (see
// makeWeightedNode), so they never need more than the two structural
// constants every manager starts with.
func (m *Manager) makeconst(v weight) (Edge, error) {
	if v.num == 0 {
		return plain(idZero), nil
	}
	if v.num == 1 && v.den == 1 {
		return plain(idOne), nil
	}
	if id, ok := m.termpool[v]; ok {
		return plain(id), nil
	}
	if m.freepos == 0 {
		m.gbc()
		if (m.freenum*100)/len(m.nodes) <= m.minfreenodes {
			if err := m.noderesize(); err != nil && err != errResize {
				return Edge{}, errMemory
			}
		}
		if m.freepos == 0 {
			return Edge{}, errMemory
		}
	}
	m.produced++
	id := m.freepos
	m.freenum--
	m.freepos = m.nodes[id].high.target
	self := plain(id)
	m.nodes[id] = node{level: int32(len(m.vars)), low: self, high: self, refcou: 0}
	m.termval[id] = v
	m.termpool[v] = id
	return self, nil
}

// isTerminal reports whether e denotes an algebraic leaf (any of the two
// structural constants, or a value registered through makeconst).
func (m *Manager) isTerminal(e Edge) bool {
	if e.target < 2 {
		return true
	}
	_, ok := m.termval[e.target]
	return ok
}

// termOf returns the numeric value carried by terminal edge e, honoring a
// complement bit on one of the two structural constants (idZero and idOne
// denote the same pair of values whichever one of them carries the
// complement). For BMD and PHDD the value of an edge to idOne is the weight
// that edge carries. Callers must only call this on edges for which
// isTerminal(e) holds.
func (m *Manager) termOf(e Edge) weight {
	if (m.kind == KindBMD || m.kind == KindPHDD) && e.target == idOne && e.w.den != 0 {
		return e.w
	}
	switch e.target {
	case idZero, idOne:
		if isTrueEdge(e) {
			return weight{num: 1, den: 1}
		}
		return weight{num: 0, den: 1}
	default:
		return m.termval[e.target]
	}
}
