// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package xdd

// Var creates a new variable at the bottom of the current order and returns
// its positive projection edge (spec: var(label?, tag?)). It mirrors the
// per-variable loop in New, extended to a single, already-running manager:
// the two structural constants (and every algebraic terminal) move down to
// sit one level below the freshly added variable, exactly as they did when
// the manager was first created with one fewer variable.
func (m *Manager) Var(label string, tag ...Decomp) (Node, error) {
	decomp := Shannon
	if m.kind == KindKFDD {
		decomp = m.configs.decomposition
		if len(tag) > 0 {
			decomp = tag[0]
		}
	} else if len(tag) > 0 && tag[0] != Shannon {
		return nil, m.setkindErr(errInvalidArg, "decomposition tag is only meaningful for KFDD managers")
	}

	id := int32(len(m.vars))
	if id >= _MAXVAR {
		return nil, m.setkindErr(errInvalidArg, "too many variables")
	}
	level := id
	varnum := int(id) + 1

	m.nodes[idZero].level = int32(varnum)
	m.nodes[idOne].level = int32(varnum)
	for k := range m.termval {
		m.nodes[k].level = int32(varnum)
	}

	one := m.trueConst()
	if m.kind == KindBMD || m.kind == KindPHDD {
		one = one.withWeight(1, 1)
	}

	m.vars = append(m.vars, variable{id: id, level: level, label: label, decomp: decomp})
	m.level2var = append(m.level2var, id)
	m.quantcache.quantset = append(m.quantcache.quantset, 0)

	v0, err := m.intern(level, plain(idZero), one)
	if err != nil && err != errReset && err != errResize {
		m.vars = m.vars[:len(m.vars)-1]
		m.level2var = m.level2var[:len(m.level2var)-1]
		m.quantcache.quantset = m.quantcache.quantset[:len(m.quantcache.quantset)-1]
		return nil, m.setkindErr(errMemory, "cannot allocate variable %d: %s", id, err)
	}
	m.nodes[v0].refcou = _MAXREFCOUNT
	m.vars[id].pos = Edge{target: v0, w: one.w}
	if complementKind(m.kind) {
		// See New: the negative projection is a complemented reference to
		// v0, never a second interned node, so Not(Ithvar(id)) stays
		// structurally identical to NIthvar(id).
		m.vars[id].neg = Edge{target: v0, comp: true}
		return m.retnode(m.vars[id].pos), nil
	}
	m.pushref(v0)
	lin := plain(idZero)
	if m.kind == KindBMD || m.kind == KindPHDD {
		lin = one.withWeight(-1, 1) // see New
	}
	v1, err := m.intern(level, one, lin)
	m.popref(1)
	if err != nil && err != errReset && err != errResize {
		return nil, m.setkindErr(errMemory, "cannot allocate variable %d: %s", id, err)
	}
	m.nodes[v1].refcou = _MAXREFCOUNT
	m.vars[id].neg = Edge{target: v1, w: one.w}

	return m.retnode(m.vars[id].pos), nil
}

// Ithvar returns the positive projection of variable id: the node that is
// true exactly when variable id is true (spec accessor, mirroring the
// teacher's Ithvar/NIthvar pair). Unlike Var it never allocates a new
// variable; id must already exist, either pre-built by New's varnum argument
// or previously returned by Var.
func (m *Manager) Ithvar(id int) Node {
	e, err := m.ithvar(id)
	if err != nil {
		return nil
	}
	return m.retnode(e)
}

// NIthvar returns the negative projection of variable id: the node that is
// true exactly when variable id is false.
func (m *Manager) NIthvar(id int) Node {
	e, err := m.nithvar(id)
	if err != nil {
		return nil
	}
	return m.retnode(e)
}

// Zero returns the additive/false terminal (spec: zero()).
func (m *Manager) Zero() Node {
	return m.retnode(plain(idZero))
}

// One returns the multiplicative/true terminal (spec: one()).
func (m *Manager) One() Node {
	one := m.trueConst()
	if m.kind == KindBMD || m.kind == KindPHDD {
		one = one.withWeight(1, 1)
	}
	return m.retnode(one)
}

// Two returns the numeric constant 2 (spec: two()). Only meaningful for the
// numeric variants; boolean managers report an error since there is no
// value "2" in {0,1}.
func (m *Manager) Two() (Node, error) {
	return m.Constant(2)
}

// Constant returns the numeric leaf carrying value v, hash-consed by value
// (spec: constant(v)). Meaningful only for ADD, MTBDD, BMD and PHDD
// managers; boolean-valued managers must use Zero/One instead.
func (m *Manager) Constant(v int64) (Node, error) {
	if boolKind(m.kind) {
		return nil, m.setkindErr(errInvalidArg, "Constant is only meaningful for numeric managers")
	}
	w := weight{num: v, den: 1}
	var e Edge
	if m.kind == KindBMD || m.kind == KindPHDD {
		e = m.weightedConst(w)
	} else {
		var err error
		e, err = m.makeconst(w)
		if err != nil {
			return nil, m.setkindErr(errMemory, "Constant: %s", err)
		}
	}
	return m.retnode(e), nil
}
