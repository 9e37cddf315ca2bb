// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package xdd

// makeKFDDNode implements reduction for KFDD nodes. Unlike the complement-edge
// variants, KFDD nodes carry no decoration beyond the plain target (mixing
// Davio reduction with complement normalization is more trouble than the
// shared canonical form is worth), so reduction is the only step: a Shannon
// node with equal children is redundant, and a Davio node whose "difference"
// child is the zero edge reduces to the other child (see cofactor in apply.go for
// which field plays that role, depending on the variable's decomposition).
func (m *Manager) makeKFDDNode(level int32, lo, hi Edge) (Edge, error) {
	varid := m.leveltovar(level)
	switch m.vars[varid].decomp {
	case PosDavio:
		if hi.target == idZero {
			return lo, nil
		}
	case NegDavio:
		if lo.target == idZero {
			return hi, nil
		}
	default:
		if lo == hi {
			return lo, nil
		}
	}
	n, err := m.intern(level, lo, hi)
	if err != nil && err != errReset && err != errResize {
		return Edge{}, err
	}
	return plain(n), nil
}

// SetDecomp rewrites every node at variable id's level to re-express its
// local decomposition under tag d, then records d as the decomposition used
// for any node built at that level from now on (spec: change_decomposition).
// Every function represented through variable id is preserved; only the
// internal encoding of its local Shannon/Davio expansion changes. Meaningful
// only for KFDD managers.
func (m *Manager) SetDecomp(id int, d Decomp) error {
	if m.kind != KindKFDD {
		return m.setkindErr(errInvalidArg, "SetDecomp is only meaningful for KFDD managers")
	}
	if id < 0 || id >= len(m.vars) {
		return m.setkindErr(errInvalidArg, "variable %d out of range", id)
	}
	if err := m.changeDecomposition(int32(id), d); err != nil {
		return m.setkindErr(errMemory, "SetDecomp: %s", err)
	}
	return nil
}

// changeDecomposition is SetDecomp's error-returning core, shared with
// dtlRefine's trial-and-keep-best search (reorder.go), which needs to flip
// a variable's tag repeatedly without the sticky-manager-error bookkeeping
// that the public entry point applies.
func (m *Manager) changeDecomposition(id int32, d Decomp) error {
	old := m.vars[id].decomp
	if old == d {
		return nil
	}
	level := m.vartolevel(id)
	for _, nid := range m.nodesAtLevel(level) {
		c0, c1, err := m.rawCofactor(plain(nid), level, old)
		if err != nil {
			return err
		}
		lo, hi, err := m.encodeDecomp(d, c0, c1)
		if err != nil {
			return err
		}
		m.relabelNode(nid, level, lo, hi)
	}
	m.vars[id].decomp = d
	m.cachereset()
	return nil
}

// varDecomp reports the decomposition currently assigned to variable id.
func (m *Manager) varDecomp(id int) Decomp {
	return m.vars[id].decomp
}
