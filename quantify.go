// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package xdd

import "sort"

// boolKind reports whether k's terminals are plain booleans, the only kinds
// for which existential/universal quantification (as opposed to, say,
// algebraic summation) has an unambiguous meaning.
func boolKind(k Kind) bool {
	return k == KindBDD || k == KindBHD || k == KindKFDD
}

// Makeset builds the cube edge representing the conjunction of the
// (positive) variables in vars, the representation Exist, Forall and AppEx
// expect for their varset argument. Variables are chained from the deepest
// level up, each node's low child pointing at idZero and its high child at
// the rest of the cube, so that quantset2cache can walk the chain by
// following high pointers (see cache.go).
func (m *Manager) Makeset(vars []int) Node {
	if !boolKind(m.kind) {
		return m.setkind(errInvalidArg, "Makeset is only meaningful for boolean-valued managers")
	}
	ids := append([]int(nil), vars...)
	for _, id := range ids {
		if id < 0 || id >= len(m.vars) {
			return m.setkind(errInvalidArg, "variable %d out of range", id)
		}
	}
	sort.Slice(ids, func(i, j int) bool {
		return m.vartolevel(int32(ids[i])) > m.vartolevel(int32(ids[j]))
	})
	cube := m.trueConst()
	for _, id := range ids {
		level := m.vartolevel(int32(id))
		n, err := m.intern(level, plain(idZero), cube)
		if err != nil && err != errReset && err != errResize {
			return m.setkind(errMemory, "Makeset: %s", err)
		}
		cube = plain(n)
	}
	return m.retnode(cube)
}

// Exist returns the existential quantification of n over the variables in
// varset, a cube built with Makeset.
func (m *Manager) Exist(n, varset Node) Node {
	return m.quantify(n, varset, OPor)
}

// Forall returns the universal quantification of n over the variables in
// varset.
func (m *Manager) Forall(n, varset Node) Node {
	return m.quantify(n, varset, OPand)
}

func (m *Manager) quantify(n, varset Node, op Operator) Node {
	if !boolKind(m.kind) {
		return m.setkind(errInvalidArg, "quantification is only meaningful for boolean-valued managers")
	}
	if err := m.checkptr(n); err != nil {
		return nil
	}
	if err := m.checkptr(varset); err != nil {
		return nil
	}
	if varset.target < 2 {
		return n
	}
	if err := m.quantset2cache(*varset); err != nil {
		return nil
	}
	m.quantcache.forall = op == OPand
	m.initref()
	m.pushref(n.target)
	m.pushref(varset.target)
	res, err := m.quant(*n, *varset, op)
	m.popref(2)
	if err != nil {
		m.setkind(errMemory, "quantify: %s", err)
		return nil
	}
	return m.retnode(res)
}

func (m *Manager) quant(n, varset Edge, op Operator) (Edge, error) {
	if n.exp || n.target < 2 || m.level(n.target) > m.quantcache.quantlast {
		return n, nil
	}
	if res, ok := m.quantcache.matchquant(n, varset); ok {
		return res, nil
	}
	level := m.level(n.target)
	c0, c1, err := m.cofactor(n, level)
	if err != nil {
		return Edge{}, err
	}
	r0, err := m.quant(c0, varset, op)
	if err != nil {
		return Edge{}, err
	}
	m.pushref(r0.target)
	r1, err := m.quant(c1, varset, op)
	m.popref(1)
	if err != nil {
		return Edge{}, err
	}
	var res Edge
	if m.quantcache.quantset[level] == m.quantcache.quantsetID {
		m.pushref(r0.target)
		res, err = m.applyBool(r0, r1, op)
		m.popref(1)
	} else {
		m.pushref(r0.target)
		m.pushref(r1.target)
		res, err = m.combine(level, r0, r1)
		m.popref(2)
	}
	if err != nil {
		return Edge{}, err
	}
	return m.quantcache.setquant(n, varset, res), nil
}

// AppEx applies the binary connective op on left and right and existentially
// quantifies the variables in varset over the result, in a single bottom-up
// pass. This is considerably cheaper than computing Apply followed by
// Exist, since the quantification of the lower levels is folded into the
// recursion rather than redone on an already-combined diagram. Only the
// first four operators (and, xor, or, nand) are accepted, mirroring the
// restriction in Apply's relational-product use case.
func (m *Manager) AppEx(left, right Node, op Operator, varset Node) Node {
	if !boolKind(m.kind) {
		return m.setkind(errInvalidArg, "AppEx is only meaningful for boolean-valued managers")
	}
	if op > OPnand {
		return m.setkind(errInvalidArg, "operator %s not supported in AppEx", op)
	}
	if err := m.checkptr(varset); err != nil {
		return nil
	}
	if varset.target < 2 {
		return m.Apply(left, right, op)
	}
	if err := m.checkptr(left); err != nil {
		return nil
	}
	if err := m.checkptr(right); err != nil {
		return nil
	}
	if err := m.quantset2cache(*varset); err != nil {
		return nil
	}
	m.appexcache.op = op
	m.quantcache.forall = false
	m.initref()
	m.pushref(left.target)
	m.pushref(right.target)
	m.pushref(varset.target)
	res, err := m.appquant(*left, *right, *varset)
	m.popref(3)
	if err != nil {
		m.setkind(errMemory, "AppEx: %s", err)
		return nil
	}
	return m.retnode(res)
}

func (m *Manager) appquant(left, right, varset Edge) (Edge, error) {
	op := m.appexcache.op
	switch op {
	case OPand:
		if isFalseEdge(left) || isFalseEdge(right) {
			return m.falseConst(), nil
		}
		if left == right {
			return m.quant(left, varset, OPor)
		}
		if isTrueEdge(left) {
			return m.quant(right, varset, OPor)
		}
		if isTrueEdge(right) {
			return m.quant(left, varset, OPor)
		}
	case OPor:
		if isTrueEdge(left) || isTrueEdge(right) {
			return m.trueConst(), nil
		}
		if left == right {
			return m.quant(left, varset, OPor)
		}
		if isFalseEdge(left) {
			return m.quant(right, varset, OPor)
		}
		if isFalseEdge(right) {
			return m.quant(left, varset, OPor)
		}
	case OPxor:
		if left == right {
			return m.falseConst(), nil
		}
		if isFalseEdge(left) {
			return m.quant(right, varset, OPor)
		}
		if isFalseEdge(right) {
			return m.quant(left, varset, OPor)
		}
	case OPnand:
		if isFalseEdge(left) || isFalseEdge(right) {
			return m.trueConst(), nil
		}
	}

	if left.target < 2 && right.target < 2 {
		return m.constFromBool(opres[op][boolOf(left)][boolOf(right)]), nil
	}

	level := m.topLevel(left, right)
	if level > m.quantcache.quantlast {
		return m.applyBool(left, right, op)
	}

	if res, ok := m.appexcache.matchappex(left, right, m.quantcache.quantsetID); ok {
		return res, nil
	}

	c0l, c1l, err := m.cofactor(left, level)
	if err != nil {
		return Edge{}, err
	}
	c0r, c1r, err := m.cofactor(right, level)
	if err != nil {
		return Edge{}, err
	}
	r0, err := m.appquant(c0l, c0r, varset)
	if err != nil {
		return Edge{}, err
	}
	m.pushref(r0.target)
	r1, err := m.appquant(c1l, c1r, varset)
	m.popref(1)
	if err != nil {
		return Edge{}, err
	}
	var res Edge
	if m.quantcache.quantset[level] == m.quantcache.quantsetID {
		m.pushref(r0.target)
		res, err = m.applyBool(r0, r1, OPor)
		m.popref(1)
	} else {
		m.pushref(r0.target)
		m.pushref(r1.target)
		res, err = m.combine(level, r0, r1)
		m.popref(2)
	}
	if err != nil {
		return Edge{}, err
	}
	return m.appexcache.setappex(left, right, m.quantcache.quantsetID, res), nil
}

// AndExist returns the relational composition of n1 and n2 with respect to
// varset, i.e. Exist(varset, n1 & n2).
func (m *Manager) AndExist(varset, n1, n2 Node) Node {
	return m.AppEx(n1, n2, OPand, varset)
}
