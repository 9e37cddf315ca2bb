// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package xdd

import "log"

// canonicalTerminal rewrites a terminal edge into the package's one
// canonical representation for each of the two boolean values: false is
// always a plain idZero edge, and true is always a complemented idZero edge
// for a complement kind (idOne is never referenced directly again past this
// point) or a plain idOne edge otherwise. A complemented idOne edge — which
// denotes false, same as plain idZero — is folded down to plain idZero, so
// the package never lets two structurally different edges denote the same
// constant: every equality check and every hash-consing lookup in the
// unique table compares edges structurally. cofactor is the only place able
// to produce a complemented terminal (by negating a node's low/high
// children through a complemented incoming edge), so canonicalizing there
// is enough to keep every edge the package hands out, or feeds into
// combine/makenode, in canonical form.
func canonicalTerminal(e Edge) Edge {
	if e.exp || e.target >= 2 {
		return e
	}
	if e.target == idOne {
		if e.comp {
			return plain(idZero)
		}
		return plain(idOne)
	}
	return e
}

// cofactor returns the true Shannon cofactors of edge e at the given level:
// the value of the function when the variable at that level is false (c0)
// and when it is true (c1). For Shannon-decomposed nodes (every variant but
// KFDD-with-Davio) this is just the node's (low,high) pair, adjusted for a
// complemented incoming edge. A KFDD node whose variable carries a Davio
// decomposition stores its children in XOR form, so extracting the Shannon
// cofactors costs one extra (recursive, but strictly smaller) Apply call.
func (m *Manager) cofactor(e Edge, level int32) (Edge, Edge, error) {
	if e.exp || e.target < 2 || m.level(e.target) != level {
		e = canonicalTerminal(e)
		return e, e, nil
	}
	n := m.nodes[e.target]
	lo, hi := n.low, n.high
	if e.comp {
		lo, hi = canonicalTerminal(lo.negate()), canonicalTerminal(hi.negate())
	}
	if m.kind != KindKFDD {
		return lo, hi, nil
	}
	switch m.vars[m.leveltovar(level)].decomp {
	case PosDavio:
		c1, err := m.applyBool(lo, hi, OPxor)
		return lo, c1, err
	case NegDavio:
		c0, err := m.applyBool(lo, hi, OPxor)
		return c0, hi, err
	default:
		return lo, hi, nil
	}
}

// combine is the dual of cofactor: given the two Shannon cofactors of a
// result, it builds the node at level in whatever native form the variant
// (and, for KFDD, the variable's decomposition) expects, going through
// makenode/makeKFDDNode for reduction and normalization.
func (m *Manager) combine(level int32, c0, c1 Edge) (Edge, error) {
	if m.kind != KindKFDD {
		return m.makenode(level, c0, c1)
	}
	switch m.vars[m.leveltovar(level)].decomp {
	case PosDavio:
		hi, err := m.applyBool(c0, c1, OPxor)
		if err != nil {
			return Edge{}, err
		}
		return m.makenode(level, c0, hi)
	case NegDavio:
		lo, err := m.applyBool(c0, c1, OPxor)
		if err != nil {
			return Edge{}, err
		}
		return m.makenode(level, lo, c1)
	default:
		return m.makenode(level, c0, c1)
	}
}

// topLevel returns the shallower of the two levels of edges a and b (a
// terminal or exp edge is treated as being below every real variable).
func (m *Manager) topLevel(a, b Edge) int32 {
	la, lb := m.edgeLevel(a), m.edgeLevel(b)
	if la < lb {
		return la
	}
	return lb
}

func (m *Manager) edgeLevel(e Edge) int32 {
	if e.exp || e.target < 2 {
		return int32(len(m.vars))
	}
	return m.level(e.target)
}

// Not returns the negation of n.
func (m *Manager) Not(n Node) Node {
	if err := m.checkptr(n); err != nil {
		return nil
	}
	m.initref()
	m.pushref(n.target)
	res, err := m.not(*n)
	m.popref(1)
	if err != nil {
		m.setkind(errMemory, "Not: %s", err)
		return nil
	}
	return m.retnode(res)
}

func (m *Manager) not(e Edge) (Edge, error) {
	if e.exp {
		return e, nil
	}
	if complementKind(m.kind) {
		// 1 is stored as the complement of 0, so negation never has to
		// touch a single node: flipping the incoming edge's complement
		// bit is correct for a terminal and for an inner node alike, and
		// canonicalTerminal keeps the two terminal edges (0 and its
		// complement) in the package's one canonical form for each value.
		return canonicalTerminal(e.negate()), nil
	}
	if e.target == idZero {
		return plain(idOne), nil
	}
	if e.target == idOne {
		return plain(idZero), nil
	}
	if res, ok := m.applycache.matchnot(e); ok {
		return res, nil
	}
	level := m.level(e.target)
	c0, c1, err := m.cofactor(e, level)
	if err != nil {
		return Edge{}, err
	}
	r0, err := m.not(c0)
	if err != nil {
		return Edge{}, err
	}
	m.pushref(r0.target)
	r1, err := m.not(c1)
	m.popref(1)
	if err != nil {
		return Edge{}, err
	}
	res, err := m.combine(level, r0, r1)
	if err != nil {
		return Edge{}, err
	}
	return m.applycache.setnot(e, res), nil
}

// Apply performs one of the ten binary boolean connectives named by op on
// left and right.
//
//	Identifier  Description           Truth table
//	OPand       logical and           [0,0,0,1]
//	OPxor       logical xor           [0,1,1,0]
//	OPor        logical or            [0,1,1,1]
//	OPnand      logical not-and       [1,1,1,0]
//	OPnor       logical not-or        [1,0,0,0]
//	OPimp       implication           [1,1,0,1]
//	OPbiimp     equivalence           [1,0,0,1]
//	OPdiff      set difference        [0,0,1,0]
//	OPless      less than             [0,1,0,0]
//	OPinvimp    reverse implication   [1,0,1,1]
func (m *Manager) Apply(left, right Node, op Operator) Node {
	if err := m.checkptr(left); err != nil {
		return nil
	}
	if err := m.checkptr(right); err != nil {
		return nil
	}
	m.applycache.op = op
	m.initref()
	m.pushref(left.target)
	m.pushref(right.target)
	m.heuristicRoot = m.topLevel(*left, *right)
	res, err := m.applyBool(*left, *right, op)
	m.popref(2)
	if err != nil {
		m.setkind(errMemory, "Apply %s: %s", op, err)
		return nil
	}
	return m.retnode(res)
}

// applyBool is the shared recursive worker behind Apply, AppEx and the
// cofactor/combine conversions used by KFDD Davio nodes. It does not read or
// write m.applycache.op.
func (m *Manager) applyBool(left, right Edge, op Operator) (Edge, error) {
	if left.exp || right.exp {
		if res, determined := m.expShortCircuit(op, left, right); determined {
			return res, nil
		}
		return Edge{exp: true}, nil
	}
	switch op {
	case OPand:
		if left == right {
			return left, nil
		}
		if isFalseEdge(left) || isFalseEdge(right) {
			return m.falseConst(), nil
		}
		if isTrueEdge(left) {
			return right, nil
		}
		if isTrueEdge(right) {
			return left, nil
		}
	case OPor:
		if left == right {
			return left, nil
		}
		if isTrueEdge(left) || isTrueEdge(right) {
			return m.trueConst(), nil
		}
		if isFalseEdge(left) {
			return right, nil
		}
		if isFalseEdge(right) {
			return left, nil
		}
	case OPxor:
		if left == right {
			return m.falseConst(), nil
		}
		if isFalseEdge(left) {
			return right, nil
		}
		if isFalseEdge(right) {
			return left, nil
		}
	case OPnand, OPnor, OPimp, OPbiimp, OPdiff, OPless, OPinvimp:
		// no shortcut beyond the fully-constant case handled below
	default:
		return Edge{}, m.setkindErr(errInvalidArg, "unauthorized operator %s in apply", op)
	}

	if left.target < 2 && right.target < 2 {
		return m.constFromBool(opres[op][boolOf(left)][boolOf(right)]), nil
	}

	m.applycache.op = op
	if res, ok := m.applycache.matchapply(left, right); ok {
		return res, nil
	}

	level := m.topLevel(left, right)
	if m.declineToExp(level) {
		return Edge{exp: true}, nil
	}
	c0l, c1l, err := m.cofactor(left, level)
	if err != nil {
		return Edge{}, err
	}
	c0r, c1r, err := m.cofactor(right, level)
	if err != nil {
		return Edge{}, err
	}
	r0, err := m.applyBool(c0l, c0r, op)
	if err != nil {
		return Edge{}, err
	}
	m.pushref(r0.target)
	r1, err := m.applyBool(c1l, c1r, op)
	m.popref(1)
	if err != nil {
		return Edge{}, err
	}
	m.pushref(r0.target)
	m.pushref(r1.target)
	res, err := m.combine(level, r0, r1)
	m.popref(2)
	if err != nil {
		return Edge{}, err
	}
	m.applycache.op = op
	return m.applycache.setapply(left, right, res), nil
}

// declineToExp reports whether a BHD manager configured with a heuristic
// bound (config.go's LevelHeuristic/MemoryHeuristic) should give up on the
// subproblem rooted at level and substitute the "don't know" exp terminal
// instead of recursing further. Meaningless (always false) for every other
// Kind and for a BHD manager with no heuristic configured.
func (m *Manager) declineToExp(level int32) bool {
	if m.kind != KindBHD {
		return false
	}
	switch m.configs.heuristic.kind {
	case heuristicLevel:
		return int(level-m.heuristicRoot) >= m.configs.heuristic.bound
	case heuristicMemory:
		return m.liveNodeCount() >= m.configs.heuristic.bound
	}
	return false
}

// expShortCircuit reports whether op's result is already determined even
// though one operand is the "don't know" exp edge: true for the absorbing
// element of and/or-like connectives (e.g. false absorbs and, true absorbs
// or), false otherwise, in which case the caller should propagate exp.
func (m *Manager) expShortCircuit(op Operator, left, right Edge) (Edge, bool) {
	switch op {
	case OPand, OPnand:
		if isFalseEdge(left) || isFalseEdge(right) {
			if op == OPand {
				return m.falseConst(), true
			}
			return m.trueConst(), true
		}
	case OPor, OPnor:
		if isTrueEdge(left) || isTrueEdge(right) {
			if op == OPor {
				return m.trueConst(), true
			}
			return m.falseConst(), true
		}
	}
	return Edge{}, false
}

// Ite computes the function [(f & g) | (!f & h)] more efficiently than doing
// the three operations separately.
func (m *Manager) Ite(f, g, h Node) Node {
	if err := m.checkptr(f); err != nil {
		return nil
	}
	if err := m.checkptr(g); err != nil {
		return nil
	}
	if err := m.checkptr(h); err != nil {
		return nil
	}
	m.initref()
	m.pushref(f.target)
	m.pushref(g.target)
	m.pushref(h.target)
	m.heuristicRoot = m.topLevel(*f, *g)
	if lh := m.edgeLevel(*h); lh < m.heuristicRoot {
		m.heuristicRoot = lh
	}
	res, err := m.ite(*f, *g, *h)
	m.popref(3)
	if err != nil {
		m.setkind(errMemory, "Ite: %s", err)
		return nil
	}
	return m.retnode(res)
}

func (m *Manager) ite(f, g, h Edge) (Edge, error) {
	if f.exp {
		if g == h {
			return g, nil
		}
		return Edge{exp: true}, nil
	}
	if isTrueEdge(f) {
		return g, nil
	}
	if isFalseEdge(f) {
		return h, nil
	}
	if g == h {
		return g, nil
	}
	if isTrueEdge(g) && isFalseEdge(h) {
		return f, nil
	}
	if isFalseEdge(g) && isTrueEdge(h) {
		return m.not(f)
	}

	if res, ok := m.itecache.matchite(f, g, h); ok {
		return res, nil
	}

	level := m.topLevel(f, g)
	if lh := m.edgeLevel(h); lh < level {
		level = lh
	}
	if m.declineToExp(level) {
		return Edge{exp: true}, nil
	}
	c0f, c1f, err := m.cofactor(f, level)
	if err != nil {
		return Edge{}, err
	}
	c0g, c1g, err := m.cofactor(g, level)
	if err != nil {
		return Edge{}, err
	}
	c0h, c1h, err := m.cofactor(h, level)
	if err != nil {
		return Edge{}, err
	}
	r0, err := m.ite(c0f, c0g, c0h)
	if err != nil {
		return Edge{}, err
	}
	m.pushref(r0.target)
	r1, err := m.ite(c1f, c1g, c1h)
	m.popref(1)
	if err != nil {
		return Edge{}, err
	}
	m.pushref(r0.target)
	m.pushref(r1.target)
	res, err := m.combine(level, r0, r1)
	m.popref(2)
	if err != nil {
		return Edge{}, err
	}
	return m.itecache.setite(f, g, h, res), nil
}

// And returns the logical 'and' of a sequence of nodes.
func (m *Manager) And(n ...Node) Node {
	return m.fold(OPand, m.trueConst(), n)
}

// Or returns the logical 'or' of a sequence of nodes.
func (m *Manager) Or(n ...Node) Node {
	return m.fold(OPor, m.falseConst(), n)
}

// Xor returns the logical 'xor' of a sequence of nodes.
func (m *Manager) Xor(n ...Node) Node {
	return m.fold(OPxor, m.falseConst(), n)
}

func (m *Manager) fold(op Operator, identity Edge, n []Node) Node {
	if len(n) == 0 {
		return m.retnode(identity)
	}
	if err := m.checkptr(n[0]); err != nil {
		return nil
	}
	acc := *n[0]
	for _, next := range n[1:] {
		if err := m.checkptr(next); err != nil {
			return nil
		}
		res, err := m.applyBool(acc, *next, op)
		if err != nil {
			if _DEBUG {
				log.Printf("fold %s failed: %s\n", op, err)
			}
			m.setkind(errMemory, "fold %s: %s", op, err)
			return nil
		}
		acc = res
	}
	return m.retnode(acc)
}

// Imp returns the logical implication between two nodes.
func (m *Manager) Imp(n1, n2 Node) Node {
	return m.applyPublic(n1, n2, OPimp)
}

// Equiv returns the logical bi-implication between two nodes.
func (m *Manager) Equiv(n1, n2 Node) Node {
	return m.applyPublic(n1, n2, OPbiimp)
}

func (m *Manager) applyPublic(n1, n2 Node, op Operator) Node {
	return m.Apply(n1, n2, op)
}

// Equal reports whether low and high denote the same edge: the same target,
// complement and weight. Two nodes of a reduced diagram denote the same
// function if and only if they are equal in this sense.
func (m *Manager) Equal(low, high Node) bool {
	if low == high {
		return true
	}
	if low == nil || high == nil {
		return false
	}
	return *low == *high
}
