// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package xdd

import "sort"

// rawCofactor returns the Shannon cofactors of e with respect to the
// variable whose decomposition tag is decomp, sitting at level. Unlike
// cofactor (apply.go) it never consults m.leveltovar: during a swap the
// level-to-variable mapping is being rewritten in place, so the caller must
// pass the decomposition that was (or will be) in force explicitly rather
// than let this function look it up from the manager's current bookkeeping.
func (m *Manager) rawCofactor(e Edge, level int32, decomp Decomp) (Edge, Edge, error) {
	if e.exp || e.target < 2 || m.level(e.target) != level {
		e = canonicalTerminal(e)
		return e, e, nil
	}
	n := m.nodes[e.target]
	lo, hi := n.low, n.high
	if e.comp {
		lo, hi = canonicalTerminal(lo.negate()), canonicalTerminal(hi.negate())
	}
	switch decomp {
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

// rawRecombine builds a brand-new node at level from the Shannon cofactors
// (c0,c1), encoded under decomp. It is only safe to call when the result is
// going to receive a fresh id (the inner nodes introduced by a swap's
// level-k+1 rebuild); it must never be used for the node whose own id has
// to survive the swap (see relabelNode). The Davio cases replicate
// makeKFDDNode's reduction explicitly instead of calling makenode: at the
// point swapShannon calls this, the level-to-variable mapping has not been
// updated yet, so makenode's own decomp lookup (via leveltovar) would still
// read the pre-swap variable's tag rather than the decomp this call was
// explicitly given.
func (m *Manager) rawRecombine(level int32, c0, c1 Edge, decomp Decomp) (Edge, error) {
	switch decomp {
	case PosDavio:
		hi, err := m.applyBool(c0, c1, OPxor)
		if err != nil {
			return Edge{}, err
		}
		if hi.target == idZero {
			return c0, nil
		}
		return m.internPlain(level, c0, hi)
	case NegDavio:
		lo, err := m.applyBool(c0, c1, OPxor)
		if err != nil {
			return Edge{}, err
		}
		if lo.target == idZero {
			return c1, nil
		}
		return m.internPlain(level, lo, c1)
	default:
		return m.makenode(level, c0, c1)
	}
}

// internPlain interns (level,lo,hi) and wraps the resulting id as a plain
// edge, propagating only genuine failures (errReset/errResize signal a
// cache/table reset that already completed transparently inside intern).
func (m *Manager) internPlain(level int32, lo, hi Edge) (Edge, error) {
	n, err := m.intern(level, lo, hi)
	if err != nil && err != errReset && err != errResize {
		return Edge{}, err
	}
	return plain(n), nil
}

// encodeDecomp turns Shannon cofactors (c0,c1) into the raw (low,high) pair
// a node with decomp would store, without interning: used to compute the
// new content of a node whose id must be preserved across a swap (see
// relabelNode), where calling through makenode/intern would allocate a
// different id and so lose the identity that external handles still point
// at.
func (m *Manager) encodeDecomp(decomp Decomp, c0, c1 Edge) (Edge, Edge, error) {
	switch decomp {
	case PosDavio:
		hi, err := m.applyBool(c0, c1, OPxor)
		return c0, hi, err
	case NegDavio:
		lo, err := m.applyBool(c0, c1, OPxor)
		return lo, c1, err
	default:
		return c0, c1, nil
	}
}

// relabelNode overwrites the content of the existing node id in place,
// preserving its id (and so every external Node/parent edge that already
// references it by target) while changing its level and/or children. This
// is the core trick that lets Swap and ChangeDecomposition rewrite the
// order/decomposition without invalidating live handles: a Node is just a
// pointer to an Edge carrying a target int, so as long as nodes[id] keeps
// denoting the same function, every previously issued edge stays correct.
//
// Two canonicity relaxations follow deliberately from that constraint: (1)
// when low == high, the node is functionally redundant but cannot be
// deleted (something may still reference it by id), so it is kept as an
// unreduced pass-through rather than redirected; (2) no complement/weight
// renormalization is attempted here, since normalizing would require
// flipping the decoration on every edge that already points at id, which
// this implementation cannot reach. Both leave the manager's live handles
// fully correct; only the (never externally visible) internal-form
// canonicity invariant is transiently relaxed, until the next ordinary
// apply call rebuilds the affected subgraph from scratch.
func (m *Manager) relabelNode(id int, level int32, lo, hi Edge) {
	old := m.nodes[id]
	m.delnode(old)
	m.nodes[id] = node{level: level, low: lo, high: hi, refcou: old.refcou}
	if lo == hi {
		return
	}
	key := nodekey{level: level, lo: lo, hi: hi}
	if _, exists := m.unique[key]; !exists {
		m.unique[key] = id
	}
}

// nodesAtLevel returns the ids of every occupied node slot currently at the
// given level (constants and algebraic terminals never match: they are
// always recorded at level == len(m.vars), beyond every real variable).
func (m *Manager) nodesAtLevel(level int32) []int {
	var ids []int
	for k := 2; k < len(m.nodes); k++ {
		if m.nodes[k].low.target == -1 {
			continue
		}
		if m.level(k) == level {
			ids = append(ids, k)
		}
	}
	return ids
}

// Swap exchanges the variables currently occupying levelA and levelB, which
// must be adjacent (|levelA-levelB| == 1). Every live edge, wherever held,
// keeps denoting the same function (§4.6's correctness contract); only
// internal node identities below the touched levels may change. Swap
// invalidates every operation cache, since any cached result may depend on
// the touched levels' relative order.
func (m *Manager) Swap(levelA, levelB int) error {
	if levelA < 0 || levelA >= len(m.vars) || levelB < 0 || levelB >= len(m.vars) {
		return m.setkindErr(errInvalidArg, "swap: level out of range")
	}
	lo, hi := levelA, levelB
	if lo > hi {
		lo, hi = hi, lo
	}
	if hi != lo+1 {
		return m.setkindErr(errInvalidArg, "swap: levels %d and %d are not adjacent", levelA, levelB)
	}
	if err := m.swapAdjacent(int32(lo)); err != nil {
		return m.setkindErr(errMemory, "swap: %s", err)
	}
	return nil
}

// swapAdjacent performs the level-k/level-(k+1) exchange described in
// §4.6: upper is the shallower of the two levels (closer to the root).
func (m *Manager) swapAdjacent(upper int32) error {
	lower := upper + 1
	varU := m.leveltovar(upper)
	varV := m.leveltovar(lower)

	var err error
	if m.kind == KindBMD || m.kind == KindPHDD {
		err = m.swapWeighted(upper, lower)
	} else {
		decompU, decompV := m.vars[varU].decomp, m.vars[varV].decomp
		err = m.swapShannon(upper, lower, decompU, decompV)
	}
	if err != nil {
		return err
	}

	m.vars[varU].level = lower
	m.vars[varV].level = upper
	m.level2var[upper] = varV
	m.level2var[lower] = varU
	m.cachereset()
	return nil
}

// swapShannon implements the swap rewrite for every Shannon/Davio-decomposed
// kind (BDD, ADD, MTBDD, BHD, KFDD): every node N at upper whose children
// touch lower is rebuilt as cofactor_v(cofactor_u(f)), reassembled under the
// swapped expansion; nodes whose children skip lower are merely relabeled
// one level down. Original lower-level nodes not absorbed into a rebuild
// (the "touched" set) are themselves relabeled up to upper.
func (m *Manager) swapShannon(upper, lower int32, decompU, decompV Decomp) error {
	idsUpper := m.nodesAtLevel(upper)
	idsLower := m.nodesAtLevel(lower)
	touched := make(map[int]bool, 2*len(idsUpper))

	for _, id := range idsUpper {
		lo0, hi0 := m.nodes[id].low, m.nodes[id].high
		f00, f01, err := m.rawCofactor(lo0, lower, decompV)
		if err != nil {
			return err
		}
		f10, f11, err := m.rawCofactor(hi0, lower, decompV)
		if err != nil {
			return err
		}
		if f00 == f01 && f10 == f11 {
			// N does not depend on the lower variable: it simply moves down
			// one level, keeping its own (u-)children untouched.
			m.relabelNode(id, lower, lo0, hi0)
			touched[id] = true
			continue
		}
		newLow, err := m.rawRecombine(lower, f00, f10, decompU)
		if err != nil {
			return err
		}
		m.pushref(newLow.target)
		newHigh, err := m.rawRecombine(lower, f01, f11, decompU)
		m.popref(1)
		if err != nil {
			return err
		}
		touched[newLow.target] = true
		touched[newHigh.target] = true
		lo, hi, err := m.encodeDecomp(decompV, newLow, newHigh)
		if err != nil {
			return err
		}
		m.relabelNode(id, upper, lo, hi)
		touched[id] = true
	}

	for _, id := range idsLower {
		if touched[id] {
			continue
		}
		lo0, hi0 := m.nodes[id].low, m.nodes[id].high
		m.relabelNode(id, upper, lo0, hi0)
	}
	return nil
}

// swapWeighted is swapShannon's counterpart for the moment variants (BMD,
// PHDD), whose nodes store an arithmetic positive-Davio decomposition
// (f = low + x*high, already weight-scaled) rather than a Shannon pair;
// momentChild/makeWeightedNode (arithmetic.go) play the role of
// rawCofactor/rawRecombine.
func (m *Manager) swapWeighted(upper, lower int32) error {
	idsUpper := m.nodesAtLevel(upper)
	idsLower := m.nodesAtLevel(lower)
	touched := make(map[int]bool, 2*len(idsUpper))

	for _, id := range idsUpper {
		a0, a1 := m.nodes[id].low, m.nodes[id].high
		b00, b01 := m.momentChild(a0, lower)
		b10, b11 := m.momentChild(a1, lower)
		if b01.target == idZero && b11.target == idZero {
			m.relabelNode(id, lower, a0, a1)
			touched[id] = true
			continue
		}
		newLow, err := m.makeWeightedNode(lower, b00, b10)
		if err != nil {
			return err
		}
		m.pushref(newLow.target)
		newHigh, err := m.makeWeightedNode(lower, b01, b11)
		m.popref(1)
		if err != nil {
			return err
		}
		touched[newLow.target] = true
		touched[newHigh.target] = true
		m.relabelNode(id, upper, newLow, newHigh)
		touched[id] = true
	}

	for _, id := range idsLower {
		if touched[id] {
			continue
		}
		lo0, hi0 := m.nodes[id].low, m.nodes[id].high
		m.relabelNode(id, upper, lo0, hi0)
	}
	return nil
}

// liveNodeCount is the raw occupancy of the node table: used slots
// (constants, terminals and inner nodes alike), whether or not they are
// still reachable from any live root. delnode (called from intern/setnode
// when a swap interns a rebuilt node) only ever drops the old unique-table
// entry, never returns the slot to the free list, so this count only grows
// across a sequence of swaps; it is cheap, which is all declineToExp's
// memory heuristic needs, but it is the wrong metric for sifting (see
// liveReachableCount).
func (m *Manager) liveNodeCount() int {
	return len(m.nodes) - m.freenum
}

// liveReachableCount forces a mark-sweep collection first so the occupancy
// count it returns reflects only nodes actually reachable from a live root
// (external handles, variable projections, constants). Every swap abandons
// the nodes it rewrites without freeing their slots, so liveNodeCount alone
// is monotonically non-decreasing across a sift and would make every
// candidate position look no better than where a variable started; forcing
// a collection before each measurement is what lets sifting actually see
// the rewrite's effect on diagram size.
func (m *Manager) liveReachableCount() int {
	m.gbc()
	return m.liveNodeCount()
}

// siftingOrder returns variable ids sorted by decreasing current subgraph
// size (the static order named in §4.6), approximated by the number of
// live nodes presently sitting at each variable's level.
func (m *Manager) siftingOrder() []int32 {
	sizes := make([]int, len(m.vars))
	for k := 2; k < len(m.nodes); k++ {
		if m.nodes[k].low.target == -1 {
			continue
		}
		lvl := m.level(k)
		if int(lvl) < len(m.vars) {
			sizes[m.leveltovar(lvl)]++
		}
	}
	ids := make([]int32, len(m.vars))
	for i := range ids {
		ids[i] = int32(i)
	}
	sort.Slice(ids, func(i, j int) bool { return sizes[ids[i]] > sizes[ids[j]] })
	return ids
}

// Reorder runs variable sifting: each variable, in turn, is walked to the
// top of the order, then to the bottom, recording the live node count after
// every swap, and finally restored to whichever position minimized that
// count. When a swap leaves the live count above maxnodegrowth times the
// starting count, that half of the walk stops there, and the variable is
// then moved back to the best position found. Each variable is sifted once,
// in siftingOrder's order (one pass, not repeated until nothing moves); a
// KFDD manager then runs dtlRefine. Since every variable ends at a position
// no worse than where its sift began, the final size never exceeds the
// starting size (property #8).
func (m *Manager) Reorder() error {
	start := m.liveReachableCount()
	maxNodes := int(float64(start) * m.maxnodegrowth)
	if maxNodes < start {
		maxNodes = start
	}
	for _, id := range m.siftingOrder() {
		if err := m.siftVariable(id, maxNodes); err != nil {
			return m.setkindErr(errMemory, "reorder: %s", err)
		}
	}
	if m.kind == KindKFDD {
		if err := m.dtlRefine(); err != nil {
			return m.setkindErr(errMemory, "reorder: %s", err)
		}
	}
	return nil
}

// siftVariable moves variable id up to the top of the order, then down to
// the bottom, then back to whichever level along that walk produced the
// smallest live node count (ties keep the first, i.e. shallowest, position
// found). A step that would exceed maxNodes live nodes stops that half of
// the walk early.
func (m *Manager) siftVariable(id int32, maxNodes int) error {
	varnum := int32(len(m.vars))
	bestLevel := m.vartolevel(id)
	bestCount := m.liveReachableCount()

	for m.vartolevel(id) > 0 {
		lvl := m.vartolevel(id)
		if err := m.swapAdjacent(lvl - 1); err != nil {
			return err
		}
		cnt := m.liveReachableCount()
		if cnt > maxNodes {
			break
		}
		if cnt < bestCount {
			bestCount, bestLevel = cnt, m.vartolevel(id)
		}
	}
	for m.vartolevel(id) < varnum-1 {
		lvl := m.vartolevel(id)
		if err := m.swapAdjacent(lvl); err != nil {
			return err
		}
		cnt := m.liveReachableCount()
		if cnt > maxNodes {
			break
		}
		if cnt < bestCount {
			bestCount, bestLevel = cnt, m.vartolevel(id)
		}
	}
	for m.vartolevel(id) != bestLevel {
		if m.vartolevel(id) > bestLevel {
			if err := m.swapAdjacent(m.vartolevel(id) - 1); err != nil {
				return err
			}
		} else {
			if err := m.swapAdjacent(m.vartolevel(id)); err != nil {
				return err
			}
		}
	}
	return nil
}

// dtlRefine is KFDD's "decomposition-type-and-level" addition to sifting
// (§4.6): once ordinary sifting has settled, try each of the three
// decomposition tags at every variable's final level and keep whichever
// minimizes the live node count. It runs as a second pass (rather than at
// every tentative level visited during sifting itself) to keep the search
// cost linear in the number of variables instead of cubic.
func (m *Manager) dtlRefine() error {
	for id := int32(0); int(id) < len(m.vars); id++ {
		best := m.vars[id].decomp
		bestCount := m.liveReachableCount()
		for _, tag := range []Decomp{Shannon, PosDavio, NegDavio} {
			if tag == m.vars[id].decomp {
				continue
			}
			if err := m.changeDecomposition(id, tag); err != nil {
				return err
			}
			if cnt := m.liveReachableCount(); cnt < bestCount {
				bestCount, best = cnt, tag
			}
		}
		if m.vars[id].decomp != best {
			if err := m.changeDecomposition(id, best); err != nil {
				return err
			}
		}
	}
	return nil
}
