// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package xdd

import (
	"math/big"
)

// Allnodes applies f to every node reachable from the roots in n (id,
// level, low target, high target), or to every live node in the manager if
// n is empty. The two constants always appear with id 0 (False/0) and 1
// (True/1). Node visit order is unspecified. Traversal stops and returns an
// error as soon as f does.
func (m *Manager) Allnodes(f func(id, level, low, high int) error, n ...Node) error {
	for _, v := range n {
		if err := m.checkptr(v); err != nil {
			return err
		}
	}
	if len(n) == 0 {
		return m.allnodes(f)
	}
	return m.allnodesfrom(f, n)
}

func (m *Manager) allnodesfrom(f func(id, level, low, high int) error, n []Node) error {
	for _, v := range n {
		m.markrec(v.target)
	}
	if err := f(idZero, len(m.vars), idZero, idZero); err != nil {
		m.unmarkall()
		return err
	}
	if err := f(idOne, len(m.vars), idOne, idOne); err != nil {
		m.unmarkall()
		return err
	}
	for k := range m.nodes {
		if k > 1 && m.ismarked(k) {
			m.unmarknode(k)
			if err := f(k, int(m.level(k)), m.nodes[k].low.target, m.nodes[k].high.target); err != nil {
				m.unmarkall()
				return err
			}
		}
	}
	return nil
}

func (m *Manager) allnodes(f func(id, level, low, high int) error) error {
	if err := f(idZero, len(m.vars), idZero, idZero); err != nil {
		return err
	}
	if err := f(idOne, len(m.vars), idOne, idOne); err != nil {
		return err
	}
	for k, v := range m.nodes {
		if k > 1 && v.low.target != -1 {
			if err := f(k, int(m.level(k)), v.low.target, v.high.target); err != nil {
				return err
			}
		}
	}
	return nil
}

// Size returns the number of distinct nodes reachable from n, not counting
// the two constants.
func (m *Manager) Size(n Node) (int, error) {
	count := 0
	err := m.Allnodes(func(id, level, low, high int) error {
		if id > 1 {
			count++
		}
		return nil
	}, n)
	return count, err
}

// Depth returns the length of the longest root-to-terminal path in n.
func (m *Manager) Depth(n Node) (int, error) {
	if err := m.checkptr(n); err != nil {
		return 0, err
	}
	memo := make(map[int]int)
	return m.depth(n.target, memo), nil
}

func (m *Manager) depth(n int, memo map[int]int) int {
	if n < 2 {
		return 0
	}
	if d, ok := memo[n]; ok {
		return d
	}
	lo := m.depth(m.nodes[n].low.target, memo)
	hi := m.depth(m.nodes[n].high.target, memo)
	d := lo
	if hi > d {
		d = hi
	}
	d++
	memo[n] = d
	return d
}

// Allsat iterates through every legal variable assignment for n, calling f
// on each. The slice passed to f has length Varnum and assigns each
// variable 0 (false), 1 (true), or -1 (don't care, meaning both values
// satisfy n). Meaningful only for boolean-valued managers (BDD, BHD, KFDD).
// Iteration stops and returns an error as soon as f does.
func (m *Manager) Allsat(n Node, f func([]int) error) error {
	if !boolKind(m.kind) {
		return m.setkindErr(errInvalidArg, "Allsat is only meaningful for boolean-valued managers")
	}
	if err := m.checkptr(n); err != nil {
		return err
	}
	prof := make([]int, len(m.vars))
	for k := range prof {
		prof[k] = -1
	}
	return m.allsat(*n, prof, f)
}

func (m *Manager) allsat(e Edge, prof []int, f func([]int) error) error {
	if e.exp {
		return nil
	}
	if isTrueEdge(e) {
		return f(prof)
	}
	if isFalseEdge(e) {
		return nil
	}
	level := m.level(e.target)
	c0, c1, err := m.cofactor(e, level)
	if err != nil {
		return err
	}
	varid := m.leveltovar(level)
	if c0.exp || !isFalseEdge(c0) {
		prof[varid] = 0
		if err := m.allsat(c0, prof, f); err != nil {
			return err
		}
	}
	if c1.exp || !isFalseEdge(c1) {
		prof[varid] = 1
		if err := m.allsat(c1, prof, f); err != nil {
			return err
		}
	}
	prof[varid] = -1
	return nil
}

// Satcount returns the number of satisfying variable assignments for n, as
// arbitrary-precision arithmetic since the count can grow exponentially in
// Varnum. Meaningful only for boolean-valued managers.
func (m *Manager) Satcount(n Node) *big.Int {
	res := big.NewInt(0)
	if !boolKind(m.kind) {
		m.setkind(errInvalidArg, "Satcount is only meaningful for boolean-valued managers")
		return res
	}
	if err := m.checkptr(n); err != nil {
		return res
	}
	res.SetBit(res, int(m.edgeLevel(*n)), 1)
	satc := make(map[Edge]*big.Int)
	total, err := m.satcount(*n, satc)
	if err != nil {
		m.setkind(errMemory, "Satcount: %s", err)
		return big.NewInt(0)
	}
	return res.Mul(res, total)
}

func (m *Manager) satcount(e Edge, satc map[Edge]*big.Int) (*big.Int, error) {
	if e.exp {
		return nil, errInvalidArg
	}
	if e.target < 2 {
		return big.NewInt(m.termOf(e).num), nil
	}
	if res, ok := satc[e]; ok {
		return res, nil
	}
	level := m.level(e.target)
	c0, c1, err := m.cofactor(e, level)
	if err != nil {
		return nil, err
	}
	lo, err := m.satcount(c0, satc)
	if err != nil {
		return nil, err
	}
	hi, err := m.satcount(c1, satc)
	if err != nil {
		return nil, err
	}
	res := big.NewInt(0)
	two := big.NewInt(0)
	two.SetBit(two, int(m.edgeLevel(c0)-level-1), 1)
	res.Add(res, two.Mul(two, lo))
	two = big.NewInt(0)
	two.SetBit(two, int(m.edgeLevel(c1)-level-1), 1)
	res.Add(res, two.Mul(two, hi))
	satc[e] = res
	return res, nil
}

// PathCount returns the number of distinct root-to-terminal paths in n,
// expanding skipped levels the same way Satcount does, but counting every
// path regardless of which terminal it reaches: unlike Satcount this is
// meaningful for every variant, including the multi-valued ADD and MTBDD.
func (m *Manager) PathCount(n Node) (int64, error) {
	if err := m.checkptr(n); err != nil {
		return 0, err
	}
	memo := make(map[int]int64)
	count, err := m.pathcount(n.target, memo)
	if err != nil {
		return 0, err
	}
	scale, err := shiftOverflow(count, int(m.level(n.target)))
	if err != nil {
		m.setkind(errOverflow, "PathCount: %s", err)
		return 0, err
	}
	return scale, nil
}

func (m *Manager) pathcount(n int, memo map[int]int64) (int64, error) {
	if n < 2 || m.isTerminal(plain(n)) {
		return 1, nil
	}
	if res, ok := memo[n]; ok {
		return res, nil
	}
	low, high := m.nodes[n].low, m.nodes[n].high
	lo, err := m.pathcount(low.target, memo)
	if err != nil {
		return 0, err
	}
	hi, err := m.pathcount(high.target, memo)
	if err != nil {
		return 0, err
	}
	loScaled, err := shiftOverflow(lo, int(m.level(low.target)-m.level(n)-1))
	if err != nil {
		return 0, err
	}
	hiScaled, err := shiftOverflow(hi, int(m.level(high.target)-m.level(n)-1))
	if err != nil {
		return 0, err
	}
	res, err := addOverflow(loScaled, hiScaled)
	if err != nil {
		return 0, err
	}
	memo[n] = res
	return res, nil
}

func shiftOverflow(v int64, shift int) (int64, error) {
	if shift <= 0 {
		return v, nil
	}
	if shift >= 63 {
		return 0, errOverflow
	}
	if v != 0 && v > (1<<62)>>(shift-1) {
		return 0, errOverflow
	}
	return v << uint(shift), nil
}

// Sharpsat returns the number of variable assignments for which n evaluates
// to a value other than the additive identity (false, for boolean-valued
// managers; the numeric 0, for ADD/MTBDD/BMD/PHDD). Unlike Satcount it is
// fixed-width: per the overflow policy for counting operations, an
// assignment count that would not fit in an int64 is reported as
// errOverflow rather than silently truncated.
func (m *Manager) Sharpsat(n Node) (int64, error) {
	if err := m.checkptr(n); err != nil {
		return 0, err
	}
	memo := make(map[Edge]int64)
	count, err := m.sharpsat(*n, memo)
	if err != nil {
		m.setkind(errOverflow, "Sharpsat: %s", err)
		return 0, err
	}
	return shiftOverflow(count, int(m.level(n.target)))
}

func (m *Manager) sharpsat(e Edge, memo map[Edge]int64) (int64, error) {
	if e.exp {
		return 0, errInvalidArg
	}
	if m.isTerminal(e) {
		if m.termOf(e).num == 0 {
			return 0, nil
		}
		return 1, nil
	}
	if res, ok := memo[e]; ok {
		return res, nil
	}
	level := m.level(e.target)
	c0, c1, err := m.cofactor(e, level)
	if err != nil {
		return 0, err
	}
	lo, err := m.sharpsat(c0, memo)
	if err != nil {
		return 0, err
	}
	hi, err := m.sharpsat(c1, memo)
	if err != nil {
		return 0, err
	}
	loScaled, err := shiftOverflow(lo, int(m.edgeLevel(c0)-level-1))
	if err != nil {
		return 0, err
	}
	hiScaled, err := shiftOverflow(hi, int(m.edgeLevel(c1)-level-1))
	if err != nil {
		return 0, err
	}
	res, err := addOverflow(loScaled, hiScaled)
	if err != nil {
		return 0, err
	}
	memo[e] = res
	return res, nil
}

// HasConst reports whether the scalar value v appears as a leaf anywhere in
// the subgraph rooted at n. For boolean-valued managers v must be 0 or 1.
func (m *Manager) HasConst(n Node, v int64) (bool, error) {
	if err := m.checkptr(n); err != nil {
		return false, err
	}
	if boolKind(m.kind) && v != 0 && v != 1 {
		return false, m.setkindErr(errInvalidArg, "boolean-valued managers only have leaves 0 and 1")
	}
	visited := make(map[Edge]bool)
	return m.hasConstEdge(*n, v, visited), nil
}

// hasConstEdge walks the diagram rooted at e, propagating e's own complement
// bit down onto its children the same way cofactor and swapShannon's
// rawCofactor do. Allnodes's callback only ever reports a child's raw node
// id, which cannot distinguish a complemented reference to node 0 (true, for
// a complement kind) from a plain one (false); only an edge-level walk sees
// the decoration that actually determines which constant a leaf denotes.
func (m *Manager) hasConstEdge(e Edge, v int64, visited map[Edge]bool) bool {
	if e.exp {
		return false
	}
	if m.isTerminal(e) {
		if boolKind(m.kind) {
			return int64(boolOf(e)) == v
		}
		t := m.termOf(e)
		return t.den == 1 && t.num == v
	}
	if visited[e] {
		return false
	}
	visited[e] = true
	n := m.nodes[e.target]
	lo, hi := n.low, n.high
	if e.comp {
		lo, hi = lo.negate(), hi.negate()
	}
	return m.hasConstEdge(lo, v, visited) || m.hasConstEdge(hi, v, visited)
}

// IsEssential reports whether n's value can change when variable id is
// toggled, i.e. whether id actually appears in n's support (spec:
// is_essential(v)).
func (m *Manager) IsEssential(n Node, id int) (bool, error) {
	if err := m.checkptr(n); err != nil {
		return false, err
	}
	if id < 0 || id >= len(m.vars) {
		return false, m.setkindErr(errInvalidArg, "variable %d out of range", id)
	}
	r0 := m.Restrict(n, id, false)
	if m.Errored() {
		return false, m.error
	}
	r1 := m.Restrict(n, id, true)
	if m.Errored() {
		return false, m.error
	}
	return !m.Equal(r0, r1), nil
}

