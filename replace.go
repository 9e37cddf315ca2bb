// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package xdd

import (
	"fmt"
	"math"
)

var replaceID = 1

// Replacer is the type of association lists used to replace variables by
// other variables throughout a diagram (a pure renaming, as opposed to
// Compose's substitution by an arbitrary function).
type Replacer interface {
	Replace(int32) (int32, bool)
	Id() int
}

type replacer struct {
	id    int     // unique identifier used for caching intermediate results
	image []int32 // maps the level of old variables to the level of new ones
	last  int32   // last index in the Replacer, to speed up computations
}

func (r *replacer) String() string {
	res := fmt.Sprintf("replacer(last: %d)[", r.last)
	first := true
	for k, v := range r.image {
		if k != int(v) {
			if !first {
				res += ", "
			}
			first = false
			res += fmt.Sprintf("%d<-%d", k, v)
		}
	}
	return res + "]"
}

func (r *replacer) Replace(level int32) (int32, bool) {
	if level > r.last {
		return level, false
	}
	return r.image[level], true
}

func (r *replacer) Id() int {
	return r.id
}

// NewReplacer returns a Replacer substituting variable oldvars[k] with
// newvars[k] throughout any diagram built by m. It is an error for the two
// slices to differ in length, for either to mention the same variable
// twice, or for any value to fall outside [0, Varnum).
func (m *Manager) NewReplacer(oldvars, newvars []int) (Replacer, error) {
	res := &replacer{}
	if len(oldvars) != len(newvars) {
		return nil, m.setkindErr(errInvalidArg, "unmatched length of slices")
	}
	if replaceID == (math.MaxInt32 >> 2) {
		return nil, m.setkindErr(errOverflow, "too many replacers created")
	}
	res.id = replaceID
	replaceID++
	varnum := m.Varnum()
	support := make([]bool, varnum)
	res.image = make([]int32, varnum)
	for k := range res.image {
		res.image[k] = int32(k)
	}
	for k, v := range oldvars {
		if v < 0 || v >= varnum {
			return nil, m.setkindErr(errInvalidArg, "invalid variable in oldvars (%d)", v)
		}
		if support[v] {
			return nil, m.setkindErr(errInvalidArg, "duplicate variable (%d) in oldvars", v)
		}
		if newvars[k] < 0 || newvars[k] >= varnum {
			return nil, m.setkindErr(errInvalidArg, "invalid variable in newvars (%d)", newvars[k])
		}
		support[v] = true
		res.image[v] = int32(newvars[k])
		if int32(v) > res.last {
			res.last = int32(v)
		}
	}
	for _, v := range newvars {
		if int(res.image[v]) != v {
			return nil, m.setkindErr(errInvalidArg, "variable in newvars (%d) also occurs in oldvars", v)
		}
	}
	return res, nil
}

// Replace computes the result of substituting variables in n according to
// r. Unlike Compose, this is a relabeling: the replacement targets are
// variables, not arbitrary functions, so no Ite-style combination is
// needed, and every level can be handled with a single makenode/combine.
func (m *Manager) Replace(n Node, r Replacer) Node {
	if err := m.checkptr(n); err != nil {
		return nil
	}
	m.initref()
	m.pushref(n.target)
	m.replacecache.id = r.Id()
	res, err := m.replace(*n, r)
	m.popref(1)
	if err != nil {
		m.setkind(errMemory, "Replace: %s", err)
		return nil
	}
	return m.retnode(res)
}

func (m *Manager) replace(e Edge, r Replacer) (Edge, error) {
	if e.exp || e.target < 2 {
		return e, nil
	}
	level := m.level(e.target)
	image, ok := r.Replace(m.leveltovar(level))
	newlevel := level
	if ok {
		newlevel = m.vartolevel(image)
	}
	if res, ok := m.replacecache.matchreplace(e); ok {
		return res, nil
	}
	c0, c1, err := m.cofactor(e, level)
	if err != nil {
		return Edge{}, err
	}
	r0, err := m.replace(c0, r)
	if err != nil {
		return Edge{}, err
	}
	m.pushref(r0.target)
	r1, err := m.replace(c1, r)
	m.popref(1)
	if err != nil {
		return Edge{}, err
	}
	m.pushref(r0.target)
	m.pushref(r1.target)
	res, err := m.correctify(newlevel, r0, r1)
	m.popref(2)
	if err != nil {
		return Edge{}, err
	}
	return m.replacecache.setreplace(e, res), nil
}

// correctify builds the node for (level,low,high) even when the renaming
// has pushed low and/or high to a level at or above level itself, which can
// happen when a Replacer maps variables out of their original order. It
// recursively swaps levels back into a valid top-to-bottom order before
// calling combine, mirroring the teacher's correctify.
func (m *Manager) correctify(level int32, low, high Edge) (Edge, error) {
	lvlLow, lvlHigh := m.edgeLevel(low), m.edgeLevel(high)
	if level < lvlLow && level < lvlHigh {
		return m.combine(level, low, high)
	}
	if level == lvlLow || level == lvlHigh {
		return Edge{}, fmt.Errorf("replace produced an inconsistent level ordering at level %d", level)
	}
	if lvlLow == lvlHigh {
		lc0, lc1, err := m.cofactor(low, lvlLow)
		if err != nil {
			return Edge{}, err
		}
		hc0, hc1, err := m.cofactor(high, lvlHigh)
		if err != nil {
			return Edge{}, err
		}
		left, err := m.correctify(level, lc0, hc0)
		if err != nil {
			return Edge{}, err
		}
		m.pushref(left.target)
		right, err := m.correctify(level, lc1, hc1)
		m.popref(1)
		if err != nil {
			return Edge{}, err
		}
		m.pushref(left.target)
		m.pushref(right.target)
		res, err := m.combine(lvlLow, left, right)
		m.popref(2)
		return res, err
	}
	if lvlLow < lvlHigh {
		lc0, lc1, err := m.cofactor(low, lvlLow)
		if err != nil {
			return Edge{}, err
		}
		left, err := m.correctify(level, lc0, high)
		if err != nil {
			return Edge{}, err
		}
		m.pushref(left.target)
		right, err := m.correctify(level, lc1, high)
		m.popref(1)
		if err != nil {
			return Edge{}, err
		}
		m.pushref(left.target)
		m.pushref(right.target)
		res, err := m.combine(lvlLow, left, right)
		m.popref(2)
		return res, err
	}
	hc0, hc1, err := m.cofactor(high, lvlHigh)
	if err != nil {
		return Edge{}, err
	}
	left, err := m.correctify(level, low, hc0)
	if err != nil {
		return Edge{}, err
	}
	m.pushref(left.target)
	right, err := m.correctify(level, low, hc1)
	m.popref(1)
	if err != nil {
		return Edge{}, err
	}
	m.pushref(left.target)
	m.pushref(right.target)
	res, err := m.combine(lvlHigh, left, right)
	m.popref(2)
	return res, err
}
