// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package xdd

import (
	"fmt"
	"math"
	"unsafe"
)

// caches bundles every operation (computed) cache (C5) used by the apply
// family. All of them are open-addressing arrays with overwrite-on-collision,
// exactly like the teacher's data4ncache/data3ncache: a miss is cheap (just a
// recomputation) so we never chain buckets.
type caches struct {
	applycache   *applycache
	itecache     *itecache
	arithcache   *arithcache
	quantcache   *quantcache
	appexcache   *appexcache
	replacecache *replacecache
	composecache *composecache
	misccache    *misccache // Restrict
}

// *************************************************************************
// base cache shapes.
//
// entry2/cache2 holds two Edge operands plus a disambiguating int id (the
// operator, or a quantification-set generation number); used by Apply, Not,
// arithmetic, Exist/Forall and AppEx. entry3/cache3 holds three Edge
// operands, needed for Ite (f,g,h) and Compose (n,var,g) where three
// independent values take part in the key. entry1/cache1 holds a single Edge
// operand plus an id, mirroring the teacher's 3-field replace cache.

type entry2 struct {
	valid bool
	a, b  Edge
	id    int
	res   Edge
}

type cache2 struct {
	ratio         int
	opHit, opMiss int
	table         []entry2
}

func (c *cache2) init(size, ratio int) {
	size = primeGte(size)
	c.table = make([]entry2, size)
	c.ratio = ratio
}

func (c *cache2) resize(size int) {
	if c.ratio > 0 {
		size = primeGte((size * c.ratio) / 100)
		c.table = make([]entry2, size)
	}
	c.reset()
}

func (c *cache2) reset() {
	for k := range c.table {
		c.table[k].valid = false
	}
}

func (c *cache2) lookup(a, b Edge, id int) (Edge, bool) {
	slot := _TRIPLE(edgemix(a), edgemix(b), id, len(c.table))
	e := c.table[slot]
	if e.valid && e.a == a && e.b == b && e.id == id {
		if _DEBUG {
			c.opHit++
		}
		return e.res, true
	}
	if _DEBUG {
		c.opMiss++
	}
	return Edge{}, false
}

func (c *cache2) store(a, b Edge, id int, res Edge) Edge {
	slot := _TRIPLE(edgemix(a), edgemix(b), id, len(c.table))
	c.table[slot] = entry2{valid: true, a: a, b: b, id: id, res: res}
	return res
}

type entry3 struct {
	valid   bool
	a, b, c Edge
	id      int
	res     Edge
}

type cache3 struct {
	ratio         int
	opHit, opMiss int
	table         []entry3
}

func (c *cache3) init(size, ratio int) {
	size = primeGte(size)
	c.table = make([]entry3, size)
	c.ratio = ratio
}

func (c *cache3) resize(size int) {
	if c.ratio > 0 {
		size = primeGte((size * c.ratio) / 100)
		c.table = make([]entry3, size)
	}
	c.reset()
}

func (c *cache3) reset() {
	for k := range c.table {
		c.table[k].valid = false
	}
}

func (c *cache3) lookup(a, b, cc Edge, id int) (Edge, bool) {
	slot := _TRIPLE(edgemix(a), edgemix(b)+edgemix(cc), id, len(c.table))
	e := c.table[slot]
	if e.valid && e.a == a && e.b == b && e.c == cc && e.id == id {
		if _DEBUG {
			c.opHit++
		}
		return e.res, true
	}
	if _DEBUG {
		c.opMiss++
	}
	return Edge{}, false
}

func (c *cache3) store(a, b, cc Edge, id int, res Edge) Edge {
	slot := _TRIPLE(edgemix(a), edgemix(b)+edgemix(cc), id, len(c.table))
	c.table[slot] = entry3{valid: true, a: a, b: b, c: cc, id: id, res: res}
	return res
}

type entry1 struct {
	valid bool
	a     Edge
	id    int
	res   Edge
}

type cache1 struct {
	ratio         int
	opHit, opMiss int
	table         []entry1
}

func (c *cache1) init(size, ratio int) {
	size = primeGte(size)
	c.table = make([]entry1, size)
	c.ratio = ratio
}

func (c *cache1) resize(size int) {
	if c.ratio > 0 {
		size = primeGte((size * c.ratio) / 100)
		c.table = make([]entry1, size)
	}
	c.reset()
}

func (c *cache1) reset() {
	for k := range c.table {
		c.table[k].valid = false
	}
}

func (c *cache1) lookup(a Edge, id int) (Edge, bool) {
	slot := _PAIR(edgemix(a), id, len(c.table))
	e := c.table[slot]
	if e.valid && e.a == a && e.id == id {
		if _DEBUG {
			c.opHit++
		}
		return e.res, true
	}
	if _DEBUG {
		c.opMiss++
	}
	return Edge{}, false
}

func (c *cache1) store(a Edge, id int, res Edge) Edge {
	slot := _PAIR(edgemix(a), id, len(c.table))
	c.table[slot] = entry1{valid: true, a: a, id: id, res: res}
	return res
}

// *************************************************************************
// per-family wrappers: thin named types over the base shapes, one per
// operation family, so cache statistics and hit/miss reporting stay
// separated by concern just as in the teacher.

type applycache struct {
	cache2
	op Operator
}

func (bc *applycache) matchapply(left, right Edge) (Edge, bool) {
	return bc.lookup(left, right, int(bc.op))
}

func (bc *applycache) setapply(left, right, res Edge) Edge {
	return bc.store(left, right, int(bc.op), res)
}

func (bc *applycache) matchnot(n Edge) (Edge, bool) {
	return bc.lookup(n, Edge{}, int(opnot))
}

func (bc *applycache) setnot(n, res Edge) Edge {
	return bc.store(n, Edge{}, int(opnot), res)
}

func (bc applycache) String() string {
	return cachestring("Apply", len(bc.table), unsafe.Sizeof(entry2{}), bc.opHit, bc.opMiss)
}

type itecache struct {
	cache3
}

func (bc *itecache) matchite(f, g, h Edge) (Edge, bool) {
	return bc.lookup(f, g, h, 0)
}

func (bc *itecache) setite(f, g, h, res Edge) Edge {
	return bc.store(f, g, h, 0, res)
}

func (bc itecache) String() string {
	return cachestring("ITE", len(bc.table), unsafe.Sizeof(entry3{}), bc.opHit, bc.opMiss)
}

// arithcache serves the numeric ADD/MTBDD/BMD/PHDD operators (add, sub,
// mul); it is keyed the same way as applycache but tagged with an ArithOp
// instead of an Operator so the two families never collide.
type arithcache struct {
	cache2
	op ArithOp
}

func (bc *arithcache) matcharith(left, right Edge) (Edge, bool) {
	return bc.lookup(left, right, 0x1000+int(bc.op))
}

func (bc *arithcache) setarith(left, right, res Edge) Edge {
	return bc.store(left, right, 0x1000+int(bc.op), res)
}

func (bc arithcache) String() string {
	return cachestring("Arith", len(bc.table), unsafe.Sizeof(entry2{}), bc.opHit, bc.opMiss)
}

// quantcache serves Exist/Forall. quantsetID is bumped by quantset2cache
// every time a new variable set is swept into quantset (the array mapping a
// level to "is it quantified in the current call"), which invalidates
// earlier entries without a full reset.
type quantcache struct {
	cache2
	quantset   []int32
	quantsetID int32
	quantlast  int32
	forall     bool
}

// quantset2cache records the variables reachable from the cube edge varset
// (built with Makeset) into quantset, tagged with a fresh quantsetID.
func (m *Manager) quantset2cache(varset Edge) error {
	if varset.target < 2 {
		return m.setkindErr(errInvalidArg, "illegal variable set in varset2cache")
	}
	m.quantcache.quantsetID++
	if m.quantcache.quantsetID == math.MaxInt32 {
		m.quantcache.quantset = make([]int32, len(m.vars))
		m.quantcache.quantsetID = 1
	}
	for i := varset.target; i > 1; i = m.nodes[i].high.target {
		m.quantcache.quantset[m.level(i)] = m.quantcache.quantsetID
		m.quantcache.quantlast = m.level(i)
	}
	return nil
}

func (bc *quantcache) matchquant(n, varset Edge) (Edge, bool) {
	id := int(bc.quantsetID) << 1
	if bc.forall {
		id |= 1
	}
	return bc.lookup(n, varset, id)
}

func (bc *quantcache) setquant(n, varset, res Edge) Edge {
	id := int(bc.quantsetID) << 1
	if bc.forall {
		id |= 1
	}
	return bc.store(n, varset, id, res)
}

func (bc quantcache) String() string {
	return cachestring("Quant", len(bc.table), unsafe.Sizeof(entry2{}), bc.opHit, bc.opMiss)
}

// appexcache serves AppEx (apply-then-exist): a mix of the apply and quant
// caches, keyed by (left, right, op<<2|quantsetID) so one table serves every
// operator.
type appexcache struct {
	cache2
	op Operator
}

func (bc *appexcache) matchappex(left, right Edge, qid int32) (Edge, bool) {
	return bc.lookup(left, right, int(bc.op)<<2|int(qid))
}

func (bc *appexcache) setappex(left, right Edge, qid int32, res Edge) Edge {
	return bc.store(left, right, int(bc.op)<<2|int(qid), res)
}

func (bc appexcache) String() string {
	return cachestring("AppEx", len(bc.table), unsafe.Sizeof(entry2{}), bc.opHit, bc.opMiss)
}

// replacecache serves Replace(n); id is bumped once per Replacer the same
// way the quantification id is, so stale entries for a previous renaming
// never get served.
type replacecache struct {
	cache1
	id int
}

func (bc *replacecache) matchreplace(n Edge) (Edge, bool) {
	return bc.lookup(n, bc.id)
}

func (bc *replacecache) setreplace(n, res Edge) Edge {
	return bc.store(n, bc.id, res)
}

func (bc replacecache) String() string {
	return cachestring("Replace", len(bc.table), unsafe.Sizeof(entry1{}), bc.opHit, bc.opMiss)
}

// composecache serves Compose(n,var,g): n and g are Edge operands, var (a
// variable level) fits in the int id.
type composecache struct {
	cache3
}

func (bc *composecache) matchcompose(n Edge, v int32, g Edge) (Edge, bool) {
	return bc.lookup(n, g, Edge{}, int(v))
}

func (bc *composecache) setcompose(n Edge, v int32, g, res Edge) Edge {
	return bc.store(n, g, Edge{}, int(v), res)
}

func (bc composecache) String() string {
	return cachestring("Compose", len(bc.table), unsafe.Sizeof(entry3{}), bc.opHit, bc.opMiss)
}

// misccache memoizes single-operand recursive queries. Restrict is its only
// user; HasConst and Sharpsat memoize in maps local to each call.
type misccache struct {
	cache1
}

func (bc *misccache) matchmisc(n Edge, tag cachetag) (Edge, bool) {
	return bc.lookup(n, int(tag))
}

func (bc *misccache) setmisc(n Edge, tag cachetag, res Edge) Edge {
	return bc.store(n, int(tag), res)
}

func (bc misccache) String() string {
	return cachestring("Misc", len(bc.table), unsafe.Sizeof(entry1{}), bc.opHit, bc.opMiss)
}

func cachestring(name string, size int, sz uintptr, hit, miss int) string {
	res := fmt.Sprintf("== %-8s cache %d (%s)\n", name, size, humanSize(size, sz))
	if hit+miss > 0 {
		res += fmt.Sprintf(" Hits: %d (%.1f%%)\n", hit, (float64(hit)*100)/float64(hit+miss))
	}
	res += fmt.Sprintf(" Miss: %d\n", miss)
	return res
}

// *************************************************************************
// Setup and shutdown, called from New and noderesize/gbc respectively.

func (m *Manager) cacheinit(c *configs) {
	size := 10000
	if c.cachesize != 0 {
		size = c.cachesize
	}
	size = primeGte(size)
	m.applycache = &applycache{}
	m.applycache.init(size, c.cacheratio)
	m.itecache = &itecache{}
	m.itecache.init(size, c.cacheratio)
	m.arithcache = &arithcache{}
	m.arithcache.init(size, c.cacheratio)
	m.quantcache = &quantcache{}
	m.quantcache.init(size, c.cacheratio)
	m.quantcache.quantset = make([]int32, len(m.vars))
	m.appexcache = &appexcache{}
	m.appexcache.init(size, c.cacheratio)
	m.replacecache = &replacecache{}
	m.replacecache.init(size, c.cacheratio)
	m.composecache = &composecache{}
	m.composecache.init(size, c.cacheratio)
	m.misccache = &misccache{}
	m.misccache.init(size, c.cacheratio)
}

func (m *Manager) cachereset() {
	m.applycache.reset()
	m.itecache.reset()
	m.arithcache.reset()
	m.quantcache.reset()
	m.appexcache.reset()
	m.replacecache.reset()
	m.composecache.reset()
	m.misccache.reset()
}

func (m *Manager) cacheresize(nodesize int) {
	m.applycache.resize(nodesize)
	m.itecache.resize(nodesize)
	m.arithcache.resize(nodesize)
	m.quantcache.resize(nodesize)
	m.appexcache.resize(nodesize)
	m.replacecache.resize(nodesize)
	m.composecache.resize(nodesize)
	m.misccache.resize(nodesize)
}
