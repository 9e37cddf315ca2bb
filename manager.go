// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package xdd

import (
	"fmt"
	"log"
	"math"
	"runtime"
	"sync/atomic"
	"unsafe"
)

// Kind selects which of the seven typed facades a Manager backs. All kinds
// share the same unique table, cache and GC machinery; only node reduction
// and normalization (see makenode) and arithmetic differ between them.
type Kind int

const (
	KindBDD Kind = iota
	KindADD
	KindMTBDD
	KindBMD
	KindPHDD
	KindKFDD
	KindBHD
)

func (k Kind) String() string {
	switch k {
	case KindBDD:
		return "BDD"
	case KindADD:
		return "ADD"
	case KindMTBDD:
		return "MTBDD"
	case KindBMD:
		return "BMD"
	case KindPHDD:
		return "PHDD"
	case KindKFDD:
		return "KFDD"
	case KindBHD:
		return "BHD"
	default:
		return "?"
	}
}

// nodekey is the unique-table key: a node is uniquely determined by its
// level and the (already-reduced, already-normalized) edges of its two
// children. Using a plain comparable struct as a map key lets us lean on the
// standard runtime hashmap instead of the teacher's manual byte-buffer
// hashing (huddhash), the same simplification the teacher itself suggests
// ("could migrate to... the standard runtime hashmap").
type nodekey struct {
	level int32
	lo    Edge
	hi    Edge
}

// Manager is the shared substrate backing every variant facade: the
// variable registry (C1), the unique table (C2), the operation caches (C5),
// reference counting and garbage collection (C8), and (via reorder.go) the
// dynamic reordering engine (C7).
type Manager struct {
	kind Kind

	vars      []variable // variable registry, indexed by id
	level2var []int32    // inverse of vars[id].level

	nodes    []node           // node storage; slots 0 and 1 are the constants
	unique   map[nodekey]int  // unique table: (level,lo,hi) -> node id
	freenum  int              // number of free slots
	freepos  int              // first free slot, or 0 if none
	produced int              // total nodes ever produced

	refstack []int // stack of node ids protected during a recursive build

	nodefinalizer interface{} // finalizer decrementing refcou of external handles

	// Algebraic/weighted terminal pool: numeric leaves are hash-consed by
	// value the same way inner nodes are hash-consed by (level,lo,hi).
	termval  map[int]weight
	termpool map[weight]int

	configs
	gcstat
	caches

	uniqueAccess, uniqueHit, uniqueMiss int

	// heuristicRoot is the level of the topmost variable tested by the
	// outermost Apply/Ite call currently in progress. BHD's LEVEL heuristic
	// (config.go) measures recursion depth relative to this level, the same
	// way the teacher's recursive apply functions keep transient per-call
	// state (m.applycache.op, m.quantcache.forall) as plain Manager fields
	// rather than threading an extra parameter through every recursive call.
	heuristicRoot int32

	error error
}

// New creates a Manager for the given Kind with varnum variables. The
// initial node table size and cache sizes can be tuned with the option
// functions in config.go; the table grows automatically when it runs low on
// free nodes (see gc.go), so the initial size mostly affects performance,
// not correctness.
func New(kind Kind, varnum int, options ...func(*configs)) (*Manager, error) {
	if (varnum < 1) || (varnum > int(_MAXVAR)) {
		return nil, fmt.Errorf("bad number of variables (%d)", varnum)
	}
	config := makeconfigs(varnum)
	for _, f := range options {
		f(config)
	}
	m := &Manager{kind: kind}
	m.configs = *config
	if _LOGLEVEL > 0 {
		log.Printf("new %s manager, varnum %d\n", kind, varnum)
	}

	nodesize := config.nodesize
	m.nodes = make([]node, nodesize)
	for k := range m.nodes {
		m.nodes[k] = node{level: 0, low: Edge{target: -1}, high: Edge{target: k + 1}}
	}
	m.nodes[nodesize-1].high = Edge{target: 0}
	m.unique = make(map[nodekey]int, nodesize)
	m.termval = make(map[int]weight)
	m.termpool = make(map[weight]int)

	// Constants always sit at the highest level and are never entered in
	// the unique table: nothing ever reduces or normalizes to a raw
	// makenode call with level == varnum.
	m.nodes[idZero] = node{level: int32(varnum), low: Edge{target: idZero}, high: Edge{target: idZero}, refcou: _MAXREFCOUNT}
	m.nodes[idOne] = node{level: int32(varnum), low: Edge{target: idOne}, high: Edge{target: idOne}, refcou: _MAXREFCOUNT}
	m.freepos = 2
	m.freenum = len(m.nodes) - 2

	m.refstack = make([]int, 0, 2*varnum+4)
	m.initref()

	// weighted variants (BMD, PHDD) must carry an explicit unit weight on
	// the edge that points at the true terminal: intern is the raw
	// interning step and, unlike makeWeightedNode, never rewrites a
	// zero-weight edge, so passing a bare plain() edge here would silently
	// make the projection's high branch carry no weight at all.
	one := m.trueConst()
	if m.kind == KindBMD || m.kind == KindPHDD {
		one = one.withWeight(1, 1)
	}

	m.vars = make([]variable, varnum)
	m.level2var = make([]int32, varnum)
	for k := 0; k < varnum; k++ {
		m.vars[k] = variable{id: int32(k), level: int32(k), decomp: config.decomposition}
		m.level2var[k] = int32(k)
		v0, err := m.intern(int32(k), plain(idZero), one)
		if err != nil && err != errReset && err != errResize {
			return nil, fmt.Errorf("cannot allocate variable %d: %w", k, err)
		}
		m.nodes[v0].refcou = _MAXREFCOUNT
		m.vars[k].pos = Edge{target: v0, w: one.w}
		if complementKind(m.kind) {
			// 1 is stored as ¬0: the negative projection is a complemented
			// reference to the same node as the positive one, not a second
			// interned node, so Not(Ithvar(k)) and NIthvar(k) stay
			// structurally identical.
			m.vars[k].neg = Edge{target: v0, comp: true}
			continue
		}
		m.pushref(v0)
		lin := plain(idZero)
		if m.kind == KindBMD || m.kind == KindPHDD {
			lin = one.withWeight(-1, 1) // moment form of 1-x: 1 + x*(-1)
		}
		v1, err := m.intern(int32(k), one, lin)
		if err != nil && err != errReset && err != errResize {
			return nil, fmt.Errorf("cannot allocate variable %d: %w", k, err)
		}
		m.nodes[v1].refcou = _MAXREFCOUNT
		m.popref(1)
		m.vars[k].neg = Edge{target: v1, w: one.w}
	}

	m.gcstat.history = []gcpoint{}
	m.nodefinalizer = func(n *int) {
		if _DEBUG {
			atomic.AddUint64(&(m.gcstat.calledfinalizers), 1)
			if _LOGLEVEL > 2 {
				log.Printf("dec refcou %d\n", *n)
			}
		}
		m.nodes[*n].refcou--
	}
	m.cacheinit(config)
	return m, nil
}

// checkptr validates that n is a handle produced by this manager and still
// within the bounds of the node table. Every exported operation calls it on
// its Node arguments before doing anything else.
func (m *Manager) checkptr(n Node) error {
	if n == nil {
		m.setkind(errInvalidArg, "nil node")
		return m.error
	}
	if n.target < 0 || n.target >= len(m.nodes) {
		m.setkind(errInvalidArg, "node %v out of range", n.target)
		return m.error
	}
	return nil
}

// retnode wraps node id n into an external handle, bumping its reference
// count and arranging for a finalizer to undo that bump once the last copy
// of the handle becomes unreachable. This mirrors the teacher's *int handle
// trick but the handle now carries the full Edge decoration, not just a bare
// index, so complement/weight/exp information survives outside the manager.
func (m *Manager) retnode(e Edge) Node {
	n := e.target
	if n < 0 || n >= len(m.nodes) {
		if _DEBUG {
			log.Panicf("retnode(%d) not valid\n", n)
		}
		return nil
	}
	x := e
	if m.nodes[n].refcou < _MAXREFCOUNT {
		m.nodes[n].refcou++
		runtime.SetFinalizer(&x, func(*Edge) { m.nodefinalizer.(func(*int))(&n) })
		if _DEBUG {
			atomic.AddUint64(&(m.gcstat.setfinalizers), 1)
		}
	}
	return &x
}

// intern is the shared unique-table lookup/insert step (step 3 of C2's
// three-step recipe: reduction and normalization happen in the
// variant-specific makeXNode functions in nodeops.go and kfdd.go; intern only ever sees
// already-canonical (level,lo,hi) triples). It grows the table or runs a
// garbage collection when no free slot remains, exactly as the teacher's
// makenode/gbc/noderesize do.
func (m *Manager) intern(level int32, lo, hi Edge) (int, error) {
	if _DEBUG {
		m.uniqueAccess++
	}
	key := nodekey{level: level, lo: lo, hi: hi}
	if res, ok := m.unique[key]; ok {
		if _DEBUG {
			m.uniqueHit++
		}
		return res, nil
	}
	if _DEBUG {
		m.uniqueMiss++
	}
	var err error
	if m.freepos == 0 {
		m.gbc()
		err = errReset
		if (m.freenum*100)/len(m.nodes) <= m.minfreenodes {
			err = m.noderesize()
			if err != errResize {
				return -1, errMemory
			}
		}
		if m.freepos == 0 {
			return -1, errMemory
		}
	}
	m.produced++
	return m.setnode(key), err
}

func (m *Manager) setnode(key nodekey) int {
	m.freenum--
	res := m.freepos
	m.freepos = m.nodes[m.freepos].high.target
	m.nodes[res] = node{level: key.level, low: key.lo, high: key.hi, refcou: 0}
	m.unique[key] = res
	return res
}

func (m *Manager) delnode(n node) {
	delete(m.unique, nodekey{level: n.level & levelmask, lo: n.low, hi: n.high})
}

func (m *Manager) noderesize() error {
	if _LOGLEVEL > 0 {
		log.Printf("start resize: %d\n", len(m.nodes))
	}
	oldsize := len(m.nodes)
	nodesize := oldsize
	if oldsize >= m.maxnodesize && m.maxnodesize > 0 {
		return errMemory
	}
	if oldsize > (math.MaxInt32 >> 1) {
		nodesize = math.MaxInt32 - 1
	} else {
		nodesize = nodesize << 1
	}
	if m.maxnodeincrease > 0 && nodesize > oldsize+m.maxnodeincrease {
		nodesize = oldsize + m.maxnodeincrease
	}
	if nodesize > m.maxnodesize && m.maxnodesize > 0 {
		nodesize = m.maxnodesize
	}
	if nodesize <= oldsize {
		return errMemory
	}

	tmp := m.nodes
	m.nodes = make([]node, nodesize)
	copy(m.nodes, tmp)
	for n := oldsize; n < nodesize; n++ {
		m.nodes[n] = node{low: Edge{target: -1}, high: Edge{target: n + 1}}
	}
	m.nodes[nodesize-1].high = Edge{target: m.freepos}
	m.freepos = oldsize
	m.freenum += nodesize - oldsize

	m.cacheresize(nodesize)
	if _LOGLEVEL > 0 {
		log.Printf("end resize: %d\n", len(m.nodes))
	}
	return errResize
}

// Stats returns a human-readable summary of node table occupancy, cache
// behavior and garbage collection history, mirroring the teacher's Stats.
func (m *Manager) Stats() string {
	res := fmt.Sprintf("Impl.:      %s\n", m.kind)
	res += fmt.Sprintf("Allocated:  %d (%s)\n", len(m.nodes), humanSize(len(m.nodes), unsafe.Sizeof(node{})))
	res += fmt.Sprintf("Produced:   %d\n", m.produced)
	r := (float64(m.freenum) / float64(len(m.nodes))) * 100
	res += fmt.Sprintf("Free:       %d (%.3g %%)\n", m.freenum, r)
	res += fmt.Sprintf("Used:       %d (%.3g %%)\n", len(m.nodes)-m.freenum, 100.0-r)
	res += "==============\n"
	res += fmt.Sprintf("# of GC:    %d\n", len(m.gcstat.history))
	if _DEBUG {
		allocated := int(m.gcstat.setfinalizers)
		reclaimed := int(m.gcstat.calledfinalizers)
		for _, g := range m.gcstat.history {
			allocated += g.setfinalizers
			reclaimed += g.calledfinalizers
		}
		res += fmt.Sprintf("Ext. refs:  %d\n", allocated)
		res += fmt.Sprintf("Reclaimed:  %d\n", reclaimed)
		res += "==============\n"
		res += fmt.Sprintf("Unique Access:  %d\n", m.uniqueAccess)
		if m.uniqueAccess > 0 {
			res += fmt.Sprintf("Unique Hit:     %d (%.1f%%)\n", m.uniqueHit, (float64(m.uniqueHit)*100)/float64(m.uniqueAccess))
		}
		res += fmt.Sprintf("Unique Miss:    %d\n", m.uniqueMiss)
	}
	return res
}

func humanSize(n int, sz uintptr) string {
	bytes := float64(n) * float64(sz)
	units := []string{"B", "KB", "MB", "GB"}
	i := 0
	for bytes >= 1024 && i < len(units)-1 {
		bytes /= 1024
		i++
	}
	return fmt.Sprintf("%.3g%s", bytes, units[i])
}
