// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package xdd

import "log"

// gcstat stores status information about garbage collections. We use a stack
// (slice) of objects to record the sequence of GC during a computation.
type gcstat struct {
	setfinalizers    uint64    // Total number of external references to nodes
	calledfinalizers uint64    // Number of external references that were freed
	history          []gcpoint // Snapshot of GC stats at each occurrence
}

type gcpoint struct {
	nodes            int // Total number of allocated nodes in the nodetable
	freenodes        int // Number of free nodes in the nodetable
	setfinalizers    int // Total number of external references to nodes
	calledfinalizers int // Number of external references that were freed
}

// *************************************************************************

// AddRef increases the reference count on node n and returns n so that calls
// can be easily chained together. A call to AddRef can never raise an error,
// even if we access an unused node or a value outside the range of the
// manager.
func (m *Manager) AddRef(n Node) Node {
	if err := m.checkptr(n); err != nil {
		return n
	}
	t := n.target
	if t < 2 || m.nodes[t].low.target == -1 {
		return n
	}
	if m.nodes[t].refcou < _MAXREFCOUNT {
		m.nodes[t].refcou++
	}
	return n
}

// DelRef decreases the reference count on a node and returns n so that calls
// can be easily chained together. A call to DelRef can never raise an error,
// even if we access an unused node or a value outside the range of the
// manager.
func (m *Manager) DelRef(n Node) Node {
	if err := m.checkptr(n); err != nil {
		return n
	}
	t := n.target
	if t < 2 || m.nodes[t].low.target == -1 {
		return n
	}
	if m.nodes[t].refcou <= 0 {
		return n
	}
	if m.nodes[t].refcou < _MAXREFCOUNT {
		m.nodes[t].refcou--
	}
	return n
}

// GC explicitly triggers a mark-sweep collection of unreferenced nodes, in
// addition to the automatic collections run by intern whenever the node
// table runs out of free slots.
func (m *Manager) GC() {
	m.gbc()
}

// gbc is the garbage collector called for reclaiming memory, inside a call
// to intern, when there are no free positions available. Allocated nodes
// that are not reclaimed do not move.
func (m *Manager) gbc() {
	if _LOGLEVEL > 0 {
		log.Println("starting GC")
	}
	if m.error != nil {
		return
	}

	// we append the current stats to the GC history
	if _DEBUG {
		m.gcstat.history = append(m.gcstat.history, gcpoint{
			nodes:            len(m.nodes),
			freenodes:        m.freenum,
			setfinalizers:    int(m.gcstat.setfinalizers),
			calledfinalizers: int(m.gcstat.calledfinalizers),
		})
		m.gcstat.setfinalizers = 0
		m.gcstat.calledfinalizers = 0
		if _LOGLEVEL > 0 {
			log.Printf("runtime.GC() reclaimed %d references\n", m.gcstat.calledfinalizers)
		}
	} else {
		m.gcstat.history = append(m.gcstat.history, gcpoint{
			nodes:     len(m.nodes),
			freenodes: m.freenum,
		})
	}
	// we mark the nodes in the refstack to avoid collecting them
	for _, r := range m.refstack {
		m.markrec(r)
	}
	// we also protect nodes with a positive refcount (and therefore also the
	// ones with a MAXREFCOUNT, such as constants and variables)
	for k := range m.nodes {
		if m.nodes[k].refcou > 0 {
			m.markrec(k)
		}
	}
	m.freepos = 0
	m.freenum = 0
	// we do a pass through the nodes list to remove the unmarked nodes from
	// the unique table and put them back on the free list. After this pass,
	// m.freepos points to the first free position, or 0 if there is none.
	for n := len(m.nodes) - 1; n > 1; n-- {
		if m.ismarked(n) && m.nodes[n].low.target != -1 {
			m.unmarknode(n)
			continue
		}
		if m.nodes[n].low.target != -1 {
			if v, ok := m.termval[n]; ok {
				delete(m.termval, n)
				delete(m.termpool, v)
			} else {
				m.delnode(m.nodes[n])
			}
		}
		m.nodes[n].low = Edge{target: -1}
		m.nodes[n].high = Edge{target: m.freepos}
		m.freepos = n
		m.freenum++
	}
	// we also invalidate the operation caches: every entry may reference a
	// node id that has just been reclaimed and reused for something else.
	m.cachereset()
	if _LOGLEVEL > 0 {
		log.Printf("end GC; freenum: %d\n", m.freenum)
	}
}

// *************************************************************************
// RECURSIVE MARK / UNMARK

func (m *Manager) markrec(n int) {
	if n < 2 || m.ismarked(n) || m.nodes[n].low.target == -1 {
		return
	}
	m.marknode(n)
	m.markrec(m.nodes[n].low.target)
	m.markrec(m.nodes[n].high.target)
}

func (m *Manager) unmarkall() {
	for k, v := range m.nodes {
		if k < 2 || !m.ismarked(k) || v.low.target == -1 {
			continue
		}
		m.unmarknode(k)
	}
}

// *************************************************************************
// private functions to manipulate the refstack; used to prevent nodes that
// are currently being built (e.g. transient nodes built during an apply)
// from being reclaimed during GC.

func (m *Manager) initref() {
	m.refstack = m.refstack[:0]
}

func (m *Manager) pushref(n int) int {
	m.refstack = append(m.refstack, n)
	return n
}

func (m *Manager) popref(a int) {
	m.refstack = m.refstack[:len(m.refstack)-a]
}
