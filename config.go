// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package xdd

// configs is used to store the values of the different parameters of a
// manager.
type configs struct {
	varnum          int     // number of variables
	nodesize        int     // initial number of nodes in the table
	cachesize       int     // initial cache size (general)
	cacheratio      int     // initial ratio (general, 0 if size constant) between cache size and node table
	maxnodesize     int     // Maximum total number of nodes (0 if no limit)
	maxnodeincrease int     // Maximum number of nodes that can be added to the table at each resize (0 if no limit)
	minfreenodes    int     // Minimum number of nodes that should be left after GC before triggering a resize
	loadfactor      float64 // set by Loadfactor; stored only, not read by the node allocator
	deadfactor      float64 // set by Deadfactor; stored only, not read by the node allocator
	maxnodegrowth   float64 // multiplicative cap on reorder-induced growth
	decomposition   Decomp  // KFDD: decomposition tag assigned to freshly created variables
	heuristic       heuristic
}

// _DEFAULTCACHESIZE is the default initial size of every operation cache
// (applied before the nearest prime is taken), matching the teacher's
// documented default of "about 10 000" entries.
const _DEFAULTCACHESIZE = 10000

func makeconfigs(varnum int) *configs {
	c := &configs{varnum: varnum}
	c.minfreenodes = _MINFREENODES
	c.maxnodeincrease = _DEFAULTMAXNODEINC
	// we build enough nodes to include all the variables in varset
	c.nodesize = 2*varnum + 2
	c.loadfactor = 0.7
	c.deadfactor = 0.3
	c.maxnodegrowth = 1.2
	c.decomposition = Shannon
	c.heuristic = heuristic{kind: heuristicNone}
	return c
}

// Nodesize is a configuration option (function). Used as a parameter in New it
// sets a preferred initial size for the node table. The size of the diagram
// can increase during computation. By default we create a table large enough
// to include the two constants and the variables used at creation time.
func Nodesize(size int) func(*configs) {
	return func(c *configs) {
		if size >= 2*c.varnum+2 {
			c.nodesize = size
		}
	}
}

// Maxnodesize is a configuration option (function). Used as a parameter in New
// it sets a limit to the number of nodes in the manager. An operation trying
// to raise the number of nodes above this limit will generate an error and
// return a nil Node. The default value (0) means that there is no limit. In
// which case allocation can panic if we exhaust all the available memory.
func Maxnodesize(size int) func(*configs) {
	return func(c *configs) {
		c.maxnodesize = size
	}
}

// Maxnodeincrease is a configuration option (function). Used as a parameter in
// New it sets a limit on the increase in size of the node table. Below this
// limit we typically double the size of the node list each time we need to
// resize it. The default value is about a million nodes. Set the value to
// zero to avoid imposing a limit.
func Maxnodeincrease(size int) func(*configs) {
	return func(c *configs) {
		c.maxnodeincrease = size
	}
}

// Minfreenodes is a configuration option (function). Used as a parameter in
// New it sets the ratio of free nodes (%) that has to be left after a Garbage
// Collection event. When there are not enough free nodes, we try reclaiming
// unused nodes. With a ratio of, say 25, we resize the table if the number of
// free nodes is less than 25% of the capacity of the table (see Maxnodesize
// and Maxnodeincrease). The default value is 20%.
func Minfreenodes(ratio int) func(*configs) {
	return func(c *configs) {
		c.minfreenodes = ratio
	}
}

// Cachesize is a configuration option (function). Used as a parameter in New
// it sets the initial number of entries in the operation caches. The default
// value is 10 000. Typical values for nodesize are 10 000 nodes for small test
// examples and up to 1 000 000 nodes for large examples. See also Cacheratio.
func Cachesize(size int) func(*configs) {
	return func(c *configs) {
		c.cachesize = size
	}
}

// Cacheratio is a configuration option (function). Used as a parameter in New
// it sets a "cache ratio" (%) so that caches can grow each time we resize the
// node table. With a cache ratio of r, we have r available entries in the
// cache for every 100 slots in the node table. The default value (0) means the
// cache size never grows.
func Cacheratio(ratio int) func(*configs) {
	return func(c *configs) {
		c.cacheratio = ratio
	}
}

// Loadfactor is a configuration option (function). It records a hash-table
// occupancy ratio, in [0,1]; the default is 0.7. The value is stored in the
// configuration but nothing reads it: garbage collection runs only when the
// node table has no free slot left, whatever its occupancy.
func Loadfactor(ratio float64) func(*configs) {
	return func(c *configs) {
		c.loadfactor = ratio
	}
}

// Deadfactor is a configuration option (function). It records a fraction of
// dead (unreferenced, uncollected) nodes, in [0,1]; the default is 0.3. The
// value is stored in the configuration but nothing reads it: whether a
// resize follows a garbage collection depends on Minfreenodes alone.
func Deadfactor(ratio float64) func(*configs) {
	return func(c *configs) {
		c.deadfactor = ratio
	}
}

// Maxnodegrowth is a configuration option (function). It bounds the
// multiplicative increase in node count that Reorder (sifting) is allowed to
// produce while searching for a variable's best level; a candidate position
// is rejected if, at any point during the search, the live node count exceeds
// maxnodegrowth times the count measured when Reorder started. The default is
// 1.2.
func Maxnodegrowth(factor float64) func(*configs) {
	return func(c *configs) {
		c.maxnodegrowth = factor
	}
}

// InitialDecomposition is a configuration option (function), meaningful only
// for KFDD managers. It sets the decomposition tag assigned to variables
// created without an explicit tag. The default is Shannon.
func InitialDecomposition(d Decomp) func(*configs) {
	return func(c *configs) {
		c.decomposition = d
	}
}

// heuristicKind selects which bound a BHD manager uses to decide when to
// substitute the exp terminal for a subproblem it declines to expand fully.
type heuristicKind int

const (
	heuristicNone heuristicKind = iota
	heuristicLevel
	heuristicMemory
)

type heuristic struct {
	kind  heuristicKind
	bound int
}

// LevelHeuristic is a configuration option (function), meaningful only for BHD
// managers. It bounds the recursion depth (counted in levels below the
// current top variable) that Ite is willing to explore before collapsing the
// remaining subproblem to the exp terminal.
func LevelHeuristic(depthCap int) func(*configs) {
	return func(c *configs) {
		c.heuristic = heuristic{kind: heuristicLevel, bound: depthCap}
	}
}

// MemoryHeuristic is a configuration option (function), meaningful only for
// BHD managers. It bounds the number of live nodes (see the Open Questions
// resolution in SPEC_FULL.md: the bound is a node-count estimate, not wall
// memory) that Ite is willing to allocate before collapsing the remaining
// subproblem to the exp terminal.
func MemoryHeuristic(nodeCap int) func(*configs) {
	return func(c *configs) {
		c.heuristic = heuristic{kind: heuristicMemory, bound: nodeCap}
	}
}
