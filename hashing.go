// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package xdd

// Hash functions used to index the array-based operation caches (cache.go).
// The unique table itself (manager.go) keys directly on a comparable Go
// struct and needs no manual hashing; these pairing functions exist only to
// turn a handful of small integers into a single bucket index for the
// open-addressing operation caches, exactly as in the teacher's cache.go.

func _TRIPLE(a, b, c, len int) int {
	return int(_PAIR(c, _PAIR(a, b, len), len))
}

// _PAIR is a mapping function that maps (bijectively) a pair of integers (a,
// b) into a unique integer then casts it into a value in the interval
// [0..len) using a modulo operation.
func _PAIR(a, b, len int) int {
	ua := uint64(a)
	ub := uint64(b)
	return int(((((ua + ub) * (ua + ub + 1)) / 2) + (ua)) % uint64(len))
}

// edgemix folds an Edge's decoration into a single int suitable as one of the
// operands to _PAIR/_TRIPLE. Collisions are fine: every cache lookup verifies
// full equality against the stored key (see cache.go), the mix is only used to
// pick a bucket.
func edgemix(e Edge) int {
	h := e.target << 2
	if e.comp {
		h |= 1
	}
	if e.exp {
		h |= 2
	}
	// fold in the weight (only meaningful for BMD/PHDD edges) so that two
	// edges to the same node with different weights do not collide silently
	// before the equality check.
	h = h*1000003 + int(e.w.num)
	h = h*1000003 + int(e.w.den)
	return h
}
