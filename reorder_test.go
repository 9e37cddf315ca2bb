// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package xdd

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestPropertySwapPreservesFunction checks property 7: swapping two adjacent
// levels changes the internal node structure but never the function any live
// edge denotes, for every assignment.
func TestPropertySwapPreservesFunction(t *testing.T) {
	r := require.New(t)
	m, err := New(KindBDD, 4)
	r.NoError(err)
	x0, x1, x2, x3 := m.Ithvar(0), m.Ithvar(1), m.Ithvar(2), m.Ithvar(3)
	f := m.Or(m.And(x0, x1), m.And(x2, m.Not(x3)))
	r.False(m.Errored(), m.Error())

	before := make(map[int]int64, 16)
	for _, a := range allAssignments(4) {
		v, _, err := m.Eval(f, a)
		r.NoError(err)
		before[assignmentKey(a)] = v
	}

	r.NoError(m.Swap(1, 2))
	for _, a := range allAssignments(4) {
		v, _, err := m.Eval(f, a)
		r.NoError(err)
		r.Equal(before[assignmentKey(a)], v, "swap(1,2) must preserve eval at %v", a)
	}

	r.NoError(m.Swap(0, 1))
	for _, a := range allAssignments(4) {
		v, _, err := m.Eval(f, a)
		r.NoError(err)
		r.Equal(before[assignmentKey(a)], v, "swap(0,1) must preserve eval at %v", a)
	}
}

// TestPropertySwapPreservesFunctionKFDD checks the same property 7 on a
// mixed-decomposition KFDD, where swapShannon's rawCofactor/rawRecombine
// path (rather than the plain BDD Shannon-only path) does the rewriting.
func TestPropertySwapPreservesFunctionKFDD(t *testing.T) {
	r := require.New(t)
	m, err := New(KindKFDD, 3)
	r.NoError(err)
	x0, x1, x2 := m.Ithvar(0), m.Ithvar(1), m.Ithvar(2)
	r.NoError(m.SetDecomp(0, PosDavio))
	r.NoError(m.SetDecomp(1, NegDavio))
	f := m.Xor(m.And(x0, x1), x2)
	r.False(m.Errored(), m.Error())

	before := make(map[int]int64, 8)
	for _, a := range allAssignments(3) {
		v, _, err := m.Eval(f, a)
		r.NoError(err)
		before[assignmentKey(a)] = v
	}

	r.NoError(m.Swap(0, 1))
	for _, a := range allAssignments(3) {
		v, _, err := m.Eval(f, a)
		r.NoError(err)
		r.Equal(before[assignmentKey(a)], v, "swap(0,1) must preserve eval at %v", a)
	}
}

// TestPropertyReorderGrowthBound checks property 8: Reorder (sifting) never
// leaves the live node count above maxnodegrowth times the count measured
// when it started, and never increases the final size relative to the
// start for a function that already has a smaller diagram under some order.
func TestPropertyReorderGrowthBound(t *testing.T) {
	r := require.New(t)
	m, err := New(KindBDD, 4, Maxnodegrowth(1.2))
	r.NoError(err)
	x0, x1, x2, x3 := m.Ithvar(0), m.Ithvar(1), m.Ithvar(2), m.Ithvar(3)
	// Interleaved dependency (x0,x2) xor (x1,x3): badly ordered, this forces
	// a larger diagram than an order grouping each pair together.
	f := m.Xor(m.And(x0, x2), m.And(x1, x3))
	r.False(m.Errored(), m.Error())

	before := make(map[int]int64, 16)
	for _, a := range allAssignments(4) {
		v, _, err := m.Eval(f, a)
		r.NoError(err)
		before[assignmentKey(a)] = v
	}

	start, err := m.Size(f)
	r.NoError(err)
	r.NoError(m.Reorder())
	final, err := m.Size(f)
	r.NoError(err)

	r.LessOrEqual(final, start, "sifting must never increase f's reachable diagram size past its start")
	for _, a := range allAssignments(4) {
		v, _, err := m.Eval(f, a)
		r.NoError(err)
		r.Equal(before[assignmentKey(a)], v, "reorder must preserve eval at %v", a)
	}
}

// assignmentKey packs a boolean assignment into a small integer so it can
// key a map (allAssignments, shared with property_test.go, never produces
// vectors longer than a handful of variables).
func assignmentKey(a []bool) int {
	k := 0
	for i, b := range a {
		if b {
			k |= 1 << uint(i)
		}
	}
	return k
}
