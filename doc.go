// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

/*
Package xdd implements a shared, reduced, canonical representation of
switching and pseudo-Boolean functions: decision diagrams, and the
algorithms that synthesize, query, and reorganize them.

Basics

A Manager owns a fixed (but extensible) number of variables, each
represented by an (integer) index in [0..Varnum), called a level. Most
operations return a Node, a small handle to a vertex of the diagram: a
variable level together with the low (false) and high (true) branch. The
two reserved node identifiers 0 and 1 are, depending on the variant, the
Boolean constants False/True or the numeric constants 0/1.

Variants

The same manager substrate backs seven typed facades, built over four
decomposition-style node shapes:

  - BDD:   Shannon decomposition, one-bit complement edges.
  - ADD, MTBDD: Shannon decomposition, numeric (possibly multi-valued) leaves.
  - BMD:   positive-Davio (moment) decomposition f = low + x*high, integer edge weights.
  - PHDD:  positive-Davio (moment) decomposition, rational edge weights.
  - KFDD:  per-variable choice of Shannon / positive-Davio / negative-Davio.
  - BHD:   Shannon decomposition plus a distinguished "exp" (don't-know) terminal.

Rather than one generated facade type per variant, a single Manager
carries a Kind tag (KindBDD, KindADD, ...) that every node-building
function (makenode, arith, quantify, ...) switches on; Node is the same
*Edge handle for every Kind, decorated as each variant needs (complement
bit, rational weight, exp flag). All seven variants share one unique
table (manager.go), one family of operation caches (cache.go), one
reference-counting garbage collector (gc.go), and one reordering engine
(reorder.go), and expose the same operation set (Var, the binary
connectives, Ite, Restrict, Compose, Exist/Forall, Eval, Size,
PathCount, Swap, Reorder, ...) through methods on *Manager.

Automatic memory management

The library is written in pure Go. We piggyback on the garbage
collection mechanism offered by the host language: external references
to nodes held by user code are tracked with runtime finalizers, exactly
as a manual reference count would be, but without requiring callers to
remember to release a handle explicitly.
*/
package xdd
