// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package xdd

import (
	"errors"
)

// _MINFREENODES is the minimal number of nodes (%) that has to be left after a
// garbage collect unless a resize should be done.
const _MINFREENODES int = 20

// _MAXVAR is the maximal number of levels in a diagram. We use only the first
// 21 bits for encoding levels (so also the max number of variables). We use 11
// other bits for markings. Hence we make sure to always use int32 to avoid
// problems when we change architecture.
const _MAXVAR int32 = 0x1FFFFF

// _MAXREFCOUNT is the maximal value of the reference counter (refcou), also
// used to stick nodes (like constants and variables) in the node list. It is
// equal to 1023 (10 bits).
const _MAXREFCOUNT int32 = 0x3FF

// _DEFAULTMAXNODEINC is the default value for the maximal increase in the
// number of nodes during a resize. It is approx. one million nodes (1 048 576).
const _DEFAULTMAXNODEINC int = 1 << 20

// idZero and idOne are the two reserved node identifiers shared by every
// variant: 0 is the additive/false terminal, 1 is the multiplicative/true
// terminal. Algebraic variants reuse them as the numeric constants 0 and 1 so
// that the same reserved ids serve as the bottom of every variant's terminal
// pool.
const (
	idZero = 0
	idOne  = 1
)

var errMemory = errors.New("unable to free memory or resize the node table")
var errResize = errors.New("should cache resize") // when gbc and then noderesize
var errReset = errors.New("should cache reset")    // when gbc only, without resizing

// sentinel errors backing the three error kinds from the error-handling
// design: arithmetic overflow, invalid argument, resource exhaustion. They are
// wrapped with fmt.Errorf (see errors.go) rather than exposed raw so a
// Manager's Error always carries operation-specific context.
var (
	errOverflow   = errors.New("arithmetic overflow")
	errInvalidArg = errors.New("invalid argument")
	errForeign    = errors.New("edge belongs to a different manager")
)
