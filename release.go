// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

//go:build !debug
// +build !debug

package xdd

// _DEBUG and _LOGLEVEL are compile-time constants so that the statistics
// bookkeeping and log.Printf calls guarded by them fold away entirely in a
// normal (non-debug) build: the Go compiler removes dead branches on a
// constant false condition, so none of that overhead survives to the hot
// apply recursion unless the debug build tag is set.
const _DEBUG bool = false
const _LOGLEVEL int = 0
