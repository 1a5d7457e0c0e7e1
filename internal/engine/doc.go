// Package engine implements the financial settlement core: split
// allocation, balance aggregation, and debt simplification.
//
// Everything operates on int64 minor units (cents). The engine never
// touches floating-point currency values, so exact-cent conservation is
// an arithmetic property rather than an epsilon game: every allocator
// output sums exactly to its input total, and every set of simplifier
// transactions exactly re-zeros the balances it was given.
//
// All functions are pure and hold no state across calls; they may be
// invoked concurrently for different groups without coordination.
package engine
