// Package triple resolves the target triple used to name the published sidecar.
//
// Resolution is an ordered list of strategies (override, toolchain, static
// table), each a pure function of an Environment snapshot. The first strategy
// that produces a triple wins; a strategy that cannot answer returns
// ErrNotApplicable and the next one is tried.
package triple
