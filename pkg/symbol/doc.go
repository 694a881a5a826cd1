// Package symbol defines the data model shared by the symbol registry and
// the execution scheduler: symbol descriptors, execution results, and the
// handler contract every detection rule implements.
//
// A "symbol" is one named detection rule with a declared weight, a static
// priority, and a set of symbols whose completion it depends on. The
// population of symbols is open-ended and contributed by mutually-unaware
// modules; this package is the single abstraction they are dispatched
// through.
package symbol
