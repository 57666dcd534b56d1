// Package mip provides an algebraic modeling layer for mixed-integer linear
// programs: indexed decision variables, symbolic linear expressions and
// quantified constraint generation, assembled into a solver-independent
// problem description.
//
// A model is built with the packages:
//   - domain: index domains (named dimensions, ranges, filter predicates)
//   - expr: immutable linear-expression algebra
//   - model: variable registry, builder verbs, solution mapping
//   - solver: the frozen problem handed to a solving backend
//
// Solving itself is delegated to an external backend implementing
// solver.Adapter; this module only guarantees correct model construction
// and correct solution-to-symbol mapping.
package mip

import (
	"github.com/blang/semver/v4"
)

var Version = semver.MustParse("0.4.0")
