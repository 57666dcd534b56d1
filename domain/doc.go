// Package domain implements index domains: ordered sets of named integer
// dimensions over which variables, expressions and constraints are
// instantiated.
//
// A Domain is the cross product of its dimensions, restricted by zero or
// more filter predicates. Tuples are produced in lexicographic order of the
// declared dimension order (outer dimension varies slowest); this order is
// observable downstream, it fixes variable-identity assignment, constraint
// emission order and solution query order.
package domain
