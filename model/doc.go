// Package model implements the mutable model container: the variable
// registry, the four builder verbs (AddVariable, AddConstraint /
// AddConstraints, SetObjective, SetBounds), quantified summation and the
// mapping of raw solver values back onto indexed variable names.
//
// A Model is not safe for concurrent mutation; an embedding application
// must serialize access to a given instance. Freeze produces an independent
// solver.Problem snapshot, so a running solve never observes later
// mutation.
//
// Structural errors (duplicate or unknown variables, unbound filter
// indices, constant-false constraints) are reported synchronously by the
// builder call that caused them and leave the model unchanged: a constraint
// family is appended all or nothing.
package model
