// Package solver defines the data handed to a solving backend: the frozen
// Problem (dense variable list, normalized constraint rows, objective) and
// the Solution it reports back.
//
// The numeric solving algorithm itself is an external collaborator behind
// the Adapter interface; this module never solves anything. A reported
// infeasible or unbounded status is a normal Solution for the caller to
// branch on, not an error.
package solver
