// Package cfl solves the capacitated facility location problem to proven
// optimality within a tolerance, using branch-and-bound over LP relaxations.
//
// Given candidate production sources with activation costs and capacities,
// and clients with demands and per-source transport costs, Solve picks the
// set of sources to open minimizing activation plus transport cost. Bounds
// come from the continuous relaxation solved with gonum's simplex; a greedy
// construction seeds the incumbent.
package cfl
