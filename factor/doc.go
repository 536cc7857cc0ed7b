// Package factor implements the sparse basis-factorization and update
// engine at the heart of a revised-simplex LP solver.
//
// A Store holds the factored representation B^-1 = U^-1 * R_p * ... *
// R_1 * L^-1 of the current basis
// matrix, built once by Build from the constraint matrix and a basic-index
// list, then kept current across basis changes by Update (the
// Forrest-Tomlin product-form update) until UpdateLimitReached signals
// that a fresh Build is cheaper.
//
// FTRAN/BTRAN solve B*x=r and B^T*x=r respectively, switching between a
// hyper-sparse and a dense mode based on an adaptively tracked density.
// Both modes walk every pivot; the mode decides only whether the vector's
// Index of nonzero positions is kept up to date as entries are written.
//
// A *Store is single-threaded: one solve or one update may be active
// against it at a time. Independent stores share no state and may be used
// concurrently from separate goroutines.
package factor
