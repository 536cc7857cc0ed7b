// Package sparselu is a sparse basis-factorization and update engine
// for a revised-simplex LP solver's host driver.
//
// Two subpackages do the work:
//
//	svec/   — the sparse vector buffer (SV): a dense array paired with a
//	          hyper-sparse nonzero index, a pack buffer, and a
//	          synthetic-work counter.
//	factor/ — the factor store (FS): builds the LU factors of B from a
//	          constraint matrix and basic-index list (Build), solves
//	          B*x=r / B^T*x=r against it (FTRAN/BTRAN), and keeps it
//	          current across basis changes with the Forrest-Tomlin
//	          product-form update (Update) until a refactorization is
//	          cheaper.
//
// A typical host loop: factor.New, Setup, Build once; then FTRAN/BTRAN
// as the simplex driver prices and ratio-tests, and Update after each
// pivot, until Update reports UpdateLimitReached or ErrNumericalFailure
// and the host calls Build again.
package sparselu
