// Package svec provides the sparse vector buffer (SV) shared by every layer
// of the factorization engine: a workspace representing a length-n vector as
// a dense array plus an unordered list of its nonzero positions.
//
// A Vector is reused across many solves. Callers clear it, fill it (directly
// or via CollectAj), and pass it to factor.Store's FTRAN/BTRAN/Update. The
// buffer tracks its own density so higher layers can choose between
// hyper-sparse and dense loops without re-scanning the array.
package svec
