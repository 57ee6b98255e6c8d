// Package tree implements the recursive directory operations the swap
// engine is built from: copy, remove, move, clear, digest and directory
// links. Every operation goes through types.FS and fails fast: the first
// error aborts the operation and is returned with the ErrIO code, leaving
// whatever was already done in place. Callers treat that as fatal.
package tree
