// Package filesystem provides filesystem implementations for gitboot.
//
// This package contains implementations of the types.FS interface backed
// by afero: the real OS filesystem for production and an in-memory one
// for tests.
package filesystem
