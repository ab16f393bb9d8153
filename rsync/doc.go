// Package rsync implements the rsync delta-transfer algorithm family:
// building a signature over a base byte sequence, computing a delta of a
// target against an indexed signature, and applying that delta to
// reconstruct the target from the base.
//
// The three operations are independent, synchronous, blocking calls:
// Calculate/Index build and index a Signature, Diff/DiffParallel compute a
// delta against target bytes, and Apply reconstructs the target from a base
// and a delta. Calculate and DiffParallel hash blocks on several goroutines
// internally and return only once all of them are done. None of them
// perform I/O beyond writing to a caller-supplied io.Writer.
//
// This package does not authenticate reconstructed data: a delta may fail
// to apply, or apply cleanly to the wrong bytes, if the base supplied to
// Apply does not match the one the signature was computed from. Callers
// needing that guarantee must verify the result independently, for example
// with a whole-file cryptographic hash.
package rsync
