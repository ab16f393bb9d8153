package rsync

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the signature, diff, and apply operations.
// Callers should compare with errors.Is, since all of them may be wrapped
// with additional context.
var (
	// ErrInvalidSignature indicates a malformed signature blob, an
	// unrecognized magic, an inconsistent length, or a request to diff
	// against the reserved-but-unimplemented BLAKE2 family.
	ErrInvalidSignature = errors.New("invalid or unsupported signature")

	// ErrWrongMagic indicates a delta did not begin with deltaMagic.
	ErrWrongMagic = errors.New("delta does not start with the expected magic")

	// ErrUnexpectedEOF indicates a delta ended before an END opcode was
	// read, either mid-instruction or with a sink that accepted less than
	// was promised.
	ErrUnexpectedEOF = errors.New("unexpected end of input")
)

// UnknownCommandError is returned by Apply when a delta instruction byte
// does not correspond to any known opcode.
type UnknownCommandError struct {
	Op byte
}

func (e *UnknownCommandError) Error() string {
	return fmt.Sprintf("unknown delta command 0x%02x", e.Op)
}

// OutOfBoundsError is returned by Apply when a COPY instruction references
// bytes past the end of the base, or whose offset+length overflows.
type OutOfBoundsError struct {
	Offset, Length uint64
	BaseLen        int
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("copy [%d, %d) out of bounds for base of length %d", e.Offset, e.Offset+e.Length, e.BaseLen)
}
