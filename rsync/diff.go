package rsync

import (
	"fmt"
	"io"
)

// outputState coalesces adjacent copy instructions and tracks how much of
// the target has already been materialized into the delta, so the matcher
// can defer emitting literals/copies until it must.
type outputState struct {
	emitted      int
	hasQueued    bool
	queuedOffset uint64
	queuedLen    int
}

// emit flushes any queued copy and a literal for data[emitted:until].
func (s *outputState) emit(until int, data []byte, out io.Writer) error {
	if s.emitted == until {
		return nil
	}
	if s.hasQueued {
		if err := writeCopy(s.queuedOffset, uint64(s.queuedLen), out); err != nil {
			return err
		}
		s.emitted += s.queuedLen
		s.hasQueued = false
	}
	if s.emitted < until {
		chunk := data[s.emitted:until]
		if err := writeLiteral(chunk, out); err != nil {
			return err
		}
		s.emitted = until
	}
	return nil
}

// queueCopy appends (offset, length) to the pending copy when it is
// contiguous with both the target position it follows and the base region
// already queued; otherwise it flushes the old queue first.
func (s *outputState) queueCopy(offset uint64, length, here int, data []byte, out io.Writer) error {
	if s.hasQueued && uint64(s.emitted+s.queuedLen) == uint64(here) && s.queuedOffset+uint64(s.queuedLen) == offset {
		s.queuedLen += length
		return nil
	}
	if err := s.emit(here, data, out); err != nil {
		return err
	}
	s.hasQueued = true
	s.queuedOffset = offset
	s.queuedLen = length
	return nil
}

// Diff computes a delta that, applied to the base represented by index,
// reconstructs data, and writes it to out.
//
// Diff slides a rolling checksum across data byte-by-byte, so it finds
// matches at any alignment, not just block boundaries. See DiffParallel for
// a block-aligned, multi-core alternative (BLAKE3 signatures only).
//
// Since the weak and legacy strong hashes are not cryptographically
// tamper-proof guarantees on their own, callers must independently validate
// reconstructed data; Diff/Apply make no authenticity claims.
func Diff(index *IndexedSignature, data []byte, out io.Writer) error {
	blockSize := int(index.blockSize)
	cryptoHashSize := int(index.cryptoHashSize)

	hasher, err := hasherFor(index.sigType)
	if err != nil {
		return err
	}
	if cryptoHashSize > hasher.size() {
		return fmt.Errorf("crypto hash size %d exceeds %d-byte digest: %w", cryptoHashSize, hasher.size(), ErrInvalidSignature)
	}

	if err := writeMagic(out); err != nil {
		return err
	}

	var state outputState
	collisions := make(map[Crc]uint32)
	here := 0
outer:
	for len(data)-here >= blockSize {
		crc := NewCrc().Update(data[here : here+blockSize])
		for {
			if collisions[crc] < maxCrcCollisions {
				if blocks := index.blocks[crc]; blocks != nil {
					digest := hasher.hash(data[here : here+blockSize])
					if idx, ok := blocks.get(digest[:cryptoHashSize]); ok {
						if err := state.queueCopy(uint64(idx)*uint64(blockSize), blockSize, here, data, out); err != nil {
							return err
						}
						here += blockSize
						continue outer
					}
					collisions[crc]++
				}
			}

			here++
			if here+blockSize > len(data) {
				break outer
			}
			crc = crc.Rotate(uint32(blockSize), data[here-1], data[here+blockSize-1])
		}
	}
	if err := state.emit(len(data), data, out); err != nil {
		return err
	}
	return writeEnd(out)
}
