package rsync

import (
	"fmt"
	"io"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// blockMatch is a confirmed block-aligned match found by DiffParallel.
type blockMatch struct {
	offset uint64
	length int
}

// DiffParallel is a block-aligned, multi-core alternative to Diff, valid
// only for BLAKE3 signatures (MD4 signatures fall through to the sequential
// Diff). It partitions data into non-overlapping windows at
// 0, blockSize, 2*blockSize, ... and looks each up in index concurrently;
// results are assembled back into delta order on the calling goroutine.
//
// Because it never tries unaligned positions, DiffParallel misses every
// match that Diff finds off a block boundary and can produce a different,
// but equally valid, delta: apply(base, DiffParallel(...)) == target still
// holds, but the two deltas are not byte-for-byte interchangeable and their
// compression ratios differ. Choose Diff when byte-granular matching
// matters more than wall-clock time.
func DiffParallel(index *IndexedSignature, data []byte, out io.Writer) error {
	if index.sigType == sigMd4 {
		return Diff(index, data, out)
	}
	if index.sigType != sigBlake3 {
		return fmt.Errorf("diffParallel requires a blake3 signature: %w", ErrInvalidSignature)
	}
	cryptoHashSize := int(index.cryptoHashSize)
	if cryptoHashSize > blake3Size {
		return fmt.Errorf("crypto hash size %d exceeds %d-byte digest: %w", cryptoHashSize, blake3Size, ErrInvalidSignature)
	}

	if err := writeMagic(out); err != nil {
		return err
	}

	blockSize := int(index.blockSize)
	var starts []int
	if limit := len(data) - (blockSize - 1); limit > 0 {
		for start := 0; start < limit; start += blockSize {
			starts = append(starts, start)
		}
	}

	results := make([]*blockMatch, len(starts))
	hasher := blake3Hasher{}
	sem := make(chan struct{}, runtime.GOMAXPROCS(0))
	var g errgroup.Group
	for i, start := range starts {
		i, start := i, start
		sem <- struct{}{}
		g.Go(func() error {
			defer func() { <-sem }()
			end := start + blockSize
			if end > len(data) {
				end = len(data)
			}
			block := data[start:end]
			crc := NewCrc().Update(block)
			blocks := index.blocks[crc]
			if blocks == nil {
				return nil
			}
			digest := hasher.hash(block)
			if idx, ok := blocks.get(digest[:cryptoHashSize]); ok {
				results[i] = &blockMatch{offset: uint64(idx) * uint64(blockSize), length: end - start}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	var state outputState
	for i, start := range starts {
		m := results[i]
		if m == nil {
			continue
		}
		if err := state.emit(start, data, out); err != nil {
			return err
		}
		if err := state.queueCopy(m.offset, m.length, start, data, out); err != nil {
			return err
		}
	}
	if err := state.emit(len(data), data, out); err != nil {
		return err
	}
	return writeEnd(out)
}
