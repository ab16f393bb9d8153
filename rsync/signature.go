package rsync

import (
	"encoding/binary"
	"fmt"
)

// signatureHeaderSize is the fixed prefix: magic, block size, crypto hash size.
const signatureHeaderSize = 4 + 4 + 4

// SignatureOptions configures Calculate.
type SignatureOptions struct {
	// BlockSize is the granularity of the signature. Smaller block sizes
	// yield larger, but more precise, signatures. Must be greater than zero.
	BlockSize uint32
	// CryptoHashSize is the number of strong-hash bytes retained per block.
	// Must be in (0, HashAlgorithm.MaxHashSize()]. Smaller values shrink the
	// signature at the cost of a higher false-match rate.
	CryptoHashSize uint32
	// HashAlgorithm selects the strong hash family.
	HashAlgorithm HashAlgorithm
}

// Signature is an immutable, serialized rsync signature: a self-describing
// header followed by one (Crc, strong-prefix) record per block of the base
// it was computed from.
type Signature struct {
	sigType        signatureType
	blockSize      uint32
	cryptoHashSize uint32
	data           []byte
}

// Calculate computes the signature of base under options.
//
// BlockSize must be greater than zero and CryptoHashSize must be at most
// HashAlgorithm.MaxHashSize(); both are programming errors and panic rather
// than returning an error, since they originate with the caller, not with
// untrusted data.
func Calculate(base []byte, options SignatureOptions) *Signature {
	if options.BlockSize == 0 {
		panic("rsync: SignatureOptions.BlockSize must be greater than zero")
	}
	if max := options.HashAlgorithm.MaxHashSize(); options.CryptoHashSize == 0 || int(options.CryptoHashSize) > max {
		panic(fmt.Sprintf("rsync: SignatureOptions.CryptoHashSize must be in (0, %d]", max))
	}

	sigType := options.HashAlgorithm.signatureType()
	hasher, err := hasherFor(sigType)
	if err != nil {
		// Unreachable: HashAlgorithm only yields Md4/Blake3.
		panic(err)
	}

	blockSize := int(options.BlockSize)
	numBlocks := (len(base) + blockSize - 1) / blockSize
	if len(base) == 0 {
		numBlocks = 0
	}

	recordSize := crcSize + int(options.CryptoHashSize)
	out := make([]byte, 0, signatureHeaderSize+numBlocks*recordSize)
	out = appendUint32(out, sigType.magic())
	out = appendUint32(out, options.BlockSize)
	out = appendUint32(out, options.CryptoHashSize)

	full, remainder := splitFullBlocks(base, blockSize)
	digests := hasher.hashMany(full)
	for i, block := range full {
		crc := NewCrc().Update(block)
		crcBytes := crc.Bytes()
		out = append(out, crcBytes[:]...)
		out = append(out, digests[i][:options.CryptoHashSize]...)
	}
	if len(remainder) > 0 {
		crc := NewCrc().Update(remainder)
		crcBytes := crc.Bytes()
		out = append(out, crcBytes[:]...)
		out = append(out, hasher.hash(remainder)[:options.CryptoHashSize]...)
	}

	return &Signature{
		sigType:        sigType,
		blockSize:      options.BlockSize,
		cryptoHashSize: options.CryptoHashSize,
		data:           out,
	}
}

// splitFullBlocks partitions buf into blockSize-wide chunks plus a (possibly
// empty) final remainder shorter than blockSize.
func splitFullBlocks(buf []byte, blockSize int) (full [][]byte, remainder []byte) {
	n := len(buf) / blockSize
	full = make([][]byte, n)
	for i := 0; i < n; i++ {
		full[i] = buf[i*blockSize : (i+1)*blockSize]
	}
	remainder = buf[n*blockSize:]
	return full, remainder
}

func appendUint32(b []byte, v uint32) []byte {
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], v)
	return append(b, tmp[:]...)
}

// Deserialize parses a previously-serialized signature. It validates the
// header and overall length but does not verify the hashes it contains.
func Deserialize(blob []byte) (*Signature, error) {
	if len(blob) < signatureHeaderSize {
		return nil, fmt.Errorf("signature shorter than header: %w", ErrInvalidSignature)
	}
	sigType, ok := signatureTypeFromMagic(binary.BigEndian.Uint32(blob[0:4]))
	if !ok {
		return nil, fmt.Errorf("unrecognized signature magic: %w", ErrInvalidSignature)
	}
	blockSize := binary.BigEndian.Uint32(blob[4:8])
	cryptoHashSize := binary.BigEndian.Uint32(blob[8:12])

	recordSize := crcSize + int(cryptoHashSize)
	if recordSize <= crcSize || (len(blob)-signatureHeaderSize)%recordSize != 0 {
		return nil, fmt.Errorf("inconsistent signature record length: %w", ErrInvalidSignature)
	}

	return &Signature{
		sigType:        sigType,
		blockSize:      blockSize,
		cryptoHashSize: cryptoHashSize,
		data:           blob,
	}, nil
}

// Serialized returns the wire-format bytes of the signature.
func (s *Signature) Serialized() []byte {
	return s.data
}

// BlockSize returns the signature's block granularity.
func (s *Signature) BlockSize() uint32 {
	return s.blockSize
}

// CryptoHashSize returns the number of strong-hash bytes kept per block.
func (s *Signature) CryptoHashSize() uint32 {
	return s.cryptoHashSize
}

// blockIterator walks the (Crc, strong-prefix) records of a signature in
// block-index order. Its length is known up front.
type blockIterator struct {
	recordSize int
	body       []byte
	pos        int
}

func (s *Signature) blocks() blockIterator {
	recordSize := crcSize + int(s.cryptoHashSize)
	return blockIterator{recordSize: recordSize, body: s.data[signatureHeaderSize:]}
}

// Len returns the number of remaining blocks.
func (it *blockIterator) Len() int {
	return (len(it.body) - it.pos) / it.recordSize
}

// Next returns the next (Crc, strong-prefix) pair, or ok=false when
// exhausted. The returned slice borrows from the signature's backing array.
func (it *blockIterator) Next() (crc Crc, strong []byte, ok bool) {
	if it.pos >= len(it.body) {
		return Crc{}, nil, false
	}
	record := it.body[it.pos : it.pos+it.recordSize]
	it.pos += it.recordSize
	return CrcFromBytes(record[:crcSize]), record[crcSize:], true
}

// IndexedSignature is the runtime form of a Signature used to compute
// deltas: a two-level map from Crc to strong-prefix to block index. It
// borrows its key bytes from the Signature it was built from and must not
// outlive it.
type IndexedSignature struct {
	sigType        signatureType
	blockSize      uint32
	cryptoHashSize uint32
	blocks         map[Crc]*secondLayerMap
}

// Index builds an IndexedSignature suitable for Diff / DiffParallel.
//
// Go's map type does not expose a pluggable hasher the way the original
// implementation's identity-hash HashMap does; we rely on the builtin map
// keyed directly by Crc, which already gives O(1) amortized probing and
// needs no extra mixing since Crc is already a well-distributed 32-bit
// value. See DESIGN.md for the full rationale.
func (s *Signature) Index() *IndexedSignature {
	it := s.blocks()
	blocks := make(map[Crc]*secondLayerMap, it.Len())
	for idx := uint32(0); ; idx++ {
		crc, strong, ok := it.Next()
		if !ok {
			break
		}
		slm := blocks[crc]
		if slm == nil {
			slm = &secondLayerMap{}
			blocks[crc] = slm
		}
		slm.insert(strong, idx)
	}

	return &IndexedSignature{
		sigType:        s.sigType,
		blockSize:      s.blockSize,
		cryptoHashSize: s.cryptoHashSize,
		blocks:         blocks,
	}
}
