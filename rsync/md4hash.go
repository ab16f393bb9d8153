package rsync

import "golang.org/x/crypto/md4"

// md4Size is the full MD4 digest size in bytes.
const md4Size = 16

// md4Hasher adapts golang.org/x/crypto/md4 to strongHasher. MD4 is kept only
// for compatibility with signatures produced by older peers; it is not
// cryptographically secure.
type md4Hasher struct{}

func (md4Hasher) size() int { return md4Size }

func (md4Hasher) hash(block []byte) []byte {
	h := md4.New()
	h.Write(block) //nolint:errcheck // hash.Hash.Write never errors
	return h.Sum(nil)
}

// hashMany hashes a sequence of equal-sized blocks. golang.org/x/crypto/md4
// has no batch API, so lanes are simulated with a bounded goroutine pool;
// order is preserved in the returned slice regardless of completion order.
func (h md4Hasher) hashMany(blocks [][]byte) [][]byte {
	return hashManyPooled(blocks, h.hash)
}
