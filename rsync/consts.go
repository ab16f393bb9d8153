package rsync

// Wire-format magic numbers and delta opcodes. These values are part of the
// on-disk/on-wire contract and must never change without a format version
// bump.
const (
	md4Magic    uint32 = 0x72730136
	blake2Magic uint32 = 0x72730137 // reserved; never produced, parsed by Deserialize, rejected by Diff
	blake3Magic uint32 = 0x72730138

	// deltaMagic leads every serialized delta.
	deltaMagic uint32 = 0x72730236
)

// Delta opcodes, per the wire format.
const (
	opEnd uint8 = 0x00

	// opLiteral1..opLiteral64: inline literal of length (op - opLiteral1 + 1).
	opLiteral1  uint8 = 0x01
	opLiteral64 uint8 = 0x40

	opLiteralN1 uint8 = 0x41
	opLiteralN2 uint8 = 0x42
	opLiteralN4 uint8 = 0x43
	opLiteralN8 uint8 = 0x44

	// opCopyBase is COPY_00: 1-byte offset, 1-byte length. COPY_xy is
	// opCopyBase + 4*offsetClass + lengthClass, classes 0..3 meaning widths
	// 1/2/4/8 bytes big-endian.
	opCopyBase uint8 = 0x45
)

// maxCrcCollisions bounds the number of strong-hash recomputations diff will
// perform for a single CRC value before treating it as absent from the
// index for the remainder of the run. This caps the cost an adversarial
// target can impose via deliberate weak-hash collisions.
const maxCrcCollisions = 1024
