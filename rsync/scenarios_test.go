package rsync

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

// TestScenario1IdenticalSmallBase covers spec §8 scenario 1.
func TestScenario1IdenticalSmallBase(t *testing.T) {
	base := []byte("abcdefgh")
	sig := Calculate(base, SignatureOptions{BlockSize: 4, CryptoHashSize: 32, HashAlgorithm: Blake3})
	delta := mustDiff(t, sig.Index(), base)

	copies, literalBytes := decodeInstructions(t, delta)
	if literalBytes != 0 {
		t.Errorf("literal bytes = %d, want 0", literalBytes)
	}
	totalCopied := uint64(0)
	for _, c := range copies {
		totalCopied += c.length
	}
	if totalCopied != uint64(len(base)) {
		t.Errorf("total copied = %d, want %d", totalCopied, len(base))
	}

	var out bytes.Buffer
	if err := Apply(base, delta, &out); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if !bytes.Equal(out.Bytes(), base) {
		t.Fatalf("reconstruction mismatch: got %q", out.Bytes())
	}
}

// TestScenario2EmptyBase covers spec §8 scenario 2.
func TestScenario2EmptyBase(t *testing.T) {
	target := []byte("hello")
	sig := Calculate(nil, SignatureOptions{BlockSize: 4, CryptoHashSize: 16, HashAlgorithm: Md4})
	delta := mustDiff(t, sig.Index(), target)

	want := deltaBytes(t, []byte{opLiteral1 + 4}, target, []byte{opEnd})
	if !bytes.Equal(delta, want) {
		t.Errorf("delta = % x, want % x", delta, want)
	}

	var out bytes.Buffer
	if err := Apply(nil, delta, &out); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if !bytes.Equal(out.Bytes(), target) {
		t.Fatalf("reconstruction mismatch: got %q", out.Bytes())
	}
}

// TestScenario3EmptyTarget covers spec §8 scenario 3.
func TestScenario3EmptyTarget(t *testing.T) {
	base := []byte("hello")
	sig := Calculate(base, SignatureOptions{BlockSize: 4, CryptoHashSize: 16, HashAlgorithm: Md4})
	delta := mustDiff(t, sig.Index(), nil)

	want := deltaBytes(t, []byte{opEnd})
	if !bytes.Equal(delta, want) {
		t.Errorf("delta = % x, want % x", delta, want)
	}

	var out bytes.Buffer
	if err := Apply(base, delta, &out); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if out.Len() != 0 {
		t.Fatalf("reconstruction mismatch: got %d bytes, want 0", out.Len())
	}
}

// TestScenario4NoFullBlockMatch covers spec §8 scenario 4.
func TestScenario4NoFullBlockMatch(t *testing.T) {
	base := bytes.Repeat([]byte{'x'}, 4096)
	target := append([]byte{'y'}, base[:4095]...)

	sig := Calculate(base, SignatureOptions{BlockSize: 4096, CryptoHashSize: 16, HashAlgorithm: Md4})
	delta := mustDiff(t, sig.Index(), target)

	copies, literalBytes := decodeInstructions(t, delta)
	if len(copies) != 0 {
		t.Errorf("got %d copy instructions, want 0 (no full block matches)", len(copies))
	}
	if literalBytes != len(target) {
		t.Errorf("literal bytes = %d, want %d (entire target as literal)", literalBytes, len(target))
	}

	var out bytes.Buffer
	if err := Apply(base, delta, &out); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if !bytes.Equal(out.Bytes(), target) {
		t.Fatal("reconstruction mismatch")
	}
}

// TestScenario5IdenticalLargeBase covers spec §8 scenario 5 (also exercised
// structurally by TestIdentityDeltaIsAllCopies).
func TestScenario5IdenticalLargeBase(t *testing.T) {
	base := bytes.Repeat([]byte("abcd"), 1024)
	sig := Calculate(base, SignatureOptions{BlockSize: 1024, CryptoHashSize: 4, HashAlgorithm: Blake3})
	delta := mustDiff(t, sig.Index(), base)

	copies, literalBytes := decodeInstructions(t, delta)
	if literalBytes != 0 || len(copies) != 1 {
		t.Fatalf("got %d copies and %d literal bytes, want 1 copy and 0 literal bytes", len(copies), literalBytes)
	}
	if copies[0].offset != 0 || copies[0].length != uint64(len(base)) {
		t.Errorf("copy = %+v, want offset=0 length=%d", copies[0], len(base))
	}
}

// TestScenario6MalformedOpcode covers spec §8 scenario 6, also exercised
// directly by TestApplyUnknownCommand.
func TestScenario6MalformedOpcode(t *testing.T) {
	delta := deltaBytes(t, []byte{0xff, 0x00})
	var out bytes.Buffer
	err := Apply(nil, delta, &out)
	if err == nil {
		t.Fatal("expected an error")
	}
}

// TestBlake2Rejection covers spec §8's BLAKE2 rejection property: a
// signature blob beginning with the BLAKE2 magic passes Deserialize but
// fails Diff with ErrInvalidSignature.
func TestBlake2Rejection(t *testing.T) {
	base := []byte("abcdefgh")
	sig := Calculate(base, SignatureOptions{BlockSize: 4, CryptoHashSize: 16, HashAlgorithm: Md4})
	blob := append([]byte(nil), sig.Serialized()...)
	// Overwrite the magic with the reserved BLAKE2 one, keeping everything
	// else (including crypto_hash_size=16, within BLAKE2's hypothetical
	// 32-byte max) well-formed.
	blob[0], blob[1], blob[2], blob[3] = byte(blake2Magic>>24), byte(blake2Magic>>16), byte(blake2Magic>>8), byte(blake2Magic)

	parsed, err := Deserialize(blob)
	if err != nil {
		t.Fatalf("Deserialize of well-formed BLAKE2 blob failed: %v", err)
	}

	var buf bytes.Buffer
	if err := Diff(parsed.Index(), base, &buf); !errors.Is(err, ErrInvalidSignature) {
		t.Fatalf("Diff of a BLAKE2 signature: err = %v, want ErrInvalidSignature", err)
	}
}

func TestRoundTripProperty(t *testing.T) {
	// A broader sweep than the literal scenarios: varied base/target
	// relationships, block sizes, and both hash families.
	bases := []string{
		"",
		"a",
		strings.Repeat("The quick brown fox jumps over the lazy dog. ", 50),
	}
	edits := func(s string) []string {
		if len(s) == 0 {
			return []string{"", "x", "hello world"}
		}
		mid := len(s) / 2
		return []string{
			s,
			s + " appended",
			"prefixed " + s,
			s[:mid] + "!!!" + s[mid:],
			strings.ToUpper(s),
		}
	}

	for _, base := range bases {
		for _, target := range edits(base) {
			for _, alg := range []HashAlgorithm{Md4, Blake3} {
				for _, blockSize := range []uint32{1, 4, 16} {
					opts := SignatureOptions{BlockSize: blockSize, CryptoHashSize: 4, HashAlgorithm: alg}
					roundTrip(t, []byte(base), []byte(target), opts, false)
					roundTrip(t, []byte(base), []byte(target), opts, true)
				}
			}
		}
	}
}
