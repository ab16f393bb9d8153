package rsync

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"
)

func deltaBytes(t *testing.T, parts ...[]byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	var magic [4]byte
	binary.BigEndian.PutUint32(magic[:], deltaMagic)
	buf.Write(magic[:])
	for _, p := range parts {
		buf.Write(p)
	}
	return buf.Bytes()
}

func TestApplyRejectsWrongMagic(t *testing.T) {
	err := Apply(nil, []byte{0x00, 0x00, 0x00, 0x01, opEnd}, &bytes.Buffer{})
	if !errors.Is(err, ErrWrongMagic) {
		t.Fatalf("err = %v, want ErrWrongMagic", err)
	}
}

func TestApplyRejectsTooShortDelta(t *testing.T) {
	err := Apply(nil, []byte{0x72, 0x73}, &bytes.Buffer{})
	if !errors.Is(err, ErrWrongMagic) {
		t.Fatalf("err = %v, want ErrWrongMagic", err)
	}
}

func TestApplyUnknownCommand(t *testing.T) {
	// Spec §8 scenario 6: malformed delta `72 73 02 36 ff 00`.
	delta := deltaBytes(t, []byte{0xff, 0x00})
	var out bytes.Buffer
	err := Apply(nil, delta, &out)
	var unk *UnknownCommandError
	if !errors.As(err, &unk) {
		t.Fatalf("err = %v, want *UnknownCommandError", err)
	}
	if unk.Op != 0xff {
		t.Errorf("unk.Op = %#x, want 0xff", unk.Op)
	}
}

func TestApplyTruncatedDeltaIsUnexpectedEOF(t *testing.T) {
	// A LITERAL_4 opcode promising 4 payload bytes but supplying only 2.
	delta := deltaBytes(t, []byte{opLiteral1 + 3, 'h', 'i'})
	var out bytes.Buffer
	err := Apply(nil, delta, &out)
	if !errors.Is(err, ErrUnexpectedEOF) {
		t.Fatalf("err = %v, want ErrUnexpectedEOF", err)
	}
}

func TestApplyMissingEndIsUnexpectedEOF(t *testing.T) {
	delta := deltaBytes(t) // magic only, no END
	var out bytes.Buffer
	err := Apply(nil, delta, &out)
	if !errors.Is(err, ErrUnexpectedEOF) {
		t.Fatalf("err = %v, want ErrUnexpectedEOF", err)
	}
}

func TestApplyOutOfBoundsCopy(t *testing.T) {
	base := []byte("0123456789")
	delta := deltaBytes(t, []byte{opCopyBase, 5, 20, opEnd}) // offset=5, length=20, base len=10
	var out bytes.Buffer
	err := Apply(base, delta, &out)
	var oob *OutOfBoundsError
	if !errors.As(err, &oob) {
		t.Fatalf("err = %v, want *OutOfBoundsError", err)
	}
	if out.Len() != 0 {
		t.Errorf("sink received %d bytes, want 0 for a rejected copy", out.Len())
	}
}

func TestApplyCopyOverflow(t *testing.T) {
	base := []byte("0123456789")
	// offset + length overflows uint64: use COPY with 8-byte offset/length classes.
	delta := deltaBytes(t, func() []byte {
		var b bytes.Buffer
		b.WriteByte(opCopyBase + 4*3 + 3) // offset class 3 (8 bytes), length class 3 (8 bytes)
		var offset, length [8]byte
		binary.BigEndian.PutUint64(offset[:], ^uint64(0)-2)
		binary.BigEndian.PutUint64(length[:], 10)
		b.Write(offset[:])
		b.Write(length[:])
		return b.Bytes()
	}(), []byte{opEnd})
	var out bytes.Buffer
	err := Apply(base, delta, &out)
	var oob *OutOfBoundsError
	if !errors.As(err, &oob) {
		t.Fatalf("err = %v, want *OutOfBoundsError", err)
	}
}

func TestApplyEndIgnoresTrailingBytes(t *testing.T) {
	delta := deltaBytes(t, []byte{opEnd, 0xAA, 0xBB, 0xCC})
	var out bytes.Buffer
	if err := Apply(nil, delta, &out); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if out.Len() != 0 {
		t.Errorf("got %d bytes, want 0", out.Len())
	}
}

// TestOpcodeCoverage round-trips LITERAL and COPY_xy instructions through
// writeLiteral/writeCopy and Apply: inline literals of length 1, 32 and 64,
// the N1, N2 and N4 length-prefixed literals, and copies with 1-, 2- and
// 4-byte offsets combined with 1- and 2-byte lengths. The N8 literal and the
// 4- and 8-byte copy lengths and 8-byte copy offsets are not exercised here.
func TestOpcodeCoverage(t *testing.T) {
	t.Run("literals", func(t *testing.T) {
		lengths := []int{1, 32, 64, 65, 255, 256, 65535, 65536}
		for _, n := range lengths {
			payload := bytes.Repeat([]byte{'z'}, n)
			var buf bytes.Buffer
			if err := writeLiteral(payload, &buf); err != nil {
				t.Fatalf("len %d: writeLiteral: %v", n, err)
			}
			delta := deltaBytes(t, buf.Bytes(), []byte{opEnd})
			var out bytes.Buffer
			if err := Apply(nil, delta, &out); err != nil {
				t.Fatalf("len %d: Apply: %v", n, err)
			}
			if !bytes.Equal(out.Bytes(), payload) {
				t.Errorf("len %d: got %d bytes back, want %d", n, out.Len(), n)
			}
		}
	})

	t.Run("copies", func(t *testing.T) {
		base := bytes.Repeat([]byte{0}, 1<<17)
		for i := range base {
			base[i] = byte(i)
		}
		offsets := []uint64{0, 255, 256, 65535, 65536}
		lengths := []uint64{1, 255, 256, 65535}
		for _, offset := range offsets {
			for _, length := range lengths {
				if offset+length > uint64(len(base)) {
					continue
				}
				var buf bytes.Buffer
				if err := writeCopy(offset, length, &buf); err != nil {
					t.Fatalf("writeCopy(%d,%d): %v", offset, length, err)
				}
				delta := deltaBytes(t, buf.Bytes(), []byte{opEnd})
				var out bytes.Buffer
				if err := Apply(base, delta, &out); err != nil {
					t.Fatalf("offset %d length %d: Apply: %v", offset, length, err)
				}
				want := base[offset : offset+length]
				if !bytes.Equal(out.Bytes(), want) {
					t.Errorf("offset %d length %d: mismatch", offset, length)
				}
			}
		}
	})
}
