package rsync

import (
	"encoding/binary"
	"io"
)

func writeMagic(out io.Writer) error {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], deltaMagic)
	_, err := out.Write(b[:])
	return err
}

func writeEnd(out io.Writer) error {
	_, err := out.Write([]byte{opEnd})
	return err
}

// sizeClass returns the smallest width class (0..3, meaning 1/2/4/8 bytes)
// that can hold val in big-endian form.
func sizeClass(val uint64) uint8 {
	switch {
	case val <= 0xff:
		return 0
	case val <= 0xffff:
		return 1
	case val <= 0xffffffff:
		return 2
	default:
		return 3
	}
}

// writeVarWidth writes val in the width implied by class (0..3).
func writeVarWidth(val uint64, class uint8, out io.Writer) error {
	switch class {
	case 0:
		_, err := out.Write([]byte{byte(val)})
		return err
	case 1:
		var b [2]byte
		binary.BigEndian.PutUint16(b[:], uint16(val))
		_, err := out.Write(b[:])
		return err
	case 2:
		var b [4]byte
		binary.BigEndian.PutUint32(b[:], uint32(val))
		_, err := out.Write(b[:])
		return err
	default:
		var b [8]byte
		binary.BigEndian.PutUint64(b[:], val)
		_, err := out.Write(b[:])
		return err
	}
}

func readVarWidth(class uint8, r *deltaReader) (uint64, error) {
	switch class {
	case 0:
		b, err := r.readByte()
		if err != nil {
			return 0, err
		}
		return uint64(b), nil
	case 1:
		b, err := r.readN(2)
		if err != nil {
			return 0, err
		}
		return uint64(binary.BigEndian.Uint16(b)), nil
	case 2:
		b, err := r.readN(4)
		if err != nil {
			return 0, err
		}
		return uint64(binary.BigEndian.Uint32(b)), nil
	default:
		b, err := r.readN(8)
		if err != nil {
			return 0, err
		}
		return binary.BigEndian.Uint64(b), nil
	}
}

// writeLiteral encodes an inline literal instruction for data, choosing the
// most compact representation: a single-byte opcode for lengths 1..64, else
// an N1/N2/N4/N8 length-prefixed form.
func writeLiteral(data []byte, out io.Writer) error {
	n := uint64(len(data))
	if n == 0 {
		return nil
	}
	if n <= 64 {
		if _, err := out.Write([]byte{opLiteral1 + byte(n-1)}); err != nil {
			return err
		}
	} else {
		class := sizeClass(n)
		op := opLiteralN1 + class
		if _, err := out.Write([]byte{op}); err != nil {
			return err
		}
		if err := writeVarWidth(n, class, out); err != nil {
			return err
		}
	}
	_, err := out.Write(data)
	return err
}

// writeCopy encodes a COPY instruction referencing base[offset:offset+length],
// choosing the smallest offset and length width classes independently.
func writeCopy(offset, length uint64, out io.Writer) error {
	offsetClass := sizeClass(offset)
	lengthClass := sizeClass(length)
	op := opCopyBase + 4*offsetClass + lengthClass
	if _, err := out.Write([]byte{op}); err != nil {
		return err
	}
	if err := writeVarWidth(offset, offsetClass, out); err != nil {
		return err
	}
	return writeVarWidth(length, lengthClass, out)
}
