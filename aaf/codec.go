package aaf

import (
	"encoding/binary"
	"fmt"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// utf16leCodec is the strict AAF string wire encoding: UTF-16, little
// endian, no byte-order mark. This is the direct generalization of the
// teacher's own UnpackUnicode uncompressed-UTF-16LE path (biff.go), moved
// from a length-prefixed BIFF record into AAF's zero-terminated property
// stream convention.
var utf16leCodec = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// EncodeString renders s as AAF's zero-terminated UTF-16LE wire form.
func EncodeString(s string) ([]byte, error) {
	enc, err := utf16leCodec.NewEncoder().String(s)
	if err != nil {
		return nil, &TypeMismatchError{Message: fmt.Sprintf("cannot encode string: %v", err)}
	}
	return append([]byte(enc), 0, 0), nil
}

// DecodeString reads a zero-terminated UTF-16LE byte sequence. If the
// byte count left after trimming the terminator is odd, so the bytes
// cannot be UTF-16LE (a legacy 8-bit-codepage producer), it falls back to
// decoding as Windows-1252, the same codepage the teacher falls back to
// for pre-Unicode BIFF strings (book.go's Codepage/Encoding handling). An
// even-length sequence is always decoded as UTF-16LE.
func DecodeString(data []byte) (string, error) {
	trimmed := data
	for len(trimmed) >= 2 && trimmed[len(trimmed)-2] == 0 && trimmed[len(trimmed)-1] == 0 {
		trimmed = trimmed[:len(trimmed)-2]
	}
	if len(trimmed)%2 == 0 {
		if dec, err := utf16leCodec.NewDecoder().Bytes(trimmed); err == nil {
			return string(dec), nil
		}
	}
	dec, err := charmap.Windows1252.NewDecoder().Bytes(trimmed)
	if err != nil {
		return "", &BadFormatError{Message: fmt.Sprintf("cannot decode legacy string: %v", err)}
	}
	return string(dec), nil
}

// EncodeInt encodes a signed integer of the given width, big-endian, the
// wire order spec.md section 4.2 specifies for AAF property primitives
// (distinct from the little-endian CFB structural layout in cfb.go).
func EncodeInt(v int64, width int) ([]byte, error) {
	buf := make([]byte, width)
	switch width {
	case 1:
		buf[0] = byte(v)
	case 2:
		binary.BigEndian.PutUint16(buf, uint16(v))
	case 4:
		binary.BigEndian.PutUint32(buf, uint32(v))
	case 8:
		binary.BigEndian.PutUint64(buf, uint64(v))
	default:
		return nil, &TypeMismatchError{Message: fmt.Sprintf("unsupported int width %d", width)}
	}
	return buf, nil
}

// DecodeInt decodes a signed big-endian integer of the given width.
func DecodeInt(data []byte, width int) (int64, error) {
	if len(data) != width {
		return 0, &BadFormatError{Message: fmt.Sprintf("want %d bytes for int, got %d", width, len(data))}
	}
	switch width {
	case 1:
		return int64(int8(data[0])), nil
	case 2:
		return int64(int16(binary.BigEndian.Uint16(data))), nil
	case 4:
		return int64(int32(binary.BigEndian.Uint32(data))), nil
	case 8:
		return int64(binary.BigEndian.Uint64(data)), nil
	default:
		return 0, &TypeMismatchError{Message: fmt.Sprintf("unsupported int width %d", width)}
	}
}

// EncodeUint encodes an unsigned integer of the given width, big-endian.
func EncodeUint(v uint64, width int) ([]byte, error) {
	buf := make([]byte, width)
	switch width {
	case 1:
		buf[0] = byte(v)
	case 2:
		binary.BigEndian.PutUint16(buf, uint16(v))
	case 4:
		binary.BigEndian.PutUint32(buf, uint32(v))
	case 8:
		binary.BigEndian.PutUint64(buf, v)
	default:
		return nil, &TypeMismatchError{Message: fmt.Sprintf("unsupported uint width %d", width)}
	}
	return buf, nil
}

// DecodeUint decodes an unsigned big-endian integer of the given width.
func DecodeUint(data []byte, width int) (uint64, error) {
	if len(data) != width {
		return 0, &BadFormatError{Message: fmt.Sprintf("want %d bytes for uint, got %d", width, len(data))}
	}
	switch width {
	case 1:
		return uint64(data[0]), nil
	case 2:
		return uint64(binary.BigEndian.Uint16(data)), nil
	case 4:
		return uint64(binary.BigEndian.Uint32(data)), nil
	case 8:
		return binary.BigEndian.Uint64(data), nil
	default:
		return 0, &TypeMismatchError{Message: fmt.Sprintf("unsupported uint width %d", width)}
	}
}

// EncodeBool encodes a one-byte boolean.
func EncodeBool(v bool) []byte {
	if v {
		return []byte{1}
	}
	return []byte{0}
}

// DecodeBool decodes a one-byte boolean.
func DecodeBool(data []byte) (bool, error) {
	if len(data) != 1 {
		return false, &BadFormatError{Message: "bool requires 1 byte"}
	}
	return data[0] != 0, nil
}

// EncodeRational encodes a Rational as two big-endian int32s.
func EncodeRational(r Rational) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint32(buf[0:4], uint32(r.Numerator))
	binary.BigEndian.PutUint32(buf[4:8], uint32(r.Denominator))
	return buf
}

// DecodeRational decodes a Rational from 8 bytes.
func DecodeRational(data []byte) (Rational, error) {
	if len(data) != 8 {
		return Rational{}, &BadFormatError{Message: "rational requires 8 bytes"}
	}
	return Rational{
		Numerator:   int32(binary.BigEndian.Uint32(data[0:4])),
		Denominator: int32(binary.BigEndian.Uint32(data[4:8])),
	}, nil
}

// EncodeAUID encodes an AUID's 16 canonical bytes verbatim.
func EncodeAUID(a AUID) []byte {
	out := make([]byte, 16)
	copy(out, a[:])
	return out
}

// DecodeAUID decodes 16 canonical-order bytes into an AUID.
func DecodeAUID(data []byte) (AUID, error) {
	return AUIDFromBytes(data)
}

// EncodeMobID encodes a MobID in its 32-byte little-endian wire form:
// label and instance number unchanged, material number in little-endian
// UUID form (MobID.BytesLE).
func EncodeMobID(m MobID) []byte {
	return m.BytesLE()
}

// DecodeMobID decodes the 32-byte little-endian wire form written by
// EncodeMobID into a MobID.
func DecodeMobID(data []byte) (MobID, error) {
	return MobIDFromBytesLE(data)
}

// EncodeVariableArrayHeader encodes the length prefix (element count, as
// a uint32) for a length-prefixed variable array property.
func EncodeVariableArrayHeader(count int) []byte {
	buf := make([]byte, 4)
	binary.BigEndian.PutUint32(buf, uint32(count))
	return buf
}

// DecodeVariableArrayHeader decodes the element count from a
// length-prefixed variable array property.
func DecodeVariableArrayHeader(data []byte) (int, error) {
	if len(data) < 4 {
		return 0, &BadFormatError{Message: "variable array header requires 4 bytes"}
	}
	return int(binary.BigEndian.Uint32(data[0:4])), nil
}
