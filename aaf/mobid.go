package aaf

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"
)

// smpteUMIDLabel is the fixed 12-byte SMPTE universal label prefix common
// to every MobID this package mints: a "basic" UMID, type 5 (UUID/UL
// material number), length 0x13 (0x13000000 as the trailing instance
// word before the material number, see spec.md section 4.7).
var smpteUMIDLabel = [12]byte{0x06, 0x0a, 0x2b, 0x34, 0x01, 0x01, 0x01, 0x05, 0x01, 0x01, 0x0f, 0x00}

// MobID is a 32-byte SMPTE UMID: a 12-byte label, a 4-byte instance
// number, and a 16-byte material number, held here in canonical
// big-endian order (the order it prints in via String).
type MobID [32]byte

// NilMobID is the all-zero UMID.
var NilMobID MobID

// NewMobID mints a fresh UMID: the fixed SMPTE label, a zero instance
// number, and a random v4 material number.
func NewMobID(rnd RandomSource) (MobID, error) {
	var m MobID
	copy(m[0:12], smpteUMIDLabel[:])
	m[12], m[13], m[14], m[15] = 0x13, 0x00, 0x00, 0x00
	if err := rnd.FillRandom(m[16:32]); err != nil {
		return m, err
	}
	m[16+6] = (m[16+6] & 0x0f) | 0x40
	m[16+8] = (m[16+8] & 0x3f) | 0x80
	return m, nil
}

// ParseMobID parses the URN form:
// "urn:smpte:umid:" followed by 8 dot-separated 8-hex-digit groups.
func ParseMobID(s string) (MobID, error) {
	var m MobID
	const prefix = "urn:smpte:umid:"
	if !strings.HasPrefix(strings.ToLower(s), prefix) {
		return m, &BadFormatError{Message: fmt.Sprintf("not a MobID URN: %q", s)}
	}
	groups := strings.Split(s[len(prefix):], ".")
	if len(groups) != 8 {
		return m, &BadFormatError{Message: fmt.Sprintf("MobID URN needs 8 groups, got %d", len(groups))}
	}
	var raw []byte
	for _, g := range groups {
		if len(g) != 8 {
			return m, &BadFormatError{Message: fmt.Sprintf("MobID URN group %q must be 8 hex digits", g)}
		}
		b, err := hex.DecodeString(g)
		if err != nil {
			return m, &BadFormatError{Message: fmt.Sprintf("MobID URN group %q: %v", g, err)}
		}
		raw = append(raw, b...)
	}
	copy(m[:], raw)
	return m, nil
}

// MobIDFromBytes reads 32 bytes already in canonical big-endian order.
func MobIDFromBytes(b []byte) (MobID, error) {
	var m MobID
	if len(b) != 32 {
		return m, &BadFormatError{Message: "MobID requires 32 bytes"}
	}
	copy(m[:], b)
	return m, nil
}

// swap16LE applies the classic UUID little-endian byte swap to a 16-byte
// material number: the first 4 bytes reverse, the next 2 reverse, the
// next 2 reverse, and the final 8 bytes are untouched. Applying it twice
// is the identity, so the same function both encodes and decodes.
func swap16LE(b [16]byte) [16]byte {
	var out [16]byte
	out[0], out[1], out[2], out[3] = b[3], b[2], b[1], b[0]
	out[4], out[5] = b[5], b[4]
	out[6], out[7] = b[7], b[6]
	copy(out[8:16], b[8:16])
	return out
}

// MobIDFromBytesLE reads 32 bytes where the material number (the last 16
// bytes) is in little-endian UUID form, as MXF stores it (spec.md
// section 4.6's byte-order quirk).
func MobIDFromBytesLE(b []byte) (MobID, error) {
	var m MobID
	if len(b) != 32 {
		return m, &BadFormatError{Message: "MobID requires 32 bytes"}
	}
	copy(m[0:16], b[0:16])
	var mat [16]byte
	copy(mat[:], b[16:32])
	mat = swap16LE(mat)
	copy(m[16:32], mat[:])
	return m, nil
}

// BytesLE renders the 32-byte form MXF expects: label and instance number
// unchanged, material number byte-swapped to little-endian UUID form.
func (m MobID) BytesLE() []byte {
	out := make([]byte, 32)
	copy(out[0:16], m[0:16])
	var mat [16]byte
	copy(mat[:], m[16:32])
	mat = swap16LE(mat)
	copy(out[16:32], mat[:])
	return out
}

// Bytes renders the raw 32 bytes in canonical big-endian order.
func (m MobID) Bytes() []byte {
	out := make([]byte, 32)
	copy(out, m[:])
	return out
}

// Material returns the 16-byte material number as an AUID.
func (m MobID) Material() AUID {
	var a AUID
	copy(a[:], m[16:32])
	return a
}

// SetMaterial replaces the material number, leaving the label and
// instance number untouched.
func (m *MobID) SetMaterial(a AUID) {
	copy(m[16:32], a[:])
}

// Int is the 256-bit big-endian integer view of the raw bytes.
func (m MobID) Int() *big.Int {
	return new(big.Int).SetBytes(m[:])
}

// String renders the URN form.
func (m MobID) String() string {
	var groups [8]string
	for i := 0; i < 8; i++ {
		groups[i] = hex.EncodeToString(m[i*4 : i*4+4])
	}
	return "urn:smpte:umid:" + strings.Join(groups[:], ".")
}

// IsNil reports whether this is the all-zero UMID.
func (m MobID) IsNil() bool { return m == NilMobID }
