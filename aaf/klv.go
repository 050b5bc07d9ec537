package aaf

import "fmt"

// KLVTriplet is one decoded Key-Length-Value unit from an MXF byte
// stream (spec.md section 6, "KLV parser").
type KLVTriplet struct {
	Key    AUID
	Length int
	Offset int // offset of Value within the source byte slice
}

// IterKL walks mem, yielding each top-level KLV triplet's key, length,
// and value offset via visit. Iteration stops at the first malformed
// key or BER length, or when visit returns false.
func IterKL(mem []byte, visit func(KLVTriplet) bool) error {
	pos := 0
	for pos+16 <= len(mem) {
		key, err := AUIDFromBytes(mem[pos : pos+16])
		if err != nil {
			return err
		}
		length, consumed, err := berLength(mem[pos+16:])
		if err != nil {
			return err
		}
		valueOffset := pos + 16 + consumed
		if valueOffset+length > len(mem) {
			return &CorruptionError{Message: fmt.Sprintf("KLV triplet at offset %d declares %d bytes past end of stream", pos, length)}
		}
		if !visit(KLVTriplet{Key: key, Length: length, Offset: valueOffset}) {
			return nil
		}
		pos = valueOffset + length
	}
	return nil
}

// LocalTag is one entry of an MXF primer pack: a 2-byte local tag mapped
// to its canonical item AUID (spec.md section 6, "Primer pack").
type LocalTag struct {
	Tag  uint16
	UID  AUID
}

// PrimerPack is the resolved tag -> AUID table for one MXF partition's
// local-tag-keyed properties.
type PrimerPack map[uint16]AUID

// ReadPrimerPack decodes a primer pack's value bytes: a count, an item
// length (must be 18: 2-byte tag + 16-byte AUID), then that many
// (tag, AUID) pairs.
func ReadPrimerPack(data []byte) (PrimerPack, error) {
	if len(data) < 8 {
		return nil, &BadFormatError{Message: "primer pack too short"}
	}
	itemCount := be32(data[0:4])
	itemLen := be32(data[4:8])
	if itemLen != 18 {
		return nil, &BadFormatError{Message: fmt.Sprintf("primer pack item length must be 18, got %d", itemLen)}
	}
	if itemCount > 65536 {
		return nil, &BadFormatError{Message: "primer pack item count implausibly large"}
	}
	pos := 8
	out := make(PrimerPack, itemCount)
	for i := uint32(0); i < itemCount; i++ {
		if pos+18 > len(data) {
			return nil, &CorruptionError{Message: "primer pack truncated"}
		}
		tag := uint16(data[pos])<<8 | uint16(data[pos+1])
		uid, err := AUIDFromBytes(data[pos+2 : pos+18])
		if err != nil {
			return nil, err
		}
		out[tag] = uid
		pos += 18
	}
	return out, nil
}

func be32(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

// IterTags walks a KLV value's body as a sequence of local-tag items:
// repeated [tag uint16][size uint16][payload], the MXF object property
// encoding nested inside a set/pack KLV value (spec.md section 6).
func IterTags(data []byte, visit func(tag uint16, payload []byte) bool) error {
	pos := 0
	for pos+4 <= len(data) {
		tag := uint16(data[pos])<<8 | uint16(data[pos+1])
		size := int(uint16(data[pos+2])<<8 | uint16(data[pos+3]))
		pos += 4
		if pos+size > len(data) {
			return &CorruptionError{Message: "local tag item runs past end of KLV value"}
		}
		if size > 0 {
			if !visit(tag, data[pos:pos+size]) {
				return nil
			}
		}
		pos += size
	}
	return nil
}
