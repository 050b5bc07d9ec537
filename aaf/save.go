package aaf

import "fmt"

// Reserved property ids within an object's "Properties" stream. Real
// property pids start at 1 (datadefs.go), so 0 is free for the class id
// every object must carry to be reconstructed on open.
const pidClassID = 0

// primitive value tags used in the "Properties" stream, distinguishing
// which codec.go Decode* function to call for a Required/Optional/
// WeakRef property's payload. tagOpaque marks an OpaqueValue, whose
// payload is carried as raw bytes; decodePrimitive returns an
// OpaqueValue for tagOpaque and for any tag it does not recognize
// (spec.md section 4.2, "unknown type_ids"). encodePrimitive rejects Go
// value types it does not know with a TypeMismatchError.
const (
	tagAUID uint8 = iota
	tagMobID
	tagString
	tagBool
	tagInt64
	tagUint64
	tagRational
	tagOpaque
)

// encodePrimitive renders v's wire bytes and its type tag. It supports
// the value shapes NewObject's property setters produce, plus
// OpaqueValue for anything the decode side could not classify.
func encodePrimitive(v interface{}) (uint8, []byte, error) {
	switch val := v.(type) {
	case AUID:
		return tagAUID, EncodeAUID(val), nil
	case MobID:
		return tagMobID, EncodeMobID(val), nil
	case string:
		b, err := EncodeString(val)
		return tagString, b, err
	case bool:
		return tagBool, EncodeBool(val), nil
	case int64:
		b, err := EncodeInt(val, 8)
		return tagInt64, b, err
	case uint64:
		b, err := EncodeUint(val, 8)
		return tagUint64, b, err
	case Rational:
		return tagRational, EncodeRational(val), nil
	case OpaqueValue:
		return tagOpaque, val.Bytes, nil
	default:
		return 0, nil, &TypeMismatchError{Message: fmt.Sprintf("cannot encode property value of type %T", v)}
	}
}

func decodePrimitive(tag uint8, data []byte) (interface{}, error) {
	switch tag {
	case tagAUID:
		return DecodeAUID(data)
	case tagMobID:
		return DecodeMobID(data)
	case tagString:
		return DecodeString(data)
	case tagBool:
		return DecodeBool(data)
	case tagInt64:
		return DecodeInt(data, 8)
	case tagUint64:
		return DecodeUint(data, 8)
	case tagRational:
		return DecodeRational(data)
	default:
		// tagOpaque, or any tag this version of the codec has never
		// heard of: preserve the payload verbatim rather than failing
		// the whole read.
		cp := make([]byte, len(data))
		copy(cp, data)
		return OpaqueValue{Bytes: cp}, nil
	}
}

// weakRefKey returns the unique key of a strong-referenceable object
// that a WeakRef property points at, the same identity Set uses for
// membership (spec.md section 3, "Weak references").
func weakRefKey(o *Object) (uint8, []byte, error) {
	if v, ok := o.Get("MobID"); ok {
		return tagMobID, EncodeMobID(v.(MobID)), nil
	}
	if v, ok := o.Get("Identification"); ok {
		return tagAUID, EncodeAUID(v.(AUID)), nil
	}
	return 0, nil, &UnresolvedReferenceError{Key: o.Class.Name}
}

// encodeProperties renders o's Required/Optional/WeakRef properties (not
// its StrongRef/Set/VariableArray children, which become sub-storages)
// as a single "Properties" stream: repeated [pid uint16][tag
// byte][length uint32][payload] records.
func encodeProperties(o *Object) ([]byte, error) {
	var buf []byte
	putRecord := func(pid uint16, tag uint8, payload []byte) {
		var hdr [7]byte
		hdr[0], hdr[1] = byte(pid>>8), byte(pid)
		hdr[2] = tag
		hdr[3] = byte(len(payload) >> 24)
		hdr[4] = byte(len(payload) >> 16)
		hdr[5] = byte(len(payload) >> 8)
		hdr[6] = byte(len(payload))
		buf = append(buf, hdr[:]...)
		buf = append(buf, payload...)
	}
	putRecord(pidClassID, tagAUID, EncodeAUID(o.Class.ClassID))

	for _, pv := range o.Properties() {
		switch pv.Descriptor.Storage {
		case StorageRequired, StorageOptional:
			tag, payload, err := encodePrimitive(pv.Value)
			if err != nil {
				return nil, err
			}
			putRecord(pv.Descriptor.PID, tag, payload)
		case StorageWeakRef:
			child, ok := pv.Value.(*Object)
			if !ok || child == nil {
				continue
			}
			tag, payload, err := weakRefKey(child)
			if err != nil {
				return nil, err
			}
			putRecord(pv.Descriptor.PID, tag, payload)
		}
	}
	return buf, nil
}

// decodeProperties parses a "Properties" stream back into pid -> (tag,
// payload) records, without resolving them against a class schema yet.
func decodeProperties(data []byte) (map[uint16][2]interface{}, error) {
	out := make(map[uint16][2]interface{})
	pos := 0
	for pos+7 <= len(data) {
		pid := uint16(data[pos])<<8 | uint16(data[pos+1])
		tag := data[pos+2]
		length := int(data[pos+3])<<24 | int(data[pos+4])<<16 | int(data[pos+5])<<8 | int(data[pos+6])
		pos += 7
		if pos+length > len(data) {
			return nil, &CorruptionError{Message: "property record length exceeds stream"}
		}
		out[pid] = [2]interface{}{tag, data[pos : pos+length]}
		pos += length
	}
	return out, nil
}

// collectEntries walks o's subtree (already assumed attached, or about
// to be) and appends every object's Properties stream to out. No separate
// entry is written for an object's storage; writeCFB creates it from the
// Properties stream's path.
func collectEntries(o *Object, path string, out *[]cfbStreamEntry) error {
	props, err := encodeProperties(o)
	if err != nil {
		return fmt.Errorf("encoding %s at %s: %w", o.Class.Name, path, err)
	}
	*out = append(*out, cfbStreamEntry{Path: cfbPathJoin(path, "Properties"), Data: props})

	for _, pv := range o.Properties() {
		switch pv.Descriptor.Storage {
		case StorageStrongRef:
			if child, ok := pv.Value.(*Object); ok && child != nil {
				if err := collectEntries(child, cfbPathJoin(path, pv.Descriptor.Name), out); err != nil {
					return err
				}
			}
		case StorageSet:
			set, ok := pv.Value.(*Set)
			if !ok {
				continue
			}
			for _, item := range set.Items() {
				key := set.keyOf(item)
				if err := collectEntries(item, cfbPathJoin(path, pv.Descriptor.Name, key), out); err != nil {
					return err
				}
			}
		case StorageVariableArray:
			arr, ok := pv.Value.(*VariableArray)
			if !ok {
				continue
			}
			for i, item := range arr.Items() {
				if err := collectEntries(item, cfbPathJoin(path, pv.Descriptor.Name, fmt.Sprintf("%d", i)), out); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// SaveTo appends the CFB stream entries for f's Header tree to entries;
// Save (file.go) passes them to writeCFB (spec.md section 5, "Save").
func (f *AAFFile) SaveTo(entries *[]cfbStreamEntry) error {
	return collectEntries(f.Header, "/Header", entries)
}
