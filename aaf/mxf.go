package aaf

import (
	"fmt"
	"sort"
)

// MXFRef is a strong reference to another MXF object's instance uid
// (spec.md section 6, "MXF object model").
type MXFRef AUID

// MXFObject is one decoded MXF metadata set: its registered class key,
// its instance uid (local tag 0x3c0a, every set's universal property),
// and whatever properties its class's tag table resolved (spec.md
// section 6).
type MXFObject struct {
	Kind       string
	ClassKey   AUID
	InstanceID AUID
	Data       map[string]interface{}
}

func newMXFObject(kind string, classKey AUID) *MXFObject {
	return &MXFObject{Kind: kind, ClassKey: classKey, Data: make(map[string]interface{})}
}

// mxfTagHandler decodes one local-tag item into o.Data. It returns
// (handled, error); an unhandled tag is not an error, just ignored (an
// unrecognized property is preserved nowhere, matching the source's
// silent fallthrough).
type mxfTagHandler func(o *MXFObject, tag uint16, primer PrimerPack, data []byte) (bool, error)

// readBaseTag resolves the one tag every MXFObject's read_tag chain
// checks first: the instance uid (spec.md section 6).
func readBaseTag(o *MXFObject, tag uint16, primer PrimerPack, data []byte) (bool, error) {
	if tag == 0x3c0a {
		id, err := AUIDFromBytes(data)
		if err != nil {
			return true, err
		}
		o.InstanceID = id
		return true, nil
	}
	return false, nil
}

func decodeStrongRefArray(data []byte) ([]MXFRef, error) {
	if len(data) < 8 {
		return nil, &BadFormatError{Message: "strong ref array too short"}
	}
	count := be32(data[0:4])
	pos := 8
	out := make([]MXFRef, 0, count)
	for i := uint32(0); i < count; i++ {
		if pos+16 > len(data) {
			return nil, &CorruptionError{Message: "strong ref array truncated"}
		}
		a, err := AUIDFromBytes(data[pos : pos+16])
		if err != nil {
			return nil, err
		}
		out = append(out, MXFRef(a))
		pos += 16
	}
	return out, nil
}

func decodeRationalBE(data []byte) (Rational, error) {
	if len(data) != 8 {
		return Rational{}, &BadFormatError{Message: "rational requires 8 bytes"}
	}
	return Rational{
		Numerator:   int32(be32(data[0:4])),
		Denominator: int32(be32(data[4:8])),
	}, nil
}

func decodeUTF16BE(data []byte) string {
	var runes []rune
	for i := 0; i+1 < len(data); i += 2 {
		if data[i] == 0 && data[i+1] == 0 {
			break
		}
		runes = append(runes, rune(uint16(data[i])<<8|uint16(data[i+1])))
	}
	return string(runes)
}

func reverseUUID(a AUID) AUID { return a.Reversed() }

// decodeDataDef resolves an MXF DataDefinition value -- stored reversed,
// per the byte-order quirk spec.md section 4.6 documents -- against the
// baseline DataDefs table.
func decodeDataDef(data []byte) (string, error) {
	a, err := AUIDFromBytes(data)
	if err != nil {
		return "", err
	}
	info, ok := DataDefs[reverseUUID(a)]
	if !ok {
		return "", nil
	}
	return info.Name, nil
}

func mxfPrefaceHandler(o *MXFObject, tag uint16, primer PrimerPack, data []byte) (bool, error) {
	switch tag {
	case 0x3b09:
		id, err := AUIDFromBytes(data)
		o.Data["OperationalPattern"] = id
		return true, err
	case 0x3b03:
		id, err := AUIDFromBytes(data)
		o.Data["ContentStorage"] = MXFRef(id)
		return true, err
	}
	return false, nil
}

func mxfContentStorageHandler(o *MXFObject, tag uint16, primer PrimerPack, data []byte) (bool, error) {
	switch tag {
	case 0x1902:
		refs, err := decodeStrongRefArray(data)
		o.Data["EssenceContainerData"] = refs
		return true, err
	case 0x1901:
		refs, err := decodeStrongRefArray(data)
		o.Data["Packages"] = refs
		return true, err
	}
	return false, nil
}

func mxfPackageHandler(o *MXFObject, tag uint16, primer PrimerPack, data []byte) (bool, error) {
	switch tag {
	case 0x4403:
		refs, err := decodeStrongRefArray(data)
		o.Data["Slots"] = refs
		return true, err
	case 0x4401:
		id, err := MobIDFromBytesLE(data)
		o.Data["MobID"] = id
		return true, err
	case 0x4402:
		o.Data["Name"] = decodeUTF16BE(data)
		return true, nil
	case 0x4701:
		id, err := AUIDFromBytes(data)
		o.Data["Descriptor"] = MXFRef(id)
		return true, err
	}
	return false, nil
}

func mxfTrackHandler(o *MXFObject, tag uint16, primer PrimerPack, data []byte) (bool, error) {
	switch tag {
	case 0x4b02:
		v, err := DecodeInt(data, 8)
		o.Data["Origin"] = v
		return true, err
	case 0x4b01:
		v, err := decodeRationalBE(data)
		o.Data["EditRate"] = v
		return true, err
	case 0x4803:
		id, err := AUIDFromBytes(data)
		o.Data["Segment"] = MXFRef(id)
		return true, err
	case 0x4804:
		v, err := DecodeInt(data, 4)
		o.Data["TrackNumber"] = v
		return true, err
	case 0x4801:
		v, err := DecodeUint(data, 4)
		o.Data["SlotID"] = v
		return true, err
	case 0x4802:
		o.Data["Name"] = decodeUTF16BE(data)
		return true, nil
	}
	return false, nil
}

func mxfComponentHandler(o *MXFObject, tag uint16, primer PrimerPack, data []byte) (bool, error) {
	switch tag {
	case 0x1001:
		refs, err := decodeStrongRefArray(data)
		o.Data["Components"] = refs
		return true, err
	case 0x1201:
		v, err := DecodeUint(data, 8)
		o.Data["StartTime"] = v
		return true, err
	case 0x1102:
		v, err := DecodeUint(data, 4)
		o.Data["SlotID"] = v
		return true, err
	case 0x1101:
		id, err := MobIDFromBytesLE(data)
		o.Data["MobID"] = id
		return true, err
	case 0x0202:
		v, err := DecodeUint(data, 8)
		o.Data["Length"] = v
		return true, err
	case 0x0201:
		name, err := decodeDataDef(data)
		o.Data["DataDef"] = name
		return true, err
	case 0x1503:
		v, err := DecodeUint(data, 1)
		o.Data["DropFrame"] = v == 1
		return true, err
	case 0x1502:
		v, err := DecodeUint(data, 2)
		o.Data["FPS"] = v
		return true, err
	case 0x1501:
		v, err := DecodeUint(data, 8)
		o.Data["Start"] = v
		return true, err
	case 0x0501:
		refs, err := decodeStrongRefArray(data)
		o.Data["Choices"] = refs
		return true, err
	case 0x0502:
		id, err := AUIDFromBytes(data)
		o.Data["StillFrame"] = MXFRef(id)
		return true, err
	}
	return false, nil
}

// mxfDescriptorHandler resolves EssenceDescriptor tags. Local tags
// 0x3d0a and 0x3d09 alias in some producers' primer packs (BlockAlign
// vs AverageBPS); this reads 0x3d09 as AverageBPS and 0x3d0a as
// BlockAlign, per spec.md section 9's resolution of that collision. The
// source's dead `tag == None` branch (Python's sentinel for an absent
// primer entry, unreachable once a primer lookup has already matched a
// numeric tag) has no analogue here since ReadPrimerPack never yields a
// nil tag.
func mxfDescriptorHandler(o *MXFObject, tag uint16, primer PrimerPack, data []byte) (bool, error) {
	switch tag {
	case 0x3f01:
		refs, err := decodeStrongRefArray(data)
		o.Data["SubDescriptors"] = refs
		return true, err
	case 0x3004:
		id, err := AUIDFromBytes(data)
		if err == nil {
			id = reverseUUID(id)
		}
		o.Data["EssenceContainer"] = id
		return true, err
	case 0x3006:
		v, err := DecodeUint(data, 4)
		o.Data["LinkedTrackID"] = v
		return true, err
	case 0x3203:
		v, err := DecodeUint(data, 4)
		o.Data["StoredWidth"] = v
		return true, err
	case 0x3202:
		v, err := DecodeUint(data, 4)
		o.Data["SampledHeight"] = v
		return true, err
	case 0x3211:
		v, err := DecodeUint(data, 4)
		o.Data["ImageAlignmentOffset"] = v
		return true, err
	case 0x3002:
		v, err := DecodeUint(data, 4)
		o.Data["Length"] = v
		return true, err
	case 0x3001:
		v, err := decodeRationalBE(data)
		o.Data["SampleRate"] = v
		return true, err
	case 0x3d03:
		v, err := decodeRationalBE(data)
		o.Data["AudioSamplingRate"] = v
		return true, err
	case 0x3d0a:
		v, err := DecodeUint(data, 2)
		o.Data["BlockAlign"] = v
		return true, err
	case 0x3d01:
		v, err := DecodeUint(data, 4)
		o.Data["QuantizationBits"] = v
		return true, err
	case 0x3d07:
		v, err := DecodeUint(data, 4)
		o.Data["Channels"] = v
		return true, err
	case 0x3d09:
		v, err := DecodeUint(data, 4)
		o.Data["AverageBPS"] = v
		return true, err
	case 0x3d02:
		v, err := DecodeUint(data, 1)
		o.Data["Locked"] = v == 1
		return true, err
	case 0x3301:
		v, err := DecodeUint(data, 4)
		o.Data["ComponentWidth"] = v
		return true, err
	case 0x320c:
		v, err := DecodeUint(data, 1)
		o.Data["FrameLayout"] = v
		return true, err
	case 0x320e:
		v, err := decodeRationalBE(data)
		o.Data["ImageAspectRatio"] = v
		return true, err
	case 0x3d06:
		id, err := AUIDFromBytes(data)
		if err == nil {
			id = reverseUUID(id)
		}
		o.Data["SoundCompression"] = id
		return true, err
	case 0x3201:
		id, err := AUIDFromBytes(data)
		if err == nil {
			id = reverseUUID(id)
		}
		o.Data["Compression"] = id
		return true, err
	case 0x3302:
		v, err := DecodeUint(data, 4)
		o.Data["HorizontalSubsampling"] = v
		return true, err
	case 0x3308:
		v, err := DecodeUint(data, 4)
		o.Data["VerticalSubsampling"] = v
		return true, err
	case 0x2f01:
		refs, err := decodeStrongRefArray(data)
		o.Data["Locators"] = refs
		return true, err
	}
	return false, nil
}

func mxfLocatorHandler(o *MXFObject, tag uint16, primer PrimerPack, data []byte) (bool, error) {
	if tag == 0x4001 {
		o.Data["Path"] = decodeUTF16BE(data)
		return true, nil
	}
	return false, nil
}

func mxfEssenceDataHandler(o *MXFObject, tag uint16, primer PrimerPack, data []byte) (bool, error) {
	if tag == 0x2701 {
		id, err := MobIDFromBytesLE(data)
		o.Data["MobID"] = id
		return true, err
	}
	return false, nil
}

// mxfReadTable is the class-key to (kind name, extra handler) registry,
// the direct generalization of the source's read_table dict.
var mxfReadTable = map[AUID]struct {
	Kind    string
	Handler mxfTagHandler
}{
	mustAUID("060e2b34-0253-0101-0d01-010101012f00"): {"Preface", mxfPrefaceHandler},
	mustAUID("060e2b34-0253-0101-0d01-010101011800"): {"ContentStorage", mxfContentStorageHandler},
	mustAUID("060e2b34-0253-0101-0d01-010101013600"): {"MaterialPackage", mxfPackageHandler},
	mustAUID("060e2b34-0253-0101-0d01-010101013700"): {"SourcePackage", mxfPackageHandler},
	mustAUID("060e2b34-0253-0101-0d01-010101013b00"): {"Track", mxfTrackHandler},
	mustAUID("060e2b34-0253-0101-0d01-010101010f00"): {"Sequence", mxfComponentHandler},
	mustAUID("060e2b34-0253-0101-0d01-010101011100"): {"SourceClip", mxfComponentHandler},
	mustAUID("060e2b34-0253-0101-0d01-010101011400"): {"Timecode", mxfComponentHandler},
	mustAUID("060e2b34-0253-0101-0d01-010101014400"): {"MultipleDescriptor", mxfDescriptorHandler},
	mustAUID("060e2b34-0253-0101-0d01-010101012800"): {"CDCIDescriptor", mxfDescriptorHandler},
	mustAUID("060e2b34-0253-0101-0d01-010101012900"): {"RGBADescriptor", mxfDescriptorHandler},
	mustAUID("060e2b34-0253-0101-0d01-010101014200"): {"SoundDescriptor", mxfDescriptorHandler},
	mustAUID("060e2b34-0253-0101-0d01-010101014800"): {"PCMDescriptor", mxfDescriptorHandler},
	mustAUID("060e2b34-0253-0101-0d01-010101014a00"): {"ImportDescriptor", mxfDescriptorHandler},
	mustAUID("060e2b34-0253-0101-0d01-010101012e00"): {"TapeDescriptor", mxfDescriptorHandler},
	mustAUID("060e2b34-0253-0101-0d01-010101013200"): {"NetworkLocator", mxfLocatorHandler},
	mustAUID("060e2b34-0253-0101-0d01-010101010500"): {"EssenceGroup", mxfComponentHandler},
	mustAUID("060e2b34-0253-0101-0d01-010101012300"): {"EssenceData", mxfEssenceDataHandler},
}

var primerPackKey = mustAUID("060e2b34-0205-0101-0d01-020101050100")
var partitionHeaderKey = mustAUID("060e2b34-0205-0101-0d01-020101020400")

// MXFFile is a parsed MXF byte stream: every recognized metadata set,
// indexed by instance uid, and the partition header's declared
// operational pattern (spec.md section 6, "MXF persistence").
type MXFFile struct {
	Objects               map[AUID]*MXFObject
	LocalTags             PrimerPack
	Preface               *MXFObject
	HeaderOperationPattern AUID
}

// ReadMXF parses mem as a sequence of top-level KLV triplets, resolving
// each recognized class's metadata set and its primer pack (spec.md
// section 6).
func ReadMXF(mem []byte) (*MXFFile, error) {
	mf := &MXFFile{Objects: make(map[AUID]*MXFObject)}
	var outerErr error
	err := IterKL(mem, func(t KLVTriplet) bool {
		value := mem[t.Offset : t.Offset+t.Length]

		if t.Key == primerPackKey {
			primer, err := ReadPrimerPack(value)
			if err != nil {
				outerErr = err
				return false
			}
			mf.LocalTags = primer
		}
		if t.Key == partitionHeaderKey {
			// major/minor version, kag size, this/prev/footer partition,
			// header/index byte counts, index sid, body offset, body sid:
			// 2+2+4+8+8+8+8+8+4+8+4 = 64 bytes precede the operation
			// pattern label.
			if len(value) >= 80 {
				op, err := AUIDFromBytes(value[64:80])
				if err == nil {
					mf.HeaderOperationPattern = op
				}
			}
		}

		obj, err := mf.readObject(t.Key, value)
		if err != nil {
			outerErr = err
			return false
		}
		if obj != nil {
			mf.Objects[obj.InstanceID] = obj
			if obj.Kind == "Preface" {
				mf.Preface = obj
			}
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	if outerErr != nil {
		return nil, outerErr
	}
	return mf, nil
}

// readObject decodes one KLV value as an MXF metadata set, if its key's
// 6th byte marks it as a "group" (local-set) key and it is registered
// in mxfReadTable. Unrecognized sets are skipped, not an error.
func (mf *MXFFile) readObject(key AUID, value []byte) (*MXFObject, error) {
	if key[5] != 0x53 {
		return nil, nil
	}
	entry, ok := mxfReadTable[key]
	if !ok {
		return nil, nil
	}
	obj := newMXFObject(entry.Kind, key)
	err := IterTags(value, func(tag uint16, payload []byte) bool {
		if handled, err := readBaseTag(obj, tag, mf.LocalTags, payload); handled {
			if err != nil {
				return false
			}
			return true
		}
		if _, err := entry.Handler(obj, tag, mf.LocalTags, payload); err != nil {
			return false
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	return obj, nil
}

// DumpFlat calls write once per decoded object (in instance-uid sorted
// order), with its class, instance uid, and every decoded property,
// without following references (spec.md section 6).
func (mf *MXFFile) DumpFlat(write func(string)) {
	ids := make([]AUID, 0, len(mf.Objects))
	for id := range mf.Objects {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })

	for _, id := range ids {
		obj := mf.Objects[id]
		write(fmt.Sprintf("%s %s", obj.Kind, id))
		keys := make([]string, 0, len(obj.Data))
		for k := range obj.Data {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			write(fmt.Sprintf("  %s %v", k, obj.Data[k]))
		}
	}
}

// Dump writes a tree-shaped dump of the object graph starting at obj
// (the Preface, if obj is nil), following MXFRef and
// []MXFRef-valued properties (spec.md section 6, generalizing the
// source's MXFFile.dump).
func (mf *MXFFile) Dump(write func(string), obj *MXFObject, indent string) {
	if obj == nil {
		obj = mf.Preface
	}
	if obj == nil {
		return
	}
	write(fmt.Sprintf("%s%s %s", indent, obj.Kind, obj.InstanceID))
	next := indent + " "

	keys := make([]string, 0, len(obj.Data))
	for k := range obj.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		v := obj.Data[k]
		switch ref := v.(type) {
		case MXFRef:
			if child, ok := mf.Objects[AUID(ref)]; ok {
				mf.Dump(write, child, next)
			} else {
				write(next + "<unresolved>")
			}
		case []MXFRef:
			write(next + k)
			for _, item := range ref {
				if child, ok := mf.Objects[AUID(item)]; ok {
					mf.Dump(write, child, next+" ")
				} else {
					write(next + " <unresolved>")
				}
			}
		default:
			write(fmt.Sprintf("%s%s %v", next, k, v))
		}
	}
}

// opPrefixes are the three registered operational-pattern universal
// label prefixes (spec.md section 6, "Operation pattern").
var opPrefixes = [][]byte{
	{0x06, 0x0e, 0x2b, 0x34, 0x04, 0x01, 0x01, 0x01, 0x0d, 0x01, 0x02, 0x01},
	{0x06, 0x0e, 0x2b, 0x34, 0x04, 0x01, 0x01, 0x02, 0x0d, 0x01, 0x02, 0x01},
	{0x06, 0x0e, 0x2b, 0x34, 0x04, 0x01, 0x01, 0x03, 0x0d, 0x01, 0x02, 0x01},
}

// OperationPattern classifies the file's declared operational pattern
// label (header partition first, Preface property as a fallback) into
// its short form, e.g. "OP1a" or "OPAtom".
func (mf *MXFFile) OperationPattern() (string, bool) {
	op := mf.HeaderOperationPattern
	if op.IsNil() && mf.Preface != nil {
		if v, ok := mf.Preface.Data["OperationalPattern"]; ok {
			op = v.(AUID)
		}
	}
	if op.IsNil() {
		return "", false
	}
	prefixValid := false
	for _, prefix := range opPrefixes {
		if bytesHasPrefix(op[:], prefix) {
			prefixValid = true
			break
		}
	}
	if !prefixValid {
		return "", false
	}
	complexity := op[12]
	switch {
	case complexity >= 1 && complexity <= 3:
		letter, ok := map[byte]string{1: "a", 2: "b", 3: "c"}[op[13]]
		if !ok {
			return "", false
		}
		return fmt.Sprintf("OP%d%s", complexity, letter), true
	case complexity >= 0x10 && complexity <= 0x7f:
		if complexity == 0x10 {
			return "OPAtom", true
		}
	}
	return "", false
}

func bytesHasPrefix(b, prefix []byte) bool {
	if len(b) < len(prefix) {
		return false
	}
	for i := range prefix {
		if b[i] != prefix[i] {
			return false
		}
	}
	return true
}
