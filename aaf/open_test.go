package aaf

import (
	"bytes"
	"testing"
)

func buildPropertiesStream(classID AUID, extra ...[3]interface{}) []byte {
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
	putRecord(pidClassID, tagAUID, EncodeAUID(classID))
	for _, e := range extra {
		putRecord(e[0].(uint16), e[1].(uint8), e[2].([]byte))
	}
	return buf
}

func TestOpenUnknownClassDegradesToGenericObject(t *testing.T) {
	unknownClass := mustAUID("0d010101-0101-9999-060e-2b3402060101")
	nameBytes, _ := EncodeString("mystery")
	entries := []cfbStreamEntry{
		{Path: "Header/Properties", Data: buildPropertiesStream(unknownClass,
			[3]interface{}{uint16(7), tagString, nameBytes},
			[3]interface{}{uint16(8), tagBool, EncodeBool(true)},
		)},
	}
	var buf bytes.Buffer
	if err := writeCFB(&buf, entries); err != nil {
		t.Fatalf("writeCFB: %v", err)
	}

	f, err := Open(buf.Bytes(), NopLogger{})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if f.Header.Class.ClassID != unknownClass {
		t.Fatalf("got class %s, want %s", f.Header.Class.ClassID, unknownClass)
	}
	name, ok := f.Header.Get("Property7")
	if !ok {
		t.Fatalf("expected Property7 to survive opaquely")
	}
	if name.(string) != "mystery" {
		t.Fatalf("got %v, want mystery", name)
	}
	flag, ok := f.Header.Get("Property8")
	if !ok || flag.(bool) != true {
		t.Fatalf("expected Property8 true, got %v, %v", flag, ok)
	}
}
