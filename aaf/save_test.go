package aaf

import "testing"

func TestEncodeDecodePrimitiveOpaqueRoundTrip(t *testing.T) {
	want := OpaqueValue{Bytes: []byte{0xde, 0xad, 0xbe, 0xef}}
	tag, payload, err := encodePrimitive(want)
	if err != nil {
		t.Fatalf("encodePrimitive: %v", err)
	}
	if tag != tagOpaque {
		t.Fatalf("got tag %d, want tagOpaque", tag)
	}
	got, err := decodePrimitive(tag, payload)
	if err != nil {
		t.Fatalf("decodePrimitive: %v", err)
	}
	ov, ok := got.(OpaqueValue)
	if !ok {
		t.Fatalf("got %T, want OpaqueValue", got)
	}
	if string(ov.Bytes) != string(want.Bytes) {
		t.Fatalf("got %v, want %v", ov.Bytes, want.Bytes)
	}
}

func TestDecodePrimitiveUnrecognizedTagIsOpaque(t *testing.T) {
	payload := []byte{1, 2, 3}
	got, err := decodePrimitive(0xEE, payload)
	if err != nil {
		t.Fatalf("decodePrimitive: %v", err)
	}
	ov, ok := got.(OpaqueValue)
	if !ok {
		t.Fatalf("got %T, want OpaqueValue", got)
	}
	if string(ov.Bytes) != string(payload) {
		t.Fatalf("got %v, want %v", ov.Bytes, payload)
	}
}
