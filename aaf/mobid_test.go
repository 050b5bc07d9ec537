package aaf

import "testing"

type fakeRandom struct{ b byte }

func (r *fakeRandom) FillRandom(buf []byte) error {
	for i := range buf {
		buf[i] = r.b
		r.b++
	}
	return nil
}

func TestMobIDRoundTrip(t *testing.T) {
	m, err := NewMobID(&fakeRandom{})
	if err != nil {
		t.Fatalf("NewMobID: %v", err)
	}
	material, err := ParseAUID("52c02cd8-6801-4806-986a-b68c0a0cf9d3")
	if err != nil {
		t.Fatalf("ParseAUID: %v", err)
	}
	m.SetMaterial(material)

	wantStr := "urn:smpte:umid:060a2b34.01010105.01010f00.13000000.52c02cd8.68014806.986ab68c.0a0cf9d3"
	if got := m.String(); got != wantStr {
		t.Fatalf("String() = %q, want %q", got, wantStr)
	}

	m2, err := ParseMobID(m.String())
	if err != nil {
		t.Fatalf("ParseMobID: %v", err)
	}
	if m2 != m {
		t.Fatalf("ParseMobID(m.String()) != m")
	}

	m3, err := MobIDFromBytesLE(m.BytesLE())
	if err != nil {
		t.Fatalf("MobIDFromBytesLE: %v", err)
	}
	if m3 != m {
		t.Fatalf("MobIDFromBytesLE(m.BytesLE()) != m")
	}
	if m.Int().Cmp(m3.Int()) != 0 {
		t.Fatalf("m.Int() != m3.Int()")
	}
}

func TestMobIDIsNil(t *testing.T) {
	var m MobID
	if !m.IsNil() {
		t.Fatalf("zero-value MobID should be nil")
	}
	got, err := NewMobID(&fakeRandom{b: 1})
	if err != nil {
		t.Fatalf("NewMobID: %v", err)
	}
	if got.IsNil() {
		t.Fatalf("freshly minted MobID should not be nil")
	}
}
