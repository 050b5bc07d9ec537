package aaf

import (
	"bytes"
	"testing"
)

func TestWriteCFBChainsMultiSectorStreamsAndDirectory(t *testing.T) {
	big := bytes.Repeat([]byte{0xAB}, cfbWriteSectorSize*3+10)
	entries := []cfbStreamEntry{
		{Path: "A/Properties", Data: big},
		{Path: "B/Properties", Data: []byte("short")},
	}
	var buf bytes.Buffer
	if err := writeCFB(&buf, entries); err != nil {
		t.Fatalf("writeCFB: %v", err)
	}

	img, err := openCFB(buf.Bytes(), NopLogger{})
	if err != nil {
		t.Fatalf("openCFB: %v", err)
	}
	got, err := img.locateNamedStream("A/Properties")
	if err != nil {
		t.Fatalf("locateNamedStream A: %v", err)
	}
	if !bytes.Equal(got, big) {
		t.Fatalf("multi-sector stream round trip mismatch: got %d bytes, want %d", len(got), len(big))
	}
	got2, err := img.locateNamedStream("B/Properties")
	if err != nil {
		t.Fatalf("locateNamedStream B: %v", err)
	}
	if string(got2) != "short" {
		t.Fatalf("short stream round trip mismatch: got %q", got2)
	}
}

func TestWriteCFBSpansMultipleDirectorySectors(t *testing.T) {
	// 4 directory entries fit in one 512-byte sector; force more than
	// that many storages plus their Properties leaves so the directory
	// chain must span multiple sectors.
	var entries []cfbStreamEntry
	for i := 0; i < 20; i++ {
		entries = append(entries, cfbStreamEntry{
			Path: cfbPathJoin("Dictionary", "Items", string(rune('a'+i)), "Properties"),
			Data: []byte{byte(i)},
		})
	}
	var buf bytes.Buffer
	if err := writeCFB(&buf, entries); err != nil {
		t.Fatalf("writeCFB: %v", err)
	}
	img, err := openCFB(buf.Bytes(), NopLogger{})
	if err != nil {
		t.Fatalf("openCFB: %v", err)
	}
	names, err := img.childNames("Dictionary/Items")
	if err != nil {
		t.Fatalf("childNames: %v", err)
	}
	if len(names) != 20 {
		t.Fatalf("expected 20 children, got %d", len(names))
	}
	for i := 0; i < 20; i++ {
		key := string(rune('a' + i))
		data, err := img.locateNamedStream(cfbPathJoin("Dictionary", "Items", key, "Properties"))
		if err != nil {
			t.Fatalf("locateNamedStream %s: %v", key, err)
		}
		if len(data) != 1 || data[0] != byte(i) {
			t.Fatalf("entry %s decoded wrong: %v", key, data)
		}
	}
}

func TestCFBNameOrderingByLengthThenCase(t *testing.T) {
	names := []string{"bb", "A", "aa", "Z", "ccc"}
	sortCFBNames(names)
	want := []string{"A", "Z", "aa", "bb", "ccc"}
	if len(names) != len(want) {
		t.Fatalf("got %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("got %v, want %v", names, want)
		}
	}
}

func TestWriteCFBOrdersDirectoryByLengthThenCase(t *testing.T) {
	entries := []cfbStreamEntry{
		{Path: "bb/Properties", Data: []byte{1}},
		{Path: "A/Properties", Data: []byte{2}},
		{Path: "aa/Properties", Data: []byte{3}},
		{Path: "Z/Properties", Data: []byte{4}},
		{Path: "ccc/Properties", Data: []byte{5}},
	}
	var buf bytes.Buffer
	if err := writeCFB(&buf, entries); err != nil {
		t.Fatalf("writeCFB: %v", err)
	}
	img, err := openCFB(buf.Bytes(), NopLogger{})
	if err != nil {
		t.Fatalf("openCFB: %v", err)
	}
	names, err := img.childNames("")
	if err != nil {
		t.Fatalf("childNames: %v", err)
	}
	want := []string{"A", "Z", "aa", "bb", "ccc"}
	if len(names) != len(want) {
		t.Fatalf("got %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("got %v, want %v", names, want)
		}
	}
}

func TestAAFFileSaveOpenRoundTrip(t *testing.T) {
	f, err := Create(&fakeRandom{b: 0x40}, stubClock{t: 5})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	var buf bytes.Buffer
	if err := f.Save(&buf); err != nil {
		t.Fatalf("Save: %v", err)
	}

	opened, err := Open(buf.Bytes(), NopLogger{})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer opened.Close()

	if opened.Mobs().Len() != 0 {
		t.Fatalf("expected an empty Mobs set, got %d", opened.Mobs().Len())
	}

	dataDefsVal, ok := opened.Dictionary().Get("DataDefinitions")
	if !ok {
		t.Fatalf("reopened Dictionary is missing DataDefinitions")
	}
	dataDefs := dataDefsVal.(*Set)
	if dataDefs.Len() != len(DataDefs) {
		t.Fatalf("expected %d data definitions, got %d", len(DataDefs), dataDefs.Len())
	}

	if _, err := opened.LookupDataDef("picture"); err != nil {
		t.Fatalf("expected to find the picture datadef after reopening: %v", err)
	}
	if _, err := opened.LookupDataDef("sound"); err != nil {
		t.Fatalf("expected to find the sound datadef after reopening: %v", err)
	}

	containerDefsVal, ok := opened.Dictionary().Get("ContainerDefinitions")
	if !ok {
		t.Fatalf("reopened Dictionary is missing ContainerDefinitions")
	}
	if containerDefs := containerDefsVal.(*Set); containerDefs.Len() != len(ContainerDefs) {
		t.Fatalf("expected %d container definitions, got %d", len(ContainerDefs), containerDefs.Len())
	}
}
