package aaf

import "testing"

func TestFreshDictionaryHasBaselineDefinitions(t *testing.T) {
	f, err := Create(&fakeRandom{b: 0x50}, stubClock{t: 7})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	dataDefsVal, ok := f.Dictionary().Get("DataDefinitions")
	if !ok {
		t.Fatalf("Dictionary has no DataDefinitions set")
	}
	dataDefs := dataDefsVal.(*Set)
	if dataDefs.Len() < 1 {
		t.Fatalf("expected at least one data definition, got %d", dataDefs.Len())
	}

	names := make(map[string]bool)
	for _, dd := range dataDefs.Items() {
		name, _ := dd.Get("Name")
		names[name.(string)] = true
	}
	if !names["picture"] {
		t.Fatalf("expected a picture data definition, got %v", names)
	}

	containerDefsVal, ok := f.Dictionary().Get("ContainerDefinitions")
	if !ok {
		t.Fatalf("Dictionary has no ContainerDefinitions set")
	}
	containerDefs := containerDefsVal.(*Set)
	if containerDefs.Len() < 1 {
		t.Fatalf("expected at least one container definition, got %d", containerDefs.Len())
	}
}

func TestLookupDataDefUnknownName(t *testing.T) {
	f, err := Create(&fakeRandom{b: 0x51}, stubClock{t: 8})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := f.LookupDataDef("not-a-real-datadef"); err == nil {
		t.Fatalf("expected an error looking up an unregistered data definition")
	}
}
