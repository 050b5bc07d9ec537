package aaf

import "testing"

type stubClock struct{ t int64 }

func (c stubClock) Now() int64 { return c.t }

func newTestFile(t *testing.T) *AAFFile {
	t.Helper()
	f, err := Create(&fakeRandom{b: 0x10}, stubClock{t: 1})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return f
}

func TestCreateBootstrapsDictionaryAndContent(t *testing.T) {
	f := newTestFile(t)
	if !f.Header.IsAttached() {
		t.Fatalf("Header should be attached after Create")
	}
	if f.Dictionary() == nil || f.Content() == nil {
		t.Fatalf("Dictionary/Content should be populated")
	}
	if f.Mobs().Len() != 0 {
		t.Fatalf("fresh file should have no mobs, got %d", f.Mobs().Len())
	}
	if _, err := f.LookupDataDef("picture"); err != nil {
		t.Fatalf("expected a picture datadef: %v", err)
	}
	if _, err := f.LookupDataDef("sound"); err != nil {
		t.Fatalf("expected a sound datadef: %v", err)
	}
}

func TestMobAppendDuplicateAndPop(t *testing.T) {
	f := newTestFile(t)
	rnd := &fakeRandom{b: 0x20}
	clock := stubClock{t: 2}

	mob, err := f.CreateMasterMob(rnd, clock, "reel1")
	if err != nil {
		t.Fatalf("CreateMasterMob: %v", err)
	}
	if mob.IsAttached() {
		t.Fatalf("a freshly built mob should start detached")
	}

	if err := f.Mobs().Append(mob); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if !mob.IsAttached() {
		t.Fatalf("mob should be attached after Append")
	}
	if f.Mobs().Len() != 1 {
		t.Fatalf("expected 1 mob, got %d", f.Mobs().Len())
	}

	// appending the same object again is an error: it is already attached
	// elsewhere (spec.md section 8, "append same mob twice").
	if err := f.Mobs().Append(mob); err == nil {
		t.Fatalf("expected error appending an already-attached mob")
	}

	id, _ := mob.Get("MobID")
	key := id.(MobID).String()

	popped, err := f.Mobs().Pop(key)
	if err != nil {
		t.Fatalf("Pop: %v", err)
	}
	if popped != mob {
		t.Fatalf("Pop returned a different object than was appended")
	}
	if mob.IsAttached() {
		t.Fatalf("mob should be detached after Pop")
	}
	if f.Mobs().Len() != 0 {
		t.Fatalf("expected 0 mobs after Pop, got %d", f.Mobs().Len())
	}

	// re-appending after a pop restores it, with its properties intact.
	if err := f.Mobs().Append(mob); err != nil {
		t.Fatalf("re-Append after Pop: %v", err)
	}
	if !mob.IsAttached() {
		t.Fatalf("mob should be attached again after re-Append")
	}
	if name, _ := mob.Get("Name"); name != "reel1" {
		t.Fatalf("re-attached mob lost its Name property: %v", name)
	}
}

func TestSlotSequenceFillersAttachDetachCascade(t *testing.T) {
	f := newTestFile(t)
	rnd := &fakeRandom{b: 0x30}
	clock := stubClock{t: 3}

	mob, err := f.CreateMasterMob(rnd, clock, "reel2")
	if err != nil {
		t.Fatalf("CreateMasterMob: %v", err)
	}
	if err := f.Mobs().Append(mob); err != nil {
		t.Fatalf("Append mob: %v", err)
	}

	slot, err := f.CreateTimelineSlot(mob, 25)
	if err != nil {
		t.Fatalf("CreateTimelineSlot: %v", err)
	}
	if !slot.IsAttached() {
		t.Fatalf("slot should be attached via the mob's Slots array")
	}

	seq := f.CreateSequence()
	if err := slot.Set("Segment", seq); err != nil {
		t.Fatalf("Set Segment: %v", err)
	}
	if !seq.IsAttached() {
		t.Fatalf("sequence should be attached as soon as it is set on an attached slot")
	}

	compsVal, _ := seq.Get("Components")
	comps := compsVal.(*VariableArray)
	for i := 0; i < 10; i++ {
		filler := f.CreateFiller()
		if err := comps.Append(filler); err != nil {
			t.Fatalf("Append filler %d: %v", i, err)
		}
	}
	if comps.Len() != 10 {
		t.Fatalf("expected 10 fillers, got %d", comps.Len())
	}
	for i, filler := range comps.Items() {
		if !filler.IsAttached() {
			t.Fatalf("filler %d should be attached", i)
		}
	}

	last, err := comps.PopAt(-1)
	if err != nil {
		t.Fatalf("PopAt(-1): %v", err)
	}
	if last.IsAttached() {
		t.Fatalf("popped filler should be detached")
	}
	if comps.Len() != 9 {
		t.Fatalf("expected 9 fillers after PopAt(-1), got %d", comps.Len())
	}

	first, err := comps.PopAt(0)
	if err != nil {
		t.Fatalf("PopAt(0): %v", err)
	}
	if first.IsAttached() {
		t.Fatalf("popped filler should be detached")
	}
	if comps.Len() != 8 {
		t.Fatalf("expected 8 fillers after PopAt(0), got %d", comps.Len())
	}

	// detaching the mob cascades through slot -> sequence -> remaining
	// fillers (spec.md section 8, detach cascades to children).
	mobPath := mob.Path()
	seqPath := seq.Path()
	remaining := comps.Items()
	if len(remaining) == 0 {
		t.Fatalf("expected remaining fillers to check cascade on")
	}
	mob.detach()
	if mob.IsAttached() || slot.IsAttached() || seq.IsAttached() {
		t.Fatalf("detaching the mob should cascade to its slot and sequence")
	}
	for i, filler := range remaining {
		if filler.IsAttached() {
			t.Fatalf("filler %d should be detached after mob cascade", i)
		}
	}

	// re-attaching restores the whole subtree, including the fillers that
	// were never individually popped.
	if err := mob.attachTo(f, mobPath); err != nil {
		t.Fatalf("re-attachTo: %v", err)
	}
	if !mob.IsAttached() || !slot.IsAttached() || !seq.IsAttached() {
		t.Fatalf("re-attaching the mob should restore the whole subtree")
	}
	if seq.Path() != seqPath {
		t.Fatalf("re-attached sequence path = %q, want %q", seq.Path(), seqPath)
	}
	for i, filler := range remaining {
		if !filler.IsAttached() {
			t.Fatalf("filler %d should be re-attached", i)
		}
	}
}

func TestAttachTwiceIsError(t *testing.T) {
	f := newTestFile(t)
	if err := f.Header.attachTo(f, "/Header"); err == nil {
		t.Fatalf("attaching an already-attached object should error")
	}
}
