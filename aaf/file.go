package aaf

import (
	"fmt"
	"io"
)

// AAFFile is an open AAF document: its dictionaries, its Header object
// tree, and the CFB storage it is backed by (spec.md section 5, "AAF
// persistence"). Objects become attached to a file by being linked,
// directly or transitively, under its Header through a StrongRef, Set,
// or VariableArray property.
type AAFFile struct {
	Classes *ClassRegistry
	Types   *TypeDictionary
	Logger  Logger

	Header *Object

	paths map[string]*Object

	storage *cfbImage
}

// Create returns a new, empty AAF document: a Header owning a fresh
// Dictionary (preloaded with the baseline DataDefs/ContainerDefs table)
// and an empty ContentStorage, the way pyaaf2's aaf2.open(path, 'w')
// bootstraps a document (spec.md section 5).
func Create(rnd RandomSource, clock Clock) (*AAFFile, error) {
	f := &AAFFile{
		Classes: NewClassRegistry(),
		Types:   NewTypeDictionary(),
		Logger:  NopLogger{},
		paths:   make(map[string]*Object),
	}

	headerClass, _ := f.Classes.Lookup(ClassHeader)
	header := NewObject(headerClass)
	header.parent = nil

	dictClass, _ := f.Classes.Lookup(ClassDictionary)
	dictionary := NewObject(dictClass)
	dataDefClass, _ := f.Classes.Lookup(ClassDataDef)
	containerDefClass, _ := f.Classes.Lookup(ClassContainerDef)

	dataDefs := NewSet(dictionary, "DataDefinitions", classKeyFunc)
	containerDefs := NewSet(dictionary, "ContainerDefinitions", classKeyFunc)
	for id, info := range DataDefs {
		dd := NewObject(dataDefClass)
		_ = dd.Set("Identification", id)
		_ = dd.Set("Name", info.Name)
		_ = dd.Set("Description", info.Description)
		dd.parent = dictionary
		dataDefs.items[id.String()] = dd
		dataDefs.order = append(dataDefs.order, id.String())
	}
	for id, info := range ContainerDefs {
		cd := NewObject(containerDefClass)
		_ = cd.Set("Identification", id)
		_ = cd.Set("Name", info.Name)
		_ = cd.Set("Description", info.Description)
		cd.parent = dictionary
		containerDefs.items[id.String()] = cd
		containerDefs.order = append(containerDefs.order, id.String())
	}
	if err := dictionary.Set("DataDefinitions", dataDefs); err != nil {
		return nil, err
	}
	if err := dictionary.Set("ContainerDefinitions", containerDefs); err != nil {
		return nil, err
	}

	contentClass, _ := f.Classes.Lookup(ClassContentStorage)
	content := NewObject(contentClass)
	mobs := NewSet(content, "Mobs", classKeyFunc)
	if err := content.Set("Mobs", mobs); err != nil {
		return nil, err
	}

	if err := header.Set("Dictionary", dictionary); err != nil {
		return nil, err
	}
	if err := header.Set("Content", content); err != nil {
		return nil, err
	}
	if err := header.Set("ByteOrder", uint64(0x4949)); err != nil {
		return nil, err
	}
	if err := header.Set("Version", uint64(1)); err != nil {
		return nil, err
	}
	if clock != nil {
		_ = header.Set("LastModified", clock.Now())
	}

	f.Header = header
	if err := header.attachTo(f, "/Header"); err != nil {
		return nil, err
	}
	return f, nil
}

// Dictionary returns the file's Dictionary object.
func (f *AAFFile) Dictionary() *Object {
	v, _ := f.Header.Get("Dictionary")
	return v.(*Object)
}

// Content returns the file's ContentStorage object.
func (f *AAFFile) Content() *Object {
	v, _ := f.Header.Get("Content")
	return v.(*Object)
}

// Mobs returns the content storage's keyed set of Mob objects.
func (f *AAFFile) Mobs() *Set {
	v, _ := f.Content().Get("Mobs")
	return v.(*Set)
}

// LookupDataDef resolves a registered data definition by name, e.g.
// "picture" or "sound" (spec.md section 4.4).
func (f *AAFFile) LookupDataDef(name string) (*Object, error) {
	v, _ := f.Dictionary().Get("DataDefinitions")
	set := v.(*Set)
	for _, o := range set.Items() {
		n, _ := o.Get("Name")
		if n == name {
			return o, nil
		}
	}
	return nil, &NotFoundError{Message: "no datadef named " + name}
}

// CreateMasterMob builds a detached MasterMob with a fresh MobID.
func (f *AAFFile) CreateMasterMob(rnd RandomSource, clock Clock, name string) (*Object, error) {
	c, _ := f.Classes.Lookup(ClassMasterMob)
	mob := NewObject(c)
	id, err := NewMobID(rnd)
	if err != nil {
		return nil, err
	}
	_ = mob.Set("MobID", id)
	if name != "" {
		_ = mob.Set("Name", name)
	}
	if clock != nil {
		_ = mob.Set("CreationTime", clock.Now())
		_ = mob.Set("LastModified", clock.Now())
	}
	slots := NewVariableArray(mob, "Slots")
	if err := mob.Set("Slots", slots); err != nil {
		return nil, err
	}
	return mob, nil
}

// CreateTimelineSlot builds a TimelineMobSlot with the given edit rate
// (frames per second, denominator 1) and appends it to mob's Slots.
func (f *AAFFile) CreateTimelineSlot(mob *Object, editRateNumerator int32) (*Object, error) {
	c, _ := f.Classes.Lookup(ClassTimelineMobSlot)
	slot := NewObject(c)
	slotsVal, ok := mob.Get("Slots")
	if !ok {
		return nil, &TypeMismatchError{Message: "mob has no Slots array"}
	}
	slots := slotsVal.(*VariableArray)
	_ = slot.Set("SlotID", uint64(slots.Len()+1))
	_ = slot.Set("EditRate", Rational{Numerator: editRateNumerator, Denominator: 1})
	_ = slot.Set("Origin", int64(0))
	if err := slots.Append(slot); err != nil {
		return nil, err
	}
	return slot, nil
}

// CreateSequence builds a detached Sequence with an empty Components
// array.
func (f *AAFFile) CreateSequence() *Object {
	c, _ := f.Classes.Lookup(ClassSequence)
	seq := NewObject(c)
	comps := NewVariableArray(seq, "Components")
	_ = seq.Set("Components", comps)
	return seq
}

// CreateFiller builds a detached Filler component.
func (f *AAFFile) CreateFiller() *Object {
	c, _ := f.Classes.Lookup(ClassFiller)
	return NewObject(c)
}

// registerPath indexes an attached object by its CFB storage path.
func (f *AAFFile) registerPath(path string, o *Object) {
	f.paths[path] = o
}

// unregisterPath removes a detached object's CFB storage path entry.
func (f *AAFFile) unregisterPath(path string) {
	delete(f.paths, path)
}

// Exists reports whether path currently names an attached object's
// storage location (spec.md section 8, f.cfb.exists).
func (f *AAFFile) Exists(path string) bool {
	_, ok := f.paths[path]
	return ok
}

// Save writes the file's current Header tree to w as a compound file
// image (spec.md section 5, "Save").
func (f *AAFFile) Save(w io.Writer) error {
	var entries []cfbStreamEntry
	if err := f.SaveTo(&entries); err != nil {
		return err
	}
	return writeCFB(w, entries)
}

// Close releases resources held by the file's backing storage.
func (f *AAFFile) Close() error {
	if f.storage != nil {
		return f.storage.Close()
	}
	return nil
}

func (f *AAFFile) String() string {
	return fmt.Sprintf("AAFFile{mobs=%d}", f.Mobs().Len())
}
