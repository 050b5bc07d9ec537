package aaf

// Baseline class ids. DefinitionObject through Dictionary are taken
// verbatim from original_source/aaf2/dictionary.py's registered class
// ids. The rest of the baseline (Header onward) continues the same
// SMPTE-label-prefixed numbering scheme ("0d010101-0101-NNNN-060e-
// 2b3402060101") those classes were themselves drawn from.
var (
	ClassDefinitionObject = mustAUID("0d010101-0101-1a00-060e-2b3402060101")
	ClassDataDef          = mustAUID("0d010101-0101-1b00-060e-2b3402060101")
	ClassOperationDef     = mustAUID("0d010101-0101-1c00-060e-2b3402060101")
	ClassParameterDef     = mustAUID("0d010101-0101-1d00-060e-2b3402060101")
	ClassPluginDef        = mustAUID("0d010101-0101-1e00-060e-2b3402060101")
	ClassCodecDef         = mustAUID("0d010101-0101-1f00-060e-2b3402060101")
	ClassContainerDef     = mustAUID("0d010101-0101-2000-060e-2b3402060101")
	ClassInterpolationDef = mustAUID("0d010101-0101-2100-060e-2b3402060101")
	ClassDictionary       = mustAUID("0d010101-0101-2200-060e-2b3402060101")

	ClassHeader           = mustAUID("0d010101-0101-2300-060e-2b3402060101")
	ClassContentStorage   = mustAUID("0d010101-0101-2400-060e-2b3402060101")
	ClassMob              = mustAUID("0d010101-0101-2500-060e-2b3402060101")
	ClassMasterMob        = mustAUID("0d010101-0101-2600-060e-2b3402060101")
	ClassSourceMob        = mustAUID("0d010101-0101-2700-060e-2b3402060101")
	ClassCompositionMob   = mustAUID("0d010101-0101-2800-060e-2b3402060101")
	ClassMobSlot          = mustAUID("0d010101-0101-2900-060e-2b3402060101")
	ClassTimelineMobSlot  = mustAUID("0d010101-0101-2a00-060e-2b3402060101")
	ClassStaticMobSlot    = mustAUID("0d010101-0101-2b00-060e-2b3402060101")
	ClassEventMobSlot     = mustAUID("0d010101-0101-2c00-060e-2b3402060101")
	ClassComponent        = mustAUID("0d010101-0101-2d00-060e-2b3402060101")
	ClassSequence         = mustAUID("0d010101-0101-2e00-060e-2b3402060101")
	ClassSourceClip       = mustAUID("0d010101-0101-2f00-060e-2b3402060101")
	ClassFiller           = mustAUID("0d010101-0101-3000-060e-2b3402060101")
	ClassTimecode         = mustAUID("0d010101-0101-3100-060e-2b3402060101")
	ClassEssenceGroup     = mustAUID("0d010101-0101-3200-060e-2b3402060101")
	ClassEssenceDescriptor = mustAUID("0d010101-0101-3300-060e-2b3402060101")
	ClassCDCIDescriptor   = mustAUID("0d010101-0101-3400-060e-2b3402060101")
	ClassRGBADescriptor   = mustAUID("0d010101-0101-3500-060e-2b3402060101")
	ClassSoundDescriptor  = mustAUID("0d010101-0101-3600-060e-2b3402060101")
	ClassPCMDescriptor    = mustAUID("0d010101-0101-3700-060e-2b3402060101")
	ClassMultipleDescriptor = mustAUID("0d010101-0101-3800-060e-2b3402060101")
	ClassTapeDescriptor   = mustAUID("0d010101-0101-3900-060e-2b3402060101")
	ClassImportDescriptor = mustAUID("0d010101-0101-3a00-060e-2b3402060101")
)

// DataDefInfo is one entry of the static DataDefs/ContainerDefs table
// (spec.md section 4.4): a name and a human-readable description, keyed
// by the definition's registered Identification AUID.
type DataDefInfo struct {
	Name        string
	Description string
}

// DataDefs is the baseline table of registered essence data kinds,
// loaded into every Dictionary object (spec.md section 4.4). These carry
// the full registered table (not just "picture", the minimum the concrete
// open-empty-file scenario checks for), the way a faithful dictionary
// has to.
var DataDefs = map[AUID]DataDefInfo{
	mustAUID("01030201-0100-0000-060e-2b3404010101"): {"picture", "Picture data"},
	mustAUID("01030202-0100-0000-060e-2b3404010101"): {"sound", "Sound data"},
	mustAUID("01030203-0100-0000-060e-2b3404010101"): {"timecode", "Timecode data"},
	mustAUID("01030204-0100-0000-060e-2b3404010101"): {"edgecode", "Edgecode data"},
	mustAUID("01030205-0100-0000-060e-2b3404010101"): {"matte", "Matte key data"},
	mustAUID("01030206-0100-0000-060e-2b3404010101"): {"DescriptiveMetadata", "Descriptive metadata"},
}

// ContainerDefs is the baseline table of registered essence container
// kinds, loaded into every Dictionary object (spec.md section 4.4).
var ContainerDefs = map[AUID]DataDefInfo{
	mustAUID("01010100-0100-0000-060e-2b3404010701"): {"AAF", "AAF structured storage essence container"},
	mustAUID("01010100-0200-0000-060e-2b3404010701"): {"AAFKLV", "AAF KLV essence container"},
}

// baselineClasses builds the registered AAF class dictionary from
// spec.md section 4.4's list. Each class's properties are declared in
// dependency order so PropertyByName/AllProperties's parent-chain walk
// works during construction.
func baselineClasses(r *ClassRegistry) []*ClassDef {
	var all []*ClassDef
	reg := func(c *ClassDef) *ClassDef {
		all = append(all, c)
		r.byID[c.ClassID] = c
		r.byName[c.Name] = c
		return c
	}

	definitionObject := reg(newClassDef(ClassDefinitionObject, "DefinitionObject", nil))
	definitionObject.AddProperty(PropertyDescriptor{PID: 1, Name: "Identification", TypeID: TypeAUID.ID, IsUID: true, Storage: StorageRequired})
	definitionObject.AddProperty(PropertyDescriptor{PID: 2, Name: "Name", TypeID: TypeString.ID, Storage: StorageRequired})
	definitionObject.AddProperty(PropertyDescriptor{PID: 3, Name: "Description", TypeID: TypeString.ID, Optional: true, Storage: StorageOptional})

	reg(newClassDef(ClassDataDef, "DataDef", definitionObject))
	reg(newClassDef(ClassOperationDef, "OperationDef", definitionObject))
	reg(newClassDef(ClassParameterDef, "ParameterDef", definitionObject))
	reg(newClassDef(ClassPluginDef, "PluginDef", definitionObject))
	reg(newClassDef(ClassCodecDef, "CodecDef", definitionObject))
	reg(newClassDef(ClassContainerDef, "ContainerDef", definitionObject))
	reg(newClassDef(ClassInterpolationDef, "InterpolationDef", definitionObject))

	dictionary := reg(newClassDef(ClassDictionary, "Dictionary", nil))
	dictionary.AddProperty(PropertyDescriptor{PID: 1, Name: "DataDefinitions", TypeID: ClassDataDef, Storage: StorageSet})
	dictionary.AddProperty(PropertyDescriptor{PID: 2, Name: "ContainerDefinitions", TypeID: ClassContainerDef, Storage: StorageSet})

	header := reg(newClassDef(ClassHeader, "Header", nil))
	header.AddProperty(PropertyDescriptor{PID: 1, Name: "ByteOrder", TypeID: TypeUInt16.ID, Storage: StorageRequired})
	header.AddProperty(PropertyDescriptor{PID: 2, Name: "LastModified", TypeID: TypeInt64.ID, Storage: StorageRequired})
	header.AddProperty(PropertyDescriptor{PID: 3, Name: "Version", TypeID: TypeUInt32.ID, Storage: StorageRequired})
	header.AddProperty(PropertyDescriptor{PID: 4, Name: "Dictionary", TypeID: ClassDictionary, Storage: StorageStrongRef})
	header.AddProperty(PropertyDescriptor{PID: 5, Name: "Content", TypeID: ClassContentStorage, Storage: StorageStrongRef})

	contentStorage := reg(newClassDef(ClassContentStorage, "ContentStorage", nil))
	contentStorage.AddProperty(PropertyDescriptor{PID: 1, Name: "Mobs", TypeID: ClassMob, Storage: StorageSet})

	mob := reg(newClassDef(ClassMob, "Mob", nil))
	mob.AddProperty(PropertyDescriptor{PID: 1, Name: "MobID", TypeID: TypeMobIDType.ID, IsUID: true, Storage: StorageRequired})
	mob.AddProperty(PropertyDescriptor{PID: 2, Name: "Name", TypeID: TypeString.ID, Optional: true, Storage: StorageOptional})
	mob.AddProperty(PropertyDescriptor{PID: 3, Name: "CreationTime", TypeID: TypeInt64.ID, Storage: StorageRequired})
	mob.AddProperty(PropertyDescriptor{PID: 4, Name: "LastModified", TypeID: TypeInt64.ID, Storage: StorageRequired})
	mob.AddProperty(PropertyDescriptor{PID: 5, Name: "Slots", TypeID: ClassMobSlot, Storage: StorageVariableArray})

	reg(newClassDef(ClassMasterMob, "MasterMob", mob))
	reg(newClassDef(ClassSourceMob, "SourceMob", mob))
	reg(newClassDef(ClassCompositionMob, "CompositionMob", mob))

	mobSlot := reg(newClassDef(ClassMobSlot, "MobSlot", nil))
	mobSlot.AddProperty(PropertyDescriptor{PID: 1, Name: "SlotID", TypeID: TypeUInt32.ID, Storage: StorageRequired})
	mobSlot.AddProperty(PropertyDescriptor{PID: 2, Name: "Name", TypeID: TypeString.ID, Optional: true, Storage: StorageOptional})
	mobSlot.AddProperty(PropertyDescriptor{PID: 3, Name: "Segment", TypeID: ClassComponent, Storage: StorageStrongRef})

	timelineMobSlot := reg(newClassDef(ClassTimelineMobSlot, "TimelineMobSlot", mobSlot))
	timelineMobSlot.AddProperty(PropertyDescriptor{PID: 4, Name: "EditRate", TypeID: TypeRational.ID, Storage: StorageRequired})
	timelineMobSlot.AddProperty(PropertyDescriptor{PID: 5, Name: "Origin", TypeID: TypeInt64.ID, Storage: StorageRequired})

	reg(newClassDef(ClassStaticMobSlot, "StaticMobSlot", mobSlot))
	reg(newClassDef(ClassEventMobSlot, "EventMobSlot", mobSlot))

	component := reg(newClassDef(ClassComponent, "Component", nil))
	component.AddProperty(PropertyDescriptor{PID: 1, Name: "DataDefinition", TypeID: ClassDataDef, Storage: StorageWeakRef})
	component.AddProperty(PropertyDescriptor{PID: 2, Name: "Length", TypeID: TypeLength64.ID, Optional: true, Storage: StorageOptional})

	sequence := reg(newClassDef(ClassSequence, "Sequence", component))
	sequence.AddProperty(PropertyDescriptor{PID: 3, Name: "Components", TypeID: ClassComponent, Storage: StorageVariableArray})

	sourceClip := reg(newClassDef(ClassSourceClip, "SourceClip", component))
	sourceClip.AddProperty(PropertyDescriptor{PID: 4, Name: "SourceID", TypeID: TypeMobIDType.ID, Storage: StorageRequired})
	sourceClip.AddProperty(PropertyDescriptor{PID: 5, Name: "SourceMobSlotID", TypeID: TypeUInt32.ID, Storage: StorageRequired})
	sourceClip.AddProperty(PropertyDescriptor{PID: 6, Name: "StartTime", TypeID: TypeInt64.ID, Storage: StorageRequired})

	reg(newClassDef(ClassFiller, "Filler", component))

	timecode := reg(newClassDef(ClassTimecode, "Timecode", component))
	timecode.AddProperty(PropertyDescriptor{PID: 3, Name: "Start", TypeID: TypeUInt64.ID, Storage: StorageRequired})
	timecode.AddProperty(PropertyDescriptor{PID: 4, Name: "FPS", TypeID: TypeUInt16.ID, Storage: StorageRequired})
	timecode.AddProperty(PropertyDescriptor{PID: 5, Name: "Drop", TypeID: TypeBoolean.ID, Storage: StorageRequired})

	essenceGroup := reg(newClassDef(ClassEssenceGroup, "EssenceGroup", component))
	essenceGroup.AddProperty(PropertyDescriptor{PID: 3, Name: "Choices", TypeID: ClassComponent, Storage: StorageVariableArray})

	descriptor := reg(newClassDef(ClassEssenceDescriptor, "EssenceDescriptor", nil))
	descriptor.AddProperty(PropertyDescriptor{PID: 1, Name: "Length", TypeID: TypeLength64.ID, Optional: true, Storage: StorageOptional})
	descriptor.AddProperty(PropertyDescriptor{PID: 2, Name: "SampleRate", TypeID: TypeRational.ID, Optional: true, Storage: StorageOptional})

	cdci := reg(newClassDef(ClassCDCIDescriptor, "CDCIDescriptor", descriptor))
	cdci.AddProperty(PropertyDescriptor{PID: 3, Name: "StoredWidth", TypeID: TypeUInt32.ID, Optional: true, Storage: StorageOptional})
	cdci.AddProperty(PropertyDescriptor{PID: 4, Name: "StoredHeight", TypeID: TypeUInt32.ID, Optional: true, Storage: StorageOptional})

	reg(newClassDef(ClassRGBADescriptor, "RGBADescriptor", descriptor))

	sound := reg(newClassDef(ClassSoundDescriptor, "SoundDescriptor", descriptor))
	sound.AddProperty(PropertyDescriptor{PID: 3, Name: "AudioSamplingRate", TypeID: TypeRational.ID, Optional: true, Storage: StorageOptional})
	sound.AddProperty(PropertyDescriptor{PID: 4, Name: "Channels", TypeID: TypeUInt32.ID, Optional: true, Storage: StorageOptional})

	reg(newClassDef(ClassPCMDescriptor, "PCMDescriptor", sound))
	reg(newClassDef(ClassMultipleDescriptor, "MultipleDescriptor", descriptor))
	reg(newClassDef(ClassTapeDescriptor, "TapeDescriptor", descriptor))
	reg(newClassDef(ClassImportDescriptor, "ImportDescriptor", descriptor))

	return all
}
