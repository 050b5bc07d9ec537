package aaf

import "fmt"

// TypeCategory classifies how a TypeDef's values are encoded on the wire
// (spec.md section 4.2). This only covers the primitive categories the
// codec actually dispatches on; composite shapes (records, arrays,
// strong/weak refs) are represented structurally by Object/Set/
// VariableArray/PropertyDescriptor.Storage rather than by a TypeDef, so
// they have no category of their own here.
type TypeCategory int

const (
	CategoryInt TypeCategory = iota
	CategoryUInt
	CategoryBool
	CategoryString
	CategoryAUID
	CategoryMobID
	CategoryRational
)

// OpaqueValue preserves a property's wire bytes verbatim when its stored
// type tag is not one this implementation recognizes, so encoding and
// decoding round-trip it without interpretation instead of failing
// (spec.md section 4.2, "unknown type_ids are preserved as opaque byte
// blobs").
type OpaqueValue struct {
	Bytes []byte
}

// Rational is AAF's num/den property type: a 32-bit signed numerator over
// a 32-bit signed denominator (spec.md section 4.2).
type Rational struct {
	Numerator   int32
	Denominator int32
}

func (r Rational) String() string {
	return fmt.Sprintf("%d/%d", r.Numerator, r.Denominator)
}

// TypeDef describes one entry in the type dictionary: one of AAF's
// registered primitive property types (spec.md section 4.2).
type TypeDef struct {
	ID       AUID
	Name     string
	Category TypeCategory

	// IntSize is the width in bytes for Int/UInt categories (1, 2, 4, 8).
	IntSize int
}

// TypeDictionary resolves type_ids to TypeDefs, including types
// registered at runtime by an extension (spec.md section 4.2).
type TypeDictionary struct {
	byID map[AUID]*TypeDef
}

// NewTypeDictionary returns a dictionary preloaded with AAF's baseline
// primitive types.
func NewTypeDictionary() *TypeDictionary {
	td := &TypeDictionary{byID: make(map[AUID]*TypeDef)}
	for _, t := range baselineTypes {
		td.byID[t.ID] = t
	}
	return td
}

// Register adds or replaces a type definition. Re-registering the same
// id with an identical definition is a no-op; re-registering with a
// different shape is allowed (type extension is runtime, per spec.md
// section 4.2) but overwrites the prior definition.
func (td *TypeDictionary) Register(t *TypeDef) {
	td.byID[t.ID] = t
}

// Lookup resolves a type_id. The second return value is false for an
// unregistered type_id. The Properties stream codec (save.go) does not
// consult this dictionary; it preserves values with an unrecognized wire
// tag as OpaqueValue.
func (td *TypeDictionary) Lookup(id AUID) (*TypeDef, bool) {
	t, ok := td.byID[id]
	return t, ok
}

func mustAUID(s string) AUID {
	a, err := ParseAUID(s)
	if err != nil {
		panic(err)
	}
	return a
}

// Baseline primitive type ids. These follow the registered AAF type
// dictionary's own numbering scheme (a SMPTE-registered label prefix),
// the same convention the real dictionary uses for every built-in type.
var (
	TypeUInt8      = &TypeDef{ID: mustAUID("01010100-0000-0000-060e-2b3401040101"), Name: "UInt8", Category: CategoryUInt, IntSize: 1}
	TypeUInt16     = &TypeDef{ID: mustAUID("01010100-0000-0000-060e-2b3401040102"), Name: "UInt16", Category: CategoryUInt, IntSize: 2}
	TypeUInt32     = &TypeDef{ID: mustAUID("01010100-0000-0000-060e-2b3401040103"), Name: "UInt32", Category: CategoryUInt, IntSize: 4}
	TypeUInt64     = &TypeDef{ID: mustAUID("01010100-0000-0000-060e-2b3401040104"), Name: "UInt64", Category: CategoryUInt, IntSize: 8}
	TypeInt8       = &TypeDef{ID: mustAUID("01010100-0000-0000-060e-2b3401040105"), Name: "Int8", Category: CategoryInt, IntSize: 1}
	TypeInt16      = &TypeDef{ID: mustAUID("01010100-0000-0000-060e-2b3401040106"), Name: "Int16", Category: CategoryInt, IntSize: 2}
	TypeInt32      = &TypeDef{ID: mustAUID("01010100-0000-0000-060e-2b3401040107"), Name: "Int32", Category: CategoryInt, IntSize: 4}
	TypeInt64      = &TypeDef{ID: mustAUID("01010100-0000-0000-060e-2b3401040108"), Name: "Int64", Category: CategoryInt, IntSize: 8}
	TypeBoolean    = &TypeDef{ID: mustAUID("01010100-0000-0000-060e-2b3401040109"), Name: "Boolean", Category: CategoryBool, IntSize: 1}
	TypeString     = &TypeDef{ID: mustAUID("01010100-0000-0000-060e-2b340104010a"), Name: "String", Category: CategoryString}
	TypeAUID       = &TypeDef{ID: mustAUID("01010100-0000-0000-060e-2b340104010b"), Name: "AUID", Category: CategoryAUID}
	TypeMobIDType  = &TypeDef{ID: mustAUID("01010100-0000-0000-060e-2b340104010c"), Name: "MobID", Category: CategoryMobID}
	TypeRational   = &TypeDef{ID: mustAUID("01010100-0000-0000-060e-2b340104010d"), Name: "Rational", Category: CategoryRational}
	TypePosition32 = TypeInt32
	TypeLength64   = TypeInt64
)

var baselineTypes = []*TypeDef{
	TypeUInt8, TypeUInt16, TypeUInt32, TypeUInt64,
	TypeInt8, TypeInt16, TypeInt32, TypeInt64,
	TypeBoolean, TypeString, TypeAUID, TypeMobIDType, TypeRational,
}
