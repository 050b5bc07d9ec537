package aaf

import (
	"fmt"
	"sort"
)

// StorageKind is how a property's value is attached to its owning object
// (spec.md section 3, "Property descriptor").
type StorageKind int

const (
	StorageRequired StorageKind = iota
	StorageOptional
	StorageStrongRef
	StorageWeakRef
	StorageSet
	StorageVariableArray
)

// PropertyDescriptor is one entry of a class's schema.
type PropertyDescriptor struct {
	PID      uint16
	Name     string
	TypeID   AUID
	Optional bool
	IsUID    bool
	Storage  StorageKind
}

// ClassDef is the registered schema for one AAF class: its AUID, its
// parent (for property inheritance), and its own declared properties.
// This is the runtime stand-in for the source's class-inheritance-driven
// reflection (spec.md section 9, "Polymorphism over a large class
// hierarchy"): a flat table keyed by AUID rather than a decorator-driven
// class body.
type ClassDef struct {
	ClassID AUID
	Name    string
	Parent  *ClassDef

	props   []PropertyDescriptor
	byPID   map[uint16]*PropertyDescriptor
	byName  map[string]*PropertyDescriptor
}

func newClassDef(id AUID, name string, parent *ClassDef) *ClassDef {
	return &ClassDef{
		ClassID: id,
		Name:    name,
		Parent:  parent,
		byPID:   make(map[uint16]*PropertyDescriptor),
		byName:  make(map[string]*PropertyDescriptor),
	}
}

// AddProperty registers a property on this class. It does not check the
// parent chain for a pid conflict; callers shouldn't redeclare an
// inherited pid.
func (c *ClassDef) AddProperty(p PropertyDescriptor) {
	c.props = append(c.props, p)
	stored := &c.props[len(c.props)-1]
	c.byPID[p.PID] = stored
	c.byName[p.Name] = stored
}

// PropertyByPID looks up a property descriptor by pid, walking up the
// parent chain.
func (c *ClassDef) PropertyByPID(pid uint16) (*PropertyDescriptor, bool) {
	for cd := c; cd != nil; cd = cd.Parent {
		if p, ok := cd.byPID[pid]; ok {
			return p, true
		}
	}
	return nil, false
}

// PropertyByName looks up a property descriptor by name, walking up the
// parent chain.
func (c *ClassDef) PropertyByName(name string) (*PropertyDescriptor, bool) {
	for cd := c; cd != nil; cd = cd.Parent {
		if p, ok := cd.byName[name]; ok {
			return p, true
		}
	}
	return nil, false
}

// AllProperties returns every property declared on this class and its
// ancestors, most-derived first.
func (c *ClassDef) AllProperties() []PropertyDescriptor {
	var out []PropertyDescriptor
	for cd := c; cd != nil; cd = cd.Parent {
		out = append(out, cd.props...)
	}
	return out
}

// IsA reports whether this class is, or descends from, the named class.
func (c *ClassDef) IsA(name string) bool {
	for cd := c; cd != nil; cd = cd.Parent {
		if cd.Name == name {
			return true
		}
	}
	return false
}

// ClassRegistry maps class AUIDs to their registered schema (spec.md
// section 4.4).
type ClassRegistry struct {
	byID   map[AUID]*ClassDef
	byName map[string]*ClassDef
}

// NewClassRegistry returns a registry preloaded with the baseline AAF
// class dictionary (datadefs.go).
func NewClassRegistry() *ClassRegistry {
	r := &ClassRegistry{byID: make(map[AUID]*ClassDef), byName: make(map[string]*ClassDef)}
	for _, c := range baselineClasses(r) {
		r.byID[c.ClassID] = c
		r.byName[c.Name] = c
	}
	return r
}

// Register adds a class schema. Registering the same AUID twice with an
// identical property set is a no-op; registering conflicting schemas for
// the same AUID is an error (spec.md section 4.4).
func (r *ClassRegistry) Register(c *ClassDef) error {
	existing, ok := r.byID[c.ClassID]
	if ok {
		if !sameSchema(existing, c) {
			return fmt.Errorf("aaf: conflicting schema for class %s", c.ClassID)
		}
		return nil
	}
	r.byID[c.ClassID] = c
	r.byName[c.Name] = c
	return nil
}

func sameSchema(a, b *ClassDef) bool {
	if a.Name != b.Name || len(a.props) != len(b.props) {
		return false
	}
	for i := range a.props {
		if a.props[i] != b.props[i] {
			return false
		}
	}
	return true
}

// Lookup resolves a class id. The second return is false for an
// unregistered class; reconstructObject (open.go) degrades to a
// genericClassDef and preserves the object's properties opaquely
// instead of failing the read (spec.md section 4.4).
func (r *ClassRegistry) Lookup(id AUID) (*ClassDef, bool) {
	c, ok := r.byID[id]
	return c, ok
}

// genericClassDef builds a throwaway schema for an unregistered class
// id: one Optional property per pid found in its Properties stream
// (besides the reserved class-id record), named by pid since the real
// property names aren't known. This lets reconstructObject finish
// building the object instead of failing the whole read on an
// unrecognized class (spec.md section 4.4, "Unknown classes...").
func genericClassDef(classID AUID, records map[uint16][2]interface{}) *ClassDef {
	c := newClassDef(classID, "UnknownClass", nil)
	pids := make([]int, 0, len(records))
	for pid := range records {
		if pid == pidClassID {
			continue
		}
		pids = append(pids, int(pid))
	}
	sort.Ints(pids)
	for _, pid := range pids {
		c.AddProperty(PropertyDescriptor{
			PID:      uint16(pid),
			Name:     fmt.Sprintf("Property%d", pid),
			Optional: true,
			Storage:  StorageOptional,
		})
	}
	return c
}

// LookupByName resolves a class by its registered name.
func (r *ClassRegistry) LookupByName(name string) (*ClassDef, bool) {
	c, ok := r.byName[name]
	return c, ok
}
