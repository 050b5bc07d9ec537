package aaf

import "strconv"

// PropertyValue holds one property's current value alongside the
// descriptor that governs its wire shape and storage kind (spec.md
// section 3).
type PropertyValue struct {
	Descriptor PropertyDescriptor
	Value      interface{}
}

// Object is the runtime instance of a registered AAF class: a class
// schema, an instance id, and a property bag (spec.md section 3,
// "Metadata object model"). Strong-referenced child objects form a tree
// rooted at a file's Header; an Object knows whether it is currently
// attached to that tree, since attachment controls whether it has a
// live CFB storage path (spec.md section 8, attach/detach scenario).
type Object struct {
	Class      *ClassDef
	InstanceID AUID

	file   *AAFFile
	parent *Object
	path   string
	props  map[string]*PropertyValue
	order  []string
}

// NewObject creates a detached instance of class c.
func NewObject(c *ClassDef) *Object {
	return &Object{Class: c, props: make(map[string]*PropertyValue)}
}

// Get returns the named property's current value.
func (o *Object) Get(name string) (interface{}, bool) {
	pv, ok := o.props[name]
	if !ok {
		return nil, false
	}
	return pv.Value, true
}

// Set assigns the named property's value, looking up its descriptor on
// the object's class (ancestors included). Setting a property not
// declared anywhere in the class chain is a TypeMismatchError.
func (o *Object) Set(name string, value interface{}) error {
	desc, ok := o.Class.PropertyByName(name)
	if !ok {
		return &TypeMismatchError{Message: "unknown property " + name + " on class " + o.Class.Name}
	}
	if child, isObj := value.(*Object); isObj && (desc.Storage == StorageStrongRef) {
		if err := o.adoptChild(child, desc.Name); err != nil {
			return err
		}
	}
	if _, exists := o.props[name]; !exists {
		o.order = append(o.order, name)
	}
	o.props[name] = &PropertyValue{Descriptor: *desc, Value: value}
	return nil
}

// setRawProperty installs a property value without attempting to attach
// a child object, for use while reconstructing an object graph that is
// already being attached path-by-path (open.go).
func (o *Object) setRawProperty(desc PropertyDescriptor, value interface{}) {
	if _, exists := o.props[desc.Name]; !exists {
		o.order = append(o.order, desc.Name)
	}
	o.props[desc.Name] = &PropertyValue{Descriptor: desc, Value: value}
}

// Properties returns every currently-set property in the order each was
// first set.
func (o *Object) Properties() []*PropertyValue {
	out := make([]*PropertyValue, 0, len(o.order))
	for _, name := range o.order {
		out = append(out, o.props[name])
	}
	return out
}

// IsAttached reports whether this object is currently reachable from its
// file's Header tree and therefore has a live CFB storage path.
func (o *Object) IsAttached() bool { return o.file != nil }

// Path returns the object's CFB storage path, or "" while detached.
func (o *Object) Path() string { return o.path }

// adoptChild makes child a strong-ref descendant of o under its propName
// property, attaching it (and its own strong-ref descendants,
// recursively) if o is itself attached to a file.
func (o *Object) adoptChild(child *Object, propName string) error {
	if child.parent != nil && child.parent != o {
		return &AttachError{Message: "object already owned by another parent"}
	}
	child.parent = o
	if o.file != nil {
		return child.attachTo(o.file, o.path+"/"+propName)
	}
	return nil
}

// attachTo attaches o (and recursively every strong-ref descendant
// currently set on it, including the members of any Set or
// VariableArray property) to file at the given CFB storage path.
// Attaching an object that is already attached is an AttachError
// (spec.md section 8, "append same mob twice").
func (o *Object) attachTo(file *AAFFile, path string) error {
	if o.file != nil {
		return &AttachError{Message: "object is already attached"}
	}
	o.file = file
	o.path = path
	file.registerPath(path, o)
	for _, pv := range o.props {
		switch pv.Descriptor.Storage {
		case StorageStrongRef:
			if child, ok := pv.Value.(*Object); ok && child != nil {
				if err := child.attachTo(file, path+"/"+pv.Descriptor.Name); err != nil {
					return err
				}
			}
		case StorageSet:
			if set, ok := pv.Value.(*Set); ok {
				for _, key := range set.order {
					if err := set.items[key].attachTo(file, path+"/"+pv.Descriptor.Name+"/"+key); err != nil {
						return err
					}
				}
			}
		case StorageVariableArray:
			if arr, ok := pv.Value.(*VariableArray); ok {
				for i, child := range arr.items {
					if err := child.attachTo(file, path+"/"+pv.Descriptor.Name+"/"+strconv.Itoa(i)); err != nil {
						return err
					}
				}
			}
		}
	}
	return nil
}

// detach removes o (and recursively every strong-ref descendant,
// including the members of any Set or VariableArray property) from its
// file's path index, without discarding its property values: a detached
// object keeps every property it held, so re-attaching restores the
// whole subtree (spec.md section 8).
func (o *Object) detach() {
	if o.file == nil {
		return
	}
	for _, pv := range o.props {
		switch pv.Descriptor.Storage {
		case StorageStrongRef:
			if child, ok := pv.Value.(*Object); ok && child != nil {
				child.detach()
			}
		case StorageSet:
			if set, ok := pv.Value.(*Set); ok {
				for _, child := range set.items {
					child.detach()
				}
			}
		case StorageVariableArray:
			if arr, ok := pv.Value.(*VariableArray); ok {
				for _, child := range arr.items {
					child.detach()
				}
			}
		}
	}
	o.file.unregisterPath(o.path)
	o.file = nil
	o.path = ""
}
