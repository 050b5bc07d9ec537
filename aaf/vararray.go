package aaf

import "fmt"

// VariableArray is an ordered, length-prefixed collection of strong-ref
// child objects, such as a Sequence's Components or a Mob's Slots
// (spec.md section 3, "Variable arrays"). Unlike Set, membership has no
// key: position is the only identity.
type VariableArray struct {
	owner    *Object
	propName string

	items []*Object
}

// NewVariableArray creates an empty array owned by owner under its
// propName property.
func NewVariableArray(owner *Object, propName string) *VariableArray {
	return &VariableArray{owner: owner, propName: propName}
}

// Append adds obj to the end of the array, attaching it under the
// owner's storage subtree if the owner is itself attached.
func (a *VariableArray) Append(obj *Object) error {
	if obj.parent != nil && obj.parent != a.owner {
		return &AttachError{Message: "object already owned by another parent"}
	}
	if a.owner.file != nil {
		path := fmt.Sprintf("%s/%s/%d", a.owner.path, a.propName, len(a.items))
		if err := obj.attachTo(a.owner.file, path); err != nil {
			return err
		}
	}
	obj.parent = a.owner
	a.items = append(a.items, obj)
	return nil
}

// resolveIndex turns a possibly-negative index (Python-style, counting
// from the end) into an absolute slice index.
func (a *VariableArray) resolveIndex(i int) (int, error) {
	if i < 0 {
		i += len(a.items)
	}
	if i < 0 || i >= len(a.items) {
		return 0, &NotFoundError{Message: fmt.Sprintf("index %d out of range", i)}
	}
	return i, nil
}

// PopAt detaches and removes the element at index i (negative indexes
// count from the end), returning it. Later elements move down one index,
// and, while the owner is attached, their storage paths move with them.
func (a *VariableArray) PopAt(i int) (*Object, error) {
	idx, err := a.resolveIndex(i)
	if err != nil {
		return nil, err
	}
	obj := a.items[idx]
	obj.detach()
	a.items = append(a.items[:idx], a.items[idx+1:]...)
	if file := a.owner.file; file != nil {
		for j := idx; j < len(a.items); j++ {
			a.items[j].detach()
			if err := a.items[j].attachTo(file, fmt.Sprintf("%s/%s/%d", a.owner.path, a.propName, j)); err != nil {
				return nil, err
			}
		}
	}
	return obj, nil
}

// At returns the element at index i (negative indexes count from the
// end) without removing it.
func (a *VariableArray) At(i int) (*Object, error) {
	idx, err := a.resolveIndex(i)
	if err != nil {
		return nil, err
	}
	return a.items[idx], nil
}

// Len returns the number of elements currently in the array.
func (a *VariableArray) Len() int { return len(a.items) }

// Items returns the array's elements in order.
func (a *VariableArray) Items() []*Object {
	out := make([]*Object, len(a.items))
	copy(out, a.items)
	return out
}
