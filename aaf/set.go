package aaf

// KeyFunc computes a Set's membership key for an object, e.g. a Mob's
// MobID or a DataDef's Identification (spec.md section 3, "Sets").
type KeyFunc func(*Object) string

// Set is a keyed collection of strong-ref child objects. Appending
// attaches the child to the owner's storage subtree (or errors if it is
// already attached), replacing any other member under the same key;
// popping detaches a member and returns it,
// leaving its own properties untouched so a later re-append restores its
// whole subtree (spec.md section 8, attach/detach scenario).
type Set struct {
	owner    *Object
	propName string
	keyOf    KeyFunc

	items map[string]*Object
	order []string
}

// classKeyFunc derives a Set membership key from whichever unique
// identifying property a class carries: a Mob's MobID, or a
// DefinitionObject's Identification (spec.md section 3, "Sets").
func classKeyFunc(o *Object) string {
	if v, ok := o.Get("MobID"); ok {
		return v.(MobID).String()
	}
	if v, ok := o.Get("Identification"); ok {
		return v.(AUID).String()
	}
	return ""
}

// NewSet creates an empty Set owned by owner under its propName
// property, keyed by keyOf.
func NewSet(owner *Object, propName string, keyOf KeyFunc) *Set {
	return &Set{owner: owner, propName: propName, keyOf: keyOf, items: make(map[string]*Object)}
}

// Append adds obj to the set. If a different object already has obj's
// key, that member is detached and replaced by obj, which takes its place
// in the insertion order. It is an AttachError to append an object that
// is already in the set, already attached, or owned by another parent.
func (s *Set) Append(obj *Object) error {
	key := s.keyOf(obj)
	old, exists := s.items[key]
	if exists && old == obj {
		return &AttachError{Message: "object is already in the set under key " + key}
	}
	if obj.IsAttached() {
		return &AttachError{Message: "object is already attached"}
	}
	if obj.parent != nil && obj.parent != s.owner {
		return &AttachError{Message: "object already owned by another parent"}
	}
	if exists {
		old.detach()
	}
	if s.owner.file != nil {
		if err := obj.attachTo(s.owner.file, s.owner.path+"/"+s.propName+"/"+key); err != nil {
			return err
		}
	}
	obj.parent = s.owner
	s.items[key] = obj
	if !exists {
		s.order = append(s.order, key)
	}
	return nil
}

// Pop detaches and removes the member with the given key.
func (s *Set) Pop(key string) (*Object, error) {
	obj, ok := s.items[key]
	if !ok {
		return nil, &NotFoundError{Message: "no set member with key " + key}
	}
	obj.detach()
	delete(s.items, key)
	for i, k := range s.order {
		if k == key {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return obj, nil
}

// Get returns the member with the given key without removing it.
func (s *Set) Get(key string) (*Object, bool) {
	obj, ok := s.items[key]
	return obj, ok
}

// Len returns the number of members currently in the set.
func (s *Set) Len() int { return len(s.order) }

// Items returns the set's members in insertion order.
func (s *Set) Items() []*Object {
	out := make([]*Object, 0, len(s.order))
	for _, k := range s.order {
		out = append(out, s.items[k])
	}
	return out
}
