package aaf

// Open parses mem as an AAF compound file image and reconstructs its
// Header object tree (spec.md section 5, "Open"). Reading needs no
// random source or clock; the Create* methods on the opened file take
// their own.
func Open(mem []byte, logger Logger) (*AAFFile, error) {
	if logger == nil {
		logger = NopLogger{}
	}
	img, err := openCFB(mem, logger)
	if err != nil {
		return nil, err
	}

	f := &AAFFile{
		Classes: NewClassRegistry(),
		Types:   NewTypeDictionary(),
		Logger:  logger,
		paths:   make(map[string]*Object),
		storage: img,
	}

	header, err := reconstructObject(f, img, "/Header")
	if err != nil {
		return nil, err
	}
	f.Header = header
	return f, nil
}

// reconstructObject rebuilds the object rooted at path by reading its
// Properties stream (for class id, and Required/Optional/WeakRef
// values) and recursing into StrongRef/Set/VariableArray children found
// as CFB sub-storages.
func reconstructObject(f *AAFFile, img *cfbImage, path string) (*Object, error) {
	raw, err := img.locateNamedStream(path + "/Properties")
	if err != nil {
		return nil, err
	}
	records, err := decodeProperties(raw)
	if err != nil {
		return nil, err
	}
	classRec, ok := records[pidClassID]
	if !ok {
		return nil, &CorruptionError{Message: "object at " + path + " has no class id record"}
	}
	classID, err := DecodeAUID(classRec[1].([]byte))
	if err != nil {
		return nil, err
	}
	classDef, ok := f.Classes.Lookup(classID)
	if !ok {
		classDef = genericClassDef(classID, records)
	}

	o := NewObject(classDef)
	o.file = f
	o.path = path
	f.registerPath(path, o)

	for pid, rec := range records {
		if pid == pidClassID {
			continue
		}
		desc, ok := classDef.PropertyByPID(pid)
		if !ok {
			continue
		}
		tag, payload := rec[0].(uint8), rec[1].([]byte)
		value, err := decodePrimitive(tag, payload)
		if err != nil {
			return nil, err
		}
		o.setRawProperty(*desc, value)
	}

	for _, desc := range classDef.AllProperties() {
		childPath := path + "/" + desc.Name
		switch desc.Storage {
		case StorageStrongRef:
			if !img.exists(childPath) {
				continue
			}
			child, err := reconstructObject(f, img, childPath)
			if err != nil {
				return nil, err
			}
			child.parent = o
			o.setRawProperty(desc, child)
		case StorageSet:
			set := NewSet(o, desc.Name, classKeyFunc)
			if img.exists(childPath) {
				names, err := img.childNames(childPath)
				if err != nil {
					return nil, err
				}
				for _, name := range names {
					item, err := reconstructObject(f, img, childPath+"/"+name)
					if err != nil {
						return nil, err
					}
					item.parent = o
					set.items[name] = item
					set.order = append(set.order, name)
				}
			}
			o.setRawProperty(desc, set)
		case StorageVariableArray:
			arr := NewVariableArray(o, desc.Name)
			if img.exists(childPath) {
				names, err := img.childNames(childPath)
				if err != nil {
					return nil, err
				}
				ordered := orderNumericNames(names)
				for _, name := range ordered {
					item, err := reconstructObject(f, img, childPath+"/"+name)
					if err != nil {
						return nil, err
					}
					item.parent = o
					arr.items = append(arr.items, item)
				}
			}
			o.setRawProperty(desc, arr)
		}
	}

	return o, nil
}

// orderNumericNames sorts CFB child entry names that are decimal
// VariableArray indexes into ascending numeric order.
func orderNumericNames(names []string) []string {
	out := make([]string, len(names))
	copy(out, names)
	for i := 1; i < len(out); i++ {
		j := i
		for j > 0 && numericLess(out[j], out[j-1]) {
			out[j], out[j-1] = out[j-1], out[j]
			j--
		}
	}
	return out
}

func numericLess(a, b string) bool {
	an, bn := parseDecimal(a), parseDecimal(b)
	return an < bn
}

func parseDecimal(s string) int {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return n
		}
		n = n*10 + int(r-'0')
	}
	return n
}
