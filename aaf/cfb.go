package aaf

import (
	"encoding/binary"
	"fmt"
	"io"
	"unicode/utf16"
)

// CFB sector id sentinels (spec.md section 2).
const (
	cfbEndOfChain  = -2
	cfbFreeSector  = -1
	cfbSATSector   = -3
	cfbMSATSector  = -4
	cfbEvilSector  = -5
)

var cfbSignature = [8]byte{0xd0, 0xcf, 0x11, 0xe0, 0xa1, 0xb1, 0x1a, 0xe1}

// cfbDirEntry is one directory entry in the compound file's red-black
// tree of storages and streams, resolved into a plain parent/children
// form after load (spec.md section 2, "Directory entries").
type cfbDirEntry struct {
	DID      int
	Name     string
	EType    int // 1=storage, 2=stream, 5=root
	FirstSID int
	TotSize  int
	Children []int
	Parent   int
	leftDID  int
	rightDID int
	rootDID  int
}

// cfbImage holds a compound file's parsed sector tables and directory,
// read from an in-memory byte slice. This is the direct generalization
// of the teacher's CompDoc (compdoc.go): same sector/FAT/miniFAT walk,
// retargeted from locating BIFF streams by name to locating AAF object
// storages and property streams by CFB path.
type cfbImage struct {
	mem []byte

	Logger Logger

	secSize      int
	shortSecSize int
	sat          []int
	ssat         []int
	sscs         []byte
	dirList      []*cfbDirEntry
	memDataSecs  int
	memDataLen   int
	minSizeStd   int
	seen         []int

	closer io.Closer
}

// openCFB parses mem as a compound file image (spec.md section 2).
func openCFB(mem []byte, logger Logger) (*cfbImage, error) {
	if logger == nil {
		logger = NopLogger{}
	}
	if len(mem) < 8 || string(mem[:8]) != string(cfbSignature[:]) {
		return nil, &BadFormatError{Message: "not a compound file binary image"}
	}
	if len(mem) < 76 {
		return nil, &BadFormatError{Message: "compound file header truncated"}
	}
	if mem[28] != 0xFE || mem[29] != 0xFF {
		return nil, &BadFormatError{Message: "expected little-endian byte order marker"}
	}

	c := &cfbImage{mem: mem, Logger: logger}

	ssz := int(binary.LittleEndian.Uint16(mem[30:32]))
	sssz := int(binary.LittleEndian.Uint16(mem[32:34]))
	if ssz > 20 {
		ssz = 9
	}
	if sssz > ssz {
		sssz = 6
	}
	c.secSize = 1 << ssz
	c.shortSecSize = 1 << sssz

	dirFirstSecSID := int(int32(binary.LittleEndian.Uint32(mem[48:52])))
	c.minSizeStd = int(binary.LittleEndian.Uint32(mem[56:60]))
	ssatFirstSecSID := int(int32(binary.LittleEndian.Uint32(mem[60:64])))
	ssatTotSecs := int(binary.LittleEndian.Uint32(mem[64:68]))

	memDataLen := len(mem) - 512
	if memDataLen < 0 {
		memDataLen = 0
	}
	memDataSecs := (memDataLen + c.secSize - 1) / c.secSize
	c.memDataSecs = memDataSecs
	c.memDataLen = memDataLen
	c.seen = make([]int, memDataSecs)

	msat := make([]int, 109)
	for i := 0; i < 109; i++ {
		msat[i] = int(int32(binary.LittleEndian.Uint32(mem[76+i*4 : 80+i*4])))
	}
	nent := c.secSize / 4

	msatxFirstSecSID := int(int32(binary.LittleEndian.Uint32(mem[68:72])))
	msatxTotSecs := int(binary.LittleEndian.Uint32(mem[72:76]))
	hasMSATExt := !(msatxTotSecs == 0 && (msatxFirstSecSID == cfbEndOfChain || msatxFirstSecSID == cfbFreeSector || msatxFirstSecSID == 0))
	if hasMSATExt {
		sid := msatxFirstSecSID
		for sid != cfbEndOfChain && sid != cfbFreeSector && sid != cfbMSATSector {
			if sid < 0 || sid >= memDataSecs {
				return nil, &CorruptionError{Message: fmt.Sprintf("MSAT extension references invalid sector %d", sid)}
			}
			if c.seen[sid] != 0 {
				return nil, &CorruptionError{Message: fmt.Sprintf("MSAT extension: sector %d visited twice", sid)}
			}
			c.seen[sid] = 1
			offset := 512 + sid*c.secSize
			if offset+c.secSize > len(mem) {
				break
			}
			ext := make([]int, c.secSize/4)
			for j := range ext {
				ext[j] = int(int32(binary.LittleEndian.Uint32(mem[offset+j*4 : offset+(j+1)*4])))
			}
			msat = append(msat, ext[:len(ext)-1]...)
			sid = ext[len(ext)-1]
		}
	}

	c.sat = make([]int, 0)
	for _, msid := range msat {
		if msid == cfbFreeSector || msid == cfbEndOfChain {
			continue
		}
		if msid < 0 || msid >= memDataSecs {
			continue
		}
		if c.seen[msid] != 0 {
			return nil, &CorruptionError{Message: fmt.Sprintf("MSAT: sector %d visited twice", msid)}
		}
		c.seen[msid] = 2
		offset := 512 + msid*c.secSize
		if offset+c.secSize > len(mem) {
			continue
		}
		sector := make([]int, nent)
		for i := 0; i < nent; i++ {
			sector[i] = int(int32(binary.LittleEndian.Uint32(mem[offset+i*4 : offset+(i+1)*4])))
		}
		c.sat = append(c.sat, sector...)
	}

	dirSize := 0
	seenDir := make(map[int]bool)
	for sid := dirFirstSecSID; sid >= 0 && sid < len(c.sat); {
		if seenDir[sid] {
			return nil, &CorruptionError{Message: "directory chain loops"}
		}
		seenDir[sid] = true
		dirSize += c.secSize
		next := c.sat[sid]
		if next == cfbEndOfChain {
			break
		}
		sid = next
	}
	dirBytes := c.getStream(mem, 512, c.sat, c.secSize, dirFirstSecSID, dirSize, "directory", 3)
	c.dirList = make([]*cfbDirEntry, 0)
	for pos := 0; pos+128 <= len(dirBytes); pos += 128 {
		dent := dirBytes[pos : pos+128]
		cbufsize := binary.LittleEndian.Uint16(dent[64:66])
		etype := int(dent[66])
		leftDID := int(int32(binary.LittleEndian.Uint32(dent[68:72])))
		rightDID := int(int32(binary.LittleEndian.Uint32(dent[72:76])))
		rootDID := int(int32(binary.LittleEndian.Uint32(dent[76:80])))
		firstSID := int(int32(binary.LittleEndian.Uint32(dent[116:120])))
		totSize := int(int32(binary.LittleEndian.Uint32(dent[120:124])))

		var name string
		if cbufsize > 2 && cbufsize <= 64 {
			nameBytes := dent[0 : cbufsize-2]
			if len(nameBytes)%2 == 0 {
				words := make([]uint16, len(nameBytes)/2)
				for i := range words {
					words[i] = binary.LittleEndian.Uint16(nameBytes[i*2 : (i+1)*2])
				}
				name = string(utf16.Decode(words))
			}
		}

		c.dirList = append(c.dirList, &cfbDirEntry{
			DID: len(c.dirList), Name: name, EType: etype,
			FirstSID: firstSID, TotSize: totSize, Parent: -1,
			leftDID: leftDID, rightDID: rightDID, rootDID: rootDID,
		})
	}
	if len(c.dirList) > 0 {
		c.buildFamilyTree(0, c.dirList[0].rootDID)
		root := c.dirList[0]
		if root.FirstSID >= 0 && root.TotSize > 0 {
			c.sscs = c.getStream(mem, 512, c.sat, c.secSize, root.FirstSID, root.TotSize, "short stream container", 4)
		}
		c.ssat = make([]int, 0)
		if ssatTotSecs > 0 && len(c.sscs) > 0 {
			sid, nsecs := ssatFirstSecSID, ssatTotSecs
			for sid >= 0 && nsecs > 0 && sid < len(c.sat) {
				offset := 512 + sid*c.secSize
				if offset+c.secSize > len(mem) {
					break
				}
				sector := make([]int, nent)
				for i := 0; i < nent; i++ {
					sector[i] = int(int32(binary.LittleEndian.Uint32(mem[offset+i*4 : offset+(i+1)*4])))
				}
				c.ssat = append(c.ssat, sector...)
				sid = c.sat[sid]
				nsecs--
			}
		}
	}

	return c, nil
}

// buildFamilyTree flattens a storage's red-black child tree (rooted at
// rootDID) into a plain Children slice with parent pointers, recursing
// into child storages.
func (c *cfbImage) buildFamilyTree(parentDID, childDID int) {
	if childDID < 0 || childDID >= len(c.dirList) {
		return
	}
	c.buildFamilyTree(parentDID, c.dirList[childDID].leftDID)
	c.dirList[parentDID].Children = append(c.dirList[parentDID].Children, childDID)
	c.dirList[childDID].Parent = parentDID
	c.buildFamilyTree(parentDID, c.dirList[childDID].rightDID)
	if c.dirList[childDID].EType == 1 {
		c.buildFamilyTree(childDID, c.dirList[childDID].rootDID)
	}
}

// getStream reads size bytes starting at sector startSID, following the
// sat chain. seenID, if non-zero, marks visited sectors for corruption
// detection.
func (c *cfbImage) getStream(mem []byte, base int, sat []int, secSize int, startSID int, size int, name string, seenID int) []byte {
	var sectors [][]byte
	s, todo := startSID, size
	for s >= 0 && todo > 0 {
		if s >= len(sat) {
			break
		}
		if seenID != 0 && s < len(c.seen) {
			c.seen[s] = seenID
		}
		startPos := base + s*secSize
		grab := secSize
		if grab > todo {
			grab = todo
		}
		if startPos+grab > len(mem) {
			break
		}
		sectors = append(sectors, mem[startPos:startPos+grab])
		todo -= grab
		s = sat[s]
	}
	result := make([]byte, 0, size)
	for _, sec := range sectors {
		result = append(result, sec...)
	}
	return result
}

// dirSearch resolves a "/"-split path to its directory entry, starting
// the search within storageDID.
func (c *cfbImage) dirSearch(path []string, storageDID int) *cfbDirEntry {
	if len(path) == 0 || storageDID >= len(c.dirList) {
		return nil
	}
	head, tail := path[0], path[1:]
	for _, child := range c.dirList[storageDID].Children {
		if c.dirList[child].Name == head {
			if c.dirList[child].EType == 2 && len(tail) == 0 {
				return c.dirList[child]
			}
			if c.dirList[child].EType == 1 {
				if len(tail) == 0 {
					return c.dirList[child]
				}
				return c.dirSearch(tail, child)
			}
		}
	}
	return nil
}

// locateNamedStream reads the full contents of the stream at the given
// CFB path, choosing the standard (secSize-chunked) or short (SSCS
// mini-stream) chain depending on the stream's declared size (spec.md
// section 2, "Mini-stream cutoff").
func (c *cfbImage) locateNamedStream(path string) ([]byte, error) {
	d := c.dirSearch(splitCFBPath(path), 0)
	if d == nil {
		return nil, &NotFoundError{Message: "no CFB stream at path " + path}
	}
	if d.TotSize > c.memDataLen {
		return nil, &CorruptionError{Message: fmt.Sprintf("stream %q declares %d bytes, file only has %d", path, d.TotSize, c.memDataLen)}
	}
	if d.TotSize >= c.minSizeStd {
		return c.getStream(c.mem, 512, c.sat, c.secSize, d.FirstSID, d.TotSize, path, d.DID+6), nil
	}
	return c.getStream(c.sscs, 0, c.ssat, c.shortSecSize, d.FirstSID, d.TotSize, path, 0), nil
}

// exists reports whether path names a directory entry (storage or
// stream) present in the image.
func (c *cfbImage) exists(path string) bool {
	return c.dirSearch(splitCFBPath(path), 0) != nil
}

// childNames returns the names of the direct children of the storage at
// path, in the order buildFamilyTree discovered them.
func (c *cfbImage) childNames(path string) ([]string, error) {
	parts := splitCFBPath(path)
	var d *cfbDirEntry
	if len(parts) == 0 {
		d = c.dirList[0]
	} else {
		d = c.dirSearch(parts, 0)
	}
	if d == nil {
		return nil, &NotFoundError{Message: "no CFB storage at path " + path}
	}
	names := make([]string, 0, len(d.Children))
	for _, childDID := range d.Children {
		names = append(names, c.dirList[childDID].Name)
	}
	return names, nil
}

func splitCFBPath(path string) []string {
	var parts []string
	cur := ""
	for _, r := range path {
		if r == '/' {
			if cur != "" {
				parts = append(parts, cur)
				cur = ""
			}
			continue
		}
		cur += string(r)
	}
	if cur != "" {
		parts = append(parts, cur)
	}
	return parts
}

func (c *cfbImage) Close() error {
	if c.closer != nil {
		return c.closer.Close()
	}
	return nil
}
