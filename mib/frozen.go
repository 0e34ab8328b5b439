package mib

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// frozenVersion is the first entry in every frozen image's string pool. A
// mismatch on load invalidates the image rather than attempting to read a
// layout from a different version.
const frozenVersion = "snmpcore-frozen-v1"

// stringPool accumulates distinct strings and hands back their byte offset
// within the pool, matching the NUL-separated layout Freeze writes.
type stringPool struct {
	offsets map[string]uint32
	buf     bytes.Buffer
}

func newStringPool() *stringPool {
	p := &stringPool{offsets: make(map[string]uint32)}
	p.add(frozenVersion)
	return p
}

func (p *stringPool) add(s string) uint32 {
	if off, ok := p.offsets[s]; ok {
		return off
	}
	off := uint32(p.buf.Len())
	p.offsets[s] = off
	p.buf.WriteString(s)
	p.buf.WriteByte(0)
	return off
}

// frozenRestriction is one entry in the flat restriction table: a
// SIZE/range bound (Min/Max, LabelOff unused) or an enum/BITS named
// value (LabelOff + Min holding the value).
type frozenRestriction struct {
	Min      int64
	Max      int64
	LabelOff uint32
}

// frozenType is the on-disk shape of one Type record: name, base,
// parent link, the restriction discriminator and its (start, count)
// window into the restriction table. ParentIdx is -1 for a chain root.
type frozenType struct {
	NameOff          uint32
	Base             uint8
	ParentIdx        int32
	Status           uint8
	HintOff          uint32
	IsTC             uint8
	RestKind         uint8
	RestStart, RestN uint32
}

// frozenNode is the on-disk shape of one Node record. ParentIdx is -1
// for the root. TypeIdx is -1 when no typed object is attached; nodes
// without one still round-trip their name and tree position.
type frozenNode struct {
	Arc       uint32
	NameOff   uint32
	Kind      uint8
	ParentIdx int32
	TypeIdx   int32
}

// Freeze serializes m into the frozen-image byte layout: a versioned
// string pool, a flat restriction table, a type table and a node table.
// Only fields that influence name/value resolution round-trip —
// DESCRIPTION text and entity metadata (access, status, INDEX, DEFVAL)
// are not part of the image, matching the byte-layout-only framing of
// on-disk caching.
func Freeze(m *Mib) []byte {
	pool := newStringPool()

	typeIdx := make(map[*Type]int32, len(m.types))
	for i, t := range m.types {
		typeIdx[t] = int32(i)
	}

	var restRecs []frozenRestriction
	typeRecs := make([]frozenType, len(m.types))
	for i, t := range m.types {
		parentIdx := int32(-1)
		if t.parent != nil {
			if idx, ok := typeIdx[t.parent]; ok {
				parentIdx = idx
			}
		}
		restStart := uint32(len(restRecs))
		var restN uint32
		switch t.restKind {
		case RestSize, RestRange:
			for _, r := range t.bounds {
				restRecs = append(restRecs, frozenRestriction{Min: r.Min, Max: r.Max})
			}
			restN = uint32(len(t.bounds))
		case RestEnums, RestBits:
			for _, nv := range t.named {
				restRecs = append(restRecs, frozenRestriction{Min: nv.Value, LabelOff: pool.add(nv.Label)})
			}
			restN = uint32(len(t.named))
		}
		isTC := uint8(0)
		if t.isTC {
			isTC = 1
		}
		typeRecs[i] = frozenType{
			NameOff:   pool.add(t.name),
			Base:      uint8(t.base),
			ParentIdx: parentIdx,
			Status:    uint8(t.status),
			HintOff:   pool.add(t.hint),
			IsTC:      isTC,
			RestKind:  uint8(t.restKind),
			RestStart: restStart,
			RestN:     restN,
		}
	}

	var nodeList []*Node
	nodeIdx := make(map[*Node]int32)
	var collect func(n *Node)
	collect = func(n *Node) {
		nodeIdx[n] = int32(len(nodeList))
		nodeList = append(nodeList, n)
		for _, c := range n.kids {
			collect(c)
		}
	}
	collect(m.root)

	nodeRecs := make([]frozenNode, len(nodeList))
	for i, n := range nodeList {
		parentIdx := int32(-1)
		if n.parent != nil {
			parentIdx = nodeIdx[n.parent]
		}
		typeRef := int32(-1)
		if n.obj != nil && n.obj.typ != nil {
			if idx, ok := typeIdx[n.obj.typ]; ok {
				typeRef = idx
			}
		}
		nodeRecs[i] = frozenNode{
			Arc:       n.arc,
			NameOff:   pool.add(n.name),
			Kind:      uint8(n.kind),
			ParentIdx: parentIdx,
			TypeIdx:   typeRef,
		}
	}

	var buf bytes.Buffer
	poolBytes := pool.buf.Bytes()
	writeU32(&buf, uint32(len(poolBytes)))
	buf.Write(poolBytes)

	writeU32(&buf, uint32(len(restRecs)))
	for _, r := range restRecs {
		writeU64(&buf, uint64(r.Min))
		writeU64(&buf, uint64(r.Max))
		writeU32(&buf, r.LabelOff)
	}

	writeU32(&buf, uint32(len(typeRecs)))
	for _, t := range typeRecs {
		writeU32(&buf, t.NameOff)
		buf.WriteByte(t.Base)
		writeI32(&buf, t.ParentIdx)
		buf.WriteByte(t.Status)
		writeU32(&buf, t.HintOff)
		buf.WriteByte(t.IsTC)
		buf.WriteByte(t.RestKind)
		writeU32(&buf, t.RestStart)
		writeU32(&buf, t.RestN)
	}

	writeU32(&buf, uint32(len(nodeRecs)))
	for _, n := range nodeRecs {
		writeU32(&buf, n.Arc)
		writeU32(&buf, n.NameOff)
		buf.WriteByte(n.Kind)
		writeI32(&buf, n.ParentIdx)
		writeI32(&buf, n.TypeIdx)
	}

	return buf.Bytes()
}

// Thaw reconstructs a Mib from a Freeze image. It returns an error if
// the pool's leading version tag does not match frozenVersion or the
// image is truncated.
func Thaw(data []byte) (*Mib, error) {
	r := bytes.NewReader(data)

	poolSize, err := readU32(r)
	if err != nil {
		return nil, fmt.Errorf("mib: frozen image: %w", err)
	}
	poolBytes := make([]byte, poolSize)
	if _, err := io.ReadFull(r, poolBytes); err != nil {
		return nil, fmt.Errorf("mib: frozen image: truncated string pool: %w", err)
	}
	if tag, err := stringAt(poolBytes, 0); err != nil || tag != frozenVersion {
		return nil, fmt.Errorf("mib: frozen image: version mismatch, got %q want %q", tag, frozenVersion)
	}

	restCount, err := readU32(r)
	if err != nil {
		return nil, fmt.Errorf("mib: frozen image: %w", err)
	}
	restrictions := make([]frozenRestriction, restCount)
	for i := range restrictions {
		minV, err := readU64(r)
		if err != nil {
			return nil, fmt.Errorf("mib: frozen image: restriction %d: %w", i, err)
		}
		maxV, err := readU64(r)
		if err != nil {
			return nil, fmt.Errorf("mib: frozen image: restriction %d: %w", i, err)
		}
		labelOff, err := readU32(r)
		if err != nil {
			return nil, fmt.Errorf("mib: frozen image: restriction %d: %w", i, err)
		}
		restrictions[i] = frozenRestriction{Min: int64(minV), Max: int64(maxV), LabelOff: labelOff}
	}

	typeCount, err := readU32(r)
	if err != nil {
		return nil, fmt.Errorf("mib: frozen image: %w", err)
	}
	typeRecs := make([]frozenType, typeCount)
	for i := range typeRecs {
		var t frozenType
		if t.NameOff, err = readU32(r); err != nil {
			return nil, fmt.Errorf("mib: frozen image: type %d: %w", i, err)
		}
		if t.Base, err = r.ReadByte(); err != nil {
			return nil, err
		}
		if t.ParentIdx, err = readI32(r); err != nil {
			return nil, err
		}
		if t.Status, err = r.ReadByte(); err != nil {
			return nil, err
		}
		if t.HintOff, err = readU32(r); err != nil {
			return nil, err
		}
		if t.IsTC, err = r.ReadByte(); err != nil {
			return nil, err
		}
		if t.RestKind, err = r.ReadByte(); err != nil {
			return nil, err
		}
		if t.RestStart, err = readU32(r); err != nil {
			return nil, err
		}
		if t.RestN, err = readU32(r); err != nil {
			return nil, err
		}
		typeRecs[i] = t
	}

	nodeCount, err := readU32(r)
	if err != nil {
		return nil, fmt.Errorf("mib: frozen image: %w", err)
	}
	nodeRecs := make([]frozenNode, nodeCount)
	for i := range nodeRecs {
		var n frozenNode
		if n.Arc, err = readU32(r); err != nil {
			return nil, fmt.Errorf("mib: frozen image: node %d: %w", i, err)
		}
		if n.NameOff, err = readU32(r); err != nil {
			return nil, err
		}
		if n.Kind, err = r.ReadByte(); err != nil {
			return nil, err
		}
		if n.ParentIdx, err = readI32(r); err != nil {
			return nil, err
		}
		if n.TypeIdx, err = readI32(r); err != nil {
			return nil, err
		}
		nodeRecs[i] = n
	}

	m := newMib()

	types := make([]*Type, typeCount)
	for i, rec := range typeRecs {
		name, err := stringAt(poolBytes, rec.NameOff)
		if err != nil {
			return nil, err
		}
		t := NewType(name)
		t.base = BaseType(rec.Base)
		t.status = Status(rec.Status)
		if t.hint, err = stringAt(poolBytes, rec.HintOff); err != nil {
			return nil, err
		}
		t.isTC = rec.IsTC != 0
		t.restKind = RestrictionKind(rec.RestKind)
		if int(rec.RestStart)+int(rec.RestN) > len(restrictions) {
			return nil, fmt.Errorf("mib: frozen image: type %d: restriction window out of range", i)
		}
		window := restrictions[rec.RestStart : rec.RestStart+rec.RestN]
		switch t.restKind {
		case RestSize, RestRange:
			for _, rr := range window {
				t.bounds = append(t.bounds, Range{Min: rr.Min, Max: rr.Max})
			}
		case RestEnums, RestBits:
			for _, rr := range window {
				label, err := stringAt(poolBytes, rr.LabelOff)
				if err != nil {
					return nil, err
				}
				t.named = append(t.named, NamedValue{Label: label, Value: rr.Min})
			}
		}
		types[i] = t
	}
	for i, rec := range typeRecs {
		if rec.ParentIdx >= 0 {
			types[i].parent = types[rec.ParentIdx]
		}
		m.addType(types[i])
	}

	nodes := make([]*Node, nodeCount)
	for i, rec := range nodeRecs {
		name, err := stringAt(poolBytes, rec.NameOff)
		if err != nil {
			return nil, err
		}
		nodes[i] = &Node{arc: rec.Arc, name: name, kind: Kind(rec.Kind)}
	}
	for i, rec := range nodeRecs {
		n := nodes[i]
		if rec.ParentIdx < 0 {
			m.root = n
			continue
		}
		// Parents precede children and siblings arrive in ascending arc
		// order (Freeze emits a depth-first walk), so a plain append
		// keeps each kids slice sorted.
		parent := nodes[rec.ParentIdx]
		n.parent = parent
		parent.kids = append(parent.kids, n)
		if rec.TypeIdx >= 0 {
			obj := NewObject(n.name)
			obj.SetNode(n)
			obj.SetType(types[rec.TypeIdx])
			n.obj = obj
			m.addObject(obj)
		}
		m.registerNode(n.name, n)
	}
	m.nodeCount = len(nodes) - 1

	return m, nil
}

func stringAt(pool []byte, off uint32) (string, error) {
	if int(off) >= len(pool) {
		return "", fmt.Errorf("mib: frozen image: string offset %d out of range", off)
	}
	end := int(off)
	for end < len(pool) && pool[end] != 0 {
		end++
	}
	if end >= len(pool) {
		return "", fmt.Errorf("mib: frozen image: unterminated string at offset %d", off)
	}
	return string(pool[off:end]), nil
}

func writeU32(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}

func writeI32(buf *bytes.Buffer, v int32) { writeU32(buf, uint32(v)) }

func writeU64(buf *bytes.Buffer, v uint64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	buf.Write(b[:])
}

func readU32(r *bytes.Reader) (uint32, error) {
	var b [4]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b[:]), nil
}

func readI32(r *bytes.Reader) (int32, error) {
	v, err := readU32(r)
	return int32(v), err
}

func readU64(r *bytes.Reader) (uint64, error) {
	var b [8]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(b[:]), nil
}
