package mib

import "fmt"

// IndexValue is a single column value consumed by PackIndex or produced by
// UnpackIndex. Exactly one of Int, Bytes or OID is meaningful, selected by
// the corresponding IndexEntry's effective base type.
type IndexValue struct {
	Int   int64
	Bytes []byte
	OID   OID
}

// hasFixedSize reports whether the SIZE constraint on obj's type chain
// pins a single exact length, letting a trailing OCTET STRING/OBJECT
// IDENTIFIER column omit its length sub-id.
func hasFixedSize(obj *Object) bool {
	if obj.Type() == nil {
		return false
	}
	sizes := obj.Type().EffectiveSizes()
	return len(sizes) == 1 && sizes[0].Min == sizes[0].Max
}

// omitsLength reports whether the i'th column of entries, the last one
// checked against the full list, may encode without a leading length sub-id.
func omitsLength(entries []IndexEntry, i int) bool {
	if i != len(entries)-1 {
		return false
	}
	e := entries[i]
	return e.Implied || hasFixedSize(e.Object)
}

// PackIndex encodes an ordered list of column values into the trailing
// instance sub-identifiers of a conceptual row, per the INDEX clause
// described by entries. INTEGER/Gauge32/TimeTicks-like columns contribute
// one sub-id; IpAddress contributes four; OCTET STRING and OBJECT
// IDENTIFIER contribute a length sub-id followed by one sub-id per
// byte/component, unless the column is last and either IMPLIED or
// restricted to a single fixed size, in which case the length is omitted.
func PackIndex(entries []IndexEntry, values []IndexValue) (OID, error) {
	if len(entries) != len(values) {
		return nil, fmt.Errorf("mib: index has %d columns, got %d values", len(entries), len(values))
	}
	var out OID
	for i, e := range entries {
		v := values[i]
		base := e.Object.Type().EffectiveBase()
		switch base {
		case BaseInteger32, BaseUnsigned32, BaseGauge32, BaseTimeTicks, BaseCounter32:
			out = append(out, uint32(v.Int))
		case BaseIpAddress:
			if len(v.Bytes) != 4 {
				return nil, fmt.Errorf("mib: index column %q: IpAddress value must be 4 bytes, got %d", e.Object.Name(), len(v.Bytes))
			}
			for _, b := range v.Bytes {
				out = append(out, uint32(b))
			}
		case BaseOctetString:
			if !omitsLength(entries, i) {
				out = append(out, uint32(len(v.Bytes)))
			}
			for _, b := range v.Bytes {
				out = append(out, uint32(b))
			}
		case BaseObjectIdentifier:
			if !omitsLength(entries, i) {
				out = append(out, uint32(len(v.OID)))
			}
			out = append(out, v.OID...)
		default:
			out = append(out, uint32(v.Int))
		}
	}
	return out, nil
}

// UnpackIndex is the inverse of PackIndex: it consumes suffix left to
// right, one value per entry. A trailing remainder after all columns are
// satisfied, or exhausting the suffix before every column is satisfied,
// is an error.
func UnpackIndex(entries []IndexEntry, suffix OID) ([]IndexValue, error) {
	values := make([]IndexValue, len(entries))
	pos := 0
	for i, e := range entries {
		base := e.Object.Type().EffectiveBase()
		switch base {
		case BaseInteger32, BaseUnsigned32, BaseGauge32, BaseTimeTicks, BaseCounter32:
			if pos >= len(suffix) {
				return nil, fmt.Errorf("mib: index suffix exhausted before column %q", e.Object.Name())
			}
			values[i] = IndexValue{Int: int64(suffix[pos])}
			pos++
		case BaseIpAddress:
			if pos+4 > len(suffix) {
				return nil, fmt.Errorf("mib: index suffix exhausted before IpAddress column %q", e.Object.Name())
			}
			b := make([]byte, 4)
			for k := 0; k < 4; k++ {
				b[k] = byte(suffix[pos+k])
			}
			values[i] = IndexValue{Bytes: b}
			pos += 4
		case BaseOctetString:
			n, consumed, err := indexLength(entries, i, suffix, pos, hasFixedSize(e.Object))
			if err != nil {
				return nil, err
			}
			pos += consumed
			if pos+n > len(suffix) {
				return nil, fmt.Errorf("mib: index suffix exhausted reading OCTET STRING column %q", e.Object.Name())
			}
			b := make([]byte, n)
			for k := 0; k < n; k++ {
				b[k] = byte(suffix[pos+k])
			}
			values[i] = IndexValue{Bytes: b}
			pos += n
		case BaseObjectIdentifier:
			n, consumed, err := indexLength(entries, i, suffix, pos, false)
			if err != nil {
				return nil, err
			}
			pos += consumed
			if pos+n > len(suffix) {
				return nil, fmt.Errorf("mib: index suffix exhausted reading OBJECT IDENTIFIER column %q", e.Object.Name())
			}
			values[i] = IndexValue{OID: append(OID(nil), suffix[pos:pos+n]...)}
			pos += n
		default:
			if pos >= len(suffix) {
				return nil, fmt.Errorf("mib: index suffix exhausted before column %q", e.Object.Name())
			}
			values[i] = IndexValue{Int: int64(suffix[pos])}
			pos++
		}
	}
	if pos != len(suffix) {
		return nil, fmt.Errorf("mib: %d trailing sub-identifiers after satisfying %d index columns", len(suffix)-pos, len(entries))
	}
	return values, nil
}

// indexLength determines how many sub-ids a variable-length column's data
// occupies, and how many leading sub-ids (0 or 1) were consumed to find
// that length: either an explicit leading length sub-id, or, for a
// trailing column that omits it, the entire remainder of the suffix.
func indexLength(entries []IndexEntry, i int, suffix OID, pos int, fixedSize bool) (length int, consumed int, err error) {
	if omitsLength(entries, i) {
		if fixedSize {
			sizes := entries[i].Object.Type().EffectiveSizes()
			return int(sizes[0].Min), 0, nil
		}
		return len(suffix) - pos, 0, nil
	}
	if pos >= len(suffix) {
		return 0, 0, fmt.Errorf("mib: index suffix exhausted reading length of column %q", entries[i].Object.Name())
	}
	return int(suffix[pos]), 1, nil
}
