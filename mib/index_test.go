package mib

import (
	"reflect"
	"testing"
)

func indexObj(base BaseType, sizes []Range) *Object {
	t := &Type{base: base}
	if sizes != nil {
		t.restKind, t.bounds = RestSize, sizes
	}
	return &Object{typ: t}
}

func TestPackUnpackIndexSimple(t *testing.T) {
	ifIndex := indexObj(BaseInteger32, nil)
	entries := []IndexEntry{{Object: ifIndex}}
	values := []IndexValue{{Int: 7}}

	oid, err := PackIndex(entries, values)
	if err != nil {
		t.Fatalf("PackIndex: %v", err)
	}
	if !oid.Equal(OID{7}) {
		t.Errorf("got %v, want [7]", oid)
	}

	got, err := UnpackIndex(entries, oid)
	if err != nil {
		t.Fatalf("UnpackIndex: %v", err)
	}
	if !reflect.DeepEqual(got, values) {
		t.Errorf("got %v, want %v", got, values)
	}
}

func TestPackUnpackIndexIpAddress(t *testing.T) {
	addr := indexObj(BaseIpAddress, nil)
	entries := []IndexEntry{{Object: addr}}
	values := []IndexValue{{Bytes: []byte{10, 0, 0, 1}}}

	oid, err := PackIndex(entries, values)
	if err != nil {
		t.Fatalf("PackIndex: %v", err)
	}
	if !oid.Equal(OID{10, 0, 0, 1}) {
		t.Errorf("got %v, want [10 0 0 1]", oid)
	}

	got, err := UnpackIndex(entries, oid)
	if err != nil {
		t.Fatalf("UnpackIndex: %v", err)
	}
	if !reflect.DeepEqual(got, values) {
		t.Errorf("got %v, want %v", got, values)
	}
}

func TestPackUnpackIndexOctetStringWithLength(t *testing.T) {
	name := indexObj(BaseOctetString, nil)
	ifIndex := indexObj(BaseInteger32, nil)
	entries := []IndexEntry{{Object: name}, {Object: ifIndex}}
	values := []IndexValue{{Bytes: []byte("eth0")}, {Int: 3}}

	oid, err := PackIndex(entries, values)
	if err != nil {
		t.Fatalf("PackIndex: %v", err)
	}
	want := OID{4, 'e', 't', 'h', '0', 3}
	if !oid.Equal(want) {
		t.Errorf("got %v, want %v", oid, want)
	}

	got, err := UnpackIndex(entries, oid)
	if err != nil {
		t.Fatalf("UnpackIndex: %v", err)
	}
	if !reflect.DeepEqual(got, values) {
		t.Errorf("got %v, want %v", got, values)
	}
}

func TestPackUnpackIndexImpliedTrailingString(t *testing.T) {
	label := indexObj(BaseOctetString, nil)
	entries := []IndexEntry{{Object: label, Implied: true}}
	values := []IndexValue{{Bytes: []byte("a.b.c")}}

	oid, err := PackIndex(entries, values)
	if err != nil {
		t.Fatalf("PackIndex: %v", err)
	}
	want := OID{'a', '.', 'b', '.', 'c'}
	if !oid.Equal(want) {
		t.Errorf("got %v, want %v (no length prefix for IMPLIED)", oid, want)
	}

	got, err := UnpackIndex(entries, oid)
	if err != nil {
		t.Fatalf("UnpackIndex: %v", err)
	}
	if !reflect.DeepEqual(got, values) {
		t.Errorf("got %v, want %v", got, values)
	}
}

func TestPackUnpackIndexFixedSizeTrailingString(t *testing.T) {
	mac := indexObj(BaseOctetString, []Range{{Min: 6, Max: 6}})
	entries := []IndexEntry{{Object: mac}}
	values := []IndexValue{{Bytes: []byte{1, 2, 3, 4, 5, 6}}}

	oid, err := PackIndex(entries, values)
	if err != nil {
		t.Fatalf("PackIndex: %v", err)
	}
	want := OID{1, 2, 3, 4, 5, 6}
	if !oid.Equal(want) {
		t.Errorf("got %v, want %v (no length prefix for fixed size)", oid, want)
	}

	got, err := UnpackIndex(entries, oid)
	if err != nil {
		t.Fatalf("UnpackIndex: %v", err)
	}
	if !reflect.DeepEqual(got, values) {
		t.Errorf("got %v, want %v", got, values)
	}
}

func TestPackUnpackIndexObjectIdentifier(t *testing.T) {
	oidCol := indexObj(BaseObjectIdentifier, nil)
	entries := []IndexEntry{{Object: oidCol}}
	values := []IndexValue{{OID: OID{1, 3, 6, 1}}}

	oid, err := PackIndex(entries, values)
	if err != nil {
		t.Fatalf("PackIndex: %v", err)
	}
	want := OID{4, 1, 3, 6, 1}
	if !oid.Equal(want) {
		t.Errorf("got %v, want %v", oid, want)
	}

	got, err := UnpackIndex(entries, oid)
	if err != nil {
		t.Fatalf("UnpackIndex: %v", err)
	}
	if !reflect.DeepEqual(got, values) {
		t.Errorf("got %v, want %v", got, values)
	}
}

func TestUnpackIndexTrailingSuffixIsError(t *testing.T) {
	ifIndex := indexObj(BaseInteger32, nil)
	entries := []IndexEntry{{Object: ifIndex}}

	if _, err := UnpackIndex(entries, OID{7, 99}); err == nil {
		t.Error("expected error for trailing sub-identifiers")
	}
}

func TestUnpackIndexExhaustedSuffixIsError(t *testing.T) {
	ifIndex := indexObj(BaseInteger32, nil)
	name := indexObj(BaseOctetString, nil)
	entries := []IndexEntry{{Object: ifIndex}, {Object: name}}

	if _, err := UnpackIndex(entries, OID{7}); err == nil {
		t.Error("expected error for exhausted suffix")
	}
}

func TestPackIndexWrongArity(t *testing.T) {
	ifIndex := indexObj(BaseInteger32, nil)
	entries := []IndexEntry{{Object: ifIndex}}

	if _, err := PackIndex(entries, nil); err == nil {
		t.Error("expected error for arity mismatch")
	}
}
