package ber

import (
	"bytes"
	"testing"
)

func TestIntegerRoundTrip(t *testing.T) {
	cases := []int64{0, 1, -1, 127, 128, -128, -129, 255, 256, 1<<31 - 1, -(1 << 31)}
	for _, n := range cases {
		w := NewWriter()
		w.WriteInteger(TagInteger, n)
		if w.Err() != nil {
			t.Fatalf("encode(%d): %v", n, w.Err())
		}
		r := NewReader(w.Bytes())
		got, ok := r.ReadInteger(TagInteger)
		if !ok {
			t.Fatalf("decode(%d): %v", n, r.Err())
		}
		if got != n {
			t.Errorf("got %d, want %d", got, n)
		}
	}
}

func TestIntegerMinimalEncoding(t *testing.T) {
	// 128 requires a leading zero byte to avoid being read as negative.
	w := NewWriter()
	w.WriteInteger(TagInteger, 128)
	want := []byte{byte(TagInteger), 0x02, 0x00, 0x80}
	if !bytes.Equal(w.Bytes(), want) {
		t.Errorf("got % x, want % x", w.Bytes(), want)
	}
}

func TestUnsigned32RoundTrip(t *testing.T) {
	cases := []uint32{0, 1, 127, 128, 255, 256, 0x7FFFFFFF, 0x80000000, 0xFFFFFFFF}
	for _, n := range cases {
		w := NewWriter()
		w.WriteUnsigned32(TagCounter32, n)
		r := NewReader(w.Bytes())
		got, ok := r.ReadUnsigned32(TagCounter32)
		if !ok {
			t.Fatalf("decode(%d): %v", n, r.Err())
		}
		if got != n {
			t.Errorf("got %d, want %d", got, n)
		}
	}
}

func TestUnsigned32HighBitGetsLeadingZero(t *testing.T) {
	w := NewWriter()
	w.WriteUnsigned32(TagGauge32, 0x80000000)
	want := []byte{byte(TagGauge32), 0x05, 0x00, 0x80, 0x00, 0x00, 0x00}
	if !bytes.Equal(w.Bytes(), want) {
		t.Errorf("got % x, want % x", w.Bytes(), want)
	}
}

func TestUnsigned32RejectsOverflow(t *testing.T) {
	// Five content bytes with a nonzero leading byte exceeds 32 bits.
	buf := []byte{byte(TagCounter32), 0x05, 0x01, 0x00, 0x00, 0x00, 0x00}
	r := NewReader(buf)
	if _, ok := r.ReadUnsigned32(TagCounter32); ok {
		t.Error("expected overflow rejection")
	}
}

func TestCounter64RoundTrip(t *testing.T) {
	cases := []uint64{0, 1, 0xFFFFFFFF, 1 << 40, 1<<64 - 1}
	for _, n := range cases {
		w := NewWriter()
		w.WriteCounter64(n)
		r := NewReader(w.Bytes())
		got, ok := r.ReadCounter64()
		if !ok {
			t.Fatalf("decode(%d): %v", n, r.Err())
		}
		if got != n {
			t.Errorf("got %d, want %d", got, n)
		}
	}
}

func TestOIDRoundTrip(t *testing.T) {
	cases := [][]uint32{
		{1, 3, 6, 1, 2, 1, 1, 3, 0},
		{0, 0},
		{2, 999, 3},
		{1, 3, 6, 1, 4, 1, 9, 9999999},
	}
	for _, arcs := range cases {
		w := NewWriter()
		w.WriteOID(arcs)
		if w.Err() != nil {
			t.Fatalf("encode(%v): %v", arcs, w.Err())
		}
		r := NewReader(w.Bytes())
		got, ok := r.ReadOID()
		if !ok {
			t.Fatalf("decode(%v): %v", arcs, r.Err())
		}
		if !equalUint32(got, arcs) {
			t.Errorf("got %v, want %v", got, arcs)
		}
	}
}

func TestOIDWireForm(t *testing.T) {
	// 1.3.6.1.2.1.1.3.0 -> 2b 06 01 02 01 01 03 00
	w := NewWriter()
	w.WriteOID([]uint32{1, 3, 6, 1, 2, 1, 1, 3, 0})
	want := []byte{byte(TagObjectID), 0x08, 0x2b, 0x06, 0x01, 0x02, 0x01, 0x01, 0x03, 0x00}
	if !bytes.Equal(w.Bytes(), want) {
		t.Errorf("got % x, want % x", w.Bytes(), want)
	}
}

func TestOctetStringRoundTrip(t *testing.T) {
	cases := [][]byte{nil, []byte("public"), bytes.Repeat([]byte{0xAB}, 200)}
	for _, data := range cases {
		w := NewWriter()
		w.WriteOctetString(TagOctetString, data)
		r := NewReader(w.Bytes())
		got, ok := r.ReadOctetString(TagOctetString)
		if !ok {
			t.Fatalf("decode: %v", r.Err())
		}
		if !bytes.Equal(got, data) {
			t.Errorf("got % x, want % x", got, data)
		}
	}
}

func TestIPAddressRejectsWrongLength(t *testing.T) {
	buf := []byte{byte(TagIPAddress), 0x03, 10, 0, 0}
	r := NewReader(buf)
	if _, ok := r.ReadIPAddress(); ok {
		t.Error("expected length rejection")
	}
}

func TestLongFormLength(t *testing.T) {
	data := bytes.Repeat([]byte{0x41}, 200)
	w := NewWriter()
	w.WriteOctetString(TagOctetString, data)
	// 200 >= 128, so length must use long form: 0x81 0xC8.
	if w.Bytes()[1] != 0x81 || w.Bytes()[2] != 0xC8 {
		t.Errorf("got length bytes % x, want long form 81 c8", w.Bytes()[1:3])
	}
	r := NewReader(w.Bytes())
	got, ok := r.ReadOctetString(TagOctetString)
	if !ok || !bytes.Equal(got, data) {
		t.Errorf("round trip failed: ok=%v got=% x", ok, got)
	}
}

func TestSequenceNesting(t *testing.T) {
	w := NewWriter()
	outer := w.BeginSeq(TagSequence)
	w.WriteInteger(TagInteger, 1)
	w.WriteOctetString(TagOctetString, []byte("public"))
	inner := w.BeginSeq(TagGetRequest)
	w.WriteInteger(TagInteger, 42)
	w.EndSeq(inner)
	w.EndSeq(outer)

	r := NewReader(w.Bytes())
	seq, ok := r.EnterSeq(TagSequence)
	if !ok {
		t.Fatalf("EnterSeq: %v", r.Err())
	}
	version, ok := seq.ReadInteger(TagInteger)
	if !ok || version != 1 {
		t.Fatalf("version: got %d ok=%v", version, ok)
	}
	community, ok := seq.ReadOctetString(TagOctetString)
	if !ok || string(community) != "public" {
		t.Fatalf("community: got %q ok=%v", community, ok)
	}
	pdu, ok := seq.EnterSeq(TagGetRequest)
	if !ok {
		t.Fatalf("EnterSeq pdu: %v", seq.Err())
	}
	reqID, ok := pdu.ReadInteger(TagInteger)
	if !ok || reqID != 42 {
		t.Fatalf("request-id: got %d ok=%v", reqID, ok)
	}
}

func TestLatchedErrorStopsFurtherReads(t *testing.T) {
	buf := []byte{byte(TagInteger), 0x01} // truncated: declares 1 byte, has 0
	r := NewReader(buf)
	if _, ok := r.ReadInteger(TagInteger); ok {
		t.Fatal("expected decode failure")
	}
	if r.Err() == nil {
		t.Fatal("expected latched error")
	}
	if _, ok := r.ReadOID(); ok {
		t.Error("expected subsequent read to also fail")
	}
}

func TestWrongTagIsError(t *testing.T) {
	w := NewWriter()
	w.WriteNull()
	r := NewReader(w.Bytes())
	if _, ok := r.ReadInteger(TagInteger); ok {
		t.Error("expected tag mismatch error")
	}
}

func equalUint32(a, b []uint32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
