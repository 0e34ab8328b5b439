package mib

import (
	"bytes"
	"testing"
)

func TestFormatOctetsDisplayString(t *testing.T) {
	got, err := FormatOctetsWithHint("255a", []byte("hello, world"))
	if err != nil {
		t.Fatalf("FormatOctetsWithHint: %v", err)
	}
	if got != "hello, world" {
		t.Errorf("got %q", got)
	}
}

func TestFormatOctetsMacAddress(t *testing.T) {
	mac := []byte{0x00, 0x1a, 0x2b, 0x3c, 0x4d, 0x5e}
	got, err := FormatOctetsWithHint("1x:", mac)
	if err != nil {
		t.Fatalf("FormatOctetsWithHint: %v", err)
	}
	if got != "0:1a:2b:3c:4d:5e" {
		t.Errorf("got %q", got)
	}

	back, err := ScanOctetsWithHint("1x:", got)
	if err != nil {
		t.Fatalf("ScanOctetsWithHint: %v", err)
	}
	if !bytes.Equal(back, mac) {
		t.Errorf("round trip got %x, want %x", back, mac)
	}
}

func TestFormatOctetsDateAndTime(t *testing.T) {
	// SNMPv2-TC DateAndTime: "2d-1d-1d,1d:1d:1d.1d" prefix.
	hint := "2d-1d-1d,1d:1d:1d.1d"
	val := []byte{0x07, 0xd6, 6, 12, 10, 30, 45, 0}
	got, err := FormatOctetsWithHint(hint, val)
	if err != nil {
		t.Fatalf("FormatOctetsWithHint: %v", err)
	}
	if got != "2006-6-12,10:30:45.0" {
		t.Errorf("got %q", got)
	}
	back, err := ScanOctetsWithHint(hint, got)
	if err != nil {
		t.Fatalf("ScanOctetsWithHint: %v", err)
	}
	if !bytes.Equal(back, val) {
		t.Errorf("round trip got %x, want %x", back, val)
	}
}

func TestFormatOctetsUTF8Unimplemented(t *testing.T) {
	if _, err := FormatOctetsWithHint("255t", []byte("x")); err == nil {
		t.Error("expected error for 't' format")
	}
}

func TestFormatOctetsRepeatIndicator(t *testing.T) {
	// Two repetitions of a 2-octet decimal field, '.'-separated.
	data := []byte{2, 0x01, 0x00, 0x00, 0x07}
	got, err := FormatOctetsWithHint("*2d.", data)
	if err != nil {
		t.Fatalf("FormatOctetsWithHint: %v", err)
	}
	if got != "256.7" {
		t.Errorf("got %q", got)
	}
	back, err := ScanOctetsWithHint("*2d.", got)
	if err != nil {
		t.Fatalf("ScanOctetsWithHint: %v", err)
	}
	if !bytes.Equal(back, data) {
		t.Errorf("round trip got %x, want %x", back, data)
	}
}

func TestFormatIntHints(t *testing.T) {
	cases := []struct {
		hint string
		v    int64
		want string
	}{
		{"d", 42, "42"},
		{"d-2", 314, "3.14"},
		{"d-2", -5, "-0.05"},
		{"d-3", 7, "0.007"},
		{"x", 255, "ff"},
		{"o", 8, "10"},
		{"b", 5, "101"},
	}
	for _, c := range cases {
		got, err := FormatIntWithHint(c.hint, c.v)
		if err != nil {
			t.Fatalf("FormatIntWithHint(%q, %d): %v", c.hint, c.v, err)
		}
		if got != c.want {
			t.Errorf("FormatIntWithHint(%q, %d) = %q, want %q", c.hint, c.v, got, c.want)
		}
		back, err := ScanIntWithHint(c.hint, got)
		if err != nil {
			t.Fatalf("ScanIntWithHint(%q, %q): %v", c.hint, got, err)
		}
		if back != c.v {
			t.Errorf("ScanIntWithHint(%q, %q) = %d, want %d", c.hint, got, back, c.v)
		}
	}
}

func TestTypeFormatIntEnumSubstitution(t *testing.T) {
	typ := &Type{base: BaseInteger32, restKind: RestEnums, named: []NamedValue{{Label: "up", Value: 1}, {Label: "down", Value: 2}}}
	if got := typ.FormatInt(2); got != "down" {
		t.Errorf("got %q, want down", got)
	}
	if got := typ.FormatInt(9); got != "9" {
		t.Errorf("got %q, want 9", got)
	}
	v, err := typ.ScanInt("up")
	if err != nil || v != 1 {
		t.Errorf("ScanInt(up) = %d, %v", v, err)
	}
}

func TestTypeFormatIntHintThroughParentChain(t *testing.T) {
	parent := &Type{base: BaseInteger32, hint: "d-1"}
	child := &Type{parent: parent}
	if got := child.FormatInt(105); got != "10.5" {
		t.Errorf("got %q, want 10.5", got)
	}
}

func TestTypeFormatBits(t *testing.T) {
	typ := &Type{base: BaseBits, restKind: RestBits, named: []NamedValue{
		{Label: "alarm", Value: 0},
		{Label: "trace", Value: 3},
	}}
	got := typ.FormatBits([]byte{0x90}) // bits 0 and 3 set
	if got != "alarm(0) trace(3)" {
		t.Errorf("got %q", got)
	}
}
