package mib

import "testing"

// tcChain builds DisplayString-like chain: anonymous refinement ->
// named TC -> base OCTET STRING type.
func tcChain() (refined, tc, base *Type) {
	base = &Type{name: "OCTET STRING", base: BaseOctetString}
	tc = &Type{
		name:     "DisplayString",
		parent:   base,
		hint:     "255a",
		isTC:     true,
		restKind: RestSize,
		bounds:   []Range{{Min: 0, Max: 255}},
	}
	refined = &Type{parent: tc, restKind: RestSize, bounds: []Range{{Min: 0, Max: 32}}}
	return
}

func TestTypeEffectiveBaseWalksChain(t *testing.T) {
	refined, tc, _ := tcChain()
	if refined.Base() != BaseUnknown {
		t.Error("refinement declares no base of its own")
	}
	if refined.EffectiveBase() != BaseOctetString {
		t.Errorf("EffectiveBase = %v", refined.EffectiveBase())
	}
	if tc.EffectiveBase() != BaseOctetString {
		t.Errorf("EffectiveBase = %v", tc.EffectiveBase())
	}
}

func TestTypeEffectiveHintAndSizes(t *testing.T) {
	refined, _, _ := tcChain()
	if refined.EffectiveDisplayHint() != "255a" {
		t.Errorf("hint = %q", refined.EffectiveDisplayHint())
	}
	// The nearest SIZE wins: the refinement narrows the TC's.
	sizes := refined.EffectiveSizes()
	if len(sizes) != 1 || sizes[0].Max != 32 {
		t.Errorf("sizes = %v", sizes)
	}
}

func TestTypeEnumLookup(t *testing.T) {
	status := &Type{
		name:     "RowStatus",
		base:     BaseInteger32,
		restKind: RestEnums,
		named: []NamedValue{
			{Label: "active", Value: 1},
			{Label: "notInService", Value: 2},
		},
	}
	sub := &Type{parent: status}

	nv, ok := sub.Enum("active")
	if !ok || nv.Value != 1 {
		t.Errorf("Enum(active) = %v, %v", nv, ok)
	}
	if _, ok := sub.Enum("destroyed"); ok {
		t.Error("unknown label must not resolve")
	}
	enums := sub.EffectiveEnums()
	if len(enums) != 2 {
		t.Errorf("EffectiveEnums = %v", enums)
	}
}

func TestTypeRestrictionKindsAreDistinct(t *testing.T) {
	ranged := &Type{base: BaseInteger32, restKind: RestRange, bounds: []Range{{Min: 1, Max: 10}}}
	if ranged.EffectiveSizes() != nil {
		t.Error("a range restriction is not a SIZE")
	}
	if got := ranged.EffectiveRanges(); len(got) != 1 || got[0].Max != 10 {
		t.Errorf("EffectiveRanges = %v", got)
	}
}

func TestContains(t *testing.T) {
	ranges := []Range{{Min: 1, Max: 3}, {Min: 7, Max: 7}}
	for v, want := range map[int64]bool{0: false, 1: true, 3: true, 5: false, 7: true, 8: false} {
		if Contains(ranges, v) != want {
			t.Errorf("Contains(%d) != %v", v, want)
		}
	}
}

func TestTypeString(t *testing.T) {
	_, tc, _ := tcChain()
	if tc.String() != "DisplayString (OCTET STRING)" {
		t.Errorf("String() = %q", tc.String())
	}
	var nilType *Type
	if nilType.String() != "<nil>" {
		t.Errorf("nil String() = %q", nilType.String())
	}
}
