package mib

import (
	"path/filepath"
	"reflect"
	"testing"
)

func TestManifestSaveLoadRoundTrip(t *testing.T) {
	m := &Manifest{
		Dirs:    []string{"/usr/share/snmp/mibs", "./mibs"},
		Modules: []string{"IF-MIB", "SNMPv2-MIB"},
		Frozen:  "mibs.frozen",
	}
	path := filepath.Join(t.TempDir(), "manifest.yaml")
	if err := m.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	if !reflect.DeepEqual(m, got) {
		t.Errorf("round trip got %+v, want %+v", got, m)
	}
}

func TestManifestAllows(t *testing.T) {
	var nilManifest *Manifest
	if !nilManifest.Allows("IF-MIB") {
		t.Error("nil manifest should allow everything")
	}
	m := &Manifest{Modules: []string{"IF-MIB"}}
	if !m.Allows("IF-MIB") || m.Allows("TCP-MIB") {
		t.Error("allowlist should admit exactly its entries")
	}
	empty := &Manifest{}
	if !empty.Allows("ANY-MIB") {
		t.Error("empty allowlist should admit everything")
	}
}
