package smi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/golangsnmp/snmpcore/mib"
)

func TestBaseModulesCoverDeclaredNames(t *testing.T) {
	mods := BaseModules()
	require.Len(t, mods, len(BaseModuleNames()))
	for i, name := range BaseModuleNames() {
		assert.Equal(t, name, mods[i].Name)
	}
	assert.Nil(t, BaseModule("NO-SUCH-MODULE"))
}

func TestSMIv2SkeletonReachesEnterprises(t *testing.T) {
	m := BaseModule("SNMPv2-SMI")
	require.NotNil(t, m)

	byName := make(map[string]Def)
	for _, d := range m.Defs {
		byName[d.Name] = d
	}
	ent, ok := byName["enterprises"]
	require.True(t, ok)
	assert.Equal(t, "private", ent.OID[0].Label)

	// The chain org -> dod -> internet must bottom out at iso, which
	// the resolver plants as a synthetic root.
	cur := "internet"
	for range 4 {
		d, ok := byName[cur]
		if !ok {
			break
		}
		cur = d.OID[0].Label
	}
	assert.Equal(t, "iso", cur)
}

func TestSNMPv2TCTypes(t *testing.T) {
	m := BaseModule("SNMPv2-TC")
	require.NotNil(t, m)

	byName := make(map[string]TypeDef)
	for _, td := range m.Types {
		byName[td.Name] = td
	}

	ds := byName["DisplayString"]
	assert.Equal(t, "255a", ds.Hint)
	assert.Equal(t, mib.RestSize, ds.Syntax.RestKind)

	rs := byName["RowStatus"]
	assert.Equal(t, mib.RestEnums, rs.Syntax.RestKind)
	assert.Len(t, rs.Syntax.Named, 6)

	mac := byName["MacAddress"]
	require.Len(t, mac.Syntax.Bounds, 1)
	assert.Equal(t, mib.Range{Min: 6, Max: 6}, mac.Syntax.Bounds[0])
}

func TestBaseModulesReturnFreshCopies(t *testing.T) {
	a := BaseModule("SNMPv2-SMI")
	a.Defs[0].Name = "scribbled"
	b := BaseModule("SNMPv2-SMI")
	assert.Equal(t, "org", b.Defs[0].Name, "mutating one copy must not leak into the next")
}
