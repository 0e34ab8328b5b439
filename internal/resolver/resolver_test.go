package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/golangsnmp/snmpcore/internal/smi"
	"github.com/golangsnmp/snmpcore/mib"
)

func resolveText(t *testing.T, texts ...string) *mib.Mib {
	t.Helper()
	sources := make([]Source, 0, len(texts)+6)
	for _, base := range smi.BaseModules() {
		sources = append(sources, Source{Module: base})
	}
	for _, text := range texts {
		mod := smi.Parse([]byte(text), nil, mib.PermissiveConfig())
		require.NotEmpty(t, mod.Name, "fixture must parse")
		sources = append(sources, Source{Module: mod, Bytes: []byte(text)})
	}
	return Resolve(sources, Options{DiagConfig: mib.PermissiveConfig()})
}

func TestResolveSyntheticRoots(t *testing.T) {
	m := Resolve(nil, Options{})
	require.NotNil(t, m)
	for name, arc := range map[string]uint32{"ccitt": 0, "iso": 1, "joint-iso-ccitt": 2} {
		nd := m.Node(name)
		require.NotNil(t, nd, name)
		assert.Equal(t, mib.OID{arc}, nd.OID())
	}
}

func TestResolveBaseSkeleton(t *testing.T) {
	m := resolveText(t)
	internet := m.Node("internet")
	require.NotNil(t, internet)
	assert.Equal(t, mib.OID{1, 3, 6, 1}, internet.OID())

	ds := m.Type("DisplayString")
	require.NotNil(t, ds)
	assert.Equal(t, mib.BaseOctetString, ds.EffectiveBase())
	assert.Equal(t, "255a", ds.EffectiveDisplayHint())
}

const fixtureMIB = `TEST-MIB DEFINITIONS ::= BEGIN
	IMPORTS
		MODULE-IDENTITY, OBJECT-TYPE, Integer32, enterprises FROM SNMPv2-SMI
		DisplayString, RowStatus FROM SNMPv2-TC;

	testMIB MODULE-IDENTITY
		LAST-UPDATED "202401010000Z"
		ORGANIZATION "Example"
		CONTACT-INFO "admin@example.net"
		DESCRIPTION "fixture"
		::= { enterprises 99999 }

	testObjects OBJECT IDENTIFIER ::= { testMIB 1 }

	widgetTable OBJECT-TYPE
		SYNTAX SEQUENCE OF WidgetEntry
		MAX-ACCESS not-accessible
		STATUS current
		DESCRIPTION "widgets"
		::= { testObjects 1 }

	widgetEntry OBJECT-TYPE
		SYNTAX WidgetEntry
		MAX-ACCESS not-accessible
		STATUS current
		DESCRIPTION "one widget"
		INDEX { widgetIndex }
		::= { widgetTable 1 }

	WidgetEntry ::= SEQUENCE {
		widgetIndex Integer32,
		widgetName DisplayString,
		widgetStatus RowStatus
	}

	widgetIndex OBJECT-TYPE
		SYNTAX Integer32 (1..1024)
		MAX-ACCESS not-accessible
		STATUS current
		DESCRIPTION "index"
		::= { widgetEntry 1 }

	widgetName OBJECT-TYPE
		SYNTAX DisplayString (SIZE (0..32))
		MAX-ACCESS read-write
		STATUS current
		DESCRIPTION "name"
		::= { widgetEntry 2 }

	widgetStatus OBJECT-TYPE
		SYNTAX RowStatus
		MAX-ACCESS read-create
		STATUS current
		DESCRIPTION "row status"
		::= { widgetEntry 3 }

	END`

func TestResolveLinksObjectsAndClassifies(t *testing.T) {
	m := resolveText(t, fixtureMIB)

	table := m.Object("widgetTable")
	require.NotNil(t, table)
	assert.Equal(t, mib.OID{1, 3, 6, 1, 4, 1, 99999, 1, 1}, table.OID())
	assert.True(t, table.IsTable())

	row := m.Object("widgetEntry")
	require.NotNil(t, row)
	assert.True(t, row.IsRow())
	assert.Equal(t, table, row.Table())

	name := m.Object("widgetName")
	require.NotNil(t, name)
	assert.True(t, name.IsColumn())
	assert.Equal(t, mib.AccessReadWrite, name.Access())

	// The inline SIZE wraps the named TC in an anonymous refinement.
	typ := name.Type()
	require.NotNil(t, typ)
	assert.Equal(t, mib.BaseOctetString, typ.EffectiveBase())
	sizes := typ.EffectiveSizes()
	require.Len(t, sizes, 1)
	assert.Equal(t, mib.Range{Min: 0, Max: 32}, sizes[0])
	assert.Equal(t, "255a", typ.EffectiveDisplayHint())
}

func TestResolveIndexAndModuleIdentity(t *testing.T) {
	m := resolveText(t, fixtureMIB)

	row := m.Object("widgetEntry")
	require.NotNil(t, row)
	idx := row.EffectiveIndexes()
	require.Len(t, idx, 1)
	assert.Equal(t, "widgetIndex", idx[0].Object.Name())

	mod := m.Module("TEST-MIB")
	require.NotNil(t, mod)
	assert.Equal(t, mib.OID{1, 3, 6, 1, 4, 1, 99999}, mod.OID())
	assert.Equal(t, "Example", mod.Organization())
	assert.Equal(t, "fixture", mod.Description())
}

func TestResolveForwardReferenceAcrossModules(t *testing.T) {
	// second defines its subtree under a node the first module owns,
	// but arrives earlier in the source list.
	first := `A-MIB DEFINITIONS ::= BEGIN
		IMPORTS enterprises FROM SNMPv2-SMI;
		aRoot OBJECT IDENTIFIER ::= { enterprises 1111 }
		END`
	second := `B-MIB DEFINITIONS ::= BEGIN
		IMPORTS aRoot FROM A-MIB;
		bThing OBJECT IDENTIFIER ::= { aRoot 7 }
		END`
	m := resolveText(t, second, first)

	b := m.Node("bThing")
	require.NotNil(t, b)
	assert.Equal(t, mib.OID{1, 3, 6, 1, 4, 1, 1111, 7}, b.OID())
}

func TestResolveTrapTypeSynthesizesTrapsNode(t *testing.T) {
	src := `LEGACY-MIB DEFINITIONS ::= BEGIN
		IMPORTS enterprises FROM RFC1155-SMI;
		acme OBJECT IDENTIFIER ::= { enterprises 9999 }
		acmeReason OBJECT-TYPE
			SYNTAX OCTET STRING
			ACCESS read-only
			STATUS mandatory
			DESCRIPTION "why"
			::= { acme 1 }
		acmeDown TRAP-TYPE
			ENTERPRISE acme
			VARIABLES { acmeReason }
			DESCRIPTION "box went away"
			::= 4
		END`
	m := resolveText(t, src)

	traps := m.Node("acmeTraps")
	require.NotNil(t, traps, "TRAP-TYPE must synthesize <enterprise>Traps at sub-id 0")
	assert.Equal(t, mib.OID{1, 3, 6, 1, 4, 1, 9999, 0}, traps.OID())

	down := m.Notification("acmeDown")
	require.NotNil(t, down)
	assert.Equal(t, mib.OID{1, 3, 6, 1, 4, 1, 9999, 0, 4}, down.OID())
	require.NotNil(t, down.TrapInfo())
	assert.Equal(t, int64(4), down.TrapInfo().SpecificCode)
	assert.Equal(t, mib.OID{1, 3, 6, 1, 4, 1, 9999}, down.TrapInfo().Enterprise)
	require.Len(t, down.Objects(), 1)
	assert.Equal(t, "acmeReason", down.Objects()[0].Name())
}

func TestResolveOrphanIsReportedNotFatal(t *testing.T) {
	src := `ORPHAN-MIB DEFINITIONS ::= BEGIN
		lost OBJECT IDENTIFIER ::= { noSuchParent 1 }
		found OBJECT IDENTIFIER ::= { enterprises 55 }
		END`
	m := resolveText(t, src)

	assert.Nil(t, m.Node("lost"))
	require.NotNil(t, m.Node("found"))
	refs := m.Unresolved()
	require.Len(t, refs, 1)
	assert.Equal(t, "lost", refs[0].Name)
	assert.Equal(t, "noSuchParent", refs[0].ParentName)
}

func TestResolveIntermediateLabelsEmitNodes(t *testing.T) {
	src := `DEEP-MIB DEFINITIONS ::= BEGIN
		deepThing OBJECT IDENTIFIER ::= { enterprises acmeRoot(4242) widgets(1) 5 }
		END`
	m := resolveText(t, src)

	acme := m.Node("acmeRoot")
	require.NotNil(t, acme, "intermediate labels emit nodes of their own")
	assert.Equal(t, mib.OID{1, 3, 6, 1, 4, 1, 4242}, acme.OID())
	widgets := m.Node("widgets")
	require.NotNil(t, widgets)
	deep := m.Node("deepThing")
	require.NotNil(t, deep)
	assert.Equal(t, mib.OID{1, 3, 6, 1, 4, 1, 4242, 1, 5}, deep.OID())
}
