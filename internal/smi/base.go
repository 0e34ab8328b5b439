package smi

import "github.com/golangsnmp/snmpcore/mib"

// The base SMI modules ship built in so a bare engine resolves
// Counter32, DisplayString and the iso.org.dod.internet prefix without
// any MIB files on disk. Each is expressed in the same parsed form a
// file would produce, as literal tables rather than source text.

func valDef(name, parent string, arc uint32) Def {
	return Def{
		Kind: DefValueAssign,
		Name: name,
		OID:  []OidPart{{Label: parent}, {Arc: arc, HasArc: true}},
	}
}

func baseTypeDef(name string, base mib.BaseType) TypeDef {
	return TypeDef{Name: name, Syntax: TypeRef{Base: base}}
}

func tcDef(name, hint string, base mib.BaseType) TypeDef {
	return TypeDef{Name: name, IsTC: true, Hint: hint, Syntax: TypeRef{Base: base}}
}

func tcSized(name, hint string, min, max int64) TypeDef {
	return TypeDef{
		Name: name,
		IsTC: true,
		Hint: hint,
		Syntax: TypeRef{
			Base:     mib.BaseOctetString,
			RestKind: mib.RestSize,
			Bounds:   []mib.Range{{Min: min, Max: max}},
		},
	}
}

func tcEnum(name string, named ...mib.NamedValue) TypeDef {
	return TypeDef{
		Name: name,
		IsTC: true,
		Syntax: TypeRef{
			Base:     mib.BaseInteger32,
			RestKind: mib.RestEnums,
			Named:    named,
		},
	}
}

func nv(label string, value int64) mib.NamedValue {
	return mib.NamedValue{Label: label, Value: value}
}

// smiV2Module covers SNMPv2-SMI: the standard OID skeleton and the
// application-wide base types.
func smiV2Module() *Module {
	return &Module{
		Name:     "SNMPv2-SMI",
		Language: mib.LanguageSMIv2,
		Defs: []Def{
			valDef("org", "iso", 3),
			valDef("dod", "org", 6),
			valDef("internet", "dod", 1),
			valDef("directory", "internet", 1),
			valDef("mgmt", "internet", 2),
			valDef("mib-2", "mgmt", 1),
			valDef("transmission", "mib-2", 10),
			valDef("experimental", "internet", 3),
			valDef("private", "internet", 4),
			valDef("enterprises", "private", 1),
			valDef("security", "internet", 5),
			valDef("snmpV2", "internet", 6),
			valDef("snmpDomains", "snmpV2", 1),
			valDef("snmpProxys", "snmpV2", 2),
			valDef("snmpModules", "snmpV2", 3),
			valDef("zeroDotZero", "ccitt", 0),
		},
		Types: []TypeDef{
			baseTypeDef("Integer32", mib.BaseInteger32),
			baseTypeDef("Unsigned32", mib.BaseUnsigned32),
			baseTypeDef("Counter32", mib.BaseCounter32),
			baseTypeDef("Counter64", mib.BaseCounter64),
			baseTypeDef("Gauge32", mib.BaseGauge32),
			baseTypeDef("TimeTicks", mib.BaseTimeTicks),
			baseTypeDef("IpAddress", mib.BaseIpAddress),
			baseTypeDef("Opaque", mib.BaseOpaque),
		},
	}
}

// smiV2TCModule covers the SNMPv2-TC textual conventions an engine
// actually meets in the wild.
func smiV2TCModule() *Module {
	return &Module{
		Name:     "SNMPv2-TC",
		Language: mib.LanguageSMIv2,
		Types: []TypeDef{
			tcSized("DisplayString", "255a", 0, 255),
			tcDef("PhysAddress", "1x:", mib.BaseOctetString),
			tcSized("MacAddress", "1x:", 6, 6),
			tcEnum("TruthValue", nv("true", 1), nv("false", 2)),
			tcDef("TestAndIncr", "", mib.BaseInteger32),
			tcDef("AutonomousType", "", mib.BaseObjectIdentifier),
			tcDef("InstancePointer", "", mib.BaseObjectIdentifier),
			tcDef("VariablePointer", "", mib.BaseObjectIdentifier),
			tcDef("RowPointer", "", mib.BaseObjectIdentifier),
			tcEnum("RowStatus",
				nv("active", 1), nv("notInService", 2), nv("notReady", 3),
				nv("createAndGo", 4), nv("createAndWait", 5), nv("destroy", 6)),
			tcDef("TimeStamp", "", mib.BaseTimeTicks),
			tcDef("TimeInterval", "", mib.BaseInteger32),
			tcDef("DateAndTime", "2d-1d-1d,1d:1d:1d.1d,1a1d:1d", mib.BaseOctetString),
			tcEnum("StorageType",
				nv("other", 1), nv("volatile", 2), nv("nonVolatile", 3),
				nv("permanent", 4), nv("readOnly", 5)),
			tcDef("TDomain", "", mib.BaseObjectIdentifier),
			tcSized("TAddress", "", 1, 255),
		},
	}
}

// rfc1155Module covers RFC1155-SMI, the SMIv1 skeleton and types.
func rfc1155Module() *Module {
	return &Module{
		Name:     "RFC1155-SMI",
		Language: mib.LanguageSMIv1,
		Defs: []Def{
			valDef("org", "iso", 3),
			valDef("dod", "org", 6),
			valDef("internet", "dod", 1),
			valDef("directory", "internet", 1),
			valDef("mgmt", "internet", 2),
			valDef("mib-2", "mgmt", 1),
			valDef("experimental", "internet", 3),
			valDef("private", "internet", 4),
			valDef("enterprises", "private", 1),
		},
		Types: []TypeDef{
			baseTypeDef("NetworkAddress", mib.BaseIpAddress),
			baseTypeDef("IpAddress", mib.BaseIpAddress),
			baseTypeDef("Counter", mib.BaseCounter32),
			baseTypeDef("Gauge", mib.BaseGauge32),
			baseTypeDef("TimeTicks", mib.BaseTimeTicks),
			baseTypeDef("Opaque", mib.BaseOpaque),
		},
	}
}

// The macro-only modules carry nothing to resolve; they exist so an
// IMPORTS clause naming them finds a registered module.
func macroOnlyModule(name string, lang mib.Language) *Module {
	return &Module{Name: name, Language: lang}
}

// BaseModules returns fresh copies of every built-in module.
func BaseModules() []*Module {
	return []*Module{
		smiV2Module(),
		smiV2TCModule(),
		macroOnlyModule("SNMPv2-CONF", mib.LanguageSMIv2),
		rfc1155Module(),
		macroOnlyModule("RFC-1212", mib.LanguageSMIv1),
		macroOnlyModule("RFC-1215", mib.LanguageSMIv1),
	}
}

// BaseModuleNames lists the built-ins in registration order.
func BaseModuleNames() []string {
	return []string{"SNMPv2-SMI", "SNMPv2-TC", "SNMPv2-CONF", "RFC1155-SMI", "RFC-1212", "RFC-1215"}
}

// BaseModule returns a fresh copy of one built-in, or nil.
func BaseModule(name string) *Module {
	for _, m := range BaseModules() {
		if m.Name == name {
			return m
		}
	}
	return nil
}
