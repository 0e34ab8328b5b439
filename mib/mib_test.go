package mib

import "testing"

func TestNodeLookupPrefersObjectCarrier(t *testing.T) {
	m := newMib()

	plain := &Node{name: "sysDescr"}
	withNotif := &Node{name: "sysDescr", notif: NewNotification("sysDescr")}
	withObj := &Node{name: "sysDescr", obj: NewObject("sysDescr")}

	// Registration order is worst-first so the winner can't be an
	// artifact of position.
	m.registerNode("sysDescr", plain)
	m.registerNode("sysDescr", withNotif)
	m.registerNode("sysDescr", withObj)

	if m.Node("sysDescr") != withObj {
		t.Error("the object-carrying node should win")
	}
	if m.Object("sysDescr") == nil {
		t.Error("Object() should find the attached entity")
	}

	m2 := newMib()
	m2.registerNode("linkDown", plain)
	m2.registerNode("linkDown", withNotif)
	if m2.Node("linkDown") != withNotif {
		t.Error("with no object carrier, the notification carrier wins")
	}

	if m.Node("absent") != nil {
		t.Error("unknown names resolve to nil")
	}
}

func TestTypeTableFirstRegistrationWins(t *testing.T) {
	m := newMib()
	first := NewType("DisplayString")
	second := NewType("DisplayString")
	m.addType(first)
	m.addType(second)

	if m.Type("DisplayString") != first {
		t.Error("a vendor redefinition must not displace the original")
	}
	if len(m.Types()) != 2 {
		t.Error("both registrations stay in the full list")
	}
}

func TestFormatOID(t *testing.T) {
	m := newMib()
	ifIndex := growTree(m.root, OID{1, 3, 6, 1, 2, 1, 2, 2, 1, 1}, "ifIndex")
	m.registerNode("ifIndex", ifIndex)

	if got := m.FormatOID(OID{1, 3, 6, 1, 2, 1, 2, 2, 1, 1, 5}); got != "ifIndex.5" {
		t.Errorf("FormatOID = %q", got)
	}
	if got := m.FormatOID(OID{2, 99, 99}); got != "2.99.99" {
		t.Errorf("unresolvable OID should print numerically, got %q", got)
	}
	if got := m.FormatOID(nil); got != "" {
		t.Errorf("empty OID formats empty, got %q", got)
	}
}

func TestMibNodesIteratesInOrder(t *testing.T) {
	m := newMib()
	growTree(m.root, OID{1, 3}, "org")
	growTree(m.root, OID{0, 0}, "zeroDotZero")

	var first OID
	for n := range m.Nodes() {
		first = n.OID()
		break
	}
	if !first.Equal(OID{0}) {
		t.Errorf("iteration should start at the lowest top-level arc, got %v", first)
	}
}
