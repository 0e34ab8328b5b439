package mib

import "testing"

// tableFixture links ifTable(2)/ifEntry(1)/ifIndex(1),ifDescr(2) under
// a root and returns the three objects.
func tableFixture() (table, row, col *Object) {
	root := &Node{}
	tblNode := growTree(root, OID{1, 3, 6, 1, 2, 1, 2, 2}, "ifTable")
	tblNode.SetKind(KindTable)
	rowNode := tblNode.GetOrCreateChild(1)
	rowNode.SetName("ifEntry")
	rowNode.SetKind(KindRow)
	colNode := rowNode.GetOrCreateChild(1)
	colNode.SetName("ifIndex")
	colNode.SetKind(KindColumn)
	descrNode := rowNode.GetOrCreateChild(2)
	descrNode.SetName("ifDescr")
	descrNode.SetKind(KindColumn)

	table = NewObject("ifTable")
	table.SetNode(tblNode)
	tblNode.SetObject(table)

	row = NewObject("ifEntry")
	row.SetNode(rowNode)
	rowNode.SetObject(row)

	col = NewObject("ifIndex")
	col.SetNode(colNode)
	colNode.SetObject(col)

	descr := NewObject("ifDescr")
	descr.SetNode(descrNode)
	descrNode.SetObject(descr)
	return
}

func TestObjectTableRowColumnNavigation(t *testing.T) {
	table, row, col := tableFixture()

	if col.Row() != row {
		t.Error("column's Row() should be the entry object")
	}
	if col.Table() != table || row.Table() != table {
		t.Error("Table() should resolve from both row and column")
	}
	if table.Entry() != row {
		t.Error("Entry() should find the row under the table")
	}
	cols := table.Columns()
	if len(cols) != 2 || cols[0].Name() != "ifIndex" || cols[1].Name() != "ifDescr" {
		t.Errorf("Columns() = %v", cols)
	}
}

func TestObjectKindPredicates(t *testing.T) {
	table, row, col := tableFixture()
	if !table.IsTable() || !row.IsRow() || !col.IsColumn() {
		t.Error("kind predicates disagree with node kinds")
	}
	if (&Object{}).Kind() != KindUnknown {
		t.Error("an unlinked object has no kind")
	}
}

func TestObjectEffectiveIndexesFollowsAugments(t *testing.T) {
	_, row, col := tableFixture()
	row.SetIndex([]IndexEntry{{Object: col}})

	// A sparse-augments row with no INDEX of its own borrows the base
	// row's columns.
	root := &Node{}
	extNode := growTree(root, OID{1, 3, 6, 1, 4, 1, 9, 1, 1}, "ifXEntry")
	extNode.SetKind(KindRow)
	ext := NewObject("ifXEntry")
	ext.SetNode(extNode)
	extNode.SetObject(ext)
	ext.SetAugments(row)

	idx := ext.EffectiveIndexes()
	if len(idx) != 1 || idx[0].Object != col {
		t.Errorf("EffectiveIndexes = %v", idx)
	}
}

func TestObjectEffectiveIndexesBreaksAugmentsCycle(t *testing.T) {
	_, rowA, _ := tableFixture()
	_, rowB, _ := tableFixture()
	rowA.SetIndex(nil)
	rowB.SetIndex(nil)
	rowA.SetAugments(rowB)
	rowB.SetAugments(rowA)

	if idx := rowA.EffectiveIndexes(); idx != nil {
		t.Errorf("cyclic augments must resolve to nothing, got %v", idx)
	}
}
