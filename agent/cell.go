// Package agent implements the instance tree and two-phase-commit
// dispatch of spec.md §4.6: a tree parallel to the MIB tree, populated
// only with registered instances, that answers get/getnext/getbulk/set
// against callable handlers (bindings) instead of the MIB's static
// definitions.
package agent

import (
	"fmt"
	"sync"

	"github.com/golangsnmp/snmpcore/pdu"
)

// Cell is the backing store an Instance reads and writes through,
// spec.md §4.6's "name of a backing scalar cell". Separating the cell
// from the Instance lets a responder wire the same counter
// (engine.Counters, a process uptime clock) into the tree without the
// tree depending on its concrete type.
type Cell interface {
	Get() pdu.Value
	Set(pdu.Value) error
}

// ErrNotWritable is returned by a Cell that rejects every Set: a
// FuncCell with no WriteFn. ValueCell accepts every Set.
var ErrNotWritable = fmt.Errorf("agent: cell is not writable")

// ValueCell is a mutex-protected in-memory Cell, the default backing
// store for CreateNode.
type ValueCell struct {
	mu  sync.Mutex
	val pdu.Value
}

// NewValueCell returns a ValueCell initialized to def.
func NewValueCell(def pdu.Value) *ValueCell {
	return &ValueCell{val: def}
}

func (c *ValueCell) Get() pdu.Value {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.val
}

func (c *ValueCell) Set(v pdu.Value) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.val = v
	return nil
}

// FuncCell adapts a read function (and optional write function) into a
// Cell, for instances backed by live process state (sysUpTime, the
// engine packet counters) rather than a stored value.
type FuncCell struct {
	ReadFn  func() pdu.Value
	WriteFn func(pdu.Value) error
}

func (c *FuncCell) Get() pdu.Value { return c.ReadFn() }

func (c *FuncCell) Set(v pdu.Value) error {
	if c.WriteFn == nil {
		return ErrNotWritable
	}
	return c.WriteFn(v)
}
