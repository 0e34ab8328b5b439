package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/golangsnmp/snmpcore/pdu"
)

func TestValueCellGetSet(t *testing.T) {
	c := NewValueCell(pdu.Value{Kind: pdu.KindInteger, Int: 1})
	assert.Equal(t, int64(1), c.Get().Int)
	require.NoError(t, c.Set(pdu.Value{Kind: pdu.KindInteger, Int: 2}))
	assert.Equal(t, int64(2), c.Get().Int)
}

func TestFuncCellReadOnly(t *testing.T) {
	c := &FuncCell{ReadFn: func() pdu.Value { return pdu.Value{Kind: pdu.KindTimeTicks, Int: 42} }}
	assert.Equal(t, int64(42), c.Get().Int)
	assert.ErrorIs(t, c.Set(pdu.Value{}), ErrNotWritable)
}

func TestFuncCellWritable(t *testing.T) {
	var stored pdu.Value
	c := &FuncCell{
		ReadFn:  func() pdu.Value { return stored },
		WriteFn: func(v pdu.Value) error { stored = v; return nil },
	}
	require.NoError(t, c.Set(pdu.Value{Kind: pdu.KindInteger, Int: 9}))
	assert.Equal(t, int64(9), c.Get().Int)
}
