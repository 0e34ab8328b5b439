package agent

import (
	"context"
	"fmt"

	"github.com/golangsnmp/snmpcore/engine"
	"github.com/golangsnmp/snmpcore/mib"
	"github.com/golangsnmp/snmpcore/pdu"
)

// Requester sends one request PDU and returns its matching response,
// the seam a Walker uses so it never depends on a concrete transport or
// session type. A real session's synchronous-send method satisfies
// this signature directly.
type Requester func(ctx context.Context, p *pdu.PDU) (*pdu.PDU, error)

// WalkFunc is called once per varbind the walk yields, in order.
type WalkFunc func(vb pdu.Varbind) error

// maxRepsFloor/Ceil/Step implement spec.md §4.6's bulk ramp: starting at
// 4, increasing by 4 each round up to 48, and dropping back to the floor
// whenever a round returns a truncated row set.
const (
	maxRepsFloor = 4
	maxRepsCeil  = 48
	maxRepsStep  = 4
)

// Walk drives repeated getnext (v1) or getbulk (v2+) requests over
// bases, the spec.md §4.6 manager-side walk driver: after each
// response, every returned OID must still be in-subtree of its base and
// no varbind may be endOfMibView, or the walk for that base stops.
func Walk(ctx context.Context, version engine.Version, send Requester, bases []mib.OID, fn WalkFunc) error {
	cursors := make([]mib.OID, len(bases))
	copy(cursors, bases)
	done := make([]bool, len(bases))

	maxReps := int32(maxRepsFloor)
	for {
		pending := pendingIndices(done)
		if len(pending) == 0 {
			return nil
		}

		if version == engine.V1 {
			resp, err := walkGetNextRound(ctx, send, cursors, pending)
			if err != nil {
				return err
			}
			if resp.ErrorStatus == pdu.NoSuchName && resp.ErrorIndex >= 1 && int(resp.ErrorIndex) <= len(pending) {
				// v1 has no endOfMibView: noSuchName on a getnext varbind
				// marks that base's view as exhausted.
				done[pending[resp.ErrorIndex-1]] = true
				continue
			}
			if resp.ErrorStatus != pdu.NoError {
				return fmt.Errorf("agent: walk request failed: %s", resp.ErrorStatus)
			}
			for i, idx := range pending {
				if i >= len(resp.Varbinds) {
					break
				}
				if err := advance(fn, bases, cursors, done, idx, resp.Varbinds[i]); err != nil {
					return err
				}
			}
			continue
		}

		resp, err := walkGetBulkRound(ctx, send, cursors, pending, maxReps)
		if err != nil {
			return err
		}
		if resp.ErrorStatus != pdu.NoError {
			return fmt.Errorf("agent: walk request failed: %s", resp.ErrorStatus)
		}

		rows := 0
		if len(pending) > 0 {
			rows = len(resp.Varbinds) / len(pending)
		}
		truncated := rows < int(maxReps)
		for row := 0; row < rows; row++ {
			for col, idx := range pending {
				if done[idx] {
					continue
				}
				vb := resp.Varbinds[row*len(pending)+col]
				if err := advance(fn, bases, cursors, done, idx, vb); err != nil {
					return err
				}
			}
		}
		if truncated {
			maxReps = maxRepsFloor
		} else if maxReps < maxRepsCeil {
			maxReps += maxRepsStep
		}
	}
}

// advance evaluates one returned varbind against its base and cursor,
// marking the column done on out-of-subtree/endOfMibView/non-progress;
// otherwise it invokes fn and moves the cursor forward.
func advance(fn WalkFunc, bases, cursors []mib.OID, done []bool, idx int, vb pdu.Varbind) error {
	if vb.Value.IsException() || !vb.OID.HasPrefix(bases[idx]) || vb.OID.Compare(cursors[idx]) <= 0 {
		done[idx] = true
		return nil
	}
	if err := fn(vb); err != nil {
		return err
	}
	cursors[idx] = vb.OID
	return nil
}

func pendingIndices(done []bool) []int {
	var out []int
	for i, d := range done {
		if !d {
			out = append(out, i)
		}
	}
	return out
}

func walkGetNextRound(ctx context.Context, send Requester, cursors []mib.OID, pending []int) (*pdu.PDU, error) {
	req := &pdu.PDU{Type: pdu.TypeGetNext}
	for _, idx := range pending {
		req.Varbinds = append(req.Varbinds, pdu.Varbind{OID: cursors[idx], Value: pdu.Value{Kind: pdu.KindNull}})
	}
	return send(ctx, req)
}

func walkGetBulkRound(ctx context.Context, send Requester, cursors []mib.OID, pending []int, maxReps int32) (*pdu.PDU, error) {
	req := &pdu.PDU{Type: pdu.TypeGetBulk}
	req.SetNonRepeaters(0)
	req.SetMaxRepetitions(maxReps)
	for _, idx := range pending {
		req.Varbinds = append(req.Varbinds, pdu.Varbind{OID: cursors[idx], Value: pdu.Value{Kind: pdu.KindNull}})
	}
	return send(ctx, req)
}
