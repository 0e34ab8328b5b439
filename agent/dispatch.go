package agent

import (
	"errors"

	"github.com/golangsnmp/snmpcore/engine"
	"github.com/golangsnmp/snmpcore/mib"
	"github.com/golangsnmp/snmpcore/pdu"
)

// statusFor maps a binding error to the v1/v2+ error-status it should
// abort the request with: a *BindingError names a specific code, any
// other error defaults to genErr, per spec.md §7's propagation policy.
func statusFor(err error) pdu.ErrorStatus {
	var be *BindingError
	if errors.As(err, &be) {
		return be.Status
	}
	return pdu.GenErr
}

// ProcessGet answers a GetRequest PDU against the tree: each varbind's
// OID is looked up exactly; a registered instance fires its `get`
// binding and returns the cell value, an unregistered OID becomes
// noSuchObject (v2+) or noSuchName (v1).
func (t *Tree) ProcessGet(version engine.Version, req *pdu.PDU) *pdu.PDU {
	resp := &pdu.PDU{Type: pdu.TypeResponse, RequestID: req.RequestID}
	for i, vb := range req.Varbinds {
		inst := t.lookup(vb.OID)
		if inst == nil {
			if version == engine.V1 {
				resp.ErrorStatus = pdu.NoSuchName
				resp.ErrorIndex = int32(i + 1)
				resp.Varbinds = req.Varbinds
				return resp
			}
			resp.Varbinds = append(resp.Varbinds, pdu.Varbind{OID: vb.OID, Value: pdu.Value{Kind: pdu.KindNoSuchObject}})
			continue
		}
		ev := &Event{Kind: EventGet, OID: vb.OID, PDU: req}
		if err := inst.fire(EventGet, ev); err != nil {
			resp.ErrorStatus = statusFor(err)
			if version == engine.V1 {
				resp.ErrorStatus = resp.ErrorStatus.ToV1()
			}
			resp.ErrorIndex = int32(i + 1)
			resp.Varbinds = req.Varbinds
			return resp
		}
		resp.Varbinds = append(resp.Varbinds, pdu.Varbind{OID: vb.OID, Value: inst.Cell.Get()})
	}
	return resp
}

// ProcessGetNext answers a GetNextRequest PDU: each varbind's OID is
// replaced by its lexicographic successor's value, firing that
// successor's `get` binding; an exhausted tree becomes endOfMibView
// (v2+) or the last valid OID with noSuchName (v1, since v1 has no
// endOfMibView exception).
func (t *Tree) ProcessGetNext(version engine.Version, req *pdu.PDU) *pdu.PDU {
	resp := &pdu.PDU{Type: pdu.TypeResponse, RequestID: req.RequestID}
	for i, vb := range req.Varbinds {
		inst := t.next(vb.OID)
		if inst == nil {
			if version == engine.V1 {
				resp.ErrorStatus = pdu.NoSuchName
				resp.ErrorIndex = int32(i + 1)
				resp.Varbinds = req.Varbinds
				return resp
			}
			resp.Varbinds = append(resp.Varbinds, pdu.Varbind{OID: vb.OID, Value: pdu.Value{Kind: pdu.KindEndOfMibView}})
			continue
		}
		ev := &Event{Kind: EventGet, OID: inst.OID, PDU: req}
		if err := inst.fire(EventGet, ev); err != nil {
			resp.ErrorStatus = statusFor(err)
			if version == engine.V1 {
				resp.ErrorStatus = resp.ErrorStatus.ToV1()
			}
			resp.ErrorIndex = int32(i + 1)
			resp.Varbinds = req.Varbinds
			return resp
		}
		resp.Varbinds = append(resp.Varbinds, pdu.Varbind{OID: inst.OID, Value: inst.Cell.Get()})
	}
	return resp
}

// ProcessGetBulk answers a GetBulkRequest PDU (v2+ only): the first
// non-repeaters varbinds behave like GetNext once, the remainder repeat
// up to max-repetitions times, each subsequent round walking from the
// prior round's returned OID.
func (t *Tree) ProcessGetBulk(req *pdu.PDU) *pdu.PDU {
	resp := &pdu.PDU{Type: pdu.TypeResponse, RequestID: req.RequestID}
	nonRepeaters := int(req.NonRepeaters())
	maxReps := int(req.MaxRepetitions())
	if nonRepeaters > len(req.Varbinds) {
		nonRepeaters = len(req.Varbinds)
	}
	cursors := make([]mib.OID, len(req.Varbinds))
	for i, vb := range req.Varbinds {
		cursors[i] = vb.OID
	}
	done := make([]bool, len(req.Varbinds))
	for i := 0; i < nonRepeaters; i++ {
		appendNext(resp, t, cursors, done, i)
	}
	repeaters := req.Varbinds[nonRepeaters:]
	if len(repeaters) == 0 || maxReps <= 0 {
		return resp
	}
	// Rows stay rectangular: an exhausted column keeps contributing
	// endOfMibView for the rest of a round, so a manager can index the
	// result row-major. Once every repeater is exhausted the remaining
	// repetitions are truncated (RFC 3416 §4.2.3 allows this).
	for rep := 0; rep < maxReps; rep++ {
		allDone := true
		for i := nonRepeaters; i < len(req.Varbinds); i++ {
			if !done[i] {
				allDone = false
			}
		}
		if allDone {
			break
		}
		for i := nonRepeaters; i < len(req.Varbinds); i++ {
			appendNext(resp, t, cursors, done, i)
		}
	}
	return resp
}

func appendNext(resp *pdu.PDU, t *Tree, cursors []mib.OID, done []bool, i int) {
	if done[i] {
		resp.Varbinds = append(resp.Varbinds, pdu.Varbind{OID: cursors[i], Value: pdu.Value{Kind: pdu.KindEndOfMibView}})
		return
	}
	inst := t.next(cursors[i])
	if inst == nil {
		resp.Varbinds = append(resp.Varbinds, pdu.Varbind{OID: cursors[i], Value: pdu.Value{Kind: pdu.KindEndOfMibView}})
		done[i] = true
		return
	}
	ev := &Event{Kind: EventGet, OID: inst.OID}
	if err := inst.fire(EventGet, ev); err != nil {
		resp.Varbinds = append(resp.Varbinds, pdu.Varbind{OID: inst.OID, Value: pdu.Value{Kind: pdu.KindEndOfMibView}})
		done[i] = true
		return
	}
	resp.Varbinds = append(resp.Varbinds, pdu.Varbind{OID: inst.OID, Value: inst.Cell.Get()})
	cursors[i] = inst.OID
}

// setStep records the per-varbind state a ProcessSet pass needs to roll
// back: the instance touched, whether it was freshly created by this
// request, and its value before this request's `set` binding ran.
type setStep struct {
	inst       *Instance
	created    bool
	priorValue pdu.Value
}

// ProcessSet answers a SetRequest PDU with the two-phase-commit sequence
// of spec.md §4.6: every varbind's `set` then `check` binding must
// succeed before any `commit` fires; a failure at or before commit rolls
// back every column already processed, in reverse order, restoring
// prior cell values (a freshly created row is left in place at its
// factory default rather than un-created, since instance removal would
// need a second tree mutation pass for no behavioral gain here).
func (t *Tree) ProcessSet(version engine.Version, req *pdu.PDU) *pdu.PDU {
	resp := &pdu.PDU{Type: pdu.TypeResponse, RequestID: req.RequestID}
	steps := make([]setStep, 0, len(req.Varbinds))

	fail := func(idx int, err error) *pdu.PDU {
		t.rollback(steps)
		status := statusFor(err)
		if version == engine.V1 {
			status = status.ToV1()
		}
		resp.ErrorStatus = status
		resp.ErrorIndex = int32(idx + 1)
		resp.Varbinds = req.Varbinds
		return resp
	}

	for i, vb := range req.Varbinds {
		inst := t.lookup(vb.OID)
		created := false
		if inst == nil {
			var err error
			inst, err = t.createRow(vb.OID)
			if err != nil {
				return fail(i, &BindingError{Status: pdu.NoCreation, Msg: err.Error()})
			}
			created = true
		}
		if inst.Access != mib.AccessReadWrite && inst.Access != mib.AccessReadCreate {
			return fail(i, &BindingError{Status: pdu.NotWritable, Msg: "instance is not writable"})
		}
		prior := inst.Cell.Get()
		ev := &Event{Kind: EventSet, OID: inst.OID, PDU: req, Value: vb.Value, Prior: prior, HasPrior: true}
		if err := t.fireChain(EventSet, inst.OID, ev); err != nil {
			return fail(i, err)
		}
		if err := inst.Cell.Set(vb.Value); err != nil {
			return fail(i, err)
		}
		steps = append(steps, setStep{inst: inst, created: created, priorValue: prior})
		ev.Kind = EventCheck
		if err := t.fireChain(EventCheck, inst.OID, ev); err != nil {
			return fail(i, err)
		}
	}

	for _, s := range steps {
		ev := &Event{Kind: EventCommit, OID: s.inst.OID, PDU: req}
		if err := t.fireChain(EventCommit, s.inst.OID, ev); err != nil {
			return fail(len(steps)-1, err)
		}
	}

	resp.Varbinds = req.Varbinds
	return resp
}

// rollback restores every completed step's prior cell value in reverse
// order, firing its `rollback` binding, per spec.md §8 property 8.
func (t *Tree) rollback(steps []setStep) {
	for i := len(steps) - 1; i >= 0; i-- {
		s := steps[i]
		ev := &Event{Kind: EventRollback, OID: s.inst.OID, Prior: s.priorValue, HasPrior: true}
		_ = t.fireChain(EventRollback, s.inst.OID, ev)
		_ = s.inst.Cell.Set(s.priorValue)
	}
}
