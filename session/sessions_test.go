package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/golangsnmp/snmpcore/agent"
	"github.com/golangsnmp/snmpcore/engine"
	"github.com/golangsnmp/snmpcore/mib"
	"github.com/golangsnmp/snmpcore/pdu"
	"github.com/golangsnmp/snmpcore/usm"
)

func testCtx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func managerConfig(version engine.Version) Config {
	return Config{
		Peer:      "127.0.0.1",
		Port:      161,
		Version:   version,
		Community: "public",
		Timeout:   5 * time.Second,
	}
}

// TestScenarioS3WalkSystemGroup walks 1.3.6.1.2.1.1 against a responder
// carrying the auto-populated standard instances and expects exactly the
// seven system-group varbinds, spec.md's S3 scenario over a real
// session pair.
func TestScenarioS3WalkSystemGroup(t *testing.T) {
	mgrWire, agentWire := newPipePair("mgr", "agent")
	eng := engine.New(nil, nil)

	respCfg := managerConfig(engine.V2c)
	respCfg.SysDescr = "test system"
	respCfg.SysObjectID = mib.OID{1, 3, 6, 1, 4, 1, 99999, 1}
	respCfg.SysContact = "ops"
	respCfg.SysName = "box"
	respCfg.SysLocation = "lab"
	respCfg.SysServices = 72
	resp, err := NewResponder("agent", respCfg, agentWire, eng)
	require.NoError(t, err)
	defer resp.Close()

	gen, err := NewGenerator("mgr", managerConfig(engine.V2c), mgrWire, engine.New(nil, nil))
	require.NoError(t, err)
	defer gen.Close()

	var collected []pdu.Varbind
	err = gen.Walk(testCtx(t), []mib.OID{{1, 3, 6, 1, 2, 1, 1}}, func(vb pdu.Varbind) error {
		collected = append(collected, vb)
		return nil
	})
	require.NoError(t, err)
	require.Len(t, collected, 7)
	assert.Equal(t, []byte("test system"), collected[0].Value.Bytes)
	assert.Equal(t, mib.OID{1, 3, 6, 1, 2, 1, 1, 7, 0}, collected[6].OID)
	assert.Equal(t, int64(72), collected[6].Value.Int)
}

func TestGeneratorGetStandardInstance(t *testing.T) {
	mgrWire, agentWire := newPipePair("mgr", "agent")

	respCfg := managerConfig(engine.V2c)
	respCfg.SysContact = "ops@example.net"
	resp, err := NewResponder("agent", respCfg, agentWire, engine.New(nil, nil))
	require.NoError(t, err)
	defer resp.Close()

	gen, err := NewGenerator("mgr", managerConfig(engine.V2c), mgrWire, engine.New(nil, nil))
	require.NoError(t, err)
	defer gen.Close()

	got, err := gen.Get(testCtx(t), []mib.OID{{1, 3, 6, 1, 2, 1, 1, 4, 0}})
	require.NoError(t, err)
	require.Len(t, got.Varbinds, 1)
	assert.Equal(t, []byte("ops@example.net"), got.Varbinds[0].Value.Bytes)
}

// TestScenarioS4InformAcknowledged sends an inform and expects the
// responder's acknowledging response to complete it with no error.
func TestScenarioS4InformAcknowledged(t *testing.T) {
	ntfWire, agentWire := newPipePair("ntf", "agent")

	resp, err := NewResponder("agent", managerConfig(engine.V2c), agentWire, engine.New(nil, nil))
	require.NoError(t, err)
	defer resp.Close()

	var seen *pdu.PDU
	resp.Bind(EventInform, func(ev *Event) { seen = ev.PDU })

	ntf, err := NewNotifier("ntf", managerConfig(engine.V2c), ntfWire, engine.New(nil, nil))
	require.NoError(t, err)
	defer ntf.Close()

	trapOID := mib.OID{1, 3, 6, 1, 4, 1, 1, 1}
	err = ntf.SendInform(testCtx(t), trapOID, []pdu.Varbind{
		{OID: mib.OID{1, 3, 6, 1, 4, 1, 1, 2, 0}, Value: pdu.Value{Kind: pdu.KindInteger, Int: 5}},
	})
	require.NoError(t, err)

	require.NotNil(t, seen)
	// sysUpTime.0 and snmpTrapOID.0 lead, then the caller's varbind.
	require.Len(t, seen.Varbinds, 3)
	assert.Equal(t, oidSysUpTime, seen.Varbinds[0].OID)
	assert.Equal(t, oidSnmpTrapOID0, seen.Varbinds[1].OID)
	assert.Equal(t, trapOID, seen.Varbinds[1].Value.OID)
}

func TestListenerReceivesTrap(t *testing.T) {
	ntfWire, lsnWire := newPipePair("ntf", "lsn")

	lsn := NewListener("lsn", managerConfig(engine.V2c), lsnWire, engine.New(nil, nil))
	defer lsn.Close()

	trapCh := make(chan *pdu.PDU, 1)
	lsn.Bind(EventTrap, func(ev *Event) { trapCh <- ev.PDU })

	ntf, err := NewNotifier("ntf", managerConfig(engine.V2c), ntfWire, engine.New(nil, nil))
	require.NoError(t, err)
	defer ntf.Close()

	trapOID := mib.OID{1, 3, 6, 1, 6, 3, 1, 1, 5, 3} // linkDown
	require.NoError(t, ntf.SendTrap(testCtx(t), trapOID, nil))

	select {
	case p := <-trapCh:
		require.Len(t, p.Varbinds, 2)
		assert.Equal(t, trapOID, p.Varbinds[1].Value.OID)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for trap")
	}
}

// TestScenarioS5SetRetransmissionAnsweredFromCache replays the identical
// encoded set and expects the identical cached response with check and
// commit fired exactly once, spec.md §8 property 7.
func TestScenarioS5SetRetransmissionAnsweredFromCache(t *testing.T) {
	mgrWire, agentWire := newPipePair("mgr", "agent")

	tree := agent.NewTree()
	target := mib.OID{1, 3, 6, 1, 2, 1, 1, 4, 0}
	inst, err := tree.CreateNode(target, mib.AccessReadWrite, agent.NewValueCell(pdu.Value{Kind: pdu.KindOctetString}))
	require.NoError(t, err)
	var checks, commits int
	inst.Bind(agent.EventCheck, func(*agent.Event) error { checks++; return nil })
	inst.Bind(agent.EventCommit, func(*agent.Event) error { commits++; return nil })

	respCfg := managerConfig(engine.V2c)
	respCfg.Tree = tree
	resp, err := NewResponder("agent", respCfg, agentWire, engine.New(nil, nil))
	require.NoError(t, err)
	defer resp.Close()

	setPDU := &pdu.PDU{Type: pdu.TypeSet, RequestID: 77, Varbinds: []pdu.Varbind{
		{OID: target, Value: pdu.Value{Kind: pdu.KindOctetString, Bytes: []byte("new contact")}},
	}}
	msg, err := engine.EncodeV1V2c(engine.V2c, "public", setPDU)
	require.NoError(t, err)

	ctx := testCtx(t)
	recv := func() []byte {
		select {
		case dg := <-mgrWire.Receive():
			return dg.Data
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for set response")
			return nil
		}
	}

	require.NoError(t, mgrWire.Send(ctx, nil, msg))
	first := recv()
	require.NoError(t, mgrWire.Send(ctx, nil, msg))
	second := recv()

	assert.Equal(t, first, second)
	assert.Equal(t, 1, checks)
	assert.Equal(t, 1, commits)
	assert.Equal(t, []byte("new contact"), inst.Cell.Get().Bytes)
}

// TestScenarioS6V3Discovery issues a v3 get with no engine-id configured:
// the responder's REPORT teaches the generator the authoritative engine
// identity, and the retransmitted request succeeds authenticated.
func TestScenarioS6V3Discovery(t *testing.T) {
	mgrWire, agentWire := newPipePair("mgr", "agent")

	respCfg := managerConfig(engine.V3)
	respCfg.UserName = "alice"
	respCfg.AuthProtocol = usm.AuthSHA
	respCfg.AuthPassword = "authpassword"
	respCfg.SecurityLevel = usm.LevelAuth
	respCfg.ContextEngineID = "engine-A"
	respCfg.SysDescr = "v3 box"
	resp, err := NewResponder("agent", respCfg, agentWire, engine.New(nil, nil))
	require.NoError(t, err)
	defer resp.Close()

	genCfg := managerConfig(engine.V3)
	genCfg.UserName = "alice"
	genCfg.AuthProtocol = usm.AuthSHA
	genCfg.AuthPassword = "authpassword"
	genCfg.SecurityLevel = usm.LevelAuth
	gen, err := NewGenerator("mgr", genCfg, mgrWire, engine.New(nil, nil))
	require.NoError(t, err)
	defer gen.Close()

	got, err := gen.Get(testCtx(t), []mib.OID{{1, 3, 6, 1, 2, 1, 1, 1, 0}})
	require.NoError(t, err)
	require.Len(t, got.Varbinds, 1)
	assert.Equal(t, []byte("v3 box"), got.Varbinds[0].Value.Bytes)

	engineID, _, _ := gen.v3.snapshot()
	assert.Equal(t, "engine-A", engineID)
}

func TestFormatTemplateSubstitution(t *testing.T) {
	c := TemplateContext{
		RequestID:   42,
		SessionName: "s0",
		ErrorStatus: pdu.NoError,
		ErrorIndex:  0,
		PeerAddr:    "10.0.0.1",
		PeerPort:    "161",
		PDUType:     "GetRequest",
		Varbinds: []pdu.Varbind{
			{OID: mib.OID{1, 3, 6, 1}, Value: pdu.Value{Kind: pdu.KindInteger, Int: 7}},
		},
	}
	got := FormatTemplate("%T %R from %A:%P [%V] status=%E 100%%", c)
	assert.Equal(t, "GetRequest 42 from 10.0.0.1:161 [1.3.6.1=7] status=noError 100%", got)
}

func TestPerAttemptSplitsTimeoutAcrossRetries(t *testing.T) {
	c := Config{Timeout: 3 * time.Second, Retries: 2}
	assert.Equal(t, time.Second, c.perAttempt())
}
