package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/golangsnmp/snmpcore/mib"
	"github.com/golangsnmp/snmpcore/pdu"
	"github.com/golangsnmp/snmpcore/usm"
)

func TestEncodeDecodeV1V2c(t *testing.T) {
	p := &pdu.PDU{
		Type:      pdu.TypeGet,
		RequestID: 42,
		Varbinds: []pdu.Varbind{
			{OID: mib.OID{1, 3, 6, 1, 2, 1, 1, 3, 0}, Value: pdu.Value{Kind: pdu.KindNull}},
		},
	}
	raw, err := EncodeV1V2c(V1, "public", p)
	require.NoError(t, err)

	env, err := DecodeEnvelope(raw)
	require.NoError(t, err)
	assert.Equal(t, V1, env.Version)
	assert.Equal(t, "public", env.Community)
	assert.Equal(t, p.RequestID, env.PDU.RequestID)
	assert.Equal(t, p.Varbinds, env.PDU.Varbinds)
}

// TestScenarioS1EncodeGet checks the literal wire bytes spec.md's S1
// scenario describes for a v1 get of sysUpTime.0 with request-id 42.
func TestScenarioS1EncodeGet(t *testing.T) {
	p := &pdu.PDU{
		Type:      pdu.TypeGet,
		RequestID: 42,
		Varbinds: []pdu.Varbind{
			{OID: mib.OID{1, 3, 6, 1, 2, 1, 1, 3, 0}, Value: pdu.Value{Kind: pdu.KindNull}},
		},
	}
	raw, err := EncodeV1V2c(V1, "public", p)
	require.NoError(t, err)

	want := []byte{
		0x30, 0x29, // outer SEQUENCE
		0x02, 0x01, 0x00, // version INTEGER 0
		0x04, 0x06, 'p', 'u', 'b', 'l', 'i', 'c', // community
		0xa0, 0x1c, // GetRequest-PDU
		0x02, 0x01, 0x2a, // request-id 42
		0x02, 0x01, 0x00, // error-status
		0x02, 0x01, 0x00, // error-index
		0x30, 0x11, // varbind-list
		0x30, 0x0f, // varbind
		0x06, 0x08, 0x2b, 0x06, 0x01, 0x02, 0x01, 0x01, 0x03, 0x00, // OID 1.3.6.1.2.1.1.3.0
		0x05, 0x00, // NULL
	}
	assert.Equal(t, want, raw)
}

func TestEncodeDecodeV3Unauthenticated(t *testing.T) {
	p := &pdu.PDU{Type: pdu.TypeGet, RequestID: 7, Varbinds: []pdu.Varbind{
		{OID: mib.OID{1, 3, 6, 1, 2, 1, 1, 1, 0}, Value: pdu.Value{Kind: pdu.KindNull}},
	}}
	raw, err := EncodeV3(99, UsmParams{EngineID: "engine-1", UserName: "alice"}, true, usm.AuthNone, nil, "", "", p)
	require.NoError(t, err)

	env, err := DecodeEnvelope(raw)
	require.NoError(t, err)
	assert.Equal(t, V3, env.Version)
	assert.Equal(t, int32(99), env.MsgID)
	assert.Equal(t, "engine-1", env.Usm.EngineID)
	assert.Equal(t, "alice", env.Usm.UserName)
	assert.False(t, env.Authenticated())
	assert.True(t, env.Reportable())
	assert.Equal(t, p.RequestID, env.PDU.RequestID)
}

func TestEncodeDecodeV3AuthenticatedRoundTrip(t *testing.T) {
	ks := usm.NewKeyStore()
	key := ks.LocalizedKey(usm.AuthSHA, "authpassword", "engine-1")

	p := &pdu.PDU{Type: pdu.TypeGet, RequestID: 7, Varbinds: []pdu.Varbind{
		{OID: mib.OID{1, 3, 6, 1, 2, 1, 1, 1, 0}, Value: pdu.Value{Kind: pdu.KindNull}},
	}}
	raw, err := EncodeV3(100, UsmParams{EngineID: "engine-1", UserName: "alice"}, true, usm.AuthSHA, key, "ctx-engine", "ctx-name", p)
	require.NoError(t, err)

	env, err := DecodeEnvelope(raw)
	require.NoError(t, err)
	require.True(t, env.Authenticated())
	assert.Equal(t, "ctx-engine", env.ContextEngineID)
	assert.Equal(t, "ctx-name", env.ContextName)

	assert.True(t, usm.Verify(usm.AuthSHA, key, env.Raw, env.AuthParamsStart))

	tampered := append([]byte(nil), env.Raw...)
	tampered[len(tampered)-1] ^= 0xFF
	assert.False(t, usm.Verify(usm.AuthSHA, key, tampered, env.AuthParamsStart))
}

// A message whose outer SEQUENCE needs a long-form length shifts every
// byte right when the length field is patched; the located
// authentication-parameters window must survive that shift.
func TestEncodeV3AuthenticatedLongFormLength(t *testing.T) {
	ks := usm.NewKeyStore()
	key := ks.LocalizedKey(usm.AuthMD5, "maplesyrup", "engine-long")

	p := &pdu.PDU{Type: pdu.TypeGet, RequestID: 7}
	for i := uint32(0); i < 24; i++ {
		p.Varbinds = append(p.Varbinds, pdu.Varbind{
			OID:   mib.OID{1, 3, 6, 1, 2, 1, 2, 2, 1, 1, i},
			Value: pdu.Value{Kind: pdu.KindNull},
		})
	}
	raw, err := EncodeV3(101, UsmParams{EngineID: "engine-long", UserName: "bob"}, true, usm.AuthMD5, key, "engine-long", "", p)
	require.NoError(t, err)
	require.Greater(t, len(raw), 130)

	env, err := DecodeEnvelope(raw)
	require.NoError(t, err)
	require.True(t, env.Authenticated())
	assert.True(t, usm.Verify(usm.AuthMD5, key, env.Raw, env.AuthParamsStart))
}

func TestCanonicalizeTrapV1ScenarioS2(t *testing.T) {
	p := &pdu.PDU{
		Type:         pdu.TypeTrapV1,
		Enterprise:   mib.OID{1, 3, 6, 1, 4, 1, 9},
		AgentAddr:    [4]byte{10, 0, 0, 1},
		GenericTrap:  2, // linkDown
		SpecificTrap: 0,
		Timestamp:    12345,
		Varbinds: []pdu.Varbind{
			{OID: mib.OID{1, 3, 6, 1, 2, 1, 2, 2, 1, 1, 7}, Value: pdu.Value{Kind: pdu.KindInteger, Int: 7}},
		},
	}
	out := CanonicalizeTrapV1(p)
	require.Len(t, out.Varbinds, 4)
	assert.Equal(t, oidSysUpTime, out.Varbinds[0].OID)
	assert.Equal(t, pdu.Value{Kind: pdu.KindTimeTicks, Int: 12345}, out.Varbinds[0].Value)
	assert.Equal(t, oidSnmpTrapOID, out.Varbinds[1].OID)
	assert.Equal(t, mib.OID{1, 3, 6, 1, 6, 3, 1, 1, 5, 3}, out.Varbinds[1].Value.OID)
	assert.Equal(t, mib.OID{1, 3, 6, 1, 2, 1, 2, 2, 1, 1, 7}, out.Varbinds[2].OID)
	assert.Equal(t, oidSnmpTrapEnterpris, out.Varbinds[3].OID)
}
