package transport

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/golangsnmp/snmpcore/internal/types"
)

func TestUDPSendReceiveRoundTrip(t *testing.T) {
	server, err := ListenUDP("127.0.0.1:0", types.Logger{})
	require.NoError(t, err)
	defer server.Close()

	client, err := ListenUDP("127.0.0.1:0", types.Logger{})
	require.NoError(t, err)
	defer client.Close()

	ctx := context.Background()
	require.NoError(t, client.Send(ctx, server.LocalAddr(), []byte("hello")))

	select {
	case dg := <-server.Receive():
		assert.Equal(t, []byte("hello"), dg.Data)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for datagram")
	}
}
