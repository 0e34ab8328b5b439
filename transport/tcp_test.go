package transport

import (
	"bufio"
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/golangsnmp/snmpcore/internal/types"
)

func TestReadBERFrameShortForm(t *testing.T) {
	msg := []byte{0x30, 0x03, 0x01, 0x02, 0x03}
	r := bufio.NewReader(bytes.NewReader(msg))
	frame, err := readBERFrame(r)
	require.NoError(t, err)
	assert.Equal(t, msg, frame)
}

func TestReadBERFrameLongForm(t *testing.T) {
	content := bytes.Repeat([]byte{0xAB}, 200)
	msg := append([]byte{0x30, 0x81, 0xC8}, content...)
	r := bufio.NewReader(bytes.NewReader(msg))
	frame, err := readBERFrame(r)
	require.NoError(t, err)
	assert.Equal(t, msg, frame)
}

func TestTCPListenDialRoundTrip(t *testing.T) {
	server, err := ListenTCP("127.0.0.1:0", types.Logger{})
	require.NoError(t, err)
	defer server.Close()

	client, err := DialTCP(server.LocalAddr().String(), types.Logger{})
	require.NoError(t, err)
	defer client.Close()

	msg := []byte{0x30, 0x03, 0x02, 0x01, 0x07}
	require.NoError(t, client.Send(context.Background(), &tcpTestAddr{s: server.LocalAddr().String()}, msg))

	select {
	case dg := <-server.Receive():
		assert.Equal(t, msg, dg.Data)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for tcp frame")
	}
}

type tcpTestAddr struct{ s string }

func (a *tcpTestAddr) Network() string { return "tcp" }
func (a *tcpTestAddr) String() string  { return a.s }
