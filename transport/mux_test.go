package transport

import (
	"encoding/binary"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/golangsnmp/snmpcore/internal/types"
)

func TestMuxClientDecodesOneRecord(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		payload := []byte{0x30, 0x03, 0x02, 0x01, 0x09}
		header := make([]byte, 12)
		header[0] = 1 // version
		binary.BigEndian.PutUint16(header[2:4], 1234)
		copy(header[4:8], net.IPv4(10, 0, 0, 5).To4())
		binary.BigEndian.PutUint32(header[8:12], uint32(len(payload)))
		conn.Write(header)
		conn.Write(payload)
	}()

	client, err := DialMuxClient(ln.Addr().String(), types.Logger{})
	require.NoError(t, err)
	defer client.Close()

	select {
	case dg := <-client.Receive():
		assert.Equal(t, []byte{0x30, 0x03, 0x02, 0x01, 0x09}, dg.Data)
		udpAddr, ok := dg.Addr.(*net.UDPAddr)
		require.True(t, ok)
		assert.Equal(t, 1234, udpAddr.Port)
		assert.True(t, udpAddr.IP.Equal(net.IPv4(10, 0, 0, 5)))
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for mux record")
	}
}
