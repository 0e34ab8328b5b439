package transport

import (
	"bufio"
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"net"

	"github.com/golangsnmp/snmpcore/internal/types"
)

// muxDefaultAddr is the fixed localhost co-process address spec.md §6
// specifies for the privileged trap multiplexer.
const muxDefaultAddr = "localhost:1702"

// MuxClient implements the privileged trap-multiplexer protocol of
// spec.md §6: when the engine cannot bind port 162 directly, it
// connects here instead and receives one framed record per trap,
// forwarded from whichever process holds the real privileged socket.
type MuxClient struct {
	conn    net.Conn
	recvCh  chan Datagram
	closeCh chan struct{}
	logger  types.Logger
}

// DialMuxClient connects to addr (muxDefaultAddr if empty) and starts
// decoding the fixed record framing into Datagrams.
func DialMuxClient(addr string, logger types.Logger) (*MuxClient, error) {
	if addr == "" {
		addr = muxDefaultAddr
	}
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("transport: dial trap multiplexer %s: %w", addr, err)
	}
	m := &MuxClient{
		conn:    conn,
		recvCh:  make(chan Datagram, 64),
		closeCh: make(chan struct{}),
		logger:  logger,
	}
	go m.readLoop()
	return m, nil
}

// muxRecordHeader is the fixed 12-byte header preceding each record's
// variable-length payload: u8 version, u8 reserved, u16 src_port (network
// order), u32 src_addr (network order, IPv4), u32 length (network order).
type muxRecordHeader struct {
	Version byte
	SrcPort uint16
	SrcAddr [4]byte
	Length  uint32
}

func (m *MuxClient) readLoop() {
	defer close(m.recvCh)
	r := bufio.NewReader(m.conn)
	header := make([]byte, 12)
	for {
		if _, err := io.ReadFull(r, header); err != nil {
			select {
			case <-m.closeCh:
			default:
				if err != io.EOF {
					m.logger.Warn("transport: mux header read error")
				}
			}
			return
		}
		rec := muxRecordHeader{
			Version: header[0],
			SrcPort: binary.BigEndian.Uint16(header[2:4]),
			Length:  binary.BigEndian.Uint32(header[8:12]),
		}
		copy(rec.SrcAddr[:], header[4:8])

		body := make([]byte, rec.Length)
		if _, err := io.ReadFull(r, body); err != nil {
			m.logger.Warn("transport: mux body read error")
			return
		}
		addr := &net.UDPAddr{IP: net.IP(rec.SrcAddr[:]), Port: int(rec.SrcPort)}
		select {
		case m.recvCh <- Datagram{Addr: addr, Data: body}:
		case <-m.closeCh:
			return
		}
	}
}

// Send fails: the multiplexer link only carries forwarded traps toward
// the engine. A listener that must acknowledge informs needs a
// directly-bound UDP transport instead.
func (m *MuxClient) Send(ctx context.Context, addr net.Addr, data []byte) error {
	return fmt.Errorf("transport: trap multiplexer is receive-only")
}

func (m *MuxClient) Receive() <-chan Datagram { return m.recvCh }

func (m *MuxClient) LocalAddr() net.Addr { return m.conn.LocalAddr() }

func (m *MuxClient) Close() error {
	close(m.closeCh)
	return m.conn.Close()
}
