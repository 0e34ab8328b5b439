package transport

import (
	"context"
	"fmt"
	"log/slog"
	"net"

	"github.com/golangsnmp/snmpcore/internal/types"
)

// maxDatagramSize is the largest UDP payload this transport will read
// per packet; SNMP datagrams rarely approach the 65507-byte UDP ceiling
// but the engine's own msgMaxSize never advertises more.
const maxDatagramSize = 65507

// UDP is a connectionless transport over a single bound
// net.PacketConn, the default for command generator/responder traffic
// on port 161 and notifications on port 162 (spec.md §6).
type UDP struct {
	conn    net.PacketConn
	recvCh  chan Datagram
	closeCh chan struct{}
	logger  types.Logger
}

// ListenUDP binds addr (":0" for an ephemeral client-only socket, or a
// fixed "host:161"/"host:162" for a responder/listener) and starts the
// background read loop.
func ListenUDP(addr string, logger types.Logger) (*UDP, error) {
	conn, err := net.ListenPacket("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("transport: listen udp %s: %w", addr, err)
	}
	u := &UDP{
		conn:    conn,
		recvCh:  make(chan Datagram, 64),
		closeCh: make(chan struct{}),
		logger:  logger,
	}
	go u.readLoop()
	return u, nil
}

func (u *UDP) readLoop() {
	defer close(u.recvCh)
	buf := make([]byte, maxDatagramSize)
	for {
		n, addr, err := u.conn.ReadFrom(buf)
		if err != nil {
			select {
			case <-u.closeCh:
				return
			default:
				u.logger.Warn("transport: udp read error", slog.Any("error", err))
				return
			}
		}
		msg := make([]byte, n)
		copy(msg, buf[:n])
		select {
		case u.recvCh <- Datagram{Addr: addr, Data: msg}:
		case <-u.closeCh:
			return
		}
	}
}

func (u *UDP) Send(ctx context.Context, addr net.Addr, data []byte) error {
	_, err := u.conn.WriteTo(data, addr)
	if err != nil {
		return fmt.Errorf("transport: udp send to %s: %w", addr, err)
	}
	return nil
}

func (u *UDP) Receive() <-chan Datagram { return u.recvCh }

func (u *UDP) LocalAddr() net.Addr { return u.conn.LocalAddr() }

func (u *UDP) Close() error {
	close(u.closeCh)
	return u.conn.Close()
}
