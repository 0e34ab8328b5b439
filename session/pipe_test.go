package session

import (
	"context"
	"net"

	"github.com/golangsnmp/snmpcore/transport"
)

// pipeTransport is an in-process transport.Transport that forwards every
// Send straight onto its peer's receive channel, for session tests that
// need two sessions talking to each other without a real socket.
type pipeTransport struct {
	addr    net.Addr
	peer    *pipeTransport
	recvCh  chan transport.Datagram
	closeCh chan struct{}
}

func newPipePair(addrA, addrB string) (*pipeTransport, *pipeTransport) {
	a := &pipeTransport{addr: wireAddr{network: "test", addr: addrA}, recvCh: make(chan transport.Datagram, 16), closeCh: make(chan struct{})}
	b := &pipeTransport{addr: wireAddr{network: "test", addr: addrB}, recvCh: make(chan transport.Datagram, 16), closeCh: make(chan struct{})}
	a.peer, b.peer = b, a
	return a, b
}

func (p *pipeTransport) Send(ctx context.Context, addr net.Addr, data []byte) error {
	msg := append([]byte(nil), data...)
	select {
	case p.peer.recvCh <- transport.Datagram{Addr: p.addr, Data: msg}:
	case <-p.closeCh:
	case <-p.peer.closeCh:
	}
	return nil
}

func (p *pipeTransport) Receive() <-chan transport.Datagram { return p.recvCh }

func (p *pipeTransport) LocalAddr() net.Addr { return p.addr }

func (p *pipeTransport) Close() error {
	close(p.closeCh)
	return nil
}
