// Package transport implements the UDP/TCP framing of spec.md §6 and
// the privileged trap-multiplexer client protocol, as the thin
// bytes-in/bytes-out layer the session package builds sessions on top
// of. Neither the message engine nor the agent package depends on this
// package; they work in terms of already-decoded envelopes and PDUs.
package transport

import (
	"context"
	"net"
)

// Datagram is one received SNMP message together with its source
// address, the unit both UDP and TCP transports deliver on their
// receive channel.
type Datagram struct {
	Addr net.Addr
	Data []byte
}

// Transport is the seam the session package programs against: send a
// complete BER-encoded message to a peer, and receive a stream of
// inbound messages with their source address. Both UDP and TCP
// implementations, and the trap-multiplexer client, satisfy it.
type Transport interface {
	// Send writes one complete message to addr.
	Send(ctx context.Context, addr net.Addr, data []byte) error

	// Receive delivers the channel of inbound datagrams. The UDP and
	// trap-multiplexer transports close the channel when their read
	// loop ends (on Close or a read error); the TCP transport never
	// closes it.
	Receive() <-chan Datagram

	// LocalAddr returns the transport's bound local address.
	LocalAddr() net.Addr

	Close() error
}
