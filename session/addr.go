package session

import "net"

// wireAddr satisfies net.Addr for a configured peer without requiring a
// live connection yet, so Send can be called before any reply has been
// received to learn a concrete net.Addr from.
type wireAddr struct {
	network string
	addr    string
}

func (a wireAddr) Network() string { return a.network }
func (a wireAddr) String() string  { return a.addr }

// peerAddr resolves cfg's configured peer into the net.Addr its
// transport expects: a *net.UDPAddr for udp (the address type a UDP
// socket's WriteTo accepts), or a bare wireAddr for tcp (the TCP transport keys its
// connection table by address string, set up at Dial time).
func peerAddr(cfg Config) (net.Addr, error) {
	switch cfg.Transport {
	case TransportTCP:
		return wireAddr{network: "tcp", addr: cfg.Addr()}, nil
	default:
		return net.ResolveUDPAddr("udp", cfg.Addr())
	}
}
