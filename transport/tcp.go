package transport

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"

	"github.com/golangsnmp/snmpcore/internal/types"
)

// TCP is a stream transport framing SNMP messages exactly as the outer
// BER SEQUENCE's own tag+length delimits them (spec.md §6): no
// additional length prefix is added, since the encoding is already
// self-delimiting.
type TCP struct {
	ln      net.Listener // nil in dial-only (client) mode
	mu      sync.Mutex
	conns   map[string]net.Conn
	recvCh  chan Datagram
	closeCh chan struct{}
	logger  types.Logger
}

// ListenTCP binds addr and accepts connections, framing each one's
// inbound messages onto the shared receive channel.
func ListenTCP(addr string, logger types.Logger) (*TCP, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("transport: listen tcp %s: %w", addr, err)
	}
	t := &TCP{
		ln:      ln,
		conns:   make(map[string]net.Conn),
		recvCh:  make(chan Datagram, 64),
		closeCh: make(chan struct{}),
		logger:  logger,
	}
	go t.acceptLoop()
	return t, nil
}

// DialTCP opens a single outbound connection for a generator/notifier
// session talking to one peer.
func DialTCP(addr string, logger types.Logger) (*TCP, error) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("transport: dial tcp %s: %w", addr, err)
	}
	t := &TCP{
		conns:   make(map[string]net.Conn),
		recvCh:  make(chan Datagram, 64),
		closeCh: make(chan struct{}),
		logger:  logger,
	}
	t.track(conn)
	go t.readConn(conn)
	return t, nil
}

func (t *TCP) track(conn net.Conn) {
	t.mu.Lock()
	t.conns[conn.RemoteAddr().String()] = conn
	t.mu.Unlock()
}

func (t *TCP) untrack(conn net.Conn) {
	t.mu.Lock()
	delete(t.conns, conn.RemoteAddr().String())
	t.mu.Unlock()
}

func (t *TCP) acceptLoop() {
	for {
		conn, err := t.ln.Accept()
		if err != nil {
			select {
			case <-t.closeCh:
				return
			default:
				t.logger.Warn("transport: tcp accept error", slog.Any("error", err))
				return
			}
		}
		t.track(conn)
		go t.readConn(conn)
	}
}

// readConn frames successive messages off conn by reading the BER
// SEQUENCE tag, decoding its length (short or long form), then reading
// exactly that many content bytes.
func (t *TCP) readConn(conn net.Conn) {
	defer func() {
		t.untrack(conn)
		conn.Close()
	}()
	r := bufio.NewReader(conn)
	for {
		msg, err := readBERFrame(r)
		if err != nil {
			if err != io.EOF {
				t.logger.Warn("transport: tcp frame error", slog.Any("error", err))
			}
			return
		}
		select {
		case t.recvCh <- Datagram{Addr: conn.RemoteAddr(), Data: msg}:
		case <-t.closeCh:
			return
		}
	}
}

// readBERFrame reads one complete tag+length+content TLV from r.
func readBERFrame(r *bufio.Reader) ([]byte, error) {
	tag, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	lenByte, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	header := []byte{tag, lenByte}
	var contentLen int
	if lenByte&0x80 == 0 {
		contentLen = int(lenByte)
	} else {
		n := int(lenByte &^ 0x80)
		lenBytes := make([]byte, n)
		if _, err := io.ReadFull(r, lenBytes); err != nil {
			return nil, err
		}
		header = append(header, lenBytes...)
		for _, b := range lenBytes {
			contentLen = contentLen<<8 | int(b)
		}
	}
	content := make([]byte, contentLen)
	if _, err := io.ReadFull(r, content); err != nil {
		return nil, err
	}
	return append(header, content...), nil
}

func (t *TCP) Send(ctx context.Context, addr net.Addr, data []byte) error {
	t.mu.Lock()
	conn, ok := t.conns[addr.String()]
	t.mu.Unlock()
	if !ok {
		return fmt.Errorf("transport: no tcp connection to %s", addr)
	}
	_, err := conn.Write(data)
	if err != nil {
		return fmt.Errorf("transport: tcp send to %s: %w", addr, err)
	}
	return nil
}

func (t *TCP) Receive() <-chan Datagram { return t.recvCh }

func (t *TCP) LocalAddr() net.Addr {
	if t.ln != nil {
		return t.ln.Addr()
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, c := range t.conns {
		return c.LocalAddr()
	}
	return nil
}

func (t *TCP) Close() error {
	close(t.closeCh)
	t.mu.Lock()
	conns := make([]net.Conn, 0, len(t.conns))
	for _, c := range t.conns {
		conns = append(conns, c)
	}
	t.mu.Unlock()
	for _, c := range conns {
		c.Close()
	}
	if t.ln != nil {
		return t.ln.Close()
	}
	return nil
}
