package session

import (
	"net"
	"strconv"
	"time"

	"github.com/golangsnmp/snmpcore/agent"
	"github.com/golangsnmp/snmpcore/engine"
	"github.com/golangsnmp/snmpcore/mib"
	"github.com/golangsnmp/snmpcore/usm"
)

// Transport names the wire transport a Config's socket uses.
type Transport string

const (
	TransportUDP Transport = "udp"
	TransportTCP Transport = "tcp"
)

// Config is the per-application configuration spec.md §3's Session
// describes: fields shared by every application type, plus the
// generator/notifier-only enterprise OID and the responder-only agent
// tree.
type Config struct {
	Peer      string
	Port      int
	Transport Transport
	Version   engine.Version

	// Community authenticates a v1/v2c session.
	Community string

	// v3 fields (spec.md §3). AuthPassword is localized into a key on
	// first use via the Engine's usm.KeyStore; SecurityLevel selects
	// noAuth or auth (privacy is out of scope per spec.md's Non-goals).
	UserName        string
	ContextName     string
	ContextEngineID string
	EngineBoots     int32
	EngineTime      int32
	SecurityLevel   usm.Level
	AuthProtocol    usm.AuthProtocol
	AuthPassword    string

	Timeout           time.Duration
	Retries           int
	Window            int
	InterRequestDelay time.Duration
	Tags              []string

	// Enterprise, when set, is the enterprise field of every v1 trap a
	// generator/notifier sends, standard snmpTraps.<n> or not; when
	// empty, engine.PrepareOutbound derives it from the notification
	// OID (spec.md §3).
	Enterprise mib.OID
	AgentAddr  [4]byte

	// Tree is the responder's instance tree (spec.md §3: "a responder
	// additionally carries an agent instance tree").
	Tree *agent.Tree

	// Standard instance values a responder auto-populates (spec.md §6).
	SysDescr    string
	SysObjectID mib.OID
	SysContact  string
	SysName     string
	SysLocation string
	SysServices int32
}

// Addr returns the configured peer as a "host:port" string suitable for
// net.Dial / net.ResolveUDPAddr.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Peer, strconv.Itoa(c.Port))
}

func (c Config) retries() int {
	if c.Retries < 0 {
		return 0
	}
	return c.Retries
}

func (c Config) window() int {
	if c.Window <= 0 {
		return 1
	}
	return c.Window
}

func (c Config) timeout() time.Duration {
	if c.Timeout <= 0 {
		return 3 * time.Second
	}
	return c.Timeout
}

// perAttempt is the wait per transmission, timeout/(retries+1), so the
// configured timeout bounds the whole request including retransmissions
// (spec.md §4.4).
func (c Config) perAttempt() time.Duration {
	return c.timeout() / time.Duration(c.retries()+1)
}
