// Package config loads responder and session configuration the way
// spec.md §3's Session fields are populated by an embedding host, from
// YAML/TOML/JSON/env via viper — an embeddable loader, not a CLI
// (SPEC_FULL.md §2). It is grounded in edgeo-scada-snmp's
// cmd/edgeo-snmp/root.go (viper-backed config with env overlay) and
// kazuyuki114-snmp_collector's pkg/snmpcollector/config/loader.go
// (typed decode target, defaults merged onto per-entry overrides).
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/golangsnmp/snmpcore/engine"
	"github.com/golangsnmp/snmpcore/mib"
	"github.com/golangsnmp/snmpcore/session"
	"github.com/golangsnmp/snmpcore/usm"
)

// ResponderDefaults holds the MIB-II system-group values a responder
// auto-populates (spec.md §6).
type ResponderDefaults struct {
	SysDescr    string `mapstructure:"sys_descr"`
	SysObjectID string `mapstructure:"sys_object_id"`
	SysContact  string `mapstructure:"sys_contact"`
	SysName     string `mapstructure:"sys_name"`
	SysLocation string `mapstructure:"sys_location"`
	SysServices int32  `mapstructure:"sys_services"`
	Listen      string `mapstructure:"listen"`
}

// V3User is one entry of a v3 user table: the USM identity a session
// authenticates as (spec.md §3's "v3 user name ... auth/priv
// passwords").
type V3User struct {
	AuthProtocol  string `mapstructure:"auth_protocol"` // "", "md5", "sha"
	AuthPassword  string `mapstructure:"auth_password"`
	SecurityLevel string `mapstructure:"security_level"` // "noAuth", "auth"
}

// SessionEntry is one named session's raw, unresolved configuration, as
// it appears under the `sessions:` key of a config file.
type SessionEntry struct {
	Peer              string        `mapstructure:"peer"`
	Port              int           `mapstructure:"port"`
	Transport         string        `mapstructure:"transport"` // "udp"|"tcp"
	Version           string        `mapstructure:"version"`   // "1"|"2c"|"3"
	Community         string        `mapstructure:"community"`
	UserName          string        `mapstructure:"user"`
	ContextName       string        `mapstructure:"context"`
	Timeout           time.Duration `mapstructure:"timeout"`
	Retries           int           `mapstructure:"retries"`
	Window            int           `mapstructure:"window"`
	InterRequestDelay time.Duration `mapstructure:"inter_request_delay"`
	Tags              []string      `mapstructure:"tags"`
	Enterprise        string        `mapstructure:"enterprise"`
}

// File is the top-level decode target of a configuration document: a
// responder's auto-populated defaults, its v3 user table, the MIB
// search manifest (mib.Manifest, reused verbatim so the same sidecar
// shape works standalone or embedded here), and a named table of
// generator/notifier/listener peer sessions — the shape
// edgeo-scada-snmp's root.go and kazuyuki114-snmp_collector's
// loader.go both decode from viper/yaml into typed structs.
type File struct {
	Responder ResponderDefaults       `mapstructure:"responder"`
	Users     map[string]V3User       `mapstructure:"users"`
	MIB       mib.Manifest            `mapstructure:"mib"`
	Sessions  map[string]SessionEntry `mapstructure:"sessions"`
}

// Load reads path (YAML/TOML/JSON/INI — whichever extension viper
// recognizes) and overlays environment variables prefixed SNMPCORE_
// (e.g. SNMPCORE_RESPONDER_SYS_CONTACT), the same file-then-env
// precedence edgeo-scada-snmp's initConfig applies to its CLI flags.
func Load(path string) (*File, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix("SNMPCORE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	var f File
	if err := v.Unmarshal(&f); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}
	return &f, nil
}

// SessionConfig resolves the named session entry into a session.Config,
// filling in the v3 fields from the matching Users entry and applying
// package-wide responder defaults, the way
// kazuyuki114-snmp_collector's resolveDevice merges per-device
// overrides onto DeviceDefaults. The caller still assigns Config.Tree
// for a responder — the instance tree is built by the host, not
// decoded from configuration.
func (f *File) SessionConfig(name string) (session.Config, error) {
	entry, ok := f.Sessions[name]
	if !ok {
		return session.Config{}, fmt.Errorf("config: no session named %q", name)
	}

	cfg := session.Config{
		Peer:              entry.Peer,
		Port:              entry.Port,
		Transport:         session.Transport(entry.Transport),
		Community:         entry.Community,
		UserName:          entry.UserName,
		ContextName:       entry.ContextName,
		Timeout:           entry.Timeout,
		Retries:           entry.Retries,
		Window:            entry.Window,
		InterRequestDelay: entry.InterRequestDelay,
		Tags:              entry.Tags,
		SysDescr:          f.Responder.SysDescr,
		SysContact:        f.Responder.SysContact,
		SysName:           f.Responder.SysName,
		SysLocation:       f.Responder.SysLocation,
		SysServices:       f.Responder.SysServices,
	}
	if cfg.Transport == "" {
		cfg.Transport = session.TransportUDP
	}
	if cfg.Port == 0 {
		cfg.Port = 161
	}

	ver, err := parseVersion(entry.Version)
	if err != nil {
		return session.Config{}, fmt.Errorf("config: session %q: %w", name, err)
	}
	cfg.Version = ver

	if f.Responder.SysObjectID != "" {
		oid, err := mib.ParseOID(f.Responder.SysObjectID)
		if err != nil {
			return session.Config{}, fmt.Errorf("config: responder.sys_object_id: %w", err)
		}
		cfg.SysObjectID = oid
	}

	if entry.Enterprise != "" {
		oid, err := mib.ParseOID(entry.Enterprise)
		if err != nil {
			return session.Config{}, fmt.Errorf("config: session %q enterprise: %w", name, err)
		}
		cfg.Enterprise = oid
	}

	if ver == engine.V3 && entry.UserName != "" {
		user, ok := f.Users[entry.UserName]
		if !ok {
			return session.Config{}, fmt.Errorf("config: session %q references unknown user %q", name, entry.UserName)
		}
		cfg.AuthProtocol = parseAuthProtocol(user.AuthProtocol)
		cfg.AuthPassword = user.AuthPassword
		cfg.SecurityLevel = parseSecurityLevel(user.SecurityLevel)
	}

	return cfg, nil
}

func parseVersion(s string) (engine.Version, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "2c", "v2c":
		return engine.V2c, nil
	case "1", "v1":
		return engine.V1, nil
	case "3", "v3":
		return engine.V3, nil
	default:
		return 0, fmt.Errorf("unknown version %q", s)
	}
}

func parseAuthProtocol(s string) usm.AuthProtocol {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "md5":
		return usm.AuthMD5
	case "sha":
		return usm.AuthSHA
	default:
		return usm.AuthNone
	}
}

func parseSecurityLevel(s string) usm.Level {
	if strings.EqualFold(strings.TrimSpace(s), "auth") {
		return usm.LevelAuth
	}
	return usm.LevelNoAuth
}
