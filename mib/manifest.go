package mib

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Manifest is an optional YAML sidecar describing where a host's MIB
// modules live and which of them should be loaded. It lets an embedder
// point the repository at a module directory (e.g. /usr/share/snmp/mibs)
// without writing Go code to enumerate files.
type Manifest struct {
	// Dirs lists directories searched, in order, for module source files.
	Dirs []string `yaml:"dirs" mapstructure:"dirs"`

	// Modules, if non-empty, restricts loading to exactly these module
	// names (as they appear in each file's DEFINITIONS clause). An empty
	// list loads every module found under Dirs.
	Modules []string `yaml:"modules" mapstructure:"modules"`

	// Frozen, if set, names a frozen-image file (see Freeze/Thaw) to load
	// instead of reparsing Dirs, falling back to Dirs on a version
	// mismatch or read failure.
	Frozen string `yaml:"frozen" mapstructure:"frozen"`
}

// LoadManifest reads a Manifest from path using viper, which makes the
// sidecar format flexible (YAML by default, but TOML/JSON/INI work too
// since the host only needs to hand the engine a Manifest value).
func LoadManifest(path string) (*Manifest, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("mib: load manifest %s: %w", path, err)
	}
	var m Manifest
	if err := v.Unmarshal(&m); err != nil {
		return nil, fmt.Errorf("mib: parse manifest %s: %w", path, err)
	}
	return &m, nil
}

// Save writes the manifest to path as YAML. Paired with Freeze, this
// lets a tool that pre-compiles a MIB directory emit both the frozen
// image and the sidecar pointing at it in one pass.
func (m *Manifest) Save(path string) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("mib: marshal manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("mib: save manifest %s: %w", path, err)
	}
	return nil
}

// Allows reports whether moduleName is permitted by this manifest's
// Modules allowlist. An empty allowlist permits everything.
func (m *Manifest) Allows(moduleName string) bool {
	if m == nil || len(m.Modules) == 0 {
		return true
	}
	for _, name := range m.Modules {
		if name == moduleName {
			return true
		}
	}
	return false
}
