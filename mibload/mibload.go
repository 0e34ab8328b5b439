// Package mibload is the connective piece between the smi parser and
// the resolver: it reads MIB source text from a Source, parses each
// file, fills in every built-in base SMI module that wasn't itself
// supplied (whether or not a loaded file imports it), and links everything into one
// *mib.Mib via resolver.Resolve. A plain synchronous pass — the target
// is a bounded, host-controlled MIB directory, not auto-discovery.
package mibload

import (
	"fmt"
	"log/slog"
	"os"
	"slices"

	"github.com/golangsnmp/snmpcore/internal/resolver"
	"github.com/golangsnmp/snmpcore/internal/smi"
	"github.com/golangsnmp/snmpcore/internal/types"
	"github.com/golangsnmp/snmpcore/mib"
)

// Options configures Load and LoadManifest.
type Options struct {
	Logger     *slog.Logger
	DiagConfig mib.DiagnosticConfig
	// Modules, if non-empty, restricts the loaded result to exactly
	// these module names. Every file is still parsed far enough to
	// learn its name, and any file whose module is not in this set is
	// dropped before resolution. The built-in base SMI modules are
	// added afterwards regardless of this set.
	Modules []string
}

// Option is a functional option for Load/LoadManifest.
type Option func(*Options)

func WithLogger(l *slog.Logger) Option { return func(o *Options) { o.Logger = l } }

func WithDiagnosticConfig(c mib.DiagnosticConfig) Option {
	return func(o *Options) { o.DiagConfig = c }
}

func WithModules(names ...string) Option {
	return func(o *Options) { o.Modules = names }
}

func resolveOptions(opts []Option) Options {
	o := Options{DiagConfig: mib.DefaultConfig()}
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

type loadedModule struct {
	mod   *smi.Module
	bytes []byte
}

// Load parses every file exposed by sources and links the result into
// a single *mib.Mib. A source that fails to list or read its files
// makes Load return a nil Mib and that error. Otherwise the Mib is
// never nil: a source with no usable files still resolves to an empty
// repository plus the base SMI modules, matching resolver.Resolve's
// own tolerance for partial input, and the returned error is non-nil
// only when diagConfig's FailAt threshold is breached by an
// accumulated diagnostic.
func Load(sources []Source, opts ...Option) (*mib.Mib, error) {
	o := resolveOptions(opts)
	log := types.Logger{L: o.Logger}
	allowed := allowlist(o.Modules)

	found := make(map[string]loadedModule)
	for _, src := range sources {
		files, err := src.Files()
		if err != nil {
			return nil, fmt.Errorf("mibload: list files: %w", err)
		}
		for _, name := range files {
			content, err := src.Read(name)
			if err != nil {
				return nil, fmt.Errorf("mibload: read %s: %w", name, err)
			}
			mod := decode(content, o)
			if mod == nil || mod.Name == "" {
				continue
			}
			if !allowed(mod.Name) {
				log.Debug("module excluded by allowlist", slog.String("module", mod.Name))
				continue
			}
			if _, exists := found[mod.Name]; exists {
				log.Debug("duplicate module definition ignored", slog.String("module", mod.Name), slog.String("file", name))
				continue
			}
			found[mod.Name] = loadedModule{mod: mod, bytes: content}
		}
	}

	for _, name := range smi.BaseModuleNames() {
		if _, ok := found[name]; ok {
			continue
		}
		if base := smi.BaseModule(name); base != nil {
			found[name] = loadedModule{mod: base}
		}
	}

	names := make([]string, 0, len(found))
	for name := range found {
		names = append(names, name)
	}
	slices.Sort(names)

	srcs := make([]resolver.Source, 0, len(names))
	for _, name := range names {
		lm := found[name]
		srcs = append(srcs, resolver.Source{Module: lm.mod, Bytes: lm.bytes})
	}

	m := resolver.Resolve(srcs, resolver.Options{Logger: o.Logger, DiagConfig: o.DiagConfig})
	return m, checkThreshold(m, o.DiagConfig)
}

// LoadManifest loads the repository a mib.Manifest sidecar describes:
// the frozen image when one is named and still valid, otherwise the
// manifest's directories, restricted to its module allowlist. A stale
// or unreadable frozen image silently falls back to reparsing, the
// manifest's documented contract.
func LoadManifest(path string, opts ...Option) (*mib.Mib, error) {
	man, err := mib.LoadManifest(path)
	if err != nil {
		return nil, err
	}
	if man.Frozen != "" {
		if data, err := os.ReadFile(man.Frozen); err == nil {
			if m, err := mib.Thaw(data); err == nil {
				return m, nil
			}
		}
	}
	if len(man.Modules) > 0 {
		opts = append(opts, WithModules(man.Modules...))
	}
	sources := make([]Source, 0, len(man.Dirs))
	for _, d := range man.Dirs {
		sources = append(sources, Dir{Path: d, Recurse: false})
	}
	return Load(sources, opts...)
}

// decode parses one file's content. A parse failure severe enough to
// leave no module name is logged and skipped rather than aborting the
// whole load — consistent with resolver.Resolve's own policy of
// degrading gracefully around bad input.
func decode(content []byte, o Options) *smi.Module {
	mod := smi.Parse(content, o.Logger, o.DiagConfig)
	if mod.Name == "" {
		return nil
	}
	return mod
}

func allowlist(names []string) func(string) bool {
	if len(names) == 0 {
		return func(string) bool { return true }
	}
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return func(name string) bool { return set[name] }
}

func checkThreshold(m *mib.Mib, cfg mib.DiagnosticConfig) error {
	for _, d := range m.Diagnostics() {
		if cfg.ShouldFail(d.Severity) {
			return fmt.Errorf("mibload: diagnostic threshold exceeded: [%s] %s: %s", d.Module, d.Code, d.Message)
		}
	}
	return nil
}
