package mib

import (
	"fmt"
	"strings"
)

// Diagnostic is one recoverable problem found while parsing or linking
// a module. Line/Column are 1-based and zero when unknown.
type Diagnostic struct {
	Severity Severity
	Code     string
	Message  string
	Module   string
	Line     int
	Column   int
}

func (d Diagnostic) String() string {
	loc := d.Module
	if loc != "" && d.Line > 0 {
		loc = fmt.Sprintf("%s:%d", loc, d.Line)
		if d.Column > 0 {
			loc = fmt.Sprintf("%s:%d", loc, d.Column)
		}
	}
	if loc == "" {
		return fmt.Sprintf("[%s] %s", d.Severity, d.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", d.Severity, loc, d.Message)
}

// DiagnosticConfig decides which diagnostics are surfaced and which
// severity aborts a load.
type DiagnosticConfig struct {
	// Level suppresses diagnostics less severe than it.
	Level StrictnessLevel

	// FailAt is the severity threshold at which a load counts as
	// failed.
	FailAt Severity

	// Overrides reassigns severities per diagnostic code.
	Overrides map[string]Severity

	// Ignore suppresses matching codes outright; a trailing or leading
	// "*" in an entry matches a prefix or suffix.
	Ignore []string
}

// DefaultConfig reports Minor and worse and fails on Severe.
func DefaultConfig() DiagnosticConfig {
	return DiagnosticConfig{Level: StrictnessNormal, FailAt: SeveritySevere}
}

// StrictConfig reports everything and fails on Severe.
func StrictConfig() DiagnosticConfig {
	return DiagnosticConfig{Level: StrictnessStrict, FailAt: SeveritySevere}
}

// PermissiveConfig tolerates the style violations vendor modules
// routinely ship (underscored or over-long identifiers, case abuse)
// and fails only on Fatal.
func PermissiveConfig() DiagnosticConfig {
	return DiagnosticConfig{
		Level:  StrictnessPermissive,
		FailAt: SeverityFatal,
		Ignore: []string{"identifier-*", "bad-identifier-case"},
	}
}

// ShouldReport decides whether a diagnostic with the given code and
// severity is surfaced under this config.
func (c DiagnosticConfig) ShouldReport(code string, sev Severity) bool {
	for _, pattern := range c.Ignore {
		if globMatch(pattern, code) {
			return false
		}
	}
	if override, ok := c.Overrides[code]; ok {
		sev = override
	}
	switch {
	case c.Level >= StrictnessSilent:
		return false
	case c.Level == StrictnessStrict:
		return true
	default:
		return sev.AtLeast(Severity(c.Level))
	}
}

// ShouldFail decides whether a diagnostic of this severity aborts the
// load.
func (c DiagnosticConfig) ShouldFail(sev Severity) bool { return sev.AtLeast(c.FailAt) }

func globMatch(pattern, s string) bool {
	if rest, ok := strings.CutSuffix(pattern, "*"); ok {
		return strings.HasPrefix(s, rest)
	}
	if rest, ok := strings.CutPrefix(pattern, "*"); ok {
		return strings.HasSuffix(s, rest)
	}
	return pattern == s
}
