package mib

import "testing"

func TestDiagnosticString(t *testing.T) {
	cases := []struct {
		d    Diagnostic
		want string
	}{
		{
			Diagnostic{Severity: SeverityError, Module: "IF-MIB", Line: 12, Column: 3, Message: "bad syntax"},
			"[error] IF-MIB:12:3: bad syntax",
		},
		{
			Diagnostic{Severity: SeverityWarning, Module: "IF-MIB", Line: 12, Message: "odd name"},
			"[warning] IF-MIB:12: odd name",
		},
		{
			Diagnostic{Severity: SeverityWarning, Module: "IF-MIB", Message: "odd name"},
			"[warning] IF-MIB: odd name",
		},
		{
			Diagnostic{Severity: SeverityFatal, Message: "no module"},
			"[fatal] no module",
		},
	}
	for _, c := range cases {
		if got := c.d.String(); got != c.want {
			t.Errorf("String() = %q, want %q", got, c.want)
		}
	}
}

func TestConfigShouldReportLevels(t *testing.T) {
	normal := DefaultConfig()
	if !normal.ShouldReport("parse-error", SeverityError) {
		t.Error("normal config must report errors")
	}
	if normal.ShouldReport("identifier-underscore", SeverityWarning) {
		t.Error("normal config suppresses warnings")
	}

	strict := StrictConfig()
	if !strict.ShouldReport("anything", SeverityInfo) {
		t.Error("strict config reports everything")
	}

	silent := DiagnosticConfig{Level: StrictnessSilent}
	if silent.ShouldReport("parse-error", SeverityFatal) {
		t.Error("silent config reports nothing")
	}
}

func TestConfigIgnoreAndOverrides(t *testing.T) {
	perm := PermissiveConfig()
	if perm.ShouldReport("identifier-underscore", SeverityError) {
		t.Error("permissive config ignores identifier-* outright")
	}

	cfg := DiagnosticConfig{
		Level:     StrictnessNormal,
		Overrides: map[string]Severity{"import-not-found": SeverityInfo},
	}
	if cfg.ShouldReport("import-not-found", SeverityError) {
		t.Error("an override to info drops the code below the normal cutoff")
	}
}

func TestConfigShouldFail(t *testing.T) {
	cfg := DefaultConfig()
	if !cfg.ShouldFail(SeverityFatal) || !cfg.ShouldFail(SeveritySevere) {
		t.Error("default config fails on severe and worse")
	}
	if cfg.ShouldFail(SeverityError) {
		t.Error("default config tolerates plain errors")
	}
}

func TestGlobMatch(t *testing.T) {
	cases := []struct {
		pattern, s string
		want       bool
	}{
		{"identifier-*", "identifier-underscore", true},
		{"identifier-*", "parse-error", false},
		{"*-error", "parse-error", true},
		{"exact", "exact", true},
		{"exact", "other", false},
	}
	for _, c := range cases {
		if globMatch(c.pattern, c.s) != c.want {
			t.Errorf("globMatch(%q, %q) != %v", c.pattern, c.s, c.want)
		}
	}
}
