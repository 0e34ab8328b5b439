package types

// Diagnostic codes, grouped by which phase raises them. Kept as named
// string constants (rather than a distinct Code type) so every phase
// can build a Diagnostic with one of these or a plain literal without
// a conversion — the set only needs to be collision-free, not a closed
// enum.
const (
	// lexer/parser
	DiagParseError        = "parse-error"
	DiagInvalidU32        = "invalid-u32"
	DiagInvalidI64        = "invalid-i64"
	DiagInvalidHexRange   = "invalid-hex-range"
	DiagUnknownTypeSyntax = "unknown-type-syntax"
	DiagUnknownDefval     = "unknown-defval-type"

	// cross-module resolution
	DiagTypeUnknown       = "type-unknown"
	DiagOidOrphan         = "oid-orphan"
	DiagOidMismatch       = "oid-mismatch"
	DiagIndexUnresolved   = "index-unresolved"
	DiagObjectsUnresolved = "objects-unresolved"
)
