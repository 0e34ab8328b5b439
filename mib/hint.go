package mib

import (
	"fmt"
	"strconv"
	"strings"
)

// octetSpec is one field of an OCTET STRING DISPLAY-HINT: an optional
// repeat indicator, an octet count, a format letter, an optional display
// separator, and (only after a repeat indicator) an optional repeat
// terminator.
type octetSpec struct {
	repeat bool
	length int
	format byte
	sep    byte
	term   byte
}

func isHintDigit(c byte) bool { return c >= '0' && c <= '9' }

func isHintFormat(c byte) bool {
	switch c {
	case 'a', 't', 'd', 'o', 'x', 'b':
		return true
	}
	return false
}

func parseOctetHint(hint string) ([]octetSpec, error) {
	var specs []octetSpec
	i := 0
	for i < len(hint) {
		var spec octetSpec
		if hint[i] == '*' {
			spec.repeat = true
			i++
		}
		start := i
		for i < len(hint) && isHintDigit(hint[i]) {
			i++
		}
		if i == start {
			return nil, fmt.Errorf("mib: display-hint %q: octet count expected at offset %d", hint, i)
		}
		n, err := strconv.Atoi(hint[start:i])
		if err != nil {
			return nil, fmt.Errorf("mib: display-hint %q: %w", hint, err)
		}
		spec.length = n
		if i >= len(hint) || !isHintFormat(hint[i]) {
			return nil, fmt.Errorf("mib: display-hint %q: format letter expected at offset %d", hint, i)
		}
		spec.format = hint[i]
		i++
		if i < len(hint) && hint[i] != '*' && !isHintDigit(hint[i]) {
			spec.sep = hint[i]
			i++
			if spec.repeat && i < len(hint) && hint[i] != '*' && !isHintDigit(hint[i]) {
				spec.term = hint[i]
				i++
			}
		}
		specs = append(specs, spec)
	}
	if len(specs) == 0 {
		return nil, fmt.Errorf("mib: empty display-hint")
	}
	return specs, nil
}

func hintBase(format byte) int {
	switch format {
	case 'b':
		return 2
	case 'o':
		return 8
	case 'd':
		return 10
	default:
		return 16
	}
}

// FormatOctetsWithHint renders data per an OCTET STRING DISPLAY-HINT:
// fields are applied in order (the last repeats until data is consumed),
// 'a' emits octets as ASCII, 'b'/'d'/'o'/'x' render up to the field's
// octet count as a big-endian integer in that base, and 't' is an error
// (UTF-8 rendering is unimplemented). The display separator is emitted
// between applications, never trailing.
func FormatOctetsWithHint(hint string, data []byte) (string, error) {
	specs, err := parseOctetHint(hint)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	si, pos := 0, 0
	for pos < len(data) {
		spec := specs[si]
		if si < len(specs)-1 {
			si++
		}
		reps := 1
		if spec.repeat {
			reps = int(data[pos])
			pos++
		}
		for r := 0; r < reps && pos < len(data); r++ {
			n := spec.length
			if n <= 0 {
				n = 1
			}
			if n > len(data)-pos {
				n = len(data) - pos
			}
			chunk := data[pos : pos+n]
			pos += n
			switch spec.format {
			case 'a':
				b.Write(chunk)
			case 't':
				return "", fmt.Errorf("mib: display-hint format 't' is not implemented")
			default:
				var v uint64
				for _, c := range chunk {
					v = v<<8 | uint64(c)
				}
				b.WriteString(strconv.FormatUint(v, hintBase(spec.format)))
			}
			if spec.sep != 0 && pos < len(data) {
				b.WriteByte(spec.sep)
			}
		}
	}
	return b.String(), nil
}

// ScanOctetsWithHint is the inverse of FormatOctetsWithHint: it is
// lossless for any string the formatter produced from full-width fields.
func ScanOctetsWithHint(hint, s string) ([]byte, error) {
	specs, err := parseOctetHint(hint)
	if err != nil {
		return nil, err
	}
	var out []byte
	si, i := 0, 0
	for i < len(s) {
		spec := specs[si]
		if si < len(specs)-1 {
			si++
		}
		if spec.repeat {
			// A repeat group runs to the end of the string; its octet
			// count is reconstructed from how many fields were scanned.
			countAt := len(out)
			out = append(out, 0)
			reps := 0
			for i < len(s) {
				chunk, next, err := scanOctetField(spec, s, i)
				if err != nil {
					return nil, err
				}
				out = append(out, chunk...)
				i = next
				reps++
				if spec.sep != 0 && i < len(s) && s[i] == spec.sep {
					i++
				}
			}
			if reps > 255 {
				return nil, fmt.Errorf("mib: display-hint repeat count %d exceeds one octet", reps)
			}
			out[countAt] = byte(reps)
		} else {
			chunk, next, err := scanOctetField(spec, s, i)
			if err != nil {
				return nil, err
			}
			out = append(out, chunk...)
			i = next
		}
		if spec.sep != 0 && i < len(s) && s[i] == spec.sep {
			i++
		}
	}
	return out, nil
}

// scanOctetField consumes one application of spec from s at offset i.
func scanOctetField(spec octetSpec, s string, i int) ([]byte, int, error) {
	switch spec.format {
	case 'a':
		n := spec.length
		if spec.sep != 0 {
			if stop := strings.IndexByte(s[i:], spec.sep); stop >= 0 && stop < n {
				n = stop
			}
		}
		if n > len(s)-i {
			n = len(s) - i
		}
		return []byte(s[i : i+n]), i + n, nil
	case 't':
		return nil, 0, fmt.Errorf("mib: display-hint format 't' is not implemented")
	default:
		start := i
		for i < len(s) && isBaseDigit(s[i], hintBase(spec.format)) {
			i++
		}
		if i == start {
			return nil, 0, fmt.Errorf("mib: digit expected at offset %d scanning %q", start, s)
		}
		v, err := strconv.ParseUint(s[start:i], hintBase(spec.format), 64)
		if err != nil {
			return nil, 0, fmt.Errorf("mib: scanning %q: %w", s, err)
		}
		width := spec.length
		if width <= 0 {
			width = 1
		}
		chunk := make([]byte, width)
		for k := width - 1; k >= 0; k-- {
			chunk[k] = byte(v)
			v >>= 8
		}
		if v != 0 {
			return nil, 0, fmt.Errorf("mib: value overflows %d-octet field scanning %q", width, s)
		}
		return chunk, i, nil
	}
}

func isBaseDigit(c byte, base int) bool {
	switch {
	case c >= '0' && c <= '9':
		return int(c-'0') < base
	case c >= 'a' && c <= 'f':
		return base == 16
	case c >= 'A' && c <= 'F':
		return base == 16
	}
	return false
}

// FormatIntWithHint renders v per an INTEGER DISPLAY-HINT: 'd' (signed
// decimal), 'd-n' (fixed point with n fraction digits), 'o', 'x', 'b'.
func FormatIntWithHint(hint string, v int64) (string, error) {
	switch {
	case hint == "" || hint == "d":
		return strconv.FormatInt(v, 10), nil
	case strings.HasPrefix(hint, "d-"):
		frac, err := strconv.Atoi(hint[2:])
		if err != nil || frac < 0 {
			return "", fmt.Errorf("mib: bad display-hint %q", hint)
		}
		if frac == 0 {
			return strconv.FormatInt(v, 10), nil
		}
		neg := v < 0
		digits := strconv.FormatInt(v, 10)
		if neg {
			digits = digits[1:]
		}
		for len(digits) <= frac {
			digits = "0" + digits
		}
		out := digits[:len(digits)-frac] + "." + digits[len(digits)-frac:]
		if neg {
			out = "-" + out
		}
		return out, nil
	case hint == "o":
		return strconv.FormatInt(v, 8), nil
	case hint == "x":
		return strconv.FormatInt(v, 16), nil
	case hint == "b":
		return strconv.FormatInt(v, 2), nil
	default:
		return "", fmt.Errorf("mib: bad display-hint %q for INTEGER", hint)
	}
}

// ScanIntWithHint is the inverse of FormatIntWithHint.
func ScanIntWithHint(hint, s string) (int64, error) {
	switch {
	case hint == "" || hint == "d":
		return strconv.ParseInt(s, 10, 64)
	case strings.HasPrefix(hint, "d-"):
		frac, err := strconv.Atoi(hint[2:])
		if err != nil || frac < 0 {
			return 0, fmt.Errorf("mib: bad display-hint %q", hint)
		}
		dot := strings.IndexByte(s, '.')
		if dot < 0 {
			v, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				return 0, err
			}
			for range frac {
				v *= 10
			}
			return v, nil
		}
		if len(s)-dot-1 != frac {
			return 0, fmt.Errorf("mib: %q has %d fraction digits, display-hint %q wants %d", s, len(s)-dot-1, hint, frac)
		}
		return strconv.ParseInt(s[:dot]+s[dot+1:], 10, 64)
	case hint == "o":
		return strconv.ParseInt(s, 8, 64)
	case hint == "x":
		return strconv.ParseInt(s, 16, 64)
	case hint == "b":
		return strconv.ParseInt(s, 2, 64)
	default:
		return 0, fmt.Errorf("mib: bad display-hint %q for INTEGER", hint)
	}
}

// FormatInt renders v through this type: an enumerated INTEGER first
// tries label substitution, then the effective display hint, then plain
// decimal.
func (t *Type) FormatInt(v int64) string {
	for _, nv := range t.EffectiveEnums() {
		if nv.Value == v {
			return nv.Label
		}
	}
	if hint := t.EffectiveDisplayHint(); hint != "" {
		if s, err := FormatIntWithHint(hint, v); err == nil {
			return s
		}
	}
	return strconv.FormatInt(v, 10)
}

// ScanInt is the inverse of FormatInt: an enum label, then a
// hint-formatted number, then plain decimal.
func (t *Type) ScanInt(s string) (int64, error) {
	if nv, ok := findNamedValue(t.EffectiveEnums(), s); ok {
		return nv.Value, nil
	}
	if hint := t.EffectiveDisplayHint(); hint != "" {
		if v, err := ScanIntWithHint(hint, s); err == nil {
			return v, nil
		}
	}
	return strconv.ParseInt(s, 10, 64)
}

// FormatOctets renders data through this type's effective display hint,
// falling back to the raw bytes when no hint applies.
func (t *Type) FormatOctets(data []byte) string {
	if hint := t.EffectiveDisplayHint(); hint != "" {
		if s, err := FormatOctetsWithHint(hint, data); err == nil {
			return s
		}
	}
	return string(data)
}

// ScanOctets is the inverse of FormatOctets.
func (t *Type) ScanOctets(s string) ([]byte, error) {
	if hint := t.EffectiveDisplayHint(); hint != "" {
		return ScanOctetsWithHint(hint, s)
	}
	return []byte(s), nil
}

// FormatBits renders a BITS value's set bits as their labels: bit 0 is
// the high bit of the first octet, per SMIv2.
func (t *Type) FormatBits(data []byte) string {
	bits := t.EffectiveBits()
	var parts []string
	for i := 0; i < len(data)*8; i++ {
		if data[i/8]&(1<<(7-i%8)) == 0 {
			continue
		}
		label := ""
		for _, nv := range bits {
			if nv.Value == int64(i) {
				label = nv.Label
				break
			}
		}
		if label == "" {
			label = strconv.Itoa(i)
		}
		parts = append(parts, fmt.Sprintf("%s(%d)", label, i))
	}
	return strings.Join(parts, " ")
}
