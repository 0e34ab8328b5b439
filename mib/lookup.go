package mib

import (
	"fmt"
	"strings"
)

// Lookup resolves input — a pure OID ("1.3.6.1.2.1.1"), a bare label
// ("sysUpTime"), or a label with trailing sub-ids ("sysUpTime.0",
// "IF-MIB::ifIndex.7") — to a tree node. suffixStart is the byte offset
// within input where the trailing numeric suffix began, or -1 when the
// whole input resolved to the node itself.
//
// A duplicate label is tolerated: the label index prefers the node
// carrying an object definition (see Mib.Node), so lookup degrades to
// whichever registration is most useful rather than failing.
func (m *Mib) Lookup(input string) (node *Node, suffixStart int, err error) {
	if input == "" {
		return nil, -1, fmt.Errorf("mib: empty lookup input")
	}

	if oid, oidErr := ParseOID(input); oidErr == nil {
		nd := m.LongestPrefixByOID(oid)
		if nd == nil || nd == m.root {
			return nil, -1, fmt.Errorf("mib: no node along %q", input)
		}
		matched := len(nd.OID())
		if matched == len(oid) {
			return nd, -1, nil
		}
		return nd, arcOffset(input, matched), nil
	}

	label := input
	if i := strings.Index(label, "::"); i >= 0 {
		// A module qualifier narrows nothing here: labels index the
		// whole tree, and the module is re-checked below if present.
		modName := label[:i]
		label = label[i+2:]
		defer func() {
			if err == nil && node != nil && node.Module() != nil && node.Module().Name() != modName {
				// Qualifier names a different module than the node we
				// found; keep the structural result but report it.
				err = fmt.Errorf("mib: %q resolved outside module %s", input, modName)
			}
		}()
	}

	dot := strings.IndexByte(label, '.')
	if dot < 0 {
		nd := m.Node(label)
		if nd == nil {
			return nil, -1, fmt.Errorf("mib: unknown name %q", input)
		}
		return nd, -1, nil
	}

	nd := m.Node(label[:dot])
	if nd == nil {
		return nil, -1, fmt.Errorf("mib: unknown name %q", label[:dot])
	}
	if _, err := ParseOID(label[dot+1:]); err != nil {
		return nil, -1, fmt.Errorf("mib: bad suffix in %q: %w", input, err)
	}
	return nd, len(input) - len(label) + dot + 1, nil
}

// SuffixOID parses input's trailing sub-ids starting at suffixStart, as
// returned by Lookup, into the instance suffix to append to the node's
// own OID.
func SuffixOID(input string, suffixStart int) (OID, error) {
	if suffixStart < 0 || suffixStart >= len(input) {
		return nil, nil
	}
	return ParseOID(input[suffixStart:])
}

// arcOffset returns the byte offset in input where the (matched+1)'th
// arc begins, for Lookup's suffixStart on pure-OID input.
func arcOffset(input string, matched int) int {
	seen := 0
	start := 0
	if input[0] == '.' {
		start = 1
	}
	for i := start; i < len(input); i++ {
		if input[i] == '.' || input[i] == ':' {
			seen++
			if seen == matched {
				return i + 1
			}
		}
	}
	return len(input)
}
