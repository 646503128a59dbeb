package cgrag

import (
	"regexp"
	"strings"
)

// gapTarget is the parsed form of a gap string the model asked for.
type gapTarget struct {
	Symbol   string
	PathHint string
	Specific bool
}

// "`parseConfig` in `config.py`" or "parseConfig in config.py"
var symbolInPathRe = regexp.MustCompile("^`?([A-Za-z_][A-Za-z0-9_.]*)`?(?:\\(\\))?`?\\s+in\\s+`?([^`]+?)`?$")

// A bare identifier, optionally with call parens: "parseConfig", "Foo.bar()".
var identifierRe = regexp.MustCompile("^`?([A-Za-z_][A-Za-z0-9_]*(?:\\.[A-Za-z_][A-Za-z0-9_]*)*)(?:\\(\\))?`?$")

// classifyGap decides whether a gap names a concrete symbol (worth an
// exact graph lookup) or is fuzzy prose (hybrid search only).
func classifyGap(gap string) gapTarget {
	gap = strings.TrimSpace(gap)

	if m := symbolInPathRe.FindStringSubmatch(gap); m != nil {
		return gapTarget{
			Symbol:   strings.TrimSuffix(m[1], "()"),
			PathHint: strings.TrimSpace(m[2]),
			Specific: true,
		}
	}

	if m := identifierRe.FindStringSubmatch(gap); m != nil {
		sym := m[1]
		// A dotted name's last segment is the symbol; the prefix often
		// names a class or module.
		if i := strings.LastIndexByte(sym, '.'); i >= 0 {
			sym = sym[i+1:]
		}
		return gapTarget{Symbol: sym, Specific: true}
	}

	return gapTarget{Specific: false}
}
