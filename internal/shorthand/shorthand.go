// Package shorthand assigns compact aliases (Px1, Py1, Pxy1) to pushover
// load case names for display.
package shorthand

import (
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// directionSuffix matches the component suffixes that cache keys append to
// load case names.
var directionSuffix = regexp.MustCompile(`_(?:[UV][XY]|[VR][23])$`)

// Mapping maps a load case name to its alias.
type Mapping map[string]string

// Alias returns the alias of name. Names carrying a component suffix or
// using '-' where the mapping used '_' still resolve.
func (m Mapping) Alias(name string) (string, bool) {
	if alias, ok := m[name]; ok {
		return alias, true
	}
	stripped := StripDirection(name)
	if alias, ok := m[stripped]; ok {
		return alias, true
	}
	alias, ok := m[strings.ReplaceAll(stripped, "-", "_")]
	return alias, ok
}

// AliasOr returns the alias of name, or name itself when it has none.
func (m Mapping) AliasOr(name string) string {
	if alias, ok := m.Alias(name); ok {
		return alias
	}
	return name
}

// StripDirection removes a trailing component suffix such as "_UX" or "_V2".
func StripDirection(name string) string {
	return directionSuffix.ReplaceAllString(name, "")
}

// Build derives aliases for names. Names are stripped of component suffixes
// and deduplicated, then split by the presence of X and Y (ignoring case)
// into X-only, Y-only and XY groups. Each group is sorted and numbered from
// 1. Names containing neither letter get no alias. Every hyphenated name is
// also registered in its underscore form.
func Build(names []string) Mapping {
	seen := make(map[string]struct{}, len(names))
	var xs, ys, xys []string

	for _, raw := range names {
		name := StripDirection(strings.TrimSpace(raw))
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}

		upper := strings.ToUpper(name)
		hasX := strings.Contains(upper, "X")
		hasY := strings.Contains(upper, "Y")
		switch {
		case hasX && hasY:
			xys = append(xys, name)
		case hasX:
			xs = append(xs, name)
		case hasY:
			ys = append(ys, name)
		}
	}

	m := make(Mapping, len(seen))
	assign(m, "Px", xs)
	assign(m, "Py", ys)
	assign(m, "Pxy", xys)
	return m
}

func assign(m Mapping, prefix string, group []string) {
	slices.Sort(group)
	for i, name := range group {
		alias := prefix + strconv.Itoa(i+1)
		m[name] = alias
		if strings.Contains(name, "-") {
			m[strings.ReplaceAll(name, "-", "_")] = alias
		}
	}
}
