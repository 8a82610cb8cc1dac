// Package nameres derives the exported names shared by the generated
// layers. Both generators consume the same resolved table, so the names
// registered by the native layer and the names the host layer calls
// through cannot drift apart.
package nameres

import (
	"strconv"
	"strings"

	"github.com/flatpak-node/girgen/internal/gir"
	"github.com/flatpak-node/girgen/internal/profile"
)

// Entry pairs a retained top-level function with its exported name.
type Entry struct {
	Fn     *gir.Function
	Export string
}

// Table is the resolved registration table for one namespace: ordered,
// duplicate-free in both foreign symbols and exported names.
type Table struct {
	entries []Entry
	byCName map[string]string
}

// Resolve builds the registration table from the namespace's top-level
// functions. Duplicate foreign symbols are dropped, first occurrence
// wins. Profile renames apply unconditionally, keyed by foreign symbol.
// A collision with an earlier exported name re-derives by prefixing the
// foreign symbol's own first underscore-delimited segment, then by
// numeric suffix. Resolution is deterministic: the same input yields
// the same table.
func Resolve(funcs []*gir.Function, prof *profile.Profile) *Table {
	t := &Table{byCName: make(map[string]string)}
	seen := make(map[string]bool)

	for _, fn := range funcs {
		if _, dup := t.byCName[fn.CName]; dup {
			continue
		}
		export := resolveOne(fn, prof, seen)
		seen[export] = true
		t.byCName[fn.CName] = export
		t.entries = append(t.entries, Entry{Fn: fn, Export: export})
	}

	return t
}

// resolveOne picks the exported name for one function against the set
// of names already taken. The seen set is threaded in explicitly; there
// is no package state.
func resolveOne(fn *gir.Function, prof *profile.Profile, seen map[string]bool) string {
	name := Derive(fn.Name)
	if pinned, ok := prof.Renames[fn.CName]; ok {
		name = pinned
	}
	if !seen[name] {
		return name
	}

	prefixed := firstSegment(fn.CName) + "_" + name
	if !seen[prefixed] {
		return prefixed
	}
	for i := 2; ; i++ {
		candidate := prefixed + strconv.Itoa(i)
		if !seen[candidate] {
			return candidate
		}
	}
}

// Entries returns the resolved functions in declaration order.
func (t *Table) Entries() []Entry {
	return t.entries
}

// Export looks up the exported name for a foreign symbol.
func (t *Table) Export(cName string) (string, bool) {
	name, ok := t.byCName[cName]
	return name, ok
}

// Len returns the number of retained functions.
func (t *Table) Len() int {
	return len(t.entries)
}

// Derive converts a separator-delimited introspected name to camelCase.
// Names split on hyphens when any are present, underscores otherwise.
// The first segment stays literal, which keeps get/set/is prefixes
// lower-cased; every later segment is capitalized.
func Derive(name string) string {
	sep := "_"
	if strings.Contains(name, "-") {
		sep = "-"
	}

	parts := strings.Split(name, sep)
	var b strings.Builder
	b.WriteString(parts[0])
	for _, part := range parts[1:] {
		if part == "" {
			continue
		}
		b.WriteString(capitalize(part))
	}
	return b.String()
}

// MethodName returns the host-facing name of a class-owned function.
// Constructors occupy the reserved "new" slot.
func MethodName(fn *gir.Function) string {
	if fn.IsConstructor {
		return "new"
	}
	return Derive(fn.Name)
}

// capitalize upper-cases the first byte and lower-cases the remainder.
// Introspected names are ASCII C identifiers.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}

func firstSegment(cName string) string {
	if i := strings.Index(cName, "_"); i >= 0 {
		return cName[:i]
	}
	return cName
}
