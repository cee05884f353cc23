package buildergen

import (
	"go/token"
	"go/types"
	"strconv"
	"unicode"
	"unicode/utf8"
)

type NameStyle interface {
	Format(name string) string
}

type NameStyleFunc func(name string) string

func (f NameStyleFunc) Format(name string) string {
	return f(name)
}

// ExportedStyle upper-cases the first letter: used for setter names.
var ExportedStyle NameStyleFunc = func(name string) string {
	return mapFirst(name, unicode.ToUpper)
}

// UnexportedStyle lower-cases the first letter: used for slots, parameters and locals.
var UnexportedStyle NameStyleFunc = func(name string) string {
	return mapFirst(name, unicode.ToLower)
}

func mapFirst(name string, fn func(rune) rune) string {
	r, size := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError {
		return name
	}
	return string(fn(r)) + name[size:]
}

// namer hands out identifiers that do not collide with each other, with Go
// keywords, or with anything reserved up front. A taken name gets the first
// free numeric suffix, so the result depends only on the order of requests.
type namer struct {
	taken map[string]struct{}
	// universe also excludes predeclared identifiers (nil, string, len...),
	// needed for anything declared inside a function body.
	universe bool
}

func newNamer(universe bool, reserved ...string) *namer {
	n := &namer{taken: make(map[string]struct{}), universe: universe}
	n.reserve(reserved...)
	return n
}

func (n *namer) reserve(names ...string) {
	for _, name := range names {
		n.taken[name] = struct{}{}
	}
}

func (n *namer) free(name string) bool {
	if name == "" || name == "_" || token.IsKeyword(name) {
		return false
	}
	if n.universe && types.Universe.Lookup(name) != nil {
		return false
	}
	_, ok := n.taken[name]
	return !ok
}

func (n *namer) pick(base string) string {
	name := base
	for i := 1; !n.free(name); i++ {
		name = base + strconv.Itoa(i)
	}
	n.taken[name] = struct{}{}
	return name
}
