package mediate

import "strings"

// Scope determines which commands a hook applies to. Scopes are matched
// against command Profiles once, at build time, when pipelines are
// composed; they never run on the dispatch path.
type Scope interface {
	Match(p Profile) bool
}

// ScopeFunc adapts a plain predicate into a Scope.
type ScopeFunc func(p Profile) bool

func (f ScopeFunc) Match(p Profile) bool { return f(p) }

// ForCommand returns a Scope that matches exactly the command type C.
func ForCommand[C any]() Scope {
	return exact{key: KeyOf[C]()}
}

type exact struct {
	key Key
}

func (s exact) Match(p Profile) bool { return p.Key() == s.key }

// AllCommands returns a Scope that matches every registered command.
func AllCommands() Scope { return all{} }

type all struct{}

func (all) Match(Profile) bool { return true }

// Named returns a Scope that matches commands whose bare type name
// equals name.
func Named(name string) Scope {
	return named{name: name}
}

type named struct {
	name string
}

func (s named) Match(p Profile) bool { return p.Name() == s.name }

// NamePrefix returns a Scope that matches commands whose bare type name
// starts with prefix. Useful for grouping a family of command shapes
// under one naming convention.
func NamePrefix(prefix string) Scope {
	return namePrefix{prefix: prefix}
}

type namePrefix struct {
	prefix string
}

func (s namePrefix) Match(p Profile) bool { return strings.HasPrefix(p.Name(), s.prefix) }

// And returns a Scope that matches when all scopes match.
func And(ss ...Scope) Scope {
	return and{ss: ss}
}

type and struct {
	ss []Scope
}

func (s and) Match(p Profile) bool {
	for _, sc := range s.ss {
		if !sc.Match(p) {
			return false
		}
	}
	return true
}

// Or returns a Scope that matches when any scope matches.
func Or(ss ...Scope) Scope {
	return or{ss: ss}
}

type or struct {
	ss []Scope
}

func (s or) Match(p Profile) bool {
	for _, sc := range s.ss {
		if sc.Match(p) {
			return true
		}
	}
	return false
}

// Not returns a Scope that inverts s.
func Not(s Scope) Scope {
	return not{s: s}
}

type not struct {
	s Scope
}

func (n not) Match(p Profile) bool { return !n.s.Match(p) }
