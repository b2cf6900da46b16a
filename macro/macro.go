// Package macro models oil's #define expression language: integer literals,
// references to other macro names, addition and multiplication. Expressions
// are parsed into a small typed tree and evaluated to integers before any
// text substitution happens; nothing outside this grammar is accepted.
package macro

import (
	"sort"
	"strconv"
	"strings"
)

// Env is an ordered macro environment mapping names to integer values.
// The zero value is not usable; construct with NewEnv or FromMap.
//
// Env is a value for cache-keying purposes: two environments with the same
// name/value pairs produce the same Key regardless of insertion order.
type Env struct {
	names  []string
	values map[string]int
}

// NewEnv returns an empty environment.
func NewEnv() *Env {
	return &Env{values: make(map[string]int)}
}

// FromMap builds an environment from a plain map. Names are inserted in
// sorted order so iteration is deterministic.
func FromMap(m map[string]int) *Env {
	e := NewEnv()
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		e.Set(name, m[name])
	}
	return e
}

// Set binds name to value and returns the environment for chaining.
// Rebinding an existing name keeps its original position.
func (e *Env) Set(name string, value int) *Env {
	if _, ok := e.values[name]; !ok {
		e.names = append(e.names, name)
	}
	e.values[name] = value
	return e
}

// Get returns the value bound to name. A nil environment is empty.
func (e *Env) Get(name string) (int, bool) {
	if e == nil {
		return 0, false
	}
	v, ok := e.values[name]
	return v, ok
}

// Len returns the number of bindings. A nil environment has none.
func (e *Env) Len() int {
	if e == nil {
		return 0
	}
	return len(e.names)
}

// Names returns the bound names in insertion order.
func (e *Env) Names() []string {
	if e == nil {
		return nil
	}
	out := make([]string, len(e.names))
	copy(out, e.names)
	return out
}

// Clone returns an independent copy.
func (e *Env) Clone() *Env {
	c := NewEnv()
	if e == nil {
		return c
	}
	for _, name := range e.names {
		c.Set(name, e.values[name])
	}
	return c
}

// Key returns a canonical representation of the environment, suitable as a
// cache key component. Equal environments (by value) share a key.
func (e *Env) Key() string {
	if e == nil || len(e.names) == 0 {
		return ""
	}
	names := make([]string, len(e.names))
	copy(names, e.names)
	sort.Strings(names)

	var sb strings.Builder
	for i, name := range names {
		if i > 0 {
			sb.WriteByte(';')
		}
		sb.WriteString(name)
		sb.WriteByte('=')
		sb.WriteString(strconv.Itoa(e.values[name]))
	}
	return sb.String()
}
