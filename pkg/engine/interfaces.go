// Package engine defines the contract between the fluent facade and the
// engine that resolves resources into output structures.
//
// This package exists so that callers can plug in their own engine, or a
// test double, without depending on the reference implementation in the
// manager package.
package engine

import "github.com/rkulik/fractal/pkg/resource"

// Engine resolves resources, honouring include, exclude and fieldset
// requests that were parsed beforehand.
//
// Engines are not required to be thread-safe.
type Engine interface {
	// ParseIncludes records the relations to embed. Each string may hold a
	// comma separated list of dotted include paths.
	ParseIncludes(includes ...string) error

	// ParseExcludes records relations to leave out, including default ones.
	ParseExcludes(excludes ...string) error

	// ParseFieldsets records the fields to keep per resource key. Values are
	// comma separated field names.
	ParseFieldsets(fieldsets map[string]string) error

	// CreateData binds a resource to the current requests. No transformation
	// happens until one of the Scope's output methods is called.
	CreateData(r resource.Resource) Scope
}

// Scope is a resource bound to an engine, ready to be rendered.
type Scope interface {
	// ToMap renders the resource as nested maps, slices and scalars.
	ToMap() (map[string]any, error)

	// ToJSON renders the resource as JSON text.
	ToJSON(flags JSONFlags) (string, error)

	// ToYAML renders the resource as YAML text.
	ToYAML() (string, error)
}

// JSONFlags controls JSON encoding. Flags may be combined with |.
type JSONFlags uint

const (
	// JSONPrettyPrint indents nested values with four spaces.
	JSONPrettyPrint JSONFlags = 1 << iota

	// JSONEscapeHTML escapes <, > and & in strings.
	JSONEscapeHTML
)

// Has reports whether all bits of f are set.
func (flags JSONFlags) Has(f JSONFlags) bool {
	return flags&f == f
}
