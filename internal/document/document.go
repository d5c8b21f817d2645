// Package document transforms untyped documents, as decoded from JSON or
// YAML, into resources.
//
// Scalar fields and lists of scalars are rendered as they are. Nested
// objects and lists of objects become available includes, so they only show
// up in the output when requested.
package document

import (
	"fmt"
	"maps"
	"slices"
	"strconv"

	"github.com/rkulik/fractal/pkg/resource"
)

// LimitModifier restricts an included list: `name:limit(count|offset)`.
const LimitModifier = "limit"

// Transformer is a resource.Transformer and resource.Includer for one level
// of a document.
type Transformer struct {
	relations map[string]bool
}

// New returns a transformer for data, which is an object or a list of
// objects. The relations are collected from all objects, so every element of
// a list offers the same includes.
func New(data any) *Transformer {
	t := &Transformer{relations: map[string]bool{}}
	switch x := data.(type) {
	case map[string]any:
		t.collect(x)
	case []any:
		for _, v := range x {
			if m, ok := v.(map[string]any); ok {
				t.collect(m)
			}
		}
	}
	return t
}

// Resource wraps data in an item or collection using a document transformer.
// Lists become collections, everything else an item.
func Resource(data any, key string) resource.Resource {
	switch x := data.(type) {
	case nil:
		return resource.NewNull()
	case []any:
		return resource.NewCollection(x, New(x), key)
	}
	return resource.NewItem(data, New(data), key)
}

func (t *Transformer) collect(m map[string]any) {
	for k, v := range m {
		if isRelation(v) {
			t.relations[k] = true
		}
	}
}

func (t *Transformer) Transform(v any) (map[string]any, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("document: expected an object, got %T", v)
	}

	out := make(map[string]any, len(m))
	for k, v := range m {
		if t.relations[k] {
			continue
		}
		out[k] = v
	}
	return out, nil
}

func (t *Transformer) AvailableIncludes() []string {
	return slices.Sorted(maps.Keys(t.relations))
}

func (*Transformer) DefaultIncludes() []string {
	return nil
}

func (t *Transformer) Include(name string, v any, params resource.ParamBag) (resource.Resource, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("document: expected an object, got %T", v)
	}

	switch x := m[name].(type) {
	case nil:
		return resource.NewNull(), nil
	case map[string]any:
		return resource.NewItem(x, New(x), name), nil
	case []any:
		xs, err := limit(x, params.Get(LimitModifier))
		if err != nil {
			return nil, fmt.Errorf("document: include %q: %w", name, err)
		}
		return resource.NewCollection(xs, New(xs), name), nil
	default:
		return nil, fmt.Errorf("document: include %q is not an object or a list", name)
	}
}

func limit(xs []any, args []string) ([]any, error) {
	if len(args) == 0 {
		return xs, nil
	}

	n, err := strconv.Atoi(args[0])
	if err != nil || n < 0 {
		return nil, fmt.Errorf("invalid limit %q", args[0])
	}

	offset := 0
	if len(args) > 1 {
		offset, err = strconv.Atoi(args[1])
		if err != nil || offset < 0 {
			return nil, fmt.Errorf("invalid offset %q", args[1])
		}
	}

	if offset >= len(xs) {
		return []any{}, nil
	}
	return xs[offset:min(offset+n, len(xs))], nil
}

// isRelation reports whether v is an object or a non-empty list of objects.
func isRelation(v any) bool {
	switch x := v.(type) {
	case map[string]any:
		return true
	case []any:
		if len(x) == 0 {
			return false
		}
		for _, e := range x {
			if _, ok := e.(map[string]any); !ok {
				return false
			}
		}
		return true
	}
	return false
}
