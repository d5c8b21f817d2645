package manager

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/rkulik/fractal/internal/metrics"
	"github.com/rkulik/fractal/pkg/engine"
	"github.com/rkulik/fractal/pkg/resource"
)

// Scope renders one resource. Nested scopes are created for every embedded
// relation; identifiers holds the include path leading to the scope.
type Scope struct {
	manager     *Manager
	resource    resource.Resource
	identifiers []string
}

var _ engine.Scope = (*Scope)(nil)

// Identifier returns the dotted include path of the scope, empty at the root.
func (s *Scope) Identifier() string {
	return strings.Join(s.identifiers, ".")
}

func (s *Scope) Resource() resource.Resource {
	return s.resource
}

// IsRequested reports whether the relation name was requested below this
// scope.
func (s *Scope) IsRequested(name string) bool {
	return slices.Contains(s.manager.includes, s.path(name))
}

// IsExcluded reports whether the relation name was excluded below this
// scope.
func (s *Scope) IsExcluded(name string) bool {
	return slices.Contains(s.manager.excludes, s.path(name))
}

func (s *Scope) path(name string) string {
	if len(s.identifiers) == 0 {
		return name
	}
	return s.Identifier() + "." + name
}

func (s *Scope) ToMap() (map[string]any, error) {
	if len(s.identifiers) > 0 {
		return s.toMap()
	}

	typ := resourceType(s.resource)
	start := time.Now()

	out, err := s.toMap()

	metrics.ResolveCount.WithLabelValues(typ).Inc()
	metrics.ResolveDuration.WithLabelValues(typ).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.ResolveFailed.WithLabelValues(typ, errorType(err)).Inc()
		s.manager.log.Debugf("Failed to resolve %s: %v", typ, err)
		return nil, err
	}

	s.manager.log.Debugf("Resolved %s %q in %v.", typ, s.resource.ResourceKey(), time.Since(start))
	return out, nil
}

func (s *Scope) ToJSON(flags engine.JSONFlags) (string, error) {
	data, err := s.ToMap()
	if err != nil {
		return "", err
	}
	return engine.MarshalJSON(data, flags)
}

func (s *Scope) ToYAML() (string, error) {
	data, err := s.ToMap()
	if err != nil {
		return "", err
	}
	bs, err := yaml.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("failed to encode yaml: %w", err)
	}
	return string(bs), nil
}

func (s *Scope) toMap() (map[string]any, error) {
	data, err := s.serialize()
	if err != nil {
		return nil, err
	}

	meta := s.manager.serializer.Meta(s.meta())

	if data == nil {
		return meta, nil
	}

	// Keys from the serialized data take precedence over meta.
	out := make(map[string]any, len(data)+len(meta))
	maps.Copy(out, meta)
	maps.Copy(out, data)
	return out, nil
}

// meta returns the resource metadata with pagination details. The resource
// itself is not modified. A cursor takes precedence over a paginator.
func (s *Scope) meta() map[string]any {
	meta := s.resource.Meta()

	c, ok := s.resource.(*resource.Collection)
	if !ok {
		return meta
	}

	var pagination map[string]any
	switch {
	case c.Cursor() != nil:
		pagination = s.manager.serializer.Cursor(c.Cursor())
	case c.Paginator() != nil:
		pagination = s.manager.serializer.Paginator(c.Paginator())
	}
	if len(pagination) == 0 {
		return meta
	}

	out := maps.Clone(meta)
	if out == nil {
		out = make(map[string]any, len(pagination))
	}
	maps.Copy(out, pagination)
	return out
}

func (s *Scope) serialize() (map[string]any, error) {
	ser := s.manager.serializer

	switch r := s.resource.(type) {
	case *resource.Item:
		data, err := s.transform(r.Transformer(), r.Data())
		if err != nil {
			return nil, err
		}
		return ser.Item(r.ResourceKey(), data), nil

	case *resource.Collection:
		if r.Transformer() == nil {
			return nil, s.fail(ErrNoTransformer)
		}
		data := make([]any, 0, max(r.Len(), 0))
		err := r.Each(func(_ int, v any) error {
			x, err := s.transform(r.Transformer(), v)
			if err != nil {
				return err
			}
			data = append(data, x)
			return nil
		})
		if err != nil {
			return nil, err
		}
		return ser.Collection(r.ResourceKey(), data), nil

	case *resource.Null:
		return ser.Null(), nil

	case nil:
		return nil, fmt.Errorf("cannot resolve a nil resource")
	}

	return nil, fmt.Errorf("unsupported resource type %T", s.resource)
}

func (s *Scope) transform(t resource.Transformer, v any) (map[string]any, error) {
	if t == nil {
		return nil, s.fail(ErrNoTransformer)
	}

	data, err := t.Transform(v)
	if err != nil {
		return nil, s.fail(err)
	}

	if includer, ok := t.(resource.Includer); ok {
		if names := s.includesFor(includer); len(names) > 0 {
			included, err := s.embed(includer, names, v)
			if err != nil {
				return nil, err
			}
			data = s.manager.serializer.MergeIncludes(data, included)
		}
	}

	return s.filterFieldset(data), nil
}

// includesFor returns the relations to embed at this scope: default
// includes plus requested available ones, minus exclusions.
func (s *Scope) includesFor(includer resource.Includer) []string {
	if len(s.identifiers) >= s.manager.recursionLimit {
		return nil
	}

	var names []string
	for _, name := range includer.DefaultIncludes() {
		if !slices.Contains(names, name) {
			names = append(names, name)
		}
	}
	for _, name := range includer.AvailableIncludes() {
		if s.IsRequested(name) && !slices.Contains(names, name) {
			names = append(names, name)
		}
	}

	fs := s.manager.fieldsets[s.resource.ResourceKey()]
	return slices.DeleteFunc(names, func(name string) bool {
		return s.IsExcluded(name) || (fs != nil && !fs.Match(name))
	})
}

func (s *Scope) embed(includer resource.Includer, names []string, v any) (map[string]any, error) {
	out := make(map[string]any, len(names))
	for _, name := range names {
		path := s.path(name)

		child, err := includer.Include(name, v, s.manager.IncludeParams(path))
		if err != nil {
			return nil, &TransformError{Path: path, Key: s.resource.ResourceKey(), Err: err}
		}
		if child == nil {
			continue
		}

		childScope := s.manager.createScope(child, append(slices.Clone(s.identifiers), name))
		data, err := childScope.toMap()
		if err != nil {
			return nil, err
		}

		out[name] = s.manager.serializer.IncludedData(child, data)
		metrics.IncludesResolved.WithLabelValues(name).Inc()
	}
	return out, nil
}

func (s *Scope) filterFieldset(data map[string]any) map[string]any {
	fs, ok := s.manager.fieldsets[s.resource.ResourceKey()]
	if !ok || data == nil {
		return data
	}
	out := make(map[string]any, len(data))
	for k, v := range data {
		if fs.Match(k) {
			out[k] = v
		}
	}
	return out
}

func (s *Scope) fail(err error) error {
	return &TransformError{Path: s.Identifier(), Key: s.resource.ResourceKey(), Err: err}
}

func resourceType(r resource.Resource) string {
	switch r.(type) {
	case *resource.Item:
		return "item"
	case *resource.Collection:
		return "collection"
	case *resource.Null:
		return "null"
	}
	return "unknown"
}
