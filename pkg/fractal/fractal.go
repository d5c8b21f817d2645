package fractal

import (
	"errors"
	"fmt"

	"github.com/goccy/go-yaml"

	"github.com/rkulik/fractal/internal/jsonpatch"
	"github.com/rkulik/fractal/pkg/engine"
	"github.com/rkulik/fractal/pkg/manager"
	"github.com/rkulik/fractal/pkg/pagination"
	"github.com/rkulik/fractal/pkg/resource"
)

// ErrNoResource is returned by the output methods when neither Item nor
// Collection was called.
var ErrNoResource = errors.New("fractal: no resource configured")

// Fractal accumulates output configuration and resolves it through an
// engine on every output call.
type Fractal struct {
	engine    engine.Engine
	resource  resource.Resource
	includes  []string
	excludes  []string
	fieldsets map[string]string
	paginator pagination.Paginator
	cursor    pagination.Cursor
	patch     jsonpatch.Patch
}

// New returns a Fractal resolving through e.
func New(e engine.Engine) *Fractal {
	return &Fractal{engine: e}
}

// Default returns a Fractal backed by a manager with default settings.
func Default() *Fractal {
	return New(manager.New())
}

// Item makes data, transformed by t, the resource to render. It replaces
// any previously configured resource.
func (f *Fractal) Item(data any, t resource.Transformer, key ...string) *Fractal {
	f.resource = resource.NewItem(data, t, key...)
	return f
}

// Collection makes the elements of data, each transformed by t, the resource
// to render. It replaces any previously configured resource.
func (f *Fractal) Collection(data any, t resource.Transformer, key ...string) *Fractal {
	f.resource = resource.NewCollection(data, t, key...)
	return f
}

// WithIncludes sets the relations to embed, replacing earlier calls.
func (f *Fractal) WithIncludes(includes ...string) *Fractal {
	f.includes = includes
	return f
}

// WithExcludes sets the relations to leave out, replacing earlier calls.
func (f *Fractal) WithExcludes(excludes ...string) *Fractal {
	f.excludes = excludes
	return f
}

// WithFieldsets restricts the fields rendered per resource key.
func (f *Fractal) WithFieldsets(fieldsets map[string]string) *Fractal {
	f.fieldsets = fieldsets
	return f
}

// WithPaginator sets offset pagination. It only applies when the resource
// is a collection.
func (f *Fractal) WithPaginator(p pagination.Paginator) *Fractal {
	f.paginator = p
	return f
}

// WithCursor sets cursor pagination. It only applies when the resource is a
// collection.
func (f *Fractal) WithCursor(c pagination.Cursor) *Fractal {
	f.cursor = c
	return f
}

// WithMeta attaches meta to the current resource. Without a resource the
// call has no effect, so it must follow Item or Collection.
func (f *Fractal) WithMeta(meta map[string]any) *Fractal {
	if f.resource != nil {
		f.resource.SetMeta(meta)
	}
	return f
}

// WithPatch sets a JSON patch applied to the rendered output.
func (f *Fractal) WithPatch(p jsonpatch.Patch) *Fractal {
	f.patch = p
	return f
}

// ToMap renders the resource as nested maps, slices and scalars.
func (f *Fractal) ToMap() (map[string]any, error) {
	scope, err := f.createData()
	if err != nil {
		return nil, err
	}

	out, err := scope.ToMap()
	if err != nil {
		return nil, err
	}
	return f.applyPatch(out)
}

// ToJSON renders the resource as JSON. flags are passed to the engine
// unchanged.
func (f *Fractal) ToJSON(flags engine.JSONFlags) (string, error) {
	if len(f.patch) > 0 {
		out, err := f.ToMap()
		if err != nil {
			return "", err
		}
		return engine.MarshalJSON(out, flags)
	}

	scope, err := f.createData()
	if err != nil {
		return "", err
	}
	return scope.ToJSON(flags)
}

// ToYAML renders the resource as YAML.
func (f *Fractal) ToYAML() (string, error) {
	if len(f.patch) > 0 {
		out, err := f.ToMap()
		if err != nil {
			return "", err
		}
		bs, err := yaml.Marshal(out)
		if err != nil {
			return "", fmt.Errorf("fractal: failed to encode yaml: %w", err)
		}
		return string(bs), nil
	}

	scope, err := f.createData()
	if err != nil {
		return "", err
	}
	return scope.ToYAML()
}

func (f *Fractal) createData() (engine.Scope, error) {
	if f.resource == nil {
		return nil, ErrNoResource
	}

	if len(f.includes) > 0 {
		if err := f.engine.ParseIncludes(f.includes...); err != nil {
			return nil, err
		}
	}

	if len(f.excludes) > 0 {
		if err := f.engine.ParseExcludes(f.excludes...); err != nil {
			return nil, err
		}
	}

	if len(f.fieldsets) > 0 {
		if err := f.engine.ParseFieldsets(f.fieldsets); err != nil {
			return nil, err
		}
	}

	if c, ok := f.resource.(*resource.Collection); ok {
		if f.cursor != nil {
			c.SetCursor(f.cursor)
		}
		if f.paginator != nil {
			c.SetPaginator(f.paginator)
		}
	}

	return f.engine.CreateData(f.resource), nil
}

func (f *Fractal) applyPatch(out map[string]any) (map[string]any, error) {
	if len(f.patch) == 0 {
		return out, nil
	}
	patched, err := jsonpatch.Apply(f.patch, out)
	if err != nil {
		return nil, fmt.Errorf("fractal: %w", err)
	}
	return patched, nil
}

// DecodePatch parses a JSON patch for use with WithPatch. Only add, remove
// and replace operations are accepted.
func DecodePatch(bs []byte) (jsonpatch.Patch, error) {
	return jsonpatch.Decode(bs)
}
