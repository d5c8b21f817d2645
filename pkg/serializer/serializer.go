// Package serializer decides the envelope shape of resolved resources.
//
// Two serializers are provided. DataArray wraps every item and collection in
// a "data" key and is the default. Array emits items bare and keys
// collections by their resource key.
package serializer

import (
	"fmt"
	"maps"
	"strings"

	"github.com/rkulik/fractal/pkg/pagination"
	"github.com/rkulik/fractal/pkg/resource"
)

// Serializer shapes transformed data into an output envelope.
type Serializer interface {
	Collection(key string, data []any) map[string]any
	Item(key string, data map[string]any) map[string]any
	Null() map[string]any

	// IncludedData shapes an embedded resource before it is merged into its
	// parent.
	IncludedData(r resource.Resource, data map[string]any) map[string]any

	// MergeIncludes merges embedded resources into the parent's transformed
	// map. Keys from includes win over transformed keys.
	MergeIncludes(transformed, includes map[string]any) map[string]any

	Meta(meta map[string]any) map[string]any
	Paginator(p pagination.Paginator) map[string]any
	Cursor(c pagination.Cursor) map[string]any
}

const (
	NameDataArray = "data"
	NameArray     = "array"
)

// ByName returns the serializer registered under name. An empty name selects
// the default.
func ByName(name string) (Serializer, error) {
	switch strings.ToLower(name) {
	case "", NameDataArray:
		return DataArray{}, nil
	case NameArray:
		return Array{}, nil
	}
	return nil, fmt.Errorf("unknown serializer %q, must be one of %q, %q", name, NameDataArray, NameArray)
}

// Array emits items without an envelope.
type Array struct{}

func (Array) Collection(key string, data []any) map[string]any {
	if key == "" {
		key = "data"
	}
	return map[string]any{key: data}
}

func (Array) Item(_ string, data map[string]any) map[string]any {
	return data
}

func (Array) Null() map[string]any {
	return map[string]any{}
}

func (Array) IncludedData(_ resource.Resource, data map[string]any) map[string]any {
	return data
}

func (Array) MergeIncludes(transformed, includes map[string]any) map[string]any {
	if len(includes) == 0 {
		return transformed
	}
	out := make(map[string]any, len(transformed)+len(includes))
	maps.Copy(out, transformed)
	maps.Copy(out, includes)
	return out
}

func (Array) Meta(meta map[string]any) map[string]any {
	if len(meta) == 0 {
		return nil
	}
	return map[string]any{"meta": meta}
}

func (Array) Paginator(p pagination.Paginator) map[string]any {
	current := p.CurrentPage()
	last := p.LastPage()

	links := map[string]any{}
	if current > 1 {
		links["previous"] = p.URL(current - 1)
	}
	if current < last {
		links["next"] = p.URL(current + 1)
	}

	return map[string]any{
		"pagination": map[string]any{
			"total":        p.Total(),
			"count":        p.Count(),
			"per_page":     p.PerPage(),
			"current_page": current,
			"total_pages":  last,
			"links":        links,
		},
	}
}

func (Array) Cursor(c pagination.Cursor) map[string]any {
	return map[string]any{
		"cursor": map[string]any{
			"current": c.Current(),
			"prev":    c.Prev(),
			"next":    c.Next(),
			"count":   c.Count(),
		},
	}
}

// DataArray wraps items and collections in a "data" key.
type DataArray struct {
	Array
}

func (DataArray) Collection(_ string, data []any) map[string]any {
	return map[string]any{"data": data}
}

func (DataArray) Item(_ string, data map[string]any) map[string]any {
	return map[string]any{"data": data}
}

func (DataArray) Null() map[string]any {
	return map[string]any{"data": []any{}}
}

// Names lists the registered serializer names in a stable order.
func Names() []string {
	return []string{NameArray, NameDataArray}
}
