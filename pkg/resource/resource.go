// Package resource defines the values handed to a transformation engine: a
// single Item, an ordered Collection, or a Null placeholder for absent
// related data.
//
// Resources hold domain data as given. They never copy or mutate it; the
// engine reads it through the resource's Transformer at resolution time.
package resource

import (
	"errors"
	"fmt"
	"maps"
	"reflect"

	"github.com/rkulik/fractal/pkg/pagination"
)

// ErrNotCollection is returned when collection data is not a slice or array.
var ErrNotCollection = errors.New("collection data must be a slice or an array")

// Resource is one of *Item, *Collection or *Null.
type Resource interface {
	// ResourceKey returns the key used by serializers to name the resource.
	ResourceKey() string
	// Meta returns the metadata attached to the resource.
	Meta() map[string]any
	// SetMeta replaces the metadata attached to the resource.
	SetMeta(meta map[string]any)
	// SetMetaValue sets a single metadata entry.
	SetMetaValue(key string, value any)

	resource()
}

type base struct {
	key  string
	meta map[string]any
}

func (b *base) ResourceKey() string { return b.key }

func (b *base) Meta() map[string]any { return b.meta }

func (b *base) SetMeta(meta map[string]any) { b.meta = meta }

func (b *base) SetMetaValue(key string, value any) {
	if b.meta == nil {
		b.meta = make(map[string]any)
	} else {
		b.meta = maps.Clone(b.meta)
	}
	b.meta[key] = value
}

func (*base) resource() {}

// Item wraps a single domain value.
type Item struct {
	base
	data        any
	transformer Transformer
}

// NewItem creates an item resource. The key is optional; only the first
// value is used.
func NewItem(data any, t Transformer, key ...string) *Item {
	return &Item{base: base{key: firstOf(key)}, data: data, transformer: t}
}

// Data returns the wrapped value.
func (i *Item) Data() any { return i.data }

// Transformer returns the transformer for the wrapped value.
func (i *Item) Transformer() Transformer { return i.transformer }

// Collection wraps an ordered sequence of domain values. Pagination and
// cursor information only exist on collections.
type Collection struct {
	base
	data        any
	transformer Transformer
	paginator   pagination.Paginator
	cursor      pagination.Cursor
}

// NewCollection creates a collection resource. data is expected to be a slice
// or an array; this is checked when the collection is iterated.
func NewCollection(data any, t Transformer, key ...string) *Collection {
	return &Collection{base: base{key: firstOf(key)}, data: data, transformer: t}
}

// Data returns the wrapped sequence exactly as it was given.
func (c *Collection) Data() any { return c.data }

// Transformer returns the transformer applied to every element.
func (c *Collection) Transformer() Transformer { return c.transformer }

func (c *Collection) Paginator() pagination.Paginator { return c.paginator }

func (c *Collection) SetPaginator(p pagination.Paginator) { c.paginator = p }

func (c *Collection) Cursor() pagination.Cursor { return c.cursor }

func (c *Collection) SetCursor(cur pagination.Cursor) { c.cursor = cur }

// Len returns the number of elements, or -1 when the data is not a sequence.
// A nil data value is an empty collection.
func (c *Collection) Len() int {
	if c.data == nil {
		return 0
	}
	v := reflect.ValueOf(c.data)
	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		return v.Len()
	}
	return -1
}

// Each calls fn for every element in order, stopping at the first error.
func (c *Collection) Each(fn func(i int, v any) error) error {
	if c.data == nil {
		return nil
	}

	// Fast path for the common untyped case.
	if xs, ok := c.data.([]any); ok {
		for i, x := range xs {
			if err := fn(i, x); err != nil {
				return err
			}
		}
		return nil
	}

	v := reflect.ValueOf(c.data)
	switch v.Kind() {
	case reflect.Slice, reflect.Array:
	default:
		return fmt.Errorf("%w: got %T", ErrNotCollection, c.data)
	}

	for i := range v.Len() {
		if err := fn(i, v.Index(i).Interface()); err != nil {
			return err
		}
	}
	return nil
}

// Null stands in for related data that does not exist.
type Null struct {
	base
}

func NewNull() *Null {
	return &Null{}
}

func firstOf(xs []string) string {
	if len(xs) == 0 {
		return ""
	}
	return xs[0]
}
