// Package fractal provides a fluent interface for rendering domain data as
// API output.
//
// A Fractal collects a resource (an item or a collection together with a
// transformer), the relations to embed, pagination and metadata, and hands
// them to an engine.Engine when output is requested.
//
// # Basic Usage
//
//	import "github.com/rkulik/fractal/pkg/fractal"
//
//	out, err := fractal.Default().
//	    Item(user, userTransformer{}, "users").
//	    WithIncludes("posts.comments").
//	    WithMeta(map[string]any{"version": "v1"}).
//	    ToJSON(engine.JSONPrettyPrint)
//
// Collections take any slice or array:
//
//	out, err := fractal.Default().
//	    Collection(users, resource.StructTransformer(), "users").
//	    WithPaginator(&pagination.OffsetPaginator{Page: 2, Size: 20, Items: 135, URLTemplate: "/users?page={page}"}).
//	    ToMap()
//
// # Ordering
//
// Item and Collection replace the configured resource. WithMeta attaches
// metadata to the resource configured at the time of the call, and does
// nothing when there is none. Everything else is applied when output is
// requested, so it may be set in any order.
//
// WithPaginator and WithCursor only affect collections. When both are set,
// the engine renders the cursor.
//
// # Custom Engines
//
// Any engine.Engine can be used in place of the reference manager:
//
//	f := fractal.New(myEngine)
//
// # Thread Safety
//
// A Fractal is NOT thread-safe. Configuration and output calls read and
// write the same fields; use one instance per goroutine.
package fractal
