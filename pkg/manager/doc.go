// Package manager is the reference implementation of engine.Engine.
//
// A Manager records which relations a caller asked for and creates scopes
// that transform resources and shape them with a serializer.
//
// # Basic Usage
//
//	m := manager.New()
//	if err := m.ParseIncludes("author,comments.user"); err != nil {
//	    return err
//	}
//
//	out, err := m.CreateData(resource.NewItem(post, postTransformer{})).ToMap()
//
// With the default DataArray serializer the output is:
//
//	{"data": {"id": 1, "title": "...", "author": {"data": {...}}, "comments": {"data": [...]}}}
//
// # Includes
//
// Transformers that implement resource.Includer expose related resources.
// Default includes are always embedded; available includes only when
// requested. Nested paths such as "comments.user" also request their
// parents. Paths are trimmed to the recursion limit (default 10), and no
// relation is embedded below that depth.
//
// Includes may carry modifiers that are handed to the transformer:
//
//	comments:limit(5|1):order(created_at|desc)
//
// # Excludes and Fieldsets
//
// ParseExcludes removes relations, default ones included. ParseFieldsets
// restricts the fields of resources with a given key; field names may be
// glob patterns:
//
//	m.ParseFieldsets(map[string]string{"users": "id,name,address_*"})
//
// # Pagination
//
// A collection's cursor or paginator is rendered into the "meta" section
// under "cursor" or "pagination". When both are set, the cursor wins.
//
// # Thread Safety
//
// A Manager must not be modified while scopes it created are rendered.
// Rendering scopes concurrently is safe once the requests are parsed.
package manager
