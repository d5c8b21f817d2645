package manager

import (
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru"

	"github.com/rkulik/fractal/internal/metrics"
	"github.com/rkulik/fractal/pkg/resource"
)

const (
	cacheSize      = 128
	paramDelimiter = "|"
)

var includeCache = newCache(cacheSize)

type parsedIncludes struct {
	paths  []string
	params map[string]resource.ParamBag
}

// cache memoizes parsed include specifications. Cached values are shared and
// must not be modified.
type cache struct {
	lru *lru.Cache
}

func newCache(size int) *cache {
	c, err := lru.New(size)
	if err != nil {
		panic(err)
	}
	return &cache{lru: c}
}

func (c *cache) Get(key string, eval func() (*parsedIncludes, error)) (*parsedIncludes, error) {
	if v, ok := c.lru.Get(key); ok {
		metrics.IncludeCacheHits.Inc()
		return v.(*parsedIncludes), nil
	}

	metrics.IncludeCacheMisses.Inc()
	p, err := eval()
	if err != nil {
		return nil, err
	}
	c.lru.Add(key, p)
	return p, nil
}

func parseIncludes(spec string, limit int) (*parsedIncludes, error) {
	key := strconv.Itoa(limit) + "|" + spec
	return includeCache.Get(key, func() (*parsedIncludes, error) {
		return parseIncludesUncached(spec, limit)
	})
}

func parseIncludesUncached(spec string, limit int) (*parsedIncludes, error) {
	p := &parsedIncludes{params: make(map[string]resource.ParamBag)}

	includes, err := splitIncludes(spec)
	if err != nil {
		return nil, err
	}

	for _, include := range includes {
		name, modifiers, _ := strings.Cut(include, ":")
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, &IncludeError{Spec: include, Reason: "missing include name"}
		}
		if !validIncludeName(name) {
			return nil, &IncludeError{Spec: include, Reason: "malformed include name " + strconv.Quote(name)}
		}
		name = trimToLimit(name, limit)

		p.add(name)

		if modifiers == "" {
			continue
		}

		params, err := parseModifiers(modifiers)
		if err != nil {
			return nil, &IncludeError{Spec: include, Reason: err.Error()}
		}
		p.params[name] = params
	}

	// Request the parents of nested includes, so "a.b.c" also requests
	// "a" and "a.b".
	for _, path := range p.paths {
		for i := range len(path) {
			if path[i] == '.' {
				p.add(path[:i])
			}
		}
	}

	return p, nil
}

func (p *parsedIncludes) add(path string) {
	for _, x := range p.paths {
		if x == path {
			return
		}
	}
	p.paths = append(p.paths, path)
}

// parseModifiers parses "limit(5|1):order(id|desc)".
func parseModifiers(s string) (resource.ParamBag, error) {
	params := resource.ParamBag{}
	for _, mod := range strings.Split(s, ":") {
		mod = strings.TrimSpace(mod)
		if mod == "" {
			continue
		}

		name, rest, hasArgs := strings.Cut(mod, "(")
		if !validModifierName(name) {
			return nil, &modifierError{mod}
		}
		if !hasArgs {
			params[name] = nil
			continue
		}

		args, ok := strings.CutSuffix(rest, ")")
		if !ok || strings.ContainsAny(args, "()") {
			return nil, &modifierError{mod}
		}
		params[name] = strings.Split(args, paramDelimiter)
	}
	return params, nil
}

type modifierError struct {
	modifier string
}

func (e *modifierError) Error() string {
	return "malformed modifier " + strconv.Quote(e.modifier)
}

func validModifierName(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r != '_' && (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}

// validIncludeName reports whether every dotted segment of name is made of
// letters, digits, underscores and hyphens.
func validIncludeName(name string) bool {
	for _, seg := range strings.Split(name, ".") {
		if !validModifierName(strings.ReplaceAll(seg, "-", "_")) {
			return false
		}
	}
	return true
}

// splitIncludes splits on commas that are not inside modifier arguments.
// Parentheses must be balanced.
func splitIncludes(s string) ([]string, error) {
	var (
		out   []string
		depth int
		start int
	)
	for i := range len(s) {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				return nil, &IncludeError{Spec: s, Reason: "unexpected ')' at offset " + strconv.Itoa(i)}
			}
		case ',':
			if depth == 0 {
				out = appendTrimmed(out, s[start:i])
				start = i + 1
			}
		}
	}
	if depth != 0 {
		return nil, &IncludeError{Spec: s, Reason: "unbalanced parentheses"}
	}
	return appendTrimmed(out, s[start:]), nil
}

func splitList(s string) []string {
	var out []string
	for _, x := range strings.Split(s, ",") {
		out = appendTrimmed(out, x)
	}
	return out
}

func appendTrimmed(xs []string, x string) []string {
	if x = strings.TrimSpace(x); x != "" {
		return append(xs, x)
	}
	return xs
}

// trimToLimit drops path segments beyond the recursion limit.
func trimToLimit(path string, limit int) string {
	parts := strings.Split(path, ".")
	if len(parts) <= limit {
		return path
	}
	return strings.Join(parts[:limit], ".")
}
