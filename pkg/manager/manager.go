package manager

import (
	"maps"
	"slices"
	"strings"

	"github.com/gobwas/glob"

	"github.com/rkulik/fractal/internal/logging"
	"github.com/rkulik/fractal/pkg/engine"
	"github.com/rkulik/fractal/pkg/resource"
	"github.com/rkulik/fractal/pkg/serializer"
)

// DefaultRecursionLimit bounds the number of segments in an include path.
const DefaultRecursionLimit = 10

// Manager is the reference engine.Engine. It records which relations were
// requested and creates scopes that render resources with a serializer.
type Manager struct {
	serializer     serializer.Serializer
	recursionLimit int
	log            *logging.Logger

	includes      []string
	includeParams map[string]resource.ParamBag
	excludes      []string
	fieldsets     map[string]*fieldset
}

var _ engine.Engine = (*Manager)(nil)

type fieldset struct {
	fields   []string
	patterns []glob.Glob
}

func (f *fieldset) Match(name string) bool {
	return slices.ContainsFunc(f.patterns, func(g glob.Glob) bool { return g.Match(name) })
}

// New returns a manager using the DataArray serializer.
func New() *Manager {
	return &Manager{
		serializer:     serializer.DataArray{},
		recursionLimit: DefaultRecursionLimit,
		log:            logging.NewNoOpLogger(),
	}
}

func (m *Manager) WithSerializer(s serializer.Serializer) *Manager {
	if s != nil {
		m.serializer = s
	}
	return m
}

// WithRecursionLimit sets the maximum include depth. Values below 1 are
// ignored.
func (m *Manager) WithRecursionLimit(n int) *Manager {
	if n > 0 {
		m.recursionLimit = n
	}
	return m
}

func (m *Manager) WithLogger(l *logging.Logger) *Manager {
	if l != nil {
		m.log = l
	}
	return m
}

func (m *Manager) Serializer() serializer.Serializer {
	return m.serializer
}

func (m *Manager) RecursionLimit() int {
	return m.recursionLimit
}

// ParseIncludes replaces the requested includes. Each argument may be a
// comma separated list. Parents of nested includes are requested
// implicitly, so "author.posts" also requests "author".
func (m *Manager) ParseIncludes(includes ...string) error {
	parsed, err := parseIncludes(strings.Join(includes, ","), m.recursionLimit)
	if err != nil {
		return err
	}

	m.includes = slices.Clone(parsed.paths)
	m.includeParams = cloneParams(parsed.params)
	m.log.Debugf("Requested includes: %v", m.includes)
	return nil
}

// ParseExcludes replaces the excluded relations. Parents are not excluded
// implicitly.
func (m *Manager) ParseExcludes(excludes ...string) error {
	var out []string
	for _, e := range splitList(strings.Join(excludes, ",")) {
		e = trimToLimit(e, m.recursionLimit)
		if !slices.Contains(out, e) {
			out = append(out, e)
		}
	}

	m.excludes = out
	m.log.Debugf("Requested excludes: %v", m.excludes)
	return nil
}

// ParseFieldsets replaces the sparse fieldsets. Keys are resource keys,
// values comma separated field names or glob patterns.
func (m *Manager) ParseFieldsets(fieldsets map[string]string) error {
	out := make(map[string]*fieldset, len(fieldsets))
	for _, key := range slices.Sorted(maps.Keys(fieldsets)) {
		fs := &fieldset{}
		for _, field := range splitList(fieldsets[key]) {
			if slices.Contains(fs.fields, field) {
				continue
			}
			g, err := glob.Compile(field)
			if err != nil {
				return &IncludeError{Spec: field, Reason: "invalid fieldset pattern for " + key + ": " + err.Error()}
			}
			fs.fields = append(fs.fields, field)
			fs.patterns = append(fs.patterns, g)
		}
		out[key] = fs
	}

	m.fieldsets = out
	return nil
}

// RequestedIncludes returns the requested include paths, parents included.
func (m *Manager) RequestedIncludes() []string {
	return slices.Clone(m.includes)
}

func (m *Manager) RequestedExcludes() []string {
	return slices.Clone(m.excludes)
}

// Fieldset returns the requested fields for a resource key.
func (m *Manager) Fieldset(key string) ([]string, bool) {
	fs, ok := m.fieldsets[key]
	if !ok {
		return nil, false
	}
	return slices.Clone(fs.fields), true
}

// cloneParams deep copies cached params, so includers may modify the bags
// they are given.
func cloneParams(params map[string]resource.ParamBag) map[string]resource.ParamBag {
	out := make(map[string]resource.ParamBag, len(params))
	for path, bag := range params {
		c := make(resource.ParamBag, len(bag))
		for name, args := range bag {
			c[name] = slices.Clone(args)
		}
		out[path] = c
	}
	return out
}

// IncludeParams returns the modifiers given for an include path.
func (m *Manager) IncludeParams(path string) resource.ParamBag {
	return m.includeParams[path]
}

// CreateData binds r to the manager's current requests.
func (m *Manager) CreateData(r resource.Resource) engine.Scope {
	return m.createScope(r, nil)
}

func (m *Manager) createScope(r resource.Resource, identifiers []string) *Scope {
	return &Scope{manager: m, resource: r, identifiers: identifiers}
}
