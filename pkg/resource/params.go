package resource

// ParamBag holds the modifiers given with an include, e.g.
// `comments:limit(5|1):order(created_at|desc)` yields
// {"limit": ["5", "1"], "order": ["created_at", "desc"]}.
type ParamBag map[string][]string

// Get returns the values of a modifier, or nil.
func (p ParamBag) Get(name string) []string {
	if p == nil {
		return nil
	}
	return p[name]
}

// First returns the first value of a modifier, or the empty string.
func (p ParamBag) First(name string) string {
	vs := p.Get(name)
	if len(vs) == 0 {
		return ""
	}
	return vs[0]
}
