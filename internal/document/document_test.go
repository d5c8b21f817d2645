package document

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/rkulik/fractal/pkg/manager"
	"github.com/rkulik/fractal/pkg/resource"
)

func users() []any {
	return []any{
		map[string]any{
			"id":      "alice",
			"tags":    []any{"a", "b"},
			"address": map[string]any{"city": "Berlin"},
			"posts": []any{
				map[string]any{"id": 1, "author": map[string]any{"id": "alice"}},
				map[string]any{"id": 2},
				map[string]any{"id": 3},
			},
		},
		map[string]any{
			"id":    "bob",
			"tags":  []any{},
			"posts": []any{},
		},
	}
}

func TestTransformer(t *testing.T) {
	tr := New(users())

	if diff := cmp.Diff([]string{"address", "posts"}, tr.AvailableIncludes()); diff != "" {
		t.Fatalf("unexpected includes (-want +got):\n%s", diff)
	}
	if tr.DefaultIncludes() != nil {
		t.Fatal("expected no default includes")
	}

	act, err := tr.Transform(users()[0])
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(map[string]any{"id": "alice", "tags": []any{"a", "b"}}, act); diff != "" {
		t.Fatalf("unexpected output (-want +got):\n%s", diff)
	}

	if _, err := tr.Transform("alice"); err == nil {
		t.Fatal("expected error for non-object")
	}
}

func TestInclude(t *testing.T) {
	tr := New(users())
	alice, bob := users()[0], users()[1]

	r, err := tr.Include("address", bob, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := r.(*resource.Null); !ok {
		t.Fatalf("expected null for missing relation, got %T", r)
	}

	r, err = tr.Include("address", alice, nil)
	if err != nil {
		t.Fatal(err)
	}
	if item, ok := r.(*resource.Item); !ok || item.ResourceKey() != "address" {
		t.Fatalf("expected address item, got %T", r)
	}

	r, err = tr.Include("posts", alice, resource.ParamBag{LimitModifier: {"1", "1"}})
	if err != nil {
		t.Fatal(err)
	}
	c, ok := r.(*resource.Collection)
	if !ok {
		t.Fatalf("expected collection, got %T", r)
	}
	if diff := cmp.Diff([]any{map[string]any{"id": 2}}, c.Data()); diff != "" {
		t.Fatalf("unexpected limited posts (-want +got):\n%s", diff)
	}

	if _, err := tr.Include("posts", alice, resource.ParamBag{LimitModifier: {"x"}}); err == nil {
		t.Fatal("expected error for invalid limit")
	}
	if _, err := tr.Include("id", alice, nil); err == nil {
		t.Fatal("expected error for scalar relation")
	}
}

func TestLimit(t *testing.T) {
	xs := []any{1, 2, 3}

	testCases := []struct {
		note string
		args []string
		exp  []any
	}{
		{"none", nil, xs},
		{"count", []string{"2"}, []any{1, 2}},
		{"count and offset", []string{"5", "1"}, []any{2, 3}},
		{"offset past end", []string{"1", "3"}, []any{}},
		{"zero", []string{"0"}, []any{}},
	}

	for _, tc := range testCases {
		t.Run(tc.note, func(t *testing.T) {
			act, err := limit(xs, tc.args)
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tc.exp, act); diff != "" {
				t.Fatalf("unexpected result (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRender(t *testing.T) {
	m := manager.New()
	if err := m.ParseIncludes("posts:limit(2),posts.author"); err != nil {
		t.Fatal(err)
	}

	act, err := m.CreateData(Resource(users(), "users")).ToMap()
	if err != nil {
		t.Fatal(err)
	}

	exp := map[string]any{
		"data": []any{
			map[string]any{
				"id":   "alice",
				"tags": []any{"a", "b"},
				"posts": map[string]any{
					"data": []any{
						map[string]any{"id": 1, "author": map[string]any{"data": map[string]any{"id": "alice"}}},
						map[string]any{"id": 2, "author": map[string]any{"data": []any{}}},
					},
				},
			},
			map[string]any{
				"id":    "bob",
				"tags":  []any{},
				"posts": map[string]any{"data": []any{}},
			},
		},
	}
	if diff := cmp.Diff(exp, act); diff != "" {
		t.Fatalf("unexpected output (-want +got):\n%s", diff)
	}
}

func TestResource(t *testing.T) {
	if _, ok := Resource(nil, "").(*resource.Null); !ok {
		t.Fatal("expected null")
	}
	if _, ok := Resource([]any{}, "").(*resource.Collection); !ok {
		t.Fatal("expected collection")
	}
	if _, ok := Resource(map[string]any{}, "").(*resource.Item); !ok {
		t.Fatal("expected item")
	}
}
