package resource

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestResourceKey(t *testing.T) {
	if k := NewItem(1, nil).ResourceKey(); k != "" {
		t.Fatalf("expected empty key, got %q", k)
	}
	if k := NewCollection(nil, nil, "users", "ignored").ResourceKey(); k != "users" {
		t.Fatalf("expected users, got %q", k)
	}
	if k := NewNull().ResourceKey(); k != "" {
		t.Fatalf("expected empty key, got %q", k)
	}
}

func TestSetMetaValue(t *testing.T) {
	meta := map[string]any{"a": 1}

	item := NewItem(nil, nil)
	item.SetMeta(meta)
	item.SetMetaValue("b", 2)

	if diff := cmp.Diff(map[string]any{"a": 1}, meta); diff != "" {
		t.Fatalf("caller's meta was modified (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[string]any{"a": 1, "b": 2}, item.Meta()); diff != "" {
		t.Fatalf("unexpected meta (-want +got):\n%s", diff)
	}

	null := NewNull()
	null.SetMetaValue("x", true)
	if diff := cmp.Diff(map[string]any{"x": true}, null.Meta()); diff != "" {
		t.Fatalf("unexpected meta (-want +got):\n%s", diff)
	}
}

func TestCollectionEach(t *testing.T) {
	type pair struct {
		i int
		v any
	}

	testCases := []struct {
		note string
		data any
		len  int
		exp  []pair
		err  error
	}{
		{
			note: "nil",
			data: nil,
			len:  0,
		},
		{
			note: "untyped slice",
			data: []any{"a", 1},
			len:  2,
			exp:  []pair{{0, "a"}, {1, 1}},
		},
		{
			note: "typed slice",
			data: []string{"x", "y", "z"},
			len:  3,
			exp:  []pair{{0, "x"}, {1, "y"}, {2, "z"}},
		},
		{
			note: "array",
			data: [2]int{4, 5},
			len:  2,
			exp:  []pair{{0, 4}, {1, 5}},
		},
		{
			note: "empty slice",
			data: []int{},
			len:  0,
		},
		{
			note: "not a sequence",
			data: map[string]int{"a": 1},
			len:  -1,
			err:  ErrNotCollection,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.note, func(t *testing.T) {
			c := NewCollection(tc.data, nil)
			if c.Len() != tc.len {
				t.Fatalf("expected len %d, got %d", tc.len, c.Len())
			}

			var act []pair
			err := c.Each(func(i int, v any) error {
				act = append(act, pair{i, v})
				return nil
			})
			if !errors.Is(err, tc.err) {
				t.Fatalf("expected error %v, got %v", tc.err, err)
			}
			if diff := cmp.Diff(tc.exp, act, cmp.AllowUnexported(pair{})); diff != "" {
				t.Fatalf("unexpected elements (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCollectionEachStops(t *testing.T) {
	stop := errors.New("stop")
	n := 0
	err := NewCollection([]int{1, 2, 3}, nil).Each(func(int, any) error {
		n++
		return stop
	})
	if !errors.Is(err, stop) {
		t.Fatalf("expected stop, got %v", err)
	}
	if n != 1 {
		t.Fatalf("expected one call, got %d", n)
	}
}

func TestStructTransformer(t *testing.T) {
	type address struct {
		City string `json:"city"`
	}
	type user struct {
		ID      int     `json:"id"`
		Name    string  `json:"name"`
		Address address `json:"address"`
	}

	testCases := []struct {
		note  string
		input any
		exp   map[string]any
		err   bool
	}{
		{
			note:  "struct",
			input: user{ID: 1, Name: "Alice", Address: address{City: "Berlin"}},
			exp:   map[string]any{"id": 1, "name": "Alice", "address": map[string]any{"city": "Berlin"}},
		},
		{
			note:  "pointer",
			input: &user{ID: 2},
			exp:   map[string]any{"id": 2, "name": "", "address": map[string]any{"city": ""}},
		},
		{
			note:  "map",
			input: map[string]any{"id": 3},
			exp:   map[string]any{"id": 3},
		},
		{
			note:  "nil",
			input: nil,
		},
		{
			note:  "scalar",
			input: 42,
			err:   true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.note, func(t *testing.T) {
			act, err := StructTransformer().Transform(tc.input)
			if tc.err {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tc.exp, act); diff != "" {
				t.Fatalf("unexpected output (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParamBag(t *testing.T) {
	var empty ParamBag
	if empty.Get("limit") != nil || empty.First("limit") != "" {
		t.Fatal("expected nil bag to be empty")
	}

	p := ParamBag{"limit": {"5", "1"}}
	if diff := cmp.Diff([]string{"5", "1"}, p.Get("limit")); diff != "" {
		t.Fatalf("unexpected values (-want +got):\n%s", diff)
	}
	if p.First("limit") != "5" {
		t.Fatalf("expected 5, got %q", p.First("limit"))
	}
	if p.First("order") != "" {
		t.Fatal("expected empty value for missing modifier")
	}
}
