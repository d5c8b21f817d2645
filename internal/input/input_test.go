package input

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLoad(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/users":
			if r.Header.Get("Authorization") != "Bearer x" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			w.Header().Add("content-type", "application/json")
			w.Write([]byte(`[{"id": "alice"}]`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	file := filepath.Join(dir, "user.yaml")
	if err := os.WriteFile(file, []byte("id: bob\nroles:\n  - viewer\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	testCases := []struct {
		note   string
		source *Source
		exp    any
		err    string
	}{
		{
			note:   "file",
			source: New(file),
			exp:    map[string]any{"id": "bob", "roles": []any{"viewer"}},
		},
		{
			note:   "stdin",
			source: New(Stdin).WithStdin(strings.NewReader(`{"id": "carol"}`)),
			exp:    map[string]any{"id": "carol"},
		},
		{
			note:   "empty stdin",
			source: New(Stdin).WithStdin(strings.NewReader("\n")),
			exp:    nil,
		},
		{
			note:   "http",
			source: New(srv.URL + "/users").WithHeaders(map[string]string{"Authorization": "Bearer x"}),
			exp:    []any{map[string]any{"id": "alice"}},
		},
		{
			note:   "http unauthorized",
			source: New(srv.URL + "/users"),
			err:    "unsuccessful status code 401",
		},
		{
			note:   "missing file",
			source: New(filepath.Join(dir, "missing.json")),
			err:    "failed to read",
		},
		{
			note:   "invalid document",
			source: New(Stdin).WithStdin(strings.NewReader("{")),
			err:    "failed to decode",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.note, func(t *testing.T) {
			act, err := tc.source.Load(context.Background())
			if tc.err != "" {
				if err == nil || !strings.Contains(err.Error(), tc.err) {
					t.Fatalf("expected error containing %q, got %v", tc.err, err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tc.exp, act); diff != "" {
				t.Fatalf("unexpected document (-want +got):\n%s", diff)
			}
		})
	}
}
