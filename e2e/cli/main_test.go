//go:build e2e

package cli

import (
	"cmp"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"
)

func testServer() *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /users", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Add("content-type", "application/json")
		if err := json.NewEncoder(w).Encode([]map[string]any{
			{
				"id":    "alice",
				"roles": []string{"admin", "editor"},
				"team":  map[string]any{"name": "core"},
			},
			{
				"id":    "bob",
				"roles": []string{"viewer"},
			},
		}); err != nil {
			fmt.Fprintln(w, err.Error())
		}
	})

	return httptest.NewServer(mux)
}

func TestScript(t *testing.T) {
	fractal := cmp.Or(os.Getenv("FRACTAL"), "fractal")
	srv := testServer()
	t.Cleanup(srv.Close)
	endpoint := srv.Listener.Addr().String()

	testscript.Run(t, testscript.Params{
		Dir: ".",
		Setup: func(e *testscript.Env) error {
			e.Vars = append(e.Vars,
				"HTTP_ENDPOINT="+endpoint,
				"FRACTAL="+fractal,
			)
			for _, kv := range os.Environ() {
				if strings.HasPrefix(kv, "E2E_") {
					e.Vars = append(e.Vars, kv)
				}
			}
			return nil
		},
		Condition: func(cond string) (bool, error) {
			args := strings.Split(cond, ":")
			name := args[0]
			switch name {
			case "env":
				if len(args) < 2 {
					return false, fmt.Errorf("syntax: [env:SOME_VAR]")
				}
				return os.Getenv(args[1]) != "", nil
			default:
				return false, fmt.Errorf("unknown condition %s", name)
			}
		},
		// NB: To quickly update expectations in txtar files, try re-running the tests with
		// E2E_UPDATE=y, for example:
		//   E2E_UPDATE=y go test -tags e2e ./e2e/cli -run TestScript/render_includes -v -count=1
		UpdateScripts: os.Getenv("E2E_UPDATE") != "",
	})
}
