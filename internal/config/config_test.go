package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/rkulik/fractal/internal/config"
)

func TestParse(t *testing.T) {
	result, err := config.Parse([]byte(`{
		serializer: array,
		recursion_limit: 3,
		logging: {level: debug},
		output: {format: yaml, pretty: true}
	}`))
	if err != nil {
		t.Fatal(err)
	}

	exp := &config.Root{
		Serializer:     "array",
		RecursionLimit: 3,
		Logging:        &config.Logging{Level: "debug", Format: "text"},
		Output:         &config.Output{Format: "yaml", Pretty: true},
	}

	if diff := cmp.Diff(exp, result, cmpopts.IgnoreUnexported(config.Root{}, config.Logging{}, config.Output{})); diff != "" {
		t.Fatalf("unexpected config (-want +got):\n%s", diff)
	}
}

func TestParseDefaults(t *testing.T) {
	result, err := config.Parse(nil)
	if err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff(config.Default(), result, cmpopts.IgnoreUnexported(config.Root{}, config.Logging{}, config.Output{})); diff != "" {
		t.Fatalf("unexpected config (-want +got):\n%s", diff)
	}

	if result.RecursionLimit != config.DefaultRecursionLimit {
		t.Fatalf("expected recursion limit %d, got %d", config.DefaultRecursionLimit, result.RecursionLimit)
	}
}

func TestParseEmptySections(t *testing.T) {
	result, err := config.Parse([]byte("logging:\noutput:\n  format: table\n"))
	if err != nil {
		t.Fatal(err)
	}
	if result.Output.Format != "table" || result.Logging.Level != "info" {
		t.Fatalf("unexpected config: %+v %+v", result.Output, result.Logging)
	}
}

func TestValidateRejects(t *testing.T) {
	for _, tc := range []struct {
		name string
		doc  string
	}{
		{name: "unknown key", doc: `{unknown: true}`},
		{name: "bad serializer", doc: `{serializer: jsonapi}`},
		{name: "bad output format", doc: `{output: {format: xml}}`},
		{name: "zero recursion limit", doc: `{recursion_limit: 0}`},
		{name: "unknown nested key", doc: `{logging: {colour: true}}`},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := config.Parse([]byte(tc.doc)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("FRACTAL_SERIALIZER", "array")
	t.Setenv("FRACTAL_RECURSION_LIMIT", "4")
	t.Setenv("FRACTAL_LOG_LEVEL", "warn")

	result, err := config.Parse([]byte(`{serializer: data, recursion_limit: 8}`))
	if err != nil {
		t.Fatal(err)
	}

	if result.Serializer != "array" || result.RecursionLimit != 4 || result.Logging.Level != "warn" {
		t.Fatalf("env overrides not applied: %+v %+v", result, result.Logging)
	}

	lc, err := result.LoggerConfig()
	if err != nil {
		t.Fatal(err)
	}
	if lc.Level.String() != "warn" {
		t.Fatalf("expected warn level, got %v", lc.Level)
	}
}

func TestLoadMerge(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.yaml"), "serializer: array\nlogging:\n  level: debug\n")
	writeFile(t, filepath.Join(dir, "b.yaml"), "logging:\n  format: json\noutput:\n  pretty: true\n")

	result, err := config.Load([]string{filepath.Join(dir, "a.yaml"), filepath.Join(dir, "b.yaml")})
	if err != nil {
		t.Fatal(err)
	}

	if result.Serializer != "array" || result.Logging.Level != "debug" || result.Logging.Format != "json" || !result.Output.Pretty {
		t.Fatalf("unexpected merged config: %+v %+v %+v", result, result.Logging, result.Output)
	}
}

func TestMergeConflict(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.yaml"), "serializer: array\n")
	writeFile(t, filepath.Join(dir, "b.yaml"), "serializer: data\n")

	_, err := config.Merge([]string{dir}, true)
	if err == nil || !strings.Contains(err.Error(), "/serializer") {
		t.Fatalf("expected conflict error, got %v", err)
	}

	bs, err := config.Merge([]string{dir}, false)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(bs), "serializer: data") {
		t.Fatalf("expected later file to win, got %s", bs)
	}
}

func TestReflectSchema(t *testing.T) {
	bs, err := config.ReflectSchema()
	if err != nil {
		t.Fatal(err)
	}
	for _, s := range []string{`"serializer"`, `"recursion_limit"`, `"additionalProperties": false`} {
		if !strings.Contains(string(bs), s) {
			t.Errorf("expected schema to contain %s", s)
		}
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}
