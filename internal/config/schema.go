package config

import (
	"bytes"
	"encoding/json"

	"github.com/santhosh-tekuri/jsonschema/v6"
	schemareflector "github.com/swaggest/jsonschema-go"
)

//go:generate go run ../../build/gen-config-schema.go ../../build/config-schema.json

var rootSchema *jsonschema.Schema

func init() {
	bs, err := ReflectSchema()
	if err != nil {
		panic(err)
	}

	js, err := jsonschema.UnmarshalJSON(bytes.NewReader(bs))
	if err != nil {
		panic(err)
	}
	compiler := jsonschema.NewCompiler()
	compiler.DefaultDraft(jsonschema.Draft2020)
	if err := compiler.AddResource("schema.json", js); err != nil {
		panic(err)
	}

	rootSchema, err = compiler.Compile("schema.json")
	if err != nil {
		panic(err)
	}
}

// ReflectSchema returns the JSON schema of Root.
func ReflectSchema() ([]byte, error) {
	reflector := schemareflector.Reflector{}

	s, err := reflector.Reflect(Root{})
	if err != nil {
		return nil, err
	}

	return json.MarshalIndent(s, "", "  ")
}

// Sections may be left empty in YAML:
//
//	logging:
//	output:
//	  format: yaml
func (*Logging) PrepareJSONSchema(schema *schemareflector.Schema) error {
	schema.AddType(schemareflector.Null)
	return nil
}

func (*Output) PrepareJSONSchema(schema *schemareflector.Schema) error {
	schema.AddType(schemareflector.Null)
	return nil
}
