package resource

import (
	"fmt"
	"reflect"

	"github.com/go-viper/mapstructure/v2"
)

// Transformer turns one domain value into a plain map.
type Transformer interface {
	Transform(v any) (map[string]any, error)
}

// TransformerFunc adapts an ordinary function to the Transformer interface.
type TransformerFunc func(v any) (map[string]any, error)

func (f TransformerFunc) Transform(v any) (map[string]any, error) {
	return f(v)
}

// Includer is implemented by transformers that expose related resources.
//
// Default includes are always embedded unless excluded. Available includes
// are embedded only when requested by the caller. Include is called once per
// embedded relation with the same value that was passed to Transform.
type Includer interface {
	AvailableIncludes() []string
	DefaultIncludes() []string
	Include(name string, v any, params ParamBag) (Resource, error)
}

// StructTransformer returns a transformer that decodes a struct (or a map)
// into a map keyed by the `json` tags of its fields.
func StructTransformer() Transformer {
	return TransformerFunc(decodeStruct)
}

func decodeStruct(v any) (map[string]any, error) {
	if v == nil {
		return nil, nil
	}

	rv := reflect.Indirect(reflect.ValueOf(v))
	switch rv.Kind() {
	case reflect.Struct, reflect.Map:
	default:
		return nil, fmt.Errorf("struct transformer: cannot transform %T", v)
	}

	out := make(map[string]any)
	config := &mapstructure.DecoderConfig{
		TagName: "json",
		Squash:  true,
		Result:  &out,
	}

	decoder, err := mapstructure.NewDecoder(config)
	if err != nil {
		return nil, err
	}

	if err := decoder.Decode(v); err != nil {
		return nil, fmt.Errorf("struct transformer: %w", err)
	}

	return out, nil
}
