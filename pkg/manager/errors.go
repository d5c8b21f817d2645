package manager

import (
	"errors"
	"fmt"

	"github.com/rkulik/fractal/pkg/resource"
)

// ErrNoTransformer is returned when an item or collection has no transformer.
var ErrNoTransformer = errors.New("resource has no transformer")

// IncludeError reports a malformed include, exclude or fieldset request.
type IncludeError struct {
	Spec   string
	Reason string
}

func (e *IncludeError) Error() string {
	return fmt.Sprintf("invalid include %q: %s", e.Spec, e.Reason)
}

// TransformError wraps a failure raised while transforming a resource. Path
// is the dotted include path of the failing scope, empty at the root.
type TransformError struct {
	Path string
	Key  string
	Err  error
}

func (e *TransformError) Error() string {
	where := "root resource"
	if e.Path != "" {
		where = fmt.Sprintf("include %q", e.Path)
	}
	if e.Key != "" {
		where += fmt.Sprintf(" (%s)", e.Key)
	}
	return fmt.Sprintf("failed to transform %s: %v", where, e.Err)
}

func (e *TransformError) Unwrap() error {
	return e.Err
}

// errorType classifies err for metrics labels.
func errorType(err error) string {
	var ie *IncludeError
	switch {
	case errors.Is(err, resource.ErrNotCollection):
		return "not_collection"
	case errors.Is(err, ErrNoTransformer):
		return "no_transformer"
	case errors.As(err, &ie):
		return "include"
	}
	var te *TransformError
	if errors.As(err, &te) {
		return "transform"
	}
	return "other"
}
