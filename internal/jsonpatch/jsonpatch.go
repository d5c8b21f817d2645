// Package jsonpatch applies RFC 6902 patches to resolved output documents.
package jsonpatch

import (
	"encoding/json"
	"fmt"

	jp "github.com/evanphx/json-patch/v5"
)

type PatchError struct {
	msg string
}

func (p *PatchError) Error() string {
	return p.msg
}

type Patch = jp.Patch

var opts = jp.ApplyOptions{
	EnsurePathExistsOnAdd:    true,
	AllowMissingPathOnRemove: true,
}

// Decode parses a JSON patch document and rejects operations other than
// add, remove and replace.
func Decode(bs []byte) (Patch, error) {
	p, err := jp.DecodePatch(bs)
	if err != nil {
		return nil, &PatchError{fmt.Sprintf("invalid patch: %v", err)}
	}
	if err := check(p); err != nil {
		return nil, err
	}
	return p, nil
}

// Apply patches doc and returns the patched copy. doc is left untouched.
func Apply(p Patch, doc map[string]any) (map[string]any, error) {
	if len(p) == 0 {
		return doc, nil
	}
	if err := check(p); err != nil {
		return nil, err
	}

	bs, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}

	patched, err := p.ApplyWithOptions(bs, &opts)
	if err != nil {
		return nil, &PatchError{fmt.Sprintf("failed to apply patch: %v", err)}
	}

	var out map[string]any
	if err := json.Unmarshal(patched, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func check(p Patch) error {
	for _, op := range p {
		switch op.Kind() {
		case "replace", "remove", "add": // OK
		default:
			return &PatchError{fmt.Sprintf("unsupported patch operation %q, must be one of \"replace\", \"add\", \"remove\"", op.Kind())}
		}
	}
	return nil
}
